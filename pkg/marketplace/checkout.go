package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/agbado/pkg/models"
	"github.com/example/agbado/pkg/store"
	"go.uber.org/zap"
)

// PlaceOrderInput is accepted at face value: Total is not checked against
// the cart.
type PlaceOrderInput struct {
	UserID          string `json:"userId" validate:"required"`
	Total           int    `json:"total" validate:"gte=0"`
	ShippingAddress string `json:"shippingAddress" validate:"required"`
}

type BookingInput struct {
	UserID             string    `json:"userId" validate:"required"`
	ProviderID         string    `json:"providerId" validate:"required"`
	ServiceDescription string    `json:"serviceDescription" validate:"required"`
	ScheduledDate      time.Time `json:"scheduledDate" validate:"required"`
	TotalCost          int       `json:"totalCost" validate:"gte=0"`
}

// OrderDetail is an order with the cart lines it was placed from.
type OrderDetail struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

// PlaceOrder turns the user's cart into a pending order and leaves the cart
// empty. It holds the user's cart lock throughout, so an item added
// concurrently lands either in the order or in the cart that follows it.
//
// The cart is drained before the order is written. A failure at any step
// puts the drained rows back and removes the partial order.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(in.UserID)
	defer unlock()
	defer s.invalidateCart(in.UserID)

	items, err := s.store.ListCartItems(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	drained := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if _, err := s.store.DeleteCartItem(ctx, item.ID); err != nil {
			s.restoreCart(drained)
			return nil, fmt.Errorf("drain cart item %s: %w", item.ID, err)
		}
		drained = append(drained, item)
	}

	order, err := s.store.CreateOrder(ctx, models.Order{
		UserID:          in.UserID,
		Total:           in.Total,
		Status:          models.OrderPending,
		ShippingAddress: in.ShippingAddress,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		s.restoreCart(drained)
		return nil, fmt.Errorf("create order: %w", err)
	}

	for _, item := range drained {
		price, err := s.unitPrice(ctx, item.ProductID)
		if err == nil {
			_, err = s.store.CreateOrderItem(ctx, models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     price,
			})
		}
		if err != nil {
			s.discardOrder(order.ID)
			s.restoreCart(drained)
			return nil, fmt.Errorf("record order item %s: %w", item.ProductID, err)
		}
	}

	s.publish(Event{
		Kind:     EventOrderPlaced,
		UserID:   order.UserID,
		EntityID: order.ID,
		Amount:   order.Total,
		At:       order.CreatedAt,
	})
	return order, nil
}

func (s *Service) unitPrice(ctx context.Context, productID string) (int, error) {
	p, err := s.store.GetProduct(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.Price, nil
}

// restoreCart and discardOrder run on a fresh context: the compensation
// must happen even if the request context is already cancelled.
func (s *Service) restoreCart(items []models.CartItem) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, item := range items {
		if _, err := s.store.CreateCartItem(ctx, item); err != nil {
			s.logger.Error("Failed to restore cart item",
				zap.String("user_id", item.UserID),
				zap.String("cart_item_id", item.ID),
				zap.Error(err))
		}
	}
}

func (s *Service) discardOrder(orderID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		s.logger.Error("Failed to discard partial order", zap.String("order_id", orderID), zap.Error(err))
	}
}

func (s *Service) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*OrderDetail, error) {
	o, err := s.store.GetOrder(ctx, id)
	order, err := lookup(o, err, "order", id)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListOrderItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return &OrderDetail{Order: *order, Items: items}, nil
}

// CreateBooking records a pending booking. The provider is not required to
// exist.
func (s *Service) CreateBooking(ctx context.Context, in BookingInput) (*models.Booking, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	booking, err := s.store.CreateBooking(ctx, models.Booking{
		UserID:             in.UserID,
		ProviderID:         in.ProviderID,
		ServiceDescription: in.ServiceDescription,
		ScheduledDate:      in.ScheduledDate,
		Status:             models.BookingPending,
		TotalCost:          in.TotalCost,
		CreatedAt:          time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.publish(Event{
		Kind:     EventBookingCreated,
		UserID:   booking.UserID,
		EntityID: booking.ID,
		Amount:   booking.TotalCost,
		At:       booking.CreatedAt,
	})
	return booking, nil
}

func (s *Service) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.store.ListBookings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
