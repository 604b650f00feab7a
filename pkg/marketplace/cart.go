package marketplace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/example/agbado/pkg/models"
	"github.com/example/agbado/pkg/store"
	"go.uber.org/zap"
)

// CartLine is a cart row joined with its product. Product is nil when the
// product no longer exists.
type CartLine struct {
	models.CartItem
	Product *models.Product `json:"product"`
}

// CartView is a user's cart with derived totals. Lines with a missing
// product count as price zero.
type CartView struct {
	UserID     string     `json:"userId"`
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int        `json:"totalPrice"`
}

// MaxQuantity caps a single cart row.
const MaxQuantity = math.MaxInt32

type AddToCartInput struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1,max=2147483647"`
}

// Cart returns the user's cart joined with product data.
func (s *Service) Cart(ctx context.Context, userID string) (*CartView, error) {
	if s.cache != nil {
		cart, err := s.cache.GetCart(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("Cart cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	// Joined callers share the fill, so it must not die with the first
	// caller's request.
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		unlock := s.locks.lock(userID)
		defer unlock()

		cart, err := s.buildCart(fillCtx, userID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetCart(fillCtx, userID, cart); err != nil {
				s.logger.Warn("Cart cache write failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CartView), nil
}

func (s *Service) buildCart(ctx context.Context, userID string) (*CartView, error) {
	items, err := s.store.ListCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	cart := &CartView{UserID: userID, Items: make([]CartLine, 0, len(items))}
	for _, item := range items {
		line := CartLine{CartItem: item}
		product, err := s.store.GetProduct(ctx, item.ProductID)
		switch {
		case err == nil:
			line.Product = product
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("get product %s: %w", item.ProductID, err)
		}
		cart.Items = append(cart.Items, line)
	}
	cart.TotalItems, cart.TotalPrice = totals(cart.Items)
	return cart, nil
}

func totals(lines []CartLine) (items, price int) {
	for _, l := range lines {
		items += l.Quantity
		if l.Product != nil {
			price += l.Product.Price * l.Quantity
		}
	}
	return items, price
}

// AddToCart merges into the user's existing row for the product, or creates
// one. The product is not required to exist.
func (s *Service) AddToCart(ctx context.Context, in AddToCartInput) (*models.CartItem, error) {
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
	for _, item := range items {
		if item.ProductID != in.ProductID {
			continue
		}
		if item.Quantity > MaxQuantity-in.Quantity {
			return nil, invalid("quantity", fmt.Sprintf("max=%d", MaxQuantity))
		}
		updated, err := s.store.UpdateCartItem(ctx, item.ID, item.Quantity+in.Quantity)
		if err != nil {
			return nil, fmt.Errorf("update cart item %s: %w", item.ID, err)
		}
		return updated, nil
	}

	created, err := s.store.CreateCartItem(ctx, models.CartItem{
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("create cart item: %w", err)
	}
	return created, nil
}

// SetQuantity updates a row in place. A quantity below one removes the row,
// in which case the returned item is nil.
func (s *Service) SetQuantity(ctx context.Context, itemID string, quantity int) (*models.CartItem, error) {
	item, err := s.store.GetCartItem(ctx, itemID)
	if item, err = lookup(item, err, "cart item", itemID); err != nil {
		return nil, err
	}

	if quantity > MaxQuantity {
		return nil, invalid("quantity", fmt.Sprintf("max=%d", MaxQuantity))
	}

	unlock := s.locks.lock(item.UserID)
	defer unlock()
	defer s.invalidateCart(item.UserID)

	if quantity < 1 {
		removed, err := s.store.DeleteCartItem(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("delete cart item %s: %w", itemID, err)
		}
		if !removed {
			return nil, notFound("cart item", itemID)
		}
		return nil, nil
	}

	updated, err := s.store.UpdateCartItem(ctx, itemID, quantity)
	return lookup(updated, err, "cart item", itemID)
}

// RemoveCartItem reports whether the row existed. Removing twice is safe.
func (s *Service) RemoveCartItem(ctx context.Context, itemID string) (bool, error) {
	item, err := s.store.GetCartItem(ctx, itemID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get cart item %s: %w", itemID, err)
	}

	unlock := s.locks.lock(item.UserID)
	defer unlock()
	defer s.invalidateCart(item.UserID)

	removed, err := s.store.DeleteCartItem(ctx, itemID)
	if err != nil {
		return false, fmt.Errorf("delete cart item %s: %w", itemID, err)
	}
	return removed, nil
}

func (s *Service) invalidateCart(userID string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.DeleteCart(ctx, userID); err != nil {
		s.logger.Warn("Cart cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}
