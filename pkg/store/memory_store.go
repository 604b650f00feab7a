package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/example/agbado/pkg/models"
)

// MemStore implements Storage with process-local maps. Records are copied
// in and out under a single RWMutex, so a reader never sees a half-written
// record.
type MemStore struct {
	mu sync.RWMutex

	users      map[string]models.User
	categories map[string]models.ServiceCategory
	providers  map[string]models.Provider
	products   map[string]models.Product
	cartItems  map[string]models.CartItem
	orders     map[string]models.Order
	orderItems map[string]models.OrderItem
	bookings   map[string]models.Booking
}

// NewMemStore returns an empty store. Use Seed to load the catalog.
func NewMemStore() *MemStore {
	return &MemStore{
		users:      make(map[string]models.User),
		categories: make(map[string]models.ServiceCategory),
		providers:  make(map[string]models.Provider),
		products:   make(map[string]models.Product),
		cartItems:  make(map[string]models.CartItem),
		orders:     make(map[string]models.Order),
		orderItems: make(map[string]models.OrderItem),
		bookings:   make(map[string]models.Booking),
	}
}

func getRow[T any](rows map[string]T, id string) (*T, error) {
	row, ok := rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func listRows[T any](rows map[string]T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (s *MemStore) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&user.ID)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRow(s.users, id)
}

func (s *MemStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Username == username })
}

func (s *MemStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

func (s *MemStore) findUser(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListServiceCategories(_ context.Context) ([]models.ServiceCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRows(s.categories, nil), nil
}

func (s *MemStore) CreateServiceCategory(_ context.Context, category models.ServiceCategory) (*models.ServiceCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&category.ID)
	s.categories[category.ID] = category
	return &category, nil
}

func (s *MemStore) ListProviders(_ context.Context) ([]models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRows(s.providers, nil), nil
}

func (s *MemStore) GetProvider(_ context.Context, id string) (*models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRow(s.providers, id)
}

func (s *MemStore) CreateProvider(_ context.Context, provider models.Provider) (*models.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&provider.ID)
	provider.WorkImages = slices.Clone(provider.WorkImages)
	provider.ServiceAreas = slices.Clone(provider.ServiceAreas)
	s.providers[provider.ID] = provider
	return &provider, nil
}

func (s *MemStore) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRows(s.products, nil), nil
}

func (s *MemStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRow(s.products, id)
}

func (s *MemStore) CreateProduct(_ context.Context, product models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&product.ID)
	product.Images = slices.Clone(product.Images)
	s.products[product.ID] = product
	return &product, nil
}

func (s *MemStore) ListCartItems(_ context.Context, userID string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRows(s.cartItems, func(item models.CartItem) bool { return item.UserID == userID }), nil
}

func (s *MemStore) GetCartItem(_ context.Context, id string) (*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRow(s.cartItems, id)
}

func (s *MemStore) CreateCartItem(_ context.Context, item models.CartItem) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&item.ID)
	s.cartItems[item.ID] = item
	return &item, nil
}

func (s *MemStore) UpdateCartItem(_ context.Context, id string, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cartItems[id]
	if !ok {
		return nil, ErrNotFound
	}
	item.Quantity = quantity
	s.cartItems[id] = item
	return &item, nil
}

func (s *MemStore) DeleteCartItem(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cartItems[id]; !ok {
		return false, nil
	}
	delete(s.cartItems, id)
	return true, nil
}

func (s *MemStore) ListOrders(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRows(s.orders, func(o models.Order) bool { return o.UserID == userID }), nil
}

func (s *MemStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRow(s.orders, id)
}

func (s *MemStore) CreateOrder(_ context.Context, order models.Order) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&order.ID)
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	s.orders[order.ID] = order
	return &order, nil
}

func (s *MemStore) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.orders, id)
	for itemID, item := range s.orderItems {
		if item.OrderID == id {
			delete(s.orderItems, itemID)
		}
	}
	return nil
}

func (s *MemStore) ListOrderItems(_ context.Context, orderID string) ([]models.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRows(s.orderItems, func(item models.OrderItem) bool { return item.OrderID == orderID }), nil
}

func (s *MemStore) CreateOrderItem(_ context.Context, item models.OrderItem) (*models.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&item.ID)
	s.orderItems[item.ID] = item
	return &item, nil
}

func (s *MemStore) ListBookings(_ context.Context, userID string) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRows(s.bookings, func(b models.Booking) bool { return b.UserID == userID }), nil
}

func (s *MemStore) CreateBooking(_ context.Context, booking models.Booking) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&booking.ID)
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	s.bookings[booking.ID] = booking
	return &booking, nil
}

func (s *MemStore) Close() error {
	return nil
}
