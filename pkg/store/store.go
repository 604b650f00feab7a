// Package store holds the keyed entity storage behind the marketplace.
// Two engines implement Storage: MemStore (volatile, the default) and
// GormStore (MySQL through gorm).
package store

import (
	"context"
	"errors"

	"github.com/example/agbado/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound marks the absence of a record. It is not a failure; callers
// translate it into their own not-found condition.
var ErrNotFound = errors.New("record not found")

// Storage is the contract every storage engine satisfies.
//
// Create methods assign a fresh identifier when the record does not carry
// one and return the stored record. Get methods return ErrNotFound on
// absence. List order is unspecified.
type Storage interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error)
	CreateServiceCategory(ctx context.Context, category models.ServiceCategory) (*models.ServiceCategory, error)

	ListProviders(ctx context.Context) ([]models.Provider, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	CreateProvider(ctx context.Context, provider models.Provider) (*models.Provider, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)

	ListCartItems(ctx context.Context, userID string) ([]models.CartItem, error)
	GetCartItem(ctx context.Context, id string) (*models.CartItem, error)
	CreateCartItem(ctx context.Context, item models.CartItem) (*models.CartItem, error)
	// UpdateCartItem sets the quantity of an existing row.
	UpdateCartItem(ctx context.Context, id string, quantity int) (*models.CartItem, error)
	// DeleteCartItem reports whether a row existed.
	DeleteCartItem(ctx context.Context, id string) (bool, error)

	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	CreateOrder(ctx context.Context, order models.Order) (*models.Order, error)
	// DeleteOrder removes an order and its items. Only used to undo a
	// checkout that failed half way.
	DeleteOrder(ctx context.Context, id string) error
	ListOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	CreateOrderItem(ctx context.Context, item models.OrderItem) (*models.OrderItem, error)

	ListBookings(ctx context.Context, userID string) ([]models.Booking, error)
	CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)

	Close() error
}

func newID() string {
	return uuid.NewString()
}

func ensureID(id *string) {
	if *id == "" {
		*id = newID()
	}
}
