package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/agbado/pkg/config"
	"github.com/example/agbado/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// GormStore implements Storage on MySQL.
type GormStore struct {
	db *gorm.DB
}

// OpenMySQL connects to MySQL and migrates every marketplace table.
func OpenMySQL(cfg *config.MySQLConfig) (*GormStore, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return NewGormStore(db)
}

// NewGormStore wraps an open gorm handle and runs the migrations.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.ServiceCategory{},
		&models.Provider{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Booking{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func first[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func find[T any](ctx context.Context, db *gorm.DB, query string, args ...any) ([]T, error) {
	var rows []T
	tx := db.WithContext(ctx)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func create[T any](ctx context.Context, db *gorm.DB, row *T) (*T, error) {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	ensureID(&user.ID)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	return create(ctx, s.db, &user)
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return first[models.User](ctx, s.db, "id = ?", id)
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](ctx, s.db, "username = ?", username)
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](ctx, s.db, "email = ?", email)
}

func (s *GormStore) ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	return find[models.ServiceCategory](ctx, s.db, "")
}

func (s *GormStore) CreateServiceCategory(ctx context.Context, category models.ServiceCategory) (*models.ServiceCategory, error) {
	ensureID(&category.ID)
	return create(ctx, s.db, &category)
}

func (s *GormStore) ListProviders(ctx context.Context) ([]models.Provider, error) {
	return find[models.Provider](ctx, s.db, "")
}

func (s *GormStore) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	return first[models.Provider](ctx, s.db, "id = ?", id)
}

func (s *GormStore) CreateProvider(ctx context.Context, provider models.Provider) (*models.Provider, error) {
	ensureID(&provider.ID)
	return create(ctx, s.db, &provider)
}

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	return find[models.Product](ctx, s.db, "")
}

func (s *GormStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return first[models.Product](ctx, s.db, "id = ?", id)
}

func (s *GormStore) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	ensureID(&product.ID)
	return create(ctx, s.db, &product)
}

func (s *GormStore) ListCartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	return find[models.CartItem](ctx, s.db, "user_id = ?", userID)
}

func (s *GormStore) GetCartItem(ctx context.Context, id string) (*models.CartItem, error) {
	return first[models.CartItem](ctx, s.db, "id = ?", id)
}

func (s *GormStore) CreateCartItem(ctx context.Context, item models.CartItem) (*models.CartItem, error) {
	ensureID(&item.ID)
	return create(ctx, s.db, &item)
}

func (s *GormStore) UpdateCartItem(ctx context.Context, id string, quantity int) (*models.CartItem, error) {
	res := s.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return nil, res.Error
	}
	// RowsAffected is zero on MySQL when the quantity is unchanged, so
	// existence is decided by the read.
	return s.GetCartItem(ctx, id)
}

func (s *GormStore) DeleteCartItem(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return find[models.Order](ctx, s.db, "user_id = ?", userID)
}

func (s *GormStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return first[models.Order](ctx, s.db, "id = ?", id)
}

func (s *GormStore) CreateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	ensureID(&order.ID)
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	return create(ctx, s.db, &order)
}

func (s *GormStore) DeleteOrder(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Order{}).Error
	})
}

func (s *GormStore) ListOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	return find[models.OrderItem](ctx, s.db, "order_id = ?", orderID)
}

func (s *GormStore) CreateOrderItem(ctx context.Context, item models.OrderItem) (*models.OrderItem, error) {
	ensureID(&item.ID)
	return create(ctx, s.db, &item)
}

func (s *GormStore) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return find[models.Booking](ctx, s.db, "user_id = ?", userID)
}

func (s *GormStore) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	ensureID(&booking.ID)
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	return create(ctx, s.db, &booking)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
