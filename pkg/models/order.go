package models

import (
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string      `gorm:"type:varchar(36);not null;index" json:"userId"`
	Total           int         `gorm:"not null" json:"total"`
	Status          OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ShippingAddress string      `gorm:"type:text;not null" json:"shippingAddress"`
	CreatedAt       time.Time   `json:"createdAt"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem records one cart line as it was when the order was placed.
// Price is the unit price at that moment.
type OrderItem struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID   string `gorm:"type:varchar(36);not null;index" json:"orderId"`
	ProductID string `gorm:"type:varchar(36);not null" json:"productId"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	Price     int    `gorm:"not null" json:"price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
