package models

type CartItem struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string `gorm:"type:varchar(36);not null;index" json:"userId"`
	ProductID string `gorm:"type:varchar(36);not null" json:"productId"`
	Quantity  int    `gorm:"not null;default:1" json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
