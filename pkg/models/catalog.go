package models

import (
	"github.com/shopspring/decimal"
)

type RateType string

const (
	RatePerDay     RateType = "per day"
	RatePerHour    RateType = "per hour"
	RatePerSession RateType = "per session"
	RatePerVisit   RateType = "per visit"
)

func (r RateType) Valid() bool {
	switch r {
	case RatePerDay, RatePerHour, RatePerSession, RatePerVisit:
		return true
	}
	return false
}

type ServiceCategory struct {
	ID            string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name          string `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Description   string `gorm:"type:text" json:"description"`
	Icon          string `gorm:"type:varchar(64);not null" json:"icon" validate:"required"`
	Color         string `gorm:"type:varchar(32);not null" json:"color" validate:"required"`
	StartingPrice int    `gorm:"not null" json:"startingPrice" validate:"gte=0"`
}

func (ServiceCategory) TableName() string {
	return "service_categories"
}

// Provider is a service professional. Rating is serialised as a decimal
// string such as "4.9".
type Provider struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string          `gorm:"type:varchar(36);not null;index" json:"userId" validate:"required"`
	BusinessName string          `gorm:"type:varchar(200);not null" json:"businessName" validate:"required"`
	Specialty    string          `gorm:"type:varchar(200);not null" json:"specialty" validate:"required"`
	Description  string          `gorm:"type:text;not null" json:"description" validate:"required"`
	Experience   int             `gorm:"not null" json:"experience" validate:"gte=0"`
	Rate         int             `gorm:"not null" json:"rate" validate:"gte=0"`
	RateType     RateType        `gorm:"type:varchar(20);not null" json:"rateType"`
	Rating       decimal.Decimal `gorm:"type:decimal(2,1);default:0.0" json:"rating"`
	ReviewCount  int             `gorm:"default:0" json:"reviewCount" validate:"gte=0"`
	ProfileImage string          `gorm:"type:text" json:"profileImage,omitempty"`
	WorkImages   []string        `gorm:"serializer:json" json:"workImages"`
	ServiceAreas []string        `gorm:"serializer:json" json:"serviceAreas"`
	Verified     bool            `gorm:"default:false" json:"verified"`
}

func (Provider) TableName() string {
	return "providers"
}

type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	Description string          `gorm:"type:text;not null" json:"description" validate:"required"`
	Price       int             `gorm:"not null" json:"price" validate:"gte=0"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category" validate:"required"`
	Images      []string        `gorm:"serializer:json" json:"images"`
	Rating      decimal.Decimal `gorm:"type:decimal(2,1);default:0.0" json:"rating"`
	ReviewCount int             `gorm:"default:0" json:"reviewCount" validate:"gte=0"`
	Stock       int             `gorm:"default:0" json:"stock" validate:"gte=0"`
	SellerID    string          `gorm:"type:varchar(36);not null" json:"sellerId" validate:"required"`
	Featured    bool            `gorm:"default:false" json:"featured"`
}

func (Product) TableName() string {
	return "products"
}
