package models

import (
	"time"
)

// DemoUserID is the placeholder identity every request acts as.
const DemoUserID = "demo-user"

type User struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username   string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:varchar(100);not null" json:"-"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"lastName"`
	Phone      string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	City       string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	IsProvider bool      `gorm:"default:false" json:"isProvider"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
