package models

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID                 string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID             string        `gorm:"type:varchar(36);not null;index" json:"userId"`
	ProviderID         string        `gorm:"type:varchar(36);not null" json:"providerId"`
	ServiceDescription string        `gorm:"type:text;not null" json:"serviceDescription"`
	ScheduledDate      time.Time     `gorm:"not null" json:"scheduledDate"`
	Status             BookingStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	TotalCost          int           `gorm:"not null" json:"totalCost"`
	CreatedAt          time.Time     `json:"createdAt"`
}

func (Booking) TableName() string {
	return "bookings"
}
