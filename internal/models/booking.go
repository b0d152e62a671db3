// internal/models/booking.go
package models

import "time"

// Booking is a service-center appointment request.
type Booking struct {
	ID            string      `json:"id" gorm:"primaryKey;size:64"`
	Name          string      `json:"name" gorm:"size:255;not null"`
	Phone         string      `json:"phone" gorm:"size:32;not null"`
	CarModel      string      `json:"carModel" gorm:"size:255"`
	ServiceType   ServiceType `json:"serviceType" gorm:"type:varchar(32);not null"`
	PreferredDate string      `json:"date" gorm:"size:10"`
	CreatedAt     time.Time   `json:"created_at" gorm:"index"`
}
