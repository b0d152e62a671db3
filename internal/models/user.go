// internal/models/user.go
package models

import (
	"database/sql/driver"
	"time"
)

type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:64"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	Phone        string     `json:"phone" gorm:"uniqueIndex;size:32;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Garage       Garage     `json:"garage" gorm:"type:jsonb"`
	Points       int64      `json:"points" gorm:"default:0"`
	Language     string     `json:"language,omitempty" gorm:"size:5"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	Timestamps
}

type Car struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	VIN   string `json:"vin,omitempty"`
}

type Garage []Car

func (g Garage) Value() (driver.Value, error) {
	if g == nil {
		return valueJSON([]Car{})
	}
	return valueJSON([]Car(g))
}

func (g *Garage) Scan(value interface{}) error { return scanJSON(value, g) }
