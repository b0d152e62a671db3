// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamps are maintained by gorm on the postgres backend and by the
// document repositories otherwise.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	return scanJSON(value, j)
}

func valueJSON(v interface{}) (driver.Value, error) {
	return json.Marshal(v)
}

func scanJSON(value interface{}, dest interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into json column", value)
	}
	return json.Unmarshal(data, dest)
}

// Enums
type Category string

const (
	CategoryMotorOil        Category = "Motor Oil"
	CategoryTransmissionOil Category = "Transmission Oil"
	CategoryATF             Category = "ATF"
	CategoryHydraulicOil    Category = "Hydraulic Oil"
	CategoryAntifreeze      Category = "Antifreeze"
)

var Categories = []Category{
	CategoryMotorOil,
	CategoryTransmissionOil,
	CategoryATF,
	CategoryHydraulicOil,
	CategoryAntifreeze,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusAccepted  OrderStatus = "Accepted"
	OrderStatusReady     OrderStatus = "Ready"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusReady,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

type ServiceType string

const (
	ServiceTypeOilChange     ServiceType = "oil_change"
	ServiceTypeFilterReplace ServiceType = "filter_replace"
	ServiceTypeDiagnostics   ServiceType = "diagnostics"
)
