// internal/models/order.go
package models

import (
	"database/sql/driver"
	"time"
)

// LineItem is a product snapshot at the moment it entered the cart. The unit
// price is never recomputed afterwards.
type LineItem struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	ImageURL  string   `json:"image_url,omitempty"`
	Variant   string   `json:"liter"`
	UnitPrice int64    `json:"price"`
	Quantity  int      `json:"quantity"`
}

func (i LineItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

type LineItems []LineItem

func (items LineItems) Total() int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

func (items LineItems) Units() int {
	units := 0
	for _, item := range items {
		units += item.Quantity
	}
	return units
}

func (items LineItems) Value() (driver.Value, error) {
	if items == nil {
		return valueJSON([]LineItem{})
	}
	return valueJSON([]LineItem(items))
}

func (items *LineItems) Scan(value interface{}) error { return scanJSON(value, items) }

type Cart struct {
	SessionID string    `json:"session_id"`
	Items     LineItems `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Cart) Total() int64 {
	return c.Items.Total()
}

type Order struct {
	ID               string        `json:"id" gorm:"primaryKey;size:32"`
	CustomerName     string        `json:"customerName" gorm:"size:255;not null"`
	Phone            string        `json:"phone" gorm:"size:32;not null;index"`
	PaymentMethod    PaymentMethod `json:"paymentMethod" gorm:"type:varchar(10);not null"`
	Items            LineItems     `json:"items" gorm:"type:jsonb;not null"`
	TotalAmount      int64         `json:"totalAmount" gorm:"not null"`
	Status           OrderStatus   `json:"status" gorm:"type:varchar(16);default:'Pending';index"`
	UserID           string        `json:"userId,omitempty" gorm:"size:64;index"`
	Paid             bool          `json:"paid" gorm:"default:false"`
	PaymentReference string        `json:"paymentReference,omitempty" gorm:"size:128"`
	Date             time.Time     `json:"date" gorm:"not null;index"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
