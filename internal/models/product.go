// internal/models/product.go
package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// Product variants are positional: Variants[i] is sold at Prices[i] with
// Stock[i] units on hand. A nil Stock means the product is not stock-tracked.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;size:64"`
	Name        string         `json:"name" gorm:"size:255;not null;index"`
	Category    Category       `json:"category" gorm:"type:varchar(32);not null;index"`
	Variants    pq.StringArray `json:"liters" gorm:"type:text[]"`
	Prices      pq.Int64Array  `json:"price_uzs" gorm:"type:bigint[]"`
	Stock       pq.Int64Array  `json:"stock,omitempty" gorm:"type:bigint[]"`
	ImageURL    string         `json:"image_url" gorm:"type:text"`
	Description string         `json:"description" gorm:"type:text"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	SEO         SEO            `json:"seo" gorm:"type:jsonb"`
	TelegramBot BotSettings    `json:"telegram_bot" gorm:"type:jsonb"`
	Sales       int64          `json:"sales" gorm:"default:0"`
	Reviews     Reviews        `json:"reviews,omitempty" gorm:"type:jsonb"`
	Rating      float64        `json:"rating,omitempty" gorm:"type:decimal(3,2);default:0"`
	Timestamps
}

type SEO struct {
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
}

func (s SEO) Value() (driver.Value, error) { return valueJSON(s) }
func (s *SEO) Scan(value interface{}) error { return scanJSON(value, s) }

// BotSettings control how the messaging bot presents the product.
type BotSettings struct {
	BuyButton         bool     `json:"buy_button"`
	StatusSequence    []string `json:"status_sequence"`
	AdminNotification bool     `json:"admin_notification"`
	PDFReceipt        bool     `json:"pdf_receipt"`
	PaymentCard       string   `json:"payment_card"`
	UserDataRequired  []string `json:"user_data_required"`
}

func (b BotSettings) Value() (driver.Value, error) { return valueJSON(b) }
func (b *BotSettings) Scan(value interface{}) error { return scanJSON(value, b) }

type Review struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
}

type Reviews []Review

func (r Reviews) Value() (driver.Value, error) {
	if r == nil {
		return valueJSON([]Review{})
	}
	return valueJSON([]Review(r))
}

func (r *Reviews) Scan(value interface{}) error { return scanJSON(value, r) }

// VariantIndex returns the position of label in Variants, or -1.
func (p *Product) VariantIndex(label string) int {
	for i, v := range p.Variants {
		if v == label {
			return i
		}
	}
	return -1
}

func (p *Product) TracksStock() bool {
	return p.Stock != nil
}

// StockAt reports the units on hand for a variant. ok is false when stock is
// not tracked for that position.
func (p *Product) StockAt(index int) (units int64, ok bool) {
	if !p.TracksStock() || index < 0 || index >= len(p.Stock) {
		return 0, false
	}
	return p.Stock[index], true
}

// BasePrice is the price of the first variant, the anchor for derived prices.
func (p *Product) BasePrice() int64 {
	if len(p.Prices) == 0 {
		return 0
	}
	return p.Prices[0]
}

// RecordSale counts quantity units sold of a variant. Tracked stock is
// decremented and clamped at zero; a shortfall is absorbed, not rejected.
func (p *Product) RecordSale(variant string, quantity int) {
	p.Sales += int64(quantity)

	index := p.VariantIndex(variant)
	units, ok := p.StockAt(index)
	if !ok {
		return
	}
	units -= int64(quantity)
	if units < 0 {
		units = 0
	}
	p.Stock[index] = units
}
