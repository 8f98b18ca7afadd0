package models

import (
	"time"
)

// Product is the storefront's persisted view of one catalog item. It is
// owned by the sync engine: the storefront reads it but never writes it.
// ExternalID is the stable join key to the source system, one row per ID.
type Product struct {
	ExternalID string  `json:"external_id" gorm:"primaryKey"`
	Name       string  `json:"name" gorm:"not null"`
	PriceCents int64   `json:"price_cents" gorm:"not null"`
	Category   *string `json:"category"`
	ImageURL   string  `json:"image_url"`
	// StockQuantity nil means the source reported no count (unknown or
	// unlimited). 0 means out of stock.
	StockQuantity *int64    `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InStock reports whether the storefront should offer the product for sale.
// Unknown stock is treated as available.
func (p *Product) InStock() bool {
	return p.StockQuantity == nil || *p.StockQuantity > 0
}
