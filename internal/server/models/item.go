package models

import "time"

// DefaultMinQuantity is the low-stock threshold given to new items.
const DefaultMinQuantity = 5

// Item is a stocked product. Name is unique across the inventory.
type Item struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Quantity       int        `json:"quantity"`
	MinQuantity    int        `json:"minQuantity"`
	Price          float64    `json:"price"`
	Tags           []string   `json:"tags"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Value is quantity times unit price.
func (i *Item) Value() float64 {
	return float64(i.Quantity) * i.Price
}

// LowStock reports whether the item is at or below its threshold.
func (i *Item) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// ItemStats summarises the whole inventory.
type ItemStats struct {
	TotalItems     int     `json:"totalItems"`
	TotalValue     float64 `json:"totalValue"`
	LowStockCount  int     `json:"lowStockCount"`
	UniqueProducts int     `json:"uniqueProducts"`
}
