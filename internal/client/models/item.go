// Package models defines the payloads the CLI exchanges with the inventory API.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Item mirrors the server's item representation.
type Item struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Quantity       int        `json:"quantity"`
	MinQuantity    int        `json:"minQuantity"`
	Price          float64    `json:"price"`
	Tags           []string   `json:"tags"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// Expires formats the expiration date as YYYY-MM-DD, or "-" when unset.
func (i *Item) Expires() string {
	if i.ExpirationDate == nil {
		return "-"
	}
	return i.ExpirationDate.Format(time.DateOnly)
}

// NewItem is the body of a create request. A nil MinQuantity lets the
// server apply its default.
type NewItem struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Quantity       int      `json:"quantity"`
	MinQuantity    *int     `json:"minQuantity,omitempty"`
	Price          float64  `json:"price"`
	Tags           []string `json:"tags"`
	ExpirationDate string   `json:"expirationDate,omitempty"`
}

// ParseTags splits a comma separated list, dropping blanks.
func ParseTags(s string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Transaction is a recorded stock movement.
type Transaction struct {
	ID        int64     `json:"id"`
	ItemName  string    `json:"itemName"`
	Username  string    `json:"username"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *Transaction) String() string {
	return fmt.Sprintf("%s %d x %s", t.Type, t.Quantity, t.ItemName)
}

// Stats summarises the inventory.
type Stats struct {
	TotalItems     int     `json:"totalItems"`
	TotalValue     float64 `json:"totalValue"`
	LowStockCount  int     `json:"lowStockCount"`
	UniqueProducts int     `json:"uniqueProducts"`
}

// Archive locates an uploaded export.
type Archive struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
