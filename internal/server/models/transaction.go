package models

import "time"

// TransactionType is the direction of a stock movement.
type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

// Valid reports whether t is IN or OUT.
func (t TransactionType) Valid() bool {
	return t == TransactionIn || t == TransactionOut
}

// Transaction records a stock movement. ItemID becomes nil once the item is
// deleted; ItemName keeps the history readable.
type Transaction struct {
	ID        int64           `json:"id"`
	ItemID    *int64          `json:"itemId,omitempty"`
	ItemName  string          `json:"itemName"`
	Username  string          `json:"username"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
}
