// Package transactions provides PostgreSQL-backed storage for stock movements.
package transactions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (item_id, item_name, username, type, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	var itemID any
	if t.ItemID != nil {
		itemID = *t.ItemID
	}
	if err := r.db.QueryRowContext(ctx, query, itemID, t.ItemName, t.Username, string(t.Type), t.Quantity).
		Scan(&t.ID, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// List returns transactions newest first. A non-empty itemName restricts the
// result to that item.
func (r *PostgresRepository) List(ctx context.Context, itemName string) ([]*models.Transaction, error) {
	query := `
		SELECT id, item_id, item_name, username, type, quantity, created_at
		FROM transactions
		WHERE ($1 = '' OR item_name = $1)
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, itemName)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	result := []*models.Transaction{}
	for rows.Next() {
		var (
			t      models.Transaction
			itemID sql.NullInt64
			typ    string
		)
		if err := rows.Scan(&t.ID, &itemID, &t.ItemName, &t.Username, &typ, &t.Quantity, &t.CreatedAt); err != nil {
			return nil, err
		}
		if itemID.Valid {
			id := itemID.Int64
			t.ItemID = &id
		}
		t.Type = models.TransactionType(typ)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
