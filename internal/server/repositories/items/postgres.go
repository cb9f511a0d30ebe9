// Package items provides PostgreSQL-backed persistence for inventory items.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgtype"
)

const itemColumns = `id, name, category, quantity, min_quantity, price, tags, expiration_date, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem reads one row in itemColumns order. m decodes the text[] tags
// column; a pgtype.Map is not safe for concurrent use, so each query owns one.
func scanItem(m *pgtype.Map, row rowScanner) (*models.Item, error) {
	var (
		item models.Item
		tags []string
		exp  sql.NullTime
	)
	if err := row.Scan(
		&item.ID, &item.Name, &item.Category, &item.Quantity, &item.MinQuantity, &item.Price,
		m.SQLScanner(&tags), &exp, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	item.Tags = tags
	if exp.Valid {
		d := exp.Time
		item.ExpirationDate = &d
	}
	return &item, nil
}

func (r *PostgresRepository) queryItems(ctx context.Context, query string, args ...any) ([]*models.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	m := pgtype.NewMap()
	result := []*models.Item{}
	for rows.Next() {
		item, err := scanItem(m, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) queryItem(ctx context.Context, query string, args ...any) (*models.Item, error) {
	item, err := scanItem(pgtype.NewMap(), r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// List returns every item ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Item, error) {
	return r.queryItems(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name`)
}

// Search returns items whose name contains query, ignoring case.
func (r *PostgresRepository) Search(ctx context.Context, query string) ([]*models.Item, error) {
	return r.queryItems(ctx, `SELECT `+itemColumns+` FROM items
		WHERE strpos(lower(name), lower($1)) > 0
		ORDER BY name`, query)
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (*models.Item, error) {
	return r.queryItem(ctx, `SELECT `+itemColumns+` FROM items WHERE name = $1`, name)
}

// FindByNameForUpdate locks the row until the surrounding transaction ends.
func (r *PostgresRepository) FindByNameForUpdate(ctx context.Context, name string) (*models.Item, error) {
	return r.queryItem(ctx, `SELECT `+itemColumns+` FROM items WHERE name = $1 FOR UPDATE`, name)
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	return r.queryItem(ctx, `
		INSERT INTO items (name, category, quantity, min_quantity, price, tags, expiration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+itemColumns,
		item.Name, item.Category, item.Quantity, item.MinQuantity, item.Price, tagsArg(item.Tags), dateArg(item.ExpirationDate))
}

// Update replaces every mutable field of the item currently called name.
// item.Name may differ from name to rename it.
func (r *PostgresRepository) Update(ctx context.Context, name string, item *models.Item) (*models.Item, error) {
	return r.queryItem(ctx, `
		UPDATE items SET
			name = $2,
			category = $3,
			quantity = $4,
			min_quantity = $5,
			price = $6,
			tags = $7,
			expiration_date = $8,
			updated_at = now()
		WHERE name = $1
		RETURNING `+itemColumns,
		name, item.Name, item.Category, item.Quantity, item.MinQuantity, item.Price, tagsArg(item.Tags), dateArg(item.ExpirationDate))
}

func (r *PostgresRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// AdjustQuantity adds delta (possibly negative) to the stock of item id and
// returns the new quantity. Going below zero yields common.ErrInsufficientStock.
func (r *PostgresRepository) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	query := `
		UPDATE items SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING quantity
	`
	var quantity int
	if err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&quantity); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, common.ErrorNotFound
		case dbx.IsCheckViolation(err):
			return 0, common.ErrInsufficientStock
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return quantity, nil
}

// LowStock returns items at or below their minimum quantity.
func (r *PostgresRepository) LowStock(ctx context.Context) ([]*models.Item, error) {
	return r.queryItems(ctx, `SELECT `+itemColumns+` FROM items
		WHERE quantity <= min_quantity
		ORDER BY quantity, name`)
}

// ExpiringBefore returns items with an expiration date strictly before date.
func (r *PostgresRepository) ExpiringBefore(ctx context.Context, date time.Time) ([]*models.Item, error) {
	return r.queryItems(ctx, `SELECT `+itemColumns+` FROM items
		WHERE expiration_date IS NOT NULL AND expiration_date < $1
		ORDER BY expiration_date, name`, date)
}

// Stats aggregates quantity, value and low stock counts in one pass.
func (r *PostgresRepository) Stats(ctx context.Context) (*models.ItemStats, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(quantity * price), 0),
			COUNT(*) FILTER (WHERE quantity <= min_quantity),
			COUNT(*)
		FROM items
	`
	s := &models.ItemStats{}
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.TotalItems, &s.TotalValue, &s.LowStockCount, &s.UniqueProducts); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func tagsArg(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func dateArg(d *time.Time) any {
	if d == nil {
		return nil
	}
	return *d
}
