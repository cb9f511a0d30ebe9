package transactions

import (
	"context"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

// Repository records stock movements.
type Repository interface {
	Create(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	List(ctx context.Context, itemName string) ([]*models.Transaction, error)
}
