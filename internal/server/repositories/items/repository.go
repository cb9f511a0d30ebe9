package items

import (
	"context"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

// Repository stores inventory items. Lookups by name return
// common.ErrorNotFound for unknown items; writes that collide on the unique
// name return common.ErrorAlreadyExists.
type Repository interface {
	List(ctx context.Context) ([]*models.Item, error)
	Search(ctx context.Context, query string) ([]*models.Item, error)
	FindByName(ctx context.Context, name string) (*models.Item, error)
	FindByNameForUpdate(ctx context.Context, name string) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, name string, item *models.Item) (*models.Item, error)
	Delete(ctx context.Context, name string) error
	AdjustQuantity(ctx context.Context, id int64, delta int) (int, error)
	LowStock(ctx context.Context) ([]*models.Item, error)
	ExpiringBefore(ctx context.Context, date time.Time) ([]*models.Item, error)
	Stats(ctx context.Context) (*models.ItemStats, error)
	Count(ctx context.Context) (int, error)
}
