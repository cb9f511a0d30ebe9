package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/repomanager"
)

// TransactionService records stock movements and keeps item quantities in
// step with them.
type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager) *TransactionService {
	return &TransactionService{db: db, repomanager: m}
}

// Record applies an IN or OUT movement of quantity units to itemName on
// behalf of username. The item row is locked for the duration of the
// database transaction, so concurrent movements serialize.
//
// Errors: common.ErrValidation, common.ErrorNotFound, common.ErrInsufficientStock.
func (s *TransactionService) Record(ctx context.Context, username, itemName string, typ models.TransactionType, quantity int) (*models.Transaction, error) {
	itemName = strings.TrimSpace(itemName)
	switch {
	case itemName == "":
		return nil, fmt.Errorf("%w: item name is required", common.ErrValidation)
	case !typ.Valid():
		return nil, fmt.Errorf("%w: type must be IN or OUT", common.ErrValidation)
	case quantity <= 0:
		return nil, fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}

	var recorded *models.Transaction
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		item, err := s.repomanager.Items(tx).FindByNameForUpdate(ctx, itemName)
		if err != nil {
			return err
		}

		delta := quantity
		if typ == models.TransactionOut {
			if item.Quantity < quantity {
				return common.ErrInsufficientStock
			}
			delta = -quantity
		}

		if _, err := s.repomanager.Items(tx).AdjustQuantity(ctx, item.ID, delta); err != nil {
			return err
		}

		itemID := item.ID
		recorded, err = s.repomanager.Transactions(tx).Create(ctx, &models.Transaction{
			ItemID:   &itemID,
			ItemName: item.Name,
			Username: username,
			Type:     typ,
			Quantity: quantity,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return recorded, nil
}

// List returns movements newest first, optionally for a single item.
func (s *TransactionService) List(ctx context.Context, itemName string) ([]*models.Transaction, error) {
	return s.repomanager.Transactions(s.db).List(ctx, strings.TrimSpace(itemName))
}
