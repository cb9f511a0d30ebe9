package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/items"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repositories inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Items(db dbx.DBTX) items.Repository
	Transactions(db dbx.DBTX) transactions.Repository
}
