package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/items"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fakeRepoManager hands out the same repositories regardless of the DBTX,
// so transactional code paths can be exercised against sqlmock Begin/Commit.
type fakeRepoManager struct {
	users        users.Repository
	items        items.Repository
	transactions transactions.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return m.users }
func (m *fakeRepoManager) Items(dbx.DBTX) items.Repository            { return m.items }
func (m *fakeRepoManager) Transactions(dbx.DBTX) transactions.Repository {
	return m.transactions
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
