package rest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/auth"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/services"
	"golang.org/x/crypto/bcrypt"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	testNow    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

// fakeAuth keeps bcrypt hashes in memory and issues real tokens.
type fakeAuth struct {
	mu          sync.Mutex
	hashes      map[string]string
	codec       *auth.Codec
	hasher      *auth.BcryptHasher
	ttl         time.Duration
	registerErr error
	loginErr    error
}

func newFakeAuth(codec *auth.Codec) *fakeAuth {
	return &fakeAuth{
		hashes: map[string]string{},
		codec:  codec,
		hasher: auth.NewBcryptHasher(bcrypt.MinCost),
		ttl:    time.Hour,
	}
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	username = strings.TrimSpace(username)
	f.mu.Lock()
	hash, ok := f.hashes[username]
	f.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrorNotFound)
	}
	if !f.hasher.Verify(password, hash) {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrPasswordMismatch)
	}
	return f.codec.Issue(username, testNow, f.ttl)
}

func (f *fakeAuth) Register(_ context.Context, username, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	username = strings.TrimSpace(username)
	hash, err := f.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hashes[username]; ok {
		return nil, common.ErrDuplicateUsername
	}
	f.hashes[username] = hash
	return &models.User{UserName: username, PasswordHash: hash}, nil
}

type fakeInventory struct {
	mu    sync.Mutex
	items map[string]*models.Item
	err   error
}

func newFakeInventory(items ...*models.Item) *fakeInventory {
	f := &fakeInventory{items: map[string]*models.Item{}}
	for i, it := range items {
		it.ID = int64(i + 1)
		f.items[it.Name] = it
	}
	return f
}

func (f *fakeInventory) sorted() []*models.Item {
	out := make([]*models.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeInventory) List(context.Context) ([]*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.sorted(), nil
}

func (f *fakeInventory) Search(_ context.Context, q string) ([]*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Item{}
	for _, it := range f.sorted() {
		if strings.Contains(strings.ToLower(it.Name), strings.ToLower(q)) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeInventory) Get(_ context.Context, name string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return it, nil
}

func (f *fakeInventory) Create(_ context.Context, item *models.Item) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[item.Name]; ok {
		return nil, common.ErrorAlreadyExists
	}
	item.ID = int64(len(f.items) + 1)
	f.items[item.Name] = item
	return item, nil
}

func (f *fakeInventory) Update(_ context.Context, name string, item *models.Item) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.items[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.items, name)
	item.ID = old.ID
	f.items[item.Name] = item
	return item, nil
}

func (f *fakeInventory) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[name]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, name)
	return nil
}

func (f *fakeInventory) TotalPrice(ctx context.Context) (float64, error) {
	s, err := f.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return s.TotalValue, nil
}

func (f *fakeInventory) Stats(context.Context) (*models.ItemStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &models.ItemStats{UniqueProducts: len(f.items)}
	for _, it := range f.items {
		s.TotalItems += it.Quantity
		s.TotalValue += it.Value()
		if it.LowStock() {
			s.LowStockCount++
		}
	}
	return s, nil
}

func (f *fakeInventory) LowStock(context.Context) ([]*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Item{}
	for _, it := range f.sorted() {
		if it.LowStock() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeInventory) Expiring(context.Context) ([]*models.Item, error) {
	return []*models.Item{}, nil
}

func (f *fakeInventory) ExportCSV(ctx context.Context, w io.Writer) error {
	items, err := f.List(ctx)
	if err != nil {
		return err
	}
	return services.WriteItemsCSV(w, items)
}

type fakeLedger struct {
	mu       sync.Mutex
	recorded []*models.Transaction
	err      error
}

func (f *fakeLedger) Record(_ context.Context, username, itemName string, typ models.TransactionType, quantity int) (*models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tr := &models.Transaction{
		ID:       int64(len(f.recorded) + 1),
		ItemName: itemName,
		Username: username,
		Type:     typ,
		Quantity: quantity,
	}
	f.recorded = append(f.recorded, tr)
	return tr, nil
}

func (f *fakeLedger) List(_ context.Context, itemName string) ([]*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Transaction{}
	for i := len(f.recorded) - 1; i >= 0; i-- {
		if itemName == "" || f.recorded[i].ItemName == itemName {
			out = append(out, f.recorded[i])
		}
	}
	return out, nil
}

type fakeArchiver struct {
	enabled bool
}

func (f fakeArchiver) Enabled() bool { return f.enabled }

func (f fakeArchiver) Create(context.Context) (*services.Archive, error) {
	if !f.enabled {
		return nil, common.ErrArchiveDisabled
	}
	return &services.Archive{Key: "exports/2026/03/01/x.csv", URL: "http://minio/exports/2026/03/01/x.csv"}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }
