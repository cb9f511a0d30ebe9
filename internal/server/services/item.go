package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/config"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/repomanager"
)

// CSVHeader is the first row of every inventory export.
var CSVHeader = []string{"ID", "Name", "Category", "Quantity", "MinQuantity", "Price", "ExpirationDate", "Tags"}

const dateLayout = "2006-01-02"

// ItemService implements inventory CRUD and reporting.
type ItemService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	expiringWithin time.Duration
	storeTimeout   time.Duration
	now            func() time.Time
}

func NewItemService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ItemService {
	return &ItemService{
		db:             db,
		repomanager:    m,
		expiringWithin: cfg.ExpiringWithin,
		storeTimeout:   cfg.StoreTimeout,
		now:            time.Now,
	}
}

func (s *ItemService) List(ctx context.Context) ([]*models.Item, error) {
	return s.repomanager.Items(s.db).List(ctx)
}

// Search matches query against item names, ignoring case. A blank query
// returns every item.
func (s *ItemService) Search(ctx context.Context, query string) ([]*models.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}
	return s.repomanager.Items(s.db).Search(ctx, query)
}

func (s *ItemService) Get(ctx context.Context, name string) (*models.Item, error) {
	return s.repomanager.Items(s.db).FindByName(ctx, name)
}

// Create validates and stores a new item. A duplicate name yields
// common.ErrorAlreadyExists.
func (s *ItemService) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := normalizeItem(item); err != nil {
		return nil, err
	}
	return s.repomanager.Items(s.db).Create(ctx, item)
}

// Update replaces the item called name with item, possibly renaming it.
func (s *ItemService) Update(ctx context.Context, name string, item *models.Item) (*models.Item, error) {
	if err := normalizeItem(item); err != nil {
		return nil, err
	}
	return s.repomanager.Items(s.db).Update(ctx, name, item)
}

func (s *ItemService) Delete(ctx context.Context, name string) error {
	return s.repomanager.Items(s.db).Delete(ctx, name)
}

// TotalPrice is the sum of quantity times price over the whole inventory.
func (s *ItemService) TotalPrice(ctx context.Context) (float64, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return stats.TotalValue, nil
}

func (s *ItemService) Stats(ctx context.Context) (*models.ItemStats, error) {
	return s.repomanager.Items(s.db).Stats(ctx)
}

// LowStock returns items at or below their minimum quantity.
func (s *ItemService) LowStock(ctx context.Context) ([]*models.Item, error) {
	return s.repomanager.Items(s.db).LowStock(ctx)
}

// Expiring returns items that expire within the configured window.
func (s *ItemService) Expiring(ctx context.Context) ([]*models.Item, error) {
	cutoff := s.now().Add(s.expiringWithin)
	return s.repomanager.Items(s.db).ExpiringBefore(ctx, cutoff)
}

// ExportCSV writes every item to w as CSV, starting with CSVHeader.
func (s *ItemService) ExportCSV(ctx context.Context, w io.Writer) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}
	return WriteItemsCSV(w, items)
}

// WriteItemsCSV renders items as CSV. Tags are joined with ";".
func WriteItemsCSV(w io.Writer, items []*models.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, it := range items {
		exp := ""
		if it.ExpirationDate != nil {
			exp = it.ExpirationDate.Format(dateLayout)
		}
		record := []string{
			strconv.FormatInt(it.ID, 10),
			it.Name,
			it.Category,
			strconv.Itoa(it.Quantity),
			strconv.Itoa(it.MinQuantity),
			strconv.FormatFloat(it.Price, 'f', 2, 64),
			exp,
			strings.Join(it.Tags, ";"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DemoItems is the starter inventory used by SeedDemo.
func DemoItems() []*models.Item {
	return []*models.Item{
		{Name: "Pen", Category: "Stationery", Quantity: 100, MinQuantity: 20, Price: 1.5, Tags: []string{"office", "writing"}},
		{Name: "Notebook", Category: "Stationery", Quantity: 50, MinQuantity: 10, Price: 3.2, Tags: []string{"office", "paper"}},
		{Name: "Desk", Category: "Furniture", Quantity: 5, MinQuantity: 2, Price: 150, Tags: []string{"office", "wood"}},
		{Name: "TV", Category: "Electronics", Quantity: 3, MinQuantity: 1, Price: 499.99, Tags: []string{"electronics", "home"}},
	}
}

// SeedDemo stores DemoItems when the inventory is empty and returns how many
// items were added. The whole seeding run shares one store timeout.
func (s *ItemService) SeedDemo(ctx context.Context) (int, error) {
	ctx, cancel := dbx.Bounded(ctx, s.storeTimeout)
	defer cancel()

	repo := s.repomanager.Items(s.db)

	n, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	added := 0
	for _, item := range DemoItems() {
		if _, err := repo.Create(ctx, item); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				continue
			}
			return added, fmt.Errorf("seed %q: %w", item.Name, err)
		}
		added++
	}
	return added, nil
}

func normalizeItem(item *models.Item) error {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	switch {
	case item.Name == "":
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	case item.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", common.ErrValidation)
	case item.MinQuantity < 0:
		return fmt.Errorf("%w: minimum quantity must not be negative", common.ErrValidation)
	case item.Price < 0:
		return fmt.Errorf("%w: price must not be negative", common.ErrValidation)
	}

	tags := make([]string, 0, len(item.Tags))
	for _, t := range item.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	item.Tags = tags
	return nil
}
