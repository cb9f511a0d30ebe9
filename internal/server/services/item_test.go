package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/config"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newItemService(t *testing.T) (*ItemService, *mocks.MockItemsRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockItemsRepository(ctrl)
	db, _ := newSQLMockDB(t)
	s := NewItemService(db, &fakeRepoManager{items: repo}, &config.Config{ExpiringWithin: 30 * 24 * time.Hour})
	s.now = func() time.Time { return testNow }
	return s, repo
}

func TestItemService_Create_Normalizes(t *testing.T) {
	s, repo := newItemService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, it *models.Item) (*models.Item, error) {
		assert.Equal(t, "Pen", it.Name)
		assert.Equal(t, "Office", it.Category)
		assert.Equal(t, []string{"blue", "cheap"}, it.Tags)
		it.ID = 1
		return it, nil
	})

	got, err := s.Create(context.Background(), &models.Item{
		Name: "  Pen ", Category: " Office", Quantity: 1, MinQuantity: 5, Price: 1,
		Tags: []string{" blue", "", "cheap "},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
}

func TestItemService_Create_Validation(t *testing.T) {
	s, _ := newItemService(t)

	for _, it := range []*models.Item{
		{Name: " "},
		{Name: "Pen", Quantity: -1},
		{Name: "Pen", MinQuantity: -1},
		{Name: "Pen", Price: -0.01},
	} {
		_, err := s.Create(context.Background(), it)
		require.ErrorIs(t, err, common.ErrValidation)
	}
}

func TestItemService_UpdateAndDelete(t *testing.T) {
	s, repo := newItemService(t)

	repo.EXPECT().Update(gomock.Any(), "Pen", gomock.Any()).Return(nil, common.ErrorNotFound)
	_, err := s.Update(context.Background(), "Pen", &models.Item{Name: "Pen"})
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Update(context.Background(), "Pen", &models.Item{Name: ""})
	require.ErrorIs(t, err, common.ErrValidation)

	repo.EXPECT().Delete(gomock.Any(), "Pen").Return(nil)
	require.NoError(t, s.Delete(context.Background(), "Pen"))
}

func TestItemService_Search(t *testing.T) {
	s, repo := newItemService(t)

	repo.EXPECT().List(gomock.Any()).Return([]*models.Item{{Name: "A"}}, nil)
	got, err := s.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	repo.EXPECT().Search(gomock.Any(), "pe").Return([]*models.Item{}, nil)
	got, err = s.Search(context.Background(), " pe ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestItemService_Reports(t *testing.T) {
	s, repo := newItemService(t)

	stats := &models.ItemStats{TotalItems: 10, TotalValue: 42.5, LowStockCount: 1, UniqueProducts: 2}
	repo.EXPECT().Stats(gomock.Any()).Return(stats, nil).Times(2)

	got, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats, got)

	total, err := s.TotalPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42.5, total)

	repo.EXPECT().ExpiringBefore(gomock.Any(), testNow.Add(30*24*time.Hour)).Return(nil, nil)
	_, err = s.Expiring(context.Background())
	require.NoError(t, err)

	repo.EXPECT().Stats(gomock.Any()).Return(nil, errBoom{})
	_, err = s.TotalPrice(context.Background())
	require.Error(t, err)
}

func TestItemService_ExportCSV(t *testing.T) {
	s, repo := newItemService(t)
	exp := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().List(gomock.Any()).Return([]*models.Item{
		{ID: 1, Name: "Milk, whole", Category: "Food", Quantity: 3, MinQuantity: 5, Price: 1.5, Tags: []string{"dairy", "cold"}, ExpirationDate: &exp},
		{ID: 2, Name: "Pen", Quantity: 100, MinQuantity: 20, Price: 1},
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"1", "Milk, whole", "Food", "3", "5", "1.50", "2026-04-30", "dairy;cold"}, records[1])
	assert.Equal(t, []string{"2", "Pen", "", "100", "20", "1.00", "", ""}, records[2])
}

func TestItemService_SeedDemo(t *testing.T) {
	s, repo := newItemService(t)

	repo.EXPECT().Count(gomock.Any()).Return(0, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, it *models.Item) (*models.Item, error) {
		return it, nil
	}).Times(len(DemoItems()))

	n, err := s.SeedDemo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	repo.EXPECT().Count(gomock.Any()).Return(3, nil)
	n, err = s.SeedDemo(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "non-empty inventory is left alone")
}

func TestItemService_SeedDemo_BoundedByStoreTimeout(t *testing.T) {
	s, repo := newItemService(t)
	s.storeTimeout = 2 * time.Second

	hasDeadline := func(ctx context.Context) {
		deadline, ok := ctx.Deadline()
		require.True(t, ok, "store call must carry a deadline")
		assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, 2*time.Second)
	}

	repo.EXPECT().Count(gomock.Any()).DoAndReturn(func(ctx context.Context) (int, error) {
		hasDeadline(ctx)
		return 0, nil
	})
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, it *models.Item) (*models.Item, error) {
		hasDeadline(ctx)
		return it, nil
	}).Times(len(DemoItems()))

	n, err := s.SeedDemo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(DemoItems()), n)
}
