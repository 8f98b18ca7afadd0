package store

import (
	"context"
	"testing"
	"time"

	"storesync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.SyncRun{}))
	return New(db)
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stock := int64(5)
	product := &models.Product{
		ExternalID:    "ITEM1",
		Name:          "Basmati Rice",
		PriceCents:    1299,
		ImageURL:      "/images/placeholder.png",
		StockQuantity: &stock,
	}

	require.NoError(t, s.UpsertProduct(ctx, product))
	require.NoError(t, s.UpsertProduct(ctx, product))
	require.NoError(t, s.UpsertProduct(ctx, product))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1, "repeated upserts never duplicate the key")
	assert.Equal(t, int64(1299), products[0].PriceCents)
}

func TestUpsertOverwritesTrackedFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertProduct(ctx, &models.Product{
		ExternalID: "ITEM1", Name: "Old Name", PriceCents: 100,
	}))
	require.NoError(t, s.UpsertProduct(ctx, &models.Product{
		ExternalID: "ITEM1", Name: "New Name", PriceCents: 250,
	}))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "New Name", products[0].Name)
	assert.Equal(t, int64(250), products[0].PriceCents)
}

func TestDeleteProduct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertProduct(ctx, &models.Product{ExternalID: "ITEM1", Name: "X"}))
	require.NoError(t, s.DeleteProduct(ctx, "ITEM1"))
	// deleting a missing key is a no-op, matching per-item idempotency
	require.NoError(t, s.DeleteProduct(ctx, "ITEM1"))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestLastSyncRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.LastSyncRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, run)

	require.NoError(t, s.SaveSyncRun(ctx, &models.SyncRun{
		Trigger: "manual", Success: true, Created: 2,
		SyncedAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, s.SaveSyncRun(ctx, &models.SyncRun{
		Trigger: "scheduled", Success: true, Updated: 1,
		SyncedAt: time.Now(),
	}))

	run, err = s.LastSyncRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "scheduled", run.Trigger)
}
