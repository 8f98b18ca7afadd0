package sync

import (
	"testing"

	"storesync/internal/catalog"
	"storesync/internal/logger"
	"storesync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New("error")
}

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func persistedProduct(id string, priceCents int64) models.Product {
	return models.Product{
		ExternalID: id,
		Name:       "Product " + id,
		PriceCents: priceCents,
	}
}

func fetchedItem(id string, priceCents int64) catalog.Item {
	return catalog.Item{
		ExternalID: id,
		Name:       "Product " + id,
		PriceCents: priceCents,
	}
}

func TestPlanCreateUpdateDelete(t *testing.T) {
	r := NewReconciler(testLogger())

	fetched := []catalog.Item{
		fetchedItem("A", 500),
		fetchedItem("B", 300),
	}
	persisted := []models.Product{
		persistedProduct("A", 500),
		persistedProduct("C", 100),
	}

	plan, err := r.Plan(fetched, persisted)
	require.NoError(t, err)

	require.Len(t, plan.ToCreate, 1)
	assert.Equal(t, "B", plan.ToCreate[0].ExternalID)
	assert.Empty(t, plan.ToUpdate, "A is unchanged")
	require.Len(t, plan.ToDelete, 1)
	assert.Equal(t, "C", plan.ToDelete[0])
}

func TestPlanEmptyFetchGuard(t *testing.T) {
	r := NewReconciler(testLogger())

	persisted := []models.Product{
		persistedProduct("A", 100),
		persistedProduct("B", 200),
		persistedProduct("C", 300),
	}

	plan, err := r.Plan(nil, persisted)
	assert.ErrorIs(t, err, ErrEmptyFetchSuspected)
	assert.True(t, plan.Empty(), "guard must yield the empty plan, never mass deletion")
}

func TestPlanEmptyFetchEmptyStore(t *testing.T) {
	r := NewReconciler(testLogger())

	plan, err := r.Plan(nil, nil)
	require.NoError(t, err, "an empty store makes an empty fetch trustworthy")
	assert.True(t, plan.Empty())
}

func TestPlanPriceChangeInCents(t *testing.T) {
	r := NewReconciler(testLogger())

	// 499 -> 500 is a genuine update; integer cents cannot produce a
	// representation-error non-diff.
	plan, err := r.Plan(
		[]catalog.Item{fetchedItem("A", 500)},
		[]models.Product{persistedProduct("A", 499)},
	)
	require.NoError(t, err)
	require.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, []string{"price_cents"}, plan.ToUpdate[0].Fields)
	assert.Equal(t, int64(500), plan.ToUpdate[0].Product.PriceCents)
}

func TestPlanUnknownStockIsNotAChange(t *testing.T) {
	r := NewReconciler(testLogger())

	item := fetchedItem("A", 500)
	item.StockQuantity = nil

	product := persistedProduct("A", 500)
	product.StockQuantity = intPtr(12)

	plan, err := r.Plan([]catalog.Item{item}, []models.Product{product})
	require.NoError(t, err)
	assert.Empty(t, plan.ToUpdate, "unknown stock carries no new information")
}

func TestPlanUnknownStockRetainedOnOtherChange(t *testing.T) {
	r := NewReconciler(testLogger())

	item := fetchedItem("A", 600)
	item.StockQuantity = nil

	product := persistedProduct("A", 500)
	product.StockQuantity = intPtr(12)

	plan, err := r.Plan([]catalog.Item{item}, []models.Product{product})
	require.NoError(t, err)
	require.Len(t, plan.ToUpdate, 1)
	require.NotNil(t, plan.ToUpdate[0].Product.StockQuantity)
	assert.Equal(t, int64(12), *plan.ToUpdate[0].Product.StockQuantity,
		"the last known count survives an unrelated update")
}

func TestPlanStockGoingToZeroIsAChange(t *testing.T) {
	r := NewReconciler(testLogger())

	item := fetchedItem("A", 500)
	item.StockQuantity = intPtr(0)

	product := persistedProduct("A", 500)
	product.StockQuantity = intPtr(3)

	plan, err := r.Plan([]catalog.Item{item}, []models.Product{product})
	require.NoError(t, err)
	require.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, []string{"stock_quantity"}, plan.ToUpdate[0].Fields)
}

func TestPlanCategoryAndImageDiff(t *testing.T) {
	r := NewReconciler(testLogger())

	item := fetchedItem("A", 500)
	item.Category = strPtr("spices")
	item.ImageURL = "https://lh3.googleusercontent.com/d/abc=w1200"

	product := persistedProduct("A", 500)
	product.Category = strPtr("snacks")
	product.ImageURL = "/images/placeholder.png"

	plan, err := r.Plan([]catalog.Item{item}, []models.Product{product})
	require.NoError(t, err)
	require.Len(t, plan.ToUpdate, 1)
	assert.ElementsMatch(t, []string{"category", "image_url"}, plan.ToUpdate[0].Fields)
}

func TestPlanDuplicateFetchIDsKeepFirst(t *testing.T) {
	r := NewReconciler(testLogger())

	fetched := []catalog.Item{
		fetchedItem("A", 500),
		fetchedItem("A", 900),
	}

	plan, err := r.Plan(fetched, nil)
	require.NoError(t, err)
	require.Len(t, plan.ToCreate, 1)
	assert.Equal(t, int64(500), plan.ToCreate[0].PriceCents)
}

func TestPlanSetsAreDisjoint(t *testing.T) {
	r := NewReconciler(testLogger())

	fetched := []catalog.Item{
		fetchedItem("A", 100),
		fetchedItem("B", 200),
	}
	persisted := []models.Product{
		persistedProduct("B", 250),
		persistedProduct("C", 300),
	}

	plan, err := r.Plan(fetched, persisted)
	require.NoError(t, err)

	ids := map[string]int{}
	for _, p := range plan.ToCreate {
		ids[p.ExternalID]++
	}
	for _, ch := range plan.ToUpdate {
		ids[ch.Product.ExternalID]++
	}
	for _, id := range plan.ToDelete {
		ids[id]++
	}
	for id, n := range ids {
		assert.Equal(t, 1, n, "id %s appears in more than one set", id)
	}
	assert.Equal(t, 3, plan.Size())
}
