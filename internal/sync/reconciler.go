package sync

import (
	"time"

	"storesync/internal/catalog"
	"storesync/internal/logger"
	"storesync/internal/models"
)

// Plan is the change-set that brings the persisted store in line with one
// fetched snapshot. It lives only for the duration of a single run.
type Plan struct {
	ToCreate []models.Product
	ToUpdate []Change
	ToDelete []string // external IDs no longer present upstream
}

// Change pairs the new product state with the names of the fields that
// actually differ, for logging and debugging oscillating diffs.
type Change struct {
	Product models.Product
	Fields  []string
}

func (p *Plan) Empty() bool {
	return len(p.ToCreate) == 0 && len(p.ToUpdate) == 0 && len(p.ToDelete) == 0
}

// Size returns the number of operations the plan carries.
func (p *Plan) Size() int {
	return len(p.ToCreate) + len(p.ToUpdate) + len(p.ToDelete)
}

// Reconciler diffs a fetched catalog snapshot against the persisted store.
type Reconciler struct {
	logger *logger.Logger
}

func NewReconciler(logger *logger.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Plan computes the create/update/delete sets. When the fetch is empty but
// the store is not, it returns the empty plan together with
// ErrEmptyFetchSuspected instead of scheduling a store-wide deletion.
func (r *Reconciler) Plan(fetched []catalog.Item, persisted []models.Product) (*Plan, error) {
	plan := &Plan{}

	if len(fetched) == 0 && len(persisted) > 0 {
		r.logger.Warn("Source returned 0 items while store holds %d; refusing to delete", len(persisted))
		return plan, ErrEmptyFetchSuspected
	}

	existing := make(map[string]models.Product, len(persisted))
	for _, product := range persisted {
		existing[product.ExternalID] = product
	}

	seen := make(map[string]bool, len(fetched))
	for _, item := range fetched {
		if seen[item.ExternalID] {
			r.logger.Warn("Duplicate external ID %s in fetch, keeping first occurrence", item.ExternalID)
			continue
		}
		seen[item.ExternalID] = true

		current, ok := existing[item.ExternalID]
		if !ok {
			plan.ToCreate = append(plan.ToCreate, productFromItem(item))
			continue
		}

		next := productFromItem(item)
		next.CreatedAt = current.CreatedAt
		// An unknown stock count carries no new information; keep the last
		// known value instead of diffing against it.
		if next.StockQuantity == nil {
			next.StockQuantity = current.StockQuantity
		}

		if fields := diffFields(current, next); len(fields) > 0 {
			plan.ToUpdate = append(plan.ToUpdate, Change{Product: next, Fields: fields})
		}
	}

	for externalID := range existing {
		if !seen[externalID] {
			plan.ToDelete = append(plan.ToDelete, externalID)
		}
	}

	return plan, nil
}

func productFromItem(item catalog.Item) models.Product {
	now := time.Now()
	return models.Product{
		ExternalID:    item.ExternalID,
		Name:          item.Name,
		PriceCents:    item.PriceCents,
		Category:      item.Category,
		ImageURL:      item.ImageURL,
		StockQuantity: item.StockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func diffFields(current, next models.Product) []string {
	var fields []string

	if current.Name != next.Name {
		fields = append(fields, "name")
	}
	// Prices are integer cents on both sides; this comparison can never
	// oscillate from floating-point representation.
	if current.PriceCents != next.PriceCents {
		fields = append(fields, "price_cents")
	}
	if !equalStringPtr(current.Category, next.Category) {
		fields = append(fields, "category")
	}
	if current.ImageURL != next.ImageURL {
		fields = append(fields, "image_url")
	}
	if !equalInt64Ptr(current.StockQuantity, next.StockQuantity) {
		fields = append(fields, "stock_quantity")
	}

	return fields
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
