package catalog

import "context"

// Item is one sellable item as reported by the external source, already
// normalized (image ref rewritten, price in cents). Items are produced fresh
// on every fetch and never mutated afterwards.
type Item struct {
	ExternalID string
	Name       string
	PriceCents int64
	Category   *string
	ImageURL   string
	// StockQuantity nil means the source reported no count for this item.
	StockQuantity *int64
}

// Source fetches the full external catalog with current stock counts.
// Implementations: the Square point-of-sale API and the legacy spreadsheet
// export. Exactly one is selected at startup from configuration.
type Source interface {
	// FetchAll returns every item the source knows about. A zero-length
	// result is not an error here; deciding whether an empty catalog is
	// trustworthy is the reconciler's job.
	FetchAll(ctx context.Context) ([]Item, error)
}
