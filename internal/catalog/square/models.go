package square

// Wire shapes for the subset of the Square Catalog and Inventory APIs the
// sync engine consumes. Variations arrive as nested catalog objects carrying
// item_variation_data.

type CatalogObject struct {
	Type              string             `json:"type"`
	ID                string             `json:"id"`
	IsDeleted         bool               `json:"is_deleted"`
	ItemData          *ItemData          `json:"item_data,omitempty"`
	ItemVariationData *ItemVariationData `json:"item_variation_data,omitempty"`
	ImageData         *ImageData         `json:"image_data,omitempty"`
	CategoryData      *CategoryData      `json:"category_data,omitempty"`
}

type ItemData struct {
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id"`
	ImageIDs   []string        `json:"image_ids"`
	Variations []CatalogObject `json:"variations"`
}

type ItemVariationData struct {
	ItemID     string `json:"item_id"`
	Name       string `json:"name"`
	PriceMoney *Money `json:"price_money"`
}

type ImageData struct {
	URL string `json:"url"`
}

type CategoryData struct {
	Name string `json:"name"`
}

type Money struct {
	// Amount is in the currency's smallest unit (cents for USD).
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type listCatalogResponse struct {
	Objects []CatalogObject `json:"objects"`
	Cursor  string          `json:"cursor"`
}

type InventoryCount struct {
	CatalogObjectID string `json:"catalog_object_id"`
	LocationID      string `json:"location_id"`
	State           string `json:"state"`
	// Quantity is a decimal string on the wire, e.g. "12".
	Quantity string `json:"quantity"`
}

type batchRetrieveCountsRequest struct {
	LocationIDs []string `json:"location_ids"`
	Cursor      string   `json:"cursor,omitempty"`
}

type batchRetrieveCountsResponse struct {
	Counts []InventoryCount `json:"counts"`
	Cursor string           `json:"cursor"`
}
