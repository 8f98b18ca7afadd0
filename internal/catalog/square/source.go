package square

import (
	"context"
	"strconv"
	"sync"

	"storesync/internal/catalog"
	"storesync/internal/images"
	"storesync/internal/logger"
)

// Source implements catalog.Source against the Square point-of-sale API.
// One fetch issues the catalog listing and the inventory count retrieval
// concurrently and joins them by item ID.
type Source struct {
	client *Client
	logger *logger.Logger
}

func NewSource(client *Client, logger *logger.Logger) *Source {
	return &Source{
		client: client,
		logger: logger,
	}
}

func (s *Source) FetchAll(ctx context.Context) ([]catalog.Item, error) {
	var (
		wg      sync.WaitGroup
		objects []CatalogObject
		counts  []InventoryCount
		objErr  error
		cntErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		objects, objErr = s.client.ListCatalog(ctx)
	}()
	go func() {
		defer wg.Done()
		counts, cntErr = s.client.RetrieveInventoryCounts(ctx)
	}()
	wg.Wait()

	if objErr != nil {
		return nil, objErr
	}
	if cntErr != nil {
		return nil, cntErr
	}

	return s.join(objects, counts), nil
}

// join assembles catalog items from the raw object listing and the inventory
// counts. An item whose variations have no count row keeps a nil stock
// quantity: the source gave no information, which is not the same as zero.
func (s *Source) join(objects []CatalogObject, counts []InventoryCount) []catalog.Item {
	imageURLs := make(map[string]string)
	categoryNames := make(map[string]string)
	for _, obj := range objects {
		switch {
		case obj.Type == "IMAGE" && obj.ImageData != nil:
			imageURLs[obj.ID] = obj.ImageData.URL
		case obj.Type == "CATEGORY" && obj.CategoryData != nil:
			categoryNames[obj.ID] = obj.CategoryData.Name
		}
	}

	// Counts are reported per variation; aggregate them per variation ID.
	stockByVariation := make(map[string]int64)
	for _, count := range counts {
		if count.State != "IN_STOCK" {
			continue
		}
		qty, err := strconv.ParseInt(count.Quantity, 10, 64)
		if err != nil {
			s.logger.Warn("Skipping unparsable inventory quantity %q for %s", count.Quantity, count.CatalogObjectID)
			continue
		}
		stockByVariation[count.CatalogObjectID] += qty
	}

	var items []catalog.Item
	for _, obj := range objects {
		if obj.Type != "ITEM" || obj.IsDeleted || obj.ItemData == nil {
			continue
		}

		item := catalog.Item{
			ExternalID: obj.ID,
			Name:       obj.ItemData.Name,
		}

		if name, ok := categoryNames[obj.ItemData.CategoryID]; ok {
			slug := catalog.Slug(name)
			item.Category = &slug
		}

		rawImage := ""
		if len(obj.ItemData.ImageIDs) > 0 {
			rawImage = imageURLs[obj.ItemData.ImageIDs[0]]
		}
		item.ImageURL = images.Normalize(rawImage)

		counted := false
		var stock int64
		for _, variation := range obj.ItemData.Variations {
			if item.PriceCents == 0 && variation.ItemVariationData != nil && variation.ItemVariationData.PriceMoney != nil {
				item.PriceCents = variation.ItemVariationData.PriceMoney.Amount
			}
			if qty, ok := stockByVariation[variation.ID]; ok {
				stock += qty
				counted = true
			}
		}
		if counted {
			if stock < 0 {
				stock = 0
			}
			item.StockQuantity = &stock
		}

		items = append(items, item)
	}

	return items
}
