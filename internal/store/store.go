package store

import (
	"context"
	"errors"
	"fmt"

	"storesync/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store wraps the document-style primitives the sync engine relies on:
// read-all, upsert-by-key and delete-by-key over the products collection.
// No multi-row transaction is assumed; every operation is individually
// idempotent.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// UpsertProduct inserts or overwrites the product keyed by its external ID.
// Repeating the same upsert leaves the row unchanged apart from updated_at.
func (s *Store) UpsertProduct(ctx context.Context, product *models.Product) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "price_cents", "category", "image_url", "stock_quantity", "updated_at",
		}),
	}).Create(product).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", product.ExternalID, err)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, externalID string) error {
	err := s.db.WithContext(ctx).Delete(&models.Product{}, "external_id = ?", externalID).Error
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", externalID, err)
	}
	return nil
}

func (s *Store) SaveSyncRun(ctx context.Context, run *models.SyncRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to save sync run: %w", err)
	}
	return nil
}

// LastSyncRun returns the newest recorded run, or nil when none exists yet.
func (s *Store) LastSyncRun(ctx context.Context) (*models.SyncRun, error) {
	var run models.SyncRun
	err := s.db.WithContext(ctx).Order("synced_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load last sync run: %w", err)
	}
	return &run, nil
}
