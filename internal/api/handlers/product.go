package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"storesync/internal/events"
	"storesync/internal/logger"
	"storesync/internal/models"
	"storesync/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductHandler struct {
	db         *gorm.DB
	store      *store.Store
	publisher  *events.Publisher
	staleAfter time.Duration
	logger     *logger.Logger
}

func NewProductHandler(db *gorm.DB, store *store.Store, publisher *events.Publisher, staleAfter time.Duration, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		db:         db,
		store:      store,
		publisher:  publisher,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	var products []models.Product

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	// Filters
	category := c.Query("category")
	search := c.Query("search")
	inStock := c.Query("in_stock")

	query := h.db.Model(&models.Product{})

	if category != "" {
		query = query.Where("category = ?", category)
	}

	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	if inStock == "true" {
		query = query.Where("stock_quantity IS NULL OR stock_quantity > 0")
	}

	var total int64
	query.Count(&total)

	if err := query.Order("name").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	h.maybeRequestSync(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"data": products,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.db.First(&product, "external_id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

// maybeRequestSync fires the opportunistic trigger: when the newest recorded
// sync is older than the staleness window, a sync.requested event goes out.
// Best effort only; storefront reads never wait on it or fail from it.
func (h *ProductHandler) maybeRequestSync(ctx context.Context) {
	if h.publisher == nil {
		return
	}

	run, err := h.store.LastSyncRun(ctx)
	if err != nil {
		h.logger.Debug("Staleness check skipped: %v", err)
		return
	}
	if run != nil && time.Since(run.SyncedAt) < h.staleAfter {
		return
	}

	h.logger.Info("Catalog stale, requesting opportunistic sync")
	go h.publisher.PublishSyncRequested(context.Background(), "storefront")
}
