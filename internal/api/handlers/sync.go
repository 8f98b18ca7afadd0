package handlers

import (
	"errors"
	"net/http"
	"time"

	"storesync/internal/logger"
	"storesync/internal/models"
	enginesync "storesync/internal/sync"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	coordinator *enginesync.Coordinator
	store       enginesync.ProductStore
	logger      *logger.Logger
}

func NewSyncHandler(coordinator *enginesync.Coordinator, store enginesync.ProductStore, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		coordinator: coordinator,
		store:       store,
		logger:      logger,
	}
}

// Trigger runs a sync on behalf of the manual (or forwarded opportunistic)
// caller. Auth happens in middleware.
func (h *SyncHandler) Trigger(c *gin.Context) {
	trigger := models.TriggerManual
	if c.Query("origin") == "storefront" {
		trigger = models.TriggerOpportunistic
	}
	h.runSync(c, trigger)
}

// CronTrigger is the scheduled path; same pipeline, separate secret.
func (h *SyncHandler) CronTrigger(c *gin.Context) {
	h.runSync(c, models.TriggerScheduled)
}

func (h *SyncHandler) runSync(c *gin.Context, trigger models.SyncTrigger) {
	result, err := h.coordinator.Run(c.Request.Context(), trigger)
	if err != nil {
		if errors.Is(err, enginesync.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	// Per-item failures do not fail the run; the caller sees them in the
	// result and still gets a 200.
	response := gin.H{
		"success": true,
		"result":  result,
	}
	if result.Message != "" {
		response["message"] = result.Message
	}
	c.JSON(http.StatusOK, response)
}

// Last reports the most recent run: in-memory if this process ran one,
// otherwise the persisted marker.
func (h *SyncHandler) Last(c *gin.Context) {
	if result := h.coordinator.LastResult(); result != nil {
		c.JSON(http.StatusOK, gin.H{"data": result})
		return
	}

	run, err := h.store.LastSyncRun(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load last sync"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No sync has run yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"trigger":     run.Trigger,
		"success":     run.Success,
		"created":     run.Created,
		"updated":     run.Updated,
		"deleted":     run.Deleted,
		"failed":      run.Failed,
		"message":     run.Message,
		"duration_ms": run.DurationMS,
		"synced_at":   run.SyncedAt.Format(time.RFC3339),
	}})
}
