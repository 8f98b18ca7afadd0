package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storesync/internal/catalog"
	"storesync/internal/logger"
	"storesync/internal/models"
)

// Coordinator owns the fetch -> reconcile -> write pipeline and the global
// single-flight guarantee. Every trigger path (manual, scheduled,
// opportunistic) funnels through one Coordinator instance, so concurrent
// overlapping runs against the same store cannot happen.
type Coordinator struct {
	source     catalog.Source
	store      ProductStore
	reconciler *Reconciler
	writer     *Writer
	logger     *logger.Logger

	mu         sync.Mutex
	running    bool
	lastResult *Result
}

func NewCoordinator(source catalog.Source, store ProductStore, workers int, logger *logger.Logger) *Coordinator {
	return &Coordinator{
		source:     source,
		store:      store,
		reconciler: NewReconciler(logger),
		writer:     NewWriter(store, workers, logger),
		logger:     logger,
	}
}

// Run executes one sync. A second call arriving while a run is active gets
// ErrAlreadyRunning instead of racing the writer pool. The running flag is
// cleared on every exit path.
func (c *Coordinator) Run(ctx context.Context, trigger models.SyncTrigger) (*Result, error) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	started := time.Now()
	c.logger.Info("Sync started (trigger=%s)", trigger)

	result, err := c.run(ctx, started)
	if err != nil {
		c.logger.Error("Sync failed after %s: %v", time.Since(started), err)
		c.recordRun(trigger, &Result{
			Message:  err.Error(),
			Duration: time.Since(started),
			SyncedAt: time.Now(),
		}, false)
		return nil, err
	}

	c.mu.Lock()
	c.lastResult = result
	c.mu.Unlock()

	c.logger.Info("Sync completed in %s: %d created, %d updated, %d deleted, %d failed",
		result.Duration, result.Created, result.Updated, result.Deleted, result.Failed)
	c.recordRun(trigger, result, true)

	return result, nil
}

func (c *Coordinator) run(ctx context.Context, started time.Time) (*Result, error) {
	fetched, err := c.source.FetchAll(ctx)
	if err != nil {
		return nil, c.mapDeadline(ctx, fmt.Errorf("fetch failed: %w", err))
	}

	persisted, err := c.store.ListProducts(ctx)
	if err != nil {
		return nil, c.mapDeadline(ctx, fmt.Errorf("failed to read store: %w", err))
	}

	plan, err := c.reconciler.Plan(fetched, persisted)
	if err != nil {
		if errors.Is(err, ErrEmptyFetchSuspected) {
			// Not fatal: report it and leave the store untouched.
			return &Result{
				Message:  "source returned an empty catalog; suspected outage, no changes applied",
				Duration: time.Since(started),
				SyncedAt: time.Now(),
			}, nil
		}
		return nil, err
	}

	c.logger.Info("Plan: %d to create, %d to update, %d to delete",
		len(plan.ToCreate), len(plan.ToUpdate), len(plan.ToDelete))

	result := c.writer.Apply(ctx, plan)
	result.Duration = time.Since(started)
	result.SyncedAt = time.Now()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return result, nil
}

// LastResult returns the most recent completed run in this process, or nil.
func (c *Coordinator) LastResult() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResult
}

func (c *Coordinator) mapDeadline(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

// recordRun persists the run as the durable last-sync marker, best effort.
func (c *Coordinator) recordRun(trigger models.SyncTrigger, result *Result, success bool) {
	run := &models.SyncRun{
		Trigger:    string(trigger),
		Success:    success,
		Created:    result.Created,
		Updated:    result.Updated,
		Deleted:    result.Deleted,
		Failed:     result.Failed,
		Message:    result.Message,
		DurationMS: result.Duration.Milliseconds(),
		SyncedAt:   result.SyncedAt,
	}
	if run.SyncedAt.IsZero() {
		run.SyncedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.store.SaveSyncRun(ctx, run); err != nil {
		c.logger.Error("Failed to record sync run: %v", err)
	}
}
