package sync

import (
	"context"
	"sync"

	"storesync/internal/logger"
	"storesync/internal/models"
)

// ProductStore is the slice of the persistence layer the engine writes
// through: document-style read-all, upsert-by-key and delete-by-key, plus
// the sync-run marker. internal/store implements it over the database.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpsertProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, externalID string) error
	SaveSyncRun(ctx context.Context, run *models.SyncRun) error
	LastSyncRun(ctx context.Context) (*models.SyncRun, error)
}

type opKind int

const (
	opUpsert opKind = iota
	opDelete
)

type writeOp struct {
	kind       opKind
	externalID string
	product    *models.Product
	isCreate   bool
}

// Writer applies a reconciliation plan to the store with a fixed-size worker
// pool. A failed item is recorded and skipped; its siblings still run.
type Writer struct {
	store   ProductStore
	workers int
	logger  *logger.Logger
}

func NewWriter(store ProductStore, workers int, logger *logger.Logger) *Writer {
	if workers < 1 {
		workers = 1
	}
	return &Writer{
		store:   store,
		workers: workers,
		logger:  logger,
	}
}

// Apply executes every operation in the plan. It only stops early when the
// context is cancelled, in which case the unattempted operations are
// recorded as cancelled failures.
func (w *Writer) Apply(ctx context.Context, plan *Plan) *Result {
	ops := make([]writeOp, 0, plan.Size())
	for i := range plan.ToCreate {
		ops = append(ops, writeOp{kind: opUpsert, externalID: plan.ToCreate[i].ExternalID, product: &plan.ToCreate[i], isCreate: true})
	}
	for i := range plan.ToUpdate {
		ops = append(ops, writeOp{kind: opUpsert, externalID: plan.ToUpdate[i].Product.ExternalID, product: &plan.ToUpdate[i].Product})
	}
	for _, externalID := range plan.ToDelete {
		ops = append(ops, writeOp{kind: opDelete, externalID: externalID})
	}

	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)

	queue := make(chan writeOp)

	record := func(fn func(*Result)) {
		mu.Lock()
		fn(&result)
		mu.Unlock()
	}

	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for op := range queue {
				if err := ctx.Err(); err != nil {
					record(func(r *Result) {
						r.Failed++
						r.Failures = append(r.Failures, ItemFailure{
							ExternalID: op.externalID,
							Kind:       KindCancelled,
							Message:    err.Error(),
						})
					})
					continue
				}
				w.execute(ctx, op, record)
			}
		}()
	}

	for _, op := range ops {
		queue <- op
	}
	close(queue)
	wg.Wait()

	return &result
}

func (w *Writer) execute(ctx context.Context, op writeOp, record func(func(*Result))) {
	switch op.kind {
	case opUpsert:
		if err := w.store.UpsertProduct(ctx, op.product); err != nil {
			w.logger.Error("Upsert failed for %s: %v", op.externalID, err)
			record(func(r *Result) {
				r.Failed++
				r.Failures = append(r.Failures, ItemFailure{
					ExternalID: op.externalID,
					Kind:       KindWriteFailed,
					Message:    err.Error(),
				})
			})
			return
		}
		if op.isCreate {
			record(func(r *Result) { r.Created++ })
		} else {
			record(func(r *Result) { r.Updated++ })
		}
	case opDelete:
		if err := w.store.DeleteProduct(ctx, op.externalID); err != nil {
			w.logger.Error("Delete failed for %s: %v", op.externalID, err)
			record(func(r *Result) {
				r.Failed++
				r.Failures = append(r.Failures, ItemFailure{
					ExternalID: op.externalID,
					Kind:       KindDeleteFailed,
					Message:    err.Error(),
				})
			})
			return
		}
		record(func(r *Result) { r.Deleted++ })
	}
}
