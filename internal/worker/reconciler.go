package worker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	"github.com/edukar/edukar-store/internal/domain/model"
)

// SellSource exposes the subset of application functionality required by the reconciler.
type SellSource interface {
	PendingSells(ctx context.Context, limit int) ([]model.Sell, error)
	ReconcileOrder(ctx context.Context, sell *model.Sell) (string, error)
}

// Reconciler polls PENDING sells and settles them from their gateway orders concurrently.
type Reconciler struct {
	source       SellSource
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Sell
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the reconciler worker pool.
func NewReconciler(source SellSource, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	return &Reconciler{
		source:       source,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Sell, batchSize*workers),
	}
}

// Start launches background processing.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) fetchAndDispatch(ctx context.Context) {
	sells, err := r.source.PendingSells(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("fetch pending sells failed", slog.String("error", err.Error()))
		return
	}
	for _, sell := range sells {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- sell:
		}
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case sell, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handleSell(ctx, sell)
		}
	}
}

func (r *Reconciler) handleSell(ctx context.Context, sell model.Sell) {
	state, err := r.source.ReconcileOrder(ctx, &sell)
	if err != nil {
		var gatewayErr *culqi.GatewayError
		if errors.As(err, &gatewayErr) && gatewayErr.StatusCode == http.StatusTooManyRequests {
			r.logger.Warn("gateway rate limited", slog.Int64("sell_id", sell.ID))
			select {
			case <-ctx.Done():
			case <-time.After(r.pollInterval):
			}
			return
		}
		r.logger.Error("reconcile sell failed", slog.Int64("sell_id", sell.ID), slog.String("error", err.Error()))
		return
	}
	r.logger.Debug("sell reconciled", slog.Int64("sell_id", sell.ID), slog.String("state", state))
}
