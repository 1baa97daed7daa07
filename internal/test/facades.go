package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edukar/edukar-store/internal/domain/model"
)

// SellSourceStub mimics the reconciler's view of the application.
type SellSourceStub struct {
	Batches     [][]model.Sell
	PendingFn   func(context.Context, int) ([]model.Sell, error)
	ReconcileFn func(context.Context, *model.Sell) (string, error)
	Reconciled  []int64
	mu          sync.Mutex
	calls       int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SellSourceStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SellSourceStub) Unlock() { s.mu.Unlock() }

// PendingSells returns batches from configured queue.
func (s *SellSourceStub) PendingSells(ctx context.Context, limit int) ([]model.Sell, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.calls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ReconcileOrder records reconciled sells.
func (s *SellSourceStub) ReconcileOrder(ctx context.Context, sell *model.Sell) (string, error) {
	s.mu.Lock()
	s.Reconciled = append(s.Reconciled, sell.ID)
	s.mu.Unlock()
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, sell)
	}
	return "paid", nil
}
