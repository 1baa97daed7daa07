package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	"github.com/edukar/edukar-store/internal/domain/model"
	testhelpers "github.com/edukar/edukar-store/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitReconciled(t *testing.T, source *testhelpers.SellSourceStub, n int) []int64 {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		source.Lock()
		done := len(source.Reconciled) >= n
		got := append([]int64(nil), source.Reconciled...)
		source.Unlock()
		if done {
			return got
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %d reconciled sells, got %v", n, got)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewReconcilerDefaults(t *testing.T) {
	r := NewReconciler(&testhelpers.SellSourceStub{}, 0, 0, 0, discardLogger())
	if r.batchSize != 1 || r.workers != 1 {
		t.Fatalf("expected defaults of 1, got batch=%d workers=%d", r.batchSize, r.workers)
	}
	if r.pollInterval != time.Minute {
		t.Fatalf("expected default interval, got %s", r.pollInterval)
	}
}

func TestReconcilerProcessesPendingSells(t *testing.T) {
	source := &testhelpers.SellSourceStub{Batches: [][]model.Sell{{{ID: 1}, {ID: 2}}, {{ID: 3}}}}
	r := NewReconciler(source, 5*time.Millisecond, 2, 2, discardLogger())
	r.Start(context.Background())

	got := waitReconciled(t, source, 3)
	r.Stop()

	seen := map[int64]bool{}
	for _, id := range got {
		seen[id] = true
	}
	if !seen[1] || !seen[2] || !seen[3] {
		t.Fatalf("expected sells 1, 2 and 3 to be reconciled, got %v", got)
	}
}

func TestReconcilerKeepsRunningAfterErrors(t *testing.T) {
	var fetches int32
	source := &testhelpers.SellSourceStub{
		PendingFn: func(context.Context, int) ([]model.Sell, error) {
			switch atomic.AddInt32(&fetches, 1) {
			case 1:
				return nil, errors.New("db down")
			case 2:
				return []model.Sell{{ID: 7}}, nil
			case 3:
				return []model.Sell{{ID: 8}}, nil
			}
			return nil, nil
		},
		ReconcileFn: func(_ context.Context, sell *model.Sell) (string, error) {
			if sell.ID == 7 {
				return "", &culqi.GatewayError{StatusCode: http.StatusInternalServerError}
			}
			return "expired", nil
		},
	}
	r := NewReconciler(source, 5*time.Millisecond, 1, 1, discardLogger())
	r.Start(context.Background())

	got := waitReconciled(t, source, 2)
	r.Stop()
	if got[0] != 7 || got[1] != 8 {
		t.Fatalf("unexpected reconcile order %v", got)
	}
}

func TestReconcilerStopInterruptsRateLimitBackoff(t *testing.T) {
	source := &testhelpers.SellSourceStub{
		Batches: [][]model.Sell{{{ID: 1}}},
		ReconcileFn: func(context.Context, *model.Sell) (string, error) {
			return "", &culqi.GatewayError{StatusCode: http.StatusTooManyRequests}
		},
	}
	r := NewReconciler(source, 20*time.Millisecond, 1, 1, discardLogger())
	r.Start(context.Background())
	waitReconciled(t, source, 1)

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected stop to finish")
	}
}
