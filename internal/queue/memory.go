package queue

import (
	"context"
	"log/slog"
	"sync"
)

// MemoryQueue buffers tasks in process and hands them to a worker pool.
// Tasks still buffered at Stop are lost.
type MemoryQueue struct {
	workers int
	logger  *slog.Logger

	tasks  chan Task
	wg     sync.WaitGroup
	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// NewMemoryQueue constructs in-process queue.
func NewMemoryQueue(buffer, workers int, logger *slog.Logger) *MemoryQueue {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &MemoryQueue{
		workers: workers,
		logger:  logger,
		tasks:   make(chan Task, buffer),
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, task Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return ErrClosed
	}

	select {
	case q.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches the workers.
func (q *MemoryQueue) Start(ctx context.Context, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(runCtx, handler)
	}
	return nil
}

// Stop waits for in-flight tasks to finish.
func (q *MemoryQueue) Stop() {
	q.mu.Lock()
	q.closed = true
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *MemoryQueue) worker(ctx context.Context, handler Handler) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-q.tasks:
			if err := handler(ctx, task); err != nil {
				q.logger.Error("task failed",
					slog.String("kind", string(task.Kind)),
					slog.String("key", task.Key()),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
