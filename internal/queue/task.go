// Package queue defers work such as outgoing mail off the request path.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Kind names a task handler.
type Kind string

const (
	KindSellReceipt Kind = "sell_receipt"
	KindClaimDetail Kind = "claim_detail"
)

// ErrClosed is returned when enqueuing on a stopped queue.
var ErrClosed = errors.New("queue closed")

// Task is the unit of deferred work.
type Task struct {
	Kind    Kind  `json:"kind"`
	SellID  int64 `json:"sell_id,omitempty"`
	ClaimID int64 `json:"claim_id,omitempty"`
}

// Key groups tasks of the same aggregate.
func (t Task) Key() string {
	switch t.Kind {
	case KindSellReceipt:
		return "sell:" + strconv.FormatInt(t.SellID, 10)
	case KindClaimDetail:
		return "claim:" + strconv.FormatInt(t.ClaimID, 10)
	}
	return string(t.Kind)
}

func (t Task) Validate() error {
	switch t.Kind {
	case KindSellReceipt:
		if t.SellID <= 0 {
			return fmt.Errorf("task %s: sell id must be positive", t.Kind)
		}
	case KindClaimDetail:
		if t.ClaimID <= 0 {
			return fmt.Errorf("task %s: claim id must be positive", t.Kind)
		}
	default:
		return fmt.Errorf("unknown task kind %q", t.Kind)
	}
	return nil
}

func encodeTask(t Task) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(t)
}

func decodeTask(data []byte) (Task, error) {
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return Task{}, fmt.Errorf("decode task: %w", err)
	}
	return t, t.Validate()
}

// Handler processes one task.
type Handler func(ctx context.Context, task Task) error

// Publisher enqueues tasks.
type Publisher interface {
	Enqueue(ctx context.Context, task Task) error
}

// Queue is a Publisher that also delivers tasks to a handler until stopped.
type Queue interface {
	Publisher
	Start(ctx context.Context, handler Handler) error
	Stop()
}
