package model

import (
	"encoding/json"
	"time"
)

// WebhookEvent is the audit record of a gateway callback.
type WebhookEvent struct {
	ID              int64
	Webhook         string
	EventType       string
	Payload         json.RawMessage
	ProcessedAt     *time.Time
	ProcessingError string
	CreatedAt       time.Time
}
