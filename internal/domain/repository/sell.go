package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/edukar/edukar-store/internal/domain/model"
)

// SellRepository persists sells and their payment transitions.
type SellRepository interface {
	Create(ctx context.Context, sell *model.Sell) (*model.Sell, error)
	GetByID(ctx context.Context, id int64) (*model.Sell, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Sell, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Sell, error)
	SetOrder(ctx context.Context, sellID int64, orderID string, orderData json.RawMessage) error
	SetOrderData(ctx context.Context, sellID int64, orderData json.RawMessage) error
	// SetMetadata stores the gateway charge body and moves a PENDING sell to status.
	SetMetadata(ctx context.Context, sellID int64, status model.SellStatus, metadata json.RawMessage) error
	SetReceipt(ctx context.Context, sellID int64, receipt []byte) error
	GetReceipt(ctx context.Context, sellID int64) ([]byte, error)
	// Fulfill finishes a PENDING sell and grants products atomically.
	// It reports false when the sell was already finished.
	Fulfill(ctx context.Context, params model.FulfillParams) (*model.Sell, bool, error)
	// ClaimPending stamps and returns PENDING sells with a gateway order older than minAge.
	ClaimPending(ctx context.Context, limit int, minAge time.Duration) ([]model.Sell, error)
}

// WebhookEventRepository stores gateway callbacks for audit.
type WebhookEventRepository interface {
	Create(ctx context.Context, event *model.WebhookEvent) (*model.WebhookEvent, error)
	MarkProcessed(ctx context.Context, id int64, processingError string) error
}

// ClaimRepository stores consumer claims.
type ClaimRepository interface {
	Create(ctx context.Context, claim *model.Claim) (*model.Claim, error)
	GetByID(ctx context.Context, id int64) (*model.Claim, error)
	SetDocument(ctx context.Context, id int64, document []byte) error
}
