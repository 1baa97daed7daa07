package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/model"
	"github.com/edukar/edukar-store/internal/domain/repository"
)

const (
	// WebhookCulqi names the gateway in stored events.
	WebhookCulqi = "culqi"
	// EventOrderStatusChanged is the only gateway event the store accepts.
	EventOrderStatusChanged = "order.status.changed"
)

type webhookEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WebhookUseCase records gateway callbacks and fulfills the sells they report as paid.
type WebhookUseCase struct {
	events      repository.WebhookEventRepository
	sells       repository.SellRepository
	fulfillment *FulfillmentUseCase
	logger      *slog.Logger
}

// NewWebhookUseCase constructs WebhookUseCase.
func NewWebhookUseCase(events repository.WebhookEventRepository, sells repository.SellRepository, fulfillment *FulfillmentUseCase, logger *slog.Logger) *WebhookUseCase {
	return &WebhookUseCase{events: events, sells: sells, fulfillment: fulfillment, logger: logger}
}

// HandleOrderStatusChanged processes a Culqi order callback. Payloads of another
// type are rejected before anything is stored.
func (u *WebhookUseCase) HandleOrderStatusChanged(ctx context.Context, payload []byte) error {
	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil || envelope.Type != EventOrderStatusChanged {
		u.logger.Error("invalid webhook type", slog.String("type", envelope.Type))
		return domainErrors.ErrInvalidWebhookType
	}

	event, err := u.events.Create(ctx, &model.WebhookEvent{
		Webhook:   WebhookCulqi,
		EventType: envelope.Type,
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("store webhook event: %w", err)
	}

	processErr := u.process(ctx, envelope.Data)
	processingError := ""
	if processErr != nil {
		processingError = processErr.Error()
	}
	if err := u.events.MarkProcessed(ctx, event.ID, processingError); err != nil {
		u.logger.Error("mark webhook event processed failed",
			slog.Int64("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	}
	return processErr
}

func (u *WebhookUseCase) process(ctx context.Context, data json.RawMessage) error {
	raw, order, err := decodeWebhookOrder(data)
	if err != nil {
		return err
	}

	sell, err := u.sells.GetByOrderID(ctx, order.ID)
	if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}
	if sell == nil || order.State != culqi.OrderStatePaid {
		u.logger.Warn("webhook order not payable",
			slog.String("order_id", order.ID),
			slog.String("state", order.State),
			slog.Bool("sell_found", sell != nil),
		)
		return nil
	}

	paid, finished, err := u.fulfillment.Complete(ctx, sell, Payment{Order: raw})
	if err != nil {
		return err
	}
	if finished {
		u.logger.Info("sell paid by webhook", slog.Int64("sell_id", paid.ID), slog.Int64("user_id", paid.UserID))
	}
	return nil
}

// decodeWebhookOrder accepts data as a JSON encoded string, the gateway format, or as an object.
func decodeWebhookOrder(data json.RawMessage) (json.RawMessage, culqi.Order, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, culqi.Order{}, domainErrors.ErrInvalidWebhookData
	}

	raw := data
	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return nil, culqi.Order{}, domainErrors.ErrInvalidWebhookData
		}
		raw = json.RawMessage(encoded)
	}
	if !json.Valid(raw) {
		return nil, culqi.Order{}, domainErrors.ErrInvalidWebhookData
	}

	order, err := culqi.DecodeOrder(raw)
	if err != nil || order.ID == "" {
		return nil, culqi.Order{}, domainErrors.ErrInvalidWebhookData
	}
	return raw, order, nil
}
