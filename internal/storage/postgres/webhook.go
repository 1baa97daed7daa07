package postgres

import (
	"context"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/model"
)

type webhookEventRepository struct {
	storage *Storage
}

func (r *webhookEventRepository) Create(ctx context.Context, event *model.WebhookEvent) (*model.WebhookEvent, error) {
	const query = `INSERT INTO webhook_events (webhook, event_type, payload) VALUES ($1, $2, $3) RETURNING id, created_at`
	e := *event
	if err := r.storage.pool.QueryRow(ctx, query, e.Webhook, e.EventType, jsonOrEmpty(e.Payload)).Scan(&e.ID, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, id int64, processingError string) error {
	const query = `UPDATE webhook_events SET processed_at = NOW(), processing_error = $2 WHERE id = $1`
	tag, err := r.storage.pool.Exec(ctx, query, id, processingError)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
