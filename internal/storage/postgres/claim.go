package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/model"
)

type claimRepository struct {
	storage *Storage
}

func (r *claimRepository) Create(ctx context.Context, claim *model.Claim) (*model.Claim, error) {
	const query = `INSERT INTO claims (name, address, dni, email, phone, is_minor, proxy_name, type_good,
                       claim_amount, description, claim_detail, request)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                   RETURNING id, date, created_at`
	c := *claim
	err := r.storage.pool.QueryRow(ctx, query,
		c.Name, c.Address, c.DNI, c.Email, c.Phone, c.IsMinor, c.ProxyName, c.TypeGood,
		c.ClaimAmount, c.Description, c.ClaimDetail, c.Request,
	).Scan(&c.ID, &c.Date, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *claimRepository) GetByID(ctx context.Context, id int64) (*model.Claim, error) {
	const query = `SELECT id, date, name, address, dni, email, phone, is_minor, proxy_name, type_good,
                       claim_amount, description, claim_detail, request, COALESCE(document, ''::bytea), created_at
                   FROM claims WHERE id = $1`
	var c model.Claim
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Date, &c.Name, &c.Address, &c.DNI, &c.Email, &c.Phone, &c.IsMinor, &c.ProxyName, &c.TypeGood,
		&c.ClaimAmount, &c.Description, &c.ClaimDetail, &c.Request, &c.Document, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *claimRepository) SetDocument(ctx context.Context, id int64, document []byte) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE claims SET document = $2 WHERE id = $1`, id, document)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
