package postgres

import (
	"context"

	"github.com/edukar/edukar-store/internal/domain/model"
)

type ownershipRepository struct {
	storage *Storage
}

func (r *ownershipRepository) OwnedAmong(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error) {
	owned := make(map[int64]bool)
	if len(productIDs) == 0 {
		return owned, nil
	}

	const query = `SELECT product_id FROM user_products WHERE user_id = $1 AND product_id = ANY($2)`
	rows, err := r.storage.pool.Query(ctx, query, userID, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return owned, nil
}

func (r *ownershipRepository) ListProducts(ctx context.Context, userID int64) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM user_products up
        JOIN products p ON p.id = up.product_id
        LEFT JOIN categories c ON c.id = p.category_id
        WHERE up.user_id = $1 ORDER BY up.created_at DESC, p.id DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}
