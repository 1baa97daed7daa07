package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/model"
)

type sellRepository struct {
	storage *Storage
}

const sellColumns = `id, user_id, first_name, last_name, email, phone_number, status, COALESCE(order_id, ''), order_number,
        metadata, order_data, total_cost, receipt_number, receipt IS NOT NULL, created_at, updated_at, paid_at`

func scanSell(row rowScanner) (model.Sell, error) {
	var s model.Sell
	err := row.Scan(&s.ID, &s.UserID, &s.FirstName, &s.LastName, &s.Email, &s.PhoneNumber, &s.Status, &s.OrderID, &s.OrderNumber,
		&s.Metadata, &s.OrderData, &s.TotalCost, &s.ReceiptNumber, &s.HasReceipt, &s.CreatedAt, &s.UpdatedAt, &s.PaidAt)
	return s, err
}

func (r *sellRepository) Create(ctx context.Context, sell *model.Sell) (*model.Sell, error) {
	created := *sell
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertSell = `INSERT INTO sells (user_id, first_name, last_name, email, phone_number, status, order_number, total_cost)
                            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                            RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertSell,
			created.UserID, created.FirstName, created.LastName, created.Email, created.PhoneNumber,
			model.SellStatusPending, created.OrderNumber, created.TotalCost,
		).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertItem = `INSERT INTO sell_products (sell_id, product_id, price) VALUES ($1, $2, $3)`
		for _, item := range created.Items {
			if _, err := tx.Exec(ctx, insertItem, created.ID, item.ProductID, item.Price); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.Status = model.SellStatusPending
	created.Metadata = json.RawMessage("{}")
	created.OrderData = json.RawMessage("{}")
	return &created, nil
}

func (r *sellRepository) GetByID(ctx context.Context, id int64) (*model.Sell, error) {
	return r.getOne(ctx, r.storage.pool, `SELECT `+sellColumns+` FROM sells WHERE id = $1`, id)
}

func (r *sellRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Sell, error) {
	return r.getOne(ctx, r.storage.pool, `SELECT `+sellColumns+` FROM sells WHERE order_id = $1`, orderID)
}

func (r *sellRepository) getOne(ctx context.Context, q querier, query string, arg any) (*model.Sell, error) {
	s, err := scanSell(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	sells := []model.Sell{s}
	if err := loadSellItems(ctx, q, sells); err != nil {
		return nil, err
	}
	return &sells[0], nil
}

func (r *sellRepository) ListByUser(ctx context.Context, userID int64) ([]model.Sell, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT `+sellColumns+` FROM sells WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	sells, err := collectSells(rows)
	if err != nil {
		return nil, err
	}
	if err := loadSellItems(ctx, r.storage.pool, sells); err != nil {
		return nil, err
	}
	return sells, nil
}

func collectSells(rows pgx.Rows) ([]model.Sell, error) {
	defer rows.Close()

	var result []model.Sell
	for rows.Next() {
		s, err := scanSell(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func loadSellItems(ctx context.Context, q querier, sells []model.Sell) error {
	if len(sells) == 0 {
		return nil
	}
	ids := make([]int64, len(sells))
	index := make(map[int64]int, len(sells))
	for i, s := range sells {
		ids[i] = s.ID
		index[s.ID] = i
	}

	const query = `SELECT sp.sell_id, sp.product_id, p.name, sp.price
        FROM sell_products sp JOIN products p ON p.id = sp.product_id
        WHERE sp.sell_id = ANY($1) ORDER BY sp.sell_id, sp.product_id`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sellID int64
			item   model.SellItem
		)
		if err := rows.Scan(&sellID, &item.ProductID, &item.Name, &item.Price); err != nil {
			return err
		}
		if i, ok := index[sellID]; ok {
			sells[i].Items = append(sells[i].Items, item)
		}
	}
	return rows.Err()
}

func (r *sellRepository) SetOrder(ctx context.Context, sellID int64, orderID string, orderData json.RawMessage) error {
	const query = `UPDATE sells SET order_id = $2, order_data = $3, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, sellID, orderID, jsonOrEmpty(orderData))
}

func (r *sellRepository) SetOrderData(ctx context.Context, sellID int64, orderData json.RawMessage) error {
	const query = `UPDATE sells SET order_data = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, sellID, jsonOrEmpty(orderData))
}

// SetMetadata never moves a sell out of FINISHED or FAILED.
func (r *sellRepository) SetMetadata(ctx context.Context, sellID int64, status model.SellStatus, metadata json.RawMessage) error {
	const query = `UPDATE sells SET metadata = $2,
                       status = CASE WHEN status = $4 THEN $3 ELSE status END,
                       updated_at = NOW()
                   WHERE id = $1`
	return r.exec(ctx, query, sellID, jsonOrEmpty(metadata), status, model.SellStatusPending)
}

func (r *sellRepository) SetReceipt(ctx context.Context, sellID int64, receipt []byte) error {
	return r.exec(ctx, `UPDATE sells SET receipt = $2, updated_at = NOW() WHERE id = $1`, sellID, receipt)
}

func (r *sellRepository) GetReceipt(ctx context.Context, sellID int64) ([]byte, error) {
	var receipt []byte
	err := r.storage.pool.QueryRow(ctx, `SELECT receipt FROM sells WHERE id = $1 AND receipt IS NOT NULL`, sellID).Scan(&receipt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return receipt, nil
}

func (r *sellRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *sellRepository) Fulfill(ctx context.Context, params model.FulfillParams) (*model.Sell, bool, error) {
	var (
		sell     *model.Sell
		finished bool
	)
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var status model.SellStatus
		err := tx.QueryRow(ctx, `SELECT status FROM sells WHERE id = $1 FOR UPDATE`, params.SellID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if status != model.SellStatusFinished {
			var receiptNumber int64
			const nextReceipt = `UPDATE receipt_counter SET value = value + 1 WHERE id = 1 RETURNING value`
			if err := tx.QueryRow(ctx, nextReceipt).Scan(&receiptNumber); err != nil {
				return err
			}

			const finish = `UPDATE sells SET status = $2, receipt_number = $3,
                                metadata = COALESCE($4, metadata), order_data = COALESCE($5, order_data),
                                paid_at = $6, updated_at = NOW()
                            WHERE id = $1`
			if _, err := tx.Exec(ctx, finish, params.SellID, model.SellStatusFinished, receiptNumber,
				nullableJSON(params.Metadata), nullableJSON(params.OrderData), params.PaidAt); err != nil {
				return err
			}

			if len(params.ProductIDs) > 0 {
				const grant = `INSERT INTO user_products (user_id, product_id)
                               SELECT $1, unnest($2::bigint[])
                               ON CONFLICT (user_id, product_id) DO NOTHING`
				if _, err := tx.Exec(ctx, grant, params.UserID, params.ProductIDs); err != nil {
					return err
				}
			}
			finished = true
		}

		sell, err = r.getOne(ctx, tx, `SELECT `+sellColumns+` FROM sells WHERE id = $1`, params.SellID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return sell, finished, nil
}

func (r *sellRepository) ClaimPending(ctx context.Context, limit int, minAge time.Duration) ([]model.Sell, error) {
	const selectQuery = `SELECT ` + sellColumns + ` FROM sells
                         WHERE status = $1 AND order_id IS NOT NULL AND created_at < $2
                         ORDER BY reconciled_at NULLS FIRST, id
                         LIMIT $3
                         FOR UPDATE SKIP LOCKED`

	var sells []model.Sell
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, model.SellStatusPending, time.Now().Add(-minAge), limit)
		if err != nil {
			return err
		}
		sells, err = collectSells(rows)
		if err != nil {
			return err
		}
		if len(sells) == 0 {
			return nil
		}

		ids := make([]int64, len(sells))
		for i, s := range sells {
			ids[i] = s.ID
		}
		if _, err := tx.Exec(ctx, `UPDATE sells SET reconciled_at = NOW() WHERE id = ANY($1)`, ids); err != nil {
			return err
		}
		return loadSellItems(ctx, tx, sells)
	})
	if err != nil {
		return nil, err
	}
	return sells, nil
}
