package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/edukar/edukar-store/internal/domain/model"
	"github.com/edukar/edukar-store/internal/domain/repository"
	"github.com/edukar/edukar-store/internal/pkg/receipt"
	"github.com/edukar/edukar-store/internal/queue"
)

// Payment is the gateway evidence a sell was paid with. Charge is a charge body,
// Order an order body; either may be nil.
type Payment struct {
	Charge json.RawMessage
	Order  json.RawMessage
}

// FulfillmentUseCase turns a paid sell into ownership, a receipt and a receipt email.
type FulfillmentUseCase struct {
	sells     repository.SellRepository
	products  repository.ProductRepository
	publisher queue.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewFulfillmentUseCase constructs FulfillmentUseCase.
func NewFulfillmentUseCase(sells repository.SellRepository, products repository.ProductRepository, publisher queue.Publisher, logger *slog.Logger) *FulfillmentUseCase {
	return &FulfillmentUseCase{
		sells:     sells,
		products:  products,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Complete marks the sell as paid and grants its products. It is safe to call
// repeatedly: only the first call finishes the sell and reports true.
func (u *FulfillmentUseCase) Complete(ctx context.Context, sell *model.Sell, payment Payment) (*model.Sell, bool, error) {
	products, err := u.products.GetByIDs(ctx, sell.ProductIDs())
	if err != nil {
		return nil, false, fmt.Errorf("load sell products: %w", err)
	}

	result, finished, err := u.sells.Fulfill(ctx, model.FulfillParams{
		SellID:     sell.ID,
		UserID:     sell.UserID,
		ProductIDs: model.Entitlements(products),
		Metadata:   payment.Charge,
		OrderData:  payment.Order,
		PaidAt:     u.now(),
	})
	if err != nil {
		return nil, false, fmt.Errorf("fulfill sell %d: %w", sell.ID, err)
	}
	if !finished {
		u.logger.Info("sell already finished", slog.Int64("sell_id", sell.ID))
		if !result.HasReceipt {
			u.deliverReceipt(ctx, result)
		}
		return result, false, nil
	}

	u.logger.Info("sell paid",
		slog.Int64("sell_id", result.ID),
		slog.String("order_number", result.OrderNumber),
		slog.Int64("receipt_number", derefInt64(result.ReceiptNumber)),
	)
	u.deliverReceipt(ctx, result)
	return result, true, nil
}

// deliverReceipt stores the receipt and queues its email. Failures are logged
// only; the email is queued once the receipt exists.
func (u *FulfillmentUseCase) deliverReceipt(ctx context.Context, sell *model.Sell) {
	if err := u.GenerateReceipt(ctx, sell); err != nil {
		u.logger.Error("generate receipt failed", slog.Int64("sell_id", sell.ID), slog.String("error", err.Error()))
		return
	}
	if err := u.publisher.Enqueue(ctx, queue.Task{Kind: queue.KindSellReceipt, SellID: sell.ID}); err != nil {
		u.logger.Error("enqueue receipt email failed", slog.Int64("sell_id", sell.ID), slog.String("error", err.Error()))
	}
}

// GenerateReceipt renders the receipt PDF and stores it on the sell.
func (u *FulfillmentUseCase) GenerateReceipt(ctx context.Context, sell *model.Sell) error {
	pdf, err := receipt.RenderSell(sell)
	if err != nil {
		return err
	}
	if err := u.sells.SetReceipt(ctx, sell.ID, pdf); err != nil {
		return err
	}
	sell.HasReceipt = true
	return nil
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
