package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/model"
	"github.com/edukar/edukar-store/internal/queue"
	testhelpers "github.com/edukar/edukar-store/internal/test"
)

func TestSellCreateOpensGatewayOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 1, 2)

	if !sell.TotalCost.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("expected total 40.00, got %s", sell.TotalCost)
	}
	if sell.Status != model.SellStatusPending {
		t.Fatalf("expected pending sell, got %s", sell.Status)
	}
	if !strings.HasPrefix(sell.OrderNumber, "EDK-") || sell.OrderID != "ord_"+sell.OrderNumber {
		t.Fatalf("unexpected order number %q and id %q", sell.OrderNumber, sell.OrderID)
	}
	if len(sell.Items) != 2 || !sell.Items[1].Price.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("unexpected snapshot %+v", sell.Items)
	}

	if len(f.gateway.Orders) != 1 {
		t.Fatalf("expected one gateway order, got %d", len(f.gateway.Orders))
	}
	order := f.gateway.Orders[0]
	if order.Amount != 4000 || order.CurrencyCode != culqi.CurrencyPEN || order.Confirm {
		t.Fatalf("unexpected order request %+v", order)
	}
	if order.ClientDetails.Email != "ana@example.com" || order.OrderNumber != sell.OrderNumber {
		t.Fatalf("unexpected client details %+v", order)
	}
	expires := time.Unix(order.ExpirationDate, 0)
	if expires.Before(time.Now().Add(23*time.Hour)) || expires.After(time.Now().Add(25*time.Hour)) {
		t.Fatalf("unexpected expiration %s", expires)
	}

	stored := f.sells.Snapshot(sell.ID)
	if stored.OrderID != sell.OrderID || len(stored.OrderData) == 0 {
		t.Fatalf("order not stored: %+v", stored)
	}
}

func TestSellCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		in   CreateSellInput
	}{
		{name: "no products", in: CreateSellInput{FirstName: "A", LastName: "B", Email: "a@b.pe", PhoneNumber: "1"}},
		{name: "repeated products", in: CreateSellInput{ProductIDs: []int64{1, 1}, FirstName: "A", LastName: "B", Email: "a@b.pe", PhoneNumber: "1"}},
		{name: "unknown product", in: CreateSellInput{ProductIDs: []int64{1, 99}, FirstName: "A", LastName: "B", Email: "a@b.pe", PhoneNumber: "1"}},
		{name: "bad email", in: CreateSellInput{ProductIDs: []int64{1}, FirstName: "A", LastName: "B", Email: "nope", PhoneNumber: "1"}},
		{name: "missing name", in: CreateSellInput{ProductIDs: []int64{1}, LastName: "B", Email: "a@b.pe", PhoneNumber: "1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			if _, err := f.checkout.Create(context.Background(), buyerID, tc.in); !errors.Is(err, domainErrors.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if len(f.gateway.Orders) != 0 {
				t.Fatal("gateway must not be called")
			}
		})
	}
}

func TestSellCreateRejectsOwnedProducts(t *testing.T) {
	f := newCheckoutFixture(t)
	f.ownership.Grant(buyerID, 1)

	in := CreateSellInput{ProductIDs: []int64{1}, FirstName: "Ana", LastName: "Quispe", Email: "ana@example.com", PhoneNumber: "1"}
	if _, err := f.checkout.Create(context.Background(), buyerID, in); !errors.Is(err, domainErrors.ErrAlreadyPurchased) {
		t.Fatalf("expected already purchased, got %v", err)
	}
	in.ProductIDs = []int64{3}
	if _, err := f.checkout.Create(context.Background(), buyerID, in); !errors.Is(err, domainErrors.ErrPackageItemPurchased) {
		t.Fatalf("expected package item purchased, got %v", err)
	}
	if len(f.gateway.Orders) != 0 {
		t.Fatal("gateway must not be called")
	}

	// Another buyer is not affected.
	if _, err := f.checkout.Create(context.Background(), otherID, in); err != nil {
		t.Fatalf("unexpected error for other buyer: %v", err)
	}
}

func TestSellCreateGatewayRejection(t *testing.T) {
	f := newCheckoutFixture(t)
	f.gateway.OrderFn = func(context.Context, culqi.OrderRequest) (*culqi.Response, error) {
		return testhelpers.JSONResponse(http.StatusBadRequest, map[string]string{"merchant_message": "invalid amount"}), nil
	}

	in := CreateSellInput{ProductIDs: []int64{4}, FirstName: "Ana", LastName: "Quispe", Email: "ana@example.com", PhoneNumber: "1"}
	_, err := f.checkout.Create(context.Background(), buyerID, in)
	var gerr *culqi.GatewayError
	if !errors.As(err, &gerr) || gerr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected gateway error, got %v", err)
	}

	sells, _ := f.sells.ListByUser(context.Background(), buyerID)
	if len(sells) != 1 {
		t.Fatalf("expected the sell to remain stored, got %d", len(sells))
	}
	if sells[0].OrderID != "" || !bytes.Contains(sells[0].OrderData, []byte("invalid amount")) || sells[0].Status != model.SellStatusPending {
		t.Fatalf("unexpected stored sell %+v", sells[0])
	}
}

func TestSellCreateGatewayTransportError(t *testing.T) {
	f := newCheckoutFixture(t)
	f.gateway.OrderFn = func(context.Context, culqi.OrderRequest) (*culqi.Response, error) {
		return nil, context.DeadlineExceeded
	}
	in := CreateSellInput{ProductIDs: []int64{4}, FirstName: "Ana", LastName: "Quispe", Email: "ana@example.com", PhoneNumber: "1"}
	if _, err := f.checkout.Create(context.Background(), buyerID, in); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestSellPayCreatedFulfills(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 1, 2)

	result, err := f.checkout.Pay(context.Background(), buyerID, sell.ID, validPayInput())
	if err != nil {
		t.Fatalf("pay returned error: %v", err)
	}
	if result.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", result.StatusCode)
	}
	paid := result.Sell
	if paid.Status != model.SellStatusFinished || paid.PaidAt == nil || !paid.HasReceipt {
		t.Fatalf("unexpected paid sell %+v", paid)
	}
	if paid.ReceiptNumber == nil || *paid.ReceiptNumber != 1 {
		t.Fatalf("unexpected receipt number %v", paid.ReceiptNumber)
	}
	if diff := cmp.Diff([]int64{1, 2}, f.ownership.Owned(buyerID)); diff != "" {
		t.Fatalf("ownership mismatch (-want +got):\n%s", diff)
	}

	charge := f.gateway.Charges[0]
	if charge.Amount != 4000 || charge.SourceID != "tkn_test_123" || charge.CurrencyCode != culqi.CurrencyPEN {
		t.Fatalf("unexpected charge %+v", charge)
	}
	var metadata map[string]string
	if err := json.Unmarshal(charge.Metadata, &metadata); err != nil || metadata["order_number"] != sell.OrderNumber {
		t.Fatalf("unexpected charge metadata %s", charge.Metadata)
	}

	if diff := cmp.Diff([]queue.Task{{Kind: queue.KindSellReceipt, SellID: sell.ID}}, f.publisher.Tasks()); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}

	receiptSell, pdf, err := f.checkout.Receipt(context.Background(), buyerID, sell.ID)
	if err != nil {
		t.Fatalf("receipt returned error: %v", err)
	}
	if receiptSell.ID != sell.ID || !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatal("expected pdf receipt")
	}
}

func TestSellPayPackageGrantsItems(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 3, 4)

	if _, err := f.checkout.Pay(context.Background(), buyerID, sell.ID, validPayInput()); err != nil {
		t.Fatalf("pay returned error: %v", err)
	}
	if diff := cmp.Diff([]int64{1, 2, 4}, f.ownership.Owned(buyerID)); diff != "" {
		t.Fatalf("ownership mismatch (-want +got):\n%s", diff)
	}
}

func TestSellPayThreeDSecureKeepsPending(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 1, 2)
	f.gateway.ChargeFn = func(context.Context, culqi.ChargeRequest) (*culqi.Response, error) {
		return testhelpers.JSONResponse(http.StatusOK, map[string]string{"action_code": "REVIEW"}), nil
	}

	result, err := f.checkout.Pay(context.Background(), buyerID, sell.ID, validPayInput())
	if err != nil {
		t.Fatalf("pay returned error: %v", err)
	}
	if result.StatusCode != http.StatusOK || !bytes.Contains(result.Body, []byte("REVIEW")) {
		t.Fatalf("unexpected result %+v", result)
	}
	stored := f.sells.Snapshot(sell.ID)
	if stored.Status != model.SellStatusPending || !bytes.Contains(stored.Metadata, []byte("REVIEW")) {
		t.Fatalf("unexpected stored sell %+v", stored)
	}
	if len(f.ownership.Owned(buyerID)) != 0 || len(f.publisher.Tasks()) != 0 {
		t.Fatal("no products may be granted before payment")
	}

	f.gateway.ChargeFn = nil
	in := validPayInput()
	in.Authentication3DS = json.RawMessage(`{"eci":"05"}`)
	result, err = f.checkout.Pay(context.Background(), buyerID, sell.ID, in)
	if err != nil || result.StatusCode != http.StatusCreated {
		t.Fatalf("expected second attempt to pay, got %v %v", result, err)
	}
	if string(f.gateway.Charges[1].Authentication3DS) != `{"eci":"05"}` {
		t.Fatalf("3DS payload not forwarded: %s", f.gateway.Charges[1].Authentication3DS)
	}
}

func TestSellPayDeclinedFailsSell(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 4)
	f.gateway.ChargeFn = func(context.Context, culqi.ChargeRequest) (*culqi.Response, error) {
		return testhelpers.JSONResponse(http.StatusPaymentRequired, map[string]string{"user_message": "Tarjeta rechazada"}), nil
	}

	_, err := f.checkout.Pay(context.Background(), buyerID, sell.ID, validPayInput())
	var gerr *culqi.GatewayError
	if !errors.As(err, &gerr) || gerr.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if got := f.sells.Snapshot(sell.ID).Status; got != model.SellStatusFailed {
		t.Fatalf("expected failed sell, got %s", got)
	}

	if _, err := f.checkout.Pay(context.Background(), buyerID, sell.ID, validPayInput()); !errors.Is(err, domainErrors.ErrSellClosed) {
		t.Fatalf("expected closed sell, got %v", err)
	}
	if f.gateway.ChargeCount() != 1 {
		t.Fatalf("expected a single charge attempt, got %d", f.gateway.ChargeCount())
	}
}

func TestSellPayFinishedSellSkipsGateway(t *testing.T) {
	f := newCheckoutFixture(t)
	f.sells.Put(model.Sell{ID: 5, UserID: buyerID, Status: model.SellStatusFinished, TotalCost: decimal.RequireFromString("10")})

	if _, err := f.checkout.Pay(context.Background(), buyerID, 5, validPayInput()); !errors.Is(err, domainErrors.ErrSellFinished) {
		t.Fatalf("expected finished sell error, got %v", err)
	}
	if f.gateway.ChargeCount() != 0 {
		t.Fatal("gateway must not be called")
	}
}

func TestSellPayValidationAndOwnership(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 4)

	if _, err := f.checkout.Pay(context.Background(), buyerID, sell.ID, PayInput{Email: "ana@example.com"}); !errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := f.checkout.Pay(context.Background(), otherID, sell.ID, validPayInput()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for another user, got %v", err)
	}
	if _, err := f.checkout.Pay(context.Background(), buyerID, 999, validPayInput()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if f.gateway.ChargeCount() != 0 {
		t.Fatal("gateway must not be called")
	}
}

func TestSellSetError(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 4)
	ctx := context.Background()

	if _, err := f.checkout.SetError(ctx, buyerID, sell.ID, json.RawMessage(`{`)); !errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	failed, err := f.checkout.SetError(ctx, buyerID, sell.ID, json.RawMessage(`{"reason":"3ds aborted"}`))
	if err != nil {
		t.Fatalf("set error returned error: %v", err)
	}
	if failed.Status != model.SellStatusFailed || string(failed.Metadata) != `{"reason":"3ds aborted"}` {
		t.Fatalf("unexpected sell %+v", failed)
	}

	f.sells.Put(model.Sell{ID: 50, UserID: buyerID, Status: model.SellStatusFinished})
	if _, err := f.checkout.SetError(ctx, buyerID, 50, nil); !errors.Is(err, domainErrors.ErrSellFinished) {
		t.Fatalf("expected finished sell error, got %v", err)
	}
}

func TestSellConsultOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	f.sells.Put(model.Sell{ID: 40, UserID: buyerID, Status: model.SellStatusPending})
	if _, err := f.checkout.ConsultOrder(ctx, buyerID, 40); !errors.Is(err, domainErrors.ErrNoGatewayOrder) {
		t.Fatalf("expected missing order error, got %v", err)
	}

	sell := f.createSell(t, buyerID, 1)
	resp, err := f.checkout.ConsultOrder(ctx, buyerID, sell.ID)
	if err != nil {
		t.Fatalf("consult returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK || f.sells.Snapshot(sell.ID).Status != model.SellStatusPending {
		t.Fatal("pending order must not fulfill the sell")
	}

	f.gateway.ConsultFn = func(_ context.Context, id string) (*culqi.Response, error) {
		return testhelpers.JSONResponse(http.StatusOK, map[string]string{"id": id, "state": culqi.OrderStatePaid}), nil
	}
	if _, err := f.checkout.ConsultOrder(ctx, buyerID, sell.ID); err != nil {
		t.Fatalf("consult returned error: %v", err)
	}
	stored := f.sells.Snapshot(sell.ID)
	if stored.Status != model.SellStatusFinished || !bytes.Contains(stored.OrderData, []byte(culqi.OrderStatePaid)) {
		t.Fatalf("expected paid sell, got %+v", stored)
	}
	if diff := cmp.Diff([]int64{1}, f.ownership.Owned(buyerID)); diff != "" {
		t.Fatalf("ownership mismatch (-want +got):\n%s", diff)
	}

	f.gateway.ConsultFn = func(context.Context, string) (*culqi.Response, error) {
		return testhelpers.JSONResponse(http.StatusNotFound, map[string]string{"merchant_message": "missing"}), nil
	}
	resp, err = f.checkout.ConsultOrder(ctx, buyerID, sell.ID)
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected gateway answer to be forwarded, got %v %v", resp, err)
	}
}

func TestSellReconcileOrder(t *testing.T) {
	tests := []struct {
		name   string
		state  string
		status model.SellStatus
	}{
		{name: "paid", state: culqi.OrderStatePaid, status: model.SellStatusFinished},
		{name: "expired", state: culqi.OrderStateExpired, status: model.SellStatusFailed},
		{name: "deleted", state: culqi.OrderStateDeleted, status: model.SellStatusFailed},
		{name: "rejected", state: culqi.OrderStateRejected, status: model.SellStatusFailed},
		{name: "pending", state: culqi.OrderStatePending, status: model.SellStatusPending},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			sell := f.createSell(t, buyerID, 4)
			f.gateway.ConsultFn = func(_ context.Context, id string) (*culqi.Response, error) {
				return testhelpers.JSONResponse(http.StatusOK, map[string]string{"id": id, "state": tc.state}), nil
			}
			state, err := f.checkout.ReconcileOrder(context.Background(), sell)
			if err != nil || state != tc.state {
				t.Fatalf("unexpected result %q %v", state, err)
			}
			if got := f.sells.Snapshot(sell.ID).Status; got != tc.status {
				t.Fatalf("expected %s, got %s", tc.status, got)
			}
		})
	}
}

func TestSellReconcileOrderGatewayError(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 4)
	f.gateway.ConsultFn = func(context.Context, string) (*culqi.Response, error) {
		return testhelpers.JSONResponse(http.StatusInternalServerError, map[string]string{}), nil
	}
	var gerr *culqi.GatewayError
	if _, err := f.checkout.ReconcileOrder(context.Background(), sell); !errors.As(err, &gerr) {
		t.Fatalf("expected gateway error, got %v", err)
	}
}

func TestSellGetListAndReceipt(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	first := f.createSell(t, buyerID, 4)
	second := f.createSell(t, buyerID, 1)
	f.createSell(t, otherID, 4)

	sells, err := f.checkout.List(ctx, buyerID)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(sells) != 2 || sells[0].ID != second.ID || sells[1].ID != first.ID {
		t.Fatalf("unexpected sells %v", sells)
	}

	if _, err := f.checkout.Get(ctx, otherID, first.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, _, err := f.checkout.Receipt(ctx, buyerID, first.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected receipt not found before payment, got %v", err)
	}
}

func TestFulfillmentRunsOnce(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 1, 2)
	ctx := context.Background()

	first, finished, err := f.fulfillment.Complete(ctx, sell, Payment{Order: json.RawMessage(`{"state":"paid"}`)})
	if err != nil || !finished {
		t.Fatalf("expected first completion to finish the sell, got %v %v", finished, err)
	}
	second, finished, err := f.fulfillment.Complete(ctx, sell, Payment{Order: json.RawMessage(`{"state":"paid"}`)})
	if err != nil || finished {
		t.Fatalf("expected second completion to be a no-op, got %v %v", finished, err)
	}
	if *first.ReceiptNumber != *second.ReceiptNumber {
		t.Fatalf("receipt number changed: %d != %d", *first.ReceiptNumber, *second.ReceiptNumber)
	}
	if len(f.publisher.Tasks()) != 1 {
		t.Fatalf("expected a single receipt email, got %d", len(f.publisher.Tasks()))
	}
}

func TestFulfillmentRegeneratesMissingReceipt(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 1)
	ctx := context.Background()

	f.sells.ReceiptErr = errors.New("disk full")
	paid, finished, err := f.fulfillment.Complete(ctx, sell, Payment{})
	if err != nil || !finished || paid.HasReceipt {
		t.Fatalf("expected payment without receipt, got %+v %v %v", paid, finished, err)
	}
	if len(f.publisher.Tasks()) != 0 {
		t.Fatal("no email may be queued without a receipt")
	}

	f.sells.ReceiptErr = nil
	again, finished, err := f.fulfillment.Complete(ctx, sell, Payment{})
	if err != nil || finished {
		t.Fatalf("expected already finished sell, got %v %v", finished, err)
	}
	if !again.HasReceipt {
		t.Fatal("expected receipt to be regenerated")
	}
	if pdf, err := f.sells.GetReceipt(ctx, sell.ID); err != nil || len(pdf) == 0 {
		t.Fatalf("expected stored receipt, got %d bytes, %v", len(pdf), err)
	}
	if len(f.publisher.Tasks()) != 1 {
		t.Fatalf("expected one receipt email, got %d", len(f.publisher.Tasks()))
	}

	if _, _, err := f.fulfillment.Complete(ctx, sell, Payment{}); err != nil {
		t.Fatalf("complete returned error: %v", err)
	}
	if len(f.publisher.Tasks()) != 1 {
		t.Fatal("existing receipt must not be regenerated")
	}
}

func TestFulfillmentNumbersReceiptsSequentially(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	a := f.createSell(t, buyerID, 1)
	b := f.createSell(t, otherID, 1)
	paidA, _, err := f.fulfillment.Complete(ctx, a, Payment{})
	if err != nil {
		t.Fatalf("complete returned error: %v", err)
	}
	paidB, _, err := f.fulfillment.Complete(ctx, b, Payment{})
	if err != nil {
		t.Fatalf("complete returned error: %v", err)
	}
	if *paidA.ReceiptNumber == *paidB.ReceiptNumber {
		t.Fatal("receipt numbers must not repeat")
	}
}

func TestFulfillmentEnqueueFailureKeepsPayment(t *testing.T) {
	f := newCheckoutFixture(t)
	f.publisher.Err = queue.ErrClosed
	sell := f.createSell(t, buyerID, 4)

	paid, finished, err := f.fulfillment.Complete(context.Background(), sell, Payment{})
	if err != nil || !finished || paid.Status != model.SellStatusFinished {
		t.Fatalf("expected payment to stand, got %+v %v %v", paid, finished, err)
	}
}

func TestFulfillmentRepositoryError(t *testing.T) {
	f := newCheckoutFixture(t)
	sell := f.createSell(t, buyerID, 4)
	f.sells.FulfillFn = func(context.Context, model.FulfillParams) (*model.Sell, bool, error) {
		return nil, false, errors.New("db down")
	}
	if _, _, err := f.fulfillment.Complete(context.Background(), sell, Payment{}); err == nil {
		t.Fatal("expected fulfillment error")
	}
	if len(f.publisher.Tasks()) != 0 {
		t.Fatal("no email may be queued")
	}
}

func TestSellPendingSells(t *testing.T) {
	f := newCheckoutFixture(t)
	pending := f.createSell(t, buyerID, 4)
	paid := f.createSell(t, buyerID, 1)
	if _, err := f.checkout.Pay(context.Background(), buyerID, paid.ID, validPayInput()); err != nil {
		t.Fatalf("pay returned error: %v", err)
	}
	f.sells.Put(model.Sell{ID: 90, UserID: buyerID, Status: model.SellStatusPending})

	sells, err := f.checkout.PendingSells(context.Background(), 10)
	if err != nil {
		t.Fatalf("pending sells returned error: %v", err)
	}
	if len(sells) != 1 || sells[0].ID != pending.ID {
		t.Fatalf("expected only the pending sell with an order, got %v", sells)
	}
}
