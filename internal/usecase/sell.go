package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/model"
	"github.com/edukar/edukar-store/internal/domain/repository"
	"github.com/edukar/edukar-store/internal/pkg/validate"
)

const (
	orderExpiration      = 24 * time.Hour
	reconcileMinAge      = time.Minute
	maxOrderDescription  = 80
	orderDescriptionBase = "Compra Edukar"
)

// CreateSellInput is the checkout form.
type CreateSellInput struct {
	ProductIDs  []int64 `json:"product_ids" validate:"required,min=1,dive,gt=0"`
	FirstName   string  `json:"first_name" validate:"required,max=150"`
	LastName    string  `json:"last_name" validate:"required,max=150"`
	Email       string  `json:"email" validate:"required,email,max=254"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=20"`
}

// PayInput carries the card token of a charge attempt.
type PayInput struct {
	SourceID          string          `json:"source_id" validate:"required"`
	Email             string          `json:"email" validate:"required,email"`
	Authentication3DS json.RawMessage `json:"authentication_3DS,omitempty"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
}

// PayResult is the outcome of an accepted charge attempt.
// StatusCode is 201 when the sell was paid and 200 when 3-D Secure is required.
type PayResult struct {
	StatusCode int
	Body       json.RawMessage
	Sell       *model.Sell
}

// SellUseCase drives the checkout of a sell through the payment gateway.
type SellUseCase struct {
	sells       repository.SellRepository
	products    repository.ProductRepository
	catalog     *CatalogUseCase
	gateway     culqi.Client
	fulfillment *FulfillmentUseCase
	logger      *slog.Logger
	now         func() time.Time
}

// NewSellUseCase constructs SellUseCase.
func NewSellUseCase(
	sells repository.SellRepository,
	products repository.ProductRepository,
	catalog *CatalogUseCase,
	gateway culqi.Client,
	fulfillment *FulfillmentUseCase,
	logger *slog.Logger,
) *SellUseCase {
	return &SellUseCase{
		sells:       sells,
		products:    products,
		catalog:     catalog,
		gateway:     gateway,
		fulfillment: fulfillment,
		logger:      logger,
		now:         time.Now,
	}
}

// Create stores a PENDING sell for the products and opens a gateway order for it.
// A rejected order leaves the sell stored with the gateway answer and returns *culqi.GatewayError.
func (u *SellUseCase) Create(ctx context.Context, userID int64, in CreateSellInput) (*model.Sell, error) {
	if err := validate.Check(in); err != nil {
		return nil, err
	}
	if hasDuplicates(in.ProductIDs) {
		return nil, validate.FieldErrors{"product_ids": "product_ids must not repeat a product"}
	}

	products, err := u.products.GetByIDs(ctx, in.ProductIDs)
	if err != nil {
		return nil, err
	}
	if len(products) != len(in.ProductIDs) {
		return nil, validate.FieldErrors{"product_ids": "product_ids contains an unknown product"}
	}
	if err := u.catalog.checkPurchasable(ctx, userID, products); err != nil {
		return nil, err
	}

	items := make([]model.SellItem, 0, len(products))
	for _, p := range products {
		items = append(items, model.SellItem{ProductID: p.ID, Name: p.Name, Price: p.Price})
	}

	sell, err := u.sells.Create(ctx, &model.Sell{
		UserID:      userID,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.TrimSpace(in.Email),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Items:       items,
		OrderNumber: newOrderNumber(),
		TotalCost:   model.TotalCost(products),
	})
	if err != nil {
		return nil, fmt.Errorf("store sell: %w", err)
	}

	resp, err := u.gateway.CreateOrder(ctx, culqi.OrderRequest{
		Amount:       model.ToCents(sell.TotalCost),
		CurrencyCode: culqi.CurrencyPEN,
		Description:  orderDescription(products),
		OrderNumber:  sell.OrderNumber,
		ClientDetails: culqi.ClientDetails{
			FirstName:   sell.FirstName,
			LastName:    sell.LastName,
			Email:       sell.Email,
			PhoneNumber: sell.PhoneNumber,
		},
		ExpirationDate: u.now().Add(orderExpiration).Unix(),
		Confirm:        false,
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	if resp.Created() {
		order, err := culqi.DecodeOrder(resp.Body)
		if err == nil && order.ID != "" {
			if err := u.sells.SetOrder(ctx, sell.ID, order.ID, resp.Body); err != nil {
				return nil, err
			}
			sell.OrderID = order.ID
			sell.OrderData = resp.Body
			return sell, nil
		}
		u.logger.Error("gateway order without id", slog.Int64("sell_id", sell.ID))
	}

	if err := u.sells.SetOrderData(ctx, sell.ID, resp.Body); err != nil {
		return nil, err
	}
	return nil, culqi.NewGatewayError(resp)
}

// Pay charges the card token once. A 201 answer fulfills the sell, a 200 answer
// asks for 3-D Secure and keeps it PENDING, anything else fails the sell.
func (u *SellUseCase) Pay(ctx context.Context, userID, sellID int64, in PayInput) (*PayResult, error) {
	if err := validate.Check(in); err != nil {
		return nil, err
	}
	sell, err := u.Get(ctx, userID, sellID)
	if err != nil {
		return nil, err
	}
	if err := sell.CheckPayable(); err != nil {
		return nil, err
	}

	metadata := in.Metadata
	if len(metadata) == 0 {
		metadata, _ = json.Marshal(map[string]string{
			"sell_id":      fmt.Sprint(sell.ID),
			"order_number": sell.OrderNumber,
		})
	}

	resp, err := u.gateway.CreateCharge(ctx, culqi.ChargeRequest{
		Amount:            model.ToCents(sell.TotalCost),
		CurrencyCode:      culqi.CurrencyPEN,
		Email:             strings.TrimSpace(in.Email),
		SourceID:          in.SourceID,
		Authentication3DS: in.Authentication3DS,
		Metadata:          metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway charge: %w", err)
	}

	switch {
	case resp.Created():
		paid, _, err := u.fulfillment.Complete(ctx, sell, Payment{Charge: resp.Body})
		if err != nil {
			return nil, err
		}
		return &PayResult{StatusCode: resp.StatusCode, Body: resp.Body, Sell: paid}, nil
	case resp.StatusCode == 200:
		if err := u.sells.SetMetadata(ctx, sell.ID, model.SellStatusPending, resp.Body); err != nil {
			return nil, err
		}
		sell.Metadata = resp.Body
		return &PayResult{StatusCode: resp.StatusCode, Body: resp.Body, Sell: sell}, nil
	default:
		if err := u.sells.SetMetadata(ctx, sell.ID, model.SellStatusFailed, resp.Body); err != nil {
			return nil, err
		}
		u.logger.Warn("charge rejected",
			slog.Int64("sell_id", sell.ID),
			slog.Int("status", resp.StatusCode),
		)
		return nil, culqi.NewGatewayError(resp)
	}
}

// SetError records a checkout failure reported by the client and fails the sell.
func (u *SellUseCase) SetError(ctx context.Context, userID, sellID int64, payload json.RawMessage) (*model.Sell, error) {
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	if !json.Valid(payload) {
		return nil, validate.FieldErrors{"payload": "payload must be valid JSON"}
	}

	sell, err := u.Get(ctx, userID, sellID)
	if err != nil {
		return nil, err
	}
	if sell.Status == model.SellStatusFinished {
		return nil, domainErrors.ErrSellFinished
	}

	if err := u.sells.SetMetadata(ctx, sell.ID, model.SellStatusFailed, payload); err != nil {
		return nil, err
	}
	return u.sells.GetByID(ctx, sell.ID)
}

// ConsultOrder asks the gateway for the order state, stores it and fulfills
// the sell when the order is paid. The gateway answer is returned as is.
func (u *SellUseCase) ConsultOrder(ctx context.Context, userID, sellID int64) (*culqi.Response, error) {
	sell, err := u.Get(ctx, userID, sellID)
	if err != nil {
		return nil, err
	}
	resp, _, err := u.syncOrder(ctx, sell)
	return resp, err
}

// ReconcileOrder settles a PENDING sell from its gateway order: paid orders are
// fulfilled and expired, deleted or rejected orders fail the sell.
func (u *SellUseCase) ReconcileOrder(ctx context.Context, sell *model.Sell) (string, error) {
	resp, state, err := u.syncOrder(ctx, sell)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != 200 {
		return "", culqi.NewGatewayError(resp)
	}

	switch state {
	case culqi.OrderStateExpired, culqi.OrderStateDeleted, culqi.OrderStateRejected:
		if err := u.sells.SetMetadata(ctx, sell.ID, model.SellStatusFailed, sell.Metadata); err != nil {
			return state, err
		}
		u.logger.Info("sell failed by gateway order", slog.Int64("sell_id", sell.ID), slog.String("state", state))
	}
	return state, nil
}

// PendingSells claims a batch of PENDING sells with a gateway order for reconciliation.
func (u *SellUseCase) PendingSells(ctx context.Context, limit int) ([]model.Sell, error) {
	return u.sells.ClaimPending(ctx, limit, reconcileMinAge)
}

func (u *SellUseCase) syncOrder(ctx context.Context, sell *model.Sell) (*culqi.Response, string, error) {
	if sell.OrderID == "" {
		return nil, "", domainErrors.ErrNoGatewayOrder
	}

	resp, err := u.gateway.ConsultOrder(ctx, sell.OrderID)
	if err != nil {
		return nil, "", fmt.Errorf("consult gateway order: %w", err)
	}
	if resp.StatusCode != 200 {
		return resp, "", nil
	}

	if err := u.sells.SetOrderData(ctx, sell.ID, resp.Body); err != nil {
		return nil, "", err
	}
	order, err := culqi.DecodeOrder(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if order.State == culqi.OrderStatePaid {
		if _, _, err := u.fulfillment.Complete(ctx, sell, Payment{Order: resp.Body}); err != nil {
			return nil, "", err
		}
	}
	return resp, order.State, nil
}

// Get returns the sell when it belongs to the user.
func (u *SellUseCase) Get(ctx context.Context, userID, sellID int64) (*model.Sell, error) {
	sell, err := u.sells.GetByID(ctx, sellID)
	if err != nil {
		return nil, err
	}
	if sell.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return sell, nil
}

// List returns the user's sells newest first.
func (u *SellUseCase) List(ctx context.Context, userID int64) ([]model.Sell, error) {
	return u.sells.ListByUser(ctx, userID)
}

// Receipt returns the receipt PDF of the user's sell.
func (u *SellUseCase) Receipt(ctx context.Context, userID, sellID int64) (*model.Sell, []byte, error) {
	sell, err := u.Get(ctx, userID, sellID)
	if err != nil {
		return nil, nil, err
	}
	if !sell.HasReceipt {
		return nil, nil, domainErrors.ErrNotFound
	}
	pdf, err := u.sells.GetReceipt(ctx, sell.ID)
	if err != nil {
		return nil, nil, err
	}
	return sell, pdf, nil
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func newOrderNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "EDK-" + strings.ToUpper(id[:16])
}

func orderDescription(products []model.Product) string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	desc := orderDescriptionBase + ": " + strings.Join(names, ", ")
	if utf8.RuneCountInString(desc) <= maxOrderDescription {
		return desc
	}
	runes := []rune(desc)
	return string(runes[:maxOrderDescription-3]) + "..."
}
