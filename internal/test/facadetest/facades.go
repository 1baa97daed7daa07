// Package facadetest provides controllable facades for HTTP layer tests.
package facadetest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	"github.com/edukar/edukar-store/internal/adapter/r2"
	"github.com/edukar/edukar-store/internal/domain/model"
	"github.com/edukar/edukar-store/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, usecase.RegisterInput) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, in usecase.RegisterInput) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, in)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// SampleProduct is the product returned by default.
func SampleProduct() model.Product {
	return model.Product{
		ID:         1,
		Name:       "Solucionario UNI 2023",
		Slug:       "solucionario-uni-2023",
		Price:      decimal.RequireFromString("10"),
		Type:       model.ProductTypeDocument,
		Category:   &model.Category{ID: 1, Name: "Solucionario", Slug: "solucionario", IsOneTimePurchase: true},
		Source:     "docs/uni-2023.pdf",
		Show:       true,
		Identifier: "id-1",
		Options:    []model.AttributeOption{{ID: 3, AttributeLabel: "anio", Label: "2023", Value: "2023"}},
	}
}

// SampleSell is the sell returned by default.
func SampleSell(userID int64) model.Sell {
	return model.Sell{
		ID:          5,
		UserID:      userID,
		FirstName:   "Ana",
		LastName:    "Quispe",
		Email:       "ana@example.com",
		PhoneNumber: "999888777",
		Items:       []model.SellItem{{ProductID: 1, Name: "Solucionario UNI 2023", Price: decimal.RequireFromString("10")}},
		Status:      model.SellStatusPending,
		OrderID:     "ord_1",
		OrderNumber: "EDK-0001",
		Metadata:    json.RawMessage(`{}`),
		OrderData:   json.RawMessage(`{"id":"ord_1"}`),
		TotalCost:   decimal.RequireFromString("10"),
		CreatedAt:   time.Unix(0, 0).UTC(),
	}
}

// CatalogFacadeStub provides controllable behaviour for catalog endpoints.
type CatalogFacadeStub struct {
	ProductsFn        func(context.Context, usecase.ProductQuery) (*usecase.ProductListing, error)
	ProductFn         func(context.Context, string) (*model.Product, error)
	RecommendationsFn func(context.Context, string) ([]model.Product, error)
	CategoriesFn      func(context.Context) ([]model.Category, error)
	CheckPurchaseFn   func(context.Context, int64, string) error
	MyProductsFn      func(context.Context, int64) ([]model.Product, error)
	DownloadFn        func(context.Context, int64, string) (*usecase.Document, error)
}

func (s CatalogFacadeStub) Products(ctx context.Context, q usecase.ProductQuery) (*usecase.ProductListing, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, q)
	}
	return &usecase.ProductListing{Count: 1, Page: 1, Products: []model.Product{SampleProduct()}}, nil
}

func (s CatalogFacadeStub) Product(ctx context.Context, slug string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, slug)
	}
	p := SampleProduct()
	return &p, nil
}

func (s CatalogFacadeStub) Recommendations(ctx context.Context, slug string) ([]model.Product, error) {
	if s.RecommendationsFn != nil {
		return s.RecommendationsFn(ctx, slug)
	}
	return []model.Product{SampleProduct()}, nil
}

func (s CatalogFacadeStub) Categories(ctx context.Context) ([]model.Category, error) {
	if s.CategoriesFn != nil {
		return s.CategoriesFn(ctx)
	}
	return []model.Category{*SampleProduct().Category}, nil
}

func (s CatalogFacadeStub) CheckPurchase(ctx context.Context, userID int64, identifier string) error {
	if s.CheckPurchaseFn != nil {
		return s.CheckPurchaseFn(ctx, userID, identifier)
	}
	return nil
}

func (s CatalogFacadeStub) MyProducts(ctx context.Context, userID int64) ([]model.Product, error) {
	if s.MyProductsFn != nil {
		return s.MyProductsFn(ctx, userID)
	}
	return []model.Product{SampleProduct()}, nil
}

func (s CatalogFacadeStub) DownloadDocument(ctx context.Context, userID int64, slug string) (*usecase.Document, error) {
	if s.DownloadFn != nil {
		return s.DownloadFn(ctx, userID, slug)
	}
	data := []byte("%PDF-1.4")
	return &usecase.Document{
		Object: &r2.Object{
			Body:          io.NopCloser(bytes.NewReader(data)),
			ContentLength: int64(len(data)),
			ContentType:   "application/pdf",
		},
		FileName: slug + ".pdf",
	}, nil
}

// SellFacadeStub provides controllable behaviour for checkout endpoints.
type SellFacadeStub struct {
	CreateFn   func(context.Context, int64, usecase.CreateSellInput) (*model.Sell, error)
	PayFn      func(context.Context, int64, int64, usecase.PayInput) (*usecase.PayResult, error)
	SetErrorFn func(context.Context, int64, int64, json.RawMessage) (*model.Sell, error)
	ConsultFn  func(context.Context, int64, int64) (*culqi.Response, error)
	SellFn     func(context.Context, int64, int64) (*model.Sell, error)
	SellsFn    func(context.Context, int64) ([]model.Sell, error)
	ReceiptFn  func(context.Context, int64, int64) (*model.Sell, []byte, error)
}

func (s SellFacadeStub) CreateSell(ctx context.Context, userID int64, in usecase.CreateSellInput) (*model.Sell, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, in)
	}
	sell := SampleSell(userID)
	return &sell, nil
}

func (s SellFacadeStub) PaySell(ctx context.Context, userID, sellID int64, in usecase.PayInput) (*usecase.PayResult, error) {
	if s.PayFn != nil {
		return s.PayFn(ctx, userID, sellID, in)
	}
	sell := SampleSell(userID)
	sell.Status = model.SellStatusFinished
	return &usecase.PayResult{StatusCode: http.StatusCreated, Body: json.RawMessage(`{"id":"chr_1"}`), Sell: &sell}, nil
}

func (s SellFacadeStub) SetSellError(ctx context.Context, userID, sellID int64, payload json.RawMessage) (*model.Sell, error) {
	if s.SetErrorFn != nil {
		return s.SetErrorFn(ctx, userID, sellID, payload)
	}
	sell := SampleSell(userID)
	sell.Status = model.SellStatusFailed
	sell.Metadata = payload
	return &sell, nil
}

func (s SellFacadeStub) ConsultOrder(ctx context.Context, userID, sellID int64) (*culqi.Response, error) {
	if s.ConsultFn != nil {
		return s.ConsultFn(ctx, userID, sellID)
	}
	return &culqi.Response{StatusCode: http.StatusOK, Body: json.RawMessage(`{"id":"ord_1","state":"pending"}`)}, nil
}

func (s SellFacadeStub) Sell(ctx context.Context, userID, sellID int64) (*model.Sell, error) {
	if s.SellFn != nil {
		return s.SellFn(ctx, userID, sellID)
	}
	sell := SampleSell(userID)
	sell.ID = sellID
	return &sell, nil
}

func (s SellFacadeStub) Sells(ctx context.Context, userID int64) ([]model.Sell, error) {
	if s.SellsFn != nil {
		return s.SellsFn(ctx, userID)
	}
	return []model.Sell{SampleSell(userID)}, nil
}

func (s SellFacadeStub) SellReceipt(ctx context.Context, userID, sellID int64) (*model.Sell, []byte, error) {
	if s.ReceiptFn != nil {
		return s.ReceiptFn(ctx, userID, sellID)
	}
	sell := SampleSell(userID)
	return &sell, []byte("%PDF-1.3"), nil
}

// WebhookFacadeStub records webhook payloads.
type WebhookFacadeStub struct {
	HandleFn func(context.Context, []byte) error
}

func (s WebhookFacadeStub) HandleOrderStatusChanged(ctx context.Context, payload []byte) error {
	if s.HandleFn != nil {
		return s.HandleFn(ctx, payload)
	}
	return nil
}

// ClaimFacadeStub simulates claim registration.
type ClaimFacadeStub struct {
	CreateFn func(context.Context, usecase.CreateClaimInput) (*model.Claim, error)
}

func (s ClaimFacadeStub) CreateClaim(ctx context.Context, in usecase.CreateClaimInput) (*model.Claim, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, in)
	}
	return &model.Claim{ID: 1, Name: in.Name, Email: in.Email, TypeGood: in.TypeGood, ClaimAmount: in.ClaimAmount}, nil
}

// StoreFacadeStub aggregates facade dependencies for HTTP layer tests.
type StoreFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	SellFacadeStub
	WebhookFacadeStub
	ClaimFacadeStub
}
