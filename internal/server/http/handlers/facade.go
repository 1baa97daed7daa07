package handlers

import (
	"context"
	"encoding/json"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	"github.com/edukar/edukar-store/internal/domain/model"
	"github.com/edukar/edukar-store/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in usecase.RegisterInput) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// CatalogFacade exposes the product catalog.
type CatalogFacade interface {
	Products(ctx context.Context, q usecase.ProductQuery) (*usecase.ProductListing, error)
	Product(ctx context.Context, slug string) (*model.Product, error)
	Recommendations(ctx context.Context, slug string) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	CheckPurchase(ctx context.Context, userID int64, identifier string) error
	MyProducts(ctx context.Context, userID int64) ([]model.Product, error)
	DownloadDocument(ctx context.Context, userID int64, slug string) (*usecase.Document, error)
}

// SellFacade drives the checkout.
type SellFacade interface {
	CreateSell(ctx context.Context, userID int64, in usecase.CreateSellInput) (*model.Sell, error)
	PaySell(ctx context.Context, userID, sellID int64, in usecase.PayInput) (*usecase.PayResult, error)
	SetSellError(ctx context.Context, userID, sellID int64, payload json.RawMessage) (*model.Sell, error)
	ConsultOrder(ctx context.Context, userID, sellID int64) (*culqi.Response, error)
	Sell(ctx context.Context, userID, sellID int64) (*model.Sell, error)
	Sells(ctx context.Context, userID int64) ([]model.Sell, error)
	SellReceipt(ctx context.Context, userID, sellID int64) (*model.Sell, []byte, error)
}

// WebhookFacade accepts gateway callbacks.
type WebhookFacade interface {
	HandleOrderStatusChanged(ctx context.Context, payload []byte) error
}

// ClaimFacade records consumer claims.
type ClaimFacade interface {
	CreateClaim(ctx context.Context, in usecase.CreateClaimInput) (*model.Claim, error)
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	AuthFacade
	CatalogFacade
	SellFacade
	WebhookFacade
	ClaimFacade
}
