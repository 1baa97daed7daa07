package app

import (
	"context"
	"encoding/json"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	"github.com/edukar/edukar-store/internal/domain/model"
	"github.com/edukar/edukar-store/internal/usecase"
)

// StoreFacade exposes the use cases to the HTTP layer and the reconciler.
type StoreFacade struct {
	auth     *usecase.AuthUseCase
	catalog  *usecase.CatalogUseCase
	sells    *usecase.SellUseCase
	webhooks *usecase.WebhookUseCase
	claims   *usecase.ClaimUseCase
}

func NewStoreFacade(
	auth *usecase.AuthUseCase,
	catalog *usecase.CatalogUseCase,
	sells *usecase.SellUseCase,
	webhooks *usecase.WebhookUseCase,
	claims *usecase.ClaimUseCase,
) *StoreFacade {
	return &StoreFacade{auth: auth, catalog: catalog, sells: sells, webhooks: webhooks, claims: claims}
}

func (f *StoreFacade) Register(ctx context.Context, in usecase.RegisterInput) (string, error) {
	_, token, err := f.auth.Register(ctx, in)
	return token, err
}

func (f *StoreFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *StoreFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *StoreFacade) Products(ctx context.Context, q usecase.ProductQuery) (*usecase.ProductListing, error) {
	return f.catalog.ListProducts(ctx, q)
}

func (f *StoreFacade) Product(ctx context.Context, slug string) (*model.Product, error) {
	return f.catalog.GetProduct(ctx, slug)
}

func (f *StoreFacade) Recommendations(ctx context.Context, slug string) ([]model.Product, error) {
	return f.catalog.Recommendations(ctx, slug)
}

func (f *StoreFacade) Categories(ctx context.Context) ([]model.Category, error) {
	return f.catalog.Categories(ctx)
}

func (f *StoreFacade) CheckPurchase(ctx context.Context, userID int64, identifier string) error {
	return f.catalog.CheckPurchase(ctx, userID, identifier)
}

func (f *StoreFacade) MyProducts(ctx context.Context, userID int64) ([]model.Product, error) {
	return f.catalog.MyProducts(ctx, userID)
}

func (f *StoreFacade) DownloadDocument(ctx context.Context, userID int64, slug string) (*usecase.Document, error) {
	return f.catalog.DownloadDocument(ctx, userID, slug)
}

func (f *StoreFacade) CreateSell(ctx context.Context, userID int64, in usecase.CreateSellInput) (*model.Sell, error) {
	return f.sells.Create(ctx, userID, in)
}

func (f *StoreFacade) PaySell(ctx context.Context, userID, sellID int64, in usecase.PayInput) (*usecase.PayResult, error) {
	return f.sells.Pay(ctx, userID, sellID, in)
}

func (f *StoreFacade) SetSellError(ctx context.Context, userID, sellID int64, payload json.RawMessage) (*model.Sell, error) {
	return f.sells.SetError(ctx, userID, sellID, payload)
}

func (f *StoreFacade) ConsultOrder(ctx context.Context, userID, sellID int64) (*culqi.Response, error) {
	return f.sells.ConsultOrder(ctx, userID, sellID)
}

func (f *StoreFacade) Sell(ctx context.Context, userID, sellID int64) (*model.Sell, error) {
	return f.sells.Get(ctx, userID, sellID)
}

func (f *StoreFacade) Sells(ctx context.Context, userID int64) ([]model.Sell, error) {
	return f.sells.List(ctx, userID)
}

func (f *StoreFacade) SellReceipt(ctx context.Context, userID, sellID int64) (*model.Sell, []byte, error) {
	return f.sells.Receipt(ctx, userID, sellID)
}

func (f *StoreFacade) PendingSells(ctx context.Context, limit int) ([]model.Sell, error) {
	return f.sells.PendingSells(ctx, limit)
}

func (f *StoreFacade) ReconcileOrder(ctx context.Context, sell *model.Sell) (string, error) {
	return f.sells.ReconcileOrder(ctx, sell)
}

func (f *StoreFacade) HandleOrderStatusChanged(ctx context.Context, payload []byte) error {
	return f.webhooks.HandleOrderStatusChanged(ctx, payload)
}

func (f *StoreFacade) CreateClaim(ctx context.Context, in usecase.CreateClaimInput) (*model.Claim, error) {
	return f.claims.Create(ctx, in)
}
