package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/edukar/edukar-store/internal/config"
	"github.com/edukar/edukar-store/internal/domain/model"
	testhelpers "github.com/edukar/edukar-store/internal/test"
)

const (
	buyerID = int64(7)
	otherID = int64(8)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func catalogProducts() []model.Product {
	oneTime := &model.Category{ID: 1, Name: "Solucionario", Slug: "solucionario", IsOneTimePurchase: true}
	courses := &model.Category{ID: 2, Name: "Cursos", Slug: "cursos"}

	a := model.Product{ID: 1, Name: "Solucionario UNI 2023", Slug: "a", Price: decimal.RequireFromString("10.00"),
		Type: model.ProductTypeDocument, Category: oneTime, Source: "docs/a.pdf", Show: true, Identifier: "id-a"}
	b := model.Product{ID: 2, Name: "Video UNI 2023", Slug: "b", Price: decimal.RequireFromString("30.00"),
		Type: model.ProductTypeVideo, Category: oneTime, Show: true, Identifier: "id-b"}
	pack := model.Product{ID: 3, Name: "Paquete UNI", Slug: "pack", Price: decimal.RequireFromString("35.00"),
		Type: model.ProductTypePackage, Show: true, Identifier: "id-pack", Items: []model.Product{a, b}}
	c := model.Product{ID: 4, Name: "Curso de algebra", Slug: "c", Price: decimal.RequireFromString("5.50"),
		Type: model.ProductTypeDocument, Category: courses, Source: "docs/c.pdf", Show: true, Identifier: "id-c"}
	return []model.Product{a, b, pack, c}
}

type checkoutFixture struct {
	products    *testhelpers.ProductRepositoryStub
	ownership   *testhelpers.OwnershipRepositoryStub
	sells       *testhelpers.SellRepositoryStub
	gateway     *testhelpers.CulqiClientStub
	publisher   *testhelpers.PublisherStub
	documents   testhelpers.DocumentStoreStub
	catalog     *CatalogUseCase
	fulfillment *FulfillmentUseCase
	checkout    *SellUseCase
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		products:  testhelpers.NewProductRepositoryStub(catalogProducts()...),
		gateway:   &testhelpers.CulqiClientStub{},
		publisher: &testhelpers.PublisherStub{},
		documents: testhelpers.DocumentStoreStub{Objects: map[string][]byte{
			"docs/a.pdf": []byte("%PDF-1.4 a"),
			"docs/c.pdf": []byte("%PDF-1.4 c"),
		}},
	}
	f.ownership = &testhelpers.OwnershipRepositoryStub{Catalog: f.products}
	f.sells = testhelpers.NewSellRepositoryStub(f.ownership)
	f.catalog = NewCatalogUseCase(f.products, f.ownership, f.documents, &config.Config{PageSize: 12})
	f.fulfillment = NewFulfillmentUseCase(f.sells, f.products, f.publisher, testLogger())
	f.checkout = NewSellUseCase(f.sells, f.products, f.catalog, f.gateway, f.fulfillment, testLogger())
	return f
}

func (f *checkoutFixture) createSell(t *testing.T, userID int64, productIDs ...int64) *model.Sell {
	t.Helper()
	sell, err := f.checkout.Create(context.Background(), userID, CreateSellInput{
		ProductIDs:  productIDs,
		FirstName:   "Ana",
		LastName:    "Quispe",
		Email:       "ana@example.com",
		PhoneNumber: "999888777",
	})
	if err != nil {
		t.Fatalf("create sell: %v", err)
	}
	return sell
}

func validPayInput() PayInput {
	return PayInput{SourceID: "tkn_test_123", Email: "ana@example.com"}
}
