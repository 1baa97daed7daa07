package usecase

import (
	"context"
	"math"
	"strings"

	"github.com/edukar/edukar-store/internal/adapter/r2"
	"github.com/edukar/edukar-store/internal/config"
	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/model"
	"github.com/edukar/edukar-store/internal/domain/repository"
	"github.com/edukar/edukar-store/internal/pkg/validate"
)

const (
	recommendationsLimit = 4
	maxPageSize          = 100
)

// ProductQuery is a catalog listing request. Attributes map attribute labels to option values.
type ProductQuery struct {
	CategorySlug string
	Attributes   map[string]string
	Page         int
	PageSize     int
}

// ProductListing is one page of shown products. NextPage is zero on the last page.
type ProductListing struct {
	Count    int
	Page     int
	NextPage int
	Products []model.Product
}

// Document is a product file ready to be streamed.
type Document struct {
	*r2.Object
	FileName string
}

// CatalogUseCase serves the product catalog and purchase checks.
type CatalogUseCase struct {
	products  repository.ProductRepository
	ownership repository.OwnershipRepository
	documents r2.Store
	pageSize  int
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository, ownership repository.OwnershipRepository, documents r2.Store, cfg *config.Config) *CatalogUseCase {
	return &CatalogUseCase{
		products:  products,
		ownership: ownership,
		documents: documents,
		pageSize:  cfg.PageSize,
	}
}

// ListProducts returns a page of shown products newest first.
func (u *CatalogUseCase) ListProducts(ctx context.Context, q ProductQuery) (*ProductListing, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size <= 0 {
		size = u.pageSize
	}
	if size <= 0 || size > maxPageSize {
		size = maxPageSize
	}
	if page > math.MaxInt/size {
		return nil, validate.FieldErrors{"page": "page is out of range"}
	}

	result, err := u.products.List(ctx, model.ProductFilter{
		CategorySlug: strings.TrimSpace(q.CategorySlug),
		Attributes:   q.Attributes,
		Limit:        size,
		Offset:       (page - 1) * size,
	})
	if err != nil {
		return nil, err
	}

	listing := &ProductListing{Count: result.Count, Page: page, Products: result.Products}
	if page*size < result.Count {
		listing.NextPage = page + 1
	}
	return listing, nil
}

// GetProduct returns a shown product with its items and attribute options.
func (u *CatalogUseCase) GetProduct(ctx context.Context, slug string) (*model.Product, error) {
	return u.products.GetBySlug(ctx, slug)
}

// Recommendations returns products related to the one with slug.
func (u *CatalogUseCase) Recommendations(ctx context.Context, slug string) ([]model.Product, error) {
	product, err := u.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return u.products.Recommendations(ctx, product.ID, recommendationsLimit)
}

// Categories lists categories with their attributes and options.
func (u *CatalogUseCase) Categories(ctx context.Context) ([]model.Category, error) {
	return u.products.ListCategories(ctx)
}

// CheckPurchase reports whether the user may buy the product carrying identifier.
func (u *CatalogUseCase) CheckPurchase(ctx context.Context, userID int64, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return domainErrors.ErrInvalidInput
	}
	product, err := u.products.GetByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	return u.checkPurchasable(ctx, userID, []model.Product{*product})
}

// checkPurchasable rejects one time products the user owns, directly or as a package item.
func (u *CatalogUseCase) checkPurchasable(ctx context.Context, userID int64, products []model.Product) error {
	var candidates []int64
	for _, p := range products {
		if p.IsOneTimePurchase() {
			candidates = append(candidates, p.ID)
		}
		for _, item := range p.Items {
			if item.IsOneTimePurchase() {
				candidates = append(candidates, item.ID)
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	owned, err := u.ownership.OwnedAmong(ctx, userID, candidates)
	if err != nil {
		return err
	}

	for _, p := range products {
		if p.IsOneTimePurchase() && owned[p.ID] {
			return domainErrors.ErrAlreadyPurchased
		}
		for _, item := range p.Items {
			if item.IsOneTimePurchase() && owned[item.ID] {
				return domainErrors.ErrPackageItemPurchased
			}
		}
	}
	return nil
}

// MyProducts lists the products the user owns.
func (u *CatalogUseCase) MyProducts(ctx context.Context, userID int64) ([]model.Product, error) {
	return u.ownership.ListProducts(ctx, userID)
}

// DownloadDocument opens the file of an owned document product.
func (u *CatalogUseCase) DownloadDocument(ctx context.Context, userID int64, slug string) (*Document, error) {
	owned, err := u.ownership.ListProducts(ctx, userID)
	if err != nil {
		return nil, err
	}

	var product *model.Product
	for i := range owned {
		if owned[i].Slug == slug {
			product = &owned[i]
			break
		}
	}
	if product == nil {
		return nil, domainErrors.ErrForbidden
	}
	if !product.IsDownloadable() {
		return nil, domainErrors.ErrNotFound
	}

	object, err := u.documents.Open(ctx, product.Source)
	if err != nil {
		return nil, err
	}
	return &Document{Object: object, FileName: product.Slug + ".pdf"}, nil
}
