package repository

import (
	"context"

	"github.com/edukar/edukar-store/internal/domain/model"
)

// ProductRepository reads the catalog.
type ProductRepository interface {
	List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetByIdentifier(ctx context.Context, identifier string) (*model.Product, error)
	// GetByIDs loads products with their category and, for packages, their items.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	Recommendations(ctx context.Context, productID int64, limit int) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// OwnershipRepository reads the UserProduct ledger.
type OwnershipRepository interface {
	OwnedAmong(ctx context.Context, userID int64, productIDs []int64) (map[int64]bool, error)
	ListProducts(ctx context.Context, userID int64) ([]model.Product, error)
}
