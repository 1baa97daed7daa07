package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType distinguishes what a product delivers.
type ProductType int

const (
	ProductTypeDocument ProductType = 1
	ProductTypeVideo    ProductType = 2
	ProductTypePackage  ProductType = 3
)

func (t ProductType) String() string {
	switch t {
	case ProductTypeDocument:
		return "document"
	case ProductTypeVideo:
		return "video"
	case ProductTypePackage:
		return "package"
	default:
		return "unknown"
	}
}

// Category groups products and decides whether they can be bought once per user.
type Category struct {
	ID                int64
	Name              string
	Slug              string
	IsOneTimePurchase bool
	Attributes        []Attribute
}

// Attribute is a filterable dimension of a category, e.g. "year".
type Attribute struct {
	ID         int64
	CategoryID int64
	Name       string
	Label      string
	Options    []AttributeOption
}

// AttributeOption is a concrete attribute value a product can carry.
type AttributeOption struct {
	ID             int64
	AttributeID    int64
	AttributeLabel string
	Label          string
	Value          string
}

// Product is a catalog entry. Packages bundle other products in Items.
type Product struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Type        ProductType
	Category    *Category
	Source      string
	Image       string
	Show        bool
	Identifier  string
	Items       []Product
	Options     []AttributeOption
	CreatedAt   time.Time
}

// IsPackage reports whether the product bundles other products.
func (p *Product) IsPackage() bool {
	return p.Type == ProductTypePackage
}

// IsOneTimePurchase is inherited from the category.
func (p *Product) IsOneTimePurchase() bool {
	return p.Category != nil && p.Category.IsOneTimePurchase
}

// IsDownloadable reports whether a document file backs the product.
func (p *Product) IsDownloadable() bool {
	return p.Type == ProductTypeDocument && p.Source != ""
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	CategorySlug string
	Attributes   map[string]string
	Limit        int
	Offset       int
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Count    int
	Products []Product
}

// UserProduct is an ownership ledger entry.
type UserProduct struct {
	UserID    int64
	ProductID int64
	CreatedAt time.Time
}

// Entitlements returns the product ids granted by buying products.
// Packages contribute their items instead of themselves and duplicates collapse.
func Entitlements(products []Product) []int64 {
	seen := make(map[int64]struct{}, len(products))
	ids := make([]int64, 0, len(products))
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, p := range products {
		if !p.IsPackage() {
			add(p.ID)
			continue
		}
		for _, item := range p.Items {
			if item.IsPackage() {
				continue
			}
			add(item.ID)
		}
	}
	return ids
}
