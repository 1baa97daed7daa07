package dto

import (
	"time"

	"github.com/edukar/edukar-store/internal/domain/model"
)

// CategoryResponse describes a category with its filterable attributes.
type CategoryResponse struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	Slug              string              `json:"slug"`
	IsOneTimePurchase bool                `json:"is_one_time_purchase"`
	Attributes        []AttributeResponse `json:"attributes,omitempty"`
}

// AttributeResponse describes an attribute and its options.
type AttributeResponse struct {
	ID      int64            `json:"id"`
	Name    string           `json:"name"`
	Label   string           `json:"label"`
	Options []OptionResponse `json:"options"`
}

// OptionResponse is an attribute value. Attribute is set on product options.
type OptionResponse struct {
	ID        int64  `json:"id"`
	Attribute string `json:"attribute,omitempty"`
	Label     string `json:"label"`
	Value     string `json:"value"`
}

// ProductResponse describes a catalog product.
type ProductResponse struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Slug              string            `json:"slug"`
	Description       string            `json:"description"`
	Price             string            `json:"price"`
	Type              string            `json:"type"`
	Category          *CategoryResponse `json:"category"`
	Image             string            `json:"image"`
	Identifier        string            `json:"identifier"`
	IsOneTimePurchase bool              `json:"is_one_time_purchase"`
	Items             []ProductResponse `json:"items,omitempty"`
	Options           []OptionResponse  `json:"attributes,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ProductListResponse is one page of products.
type ProductListResponse struct {
	Count    int               `json:"count"`
	NextPage *int              `json:"next_page"`
	Results  []ProductResponse `json:"results"`
}

// CheckPurchaseRequest names the product by its public identifier.
type CheckPurchaseRequest struct {
	Identifier string `json:"identifier"`
}

// MessageResponse carries a human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(c model.Category) CategoryResponse {
	resp := CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, IsOneTimePurchase: c.IsOneTimePurchase}
	for _, a := range c.Attributes {
		attr := AttributeResponse{ID: a.ID, Name: a.Name, Label: a.Label, Options: make([]OptionResponse, 0, len(a.Options))}
		for _, o := range a.Options {
			attr.Options = append(attr.Options, OptionResponse{ID: o.ID, Label: o.Label, Value: o.Value})
		}
		resp.Attributes = append(resp.Attributes, attr)
	}
	return resp
}

// NewProductResponse maps a product and its package items.
func NewProductResponse(p model.Product) ProductResponse {
	resp := ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Slug:              p.Slug,
		Description:       p.Description,
		Price:             p.Price.StringFixed(2),
		Type:              p.Type.String(),
		Image:             p.Image,
		Identifier:        p.Identifier,
		IsOneTimePurchase: p.IsOneTimePurchase(),
		CreatedAt:         p.CreatedAt,
	}
	if p.Category != nil {
		category := NewCategoryResponse(*p.Category)
		category.Attributes = nil
		resp.Category = &category
	}
	for _, item := range p.Items {
		resp.Items = append(resp.Items, NewProductResponse(item))
	}
	for _, o := range p.Options {
		resp.Options = append(resp.Options, OptionResponse{ID: o.ID, Attribute: o.AttributeLabel, Label: o.Label, Value: o.Value})
	}
	return resp
}

// NewProductsResponse maps a list of products.
func NewProductsResponse(products []model.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, NewProductResponse(p))
	}
	return resp
}
