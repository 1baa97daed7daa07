package dto

import (
	"encoding/json"
	"time"

	"github.com/edukar/edukar-store/internal/domain/model"
)

// SellItemResponse is a product captured by a sell.
type SellItemResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
}

// SellResponse describes a sell.
type SellResponse struct {
	ID            int64              `json:"id"`
	Status        string             `json:"status"`
	FirstName     string             `json:"first_name"`
	LastName      string             `json:"last_name"`
	Email         string             `json:"email"`
	PhoneNumber   string             `json:"phone_number"`
	Products      []SellItemResponse `json:"products"`
	OrderID       string             `json:"order_id"`
	OrderNumber   string             `json:"order_number"`
	TotalCost     string             `json:"total_cost"`
	ReceiptNumber *int64             `json:"receipt_number"`
	HasReceipt    bool               `json:"has_receipt"`
	Metadata      json.RawMessage    `json:"metadata,omitempty"`
	OrderData     json.RawMessage    `json:"order_data,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	PaidAt        *time.Time         `json:"paid_at"`
}

// SetErrorRequest is the failure a client reports for a sell.
type SetErrorRequest struct {
	Payload json.RawMessage `json:"payload"`
}

// WebhookResponse confirms a gateway callback.
type WebhookResponse struct {
	Data MessageResponse `json:"data"`
}

// NewSellResponse maps a sell.
func NewSellResponse(s *model.Sell) SellResponse {
	resp := SellResponse{
		ID:            s.ID,
		Status:        s.Status.String(),
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Email:         s.Email,
		PhoneNumber:   s.PhoneNumber,
		Products:      make([]SellItemResponse, 0, len(s.Items)),
		OrderID:       s.OrderID,
		OrderNumber:   s.OrderNumber,
		TotalCost:     s.TotalCost.StringFixed(2),
		ReceiptNumber: s.ReceiptNumber,
		HasReceipt:    s.HasReceipt,
		CreatedAt:     s.CreatedAt,
		PaidAt:        s.PaidAt,
	}
	if json.Valid(s.Metadata) {
		resp.Metadata = s.Metadata
	}
	if json.Valid(s.OrderData) {
		resp.OrderData = s.OrderData
	}
	for _, item := range s.Items {
		resp.Products = append(resp.Products, SellItemResponse{ProductID: item.ProductID, Name: item.Name, Price: item.Price.StringFixed(2)})
	}
	return resp
}
