package dto

import (
	"time"

	"github.com/edukar/edukar-store/internal/domain/model"
)

// ClaimResponse describes a stored claim.
type ClaimResponse struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	IsMinor     bool      `json:"is_minor"`
	ProxyName   string    `json:"proxy_name,omitempty"`
	TypeGood    int       `json:"type_good"`
	ClaimAmount string    `json:"claim_amount"`
	Description string    `json:"description"`
	ClaimDetail string    `json:"claim_detail"`
	Request     string    `json:"request"`
}

// NewClaimResponse maps a claim.
func NewClaimResponse(c *model.Claim) ClaimResponse {
	return ClaimResponse{
		ID:          c.ID,
		Date:        c.Date,
		Name:        c.Name,
		Email:       c.Email,
		IsMinor:     c.IsMinor,
		ProxyName:   c.ProxyName,
		TypeGood:    int(c.TypeGood),
		ClaimAmount: c.ClaimAmount.StringFixed(2),
		Description: c.Description,
		ClaimDetail: c.ClaimDetail,
		Request:     c.Request,
	}
}
