package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/edukar/edukar-store/internal/domain/model"
	"github.com/edukar/edukar-store/internal/domain/repository"
	"github.com/edukar/edukar-store/internal/pkg/receipt"
	"github.com/edukar/edukar-store/internal/pkg/validate"
	"github.com/edukar/edukar-store/internal/queue"
)

// CreateClaimInput is the complaint book form.
type CreateClaimInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Address     string          `json:"address" validate:"required,max=200"`
	DNI         string          `json:"dni" validate:"required,max=20"`
	Email       string          `json:"email" validate:"required,email,max=100"`
	Phone       string          `json:"phone" validate:"required,max=50"`
	IsMinor     bool            `json:"is_minor"`
	ProxyName   string          `json:"proxy_name" validate:"required_if=IsMinor true,max=100"`
	TypeGood    model.TypeGood  `json:"type_good" validate:"required,oneof=1 2"`
	ClaimAmount decimal.Decimal `json:"claim_amount"`
	Description string          `json:"description"`
	ClaimDetail string          `json:"claim_detail" validate:"required"`
	Request     string          `json:"request" validate:"required"`
}

// ClaimUseCase stores consumer claims and sends the claimant a copy.
type ClaimUseCase struct {
	claims    repository.ClaimRepository
	publisher queue.Publisher
	logger    *slog.Logger
}

// NewClaimUseCase constructs ClaimUseCase.
func NewClaimUseCase(claims repository.ClaimRepository, publisher queue.Publisher, logger *slog.Logger) *ClaimUseCase {
	return &ClaimUseCase{claims: claims, publisher: publisher, logger: logger}
}

// Create validates and stores the claim, renders its sheet and queues the email.
func (u *ClaimUseCase) Create(ctx context.Context, in CreateClaimInput) (*model.Claim, error) {
	if err := validate.Check(in); err != nil {
		return nil, err
	}
	if in.ClaimAmount.IsNegative() {
		return nil, validate.FieldErrors{"claim_amount": "claim_amount must not be negative"}
	}

	proxy := ""
	if in.IsMinor {
		proxy = strings.TrimSpace(in.ProxyName)
	}

	claim, err := u.claims.Create(ctx, &model.Claim{
		Name:        strings.TrimSpace(in.Name),
		Address:     strings.TrimSpace(in.Address),
		DNI:         strings.TrimSpace(in.DNI),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		IsMinor:     in.IsMinor,
		ProxyName:   proxy,
		TypeGood:    in.TypeGood,
		ClaimAmount: in.ClaimAmount.Round(2),
		Description: in.Description,
		ClaimDetail: in.ClaimDetail,
		Request:     in.Request,
	})
	if err != nil {
		return nil, fmt.Errorf("store claim: %w", err)
	}

	document, err := receipt.RenderClaim(claim)
	if err != nil {
		u.logger.Error("render claim failed", slog.Int64("claim_id", claim.ID), slog.String("error", err.Error()))
		return claim, nil
	}
	if err := u.claims.SetDocument(ctx, claim.ID, document); err != nil {
		u.logger.Error("store claim document failed", slog.Int64("claim_id", claim.ID), slog.String("error", err.Error()))
		return claim, nil
	}
	claim.Document = document

	if err := u.publisher.Enqueue(ctx, queue.Task{Kind: queue.KindClaimDetail, ClaimID: claim.ID}); err != nil {
		u.logger.Error("enqueue claim email failed", slog.Int64("claim_id", claim.ID), slog.String("error", err.Error()))
	}
	return claim, nil
}
