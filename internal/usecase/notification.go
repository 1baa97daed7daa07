package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edukar/edukar-store/internal/adapter/mail"
	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/repository"
	"github.com/edukar/edukar-store/internal/pkg/receipt"
	"github.com/edukar/edukar-store/internal/queue"
)

const (
	receiptSubject    = "Boleta de pago - Edukar"
	receiptAttachment = "Boleta de pago.pdf"
	claimSubject      = "Edukar: Detalle de reclamo"
	claimAttachment   = "Hoja de reclamacion.pdf"
	pdfContentType    = "application/pdf"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// NotificationUseCase delivers the emails queued by checkout and claims.
type NotificationUseCase struct {
	sells  repository.SellRepository
	claims repository.ClaimRepository
	users  repository.UserRepository
	sender mail.Sender
	logger *slog.Logger
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(sells repository.SellRepository, claims repository.ClaimRepository, users repository.UserRepository, sender mail.Sender, logger *slog.Logger) *NotificationUseCase {
	return &NotificationUseCase{sells: sells, claims: claims, users: users, sender: sender, logger: logger}
}

// Handle is the queue handler.
func (u *NotificationUseCase) Handle(ctx context.Context, task queue.Task) error {
	switch task.Kind {
	case queue.KindSellReceipt:
		return u.sendSellReceipt(ctx, task.SellID)
	case queue.KindClaimDetail:
		return u.sendClaimDetail(ctx, task.ClaimID)
	}
	return fmt.Errorf("unsupported task kind %q", task.Kind)
}

func (u *NotificationUseCase) sendSellReceipt(ctx context.Context, sellID int64) error {
	sell, err := u.sells.GetByID(ctx, sellID)
	if err != nil {
		return fmt.Errorf("load sell %d: %w", sellID, err)
	}

	pdf, err := u.sells.GetReceipt(ctx, sellID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		pdf, err = receipt.RenderSell(sell)
	}
	if err != nil {
		return fmt.Errorf("load receipt of sell %d: %w", sellID, err)
	}

	to := sell.Email
	name := sell.BuyerName()
	if to == "" || name == "" {
		user, err := u.users.GetByID(ctx, sell.UserID)
		if err != nil {
			return fmt.Errorf("load buyer of sell %d: %w", sellID, err)
		}
		if to == "" {
			to = user.Login
		}
		if name == "" {
			name = user.Login
		}
	}

	paidAt := sell.UpdatedAt
	if sell.PaidAt != nil {
		paidAt = *sell.PaidAt
	}
	body := fmt.Sprintf("Hola %s,\n\nGracias por tu compra del %s en Edukar.\n"+
		"Adjuntamos la boleta de pago del pedido %s.\n\nEl equipo de Edukar",
		name, spanishDate(paidAt), sell.OrderNumber)

	err = u.sender.Send(ctx, mail.Message{
		To:          to,
		Subject:     receiptSubject,
		Body:        body,
		Attachments: []mail.Attachment{{Name: receiptAttachment, ContentType: pdfContentType, Data: pdf}},
	})
	if err != nil {
		return fmt.Errorf("send receipt of sell %d: %w", sellID, err)
	}
	u.logger.Info("receipt email sent", slog.Int64("sell_id", sellID), slog.Int64("user_id", sell.UserID))
	return nil
}

func (u *NotificationUseCase) sendClaimDetail(ctx context.Context, claimID int64) error {
	claim, err := u.claims.GetByID(ctx, claimID)
	if err != nil {
		return fmt.Errorf("load claim %d: %w", claimID, err)
	}

	document := claim.Document
	if len(document) == 0 {
		if document, err = receipt.RenderClaim(claim); err != nil {
			return fmt.Errorf("render claim %d: %w", claimID, err)
		}
	}

	body := fmt.Sprintf("Hola %s,\n\nRegistramos tu reclamo N. %06d del %s.\n"+
		"Adjuntamos la hoja de reclamacion. Te responderemos en un plazo maximo de 15 dias habiles.\n\nEl equipo de Edukar",
		claim.Name, claim.ID, spanishDate(claim.Date))

	err = u.sender.Send(ctx, mail.Message{
		To:          claim.Email,
		Subject:     claimSubject,
		Body:        body,
		Attachments: []mail.Attachment{{Name: claimAttachment, ContentType: pdfContentType, Data: document}},
	})
	if err != nil {
		return fmt.Errorf("send claim %d: %w", claimID, err)
	}
	u.logger.Info("claim email sent", slog.Int64("claim_id", claimID))
	return nil
}

func spanishDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
