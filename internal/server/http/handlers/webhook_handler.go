package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edukar/edukar-store/internal/server/http/dto"
)

const webhookConfirmed = "WEBHOOK CONFIRMED"

// WebhookHandler receives gateway callbacks.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// ChargeOrder handles POST /webhooks/culqi/charge-order/.
func (h *WebhookHandler) ChargeOrder(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.facade.HandleOrderStatusChanged(c.Request.Context(), payload); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WebhookResponse{Data: dto.MessageResponse{Message: webhookConfirmed}})
}
