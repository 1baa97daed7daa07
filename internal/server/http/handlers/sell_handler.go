package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	"github.com/edukar/edukar-store/internal/server/http/dto"
	"github.com/edukar/edukar-store/internal/usecase"
)

// SellHandler manages the checkout endpoints.
type SellHandler struct {
	facade SellFacade
}

// NewSellHandler constructs SellHandler.
func NewSellHandler(facade SellFacade) *SellHandler {
	return &SellHandler{facade: facade}
}

// Create handles POST /store/sells/.
func (h *SellHandler) Create(c *gin.Context) {
	var in usecase.CreateSellInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	sell, err := h.facade.CreateSell(c.Request.Context(), CurrentUserID(c), in)
	if err != nil {
		var gatewayErr *culqi.GatewayError
		if errors.As(err, &gatewayErr) {
			c.Data(http.StatusBadRequest, gin.MIMEJSON, gatewayErr.Body)
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSellResponse(sell))
}

// List handles GET /store/sells/.
func (h *SellHandler) List(c *gin.Context) {
	sells, err := h.facade.Sells(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.SellResponse, 0, len(sells))
	for i := range sells {
		resp = append(resp, dto.NewSellResponse(&sells[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /store/sells/:id/.
func (h *SellHandler) Get(c *gin.Context) {
	id, ok := sellID(c)
	if !ok {
		return
	}
	sell, err := h.facade.Sell(c.Request.Context(), CurrentUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSellResponse(sell))
}

// Pay handles POST /store/sells/:id/pay/. A 3-D Secure challenge answers 200
// with the gateway body; a paid sell answers 201.
func (h *SellHandler) Pay(c *gin.Context) {
	id, ok := sellID(c)
	if !ok {
		return
	}
	var in usecase.PayInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.facade.PaySell(c.Request.Context(), CurrentUserID(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	if result.StatusCode == http.StatusCreated {
		c.JSON(http.StatusCreated, dto.NewSellResponse(result.Sell))
		return
	}
	c.Data(result.StatusCode, gin.MIMEJSON, result.Body)
}

// SetError handles POST /store/sells/:id/set-error/.
func (h *SellHandler) SetError(c *gin.Context) {
	id, ok := sellID(c)
	if !ok {
		return
	}
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "invalid request body")
		return
	}

	sell, err := h.facade.SetSellError(c.Request.Context(), CurrentUserID(c), id, payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSellResponse(sell))
}

// ConsultOrder handles POST /store/sells/:id/consult-order/ and forwards the gateway answer.
func (h *SellHandler) ConsultOrder(c *gin.Context) {
	id, ok := sellID(c)
	if !ok {
		return
	}
	resp, err := h.facade.ConsultOrder(c.Request.Context(), CurrentUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(resp.StatusCode, gin.MIMEJSON, resp.Body)
}

// Receipt handles GET /store/sells/:id/receipt/.
func (h *SellHandler) Receipt(c *gin.Context) {
	id, ok := sellID(c)
	if !ok {
		return
	}
	sell, pdf, err := h.facade.SellReceipt(c.Request.Context(), CurrentUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="boleta-`+sell.OrderNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
