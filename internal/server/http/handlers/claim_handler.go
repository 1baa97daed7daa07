package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edukar/edukar-store/internal/server/http/dto"
	"github.com/edukar/edukar-store/internal/usecase"
)

// ClaimHandler records consumer claims.
type ClaimHandler struct {
	facade ClaimFacade
}

// NewClaimHandler constructs ClaimHandler.
func NewClaimHandler(facade ClaimFacade) *ClaimHandler {
	return &ClaimHandler{facade: facade}
}

// Create handles POST /store/claims/.
func (h *ClaimHandler) Create(c *gin.Context) {
	var in usecase.CreateClaimInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	claim, err := h.facade.CreateClaim(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewClaimResponse(claim))
}
