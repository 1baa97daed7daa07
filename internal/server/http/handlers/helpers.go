package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edukar/edukar-store/internal/adapter/culqi"
	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/pkg/validate"
	"github.com/edukar/edukar-store/internal/server/http/dto"
	"github.com/edukar/edukar-store/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func sellID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: domainErrors.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

// writeError maps use case errors to responses. Gateway rejections are
// forwarded with the gateway status and body.
func writeError(c *gin.Context, err error) {
	var fields validate.FieldErrors
	if errors.As(err, &fields) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domainErrors.ErrInvalidInput.Error(), Fields: fields})
		return
	}

	var gatewayErr *culqi.GatewayError
	if errors.As(err, &gatewayErr) {
		c.Data(gatewayErr.StatusCode, gin.MIMEJSON, gatewayErr.Body)
		return
	}

	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidInput),
		errors.Is(err, domainErrors.ErrAlreadyPurchased),
		errors.Is(err, domainErrors.ErrPackageItemPurchased),
		errors.Is(err, domainErrors.ErrSellFinished),
		errors.Is(err, domainErrors.ErrSellClosed),
		errors.Is(err, domainErrors.ErrNoGatewayOrder),
		errors.Is(err, domainErrors.ErrInvalidWebhookType),
		errors.Is(err, domainErrors.ErrInvalidWebhookData),
		errors.Is(err, domainErrors.ErrStorageUnavailable):
		badRequest(c, err.Error())
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
