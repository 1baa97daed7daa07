package errors

import "errors"

var (
	ErrAlreadyExists        = errors.New("already exists")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAlreadyPurchased     = errors.New("product already purchased")
	ErrPackageItemPurchased = errors.New("already purchased one of the package products")
	ErrSellFinished         = errors.New("sell already paid")
	ErrSellClosed           = errors.New("sell is closed")
	ErrNoGatewayOrder       = errors.New("sell has no gateway order")
	ErrInvalidWebhookType   = errors.New("invalid webhook type")
	ErrInvalidWebhookData   = errors.New("invalid webhook data")
	ErrUnauthorizedWebhook  = errors.New("unauthorized webhook")
	ErrStorageUnavailable   = errors.New("document storage unavailable")
)
