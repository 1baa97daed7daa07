package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/edukar/edukar-store/internal/config"
	"github.com/edukar/edukar-store/internal/server/http/handlers"
	"github.com/edukar/edukar-store/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.RedirectTrailingSlash = true
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", "error", err)
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	sellHandler := handlers.NewSellHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)
	claimHandler := handlers.NewClaimHandler(facade)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := engine.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	store := engine.Group("/store")
	store.GET("/categories/", catalogHandler.Categories)
	store.GET("/products/", catalogHandler.Products)
	store.GET("/products/:slug/", catalogHandler.Product)
	store.GET("/products/:slug/recommendations/", catalogHandler.Recommendations)
	store.POST("/claims/", claimHandler.Create)

	storeAuth := store.Group("")
	storeAuth.Use(middleware.AuthRequired(facade))
	storeAuth.POST("/products/check-purchase/", catalogHandler.CheckPurchase)
	storeAuth.GET("/products/:slug/download/", catalogHandler.Download)
	storeAuth.GET("/my-products/", catalogHandler.MyProducts)
	storeAuth.POST("/sells/", sellHandler.Create)
	storeAuth.GET("/sells/", sellHandler.List)
	storeAuth.GET("/sells/:id/", sellHandler.Get)
	storeAuth.POST("/sells/:id/pay/", sellHandler.Pay)
	storeAuth.POST("/sells/:id/set-error/", sellHandler.SetError)
	storeAuth.POST("/sells/:id/consult-order/", sellHandler.ConsultOrder)
	storeAuth.GET("/sells/:id/receipt/", sellHandler.Receipt)

	webhooks := engine.Group("/webhooks/culqi")
	webhooks.Use(middleware.RateLimit(cfg.Webhook.RateLimit, cfg.Webhook.Burst))
	webhooks.Use(middleware.WebhookAuth(cfg.Webhook.Username, cfg.Webhook.Password))
	webhooks.POST("/charge-order/", webhookHandler.ChargeOrder)

	return engine
}
