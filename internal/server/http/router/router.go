package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/sourbakery/internal/config"
	"github.com/polkiloo/sourbakery/internal/server/http/handlers"
	"github.com/polkiloo/sourbakery/internal/server/http/middleware"
	"github.com/polkiloo/sourbakery/internal/usecase"
)

const (
	maxInflatedBody = usecase.MaxImageSize + 1<<20
	webhookPath     = "/api/stripe/webhook"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.BakeryFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(maxInflatedBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{webhookPath})))

	authHandler := handlers.NewAuthHandler(facade)
	productHandler := handlers.NewProductHandler(facade, cfg.BlobBaseURL)
	orderHandler := handlers.NewOrderHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.POST(webhookPath, webhookHandler.Handle)
	engine.GET("/healthz", healthHandler.Check)
	if cfg.BlobDir != "" && cfg.BlobBaseURL != "" {
		engine.Static(cfg.BlobBaseURL, cfg.BlobDir)
	}

	api := engine.Group("/api")
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.GET("/order-window", orderHandler.Window)
	api.POST("/checkout/payment-intent", orderHandler.Checkout)
	api.POST("/orders/verify", orderHandler.Verify)

	admin := api.Group("/admin")
	admin.POST("/login", authHandler.Login)

	adminAuth := admin.Group("")
	adminAuth.Use(middleware.AdminRequired(facade))
	adminAuth.GET("/products", productHandler.List)
	adminAuth.POST("/products", productHandler.Create)
	adminAuth.PUT("/products/:id", productHandler.Update)
	adminAuth.DELETE("/products/:id", productHandler.Delete)
	adminAuth.POST("/products/:id/image", productHandler.UploadImage)
	adminAuth.PUT("/products/:id/remaining", productHandler.SetRemaining)
	adminAuth.POST("/products/reset-weekly", productHandler.ResetWeekly)
	adminAuth.GET("/orders", orderHandler.List)
	adminAuth.POST("/orders", orderHandler.Place)
	adminAuth.PUT("/orders/:id/status", orderHandler.UpdateStatus)

	return engine
}
