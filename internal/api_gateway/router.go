package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corebank-posting-ledger/internal/api_gateway/handler"
	"github.com/corebank-posting-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	journalHandler *handler.JournalHandler,
	paymentHandler *handler.PaymentHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Chart-of-accounts administration
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:code", accountHandler.GetByCode)
			accounts.POST("/:code/activate", accountHandler.Activate)
			accounts.POST("/:code/deactivate", accountHandler.Deactivate)
			accounts.GET("/:code/balance", journalHandler.GetBalance)
		}

		// Journal posting and queries
		journal := v1.Group("/journal")
		{
			journal.POST("/entries", journalHandler.PostEntry)
			journal.GET("/entries/:reference", journalHandler.GetEntry)
			journal.POST("/policy-entries", journalHandler.PostPolicyEntry)
			journal.GET("/reconciliation", journalHandler.Reconcile)
		}

		// Payment operations
		payments := v1.Group("/payments")
		{
			payments.POST("", paymentHandler.Create)
			payments.GET("", paymentHandler.List)
			payments.POST("/batch", paymentHandler.CreateBatch)
			payments.GET("/:id", paymentHandler.GetByID)
			payments.POST("/:id/retry", paymentHandler.Retry)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
