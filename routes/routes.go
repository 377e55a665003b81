package routes

import (
	"net/http"
	"time"

	"vivare/config"
	"vivare/handlers"
	"vivare/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCheckoutRoutes registers the checkout flow endpoints.
func RegisterCheckoutRoutes(r *gin.Engine, ch *handlers.CheckoutHandler) {
	api := r.Group("/api/checkout")
	api.Use(middleware.DeviceSession())
	{
		api.POST("/resume", ch.Resume)
		api.POST("/guest", ch.SubmitGuest)
		api.POST("/recovery/retry", ch.RetryRecovery)
		api.POST("/finalize", ch.Finalize)
		api.POST("/cancel", ch.Cancel)
	}
}

// RegisterQuoteRoutes registers the booking sidebar quote endpoints.
func RegisterQuoteRoutes(r *gin.Engine, qh *handlers.QuoteHandler) {
	api := r.Group("/api/quote")
	api.Use(middleware.DeviceSession())
	{
		api.POST("/selection", qh.Select)
		api.GET("/current", qh.Current)
	}
}

// RegisterHealthRoute exposes a liveness endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, ch *handlers.CheckoutHandler, qh *handlers.QuoteHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Device-Token"},
		ExposeHeaders:    []string{"Content-Length", "X-Device-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterCheckoutRoutes(r, ch)
	RegisterQuoteRoutes(r, qh)
	RegisterHealthRoute(r)
}
