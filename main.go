// File: vivare/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vivare/config"
	"vivare/cron"
	"vivare/gateway"
	"vivare/handlers"
	"vivare/middleware"
	"vivare/routes"
	"vivare/services/checkout"
	"vivare/services/quote"
	"vivare/services/session"
	"vivare/services/tasks"
	"vivare/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Backend checkout API client.
	api := gateway.NewHTTPCheckoutAPI(
		config.AppConfig.CheckoutAPIURL,
		time.Duration(config.AppConfig.CheckoutAPITimeoutMs)*time.Millisecond,
		logger,
	)

	sessionTTL := time.Duration(config.AppConfig.SessionTTLMin) * time.Minute

	// Session record store. The memory store keeps a single-node deployment
	// self-contained; Redis is the default so records survive restarts.
	var store session.Store
	var expiry checkout.ExpiryScheduler
	if config.AppConfig.SessionStore == "memory" {
		store = session.NewMemoryStore(sessionTTL)
	} else {
		store = session.NewRedisStore(utils.GetSessionCacheClient(), sessionTTL, logger)
		scheduler := tasks.NewSweepScheduler(logger)
		defer scheduler.Close()
		expiry = scheduler
		cron.InitSweepWorker(store, api)
	}

	flowManager := checkout.NewManager(checkout.Deps{
		API:            api,
		Sessions:       store,
		Expiry:         expiry,
		Logger:         logger,
		RecoveryBudget: config.AppConfig.RecoveryMaxAttempts,
		SessionTTL:     sessionTTL,
	}, time.Duration(config.AppConfig.FlowIdleMin)*time.Minute)
	defer flowManager.Close()

	quoteService := quote.NewService(
		api,
		time.Duration(config.AppConfig.QuoteDebounceMs)*time.Millisecond,
		logger,
	)

	checkoutHandler := handlers.NewCheckoutHandler(
		flowManager,
		time.Duration(config.AppConfig.FinalizeMaxWaitMs)*time.Millisecond,
	)
	quoteHandler := handlers.NewQuoteHandler(quoteService)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, checkoutHandler, quoteHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
