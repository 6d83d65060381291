package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/storefront-golang/internal/checkout"
	"github.com/01moynul/storefront-golang/internal/config"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/media"
	"github.com/01moynul/storefront-golang/internal/payments"
	"github.com/01moynul/storefront-golang/internal/routes"
	"github.com/01moynul/storefront-golang/internal/store"
	"github.com/01moynul/storefront-golang/internal/worker"
)

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg, loadedDotenv, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	defer logger.Sync()
	if !loadedDotenv {
		logger.Warn("no .env file loaded, relying on process environment")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// 1. --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.OpenDB(ctx, cfg.DatabaseDSN)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	st := store.New(db)

	// 2. --- Payment Gateway & Checkout ---
	gateway := payments.NewStripeGateway(cfg.StripeSecretKey, cfg.Currency, cfg.StripeWebhookSecret, logger.Named("stripe"))
	dispatcher := checkout.NewDispatcher(checkout.Config{
		Carts:     st.Carts,
		Addresses: st.Addresses,
		Orders:    st.Orders,
		Gateway:   gateway,
		Notifier:  st.Notifications,
		AppURL:    cfg.AppURL,
		Logger:    logger.Named("checkout"),
	})

	app := &handlers.Handlers{
		Store:      st,
		Dispatcher: dispatcher,
		Media:      media.NewSigner(cfg.ImageKitPublicKey, cfg.ImageKitPrivateKey, cfg.UploadTokenTTL),
		Logger:     logger,
	}

	// 3. --- Background Workers (Cron) ---
	// Expires unpaid card orders whose payment window has closed.
	sweeper := worker.NewSweeper(st.Orders, cfg.OrderExpiry, logger.Named("sweeper"))
	jobs, err := worker.Start(cfg.OrderSweepSchedule, sweeper)
	if err != nil {
		logger.Fatal("invalid ORDER_SWEEP_SCHEDULE", zap.String("schedule", cfg.OrderSweepSchedule), zap.Error(err))
	}
	defer jobs.Stop()
	logger.Info("order sweeper scheduled",
		zap.String("schedule", cfg.OrderSweepSchedule), zap.Duration("max_age", cfg.OrderExpiry))

	// 4. --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		JWTSecret:      []byte(cfg.JWTSecret),
		CORSOrigin:     cfg.CORSOrigin,
		WebhookEnabled: cfg.StripeWebhookSecret != "",
	})

	// 5. --- Start Server ---
	logger.Info("starting storefront API server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
