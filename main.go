package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/C-SergioSilva/Mg-gourmet/internal/app/service"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/auth"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/config"
	apphttp "github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/http"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/http/handler"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/repository/sqlite"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/storage"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/telemetry"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize OpenTelemetry
	telem, err := telemetry.NewTelemetry(&cfg.OTLP)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("mg-gourmet-api")
	meter := telem.MeterProvider.Meter("mg-gourmet-api")
	logger := telem.Logger

	logger.Info("Starting MG Gourmet API")

	// Open the database and apply the schema
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize repositories and the image store (dependency injection)
	productRepo := sqlite.NewProductRepository(db, tracer, logger)
	userRepo := sqlite.NewUserRepository(db, tracer, logger)
	images := storage.New(cfg.Storage.Root, logger)

	if cfg.Database.Seed {
		if err := sqlite.Seed(ctx, userRepo, productRepo, logger); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	productService := service.NewProductService(productRepo, images, tracer, meter, logger)
	authService := service.NewAuthService(userRepo, tokens, tracer, logger)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	// Initialize HTTP server
	server := apphttp.NewServer(cfg, productHandler, authHandler, tokens, logger, telem)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", "error", err.Error())
			cancel()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err.Error())
	}

	logger.Info("Server stopped")
}
