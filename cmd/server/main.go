package main

import (
	"fmt"
	"log"
	"os"

	"github.com/forkflame/backend/config"
	httpDelivery "github.com/forkflame/backend/internal/delivery/http"
	"github.com/forkflame/backend/internal/infrastructure/imageprobe"
	"github.com/forkflame/backend/internal/infrastructure/kvstore"
	"github.com/forkflame/backend/internal/infrastructure/menuapi"
	"github.com/forkflame/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Fork & Flame Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Menu API: %s", cfg.MenuAPI.BaseURL)
	log.Printf("Cache TTL: %s, data dir: %s", cfg.Cache.TTL, cfg.Cache.DataDir)

	// Initialize infrastructure dependencies
	store := kvstore.NewFileStore(cfg.Cache.DataDir)
	prober := imageprobe.NewHTTPProber()

	menuClient := menuapi.NewClient(cfg.MenuAPI.BaseURL, cfg.MenuAPI.RequestTimeout)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		menuClient.SetDebug(true)
		log.Printf("Menu API client debug mode enabled")
	}

	// Initialize usecase layer
	aggregator := usecase.NewAggregator(menuClient)
	validator := usecase.NewImageValidator(prober)
	validationCache := usecase.NewValidationCache(store, cfg.Cache.TTL)

	desktop := usecase.Profile{
		Window:       cfg.Validator.Desktop.Window,
		BatchSize:    cfg.Validator.Desktop.BatchSize,
		ProbeTimeout: cfg.Validator.Desktop.ProbeTimeout,
	}
	mobile := usecase.Profile{
		Window:       cfg.Validator.Mobile.Window,
		BatchSize:    cfg.Validator.Mobile.BatchSize,
		ProbeTimeout: cfg.Validator.Mobile.ProbeTimeout,
	}

	fullCatalog := usecase.NewCatalogService(aggregator, validator, validationCache, usecase.CatalogServiceConfig{
		Kind:    usecase.KindFull,
		Desktop: desktop,
		Mobile:  mobile,
	})
	featuredCatalog := usecase.NewCatalogService(aggregator, validator, validationCache, usecase.CatalogServiceConfig{
		Kind:    usecase.KindFeatured,
		Desktop: desktop,
		Mobile:  mobile,
	})

	log.Printf("Validator: desktop window=%d batch=%d timeout=%s, mobile window=%d batch=%d timeout=%s",
		desktop.Window, desktop.BatchSize, desktop.ProbeTimeout,
		mobile.Window, mobile.BatchSize, mobile.ProbeTimeout)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(fullCatalog, featuredCatalog)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
