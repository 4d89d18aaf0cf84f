package main

import (
	"fmt"
	"log"
	"os"

	"github.com/liadelivery/backend/config"
	httpDelivery "github.com/liadelivery/backend/internal/delivery/http"
	"github.com/liadelivery/backend/internal/infrastructure/catalog"
	"github.com/liadelivery/backend/internal/infrastructure/pos"
	"github.com/liadelivery/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Lia Delivery Backend")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog DB: %s", cfg.Catalog.DatabasePath)

	catalogRepo, err := catalog.NewSQLiteRepository(cfg.Catalog.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open catalog index: %v", err)
	}
	defer catalogRepo.Close()

	posClient := pos.NewClient(cfg.POS.BaseURL, cfg.POS.PartnerID, cfg.POS.PartnerSecret, cfg.POS.TokenTTL)
	if cfg.Server.Environment == "development" {
		posClient.SetDebug(true)
		log.Printf("POS client debug mode enabled")
	}
	if cfg.POS.DryRun {
		log.Printf("POS dry run enabled: orders will not be submitted")
	}

	matcherConfig := usecase.MatcherConfig{
		ProductFuzzyThreshold:  cfg.Matching.ProductFuzzyThreshold,
		AdditionFuzzyThreshold: cfg.Matching.AdditionFuzzyThreshold,
		SuggestionThreshold:    cfg.Matching.SuggestionThreshold,
		EnableDebugLogging:     cfg.Matching.EnableDebugLogging,
	}

	interpreter := usecase.NewInterpreter(catalogRepo, matcherConfig)
	orderService := usecase.NewOrderService(posClient, usecase.OrderServiceConfig{
		CodStore:           cfg.POS.CodStore,
		DryRun:             cfg.POS.DryRun,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})
	syncService := usecase.NewCatalogSyncService(posClient, catalogRepo, interpreter)

	log.Printf("Matching: product=%.0f addition=%.0f suggestion=%.0f debug=%v",
		cfg.Matching.ProductFuzzyThreshold,
		cfg.Matching.AdditionFuzzyThreshold,
		cfg.Matching.SuggestionThreshold,
		cfg.Matching.EnableDebugLogging)

	handler := httpDelivery.NewHandler(interpreter, orderService, syncService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
