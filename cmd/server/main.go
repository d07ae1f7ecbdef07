package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/listafacil/backend/config"
	httpDelivery "github.com/listafacil/backend/internal/delivery/http"
	"github.com/listafacil/backend/internal/domain"
	"github.com/listafacil/backend/internal/infrastructure/catalogstore"
	"github.com/listafacil/backend/internal/infrastructure/catalogwatch"
	"github.com/listafacil/backend/internal/infrastructure/extractor"
	"github.com/listafacil/backend/internal/infrastructure/filestore"
	"github.com/listafacil/backend/internal/infrastructure/quotecache"
	"github.com/listafacil/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Listafacil Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog mode: %s", cfg.Catalog.Mode)

	// Catalog index
	var index domain.CatalogIndex
	switch cfg.Catalog.Mode {
	case "bolt":
		boltIndex, err := catalogstore.NewBoltIndex(cfg.Catalog.StorePath)
		if err != nil {
			log.Fatalf("Failed to open catalog store: %v", err)
		}
		defer boltIndex.Close()
		index = boltIndex
		log.Printf("Catalog store: %s", cfg.Catalog.StorePath)
	case "memory":
		index = catalogstore.NewMemoryIndex()
	case "fallback":
		index = catalogstore.NewFixedCatalog()
		log.Printf("WARNING: using built-in fallback catalog; ingestion is disabled")
	}

	// Quote cache
	var cache domain.QuoteCache
	if cfg.Cache.Path != "" {
		boltCache, err := quotecache.NewBoltCache(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			log.Fatalf("Failed to open quote cache: %v", err)
		}
		defer boltCache.Close()
		cache = boltCache
		log.Printf("Quote cache: %s (TTL: %s)", cfg.Cache.Path, cfg.Cache.TTL)
	} else {
		cache = quotecache.NewMemoryCache(cfg.Cache.TTL)
		log.Printf("Quote cache: in-memory (TTL: %s)", cfg.Cache.TTL)
	}

	// Uploaded file storage
	files, err := filestore.NewLocal(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload storage: %v", err)
	}

	// Extraction API client
	extractorClient := extractor.NewClient(cfg.Extractor.APIKey, cfg.Extractor.BaseURL)
	if cfg.Server.Environment == "development" {
		extractorClient.SetDebug(true)
		log.Printf("Extractor client debug mode enabled")
	}
	log.Printf("Extraction API configured: %s", cfg.Extractor.BaseURL)

	// Usecase layer
	debugLogging := cfg.Matching.EnableDebugLogging
	matcher := usecase.NewMatcher(index, debugLogging)
	pipeline := usecase.NewMatchPipeline(matcher, usecase.PipelineConfig{
		ConfidenceThreshold: cfg.Matching.ConfidenceThreshold,
		EnableDebugLogging:  debugLogging,
	})
	ingestion := usecase.NewIngestionController(index, debugLogging)
	quotes := usecase.NewQuoteService(cache, files, extractorClient, pipeline, usecase.QuoteServiceConfig{
		EnableDebugLogging: debugLogging,
	})

	log.Printf("Matching: threshold=%.2f, debug=%v", cfg.Matching.ConfidenceThreshold, debugLogging)

	// Optional catalog watch directory
	if cfg.Catalog.WatchDir != "" {
		watcher, err := catalogwatch.New(cfg.Catalog.WatchDir, ingestion)
		if err != nil {
			log.Fatalf("Failed to watch catalog dir %s: %v", cfg.Catalog.WatchDir, err)
		}
		defer watcher.Close()
		watcher.Start(context.Background())
		log.Printf("Watching %s for catalog CSV drops", cfg.Catalog.WatchDir)
	}

	// HTTP delivery
	handler := httpDelivery.NewHandler(quotes, ingestion, matcher, pipeline)
	router := httpDelivery.SetupRouter(cfg, handler)

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
