package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cardscout/backend/config"
	httpDelivery "github.com/cardscout/backend/internal/delivery/http"
	"github.com/cardscout/backend/internal/domain"
	"github.com/cardscout/backend/internal/infrastructure/cache"
	"github.com/cardscout/backend/internal/infrastructure/stores"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CardScout Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache: %s (TTL %s)", cfg.Cache.Type, cfg.Cache.TTL)

	offerCache, err := buildCache(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}

	debug := cfg.Search.Debug || cfg.Server.Environment == "development"

	scrapers := buildScrapers(cfg, debug)
	for _, scraper := range scrapers {
		log.Printf("Store enabled: %s (cache TTL %s)", scraper.Name(), scraper.CacheTTL())
	}

	log.Printf("Defaults: strategy=%s, min quality=%s, debug=%v",
		cfg.Search.DefaultStrategy, cfg.Search.MinQuality(), debug)

	defaultStrategy, _ := domain.ParseStrategy(cfg.Search.DefaultStrategy)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(offerCache, scrapers, defaultStrategy, cfg.Search.MinQuality(), debug)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildCache picks the offer cache backend from configuration.
func buildCache(cfg *config.Config) (domain.OfferCache, error) {
	switch cfg.Cache.Type {
	case "redis":
		return cache.NewRedis(context.Background(), cfg.Cache.RedisURL)
	default:
		return cache.NewMemory(), nil
	}
}

// buildScrapers instantiates the enabled store adapters in the order they
// appear in configuration.
func buildScrapers(cfg *config.Config, debug bool) []domain.StoreScraper {
	var scrapers []domain.StoreScraper
	for _, name := range cfg.Stores.Enabled {
		switch name {
		case "facetoface":
			s := stores.NewFaceToFace(cfg.Stores.FaceToFaceBaseURL, cfg.Cache.TTL)
			s.SetDebug(debug)
			scrapers = append(scrapers, s)
		case "topdeckhero":
			s := stores.NewTopDeckHero(cfg.Stores.TopDeckHeroBaseURL, cfg.Cache.TTL, cfg.Stores.TopDeckHeroDiscount)
			s.SetDebug(debug)
			scrapers = append(scrapers, s)
		case "proxy":
			scrapers = append(scrapers, stores.NewProxyStore(cfg.Stores.ProxyAllowFoil))
		}
	}
	return scrapers
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
