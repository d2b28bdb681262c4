package http

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardscout/backend/internal/domain"
	"github.com/cardscout/backend/internal/export"
	"github.com/cardscout/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	cache           domain.OfferCache
	scrapers        []domain.StoreScraper
	defaultStrategy domain.Strategy
	defaultQuality  domain.CardQuality
	debug           bool
}

// NewHandler creates a new HTTP handler
func NewHandler(
	cache domain.OfferCache,
	scrapers []domain.StoreScraper,
	defaultStrategy domain.Strategy,
	defaultQuality domain.CardQuality,
	debug bool,
) *Handler {
	return &Handler{
		cache:           cache,
		scrapers:        scrapers,
		defaultStrategy: defaultStrategy,
		defaultQuality:  defaultQuality,
		debug:           debug,
	}
}

// searchRequest is the body of both the search and export endpoints. Cards is
// the raw card list, one card per line.
type searchRequest struct {
	Cards      string   `json:"cards" binding:"required"`
	Strategy   string   `json:"strategy"`
	MinQuality string   `json:"minQuality"`
	Stores     []string `json:"stores"`
	UseCache   *bool    `json:"useCache"`
	IgnoreSet  bool     `json:"ignoreSet"`
}

type searchResponse struct {
	Selected   []domain.Offer `json:"selected"`
	All        []domain.Offer `json:"all"`
	Unresolved []string       `json:"unresolved"`
	TotalCost  float64        `json:"totalCost"`
	OfferCount int            `json:"offerCount"`
	Warning    string         `json:"warning,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cardscout-backend",
		"version": "1.0.0",
	})
}

// SearchDeals resolves a card list into one offer per card
func (h *Handler) SearchDeals(c *gin.Context) {
	result, warning, ok := h.resolve(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, searchResponse{
		Selected:   result.Selected,
		All:        result.All,
		Unresolved: result.Unresolved,
		TotalCost:  result.TotalCost,
		OfferCount: len(result.All),
		Warning:    warning,
	})
}

// ExportDeals runs the same resolution as SearchDeals and returns the offers
// as a CSV download
func (h *Handler) ExportDeals(c *gin.Context) {
	result, _, ok := h.resolve(c)
	if !ok {
		return
	}

	rows := export.BuildRows(result.Selected, result.All)
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="deals.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// InvalidateCache drops cached offers. With ?store= only that store's entries
// go; without it the whole cache is cleared.
func (h *Handler) InvalidateCache(c *gin.Context) {
	removed, err := h.cache.Invalidate(c.Request.Context(), c.Query("store"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// resolve parses the request body and runs the deal resolution shared by the
// search and export endpoints. It writes the error response itself and
// returns ok=false when the caller should stop.
func (h *Handler) resolve(c *gin.Context) (result *usecase.DealResult, warning string, ok bool) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return nil, "", false
	}

	cards, err := usecase.ParseCardList(req.Cards, req.IgnoreSet)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}
	if len(cards) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card list is empty"})
		return nil, "", false
	}

	strategy := h.defaultStrategy
	if req.Strategy != "" {
		parsed, err := domain.ParseStrategy(req.Strategy)
		if err != nil {
			// Unknown strategies degrade to cheapest rather than failing
			// the whole batch.
			log.Printf("[HTTP] unknown strategy %q, falling back to %s", req.Strategy, domain.StrategyCheapest)
			warning = fmt.Sprintf("unknown strategy %q, used %s", req.Strategy, domain.StrategyCheapest)
			strategy = domain.StrategyCheapest
		} else {
			strategy = parsed
		}
	}

	minQuality := h.defaultQuality
	if req.MinQuality != "" && req.MinQuality != "none" {
		minQuality = domain.ParseQuality(req.MinQuality)
		if minQuality == domain.QualityUnknown {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown minimum quality %q", req.MinQuality)})
			return nil, "", false
		}
	}

	scrapers, err := h.pickScrapers(req.Stores)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}

	useCache := true
	if req.UseCache != nil {
		useCache = *req.UseCache
	}

	service := usecase.NewDealService(usecase.NewAggregator(h.cache, scrapers, h.debug))
	result, err = service.FindDeals(c.Request.Context(), cards, strategy, minQuality, useCache)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoStoresSelected):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNoOffers):
			c.JSON(http.StatusNotFound, gin.H{
				"error":      "no offers found for any card",
				"unresolved": result.Unresolved,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, "", false
	}

	return result, warning, true
}

// pickScrapers resolves requested store names against the configured
// scrapers, preserving registration order. An empty request means all of them.
func (h *Handler) pickScrapers(names []string) ([]domain.StoreScraper, error) {
	if len(names) == 0 {
		return h.scrapers, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var picked []domain.StoreScraper
	for _, scraper := range h.scrapers {
		if wanted[scraper.Name()] {
			picked = append(picked, scraper)
			delete(wanted, scraper.Name())
		}
	}
	for name := range wanted {
		return nil, fmt.Errorf("unknown store: %s", name)
	}
	return picked, nil
}
