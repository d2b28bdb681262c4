package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cardscout/backend/internal/domain"
)

const faceToFaceName = "FaceToFaceGames"

// faceToFaceConditions maps the store's SKU condition codes to full names.
var faceToFaceConditions = map[string]string{
	"NM":  "Near Mint",
	"LP":  "Lightly Played",
	"MP":  "Moderately Played",
	"PL":  "Played",
	"HP":  "Heavily Played",
	"DMG": "Damaged",
}

// Non-English listings are titled "Card Name - Language [...]".
var languageMarkers = []string{
	" - french", " - japanese", " - german", " - spanish", " - italian",
	" - portuguese", " - russian", " - korean", " - chinese",
	" - simplified chinese", " - traditional chinese",
}

// FaceToFace searches the FaceToFaceGames product-indexer JSON API.
type FaceToFace struct {
	httpClient  *http.Client
	baseURL     string
	cacheTTL    time.Duration
	rateLimiter *rate.Limiter
	debug       bool
}

// NewFaceToFace creates a FaceToFace adapter against the given base URL.
func NewFaceToFace(baseURL string, cacheTTL time.Duration) *FaceToFace {
	return &FaceToFace{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		cacheTTL:   cacheTTL,
		// Roughly 2 searches per second with a small burst keeps us
		// polite against the indexer.
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

// SetDebug enables per-request logging.
func (s *FaceToFace) SetDebug(debug bool) { s.debug = debug }

func (s *FaceToFace) Name() string { return faceToFaceName }

func (s *FaceToFace) CacheTTL() time.Duration { return s.cacheTTL }

// searchResponse is the subset of the indexer payload we read.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				Title    string `json:"title"`
				Handle   string `json:"handle"`
				Variants []struct {
					Price             *float64 `json:"price"`
					InventoryQuantity int      `json:"inventoryQuantity"`
					SelectedOptions   []struct {
						Name  string `json:"name"`
						Value string `json:"value"`
					} `json:"selectedOptions"`
				} `json:"variants"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search queries the JSON API for the card and normalizes every in-print
// variant into an offer. Zero hits is (nil, nil); transport and decode
// failures are ErrStoreUnavailable.
func (s *FaceToFace) Search(ctx context.Context, card domain.Card) ([]domain.Offer, error) {
	// The indexer decodes the keyword twice, once at the proxy and once in
	// the application, so the query must be encoded twice.
	keyword := url.QueryEscape(url.QueryEscape(card.Name))
	reqURL := fmt.Sprintf("%s/apps/prod-indexer/search/keyword/%s/pageSize/50/page/1", s.baseURL, keyword)

	body, err := s.fetch(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode %s response: %v", domain.ErrStoreUnavailable, faceToFaceName, err)
	}

	var offers []domain.Offer
	for _, hit := range resp.Hits.Hits {
		product := hit.Source
		if isNonEnglishTitle(product.Title) {
			continue
		}

		title := product.Title
		// Keyword search returns near misses ("Brainstone" for
		// "Brainstorm"); keep only real matches.
		if !cardNameMatchesQuery(cleanBracketedTitle(title), card.Name) {
			continue
		}
		productURL := fmt.Sprintf("%s/products/%s", s.baseURL, product.Handle)

		for _, variant := range product.Variants {
			if variant.Price == nil {
				continue
			}

			condition := "Unknown"
			for _, option := range variant.SelectedOptions {
				if option.Name == "Condition" {
					if full, ok := faceToFaceConditions[option.Value]; ok {
						condition = full
					} else {
						condition = option.Value
					}
					break
				}
			}

			offer, err := domain.NewOffer(
				faceToFaceName,
				cleanBracketedTitle(title),
				extractSetFromTitle(title),
				condition,
				*variant.Price,
				productURL,
				isFoilTitle(title),
				variant.InventoryQuantity > 0,
			)
			if err != nil {
				if s.debug {
					log.Printf("[F2F] dropping malformed variant of %q: %v", title, err)
				}
				continue
			}
			offers = append(offers, offer)
		}
	}

	if s.debug {
		log.Printf("[F2F] %q: %d offers", card.Name, len(offers))
	}
	return offers, nil
}

// fetch performs the rate-limited GET with up to three attempts.
func (s *FaceToFace) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrStoreUnavailable, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: build request: %v", domain.ErrStoreUnavailable, err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			time.Sleep(backoff(attempt))
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: %s returned status %d", domain.ErrStoreUnavailable, faceToFaceName, resp.StatusCode)
			time.Sleep(backoff(attempt))
			continue
		}
		if readErr != nil {
			lastErr = fmt.Errorf("%w: read body: %v", domain.ErrStoreUnavailable, readErr)
			time.Sleep(backoff(attempt))
			continue
		}
		return body, nil
	}
	return nil, lastErr
}

func isNonEnglishTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range languageMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractSetFromTitle reads the set name out of titles shaped like
// "Lightning Bolt [117] [Double Masters 2022] [Foil]": the second bracket is
// the set, the first the collector number.
func extractSetFromTitle(title string) string {
	brackets := bracketsRegex.FindAllStringSubmatch(title, -1)
	if len(brackets) >= 2 {
		return brackets[1][1]
	}
	if len(brackets) == 1 {
		content := brackets[0][1]
		lower := strings.ToLower(content)
		if lower != "foil" && lower != "non-foil" && !isDigits(content) {
			return content
		}
	}
	return "Unknown"
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// isFoilTitle checks the bracketed foil marker; [Non-Foil] wins over [Foil].
func isFoilTitle(title string) bool {
	lower := strings.ToLower(title)
	if strings.Contains(lower, "[non-foil]") || strings.Contains(lower, "(non-foil)") {
		return false
	}
	return strings.Contains(lower, "[foil]") || strings.Contains(lower, "(foil)")
}

// cleanBracketedTitle strips bracket groups and foil markers, leaving the
// card name.
func cleanBracketedTitle(title string) string {
	cleaned := bracketsRegex.ReplaceAllString(title, "")
	cleaned = foilWordRegex.ReplaceAllString(cleaned, "")
	return collapseWhitespace(cleaned)
}
