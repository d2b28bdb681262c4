package stores

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/cardscout/backend/internal/domain"
)

const (
	topDeckHeroName     = "TopDeckHero"
	topDeckHeroMaxPages = 2
	topDeckHeroDiscount = 0.20
)

// topDeckHeroConditions normalizes the store's condition labels.
var topDeckHeroConditions = map[string]string{
	"Near Mint":         "Near Mint",
	"Lightly Played":    "Lightly Played",
	"Moderately Played": "Moderately Played",
	"Played":            "Played",
	"Heavy Played":      "Heavily Played",
	"Heavily Played":    "Heavily Played",
	"Damaged":           "Damaged",
}

// TopDeckHero scrapes the TopDeckHero product search pages. The store has no
// JSON API, so offers come out of the listing markup: one li.product per
// card printing, one div.variant-row per condition.
type TopDeckHero struct {
	httpClient    *http.Client
	baseURL       string
	cacheTTL      time.Duration
	rateLimiter   *rate.Limiter
	applyDiscount bool
	debug         bool
}

// NewTopDeckHero creates a TopDeckHero adapter. With applyDiscount set, the
// store's 20% checkout discount is applied to prices before comparison.
func NewTopDeckHero(baseURL string, cacheTTL time.Duration, applyDiscount bool) *TopDeckHero {
	return &TopDeckHero{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		cacheTTL:      cacheTTL,
		rateLimiter:   rate.NewLimiter(rate.Limit(2), 5),
		applyDiscount: applyDiscount,
	}
}

// SetDebug enables per-request logging.
func (s *TopDeckHero) SetDebug(debug bool) { s.debug = debug }

func (s *TopDeckHero) Name() string { return topDeckHeroName }

func (s *TopDeckHero) CacheTTL() time.Duration { return s.cacheTTL }

// Search scrapes up to topDeckHeroMaxPages of search results for the card.
// Pagination stops early at the first empty page.
func (s *TopDeckHero) Search(ctx context.Context, card domain.Card) ([]domain.Offer, error) {
	var offers []domain.Offer

	for page := 1; page <= topDeckHeroMaxPages; page++ {
		doc, err := s.fetchPage(ctx, card.Name, page)
		if err != nil {
			return nil, err
		}

		pageOffers := s.parseSearchResults(doc, card.Name)
		if len(pageOffers) == 0 {
			break
		}
		offers = append(offers, pageOffers...)
	}

	if s.debug {
		log.Printf("[TDH] %q: %d offers", card.Name, len(offers))
	}
	return offers, nil
}

func (s *TopDeckHero) fetchPage(ctx context.Context, query string, page int) (*goquery.Document, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrStoreUnavailable, err)
	}

	params := url.Values{}
	params.Set("q", query)
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	reqURL := fmt.Sprintf("%s/products/search?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrStoreUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrStoreUnavailable, topDeckHeroName, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s page: %v", domain.ErrStoreUnavailable, topDeckHeroName, err)
	}
	return doc, nil
}

func (s *TopDeckHero) parseSearchResults(doc *goquery.Document, query string) []domain.Offer {
	var offers []domain.Offer

	doc.Find("li.product").Each(func(_ int, product *goquery.Selection) {
		name := collapseWhitespace(product.Find("h4.name").First().Text())
		if !cardNameMatchesQuery(name, query) {
			return
		}

		set := collapseWhitespace(product.Find("span.category").First().Text())
		if set == "" {
			set = "Unknown"
		}

		productURL := ""
		if href, ok := product.Find("a[itemprop=url]").First().Attr("href"); ok {
			productURL = s.baseURL + href
		}

		product.Find("div.variant-row").Each(func(_ int, variant *goquery.Selection) {
			if offer, ok := s.parseVariant(variant, name, set, productURL); ok {
				offers = append(offers, offer)
			}
		})
	})

	return offers
}

// parseVariant reads one condition row. The row's description is
// "Condition, Language"; non-English rows are dropped. Price lives on the
// add-to-cart form's data-price attribute as "CAD$ X.XX".
func (s *TopDeckHero) parseVariant(variant *goquery.Selection, name, set, productURL string) (domain.Offer, bool) {
	description := collapseWhitespace(variant.Find("span.variant-description").First().Text())
	if description == "" {
		return domain.Offer{}, false
	}

	condition := "Unknown"
	language := "English"
	parts := strings.Split(description, ",")
	if len(parts) >= 1 {
		raw := strings.TrimSpace(parts[0])
		if full, ok := topDeckHeroConditions[raw]; ok {
			condition = full
		} else {
			condition = raw
		}
	}
	if len(parts) >= 2 {
		language = strings.TrimSpace(parts[1])
	}
	if !strings.EqualFold(language, "English") {
		return domain.Offer{}, false
	}

	priceAttr, ok := variant.Find("form.add-to-cart-form").First().Attr("data-price")
	if !ok {
		return domain.Offer{}, false
	}
	price, err := parsePrice(priceAttr)
	if err != nil {
		return domain.Offer{}, false
	}
	if s.applyDiscount {
		price *= 1 - topDeckHeroDiscount
	}

	available := variant.HasClass("in-stock")
	foil := variant.Find("i.ss-foil").Length() > 0

	offer, err := domain.NewOffer(topDeckHeroName, name, set, condition, price, productURL, foil, available)
	if err != nil {
		if s.debug {
			log.Printf("[TDH] dropping malformed variant of %q: %v", name, err)
		}
		return domain.Offer{}, false
	}
	return offer, true
}
