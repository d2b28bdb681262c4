package stores

import (
	"context"
	"time"

	"github.com/cardscout/backend/internal/domain"
)

const (
	proxyName  = "Proxy"
	proxyPrice = 0.45
)

// ProxyStore generates proxy-card offers at a fixed price per card instead of
// talking to a real catalog. It exists for casual players who would rather
// print a stand-in than pay singles prices, and doubles as proof that the
// scraper contract needs no network.
type ProxyStore struct {
	allowFoil bool
}

// NewProxyStore creates a proxy generator. With allowFoil set it also emits a
// "foil" proxy copy for each card.
func NewProxyStore(allowFoil bool) *ProxyStore {
	return &ProxyStore{allowFoil: allowFoil}
}

func (s *ProxyStore) Name() string { return proxyName }

// CacheTTL is long: proxy prices never change.
func (s *ProxyStore) CacheTTL() time.Duration { return 720 * time.Hour }

// Search generates one non-foil proxy offer, plus a foil one if enabled.
func (s *ProxyStore) Search(ctx context.Context, card domain.Card) ([]domain.Offer, error) {
	set := card.Set
	if set == "" {
		set = proxyName
	}

	offers := make([]domain.Offer, 0, 2)
	for _, foil := range []bool{false, true} {
		if foil && !s.allowFoil {
			break
		}
		offer, err := domain.NewOffer(proxyName, card.Name, set, proxyName, proxyPrice, "", foil, true)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, nil
}
