package usecase

import (
	"github.com/cardscout/backend/internal/domain"
)

// Selector picks at most one offer from a card's offer list under a named
// strategy and an optional quality floor. It holds no other state: Select is
// a pure function of its input.
type Selector struct {
	Strategy   domain.Strategy
	MinQuality domain.CardQuality
}

// NewSelector builds a Selector. An empty strategy defaults to cheapest.
func NewSelector(strategy domain.Strategy, minQuality domain.CardQuality) Selector {
	if strategy == "" {
		strategy = domain.StrategyCheapest
	}
	return Selector{Strategy: strategy, MinQuality: minQuality}
}

// Select applies the shared filters (quality floor, in-stock) and then the
// strategy's own rule. The boolean is false when nothing survives. The result
// is invariant under permutation of the input: price ties are broken by store
// name, then URL, then condition, so the same offers always yield the same
// pick no matter which store answered first.
func (s Selector) Select(offers []domain.Offer) (domain.Offer, bool) {
	surviving := make([]domain.Offer, 0, len(offers))
	for _, offer := range offers {
		if !domain.MeetsMinimumQuality(offer.Condition, s.MinQuality) {
			continue
		}
		if !offer.Available {
			continue
		}
		surviving = append(surviving, offer)
	}
	if len(surviving) == 0 {
		return domain.Offer{}, false
	}

	switch s.Strategy {
	case domain.StrategyCheapestFoil:
		return pickExtreme(filterFoil(surviving, true), less)
	case domain.StrategyCheapestNonFoil:
		return pickExtreme(filterFoil(surviving, false), less)
	case domain.StrategyFoilFirstCheapest:
		if offer, ok := pickExtreme(filterFoil(surviving, true), less); ok {
			return offer, true
		}
		return pickExtreme(filterFoil(surviving, false), less)
	case domain.StrategyBestCondition:
		return pickExtreme(filterNearMintOrBetter(surviving), less)
	case domain.StrategyBlingiest:
		return pickExtreme(filterFoil(surviving, true), greater)
	default: // cheapest
		return pickExtreme(surviving, less)
	}
}

func filterFoil(offers []domain.Offer, foil bool) []domain.Offer {
	var kept []domain.Offer
	for _, offer := range offers {
		if offer.Foil == foil {
			kept = append(kept, offer)
		}
	}
	return kept
}

func filterNearMintOrBetter(offers []domain.Offer) []domain.Offer {
	var kept []domain.Offer
	for _, offer := range offers {
		if domain.ParseQuality(offer.Condition) >= domain.QualityNearMint {
			kept = append(kept, offer)
		}
	}
	return kept
}

func less(a, b float64) bool    { return a < b }
func greater(a, b float64) bool { return a > b }

// pickExtreme returns the offer whose price is extreme under better (min or
// max). Exact price ties are broken lexically by store, URL, then condition.
func pickExtreme(offers []domain.Offer, better func(a, b float64) bool) (domain.Offer, bool) {
	if len(offers) == 0 {
		return domain.Offer{}, false
	}

	best := offers[0]
	for _, offer := range offers[1:] {
		if better(offer.Price, best.Price) {
			best = offer
			continue
		}
		if offer.Price == best.Price && tieBreak(offer, best) {
			best = offer
		}
	}
	return best, true
}

// tieBreak reports whether a should replace b at equal price.
func tieBreak(a, b domain.Offer) bool {
	if a.Store != b.Store {
		return a.Store < b.Store
	}
	if a.URL != b.URL {
		return a.URL < b.URL
	}
	return a.Condition < b.Condition
}
