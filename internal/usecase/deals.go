package usecase

import (
	"context"
	"log"

	"github.com/cardscout/backend/internal/domain"
)

// DealResult is the outcome of one batch resolution. Selected holds at most
// one offer per requested card, in input order. All holds every offer that
// came back, also grouped in input order, for audit and export. Unresolved
// lists the display names of cards no offer survived for.
type DealResult struct {
	Selected   []domain.Offer `json:"selected"`
	All        []domain.Offer `json:"all"`
	Unresolved []string       `json:"unresolved"`
	// TotalCost sums selected prices multiplied by requested quantities.
	// Quantity never influences which offer is selected; it only scales
	// the displayed cost.
	TotalCost float64 `json:"totalCost"`
}

// DealService orchestrates the aggregator and the selection engine over a
// whole card batch.
type DealService struct {
	agg *Aggregator
}

// NewDealService builds a DealService on top of an Aggregator.
func NewDealService(agg *Aggregator) *DealService {
	return &DealService{agg: agg}
}

// FindDeals fetches offers for every card and picks one per card under the
// given strategy and quality floor. A card with no surviving offer is
// recorded in Unresolved and the batch continues; only a batch where nothing
// at all resolved is an error (ErrNoOffers), besides ErrNoStoresSelected from
// the aggregator.
func (s *DealService) FindDeals(
	ctx context.Context,
	cards []domain.Card,
	strategy domain.Strategy,
	minQuality domain.CardQuality,
	useCache bool,
) (*DealResult, error) {
	offersByCard, err := s.agg.SearchAll(ctx, cards, useCache)
	if err != nil {
		return nil, err
	}

	selector := NewSelector(strategy, minQuality)
	result := &DealResult{}

	for _, card := range cards {
		offers := offersByCard[card.DisplayName()]
		result.All = append(result.All, offers...)

		picked, ok := selector.Select(offers)
		if !ok {
			log.Printf("[DEALS] no offer survived for %q (%d candidates)", card.DisplayName(), len(offers))
			result.Unresolved = append(result.Unresolved, card.DisplayName())
			continue
		}

		result.Selected = append(result.Selected, picked)
		result.TotalCost += picked.Price * float64(card.Qty)
	}

	if len(cards) > 0 && len(result.Selected) == 0 {
		return result, domain.ErrNoOffers
	}
	return result, nil
}
