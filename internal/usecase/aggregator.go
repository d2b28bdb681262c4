package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/cardscout/backend/internal/domain"
)

// Aggregator fans a batch of card searches out across the active stores,
// shielding them behind the offer cache. The cache is the only shared mutable
// state; each (card, store) fetch is otherwise independent.
type Aggregator struct {
	cache  domain.OfferCache
	stores []domain.StoreScraper
	debug  bool
}

// NewAggregator builds an Aggregator over the given stores and cache.
func NewAggregator(cache domain.OfferCache, stores []domain.StoreScraper, debug bool) *Aggregator {
	return &Aggregator{cache: cache, stores: stores, debug: debug}
}

// SearchAll collects offers for every card from every active store. Results
// are keyed by the card's display name; a card every store came up empty for
// still gets an entry with zero offers.
//
// Failure policy: a store error costs only that store's contribution for that
// card; cache read errors count as misses and cache write errors are logged
// and dropped. When ctx is cancelled, fetches still in flight abort but every
// completed (card, store) result is kept, so callers get partial results
// rather than nothing.
func (a *Aggregator) SearchAll(ctx context.Context, cards []domain.Card, useCache bool) (map[string][]domain.Offer, error) {
	if len(a.stores) == 0 {
		return nil, domain.ErrNoStoresSelected
	}

	// results[i][j] holds card i's offers from store j. Filling a fixed
	// slot per pair keeps the concatenation order deterministic no matter
	// which fetch finishes first.
	results := make([][][]domain.Offer, len(cards))
	for i := range results {
		results[i] = make([][]domain.Offer, len(a.stores))
	}

	var wg sync.WaitGroup
	for i, card := range cards {
		for j, store := range a.stores {
			wg.Add(1)
			go func(i, j int, card domain.Card, store domain.StoreScraper) {
				defer wg.Done()
				results[i][j] = a.searchOne(ctx, card, store, useCache)
			}(i, j, card, store)
		}
	}
	wg.Wait()

	collected := make(map[string][]domain.Offer, len(cards))
	for i, card := range cards {
		var offers []domain.Offer
		for j := range a.stores {
			offers = append(offers, results[i][j]...)
		}
		collected[card.DisplayName()] = offers
	}
	return collected, nil
}

// searchOne resolves one (card, store) pair through the cache. Every returned
// offer is tagged with the card's display name so downstream consumers can
// trace an offer back to the request that produced it.
func (a *Aggregator) searchOne(ctx context.Context, card domain.Card, store domain.StoreScraper, useCache bool) []domain.Offer {
	if useCache {
		cached, err := a.cache.Get(ctx, store.Name(), card.Name)
		if err == nil {
			if a.debug {
				log.Printf("[AGGREGATE] cache hit: %s / %q (%d offers)", store.Name(), card.Name, len(cached))
			}
			return tagOffers(cached, card)
		}
	}

	if ctx.Err() != nil {
		return nil
	}

	offers, err := store.Search(ctx, card)
	if err != nil {
		log.Printf("[AGGREGATE] %s search failed for %q: %v", store.Name(), card.Name, err)
		return nil
	}

	tagged := tagOffers(offers, card)

	if useCache {
		if err := a.cache.Put(ctx, store.Name(), card.Name, tagged, store.CacheTTL()); err != nil {
			log.Printf("[AGGREGATE] cache write failed for %s / %q: %v", store.Name(), card.Name, err)
		}
	}

	return tagged
}

func tagOffers(offers []domain.Offer, card domain.Card) []domain.Offer {
	tagged := make([]domain.Offer, len(offers))
	for i, offer := range offers {
		offer.Query = card.DisplayName()
		tagged[i] = offer
	}
	return tagged
}
