package domain

import (
	"context"
	"time"
)

// StoreScraper is the contract every store adapter satisfies. Adapters own
// all store-specific fetch and parse heuristics; the core only sees the
// normalized offers. Search returns (nil, nil) when the store simply has no
// matching listings, and a wrapped ErrStoreUnavailable for network or parse
// failures, so callers can tell the two apart.
type StoreScraper interface {
	Search(ctx context.Context, card Card) ([]Offer, error)
	Name() string
	// CacheTTL is how long this store's search results stay valid in the
	// offer cache.
	CacheTTL() time.Duration
}

// OfferCache stores search results keyed by (store, card name). Editions and
// quantities are not part of the key: a name-only search yields the same raw
// store results regardless. Get returns ErrCacheMiss for absent, expired, or
// unreadable entries. Invalidate removes every entry for the given store, or
// all entries when store is empty, and reports how many it removed.
type OfferCache interface {
	Get(ctx context.Context, store, cardName string) ([]Offer, error)
	Put(ctx context.Context, store, cardName string, offers []Offer, ttl time.Duration) error
	Invalidate(ctx context.Context, store string) (int, error)
}
