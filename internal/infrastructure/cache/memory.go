package cache

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cardscout/backend/internal/domain"
)

// entry is one cached search result. Entries are immutable once stored;
// expiry is decided at read time against createdAt + ttl.
type entry struct {
	createdAt time.Time
	ttl       time.Duration
	offers    []domain.Offer
}

// Memory is a thread-safe in-memory offer cache keyed by (store, card name).
// Expired entries are removed lazily by the Get that discovers them; there is
// no background sweep. Contention is per key: entries live in a sync.Map and
// are never mutated in place.
type Memory struct {
	data sync.Map // cacheKey -> *entry

	// now is swappable so tests can advance a simulated clock.
	now func() time.Time
}

// NewMemory creates an empty in-memory offer cache.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// cacheKey builds the lookup key from a store name and a card name. Only the
// normalized card name participates: set and quantity do not change what a
// store search returns.
func cacheKey(store, cardName string) string {
	return store + "\x00" + normalizeCardName(cardName)
}

// normalizeCardName lowercases and strips punctuation so that small spelling
// differences hit the same entry.
func normalizeCardName(name string) string {
	result := strings.ToLower(name)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Get returns the cached offers for (store, cardName), or ErrCacheMiss. An
// entry past its TTL is deleted here and reported as a miss.
func (c *Memory) Get(ctx context.Context, store, cardName string) ([]domain.Offer, error) {
	key := cacheKey(store, cardName)

	value, ok := c.data.Load(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	e := value.(*entry)
	if c.now().Sub(e.createdAt) > e.ttl {
		// Compare by pointer so a fresh entry a concurrent Put just stored
		// under the same key survives.
		c.data.CompareAndDelete(key, value)
		return nil, domain.ErrCacheMiss
	}

	// Hand back a copy so callers cannot mutate the stored entry.
	offers := make([]domain.Offer, len(e.offers))
	copy(offers, e.offers)
	return offers, nil
}

// Put stores offers for (store, cardName) with the given TTL, replacing any
// previous entry.
func (c *Memory) Put(ctx context.Context, store, cardName string, offers []domain.Offer, ttl time.Duration) error {
	stored := make([]domain.Offer, len(offers))
	copy(stored, offers)

	c.data.Store(cacheKey(store, cardName), &entry{
		createdAt: c.now(),
		ttl:       ttl,
		offers:    stored,
	})
	return nil
}

// Invalidate removes all entries for the given store, or every entry when
// store is empty, and returns the number removed.
func (c *Memory) Invalidate(ctx context.Context, store string) (int, error) {
	prefix := store + "\x00"
	count := 0

	c.data.Range(func(key, value any) bool {
		if store == "" || strings.HasPrefix(key.(string), prefix) {
			if c.data.CompareAndDelete(key, value) {
				count++
			}
		}
		return true
	})

	return count, nil
}

// Len returns the number of live entries, expired ones included until a Get
// purges them.
func (c *Memory) Len() int {
	n := 0
	c.data.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
