package domain

import "errors"

var (
	// ErrInvalidCard is returned when a card fails construction validation
	ErrInvalidCard = errors.New("invalid card")

	// ErrInvalidOffer is returned when an offer fails construction validation
	ErrInvalidOffer = errors.New("invalid offer")

	// ErrCacheMiss is returned when offers are not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreUnavailable is returned when a store search fails at the network
	// or parse level; zero results is not an error
	ErrStoreUnavailable = errors.New("store request failed")

	// ErrUnknownStrategy is returned when a strategy name is not recognized
	ErrUnknownStrategy = errors.New("unknown selection strategy")

	// ErrNoStoresSelected is returned when a search is requested with no
	// active stores
	ErrNoStoresSelected = errors.New("no valid stores selected")

	// ErrNoOffers is returned when not a single card in the batch resolved
	// to an offer
	ErrNoOffers = errors.New("no offers found for any card")
)
