package domain

import "fmt"

// Card represents a single requested trading card: the name to search for,
// an optional set code, and how many copies the user wants.
type Card struct {
	Name string `json:"name"`
	Set  string `json:"set,omitempty"`
	Qty  int    `json:"qty"`
}

// NewCard builds a validated Card. The name must be non-empty and the
// quantity at least 1.
func NewCard(name, set string, qty int) (Card, error) {
	if name == "" {
		return Card{}, fmt.Errorf("%w: card name cannot be empty", ErrInvalidCard)
	}
	if qty < 1 {
		return Card{}, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidCard, qty)
	}
	return Card{Name: name, Set: set, Qty: qty}, nil
}

// DisplayName renders the card the way it appeared in the input list,
// e.g. "Counterspell (7ED)".
func (c Card) DisplayName() string {
	if c.Set != "" {
		return fmt.Sprintf("%s (%s)", c.Name, c.Set)
	}
	return c.Name
}

// Offer is one store's priced, conditioned listing for a card.
type Offer struct {
	Store     string  `json:"store"`
	CardName  string  `json:"cardName"`
	Set       string  `json:"set"`
	Condition string  `json:"condition"`
	Price     float64 `json:"price"`
	URL       string  `json:"url"`
	Foil      bool    `json:"foil"`
	Available bool    `json:"available"`
	// Query is the display name of the card that produced this offer,
	// filled in by the aggregator.
	Query string `json:"query"`
}

// NewOffer builds a validated Offer. Store and card name must be non-empty
// and the price non-negative; anything else is the adapter's problem.
func NewOffer(store, cardName, set, condition string, price float64, url string, foil, available bool) (Offer, error) {
	if store == "" {
		return Offer{}, fmt.Errorf("%w: store name cannot be empty", ErrInvalidOffer)
	}
	if cardName == "" {
		return Offer{}, fmt.Errorf("%w: card name cannot be empty", ErrInvalidOffer)
	}
	if price < 0 {
		return Offer{}, fmt.Errorf("%w: price cannot be negative, got %.2f", ErrInvalidOffer, price)
	}
	return Offer{
		Store:     store,
		CardName:  cardName,
		Set:       set,
		Condition: condition,
		Price:     price,
		URL:       url,
		Foil:      foil,
		Available: available,
	}, nil
}

// SameListing reports whether two offers refer to the same physical listing.
// Export uses this to mark which rows of the full offer table were selected.
func (o Offer) SameListing(other Offer) bool {
	return o.URL == other.URL &&
		o.Condition == other.Condition &&
		o.Price == other.Price &&
		o.Foil == other.Foil
}
