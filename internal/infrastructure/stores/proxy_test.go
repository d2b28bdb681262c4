package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardscout/backend/internal/domain"
)

func TestProxyStoreSearch(t *testing.T) {
	t.Run("non-foil only by default", func(t *testing.T) {
		store := NewProxyStore(false)
		offers, err := store.Search(context.Background(), domain.Card{Name: "Black Lotus", Set: "LEA", Qty: 1})
		require.NoError(t, err)
		require.Len(t, offers, 1)

		proxy := offers[0]
		assert.Equal(t, "Proxy", proxy.Store)
		assert.Equal(t, "Black Lotus", proxy.CardName)
		assert.Equal(t, "LEA", proxy.Set)
		assert.Equal(t, 0.45, proxy.Price)
		assert.False(t, proxy.Foil)
		assert.True(t, proxy.Available)
	})

	t.Run("foil copy when allowed", func(t *testing.T) {
		store := NewProxyStore(true)
		offers, err := store.Search(context.Background(), domain.Card{Name: "Black Lotus", Qty: 1})
		require.NoError(t, err)
		require.Len(t, offers, 2)
		assert.False(t, offers[0].Foil)
		assert.True(t, offers[1].Foil)
		assert.Equal(t, "Proxy", offers[0].Set, "missing set defaults to Proxy")
	})
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "CAD$ 12.99", want: 12.99},
		{raw: "$1.49", want: 1.49},
		{raw: "15.50", want: 15.5},
		{raw: "free", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parsePrice(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "parsePrice(%q)", tt.raw)
			continue
		}
		require.NoError(t, err, "parsePrice(%q)", tt.raw)
		assert.Equal(t, tt.want, got, "parsePrice(%q)", tt.raw)
	}
}

func TestCardNameMatchesQuery(t *testing.T) {
	tests := []struct {
		cardName string
		query    string
		want     bool
	}{
		{"Lightning Bolt", "lightning bolt", true},
		{"Lightning Bolt - Foil", "Lightning Bolt", true},
		{"Brainstone", "brainstorm", false},
		{"Brainstorm", "brainstorm", true},
		{"Sol Ring", "sol ring", true},
		{"Lightning Bolt", "lightning bolt foil", true},
		{"", "lightning bolt", false},
		{"Lightning Bolt", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cardNameMatchesQuery(tt.cardName, tt.query),
			"cardNameMatchesQuery(%q, %q)", tt.cardName, tt.query)
	}
}
