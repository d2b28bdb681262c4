package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cardscout/backend/internal/domain"
)

var (
	// "Brainstorm x4" / "Brainstorm X4"
	trailingQtyRegex = regexp.MustCompile(`(?i)\s+x(\d+)\s*$`)
	// "4x Brainstorm"
	leadingQtyRegex = regexp.MustCompile(`(?i)^(\d+)x\s+`)
	// "(7ED)" set code suffix
	setCodeRegex = regexp.MustCompile(`\(([^)]+)\)\s*$`)
)

// ParseCardLine parses one line of a card list into a Card. Supported
// formats: "Name", "Name (SET)", "Name x4", "4x Name", and combinations.
// Blank lines yield (nil, nil).
func ParseCardLine(line string) (*domain.Card, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	qty := 1
	if m := trailingQtyRegex.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			qty = n
		}
		line = strings.TrimSpace(trailingQtyRegex.ReplaceAllString(line, ""))
	} else if m := leadingQtyRegex.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			qty = n
		}
		line = strings.TrimSpace(leadingQtyRegex.ReplaceAllString(line, ""))
	}

	set := ""
	if m := setCodeRegex.FindStringSubmatch(line); m != nil {
		set = strings.ToUpper(strings.TrimSpace(m[1]))
		line = strings.TrimSpace(setCodeRegex.ReplaceAllString(line, ""))
	}

	card, err := domain.NewCard(line, set, qty)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// ParseCardList parses a whole card list, one card per line. With ignoreSet
// on, set codes are discarded and duplicate names merged, summing their
// quantities, so the cheapest printing can win regardless of set.
func ParseCardList(text string, ignoreSet bool) ([]domain.Card, error) {
	var cards []domain.Card

	for i, line := range strings.Split(text, "\n") {
		card, err := ParseCardLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if card == nil {
			continue
		}
		if ignoreSet {
			card.Set = ""
		}
		cards = append(cards, *card)
	}

	if ignoreSet {
		cards = mergeDuplicates(cards)
	}
	return cards, nil
}

// mergeDuplicates collapses cards with the same name (case-insensitive) into
// one entry, keeping first-seen order and summing quantities.
func mergeDuplicates(cards []domain.Card) []domain.Card {
	index := make(map[string]int, len(cards))
	var merged []domain.Card

	for _, card := range cards {
		key := strings.ToLower(card.Name)
		if i, ok := index[key]; ok {
			merged[i].Qty += card.Qty
			continue
		}
		index[key] = len(merged)
		merged = append(merged, card)
	}
	return merged
}
