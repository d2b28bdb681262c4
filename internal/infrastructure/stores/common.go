package stores

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var (
	priceRegex      = regexp.MustCompile(`[\d.]+`)
	bracketsRegex   = regexp.MustCompile(`\[([^\]]+)\]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	foilWordRegex   = regexp.MustCompile(`(?i)\bfoil\b`)
)

// descriptorWords are search-text qualifiers that are not part of any actual
// card name, so name matching ignores them.
var descriptorWords = map[string]bool{
	"foil": true, "non-foil": true, "nonfoil": true, "promo": true,
	"extended": true, "art": true, "showcase": true, "borderless": true,
	"full": true, "alternate": true, "alt": true,
}

// parsePrice extracts a float price from strings like "CAD$ 12.99" or "$1.49".
func parsePrice(raw string) (float64, error) {
	match := priceRegex.FindString(raw)
	if match == "" {
		return 0, fmt.Errorf("no price in %q", raw)
	}
	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse price %q: %w", raw, err)
	}
	return price, nil
}

// collapseWhitespace squeezes runs of whitespace and trims the result.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// cardNameMatchesQuery checks that a store result is actually the card that
// was searched for, not a near-miss like "Brainstone" for "Brainstorm".
// Every non-descriptor word of the query must appear in the result name.
func cardNameMatchesQuery(cardName, query string) bool {
	if cardName == "" || query == "" {
		return false
	}

	name := strings.ToLower(collapseWhitespace(cardName))
	var core []string
	for _, word := range strings.Fields(strings.ToLower(collapseWhitespace(query))) {
		if !descriptorWords[word] {
			core = append(core, word)
		}
	}
	if len(core) == 0 {
		return name == strings.ToLower(collapseWhitespace(query))
	}
	for _, word := range core {
		if !strings.Contains(name, word) {
			return false
		}
	}
	return true
}

// backoff returns the retry delay after the given attempt, 500ms then 1s.
func backoff(attempt int) time.Duration {
	return time.Duration(attempt) * 500 * time.Millisecond
}
