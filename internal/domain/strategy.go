package domain

import (
	"fmt"
	"strings"
)

// Strategy names a deterministic rule for picking one offer per card.
// The set is closed: callers select strategies by name, never by subclassing.
type Strategy string

const (
	StrategyCheapest          Strategy = "cheapest"
	StrategyCheapestFoil      Strategy = "cheapest-foil"
	StrategyCheapestNonFoil   Strategy = "cheapest-nonfoil"
	StrategyFoilFirstCheapest Strategy = "foil-first-cheapest"
	StrategyBestCondition     Strategy = "best-condition"
	StrategyBlingiest         Strategy = "blingiest"
)

// Strategies lists every valid strategy name for config validation
// and API help text.
var Strategies = []Strategy{
	StrategyCheapest,
	StrategyCheapestFoil,
	StrategyCheapestNonFoil,
	StrategyFoilFirstCheapest,
	StrategyBestCondition,
	StrategyBlingiest,
}

// ParseStrategy resolves a strategy name case-insensitively. An unrecognized
// name returns ErrUnknownStrategy; the caller decides whether to fail or fall
// back to cheapest with a warning.
func ParseStrategy(name string) (Strategy, error) {
	candidate := Strategy(strings.ToLower(strings.TrimSpace(name)))
	for _, s := range Strategies {
		if candidate == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownStrategy, name, strategyNames())
}

func strategyNames() string {
	names := make([]string, len(Strategies))
	for i, s := range Strategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
