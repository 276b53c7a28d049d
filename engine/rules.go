package engine

import "math"

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	Decks          int    // number of 52-card decks shuffled together
	CardsPerPlayer int    // starting hand size
	Seed           uint64 // 0 = seed from the runtime
	MaxRounds      int    // 0 = unlimited
	PartialDraws   bool   // hand out what remains instead of failing when deck and table run dry

	// PikesKingSkipsWaiting passes over players serving skips when picking
	// the target of the pikes-king redirect.
	PikesKingSkipsWaiting bool
}

// DefaultHouseRules returns the standard Macau house rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		Decks:          1,
		CardsPerPlayer: 5,
	}
}

// DecksFor returns how many decks a table of players needs so that roughly
// half of the cards stay out of the starting hands.
func DecksFor(players, cards int) int {
	n := int(math.Round(0.5 + float64(players*cards*2)/DeckSize))
	if n < 1 {
		return 1
	}
	return n
}
