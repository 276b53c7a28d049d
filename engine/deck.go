package engine

import "math/rand/v2"

// Deck is a stack of cards; the top is the end of the slice.
type Deck []Card

// NewDeck returns decks*52 cards in suit-major order.
func NewDeck(decks int) Deck {
	d := make(Deck, 0, decks*DeckSize)
	for n := 0; n < decks; n++ {
		for s := uint8(0); s < NumSuits; s++ {
			for r := uint8(0); r < NumRanks; r++ {
				d = append(d, NewCard(s, r))
			}
		}
	}
	return d
}

// Shuffle permutes the deck in place (Fisher-Yates).
func (d Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) { d[i], d[j] = d[j], d[i] })
}

// Draw pops up to n cards from the top of the deck.
func (d *Deck) Draw(n int) []Card {
	if n > len(*d) {
		n = len(*d)
	}
	if n <= 0 {
		return nil
	}
	cut := len(*d) - n
	drawn := make([]Card, n)
	// Top of the stack is handed out first.
	for i := 0; i < n; i++ {
		drawn[i] = (*d)[len(*d)-1-i]
	}
	*d = (*d)[:cut]
	return drawn
}

// countRank returns how many cards of rank r the hand holds.
func countRank(hand []Card, r uint8) int {
	n := 0
	for _, c := range hand {
		if c.Rank() == r {
			n++
		}
	}
	return n
}

// containsCard reports whether c is in cards.
func containsCard(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

// removeCard removes one copy of c, preserving order of the rest.
func removeCard(hand []Card, c Card) ([]Card, bool) {
	for i, x := range hand {
		if x == c {
			return append(hand[:i], hand[i+1:]...), true
		}
	}
	return hand, false
}

// holdsAll reports whether hand contains cards as a multiset.
func holdsAll(hand, cards []Card) bool {
	counts := make(map[Card]int, len(hand))
	for _, c := range hand {
		counts[c]++
	}
	for _, c := range cards {
		if counts[c] == 0 {
			return false
		}
		counts[c]--
	}
	return true
}
