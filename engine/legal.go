package engine

// Table captures what a legality check compares against.
type Table struct {
	Top            Card  // lied card, or the table top when nothing is lied
	Live           bool  // Top is the lied card played by the previous turn
	RequestedColor uint8 // NoSuit when absent
	RequestedValue uint8 // NoRank when absent
}

// ActiveResponse reports whether plays must answer Top's effect. A stale
// active card left on the table does not count, and a Jack or Ace whose
// player made no request plays like an ordinary card.
func (t Table) ActiveResponse() bool {
	if !t.Live || !t.Top.IsActive() {
		return false
	}
	switch t.Top.Rank() {
	case RankJack:
		return t.RequestedValue != NoRank
	case RankAce:
		return t.RequestedColor != NoSuit
	}
	return true
}

// LegalPlays returns the cards of hand that may be played as a single card
// against t, in hand order. Duplicates in hand are returned once each.
func LegalPlays(hand []Card, t Table) []Card {
	var legal []Card
	for _, c := range hand {
		if isLegal(c, t) {
			legal = append(legal, c)
		}
	}
	return legal
}

// CanMove reports whether hand holds at least one legal play against t.
func CanMove(hand []Card, t Table) bool {
	for _, c := range hand {
		if isLegal(c, t) {
			return true
		}
	}
	return false
}

func isLegal(c Card, t Table) bool {
	if t.Top.IsEmpty() {
		return true
	}
	if t.ActiveResponse() {
		return isLegalResponse(c, t)
	}
	if t.Top.Rank() == RankQueen {
		return true
	}
	if t.RequestedValue != NoRank {
		return c.Rank() == t.RequestedValue || c.Rank() == t.Top.Rank()
	}
	return c.Rank() == t.Top.Rank() || c.Suit() == t.Top.Suit() || c.Rank() == RankQueen
}

// isLegalResponse covers the answer to a live active card: the requested
// value, the requested color, or the same rank to chain the attack.
func isLegalResponse(c Card, t Table) bool {
	if t.Top.IsAttackingKing() && c.IsWeakKing() {
		return false
	}
	if t.RequestedValue != NoRank && c.Rank() == t.RequestedValue {
		return true
	}
	if t.RequestedColor != NoSuit && c.Suit() == t.RequestedColor {
		return true
	}
	return c.Rank() == t.Top.Rank()
}
