package engine

import "strings"

// Suit constants, packed into the upper 4 bits of Card.
const (
	SuitHearts  uint8 = 0
	SuitTiles   uint8 = 1
	SuitClovers uint8 = 2
	SuitPikes   uint8 = 3

	// NoSuit marks an absent color request.
	NoSuit uint8 = 0x0F
)

// Rank constants, packed into the lower 4 bits of Card.
const (
	RankTwo   uint8 = 0
	RankThree uint8 = 1
	RankFour  uint8 = 2
	RankFive  uint8 = 3
	RankSix   uint8 = 4
	RankSeven uint8 = 5
	RankEight uint8 = 6
	RankNine  uint8 = 7
	RankTen   uint8 = 8
	RankJack  uint8 = 9
	RankQueen uint8 = 10
	RankKing  uint8 = 11
	RankAce   uint8 = 12

	// NoRank marks an absent value request.
	NoRank uint8 = 0x0F
)

const (
	NumSuits = 4
	NumRanks = 13
	DeckSize = NumSuits * NumRanks
)

var suitNames = [NumSuits]string{"hearts", "tiles", "clovers", "pikes"}

var rankNames = [NumRanks]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() uint8 { return uint8(c) >> 4 }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// IsEmpty reports whether c is EmptyCard.
func (c Card) IsEmpty() bool { return c == EmptyCard }

// IsActive reports whether playing c has a side effect: 2, 3, 4, J, A and
// the attacking Kings (hearts, pikes).
func (c Card) IsActive() bool {
	switch c.Rank() {
	case RankTwo, RankThree, RankFour, RankJack, RankAce:
		return true
	case RankKing:
		return c.IsAttackingKing()
	}
	return false
}

// IsAttackingKing reports whether c is the King of hearts or pikes.
func (c Card) IsAttackingKing() bool {
	if c.Rank() != RankKing {
		return false
	}
	s := c.Suit()
	return s == SuitHearts || s == SuitPikes
}

// IsWeakKing reports whether c is the King of tiles or clovers.
func (c Card) IsWeakKing() bool {
	return c.Rank() == RankKing && !c.IsAttackingKing()
}

// String renders the card as "<suit> <rank>", e.g. "pikes K".
func (c Card) String() string {
	if c == EmptyCard {
		return "none"
	}
	return SuitString(c.Suit()) + " " + RankString(c.Rank())
}

// SuitString returns the lowercase suit name, or "" for NoSuit.
func SuitString(s uint8) string {
	if int(s) < NumSuits {
		return suitNames[s]
	}
	return ""
}

// RankString returns the rank label, or "" for NoRank.
func RankString(r uint8) string {
	if int(r) < NumRanks {
		return rankNames[r]
	}
	return ""
}

// ParseSuit parses a suit name. Matching is case-insensitive.
func ParseSuit(text string) (uint8, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	for i, name := range suitNames {
		if name == text {
			return uint8(i), true
		}
	}
	return NoSuit, false
}

// ParseRank parses a rank label ("2".."10", "J", "Q", "K", "A").
func ParseRank(text string) (uint8, bool) {
	text = strings.ToUpper(strings.TrimSpace(text))
	for i, name := range rankNames {
		if name == text {
			return uint8(i), true
		}
	}
	return NoRank, false
}

// ParseCard parses "<suit> <rank>". A '*' legal-play marker is ignored.
func ParseCard(text string) (Card, bool) {
	fields := strings.Fields(strings.ReplaceAll(text, "*", ""))
	if len(fields) != 2 {
		return EmptyCard, false
	}
	suit, ok := ParseSuit(fields[0])
	if !ok {
		return EmptyCard, false
	}
	rank, ok := ParseRank(fields[1])
	if !ok {
		return EmptyCard, false
	}
	return NewCard(suit, rank), true
}

// sameKingPair reports whether two Kings belong to the same color pair:
// {hearts, pikes} or {tiles, clovers}.
func sameKingPair(a, b Card) bool {
	return a.IsAttackingKing() == b.IsAttackingKing()
}
