package engine

import "strings"

// IntentKind tags a PlayIntent.
type IntentKind uint8

const (
	IntentNone        IntentKind = iota // pass, or no answer to a request
	IntentInvalid                       // text that names no known card, suit or rank
	IntentSingle                        // one card
	IntentPack                          // several cards of one rank
	IntentRequestSuit                   // answer to an Ace
	IntentRequestRank                   // answer to a Jack
)

func (k IntentKind) String() string {
	switch k {
	case IntentNone:
		return "none"
	case IntentInvalid:
		return "invalid"
	case IntentSingle:
		return "single"
	case IntentPack:
		return "pack"
	case IntentRequestSuit:
		return "request_suit"
	case IntentRequestRank:
		return "request_rank"
	}
	return "unknown"
}

// PlayIntent is a parsed player decision.
type PlayIntent struct {
	Kind  IntentKind
	Cards []Card // IntentSingle (one card) and IntentPack
	Suit  uint8  // IntentRequestSuit
	Rank  uint8  // IntentRequestRank
}

// Pass is the empty decision.
var Pass = PlayIntent{Kind: IntentNone, Suit: NoSuit, Rank: NoRank}

// PlaySingle returns an intent to play c.
func PlaySingle(c Card) PlayIntent {
	return PlayIntent{Kind: IntentSingle, Cards: []Card{c}, Suit: NoSuit, Rank: NoRank}
}

// PlayPack returns an intent to play cards as a pack, first card leading.
func PlayPack(cards ...Card) PlayIntent {
	return PlayIntent{Kind: IntentPack, Cards: append([]Card(nil), cards...), Suit: NoSuit, Rank: NoRank}
}

// RequestSuit answers an Ace.
func RequestSuit(s uint8) PlayIntent {
	return PlayIntent{Kind: IntentRequestSuit, Suit: s, Rank: NoRank}
}

// RequestRank answers a Jack.
func RequestRank(r uint8) PlayIntent {
	return PlayIntent{Kind: IntentRequestRank, Suit: NoSuit, Rank: r}
}

// String renders the intent in the same text form ParseIntent accepts.
func (p PlayIntent) String() string {
	switch p.Kind {
	case IntentSingle, IntentPack:
		parts := make([]string, len(p.Cards))
		for i, c := range p.Cards {
			parts[i] = c.String()
		}
		return strings.Join(parts, ", ")
	case IntentRequestSuit:
		return SuitString(p.Suit)
	case IntentRequestRank:
		return RankString(p.Rank)
	}
	return ""
}

// ParseIntent turns move text into an intent. "hearts 6" is a single card,
// a comma-separated list is a pack, a bare suit or rank answers a request.
// Empty pack entries (e.g. a trailing comma) are ignored; any other
// unknown token makes the whole intent invalid.
func ParseIntent(text string) PlayIntent {
	text = strings.TrimSpace(strings.ReplaceAll(text, "*", ""))
	if text == "" {
		return Pass
	}
	if strings.Contains(text, ",") {
		var cards []Card
		for _, token := range strings.Split(text, ",") {
			if strings.TrimSpace(token) == "" {
				continue
			}
			c, ok := ParseCard(token)
			if !ok {
				return PlayIntent{Kind: IntentInvalid, Suit: NoSuit, Rank: NoRank}
			}
			cards = append(cards, c)
		}
		return PlayPack(cards...)
	}
	if c, ok := ParseCard(text); ok {
		return PlaySingle(c)
	}
	if s, ok := ParseSuit(text); ok {
		return RequestSuit(s)
	}
	if r, ok := ParseRank(text); ok {
		return RequestRank(r)
	}
	return PlayIntent{Kind: IntentInvalid, Suit: NoSuit, Rank: NoRank}
}
