package engine

import (
	"context"
	"fmt"
)

// resolvePlay moves an accepted play from the player's hand to the lied
// card, applying card effects. Only the first Jack or Ace of a play asks
// for a request; 2, 3, 4 and attacking Kings apply once per card.
func (g *GameState) resolvePlay(ctx context.Context, p *Player, turn Turn, cards []Card) {
	requested := false
	for _, c := range cards {
		if c.IsActive() && !requested {
			g.applyEffect(ctx, p, turn, c)
			requested = c.Rank() == RankJack || c.Rank() == RankAce
		}
		p.Hand, _ = removeCard(p.Hand, c)
		g.settleLied()
		if c.Rank() != RankAce {
			g.RequestedColor = NoSuit
		}
		g.LiedCard = c
	}
	g.notify(Event{Kind: EventPlay, Player: p.Name, Cards: cards,
		Text: fmt.Sprintf("%s played %s", p.Name, PlayPack(cards...))})
	if len(p.Hand) == 1 {
		g.notify(Event{Kind: EventMacau, Player: p.Name, Text: fmt.Sprintf("%s has macau!", p.Name)})
	}
}

// applyEffect applies the side effect of one active card.
func (g *GameState) applyEffect(ctx context.Context, p *Player, turn Turn, c Card) {
	switch c.Rank() {
	case RankTwo:
		g.CardsToTake += 2
	case RankThree:
		g.CardsToTake += 3
	case RankKing:
		if c.IsAttackingKing() {
			g.CardsToTake += 5
		}
	case RankFour:
		g.TurnsToWait++
	case RankJack:
		g.RequestedValue = g.askValue(ctx, p, turn)
		if g.RequestedValue != NoRank {
			g.notify(Event{Kind: EventRequest, Player: p.Name,
				Text: fmt.Sprintf("%s requests value %s", p.Name, RankString(g.RequestedValue))})
		}
	case RankAce:
		g.RequestedColor = g.askColor(ctx, p, turn)
		if g.RequestedColor != NoSuit {
			g.notify(Event{Kind: EventRequest, Player: p.Name,
				Text: fmt.Sprintf("%s requests color %s", p.Name, SuitString(g.RequestedColor))})
		}
	}
}

// RequestableValue reports whether a Jack may request rank r.
func RequestableValue(r uint8) bool {
	return r >= RankFive && r <= RankTen
}

func (g *GameState) askValue(ctx context.Context, p *Player, turn Turn) uint8 {
	answer, err := p.Controller.Request(ctx, turn, RequestValue)
	if err != nil || answer.Kind != IntentRequestRank || !RequestableValue(answer.Rank) {
		return NoRank
	}
	return answer.Rank
}

func (g *GameState) askColor(ctx context.Context, p *Player, turn Turn) uint8 {
	answer, err := p.Controller.Request(ctx, turn, RequestColor)
	if err != nil || answer.Kind != IntentRequestSuit || int(answer.Suit) >= NumSuits {
		return NoSuit
	}
	return answer.Suit
}
