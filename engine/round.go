package engine

import (
	"context"
	"fmt"
	"strings"
)

// PikesKing is the card that redirects the draw penalty backwards.
var PikesKing = NewCard(SuitPikes, RankKing)

// PlayRound gives every player one turn in seat order.
func (g *GameState) PlayRound(ctx context.Context) error {
	if g.Over() {
		return ErrGameOver
	}
	for seat, p := range g.Players {
		if err := ctx.Err(); err != nil {
			return err
		}

		if g.RequestedValueRounds > 0 {
			g.RequestedValueRounds--
		} else {
			g.RequestedValue = NoRank
		}

		res, err := g.PlayTurn(ctx, p.Name)
		if err != nil {
			return err
		}
		if res.Outcome != OutcomePlayed || g.LiedCard.IsEmpty() {
			continue
		}

		// A fresh Jack request stays binding for one turn per player.
		if g.LiedCard.Rank() == RankJack && g.RequestedValue != NoRank {
			g.RequestedValueRounds = len(g.Players)
		}
		if g.LiedCard == PikesKing {
			if err := g.pikesKingPunishment(seat); err != nil {
				return err
			}
		}
	}
	g.Round++

	for _, p := range g.Players {
		if len(p.Hand) == 0 {
			g.winners = append(g.winners, p.Name)
		}
	}
	if g.Over() {
		g.notify(Event{Kind: EventWin, Text: fmt.Sprintf("Game won by: %s", strings.Join(g.winners, ", "))})
	}
	return nil
}

// PlayGame plays rounds until at least one hand is empty and returns the
// winners in seat order.
func (g *GameState) PlayGame(ctx context.Context) ([]string, error) {
	for !g.Over() {
		if g.Rules.MaxRounds > 0 && g.Round >= g.Rules.MaxRounds {
			return nil, fmt.Errorf("%w: %d", ErrRoundLimit, g.Round)
		}
		if err := g.PlayRound(ctx); err != nil {
			return nil, err
		}
	}
	return g.Winners(), nil
}

// pikesKingPunishment hands the pending draw penalty to the player seated
// before the one who played the King of pikes.
func (g *GameState) pikesKingPunishment(seat int) error {
	victim := g.redirectTarget(seat)
	drawn, err := g.draw(g.CardsToTake)
	if err != nil {
		return err
	}
	victim.Hand = append(victim.Hand, drawn...)
	g.CardsToTake = 0
	g.settleLied()
	g.notify(Event{Kind: EventPikesKing, Player: victim.Name, Count: len(drawn),
		Text: fmt.Sprintf("%s takes %d card(s) from the King of pikes", victim.Name, len(drawn))})
	return nil
}

func (g *GameState) redirectTarget(seat int) *Player {
	n := len(g.Players)
	if !g.Rules.PikesKingSkipsWaiting {
		return g.Players[(seat-1+n)%n]
	}
	// The actor always qualifies, so this finds someone.
	for i := 1; i <= n; i++ {
		p := g.Players[(seat-i+n)%n]
		if p.TurnsToSkip == 0 {
			return p
		}
	}
	return g.Players[seat]
}
