package engine

import (
	"context"
	"fmt"
)

// TurnOutcome is how a turn ended.
type TurnOutcome uint8

const (
	OutcomeSkipped TurnOutcome = iota // player was serving a skip
	OutcomeNoMove                     // no legal play, punished
	OutcomeInvalid                    // illegal or missing play, punished
	OutcomePlayed                     // play accepted
)

func (o TurnOutcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNoMove:
		return "no_move"
	case OutcomeInvalid:
		return "invalid"
	case OutcomePlayed:
		return "played"
	}
	return "unknown"
}

// TurnResult summarizes one turn.
type TurnResult struct {
	Outcome TurnOutcome
	Played  []Card
	Drawn   int // cards drawn as punishment
	Skips   int // turns the player now has to sit out
}

// PlayTurn runs one turn for the named player.
//
// Illegal, malformed or missing moves, and controller errors such as an
// expired context, all end in punishment. The returned error is non-nil
// only for an unknown player or when a draw cannot be served.
func (g *GameState) PlayTurn(ctx context.Context, name string) (TurnResult, error) {
	seat, p := g.seatOf(name)
	if p == nil {
		return TurnResult{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}

	if p.TurnsToSkip > 0 {
		p.TurnsToSkip--
		g.notify(Event{Kind: EventSkip, Player: p.Name, Count: p.TurnsToSkip,
			Text: fmt.Sprintf("%s is waiting, %d turn(s) left", p.Name, p.TurnsToSkip)})
		return TurnResult{Outcome: OutcomeSkipped}, nil
	}

	table := g.TableState()
	legal := LegalPlays(p.Hand, table)
	if len(legal) == 0 {
		g.notify(Event{Kind: EventNoMove, Player: p.Name, Text: fmt.Sprintf("%s has no move", p.Name)})
		res, err := g.punish(p)
		res.Outcome = OutcomeNoMove
		return res, err
	}

	turn := g.turnFor(seat, p, table, legal)
	g.notify(Event{Kind: EventTurn, Player: p.Name, Text: fmt.Sprintf("%s's turn, on table: %s", p.Name, table.Top)})

	intent, err := p.Controller.Move(ctx, turn)
	var cards []Card
	ok := false
	if err == nil {
		cards, ok = acceptPlay(p.Hand, intent, legal)
	}
	if !ok {
		text := fmt.Sprintf("%s makes an invalid move", p.Name)
		if err != nil {
			text = fmt.Sprintf("%s makes no move: %v", p.Name, err)
		}
		g.notify(Event{Kind: EventInvalidMove, Player: p.Name, Text: text})
		res, err := g.punish(p)
		res.Outcome = OutcomeInvalid
		return res, err
	}

	g.resolvePlay(ctx, p, turn, cards)
	return TurnResult{Outcome: OutcomePlayed, Played: cards}, nil
}

func (g *GameState) turnFor(seat int, p *Player, table Table, legal []Card) Turn {
	view, _ := g.View(p.Name)
	return Turn{
		Player:    p.Name,
		Seat:      seat,
		View:      view,
		Table:     table,
		Legal:     legal,
		PackRanks: PackRanks(p.Hand, legal),
	}
}

// acceptPlay checks an intent against the hand and the legal singles.
func acceptPlay(hand []Card, intent PlayIntent, legal []Card) ([]Card, bool) {
	switch intent.Kind {
	case IntentSingle:
		if len(intent.Cards) == 1 && containsCard(legal, intent.Cards[0]) {
			return intent.Cards, true
		}
	case IntentPack:
		if ValidatePack(hand, intent.Cards, legal) {
			return intent.Cards, true
		}
	}
	return nil, false
}

// punish resolves a pending skip, else a pending draw, else a single draw.
func (g *GameState) punish(p *Player) (TurnResult, error) {
	if g.TurnsToWait > 0 {
		p.TurnsToSkip = g.TurnsToWait - 1
		g.TurnsToWait = 0
		g.settleLied()
		g.notify(Event{Kind: EventWait, Player: p.Name, Count: p.TurnsToSkip + 1,
			Text: fmt.Sprintf("%s waits %d turn(s)", p.Name, p.TurnsToSkip+1)})
		return TurnResult{Skips: p.TurnsToSkip}, nil
	}

	if g.CardsToTake > 0 {
		drawn, err := g.draw(g.CardsToTake)
		if err != nil {
			return TurnResult{}, err
		}
		p.Hand = append(p.Hand, drawn...)
		g.CardsToTake = 0
		g.settleLied()
		g.notify(Event{Kind: EventDraw, Player: p.Name, Count: len(drawn),
			Text: fmt.Sprintf("%s takes %d card(s)", p.Name, len(drawn))})
		return TurnResult{Drawn: len(drawn)}, nil
	}

	drawn, err := g.draw(1)
	if err != nil {
		return TurnResult{}, err
	}
	p.Hand = append(p.Hand, drawn...)
	g.notify(Event{Kind: EventDraw, Player: p.Name, Count: len(drawn),
		Text: fmt.Sprintf("%s takes %d card(s)", p.Name, len(drawn))})
	return TurnResult{Drawn: len(drawn)}, nil
}
