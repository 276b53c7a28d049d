package engine

import "fmt"

// SeatView is what everyone can see about a player.
type SeatView struct {
	Name        string
	HandSize    int
	TurnsToSkip int
}

// PublicView is the read-only projection of a game for one observer.
// Hand is only filled for the observing player.
type PublicView struct {
	Player string
	Hand   []Card
	Seats  []SeatView

	TableSize int
	DeckSize  int
	TableTop  Card
	LiedCard  Card

	CardsToTake          int
	TurnsToWait          int
	RequestedColor       uint8
	RequestedValue       uint8
	RequestedValueRounds int

	Round   int
	Winners []string
}

// View returns the projection of the game seen by the named player.
func (g *GameState) View(name string) (PublicView, error) {
	_, p := g.seatOf(name)
	if p == nil {
		return PublicView{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}
	v := g.PublicTable()
	v.Player = p.Name
	v.Hand = append([]Card(nil), p.Hand...)
	return v, nil
}

// PublicTable returns the projection seen by a spectator.
func (g *GameState) PublicTable() PublicView {
	v := PublicView{
		Seats:                make([]SeatView, len(g.Players)),
		TableSize:            len(g.Table),
		DeckSize:             len(g.Deck),
		TableTop:             EmptyCard,
		LiedCard:             g.LiedCard,
		CardsToTake:          g.CardsToTake,
		TurnsToWait:          g.TurnsToWait,
		RequestedColor:       g.RequestedColor,
		RequestedValue:       g.RequestedValue,
		RequestedValueRounds: g.RequestedValueRounds,
		Round:                g.Round,
		Winners:              g.Winners(),
	}
	if len(g.Table) > 0 {
		v.TableTop = g.Table[len(g.Table)-1]
	}
	for i, p := range g.Players {
		v.Seats[i] = SeatView{Name: p.Name, HandSize: len(p.Hand), TurnsToSkip: p.TurnsToSkip}
	}
	return v
}
