// Package engine implements the Macau card game rules.
package engine

import (
	"fmt"
	"math/rand/v2"
)

// Player is one seat at the table.
type Player struct {
	Name        string
	Hand        []Card
	TurnsToSkip int // forced skips still owed
	Controller  Controller
}

// Seat describes a player joining a new game.
type Seat struct {
	Name       string
	Controller Controller
}

// GameState is the complete state of one game of Macau.
//
// Every card is in exactly one of Deck, Table, LiedCard or a player's hand.
// A GameState is not safe for concurrent use; one goroutine drives it.
type GameState struct {
	Rules HouseRules

	Deck     Deck
	Table    []Card // discard pile, top is the end
	LiedCard Card   // last legally played card, EmptyCard when none
	Players  []*Player

	CardsToTake          int   // pending draw penalty
	TurnsToWait          int   // pending skip penalty
	RequestedColor       uint8 // NoSuit when absent
	RequestedValue       uint8 // NoRank when absent
	RequestedValueRounds int   // turns left before RequestedValue lapses

	Round   int // completed rounds
	winners []string

	rng      *rand.Rand
	notifier Notifier
}

// NewGame builds, shuffles and deals a game for the given seats.
// Setup problems are reported as errors wrapping ErrInvalidConfiguration.
func NewGame(rules HouseRules, seats []Seat) (*GameState, error) {
	if err := validateSetup(rules, seats); err != nil {
		return nil, err
	}

	seed := rules.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	g := &GameState{
		Rules:          rules,
		Deck:           NewDeck(rules.Decks),
		LiedCard:       EmptyCard,
		RequestedColor: NoSuit,
		RequestedValue: NoRank,
		rng:            rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
		notifier:       nopNotifier{},
	}
	g.Deck.Shuffle(g.rng)

	// The starting card must not carry an effect; deal through actives.
	g.Table = append(g.Table, g.Deck.Draw(1)...)
	for g.Table[len(g.Table)-1].IsActive() && len(g.Deck) > 0 {
		g.Table = append(g.Table, g.Deck.Draw(1)...)
	}

	need := len(seats) * rules.CardsPerPlayer
	if need > len(g.Deck) {
		return nil, fmt.Errorf("%w: %w: %d hands of %d need %d cards, %d left after seeding the table",
			ErrInvalidConfiguration, ErrNotEnoughCards, len(seats), rules.CardsPerPlayer, need, len(g.Deck))
	}
	for _, s := range seats {
		g.Players = append(g.Players, &Player{
			Name:       s.Name,
			Hand:       g.Deck.Draw(rules.CardsPerPlayer),
			Controller: s.Controller,
		})
	}
	return g, nil
}

func validateSetup(rules HouseRules, seats []Seat) error {
	if len(seats) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, ErrNoPlayers)
	}
	if rules.Decks < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, ErrNoDecks)
	}
	if rules.CardsPerPlayer < 0 || len(seats)*rules.CardsPerPlayer > rules.Decks*DeckSize-1 {
		return fmt.Errorf("%w: %w: %d hands of %d from %d deck(s)",
			ErrInvalidConfiguration, ErrNotEnoughCards, len(seats), rules.CardsPerPlayer, rules.Decks)
	}
	names := make(map[string]bool, len(seats))
	for _, s := range seats {
		if names[s.Name] {
			return fmt.Errorf("%w: %w: %q", ErrInvalidConfiguration, ErrDuplicatePlayer, s.Name)
		}
		names[s.Name] = true
		if s.Controller == nil {
			return fmt.Errorf("%w: %w: %q", ErrInvalidConfiguration, ErrNoController, s.Name)
		}
	}
	return nil
}

// SetNotifier installs the event observer. nil restores the silent default.
func (g *GameState) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	g.notifier = n
}

func (g *GameState) notify(ev Event) {
	if g.notifier != nil {
		g.notifier.Notify(ev)
	}
}

// Player returns the named player.
func (g *GameState) Player(name string) (*Player, bool) {
	_, p := g.seatOf(name)
	return p, p != nil
}

func (g *GameState) seatOf(name string) (int, *Player) {
	for i, p := range g.Players {
		if p.Name == name {
			return i, p
		}
	}
	return -1, nil
}

// Top returns the card new plays are compared against: the lied card, or
// the table top when nothing is lied.
func (g *GameState) Top() Card {
	if !g.LiedCard.IsEmpty() {
		return g.LiedCard
	}
	if len(g.Table) > 0 {
		return g.Table[len(g.Table)-1]
	}
	return EmptyCard
}

// TableState returns the legality context for the next play.
func (g *GameState) TableState() Table {
	return Table{
		Top:            g.Top(),
		Live:           !g.LiedCard.IsEmpty(),
		RequestedColor: g.RequestedColor,
		RequestedValue: g.RequestedValue,
	}
}

// CardCount returns the number of cards in play. It stays at Decks*52.
func (g *GameState) CardCount() int {
	n := len(g.Deck) + len(g.Table)
	for _, p := range g.Players {
		n += len(p.Hand)
	}
	if !g.LiedCard.IsEmpty() {
		n++
	}
	return n
}

// Over reports whether some player has emptied their hand.
func (g *GameState) Over() bool { return len(g.winners) > 0 }

// Winners returns the players who emptied their hands in the final round.
func (g *GameState) Winners() []string {
	return append([]string(nil), g.winners...)
}

// draw takes n cards from the deck, reclaiming the table first when the
// deck is short.
func (g *GameState) draw(n int) ([]Card, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(g.Deck) < n {
		g.reshuffle()
	}
	if len(g.Deck) < n && !g.Rules.PartialDraws {
		return nil, fmt.Errorf("%w: need %d, deck holds %d", ErrDeckExhausted, n, len(g.Deck))
	}
	return g.Deck.Draw(n), nil
}

// reshuffle moves the table, except its top card, under the deck.
func (g *GameState) reshuffle() {
	if len(g.Table) < 2 {
		return
	}
	top := g.Table[len(g.Table)-1]
	reclaimed := Deck(append([]Card(nil), g.Table[:len(g.Table)-1]...))
	reclaimed.Shuffle(g.rng)
	g.Deck = append(reclaimed, g.Deck...)
	g.Table = []Card{top}
	g.notify(Event{Kind: EventReshuffle, Count: len(reclaimed),
		Text: fmt.Sprintf("%d cards from the table were shuffled back into the deck", len(reclaimed))})
}

// settleLied moves the lied card onto the table.
func (g *GameState) settleLied() {
	if g.LiedCard.IsEmpty() {
		return
	}
	g.Table = append(g.Table, g.LiedCard)
	g.LiedCard = EmptyCard
}
