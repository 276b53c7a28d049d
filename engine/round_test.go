package engine

import (
	"context"
	"errors"
	"testing"
)

// TestRoundHeartsKingAttack verifies the two-player hearts King scenario.
func TestRoundHeartsKingAttack(t *testing.T) {
	g := newTable(t, cards("hearts 5"),
		player("A", cards("hearts K"), "hearts K"),
		player("B", cards("tiles 6")))
	deck := len(g.Deck)

	if err := g.PlayRound(context.Background()); err != nil {
		t.Fatalf("PlayRound: %v", err)
	}
	if len(g.Players[0].Hand) != 0 {
		t.Errorf("A hand: want 0, got %d", len(g.Players[0].Hand))
	}
	if len(g.Players[1].Hand) != 6 {
		t.Errorf("B hand: want 6, got %d", len(g.Players[1].Hand))
	}
	if len(g.Deck) != deck-5 {
		t.Errorf("deck: want %d, got %d", deck-5, len(g.Deck))
	}
	if g.CardsToTake != 0 {
		t.Errorf("cards to take: want 0, got %d", g.CardsToTake)
	}
	if w := g.Winners(); len(w) != 1 || w[0] != "A" {
		t.Errorf("winners: want [A], got %v", w)
	}
}

// TestRoundAttackChain verifies a chained attack lands on the first player
// who cannot extend it.
func TestRoundAttackChain(t *testing.T) {
	g := newTable(t, cards("hearts 5"),
		player("One", cards("tiles 7", "hearts K"), "hearts K", "tiles 7"),
		player("Two", cards("hearts K", "hearts 9"), "hearts K", "hearts 9"))
	deck := len(g.Deck)

	if err := g.PlayRound(context.Background()); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if g.CardsToTake != 10 {
		t.Fatalf("cards to take: want 10, got %d", g.CardsToTake)
	}
	if err := g.PlayRound(context.Background()); err != nil {
		t.Fatalf("round 2: %v", err)
	}
	if len(g.Players[0].Hand) != 11 || len(g.Players[1].Hand) != 0 {
		t.Errorf("hands: want 11/0, got %d/%d", len(g.Players[0].Hand), len(g.Players[1].Hand))
	}
	if len(g.Deck) != deck-10 {
		t.Errorf("deck: want %d, got %d", deck-10, len(g.Deck))
	}
}

// TestRoundAttackReshuffles verifies a large penalty pulls the table back in.
func TestRoundAttackReshuffles(t *testing.T) {
	full := NewDeck(1)
	g := newTable(t, append(append([]Card(nil), full[:20]...), card("hearts 5")),
		player("One", cards("hearts K"), "hearts K"),
		player("Two", cards("tiles 6")))
	g.Deck = Deck(append([]Card(nil), full[20:30]...))
	g.CardsToTake = 20
	deck, table := len(g.Deck), len(g.Table)

	if err := g.PlayRound(context.Background()); err != nil {
		t.Fatalf("PlayRound: %v", err)
	}
	if len(g.Players[1].Hand) != 26 {
		t.Errorf("Two hand: want 26, got %d", len(g.Players[1].Hand))
	}
	if len(g.Deck) != deck+table-1-25 {
		t.Errorf("deck: want %d, got %d", deck+table-1-25, len(g.Deck))
	}
	if len(g.Table) != 2 || g.Table[1] != card("hearts K") {
		t.Errorf("table: want [hearts 5, hearts K], got %v", g.Table)
	}
	if !g.LiedCard.IsEmpty() || g.CardsToTake != 0 {
		t.Errorf("lied %s take %d", g.LiedCard, g.CardsToTake)
	}
}

// TestRoundMundaneMoves verifies three plain rounds and a double win.
func TestRoundMundaneMoves(t *testing.T) {
	g := newTable(t, cards("hearts K"),
		player("One", cards("hearts 5", "pikes 8", "tiles 6"), "hearts 5", "pikes 8", "tiles 6"),
		player("Two", cards("tiles 9", "tiles 8", "pikes 5"), "pikes 5", "tiles 8", "tiles 9"))

	ctx := context.Background()
	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if g.LiedCard != card("pikes 5") || len(g.Table) != 2 {
		t.Errorf("round 1: lied %s table %v", g.LiedCard, g.Table)
	}
	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 2: %v", err)
	}
	if g.LiedCard != card("tiles 8") || len(g.Table) != 4 {
		t.Errorf("round 2: lied %s table %v", g.LiedCard, g.Table)
	}
	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 3: %v", err)
	}
	w := g.Winners()
	if len(w) != 2 || w[0] != "One" || w[1] != "Two" {
		t.Errorf("winners: want [One Two], got %v", w)
	}
	if err := g.PlayRound(ctx); !errors.Is(err, ErrGameOver) {
		t.Errorf("round after the end: want ErrGameOver, got %v", err)
	}
}

// TestRoundJackWindow verifies a Jack request binds for one turn per player.
func TestRoundJackWindow(t *testing.T) {
	one := &script{moves: []string{"clovers J", "tiles 5"}, requests: []string{"5"}}
	g := newTable(t, cards("clovers 7"),
		&Player{Name: "One", Hand: cards("clovers J", "tiles 5"), Controller: one},
		player("Two", cards("clovers K", "tiles 6"), "tiles 6"))
	ctx := context.Background()

	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if g.RequestedValue != RankFive || g.RequestedValueRounds != 1 {
		t.Errorf("round 1: value %s rounds %d", RankString(g.RequestedValue), g.RequestedValueRounds)
	}
	if len(g.Players[1].Hand) != 3 {
		t.Errorf("Two hand: want 3, got %d", len(g.Players[1].Hand))
	}

	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 2: %v", err)
	}
	if g.RequestedValue != NoRank || g.RequestedValueRounds != 0 {
		t.Errorf("round 2: value %s rounds %d", RankString(g.RequestedValue), g.RequestedValueRounds)
	}
	if g.LiedCard != card("tiles 6") || len(g.Table) != 3 {
		t.Errorf("round 2: lied %s table %v", g.LiedCard, g.Table)
	}
}

// TestRoundJackOverJack verifies a second Jack resets the window.
func TestRoundJackOverJack(t *testing.T) {
	one := &script{moves: []string{"clovers J"}, requests: []string{"5"}}
	two := &script{moves: []string{"tiles J"}, requests: []string{"10"}}
	g := newTable(t, cards("clovers 7"),
		&Player{Name: "One", Hand: cards("clovers J", "tiles 5"), Controller: one},
		&Player{Name: "Two", Hand: cards("clovers 10", "tiles J"), Controller: two})

	if err := g.PlayRound(context.Background()); err != nil {
		t.Fatalf("PlayRound: %v", err)
	}
	if g.RequestedValue != RankTen || g.RequestedValueRounds != 2 {
		t.Errorf("value %s rounds %d", RankString(g.RequestedValue), g.RequestedValueRounds)
	}
	if g.LiedCard != card("tiles J") {
		t.Errorf("lied: want tiles J, got %s", g.LiedCard)
	}
}

// TestRoundAceRequest verifies a color request and its lapse.
func TestRoundAceRequest(t *testing.T) {
	one := &script{moves: []string{"clovers A", "tiles 5"}, requests: []string{"tiles"}}
	g := newTable(t, cards("clovers 7"),
		&Player{Name: "One", Hand: cards("clovers A", "tiles 5"), Controller: one},
		player("Two", cards("clovers K", "clovers 5"), "clovers 5"))
	ctx := context.Background()

	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if g.RequestedColor != SuitTiles || g.LiedCard != card("clovers A") {
		t.Errorf("round 1: color %s lied %s", SuitString(g.RequestedColor), g.LiedCard)
	}
	if len(g.Players[1].Hand) != 3 {
		t.Errorf("Two hand: want 3, got %d", len(g.Players[1].Hand))
	}
	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 2: %v", err)
	}
	if g.RequestedColor != NoSuit || g.LiedCard != card("clovers 5") {
		t.Errorf("round 2: color %s lied %s", SuitString(g.RequestedColor), g.LiedCard)
	}
	if w := g.Winners(); len(w) != 1 || w[0] != "One" {
		t.Errorf("winners: want [One], got %v", w)
	}
}

// TestRoundSkipTurns verifies stacked fours turn into skips.
func TestRoundSkipTurns(t *testing.T) {
	g := newTable(t, cards("pikes 8"),
		player("One", cards("pikes 4", "tiles 5"), "pikes 4"),
		player("Two", cards("clovers K", "clovers 4", "clovers 7"), "clovers 4", "clovers K", "clovers 7"))
	ctx := context.Background()

	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if g.TurnsToWait != 2 || g.LiedCard != card("clovers 4") {
		t.Fatalf("round 1: wait %d lied %s", g.TurnsToWait, g.LiedCard)
	}
	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 2: %v", err)
	}
	if g.Players[0].TurnsToSkip != 1 || g.TurnsToWait != 0 {
		t.Errorf("round 2: skips %d wait %d", g.Players[0].TurnsToSkip, g.TurnsToWait)
	}
	if g.LiedCard != card("clovers K") {
		t.Errorf("round 2: lied %s", g.LiedCard)
	}
	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 3: %v", err)
	}
	if g.Players[0].TurnsToSkip != 0 || len(g.Players[0].Hand) != 1 {
		t.Errorf("round 3: One skips %d hand %d", g.Players[0].TurnsToSkip, len(g.Players[0].Hand))
	}
	if w := g.Winners(); len(w) != 1 || w[0] != "Two" {
		t.Errorf("winners: want [Two], got %v", w)
	}
}

// TestPikesKingRedirect verifies the penalty goes to the previous seat.
func TestPikesKingRedirect(t *testing.T) {
	tests := []struct{ players, actor int }{
		{6, 0}, {6, 1}, {6, 5}, {3, 1}, {2, 0}, {2, 1},
	}
	for _, tt := range tests {
		var ps []*Player
		for i := 0; i < tt.players; i++ {
			ps = append(ps, player(string(rune('A'+i)), cards("hearts 9", "hearts 8", "hearts 7", "hearts 6", "hearts 5")))
		}
		g := newTable(t, nil, ps...)
		g.LiedCard = PikesKing
		g.CardsToTake = 5
		deck := len(g.Deck)

		if err := g.pikesKingPunishment(tt.actor); err != nil {
			t.Fatalf("%+v: %v", tt, err)
		}
		victim := (tt.actor - 1 + tt.players) % tt.players
		for i, p := range g.Players {
			want := 5
			if i == victim {
				want = 10
			}
			if len(p.Hand) != want {
				t.Errorf("%+v: seat %d hand want %d, got %d", tt, i, want, len(p.Hand))
			}
		}
		if g.CardsToTake != 0 || !g.LiedCard.IsEmpty() {
			t.Errorf("%+v: take %d lied %s", tt, g.CardsToTake, g.LiedCard)
		}
		if len(g.Table) != 1 || g.Table[0] != PikesKing || len(g.Deck) != deck-5 {
			t.Errorf("%+v: table %v deck %d", tt, g.Table, len(g.Deck))
		}
	}
}

// TestPikesKingSkipsWaiting verifies the house rule that passes over
// players serving skips.
func TestPikesKingSkipsWaiting(t *testing.T) {
	var ps []*Player
	for _, n := range []string{"1", "2", "3", "4"} {
		ps = append(ps, player(n, cards("hearts 9", "hearts 8", "hearts 7", "hearts 6", "hearts 5")))
	}
	g := newTable(t, nil, ps...)
	g.Rules.PikesKingSkipsWaiting = true
	g.LiedCard = PikesKing
	g.CardsToTake = 5
	g.Players[1].TurnsToSkip = 3

	if err := g.pikesKingPunishment(2); err != nil {
		t.Fatalf("pikesKingPunishment: %v", err)
	}
	if len(g.Players[0].Hand) != 10 {
		t.Errorf("seat 1: want 10, got %d", len(g.Players[0].Hand))
	}

	// Everyone else waiting: the actor takes the cards.
	g.LiedCard = PikesKing
	g.CardsToTake = 5
	g.Players[0].TurnsToSkip = 1
	g.Players[3].TurnsToSkip = 1
	if err := g.pikesKingPunishment(2); err != nil {
		t.Fatalf("pikesKingPunishment: %v", err)
	}
	if len(g.Players[2].Hand) != 10 {
		t.Errorf("actor: want 10, got %d", len(g.Players[2].Hand))
	}
}

// TestRoundPikesKing verifies the redirect inside a round and the answer
// to the hearts King that follows.
func TestRoundPikesKing(t *testing.T) {
	g := newTable(t, cards("pikes 10"),
		player("One", cards("pikes K", "tiles 5"), "pikes K", "tiles 5"),
		player("Two", cards("hearts K", "clovers 7"), "hearts K", "clovers 7"))
	deck := len(g.Deck)
	ctx := context.Background()

	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if len(g.Players[0].Hand) != 1 || len(g.Players[1].Hand) != 6 {
		t.Errorf("round 1 hands: %d/%d", len(g.Players[0].Hand), len(g.Players[1].Hand))
	}
	if len(g.Deck) != deck-5 || g.CardsToTake != 5 || g.LiedCard != card("hearts K") {
		t.Errorf("round 1: deck %d take %d lied %s", len(g.Deck), g.CardsToTake, g.LiedCard)
	}
	if err := g.PlayRound(ctx); err != nil {
		t.Fatalf("round 2: %v", err)
	}
	// Two cannot follow a settled hearts King with clovers 7 and draws one.
	if len(g.Players[0].Hand) != 6 || len(g.Deck) != deck-11 {
		t.Errorf("round 2: One hand %d deck %d", len(g.Players[0].Hand), len(g.Deck))
	}
}

// TestPlayGameRoundLimit verifies MaxRounds stops an endless game.
func TestPlayGameRoundLimit(t *testing.T) {
	g := newTable(t, cards("hearts 5"), player("A", cards("clovers 9")), player("B", cards("clovers 8")))
	g.Rules.MaxRounds = 3
	// Nobody ever answers; both keep drawing.
	_, err := g.PlayGame(context.Background())
	if !errors.Is(err, ErrRoundLimit) {
		t.Fatalf("want ErrRoundLimit, got %v", err)
	}
	if g.Round != 3 {
		t.Errorf("rounds: want 3, got %d", g.Round)
	}
}

// TestPlayGameCancelled verifies a cancelled context stops the loop.
func TestPlayGameCancelled(t *testing.T) {
	g := newTable(t, cards("hearts 5"), player("A", cards("clovers 9")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.PlayGame(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

// TestCardConservation verifies the card count over a scripted game with
// every kind of effect.
func TestCardConservation(t *testing.T) {
	rules := DefaultHouseRules()
	rules.Seed = 11
	rules.MaxRounds = 40
	rules.PartialDraws = true
	seats := humanSeats("A", "B", "C")
	g, err := NewGame(rules, seats)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	// Every seat plays its first legal card, asking for tens and hearts.
	for _, p := range g.Players {
		p.Controller = firstLegal{}
	}
	ctx := context.Background()
	for !g.Over() && g.Round < rules.MaxRounds {
		if err := g.PlayRound(ctx); err != nil {
			t.Fatalf("round %d: %v", g.Round, err)
		}
		if got := g.CardCount(); got != DeckSize {
			t.Fatalf("round %d: card count %d", g.Round, got)
		}
		if g.CardsToTake < 0 || g.TurnsToWait < 0 {
			t.Fatalf("round %d: negative accumulators", g.Round)
		}
	}
}

type firstLegal struct{}

func (firstLegal) Move(_ context.Context, turn Turn) (PlayIntent, error) {
	if len(turn.Legal) == 0 {
		return Pass, nil
	}
	return PlaySingle(turn.Legal[0]), nil
}

func (firstLegal) Request(_ context.Context, _ Turn, kind RequestKind) (PlayIntent, error) {
	if kind == RequestColor {
		return RequestSuit(SuitHearts), nil
	}
	return RequestRank(RankTen), nil
}
