// Package agent implements the computer-controlled Macau player.
package agent

import (
	"context"
	"math/rand/v2"

	engine "github.com/devdo-eu/macau/engine"
)

// attackThreshold is the hand size under which an upcoming opponent is
// considered close to winning.
const attackThreshold = 3

// attackLookahead is how many seats after the CPU are watched.
const attackLookahead = 2

// Choice is a complete CPU decision: the play and, for a Jack or Ace, the
// request that goes with it.
type Choice struct {
	Play    engine.PlayIntent
	Request engine.PlayIntent
}

// CPU is an engine.Controller driven by Decide. It plans the request at
// move time and hands it out when the engine asks.
type CPU struct {
	rng     *rand.Rand
	request engine.PlayIntent
}

// NewCPU returns a CPU player. A zero seed draws one from the runtime.
func NewCPU(seed uint64) *CPU {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &CPU{
		rng:     rand.New(rand.NewPCG(seed, seed>>1|1)),
		request: engine.Pass,
	}
}

// Move implements engine.Controller.
func (c *CPU) Move(ctx context.Context, turn engine.Turn) (engine.PlayIntent, error) {
	if err := ctx.Err(); err != nil {
		return engine.Pass, err
	}
	choice := Decide(c.rng, turn)
	c.request = choice.Request
	return choice.Play, nil
}

// Request implements engine.Controller.
func (c *CPU) Request(_ context.Context, _ engine.Turn, kind engine.RequestKind) (engine.PlayIntent, error) {
	r := c.request
	c.request = engine.Pass
	switch {
	case kind == engine.RequestValue && r.Kind == engine.IntentRequestRank:
		return r, nil
	case kind == engine.RequestColor && r.Kind == engine.IntentRequestSuit:
		return r, nil
	}
	return engine.Pass, nil
}

// Decide picks a play for the turn.
func Decide(rng *rand.Rand, turn engine.Turn) Choice {
	if len(turn.Legal) == 0 {
		return Choice{Play: engine.Pass, Request: engine.Pass}
	}

	first := chooseCard(rng, turn)
	play := engine.PlaySingle(first)
	played := []engine.Card{first}
	if pack := packFor(turn, first); len(pack) >= engine.MinPackSize {
		play = engine.PlayPack(pack...)
		played = pack
	}

	remaining := without(turn.View.Hand, played)
	request := engine.Pass
	switch first.Rank() {
	case engine.RankJack:
		request = valueRequest(rng, remaining)
	case engine.RankAce:
		request = colorRequest(remaining)
	}
	return Choice{Play: play, Request: request}
}

// NeedToAttack reports whether one of the next two seats is close to
// emptying their hand.
func NeedToAttack(view engine.PublicView, seat int) bool {
	n := len(view.Seats)
	if n == 0 {
		return false
	}
	for k := 1; k <= attackLookahead; k++ {
		if view.Seats[(seat+k)%n].HandSize < attackThreshold {
			return true
		}
	}
	return false
}

// IsOffensive reports whether c punishes the next player.
func IsOffensive(c engine.Card) bool {
	switch c.Rank() {
	case engine.RankTwo, engine.RankThree, engine.RankFour, engine.RankJack:
		return true
	}
	return c.IsAttackingKing()
}

func chooseCard(rng *rand.Rand, turn engine.Turn) engine.Card {
	if !NeedToAttack(turn.View, turn.Seat) {
		return pick(rng, turn.Legal)
	}
	if offensive := filter(turn.Legal, IsOffensive); len(offensive) > 0 {
		return pick(rng, offensive)
	}
	notQueen := func(c engine.Card) bool { return c.Rank() != engine.RankQueen }
	if rest := filter(turn.Legal, notQueen); len(rest) > 0 {
		return pick(rng, rest)
	}
	return pick(rng, turn.Legal)
}

// packFor extends first with every other card of its rank in hand, keeping
// Kings within first's color pair. It returns nil when the rank cannot
// start a pack.
func packFor(turn engine.Turn, first engine.Card) []engine.Card {
	eligible := false
	for _, r := range turn.PackRanks {
		if r == first.Rank() {
			eligible = true
		}
	}
	if !eligible {
		return nil
	}
	pack := []engine.Card{first}
	skipped := false
	for _, c := range turn.View.Hand {
		if c == first && !skipped {
			skipped = true
			continue
		}
		if c.Rank() != first.Rank() {
			continue
		}
		if c.Rank() == engine.RankKing && c.IsAttackingKing() != first.IsAttackingKing() {
			continue
		}
		pack = append(pack, c)
	}
	return pack
}

// valueRequest asks for the rank the CPU can best follow up on. Only ranks
// a Jack may request (5 to 10) are considered.
func valueRequest(rng *rand.Rand, hand []engine.Card) engine.PlayIntent {
	requestable := filter(hand, func(c engine.Card) bool { return engine.RequestableValue(c.Rank()) })
	bestRank, rankCount := mostFrequent(requestable, engine.Card.Rank)
	bestSuit, suitCount := mostFrequent(hand, engine.Card.Suit)

	var candidates []engine.Card
	if suitCount > rankCount {
		candidates = filter(requestable, func(c engine.Card) bool { return c.Suit() == bestSuit })
	} else if rankCount > 0 {
		candidates = filter(requestable, func(c engine.Card) bool { return c.Rank() == bestRank })
	}
	if len(candidates) == 0 {
		return engine.Pass
	}
	return engine.RequestRank(pick(rng, candidates).Rank())
}

// colorRequest asks for the suit most common in hand.
func colorRequest(hand []engine.Card) engine.PlayIntent {
	suit, n := mostFrequent(hand, engine.Card.Suit)
	if n == 0 {
		return engine.Pass
	}
	return engine.RequestSuit(suit)
}

// mostFrequent returns the most common key among cards and its count. Ties
// go to the key seen first in hand order.
func mostFrequent(cards []engine.Card, key func(engine.Card) uint8) (uint8, int) {
	counts := map[uint8]int{}
	var order []uint8
	for _, c := range cards {
		k := key(c)
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	best, bestCount := uint8(0xFF), 0
	for _, k := range order {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, bestCount
}

func filter(cards []engine.Card, keep func(engine.Card) bool) []engine.Card {
	var out []engine.Card
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func pick(rng *rand.Rand, cards []engine.Card) engine.Card {
	return cards[rng.IntN(len(cards))]
}

// without returns hand minus one copy of each played card.
func without(hand, played []engine.Card) []engine.Card {
	out := append([]engine.Card(nil), hand...)
	for _, p := range played {
		for i, c := range out {
			if c == p {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return out
}
