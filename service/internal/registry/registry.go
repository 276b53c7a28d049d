// Package registry owns the games running in one server process.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/devdo-eu/macau/engine"
	"github.com/devdo-eu/macau/service/internal/cache"
	"github.com/devdo-eu/macau/service/internal/game"
)

// ErrGameNotFound is returned for ids the registry does not hold.
var ErrGameNotFound = errors.New("game not found")

const (
	// DefaultMaxRounds ends games nobody manages to win.
	DefaultMaxRounds = 1000

	// deleteTimeout bounds how long Delete waits for a game to wind down.
	deleteTimeout = 5 * time.Second
)

// Options configures the games a registry creates.
type Options struct {
	TurnDuration   time.Duration
	CardsPerPlayer int // used when a request names none
	Decks          int // 0 derives the count per game
	MaxRounds      int // 0 means DefaultMaxRounds
	Publisher      *cache.Publisher
	Logger         logrus.FieldLogger
}

// GameRegistry creates, holds and stops games. Games run under the
// registry's context and stop when it is cancelled or Close is called.
type GameRegistry struct {
	ctx  context.Context
	opts Options
	log  logrus.FieldLogger

	mu    sync.RWMutex
	games map[uuid.UUID]*game.MacauGame
}

// New returns an empty registry whose games live as long as ctx.
func New(ctx context.Context, opts Options) *GameRegistry {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.CardsPerPlayer <= 0 {
		opts.CardsPerPlayer = engine.DefaultHouseRules().CardsPerPlayer
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	return &GameRegistry{
		ctx:   ctx,
		opts:  opts,
		log:   opts.Logger,
		games: make(map[uuid.UUID]*game.MacauGame),
	}
}

// Create deals and starts a game for names. A cardsPerPlayer of 0 uses the
// registry default.
func (r *GameRegistry) Create(names []string, cardsPerPlayer int) (*game.MacauGame, error) {
	rules := engine.DefaultHouseRules()
	rules.Decks = r.opts.Decks
	rules.MaxRounds = r.opts.MaxRounds
	rules.CardsPerPlayer = r.opts.CardsPerPlayer
	if cardsPerPlayer > 0 {
		rules.CardsPerPlayer = cardsPerPlayer
	}

	g, err := game.NewMacauGame(names, rules, r.log)
	if err != nil {
		return nil, err
	}
	g.TurnDuration = r.opts.TurnDuration
	r.wire(g)

	r.mu.Lock()
	r.games[g.ID] = g
	r.mu.Unlock()

	if err := g.Start(r.ctx); err != nil {
		r.remove(g.ID)
		return nil, err
	}
	return g, nil
}

// wire mirrors the game's events and per-player states into the publisher.
// States are only stored while the registry holds the game.
func (r *GameRegistry) wire(g *game.MacauGame) {
	pub := r.opts.Publisher
	if !pub.Enabled() {
		return
	}
	id := g.ID
	g.BroadcastFn = func(ev game.GameEvent) {
		pub.Logf(pub.PublishEvent(r.ctx, id, ev), "game %s: event %s", id, ev.Type)
		if ev.Type == game.EventGameEnd && r.holds(id) {
			state := g.TableState()
			pub.Logf(pub.StoreState(r.ctx, id, "", state), "game %s: table state", id)
		}
	}
	g.BroadcastToPlayerFn = func(player string, ev game.GameEvent) {
		if ev.Type != game.EventPrivateSyncState || ev.State == nil || !r.holds(id) {
			return
		}
		pub.Logf(pub.StoreState(r.ctx, id, player, ev.State), "game %s: state of %s", id, player)
	}
}

func (r *GameRegistry) holds(id uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.games[id]
	return ok
}

// Get returns the game with the given id.
func (r *GameRegistry) Get(id uuid.UUID) (*game.MacauGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// Lookup parses id and returns the game it names.
func (r *GameRegistry) Lookup(id string) (*game.MacauGame, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrGameNotFound, id)
	}
	return r.Get(uid)
}

// List returns the held games, oldest first.
func (r *GameRegistry) List() []*game.MacauGame {
	r.mu.RLock()
	out := make([]*game.MacauGame, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Delete stops a game, waits for it to return and forgets it, including
// its published states.
func (r *GameRegistry) Delete(id uuid.UUID) error {
	g, err := r.Get(id)
	if err != nil {
		return err
	}
	r.remove(id)
	g.Stop()

	log := r.log.WithField("game", id.String())
	select {
	case <-g.Done():
	case <-time.After(deleteTimeout):
		log.Warn("game still running after delete")
	}
	pub := r.opts.Publisher
	pub.Logf(pub.Forget(context.WithoutCancel(r.ctx), id, g.Players()), "game %s: forget", id)
	log.Info("game deleted")
	return nil
}

func (r *GameRegistry) remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.games, id)
	r.mu.Unlock()
}

// Close stops every game and waits for them to return or ctx to expire.
func (r *GameRegistry) Close(ctx context.Context) error {
	games := r.List()
	for _, g := range games {
		g.Stop()
	}
	for _, g := range games {
		select {
		case <-g.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
