// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/devdo-eu/macau/engine"
)

// Errors returned to callers acting on a running game.
var (
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrNotHuman       = errors.New("player is computer controlled")
	ErrGameOver       = errors.New("game is over")
	ErrMoveQueueFull  = errors.New("too many pending moves")
	ErrAlreadyStarted = errors.New("game already started")
)

// OnGameEndFunc is called once when a game stops. winners is empty when
// the game was aborted, in which case err says why.
type OnGameEndFunc func(gameID uuid.UUID, winners []string, err error)

// GameEventType represents the type of a game-related event sent to clients.
type GameEventType string

// Event types. Public events go to every player, private ones to one.
const (
	EventGamePlayerTurn    GameEventType = "game_player_turn"
	EventPlayerPlay        GameEventType = "player_play"
	EventPlayerMove        GameEventType = "player_move" // raw text a human submitted
	EventPlayerDraw        GameEventType = "player_draw"
	EventPlayerSkip        GameEventType = "player_skip"
	EventPlayerNoMove      GameEventType = "player_no_move"
	EventPlayerInvalidMove GameEventType = "player_invalid_move"
	EventPlayerWait        GameEventType = "player_wait"
	EventPlayerRequest     GameEventType = "player_request"
	EventPlayerMacau       GameEventType = "player_macau"
	EventPlayerPikesKing   GameEventType = "player_pikes_king"
	EventGameReshuffle     GameEventType = "game_reshuffle"
	EventGameEnd           GameEventType = "game_end"
	EventPrivatePrompt     GameEventType = "private_prompt"
	EventPrivateSyncState  GameEventType = "private_sync_state"
)

// GameEvent is the structure broadcast for every change in a game.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	Player  string                 `json:"player,omitempty"`
	Cards   []string               `json:"cards,omitempty"`
	Count   int                    `json:"count,omitempty"`
	Text    string                 `json:"text,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *ObfGameState          `json:"state,omitempty"`
}

// seat is the service side of one engine player.
type seat struct {
	name     string
	cpu      bool
	port     *remotePort // nil for CPU seats
	messages []string
	view     engine.PublicView
	subs     map[int]chan GameEvent
}

// MacauGame is one running game: the engine state, the goroutine playing
// it and everything clients read while it runs.
//
// The engine is only touched by the run goroutine (and by NewMacauGame
// before it starts). Everything readers see is copied out under Mu from
// the engine's notifier.
type MacauGame struct {
	ID           uuid.UUID
	Rules        engine.HouseRules
	TurnDuration time.Duration // per human decision; 0 waits forever
	CreatedAt    time.Time

	state *engine.GameState
	seats []*seat
	index map[string]*seat

	Mu      sync.Mutex
	gameLog []string
	table   engine.PublicView
	current string
	started bool
	over    bool
	winners []string
	endErr  error
	nextSub int
	cancel  context.CancelFunc
	done    chan struct{}

	BroadcastFn         func(ev GameEvent)                // every public event
	BroadcastToPlayerFn func(player string, ev GameEvent) // private events and per-player syncs
	OnGameEnd           OnGameEndFunc

	log *logrus.Entry
}

// NewMacauGame deals a new game. Seats whose name contains "CPU" are played
// by the computer, the others wait for SubmitMove. A zero rules.Decks is
// derived from the number of players and the hand size.
func NewMacauGame(names []string, rules engine.HouseRules, logger logrus.FieldLogger) (*MacauGame, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if rules.Decks == 0 {
		rules.Decks = engine.DecksFor(len(names), rules.CardsPerPlayer)
	}

	id := uuid.New()
	g := &MacauGame{
		ID:           id,
		Rules:        rules,
		TurnDuration: 60 * time.Second,
		CreatedAt:    time.Now(),
		index:        make(map[string]*seat, len(names)),
		done:         make(chan struct{}),
		log:          logger.WithField("game", id.String()),
	}

	engineSeats := make([]engine.Seat, 0, len(names))
	for i, name := range names {
		s := &seat{name: name, cpu: IsCPUName(name), subs: map[int]chan GameEvent{}}
		engineSeats = append(engineSeats, engine.Seat{Name: name, Controller: g.controllerFor(s, i)})
		g.seats = append(g.seats, s)
		if _, dup := g.index[name]; !dup {
			g.index[name] = s
		}
	}

	state, err := engine.NewGame(rules, engineSeats)
	if err != nil {
		return nil, err
	}
	state.SetNotifier(engine.NotifierFunc(g.onEngineEvent))
	g.state = state
	g.refreshViews()

	g.log.WithFields(logrus.Fields{
		"players": strings.Join(names, ","),
		"decks":   rules.Decks,
		"cards":   rules.CardsPerPlayer,
	}).Info("game created")
	return g, nil
}

// IsCPUName reports whether a seat with this name is computer controlled.
func IsCPUName(name string) bool {
	return strings.Contains(name, "CPU")
}

// Start plays the game in its own goroutine until it ends or ctx is done.
func (g *MacauGame) Start(ctx context.Context) error {
	g.Mu.Lock()
	if g.started {
		g.Mu.Unlock()
		return ErrAlreadyStarted
	}
	g.started = true
	ctx, g.cancel = context.WithCancel(ctx)
	g.Mu.Unlock()

	g.log.Info("game started")
	go g.run(ctx)
	return nil
}

func (g *MacauGame) run(ctx context.Context) {
	defer close(g.done)
	winners, err := g.state.PlayGame(ctx)
	g.finish(winners, err)
}

// Stop cancels a running game. Pending human decisions are abandoned.
func (g *MacauGame) Stop() {
	g.Mu.Lock()
	cancel := g.cancel
	g.Mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done is closed when the run goroutine has returned.
func (g *MacauGame) Done() <-chan struct{} { return g.done }

// finish records the result and notifies everyone. It runs on the game
// goroutine after the engine has returned.
func (g *MacauGame) finish(winners []string, err error) {
	g.refreshViews()

	g.Mu.Lock()
	g.over = true
	g.current = ""
	g.winners = winners
	g.endErr = err
	g.cancel()
	text := fmt.Sprintf("Game won by: %s", strings.Join(winners, ", "))
	if err != nil {
		text = fmt.Sprintf("Game aborted: %v", err)
	}
	g.appendLog(text)
	onEnd := g.OnGameEnd
	g.Mu.Unlock()

	entry := g.log.WithField("rounds", g.table.Round)
	if err != nil {
		entry.WithError(err).Warn("game aborted")
	} else {
		entry.WithField("winners", strings.Join(winners, ",")).Info("game finished")
	}

	g.fireEvent(GameEvent{
		Type:    EventGameEnd,
		Text:    text,
		Payload: map[string]interface{}{"winners": winners},
	})
	g.broadcastSyncStateToAll()
	g.closeSubscribers()
	if onEnd != nil {
		onEnd(g.ID, winners, err)
	}
}

// onEngineEvent is the engine notifier. It runs on the game goroutine.
// The win is announced by finish once PlayGame returns.
func (g *MacauGame) onEngineEvent(ev engine.Event) {
	g.refreshViews()
	if ev.Kind == engine.EventWin {
		return
	}

	g.Mu.Lock()
	if ev.Kind == engine.EventTurn {
		g.current = ev.Player
	}
	if ev.Kind != engine.EventTurn && ev.Text != "" {
		g.appendLog(ev.Text)
	}
	table := g.table
	g.Mu.Unlock()

	g.fireEvent(translateEvent(ev, table))
	if ev.Kind != engine.EventTurn {
		g.broadcastSyncStateToAll()
	}
}

// appendLog records narration in the game log and every player's messages.
// Assumes lock is held by caller.
func (g *MacauGame) appendLog(text string) {
	g.gameLog = append(g.gameLog, text)
	for _, s := range g.seats {
		s.messages = append(s.messages, text)
	}
}

// refreshViews copies the engine projections readers are served from.
// Must run on the goroutine that owns the engine.
func (g *MacauGame) refreshViews() {
	table := g.state.PublicTable()
	views := make([]engine.PublicView, len(g.seats))
	for i, s := range g.seats {
		views[i], _ = g.state.View(s.name)
	}

	g.Mu.Lock()
	g.table = table
	for i, s := range g.seats {
		s.view = views[i]
	}
	g.Mu.Unlock()
}

// fireEvent sends an event to the BroadcastFn hook and all subscribers.
func (g *MacauGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
	g.Mu.Lock()
	for _, s := range g.seats {
		s.deliver(ev)
	}
	g.Mu.Unlock()
}

// fireEventToPlayer sends an event to one player only.
func (g *MacauGame) fireEventToPlayer(player string, ev GameEvent) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(player, ev)
	}
	g.Mu.Lock()
	if s, ok := g.index[player]; ok {
		s.deliver(ev)
	}
	g.Mu.Unlock()
}

// broadcastSyncStateToAll sends each player their own state.
func (g *MacauGame) broadcastSyncStateToAll() {
	for _, s := range g.seats {
		state, err := g.PlayerState(s.name)
		if err != nil {
			continue
		}
		g.fireEventToPlayer(s.name, GameEvent{Type: EventPrivateSyncState, Player: s.name, State: &state})
	}
}

// deliver hands ev to every subscriber of the seat, dropping it for
// subscribers that are not keeping up. Assumes lock is held by caller.
func (s *seat) deliver(ev GameEvent) {
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe returns a stream of the events addressed to player and a
// function releasing it. The stream is closed when the game ends.
func (g *MacauGame) Subscribe(player string) (<-chan GameEvent, func(), error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	s, ok := g.index[player]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	}
	ch := make(chan GameEvent, 64)
	if g.over {
		close(ch)
		return ch, func() {}, nil
	}
	id := g.nextSub
	g.nextSub++
	s.subs[id] = ch
	release := func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, release, nil
}

func (g *MacauGame) closeSubscribers() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, s := range g.seats {
		for id, ch := range s.subs {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// SubmitMove queues a move for a human player. It is consumed by the
// player's next decision, whichever that is, unless the player's last
// prompt timed out: moves sent between that timeout and the next prompt
// are dropped.
func (g *MacauGame) SubmitMove(player, move string) error {
	g.Mu.Lock()
	s, ok := g.index[player]
	over := g.over
	g.Mu.Unlock()
	switch {
	case !ok:
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	case s.cpu:
		return fmt.Errorf("%w: %q", ErrNotHuman, player)
	case over:
		return ErrGameOver
	}
	return s.port.submit(move)
}

// Players returns the seat names in turn order.
func (g *MacauGame) Players() []string {
	names := make([]string, len(g.seats))
	for i, s := range g.seats {
		names[i] = s.name
	}
	return names
}

// GameLog returns the narration of the game so far.
func (g *MacauGame) GameLog() []string {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return append([]string(nil), g.gameLog...)
}

// Messages returns everything addressed to player so far: the narration
// and the prompts put to them.
func (g *MacauGame) Messages(player string) ([]string, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	s, ok := g.index[player]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	}
	return append([]string(nil), s.messages...), nil
}

// Over reports whether the game has stopped.
func (g *MacauGame) Over() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.over
}

// Result returns the winners and the error the game stopped with.
func (g *MacauGame) Result() ([]string, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return append([]string(nil), g.winners...), g.endErr
}
