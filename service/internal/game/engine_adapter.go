// engine_adapter.go: bridge between engine.GameState and MacauGame.
package game

import (
	"context"
	"fmt"

	engine "github.com/devdo-eu/macau/engine"
	"github.com/devdo-eu/macau/engine/agent"
)

// inboxSize bounds the moves a human may queue ahead of their prompts.
const inboxSize = 8

// remotePort is the engine.DecisionPort of a human seat. Answers arrive
// through SubmitMove, from HTTP or a WebSocket.
type remotePort struct {
	game  *MacauGame
	name  string
	inbox chan string

	// expired is set when the last prompt timed out. Only Ask touches it.
	expired bool
}

// controllerFor picks the controller of a seat: a CPU for "CPU" names, a
// remote human port for everyone else. Assumes the engine is not running.
func (g *MacauGame) controllerFor(s *seat, idx int) engine.Controller {
	if s.cpu {
		var seed uint64
		if g.Rules.Seed != 0 {
			seed = g.Rules.Seed + uint64(idx) + 1
		}
		return agent.NewCPU(seed)
	}
	s.port = &remotePort{game: g, name: s.name, inbox: make(chan string, inboxSize)}
	return engine.Human{Port: s.port}
}

// Ask implements engine.DecisionPort. It posts the prompt to the player
// and waits for their next move, at most TurnDuration. Moves that arrived
// after the previous prompt timed out answered that prompt and are dropped.
func (p *remotePort) Ask(ctx context.Context, prompt engine.Prompt) (string, error) {
	g := p.game
	if p.expired {
		p.expired = false
		if n := p.drain(); n > 0 {
			g.log.WithField("player", p.name).WithField("moves", n).Info("dropped late moves")
		}
	}
	g.prompt(p.name, prompt)

	if d := g.TurnDuration; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	select {
	case move := <-p.inbox:
		text := fmt.Sprintf("%s plays: %s.", p.name, move)
		g.Mu.Lock()
		g.appendLog(text)
		g.Mu.Unlock()
		g.fireEvent(GameEvent{Type: EventPlayerMove, Player: p.name, Text: text})
		return move, nil
	case <-ctx.Done():
		g.log.WithField("player", p.name).WithError(ctx.Err()).Info("no answer from player")
		p.expired = true
		return "", ctx.Err()
	}
}

// drain empties the inbox and returns how many moves it held.
func (p *remotePort) drain() int {
	for n := 0; ; n++ {
		select {
		case <-p.inbox:
		default:
			return n
		}
	}
}

func (p *remotePort) submit(move string) error {
	select {
	case p.inbox <- move:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrMoveQueueFull, p.name)
	}
}

// prompt records a question in the player's messages and sends it to them.
func (g *MacauGame) prompt(player string, p engine.Prompt) {
	g.Mu.Lock()
	if s, ok := g.index[player]; ok {
		s.messages = append(s.messages, p.Text)
	}
	g.Mu.Unlock()

	g.fireEventToPlayer(player, GameEvent{
		Type:    EventPrivatePrompt,
		Player:  player,
		Text:    p.Text,
		Cards:   cardStrings(p.Turn.Legal),
		Payload: map[string]interface{}{"kind": promptKindString(p.Kind)},
	})
}

func promptKindString(k engine.PromptKind) string {
	switch k {
	case engine.PromptValue:
		return "value"
	case engine.PromptColor:
		return "color"
	default:
		return "move"
	}
}

// translateEvent converts an engine narration event to a client event.
// table is the public state at the time of the event.
func translateEvent(ev engine.Event, table engine.PublicView) GameEvent {
	if out, ok := specialEvent(ev, table); ok {
		return out
	}
	out := GameEvent{Player: ev.Player, Count: ev.Count, Text: ev.Text, Cards: cardStrings(ev.Cards)}
	switch ev.Kind {
	case engine.EventTurn:
		out.Type = EventGamePlayerTurn
	case engine.EventPlay:
		out.Type = EventPlayerPlay
	case engine.EventDraw:
		out.Type = EventPlayerDraw
	case engine.EventSkip:
		out.Type = EventPlayerSkip
	case engine.EventNoMove:
		out.Type = EventPlayerNoMove
	case engine.EventInvalidMove:
		out.Type = EventPlayerInvalidMove
	case engine.EventReshuffle:
		out.Type = EventGameReshuffle
	default:
		out.Type = GameEventType(ev.Kind)
	}
	return out
}

func cardStrings(cards []engine.Card) []string {
	if len(cards) == 0 {
		return nil
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
