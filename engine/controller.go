package engine

import (
	"context"
	"fmt"
	"strings"
)

// RequestKind names what a Jack or Ace asks the player for.
type RequestKind uint8

const (
	RequestValue RequestKind = iota // after a Jack: a rank from 5 to 10
	RequestColor                    // after an Ace: a suit
)

// Turn is what a controller sees when asked to decide.
type Turn struct {
	Player    string
	Seat      int // index in turn order
	View      PublicView
	Table     Table
	Legal     []Card
	PackRanks []uint8
}

// Controller decides moves for one seat.
//
// Move returns the play for the turn. Request is called after the player's
// Jack or Ace has been accepted and must answer with a rank or suit intent.
// A returned error is treated as an invalid move (for Move) or as no request
// (for Request); it never aborts the game.
type Controller interface {
	Move(ctx context.Context, turn Turn) (PlayIntent, error)
	Request(ctx context.Context, turn Turn, kind RequestKind) (PlayIntent, error)
}

// PromptKind tells a DecisionPort what answer is expected.
type PromptKind uint8

const (
	PromptMove PromptKind = iota
	PromptValue
	PromptColor
)

// Prompt is a question put to a human player.
type Prompt struct {
	Kind PromptKind
	Turn Turn
	Text string
}

// DecisionPort returns a human's answer to a prompt as text.
type DecisionPort interface {
	Ask(ctx context.Context, p Prompt) (string, error)
}

// Human is the Controller of a seat played through a DecisionPort.
type Human struct {
	Port DecisionPort
}

// Move implements Controller.
func (h Human) Move(ctx context.Context, turn Turn) (PlayIntent, error) {
	answer, err := h.Port.Ask(ctx, Prompt{Kind: PromptMove, Turn: turn, Text: movePrompt(turn)})
	if err != nil {
		return Pass, err
	}
	return ParseIntent(answer), nil
}

// Request implements Controller.
func (h Human) Request(ctx context.Context, turn Turn, kind RequestKind) (PlayIntent, error) {
	p := Prompt{Kind: PromptValue, Turn: turn, Text: fmt.Sprintf("%s, which value do you request (5-10)?", turn.Player)}
	if kind == RequestColor {
		p = Prompt{Kind: PromptColor, Turn: turn, Text: fmt.Sprintf("%s, which color do you request (hearts, tiles, clovers, pikes)?", turn.Player)}
	}
	answer, err := h.Port.Ask(ctx, p)
	if err != nil {
		return Pass, err
	}
	return ParseIntent(answer), nil
}

func movePrompt(turn Turn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, your move. On table: %s.", turn.Player, turn.Table.Top)
	if turn.View.CardsToTake > 0 {
		fmt.Fprintf(&b, " Cards to take: %d.", turn.View.CardsToTake)
	}
	if turn.View.TurnsToWait > 0 {
		fmt.Fprintf(&b, " Turns to wait: %d.", turn.View.TurnsToWait)
	}
	if turn.Table.RequestedColor != NoSuit {
		fmt.Fprintf(&b, " Requested color: %s.", SuitString(turn.Table.RequestedColor))
	}
	if turn.Table.RequestedValue != NoRank {
		fmt.Fprintf(&b, " Requested value: %s.", RankString(turn.Table.RequestedValue))
	}
	b.WriteString(" Hand: ")
	for i, c := range turn.View.Hand {
		if i > 0 {
			b.WriteString(", ")
		}
		if containsCard(turn.Legal, c) {
			b.WriteString("*")
		}
		b.WriteString(c.String())
	}
	return b.String()
}

// EventKind classifies a narration event.
type EventKind string

const (
	EventTurn        EventKind = "turn"
	EventSkip        EventKind = "skip"
	EventNoMove      EventKind = "no_move"
	EventInvalidMove EventKind = "invalid_move"
	EventPlay        EventKind = "play"
	EventDraw        EventKind = "draw"
	EventWait        EventKind = "wait"
	EventRequest     EventKind = "request"
	EventMacau       EventKind = "macau"
	EventPikesKing   EventKind = "pikes_king"
	EventReshuffle   EventKind = "reshuffle"
	EventWin         EventKind = "win"
)

// Event is a human-readable account of something that happened.
type Event struct {
	Kind   EventKind
	Player string
	Cards  []Card
	Count  int
	Text   string
}

// Notifier observes game events. It must not touch the game state.
type Notifier interface {
	Notify(ev Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ev Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ev Event) { f(ev) }

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
