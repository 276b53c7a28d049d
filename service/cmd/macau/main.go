// Command macau plays Macau in the terminal. Players share the keyboard;
// seats whose name contains "CPU" are played by the computer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	engine "github.com/devdo-eu/macau/engine"
	"github.com/devdo-eu/macau/engine/agent"
)

const (
	minPlayers = 2
	maxPlayers = 6
	maxRounds  = 1000
)

// lineReader is the part of *readline.Instance the CLI uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

func main() {
	cards := flag.Int("cards", 5, "cards dealt to each player")
	seed := flag.Uint64("seed", 0, "shuffle seed, 0 for a random game")
	history := flag.String("history", "", "file keeping the input history")
	flag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "» ",
		HistoryFile:       *history,
		AutoComplete:      completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := play(ctx, rl, rl.Stdout(), *cards, *seed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		rl.Close()
		os.Exit(1)
	}
}

// completer offers card words at every position of a move.
func completer() *readline.PrefixCompleter {
	var ranks []readline.PrefixCompleterInterface
	for r := uint8(0); r < engine.NumRanks; r++ {
		ranks = append(ranks, readline.PcItem(engine.RankString(r)))
	}
	var suits []readline.PrefixCompleterInterface
	for s := uint8(0); s < engine.NumSuits; s++ {
		suits = append(suits, readline.PcItem(engine.SuitString(s), ranks...))
	}
	return readline.NewPrefixCompleter(suits...)
}

func play(ctx context.Context, in lineReader, out io.Writer, cards int, seed uint64) error {
	fmt.Fprintln(out, "Welcome to Macau Game!")
	n, err := askPlayers(in)
	if err != nil {
		return err
	}
	names, err := askNames(in, n)
	if err != nil {
		return err
	}

	rules := engine.DefaultHouseRules()
	rules.CardsPerPlayer = cards
	rules.Decks = engine.DecksFor(n, cards)
	rules.Seed = seed
	rules.MaxRounds = maxRounds
	rules.PartialDraws = true

	ctx, quit := context.WithCancel(ctx)
	defer quit()
	port := &terminalPort{in: in, out: out, quit: quit}
	seats := make([]engine.Seat, len(names))
	for i, name := range names {
		seats[i] = engine.Seat{Name: name, Controller: engine.Human{Port: port}}
		if strings.Contains(name, "CPU") {
			seats[i].Controller = agent.NewCPU(0)
		}
	}

	g, err := engine.NewGame(rules, seats)
	if err != nil {
		return err
	}
	g.SetNotifier(engine.NotifierFunc(func(ev engine.Event) {
		if ev.Kind == engine.EventTurn || ev.Kind == engine.EventWin || ev.Text == "" {
			return
		}
		fmt.Fprintln(out, ev.Text)
	}))

	winners, err := g.PlayGame(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, "Game aborted.")
		return nil
	}
	if errors.Is(err, engine.ErrRoundLimit) {
		fmt.Fprintf(out, "Nobody won after %d rounds.\n", maxRounds)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Game won by: %s !\n", strings.Join(winners, ", "))
	return nil
}

func askPlayers(in lineReader) (int, error) {
	in.SetPrompt(fmt.Sprintf("How many players will play? (max is %d): ", maxPlayers))
	line, err := in.Readline()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < minPlayers || n > maxPlayers {
		return 0, fmt.Errorf("wrong number of players entered: %q", line)
	}
	return n, nil
}

func askNames(in lineReader, n int) ([]string, error) {
	names := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		in.SetPrompt(fmt.Sprintf("Enter name for player#%d : ", i))
		line, err := in.Readline()
		if err != nil {
			return nil, err
		}
		names = append(names, strings.TrimSpace(line))
	}
	return names, nil
}

// terminalPort asks the human seats through the shared terminal. Ctrl-C or
// EOF at a prompt ends the game after the current turn.
type terminalPort struct {
	in   lineReader
	out  io.Writer
	quit context.CancelFunc
}

// Ask implements engine.DecisionPort.
func (p *terminalPort) Ask(ctx context.Context, prompt engine.Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintln(p.out, prompt.Text)
	p.in.SetPrompt(prompt.Turn.Player + "» ")
	line, err := p.in.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		p.quit()
		return "", context.Canceled
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	fmt.Fprintf(p.out, "%s plays: %s.\n", prompt.Turn.Player, line)
	return line, nil
}
