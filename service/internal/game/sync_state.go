// internal/game/sync_state.go
package game

import (
	"fmt"

	"github.com/google/uuid"

	engine "github.com/devdo-eu/macau/engine"
)

// ObfPlayerState is what an observer may know about one player.
type ObfPlayerState struct {
	Name          string `json:"name"`
	HandSize      int    `json:"handSize"`
	TurnsToSkip   int    `json:"turnsToSkip"`
	IsCPU         bool   `json:"isCpu"`
	IsCurrentTurn bool   `json:"isCurrentTurn"`
	// Hand is populated only for the player requesting the state.
	Hand []string `json:"hand,omitempty"`
}

// ObfGameState is the game as seen by one observer. Cards are rendered as
// text ("hearts 10"); absent cards and requests are null.
type ObfGameState struct {
	GameID               uuid.UUID        `json:"gameId"`
	Round                int              `json:"round"`
	Started              bool             `json:"started"`
	GameOver             bool             `json:"gameOver"`
	CurrentPlayer        string           `json:"currentPlayer,omitempty"`
	CardsInDeck          int              `json:"cardsInDeck"`
	TableSize            int              `json:"tableSize"`
	TableTop             *string          `json:"tableTop"`
	LiedCard             *string          `json:"liedCard"`
	CardsToTake          int              `json:"cardsToTake"`
	TurnsToWait          int              `json:"turnsToWait"`
	RequestedColor       *string          `json:"requestedColor"`
	RequestedValue       *string          `json:"requestedValue"`
	RequestedValueRounds int              `json:"requestedValueRounds"`
	Players              []ObfPlayerState `json:"players"`
	Winners              []string         `json:"winners,omitempty"`
}

// PlayerState returns the game as seen by player, hand included.
func (g *MacauGame) PlayerState(player string) (ObfGameState, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	s, ok := g.index[player]
	if !ok {
		return ObfGameState{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	}
	return g.obfuscatedState(s.view), nil
}

// TableState returns the game as seen by a spectator.
func (g *MacauGame) TableState() ObfGameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.obfuscatedState(g.table)
}

// obfuscatedState renders v. Assumes lock is held by caller.
func (g *MacauGame) obfuscatedState(v engine.PublicView) ObfGameState {
	obf := ObfGameState{
		GameID:               g.ID,
		Round:                v.Round,
		Started:              g.started,
		GameOver:             g.over,
		CurrentPlayer:        g.current,
		CardsInDeck:          v.DeckSize,
		TableSize:            v.TableSize,
		TableTop:             cardOrNil(v.TableTop),
		LiedCard:             cardOrNil(v.LiedCard),
		CardsToTake:          v.CardsToTake,
		TurnsToWait:          v.TurnsToWait,
		RequestedValueRounds: v.RequestedValueRounds,
		Players:              make([]ObfPlayerState, len(v.Seats)),
		Winners:              v.Winners,
	}
	if v.RequestedColor != engine.NoSuit {
		c := engine.SuitString(v.RequestedColor)
		obf.RequestedColor = &c
	}
	if v.RequestedValue != engine.NoRank {
		r := engine.RankString(v.RequestedValue)
		obf.RequestedValue = &r
	}
	if g.over {
		obf.Winners = append([]string(nil), g.winners...)
	}

	for i, sv := range v.Seats {
		ps := ObfPlayerState{
			Name:          sv.Name,
			HandSize:      sv.HandSize,
			TurnsToSkip:   sv.TurnsToSkip,
			IsCPU:         IsCPUName(sv.Name),
			IsCurrentTurn: sv.Name == g.current && !g.over,
		}
		if sv.Name == v.Player {
			ps.Hand = cardStrings(v.Hand)
		}
		obf.Players[i] = ps
	}
	return obf
}

func cardOrNil(c engine.Card) *string {
	if c.IsEmpty() {
		return nil
	}
	s := c.String()
	return &s
}
