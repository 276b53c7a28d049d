package engine

import "errors"

// ErrInvalidConfiguration is wrapped by every setup-time error.
var ErrInvalidConfiguration = errors.New("invalid game configuration")

var (
	ErrNoPlayers       = errors.New("no players")
	ErrNoDecks         = errors.New("at least one deck is required")
	ErrDuplicatePlayer = errors.New("duplicate player name")
	ErrNotEnoughCards  = errors.New("not enough cards to deal starting hands")
	ErrNoController    = errors.New("seat has no controller")
)

var (
	// ErrDeckExhausted means a draw could not be served even after
	// reshuffling the table. Cards were lost or duplicated somewhere.
	ErrDeckExhausted = errors.New("deck exhausted after reshuffle")

	ErrUnknownPlayer = errors.New("unknown player")
	ErrGameOver      = errors.New("game is over")
	ErrRoundLimit    = errors.New("round limit reached")
)
