// Package cache mirrors running games into Redis so that other processes
// can follow them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultStateTTL is how long a stored state outlives its last update.
const DefaultStateTTL = time.Hour

// EventsChannel is the pub/sub channel carrying the public events of a game.
func EventsChannel(gameID uuid.UUID) string {
	return fmt.Sprintf("macau:game:%s:events", gameID)
}

// StateKey is the key holding the latest state of a game as seen by player.
// An empty player names the spectator state.
func StateKey(gameID uuid.UUID, player string) string {
	if player == "" {
		return fmt.Sprintf("macau:game:%s:state", gameID)
	}
	return fmt.Sprintf("macau:game:%s:state:%s", gameID, player)
}

// Connect opens a client to addr and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return rdb, nil
}

// Publisher writes game events and states to Redis. A Publisher without a
// client, including a nil *Publisher, does nothing.
type Publisher struct {
	rdb redis.UniversalClient
	ttl time.Duration
	log *logrus.Entry
}

// NewPublisher returns a Publisher writing through rdb, which may be nil.
func NewPublisher(rdb redis.UniversalClient, logger logrus.FieldLogger) *Publisher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Publisher{rdb: rdb, ttl: DefaultStateTTL, log: logger.WithField("component", "cache")}
}

// Enabled reports whether the publisher writes anywhere.
func (p *Publisher) Enabled() bool {
	return p != nil && p.rdb != nil
}

// PublishEvent sends ev, JSON encoded, on the game's events channel.
func (p *Publisher) PublishEvent(ctx context.Context, gameID uuid.UUID, ev any) error {
	if !p.Enabled() {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if err := p.rdb.Publish(ctx, EventsChannel(gameID), payload).Err(); err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}
	return nil
}

// StoreState saves state, JSON encoded, under StateKey.
func (p *Publisher) StoreState(ctx context.Context, gameID uuid.UUID, player string, state any) error {
	if !p.Enabled() {
		return nil
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := p.rdb.Set(ctx, StateKey(gameID, player), payload, p.ttl).Err(); err != nil {
		return fmt.Errorf("storing state: %w", err)
	}
	return nil
}

// Forget removes every stored state of a finished game.
func (p *Publisher) Forget(ctx context.Context, gameID uuid.UUID, players []string) error {
	if !p.Enabled() {
		return nil
	}
	keys := []string{StateKey(gameID, "")}
	for _, name := range players {
		keys = append(keys, StateKey(gameID, name))
	}
	return p.rdb.Del(ctx, keys...).Err()
}

// Logf reports a failed write without interrupting the game.
func (p *Publisher) Logf(err error, format string, args ...any) {
	if err == nil || p == nil {
		return
	}
	p.log.WithError(err).Warnf(format, args...)
}
