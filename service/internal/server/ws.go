package server

import (
	"context"
	"errors"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/devdo-eu/macau/service/internal/game"
)

// EventMoveRejected is sent on a WebSocket when a move sent over it was
// refused.
const EventMoveRejected game.GameEventType = "private_move_rejected"

// streamEvents upgrades to a WebSocket carrying the player's events. The
// client may send {"move": "..."} frames, which are submitted like POSTed
// moves.
func (s *Server) streamEvents(c *gin.Context) {
	g, ok := s.lookup(c, "output")
	if !ok {
		return
	}
	player := c.Param("player")
	events, release, err := g.Subscribe(player)
	if err != nil {
		s.fail(c, err, "output")
		return
	}
	defer release()

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	log := s.log.WithField("game", g.ID.String()).WithField("player", player)
	log.Debug("websocket connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go s.readMoves(ctx, cancel, conn, g, player)

	if state, err := g.PlayerState(player); err == nil {
		if err := wsjson.Write(ctx, conn, game.GameEvent{Type: game.EventPrivateSyncState, Player: player, State: &state}); err != nil {
			return
		}
	}

	for {
		select {
		case ev, open := <-events:
			if !open {
				conn.Close(websocket.StatusNormalClosure, "game over")
				return
			}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				log.WithError(err).Debug("websocket write failed")
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// readMoves submits moves read from conn until it fails, then cancels the
// stream.
func (s *Server) readMoves(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, g *game.MacauGame, player string) {
	defer cancel()
	for {
		var req moveRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			var closeErr websocket.CloseError
			if !errors.As(err, &closeErr) && ctx.Err() == nil {
				s.log.WithError(err).Debug("websocket read failed")
			}
			return
		}
		if err := g.SubmitMove(player, req.Move); err != nil {
			_, status := statusFor(err)
			ev := game.GameEvent{Type: EventMoveRejected, Player: player, Text: status}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return
			}
		}
	}
}
