// Package server exposes the game registry over HTTP and WebSockets.
package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	engine "github.com/devdo-eu/macau/engine"
	"github.com/devdo-eu/macau/service/internal/game"
	"github.com/devdo-eu/macau/service/internal/registry"
)

const welcomePage = `<html>
    <head>
        <title>Macau Card Game Server</title>
    </head>
    <body>
        <h1>Hello at Macau Card Game Server!</h1>
    </body>
</html>`

// Server routes requests to the games of one registry.
type Server struct {
	games  *registry.GameRegistry
	log    logrus.FieldLogger
	router *gin.Engine
}

type createGameRequest struct {
	PlayersNames []string `json:"players_names"`
	HowManyCards int      `json:"how_many_cards"`
}

type moveRequest struct {
	Move string `json:"move"`
}

// New builds the router for games.
func New(games *registry.GameRegistry, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{games: games, log: logger.WithField("component", "http")}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.GET("/", s.welcome)
	r.GET("/macau", s.listGames)
	r.POST("/macau", s.createGame)
	r.GET("/macau/:id", s.gameLog)
	r.DELETE("/macau/:id", s.deleteGame)
	r.GET("/macau/:id/state", s.gameState)
	r.GET("/macau/:id/:player", s.playerView)
	r.POST("/macau/:id/:player", s.submitMove)
	r.GET("/macau/:id/:player/ws", s.streamEvents)
	s.router = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request")
	}
}

func (s *Server) welcome(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(welcomePage))
}

func (s *Server) listGames(c *gin.Context) {
	type summary struct {
		GameID  string   `json:"game_id"`
		Players []string `json:"players"`
		Over    bool     `json:"over"`
	}
	games := s.games.List()
	out := make([]summary, 0, len(games))
	for _, g := range games {
		out = append(out, summary{GameID: g.ID.String(), Players: g.Players(), Over: g.Over()})
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "games": out})
}

func (s *Server) createGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validNames(req.PlayersNames) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "Wrong names", "game_id": nil})
		return
	}
	if req.HowManyCards < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "Wrong number of cards", "game_id": nil})
		return
	}
	g, err := s.games.Create(req.PlayersNames, req.HowManyCards)
	if err != nil {
		code, status := statusFor(err)
		s.log.WithError(err).Info("game not created")
		c.JSON(code, gin.H{"status": status, "game_id": nil, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "game_id": g.ID.String()})
}

// validNames rejects empty lists, blank names and names that would not fit
// in a URL path segment.
func validNames(names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, n := range names {
		if strings.TrimSpace(n) == "" || strings.ContainsAny(n, "/?#") {
			return false
		}
	}
	return true
}

func (s *Server) gameState(c *gin.Context) {
	g, ok := s.lookup(c, "state")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "state": g.TableState()})
}

func (s *Server) gameLog(c *gin.Context) {
	g, ok := s.lookup(c, "output")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "output": g.GameLog()})
}

func (s *Server) deleteGame(c *gin.Context) {
	g, ok := s.lookup(c, "output")
	if !ok {
		return
	}
	if err := s.games.Delete(g.ID); err != nil {
		s.fail(c, err, "output")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) playerView(c *gin.Context) {
	g, ok := s.lookup(c, "output")
	if !ok {
		return
	}
	player := c.Param("player")
	msgs, err := g.Messages(player)
	if err != nil {
		s.fail(c, err, "output")
		return
	}
	state, err := g.PlayerState(player)
	if err != nil {
		s.fail(c, err, "output")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "output": msgs, "state": state})
}

// submitMove takes the move from a JSON body {"move": "..."} or, as older
// clients send it, from the player_move query parameter.
func (s *Server) submitMove(c *gin.Context) {
	g, ok := s.lookup(c, "input")
	if !ok {
		return
	}
	player := c.Param("player")
	move, hasQuery := c.GetQuery("player_move")
	if !hasQuery {
		var req moveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "Wrong move", "input": nil})
			return
		}
		move = req.Move
	}
	if err := g.SubmitMove(player, move); err != nil {
		s.fail(c, err, "input")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "input": move})
}

// lookup resolves the :id parameter, answering 404 itself when it fails.
// field is the payload key set to null in the error body.
func (s *Server) lookup(c *gin.Context, field string) (*game.MacauGame, bool) {
	g, err := s.games.Lookup(c.Param("id"))
	if err != nil {
		s.fail(c, err, field)
		return nil, false
	}
	return g, true
}

func (s *Server) fail(c *gin.Context, err error, field string) {
	code, status := statusFor(err)
	if code == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	c.JSON(code, gin.H{"status": status, field: nil})
}

// statusFor maps service errors to an HTTP status and a short description.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, registry.ErrGameNotFound):
		return http.StatusNotFound, "No game"
	case errors.Is(err, game.ErrUnknownPlayer):
		return http.StatusNotFound, "No player"
	case errors.Is(err, game.ErrNotHuman):
		return http.StatusConflict, "Not a human player"
	case errors.Is(err, game.ErrGameOver):
		return http.StatusConflict, "Game over"
	case errors.Is(err, game.ErrMoveQueueFull):
		return http.StatusTooManyRequests, "Too many moves"
	case errors.Is(err, engine.ErrInvalidConfiguration):
		return http.StatusBadRequest, "Wrong parameters"
	default:
		return http.StatusInternalServerError, "Error"
	}
}
