// Package server exposes hosted games over HTTP and websockets.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/duelhall/duel-server-go/internal/config"
	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/duelhall/duel-server-go/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// RevisionLister lists stored snapshot revisions of a game.
type RevisionLister interface {
	Revisions(ctx context.Context, gameID string) ([]repository.Revision, error)
}

// Server routes requests to the game manager.
type Server struct {
	cfg       config.ServerConfig
	manager   *game.Manager
	revisions RevisionLister
	hub       *Hub
	logger    *zap.Logger
	router    *gin.Engine
	upgrader  websocket.Upgrader
	seed      func() uint64
}

// Option configures a Server.
type Option func(*Server)

// WithRevisions enables the revision history endpoint.
func WithRevisions(r RevisionLister) Option {
	return func(s *Server) {
		s.revisions = r
	}
}

// WithSeedSource overrides how seeds are picked for new games.
func WithSeedSource(seed func() uint64) Option {
	return func(s *Server) {
		s.seed = seed
	}
}

// New builds the router and subscribes the hub to manager notifications.
func New(cfg config.ServerConfig, manager *game.Manager, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		manager: manager,
		hub:     NewHub(logger),
		logger:  logger,
		seed:    func() uint64 { return uint64(time.Now().UnixNano()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	manager.SetNotificationHandler(s.hub.Publish)

	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.GET("/healthz", s.health)

	games := r.Group("/games")
	games.GET("", s.listGames)
	games.POST("", s.createGame)
	games.GET("/:id", s.getGame)
	games.DELETE("/:id", s.removeGame)
	games.POST("/:id/restore", s.restoreGame)
	games.GET("/:id/moves", s.legalMoves)
	games.POST("/:id/moves", s.submitMove)
	games.GET("/:id/revisions", s.listRevisions)
	games.GET("/:id/ws", s.serveWS)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves websocket fan-out until ctx is done.
func (s *Server) Run(ctx context.Context) {
	s.hub.Run(ctx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// checkOrigin allows every origin when none are configured.
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) || strings.EqualFold(allowed, u.Host) {
			return true
		}
	}
	return false
}

// writeError maps engine and manager errors onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"error": err.Error()}

	var illegal *game.IllegalMoveError
	switch {
	case errors.As(err, &illegal):
		status = http.StatusUnprocessableEntity
		body["reason"] = illegal.Err.Error()
	case errors.Is(err, game.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrGameExists):
		status = http.StatusConflict
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, body)
}

var errBadRequest = errors.New("bad request")

func badRequest(err error) error {
	return errors.Join(errBadRequest, err)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "games": len(s.manager.GameIDs())})
}

func (s *Server) listGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": s.manager.GameIDs()})
}

type createGameRequest struct {
	ID   string  `json:"id"`
	Seed *uint64 `json:"seed"`
}

func (s *Server) createGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(c, badRequest(err))
		return
	}
	seed := s.seed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	g, err := s.manager.Create(c.Request.Context(), req.ID, seed)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (s *Server) getGame(c *gin.Context) {
	g, err := s.manager.Game(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) removeGame(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.manager.Game(id); err != nil {
		s.writeError(c, err)
		return
	}
	s.manager.Remove(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) restoreGame(c *gin.Context) {
	g, err := s.manager.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

type legalMovesResponse struct {
	Moves     []game.Move       `json:"moves"`
	Clickable game.ClickableSet `json:"clickable"`
}

func (s *Server) legalMovesFor(gameID, username string) (legalMovesResponse, error) {
	moves, err := s.manager.LegalMoves(gameID, username)
	if err != nil {
		return legalMovesResponse{}, err
	}
	clickable, err := s.manager.Clickable(gameID, username)
	if err != nil {
		return legalMovesResponse{}, err
	}
	if moves == nil {
		moves = []game.Move{}
	}
	return legalMovesResponse{Moves: moves, Clickable: clickable}, nil
}

func (s *Server) legalMoves(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		s.writeError(c, badRequest(errors.New("username is required")))
		return
	}
	resp, err := s.legalMovesFor(c.Param("id"), username)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) submitMove(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		s.writeError(c, badRequest(err))
		return
	}
	m, err := decodeMove(raw)
	if err != nil {
		s.writeError(c, badRequest(err))
		return
	}
	res, err := s.manager.Submit(c.Request.Context(), c.Param("id"), m)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) listRevisions(c *gin.Context) {
	if s.revisions == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no snapshot store configured"})
		return
	}
	revs, err := s.revisions.Revisions(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if revs == nil {
		revs = []repository.Revision{}
	}
	c.JSON(http.StatusOK, gin.H{"revisions": revs})
}

func (s *Server) serveWS(c *gin.Context) {
	gameID := c.Param("id")
	if _, err := s.manager.Game(gameID); err != nil {
		s.writeError(c, err)
		return
	}
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.String("game_id", gameID), zap.Error(err))
		return
	}
	client := &Client{
		conn:     conn,
		send:     make(chan []byte, 256),
		gameID:   gameID,
		username: c.Query("username"),
	}
	if err := s.hub.add(client); err != nil {
		conn.Close()
		return
	}
	go client.writePump(s.cfg.WriteTimeout)
	go client.readPump(s)
}

// handleMessage answers one websocket request. Accepted moves reach every
// client of the game through the hub; only failures are answered directly.
func (s *Server) handleMessage(c *Client, msg Message) {
	ctx := context.Background()
	username := msg.Username
	if username == "" {
		username = c.username
	}

	switch msg.Type {
	case MessageMove:
		m, err := decodeMove(msg.Payload)
		if err != nil {
			c.reply(Message{Type: MessageError, GameID: c.gameID, Error: err.Error()})
			return
		}
		if m.Username == "" {
			m.Username = username
		}
		if _, err := s.manager.Submit(ctx, c.gameID, m); err != nil {
			c.reply(Message{Type: MessageError, GameID: c.gameID, Username: m.Username, Error: err.Error()})
		}

	case MessageLegalMoves:
		resp, err := s.legalMovesFor(c.gameID, username)
		if err != nil {
			c.reply(Message{Type: MessageError, GameID: c.gameID, Error: err.Error()})
			return
		}
		c.reply(Message{Type: MessageLegalMoves, GameID: c.gameID, Username: username, Data: resp})

	case MessageState:
		g, err := s.manager.Game(c.gameID)
		if err != nil {
			c.reply(Message{Type: MessageError, GameID: c.gameID, Error: err.Error()})
			return
		}
		c.reply(Message{Type: MessageState, GameID: c.gameID, Data: g})

	default:
		c.reply(Message{Type: MessageError, GameID: c.gameID, Error: "unknown message type " + msg.Type})
	}
}
