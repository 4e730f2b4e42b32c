package game

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// NotificationType tags a Notification.
type NotificationType string

const (
	NotificationGameCreated NotificationType = "GAME_CREATED"
	NotificationMoveApplied NotificationType = "MOVE_APPLIED"
	NotificationGameOver    NotificationType = "GAME_OVER"
)

// Notification is pushed to listeners after a game changes.
type Notification struct {
	Type      NotificationType `json:"type"`
	GameID    string           `json:"game_id"`
	PlayerID  string           `json:"player_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Data      any              `json:"data,omitempty"`
}

// NotificationHandler receives notifications. It runs on its own goroutine.
type NotificationHandler func(Notification)

// SnapshotStore persists game snapshots between moves.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, g *Game) (string, error)
	LoadSnapshot(ctx context.Context, gameID string) (*Game, error)
}

// session is one hosted game and the lock serializing its moves.
type session struct {
	mu   sync.Mutex
	game *Game
}

// Manager hosts many games, applying moves to each one at a time.
type Manager struct {
	engine              *Engine
	logger              *zap.Logger
	store               SnapshotStore
	recorder            *ReplayRecorder
	mu                  sync.RWMutex
	sessions            map[string]*session
	notificationHandler NotificationHandler
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSnapshotStore saves a snapshot after every accepted move.
func WithSnapshotStore(store SnapshotStore) ManagerOption {
	return func(m *Manager) {
		m.store = store
	}
}

// WithReplayRecorder records every accepted move.
func WithReplayRecorder(recorder *ReplayRecorder) ManagerOption {
	return func(m *Manager) {
		m.recorder = recorder
	}
}

// NewManager creates a manager over the engine.
func NewManager(engine *Engine, logger *zap.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		engine:   engine,
		logger:   logger,
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetNotificationHandler sets the listener for game notifications.
func (m *Manager) SetNotificationHandler(handler NotificationHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationHandler = handler
}

func (m *Manager) emit(n Notification) {
	m.mu.RLock()
	handler := m.notificationHandler
	m.mu.RUnlock()

	if handler != nil {
		go handler(n)
	}
}

func (m *Manager) session(gameID string) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[gameID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return s, nil
}

func (m *Manager) register(g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[g.ID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, g.ID)
	}
	m.sessions[g.ID] = &session{game: g}
	return nil
}

// Create starts hosting a new game. An empty id gets a fresh one.
func (m *Manager) Create(ctx context.Context, gameID string, seed uint64) (*Game, error) {
	g := m.engine.NewGame(gameID, seed)
	if err := m.register(g); err != nil {
		return nil, err
	}
	if m.recorder != nil {
		m.recorder.StartRecording(g.ID, seed)
	}
	m.persist(ctx, g)
	m.logger.Info("game created", zap.String("game_id", g.ID), zap.Uint64("seed", seed))
	m.emit(Notification{Type: NotificationGameCreated, GameID: g.ID, Timestamp: time.Now()})
	return g.Clone(), nil
}

// Restore loads a game from the snapshot store and hosts it again.
func (m *Manager) Restore(ctx context.Context, gameID string) (*Game, error) {
	if m.store == nil {
		return nil, fmt.Errorf("%w: no snapshot store configured", ErrGameNotFound)
	}
	g, err := m.store.LoadSnapshot(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if err := m.register(g); err != nil {
		return nil, err
	}
	m.logger.Info("game restored", zap.String("game_id", g.ID), zap.Int("turn", g.Turns.Turn))
	return g.Clone(), nil
}

// Submit applies a move to a hosted game.
func (m *Manager) Submit(ctx context.Context, gameID string, mv Move) (*Result, error) {
	s, err := m.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, res, err := m.engine.Apply(s.game, mv)
	if err != nil {
		return nil, err
	}
	s.game = next
	if m.recorder != nil && mv.MoveType != MoveGetTime {
		m.recorder.Record(gameID, res.Move)
	}
	m.persist(ctx, next)

	out := &Result{Move: res.Move, Clickable: res.Clickable, Clickables: res.Clickables, Game: next.Clone()}
	m.emit(Notification{
		Type:      NotificationMoveApplied,
		GameID:    gameID,
		PlayerID:  mv.Username,
		Timestamp: time.Now(),
		Data:      out,
	})
	if next.IsOver() {
		m.logger.Info("game finished", zap.String("game_id", gameID), zap.String("winner", next.Winner))
		m.emit(Notification{
			Type:      NotificationGameOver,
			GameID:    gameID,
			PlayerID:  next.Winner,
			Timestamp: time.Now(),
		})
		if m.recorder != nil {
			if err := m.recorder.SaveReplay(gameID); err != nil {
				m.logger.Warn("failed to save replay", zap.String("game_id", gameID), zap.Error(err))
			}
		}
	}
	return out, nil
}

// persist saves a snapshot. A store failure does not undo the move.
func (m *Manager) persist(ctx context.Context, g *Game) {
	if m.store == nil {
		return
	}
	rev, err := m.store.SaveSnapshot(ctx, g)
	if err != nil {
		m.logger.Warn("failed to save snapshot", zap.String("game_id", g.ID), zap.Error(err))
		return
	}
	m.logger.Debug("snapshot saved", zap.String("game_id", g.ID), zap.String("revision", rev))
}

// Game returns a copy of a hosted game.
func (m *Manager) Game(gameID string) (*Game, error) {
	s, err := m.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone(), nil
}

// LegalMoves lists the user's legal moves in a hosted game.
func (m *Manager) LegalMoves(gameID, username string) ([]Move, error) {
	s, err := m.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.engine.LegalMoves(s.game, username), nil
}

// Clickable computes what the user may click in a hosted game.
func (m *Manager) Clickable(gameID, username string) (ClickableSet, error) {
	s, err := m.session(gameID)
	if err != nil {
		return ClickableSet{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeClickable(s.game, username), nil
}

// Remove stops hosting a game.
func (m *Manager) Remove(gameID string) {
	m.mu.Lock()
	delete(m.sessions, gameID)
	m.mu.Unlock()
	if m.recorder != nil {
		m.recorder.ClearReplay(gameID)
	}
}

// GameIDs lists hosted games in id order.
func (m *Manager) GameIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
