package game

import (
	"time"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine applies moves to games. It holds no per-game state and is safe for
// concurrent use; callers serialize moves per game.
type Engine struct {
	logger  *zap.Logger
	catalog cards.Catalog
	rules   Rules
	clock   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used for the turn timer.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.clock = now
	}
}

// NewEngine creates an engine over a card catalog.
func NewEngine(catalog cards.Catalog, rules Rules, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:  logger,
		catalog: catalog,
		rules:   rules,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the table limits new games are created with.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Catalog returns the card catalog.
func (e *Engine) Catalog() cards.Catalog {
	return e.catalog
}

// NewGame creates an empty game waiting for players. An empty id gets a
// fresh uuid.
func (e *Engine) NewGame(id string, seed uint64) *Game {
	if id == "" {
		id = uuid.NewString()
	}
	g := newGame(id, seed, e.rules)
	g.attach(e.catalog, e.logger)
	return g
}

// Apply validates and applies one move. The given game is never mutated: on
// success the returned game is a new value, on failure the original game is
// returned together with an *IllegalMoveError.
func (e *Engine) Apply(g *Game, m Move) (*Game, *Result, error) {
	if g == nil {
		return nil, nil, illegal(m, ErrGameNotFound)
	}
	next := g.Clone()
	next.attach(e.catalog, e.logger)
	move := m.clone()
	move.LogLines = nil

	lines, err := e.dispatch(next, &move)
	if err != nil {
		e.logger.Debug("move rejected",
			zap.String("game_id", g.ID),
			zap.String("move_type", string(m.MoveType)),
			zap.String("username", m.Username),
			zap.Error(err),
		)
		return g, nil, illegal(m, err)
	}
	lines = append(lines, next.checkState()...)
	move.LogLines = lines

	e.logger.Debug("move applied",
		zap.String("game_id", next.ID),
		zap.String("move_type", string(move.MoveType)),
		zap.String("username", move.Username),
		zap.Int("turn", next.Turns.Turn),
		zap.Int("log_lines", len(lines)),
	)
	clickables := make(map[string]ClickableSet, len(next.Players))
	for _, p := range next.Players {
		clickables[p.Username] = ComputeClickable(next, p.Username)
	}
	return next, &Result{
		Move:       move,
		Clickable:  ComputeClickable(next, move.Username),
		Clickables: clickables,
		Game:       next,
	}, nil
}

// LegalMoves lists the moves the user could submit against g right now.
func (e *Engine) LegalMoves(g *Game, username string) []Move {
	if g == nil {
		return nil
	}
	view := g.Clone()
	view.attach(e.catalog, e.logger)
	return LegalMoves(view, username)
}

func (e *Engine) dispatch(g *Game, m *Move) ([]string, error) {
	switch m.MoveType {
	case MoveJoin:
		return e.join(g, m)
	case MoveGetTime:
		return nil, e.getTime(g, m)
	}
	if g.IsOver() {
		return nil, ErrGameOver
	}
	p := g.Player(m.Username)
	if p == nil {
		return nil, ErrNotJoined
	}
	if m.MoveType == MoveStartFirstTurn {
		return e.startFirstTurn(g, p)
	}
	if g.Status != StatusInProgress {
		return nil, ErrWrongStatus
	}
	if err := g.checkPriority(p, m.MoveType); err != nil {
		return nil, err
	}

	switch m.MoveType {
	case MoveEndTurn:
		return e.endTurn(g, p)
	case MoveSelectCardInHand:
		return g.selectCardInHand(p, *m)
	case MovePlayCardInHand, MovePlayCard:
		return g.playCardInHand(p, *m)
	case MoveSelectMob, MoveSelectArtifact, MoveSelectStackSpell, MoveSelectOpponent, MoveSelectSelf:
		return g.selectTarget(p, *m)
	case MoveAttack:
		return g.attack(p, *m)
	case MoveResolveNextStack:
		return g.resolveNextStack()
	case MoveActivateArtifact, MoveActivateMob:
		return g.activateMove(p, *m)
	case MoveResolveMobEffect:
		return g.resolveMobEffect(p, *m)
	case MoveMakeCard:
		return g.makeCard(p, *m)
	case MoveMakeEffect:
		return g.makeEffect(p, *m)
	case MoveCancelMake:
		return g.cancelMake(p)
	case MoveFetchCard, MoveFetchCardIntoPlay, MoveFetchCardFromPlayedPile:
		return g.fetchCard(p, *m)
	case MoveFinishRiffle:
		return g.finishRiffle(p, *m)
	case MoveHideRevealedCards:
		if opp := g.Opponent(p.Username); opp != nil {
			opp.RevealedHand = false
		}
		return nil, nil
	case MoveUnselect:
		p.resetSelection()
		return nil, nil
	}
	return nil, ErrUnknownMove
}

// choiceMoves answer a pending CardChoice.
var choiceMoves = map[MoveType]bool{
	MoveMakeCard:                true,
	MoveMakeEffect:              true,
	MoveCancelMake:              true,
	MoveFetchCard:               true,
	MoveFetchCardIntoPlay:       true,
	MoveFetchCardFromPlayedPile: true,
	MoveFinishRiffle:            true,
}

// checkPriority enforces who may move. A player with a pending choice must
// answer it first and may do so without priority; everything else belongs
// to the priority holder.
func (g *Game) checkPriority(p *Player, mt MoveType) error {
	if p.CardChoiceInfo != nil {
		if !choiceMoves[mt] {
			return ErrPendingChoice
		}
		return nil
	}
	if choiceMoves[mt] {
		return ErrNoPendingChoice
	}
	if mt == MoveHideRevealedCards {
		return nil
	}
	if g.PriorityPlayer() != p {
		return ErrNotYourTurn
	}
	return nil
}

// getTime reports the advisory turn timer without touching the game.
func (e *Engine) getTime(g *Game, m *Move) error {
	if g.Status != StatusInProgress {
		return ErrWrongStatus
	}
	rope := time.Duration(g.Rules.RopeSeconds) * time.Second
	elapsed := e.clock().Sub(g.TurnStartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	m.Clock = &TurnClock{
		StartedAt: g.TurnStartedAt,
		Elapsed:   elapsed,
		Remaining: max(rope-elapsed, 0),
		Expired:   rope > 0 && elapsed >= rope,
	}
	return nil
}
