package game

import (
	"fmt"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StackKind tells how a stack entry resolves.
type StackKind string

const (
	StackCast      StackKind = "cast"
	StackActivated StackKind = "activated"
	StackAttack    StackKind = "attack"
)

// StackEntry pairs the move that declared an action with the card as it
// looked when the action was declared. A cast card lives only here until it
// resolves; attack and activation entries hold a copy of a card still on the
// board.
type StackEntry struct {
	ID        string      `json:"id"`
	Kind      StackKind   `json:"kind"`
	Owner     string      `json:"owner"`
	Move      Move        `json:"move"`
	Card      *cards.Card `json:"card"`
	ActorTurn int         `json:"actor_turn"`
	LogLines  []string    `json:"log_lines,omitempty"`
}

// StackID implements rules.StackItem.
func (e *StackEntry) StackID() string { return e.ID }

func (e *StackEntry) clone() *StackEntry {
	cp := *e
	cp.Move = e.Move.clone()
	cp.Card = e.Card.Clone()
	cp.LogLines = append([]string(nil), e.LogLines...)
	return &cp
}

// stackNamespace scopes entry ids so that replays reproduce them.
var stackNamespace = uuid.MustParse("6f1c9a52-4b0e-4d7a-9b1f-3c2d8e5a7f10")

func (g *Game) newStackEntry(kind StackKind, owner *Player, m Move, card *cards.Card) *StackEntry {
	g.StackSeq++
	return &StackEntry{
		ID:        uuid.NewSHA1(stackNamespace, fmt.Appendf(nil, "%s/%d", g.ID, g.StackSeq)).String(),
		Kind:      kind,
		Owner:     owner.Username,
		Move:      m.clone(),
		Card:      card,
		ActorTurn: g.Turns.ActorTurn,
	}
}

// pushOrResolve puts the entry on the stack and hands priority to the
// opponent. When the opponent has nothing to respond with, the entry comes
// straight back off and resolves, so both paths share one resolution.
func (g *Game) pushOrResolve(entry *StackEntry) []string {
	g.Stack.Push(entry)
	g.Turns.PassPriority()
	opp := g.Opponent(entry.Owner)
	if opp != nil && g.hasResponse(opp, entry) {
		return nil
	}
	return g.popAndResolve()
}

// popAndResolve resolves the top of the stack with priority restored to
// the player who declared it.
func (g *Game) popAndResolve() []string {
	entry, err := g.Stack.Pop()
	if err != nil {
		return nil
	}
	g.Turns.Restore(entry.ActorTurn)
	lines := g.resolveEntry(entry)
	if g.Stack.IsEmpty() {
		g.Turns.Settle()
	}
	return lines
}

func (g *Game) resolveEntry(entry *StackEntry) []string {
	owner := g.Player(entry.Owner)
	if owner == nil {
		return nil
	}
	if err := g.res.Begin(entry.ID); err != nil {
		g.logger.Warn("resolution aborted", zap.String("entry", entry.ID), zap.Error(err))
		return nil
	}
	defer g.res.End(entry.ID)

	var lines []string
	switch entry.Kind {
	case StackAttack:
		lines = g.resolveAttack(owner, entry)
	case StackActivated:
		lines = g.resolveActivation(owner, entry)
	default:
		lines = g.resolve(owner, entry).LogLines
	}
	lines = append(lines, g.checkState()...)
	return lines
}

// hasResponse reports whether p holds an instant-speed answer to entry.
func (g *Game) hasResponse(p *Player, entry *StackEntry) bool {
	if entry.Kind == StackAttack && len(g.defenders(p, entry)) > 0 {
		return true
	}
	for _, c := range p.Hand {
		if c.IsInstant() && g.canCast(p, c) == nil {
			return true
		}
	}
	return false
}
