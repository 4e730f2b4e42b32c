package game

import (
	"fmt"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"go.uber.org/zap"
)

// join seats a player with their deck, shuffles it and deals the opening
// hand. The second player to join moves the game to AwaitingFirstTurn.
func (e *Engine) join(g *Game, m *Move) ([]string, error) {
	if m.Username == "" {
		return nil, fmt.Errorf("%w: empty username", ErrNotJoined)
	}
	if g.Player(m.Username) != nil {
		return nil, ErrAlreadyJoined
	}
	if g.Status != StatusAwaitingJoin || len(g.Players) >= 2 {
		return nil, ErrGameFull
	}
	names := m.Deck
	if len(names) == 0 {
		names = g.Rules.DefaultDeck
	}
	if len(names) == 0 && e.catalog != nil {
		for _, t := range e.catalog.All() {
			names = append(names, t.Name)
		}
	}
	p := newPlayer(m.Username, g.Rules)
	for _, name := range names {
		c, err := g.newCard(name, p.Username)
		if err != nil {
			return nil, err
		}
		p.Deck = append(p.Deck, c)
	}
	g.Players = append(g.Players, p)
	g.shuffle(p.Deck)
	lines := []string{fmt.Sprintf("%s joins the game.", p.Username)}
	lines = append(lines, g.drawCards(p, g.Rules.StartingHandSize)...)
	if len(g.Players) == 2 {
		g.Status = StatusAwaitingFirstTurn
	}
	g.logger.Info("player joined",
		zap.String("player", p.Username),
		zap.Int("deck_size", len(p.Deck)+len(p.Hand)),
		zap.Int("seat", len(g.Players)-1),
	)
	return lines, nil
}

// startFirstTurn begins play. Only the first seat may start, and the first
// turn has no draw.
func (e *Engine) startFirstTurn(g *Game, p *Player) ([]string, error) {
	if g.Status != StatusAwaitingFirstTurn {
		return nil, ErrWrongStatus
	}
	if g.Players[0] != p {
		return nil, ErrNotYourTurn
	}
	g.Status = StatusInProgress
	g.Turns.Turn = 0
	g.Turns.Settle()
	return e.startTurn(g, false), nil
}

// startTurn grows and refills the active player's mana, readies their
// board, draws and fires start_turn effects.
func (e *Engine) startTurn(g *Game, draw bool) []string {
	p := g.ActivePlayer()
	p.Mana.IncreaseMax(1)
	p.Mana.Refill()
	p.RefreshUsed = false
	for _, c := range p.Board() {
		c.Attacked = false
	}
	g.TurnStartedAt = e.clock()

	var lines []string
	if draw {
		lines = append(lines, g.drawCards(p, 1)...)
	}
	lines = append(lines, g.fireBoard(p, cards.EffectStartTurn)...)
	g.logger.Debug("turn started", zap.String("player", p.Username), zap.Int("turn", g.Turns.Turn))
	return lines
}

// fireBoard fires a phase's effects for every card on p's board, skipping
// cards that left play earlier in the same pass.
func (g *Game) fireBoard(p *Player, phase cards.EffectType) []string {
	var lines []string
	for _, c := range p.Board() {
		if live, owner, _ := g.findInPlay(c.ID); live == nil || owner != p {
			continue
		}
		lines = append(lines, g.fireEffects(p, c, phase, Move{})...)
	}
	return lines
}

// endTurn fires end_turn effects, ages tokens and passes the turn. A player
// with an extra turn banked keeps the seat.
func (e *Engine) endTurn(g *Game, p *Player) ([]string, error) {
	if !g.Stack.IsEmpty() {
		return nil, ErrStackNotEmpty
	}
	lines := g.fireBoard(p, cards.EffectEndTurn)
	for _, pl := range g.Players {
		for _, c := range pl.Board() {
			c.TickTokens()
		}
		pl.resetSelection()
		pl.CardChoiceInfo = nil
	}
	lines = append(lines, g.checkState()...)
	if g.IsOver() {
		return lines, nil
	}
	step := 1
	if p.ExtraTurns > 0 {
		p.ExtraTurns--
		step = 2
	}
	g.Turns.Advance(step)
	return append(lines, e.startTurn(g, true)...), nil
}
