package game

import (
	"fmt"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"go.uber.org/zap"
)

// resolve finishes playing a card taken off the stack. Spells fire their
// spell effects and go to the played pile; mobs and artifacts enter play
// and fire their enter_play effects. A permanent with no room left fizzles
// into the played pile.
func (g *Game) resolve(p *Player, entry *StackEntry) *StackEntry {
	c := entry.Card
	var lines []string
	switch c.CardType {
	case cards.TypeSpell:
		lines = g.fireEffects(p, c, cards.EffectSpell, entry.Move)
		if !g.inAnyPlayedPile(c.ID) {
			p.PlayedPile = append(p.PlayedPile, g.factoryResetCard(c))
		}
	default:
		entered, ok := g.putIntoPlay(p, c, entry.Move)
		if !ok {
			p.PlayedPile = append(p.PlayedPile, g.factoryResetCard(c))
			lines = append(lines, fmt.Sprintf("%s's %s fizzles.", p.Username, c.Name))
			break
		}
		lines = entered
	}
	entry.LogLines = append(entry.LogLines, lines...)
	g.logger.Debug("card resolved",
		zap.String("player", p.Username),
		zap.String("card", c.Name),
		zap.Int("card_id", c.ID),
	)
	return entry
}

// resolveActivation runs an activated effect of a card still on the board.
// A card that left play in the meantime does nothing.
func (g *Game) resolveActivation(owner *Player, entry *StackEntry) []string {
	live, ctrl, _ := g.findInPlay(entry.Card.ID)
	if live == nil || ctrl != owner {
		return nil
	}
	idx := entry.Move.EffectIndex
	if idx < 0 || idx >= len(live.Effects) {
		return nil
	}
	e := &live.Effects[idx]
	return g.applyEffect(ctrl, live, idx, g.effectTarget(ctrl, live, e, entry.Move.target(idx)))
}
