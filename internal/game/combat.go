package game

import (
	"fmt"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
)

// canAttack reports why the mob may not attack right now, if it may not.
func (g *Game) canAttack(p *Player, c *cards.Card) error {
	if p.FindIn(ZoneInPlay, c.ID) == nil {
		return fmt.Errorf("%w: card %d is not in play", ErrCannotAttack, c.ID)
	}
	if !g.Stack.IsEmpty() {
		return ErrStackNotEmpty
	}
	if c.Attacked {
		return fmt.Errorf("%w: %s already acted this turn", ErrCannotAttack, c.Name)
	}
	if c.CantAct() {
		return fmt.Errorf("%w: %s can't act", ErrCannotAttack, c.Name)
	}
	if g.summoningSick(c) && !c.HasAbility(cards.AbilityAmbush) {
		return fmt.Errorf("%w: %s was played this turn", ErrCannotAttack, c.Name)
	}
	if len(g.attackTargets(p, c)) == 0 {
		return fmt.Errorf("%w: %s has nothing to attack", ErrCannotAttack, c.Name)
	}
	return nil
}

// summoningSick reports whether the mob entered play this turn without Fast.
func (g *Game) summoningSick(c *cards.Card) bool {
	return c.TurnPlayed == g.Turns.Turn && !c.HasAbility(cards.AbilityFast)
}

// attackTargets lists what the mob may attack. Guard mobs must be attacked
// first, Lurker mobs can't be attacked, and an Ambush mob that just arrived
// may only attack mobs.
func (g *Game) attackTargets(p *Player, c *cards.Card) []targeting.Ref {
	opp := g.Opponent(p.Username)
	if opp == nil {
		return nil
	}
	var guards, mobs []targeting.Ref
	for _, m := range opp.InPlay {
		if m.IsDead() || m.HasAbility(cards.AbilityLurker) {
			continue
		}
		ref := targeting.Card(m.ID)
		mobs = append(mobs, ref)
		if m.HasAbility(cards.AbilityGuard) {
			guards = append(guards, ref)
		}
	}
	if len(guards) > 0 {
		return guards
	}
	if g.summoningSick(c) {
		return mobs
	}
	return append([]targeting.Ref{targeting.Player(opp.Username)}, mobs...)
}

func attackRef(opp *Player, defendingCard int) targeting.Ref {
	if defendingCard == 0 {
		return targeting.Player(opp.Username)
	}
	return targeting.Card(defendingCard)
}

// declareAttack marks the attacker as spent and puts the attack on the stack.
func (g *Game) declareAttack(p *Player, c *cards.Card, m Move) ([]string, error) {
	if err := g.canAttack(p, c); err != nil {
		return nil, err
	}
	opp := g.Opponent(p.Username)
	want := attackRef(opp, m.DefendingCard)
	legal := false
	for _, ref := range g.attackTargets(p, c) {
		if ref == want {
			legal = true
			break
		}
	}
	if !legal {
		return nil, fmt.Errorf("%w: %s can't attack %s", ErrNoLegalTarget, c.Name, g.targetName(want))
	}
	c.Attacked = true
	c.DisableAbility(cards.AbilityLurker)
	p.resetSelection()
	m.Card = c.ID
	m.EffectTargets = []targeting.Ref{want}
	entry := g.newStackEntry(StackAttack, p, m, c.Clone())
	return g.pushOrResolve(entry), nil
}

// defenders lists p's mobs able to step in front of the attack.
func (g *Game) defenders(p *Player, entry *StackEntry) []*cards.Card {
	if entry.Kind != StackAttack || entry.Owner == p.Username {
		return nil
	}
	if attacker, _, _ := g.findInPlay(entry.Card.ID); attacker == nil {
		return nil
	}
	var out []*cards.Card
	for _, m := range p.InPlay {
		if m.ID == entry.Move.DefendingCard || m.IsDead() || m.CantAct() {
			continue
		}
		if m.HasAbility(cards.AbilityDefend) {
			out = append(out, m)
		}
	}
	return out
}

// pendingAttackOn returns the attack on top of the stack aimed at p's side.
func (g *Game) pendingAttackOn(p *Player) *StackEntry {
	top, ok := g.Stack.Peek()
	if !ok || top.Kind != StackAttack || top.Owner == p.Username {
		return nil
	}
	return top
}

// defend redirects the attack on top of the stack to one of p's Defend mobs
// and resolves it.
func (g *Game) defend(p *Player, c *cards.Card) ([]string, error) {
	entry := g.pendingAttackOn(p)
	if entry == nil {
		return nil, fmt.Errorf("%w: no attack to defend", ErrNoLegalTarget)
	}
	for _, d := range g.defenders(p, entry) {
		if d.ID != c.ID {
			continue
		}
		entry.Move.DefendingCard = c.ID
		entry.Move.EffectTargets = []targeting.Ref{targeting.Card(c.ID)}
		lines := []string{fmt.Sprintf("%s's %s defends.", p.Username, c.Name)}
		return append(lines, g.popAndResolve()...), nil
	}
	return nil, fmt.Errorf("%w: %s can't defend", ErrNoLegalTarget, c.Name)
}

// resolveAttack deals combat damage for an attack taken off the stack.
func (g *Game) resolveAttack(owner *Player, entry *StackEntry) []string {
	attacker := owner.FindIn(ZoneInPlay, entry.Card.ID)
	opp := g.Opponent(owner.Username)
	if attacker == nil || opp == nil {
		return nil
	}
	power := attacker.PowerWithTokens(owner.Counts())
	if entry.Move.DefendingCard == 0 {
		dealt := g.damagePlayer(opp, power)
		return []string{fmt.Sprintf("%s's %s attacks %s for %d.", owner.Username, attacker.Name, opp.Username, dealt)}
	}
	defender := opp.FindIn(ZoneInPlay, entry.Move.DefendingCard)
	if defender == nil {
		return nil
	}
	return g.resolveCombat(owner, attacker, opp, defender)
}

// resolveCombat trades damage between two mobs. Stomp carries damage past
// lethal to the defending player. The attacker is swept before the defender.
func (g *Game) resolveCombat(p *Player, attacker *cards.Card, opp *Player, defender *cards.Card) []string {
	attackPower := attacker.PowerWithTokens(p.Counts())
	defendPower := defender.PowerWithTokens(opp.Counts())
	remaining := defender.ToughnessWithTokens() - defender.Damage

	lines := []string{fmt.Sprintf("%s's %s attacks %s's %s.", p.Username, attacker.Name, opp.Username, defender.Name)}
	defenderAbsorbed := damageMob(defender, attackPower)
	damageMob(attacker, defendPower)

	if attacker.HasAbility(cards.AbilityStomp) && !defenderAbsorbed {
		if excess := attackPower - max(remaining, 0); excess > 0 {
			dealt := g.damagePlayer(opp, excess)
			lines = append(lines, fmt.Sprintf("%s's %s stomps %s for %d.", p.Username, attacker.Name, opp.Username, dealt))
		}
	}
	if attacker.IsDead() {
		lines = append(lines, g.sendCardToPlayedPile(p, attacker, true)...)
	}
	if defender.IsDead() {
		lines = append(lines, g.sendCardToPlayedPile(opp, defender, true)...)
	}
	return lines
}
