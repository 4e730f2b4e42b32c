package game

import (
	"fmt"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
)

// legalTargets enumerates every ref the actor could choose for an effect,
// in seat then board order: players, mobs, artifacts, then stack spells.
func (g *Game) legalTargets(actor string, e cards.Effect) []targeting.Ref {
	tt := e.TargetType
	if !tt.NeedsChoice() {
		return nil
	}
	v := g.validator()
	var out []targeting.Ref
	try := func(ref targeting.Ref) {
		if v.Validate(actor, tt, e.TargetRestrictions, ref) == nil {
			out = append(out, ref)
		}
	}
	if tt.AllowsPlayer() {
		for _, p := range g.Players {
			try(targeting.Player(p.Username))
		}
	}
	for _, p := range g.Players {
		for _, c := range p.InPlay {
			if !c.IsDead() {
				try(targeting.Card(c.ID))
			}
		}
		for _, c := range p.Artifacts {
			try(targeting.Card(c.ID))
		}
	}
	if tt.AllowsStack() {
		for _, entry := range g.Stack.Items {
			if entry.Kind == StackCast {
				try(targeting.Stack(entry.Card.ID))
			}
		}
	}
	return out
}

// castTargets lists legal targets for playing c from p's hand.
func (g *Game) castTargets(p *Player, c *cards.Card) []targeting.Ref {
	e, ok := c.CastEffect()
	if !ok {
		return nil
	}
	return g.legalTargets(p.Username, e)
}

// canCast reports why c can't be played from p's hand right now.
func (g *Game) canCast(p *Player, c *cards.Card) error {
	if p.FindIn(ZoneHand, c.ID) == nil {
		return fmt.Errorf("%w: card %d is not in hand", ErrUnknownCard, c.ID)
	}
	if !g.Stack.IsEmpty() && !c.IsInstant() {
		return ErrNotInstant
	}
	if !g.hasRoomFor(p, c) {
		return fmt.Errorf("%w: no room for %s", ErrZoneFull, c.Name)
	}
	if p.AvailableMana() < c.Cost {
		return fmt.Errorf("%w: %s costs %d", ErrInsufficientMana, c.Name, c.Cost)
	}
	if c.NeedsTargets() && len(g.castTargets(p, c)) == 0 {
		return fmt.Errorf("%w for %s", ErrNoLegalTarget, c.Name)
	}
	return nil
}

// checkCastTarget validates the chosen target of c's cast effect.
func (g *Game) checkCastTarget(p *Player, c *cards.Card, ref targeting.Ref) error {
	if !c.NeedsTargets() {
		return nil
	}
	e, _ := c.CastEffect()
	if err := g.validator().Validate(p.Username, e.TargetType, e.TargetRestrictions, ref); err != nil {
		return fmt.Errorf("%w: %v", ErrNoLegalTarget, err)
	}
	return nil
}

// activatedIndex picks the activated effect a move refers to: the given
// index when it names one, otherwise the first activated effect.
func activatedIndex(c *cards.Card, idx int) int {
	if idx >= 0 && idx < len(c.Effects) && c.Effects[idx].EffectType == cards.EffectActivated {
		return idx
	}
	for i, e := range c.Effects {
		if e.EffectType == cards.EffectActivated {
			return i
		}
	}
	return -1
}

// canActivate reports why the effect at idx of p's card can't be used now.
// Each mob or artifact acts once per turn.
func (g *Game) canActivate(p *Player, c *cards.Card, idx int) error {
	if p.FindIn(ZoneInPlay, c.ID) == nil && p.FindIn(ZoneArtifacts, c.ID) == nil {
		return fmt.Errorf("%w: card %d is not in play", ErrCannotActivate, c.ID)
	}
	if idx < 0 || idx >= len(c.Effects) {
		return fmt.Errorf("%w: %s has no activated effect", ErrCannotActivate, c.Name)
	}
	e := c.Effects[idx]
	if e.EffectType != cards.EffectActivated || !e.Usable() {
		return fmt.Errorf("%w: effect %d of %s is not usable", ErrCannotActivate, idx, c.Name)
	}
	if !g.Stack.IsEmpty() {
		return ErrStackNotEmpty
	}
	if c.Attacked {
		return fmt.Errorf("%w: %s already acted this turn", ErrCannotActivate, c.Name)
	}
	if c.CantAct() {
		return fmt.Errorf("%w: %s can't act", ErrCannotActivate, c.Name)
	}
	if c.CardType == cards.TypeMob && g.summoningSick(c) {
		return fmt.Errorf("%w: %s was played this turn", ErrCannotActivate, c.Name)
	}
	if p.AvailableMana() < e.Cost {
		return fmt.Errorf("%w: activation costs %d", ErrInsufficientMana, e.Cost)
	}
	if e.CostHP > 0 && e.CostHP >= p.HitPoints {
		return fmt.Errorf("%w: activation costs %d hit points", ErrInsufficientLife, e.CostHP)
	}
	if e.TargetType.NeedsChoice() && len(g.legalTargets(p.Username, e)) == 0 {
		return fmt.Errorf("%w for %s", ErrNoLegalTarget, c.Name)
	}
	return nil
}

// activationReason is the targeting reason for activating c.
func activationReason(c *cards.Card) TargetReason {
	if c.CardType == cards.TypeArtifact {
		return ReasonArtifactActivated
	}
	return ReasonMobActivated
}

// castReason is the targeting reason for playing c.
func castReason(c *cards.Card) TargetReason {
	if c.CardType == cards.TypeSpell {
		return ReasonSpellCast
	}
	return ReasonMobComesIntoPlay
}
