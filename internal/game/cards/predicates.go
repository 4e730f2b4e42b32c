package cards

import "github.com/duelhall/duel-server-go/internal/game/targeting"

// CastEffect returns the effect that decides targeting when the card is
// played: the first declared effect, if it fires on cast or on entering play.
func (c *Card) CastEffect() (Effect, bool) {
	if len(c.Effects) == 0 {
		return Effect{}, false
	}
	e := c.Effects[0]
	if e.EffectType != EffectSpell && e.EffectType != EffectEnterPlay {
		return Effect{}, false
	}
	return e, true
}

// CastTargetType is the target type of the cast effect.
func (c *Card) CastTargetType() targeting.TargetType {
	e, ok := c.CastEffect()
	if !ok {
		return ""
	}
	return e.TargetType
}

// NeedsTargets reports whether playing the card requires choosing a target.
func (c *Card) NeedsTargets() bool {
	return c.CastTargetType().NeedsChoice()
}

// NeedsMobTarget reports whether the card is cast at a mob.
func (c *Card) NeedsMobTarget() bool {
	tt := c.CastTargetType()
	return tt.NeedsChoice() && tt.AllowsMob()
}

// NeedsArtifactTarget reports whether the card is cast at an artifact.
func (c *Card) NeedsArtifactTarget() bool {
	tt := c.CastTargetType()
	return tt.NeedsChoice() && tt.AllowsArtifact()
}

// CanTargetOpponent reports whether the cast target may be the opponent.
func (c *Card) CanTargetOpponent() bool {
	return c.CastTargetType().AllowsPlayer()
}

// CanTargetSelf reports whether the cast target may be the caster.
func (c *Card) CanTargetSelf() bool {
	return c.CastTargetType().AllowsPlayer()
}

// NeedsStackTarget reports whether the card is cast at a spell on the stack.
func (c *Card) NeedsStackTarget() bool {
	return c.CastTargetType().AllowsStack()
}

// IsInstant reports whether the card can be played while the opponent has priority.
func (c *Card) IsInstant() bool {
	return c.HasAbility(AbilityInstant)
}
