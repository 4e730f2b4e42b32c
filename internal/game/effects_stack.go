package game

import (
	"fmt"

	"github.com/duelhall/duel-server-go/internal/game/targeting"
)

// doCounterSpell takes a cast card off the stack unresolved.
func doCounterSpell(ctx *effectContext) []string {
	g := ctx.g
	if !ctx.target.IsStack() {
		return nil
	}
	entry := g.stackEntryForCard(ctx.target.CardID)
	if entry == nil {
		return nil
	}
	g.Stack.Remove(entry.ID)
	owner := g.Player(entry.Owner)
	if owner == nil {
		return nil
	}
	owner.PlayedPile = append(owner.PlayedPile, g.factoryResetCard(entry.Card))
	return []string{fmt.Sprintf("%s counters %s's %s.", ctx.source(), owner.Username, entry.Card.Name)}
}

// doRedirectMobSpell points a mob-targeting spell on the stack at another
// random mob it could legally target.
func doRedirectMobSpell(ctx *effectContext) []string {
	g := ctx.g
	if !ctx.target.IsStack() {
		return nil
	}
	entry := g.stackEntryForCard(ctx.target.CardID)
	if entry == nil {
		return nil
	}
	cast, ok := entry.Card.CastEffect()
	if !ok || !cast.TargetType.NeedsChoice() || !cast.TargetType.AllowsMob() {
		return nil
	}
	current := entry.Move.target(0)
	var options []int
	for _, p := range g.Players {
		for _, m := range p.InPlay {
			if current.IsCard() && current.CardID == m.ID {
				continue
			}
			if g.validator().Validate(entry.Owner, cast.TargetType, cast.TargetRestrictions, targeting.Card(m.ID)) == nil {
				options = append(options, m.ID)
			}
		}
	}
	if len(options) == 0 {
		return nil
	}
	ref := targeting.Card(options[g.rng.Intn(len(options))])
	if len(entry.Move.EffectTargets) == 0 {
		entry.Move.EffectTargets = []targeting.Ref{ref}
	} else {
		entry.Move.EffectTargets[0] = ref
	}
	return []string{fmt.Sprintf("%s redirects %s's %s to %s.", ctx.source(), entry.Owner, entry.Card.Name, g.targetName(ref))}
}

func doExtraTurn(ctx *effectContext) []string {
	ctx.player.ExtraTurns++
	return []string{fmt.Sprintf("%s grants %s an extra turn.", ctx.source(), ctx.player.Username)}
}
