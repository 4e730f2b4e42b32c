package game

import (
	"fmt"
	"strings"

	"github.com/duelhall/duel-server-go/internal/game/cards"
)

func describeTokens(tokens []cards.Token) string {
	power, toughness := 0, 0
	for _, t := range tokens {
		power += t.PowerModifier
		toughness += t.ToughnessModifier
	}
	return fmt.Sprintf("%+d/%+d", power, toughness)
}

func doAddTokens(ctx *effectContext) []string {
	targets := ctx.targetBoardCards()
	if len(targets) == 0 {
		return nil
	}
	tokens := ctx.tokens(ctx.amount(), ctx.amount())
	for _, c := range targets {
		c.Tokens = append(c.Tokens, tokens...)
	}
	if len(targets) == 1 {
		return []string{fmt.Sprintf("%s gives %s %s.", ctx.source(), targets[0].Name, describeTokens(tokens))}
	}
	return []string{fmt.Sprintf("%s gives %s %s.", ctx.source(), plural(len(targets), "mob"), describeTokens(tokens))}
}

func abilityNames(abilities []cards.Ability) string {
	names := make([]string, len(abilities))
	for i, a := range abilities {
		names[i] = string(a.Name)
	}
	return strings.Join(names, ", ")
}

func grant(c *cards.Card, a cards.Ability) {
	c.AddAbility(a)
	if a.Name == cards.AbilityShield {
		c.Shielded = true
	}
}

func doAddAbilities(ctx *effectContext) []string {
	targets := ctx.targetBoardCards()
	if len(targets) == 0 || len(ctx.effect.Abilities) == 0 {
		return nil
	}
	for _, c := range targets {
		for _, a := range ctx.effect.Abilities {
			grant(c, a)
		}
	}
	who := plural(len(targets), "mob")
	if len(targets) == 1 {
		who = targets[0].Name
	}
	return []string{fmt.Sprintf("%s gives %s %s.", ctx.source(), who, abilityNames(ctx.effect.Abilities))}
}

// doRemoveAbilities disables the listed abilities, or all of them when the
// effect lists none.
func doRemoveAbilities(ctx *effectContext) []string {
	targets := ctx.targetBoardCards()
	if len(targets) == 0 {
		return nil
	}
	for _, c := range targets {
		if len(ctx.effect.Abilities) == 0 {
			for _, a := range c.Abilities {
				c.DisableAbility(a.Name)
			}
			continue
		}
		for _, a := range ctx.effect.Abilities {
			c.DisableAbility(a.Name)
		}
	}
	if len(targets) == 1 {
		return []string{fmt.Sprintf("%s strips %s's abilities.", ctx.source(), targets[0].Name)}
	}
	return []string{fmt.Sprintf("%s strips the abilities of %s.", ctx.source(), plural(len(targets), "mob"))}
}

func doAddPlayerAbilities(ctx *effectContext) []string {
	var lines []string
	for _, p := range ctx.targetPlayers() {
		for _, a := range ctx.effect.Abilities {
			a.Enabled = true
			found := false
			for i := range p.Abilities {
				if p.Abilities[i].Name == a.Name {
					p.Abilities[i].Enabled = true
					found = true
				}
			}
			if !found {
				p.Abilities = append(p.Abilities, a)
			}
		}
		lines = append(lines, fmt.Sprintf("%s gives %s %s.", ctx.source(), p.Username, abilityNames(ctx.effect.Abilities)))
	}
	return lines
}

// doGainRandomAbility grants one keyword the target does not already have,
// drawn from the effect's list or from every keyword.
func doGainRandomAbility(ctx *effectContext) []string {
	c, _ := ctx.targetCard()
	if c == nil {
		return nil
	}
	var pool []cards.Ability
	if len(ctx.effect.Abilities) > 0 {
		pool = ctx.effect.Abilities
	} else {
		for _, name := range cards.Keywords {
			pool = append(pool, cards.Ability{Name: name})
		}
	}
	var missing []cards.Ability
	for _, a := range pool {
		if !c.HasAbility(a.Name) {
			missing = append(missing, a)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	a := missing[ctx.g.rng.Intn(len(missing))]
	grant(c, a)
	return []string{fmt.Sprintf("%s gives %s %s.", ctx.source(), c.Name, a.Name)}
}

func doDoublePower(ctx *effectContext) []string {
	var lines []string
	for _, c := range ctx.targetMobs() {
		_, owner, _ := ctx.g.findInPlay(c.ID)
		power := c.PowerWithTokens(owner.Counts())
		c.Tokens = append(c.Tokens, cards.Token{PowerModifier: power, Turns: -1})
		lines = append(lines, fmt.Sprintf("%s doubles %s's power.", ctx.source(), c.Name))
	}
	return lines
}

// doGainForToughness heals the player by the target's toughness.
func doGainForToughness(ctx *effectContext) []string {
	c, _ := ctx.targetCard()
	if c == nil || c.CardType != cards.TypeMob {
		return nil
	}
	gain := c.ToughnessWithTokens()
	ctx.g.healPlayer(ctx.player, gain)
	return []string{fmt.Sprintf("%s gains %d hit points from %s.", ctx.player.Username, gain, c.Name)}
}

// doEquipToMob moves the artifact's tokens onto the target mob. The tokens
// carry the artifact's id so they fall off when it leaves play.
func doEquipToMob(ctx *effectContext) []string {
	c, owner := ctx.targetCard()
	if c == nil || c.CardType != cards.TypeMob || owner != ctx.player {
		return nil
	}
	ctx.g.unequip(ctx.card.ID)
	tokens := ctx.tokens(ctx.amount(), ctx.amount())
	for i := range tokens {
		tokens[i].ID = ctx.card.ID
		tokens[i].Turns = -1
	}
	c.Tokens = append(c.Tokens, tokens...)
	for _, a := range ctx.effect.Abilities {
		grant(c, a)
	}
	return []string{fmt.Sprintf("%s equips %s.", ctx.source(), c.Name)}
}
