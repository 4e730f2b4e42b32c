package game

import (
	"fmt"

	"github.com/duelhall/duel-server-go/internal/game/cards"
)

func doIncreaseMaxMana(ctx *effectContext) []string {
	var lines []string
	for _, p := range ctx.targetPlayers() {
		p.Mana.IncreaseMax(ctx.amount())
		lines = append(lines, fmt.Sprintf("%s raises %s's max mana to %d.", ctx.source(), p.Username, p.Mana.Max))
	}
	return lines
}

func doDecreaseMaxMana(ctx *effectContext) []string {
	var lines []string
	for _, p := range ctx.targetPlayers() {
		p.Mana.DecreaseMax(ctx.amount())
		lines = append(lines, fmt.Sprintf("%s lowers %s's max mana to %d.", ctx.source(), p.Username, p.Mana.Max))
	}
	return lines
}

func doAddMana(ctx *effectContext) []string {
	var lines []string
	for _, p := range ctx.targetPlayers() {
		p.Mana.Add(ctx.amount())
		lines = append(lines, fmt.Sprintf("%s gives %s %d mana.", ctx.source(), p.Username, ctx.amount()))
	}
	return lines
}

// doRefreshMana refills the pool. As a passive artifact effect it never
// fires; the pool draws on it through spendMana instead.
func doRefreshMana(ctx *effectContext) []string {
	var lines []string
	for _, p := range ctx.targetPlayers() {
		p.Mana.Refill()
		lines = append(lines, fmt.Sprintf("%s refreshes %s's mana.", ctx.source(), p.Username))
	}
	return lines
}

// doStoreMana banks whatever is left in the pool on the artifact.
func doStoreMana(ctx *effectContext) []string {
	stored := ctx.player.Mana.Drain()
	if stored == 0 {
		return nil
	}
	ctx.effect.Counters += stored
	return []string{fmt.Sprintf("%s stores %d mana.", ctx.source(), stored)}
}

// doBuffFromMana spends the whole pool to grow the target by that much.
func doBuffFromMana(ctx *effectContext) []string {
	c, _ := ctx.targetCard()
	if c == nil || c.CardType != cards.TypeMob {
		return nil
	}
	x := ctx.player.Mana.Drain()
	if x == 0 {
		return nil
	}
	turns := -1
	if len(ctx.effect.Tokens) > 0 {
		turns = ctx.effect.Tokens[0].Turns
	}
	c.Tokens = append(c.Tokens, cards.Token{PowerModifier: x, ToughnessModifier: x, Turns: turns})
	return []string{fmt.Sprintf("%s gives %s +%d/+%d.", ctx.source(), c.Name, x, x)}
}
