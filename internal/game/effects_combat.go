package game

import (
	"fmt"
	"strings"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
)

func doDamage(ctx *effectContext) []string {
	if ctx.effect.TargetType.IsMulti() {
		return ctx.damageAll(ctx.amount())
	}
	return ctx.damageOne(ctx.amount())
}

// doManaToDamage empties the player's store_mana banks into damage.
func doManaToDamage(ctx *effectContext) []string {
	stored := 0
	for _, bank := range ctx.player.storeManaBanks() {
		stored += bank.Take(bank.Available())
	}
	if stored == 0 {
		return nil
	}
	if ctx.effect.TargetType.IsMulti() {
		return ctx.damageAll(stored)
	}
	return ctx.damageOne(stored)
}

func (ctx *effectContext) damageOne(amount int) []string {
	g := ctx.g
	if ctx.target.IsPlayer() {
		p := g.Player(ctx.target.Player)
		if p == nil {
			return nil
		}
		g.damagePlayer(p, amount)
		return []string{fmt.Sprintf("%s deals %d damage to %s.", ctx.source(), amount, p.Username)}
	}
	c, owner := ctx.targetCard()
	if c == nil || c.CardType != cards.TypeMob {
		return nil
	}
	if damageMob(c, amount) {
		return []string{fmt.Sprintf("%s's %s shields itself from %s.", owner.Username, c.Name, ctx.source())}
	}
	lines := []string{fmt.Sprintf("%s deals %d damage to %s's %s.", ctx.source(), amount, owner.Username, c.Name)}
	if c.IsDead() {
		lines = append(lines, g.sendCardToPlayedPile(owner, c, true)...)
	}
	return lines
}

func (ctx *effectContext) damageAll(amount int) []string {
	g := ctx.g
	mobs := ctx.targetMobs()
	players := ctx.targetPlayers()
	for _, m := range mobs {
		damageMob(m, amount)
	}
	for _, p := range players {
		g.damagePlayer(p, amount)
	}
	var parts []string
	if len(mobs) > 0 || len(players) == 0 {
		parts = append(parts, plural(len(mobs), "mob"))
	}
	if len(players) > 0 {
		parts = append(parts, plural(len(players), "player"))
	}
	lines := []string{fmt.Sprintf("%s deals %d damage to %s.", ctx.source(), amount, strings.Join(parts, " and "))}
	for _, m := range mobs {
		if !m.IsDead() {
			continue
		}
		if _, owner, z := g.findInPlay(m.ID); z == ZoneInPlay {
			lines = append(lines, g.sendCardToPlayedPile(owner, m, true)...)
		}
	}
	return lines
}

// doKill sends mobs straight to the played pile. A shielded mob loses its
// shield instead.
func doKill(ctx *effectContext) []string {
	g := ctx.g
	if !ctx.effect.TargetType.IsMulti() {
		c, owner := ctx.targetCard()
		if c == nil || !targeting.MatchesAll(ctx.effect.TargetRestrictions, c.Candidate(owner.Counts())) {
			return nil
		}
		if c.CardType == cards.TypeMob && c.Shielded {
			c.Shielded = false
			return []string{fmt.Sprintf("%s's %s shields itself from %s.", owner.Username, c.Name, ctx.source())}
		}
		lines := []string{fmt.Sprintf("%s kills %s's %s.", ctx.source(), owner.Username, c.Name)}
		return append(lines, g.sendCardToPlayedPile(owner, c, true)...)
	}
	var shielded, lines []string
	killed := 0
	for _, m := range ctx.targetMobs() {
		_, owner, z := g.findInPlay(m.ID)
		if z == ZoneNone {
			continue
		}
		if m.Shielded {
			m.Shielded = false
			shielded = append(shielded, fmt.Sprintf("%s's %s shields itself from %s.", owner.Username, m.Name, ctx.source()))
			continue
		}
		lines = append(lines, g.sendCardToPlayedPile(owner, m, true)...)
		killed++
	}
	out := append([]string{fmt.Sprintf("%s kills %s.", ctx.source(), plural(killed, "mob"))}, shielded...)
	return append(out, lines...)
}

func doHeal(ctx *effectContext) []string {
	amount := ctx.amount()
	var names []string
	for _, p := range ctx.targetPlayers() {
		ctx.g.healPlayer(p, amount)
		names = append(names, p.Username)
	}
	for _, m := range ctx.targetMobs() {
		m.Damage = max(m.Damage-amount, 0)
		names = append(names, m.Name)
	}
	if len(names) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("%s heals %s for %d.", ctx.source(), strings.Join(names, " and "), amount)}
}

// doUnwind returns mobs to their owners' hands. A full hand sends the card
// to the played pile instead.
func doUnwind(ctx *effectContext) []string {
	g := ctx.g
	mobs := ctx.targetMobs()
	if len(mobs) == 0 {
		return nil
	}
	var lines []string
	if len(mobs) == 1 {
		_, ctrl, _ := g.findInPlay(mobs[0].ID)
		lines = append(lines, fmt.Sprintf("%s returns %s's %s to hand.", ctx.source(), ctrl.Username, mobs[0].Name))
	} else {
		lines = append(lines, fmt.Sprintf("%s returns %s to hand.", ctx.source(), plural(len(mobs), "mob")))
	}
	for _, m := range mobs {
		_, ctrl, z := g.findInPlay(m.ID)
		if z == ZoneNone {
			continue
		}
		left, reset := g.leavePlay(ctrl, m)
		lines = append(lines, left...)
		owner := g.Player(reset.Owner)
		if owner == nil {
			owner = ctrl
		}
		g.addToHand(owner, reset)
	}
	return lines
}

// doTakeControl moves an opposing mob or artifact to the player's board.
// The card changes owner, arrives summoning sick and loses the old side's
// equipment.
func doTakeControl(ctx *effectContext) []string {
	g := ctx.g
	c, owner := ctx.targetCard()
	if c == nil || owner == ctx.player || !g.hasRoomFor(ctx.player, c) {
		return nil
	}
	_, _, zone := g.findInPlay(c.ID)
	owner.remove(zone, c.ID)
	for _, a := range owner.Artifacts {
		c.RemoveTokensFrom(a.ID)
	}
	if zone == ZoneArtifacts {
		g.unequip(c.ID)
	}
	owner.Mana.Clamp()
	c.Owner = ctx.player.Username
	c.TurnPlayed = g.Turns.Turn
	c.Attacked = false
	dst := ctx.player.zone(zone)
	*dst = append(*dst, c)
	return []string{fmt.Sprintf("%s takes control of %s's %s.", ctx.player.Username, owner.Username, c.Name)}
}

func doSwitchHitPoints(ctx *effectContext) []string {
	opp := ctx.opponent()
	if opp == nil {
		return nil
	}
	p := ctx.player
	p.HitPoints, opp.HitPoints = min(opp.HitPoints, ctx.g.Rules.MaxHitPoints), min(p.HitPoints, ctx.g.Rules.MaxHitPoints)
	return []string{fmt.Sprintf("%s switches hit points with %s.", ctx.source(), opp.Username)}
}

// doImproveDamageWhenUsed makes every damage effect on the card stronger.
func doImproveDamageWhenUsed(ctx *effectContext) []string {
	for i := range ctx.card.Effects {
		if ctx.card.Effects[i].Name == cards.EffectDamage {
			ctx.card.Effects[i].Amount += ctx.amount()
		}
	}
	return nil
}

func doSetCanAttack(ctx *effectContext) []string {
	mobs := ctx.targetMobs()
	for _, m := range mobs {
		m.Attacked = false
	}
	if len(mobs) == 0 {
		return nil
	}
	if len(mobs) == 1 {
		return []string{fmt.Sprintf("%s readies %s.", ctx.source(), mobs[0].Name)}
	}
	return []string{fmt.Sprintf("%s readies %s.", ctx.source(), plural(len(mobs), "mob"))}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
