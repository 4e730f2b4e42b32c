package game

import (
	"fmt"
	"slices"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
)

func doDraw(ctx *effectContext) []string {
	var lines []string
	for _, p := range ctx.targetPlayers() {
		before := len(p.Hand)
		drawLines := ctx.g.drawCards(p, ctx.amount())
		lines = append(lines, fmt.Sprintf("%s draws %s.", p.Username, plural(len(p.Hand)-before, "card")))
		lines = append(lines, drawLines...)
	}
	return lines
}

func doDiscardRandom(ctx *effectContext) []string {
	var lines []string
	for _, p := range ctx.targetPlayers() {
		var ids []int
		for _, i := range ctx.g.pick(len(p.Hand), ctx.amount()) {
			ids = append(ids, p.Hand[i].ID)
		}
		for _, id := range ids {
			c := p.remove(ZoneHand, id)
			p.PlayedPile = append(p.PlayedPile, ctx.g.factoryResetCard(c))
		}
		if len(ids) > 0 {
			lines = append(lines, fmt.Sprintf("%s discards %s at random.", p.Username, plural(len(ids), "card")))
		}
	}
	return lines
}

// templateNames lists catalog names matching the restrictions, sorted.
func (g *Game) templateNames(restrictions []targeting.Restriction, keep func(cards.Template) bool) []string {
	if g.catalog == nil {
		return nil
	}
	var names []string
	for _, t := range g.catalog.All() {
		if keep != nil && !keep(t) {
			continue
		}
		if targeting.MatchesAll(restrictions, t.Candidate()) {
			names = append(names, t.Name)
		}
	}
	return names
}

func (g *Game) sampleNames(pool []string, n int) []string {
	out := make([]string, 0, n)
	for _, i := range g.pick(len(pool), n) {
		out = append(out, pool[i])
	}
	return out
}

func (g *Game) sampleIDs(zone []*cards.Card, restrictions []targeting.Restriction, counts cards.BoardCounts, keep func(*cards.Card) bool, n int) []int {
	var pool []int
	for _, c := range zone {
		if keep != nil && !keep(c) {
			continue
		}
		if targeting.MatchesAll(restrictions, c.Candidate(counts)) {
			pool = append(pool, c.ID)
		}
	}
	if n <= 0 {
		return pool
	}
	out := make([]int, 0, n)
	for _, i := range g.pick(len(pool), n) {
		out = append(out, pool[i])
	}
	return out
}

// offer installs a choice prompt, replacing none when there is nothing to offer.
func (ctx *effectContext) offer(choice CardChoice, verb string) []string {
	if len(choice.Names) == 0 && len(choice.CardIDs) == 0 {
		return nil
	}
	choice.SourceCardID = ctx.card.ID
	ctx.player.CardChoiceInfo = &choice
	return []string{fmt.Sprintf("%s %s.", ctx.source(), verb)}
}

func doMake(ctx *effectContext) []string {
	pool := ctx.effect.CardNames
	if len(pool) == 0 {
		pool = ctx.g.templateNames(ctx.effect.TargetRestrictions, nil)
	}
	names := ctx.g.sampleNames(pool, ctx.choices())
	return ctx.offer(CardChoice{Kind: ChoiceMake, Names: names}, "makes a card")
}

func doMakeEffect(ctx *effectContext) []string {
	pool := ctx.effect.GlobalEffects
	if len(pool) == 0 {
		pool = cards.GlobalEffectNames
	}
	names := ctx.g.sampleNames(pool, ctx.choices())
	return ctx.offer(CardChoice{Kind: ChoiceMakeEffect, Names: names}, "makes a global effect")
}

func doFetchCard(ctx *effectContext) []string {
	p := ctx.player
	ids := ctx.g.sampleIDs(p.Deck, ctx.effect.TargetRestrictions, p.Counts(), nil, ctx.choices())
	return ctx.offer(CardChoice{Kind: ChoiceFetchCard, CardIDs: ids}, "searches the deck")
}

func doFetchCardIntoPlay(ctx *effectContext) []string {
	p := ctx.player
	permanent := func(c *cards.Card) bool { return c.CardType != cards.TypeSpell && ctx.g.hasRoomFor(p, c) }
	ids := ctx.g.sampleIDs(p.Deck, ctx.effect.TargetRestrictions, p.Counts(), permanent, ctx.choices())
	return ctx.offer(CardChoice{Kind: ChoiceFetchCardIntoPlay, CardIDs: ids}, "searches the deck")
}

func doFetchCardFromPlayedPile(ctx *effectContext) []string {
	p := ctx.player
	ids := ctx.g.sampleIDs(p.PlayedPile, ctx.effect.TargetRestrictions, p.Counts(), nil, ctx.choices())
	return ctx.offer(CardChoice{Kind: ChoiceFetchCardFromPlayedPile, CardIDs: ids}, "searches the played pile")
}

// doRiffle shows the top cards of the deck; the player keeps one on top.
func doRiffle(ctx *effectContext) []string {
	p := ctx.player
	n := min(ctx.amount(), len(p.Deck))
	ids := make([]int, 0, n)
	for _, c := range p.Deck[:n] {
		ids = append(ids, c.ID)
	}
	return ctx.offer(CardChoice{Kind: ChoiceRiffle, CardIDs: ids}, "riffles the deck")
}

func doViewHand(ctx *effectContext) []string {
	opp := ctx.opponent()
	if opp == nil {
		return nil
	}
	opp.RevealedHand = true
	return []string{fmt.Sprintf("%s reveals %s's hand.", ctx.source(), opp.Username)}
}

// summonFrom puts random matching mobs from a zone into play.
func (ctx *effectContext) summonFrom(zone Zone, where string) []string {
	g, p := ctx.g, ctx.player
	isMob := func(c *cards.Card) bool { return c.CardType == cards.TypeMob }
	ids := g.sampleIDs(*p.zone(zone), ctx.effect.TargetRestrictions, p.Counts(), isMob, max(ctx.amount(), 1))
	var lines []string
	for _, id := range ids {
		c := p.FindIn(zone, id)
		if c == nil || !g.hasRoomFor(p, c) {
			continue
		}
		p.remove(zone, id)
		lines = append(lines, fmt.Sprintf("%s summons %s from the %s.", ctx.source(), c.Name, where))
		entered, _ := g.putIntoPlay(p, c, Move{})
		lines = append(lines, entered...)
	}
	return lines
}

func doSummonFromDeck(ctx *effectContext) []string {
	return ctx.summonFrom(ZoneDeck, "deck")
}

func doSummonFromHand(ctx *effectContext) []string {
	return ctx.summonFrom(ZoneHand, "hand")
}

// doCreateCard adds fresh copies of the named cards to the player's hand.
func doCreateCard(ctx *effectContext) []string {
	g, p := ctx.g, ctx.player
	copies := max(ctx.amount(), 1)
	var lines []string
	for _, name := range ctx.effect.CardNames {
		for range copies {
			c, err := g.newCard(name, p.Username)
			if err != nil {
				continue
			}
			g.addToHand(p, c)
			lines = append(lines, fmt.Sprintf("%s creates %s.", ctx.source(), c.Name))
		}
	}
	return lines
}

func doCreateRandomTownie(ctx *effectContext) []string {
	g, p := ctx.g, ctx.player
	townies := g.templateNames(ctx.effect.TargetRestrictions, func(t cards.Template) bool {
		return t.CardType == cards.TypeMob && t.HasTag("townie")
	})
	var lines []string
	for range max(ctx.amount(), 1) {
		if len(townies) == 0 || len(p.InPlay) >= g.Rules.MaxInPlay {
			break
		}
		c, err := g.newCard(townies[g.rng.Intn(len(townies))], p.Username)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s calls %s.", ctx.source(), c.Name))
		entered, _ := g.putIntoPlay(p, c, Move{})
		lines = append(lines, entered...)
	}
	return lines
}

// doDuplicateCardInPlay puts a copy of the target on the player's board.
func doDuplicateCardInPlay(ctx *effectContext) []string {
	g, p := ctx.g, ctx.player
	c, _ := ctx.targetCard()
	if c == nil || !g.hasRoomFor(p, c) {
		return nil
	}
	dup := c.Clone()
	dup.ID = g.allocID()
	dup.Owner = p.Username
	dup.Damage = 0
	dup.Shielded = dup.HasAbility(cards.AbilityShield)
	dup.Tokens = slices.DeleteFunc(dup.Tokens, func(t cards.Token) bool { return t.ID != 0 })
	lines := []string{fmt.Sprintf("%s duplicates %s.", ctx.source(), c.Name)}
	entered, _ := g.putIntoPlay(p, dup, Move{})
	return append(lines, entered...)
}

// doEvolve turns the target into the first named card. The change
// survives leaving play.
func doEvolve(ctx *effectContext) []string {
	g := ctx.g
	c, _ := ctx.targetCard()
	if c == nil || len(ctx.effect.CardNames) == 0 || g.catalog == nil {
		return nil
	}
	tpl, ok := g.catalog.Lookup(ctx.effect.CardNames[0])
	if !ok {
		return nil
	}
	old := c.Name
	fresh := cards.NewInstance(tpl, c.Owner, c.ID)
	g.modifyNewCard(fresh)
	fresh.TurnPlayed = c.TurnPlayed
	fresh.Attacked = c.Attacked
	fresh.Tokens = c.Tokens
	fresh.Evolved = true
	*c = *fresh
	return []string{fmt.Sprintf("%s evolves %s into %s.", ctx.source(), old, c.Name)}
}
