package game

import (
	"fmt"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
	"go.uber.org/zap"
)

// effectContext is everything a behavior needs to run one effect.
type effectContext struct {
	g      *Game
	player *Player
	card   *cards.Card
	effect *cards.Effect
	index  int
	target targeting.Ref
}

// effectHandler mutates state for one effect and returns log lines.
type effectHandler func(ctx *effectContext) []string

// effectHandlers is the dispatch table, keyed by effect name.
var effectHandlers map[cards.EffectName]effectHandler

// managesOwnCounters lists behaviors that track their counters themselves.
var managesOwnCounters = map[cards.EffectName]bool{
	cards.EffectStoreMana: true,
}

func init() {
	effectHandlers = map[cards.EffectName]effectHandler{
		cards.EffectAddAbilities:            doAddAbilities,
		cards.EffectAddMana:                 doAddMana,
		cards.EffectAddPlayerAbilities:      doAddPlayerAbilities,
		cards.EffectAddTokens:               doAddTokens,
		cards.EffectBuffFromMana:            doBuffFromMana,
		cards.EffectCounterSpell:            doCounterSpell,
		cards.EffectCreateCard:              doCreateCard,
		cards.EffectCreateRandomTownie:      doCreateRandomTownie,
		cards.EffectDamage:                  doDamage,
		cards.EffectDecreaseMaxMana:         doDecreaseMaxMana,
		cards.EffectDiscardRandom:           doDiscardRandom,
		cards.EffectDoublePower:             doDoublePower,
		cards.EffectDraw:                    doDraw,
		cards.EffectDuplicateCardInPlay:     doDuplicateCardInPlay,
		cards.EffectEquipToMob:              doEquipToMob,
		cards.EffectEvolve:                  doEvolve,
		cards.EffectExtraTurn:               doExtraTurn,
		cards.EffectFetchCard:               doFetchCard,
		cards.EffectFetchCardFromPlayedPile: doFetchCardFromPlayedPile,
		cards.EffectFetchCardIntoPlay:       doFetchCardIntoPlay,
		cards.EffectGainForToughness:        doGainForToughness,
		cards.EffectGainRandomAbility:       doGainRandomAbility,
		cards.EffectHeal:                    doHeal,
		cards.EffectImproveDamageWhenUsed:   doImproveDamageWhenUsed,
		cards.EffectIncreaseMaxMana:         doIncreaseMaxMana,
		cards.EffectKill:                    doKill,
		cards.EffectMake:                    doMake,
		cards.EffectMakeEffect:              doMakeEffect,
		cards.EffectManaToDamage:            doManaToDamage,
		cards.EffectRedirectMobSpell:        doRedirectMobSpell,
		cards.EffectRefreshMana:             doRefreshMana,
		cards.EffectRemoveAbilities:         doRemoveAbilities,
		cards.EffectRiffle:                  doRiffle,
		cards.EffectSetCanAttack:            doSetCanAttack,
		cards.EffectStoreMana:               doStoreMana,
		cards.EffectSummonFromDeck:          doSummonFromDeck,
		cards.EffectSummonFromHand:          doSummonFromHand,
		cards.EffectSwitchHitPoints:         doSwitchHitPoints,
		cards.EffectTakeControl:             doTakeControl,
		cards.EffectUnwind:                  doUnwind,
		cards.EffectViewHand:                doViewHand,
	}
}

// KnownEffect reports whether the interpreter implements the effect name.
func KnownEffect(name cards.EffectName) bool {
	_, ok := effectHandlers[name]
	return ok
}

// fireEffects runs every enabled effect of the given phase in declared order.
func (g *Game) fireEffects(p *Player, c *cards.Card, phase cards.EffectType, m Move) []string {
	var lines []string
	for i := 0; i < len(c.Effects); i++ {
		e := &c.Effects[i]
		if e.EffectType != phase || !e.Enabled {
			continue
		}
		lines = append(lines, g.applyEffect(p, c, i, g.effectTarget(p, c, e, m.target(i)))...)
	}
	return lines
}

// effectTarget resolves who an effect hits at resolution time. A chosen
// target that has left play resolves to no target.
func (g *Game) effectTarget(p *Player, c *cards.Card, e *cards.Effect, chosen targeting.Ref) targeting.Ref {
	switch e.TargetType {
	case targeting.TargetSelf:
		return targeting.Player(p.Username)
	case targeting.TargetOpponent:
		if opp := g.Opponent(p.Username); opp != nil {
			return targeting.Player(opp.Username)
		}
		return targeting.None()
	case targeting.TargetThis:
		if card, _, _ := g.findInPlay(c.ID); card != nil {
			return targeting.Card(c.ID)
		}
		return targeting.None()
	}
	if e.TargetType.IsMulti() || e.TargetType == "" {
		return targeting.None()
	}
	switch chosen.Kind {
	case targeting.RefCard:
		if card, _, _ := g.findInPlay(chosen.CardID); card == nil {
			return targeting.None()
		}
	case targeting.RefStack:
		if g.stackEntryForCard(chosen.CardID) == nil {
			return targeting.None()
		}
	case targeting.RefPlayer:
		if g.Player(chosen.Player) == nil {
			return targeting.None()
		}
	}
	return chosen
}

// applyEffect dispatches one effect with the shared pre and post steps.
func (g *Game) applyEffect(p *Player, c *cards.Card, index int, target targeting.Ref) []string {
	if index < 0 || index >= len(c.Effects) {
		return nil
	}
	e := &c.Effects[index]
	handler, ok := effectHandlers[e.Name]
	if !ok {
		g.logger.Warn("unknown effect", zap.String("effect", string(e.Name)), zap.String("card", c.Name))
		return nil
	}
	if target.IsNone() && e.TargetType.NeedsChoice() {
		return nil
	}
	if e.LimitedUses && !managesOwnCounters[e.Name] {
		e.Counters = max(e.Counters-1, 0)
	}
	lines := handler(&effectContext{g: g, player: p, card: c, effect: e, index: index, target: target})
	if e.Cost > 0 {
		p.spendMana(e.Cost)
	}
	if e.CostHP > 0 {
		p.HitPoints = max(p.HitPoints-e.CostHP, 0)
	}
	if e.AmountIncrement != 0 {
		e.Amount += e.AmountIncrement
	}
	return lines
}

// targetMobs computes the mobs an effect hits, in seat then board order.
// Dead mobs are never included.
func (ctx *effectContext) targetMobs() []*cards.Card {
	g := ctx.g
	var sides []*Player
	switch ctx.effect.TargetType {
	case targeting.TargetSelfMobs:
		sides = []*Player{ctx.player}
	case targeting.TargetOpponentsMobs:
		if opp := g.Opponent(ctx.player.Username); opp != nil {
			sides = []*Player{opp}
		}
	case targeting.TargetAll, targeting.TargetAllMobs:
		sides = g.Players
	default:
		if ctx.target.IsCard() {
			if c, _, z := g.findInPlay(ctx.target.CardID); c != nil && z == ZoneInPlay && !c.IsDead() {
				return []*cards.Card{c}
			}
		}
		return nil
	}
	var out []*cards.Card
	for _, p := range sides {
		for _, m := range p.InPlay {
			if m.IsDead() {
				continue
			}
			if !targeting.MatchesAll(ctx.effect.TargetRestrictions, m.Candidate(p.Counts())) {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

// targetPlayers computes the players an effect hits.
func (ctx *effectContext) targetPlayers() []*Player {
	switch ctx.effect.TargetType {
	case targeting.TargetAll, targeting.TargetAllPlayers:
		return ctx.g.Players
	}
	if ctx.target.IsPlayer() {
		if p := ctx.g.Player(ctx.target.Player); p != nil {
			return []*Player{p}
		}
	}
	return nil
}

// targetCard returns the single targeted card on the board and its controller.
func (ctx *effectContext) targetCard() (*cards.Card, *Player) {
	if !ctx.target.IsCard() {
		return nil, nil
	}
	c, p, _ := ctx.g.findInPlay(ctx.target.CardID)
	return c, p
}

func (ctx *effectContext) opponent() *Player {
	return ctx.g.Opponent(ctx.player.Username)
}

func (ctx *effectContext) amount() int {
	return ctx.effect.Amount
}

// source names the card the effect comes from, for log lines.
func (ctx *effectContext) source() string {
	return fmt.Sprintf("%s's %s", ctx.player.Username, ctx.card.Name)
}

// choices is how many options a choice prompt offers.
func (ctx *effectContext) choices() int {
	if ctx.effect.Choices > 0 {
		return ctx.effect.Choices
	}
	return ctx.g.Rules.MakeChoices
}

// tokens returns the effect's tokens, or a single permanent token built
// from the given modifiers when the effect declares none.
func (ctx *effectContext) tokens(power, toughness int) []cards.Token {
	if len(ctx.effect.Tokens) > 0 {
		return append([]cards.Token(nil), ctx.effect.Tokens...)
	}
	return []cards.Token{{PowerModifier: power, ToughnessModifier: toughness, Turns: -1}}
}

// targetBoardCards is targetMobs widened to artifacts for single targets.
func (ctx *effectContext) targetBoardCards() []*cards.Card {
	if !ctx.effect.TargetType.IsMulti() {
		if c, _ := ctx.targetCard(); c != nil {
			return []*cards.Card{c}
		}
		return nil
	}
	return ctx.targetMobs()
}
