package game

import (
	"fmt"
	"strconv"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
	"go.uber.org/zap"
)

// newCard instantiates a catalog card with a fresh id and the current
// table-wide modifiers applied.
func (g *Game) newCard(name, owner string) (*cards.Card, error) {
	if g.catalog == nil {
		return nil, fmt.Errorf("%w: no catalog for %q", ErrUnknownCard, name)
	}
	tpl, ok := g.catalog.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCard, name)
	}
	c := cards.NewInstance(tpl, owner, g.allocID())
	g.modifyNewCard(c)
	return c, nil
}

func (g *Game) modifyNewCard(c *cards.Card) {
	cards.ApplyGlobalEffects(c, g.GlobalEffects)
}

// factoryResetCard restores a card to its catalog shape, keeping id and
// owner. Evolved cards and cards missing from the catalog keep their shape
// and only lose runtime state.
func (g *Game) factoryResetCard(c *cards.Card) *cards.Card {
	var tpl cards.Template
	ok := false
	if g.catalog != nil && !c.Evolved {
		tpl, ok = g.catalog.Lookup(c.Name)
	}
	if !ok {
		cp := c.Clone()
		cp.ResetRuntime()
		return cp
	}
	fresh := cards.NewInstance(tpl, c.Owner, c.ID)
	g.modifyNewCard(fresh)
	return fresh
}

func (g *Game) inAnyPlayedPile(id int) bool {
	for _, p := range g.Players {
		if p.FindIn(ZonePlayedPile, id) != nil {
			return true
		}
	}
	return false
}

// sendCardToPlayedPile is the one way a card leaves play for good. It is a
// no-op for a card already in a played pile, so a card killed twice in one
// chain only leaves once.
func (g *Game) sendCardToPlayedPile(p *Player, c *cards.Card, didKill bool) []string {
	if g.inAnyPlayedPile(c.ID) {
		return nil
	}
	if didKill {
		g.logger.Debug("card killed", zap.String("player", p.Username), zap.Int("card_id", c.ID))
	}
	lines, reset := g.leavePlay(p, c)
	p.PlayedPile = append(p.PlayedPile, reset)
	return lines
}

// leavePlay takes c out of p's zones. Leaving the board fires leave_play
// effects and drops equipment. The returned card is factory reset.
func (g *Game) leavePlay(p *Player, c *cards.Card) ([]string, *cards.Card) {
	_, zone := p.Find(c.ID)
	if zone != ZoneNone {
		p.remove(zone, c.ID)
	}
	var lines []string
	if zone == ZoneInPlay || zone == ZoneArtifacts {
		lines = g.fireLeavePlay(p, c)
		if zone == ZoneArtifacts {
			g.unequip(c.ID)
		}
		p.Mana.Clamp()
	}
	return lines, g.factoryResetCard(c)
}

// fireLeavePlay runs leave_play effects inside the resolution chain, so a
// cascade of mobs killing each other on the way out stops at the depth limit.
func (g *Game) fireLeavePlay(p *Player, c *cards.Card) []string {
	key := "leave/" + strconv.Itoa(c.ID)
	if g.res.IsResolving(key) {
		return nil
	}
	if err := g.res.Begin(key); err != nil {
		g.logger.Warn("leave play effects skipped", zap.Int("card_id", c.ID), zap.Error(err))
		return nil
	}
	defer g.res.End(key)
	return g.fireEffects(p, c, cards.EffectLeavePlay, Move{})
}

// unequip strips tokens granted by the artifact with the given id.
func (g *Game) unequip(artifactID int) {
	for _, p := range g.Players {
		for _, m := range p.InPlay {
			m.RemoveTokensFrom(artifactID)
		}
	}
}

// drawCards draws up to n cards, reshuffling the played pile into an empty
// deck. Draws past the hand limit are dropped.
func (g *Game) drawCards(p *Player, n int) []string {
	var lines []string
	drawn := 0
	for i := 0; i < n; i++ {
		if len(p.Hand) >= g.Rules.MaxHandSize {
			break
		}
		if len(p.Deck) == 0 {
			if len(p.PlayedPile) == 0 {
				break
			}
			p.Deck, p.PlayedPile = p.PlayedPile, nil
			g.shuffle(p.Deck)
			lines = append(lines, fmt.Sprintf("%s shuffles the played pile into the deck.", p.Username))
		}
		c := p.Deck[0]
		p.Deck = p.Deck[1:]
		p.Hand = append(p.Hand, c)
		drawn++
		for _, b := range p.Board() {
			lines = append(lines, g.fireEffects(p, b, cards.EffectAfterDraw, Move{})...)
		}
	}
	if drawn > 0 {
		g.logger.Debug("cards drawn", zap.String("player", p.Username), zap.Int("count", drawn))
	}
	return lines
}

// damagePlayer removes hit points, never below zero. A player who can't die
// stops at 1.
func (g *Game) damagePlayer(p *Player, amount int) int {
	if amount <= 0 {
		return 0
	}
	before := p.HitPoints
	if p.HasAbility(cards.AbilityCantDie) && p.HitPoints > 0 {
		p.HitPoints = max(p.HitPoints-amount, 1)
	} else {
		p.HitPoints = max(p.HitPoints-amount, 0)
	}
	return before - p.HitPoints
}

func (g *Game) healPlayer(p *Player, amount int) {
	if amount <= 0 {
		return
	}
	p.HitPoints = min(p.HitPoints+amount, g.Rules.MaxHitPoints)
}

// damageMob marks damage on a mob. A shield absorbs the whole hit and is
// used up. It reports whether the hit was absorbed.
func damageMob(c *cards.Card, amount int) (absorbed bool) {
	if amount <= 0 {
		return false
	}
	if c.Shielded {
		c.Shielded = false
		return true
	}
	c.Damage += amount
	return false
}

// checkState moves every lethally damaged mob out of play and ends the game
// when a player has no hit points left.
func (g *Game) checkState() []string {
	var lines []string
	for {
		swept := false
		for _, p := range g.Players {
			for _, m := range append([]*cards.Card(nil), p.InPlay...) {
				if m.IsDead() {
					lines = append(lines, g.sendCardToPlayedPile(p, m, true)...)
					swept = true
				}
			}
		}
		if !swept {
			break
		}
	}
	g.checkGameOver()
	return lines
}

func (g *Game) checkGameOver() {
	if g.Status != StatusInProgress {
		return
	}
	var alive []*Player
	for _, p := range g.Players {
		if p.HitPoints > 0 {
			alive = append(alive, p)
		}
	}
	if len(alive) == len(g.Players) {
		return
	}
	g.Status = StatusGameOver
	g.Stack.Items = nil
	if len(alive) == 1 {
		g.Winner = alive[0].Username
	}
	g.logger.Info("game over", zap.String("winner", g.Winner))
}

// putIntoPlay places a mob or artifact on p's board and fires its
// enter_play effects. It reports false when the zone is full.
func (g *Game) putIntoPlay(p *Player, c *cards.Card, m Move) ([]string, bool) {
	switch c.CardType {
	case cards.TypeMob:
		if len(p.InPlay) >= g.Rules.MaxInPlay {
			return nil, false
		}
		c.TurnPlayed = g.Turns.Turn
		c.Attacked = false
		p.InPlay = append(p.InPlay, c)
	case cards.TypeArtifact:
		if len(p.Artifacts) >= g.Rules.MaxArtifacts {
			return nil, false
		}
		c.TurnPlayed = g.Turns.Turn
		p.Artifacts = append(p.Artifacts, c)
	default:
		return nil, false
	}
	return g.fireEffects(p, c, cards.EffectEnterPlay, m), true
}

// hasRoomFor reports whether p can hold another card of c's type on the board.
func (g *Game) hasRoomFor(p *Player, c *cards.Card) bool {
	switch c.CardType {
	case cards.TypeMob:
		return len(p.InPlay) < g.Rules.MaxInPlay
	case cards.TypeArtifact:
		return len(p.Artifacts) < g.Rules.MaxArtifacts
	}
	return true
}

// addToHand gives p a card, sending it to the played pile if the hand is full.
func (g *Game) addToHand(p *Player, c *cards.Card) bool {
	if len(p.Hand) >= g.Rules.MaxHandSize {
		p.PlayedPile = append(p.PlayedPile, c)
		return false
	}
	p.Hand = append(p.Hand, c)
	return true
}

// targetName renders a target for log lines.
func (g *Game) targetName(ref targeting.Ref) string {
	switch ref.Kind {
	case targeting.RefPlayer:
		return ref.Player
	case targeting.RefCard, targeting.RefStack:
		if c, p, _ := g.FindCard(ref.CardID); c != nil {
			return fmt.Sprintf("%s's %s", p.Username, c.Name)
		}
		if e := g.stackEntryForCard(ref.CardID); e != nil {
			return fmt.Sprintf("%s's %s", e.Owner, e.Card.Name)
		}
	}
	return "nothing"
}
