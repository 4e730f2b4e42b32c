package game

import (
	"fmt"
	"slices"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
)

// selectCardInHand plays a card that needs no target, or starts targeting
// for one that does.
func (g *Game) selectCardInHand(p *Player, m Move) ([]string, error) {
	c := p.FindIn(ZoneHand, m.Card)
	if c == nil {
		return nil, fmt.Errorf("%w: card %d is not in hand", ErrUnknownCard, m.Card)
	}
	if err := g.canCast(p, c); err != nil {
		return nil, err
	}
	if c.NeedsTargets() {
		p.CardInfoToTarget = &TargetRequest{CardID: c.ID, Reason: castReason(c)}
		return nil, nil
	}
	return g.castCard(p, c, m), nil
}

// playCardInHand plays a card with its targets given up front.
func (g *Game) playCardInHand(p *Player, m Move) ([]string, error) {
	c := p.FindIn(ZoneHand, m.Card)
	if c == nil {
		return nil, fmt.Errorf("%w: card %d is not in hand", ErrUnknownCard, m.Card)
	}
	if err := g.canCast(p, c); err != nil {
		return nil, err
	}
	if err := g.checkCastTarget(p, c, m.target(0)); err != nil {
		return nil, err
	}
	return g.castCard(p, c, m), nil
}

// castCard pays for c, takes it out of hand and puts it on the stack.
func (g *Game) castCard(p *Player, c *cards.Card, m Move) []string {
	p.remove(ZoneHand, c.ID)
	p.spendMana(c.Cost)
	p.resetSelection()
	m.Card = c.ID
	return g.pushOrResolve(g.newStackEntry(StackCast, p, m, c))
}

// selectionRef turns a SELECT_* move into the target it names.
func (g *Game) selectionRef(p *Player, m Move) (targeting.Ref, error) {
	switch m.MoveType {
	case MoveSelectMob:
		if _, _, z := g.findInPlay(m.Card); z != ZoneInPlay {
			return targeting.None(), fmt.Errorf("%w: card %d is not a mob in play", ErrUnknownCard, m.Card)
		}
		return targeting.Card(m.Card), nil
	case MoveSelectArtifact:
		if _, _, z := g.findInPlay(m.Card); z != ZoneArtifacts {
			return targeting.None(), fmt.Errorf("%w: card %d is not an artifact in play", ErrUnknownCard, m.Card)
		}
		return targeting.Card(m.Card), nil
	case MoveSelectStackSpell:
		return targeting.Stack(m.Card), nil
	case MoveSelectOpponent:
		if opp := g.Opponent(p.Username); opp != nil {
			return targeting.Player(opp.Username), nil
		}
		return targeting.None(), ErrNotJoined
	default:
		return targeting.Player(p.Username), nil
	}
}

// selectTarget completes the pending selection, or starts one when the
// player clicks their own mob or artifact.
func (g *Game) selectTarget(p *Player, m Move) ([]string, error) {
	ref, err := g.selectionRef(p, m)
	if err != nil {
		return nil, err
	}
	if req := p.CardInfoToTarget; req != nil {
		return g.completeTarget(p, *req, ref, m)
	}
	switch m.MoveType {
	case MoveSelectMob:
		c := p.FindIn(ZoneInPlay, m.Card)
		if c == nil {
			return nil, ErrNothingSelected
		}
		if g.pendingAttackOn(p) != nil {
			return g.defend(p, c)
		}
		if err := g.canAttack(p, c); err != nil {
			return nil, err
		}
		p.CardInfoToTarget = &TargetRequest{CardID: c.ID, Reason: ReasonMobAtReady}
		return nil, nil
	case MoveSelectArtifact:
		if p.FindIn(ZoneArtifacts, m.Card) == nil {
			return nil, ErrNothingSelected
		}
		m.EffectTargets = nil
		return g.activateMove(p, m)
	}
	return nil, ErrNothingSelected
}

// completeTarget finishes whatever the player was in the middle of with
// the chosen target.
func (g *Game) completeTarget(p *Player, req TargetRequest, ref targeting.Ref, m Move) ([]string, error) {
	m.EffectTargets = []targeting.Ref{ref}
	switch req.Reason {
	case ReasonSpellCast, ReasonMobComesIntoPlay:
		c := p.FindIn(ZoneHand, req.CardID)
		if c == nil {
			p.resetSelection()
			return nil, ErrNothingSelected
		}
		if err := g.canCast(p, c); err != nil {
			return nil, err
		}
		if err := g.checkCastTarget(p, c, ref); err != nil {
			return nil, err
		}
		return g.castCard(p, c, m), nil
	case ReasonMobActivated, ReasonArtifactActivated:
		c, ctrl, _ := g.findInPlay(req.CardID)
		if c == nil || ctrl != p {
			p.resetSelection()
			return nil, ErrNothingSelected
		}
		return g.activate(p, c, req.EffectIndex, m, ref)
	case ReasonMobAtReady:
		c := p.FindIn(ZoneInPlay, req.CardID)
		if c == nil {
			p.resetSelection()
			return nil, ErrNothingSelected
		}
		switch {
		case ref.IsCard():
			m.DefendingCard = ref.CardID
		case ref.IsPlayer() && ref.Player != p.Username:
			m.DefendingCard = 0
		default:
			return nil, fmt.Errorf("%w: can't attack %s", ErrNoLegalTarget, g.targetName(ref))
		}
		return g.declareAttack(p, c, m)
	}
	return nil, ErrNothingSelected
}

func (g *Game) attack(p *Player, m Move) ([]string, error) {
	c := p.FindIn(ZoneInPlay, m.Card)
	if c == nil {
		return nil, fmt.Errorf("%w: card %d is not in play", ErrUnknownCard, m.Card)
	}
	return g.declareAttack(p, c, m)
}

// activateMove activates a mob or artifact, asking for a target first when
// the move doesn't carry one.
func (g *Game) activateMove(p *Player, m Move) ([]string, error) {
	zone := ZoneArtifacts
	if m.MoveType == MoveActivateMob {
		zone = ZoneInPlay
	}
	c := p.FindIn(zone, m.Card)
	if c == nil {
		return nil, fmt.Errorf("%w: card %d is not in play", ErrUnknownCard, m.Card)
	}
	idx := activatedIndex(c, m.EffectIndex)
	if err := g.canActivate(p, c, idx); err != nil {
		return nil, err
	}
	ref := m.target(idx)
	if c.Effects[idx].TargetType.NeedsChoice() && ref.IsNone() {
		p.CardInfoToTarget = &TargetRequest{CardID: c.ID, Reason: activationReason(c), EffectIndex: idx}
		return nil, nil
	}
	return g.activate(p, c, idx, m, ref)
}

// activate spends the card's action for the turn and puts the effect on
// the stack. Costs are paid when the effect resolves.
func (g *Game) activate(p *Player, c *cards.Card, idx int, m Move, ref targeting.Ref) ([]string, error) {
	if err := g.canActivate(p, c, idx); err != nil {
		return nil, err
	}
	e := c.Effects[idx]
	if e.TargetType.NeedsChoice() {
		if err := g.validator().Validate(p.Username, e.TargetType, e.TargetRestrictions, ref); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoLegalTarget, err)
		}
	}
	c.Attacked = true
	p.resetSelection()
	m.Card = c.ID
	m.EffectIndex = idx
	m.EffectTargets = nil
	if !ref.IsNone() {
		m.EffectTargets = make([]targeting.Ref, idx+1)
		m.EffectTargets[idx] = ref
	}
	return g.pushOrResolve(g.newStackEntry(StackActivated, p, m, c.Clone())), nil
}

// resolveMobEffect answers the target prompt of a mob entering play or
// being activated.
func (g *Game) resolveMobEffect(p *Player, m Move) ([]string, error) {
	req := p.CardInfoToTarget
	if req == nil || req.Reason == ReasonSpellCast || req.Reason == ReasonMobAtReady {
		return nil, ErrNothingSelected
	}
	if m.Card != 0 && m.Card != req.CardID {
		return nil, fmt.Errorf("%w: card %d is not selected", ErrNothingSelected, m.Card)
	}
	ref := m.target(req.EffectIndex)
	if ref.IsNone() {
		return nil, fmt.Errorf("%w: no target given", ErrNoLegalTarget)
	}
	return g.completeTarget(p, *req, ref, m)
}

func (g *Game) resolveNextStack() ([]string, error) {
	if g.Stack.IsEmpty() {
		return nil, ErrStackEmpty
	}
	return g.popAndResolve(), nil
}

// pendingChoice returns p's choice if it is of the given kind.
func pendingChoice(p *Player, kind ChoiceKind) (*CardChoice, error) {
	ch := p.CardChoiceInfo
	if ch == nil {
		return nil, ErrNoPendingChoice
	}
	if ch.Kind != kind {
		return nil, fmt.Errorf("%w: pending choice is %s", ErrInvalidChoice, ch.Kind)
	}
	return ch, nil
}

func (g *Game) makeCard(p *Player, m Move) ([]string, error) {
	ch, err := pendingChoice(p, ChoiceMake)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(ch.Names, m.Choice) {
		return nil, fmt.Errorf("%w: %q was not offered", ErrInvalidChoice, m.Choice)
	}
	c, err := g.newCard(m.Choice, p.Username)
	if err != nil {
		return nil, err
	}
	p.CardChoiceInfo = nil
	g.addToHand(p, c)
	return []string{fmt.Sprintf("%s makes %s.", p.Username, c.Name)}, nil
}

func (g *Game) makeEffect(p *Player, m Move) ([]string, error) {
	ch, err := pendingChoice(p, ChoiceMakeEffect)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(ch.Names, m.Choice) {
		return nil, fmt.Errorf("%w: %q was not offered", ErrInvalidChoice, m.Choice)
	}
	p.CardChoiceInfo = nil
	g.GlobalEffects.Increment(m.Choice)
	return []string{fmt.Sprintf("%s makes %s.", p.Username, m.Choice)}, nil
}

func (g *Game) cancelMake(p *Player) ([]string, error) {
	ch := p.CardChoiceInfo
	if ch == nil {
		return nil, ErrNoPendingChoice
	}
	if !ch.Cancellable() {
		return nil, fmt.Errorf("%w: %s can't be cancelled", ErrInvalidChoice, ch.Kind)
	}
	p.CardChoiceInfo = nil
	return nil, nil
}

var fetchKinds = map[MoveType]ChoiceKind{
	MoveFetchCard:               ChoiceFetchCard,
	MoveFetchCardIntoPlay:       ChoiceFetchCardIntoPlay,
	MoveFetchCardFromPlayedPile: ChoiceFetchCardFromPlayedPile,
}

// fetchCard moves the chosen card out of the deck or played pile.
func (g *Game) fetchCard(p *Player, m Move) ([]string, error) {
	kind := fetchKinds[m.MoveType]
	ch, err := pendingChoice(p, kind)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(ch.CardIDs, m.Card) {
		return nil, fmt.Errorf("%w: card %d was not offered", ErrInvalidChoice, m.Card)
	}
	from := ZoneDeck
	if kind == ChoiceFetchCardFromPlayedPile {
		from = ZonePlayedPile
	}
	c := p.FindIn(from, m.Card)
	if c == nil {
		return nil, fmt.Errorf("%w: card %d is no longer in the %s", ErrInvalidChoice, m.Card, from)
	}
	if kind == ChoiceFetchCardIntoPlay && !g.hasRoomFor(p, c) {
		return nil, fmt.Errorf("%w: no room for %s", ErrZoneFull, c.Name)
	}
	p.remove(from, c.ID)
	p.CardChoiceInfo = nil
	lines := []string{fmt.Sprintf("%s fetches %s.", p.Username, c.Name)}
	if kind == ChoiceFetchCardIntoPlay {
		entered, _ := g.putIntoPlay(p, c, Move{})
		return append(lines, entered...), nil
	}
	g.addToHand(p, c)
	return lines, nil
}

// finishRiffle puts the chosen card on top of the deck and the rest of the
// riffled cards on the bottom.
func (g *Game) finishRiffle(p *Player, m Move) ([]string, error) {
	ch, err := pendingChoice(p, ChoiceRiffle)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(ch.CardIDs, m.Card) {
		return nil, fmt.Errorf("%w: card %d was not offered", ErrInvalidChoice, m.Card)
	}
	var chosen *cards.Card
	var rest, riffled []*cards.Card
	for _, c := range p.Deck {
		switch {
		case c.ID == m.Card:
			chosen = c
		case slices.Contains(ch.CardIDs, c.ID):
			riffled = append(riffled, c)
		default:
			rest = append(rest, c)
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: card %d is no longer in the deck", ErrInvalidChoice, m.Card)
	}
	p.Deck = append(append([]*cards.Card{chosen}, rest...), riffled...)
	p.CardChoiceInfo = nil
	return []string{fmt.Sprintf("%s puts a card on top of the deck.", p.Username)}, nil
}
