package game

import (
	"slices"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
)

// LegalMoves lists every move the user could submit right now. It never
// mutates the game. The priority holder of a running game always has at
// least one move.
func LegalMoves(g *Game, username string) []Move {
	if g == nil || g.IsOver() {
		return nil
	}
	p := g.Player(username)
	if p == nil {
		return nil
	}
	switch g.Status {
	case StatusAwaitingFirstTurn:
		if g.Players[0] == p {
			return []Move{{MoveType: MoveStartFirstTurn, Username: username}}
		}
		return nil
	case StatusInProgress:
	default:
		return nil
	}
	if p.CardChoiceInfo != nil {
		return g.choiceMovesFor(p)
	}
	if g.PriorityPlayer() != p {
		return nil
	}
	if req := p.CardInfoToTarget; req != nil {
		moves := g.targetMovesFor(p, *req)
		return append(moves, Move{MoveType: MoveUnselect, Username: username})
	}

	var moves []Move
	if !g.Stack.IsEmpty() {
		moves = append(moves, Move{MoveType: MoveResolveNextStack, Username: username})
		if entry := g.pendingAttackOn(p); entry != nil {
			for _, d := range g.defenders(p, entry) {
				moves = append(moves, Move{MoveType: MoveSelectMob, Username: username, Card: d.ID})
			}
		}
		return append(moves, g.castMoves(p)...)
	}
	moves = append(moves, g.castMoves(p)...)
	moves = append(moves, g.attackMoves(p)...)
	moves = append(moves, g.activationMoves(p)...)
	return append(moves, Move{MoveType: MoveEndTurn, Username: username})
}

// refsAt places ref at the effect index it answers.
func refsAt(idx int, ref targeting.Ref) []targeting.Ref {
	refs := make([]targeting.Ref, idx+1)
	refs[idx] = ref
	return refs
}

func (g *Game) castMoves(p *Player) []Move {
	var moves []Move
	for _, c := range p.Hand {
		if g.canCast(p, c) != nil {
			continue
		}
		if !c.NeedsTargets() {
			moves = append(moves, Move{MoveType: MovePlayCardInHand, Username: p.Username, Card: c.ID})
			continue
		}
		for _, ref := range g.castTargets(p, c) {
			moves = append(moves, Move{
				MoveType:      MovePlayCardInHand,
				Username:      p.Username,
				Card:          c.ID,
				EffectTargets: []targeting.Ref{ref},
			})
		}
	}
	return moves
}

func (g *Game) attackMoves(p *Player) []Move {
	var moves []Move
	for _, c := range p.InPlay {
		if g.canAttack(p, c) != nil {
			continue
		}
		for _, ref := range g.attackTargets(p, c) {
			m := Move{MoveType: MoveAttack, Username: p.Username, Card: c.ID}
			if ref.IsCard() {
				m.DefendingCard = ref.CardID
			}
			moves = append(moves, m)
		}
	}
	return moves
}

func (g *Game) activationMoves(p *Player) []Move {
	var moves []Move
	for _, c := range p.Board() {
		mt := MoveActivateArtifact
		if c.CardType == cards.TypeMob {
			mt = MoveActivateMob
		}
		for i, e := range c.Effects {
			if e.EffectType != cards.EffectActivated || g.canActivate(p, c, i) != nil {
				continue
			}
			if !e.TargetType.NeedsChoice() {
				moves = append(moves, Move{MoveType: mt, Username: p.Username, Card: c.ID, EffectIndex: i})
				continue
			}
			for _, ref := range g.legalTargets(p.Username, e) {
				moves = append(moves, Move{
					MoveType:      mt,
					Username:      p.Username,
					Card:          c.ID,
					EffectIndex:   i,
					EffectTargets: refsAt(i, ref),
				})
			}
		}
	}
	return moves
}

// selectMove is the SELECT_* move that picks ref.
func (g *Game) selectMove(p *Player, ref targeting.Ref) (Move, bool) {
	m := Move{Username: p.Username}
	switch ref.Kind {
	case targeting.RefPlayer:
		m.MoveType = MoveSelectOpponent
		if ref.Player == p.Username {
			m.MoveType = MoveSelectSelf
		}
	case targeting.RefStack:
		m.MoveType = MoveSelectStackSpell
		m.Card = ref.CardID
	case targeting.RefCard:
		m.Card = ref.CardID
		switch _, _, z := g.findInPlay(ref.CardID); z {
		case ZoneInPlay:
			m.MoveType = MoveSelectMob
		case ZoneArtifacts:
			m.MoveType = MoveSelectArtifact
		default:
			return m, false
		}
	default:
		return m, false
	}
	return m, true
}

func (g *Game) targetMovesFor(p *Player, req TargetRequest) []Move {
	var refs []targeting.Ref
	switch req.Reason {
	case ReasonSpellCast, ReasonMobComesIntoPlay:
		if c := p.FindIn(ZoneHand, req.CardID); c != nil && g.canCast(p, c) == nil {
			refs = g.castTargets(p, c)
		}
	case ReasonMobActivated, ReasonArtifactActivated:
		if c, ctrl, _ := g.findInPlay(req.CardID); c != nil && ctrl == p && g.canActivate(p, c, req.EffectIndex) == nil {
			refs = g.legalTargets(p.Username, c.Effects[req.EffectIndex])
		}
	case ReasonMobAtReady:
		if c := p.FindIn(ZoneInPlay, req.CardID); c != nil && g.canAttack(p, c) == nil {
			refs = g.attackTargets(p, c)
		}
	}
	var moves []Move
	for _, ref := range refs {
		if m, ok := g.selectMove(p, ref); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

func (g *Game) choiceMovesFor(p *Player) []Move {
	ch := p.CardChoiceInfo
	var moves []Move
	switch ch.Kind {
	case ChoiceMake:
		for _, name := range ch.Names {
			moves = append(moves, Move{MoveType: MoveMakeCard, Username: p.Username, Choice: name})
		}
	case ChoiceMakeEffect:
		for _, name := range ch.Names {
			moves = append(moves, Move{MoveType: MoveMakeEffect, Username: p.Username, Choice: name})
		}
	case ChoiceFetchCard, ChoiceFetchCardIntoPlay, ChoiceFetchCardFromPlayedPile, ChoiceRiffle:
		mt, from := choiceMove(ch.Kind)
		for _, id := range ch.CardIDs {
			c := p.FindIn(from, id)
			if c == nil {
				continue
			}
			if ch.Kind == ChoiceFetchCardIntoPlay && !g.hasRoomFor(p, c) {
				continue
			}
			moves = append(moves, Move{MoveType: mt, Username: p.Username, Card: id})
		}
	}
	if ch.Cancellable() {
		moves = append(moves, Move{MoveType: MoveCancelMake, Username: p.Username})
	}
	return moves
}

// choiceMove maps a card choice to the move answering it and the zone its
// cards sit in.
func choiceMove(kind ChoiceKind) (MoveType, Zone) {
	switch kind {
	case ChoiceFetchCardIntoPlay:
		return MoveFetchCardIntoPlay, ZoneDeck
	case ChoiceFetchCardFromPlayedPile:
		return MoveFetchCardFromPlayedPile, ZonePlayedPile
	case ChoiceRiffle:
		return MoveFinishRiffle, ZoneDeck
	}
	return MoveFetchCard, ZoneDeck
}

// containsMove reports whether moves holds a move equal to m in every field
// that identifies it.
func containsMove(moves []Move, m Move) bool {
	return slices.ContainsFunc(moves, func(x Move) bool {
		return x.MoveType == m.MoveType && x.Card == m.Card && x.Choice == m.Choice &&
			x.DefendingCard == m.DefendingCard && x.EffectIndex == m.EffectIndex &&
			slices.Equal(x.EffectTargets, m.EffectTargets)
	})
}
