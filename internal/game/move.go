package game

import (
	"time"

	"github.com/duelhall/duel-server-go/internal/game/targeting"
)

// MoveType tags a Move.
type MoveType string

const (
	MoveJoin                    MoveType = "JOIN"
	MoveStartFirstTurn          MoveType = "START_FIRST_TURN"
	MoveEndTurn                 MoveType = "END_TURN"
	MoveSelectCardInHand        MoveType = "SELECT_CARD_IN_HAND"
	MovePlayCardInHand          MoveType = "PLAY_CARD_IN_HAND"
	MovePlayCard                MoveType = "PLAY_CARD"
	MoveSelectMob               MoveType = "SELECT_MOB"
	MoveSelectArtifact          MoveType = "SELECT_ARTIFACT"
	MoveSelectStackSpell        MoveType = "SELECT_STACK_SPELL"
	MoveSelectOpponent          MoveType = "SELECT_OPPONENT"
	MoveSelectSelf              MoveType = "SELECT_SELF"
	MoveAttack                  MoveType = "ATTACK"
	MoveResolveNextStack        MoveType = "RESOLVE_NEXT_STACK"
	MoveActivateArtifact        MoveType = "ACTIVATE_ARTIFACT"
	MoveActivateMob             MoveType = "ACTIVATE_MOB"
	MoveResolveMobEffect        MoveType = "RESOLVE_MOB_EFFECT"
	MoveMakeCard                MoveType = "MAKE_CARD"
	MoveMakeEffect              MoveType = "MAKE_EFFECT"
	MoveCancelMake              MoveType = "CANCEL_MAKE"
	MoveFetchCard               MoveType = "FETCH_CARD"
	MoveFetchCardIntoPlay       MoveType = "FETCH_CARD_INTO_PLAY"
	MoveFetchCardFromPlayedPile MoveType = "FETCH_CARD_FROM_PLAYED_PILE"
	MoveFinishRiffle            MoveType = "FINISH_RIFFLE"
	MoveHideRevealedCards       MoveType = "HIDE_REVEALED_CARDS"
	MoveUnselect                MoveType = "UNSELECT"
	MoveGetTime                 MoveType = "GET_TIME"
)

// AllMoveTypes lists every move type in protocol order.
var AllMoveTypes = []MoveType{
	MoveJoin, MoveStartFirstTurn, MoveEndTurn, MoveSelectCardInHand, MovePlayCardInHand,
	MovePlayCard, MoveSelectMob, MoveSelectArtifact, MoveSelectStackSpell, MoveSelectOpponent,
	MoveSelectSelf, MoveAttack, MoveResolveNextStack, MoveActivateArtifact, MoveActivateMob,
	MoveResolveMobEffect, MoveMakeCard, MoveMakeEffect, MoveCancelMake, MoveFetchCard,
	MoveFetchCardIntoPlay, MoveFetchCardFromPlayedPile, MoveFinishRiffle, MoveHideRevealedCards,
	MoveUnselect, MoveGetTime,
}

// Move is the single input message of the engine. Card is a card instance
// id. DefendingCard of 0 means an attack on the opposing player. Choice
// carries a card name or global effect name for MAKE_CARD and MAKE_EFFECT.
type Move struct {
	MoveType      MoveType        `json:"move_type" mapstructure:"move_type"`
	Username      string          `json:"username" mapstructure:"username"`
	Card          int             `json:"card,omitempty" mapstructure:"card"`
	Choice        string          `json:"choice,omitempty" mapstructure:"choice"`
	EffectIndex   int             `json:"effect_index,omitempty" mapstructure:"effect_index"`
	EffectTargets []targeting.Ref `json:"effect_targets,omitempty" mapstructure:"effect_targets"`
	DefendingCard int             `json:"defending_card,omitempty" mapstructure:"defending_card"`
	Deck          []string        `json:"deck,omitempty" mapstructure:"deck"`
	LogLines      []string        `json:"log_lines,omitempty" mapstructure:"log_lines"`
	Clock         *TurnClock      `json:"clock,omitempty" mapstructure:"-"`
}

func (m Move) clone() Move {
	m.EffectTargets = append([]targeting.Ref(nil), m.EffectTargets...)
	m.Deck = append([]string(nil), m.Deck...)
	m.LogLines = append([]string(nil), m.LogLines...)
	if m.Clock != nil {
		c := *m.Clock
		m.Clock = &c
	}
	return m
}

// target returns the chosen target for the effect at index i, falling back
// to the first chosen target.
func (m Move) target(i int) targeting.Ref {
	if i >= 0 && i < len(m.EffectTargets) && !m.EffectTargets[i].IsNone() {
		return m.EffectTargets[i]
	}
	if len(m.EffectTargets) > 0 {
		return m.EffectTargets[0]
	}
	return targeting.None()
}

// TurnClock is the advisory turn timer reported by GET_TIME.
type TurnClock struct {
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
	Remaining time.Duration `json:"remaining"`
	Expired   bool          `json:"expired"`
}

// Result is what the engine returns for an accepted move. Clickable is the
// mover's set; Clickables holds the set of every seated player, keyed by
// username.
type Result struct {
	Move       Move                    `json:"move"`
	Clickable  ClickableSet            `json:"clickable"`
	Clickables map[string]ClickableSet `json:"clickables"`
	Game       *Game                   `json:"game,omitempty"`
}
