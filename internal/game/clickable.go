package game

import (
	"slices"
)

// ClickableSet is what a player may click right now. It is derived from
// LegalMoves after every move and never stored.
type ClickableSet struct {
	Cards            []int    `json:"cards"`
	Players          []string `json:"players"`
	Choices          []string `json:"choices,omitempty"`
	EndTurn          bool     `json:"end_turn"`
	ResolveNextStack bool     `json:"resolve_next_stack"`
	CancelChoice     bool     `json:"cancel_choice"`
	Unselect         bool     `json:"unselect"`
}

// Card reports whether the card with the given id is clickable.
func (s ClickableSet) Card(id int) bool {
	_, ok := slices.BinarySearch(s.Cards, id)
	return ok
}

// Player reports whether the named player is clickable.
func (s ClickableSet) Player(username string) bool {
	return slices.Contains(s.Players, username)
}

// Empty reports whether nothing is clickable.
func (s ClickableSet) Empty() bool {
	return len(s.Cards) == 0 && len(s.Players) == 0 && len(s.Choices) == 0 &&
		!s.EndTurn && !s.ResolveNextStack && !s.CancelChoice && !s.Unselect
}

// ComputeClickable recomputes the clickable set for username from scratch.
func ComputeClickable(g *Game, username string) ClickableSet {
	var s ClickableSet
	for _, m := range LegalMoves(g, username) {
		switch m.MoveType {
		case MoveSelectOpponent:
			if opp := g.Opponent(username); opp != nil {
				s.Players = append(s.Players, opp.Username)
			}
		case MoveSelectSelf:
			s.Players = append(s.Players, username)
		case MoveMakeCard, MoveMakeEffect:
			s.Choices = append(s.Choices, m.Choice)
		case MoveEndTurn:
			s.EndTurn = true
		case MoveResolveNextStack:
			s.ResolveNextStack = true
		case MoveCancelMake:
			s.CancelChoice = true
		case MoveUnselect:
			s.Unselect = true
		case MoveStartFirstTurn:
			s.EndTurn = true
		default:
			if m.Card != 0 {
				s.Cards = append(s.Cards, m.Card)
			}
		}
	}
	slices.Sort(s.Cards)
	s.Cards = slices.Compact(s.Cards)
	slices.Sort(s.Players)
	s.Players = slices.Compact(s.Players)
	return s
}
