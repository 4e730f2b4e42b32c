package targeting

import (
	"fmt"
	"strconv"
)

// RefKind discriminates the variants of Ref.
type RefKind string

const (
	RefNone   RefKind = ""
	RefPlayer RefKind = "player"
	RefCard   RefKind = "card"
	RefStack  RefKind = "stack"
)

// Ref is a resolved target: nothing, a player, a card in play or a spell on
// the stack. The zero value is the "no target" outcome.
type Ref struct {
	Kind   RefKind `json:"kind,omitempty" mapstructure:"kind"`
	Player string  `json:"player,omitempty" mapstructure:"player"`
	CardID int     `json:"card,omitempty" mapstructure:"card"`
}

// None returns the empty target.
func None() Ref { return Ref{} }

// Player targets a player by username.
func Player(username string) Ref { return Ref{Kind: RefPlayer, Player: username} }

// Card targets a card in play by instance id.
func Card(id int) Ref { return Ref{Kind: RefCard, CardID: id} }

// Stack targets the spell on the stack whose card has the given id.
func Stack(cardID int) Ref { return Ref{Kind: RefStack, CardID: cardID} }

// IsNone reports whether r carries no target.
func (r Ref) IsNone() bool { return r.Kind == RefNone }

// IsPlayer reports whether r targets a player.
func (r Ref) IsPlayer() bool { return r.Kind == RefPlayer }

// IsCard reports whether r targets a card.
func (r Ref) IsCard() bool { return r.Kind == RefCard }

// IsStack reports whether r targets a stack entry.
func (r Ref) IsStack() bool { return r.Kind == RefStack }

func (r Ref) String() string {
	switch r.Kind {
	case RefPlayer:
		return "player:" + r.Player
	case RefCard:
		return "card:" + strconv.Itoa(r.CardID)
	case RefStack:
		return "stack:" + strconv.Itoa(r.CardID)
	default:
		return "none"
	}
}

// ParseRef reverses String.
func ParseRef(s string) (Ref, error) {
	if s == "" || s == "none" {
		return None(), nil
	}
	for i := 0; i < len(s); i++ {
		if s[i] != ':' {
			continue
		}
		kind, val := s[:i], s[i+1:]
		switch RefKind(kind) {
		case RefPlayer:
			return Player(val), nil
		case RefCard, RefStack:
			id, err := strconv.Atoi(val)
			if err != nil {
				return None(), fmt.Errorf("invalid card id %q: %w", val, err)
			}
			return Ref{Kind: RefKind(kind), CardID: id}, nil
		}
		break
	}
	return None(), fmt.Errorf("invalid target reference %q", s)
}
