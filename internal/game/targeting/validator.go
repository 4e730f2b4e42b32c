package targeting

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTarget is returned when a target is required but none was given.
	ErrNoTarget = errors.New("no target chosen")
	// ErrIllegalTarget is returned when the chosen target does not qualify.
	ErrIllegalTarget = errors.New("illegal target")
)

// Zone names used by CardInfo.
const (
	ZoneInPlay    = "in_play"
	ZoneArtifacts = "artifacts"
)

// CardInfo describes a targetable card.
type CardInfo struct {
	Candidate
	Controller string
	Zone       string
	// Hidden marks cards the opponent may not target (Lurker).
	Hidden bool
}

// StateAccessor provides the game state needed for target validation.
type StateAccessor interface {
	// FindCardForTarget finds a card in play or among artifacts.
	FindCardForTarget(cardID int) (CardInfo, bool)
	// HasPlayer reports whether the username is seated in the game.
	HasPlayer(username string) bool
	// StackHasCard reports whether a spell with that card id is on the stack.
	StackHasCard(cardID int) bool
}

// Validator checks chosen targets against target types and restrictions.
type Validator struct {
	state StateAccessor
}

// NewValidator creates a validator over the given state.
func NewValidator(state StateAccessor) *Validator {
	return &Validator{state: state}
}

// Validate checks that ref is a legal target of type tt for actor.
func (v *Validator) Validate(actor string, tt TargetType, restrictions []Restriction, ref Ref) error {
	if tt.Independent() {
		return nil
	}
	switch ref.Kind {
	case RefPlayer:
		if !tt.AllowsPlayer() {
			return fmt.Errorf("%w: %s cannot target a player", ErrIllegalTarget, tt)
		}
		if !v.state.HasPlayer(ref.Player) {
			return fmt.Errorf("%w: unknown player %q", ErrIllegalTarget, ref.Player)
		}
		return nil
	case RefCard:
		return v.validateCard(actor, tt, restrictions, ref.CardID)
	case RefStack:
		if !tt.AllowsStack() {
			return fmt.Errorf("%w: %s cannot target the stack", ErrIllegalTarget, tt)
		}
		if !v.state.StackHasCard(ref.CardID) {
			return fmt.Errorf("%w: card %d is not on the stack", ErrIllegalTarget, ref.CardID)
		}
		return nil
	default:
		return fmt.Errorf("%w for %s", ErrNoTarget, tt)
	}
}

func (v *Validator) validateCard(actor string, tt TargetType, restrictions []Restriction, id int) error {
	info, ok := v.state.FindCardForTarget(id)
	if !ok {
		return fmt.Errorf("%w: card %d is not in play", ErrIllegalTarget, id)
	}
	switch info.Zone {
	case ZoneInPlay:
		if !tt.AllowsMob() {
			return fmt.Errorf("%w: %s cannot target a mob", ErrIllegalTarget, tt)
		}
	case ZoneArtifacts:
		if !tt.AllowsArtifact() {
			return fmt.Errorf("%w: %s cannot target an artifact", ErrIllegalTarget, tt)
		}
	default:
		return fmt.Errorf("%w: card %d is in %s", ErrIllegalTarget, id, info.Zone)
	}
	if tt.OwnSideOnly() && info.Controller != actor {
		return fmt.Errorf("%w: card %d belongs to the opponent", ErrIllegalTarget, id)
	}
	if tt.OpponentSideOnly() && info.Controller == actor {
		return fmt.Errorf("%w: card %d is your own", ErrIllegalTarget, id)
	}
	if info.Hidden && info.Controller != actor {
		return fmt.Errorf("%w: card %d cannot be targeted", ErrIllegalTarget, id)
	}
	if !MatchesAll(restrictions, info.Candidate) {
		return fmt.Errorf("%w: card %d does not meet restrictions", ErrIllegalTarget, id)
	}
	return nil
}
