package game

import (
	"errors"
	"fmt"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameExists       = errors.New("game already exists")
	ErrGameOver         = errors.New("game is over")
	ErrGameFull         = errors.New("game already has two players")
	ErrAlreadyJoined    = errors.New("player already joined")
	ErrNotJoined        = errors.New("player is not in this game")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrWrongStatus      = errors.New("move not allowed in current game status")
	ErrUnknownMove      = errors.New("unknown move type")
	ErrUnknownCard      = errors.New("unknown card")
	ErrInsufficientMana = errors.New("insufficient mana")
	ErrNoLegalTarget    = errors.New("no legal target")
	ErrZoneFull         = errors.New("zone is full")
	ErrStackNotEmpty    = errors.New("stack is not empty")
	ErrStackEmpty       = errors.New("stack is empty")
	ErrCannotAttack     = errors.New("mob cannot attack")
	ErrCannotActivate   = errors.New("card cannot be activated")
	ErrNothingSelected  = errors.New("nothing selected")
	ErrNoPendingChoice  = errors.New("no pending choice")
	ErrPendingChoice    = errors.New("a card choice must be resolved first")
	ErrInvalidChoice    = errors.New("invalid choice")
	ErrNotInstant       = errors.New("only instant cards may be played while the stack is non-empty")
	ErrInsufficientLife = errors.New("insufficient hit points")
)

// IllegalMoveError reports a rejected move. The game state is unchanged.
type IllegalMoveError struct {
	MoveType MoveType
	Username string
	Err      error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s by %q: %v", e.MoveType, e.Username, e.Err)
}

func (e *IllegalMoveError) Unwrap() error {
	return e.Err
}

func illegal(m Move, err error) *IllegalMoveError {
	return &IllegalMoveError{MoveType: m.MoveType, Username: m.Username, Err: err}
}
