package rules

// TurnTracker holds the two turn counters. Turn advances once per real turn
// and its parity selects the active player. ActorTurn advances on every
// priority pass while the stack is non-empty and its parity selects the
// player allowed to move; it equals Turn whenever the stack is empty.
type TurnTracker struct {
	Turn      int `json:"turn"`
	ActorTurn int `json:"actor_turn"`
}

// ActiveIndex is the seat of the player whose turn it is.
func (t TurnTracker) ActiveIndex() int {
	return t.Turn % 2
}

// PriorityIndex is the seat of the player allowed to move.
func (t TurnTracker) PriorityIndex() int {
	return t.ActorTurn % 2
}

// PassPriority hands priority to the other seat.
func (t *TurnTracker) PassPriority() {
	t.ActorTurn++
}

// Restore puts priority back to a previously recorded actor turn.
func (t *TurnTracker) Restore(actorTurn int) {
	t.ActorTurn = actorTurn
}

// Settle realigns priority with the active player.
func (t *TurnTracker) Settle() {
	t.ActorTurn = t.Turn
}

// Advance moves the turn counter forward by n and settles priority. An extra
// turn advances by two so the same seat stays active.
func (t *TurnTracker) Advance(n int) {
	if n <= 0 {
		return
	}
	t.Turn += n
	t.Settle()
}
