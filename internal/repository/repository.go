// Package repository persists game snapshots and card templates.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/oklog/ulid/v2"
)

// ErrCorruptSnapshot is returned when a stored state no longer matches its
// checksum.
var ErrCorruptSnapshot = errors.New("snapshot checksum mismatch")

// Revision describes one stored snapshot of a game.
type Revision struct {
	ID        string      `json:"id"`
	GameID    string      `json:"game_id"`
	Turn      int         `json:"turn"`
	Status    game.Status `json:"status"`
	Checksum  string      `json:"checksum"`
	CreatedAt time.Time   `json:"created_at"`
}

// snapshot is a serialized game ready to be written.
type snapshot struct {
	Revision
	State []byte
}

// newSnapshot serializes g under a fresh, time-ordered revision id.
func newSnapshot(g *game.Game, now time.Time) (snapshot, error) {
	if g == nil || g.ID == "" {
		return snapshot{}, errors.New("game id is required")
	}
	state, err := json.Marshal(g)
	if err != nil {
		return snapshot{}, fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	sum, err := g.ComputeChecksum()
	if err != nil {
		return snapshot{}, fmt.Errorf("checksum game %s: %w", g.ID, err)
	}
	return snapshot{
		Revision: Revision{
			ID:        ulid.Make().String(),
			GameID:    g.ID,
			Turn:      g.Turns.Turn,
			Status:    g.Status,
			Checksum:  sum.Hash,
			CreatedAt: now.UTC(),
		},
		State: state,
	}, nil
}

// decodeSnapshot restores a game and checks it against the stored checksum.
func decodeSnapshot(gameID string, state []byte, checksum string) (*game.Game, error) {
	var g game.Game
	if err := json.Unmarshal(state, &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	sum, err := g.ComputeChecksum()
	if err != nil {
		return nil, fmt.Errorf("checksum game %s: %w", gameID, err)
	}
	if sum.Hash != checksum {
		return nil, fmt.Errorf("%w: game %s", ErrCorruptSnapshot, gameID)
	}
	return &g, nil
}

func notFound(gameID string) error {
	return fmt.Errorf("%w: %s", game.ErrGameNotFound, gameID)
}
