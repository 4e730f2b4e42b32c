package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// checksumVersion changes whenever the snapshot layout changes.
const checksumVersion = 1

// Checksum is a deterministic digest of a game snapshot. Two games that
// reached the same state through the same seed and moves share a hash.
type Checksum struct {
	Hash    string `json:"hash"`
	Turn    int    `json:"turn"`
	Version int    `json:"version"`
}

// ComputeChecksum hashes the JSON snapshot of the game, random source state
// included. The turn timer is wall-clock state and is left out.
func (g *Game) ComputeChecksum() (*Checksum, error) {
	cp := *g
	cp.TurnStartedAt = time.Time{}
	data, err := json.Marshal(&cp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game: %w", err)
	}
	sum := sha256.Sum256(data)
	return &Checksum{
		Hash:    hex.EncodeToString(sum[:]),
		Turn:    g.Turns.Turn,
		Version: checksumVersion,
	}, nil
}

// VerifyChecksum reports whether the game still matches a stored checksum.
func (g *Game) VerifyChecksum(expected *Checksum) (bool, error) {
	computed, err := g.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash && computed.Version == expected.Version, nil
}

// ValidateSnapshotRoundtrip checks that the game survives a JSON round trip
// without losing state.
func ValidateSnapshotRoundtrip(g *Game) error {
	original, err := g.ComputeChecksum()
	if err != nil {
		return fmt.Errorf("failed to compute original checksum: %w", err)
	}
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}
	var restored Game
	if err := json.Unmarshal(data, &restored); err != nil {
		return fmt.Errorf("failed to deserialize: %w", err)
	}
	again, err := restored.ComputeChecksum()
	if err != nil {
		return fmt.Errorf("failed to compute restored checksum: %w", err)
	}
	if original.Hash != again.Hash {
		return fmt.Errorf("checksum mismatch: original=%s, restored=%s", original.Hash, again.Hash)
	}
	return nil
}
