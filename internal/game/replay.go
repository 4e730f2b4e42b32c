package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// replayVersion is bumped when the file layout changes.
const replayVersion = 1

// Replay is a recorded game: its seed and every accepted move in order.
// Applying the moves to a fresh game with the same id and seed reproduces
// the game exactly.
type Replay struct {
	GameID       string
	Seed         uint64
	Moves        []Move
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(gameID string, seed uint64) *Replay {
	return &Replay{
		GameID: gameID,
		Seed:   seed,
		Moves:  make([]Move, 0),
	}
}

// Record appends an accepted move. Log lines are output, not input, and are
// dropped.
func (r *Replay) Record(m Move) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m = m.clone()
	m.LogLines = nil
	m.Clock = nil
	r.Moves = append(r.Moves, m)
}

// Start rewinds the cursor.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the move under the cursor and advances it.
func (r *Replay) Next() (Move, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.Moves) {
		m := r.Moves[r.CurrentIndex]
		r.CurrentIndex++
		return m, true
	}
	return Move{}, false
}

// Previous steps the cursor back and returns that move.
func (r *Replay) Previous() (Move, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.Moves[r.CurrentIndex], true
	}
	return Move{}, false
}

// Size returns the number of recorded moves.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Moves)
}

// MoveAt returns the move at index.
func (r *Replay) MoveAt(index int) (Move, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.Moves) {
		return r.Moves[index], true
	}
	return Move{}, false
}

// Play rebuilds the game by applying the first n moves (all when n < 0).
func (r *Replay) Play(engine *Engine, n int) (*Game, error) {
	r.mu.RLock()
	moves := append([]Move(nil), r.Moves...)
	r.mu.RUnlock()

	if n < 0 || n > len(moves) {
		n = len(moves)
	}
	g := engine.NewGame(r.GameID, r.Seed)
	for i, m := range moves[:n] {
		next, _, err := engine.Apply(g, m)
		if err != nil {
			return g, fmt.Errorf("replay move %d: %w", i, err)
		}
		g = next
	}
	return g, nil
}

// SaveToFile writes the replay as a gzipped gob stream named after the game.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)
	metadata := replayMetadata{
		GameID:    r.GameID,
		Seed:      r.Seed,
		Timestamp: time.Now(),
		Version:   replayVersion,
		MoveCount: len(r.Moves),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range r.Moves {
		if err := encoder.Encode(&r.Moves[i]); err != nil {
			return fmt.Errorf("failed to encode move %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)
	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID, metadata.Seed)
	for i := 0; i < metadata.MoveCount; i++ {
		var m Move
		if err := decoder.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode move %d: %w", i, err)
		}
		replay.Moves = append(replay.Moves, m)
	}
	return replay, nil
}

type replayMetadata struct {
	GameID    string
	Seed      uint64
	Timestamp time.Time
	Version   int
	MoveCount int
}

// ReplayRecorder keeps replays of running games and writes finished ones
// to disk.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	saveDir string
}

// NewReplayRecorder creates a recorder saving into saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		saveDir: saveDir,
	}
}

// StartRecording begins a replay for the game.
func (rr *ReplayRecorder) StartRecording(gameID string, seed uint64) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[gameID] = NewReplay(gameID, seed)
	rr.logger.Info("started replay recording", zap.String("game_id", gameID))
}

// Record appends a move to the game's replay, if one is being recorded.
func (rr *ReplayRecorder) Record(gameID string, m Move) {
	rr.mu.RLock()
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if replay == nil {
		return
	}
	replay.Record(m)
	rr.logger.Debug("recorded replay move",
		zap.String("game_id", gameID),
		zap.Int("move_count", replay.Size()),
	)
}

// GetReplay returns the in-memory replay of a game.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, exists := rr.replays[gameID]
	return replay, exists
}

// SaveReplay writes a replay to disk and forgets it.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, exists := rr.replays[gameID]
	if !exists {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	delete(rr.replays, gameID)
	rr.mu.Unlock()

	if rr.saveDir == "" {
		return nil
	}
	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("move_count", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// LoadReplay reads a saved replay from disk.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, gameID)
	if err != nil {
		return nil, err
	}
	rr.logger.Info("loaded replay from disk",
		zap.String("game_id", gameID),
		zap.Int("move_count", replay.Size()),
	)
	return replay, nil
}

// ClearReplay forgets a replay without saving it.
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, gameID)
}
