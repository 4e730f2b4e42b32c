package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/duelhall/duel-server-go/internal/repository/migrations"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps snapshots in a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// OpenSQLite opens the database at path and applies the embedded migrations.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("sqlite snapshot store ready", zap.String("path", path))
	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSnapshot appends a new revision of g and returns its id.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, g *game.Game) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	snap, err := newSnapshot(g, s.now())
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO game_snapshots (revision, game_id, turn, status, checksum, state, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.GameID, snap.Turn, string(snap.Status), snap.Checksum, snap.State, snap.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot %s: %w", g.ID, err)
	}
	return snap.ID, nil
}

// LoadSnapshot returns the latest revision of the game.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, gameID string) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		state    []byte
		checksum string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT state, checksum FROM game_snapshots
		 WHERE game_id = ? ORDER BY revision DESC LIMIT 1`,
		gameID,
	).Scan(&state, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", gameID, err)
	}
	return decodeSnapshot(gameID, state, checksum)
}

// Revisions lists the stored revisions of a game, oldest first.
func (s *SQLiteStore) Revisions(ctx context.Context, gameID string) ([]Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT revision, game_id, turn, status, checksum, created_at FROM game_snapshots
		 WHERE game_id = ? ORDER BY revision`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions %s: %w", gameID, err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var (
			r       Revision
			status  string
			created int64
		)
		if err := rows.Scan(&r.ID, &r.GameID, &r.Turn, &status, &r.Checksum, &created); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		r.Status = game.Status(status)
		r.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteGame removes every revision of a game.
func (s *SQLiteStore) DeleteGame(ctx context.Context, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM game_snapshots WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	return nil
}
