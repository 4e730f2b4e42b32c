package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS game_snapshots (
    revision   TEXT PRIMARY KEY,
    game_id    TEXT NOT NULL,
    turn       INTEGER NOT NULL,
    status     TEXT NOT NULL,
    checksum   TEXT NOT NULL,
    state      JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_snapshots_game ON game_snapshots (game_id, revision);
CREATE TABLE IF NOT EXISTS card_templates (
    name       TEXT PRIMARY KEY,
    card_type  TEXT NOT NULL,
    cost       INTEGER NOT NULL,
    template   JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresStore keeps snapshots and imported card templates in PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	now    func() time.Time
}

// NewPostgresStore connects a pool and makes sure the schema exists.
func NewPostgresStore(ctx context.Context, dsn string, maxConns int32, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("postgres snapshot store ready", zap.Int32("max_conns", cfg.MaxConns))
	return &PostgresStore{pool: pool, logger: logger, now: time.Now}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveSnapshot appends a new revision of g and returns its id.
func (s *PostgresStore) SaveSnapshot(ctx context.Context, g *game.Game) (string, error) {
	snap, err := newSnapshot(g, s.now())
	if err != nil {
		return "", err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO game_snapshots (revision, game_id, turn, status, checksum, state, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		snap.ID, snap.GameID, snap.Turn, string(snap.Status), snap.Checksum, snap.State, snap.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot %s: %w", g.ID, err)
	}
	return snap.ID, nil
}

// LoadSnapshot returns the latest revision of the game.
func (s *PostgresStore) LoadSnapshot(ctx context.Context, gameID string) (*game.Game, error) {
	var (
		state    []byte
		checksum string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT state, checksum FROM game_snapshots
		 WHERE game_id = $1 ORDER BY revision DESC LIMIT 1`,
		gameID,
	).Scan(&state, &checksum)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", gameID, err)
	}
	return decodeSnapshot(gameID, state, checksum)
}

// Revisions lists the stored revisions of a game, oldest first.
func (s *PostgresStore) Revisions(ctx context.Context, gameID string) ([]Revision, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT revision, game_id, turn, status, checksum, created_at FROM game_snapshots
		 WHERE game_id = $1 ORDER BY revision`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions %s: %w", gameID, err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var (
			r      Revision
			status string
		)
		if err := rows.Scan(&r.ID, &r.GameID, &r.Turn, &status, &r.Checksum, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		r.Status = game.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteGame removes every revision of a game.
func (s *PostgresStore) DeleteGame(ctx context.Context, gameID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM game_snapshots WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	return nil
}

// UpsertTemplates writes card templates in one batch and returns how many
// rows were written.
func (s *PostgresStore) UpsertTemplates(ctx context.Context, templates []cards.Template) (int, error) {
	batch := &pgx.Batch{}
	for _, t := range templates {
		data, err := json.Marshal(t)
		if err != nil {
			return 0, fmt.Errorf("encode card %s: %w", t.Name, err)
		}
		batch.Queue(
			`INSERT INTO card_templates (name, card_type, cost, template, updated_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 ON CONFLICT (name) DO UPDATE SET
			   card_type = EXCLUDED.card_type,
			   cost = EXCLUDED.cost,
			   template = EXCLUDED.template,
			   updated_at = NOW()`,
			t.Name, string(t.CardType), t.Cost, data,
		)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := range templates {
		if _, err := br.Exec(); err != nil {
			return i, fmt.Errorf("upsert card %s: %w", templates[i].Name, err)
		}
	}
	return len(templates), nil
}

// LoadTemplates reads every imported card template ordered by name.
func (s *PostgresStore) LoadTemplates(ctx context.Context) ([]cards.Template, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, template FROM card_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list card templates: %w", err)
	}
	defer rows.Close()

	var out []cards.Template
	for rows.Next() {
		var (
			name string
			data []byte
		)
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("scan card template: %w", err)
		}
		var t cards.Template
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("decode card %s: %w", name, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
