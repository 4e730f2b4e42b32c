package main

import (
	"bytes"
	"testing"

	"github.com/duelhall/duel-server-go/internal/catalog"
	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/duelhall/duel-server-go/internal/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newEngine(t *testing.T) *game.Engine {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return game.NewEngine(c, game.DefaultRules(), zaptest.NewLogger(t))
}

func TestPlayPrintsNarration(t *testing.T) {
	script, err := notation.ParseString("t", `game "cli" seed 3
alice JOIN
bob JOIN
alice START_FIRST_TURN
alice END_TURN
`)
	require.NoError(t, err)

	var out bytes.Buffer
	g, err := play(&out, newEngine(t), script)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Turns.Turn)
	assert.Contains(t, out.String(), "> alice JOIN\n  alice joins the game.\n")
	assert.Contains(t, out.String(), "> alice END_TURN\n")
}

func TestPlayStopsAtIllegalMove(t *testing.T) {
	script, err := notation.ParseString("t", "alice JOIN\nbob END_TURN\n")
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = play(&out, newEngine(t), script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "move 2 (bob END_TURN)")
}

func TestExportReplay(t *testing.T) {
	dir := t.TempDir()
	r := game.NewReplay("saved", 8)
	r.Record(game.Move{MoveType: game.MoveJoin, Username: "alice"})
	r.Record(game.Move{MoveType: game.MoveJoin, Username: "bob"})
	require.NoError(t, r.SaveToFile(dir))

	var out bytes.Buffer
	require.NoError(t, exportReplay(&out, dir, "saved"))
	assert.Equal(t, "game \"saved\" seed 8\nalice JOIN\nbob JOIN\n", out.String())

	assert.Error(t, exportReplay(&out, dir, ""))
}
