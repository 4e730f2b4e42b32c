// Command duel plays a move script against a seeded game and prints the
// narration of every move.
//
//	duel -script opening.duel
//	duel -replay-dir data/replays -game 3f1c... > game.duel
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/duelhall/duel-server-go/internal/catalog"
	"github.com/duelhall/duel-server-go/internal/config"
	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/duelhall/duel-server-go/internal/notation"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	scriptPath = flag.String("script", "-", "move script to play, - for stdin")
	seed       = flag.Uint64("seed", 0, "override the script seed")
	replayDir  = flag.String("replay-dir", "", "export a recorded replay from this directory as a script")
	gameID     = flag.String("game", "", "game id of the replay to export")
	showMoves  = flag.Bool("moves", false, "print the legal moves of the priority player at the end")
	verbose    = flag.Bool("v", false, "log engine events to stderr")
)

func main() {
	flag.Parse()
	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "duel: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer) error {
	if *replayDir != "" {
		return exportReplay(out, *replayDir, *gameID)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger := zap.NewNop()
	if *verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}

	script, err := readScript(*scriptPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		script.Seed = *seed
	}

	cat, err := catalog.Open(cfg.Catalog.Path, logger)
	if err != nil {
		return err
	}
	engine := game.NewEngine(cat, cfg.Rules, logger)
	g, err := play(out, engine, script)
	if err != nil {
		return err
	}

	sum, err := g.ComputeChecksum()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "-- %s status=%s turn=%d checksum=%s\n", g.ID, g.Status, g.Turns.Turn, sum.Hash)
	for _, p := range g.Players {
		fmt.Fprintf(out, "-- %s hp=%d mana=%d/%d hand=%d deck=%d in_play=%d\n",
			p.Username, p.HitPoints, p.Mana.Current, p.Mana.Max, len(p.Hand), len(p.Deck), len(p.InPlay))
	}
	if *showMoves && !g.IsOver() && g.Status == game.StatusInProgress {
		if p := g.PriorityPlayer(); p != nil {
			for _, m := range engine.LegalMoves(g, p.Username) {
				fmt.Fprintln(out, notation.Format(m))
			}
		}
	}
	return nil
}

func readScript(path string) (*notation.Script, error) {
	if path == "-" {
		return notation.Parse("stdin", os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return notation.Parse(path, f)
}

// play applies the script move by move, stopping at the first rejection.
func play(out io.Writer, engine *game.Engine, script *notation.Script) (*game.Game, error) {
	g := engine.NewGame(script.GameID, script.Seed)
	for i, m := range script.Moves {
		next, res, err := engine.Apply(g, m)
		if err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i+1, notation.Format(m), err)
		}
		g = next
		fmt.Fprintf(out, "> %s\n", notation.Format(m))
		for _, line := range res.Move.LogLines {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	return g, nil
}

func exportReplay(out io.Writer, dir, id string) error {
	if id == "" {
		return fmt.Errorf("-game is required with -replay-dir")
	}
	r, err := game.LoadReplayFromFile(dir, id)
	if err != nil {
		return err
	}
	_, err = notation.FromReplay(r).WriteTo(out)
	return err
}
