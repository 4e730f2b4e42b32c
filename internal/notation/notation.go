// Package notation reads and writes duel scripts: a plain-text move log
// with one move per line.
//
//	# comments run to the end of the line
//	game "duel-1" seed 42
//	alice JOIN deck "Grunt", "Ogre"
//	bob JOIN
//	alice START_FIRST_TURN
//	alice PLAY_CARD_IN_HAND card 12 targets card:7
//	bob ATTACK card 9 defending 4
//	alice MAKE_CARD choice "Grunt"
//	alice END_TURN
package notation

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
)

type scriptAST struct {
	Header *headerAST `parser:"EOL* @@?"`
	Lines  []*lineAST `parser:"@@*"`
}

type headerAST struct {
	GameID string `parser:"'game' @String"`
	Seed   uint64 `parser:"'seed' @Int EOL+"`
}

type lineAST struct {
	Pos      lexer.Position
	Player   string    `parser:"@(Ident | String)"`
	MoveType string    `parser:"@Ident"`
	Args     []*argAST `parser:"@@* EOL+"`
}

type argAST struct {
	Card      *int         `parser:"  'card' @Int"`
	Defending *int         `parser:"| 'defending' @Int"`
	Effect    *int         `parser:"| 'effect' @Int"`
	Choice    *string      `parser:"| 'choice' @(String | Ident)"`
	Deck      []string     `parser:"| 'deck' @String (',' @String)*"`
	Targets   []*targetAST `parser:"| 'targets' @@ (',' @@)*"`
}

type targetAST struct {
	None   bool    `parser:"  @'none'"`
	Player *string `parser:"| 'player' ':' @(Ident | String)"`
	Card   *int    `parser:"| 'card' ':' @Int"`
	Stack  *int    `parser:"| 'stack' ':' @Int"`
}

var scriptParser = participle.MustBuild[scriptAST](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Int", Pattern: `\d+`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_\-]*`},
		{Name: "Punct", Pattern: `[,:]`},
		{Name: "EOL", Pattern: `(\r?\n)+`},
		{Name: "Whitespace", Pattern: `[ \t]+`},
	})),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(3),
)

// Script is a parsed duel script.
type Script struct {
	GameID string
	Seed   uint64
	Moves  []game.Move
}

var moveTypes = func() map[string]game.MoveType {
	m := make(map[string]game.MoveType, len(game.AllMoveTypes))
	for _, mt := range game.AllMoveTypes {
		m[string(mt)] = mt
	}
	return m
}()

// Parse reads a script. name is used in error positions.
func Parse(name string, r io.Reader) (*Script, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", name, err)
	}
	return ParseString(name, string(src))
}

// ParseString reads a script from memory.
func ParseString(name, src string) (*Script, error) {
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	ast, err := scriptParser.ParseString(name, src)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	s := &Script{}
	if ast.Header != nil {
		s.GameID = ast.Header.GameID
		s.Seed = ast.Header.Seed
	}
	for _, l := range ast.Lines {
		m, err := l.move()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.Pos, err)
		}
		s.Moves = append(s.Moves, m)
	}
	return s, nil
}

func (l *lineAST) move() (game.Move, error) {
	mt, ok := moveTypes[strings.ToUpper(l.MoveType)]
	if !ok {
		return game.Move{}, fmt.Errorf("unknown move type %q", l.MoveType)
	}
	m := game.Move{MoveType: mt, Username: l.Player}
	for _, a := range l.Args {
		switch {
		case a.Card != nil:
			m.Card = *a.Card
		case a.Defending != nil:
			m.DefendingCard = *a.Defending
		case a.Effect != nil:
			m.EffectIndex = *a.Effect
		case a.Choice != nil:
			m.Choice = *a.Choice
		case a.Deck != nil:
			m.Deck = append(m.Deck, a.Deck...)
		case a.Targets != nil:
			for _, t := range a.Targets {
				m.EffectTargets = append(m.EffectTargets, t.ref())
			}
		}
	}
	return m, nil
}

func (t *targetAST) ref() targeting.Ref {
	switch {
	case t.Player != nil:
		return targeting.Player(*t.Player)
	case t.Card != nil:
		return targeting.Card(*t.Card)
	case t.Stack != nil:
		return targeting.Stack(*t.Stack)
	}
	return targeting.None()
}

// Replay turns the script into a replay ready to be played on an engine.
func (s *Script) Replay() *game.Replay {
	r := game.NewReplay(s.GameID, s.Seed)
	for _, m := range s.Moves {
		r.Record(m)
	}
	return r
}

// FromReplay builds a script from recorded moves.
func FromReplay(r *game.Replay) *Script {
	return &Script{GameID: r.GameID, Seed: r.Seed, Moves: append([]game.Move(nil), r.Moves...)}
}

// WriteTo writes the script in the form Parse reads.
func (s *Script) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	if s.GameID != "" || s.Seed != 0 {
		fmt.Fprintf(&b, "game %s seed %d\n", strconv.Quote(s.GameID), s.Seed)
	}
	for _, m := range s.Moves {
		b.WriteString(Format(m))
		b.WriteByte('\n')
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func (s *Script) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}

// Format renders one move as a script line.
func Format(m game.Move) string {
	parts := []string{word(m.Username), string(m.MoveType)}
	if m.Card != 0 {
		parts = append(parts, "card", strconv.Itoa(m.Card))
	}
	if m.DefendingCard != 0 {
		parts = append(parts, "defending", strconv.Itoa(m.DefendingCard))
	}
	if m.EffectIndex != 0 {
		parts = append(parts, "effect", strconv.Itoa(m.EffectIndex))
	}
	if m.Choice != "" {
		parts = append(parts, "choice", strconv.Quote(m.Choice))
	}
	if len(m.Deck) > 0 {
		quoted := make([]string, len(m.Deck))
		for i, name := range m.Deck {
			quoted[i] = strconv.Quote(name)
		}
		parts = append(parts, "deck", strings.Join(quoted, ", "))
	}
	if len(m.EffectTargets) > 0 {
		refs := make([]string, len(m.EffectTargets))
		for i, r := range m.EffectTargets {
			refs[i] = formatRef(r)
		}
		parts = append(parts, "targets", strings.Join(refs, ", "))
	}
	return strings.Join(parts, " ")
}

func formatRef(r targeting.Ref) string {
	if r.IsPlayer() {
		return "player:" + word(r.Player)
	}
	return r.String()
}

// word quotes s unless it lexes as a bare identifier.
func word(s string) string {
	if s == "" {
		return `""`
	}
	for i, c := range s {
		letter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if letter || (i > 0 && (c == '-' || (c >= '0' && c <= '9'))) {
			continue
		}
		return strconv.Quote(s)
	}
	return s
}
