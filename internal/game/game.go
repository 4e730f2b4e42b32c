package game

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/counters"
	"github.com/duelhall/duel-server-go/internal/game/rules"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// Status is the coarse game state.
type Status string

const (
	StatusAwaitingJoin      Status = "awaiting_join"
	StatusAwaitingFirstTurn Status = "awaiting_first_turn"
	StatusInProgress        Status = "in_progress"
	StatusGameOver          Status = "game_over"
)

// Game is the whole match. A Game value is owned by one caller at a time;
// the Engine never mutates the Game it is given, only clones of it.
type Game struct {
	ID            string                   `json:"id"`
	Status        Status                   `json:"status"`
	Winner        string                   `json:"winner,omitempty"`
	Turns         rules.TurnTracker        `json:"turns"`
	Players       []*Player                `json:"players"`
	Stack         rules.Stack[*StackEntry] `json:"stack"`
	GlobalEffects *counters.Counters       `json:"global_effects"`
	NextCardID    int                      `json:"next_card_id"`
	StackSeq      int                      `json:"stack_seq"`
	Seed          uint64                   `json:"seed"`
	Rules         Rules                    `json:"rules"`
	TurnStartedAt time.Time                `json:"turn_started_at"`

	src     *rand.PCGSource
	rng     *rand.Rand
	catalog cards.Catalog
	logger  *zap.Logger
	res     *rules.ResolutionContext
}

func newGame(id string, seed uint64, r Rules) *Game {
	src := &rand.PCGSource{}
	src.Seed(seed)
	return &Game{
		ID:            id,
		Status:        StatusAwaitingJoin,
		GlobalEffects: counters.NewCounters(),
		NextCardID:    1,
		Seed:          seed,
		Rules:         r,
		src:           src,
		rng:           rand.New(src),
		logger:        zap.NewNop(),
		res:           rules.NewResolutionContext(0),
	}
}

// Clone deep-copies the game including the random source state.
func (g *Game) Clone() *Game {
	cp := *g
	cp.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		cp.Players[i] = p.clone()
	}
	cp.Stack = g.Stack.Clone((*StackEntry).clone)
	cp.GlobalEffects = g.GlobalEffects.Copy()
	src := *g.src
	cp.src = &src
	cp.rng = rand.New(cp.src)
	cp.res = rules.NewResolutionContext(0)
	return &cp
}

func (g *Game) attach(catalog cards.Catalog, logger *zap.Logger) {
	g.catalog = catalog
	if logger != nil {
		g.logger = logger.With(zap.String("game_id", g.ID))
	}
}

type gameJSON Game

type gameWire struct {
	*gameJSON
	RNG []byte `json:"rng"`
}

// MarshalJSON includes the random source state so a snapshot resumes the
// same random sequence.
func (g *Game) MarshalJSON() ([]byte, error) {
	state, err := g.src.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rng: %w", err)
	}
	return json.Marshal(gameWire{gameJSON: (*gameJSON)(g), RNG: state})
}

// UnmarshalJSON restores a snapshot written by MarshalJSON.
func (g *Game) UnmarshalJSON(data []byte) error {
	wire := gameWire{gameJSON: (*gameJSON)(g)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	g.src = &rand.PCGSource{}
	if len(wire.RNG) > 0 {
		if err := g.src.UnmarshalBinary(wire.RNG); err != nil {
			return fmt.Errorf("failed to restore rng: %w", err)
		}
	} else {
		g.src.Seed(g.Seed)
	}
	g.rng = rand.New(g.src)
	if g.GlobalEffects == nil {
		g.GlobalEffects = counters.NewCounters()
	}
	g.logger = zap.NewNop()
	g.res = rules.NewResolutionContext(0)
	return nil
}

// IsOver reports whether the game has finished.
func (g *Game) IsOver() bool {
	return g.Status == StatusGameOver
}

// Player returns the seated player with the given username.
func (g *Game) Player(username string) *Player {
	for _, p := range g.Players {
		if p.Username == username {
			return p
		}
	}
	return nil
}

// Opponent returns the other seated player.
func (g *Game) Opponent(username string) *Player {
	if len(g.Players) < 2 {
		return nil
	}
	for _, p := range g.Players {
		if p.Username != username {
			return p
		}
	}
	return nil
}

// ActivePlayer is the player whose turn it is.
func (g *Game) ActivePlayer() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.Turns.ActiveIndex()%len(g.Players)]
}

// PriorityPlayer is the only player allowed to move.
func (g *Game) PriorityPlayer() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.Turns.PriorityIndex()%len(g.Players)]
}

// FindCard locates a card anywhere in either player's zones.
func (g *Game) FindCard(id int) (*cards.Card, *Player, Zone) {
	for _, p := range g.Players {
		if c, z := p.Find(id); c != nil {
			return c, p, z
		}
	}
	return nil, nil, ZoneNone
}

// findInPlay locates a mob or artifact on the board.
func (g *Game) findInPlay(id int) (*cards.Card, *Player, Zone) {
	for _, p := range g.Players {
		if c := p.FindIn(ZoneInPlay, id); c != nil {
			return c, p, ZoneInPlay
		}
		if c := p.FindIn(ZoneArtifacts, id); c != nil {
			return c, p, ZoneArtifacts
		}
	}
	return nil, nil, ZoneNone
}

// FindCardForTarget implements targeting.StateAccessor.
func (g *Game) FindCardForTarget(id int) (targeting.CardInfo, bool) {
	c, p, z := g.findInPlay(id)
	if c == nil {
		return targeting.CardInfo{}, false
	}
	zone := targeting.ZoneInPlay
	if z == ZoneArtifacts {
		zone = targeting.ZoneArtifacts
	}
	return targeting.CardInfo{
		Candidate:  c.Candidate(p.Counts()),
		Controller: p.Username,
		Zone:       zone,
		Hidden:     c.HasAbility(cards.AbilityLurker),
	}, true
}

// HasPlayer implements targeting.StateAccessor.
func (g *Game) HasPlayer(username string) bool {
	return g.Player(username) != nil
}

// StackHasCard implements targeting.StateAccessor. Only cast cards count.
func (g *Game) StackHasCard(id int) bool {
	return g.stackEntryForCard(id) != nil
}

func (g *Game) stackEntryForCard(id int) *StackEntry {
	for _, e := range g.Stack.Items {
		if e.Kind == StackCast && e.Card != nil && e.Card.ID == id {
			return e
		}
	}
	return nil
}

func (g *Game) validator() *targeting.Validator {
	return targeting.NewValidator(g)
}

func (g *Game) shuffle(deck []*cards.Card) {
	g.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// pick returns n distinct random indices below size.
func (g *Game) pick(size, n int) []int {
	if n > size {
		n = size
	}
	return g.rng.Perm(size)[:n]
}

func (g *Game) allocID() int {
	id := g.NextCardID
	g.NextCardID++
	return id
}
