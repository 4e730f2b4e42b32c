package game

import (
	"errors"
	"testing"
	"time"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
	"go.uber.org/zap/zaptest"
)

const (
	alice = "alice"
	bob   = "bob"
)

func intPtr(v int) *int { return &v }

func ability(name cards.AbilityName) cards.Ability {
	return cards.Ability{Name: name, Enabled: true}
}

// testCatalog is a small card pool covering the behaviors exercised below.
func testCatalog() *cards.StaticCatalog {
	return cards.NewStaticCatalog(
		cards.Template{Name: "Grunt", CardType: cards.TypeMob, Cost: 1, Power: 2, Toughness: 2},
		cards.Template{Name: "Squire", CardType: cards.TypeMob, Cost: 1, Power: 1, Toughness: 2},
		cards.Template{Name: "Ogre", CardType: cards.TypeMob, Cost: 3, Power: 3, Toughness: 3},
		cards.Template{Name: "Giant", CardType: cards.TypeMob, Cost: 5, Power: 5, Toughness: 5},
		cards.Template{
			Name: "Bubble Knight", CardType: cards.TypeMob, Cost: 2, Power: 1, Toughness: 2,
			Abilities: []cards.Ability{ability(cards.AbilityShield)},
		},
		cards.Template{
			Name: "Stomper", CardType: cards.TypeMob, Cost: 4, Power: 4, Toughness: 4,
			Abilities: []cards.Ability{ability(cards.AbilityStomp)},
		},
		cards.Template{
			Name: "Sentinel", CardType: cards.TypeMob, Cost: 2, Power: 1, Toughness: 3,
			Abilities: []cards.Ability{ability(cards.AbilityGuard)},
		},
		cards.Template{
			Name: "Bodyguard", CardType: cards.TypeMob, Cost: 2, Power: 1, Toughness: 4,
			Abilities: []cards.Ability{ability(cards.AbilityDefend)},
		},
		cards.Template{
			Name: "Shade", CardType: cards.TypeMob, Cost: 2, Power: 2, Toughness: 1,
			Abilities: []cards.Ability{ability(cards.AbilityLurker)},
		},
		cards.Template{
			Name: "Townie", CardType: cards.TypeMob, Cost: 1, Power: 1, Toughness: 1,
			Tags: []string{"townie"},
		},
		cards.Template{
			Name: "Zap", CardType: cards.TypeSpell, Cost: 2,
			Effects: []cards.Effect{{
				Name: cards.EffectDamage, EffectType: cards.EffectSpell,
				TargetType: targeting.TargetAny, Amount: 3, Enabled: true,
			}},
		},
		cards.Template{
			Name: "Purge", CardType: cards.TypeSpell, Cost: 5,
			Effects: []cards.Effect{{
				Name: cards.EffectKill, EffectType: cards.EffectSpell,
				TargetType: targeting.TargetAllMobs, Enabled: true,
				TargetRestrictions: []targeting.Restriction{{MinCost: intPtr(3)}},
			}},
		},
		cards.Template{
			Name: "Negate", CardType: cards.TypeSpell, Cost: 1,
			Abilities: []cards.Ability{ability(cards.AbilityInstant)},
			Effects: []cards.Effect{{
				Name: cards.EffectCounterSpell, EffectType: cards.EffectSpell,
				TargetType: targeting.TargetStackSpell, Enabled: true,
			}},
		},
		cards.Template{
			Name: "Study", CardType: cards.TypeSpell, Cost: 1,
			Effects: []cards.Effect{{
				Name: cards.EffectDraw, EffectType: cards.EffectSpell,
				TargetType: targeting.TargetSelf, Amount: 2, Enabled: true,
			}},
		},
		cards.Template{
			Name: "Tinker", CardType: cards.TypeSpell, Cost: 1,
			Effects: []cards.Effect{{
				Name: cards.EffectMake, EffectType: cards.EffectSpell,
				TargetType: targeting.TargetSelf, CardNames: []string{"Grunt", "Ogre", "Squire"}, Enabled: true,
			}},
		},
		cards.Template{
			Name: "Foresight", CardType: cards.TypeSpell, Cost: 1,
			Effects: []cards.Effect{{
				Name: cards.EffectRiffle, EffectType: cards.EffectSpell,
				TargetType: targeting.TargetSelf, Amount: 3, Enabled: true,
			}},
		},
		cards.Template{
			Name: "Time Warp", CardType: cards.TypeSpell, Cost: 2,
			Effects: []cards.Effect{{
				Name: cards.EffectExtraTurn, EffectType: cards.EffectSpell,
				TargetType: targeting.TargetSelf, Enabled: true,
			}},
		},
		cards.Template{
			Name: "Glitch", CardType: cards.TypeSpell, Cost: 0,
			Effects: []cards.Effect{{
				Name: "summon_meteor", EffectType: cards.EffectSpell,
				TargetType: targeting.TargetOpponent, Enabled: true,
			}},
		},
		cards.Template{
			Name: "Spark Wand", CardType: cards.TypeArtifact, Cost: 1,
			Effects: []cards.Effect{{
				Name: cards.EffectDamage, EffectType: cards.EffectActivated,
				TargetType: targeting.TargetAny, Amount: 1, Cost: 1, Enabled: true,
			}},
		},
	)
}

// duelHarness drives a two-player game through the engine and keeps the
// latest state.
type duelHarness struct {
	t      *testing.T
	engine *Engine
	game   *Game
	now    time.Time
}

func newTestEngine(t *testing.T, now func() time.Time) *Engine {
	return NewEngine(testCatalog(), DefaultRules(), zaptest.NewLogger(t), WithClock(now))
}

// newDuelHarness seats alice and bob with decks of Grunts and starts the
// first turn. Both hands are emptied so tests control exactly what is held.
// Extra templates are added to the test catalog.
func newDuelHarness(t *testing.T, extra ...cards.Template) *duelHarness {
	t.Helper()
	h := &duelHarness{t: t, now: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}
	cat := testCatalog()
	for _, tpl := range extra {
		cat.Add(tpl)
	}
	h.engine = NewEngine(cat, DefaultRules(), zaptest.NewLogger(t), WithClock(func() time.Time { return h.now }))
	h.game = h.engine.NewGame("duel-1", 42)

	deck := make([]string, 10)
	for i := range deck {
		deck[i] = "Grunt"
	}
	h.mustApply(Move{MoveType: MoveJoin, Username: alice, Deck: deck})
	h.mustApply(Move{MoveType: MoveJoin, Username: bob, Deck: deck})
	h.mustApply(Move{MoveType: MoveStartFirstTurn, Username: alice})

	for _, p := range h.game.Players {
		p.Deck = append(p.Deck, p.Hand...)
		p.Hand = nil
	}
	return h
}

func (h *duelHarness) player(username string) *Player {
	h.t.Helper()
	p := h.game.Player(username)
	if p == nil {
		h.t.Fatalf("player %s not seated", username)
	}
	return p
}

func (h *duelHarness) setMana(username string, amount int) {
	p := h.player(username)
	p.Mana.Max = max(p.Mana.Max, amount)
	p.Mana.Current = amount
}

// give puts a fresh copy of the named card into the player's hand.
func (h *duelHarness) give(username, name string) *cards.Card {
	h.t.Helper()
	c, err := h.game.newCard(name, username)
	if err != nil {
		h.t.Fatalf("failed to create %s: %v", name, err)
	}
	p := h.player(username)
	p.Hand = append(p.Hand, c)
	return c
}

// summon puts the named card on the player's board, ready to act.
func (h *duelHarness) summon(username, name string) *cards.Card {
	h.t.Helper()
	c, err := h.game.newCard(name, username)
	if err != nil {
		h.t.Fatalf("failed to create %s: %v", name, err)
	}
	p := h.player(username)
	c.TurnPlayed = -1
	if c.CardType == cards.TypeArtifact {
		p.Artifacts = append(p.Artifacts, c)
	} else {
		p.InPlay = append(p.InPlay, c)
	}
	return c
}

func (h *duelHarness) apply(m Move) (*Result, error) {
	next, res, err := h.engine.Apply(h.game, m)
	h.game = next
	return res, err
}

func (h *duelHarness) mustApply(m Move) *Result {
	h.t.Helper()
	res, err := h.apply(m)
	if err != nil {
		h.t.Fatalf("move %s by %s failed: %v", m.MoveType, m.Username, err)
	}
	checkInvariants(h.t, h.game)
	return res
}

// reject applies a move that must fail with want and leave the game as it was.
func (h *duelHarness) reject(m Move, want error) {
	h.t.Helper()
	before, err := h.game.ComputeChecksum()
	if err != nil {
		h.t.Fatalf("checksum: %v", err)
	}
	_, err = h.apply(m)
	if err == nil {
		h.t.Fatalf("move %s by %s was accepted, want %v", m.MoveType, m.Username, want)
	}
	var illegalErr *IllegalMoveError
	if !errors.As(err, &illegalErr) {
		h.t.Fatalf("expected *IllegalMoveError, got %T", err)
	}
	if !errors.Is(err, want) {
		h.t.Fatalf("expected %v, got %v", want, err)
	}
	ok, err := h.game.VerifyChecksum(before)
	if err != nil || !ok {
		h.t.Fatalf("rejected move changed the game")
	}
}

// checkInvariants asserts the properties that hold after every move.
func checkInvariants(t *testing.T, g *Game) {
	t.Helper()
	seen := make(map[int]string)
	for _, p := range g.Players {
		for _, z := range allZones {
			for _, c := range *p.zone(z) {
				where := p.Username + "/" + string(z)
				if prev, dup := seen[c.ID]; dup {
					t.Fatalf("card %d is in %s and %s", c.ID, prev, where)
				}
				seen[c.ID] = where
			}
		}
		for _, c := range p.InPlay {
			if c.IsDead() {
				t.Fatalf("%s's %s is in play with %d damage and %d toughness", p.Username, c.Name, c.Damage, c.ToughnessWithTokens())
			}
		}
		if p.Mana.Current < 0 || p.Mana.Current > p.Mana.Max {
			t.Fatalf("%s has %d mana of %d", p.Username, p.Mana.Current, p.Mana.Max)
		}
		if len(p.Hand) > g.Rules.MaxHandSize {
			t.Fatalf("%s holds %d cards", p.Username, len(p.Hand))
		}
	}
	for _, e := range g.Stack.Items {
		if e.Kind != StackCast {
			continue
		}
		if prev, dup := seen[e.Card.ID]; dup {
			t.Fatalf("card %d is on the stack and in %s", e.Card.ID, prev)
		}
	}
}
