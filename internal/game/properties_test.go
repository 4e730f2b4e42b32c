package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushThenResolveMatchesDirectResolution(t *testing.T) {
	h := newDuelHarness(t)
	h.setMana(alice, 3)
	zap := h.give(alice, "Zap")
	ogre := h.summon(bob, "Ogre")
	m := Move{
		MoveType:      MovePlayCardInHand,
		Username:      alice,
		Card:          zap.ID,
		EffectTargets: []targeting.Ref{targeting.Card(ogre.ID)},
	}

	direct := h.game.Clone()
	p := direct.Player(alice)
	direct.castCard(p, p.FindIn(ZoneHand, zap.ID), m)

	manual := h.game.Clone()
	mp := manual.Player(alice)
	c := mp.remove(ZoneHand, zap.ID)
	mp.spendMana(c.Cost)
	mp.resetSelection()
	manual.Stack.Push(manual.newStackEntry(StackCast, mp, m, c))
	manual.Turns.PassPriority()
	manual.popAndResolve()

	want, err := direct.ComputeChecksum()
	require.NoError(t, err)
	ok, err := manual.VerifyChecksum(want)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFactoryResetIsIdempotent(t *testing.T) {
	h := newDuelHarness(t)
	h.game.GlobalEffects.Increment(cards.GlobalMobsGetMorePower)
	knight := h.summon(alice, "Bubble Knight")
	knight.Damage = 1
	knight.Attacked = true
	knight.Shielded = false
	knight.TurnPlayed = 3
	knight.Tokens = append(knight.Tokens, cards.Token{PowerModifier: 2, Turns: -1})
	knight.DisableAbility(cards.AbilityShield)

	once := h.game.factoryResetCard(knight)
	twice := h.game.factoryResetCard(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, knight.ID, once.ID)
	assert.Equal(t, 2, once.Power)
	assert.True(t, once.Shielded)
	assert.True(t, once.HasAbility(cards.AbilityShield))
	assert.Zero(t, once.Damage)
	assert.Empty(t, once.Tokens)
	assert.Equal(t, -1, once.TurnPlayed)
}

func TestFactoryResetKeepsEvolvedShape(t *testing.T) {
	h := newDuelHarness(t)
	c := h.summon(alice, "Grunt")
	c.Name = "Ogre"
	c.Power = 3
	c.Evolved = true
	c.Damage = 2

	reset := h.game.factoryResetCard(c)

	assert.Equal(t, "Ogre", reset.Name)
	assert.Equal(t, 3, reset.Power)
	assert.Zero(t, reset.Damage)
	assert.True(t, reset.Evolved)
}

func TestSnapshotRoundtripResumesRandomSequence(t *testing.T) {
	h := newDuelHarness(t)
	h.summon(bob, "Ogre")
	h.give(alice, "Zap")
	require.NoError(t, ValidateSnapshotRoundtrip(h.game))

	data, err := json.Marshal(h.game)
	require.NoError(t, err)
	var restored Game
	require.NoError(t, json.Unmarshal(data, &restored))

	a := h.game.Clone()
	b := &restored
	for range 5 {
		assert.Equal(t, a.rng.Intn(1000), b.rng.Intn(1000))
	}
}

func TestCloneDoesNotShareState(t *testing.T) {
	h := newDuelHarness(t)
	ogre := h.summon(bob, "Ogre")
	cp := h.game.Clone()

	cp.Player(bob).FindIn(ZoneInPlay, ogre.ID).Damage = 2
	cp.Player(bob).HitPoints = 1
	cp.GlobalEffects.Increment(cards.GlobalSpellsCostMore)

	assert.Zero(t, ogre.Damage)
	assert.Equal(t, 30, h.player(bob).HitPoints)
	assert.Zero(t, h.game.GlobalEffects.GetCount(cards.GlobalSpellsCostMore))
}

func TestGlobalEffectsScaleNewCards(t *testing.T) {
	h := newDuelHarness(t)
	h.game.GlobalEffects.Increment(cards.GlobalMobsCostMore)
	h.game.GlobalEffects.Increment(cards.GlobalMobsCostMore)
	h.game.GlobalEffects.Increment(cards.GlobalSpellsCostMore)

	grunt := h.give(alice, "Grunt")
	zap := h.give(alice, "Zap")

	assert.Equal(t, 3, grunt.Cost)
	assert.Equal(t, 3, zap.Cost)
}

// playOut drives a game with whatever legal moves are on offer and checks
// that each one is accepted. It stops when the game ends or after limit
// moves.
func playOut(t *testing.T, e *Engine, g *Game, limit int, record func(Move)) *Game {
	t.Helper()
	for step := 0; step < limit && !g.IsOver(); step++ {
		var moves []Move
		for _, p := range g.Players {
			if moves = e.LegalMoves(g, p.Username); len(moves) > 0 {
				break
			}
		}
		require.NotEmpty(t, moves, "no player can move at step %d", step)
		m := moves[(step*7)%len(moves)]

		next, res, err := e.Apply(g, m)
		require.NoError(t, err, "legal move %s by %s at step %d", m.MoveType, m.Username, step)
		checkInvariants(t, next)
		if record != nil {
			record(res.Move)
		}
		g = next
	}
	return g
}

func startedGame(t *testing.T, e *Engine, seed uint64, record func(Move)) *Game {
	t.Helper()
	g := e.NewGame("walk", seed)
	for _, m := range []Move{
		{MoveType: MoveJoin, Username: alice},
		{MoveType: MoveJoin, Username: bob},
		{MoveType: MoveStartFirstTurn, Username: alice},
	} {
		next, res, err := e.Apply(g, m)
		require.NoError(t, err)
		if record != nil {
			record(res.Move)
		}
		g = next
	}
	return g
}

func TestEveryLegalMoveIsAccepted(t *testing.T) {
	e := newTestEngine(t, time.Now)
	for _, seed := range []uint64{1, 2, 3} {
		g := startedGame(t, e, seed, nil)
		g = playOut(t, e, g, 150, nil)
		if !g.IsOver() {
			assert.NotEmpty(t, LegalMoves(g, g.PriorityPlayer().Username))
		}
	}
}

func TestClickableMatchesLegalMoves(t *testing.T) {
	h := newDuelHarness(t)
	h.setMana(alice, 2)
	zap := h.give(alice, "Zap")
	grunt := h.summon(alice, "Grunt")
	wand := h.summon(alice, "Spark Wand")
	h.give(alice, "Giant")

	s := ComputeClickable(h.game, alice)

	assert.Equal(t, []int{zap.ID, grunt.ID, wand.ID}, s.Cards)
	assert.True(t, s.EndTurn)
	assert.False(t, s.ResolveNextStack)
	assert.True(t, ComputeClickable(h.game, bob).Empty())
}

func TestReplayReproducesGame(t *testing.T) {
	e := newTestEngine(t, time.Now)
	replay := NewReplay("walk", 11)
	g := startedGame(t, e, 11, replay.Record)
	g = playOut(t, e, g, 80, replay.Record)

	rebuilt, err := replay.Play(e, -1)
	require.NoError(t, err)
	want, err := g.ComputeChecksum()
	require.NoError(t, err)
	ok, err := rebuilt.VerifyChecksum(want)
	require.NoError(t, err)
	assert.True(t, ok)

	partial, err := replay.Play(e, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, partial.Status)
	assert.Equal(t, 0, partial.Turns.Turn)
}

func TestReplayFileRoundtrip(t *testing.T) {
	e := newTestEngine(t, time.Now)
	dir := t.TempDir()
	recorder := NewReplayRecorder(nil, dir)
	recorder.StartRecording("walk", 5)
	g := startedGame(t, e, 5, func(m Move) { recorder.Record("walk", m) })
	g = playOut(t, e, g, 40, func(m Move) { recorder.Record("walk", m) })

	live, ok := recorder.GetReplay("walk")
	require.True(t, ok)
	size := live.Size()
	require.NoError(t, recorder.SaveReplay("walk"))
	_, ok = recorder.GetReplay("walk")
	assert.False(t, ok)

	loaded, err := recorder.LoadReplay("walk")
	require.NoError(t, err)
	assert.Equal(t, size, loaded.Size())
	assert.Equal(t, uint64(5), loaded.Seed)

	rebuilt, err := loaded.Play(e, -1)
	require.NoError(t, err)
	want, err := g.ComputeChecksum()
	require.NoError(t, err)
	ok, err = rebuilt.VerifyChecksum(want)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReplayCursor(t *testing.T) {
	r := NewReplay("g", 1)
	r.Record(Move{MoveType: MoveJoin, Username: alice, LogLines: []string{"alice joins the game."}})
	r.Record(Move{MoveType: MoveJoin, Username: bob})

	first, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, alice, first.Username)
	assert.Empty(t, first.LogLines)
	_, ok = r.Next()
	require.True(t, ok)
	_, ok = r.Next()
	assert.False(t, ok)

	prev, ok := r.Previous()
	require.True(t, ok)
	assert.Equal(t, bob, prev.Username)

	r.Start()
	m, ok := r.MoveAt(1)
	require.True(t, ok)
	assert.Equal(t, bob, m.Username)
	_, ok = r.MoveAt(2)
	assert.False(t, ok)
}
