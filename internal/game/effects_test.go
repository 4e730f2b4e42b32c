package game

import (
	"testing"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/rules"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// effectCards are templates for the less common behaviors.
func effectCards() []cards.Template {
	spell := func(name string, cost int, e cards.Effect) cards.Template {
		e.EffectType = cards.EffectSpell
		e.Enabled = true
		return cards.Template{Name: name, CardType: cards.TypeSpell, Cost: cost, Effects: []cards.Effect{e}}
	}
	return []cards.Template{
		spell("Doom", 3, cards.Effect{Name: cards.EffectKill, TargetType: targeting.TargetMob}),
		spell("Cataclysm", 4, cards.Effect{Name: cards.EffectKill, TargetType: targeting.TargetAllMobs}),
		spell("Mind Thief", 2, cards.Effect{Name: cards.EffectTakeControl, TargetType: targeting.TargetMob}),
		spell("Rewind", 1, cards.Effect{Name: cards.EffectUnwind, TargetType: targeting.TargetMob}),
		spell("Release", 0, cards.Effect{Name: cards.EffectManaToDamage, TargetType: targeting.TargetOpponent}),
		spell("Call to Arms", 2, cards.Effect{Name: cards.EffectSummonFromDeck, TargetType: targeting.TargetSelf, Amount: 1}),
		spell("Rally", 2, cards.Effect{Name: cards.EffectSummonFromHand, TargetType: targeting.TargetSelf, Amount: 1}),
		spell("Seeker", 1, cards.Effect{Name: cards.EffectFetchCard, TargetType: targeting.TargetSelf, Choices: 2}),
		spell("Mirror Image", 2, cards.Effect{Name: cards.EffectDuplicateCardInPlay, TargetType: targeting.TargetMob}),
		spell("Swap", 3, cards.Effect{Name: cards.EffectSwitchHitPoints, TargetType: targeting.TargetOpponent}),
		{
			Name: "Mirror", CardType: cards.TypeSpell, Cost: 1,
			Abilities: []cards.Ability{ability(cards.AbilityInstant)},
			Effects: []cards.Effect{{
				Name: cards.EffectRedirectMobSpell, EffectType: cards.EffectSpell,
				TargetType: targeting.TargetStackSpell, Enabled: true,
			}},
		},
		{
			Name: "Longsword", CardType: cards.TypeArtifact, Cost: 1,
			Effects: []cards.Effect{{
				Name: cards.EffectEquipToMob, EffectType: cards.EffectActivated,
				TargetType: targeting.TargetSelfMob, Enabled: true,
				Tokens: []cards.Token{{PowerModifier: 2, Turns: -1}},
			}},
		},
		{
			Name: "Mana Jar", CardType: cards.TypeArtifact, Cost: 1,
			Effects: []cards.Effect{{
				Name: cards.EffectStoreMana, EffectType: cards.EffectEndTurn,
				TargetType: targeting.TargetSelf, Enabled: true,
			}},
		},
		{
			Name: "Wellspring", CardType: cards.TypeArtifact, Cost: 2,
			Effects: []cards.Effect{{
				Name: cards.EffectRefreshMana, EffectType: cards.EffectPassive,
				TargetType: targeting.TargetSelf, Enabled: true,
			}},
		},
		{
			Name: "Drain Totem", CardType: cards.TypeArtifact, Cost: 1,
			Effects: []cards.Effect{{
				Name: cards.EffectDecreaseMaxMana, EffectType: cards.EffectLeavePlay,
				TargetType: targeting.TargetSelf, Amount: 2, Enabled: true,
			}},
		},
		{
			Name: "Scholar", CardType: cards.TypeMob, Cost: 2, Power: 1, Toughness: 2,
			Effects: []cards.Effect{{
				Name: cards.EffectDamage, EffectType: cards.EffectAfterDraw,
				TargetType: targeting.TargetOpponent, Amount: 1, Enabled: true,
			}},
		},
		{
			Name: "Firebrand", CardType: cards.TypeMob, Cost: 3, Power: 2, Toughness: 3,
			Effects: []cards.Effect{
				{
					Name: cards.EffectDamage, EffectType: cards.EffectActivated,
					TargetType: targeting.TargetAny, Amount: 1, Enabled: true,
				},
				{
					Name: cards.EffectImproveDamageWhenUsed, EffectType: cards.EffectActivated,
					TargetType: targeting.TargetThis, Amount: 2, Enabled: true,
				},
			},
		},
		{
			Name: "Doomsayer", CardType: cards.TypeMob, Cost: 1, Power: 1, Toughness: 1,
			Effects: []cards.Effect{{
				Name: cards.EffectKill, EffectType: cards.EffectLeavePlay,
				TargetType: targeting.TargetAllMobs, Enabled: true,
			}},
		},
	}
}

// card creates a card that sits in no zone, like a spell on its way off
// the stack.
func (h *duelHarness) card(username, name string) *cards.Card {
	h.t.Helper()
	c, err := h.game.newCard(name, username)
	require.NoError(h.t, err)
	return c
}

func (h *duelHarness) play(username string, c *cards.Card, targets ...targeting.Ref) *Result {
	h.t.Helper()
	return h.mustApply(Move{MoveType: MovePlayCardInHand, Username: username, Card: c.ID, EffectTargets: targets})
}

// effectShot is one effect fired directly, plus what to check afterwards.
type effectShot struct {
	by     string
	card   *cards.Card
	index  int
	target targeting.Ref
	check  func(t *testing.T)
}

func TestEffectBehaviors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(h *duelHarness) effectShot
		wantLog []string
	}{
		{
			name: "unwind returns a mob to its owner's hand",
			setup: func(h *duelHarness) effectShot {
				grunt := h.summon(bob, "Grunt")
				return effectShot{by: alice, card: h.card(alice, "Rewind"), target: targeting.Card(grunt.ID), check: func(t *testing.T) {
					assert.Empty(t, h.player(bob).InPlay)
					assert.NotNil(t, h.player(bob).FindIn(ZoneHand, grunt.ID))
					assert.Empty(t, h.player(alice).Hand)
				}}
			},
			wantLog: []string{"alice's Rewind returns bob's Grunt to hand."},
		},
		{
			name: "unwind into a full hand goes to the played pile",
			setup: func(h *duelHarness) effectShot {
				grunt := h.summon(bob, "Grunt")
				for range h.game.Rules.MaxHandSize {
					h.give(bob, "Squire")
				}
				return effectShot{by: alice, card: h.card(alice, "Rewind"), target: targeting.Card(grunt.ID), check: func(t *testing.T) {
					assert.Len(t, h.player(bob).Hand, h.game.Rules.MaxHandSize)
					assert.NotNil(t, h.player(bob).FindIn(ZonePlayedPile, grunt.ID))
				}}
			},
			wantLog: []string{"alice's Rewind returns bob's Grunt to hand."},
		},
		{
			name: "equip ties tokens to the artifact until it leaves play",
			setup: func(h *duelHarness) effectShot {
				sword := h.summon(alice, "Longsword")
				grunt := h.summon(alice, "Grunt")
				return effectShot{by: alice, card: sword, target: targeting.Card(grunt.ID), check: func(t *testing.T) {
					require.Len(t, grunt.Tokens, 1)
					assert.Equal(t, sword.ID, grunt.Tokens[0].ID)
					assert.Equal(t, 2, grunt.Tokens[0].PowerModifier)
					assert.Equal(t, -1, grunt.Tokens[0].Turns)

					lines := h.game.sendCardToPlayedPile(h.player(alice), sword, true)
					assert.Empty(t, lines)
					assert.Empty(t, grunt.Tokens)
					assert.NotNil(t, h.player(alice).FindIn(ZoneInPlay, grunt.ID))
				}}
			},
			wantLog: []string{"alice's Longsword equips Grunt."},
		},
		{
			name: "equip ignores an opposing mob",
			setup: func(h *duelHarness) effectShot {
				sword := h.summon(alice, "Longsword")
				grunt := h.summon(bob, "Grunt")
				return effectShot{by: alice, card: sword, target: targeting.Card(grunt.ID), check: func(t *testing.T) {
					assert.Empty(t, grunt.Tokens)
				}}
			},
		},
		{
			name: "store mana banks the pool on the artifact",
			setup: func(h *duelHarness) effectShot {
				jar := h.summon(alice, "Mana Jar")
				h.setMana(alice, 3)
				return effectShot{by: alice, card: jar, target: targeting.Player(alice), check: func(t *testing.T) {
					assert.Equal(t, 3, jar.Effects[0].Counters)
					assert.Zero(t, h.player(alice).Mana.Current)
					assert.Equal(t, 3, h.player(alice).AvailableMana())
				}}
			},
			wantLog: []string{"alice's Mana Jar stores 3 mana."},
		},
		{
			name: "store mana with an empty pool does nothing",
			setup: func(h *duelHarness) effectShot {
				jar := h.summon(alice, "Mana Jar")
				h.setMana(alice, 0)
				return effectShot{by: alice, card: jar, target: targeting.Player(alice), check: func(t *testing.T) {
					assert.Zero(t, jar.Effects[0].Counters)
				}}
			},
		},
		{
			name: "mana to damage empties every bank",
			setup: func(h *duelHarness) effectShot {
				first := h.summon(alice, "Mana Jar")
				second := h.summon(alice, "Mana Jar")
				first.Effects[0].Counters = 3
				second.Effects[0].Counters = 1
				hp := h.player(bob).HitPoints
				return effectShot{by: alice, card: h.card(alice, "Release"), target: targeting.Player(bob), check: func(t *testing.T) {
					assert.Equal(t, hp-4, h.player(bob).HitPoints)
					assert.Zero(t, first.Effects[0].Counters)
					assert.Zero(t, second.Effects[0].Counters)
				}}
			},
			wantLog: []string{"alice's Release deals 4 damage to bob."},
		},
		{
			name: "mana to damage with nothing stored does nothing",
			setup: func(h *duelHarness) effectShot {
				hp := h.player(bob).HitPoints
				return effectShot{by: alice, card: h.card(alice, "Release"), target: targeting.Player(bob), check: func(t *testing.T) {
					assert.Equal(t, hp, h.player(bob).HitPoints)
				}}
			},
		},
		{
			name: "summon from deck puts a mob into play",
			setup: func(h *duelHarness) effectShot {
				deck := len(h.player(alice).Deck)
				return effectShot{by: alice, card: h.card(alice, "Call to Arms"), target: targeting.Player(alice), check: func(t *testing.T) {
					p := h.player(alice)
					require.Len(t, p.InPlay, 1)
					assert.Equal(t, "Grunt", p.InPlay[0].Name)
					assert.Equal(t, h.game.Turns.Turn, p.InPlay[0].TurnPlayed)
					assert.Len(t, p.Deck, deck-1)
				}}
			},
			wantLog: []string{"alice's Call to Arms summons Grunt from the deck."},
		},
		{
			name: "summon from hand only picks mobs",
			setup: func(h *duelHarness) effectShot {
				ogre := h.give(alice, "Ogre")
				zap := h.give(alice, "Zap")
				return effectShot{by: alice, card: h.card(alice, "Rally"), target: targeting.Player(alice), check: func(t *testing.T) {
					p := h.player(alice)
					assert.NotNil(t, p.FindIn(ZoneInPlay, ogre.ID))
					require.Len(t, p.Hand, 1)
					assert.Equal(t, zap.ID, p.Hand[0].ID)
				}}
			},
			wantLog: []string{"alice's Rally summons Ogre from the hand."},
		},
		{
			name: "summon with a full board leaves the card where it was",
			setup: func(h *duelHarness) effectShot {
				for range h.game.Rules.MaxInPlay {
					h.summon(alice, "Squire")
				}
				ogre := h.give(alice, "Ogre")
				return effectShot{by: alice, card: h.card(alice, "Rally"), target: targeting.Player(alice), check: func(t *testing.T) {
					assert.NotNil(t, h.player(alice).FindIn(ZoneHand, ogre.ID))
					assert.Len(t, h.player(alice).InPlay, h.game.Rules.MaxInPlay)
				}}
			},
		},
		{
			name: "fetch offers cards from the deck",
			setup: func(h *duelHarness) effectShot {
				seeker := h.card(alice, "Seeker")
				return effectShot{by: alice, card: seeker, target: targeting.Player(alice), check: func(t *testing.T) {
					p := h.player(alice)
					ch := p.CardChoiceInfo
					require.NotNil(t, ch)
					assert.Equal(t, ChoiceFetchCard, ch.Kind)
					assert.Equal(t, seeker.ID, ch.SourceCardID)
					require.Len(t, ch.CardIDs, 2)
					for _, id := range ch.CardIDs {
						assert.NotNil(t, p.FindIn(ZoneDeck, id))
					}
				}}
			},
			wantLog: []string{"alice's Seeker searches the deck."},
		},
		{
			name: "fetch from an empty deck offers nothing",
			setup: func(h *duelHarness) effectShot {
				h.player(alice).Deck = nil
				return effectShot{by: alice, card: h.card(alice, "Seeker"), target: targeting.Player(alice), check: func(t *testing.T) {
					assert.Nil(t, h.player(alice).CardChoiceInfo)
				}}
			},
		},
		{
			name: "duplicate copies a mob fresh onto the caster's board",
			setup: func(h *duelHarness) effectShot {
				knight := h.summon(bob, "Bubble Knight")
				knight.Shielded = false
				knight.Damage = 1
				return effectShot{by: alice, card: h.card(alice, "Mirror Image"), target: targeting.Card(knight.ID), check: func(t *testing.T) {
					p := h.player(alice)
					require.Len(t, p.InPlay, 1)
					dup := p.InPlay[0]
					assert.NotEqual(t, knight.ID, dup.ID)
					assert.Equal(t, "Bubble Knight", dup.Name)
					assert.Equal(t, alice, dup.Owner)
					assert.Zero(t, dup.Damage)
					assert.True(t, dup.Shielded)
					assert.Equal(t, 1, knight.Damage)
					assert.NotNil(t, h.player(bob).FindIn(ZoneInPlay, knight.ID))
				}}
			},
			wantLog: []string{"alice's Mirror Image duplicates Bubble Knight."},
		},
		{
			name: "switch hit points trades totals",
			setup: func(h *duelHarness) effectShot {
				h.player(alice).HitPoints = 5
				h.player(bob).HitPoints = 15
				return effectShot{by: alice, card: h.card(alice, "Swap"), target: targeting.Player(bob), check: func(t *testing.T) {
					assert.Equal(t, 15, h.player(alice).HitPoints)
					assert.Equal(t, 5, h.player(bob).HitPoints)
				}}
			},
			wantLog: []string{"alice's Swap switches hit points with bob."},
		},
		{
			name: "improve damage strengthens the card's damage effects",
			setup: func(h *duelHarness) effectShot {
				fb := h.summon(alice, "Firebrand")
				return effectShot{by: alice, card: fb, index: 1, target: targeting.Card(fb.ID), check: func(t *testing.T) {
					assert.Equal(t, 3, fb.Effects[0].Amount)
					assert.Equal(t, 2, fb.Effects[1].Amount)
					lines := h.game.applyEffect(h.player(alice), fb, 0, targeting.Player(bob))
					assert.Equal(t, []string{"alice's Firebrand deals 3 damage to bob."}, lines)
				}}
			},
		},
		{
			name: "redirect moves a stack spell to another mob",
			setup: func(h *duelHarness) effectShot {
				grunt := h.summon(alice, "Grunt")
				squire := h.summon(alice, "Squire")
				zap := h.card(bob, "Zap")
				h.game.Stack.Push(h.game.newStackEntry(StackCast, h.player(bob), Move{
					MoveType:      MovePlayCardInHand,
					Username:      bob,
					Card:          zap.ID,
					EffectTargets: []targeting.Ref{targeting.Card(grunt.ID)},
				}, zap))
				return effectShot{by: alice, card: h.card(alice, "Mirror"), target: targeting.Stack(zap.ID), check: func(t *testing.T) {
					entry := h.game.stackEntryForCard(zap.ID)
					require.NotNil(t, entry)
					assert.Equal(t, targeting.Card(squire.ID), entry.Move.target(0))
				}}
			},
			wantLog: []string{"alice's Mirror redirects bob's Zap to alice's Squire."},
		},
		{
			name: "redirect with no other mob leaves the spell alone",
			setup: func(h *duelHarness) effectShot {
				grunt := h.summon(alice, "Grunt")
				zap := h.card(bob, "Zap")
				h.game.Stack.Push(h.game.newStackEntry(StackCast, h.player(bob), Move{
					MoveType:      MovePlayCardInHand,
					Username:      bob,
					Card:          zap.ID,
					EffectTargets: []targeting.Ref{targeting.Card(grunt.ID)},
				}, zap))
				return effectShot{by: alice, card: h.card(alice, "Mirror"), target: targeting.Stack(zap.ID), check: func(t *testing.T) {
					assert.Equal(t, targeting.Card(grunt.ID), h.game.stackEntryForCard(zap.ID).Move.target(0))
				}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newDuelHarness(t, effectCards()...)
			shot := tt.setup(h)

			lines := h.game.applyEffect(h.player(shot.by), shot.card, shot.index, shot.target)

			assert.Equal(t, tt.wantLog, lines)
			if shot.check != nil {
				shot.check(t)
			}
		})
	}
}

func TestKillSpellOnShieldedMobOnlyBreaksShield(t *testing.T) {
	h := newDuelHarness(t, effectCards()...)
	knight := h.summon(bob, "Bubble Knight")
	h.setMana(alice, 3)
	doom := h.give(alice, "Doom")

	res := h.play(alice, doom, targeting.Card(knight.ID))

	assert.Equal(t, []string{"bob's Bubble Knight shields itself from alice's Doom."}, res.Move.LogLines)
	survivor := h.player(bob).FindIn(ZoneInPlay, knight.ID)
	require.NotNil(t, survivor)
	assert.False(t, survivor.Shielded)
	assert.NotNil(t, h.player(alice).FindIn(ZonePlayedPile, doom.ID))

	h.setMana(alice, 3)
	second := h.give(alice, "Doom")
	res = h.play(alice, second, targeting.Card(knight.ID))

	assert.Equal(t, []string{"alice's Doom kills bob's Bubble Knight."}, res.Move.LogLines)
	assert.Empty(t, h.player(bob).InPlay)
	assert.NotNil(t, h.player(bob).FindIn(ZonePlayedPile, knight.ID))
}

func TestKillAllSparesShieldedMobs(t *testing.T) {
	h := newDuelHarness(t, effectCards()...)
	ogre := h.summon(alice, "Ogre")
	knight := h.summon(bob, "Bubble Knight")
	grunt := h.summon(bob, "Grunt")
	h.setMana(alice, 4)
	wipe := h.give(alice, "Cataclysm")

	res := h.play(alice, wipe)

	assert.Equal(t, []string{
		"alice's Cataclysm kills 2 mobs.",
		"bob's Bubble Knight shields itself from alice's Cataclysm.",
	}, res.Move.LogLines)
	assert.NotNil(t, h.player(alice).FindIn(ZonePlayedPile, ogre.ID))
	assert.NotNil(t, h.player(bob).FindIn(ZonePlayedPile, grunt.ID))
	survivor := h.player(bob).FindIn(ZoneInPlay, knight.ID)
	require.NotNil(t, survivor)
	assert.False(t, survivor.Shielded)
}

func TestTakeControlTransfersOwnership(t *testing.T) {
	h := newDuelHarness(t, effectCards()...)
	ogre := h.summon(bob, "Ogre")
	h.setMana(alice, 2)
	thief := h.give(alice, "Mind Thief")

	res := h.play(alice, thief, targeting.Card(ogre.ID))

	assert.Equal(t, []string{"alice takes control of bob's Ogre."}, res.Move.LogLines)
	assert.Empty(t, h.player(bob).InPlay)
	stolen := h.player(alice).FindIn(ZoneInPlay, ogre.ID)
	require.NotNil(t, stolen)
	assert.Equal(t, alice, stolen.Owner)
	assert.Equal(t, h.game.Turns.Turn, stolen.TurnPlayed)
	assert.True(t, h.game.summoningSick(stolen))

	h.setMana(alice, 1)
	rewind := h.give(alice, "Rewind")
	res = h.play(alice, rewind, targeting.Card(ogre.ID))

	assert.Equal(t, []string{"alice's Rewind returns alice's Ogre to hand."}, res.Move.LogLines)
	assert.NotNil(t, h.player(alice).FindIn(ZoneHand, ogre.ID))
	assert.Nil(t, h.player(bob).FindIn(ZoneHand, ogre.ID))
}

func TestStolenMobDiesIntoNewOwnersPile(t *testing.T) {
	h := newDuelHarness(t, effectCards()...)
	ogre := h.summon(bob, "Ogre")
	thief := h.card(alice, "Mind Thief")
	h.game.applyEffect(h.player(alice), thief, 0, targeting.Card(ogre.ID))

	h.game.sendCardToPlayedPile(h.player(alice), ogre, true)

	dead := h.player(alice).FindIn(ZonePlayedPile, ogre.ID)
	require.NotNil(t, dead)
	assert.Equal(t, alice, dead.Owner)
	assert.Nil(t, h.player(bob).FindIn(ZonePlayedPile, ogre.ID))
}

func TestStoredManaPaysForCardsNextTurn(t *testing.T) {
	h := newDuelHarness(t, effectCards()...)
	jar := h.summon(alice, "Mana Jar")
	require.Equal(t, 1, h.player(alice).Mana.Current)

	res := h.mustApply(Move{MoveType: MoveEndTurn, Username: alice})
	assert.Contains(t, res.Move.LogLines, "alice's Mana Jar stores 1 mana.")
	h.mustApply(Move{MoveType: MoveEndTurn, Username: bob})

	p := h.player(alice)
	require.Equal(t, 2, p.Mana.Current)
	require.Equal(t, 1, p.FindIn(ZoneArtifacts, jar.ID).Effects[0].Counters)
	require.Equal(t, 3, p.AvailableMana())

	ogre := h.give(alice, "Ogre")
	h.play(alice, ogre)

	p = h.player(alice)
	assert.NotNil(t, p.FindIn(ZoneInPlay, ogre.ID))
	assert.Zero(t, p.Mana.Current)
	assert.Zero(t, p.FindIn(ZoneArtifacts, jar.ID).Effects[0].Counters)
}

func TestRefreshReserveRefillsEmptyPoolOncePerTurn(t *testing.T) {
	h := newDuelHarness(t, effectCards()...)
	h.summon(alice, "Wellspring")
	p := h.player(alice)
	p.Mana.Max = 3
	p.Mana.Current = 1
	require.Equal(t, 4, p.AvailableMana())

	ogre := h.give(alice, "Ogre")
	h.play(alice, ogre)

	p = h.player(alice)
	assert.NotNil(t, p.FindIn(ZoneInPlay, ogre.ID))
	assert.Equal(t, 1, p.Mana.Current)
	assert.True(t, p.RefreshUsed)
	assert.Equal(t, 1, p.AvailableMana())

	second := h.give(alice, "Ogre")
	h.reject(Move{MoveType: MovePlayCardInHand, Username: alice, Card: second.ID}, ErrInsufficientMana)
}

func TestDecreaseMaxManaWhenArtifactLeavesPlay(t *testing.T) {
	h := newDuelHarness(t, effectCards()...)
	totem := h.summon(alice, "Drain Totem")
	p := h.player(alice)
	p.Mana.Max = 5
	p.Mana.Current = 5

	lines := h.game.sendCardToPlayedPile(p, totem, true)

	assert.Equal(t, []string{"alice's Drain Totem lowers alice's max mana to 3."}, lines)
	assert.Equal(t, 3, p.Mana.Max)
	assert.Equal(t, 3, p.Mana.Current)
	assert.Empty(t, p.Artifacts)
	assert.NotNil(t, p.FindIn(ZonePlayedPile, totem.ID))
}

func TestAfterDrawFiresForEveryCardDrawn(t *testing.T) {
	h := newDuelHarness(t, effectCards()...)
	h.summon(alice, "Scholar")
	hp := h.player(bob).HitPoints
	study := h.give(alice, "Study")

	res := h.play(alice, study)

	assert.Equal(t, []string{
		"alice draws 2 cards.",
		"alice's Scholar deals 1 damage to bob.",
		"alice's Scholar deals 1 damage to bob.",
	}, res.Move.LogLines)
	assert.Len(t, h.player(alice).Hand, 2)
	assert.Equal(t, hp-2, h.player(bob).HitPoints)
}

func TestFetchChoiceMovesCardToHand(t *testing.T) {
	h := newDuelHarness(t, effectCards()...)
	seeker := h.give(alice, "Seeker")

	res := h.play(alice, seeker)
	require.Equal(t, []string{"alice's Seeker searches the deck."}, res.Move.LogLines)
	ch := h.player(alice).CardChoiceInfo
	require.NotNil(t, ch)
	pick := ch.CardIDs[0]

	res = h.mustApply(Move{MoveType: MoveFetchCard, Username: alice, Card: pick})

	assert.Equal(t, []string{"alice fetches Grunt."}, res.Move.LogLines)
	p := h.player(alice)
	assert.NotNil(t, p.FindIn(ZoneHand, pick))
	assert.Nil(t, p.FindIn(ZoneDeck, pick))
	assert.Nil(t, p.CardChoiceInfo)
}

func TestLeavePlayCascadeStopsAtDepthLimit(t *testing.T) {
	tests := []struct {
		name     string
		maxDepth int
		wantLog  []string
	}{
		{
			name:     "default limit runs every leave effect",
			maxDepth: 0,
			wantLog: []string{
				"alice's Doomsayer kills 1 mob.",
				"alice's Doomsayer kills 1 mob.",
				"alice's Doomsayer kills 0 mobs.",
			},
		},
		{
			name:     "shallow limit skips the innermost effect",
			maxDepth: 2,
			wantLog: []string{
				"alice's Doomsayer kills 1 mob.",
				"alice's Doomsayer kills 1 mob.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newDuelHarness(t, effectCards()...)
			first := h.summon(alice, "Doomsayer")
			h.summon(alice, "Doomsayer")
			h.summon(alice, "Doomsayer")
			h.game.res = rules.NewResolutionContext(tt.maxDepth)

			lines := h.game.sendCardToPlayedPile(h.player(alice), first, true)

			assert.Equal(t, tt.wantLog, lines)
			assert.Empty(t, h.player(alice).InPlay)
			assert.Len(t, h.player(alice).PlayedPile, 3)
			checkInvariants(t, h.game)
			h.mustApply(Move{MoveType: MoveEndTurn, Username: alice})
		})
	}
}

func TestLethalDamageStopsAtZero(t *testing.T) {
	h := newDuelHarness(t)
	h.player(bob).HitPoints = 2
	h.setMana(alice, 2)
	zap := h.give(alice, "Zap")

	res := h.play(alice, zap, targeting.Player(bob))

	assert.Equal(t, []string{"alice's Zap deals 3 damage to bob."}, res.Move.LogLines)
	assert.Zero(t, h.player(bob).HitPoints)
	assert.Equal(t, StatusGameOver, h.game.Status)
	assert.Equal(t, alice, h.game.Winner)
}

func TestResultCarriesClickablesForBothPlayers(t *testing.T) {
	h := newDuelHarness(t)

	res := h.mustApply(Move{MoveType: MoveEndTurn, Username: alice})

	require.Len(t, res.Clickables, 2)
	assert.Equal(t, res.Clickable, res.Clickables[alice])
	assert.True(t, res.Clickables[alice].Empty())
	assert.True(t, res.Clickables[bob].EndTurn)
	assert.Equal(t, ComputeClickable(h.game, bob), res.Clickables[bob])
}
