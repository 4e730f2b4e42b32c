package game

import (
	"slices"

	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/mana"
)

// TargetReason records why a player is being asked for a target.
type TargetReason string

const (
	ReasonSpellCast         TargetReason = "spell_cast"
	ReasonMobComesIntoPlay  TargetReason = "mob_comes_into_play"
	ReasonMobActivated      TargetReason = "mob_activated"
	ReasonArtifactActivated TargetReason = "artifact_activated"
	ReasonMobAtReady        TargetReason = "mob_at_ready"
)

// TargetRequest is what the player is in the middle of doing.
type TargetRequest struct {
	CardID      int          `json:"card_id"`
	Reason      TargetReason `json:"effect_type"`
	EffectIndex int          `json:"effect_index"`
}

// ChoiceKind names the prompt a CardChoice answers.
type ChoiceKind string

const (
	ChoiceMake                    ChoiceKind = "make"
	ChoiceMakeEffect              ChoiceKind = "make_effect"
	ChoiceFetchCard               ChoiceKind = "fetch_card"
	ChoiceFetchCardIntoPlay       ChoiceKind = "fetch_card_into_play"
	ChoiceFetchCardFromPlayedPile ChoiceKind = "fetch_card_from_played_pile"
	ChoiceRiffle                  ChoiceKind = "riffle"
)

// CardChoice is a pending "choose one of N" prompt. Names holds card names
// or global effect names; CardIDs holds ids of cards still in their zone.
type CardChoice struct {
	Kind         ChoiceKind `json:"choice_type"`
	SourceCardID int        `json:"source_card_id"`
	Names        []string   `json:"names,omitempty"`
	CardIDs      []int      `json:"card_ids,omitempty"`
}

func (c *CardChoice) clone() *CardChoice {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Names = append([]string(nil), c.Names...)
	cp.CardIDs = append([]int(nil), c.CardIDs...)
	return &cp
}

// Cancellable reports whether CANCEL_MAKE may dismiss the prompt.
func (c *CardChoice) Cancellable() bool {
	return c.Kind != ChoiceRiffle
}

// Player is one side of the game.
type Player struct {
	Username   string        `json:"username"`
	HitPoints  int           `json:"hit_points"`
	Mana       mana.Pool     `json:"mana"`
	Hand       []*cards.Card `json:"hand"`
	Deck       []*cards.Card `json:"deck"`
	InPlay     []*cards.Card `json:"in_play"`
	Artifacts  []*cards.Card `json:"artifacts"`
	PlayedPile []*cards.Card `json:"played_pile"`

	Abilities    []cards.Ability `json:"abilities,omitempty"`
	ExtraTurns   int             `json:"extra_turns,omitempty"`
	RevealedHand bool            `json:"revealed_hand,omitempty"`
	// RefreshUsed marks that a refresh_mana reserve was spent this turn.
	RefreshUsed bool `json:"refresh_used,omitempty"`

	CardInfoToTarget *TargetRequest `json:"card_info_to_target,omitempty"`
	CardChoiceInfo   *CardChoice    `json:"card_choice_info,omitempty"`
}

func newPlayer(username string, r Rules) *Player {
	return &Player{
		Username:  username,
		HitPoints: r.StartingHitPoints,
		Mana:      mana.NewPool(r.ManaCap),
	}
}

func cloneCards(in []*cards.Card) []*cards.Card {
	if in == nil {
		return nil
	}
	out := make([]*cards.Card, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func (p *Player) clone() *Player {
	cp := *p
	cp.Hand = cloneCards(p.Hand)
	cp.Deck = cloneCards(p.Deck)
	cp.InPlay = cloneCards(p.InPlay)
	cp.Artifacts = cloneCards(p.Artifacts)
	cp.PlayedPile = cloneCards(p.PlayedPile)
	cp.Abilities = append([]cards.Ability(nil), p.Abilities...)
	if p.CardInfoToTarget != nil {
		t := *p.CardInfoToTarget
		cp.CardInfoToTarget = &t
	}
	cp.CardChoiceInfo = p.CardChoiceInfo.clone()
	return &cp
}

// HasAbility reports whether the player has the named ability enabled.
func (p *Player) HasAbility(name cards.AbilityName) bool {
	for _, a := range p.Abilities {
		if a.Name == name && a.Enabled {
			return true
		}
	}
	return false
}

// Counts is what multiplier tokens of this player's cards scale with.
func (p *Player) Counts() cards.BoardCounts {
	return cards.BoardCounts{Mobs: len(p.InPlay), Artifacts: len(p.Artifacts)}
}

// Board lists mobs then artifacts, the order triggered effects fire in.
func (p *Player) Board() []*cards.Card {
	board := make([]*cards.Card, 0, len(p.InPlay)+len(p.Artifacts))
	board = append(board, p.InPlay...)
	return append(board, p.Artifacts...)
}

// Zone names used for lookups.
type Zone string

const (
	ZoneNone       Zone = ""
	ZoneHand       Zone = "hand"
	ZoneDeck       Zone = "deck"
	ZoneInPlay     Zone = "in_play"
	ZoneArtifacts  Zone = "artifacts"
	ZonePlayedPile Zone = "played_pile"
)

func (p *Player) zone(z Zone) *[]*cards.Card {
	switch z {
	case ZoneHand:
		return &p.Hand
	case ZoneDeck:
		return &p.Deck
	case ZoneInPlay:
		return &p.InPlay
	case ZoneArtifacts:
		return &p.Artifacts
	case ZonePlayedPile:
		return &p.PlayedPile
	}
	return nil
}

var allZones = []Zone{ZoneInPlay, ZoneArtifacts, ZoneHand, ZoneDeck, ZonePlayedPile}

// Find locates a card by id in any of the player's zones.
func (p *Player) Find(id int) (*cards.Card, Zone) {
	for _, z := range allZones {
		for _, c := range *p.zone(z) {
			if c.ID == id {
				return c, z
			}
		}
	}
	return nil, ZoneNone
}

// FindIn locates a card by id in one zone.
func (p *Player) FindIn(z Zone, id int) *cards.Card {
	for _, c := range *p.zone(z) {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// remove takes the card out of the given zone.
func (p *Player) remove(z Zone, id int) *cards.Card {
	zone := p.zone(z)
	for i, c := range *zone {
		if c.ID == id {
			*zone = slices.Delete(*zone, i, i+1)
			return c
		}
	}
	return nil
}

// resetSelection clears the targeting state machine.
func (p *Player) resetSelection() {
	p.CardInfoToTarget = nil
}

// storeManaBanks returns the mana stored on artifacts, in board order.
func (p *Player) storeManaBanks() []mana.Source {
	var banks []mana.Source
	for _, a := range p.Artifacts {
		for i := range a.Effects {
			e := &a.Effects[i]
			if e.Name == cards.EffectStoreMana && e.Enabled {
				banks = append(banks, mana.Bank{Amount: &e.Counters})
			}
		}
	}
	return banks
}

func (p *Player) hasRefreshReserve() bool {
	if p.RefreshUsed {
		return false
	}
	for _, a := range p.Artifacts {
		for _, e := range a.Effects {
			if e.Name == cards.EffectRefreshMana && e.Enabled && e.EffectType == cards.EffectPassive {
				return true
			}
		}
	}
	return false
}

// refreshReserve refills the emptied pool once per turn.
type refreshReserve struct {
	p *Player
}

func (r refreshReserve) Available() int {
	if !r.p.hasRefreshReserve() {
		return 0
	}
	return r.p.Mana.Max
}

func (r refreshReserve) Take(n int) int {
	if r.Available() == 0 || r.p.Mana.Current != 0 {
		return 0
	}
	r.p.RefreshUsed = true
	r.p.Mana.Refill()
	taken := min(n, r.p.Mana.Current)
	r.p.Mana.Current -= taken
	return taken
}

func (p *Player) manaSources() []mana.Source {
	return append(p.storeManaBanks(), refreshReserve{p: p})
}

// AvailableMana is what the player can pay right now, reserves included.
func (p *Player) AvailableMana() int {
	return p.Mana.Available(p.manaSources()...)
}

// spendMana pays amount from the pool, then stored mana, then a refresh
// reserve. Callers check affordability first.
func (p *Player) spendMana(amount int) {
	p.Mana.Spend(amount, p.manaSources()...)
}
