package cards

import (
	"slices"

	"github.com/duelhall/duel-server-go/internal/game/targeting"
)

// Card is one physical card instance.
type Card struct {
	ID          int      `json:"id"`
	Owner       string   `json:"owner_username"`
	Name        string   `json:"name"`
	CardType    CardType `json:"card_type"`
	Cost        int      `json:"cost"`
	Power       int      `json:"power,omitempty"`
	Toughness   int      `json:"toughness,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	Damage     int  `json:"damage,omitempty"`
	Attacked   bool `json:"attacked,omitempty"`
	TurnPlayed int  `json:"turn_played"`
	Shielded   bool `json:"shielded,omitempty"`
	Evolved    bool `json:"evolved,omitempty"`

	Effects   []Effect  `json:"effects,omitempty"`
	Abilities []Ability `json:"abilities,omitempty"`
	Tokens    []Token   `json:"tokens,omitempty"`
}

// BoardCounts is what multiplier tokens scale with.
type BoardCounts struct {
	Mobs      int
	Artifacts int
}

// NewInstance builds a fresh card from a template. Every nested slice is
// copied so instances never share state with the catalog or each other.
func NewInstance(t Template, owner string, id int) *Card {
	c := &Card{
		ID:          id,
		Owner:       owner,
		Name:        t.Name,
		CardType:    t.CardType,
		Cost:        t.Cost,
		Power:       t.Power,
		Toughness:   t.Toughness,
		Description: t.Description,
		Tags:        append([]string(nil), t.Tags...),
		TurnPlayed:  -1,
		Abilities:   append([]Ability(nil), t.Abilities...),
	}
	c.Effects = make([]Effect, len(t.Effects))
	for i, e := range t.Effects {
		c.Effects[i] = e.Clone()
	}
	c.Shielded = c.HasAbility(AbilityShield)
	return c
}

// Clone deep-copies the card.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Tags = append([]string(nil), c.Tags...)
	cp.Abilities = append([]Ability(nil), c.Abilities...)
	cp.Tokens = append([]Token(nil), c.Tokens...)
	cp.Effects = make([]Effect, len(c.Effects))
	for i, e := range c.Effects {
		cp.Effects[i] = e.Clone()
	}
	return &cp
}

// HasAbility reports whether the card has the named ability enabled.
func (c *Card) HasAbility(name AbilityName) bool {
	for _, a := range c.Abilities {
		if a.Name == name && a.Enabled {
			return true
		}
	}
	return false
}

// HasEffect reports whether the card carries an enabled effect with the given name.
func (c *Card) HasEffect(name EffectName) bool {
	for _, e := range c.Effects {
		if e.Name == name && e.Enabled {
			return true
		}
	}
	return false
}

// AddAbility enables the ability, appending it when missing.
func (c *Card) AddAbility(a Ability) {
	a.Enabled = true
	for i := range c.Abilities {
		if c.Abilities[i].Name == a.Name {
			c.Abilities[i].Enabled = true
			return
		}
	}
	c.Abilities = append(c.Abilities, a)
}

// DisableAbility switches the named ability off.
func (c *Card) DisableAbility(name AbilityName) {
	for i := range c.Abilities {
		if c.Abilities[i].Name == name {
			c.Abilities[i].Enabled = false
		}
	}
	if name == AbilityShield {
		c.Shielded = false
	}
}

// PowerWithTokens folds every token into the printed power.
func (c *Card) PowerWithTokens(b BoardCounts) int {
	power := c.Power
	for _, t := range c.Tokens {
		switch t.Multiplier {
		case MultiplierSelfMobs:
			power += t.PowerModifier * b.Mobs
		case MultiplierSelfArtifacts:
			power += t.PowerModifier * b.Artifacts
		case MultiplierHalfSelfMobs:
			power += t.PowerModifier * (b.Mobs / 2)
		default:
			power += t.PowerModifier
		}
	}
	return max(power, 0)
}

// ToughnessWithTokens folds every token into the printed toughness.
func (c *Card) ToughnessWithTokens() int {
	toughness := c.Toughness
	for _, t := range c.Tokens {
		toughness += t.ToughnessModifier
	}
	return toughness
}

// IsDead reports whether a mob has taken lethal damage.
func (c *Card) IsDead() bool {
	return c.CardType == TypeMob && c.Damage >= c.ToughnessWithTokens()
}

// CantAct reports whether a token forbids attacking and activating.
func (c *Card) CantAct() bool {
	for _, t := range c.Tokens {
		if t.SetCantAct {
			return true
		}
	}
	return false
}

// TickTokens counts timed tokens down and drops the expired ones.
func (c *Card) TickTokens() {
	kept := c.Tokens[:0]
	for _, t := range c.Tokens {
		if t.Turns > 0 {
			t.Turns--
			if t.Turns == 0 {
				continue
			}
		}
		kept = append(kept, t)
	}
	c.Tokens = kept
}

// RemoveTokensFrom drops tokens granted by the card with the given id.
func (c *Card) RemoveTokensFrom(sourceID int) bool {
	before := len(c.Tokens)
	c.Tokens = slices.DeleteFunc(c.Tokens, func(t Token) bool { return t.ID == sourceID })
	return len(c.Tokens) != before
}

// ResetRuntime clears combat and turn state.
func (c *Card) ResetRuntime() {
	c.Damage = 0
	c.Attacked = false
	c.TurnPlayed = -1
	c.Tokens = nil
	c.Shielded = c.HasAbility(AbilityShield)
}

// Candidate is the restriction view of the card.
func (c *Card) Candidate(b BoardCounts) targeting.Candidate {
	return targeting.Candidate{
		ID:       c.ID,
		Name:     c.Name,
		CardType: string(c.CardType),
		Cost:     c.Cost,
		Power:    c.PowerWithTokens(b),
		Tags:     c.Tags,
	}
}

// HasTag reports whether the card carries the tag.
func (c *Card) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}
