package cards

import "github.com/duelhall/duel-server-go/internal/game/targeting"

// CardType is the broad kind of a card.
type CardType string

const (
	TypeMob      CardType = "mob"
	TypeSpell    CardType = "spell"
	TypeArtifact CardType = "artifact"
)

// EffectType is the phase an effect fires in.
type EffectType string

const (
	EffectSpell     EffectType = "spell"
	EffectEnterPlay EffectType = "enter_play"
	EffectLeavePlay EffectType = "leave_play"
	EffectActivated EffectType = "activated"
	EffectStartTurn EffectType = "start_turn"
	EffectEndTurn   EffectType = "end_turn"
	EffectAfterDraw EffectType = "after_draw"
	EffectPassive   EffectType = "passive"
)

// AbilityName is a static keyword.
type AbilityName string

const (
	AbilityGuard   AbilityName = "Guard"
	AbilityFast    AbilityName = "Fast"
	AbilityAmbush  AbilityName = "Ambush"
	AbilityLurker  AbilityName = "Lurker"
	AbilityShield  AbilityName = "Shield"
	AbilityDefend  AbilityName = "Defend"
	AbilityStomp   AbilityName = "Stomp"
	AbilityInstant AbilityName = "Instant"
	AbilityCantDie AbilityName = "CantDie"
)

// Token multipliers.
const (
	MultiplierSelfMobs      = "self_mobs"
	MultiplierSelfArtifacts = "self_artifacts"
	MultiplierHalfSelfMobs  = "half_self_mobs"
)

// Token is a stat modifier attached to a card. Turns of -1 is permanent.
// A non-zero ID ties the token to the artifact that granted it.
type Token struct {
	ID                int    `json:"id,omitempty"`
	PowerModifier     int    `json:"power_modifier,omitempty"`
	ToughnessModifier int    `json:"toughness_modifier,omitempty"`
	Turns             int    `json:"turns"`
	Multiplier        string `json:"multiplier,omitempty"`
	SetCantAct        bool   `json:"set_cant_act,omitempty"`
}

// Ability is a keyword that can be switched off.
type Ability struct {
	Name        AbilityName `json:"name"`
	Enabled     bool        `json:"enabled"`
	Description string      `json:"description,omitempty"`
}

// Effect is one behavioral clause of a card.
type Effect struct {
	Name               EffectName              `json:"name"`
	EffectType         EffectType              `json:"effect_type"`
	TargetType         targeting.TargetType    `json:"target_type,omitempty"`
	Amount             int                     `json:"amount,omitempty"`
	AmountIncrement    int                     `json:"amount_increment,omitempty"`
	Cost               int                     `json:"cost,omitempty"`
	CostHP             int                     `json:"cost_hp,omitempty"`
	Counters           int                     `json:"counters,omitempty"`
	LimitedUses        bool                    `json:"limited_uses,omitempty"`
	Enabled            bool                    `json:"enabled"`
	TargetRestrictions []targeting.Restriction `json:"target_restrictions,omitempty"`
	Tokens             []Token                 `json:"tokens,omitempty"`
	Abilities          []Ability               `json:"abilities,omitempty"`
	CardNames          []string                `json:"card_names,omitempty"`
	GlobalEffects      []string                `json:"global_effects,omitempty"`
	Choices            int                     `json:"choices,omitempty"`
	Description        string                  `json:"description,omitempty"`
}

// Clone deep-copies the effect.
func (e Effect) Clone() Effect {
	e.TargetRestrictions = append([]targeting.Restriction(nil), e.TargetRestrictions...)
	e.Tokens = append([]Token(nil), e.Tokens...)
	e.Abilities = append([]Ability(nil), e.Abilities...)
	e.CardNames = append([]string(nil), e.CardNames...)
	e.GlobalEffects = append([]string(nil), e.GlobalEffects...)
	return e
}

// Usable reports whether the effect is enabled and has uses left.
func (e Effect) Usable() bool {
	return e.Enabled && (!e.LimitedUses || e.Counters > 0)
}

// Template is an immutable catalog entry.
type Template struct {
	Name        string
	CardType    CardType
	Cost        int
	Power       int
	Toughness   int
	Description string
	Tags        []string
	Effects     []Effect
	Abilities   []Ability
}

// Catalog is the read-only source of card templates.
type Catalog interface {
	All() []Template
	Lookup(name string) (Template, bool)
}

// Keywords lists every ability name in a fixed order.
var Keywords = []AbilityName{
	AbilityGuard, AbilityFast, AbilityAmbush, AbilityLurker, AbilityShield,
	AbilityDefend, AbilityStomp, AbilityInstant, AbilityCantDie,
}

// Candidate is the restriction view of the template.
func (t Template) Candidate() targeting.Candidate {
	return targeting.Candidate{
		Name:     t.Name,
		CardType: string(t.CardType),
		Cost:     t.Cost,
		Power:    t.Power,
		Tags:     t.Tags,
	}
}

// HasTag reports whether the template carries the tag.
func (t Template) HasTag(tag string) bool {
	for _, x := range t.Tags {
		if x == tag {
			return true
		}
	}
	return false
}
