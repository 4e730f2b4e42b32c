// Package catalog loads card templates from YAML documents.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/duelhall/duel-server-go/internal/game"
	"github.com/duelhall/duel-server-go/internal/game/cards"
	"github.com/duelhall/duel-server-go/internal/game/targeting"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed cards.yaml
var embeddedCards []byte

type document struct {
	Cards []cardDoc `yaml:"cards"`
}

type cardDoc struct {
	Name        string              `yaml:"name"`
	CardType    cards.CardType      `yaml:"card_type"`
	Cost        int                 `yaml:"cost"`
	Power       int                 `yaml:"power"`
	Toughness   int                 `yaml:"toughness"`
	Description string              `yaml:"description"`
	Tags        []string            `yaml:"tags"`
	Abilities   []cards.AbilityName `yaml:"abilities"`
	Effects     []effectDoc         `yaml:"effects"`
	Enabled     *bool               `yaml:"enabled"`
}

type effectDoc struct {
	Name               cards.EffectName        `yaml:"name"`
	EffectType         cards.EffectType        `yaml:"effect_type"`
	TargetType         targeting.TargetType    `yaml:"target_type"`
	Amount             int                     `yaml:"amount"`
	AmountIncrement    int                     `yaml:"amount_increment"`
	Cost               int                     `yaml:"cost"`
	CostHP             int                     `yaml:"cost_hp"`
	Counters           int                     `yaml:"counters"`
	LimitedUses        bool                    `yaml:"limited_uses"`
	Enabled            *bool                   `yaml:"enabled"`
	TargetRestrictions []targeting.Restriction `yaml:"target_restrictions"`
	Tokens             []tokenDoc              `yaml:"tokens"`
	Abilities          []cards.AbilityName     `yaml:"abilities"`
	CardNames          []string                `yaml:"card_names"`
	GlobalEffects      []string                `yaml:"global_effects"`
	Choices            int                     `yaml:"choices"`
	Description        string                  `yaml:"description"`
}

type tokenDoc struct {
	PowerModifier     int    `yaml:"power_modifier"`
	ToughnessModifier int    `yaml:"toughness_modifier"`
	Turns             *int   `yaml:"turns"`
	Multiplier        string `yaml:"multiplier"`
	SetCantAct        bool   `yaml:"set_cant_act"`
}

func enabled(b *bool) bool {
	return b == nil || *b
}

func abilities(names []cards.AbilityName) []cards.Ability {
	if len(names) == 0 {
		return nil
	}
	out := make([]cards.Ability, 0, len(names))
	for _, n := range names {
		out = append(out, cards.Ability{Name: n, Enabled: true})
	}
	return out
}

func (d effectDoc) effect() cards.Effect {
	e := cards.Effect{
		Name:               d.Name,
		EffectType:         d.EffectType,
		TargetType:         d.TargetType,
		Amount:             d.Amount,
		AmountIncrement:    d.AmountIncrement,
		Cost:               d.Cost,
		CostHP:             d.CostHP,
		Counters:           d.Counters,
		LimitedUses:        d.LimitedUses,
		Enabled:            enabled(d.Enabled),
		TargetRestrictions: d.TargetRestrictions,
		Abilities:          abilities(d.Abilities),
		CardNames:          d.CardNames,
		GlobalEffects:      d.GlobalEffects,
		Choices:            d.Choices,
		Description:        d.Description,
	}
	for _, t := range d.Tokens {
		turns := -1
		if t.Turns != nil {
			turns = *t.Turns
		}
		e.Tokens = append(e.Tokens, cards.Token{
			PowerModifier:     t.PowerModifier,
			ToughnessModifier: t.ToughnessModifier,
			Turns:             turns,
			Multiplier:        t.Multiplier,
			SetCantAct:        t.SetCantAct,
		})
	}
	return e
}

func (d cardDoc) template() cards.Template {
	t := cards.Template{
		Name:        d.Name,
		CardType:    d.CardType,
		Cost:        d.Cost,
		Power:       d.Power,
		Toughness:   d.Toughness,
		Description: d.Description,
		Tags:        d.Tags,
		Abilities:   abilities(d.Abilities),
	}
	for _, e := range d.Effects {
		t.Effects = append(t.Effects, e.effect())
	}
	return t
}

func (d cardDoc) validate() error {
	if d.Name == "" {
		return errors.New("card without a name")
	}
	switch d.CardType {
	case cards.TypeMob:
		if d.Toughness <= 0 {
			return fmt.Errorf("mob %q needs positive toughness", d.Name)
		}
	case cards.TypeSpell, cards.TypeArtifact:
	default:
		return fmt.Errorf("card %q has unknown type %q", d.Name, d.CardType)
	}
	if d.Cost < 0 {
		return fmt.Errorf("card %q has negative cost", d.Name)
	}
	for i, e := range d.Effects {
		if e.Name == "" {
			return fmt.Errorf("card %q effect %d has no name", d.Name, i)
		}
		if e.EffectType == "" {
			return fmt.Errorf("card %q effect %s has no effect_type", d.Name, e.Name)
		}
	}
	return nil
}

// Load parses a YAML catalog. Disabled cards are skipped and duplicate names
// are rejected.
func Load(r io.Reader) (*cards.StaticCatalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := cards.NewStaticCatalog()
	seen := make(map[string]bool, len(doc.Cards))
	for _, d := range doc.Cards {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("duplicate card %q", d.Name)
		}
		seen[d.Name] = true
		if !enabled(d.Enabled) {
			continue
		}
		c.Add(d.template())
	}
	return c, nil
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*cards.StaticCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() (*cards.StaticCatalog, error) {
	return Load(bytes.NewReader(embeddedCards))
}

// Open loads the catalog at path, or the built-in one when path is empty,
// and warns about effect names the engine does not implement.
func Open(path string, logger *zap.Logger) (*cards.StaticCatalog, error) {
	var (
		c   *cards.StaticCatalog
		err error
	)
	if path == "" {
		c, err = Default()
	} else {
		c, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	for _, u := range UnknownEffects(c) {
		logger.Warn("catalog uses unknown effect", zap.String("card", u.Card), zap.String("effect", string(u.Effect)))
	}
	logger.Info("card catalog loaded", zap.Int("cards", c.Len()), zap.String("path", path))
	return c, nil
}

// UnknownEffect names a catalog effect the engine will ignore.
type UnknownEffect struct {
	Card   string
	Effect cards.EffectName
}

// UnknownEffects lists effects the interpreter has no behavior for.
func UnknownEffects(c cards.Catalog) []UnknownEffect {
	var out []UnknownEffect
	for _, t := range c.All() {
		for _, e := range t.Effects {
			if !game.KnownEffect(e.Name) {
				out = append(out, UnknownEffect{Card: t.Name, Effect: e.Name})
			}
		}
	}
	return out
}
