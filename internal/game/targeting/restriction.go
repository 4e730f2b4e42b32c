package targeting

import "slices"

// Restriction narrows which cards an effect may touch. Zero fields are ignored.
type Restriction struct {
	MinCost  *int   `json:"min_cost,omitempty" yaml:"min_cost,omitempty"`
	MaxCost  *int   `json:"max_cost,omitempty" yaml:"max_cost,omitempty"`
	MinPower *int   `json:"min_power,omitempty" yaml:"min_power,omitempty"`
	MaxPower *int   `json:"max_power,omitempty" yaml:"max_power,omitempty"`
	CardType string `json:"card_type,omitempty" yaml:"card_type,omitempty"`
	Tag      string `json:"tag,omitempty" yaml:"tag,omitempty"`
	CardName string `json:"card_name,omitempty" yaml:"card_name,omitempty"`
}

// Candidate is the view of a card that restrictions are checked against.
type Candidate struct {
	ID       int
	Name     string
	CardType string
	Cost     int
	Power    int
	Tags     []string
}

// Matches reports whether c satisfies the restriction.
func (r Restriction) Matches(c Candidate) bool {
	if r.MinCost != nil && c.Cost < *r.MinCost {
		return false
	}
	if r.MaxCost != nil && c.Cost > *r.MaxCost {
		return false
	}
	if r.MinPower != nil && c.Power < *r.MinPower {
		return false
	}
	if r.MaxPower != nil && c.Power > *r.MaxPower {
		return false
	}
	if r.CardType != "" && r.CardType != c.CardType {
		return false
	}
	if r.Tag != "" && !slices.Contains(c.Tags, r.Tag) {
		return false
	}
	if r.CardName != "" && r.CardName != c.Name {
		return false
	}
	return true
}

// MatchesAll reports whether c satisfies every restriction.
func MatchesAll(restrictions []Restriction, c Candidate) bool {
	for _, r := range restrictions {
		if !r.Matches(c) {
			return false
		}
	}
	return true
}
