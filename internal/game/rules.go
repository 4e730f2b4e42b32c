package game

// Rules are the table limits a game is played under.
type Rules struct {
	MaxHandSize       int      `json:"max_hand_size" mapstructure:"max_hand_size"`
	MaxInPlay         int      `json:"max_in_play" mapstructure:"max_in_play"`
	MaxArtifacts      int      `json:"max_artifacts" mapstructure:"max_artifacts"`
	StartingHitPoints int      `json:"starting_hit_points" mapstructure:"starting_hit_points"`
	MaxHitPoints      int      `json:"max_hit_points" mapstructure:"max_hit_points"`
	ManaCap           int      `json:"mana_cap" mapstructure:"mana_cap"`
	StartingHandSize  int      `json:"starting_hand_size" mapstructure:"starting_hand_size"`
	RopeSeconds       int      `json:"rope_seconds" mapstructure:"rope_seconds"`
	MakeChoices       int      `json:"make_choices" mapstructure:"make_choices"`
	DefaultDeck       []string `json:"default_deck,omitempty" mapstructure:"default_deck"`
}

// DefaultRules returns the standard table limits.
func DefaultRules() Rules {
	return Rules{
		MaxHandSize:       10,
		MaxInPlay:         7,
		MaxArtifacts:      3,
		StartingHitPoints: 30,
		MaxHitPoints:      30,
		ManaCap:           10,
		StartingHandSize:  4,
		RopeSeconds:       90,
		MakeChoices:       3,
	}
}
