package targeting

// TargetType names who or what an effect is aimed at.
type TargetType string

const (
	TargetSelf              TargetType = "self"
	TargetOpponent          TargetType = "opponent"
	TargetPlayer            TargetType = "player"
	TargetThis              TargetType = "this"
	TargetMob               TargetType = "mob"
	TargetSelfMob           TargetType = "self_mob"
	TargetOpponentsMob      TargetType = "opponents_mob"
	TargetArtifact          TargetType = "artifact"
	TargetSelfArtifact      TargetType = "self_artifact"
	TargetOpponentsArtifact TargetType = "opponents_artifact"
	TargetMobOrArtifact     TargetType = "mob_or_artifact"
	TargetAny               TargetType = "any"
	TargetAll               TargetType = "all"
	TargetAllMobs           TargetType = "all_mobs"
	TargetSelfMobs          TargetType = "self_mobs"
	TargetOpponentsMobs     TargetType = "opponents_mobs"
	TargetAllPlayers        TargetType = "all_players"
	TargetStackSpell        TargetType = "stack_spell"
)

// IsMulti reports whether the target set is computed at resolution time
// rather than chosen by the player.
func (t TargetType) IsMulti() bool {
	switch t {
	case TargetAll, TargetAllMobs, TargetSelfMobs, TargetOpponentsMobs, TargetAllPlayers:
		return true
	}
	return false
}

// Independent reports whether the target is resolved without the
// player's chosen target (self, opponent, the card itself, or a computed set).
func (t TargetType) Independent() bool {
	switch t {
	case TargetSelf, TargetOpponent, TargetThis, "":
		return true
	}
	return t.IsMulti()
}

// NeedsChoice reports whether a player has to pick a target.
func (t TargetType) NeedsChoice() bool {
	return !t.Independent()
}

// AllowsMob reports whether a mob can satisfy the target type.
func (t TargetType) AllowsMob() bool {
	switch t {
	case TargetMob, TargetSelfMob, TargetOpponentsMob, TargetMobOrArtifact, TargetAny:
		return true
	}
	return false
}

// AllowsArtifact reports whether an artifact can satisfy the target type.
func (t TargetType) AllowsArtifact() bool {
	switch t {
	case TargetArtifact, TargetSelfArtifact, TargetOpponentsArtifact, TargetMobOrArtifact:
		return true
	}
	return false
}

// AllowsPlayer reports whether a player can satisfy the target type.
func (t TargetType) AllowsPlayer() bool {
	switch t {
	case TargetPlayer, TargetAny:
		return true
	}
	return false
}

// AllowsStack reports whether a spell on the stack can satisfy the target type.
func (t TargetType) AllowsStack() bool {
	return t == TargetStackSpell
}

// OwnSideOnly reports whether only the acting player's cards qualify.
func (t TargetType) OwnSideOnly() bool {
	return t == TargetSelfMob || t == TargetSelfArtifact
}

// OpponentSideOnly reports whether only the opponent's cards qualify.
func (t TargetType) OpponentSideOnly() bool {
	return t == TargetOpponentsMob || t == TargetOpponentsArtifact
}
