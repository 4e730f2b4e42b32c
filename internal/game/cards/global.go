package cards

// Table-wide modifiers chosen through make_effect.
const (
	GlobalMobsCostMore         = "mobs_cost_more"
	GlobalSpellsCostMore       = "spells_cost_more"
	GlobalArtifactsCostMore    = "artifacts_cost_more"
	GlobalMobsGetMorePower     = "mobs_get_more_power"
	GlobalMobsGetMoreToughness = "mobs_get_more_toughness"
)

// GlobalEffectNames lists every known table-wide modifier.
var GlobalEffectNames = []string{
	GlobalMobsCostMore,
	GlobalSpellsCostMore,
	GlobalArtifactsCostMore,
	GlobalMobsGetMorePower,
	GlobalMobsGetMoreToughness,
}

// GlobalCounts reports how many copies of a modifier are active.
type GlobalCounts interface {
	GetCount(name string) int
}

// ApplyGlobalEffects adjusts a freshly instantiated card. Modifiers stack
// linearly with their count.
func ApplyGlobalEffects(c *Card, g GlobalCounts) {
	if g == nil {
		return
	}
	switch c.CardType {
	case TypeMob:
		c.Cost += g.GetCount(GlobalMobsCostMore)
		c.Power += g.GetCount(GlobalMobsGetMorePower)
		c.Toughness += g.GetCount(GlobalMobsGetMoreToughness)
	case TypeSpell:
		c.Cost += g.GetCount(GlobalSpellsCostMore)
	case TypeArtifact:
		c.Cost += g.GetCount(GlobalArtifactsCostMore)
	}
}
