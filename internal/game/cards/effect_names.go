package cards

// EffectName is the dispatch key of an effect.
type EffectName string

const (
	EffectAddAbilities            EffectName = "add_abilities"
	EffectAddMana                 EffectName = "add_mana"
	EffectAddPlayerAbilities      EffectName = "add_player_abilities"
	EffectAddTokens               EffectName = "add_tokens"
	EffectBuffFromMana            EffectName = "buff_power_toughness_from_mana"
	EffectCounterSpell            EffectName = "counter_spell"
	EffectCreateCard              EffectName = "create_card"
	EffectCreateRandomTownie      EffectName = "create_random_townie"
	EffectDamage                  EffectName = "damage"
	EffectDecreaseMaxMana         EffectName = "decrease_max_mana"
	EffectDiscardRandom           EffectName = "discard_random"
	EffectDoublePower             EffectName = "double_power"
	EffectDraw                    EffectName = "draw"
	EffectDuplicateCardInPlay     EffectName = "duplicate_card_in_play"
	EffectEquipToMob              EffectName = "equip_to_mob"
	EffectEvolve                  EffectName = "evolve"
	EffectExtraTurn               EffectName = "extra_turn"
	EffectFetchCard               EffectName = "fetch_card"
	EffectFetchCardFromPlayedPile EffectName = "fetch_card_from_played_pile"
	EffectFetchCardIntoPlay       EffectName = "fetch_card_into_play"
	EffectGainForToughness        EffectName = "gain_for_toughness"
	EffectGainRandomAbility       EffectName = "gain_random_ability"
	EffectHeal                    EffectName = "heal"
	EffectImproveDamageWhenUsed   EffectName = "improve_damage_when_used"
	EffectIncreaseMaxMana         EffectName = "increase_max_mana"
	EffectKill                    EffectName = "kill"
	EffectMake                    EffectName = "make"
	EffectMakeEffect              EffectName = "make_effect"
	EffectManaToDamage            EffectName = "mana_to_damage"
	EffectRedirectMobSpell        EffectName = "redirect_mob_spell"
	EffectRefreshMana             EffectName = "refresh_mana"
	EffectRemoveAbilities         EffectName = "remove_abilities"
	EffectRiffle                  EffectName = "riffle"
	EffectSetCanAttack            EffectName = "set_can_attack"
	EffectStoreMana               EffectName = "store_mana"
	EffectSummonFromDeck          EffectName = "summon_from_deck"
	EffectSummonFromHand          EffectName = "summon_from_hand"
	EffectSwitchHitPoints         EffectName = "switch_hit_points"
	EffectTakeControl             EffectName = "take_control"
	EffectUnwind                  EffectName = "unwind"
	EffectViewHand                EffectName = "view_hand"
)
