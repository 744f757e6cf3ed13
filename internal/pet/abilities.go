package pet

import "grundy/internal/bible"

// Ability modifiers. Each returns the neutral value when the species has a
// different ability.

func abilityValue(sp bible.Species, kind bible.AbilityKind) (float64, bool) {
	if sp.Ability.Kind != kind {
		return 0, false
	}
	return sp.Ability.Value, true
}

// BondMultiplier scales bond gains.
func BondMultiplier(sp bible.Species) float64 {
	if v, ok := abilityValue(sp, bible.AbilityBondBonus); ok {
		return v
	}
	return 1
}

// MoodPenaltyFactor scales negative mood deltas (0.8 = 20% softer).
func MoodPenaltyFactor(sp bible.Species) float64 {
	if v, ok := abilityValue(sp, bible.AbilityMoodPenaltyReduction); ok {
		return 1 - v
	}
	return 1
}

// MoodDecayFactor scales mood decay over time.
func MoodDecayFactor(sp bible.Species) float64 {
	if v, ok := abilityValue(sp, bible.AbilityMoodDecayReduction); ok {
		return 1 - v
	}
	return 1
}

// HungerDecayFactor scales hunger decay over time.
func HungerDecayFactor(sp bible.Species) float64 {
	if v, ok := abilityValue(sp, bible.AbilityHungerDecayReduction); ok {
		return 1 - v
	}
	return 1
}

// MinigameCoinMultiplier scales mini-game coin rewards.
func MinigameCoinMultiplier(sp bible.Species) float64 {
	if v, ok := abilityValue(sp, bible.AbilityMinigameBonus); ok {
		return v
	}
	return 1
}

// XPMultiplier scales XP gains.
func XPMultiplier(sp bible.Species) float64 {
	if v, ok := abilityValue(sp, bible.AbilityXPBonus); ok {
		return v
	}
	return 1
}

// EnergyCostReduction is subtracted from each mini-game's energy cost.
func EnergyCostReduction(sp bible.Species) int {
	if v, ok := abilityValue(sp, bible.AbilityEnergySaver); ok {
		return int(v)
	}
	return 0
}

// CoinDiscount is the fraction taken off coin prices in the shop.
func CoinDiscount(sp bible.Species) float64 {
	if v, ok := abilityValue(sp, bible.AbilityCoinDiscount); ok {
		return v
	}
	return 0
}
