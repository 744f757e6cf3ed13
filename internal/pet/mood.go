package pet

import "grundy/internal/bible"

// DecayMood applies linear online mood decay over elapsedMinutes.
func DecayMood(moodValue, elapsedMinutes float64, sp bible.Species) float64 {
	if elapsedMinutes <= 0 {
		return ClampStat(moodValue)
	}
	loss := elapsedMinutes * bible.MoodDecayPerMinute * MoodDecayFactor(sp)
	return ClampStat(moodValue - loss)
}

// GetMoodTier labels a mood value.
func GetMoodTier(moodValue float64) bible.MoodTier {
	switch {
	case moodValue >= bible.MoodHappyMin:
		return bible.MoodHappy
	case moodValue >= bible.MoodContentMin:
		return bible.MoodContent
	case moodValue >= bible.MoodLowMin:
		return bible.MoodLow
	default:
		return bible.MoodSad
	}
}

// GetWeightState labels a weight value.
func GetWeightState(weight float64) bible.WeightState {
	switch {
	case weight >= bible.ObeseThreshold:
		return bible.WeightObese
	case weight >= bible.OverweightThreshold:
		return bible.WeightOverweight
	case weight >= bible.ChubbyThreshold:
		return bible.WeightChubby
	default:
		return bible.WeightNormal
	}
}

// IsOverweight reports weight at or above the overweight threshold.
func IsOverweight(weight float64) bool {
	return weight >= bible.OverweightThreshold
}

// ReactionFor looks up how a species feels about a food.
func ReactionFor(sp bible.Species, foodID string) bible.ReactionType {
	switch {
	case contains(sp.Favorites, foodID):
		return bible.ReactionEcstatic
	case contains(sp.Likes, foodID):
		return bible.ReactionPositive
	case contains(sp.Dislikes, foodID):
		return bible.ReactionNegative
	default:
		return bible.ReactionNeutral
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
