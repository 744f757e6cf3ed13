package pet

import (
	"log/slog"
	"math"

	"grundy/internal/bible"
	"grundy/internal/clock"
)

// RoomKitchen is the room the UI switches to after a successful feed.
const RoomKitchen = "kitchen"

// FeedInput carries everything Feed needs besides the pet and the food.
// Neglect multipliers of zero are treated as 1.
type FeedInput struct {
	Now          int64
	Mode         bible.PlayMode
	BondGainMult float64
	MoodGainMult float64
}

// FeedResult describes what a feed did. Blocked feeds change nothing.
type FeedResult struct {
	Success           bool               `json:"success"`
	ReactionType      bible.ReactionType `json:"reactionType,omitempty"`
	WasBlocked        bool               `json:"wasBlocked"`
	OnCooldown        bool               `json:"onCooldown"`
	FeedValue         float64            `json:"feedValue"`
	MoodChange        float64            `json:"moodChange"`
	XPGained          int                `json:"xpGained"`
	LevelsGained      int                `json:"levelsGained"`
	BondChange        float64            `json:"bondChange"`
	HungerChange      float64            `json:"hungerChange"`
	WeightChange      float64            `json:"weightChange"`
	EnergyRestored    int                `json:"energyRestored"`
	SicknessTriggered bool               `json:"sicknessTriggered"`
	RoomContext       string             `json:"roomContext,omitempty"`
}

// Feed applies one food to p. The RNG is consulted at most once, and only
// in Classic mode for a pet that is not already sick.
func Feed(p Pet, food bible.Food, sp bible.Species, in FeedInput, rng clock.RNG) (Pet, FeedResult) {
	if IsStuffed(p.Hunger) {
		slog.Debug("feed blocked: stuffed", "pet", p.InstanceID, "hunger", p.Hunger)
		return p, FeedResult{WasBlocked: true}
	}

	before := p
	res := FeedResult{Success: true, RoomContext: RoomKitchen}

	value := FeedValue(p.Hunger)
	if IsOnCooldown(in.Now, p.LastFeedAt) {
		res.OnCooldown = true
		value *= bible.CooldownReducedValue
	}
	res.FeedValue = value

	bondMult := nonZero(in.BondGainMult)
	moodMult := nonZero(in.MoodGainMult)

	res.ReactionType = ReactionFor(sp, food.ID)
	moodDelta := float64(bible.ReactionMoodDelta[res.ReactionType])
	if moodDelta < 0 {
		moodDelta *= MoodPenaltyFactor(sp)
	} else {
		moodDelta *= value * moodMult
	}
	bondDelta := float64(bible.ReactionBondDelta[res.ReactionType]) * value * BondMultiplier(sp) * bondMult

	p.Hunger = ClampStat(p.Hunger + float64(food.Nutrition)*value)
	p.MoodValue = ClampStat(p.MoodValue + moodDelta)
	p.Bond = math.Max(0, p.Bond+bondDelta)

	switch {
	case food.Diet:
		p.Weight = ClampStat(p.Weight - bible.DietFoodWeightLoss)
	case food.Snack:
		p.Weight = ClampStat(p.Weight + float64(food.Weight))
	}

	xp := int(math.Round(float64(food.XP) * XPMultiplier(sp)))
	p, res.LevelsGained = GainXP(p, xp)
	res.XPGained = xp
	res.EnergyRestored = food.Energy

	if in.Mode == bible.ModeClassic && !before.IsSick {
		if rollFeedSickness(before, food, rng) {
			p = SetSick(p, in.Now)
			res.SicknessTriggered = true
			slog.Info("pet got sick from food", "pet", p.InstanceID, "food", food.ID)
		}
	}

	now := in.Now
	p.LastFeedAt = &now

	res.MoodChange = p.MoodValue - before.MoodValue
	res.BondChange = p.Bond - before.Bond
	res.HungerChange = p.Hunger - before.Hunger
	res.WeightChange = p.Weight - before.Weight
	return p, res
}

// rollFeedSickness evaluates the feeding triggers in order: hot pepper
// first, then overweight snack. A hot pepper roll ends evaluation.
func rollFeedSickness(before Pet, food bible.Food, rng clock.RNG) bool {
	if food.ID == bible.HotPepperID {
		return rng.Float64() < bible.HotPepperChance
	}
	if food.Snack && IsOverweight(before.Weight) {
		return rng.Float64() < bible.OverweightSnackChance
	}
	return false
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
