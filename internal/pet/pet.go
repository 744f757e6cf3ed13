// Package pet models one owned pet and the single-pet core loop: feeding,
// cooldown, fullness, mood, weight, sickness and progression.
package pet

import (
	"log/slog"
	"math"

	"grundy/internal/bible"
)

// Pet is one owned pet (OwnedPetState). SpeciesID never changes after New.
type Pet struct {
	InstanceID         string  `json:"instanceId"`
	SpeciesID          string  `json:"speciesId"`
	Name               string  `json:"name"`
	Level              int     `json:"level"`
	XP                 int     `json:"xp"`
	Bond               float64 `json:"bond"`
	MoodValue          float64 `json:"moodValue"`
	Hunger             float64 `json:"hunger"`
	Weight             float64 `json:"weight"`
	IsSick             bool    `json:"isSick"`
	SickStartTimestamp *int64  `json:"sickStartTimestamp"`
	LastFeedAt         *int64  `json:"lastFeedAt,omitempty"`
	PoopCount          int     `json:"poopCount"`
	DirtySince         *int64  `json:"dirtySince,omitempty"`
	CareMistakes       int     `json:"careMistakes"`
	CreatedAt          int64   `json:"createdAt"`
}

// New creates a pet with default stats.
func New(instanceID, speciesID, name string, now int64) Pet {
	if name == "" {
		if sp, ok := bible.Default().SpeciesByID(speciesID); ok {
			name = sp.Name
		}
	}
	p := Pet{
		InstanceID: instanceID,
		SpeciesID:  speciesID,
		Name:       name,
		Level:      bible.StartingLevel,
		Bond:       bible.DefaultBond,
		MoodValue:  bible.DefaultMood,
		Hunger:     bible.DefaultHunger,
		Weight:     bible.DefaultWeight,
		CreatedAt:  now,
	}
	slog.Debug("pet created", "id", instanceID, "species", speciesID)
	return p
}

// Clone returns a copy that shares no pointers with p.
func (p Pet) Clone() Pet {
	out := p
	out.SickStartTimestamp = copyPtr(p.SickStartTimestamp)
	out.LastFeedAt = copyPtr(p.LastFeedAt)
	out.DirtySince = copyPtr(p.DirtySince)
	return out
}

// Clamp forces every stat back into its documented range.
func (p Pet) Clamp() Pet {
	p.MoodValue = ClampStat(p.MoodValue)
	p.Hunger = ClampStat(p.Hunger)
	p.Weight = ClampStat(p.Weight)
	p.Bond = math.Max(0, p.Bond)
	if p.Level < bible.StartingLevel {
		p.Level = bible.StartingLevel
	}
	if p.XP < 0 {
		p.XP = 0
	}
	return p
}

// ClampStat bounds v to [StatMin, StatMax].
func ClampStat(v float64) float64 {
	return math.Max(bible.StatMin, math.Min(bible.StatMax, v))
}

// LevelForXP derives the level from total XP.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return bible.StartingLevel + xp/bible.XPPerLevel
}

// GainXP adds XP and reports how many levels were gained.
func GainXP(p Pet, amount int) (Pet, int) {
	if amount <= 0 {
		return p, 0
	}
	before := p.Level
	p.XP += amount
	p.Level = LevelForXP(p.XP)
	gained := p.Level - before
	if gained > 0 {
		slog.Info("pet leveled up", "id", p.InstanceID, "level", p.Level, "gained", gained)
	}
	return p, max(gained, 0)
}

// SetSick marks the pet sick. Already-sick pets keep their start time.
func SetSick(p Pet, now int64) Pet {
	if p.IsSick {
		return p
	}
	p.IsSick = true
	p.SickStartTimestamp = &now
	return p
}

// Cure clears sickness (medicine).
func Cure(p Pet) Pet {
	if !p.IsSick {
		return p
	}
	p.IsSick = false
	p.SickStartTimestamp = nil
	p.MoodValue = ClampStat(p.MoodValue + bible.MedicineMoodBoost)
	return p
}

// Clean removes poop and the dirty state.
func Clean(p Pet) Pet {
	p.PoopCount = 0
	p.DirtySince = nil
	return p
}

// AddPoop spawns poop, marking the pet dirty from now if it was clean.
func AddPoop(p Pet, count int, now int64) Pet {
	if count <= 0 {
		return p
	}
	p.PoopCount = min(p.PoopCount+count, bible.MaxPoops)
	if p.DirtySince == nil {
		p.DirtySince = &now
	}
	return p
}

// ApplyBondPenalty removes a fraction of current bond (neglect penalties).
func ApplyBondPenalty(p Pet, fraction float64) Pet {
	if fraction <= 0 {
		return p
	}
	p.Bond = math.Max(0, p.Bond*(1-fraction))
	return p
}

func copyPtr(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
