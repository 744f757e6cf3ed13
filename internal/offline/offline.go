// Package offline replays the time a player was away. Each pet is walked
// through consecutive 24h periods, every period applying the same fixed
// sequence of effects, so a given gap, state and RNG always produce the
// same Welcome Back summary.
package offline

import (
	"log/slog"
	"math"
	"time"

	"grundy/internal/bible"
	"grundy/internal/clock"
	"grundy/internal/neglect"
	"grundy/internal/notify"
	"grundy/internal/pet"
)

const (
	hourMs = int64(time.Hour / time.Millisecond)
	dayMs  = int64(clock.Day / time.Millisecond)
)

// PetInput is one owned pet with its neglect record.
type PetInput struct {
	Pet     pet.Pet
	Neglect neglect.State
}

// Input is everything Reconcile reads.
type Input struct {
	LastSeen        int64
	Now             int64
	Mode            bible.PlayMode
	FtueCompletedAt *int64
	Pets            []PetInput
	Catalog         *bible.Catalog
}

// PetChange is one row of the Welcome Back summary.
type PetChange struct {
	PetID             string        `json:"petId"`
	PetName           string        `json:"petName"`
	MoodChange        float64       `json:"moodChange"`
	BondChange        float64       `json:"bondChange"`
	HungerChange      float64       `json:"hungerChange"`
	WeightChange      float64       `json:"weightChange"`
	BecameSick        bool          `json:"becameSick"`
	CareMistakesAdded int           `json:"careMistakesAdded"`
	PoopsAdded        int           `json:"poopsAdded"`
	NeglectDaysAdded  int           `json:"neglectDaysAdded"`
	NewStage          neglect.Stage `json:"newStage"`
}

// Summary is the Welcome Back report.
type Summary struct {
	HoursOffline float64        `json:"hoursOffline"`
	PetChanges   []PetChange    `json:"petChanges"`
	Events       []notify.Event `json:"-"`
}

// PetResult is the reconciled state of one pet, in input order.
type PetResult struct {
	Pet     pet.Pet
	Neglect neglect.State
	Change  PetChange
}

// HoursOffline returns the capped gap between lastSeen and now in hours.
func HoursOffline(lastSeen, now int64) float64 {
	if now <= lastSeen {
		return 0
	}
	hours := float64(now-lastSeen) / float64(hourMs)
	return math.Min(hours, bible.OfflineMaxHours)
}

// Reconcile applies the offline gap to every pet. The summary is nil when
// FTUE is incomplete or the gap is under an hour; pets are then returned
// untouched.
func Reconcile(in Input, rng clock.RNG) (*Summary, []PetResult) {
	results := make([]PetResult, len(in.Pets))
	for i, p := range in.Pets {
		results[i] = PetResult{Pet: p.Pet, Neglect: p.Neglect}
	}

	hours := HoursOffline(in.LastSeen, in.Now)
	if in.FtueCompletedAt == nil || hours < bible.OfflineSummaryMinHours {
		return nil, results
	}

	cat := in.Catalog
	if cat == nil {
		cat = bible.Default()
	}

	elapsed := int64(math.Round(hours * float64(hourMs)))
	summary := &Summary{HoursOffline: hours}
	for i, p := range in.Pets {
		sp, _ := cat.SpeciesByID(p.Pet.SpeciesID)
		r := replay{
			in:      in,
			sp:      sp,
			rng:     rng,
			pet:     p.Pet.Clone(),
			neglect: p.Neglect.Clone(),
		}
		r.run(elapsed)

		change := r.change(p.Pet, p.Neglect)
		results[i] = PetResult{Pet: r.pet, Neglect: r.neglect, Change: change}
		summary.PetChanges = append(summary.PetChanges, change)
		summary.Events = append(summary.Events, r.events...)
	}

	slog.Info("offline reconciliation", "hours", hours, "pets", len(in.Pets), "events", len(summary.Events))
	return summary, results
}

// replay walks one pet through the gap.
type replay struct {
	in  Input
	sp  bible.Species
	rng clock.RNG

	pet     pet.Pet
	neglect neglect.State

	becameSick   bool
	mistakes     int
	poops        int
	neglectAdded int
	events       []notify.Event
}

func (r *replay) run(elapsed int64) {
	if r.neglect.IsRunaway {
		return
	}
	for start := int64(0); start < elapsed; start += dayMs {
		end := min(start+dayMs, elapsed)
		r.period(r.in.LastSeen+start, r.in.LastSeen+end)
	}
	if pet.GetFullnessState(r.pet.Hunger) == bible.FullnessHungry {
		r.events = append(r.events, notify.PetHungry{PetID: r.pet.InstanceID, PetName: r.pet.Name})
	}
}

// period applies one 24h (or trailing partial) period. Rates are prorated
// by frac; sickness rolls and neglect days need a full period.
func (r *replay) period(start, end int64) {
	frac := float64(end-start) / float64(dayMs)
	full := end-start == dayMs
	classic := r.in.Mode == bible.ModeClassic

	starving := r.pet.Hunger <= bible.StatMin
	dirty := r.pet.PoopCount > 0

	// 1. weight drifts back toward 0
	r.pet.Weight = pet.ClampStat(r.pet.Weight - bible.OfflineWeightDecayPerDay*frac)

	// 2. sickness triggers
	if classic && full && !r.pet.IsSick {
		chance := 0.0
		if starving {
			chance += bible.OfflineStarvingSickChance
		}
		if r.pet.Weight >= bible.ObeseThreshold {
			chance += bible.OfflineObeseSickChance
		}
		if dirty {
			chance += bible.OfflineDirtySickChance
		}
		if chance > 0 && r.rng.Float64() < chance {
			r.pet = pet.SetSick(r.pet, start)
			r.becameSick = true
			r.events = append(r.events, notify.PetSick{PetID: r.pet.InstanceID, PetName: r.pet.Name})
		}
	}

	// 3. sick time in this period scales every decay below
	sickMult := 1.0
	if classic && r.pet.IsSick {
		sickMult = 1 + (bible.SickDecayMultiplier-1)*r.sickShare(start, end)
	}

	// 4. mood, doubled again when the pet has been dirty long enough
	moodMult := sickMult
	if r.pet.DirtySince != nil && end-*r.pet.DirtySince >= bible.DirtyMoodThreshold.Milliseconds() {
		moodMult *= bible.DirtyMoodDecayMultiplier
	}
	moodLoss := bible.OfflineMoodDecayPerDay * frac * pet.MoodDecayFactor(r.sp) * moodMult
	floor := math.Min(r.pet.MoodValue, bible.OfflineMoodFloor)
	r.pet.MoodValue = math.Max(r.pet.MoodValue-moodLoss, floor)

	// 5. bond
	bondRate := float64(bible.OfflineBondDecayPerDay)
	if classic {
		bondRate += bible.OfflineBondPlusDecayDay
	}
	r.pet.Bond = math.Max(0, r.pet.Bond-bondRate*frac*sickMult)

	// 6. hunger
	hungerLoss := bible.OfflineHungerDecayPerDay * frac * pet.HungerDecayFactor(r.sp) * sickMult
	r.pet.Hunger = pet.ClampStat(r.pet.Hunger - hungerLoss)

	// 7. care mistakes
	if r.mistakes < bible.OfflineCareMistakeCap {
		if r.pet.Hunger <= bible.StatMin || (classic && r.pet.IsSick) {
			r.mistakes++
			r.pet.CareMistakes++
		}
	}

	// 8. poop spawns on every PoopSpawnHours boundary crossed since LastSeen
	spawnMs := int64(bible.PoopSpawnHours) * hourMs
	due := int((end-r.in.LastSeen)/spawnMs - (start-r.in.LastSeen)/spawnMs)
	if due > 0 {
		firstSpawn := r.in.LastSeen + ((start-r.in.LastSeen)/spawnMs+1)*spawnMs
		before := r.pet.PoopCount
		r.pet = pet.AddPoop(r.pet, due, firstSpawn)
		r.poops += r.pet.PoopCount - before
	}

	// 9. neglect
	if full {
		from := r.neglect.CurrentStage
		var tr neglect.Transition
		r.neglect, tr = neglect.Advance(r.neglect, 1, neglect.AdvanceInput{
			Now:             end,
			Mode:            r.in.Mode,
			FtueCompletedAt: r.in.FtueCompletedAt,
		})
		r.neglectAdded += tr.DaysAdded
		if tr.BondPenaltyFraction > 0 {
			r.pet = pet.ApplyBondPenalty(r.pet, tr.BondPenaltyFraction)
		}
		if tr.Changed() {
			r.events = append(r.events, notify.NeglectStageChanged{PetID: r.pet.InstanceID, PetName: r.pet.Name, Stage: string(tr.To)})
			if tr.To == neglect.StageRunaway && from != neglect.StageRunaway {
				r.events = append(r.events, notify.PetRanAway{PetID: r.pet.InstanceID, PetName: r.pet.Name})
			}
		}
	}
}

// sickShare is the fraction of [start, end) the pet spent sick.
func (r *replay) sickShare(start, end int64) float64 {
	from := start
	if r.pet.SickStartTimestamp != nil && *r.pet.SickStartTimestamp > from {
		from = *r.pet.SickStartTimestamp
	}
	if from >= end {
		return 0
	}
	return float64(end-from) / float64(end-start)
}

func (r *replay) change(before pet.Pet, beforeNeglect neglect.State) PetChange {
	return PetChange{
		PetID:             r.pet.InstanceID,
		PetName:           r.pet.Name,
		MoodChange:        r.pet.MoodValue - before.MoodValue,
		BondChange:        r.pet.Bond - before.Bond,
		HungerChange:      r.pet.Hunger - before.Hunger,
		WeightChange:      r.pet.Weight - before.Weight,
		BecameSick:        r.becameSick,
		CareMistakesAdded: r.mistakes,
		PoopsAdded:        r.poops,
		NeglectDaysAdded:  r.neglectAdded,
		NewStage:          stageOr(r.neglect.CurrentStage, beforeNeglect.CurrentStage),
	}
}

func stageOr(s, fallback neglect.Stage) neglect.Stage {
	if s == "" {
		return fallback
	}
	return s
}
