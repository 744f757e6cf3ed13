// Package neglect tracks how long each pet has gone without care and walks it
// through the normal -> runaway stage ladder. Every pet has its own State;
// nothing is shared between pets.
package neglect

import (
	"log/slog"
	"time"

	"grundy/internal/bible"
	"grundy/internal/clock"
)

// Stage is one rung of the neglect ladder.
type Stage string

const (
	StageNormal    Stage = "normal"
	StageWorried   Stage = "worried"
	StageSad       Stage = "sad"
	StageWithdrawn Stage = "withdrawn"
	StageCritical  Stage = "critical"
	StageRunaway   Stage = "runaway"
)

// StageInfo is one row of the stage table. EntryBondLoss is the fraction
// of bond lost once when a pet first reaches the stage.
type StageInfo struct {
	Stage         Stage
	MinDays       int
	BondGainMult  float64
	MoodGainMult  float64
	EntryBondLoss float64
}

// Stages is ordered by strictly increasing MinDays.
var Stages = []StageInfo{
	{Stage: StageNormal, MinDays: 0, BondGainMult: 1, MoodGainMult: 1},
	{Stage: StageWorried, MinDays: 2, BondGainMult: 1, MoodGainMult: 1},
	{Stage: StageSad, MinDays: 4, BondGainMult: 1, MoodGainMult: 1},
	{Stage: StageWithdrawn, MinDays: 7, BondGainMult: 0.5, MoodGainMult: 0.75, EntryBondLoss: bible.WithdrawnEntryBondLoss},
	{Stage: StageCritical, MinDays: 10, BondGainMult: 0.5, MoodGainMult: 0.75, EntryBondLoss: bible.CriticalEntryBondLoss},
	{Stage: StageRunaway, MinDays: 14, BondGainMult: 0, MoodGainMult: 0},
}

// GetNeglectStage returns the row with the highest threshold <= days.
func GetNeglectStage(days int) StageInfo {
	info := Stages[0]
	for _, row := range Stages {
		if days >= row.MinDays {
			info = row
		}
	}
	return info
}

// Info returns the table row for stage.
func Info(stage Stage) StageInfo {
	for _, row := range Stages {
		if row.Stage == stage {
			return row
		}
	}
	return Stages[0]
}

// Rank is the position of stage on the ladder.
func (s Stage) Rank() int {
	for i, row := range Stages {
		if row.Stage == s {
			return i
		}
	}
	return 0
}

// IsWithdrawnBand reports withdrawn or critical.
func (s Stage) IsWithdrawnBand() bool {
	return s == StageWithdrawn || s == StageCritical
}

// State is the per-pet neglect record.
type State struct {
	NeglectDays           int    `json:"neglectDays"`
	CurrentStage          Stage  `json:"currentStage"`
	IsWithdrawn           bool   `json:"isWithdrawn"`
	IsRunaway             bool   `json:"isRunaway"`
	IsInGracePeriod       bool   `json:"isInGracePeriod"`
	WithdrawnAt           *int64 `json:"withdrawnAt"`
	RunawayAt             *int64 `json:"runawayAt"`
	CanReturnFreeAt       *int64 `json:"canReturnFreeAt"`
	CanReturnPaidAt       *int64 `json:"canReturnPaidAt"`
	RecoveryDaysCompleted int    `json:"recoveryDaysCompleted"`
	RecoveryLastDateKey   string `json:"recoveryLastDateKey,omitempty"`
}

// Default is the state of a freshly adopted pet and the backfill for saves
// that predate neglect tracking.
func Default() State {
	return State{CurrentStage: StageNormal}
}

// Clone returns a copy that shares no pointers with s.
func (s State) Clone() State {
	out := s
	out.WithdrawnAt = copyPtr(s.WithdrawnAt)
	out.RunawayAt = copyPtr(s.RunawayAt)
	out.CanReturnFreeAt = copyPtr(s.CanReturnFreeAt)
	out.CanReturnPaidAt = copyPtr(s.CanReturnPaidAt)
	return out
}

// Multipliers returns the ongoing bond and mood gain multipliers for s.
func (s State) Multipliers() (bond, mood float64) {
	info := Info(s.CurrentStage)
	return info.BondGainMult, info.MoodGainMult
}

// IsInteractionLocked reports whether the pet is away and cannot be cared for.
func IsInteractionLocked(s State) bool {
	return s.IsRunaway
}

// GracePeriodEndsAt returns when neglect may start advancing, or false when
// FTUE has not been completed.
func GracePeriodEndsAt(ftueCompletedAt *int64) (int64, bool) {
	if ftueCompletedAt == nil {
		return 0, false
	}
	return *ftueCompletedAt + bible.NeglectGracePeriod.Milliseconds(), true
}

// AdvanceInput carries the gating context for Advance.
type AdvanceInput struct {
	Now             int64
	Mode            bible.PlayMode
	FtueCompletedAt *int64
}

// Transition reports what Advance did.
type Transition struct {
	From                Stage   `json:"from"`
	To                  Stage   `json:"to"`
	DaysAdded           int     `json:"daysAdded"`
	BondPenaltyFraction float64 `json:"bondPenaltyFraction"`
	Gated               bool    `json:"gated"`
}

// Changed reports a stage change.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Advance adds days of neglect. Nothing happens in Cozy mode, before FTUE is
// complete, or inside the post-FTUE grace period. Entering withdrawn or
// critical reports a one-time bond penalty for the caller to apply; a jump
// over both compounds the two.
func Advance(s State, days int, in AdvanceInput) (State, Transition) {
	t := Transition{From: s.CurrentStage, To: s.CurrentStage}
	if days <= 0 || s.IsRunaway {
		return s, t
	}
	if in.Mode != bible.ModeClassic {
		t.Gated = true
		return s, t
	}
	graceEnd, ok := GracePeriodEndsAt(in.FtueCompletedAt)
	if !ok {
		t.Gated = true
		return s, t
	}
	if in.Now < graceEnd {
		s.IsInGracePeriod = true
		t.Gated = true
		return s, t
	}
	s.IsInGracePeriod = false

	before := s.NeglectDays
	s.NeglectDays = min(s.NeglectDays+days, bible.NeglectMaxDays)
	t.DaysAdded = s.NeglectDays - before

	next := GetNeglectStage(s.NeglectDays).Stage
	if next == s.CurrentStage {
		return s, t
	}
	from := s.CurrentStage
	s.CurrentStage = next
	t.To = next

	now := in.Now
	t.BondPenaltyFraction = entryBondLoss(from, next)
	if !from.IsWithdrawnBand() && next.Rank() >= StageWithdrawn.Rank() {
		s.WithdrawnAt = &now
		s.RecoveryDaysCompleted = 0
		s.RecoveryLastDateKey = ""
	}
	s.IsWithdrawn = next.IsWithdrawnBand()

	if next == StageRunaway {
		free := now + bible.RunawayFreeReturnAfter.Milliseconds()
		paid := now + bible.RunawayPaidReturnAfter.Milliseconds()
		s.IsRunaway = true
		s.IsWithdrawn = false
		s.RunawayAt = &now
		s.CanReturnFreeAt = &free
		s.CanReturnPaidAt = &paid
	}

	slog.Info("neglect stage changed", "from", from, "to", next, "days", s.NeglectDays)
	return s, t
}

// entryBondLoss compounds the entry penalties of every stage above from up
// to and including to.
func entryBondLoss(from, to Stage) float64 {
	keep := 1.0
	for _, row := range Stages[from.Rank()+1 : to.Rank()+1] {
		keep *= 1 - row.EntryBondLoss
	}
	return 1 - keep
}

// CareResult reports the effect of a care event.
type CareResult struct {
	Reset                 bool `json:"reset"`
	Recovered             bool `json:"recovered"`
	Locked                bool `json:"locked"`
	RecoveryDaysCompleted int  `json:"recoveryDaysCompleted"`
}

// RecordCareEvent applies a feed or play to the neglect record. Pets below
// the withdrawn band reset to normal. Withdrawn and critical pets keep their
// stage, have their neglect days pulled back to the stage threshold, and
// count distinct consecutive care-days until WithdrawnRecoveryDays of them
// bring the pet back to normal. Runaway pets cannot receive care.
func RecordCareEvent(s State, now int64, loc *time.Location) (State, CareResult) {
	if s.IsRunaway {
		return s, CareResult{Locked: true}
	}
	if !s.CurrentStage.IsWithdrawnBand() {
		grace := s.IsInGracePeriod
		s = Default()
		s.IsInGracePeriod = grace
		return s, CareResult{Reset: true}
	}

	key := clock.DateKey(now, loc)
	switch {
	case s.RecoveryLastDateKey == key:
		// already counted today
	case s.RecoveryLastDateKey == "":
		s.RecoveryDaysCompleted = 1
	default:
		if gap, ok := clock.DaysBetweenKeys(s.RecoveryLastDateKey, key); ok && gap == 1 {
			s.RecoveryDaysCompleted++
		} else {
			s.RecoveryDaysCompleted = 1
		}
	}
	s.RecoveryLastDateKey = key
	s.NeglectDays = Info(s.CurrentStage).MinDays

	if s.RecoveryDaysCompleted >= bible.WithdrawnRecoveryDays {
		slog.Info("pet recovered through care", "days", s.RecoveryDaysCompleted)
		return Default(), CareResult{Reset: true, Recovered: true, RecoveryDaysCompleted: bible.WithdrawnRecoveryDays}
	}
	return s, CareResult{RecoveryDaysCompleted: s.RecoveryDaysCompleted}
}

// RecoveryResult reports a paid or timed recovery.
type RecoveryResult struct {
	bible.Failure
	Success             bool    `json:"success"`
	Free                bool    `json:"free"`
	GemsSpent           int     `json:"gemsSpent"`
	BondPenaltyFraction float64 `json:"bondPenaltyFraction"`
}

// RecoverWithGems instantly returns a withdrawn or critical pet to normal.
func RecoverWithGems(s State, gems int) (State, int, RecoveryResult) {
	if !s.CurrentStage.IsWithdrawnBand() {
		return s, gems, RecoveryResult{Failure: bible.Fail(bible.CodeNotWithdrawn, "pet is not withdrawn")}
	}
	if gems < bible.WithdrawnRecoveryGems {
		return s, gems, RecoveryResult{Failure: bible.Fail(bible.CodeInsufficientGems, "not enough gems to help your pet recover")}
	}
	slog.Info("withdrawn pet recovered with gems", "gems", bible.WithdrawnRecoveryGems)
	return Default(), gems - bible.WithdrawnRecoveryGems, RecoveryResult{Success: true, GemsSpent: bible.WithdrawnRecoveryGems}
}

// CallBack brings a runaway pet home. The return is free once
// CanReturnFreeAt has passed; before that it costs gems once CanReturnPaidAt
// has passed. Either way the caller applies the reported bond penalty.
func CallBack(s State, now int64, gems int) (State, int, RecoveryResult) {
	if !s.IsRunaway {
		return s, gems, RecoveryResult{Failure: bible.Fail(bible.CodeNotRunaway, "pet has not run away")}
	}
	if s.CanReturnFreeAt != nil && now >= *s.CanReturnFreeAt {
		slog.Info("runaway pet returned for free")
		return Default(), gems, RecoveryResult{Success: true, Free: true, BondPenaltyFraction: bible.RunawayReturnBondLoss}
	}
	if s.CanReturnPaidAt == nil || now < *s.CanReturnPaidAt {
		return s, gems, RecoveryResult{Failure: bible.Fail(bible.CodeTooEarly, "your pet is not ready to come back yet")}
	}
	if gems < bible.RunawayPaidReturnGems {
		return s, gems, RecoveryResult{Failure: bible.Fail(bible.CodeInsufficientGems, "not enough gems to call your pet back")}
	}
	slog.Info("runaway pet returned for gems", "gems", bible.RunawayPaidReturnGems)
	return Default(), gems - bible.RunawayPaidReturnGems, RecoveryResult{
		Success:             true,
		GemsSpent:           bible.RunawayPaidReturnGems,
		BondPenaltyFraction: bible.RunawayReturnBondLoss,
	}
}

func copyPtr(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
