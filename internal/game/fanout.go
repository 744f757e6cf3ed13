package game

import (
	"log/slog"

	"grundy/internal/bible"
	"grundy/internal/economy"
	"grundy/internal/neglect"
	"grundy/internal/notify"
	"grundy/internal/offline"
	"grundy/internal/pet"
	"grundy/internal/roster"
)

// OfflineResult reports ApplyOfflineFanout. Summary is nil when there was
// nothing to reconcile.
type OfflineResult struct {
	Summary       *offline.Summary        `json:"summary,omitempty"`
	AutoSwitch    roster.AutoSwitchResult `json:"autoSwitch"`
	Notifications []notify.Notification   `json:"notifications,omitempty"`
	Recovery      []roster.RecoveryOption `json:"recovery,omitempty"`
}

// ApplyOfflineFanout replays the time since LastSeen for every owned pet,
// moves the active selection off runaway pets, batches the offline events
// into the inbox and raises health alerts. Gaps under an hour leave
// LastSeen where it was so they keep accumulating.
func (s State) ApplyOfflineFanout(env Env) (State, OfflineResult) {
	var res OfflineResult
	out := s.Clone()
	out.Energy = economy.RegenEnergy(out.Energy, env.Now)

	if out.FtueCompletedAt == nil {
		out.LastSeen = env.Now
		return out, res
	}

	inputs := make([]offline.PetInput, 0, len(out.Roster.OwnedPetIDs))
	for _, id := range out.Roster.OwnedPetIDs {
		p, ok := out.Pets[id]
		if !ok {
			continue
		}
		inputs = append(inputs, offline.PetInput{Pet: p, Neglect: out.NeglectOf(id)})
	}

	summary, results := offline.Reconcile(offline.Input{
		LastSeen:        out.LastSeen,
		Now:             env.Now,
		Mode:            out.PlayMode,
		FtueCompletedAt: out.FtueCompletedAt,
		Pets:            inputs,
		Catalog:         env.catalog(),
	}, env.rng())
	if summary == nil {
		return out, res
	}

	for _, r := range results {
		out.Pets[r.Pet.InstanceID] = r.Pet
		out.Neglect[r.Pet.InstanceID] = r.Neglect
	}
	out.LastSeen = env.Now
	res.Summary = summary

	out.Roster, res.AutoSwitch = roster.AutoSwitchOnRunaway(out.Roster, out.StageOf)
	if res.AutoSwitch.AllPetsAway {
		res.Recovery = roster.RecoveryOptions(out.Roster.OwnedPetIDs, out.NeglectOf)
	}

	for _, n := range notify.Batch(summary.Events, summary.HoursOffline, env.Now, env.newID) {
		var shown bool
		out.Inbox, out.Session, shown = notify.Deliver(out.Inbox, out.Session, n)
		if shown {
			res.Notifications = append(res.Notifications, n)
		}
	}
	res.Notifications = append(res.Notifications, out.healthAlerts(env)...)

	slog.Info("offline fanout applied", "hours", summary.HoursOffline, "events", len(summary.Events), "allPetsAway", res.AutoSwitch.AllPetsAway)
	return out, res
}

// healthAlerts raises one alert per pet that needs attention, within the
// per-pet cooldown and the session cap.
func (s *State) healthAlerts(env Env) []notify.Notification {
	var events []notify.Event
	for _, id := range s.Roster.OwnedPetIDs {
		ng := s.NeglectOf(id)
		if neglect.IsInteractionLocked(ng) {
			continue
		}
		var alert *notify.HealthAlert
		s.AlertSuppression, alert = notify.EvaluateHealthAlert(s.Pets[id], string(ng.CurrentStage), s.AlertSuppression, env.Now)
		if alert != nil {
			events = append(events, *alert)
		}
	}
	return s.raise(env, events...)
}

// TickResult reports Tick.
type TickResult struct {
	ElapsedMinutes float64               `json:"elapsedMinutes"`
	Offline        *OfflineResult        `json:"offline,omitempty"`
	Notifications  []notify.Notification `json:"notifications,omitempty"`
}

// Tick advances the game while the player is present. Mood decays by the
// elapsed minutes and energy regenerates. A gap of an hour or more after
// the tutorial is treated as time away and handed to ApplyOfflineFanout.
func (s State) Tick(env Env) (State, TickResult) {
	var res TickResult
	gap := env.Now - s.LastSeen
	if gap <= 0 {
		return s, res
	}
	if s.FtueCompletedAt != nil && float64(gap) >= bible.OfflineSummaryMinHours*float64(hourMs) {
		out, off := s.ApplyOfflineFanout(env)
		res.Offline = &off
		return out, res
	}

	out := s.Clone()
	res.ElapsedMinutes = float64(gap) / float64(minuteMs)
	for _, id := range out.Roster.OwnedPetIDs {
		p, ok := out.Pets[id]
		if !ok || neglect.IsInteractionLocked(out.NeglectOf(id)) {
			continue
		}
		p.MoodValue = pet.DecayMood(p.MoodValue, res.ElapsedMinutes, out.species(env, p))
		out.Pets[id] = p
	}
	res.Notifications = out.raise(env, out.addEnergy(env, 0)...)
	out.LastSeen = env.Now
	return out, res
}

const (
	minuteMs = int64(60 * 1000)
	hourMs   = 60 * minuteMs
)
