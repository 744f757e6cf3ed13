package notify

import (
	"grundy/internal/bible"
	"grundy/internal/pet"
)

// AlertSuppression limits health nags: one per pet per HealthAlertCooldown
// and HealthAlertSessionCap per session. It is independent of neglect.
type AlertSuppression struct {
	LastAlertByPet map[string]int64 `json:"lastAlertByPet"`
	SessionAlerts  int              `json:"-"`
}

// Clone returns an independent copy.
func (s AlertSuppression) Clone() AlertSuppression {
	out := AlertSuppression{SessionAlerts: s.SessionAlerts, LastAlertByPet: make(map[string]int64, len(s.LastAlertByPet))}
	for k, v := range s.LastAlertByPet {
		out.LastAlertByPet[k] = v
	}
	return out
}

// HealthReason returns the most urgent health problem of p, or "" when the
// pet is fine.
func HealthReason(p pet.Pet, stage string) string {
	switch {
	case p.IsSick:
		return "sick"
	case pet.GetFullnessState(p.Hunger) == bible.FullnessHungry && p.Hunger <= bible.StatMin:
		return "hungry"
	case stage == "withdrawn" || stage == "critical":
		return "neglected"
	case pet.GetMoodTier(p.MoodValue) == bible.MoodSad:
		return "sad"
	default:
		return ""
	}
}

// EvaluateHealthAlert returns an alert for p when it has a health problem
// and neither the per-pet cooldown nor the session cap holds it back.
func EvaluateHealthAlert(p pet.Pet, stage string, s AlertSuppression, now int64) (AlertSuppression, *HealthAlert) {
	reason := HealthReason(p, stage)
	if reason == "" {
		return s, nil
	}
	if s.SessionAlerts >= bible.HealthAlertSessionCap {
		return s, nil
	}
	if last, ok := s.LastAlertByPet[p.InstanceID]; ok && now-last < bible.HealthAlertCooldown.Milliseconds() {
		return s, nil
	}

	s = s.Clone()
	s.LastAlertByPet[p.InstanceID] = now
	s.SessionAlerts++
	return s, &HealthAlert{PetID: p.InstanceID, PetName: p.Name, Reason: reason}
}
