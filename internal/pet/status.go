package pet

import "grundy/internal/bible"

// BadgeKind identifies a status badge shown on a pet card.
type BadgeKind string

const (
	BadgeLocked     BadgeKind = "locked"
	BadgeSick       BadgeKind = "sick"
	BadgeHungry     BadgeKind = "hungry"
	BadgeDirty      BadgeKind = "dirty"
	BadgeOverweight BadgeKind = "overweight"
	BadgeSad        BadgeKind = "sad"
	BadgeNeglect    BadgeKind = "neglect"
)

// Badge is one status indicator.
type Badge struct {
	Kind  BadgeKind `json:"kind"`
	Label string    `json:"label"`
}

// StatusBadges returns the badges for p, most urgent first. stage is the
// pet's neglect stage name ("normal" when not neglected); locked marks a
// runaway pet that stays in its slot but cannot be interacted with.
func StatusBadges(p Pet, stage string, locked bool) []Badge {
	if locked {
		return []Badge{{Kind: BadgeLocked, Label: "🔒 Away"}}
	}

	var badges []Badge
	if p.IsSick {
		badges = append(badges, Badge{Kind: BadgeSick, Label: "🤢 Sick"})
	}
	if GetFullnessState(p.Hunger) == bible.FullnessHungry {
		badges = append(badges, Badge{Kind: BadgeHungry, Label: "🍖 Hungry"})
	}
	if p.PoopCount > 0 {
		badges = append(badges, Badge{Kind: BadgeDirty, Label: "💩 Needs cleaning"})
	}
	if IsOverweight(p.Weight) {
		badges = append(badges, Badge{Kind: BadgeOverweight, Label: "⚖️ Overweight"})
	}
	if GetMoodTier(p.MoodValue) == bible.MoodSad {
		badges = append(badges, Badge{Kind: BadgeSad, Label: "😿 Sad"})
	}
	if stage != "" && stage != "normal" {
		badges = append(badges, Badge{Kind: BadgeNeglect, Label: neglectLabel(stage)})
	}
	return badges
}

func neglectLabel(stage string) string {
	switch stage {
	case "worried":
		return "😟 Worried"
	case "sad":
		return "😢 Missing you"
	case "withdrawn":
		return "🥀 Withdrawn"
	case "critical":
		return "⚠️ Critical"
	default:
		return stage
	}
}
