package pet

import (
	"fmt"
	"time"

	"grundy/internal/bible"
)

// GetFullnessState maps a hunger value to its band.
func GetFullnessState(hunger float64) bible.FullnessState {
	return fullnessBand(hunger).State
}

// FeedValue is the fullness-table multiplier for a hunger value.
func FeedValue(hunger float64) float64 {
	return fullnessBand(hunger).FeedValue
}

// IsStuffed reports whether feeding is blocked.
func IsStuffed(hunger float64) bool {
	return GetFullnessState(hunger) == bible.FullnessStuffed
}

func fullnessBand(hunger float64) bible.FullnessBand {
	h := int(ClampStat(hunger))
	for _, band := range bible.FullnessBands {
		if h >= band.Min && h <= band.Max {
			return band
		}
	}
	return bible.FullnessBands[len(bible.FullnessBands)-1]
}

// IsOnCooldown reports whether the last feed is still inside the cooldown window.
func IsOnCooldown(now int64, lastFeedAt *int64) bool {
	return GetCooldownRemaining(now, lastFeedAt) > 0
}

// GetCooldownRemaining returns the milliseconds left on the feeding cooldown.
func GetCooldownRemaining(now int64, lastFeedAt *int64) int64 {
	if lastFeedAt == nil {
		return 0
	}
	remaining := *lastFeedAt + bible.CooldownDuration.Milliseconds() - now
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatCooldownMs renders a countdown as m:ss, clamped to [0:00, 59:59].
func FormatCooldownMs(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	if limit := bible.CooldownDisplayMax.Milliseconds(); ms > limit {
		ms = limit
	}
	total := ms / int64(time.Second/time.Millisecond)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
