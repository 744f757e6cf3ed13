package economy

import (
	"log/slog"
	"time"

	"grundy/internal/bible"
	"grundy/internal/clock"
)

// LevelUpGems pays a fixed amount for every level gained.
func LevelUpGems(levelsGained int) int {
	if levelsGained <= 0 {
		return 0
	}
	return bible.LevelUpGemsPerLevel * levelsGained
}

// AwardFirstFeedOfDay pays the daily feeding bonus once per calendar date.
// It returns the date key to store and the gems earned; calling it again
// with the returned key on the same date pays nothing.
func AwardFirstFeedOfDay(lastKey string, now int64, loc *time.Location) (string, int) {
	key := clock.DateKey(now, loc)
	if key == lastKey {
		return lastKey, 0
	}
	return key, bible.FirstFeedDailyGems
}

// LoginStreak tracks consecutive login days.
type LoginStreak struct {
	Day              int    `json:"day"`
	LastLoginDateKey string `json:"lastLoginDateKey"`
}

// StreakResult reports ProcessLoginStreak.
type StreakResult struct {
	Advanced    bool `json:"advanced"`
	Reset       bool `json:"reset"`
	DayReached  int  `json:"dayReached"`
	GemsAwarded int  `json:"gemsAwarded"`
}

// ProcessLoginStreak records today's login. The first login on a new date
// advances the streak; a gap of two or more days starts over at day 1.
// Reaching the last day of the cycle pays the streak bonus and puts the
// counter back at day 1. Reopening on the same date does nothing.
func ProcessLoginStreak(s LoginStreak, now int64, loc *time.Location) (LoginStreak, StreakResult) {
	key := clock.DateKey(now, loc)
	if key == s.LastLoginDateKey {
		return s, StreakResult{DayReached: s.Day}
	}

	res := StreakResult{Advanced: true}
	gap, ok := clock.DaysBetweenKeys(s.LastLoginDateKey, key)
	switch {
	case s.LastLoginDateKey == "" || !ok:
		s.Day = 1
	case gap == 1:
		s.Day++
	default:
		s.Day = 1
		res.Reset = true
	}
	s.LastLoginDateKey = key
	res.DayReached = s.Day

	if s.Day >= bible.LoginStreakCycle {
		res.GemsAwarded = bible.LoginStreakGems
		s.Day = 1
		slog.Info("login streak completed", "gems", res.GemsAwarded)
	}
	return s, res
}
