package economy

import (
	"log/slog"
	"math"
	"time"

	"grundy/internal/bible"
	"grundy/internal/clock"
)

// Tier is a mini-game result band.
type Tier string

const (
	TierBronze  Tier = "bronze"
	TierSilver  Tier = "silver"
	TierGold    Tier = "gold"
	TierRainbow Tier = "rainbow"
)

// TierReward is one row of the reward table. Mini-games never pay gems.
type TierReward struct {
	Tier     Tier
	MinScore int
	CoinsMin int
	CoinsMax int
	XP       int
}

// TierRewards is ordered by increasing MinScore.
var TierRewards = []TierReward{
	{Tier: TierBronze, MinScore: 0, CoinsMin: 2, CoinsMax: 4, XP: 3},
	{Tier: TierSilver, MinScore: 50, CoinsMin: 5, CoinsMax: 8, XP: 5},
	{Tier: TierGold, MinScore: 100, CoinsMin: 10, CoinsMax: 15, XP: 8},
	{Tier: TierRainbow, MinScore: 150, CoinsMin: 18, CoinsMax: 25, XP: 12},
}

// MiniGameTier maps a score to its tier.
func MiniGameTier(score int) Tier {
	tier := TierBronze
	for _, row := range TierRewards {
		if score >= row.MinScore {
			tier = row.Tier
		}
	}
	return tier
}

func tierRow(t Tier) TierReward {
	for _, row := range TierRewards {
		if row.Tier == t {
			return row
		}
	}
	return TierRewards[0]
}

// Reward is what a finished mini-game pays out.
type Reward struct {
	Tier  Tier `json:"tier"`
	Coins int  `json:"coins"`
	XP    int  `json:"xp"`
	Gems  int  `json:"gems"`
}

// MiniGameReward rolls the coin amount for tier within its inclusive range
// and scales it by the species coin multiplier. Gems are always 0.
func MiniGameReward(tier Tier, rng clock.RNG, coinMult float64) Reward {
	row := tierRow(tier)
	span := row.CoinsMax - row.CoinsMin + 1
	coins := row.CoinsMin + min(int(rng.Float64()*float64(span)), span-1)
	if coinMult > 0 {
		coins = int(math.Round(float64(coins) * coinMult))
	}
	return Reward{Tier: row.Tier, Coins: coins, XP: row.XP}
}

// DailyMiniGames is the global per-day play counter.
type DailyMiniGames struct {
	DateKey      string `json:"dateKey"`
	Plays        int    `json:"plays"`
	FreePlayUsed bool   `json:"freePlayUsed"`
}

// ForDay resets the counter when the date key changed.
func (d DailyMiniGames) ForDay(key string) DailyMiniGames {
	if d.DateKey != key {
		return DailyMiniGames{DateKey: key}
	}
	return d
}

// Energy is the shared pool spent on mini-games.
type Energy struct {
	Current     int   `json:"current"`
	LastRegenAt int64 `json:"lastRegenAt"`
}

// FullEnergy is the pool for a new save.
func FullEnergy(now int64) Energy {
	return Energy{Current: bible.EnergyMax, LastRegenAt: now}
}

// RegenEnergy adds one point per elapsed regen interval, up to EnergyMax.
// Leftover time toward the next point is kept.
func RegenEnergy(e Energy, now int64) Energy {
	if e.Current >= bible.EnergyMax {
		e.Current = bible.EnergyMax
		e.LastRegenAt = max(e.LastRegenAt, now)
		return e
	}
	interval := bible.EnergyRegenInterval.Milliseconds()
	ticks := (now - e.LastRegenAt) / interval
	if ticks <= 0 {
		return e
	}
	e.Current = min(bible.EnergyMax, e.Current+int(ticks)*bible.EnergyRegenAmount)
	if e.Current == bible.EnergyMax {
		e.LastRegenAt = now
	} else {
		e.LastRegenAt += ticks * interval
	}
	return e
}

// AddEnergy restores energy from food, capped at EnergyMax.
func AddEnergy(e Energy, amount int) Energy {
	if amount > 0 {
		e.Current = min(bible.EnergyMax, e.Current+amount)
	}
	return e
}

// TimeToFull reports how long until the pool is full.
func TimeToFull(e Energy, now int64) time.Duration {
	e = RegenEnergy(e, now)
	missing := bible.EnergyMax - e.Current
	if missing <= 0 {
		return 0
	}
	elapsed := time.Duration(now-e.LastRegenAt) * time.Millisecond
	return time.Duration(missing)*bible.EnergyRegenInterval - elapsed
}

// StartResult reports StartMiniGame.
type StartResult struct {
	bible.Failure
	Success     bool `json:"success"`
	Free        bool `json:"free"`
	EnergySpent int  `json:"energySpent"`
	PlaysLeft   int  `json:"playsLeft"`
}

// StartInput is the context for StartMiniGame.
type StartInput struct {
	Now           int64
	Location      *time.Location
	CostReduction int
}

// StartMiniGame spends a daily play. The first play each day is free; later
// plays cost energy. Counters are global across pets.
func StartMiniGame(daily DailyMiniGames, energy Energy, in StartInput) (DailyMiniGames, Energy, StartResult) {
	daily = daily.ForDay(clock.DateKey(in.Now, in.Location))
	energy = RegenEnergy(energy, in.Now)

	if daily.Plays >= bible.MiniGameDailyCap {
		return daily, energy, StartResult{Failure: bible.Fail(bible.CodeDailyCapReached, "no plays left today")}
	}

	res := StartResult{Success: true}
	if !daily.FreePlayUsed {
		daily.FreePlayUsed = true
		res.Free = true
	} else {
		cost := max(0, bible.EnergyCostPerPlay-in.CostReduction)
		if energy.Current < cost {
			return daily, energy, StartResult{Failure: bible.Fail(bible.CodeInsufficientEnergy, "not enough energy")}
		}
		energy.Current -= cost
		res.EnergySpent = cost
	}
	daily.Plays++
	res.PlaysLeft = bible.MiniGameDailyCap - daily.Plays
	slog.Debug("mini-game started", "plays", daily.Plays, "free", res.Free, "energy", energy.Current)
	return daily, energy, res
}
