// Package bible holds the fixed rule tables every engine reads: thresholds,
// rates, prices, probabilities and the item catalog. It has no behavior
// beyond lookups.
package bible

import "time"

// Stat bounds
const (
	StatMin = 0
	StatMax = 100

	DefaultMood   = 70
	DefaultHunger = 50
	DefaultBond   = 0
	DefaultWeight = 0
	StartingLevel = 1
)

// PlayMode is the global difficulty toggle.
type PlayMode string

const (
	ModeCozy    PlayMode = "cozy"
	ModeClassic PlayMode = "classic"
)

// Valid reports whether m is a known play mode.
func (m PlayMode) Valid() bool {
	return m == ModeCozy || m == ModeClassic
}

// FullnessState is the band a hunger value falls into.
type FullnessState string

const (
	FullnessHungry    FullnessState = "HUNGRY"
	FullnessPeckish   FullnessState = "PECKISH"
	FullnessContent   FullnessState = "CONTENT"
	FullnessSatisfied FullnessState = "SATISFIED"
	FullnessStuffed   FullnessState = "STUFFED"
)

// FullnessBand maps an inclusive hunger range to a feed value.
type FullnessBand struct {
	State     FullnessState
	Min       int
	Max       int
	FeedValue float64
}

// FullnessBands is ordered HUNGRY..STUFFED; feed value never increases.
var FullnessBands = []FullnessBand{
	{State: FullnessHungry, Min: 0, Max: 20, FeedValue: 1.0},
	{State: FullnessPeckish, Min: 21, Max: 40, FeedValue: 0.8},
	{State: FullnessContent, Min: 41, Max: 70, FeedValue: 0.6},
	{State: FullnessSatisfied, Min: 71, Max: 90, FeedValue: 0.3},
	{State: FullnessStuffed, Min: 91, Max: 100, FeedValue: 0},
}

// Feeding cooldown
const (
	CooldownDuration     = 30 * time.Minute
	CooldownReducedValue = 0.25
	CooldownDisplayMax   = 59*time.Minute + 59*time.Second
)

// ReactionType is how a pet feels about a food.
type ReactionType string

const (
	ReactionEcstatic ReactionType = "ecstatic"
	ReactionPositive ReactionType = "positive"
	ReactionNeutral  ReactionType = "neutral"
	ReactionNegative ReactionType = "negative"
)

// ReactionMoodDelta is the mood change per reaction before modifiers.
var ReactionMoodDelta = map[ReactionType]int{
	ReactionEcstatic: 15,
	ReactionPositive: 8,
	ReactionNeutral:  3,
	ReactionNegative: -10,
}

// ReactionBondDelta is the bond change per reaction before modifiers.
var ReactionBondDelta = map[ReactionType]int{
	ReactionEcstatic: 3,
	ReactionPositive: 2,
	ReactionNeutral:  1,
	ReactionNegative: 0,
}

// MoodTier labels a mood value.
type MoodTier string

const (
	MoodHappy   MoodTier = "happy"
	MoodContent MoodTier = "content"
	MoodLow     MoodTier = "low"
	MoodSad     MoodTier = "sad"
)

// Mood thresholds and decay
const (
	MoodHappyMin   = 70
	MoodContentMin = 40
	MoodLowMin     = 20

	MoodDecayPerMinute = 0.05
)

// WeightState labels a weight value.
type WeightState string

const (
	WeightNormal     WeightState = "normal"
	WeightChubby     WeightState = "chubby"
	WeightOverweight WeightState = "overweight"
	WeightObese      WeightState = "obese"
)

// Weight thresholds
const (
	ChubbyThreshold     = 31
	OverweightThreshold = 61
	ObeseThreshold      = 81
	DietFoodWeightLoss  = 10
)

// Sickness
const (
	HotPepperChance       = 0.05
	OverweightSnackChance = 0.05
	SickDecayMultiplier   = 2.0
	MedicineMoodBoost     = 5

	OfflineStarvingSickChance = 0.20
	OfflineObeseSickChance    = 0.15
	OfflineDirtySickChance    = 0.10
)

// Special item ids
const (
	HotPepperID = "hot_pepper"
	MedicineID  = "medicine"
	DietFoodID  = "diet_salad"
)

// Offline reconciliation
const (
	OfflineMaxHours           = 14 * 24
	OfflineSummaryMinHours    = 1.0
	OfflineWeightDecayPerDay  = 10
	OfflineMoodDecayPerDay    = 10
	OfflineMoodFloor          = 30
	OfflineBondDecayPerDay    = 2
	OfflineBondPlusDecayDay   = 1
	OfflineHungerDecayPerDay  = 48
	OfflineCareMistakeCap     = 4
	PoopSpawnHours            = 8
	MaxPoops                  = 3
	DirtyMoodThreshold        = 2 * time.Hour
	DirtyMoodDecayMultiplier  = 2.0
	OfflineNotifyBatchMinHour = 1.0
)

// Neglect
const (
	NeglectMaxDays         = 14
	NeglectGracePeriod     = 48 * time.Hour
	WithdrawnEntryBondLoss = 0.25
	CriticalEntryBondLoss  = 0.25
	RunawayReturnBondLoss  = 0.50
	WithdrawnRecoveryDays  = 7
	WithdrawnRecoveryGems  = 15
	RunawayFreeReturnAfter = 72 * time.Hour
	RunawayPaidReturnAfter = 24 * time.Hour
	RunawayPaidReturnGems  = 25
)

// Progression and gems
const (
	XPPerLevel          = 100
	LevelUpGemsPerLevel = 5
	FirstFeedDailyGems  = 2
	LoginStreakCycle    = 7
	LoginStreakGems     = 10
	GemsTabLevel        = 5
)

// Mini-games and energy
const (
	MiniGameDailyCap    = 3
	EnergyMax           = 50
	EnergyCostPerPlay   = 10
	EnergyRegenInterval = 5 * time.Minute
	EnergyRegenAmount   = 1
	PlayMoodBoost       = 5
	PlayBondBoost       = 1
	FoodQuantityMin     = 1
	FoodQuantityMax     = 10
)

// Pet slots
const (
	MinSlots               = 1
	MaxSlots               = 4
	SlotTwoLevelGate       = 5
	SubscriberSlotDiscount = 0.20
)

// SlotPrices is the gem price of each purchasable slot.
var SlotPrices = map[int]int{
	2: 100,
	3: 150,
	4: 200,
}

// Notifications
const (
	MaxNotifications         = 50
	MaxNonCriticalPerSession = 5
	DedupeContextMax         = 50
	HealthAlertCooldown      = 30 * time.Minute
	HealthAlertSessionCap    = 3
)
