package notify

// Event is a game occurrence that may become a notification. The set of
// implementations is closed; Map switches over all of them.
type Event interface {
	Kind() Type
	event()
}

// Type names a notification kind.
type Type string

const (
	TypePetHungry           Type = "pet_hungry"
	TypePetSick             Type = "pet_sick"
	TypeNeglectStageChanged Type = "neglect_stage_changed"
	TypePetRanAway          Type = "pet_ran_away"
	TypePetReturned         Type = "pet_returned"
	TypeLevelUp             Type = "level_up"
	TypeSlotUnlocked        Type = "slot_unlocked"
	TypeLoginStreakReward   Type = "login_streak_reward"
	TypeDailyFeedBonus      Type = "daily_feed_bonus"
	TypeMiniGameReward      Type = "minigame_reward"
	TypeEnergyFull          Type = "energy_full"
	TypeCosmeticPurchased   Type = "cosmetic_purchased"
	TypeOfflineSummary      Type = "offline_summary"
	TypeHealthAlert         Type = "health_alert"
)

type PetHungry struct {
	PetID   string
	PetName string
}

type PetSick struct {
	PetID   string
	PetName string
}

type NeglectStageChanged struct {
	PetID   string
	PetName string
	Stage   string
}

type PetRanAway struct {
	PetID   string
	PetName string
}

type PetReturned struct {
	PetID   string
	PetName string
	Paid    bool
}

type LevelUp struct {
	PetID   string
	PetName string
	Level   int
	Gems    int
}

type SlotUnlocked struct {
	Slot int
}

type LoginStreakReward struct {
	Day  int
	Gems int
}

type DailyFeedBonus struct {
	PetID string
	Gems  int
}

type MiniGameReward struct {
	PetID string
	Tier  string
	Coins int
	XP    int
}

type EnergyFull struct{}

type CosmeticPurchased struct {
	PetID      string
	CosmeticID string
	Name       string
}

// OfflineSummary is synthesized by Batch, never emitted by engines.
type OfflineSummary struct {
	Hours  float64
	Events int
}

// HealthAlert is raised by EvaluateHealthAlert.
type HealthAlert struct {
	PetID   string
	PetName string
	Reason  string
}

func (PetHungry) Kind() Type           { return TypePetHungry }
func (PetSick) Kind() Type             { return TypePetSick }
func (NeglectStageChanged) Kind() Type { return TypeNeglectStageChanged }
func (PetRanAway) Kind() Type          { return TypePetRanAway }
func (PetReturned) Kind() Type         { return TypePetReturned }
func (LevelUp) Kind() Type             { return TypeLevelUp }
func (SlotUnlocked) Kind() Type        { return TypeSlotUnlocked }
func (LoginStreakReward) Kind() Type   { return TypeLoginStreakReward }
func (DailyFeedBonus) Kind() Type      { return TypeDailyFeedBonus }
func (MiniGameReward) Kind() Type      { return TypeMiniGameReward }
func (EnergyFull) Kind() Type          { return TypeEnergyFull }
func (CosmeticPurchased) Kind() Type   { return TypeCosmeticPurchased }
func (OfflineSummary) Kind() Type      { return TypeOfflineSummary }
func (HealthAlert) Kind() Type         { return TypeHealthAlert }

func (PetHungry) event()           {}
func (PetSick) event()             {}
func (NeglectStageChanged) event() {}
func (PetRanAway) event()          {}
func (PetReturned) event()         {}
func (LevelUp) event()             {}
func (SlotUnlocked) event()        {}
func (LoginStreakReward) event()   {}
func (DailyFeedBonus) event()      {}
func (MiniGameReward) event()      {}
func (EnergyFull) event()          {}
func (CosmeticPurchased) event()   {}
func (OfflineSummary) event()      {}
func (HealthAlert) event()         {}
