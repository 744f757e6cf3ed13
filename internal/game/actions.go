package game

import (
	"fmt"
	"log/slog"
	"math"

	"grundy/internal/bible"
	"grundy/internal/cosmetics"
	"grundy/internal/economy"
	"grundy/internal/neglect"
	"grundy/internal/notify"
	"grundy/internal/pet"
	"grundy/internal/roster"
)

// Every action is a method on a State value. It returns the next State and
// a result; on failure the returned State is the receiver, unchanged.

// raise delivers evs to the inbox and returns the ones that were shown.
func (s *State) raise(env Env, evs ...notify.Event) []notify.Notification {
	var shown []notify.Notification
	for _, ev := range evs {
		if n := s.emit(env, ev); n != nil {
			shown = append(shown, *n)
		}
	}
	return shown
}

// careFor records a feed or play on petID's neglect record and reports any
// stage change as an event.
func (s *State) careFor(env Env, p pet.Pet) (neglect.CareResult, []notify.Event) {
	before := s.NeglectOf(p.InstanceID)
	after, care := neglect.RecordCareEvent(before, env.Now, env.Location)
	s.Neglect[p.InstanceID] = after
	if after.CurrentStage != before.CurrentStage {
		return care, []notify.Event{notify.NeglectStageChanged{PetID: p.InstanceID, PetName: p.Name, Stage: string(after.CurrentStage)}}
	}
	return care, nil
}

// levelUp pays the level-up gems and reports the event.
func (s *State) levelUp(p pet.Pet, levels int) (int, []notify.Event) {
	gems := economy.LevelUpGems(levels)
	if gems == 0 {
		return 0, nil
	}
	s.Currencies.Gems += gems
	return gems, []notify.Event{notify.LevelUp{PetID: p.InstanceID, PetName: p.Name, Level: p.Level, Gems: gems}}
}

// addEnergy regenerates and restores energy and reports when the pool
// just filled up.
func (s *State) addEnergy(env Env, amount int) []notify.Event {
	before := s.Energy.Current
	s.Energy = economy.RegenEnergy(s.Energy, env.Now)
	s.Energy = economy.AddEnergy(s.Energy, amount)
	if before < bible.EnergyMax && s.Energy.Current == bible.EnergyMax {
		return []notify.Event{notify.EnergyFull{}}
	}
	return nil
}

// FeedResult reports Feed.
type FeedResult struct {
	bible.Failure
	pet.FeedResult
	PetID         string                `json:"petId"`
	GemsEarned    int                   `json:"gemsEarned"`
	Care          neglect.CareResult    `json:"care"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

// Feed gives one food from the shared inventory to petID. A blocked feed
// (stuffed pet) consumes nothing.
func (s State) Feed(env Env, petID, foodID string) (State, FeedResult) {
	res := FeedResult{PetID: petID}
	p, f := s.homePet(petID)
	if f.Failed() {
		res.Failure = f
		return s, res
	}
	food, ok := env.catalog().Food(foodID)
	if !ok {
		res.Failure = bible.Fail(bible.CodeInvalidItem, fmt.Sprintf("unknown food %q", foodID))
		return s, res
	}
	if s.Inventory[foodID] <= 0 {
		res.Failure = bible.Fail(bible.CodeOutOfStock, fmt.Sprintf("no %s left", food.Name))
		return s, res
	}

	bondMult, moodMult := s.NeglectOf(petID).Multipliers()
	fed, fr := pet.Feed(p, food, s.species(env, p), pet.FeedInput{
		Now:          env.Now,
		Mode:         s.PlayMode,
		BondGainMult: bondMult,
		MoodGainMult: moodMult,
	}, env.rng())
	res.FeedResult = fr
	if fr.WasBlocked {
		return s, res
	}

	out := s.Clone()
	out.Inventory, _ = out.Inventory.Take(foodID)
	out.Pets[petID] = fed

	var events []notify.Event
	if fr.SicknessTriggered {
		events = append(events, notify.PetSick{PetID: petID, PetName: fed.Name})
	}

	var bonus int
	out.LastFirstFeedDateKey, bonus = economy.AwardFirstFeedOfDay(out.LastFirstFeedDateKey, env.Now, env.Location)
	if bonus > 0 {
		out.Currencies.Gems += bonus
		events = append(events, notify.DailyFeedBonus{PetID: petID, Gems: bonus})
	}
	levelGems, evs := out.levelUp(fed, fr.LevelsGained)
	events = append(events, evs...)
	res.GemsEarned = bonus + levelGems

	events = append(events, out.addEnergy(env, fr.EnergyRestored)...)

	var careEvents []notify.Event
	res.Care, careEvents = out.careFor(env, fed)
	events = append(events, careEvents...)

	res.Notifications = out.raise(env, events...)
	slog.Debug("fed pet", "pet", petID, "food", foodID, "reaction", fr.ReactionType, "gems", res.GemsEarned)
	return out, res
}

// PlayResult reports Play.
type PlayResult struct {
	bible.Failure
	Success       bool                  `json:"success"`
	PetID         string                `json:"petId"`
	Start         economy.StartResult   `json:"start"`
	Reward        economy.Reward        `json:"reward"`
	XPGained      int                   `json:"xpGained"`
	LevelsGained  int                   `json:"levelsGained"`
	GemsEarned    int                   `json:"gemsEarned"`
	MoodChange    float64               `json:"moodChange"`
	BondChange    float64               `json:"bondChange"`
	Care          neglect.CareResult    `json:"care"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

// Play spends a mini-game play for petID and pays out the reward for score.
// Playing counts as care.
func (s State) Play(env Env, petID string, score int) (State, PlayResult) {
	res := PlayResult{PetID: petID}
	p, f := s.homePet(petID)
	if f.Failed() {
		res.Failure = f
		return s, res
	}
	sp := s.species(env, p)

	daily, energy, start := economy.StartMiniGame(s.DailyMiniGames, s.Energy, economy.StartInput{
		Now:           env.Now,
		Location:      env.Location,
		CostReduction: pet.EnergyCostReduction(sp),
	})
	res.Start = start
	if start.Failed() {
		res.Failure = start.Failure
		return s, res
	}

	out := s.Clone()
	out.DailyMiniGames = daily
	out.Energy = energy

	res.Reward = economy.MiniGameReward(economy.MiniGameTier(score), env.rng(), pet.MinigameCoinMultiplier(sp))
	out.Currencies.Coins += res.Reward.Coins

	bondMult, moodMult := out.NeglectOf(petID).Multipliers()
	played := p
	played.MoodValue = pet.ClampStat(p.MoodValue + bible.PlayMoodBoost*moodMult)
	played.Bond = math.Max(0, p.Bond+bible.PlayBondBoost*pet.BondMultiplier(sp)*bondMult)
	res.XPGained = int(math.Round(float64(res.Reward.XP) * pet.XPMultiplier(sp)))
	played, res.LevelsGained = pet.GainXP(played, res.XPGained)
	out.Pets[petID] = played
	res.MoodChange = played.MoodValue - p.MoodValue
	res.BondChange = played.Bond - p.Bond

	events := []notify.Event{notify.MiniGameReward{PetID: petID, Tier: string(res.Reward.Tier), Coins: res.Reward.Coins, XP: res.XPGained}}
	var evs []notify.Event
	res.GemsEarned, evs = out.levelUp(played, res.LevelsGained)
	events = append(events, evs...)
	res.Care, evs = out.careFor(env, played)
	events = append(events, evs...)

	res.Success = true
	res.Notifications = out.raise(env, events...)
	slog.Info("mini-game played", "pet", petID, "score", score, "tier", res.Reward.Tier, "coins", res.Reward.Coins)
	return out, res
}

// ItemResult reports actions that use an item or clean up after a pet.
type ItemResult struct {
	bible.Failure
	Success bool   `json:"success"`
	PetID   string `json:"petId"`
	Removed int    `json:"removed,omitempty"`
}

// UseMedicine cures a sick pet in Classic mode, consuming one medicine.
func (s State) UseMedicine(env Env, petID string) (State, ItemResult) {
	res := ItemResult{PetID: petID}
	p, f := s.homePet(petID)
	switch {
	case f.Failed():
		res.Failure = f
	case s.PlayMode != bible.ModeClassic:
		res.Failure = bible.Fail(bible.CodeInvalidMode, "pets do not get sick in Cozy mode")
	case !p.IsSick:
		res.Failure = bible.Fail(bible.CodeNotSick, p.Name+" is not sick")
	case s.Inventory[bible.MedicineID] <= 0:
		res.Failure = bible.Fail(bible.CodeOutOfStock, "no medicine left")
	}
	if res.Failed() {
		return s, res
	}

	out := s.Clone()
	out.Inventory, _ = out.Inventory.Take(bible.MedicineID)
	out.Pets[petID] = pet.Cure(p)
	res.Success = true
	slog.Info("pet cured", "pet", petID)
	return out, res
}

// CleanUp removes every poop around petID.
func (s State) CleanUp(env Env, petID string) (State, ItemResult) {
	res := ItemResult{PetID: petID}
	p, f := s.homePet(petID)
	if f.Failed() {
		res.Failure = f
		return s, res
	}
	out := s.Clone()
	out.Pets[petID] = pet.Clean(p)
	res.Success = true
	res.Removed = p.PoopCount
	return out, res
}

// BuyFood buys qty of a food at the active pet's discount.
func (s State) BuyFood(env Env, foodID string, qty int) (State, economy.PurchaseResult) {
	discount := pet.CoinDiscount(s.activeSpecies(env))
	cur, inv, res := economy.BuyFood(s.Currencies, s.Inventory, env.catalog(), foodID, qty, discount)
	if res.Failed() {
		return s, res
	}
	out := s.Clone()
	out.Currencies, out.Inventory = cur, inv
	return out, res
}

// BuyBundle buys a bundle at the active pet's discount.
func (s State) BuyBundle(env Env, bundleID string) (State, economy.PurchaseResult) {
	discount := pet.CoinDiscount(s.activeSpecies(env))
	cur, inv, res := economy.BuyBundle(s.Currencies, s.Inventory, env.catalog(), bundleID, discount)
	if res.Failed() {
		return s, res
	}
	out := s.Clone()
	out.Currencies, out.Inventory = cur, inv
	return out, res
}

// BuyCareItem buys a care item visible for the active pet.
func (s State) BuyCareItem(env Env, itemID string) (State, economy.PurchaseResult) {
	active := s.Pets[s.Roster.ActivePetID]
	discount := pet.CoinDiscount(s.activeSpecies(env))
	cur, inv, res := economy.BuyCareItem(s.Currencies, s.Inventory, env.catalog(), itemID, s.PlayMode, active.Weight, discount)
	if res.Failed() {
		return s, res
	}
	out := s.Clone()
	out.Currencies, out.Inventory = cur, inv
	return out, res
}

// AdoptResult reports AdoptPet.
type AdoptResult struct {
	bible.Failure
	Success bool   `json:"success"`
	PetID   string `json:"petId"`
}

// AdoptPet places a new pet of speciesID in the next free slot.
func (s State) AdoptPet(env Env, speciesID, name string) (State, AdoptResult) {
	var res AdoptResult
	if _, ok := env.catalog().SpeciesByID(speciesID); !ok {
		res.Failure = bible.Fail(bible.CodeInvalidPet, fmt.Sprintf("unknown species %q", speciesID))
		return s, res
	}
	id := env.newID()
	r, f := roster.AddPet(s.Roster, id)
	if f.Failed() {
		res.Failure = f
		return s, res
	}

	out := s.Clone()
	out.Roster = r
	out.Pets[id] = pet.New(id, speciesID, name, env.Now)
	out.Neglect[id] = neglect.Default()
	res.Success = true
	res.PetID = id
	slog.Info("pet adopted", "pet", id, "species", speciesID)
	return out, res
}

// SetActivePet selects which pet the home screen shows.
func (s State) SetActivePet(env Env, petID string) (State, roster.SwitchResult) {
	r, res := roster.SetActive(s.Roster, petID, s.StageOf)
	if res.Failed() {
		return s, res
	}
	out := s.Clone()
	out.Roster = r
	return out, res
}

// PurchasePetSlot unlocks slot n with gems.
func (s State) PurchasePetSlot(env Env, n int) (State, roster.SlotResult) {
	r, gems, res := roster.PurchaseSlot(s.Roster, n, roster.PurchaseInput{
		PlayerLevel: s.PlayerLevel(),
		Gems:        s.Currencies.Gems,
		Subscriber:  env.Subscriber,
	})
	if res.Failed() {
		return s, res
	}
	out := s.Clone()
	out.Roster = r
	out.Currencies.Gems = gems
	out.raise(env, notify.SlotUnlocked{Slot: n})
	return out, res
}

// BuyCosmetic buys a cosmetic for the active pet.
func (s State) BuyCosmetic(env Env, cosmeticID string) (State, cosmetics.Result) {
	petID := s.Roster.ActivePetID
	p, f := s.homePet(petID)
	if f.Failed() {
		return s, cosmetics.Result{Failure: f, CosmeticID: cosmeticID}
	}
	w, gems, res := cosmetics.Buy(s.Wardrobe, env.catalog(), petID, cosmeticID, s.Currencies.Gems)
	if res.Failed() {
		return s, res
	}
	out := s.Clone()
	out.Wardrobe = w
	out.Currencies.Gems = gems
	item, _ := env.catalog().Cosmetic(cosmeticID)
	out.raise(env, notify.CosmeticPurchased{PetID: p.InstanceID, CosmeticID: cosmeticID, Name: item.Name})
	return out, res
}

// EquipCosmetic wears an owned cosmetic on petID.
func (s State) EquipCosmetic(env Env, petID, cosmeticID string) (State, cosmetics.Result) {
	if !s.Roster.Owns(petID) {
		return s, cosmetics.Result{Failure: bible.Fail(bible.CodeInvalidPet, "you do not own that pet"), CosmeticID: cosmeticID}
	}
	w, res := cosmetics.Equip(s.Wardrobe, env.catalog(), petID, cosmeticID)
	if res.Failed() {
		return s, res
	}
	out := s.Clone()
	out.Wardrobe = w
	return out, res
}

// UnequipCosmetic clears one of petID's cosmetic slots.
func (s State) UnequipCosmetic(env Env, petID string, slot bible.CosmeticSlot) (State, cosmetics.Result) {
	if !s.Roster.Owns(petID) {
		return s, cosmetics.Result{Failure: bible.Fail(bible.CodeInvalidPet, "you do not own that pet"), Slot: slot}
	}
	w, res := cosmetics.Unequip(s.Wardrobe, petID, slot)
	if res.Failed() {
		return s, res
	}
	out := s.Clone()
	out.Wardrobe = w
	return out, res
}

// ModeResult reports SelectPlayMode.
type ModeResult struct {
	bible.Failure
	Success bool           `json:"success"`
	Mode    bible.PlayMode `json:"mode"`
}

// SelectPlayMode switches between Cozy and Classic. Switching to Cozy also
// clears sickness.
func (s State) SelectPlayMode(env Env, mode bible.PlayMode) (State, ModeResult) {
	if !mode.Valid() {
		return s, ModeResult{Failure: bible.Fail(bible.CodeInvalidMode, fmt.Sprintf("unknown play mode %q", mode))}
	}
	out := s.Clone()
	out.PlayMode = mode
	if mode == bible.ModeCozy {
		for id, p := range out.Pets {
			p.IsSick = false
			p.SickStartTimestamp = nil
			out.Pets[id] = p
		}
	}
	slog.Info("play mode selected", "mode", mode)
	return out, ModeResult{Success: true, Mode: mode}
}

// FtueResult reports CompleteFtue.
type FtueResult struct {
	Success          bool  `json:"success"`
	AlreadyCompleted bool  `json:"alreadyCompleted"`
	GraceEndsAt      int64 `json:"graceEndsAt"`
}

// CompleteFtue records the end of the tutorial. Neglect starts counting
// once the grace period after it has passed. Repeat calls keep the first
// timestamp.
func (s State) CompleteFtue(env Env) (State, FtueResult) {
	res := FtueResult{Success: true}
	out := s
	if s.FtueCompletedAt != nil {
		res.AlreadyCompleted = true
	} else {
		out = s.Clone()
		now := env.Now
		out.FtueCompletedAt = &now
		out.LastSeen = now
	}
	res.GraceEndsAt, _ = neglect.GracePeriodEndsAt(out.FtueCompletedAt)
	return out, res
}

// RecoverFromWithdrawnWithGems pays to bring a withdrawn or critical pet
// straight back to normal.
func (s State) RecoverFromWithdrawnWithGems(env Env, petID string) (State, neglect.RecoveryResult) {
	p, ok := s.Pets[petID]
	if !ok || !s.Roster.Owns(petID) {
		return s, neglect.RecoveryResult{Failure: bible.Fail(bible.CodeInvalidPet, "you do not own that pet")}
	}
	ng, gems, res := neglect.RecoverWithGems(s.NeglectOf(petID), s.Currencies.Gems)
	if res.Failed() {
		return s, res
	}
	out := s.Clone()
	out.Neglect[petID] = ng
	out.Currencies.Gems = gems
	out.raise(env, notify.NeglectStageChanged{PetID: petID, PetName: p.Name, Stage: string(ng.CurrentStage)})
	return out, res
}

// CallBackRunawayPet brings a runaway pet home, free after the long wait or
// for gems after the short one. The pet loses part of its bond either way.
func (s State) CallBackRunawayPet(env Env, petID string) (State, neglect.RecoveryResult) {
	p, ok := s.Pets[petID]
	if !ok || !s.Roster.Owns(petID) {
		return s, neglect.RecoveryResult{Failure: bible.Fail(bible.CodeInvalidPet, "you do not own that pet")}
	}
	ng, gems, res := neglect.CallBack(s.NeglectOf(petID), env.Now, s.Currencies.Gems)
	if res.Failed() {
		return s, res
	}
	out := s.Clone()
	out.Neglect[petID] = ng
	out.Currencies.Gems = gems
	out.Pets[petID] = pet.ApplyBondPenalty(p, res.BondPenaltyFraction)
	if out.Roster.ActivePetID == "" {
		out.Roster.ActivePetID = petID
	}
	out.Roster.AllPetsAway = false
	out.raise(env, notify.PetReturned{PetID: petID, PetName: p.Name, Paid: !res.Free})
	return out, res
}

// ProcessLoginStreak records today's login and pays the streak bonus.
func (s State) ProcessLoginStreak(env Env) (State, economy.StreakResult) {
	streak, res := economy.ProcessLoginStreak(s.LoginStreak, env.Now, env.Location)
	if !res.Advanced {
		return s, res
	}
	out := s.Clone()
	out.LoginStreak = streak
	if res.GemsAwarded > 0 {
		out.Currencies.Gems += res.GemsAwarded
		out.raise(env, notify.LoginStreakReward{Day: res.DayReached, Gems: res.GemsAwarded})
	}
	return out, res
}

// EmitGameEvent sends ev through the notification pipeline. Whether it was
// shown is not reported.
func (s State) EmitGameEvent(env Env, ev notify.Event) State {
	out := s.Clone()
	out.emit(env, ev)
	return out
}

// MarkNotificationRead flags one inbox entry read.
func (s State) MarkNotificationRead(id string) (State, bool) {
	inbox, ok := s.Inbox.MarkRead(id)
	if !ok {
		return s, false
	}
	out := s.Clone()
	out.Inbox = inbox
	return out, true
}

// MarkAllNotificationsRead flags the whole inbox read.
func (s State) MarkAllNotificationsRead() State {
	out := s.Clone()
	out.Inbox = out.Inbox.MarkAllRead()
	return out
}

// ClearNotifications empties the inbox.
func (s State) ClearNotifications() State {
	out := s.Clone()
	out.Inbox = out.Inbox.Clear()
	return out
}

// ResetSession starts a new app session: the per-session notification and
// health alert caps start over.
func (s State) ResetSession() State {
	out := s.Clone()
	out.Session = notify.Session{}
	out.AlertSuppression.SessionAlerts = 0
	return out
}
