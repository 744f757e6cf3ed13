package game

import (
	"grundy/internal/bible"
	"grundy/internal/economy"
	"grundy/internal/neglect"
	"grundy/internal/notify"
	"grundy/internal/pet"
	"grundy/internal/roster"
)

// ActivePet returns the pet on the home screen. It reports false when every
// pet is away.
func (s State) ActivePet() (pet.Pet, bool) {
	p, ok := s.Pets[s.Roster.ActivePetID]
	return p, ok
}

// OwnedPets returns the pets in slot order.
func (s State) OwnedPets() []pet.Pet {
	out := make([]pet.Pet, 0, len(s.Roster.OwnedPetIDs))
	for _, id := range s.Roster.OwnedPetIDs {
		if p, ok := s.Pets[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// PetStatusBadges lists the status badges of one pet.
func (s State) PetStatusBadges(petID string) []pet.Badge {
	p, ok := s.Pets[petID]
	if !ok {
		return nil
	}
	ng := s.NeglectOf(petID)
	return pet.StatusBadges(p, string(ng.CurrentStage), neglect.IsInteractionLocked(ng))
}

// AggregatedBadgeCount is the number of badges on every pet except the
// active one, shown on the pet switcher.
func (s State) AggregatedBadgeCount() int {
	n := 0
	for _, id := range s.Roster.OwnedPetIDs {
		if id == s.Roster.ActivePetID {
			continue
		}
		n += len(s.PetStatusBadges(id))
	}
	return n
}

// SlotStatuses describes the pet slots for the pets screen.
func (s State) SlotStatuses(env Env) []roster.SlotStatus {
	return roster.SlotStatuses(s.Roster, s.PlayerLevel(), s.Currencies.Gems, env.Subscriber)
}

// RecoveryOptions lists the return windows of every runaway pet.
func (s State) RecoveryOptions() []roster.RecoveryOption {
	return roster.RecoveryOptions(s.Roster.OwnedPetIDs, s.NeglectOf)
}

// ShopRecommendations suggests items for the active pet.
func (s State) ShopRecommendations(env Env) []string {
	p, ok := s.ActivePet()
	if !ok {
		return nil
	}
	energy := economy.RegenEnergy(s.Energy, env.Now)
	return economy.Recommend(env.catalog(), economy.RecommendContext{
		Mode:    s.PlayMode,
		IsSick:  p.IsSick,
		Energy:  energy.Current,
		Hunger:  p.Hunger,
		Mood:    p.MoodValue,
		Weight:  p.Weight,
		Species: s.species(env, p),
	})
}

// VisibleCareItems lists the care items the shop shows for the active pet.
func (s State) VisibleCareItems(env Env) []bible.CareItem {
	p, _ := s.ActivePet()
	return economy.VisibleCareItems(env.catalog(), s.PlayMode, p.Weight)
}

// ShopTabs lists the shop tabs for the current player level.
func (s State) ShopTabs() []economy.Tab {
	return economy.ShopTabs(s.PlayerLevel())
}

// Notifications returns the inbox, newest first.
func (s State) Notifications() []notify.Notification {
	return s.Inbox.Clone().Items
}

// UnreadCount is the inbox badge number.
func (s State) UnreadCount() int {
	return s.Inbox.UnreadCount()
}

// CurrentEnergy is the energy pool with regeneration up to now applied.
func (s State) CurrentEnergy(env Env) economy.Energy {
	return economy.RegenEnergy(s.Energy, env.Now)
}
