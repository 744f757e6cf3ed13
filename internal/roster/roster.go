// Package roster coordinates the owned pets: slot order, the active pet,
// slot purchases, and what happens when pets run away. Global resources
// (energy, currencies, inventory) are not tracked per pet and live with the
// game state.
package roster

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"grundy/internal/bible"
	"grundy/internal/neglect"
)

// Roster is the ordered list of owned pets plus slot state.
type Roster struct {
	OwnedPetIDs   []string `json:"ownedPetIds"`
	ActivePetID   string   `json:"activePetId"`
	UnlockedSlots int      `json:"unlockedSlots"`
	AllPetsAway   bool     `json:"allPetsAway"`
}

// StageOf reports the neglect stage of an owned pet.
type StageOf func(petID string) neglect.Stage

// New starts a roster with one slot holding firstPetID.
func New(firstPetID string) Roster {
	r := Roster{UnlockedSlots: bible.MinSlots}
	if firstPetID != "" {
		r.OwnedPetIDs = []string{firstPetID}
		r.ActivePetID = firstPetID
	}
	return r
}

// Clone returns an independent copy.
func (r Roster) Clone() Roster {
	r.OwnedPetIDs = slices.Clone(r.OwnedPetIDs)
	return r
}

// Owns reports whether id is in the roster.
func (r Roster) Owns(id string) bool {
	return slices.Contains(r.OwnedPetIDs, id)
}

// SwitchResult reports SetActive.
type SwitchResult struct {
	bible.Failure
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
}

// SetActive makes id the active pet. Any owned pet may be selected,
// including neglected and runaway ones; those come back with a warning.
// Selecting a pet is not a care event.
func SetActive(r Roster, id string, stageOf StageOf) (Roster, SwitchResult) {
	if !r.Owns(id) {
		return r, SwitchResult{Failure: bible.Fail(bible.CodeInvalidPet, "you do not own that pet")}
	}
	r = r.Clone()
	r.ActivePetID = id
	r.AllPetsAway = allAway(r, stageOf)

	res := SwitchResult{Success: true}
	switch stageOf(id) {
	case neglect.StageWorried, neglect.StageSad:
		res.Warning = "This pet has been missing you."
	case neglect.StageWithdrawn, neglect.StageCritical:
		res.Warning = "This pet is withdrawn and needs extra care."
	case neglect.StageRunaway:
		res.Warning = "This pet has run away and cannot be cared for until it returns."
	}
	return r, res
}

// AutoSwitchResult reports AutoSwitchOnRunaway. NewPetID is nil when no pet
// could be selected.
type AutoSwitchResult struct {
	AllPetsAway bool    `json:"allPetsAway"`
	NewPetID    *string `json:"newPetId"`
	Switched    bool    `json:"switched"`
}

// AutoSwitchOnRunaway moves the active selection off a runaway pet to the
// first owned pet, in slot order, that is still home. When every pet is
// away the roster has no active pet and AllPetsAway is set.
func AutoSwitchOnRunaway(r Roster, stageOf StageOf) (Roster, AutoSwitchResult) {
	if r.ActivePetID != "" && stageOf(r.ActivePetID) != neglect.StageRunaway {
		r.AllPetsAway = false
		id := r.ActivePetID
		return r, AutoSwitchResult{NewPetID: &id}
	}

	r = r.Clone()
	for _, id := range r.OwnedPetIDs {
		if stageOf(id) != neglect.StageRunaway {
			r.ActivePetID = id
			r.AllPetsAway = false
			slog.Info("active pet switched after runaway", "pet", id)
			newID := id
			return r, AutoSwitchResult{NewPetID: &newID, Switched: true}
		}
	}

	r.ActivePetID = ""
	r.AllPetsAway = len(r.OwnedPetIDs) > 0
	slog.Info("all pets are away", "owned", len(r.OwnedPetIDs))
	return r, AutoSwitchResult{AllPetsAway: r.AllPetsAway, Switched: true}
}

func allAway(r Roster, stageOf StageOf) bool {
	if len(r.OwnedPetIDs) == 0 {
		return false
	}
	for _, id := range r.OwnedPetIDs {
		if stageOf(id) != neglect.StageRunaway {
			return false
		}
	}
	return true
}

// AddPet places a newly adopted pet in the next free slot. The first pet
// also becomes active.
func AddPet(r Roster, id string) (Roster, bible.Failure) {
	if r.Owns(id) {
		return r, bible.Fail(bible.CodeAlreadyOwned, "pet already in roster")
	}
	if len(r.OwnedPetIDs) >= r.UnlockedSlots {
		return r, bible.Fail(bible.CodeMaxSlotsReached, "all unlocked slots are full")
	}
	r = r.Clone()
	r.OwnedPetIDs = append(r.OwnedPetIDs, id)
	if r.ActivePetID == "" {
		r.ActivePetID = id
		r.AllPetsAway = false
	}
	return r, bible.Failure{}
}

// SlotPrice is the gem price of slot n, after the subscriber discount.
// Slots that cannot be bought cost 0.
func SlotPrice(n int, subscriber bool) int {
	base, ok := bible.SlotPrices[n]
	if !ok {
		return 0
	}
	if subscriber {
		return int(math.Round(float64(base) * (1 - bible.SubscriberSlotDiscount)))
	}
	return base
}

// PurchaseInput is the player context for a slot purchase.
type PurchaseInput struct {
	PlayerLevel int
	Gems        int
	Subscriber  bool
}

// SlotResult reports PurchaseSlot.
type SlotResult struct {
	bible.Failure
	Success bool `json:"success"`
	Slot    int  `json:"slot"`
	Price   int  `json:"price"`
}

// PurchaseSlot unlocks slot n. On any failure both the roster and the gem
// balance come back unchanged; on success the gems are deducted and the
// slot unlocked together.
func PurchaseSlot(r Roster, n int, in PurchaseInput) (Roster, int, SlotResult) {
	res := SlotResult{Slot: n}
	if f := checkSlot(r, n, in.PlayerLevel); f.Failed() {
		res.Failure = f
		return r, in.Gems, res
	}
	res.Price = SlotPrice(n, in.Subscriber)
	if in.Gems < res.Price {
		res.Failure = bible.Fail(bible.CodeInsufficientGems, fmt.Sprintf("slot %d costs %d gems", n, res.Price))
		return r, in.Gems, res
	}

	r = r.Clone()
	r.UnlockedSlots = n
	res.Success = true
	slog.Info("pet slot unlocked", "slot", n, "price", res.Price)
	return r, in.Gems - res.Price, res
}

func checkSlot(r Roster, n, level int) bible.Failure {
	if n < bible.MinSlots+1 || n > bible.MaxSlots {
		return bible.Fail(bible.CodeInvalidSlot, fmt.Sprintf("slot %d does not exist", n))
	}
	if r.UnlockedSlots >= bible.MaxSlots {
		return bible.Fail(bible.CodeMaxSlotsReached, "every slot is already unlocked")
	}
	if n <= r.UnlockedSlots {
		return bible.Fail(bible.CodeAlreadyOwned, fmt.Sprintf("slot %d is already unlocked", n))
	}
	if n != r.UnlockedSlots+1 {
		return bible.Fail(bible.CodePrereqNotMet, fmt.Sprintf("unlock slot %d first", r.UnlockedSlots+1))
	}
	if n == 2 && level < bible.SlotTwoLevelGate {
		return bible.Fail(bible.CodePrereqNotMet, fmt.Sprintf("reach level %d to unlock a second slot", bible.SlotTwoLevelGate))
	}
	return bible.Failure{}
}

// SlotState is how a slot appears on the pets screen.
type SlotState string

const (
	SlotOwned     SlotState = "owned"
	SlotAvailable SlotState = "available"
	SlotLocked    SlotState = "locked"
)

// SlotStatus is one slot card.
type SlotStatus struct {
	Slot       int       `json:"slot"`
	State      SlotState `json:"state"`
	PetID      string    `json:"petId,omitempty"`
	Price      int       `json:"price,omitempty"`
	Affordable bool      `json:"affordable"`
	Reason     string    `json:"reason,omitempty"`
}

// SlotStatuses describes every slot from 1 to MaxSlots.
func SlotStatuses(r Roster, level, gems int, subscriber bool) []SlotStatus {
	out := make([]SlotStatus, 0, bible.MaxSlots)
	for n := 1; n <= bible.MaxSlots; n++ {
		st := SlotStatus{Slot: n}
		switch {
		case n <= r.UnlockedSlots:
			st.State = SlotOwned
			if n <= len(r.OwnedPetIDs) {
				st.PetID = r.OwnedPetIDs[n-1]
			}
		default:
			st.Price = SlotPrice(n, subscriber)
			if f := checkSlot(r, n, level); f.Failed() {
				st.State = SlotLocked
				st.Reason = f.Reason
			} else {
				st.State = SlotAvailable
				st.Affordable = gems >= st.Price
			}
		}
		out = append(out, st)
	}
	return out
}

// RecoveryOption is one row of the All Pets Away screen.
type RecoveryOption struct {
	PetID           string `json:"petId"`
	CanReturnFreeAt *int64 `json:"canReturnFreeAt"`
	CanReturnPaidAt *int64 `json:"canReturnPaidAt"`
	PaidCost        int    `json:"paidCost"`
}

// RecoveryOptions lists the return windows of every runaway pet in ids.
func RecoveryOptions(ids []string, neglectOf func(string) neglect.State) []RecoveryOption {
	var out []RecoveryOption
	for _, id := range ids {
		s := neglectOf(id)
		if !s.IsRunaway {
			continue
		}
		out = append(out, RecoveryOption{
			PetID:           id,
			CanReturnFreeAt: s.CanReturnFreeAt,
			CanReturnPaidAt: s.CanReturnPaidAt,
			PaidCost:        bible.RunawayPaidReturnGems,
		})
	}
	return out
}
