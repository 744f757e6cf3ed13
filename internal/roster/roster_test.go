package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grundy/internal/bible"
	"grundy/internal/neglect"
)

func stages(m map[string]neglect.Stage) StageOf {
	return func(id string) neglect.Stage {
		if s, ok := m[id]; ok {
			return s
		}
		return neglect.StageNormal
	}
}

func threePets() Roster {
	return Roster{OwnedPetIDs: []string{"a", "b", "c"}, ActivePetID: "a", UnlockedSlots: 3}
}

func TestSetActive(t *testing.T) {
	r := threePets()
	of := stages(map[string]neglect.Stage{"b": neglect.StageWithdrawn, "c": neglect.StageRunaway})

	got, res := SetActive(r, "b", of)
	assert.True(t, res.Success)
	assert.Equal(t, "b", got.ActivePetID)
	assert.NotEmpty(t, res.Warning)
	assert.Equal(t, "a", r.ActivePetID, "input roster untouched")

	got, res = SetActive(r, "c", of)
	assert.True(t, res.Success)
	assert.Equal(t, "c", got.ActivePetID)
	assert.Contains(t, res.Warning, "run away")

	_, res = SetActive(r, "a", of)
	assert.Empty(t, res.Warning)

	same, res := SetActive(r, "zzz", of)
	assert.Equal(t, bible.CodeInvalidPet, res.Code)
	assert.Equal(t, r, same)
}

func TestAutoSwitchOnRunaway(t *testing.T) {
	r := threePets()

	got, res := AutoSwitchOnRunaway(r, stages(map[string]neglect.Stage{"a": neglect.StageRunaway, "b": neglect.StageRunaway}))
	require.NotNil(t, res.NewPetID)
	assert.Equal(t, "c", *res.NewPetID)
	assert.True(t, res.Switched)
	assert.Equal(t, "c", got.ActivePetID)
	assert.False(t, got.AllPetsAway)

	got, res = AutoSwitchOnRunaway(r, stages(nil))
	assert.False(t, res.Switched)
	assert.Equal(t, "a", got.ActivePetID)
}

func TestAutoSwitchOnRunaway_AllPetsAway(t *testing.T) {
	r := threePets()
	all := stages(map[string]neglect.Stage{
		"a": neglect.StageRunaway,
		"b": neglect.StageRunaway,
		"c": neglect.StageRunaway,
	})

	got, res := AutoSwitchOnRunaway(r, all)

	assert.True(t, res.AllPetsAway)
	assert.Nil(t, res.NewPetID)
	assert.Empty(t, got.ActivePetID)
	assert.True(t, got.AllPetsAway)
	assert.Equal(t, r.OwnedPetIDs, got.OwnedPetIDs, "runaway pets keep their slots")
}

func TestAddPet(t *testing.T) {
	r := New("a")

	_, f := AddPet(r, "b")
	assert.Equal(t, bible.CodeMaxSlotsReached, f.Code)

	r.UnlockedSlots = 2
	got, f := AddPet(r, "b")
	assert.False(t, f.Failed())
	assert.Equal(t, []string{"a", "b"}, got.OwnedPetIDs)
	assert.Equal(t, "a", got.ActivePetID)

	_, f = AddPet(got, "a")
	assert.Equal(t, bible.CodeAlreadyOwned, f.Code)

	empty, f := AddPet(Roster{UnlockedSlots: 1}, "x")
	assert.False(t, f.Failed())
	assert.Equal(t, "x", empty.ActivePetID)
}

func TestSlotPrice(t *testing.T) {
	assert.Equal(t, 100, SlotPrice(2, false))
	assert.Equal(t, 150, SlotPrice(3, false))
	assert.Equal(t, 200, SlotPrice(4, false))
	assert.Equal(t, 80, SlotPrice(2, true))
	assert.Equal(t, 120, SlotPrice(3, true))
	assert.Equal(t, 160, SlotPrice(4, true))
	assert.Zero(t, SlotPrice(1, false))
	assert.Zero(t, SlotPrice(5, false))
}

func TestPurchaseSlot(t *testing.T) {
	one := New("a")
	two := Roster{OwnedPetIDs: []string{"a"}, ActivePetID: "a", UnlockedSlots: 2}
	four := Roster{OwnedPetIDs: []string{"a"}, ActivePetID: "a", UnlockedSlots: 4}

	tests := []struct {
		name      string
		r         Roster
		slot      int
		in        PurchaseInput
		wantCode  bible.ErrorCode
		wantGems  int
		wantSlots int
	}{
		{"slot 0", one, 0, PurchaseInput{PlayerLevel: 10, Gems: 500}, bible.CodeInvalidSlot, 500, 1},
		{"slot 5", one, 5, PurchaseInput{PlayerLevel: 10, Gems: 500}, bible.CodeInvalidSlot, 500, 1},
		{"slot 1 owned", one, 1, PurchaseInput{PlayerLevel: 10, Gems: 500}, bible.CodeInvalidSlot, 500, 1},
		{"level gate", one, 2, PurchaseInput{PlayerLevel: 4, Gems: 500}, bible.CodePrereqNotMet, 500, 1},
		{"skip ahead", one, 3, PurchaseInput{PlayerLevel: 10, Gems: 500}, bible.CodePrereqNotMet, 500, 1},
		{"already owned", two, 2, PurchaseInput{PlayerLevel: 10, Gems: 500}, bible.CodeAlreadyOwned, 500, 2},
		{"all unlocked", four, 4, PurchaseInput{PlayerLevel: 10, Gems: 500}, bible.CodeMaxSlotsReached, 500, 4},
		{"too poor", one, 2, PurchaseInput{PlayerLevel: 5, Gems: 99}, bible.CodeInsufficientGems, 99, 1},
		{"buys slot 2", one, 2, PurchaseInput{PlayerLevel: 5, Gems: 100}, bible.CodeNone, 0, 2},
		{"subscriber slot 3", two, 3, PurchaseInput{PlayerLevel: 1, Gems: 130, Subscriber: true}, bible.CodeNone, 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gems, res := PurchaseSlot(tt.r, tt.slot, tt.in)
			assert.Equal(t, tt.wantCode, res.Code)
			assert.Equal(t, tt.wantGems, gems)
			assert.Equal(t, tt.wantSlots, got.UnlockedSlots)
			assert.Equal(t, tt.wantCode == bible.CodeNone, res.Success)
			if res.Failed() {
				assert.NotEmpty(t, res.Reason)
				assert.Equal(t, tt.r, got)
			}
		})
	}
}

func TestSlotStatuses(t *testing.T) {
	r := Roster{OwnedPetIDs: []string{"a"}, ActivePetID: "a", UnlockedSlots: 1}

	got := SlotStatuses(r, 5, 50, false)
	require.Len(t, got, bible.MaxSlots)
	assert.Equal(t, SlotOwned, got[0].State)
	assert.Equal(t, "a", got[0].PetID)
	assert.Equal(t, SlotAvailable, got[1].State)
	assert.False(t, got[1].Affordable)
	assert.Equal(t, 100, got[1].Price)
	assert.Equal(t, SlotLocked, got[2].State)
	assert.Equal(t, SlotLocked, got[3].State)

	low := SlotStatuses(r, 2, 500, false)
	assert.Equal(t, SlotLocked, low[1].State)
	assert.Contains(t, low[1].Reason, "level")
}

func TestRecoveryOptions(t *testing.T) {
	free, paid := int64(300), int64(100)
	states := map[string]neglect.State{
		"a": {CurrentStage: neglect.StageRunaway, IsRunaway: true, CanReturnFreeAt: &free, CanReturnPaidAt: &paid},
		"b": neglect.Default(),
	}

	opts := RecoveryOptions([]string{"a", "b"}, func(id string) neglect.State { return states[id] })

	require.Len(t, opts, 1)
	assert.Equal(t, "a", opts[0].PetID)
	assert.Equal(t, &free, opts[0].CanReturnFreeAt)
	assert.Equal(t, bible.RunawayPaidReturnGems, opts[0].PaidCost)
}
