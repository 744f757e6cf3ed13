package notify

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grundy/internal/bible"
	"grundy/internal/pet"
)

const now = int64(1_700_000_000_000)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n-%d", n)
	}
}

func TestMap_EveryEventKind(t *testing.T) {
	events := []Event{
		PetHungry{PetID: "p1", PetName: "Munchlet"},
		PetSick{PetID: "p1", PetName: "Munchlet"},
		NeglectStageChanged{PetID: "p1", PetName: "Munchlet", Stage: "sad"},
		PetRanAway{PetID: "p1", PetName: "Munchlet"},
		PetReturned{PetID: "p1", PetName: "Munchlet"},
		LevelUp{PetID: "p1", PetName: "Munchlet", Level: 3, Gems: 5},
		SlotUnlocked{Slot: 2},
		LoginStreakReward{Day: 7, Gems: 10},
		DailyFeedBonus{PetID: "p1", Gems: 2},
		MiniGameReward{PetID: "p1", Tier: "gold", Coins: 12, XP: 8},
		EnergyFull{},
		CosmeticPurchased{PetID: "p1", CosmeticID: "crown", Name: "Crown"},
		OfflineSummary{Hours: 5, Events: 3},
		HealthAlert{PetID: "p1", PetName: "Munchlet", Reason: "sick"},
	}
	ids := seqIDs()

	for _, ev := range events {
		n, ok := Map(ev, now, ids)
		require.True(t, ok, "%T did not map", ev)
		assert.Equal(t, ev.Kind(), n.Type)
		assert.NotEmpty(t, n.Message)
		assert.NotContains(t, n.Message, "%!", "%T message has bad format args", ev)
		assert.NotEmpty(t, n.Priority)
		assert.Equal(t, now, n.Timestamp)
		_, known := Rules[n.Type]
		assert.True(t, known)
	}
}

func TestMap_Copy(t *testing.T) {
	n, ok := Map(LevelUp{PetID: "p1", PetName: "Grib", Level: 4, Gems: 5}, now, seqIDs())
	require.True(t, ok)
	assert.Equal(t, "Grib reached level 4! +5 gems", n.Message)
	assert.Equal(t, "n-1", n.ID)

	n, _ = Map(MiniGameReward{Tier: "rainbow", Coins: 20, XP: 12}, now, seqIDs())
	assert.Equal(t, "Rainbow tier! +20 coins, +12 XP", n.Message)
}

func TestMap_NullEvents(t *testing.T) {
	_, ok := Map(DailyFeedBonus{PetID: "p1"}, now, seqIDs())
	assert.False(t, ok)
	_, ok = Map(LoginStreakReward{Day: 3}, now, seqIDs())
	assert.False(t, ok)
}

func TestDedupeKey(t *testing.T) {
	assert.Equal(t, "pet_sick:p1", DedupeKey(TypePetSick, "p1", ""))
	assert.Equal(t, "neglect_stage_changed:p1:sad", DedupeKey(TypeNeglectStageChanged, "p1", "sad"))

	long := strings.Repeat("x", 80)
	key := DedupeKey(TypeHealthAlert, "p1", long)
	assert.Equal(t, "health_alert:p1:"+strings.Repeat("x", bible.DedupeContextMax), key)

	n, _ := Map(PetSick{PetID: "p1", PetName: "A"}, now, seqIDs())
	assert.Equal(t, "pet_sick:p1", n.DedupeKey)
	n, _ = Map(NeglectStageChanged{PetID: "p1", PetName: "A", Stage: "withdrawn"}, now, seqIDs())
	assert.Equal(t, "neglect_stage_changed:p1:withdrawn", n.DedupeKey)
}

func TestSanitizeDeepLink(t *testing.T) {
	tests := map[string]string{
		"home":             "home",
		"shop/food":        "shop/food",
		"/Shop/Cosmetics/": "shop/cosmetics",
		"settings":         "settings",
		"javascript:alert": "home",
		"shop/../admin":    "home",
		"":                 "home",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeDeepLink(in), "input %q", in)
	}
}

func note(typ Type, prio Priority, key string, ts int64) Notification {
	return Notification{ID: key, Type: typ, Priority: prio, DedupeKey: key, Timestamp: ts}
}

func TestShouldSuppress_Precedence(t *testing.T) {
	recentSick := Inbox{Items: []Notification{note(TypePetSick, PriorityHigh, "pet_sick:p1", now-10*60*1000)}}
	oldSick := Inbox{Items: []Notification{note(TypePetSick, PriorityHigh, "pet_sick:p1", now-2*60*60*1000)}}
	capped := Session{NonCriticalShown: bible.MaxNonCriticalPerSession}

	tests := []struct {
		name    string
		n       Notification
		inbox   Inbox
		session Session
		want    bool
	}{
		{"critical ignores everything", note(TypePetRanAway, PriorityCritical, "pet_ran_away:p1", now), Inbox{Items: []Notification{note(TypePetRanAway, PriorityCritical, "pet_ran_away:p1", now)}}, capped, false},
		{"low under cap", note(TypeEnergyFull, PriorityLow, "energy_full:", now), Inbox{}, Session{NonCriticalShown: 4}, false},
		{"low at cap", note(TypeEnergyFull, PriorityLow, "energy_full:", now), Inbox{}, capped, true},
		{"medium zero cooldown bypasses cap", note(TypeLevelUp, PriorityMedium, "level_up:p1", now), Inbox{Items: []Notification{note(TypeLevelUp, PriorityMedium, "level_up:p1", now)}}, capped, false},
		{"same key inside cooldown", note(TypePetSick, PriorityHigh, "pet_sick:p1", now), recentSick, Session{}, true},
		{"same key after cooldown", note(TypePetSick, PriorityHigh, "pet_sick:p1", now), oldSick, Session{}, false},
		{"different pet", note(TypePetSick, PriorityHigh, "pet_sick:p2", now), recentSick, Session{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldSuppress(tt.n, tt.inbox, tt.session))
		})
	}
}

func TestInbox_CapNewestFirst(t *testing.T) {
	var in Inbox
	for i := 0; i < bible.MaxNotifications+5; i++ {
		in = in.Add(Notification{ID: fmt.Sprintf("n-%d", i), Timestamp: int64(i)})
	}

	require.Len(t, in.Items, bible.MaxNotifications)
	assert.Equal(t, fmt.Sprintf("n-%d", bible.MaxNotifications+4), in.Items[0].ID)
	assert.Equal(t, "n-5", in.Items[len(in.Items)-1].ID, "oldest five evicted")
}

func TestInbox_ReadState(t *testing.T) {
	in := Inbox{}.Add(Notification{ID: "a"}).Add(Notification{ID: "b"})
	assert.Equal(t, 2, in.UnreadCount())

	marked, ok := in.MarkRead("a")
	assert.True(t, ok)
	assert.Equal(t, 1, marked.UnreadCount())
	assert.Equal(t, 2, in.UnreadCount(), "original untouched")

	_, ok = in.MarkRead("missing")
	assert.False(t, ok)

	assert.Zero(t, in.MarkAllRead().UnreadCount())
	assert.Empty(t, in.Clear().Items)
}

func TestEmit_CountsSession(t *testing.T) {
	var (
		in   Inbox
		sess Session
		n    *Notification
	)
	ids := seqIDs()
	for i := 0; i < bible.MaxNonCriticalPerSession; i++ {
		in, sess, n = Emit(in, sess, EnergyFull{}, now+int64(i), ids)
		require.NotNil(t, n)
	}
	in, sess, n = Emit(in, sess, EnergyFull{}, now+10, ids)
	assert.Nil(t, n, "sixth low-priority notification is suppressed")

	_, _, n = Emit(in, sess, PetRanAway{PetID: "p1", PetName: "A"}, now+11, ids)
	assert.NotNil(t, n, "critical still delivered")
}

func TestBatch(t *testing.T) {
	events := []Event{
		PetHungry{PetID: "a", PetName: "A"},
		PetSick{PetID: "a", PetName: "A"},
		PetRanAway{PetID: "b", PetName: "B"},
	}

	batched := Batch(events, 30, now, seqIDs())
	require.Len(t, batched, 2)
	assert.Equal(t, TypePetRanAway, batched[0].Type)
	assert.Equal(t, TypeOfflineSummary, batched[1].Type)
	assert.Contains(t, batched[1].Message, "2 things")

	single := Batch(events, 1, now, seqIDs())
	assert.Len(t, single, 3)

	assert.Empty(t, Batch(nil, 30, now, seqIDs()))
}

func TestEvaluateHealthAlert(t *testing.T) {
	sick := pet.New("p1", "grib", "", now)
	sick.IsSick = true
	other := pet.New("p2", "grib", "", now)
	other.IsSick = true

	s := AlertSuppression{}
	s, alert := EvaluateHealthAlert(sick, "normal", s, now)
	require.NotNil(t, alert)
	assert.Equal(t, "sick", alert.Reason)

	_, alert = EvaluateHealthAlert(sick, "normal", s, now+int64(10*time.Minute/time.Millisecond))
	assert.Nil(t, alert, "per-pet cooldown")

	s, alert = EvaluateHealthAlert(sick, "normal", s, now+int64(31*time.Minute/time.Millisecond))
	assert.NotNil(t, alert)

	s, alert = EvaluateHealthAlert(other, "normal", s, now)
	assert.NotNil(t, alert)
	assert.Equal(t, bible.HealthAlertSessionCap, s.SessionAlerts)

	_, alert = EvaluateHealthAlert(other, "normal", s, now+int64(time.Hour/time.Millisecond))
	assert.Nil(t, alert, "session cap")

	healthy := pet.New("p3", "grib", "", now)
	_, alert = EvaluateHealthAlert(healthy, "normal", AlertSuppression{}, now)
	assert.Nil(t, alert)
}

func TestHealthReason(t *testing.T) {
	p := pet.New("p1", "grib", "", now)
	assert.Equal(t, "", HealthReason(p, "normal"))
	assert.Equal(t, "neglected", HealthReason(p, "withdrawn"))

	p.MoodValue = 5
	assert.Equal(t, "sad", HealthReason(p, "normal"))

	p.Hunger = 0
	assert.Equal(t, "hungry", HealthReason(p, "normal"))

	p.IsSick = true
	assert.Equal(t, "sick", HealthReason(p, "normal"))
}
