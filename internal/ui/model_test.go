package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"grundy/internal/bible"
	"grundy/internal/clock"
	"grundy/internal/game"
	"grundy/internal/neglect"
	"grundy/internal/offline"
	"grundy/internal/pet"
)

const testNow = int64(1_699_963_200_000)

func newTestStore(t *testing.T, s game.State) *game.Store {
	t.Helper()
	n := 0
	return game.NewStore(s,
		game.WithClock(clock.Fixed(testNow)),
		game.WithRNG(clock.FixedRNG(0.5)),
		game.WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		game.WithLocation(time.UTC),
	)
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	st := newTestStore(t, game.NewState("p1", "munchlet", "Momo", bible.ModeCozy, testNow))
	return NewModel(st, nil, clock.FixedRNG(0))
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestNewModel_OpensWelcomeBack(t *testing.T) {
	st := newTestStore(t, game.NewState("p1", "munchlet", "Momo", bible.ModeCozy, testNow))
	welcome := &game.OfflineResult{Summary: &offline.Summary{
		HoursOffline: 5,
		PetChanges:   []offline.PetChange{{PetName: "Momo", MoodChange: -12}},
	}}

	m := NewModel(st, welcome, nil)
	if m.Screen != screenWelcome {
		t.Fatalf("Screen = %v, want welcome", m.Screen)
	}
	view := m.View()
	if !strings.Contains(view, "Welcome back") || !strings.Contains(view, "Momo: mood -12") {
		t.Errorf("welcome view = %q", view)
	}

	m = press(m, "x")
	if m.Screen != screenMain || m.Welcome != nil {
		t.Error("any key should dismiss the welcome screen")
	}
}

func TestNewModel_NoSummaryStartsOnMain(t *testing.T) {
	st := newTestStore(t, game.NewState("p1", "munchlet", "", bible.ModeCozy, testNow))
	m := NewModel(st, &game.OfflineResult{}, nil)
	if m.Screen != screenMain {
		t.Errorf("Screen = %v, want main", m.Screen)
	}
}

func TestModel_FeedFromPicker(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "enter")
	if m.Screen != screenFood {
		t.Fatalf("Screen = %v, want food picker", m.Screen)
	}
	if !strings.Contains(m.View(), "Apple") {
		t.Error("picker should list apples")
	}

	m = press(m, "enter")
	if m.Screen != screenMain {
		t.Errorf("Screen = %v, want main after feeding", m.Screen)
	}
	if got := m.Store.State().Inventory["apple"]; got != 2 {
		t.Errorf("apples = %d, want 2", got)
	}
	if m.Animation.Type != AnimFeed {
		t.Errorf("Animation = %v, want feed", m.Animation.Type)
	}
	if !strings.Contains(m.Message, "Yum") {
		t.Errorf("Message = %q", m.Message)
	}
}

func TestModel_FeedWithEmptyPantry(t *testing.T) {
	s := game.NewState("p1", "munchlet", "", bible.ModeCozy, testNow)
	s.Inventory = map[string]int{}
	m := NewModel(newTestStore(t, s), nil, nil)

	m = press(m, "enter")

	if m.Screen != screenMain {
		t.Error("an empty pantry should not open the picker")
	}
	if !strings.Contains(m.Message, "empty") {
		t.Errorf("Message = %q", m.Message)
	}
}

func TestModel_MedicineInCozyShowsReason(t *testing.T) {
	m := newTestModel(t)
	m.Choice = choiceMedicine

	m = press(m, "enter")

	if m.Animation.Type != AnimNone {
		t.Error("a failed action should not animate")
	}
	if !strings.Contains(m.Message, "Cozy") {
		t.Errorf("Message = %q", m.Message)
	}
}

func TestModel_InputIgnoredDuringAnimation(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "enter", "enter")
	before := m.Store.State().Inventory["apple"]

	m = press(m, "enter", "enter")

	if got := m.Store.State().Inventory["apple"]; got != before {
		t.Errorf("apples = %d, want %d", got, before)
	}
}

func TestModel_AnimationRunsToCompletion(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "enter", "enter")
	start := m.Animation.StartTime

	for range AnimationTotalFrames(AnimFeed) {
		updated, _ := m.Update(animTickMsg{started: start})
		m = updated.(Model)
	}
	if m.Animation.Type != AnimNone {
		t.Error("animation should be cleared after its last frame")
	}

	if _, cmd := m.Update(animTickMsg{started: start}); cmd != nil {
		t.Error("stale animation ticks should be dropped")
	}
}

func TestModel_ChaseAbandoned(t *testing.T) {
	m := newTestModel(t)
	m.Choice = choicePlay

	m = press(m, "enter")
	if m.Screen != screenChase {
		t.Fatalf("Screen = %v, want chase", m.Screen)
	}
	m = press(m, "q")

	if m.Screen != screenMain {
		t.Errorf("Screen = %v, want main", m.Screen)
	}
	if m.Quitting {
		t.Error("leaving the chase should not quit the game")
	}
	if m.Store.State().DailyMiniGames.Plays != 0 {
		t.Error("an abandoned chase should not spend a play")
	}
}

func TestModel_ChasePaysReward(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	coins := m.Store.State().Currencies.Coins
	m.Choice = choicePlay
	m = press(m, "enter")

	m.Chase.Catches, m.Chase.Misses, m.Chase.Done = 8, 2, true
	m = press(m, "x")

	s := m.Store.State()
	if s.DailyMiniGames.Plays != 1 {
		t.Errorf("Plays = %d, want 1", s.DailyMiniGames.Plays)
	}
	if s.Currencies.Coins <= coins {
		t.Errorf("coins = %d, want more than %d", s.Currencies.Coins, coins)
	}
	if !strings.Contains(m.Message, "rainbow") {
		t.Errorf("Message = %q", m.Message)
	}
	if m.Animation.Type != AnimPlay {
		t.Errorf("Animation = %v, want play", m.Animation.Type)
	}
}

func TestModel_PlayBlockedAtDailyCap(t *testing.T) {
	s := game.NewState("p1", "munchlet", "", bible.ModeCozy, testNow)
	s.DailyMiniGames.DateKey = clock.DateKey(testNow, time.UTC)
	s.DailyMiniGames.Plays = bible.MiniGameDailyCap
	m := NewModel(newTestStore(t, s), nil, nil)
	m.Choice = choicePlay

	m = press(m, "enter")

	if m.Screen != screenMain {
		t.Errorf("Screen = %v, want main", m.Screen)
	}
	if m.Message == "" {
		t.Error("expected the cap reason")
	}
}

func TestModel_SwitchPets(t *testing.T) {
	s := game.NewState("p1", "munchlet", "Momo", bible.ModeCozy, testNow)
	s.Roster.UnlockedSlots = 2
	st := newTestStore(t, s)
	adopt := st.AdoptPet("grib", "Gus")
	if !adopt.Success {
		t.Fatalf("adopt failed: %+v", adopt.Failure)
	}
	m := NewModel(st, nil, nil)
	m.Choice = choicePets

	m = press(m, "enter")
	if m.Screen != screenPets {
		t.Fatalf("Screen = %v, want pets", m.Screen)
	}
	if view := m.View(); !strings.Contains(view, "Gus") || !strings.Contains(view, "★") {
		t.Errorf("pets view = %q", view)
	}

	m = press(m, "down", "enter")

	if got := st.State().Roster.ActivePetID; got != adopt.PetID {
		t.Errorf("ActivePetID = %q, want %q", got, adopt.PetID)
	}
	if m.Screen != screenMain {
		t.Error("switching should return to the main screen")
	}
}

func TestModel_RecoverNothingToDo(t *testing.T) {
	m := newTestModel(t)
	m.Choice = choicePets
	m = press(m, "enter", "r")

	if !strings.Contains(m.Message, "Nothing to recover") {
		t.Errorf("Message = %q", m.Message)
	}
}

func TestModel_RecoverWithdrawnPet(t *testing.T) {
	s := game.NewState("p1", "munchlet", "", bible.ModeClassic, testNow)
	s.Currencies.Gems = 100
	s.Neglect["p1"] = neglect.State{NeglectDays: 8, CurrentStage: neglect.StageWithdrawn, IsWithdrawn: true}
	st := newTestStore(t, s)
	m := NewModel(st, nil, nil)
	m.Choice = choicePets

	m = press(m, "enter", "r")

	if got := st.State().StageOf("p1"); got != neglect.StageNormal {
		t.Errorf("stage = %s, want normal", got)
	}
	if got := st.State().Currencies.Gems; got != 100-bible.WithdrawnRecoveryGems {
		t.Errorf("gems = %d", got)
	}
}

func TestModel_InboxMarksRead(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "enter", "enter")
	if m.Store.State().UnreadCount() == 0 {
		t.Fatal("the first feed of the day should leave a notification")
	}
	m.Animation = Animation{}

	m = press(m, "i")
	if m.Screen != screenInbox {
		t.Fatalf("Screen = %v, want inbox", m.Screen)
	}
	if !strings.Contains(m.View(), "Inbox") {
		t.Error("inbox view should have a title")
	}
	m = press(m, "enter")

	if got := m.Store.State().UnreadCount(); got != 0 {
		t.Errorf("UnreadCount = %d, want 0", got)
	}
	if m.Screen != screenMain {
		t.Error("closing the inbox should return to main")
	}
}

func TestModel_TickAdvancesGame(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(tickMsg(time.Now()))

	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if updated.(Model).Screen != screenMain {
		t.Error("a short tick should not open the welcome screen")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	m.Choice = choiceQuit

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil || !updated.(Model).Quitting {
		t.Error("Quit should stop the program")
	}
	if got := updated.View(); got != "Thanks for playing!\n" {
		t.Errorf("View = %q", got)
	}
}

func TestModel_MainView(t *testing.T) {
	m := newTestModel(t)

	view := m.View()

	for _, want := range []string{"Momo", "Lv 1", "unread", "Feed", "Play", "Medicine"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_AllPetsAwayView(t *testing.T) {
	s := game.NewState("p1", "munchlet", "", bible.ModeClassic, testNow)
	s.Roster.ActivePetID = ""
	s.Roster.AllPetsAway = true
	m := NewModel(newTestStore(t, s), nil, nil)

	if !strings.Contains(m.View(), "away") {
		t.Error("view should say the pets are away")
	}
	m = press(m, "enter")
	if m.Screen != screenMain || !strings.Contains(m.Message, "away") {
		t.Errorf("feeding with nobody home: screen %v, message %q", m.Screen, m.Message)
	}
}

func TestPetFace(t *testing.T) {
	base := pet.New("p1", "grib", "", 0)
	sick := pet.SetSick(base, 0)
	hungry := base
	hungry.Hunger = 5
	sad := base
	sad.MoodValue = 5

	tests := []struct {
		name  string
		p     pet.Pet
		stage neglect.Stage
		pose  string
		want  string
	}{
		{"resting shows species", base, neglect.StageNormal, "", "🐸"},
		{"pose wins", sick, neglect.StageNormal, "positive", "😋"},
		{"play pose", base, neglect.StageNormal, "happy", "😸"},
		{"runaway", base, neglect.StageRunaway, "", "🏃"},
		{"sick", sick, neglect.StageNormal, "", "🤢"},
		{"withdrawn", base, neglect.StageCritical, "", "🥀"},
		{"hungry", hungry, neglect.StageNormal, "", "🙀"},
		{"sad", sad, neglect.StageNormal, "", "😿"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PetFace(tt.p, tt.stage, tt.pose); got != tt.want {
				t.Errorf("PetFace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpeciesEmoji_Unknown(t *testing.T) {
	if got := SpeciesEmoji("dragonfly"); got != defaultFace {
		t.Errorf("SpeciesEmoji(unknown) = %q", got)
	}
}
