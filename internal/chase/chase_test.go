package chase

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"grundy/internal/clock"
	"grundy/internal/economy"
	"grundy/internal/pet"
)

func newPet() pet.Pet {
	return pet.New("p1", "munchlet", "", 0)
}

func sized(m Model, w, h int) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		catches int
		misses  int
		want    int
	}{
		{"nothing", 0, 0, 0},
		{"perfect game", 10, 0, 200},
		{"misses only never negative", 0, 10, 0},
		{"mixed", 6, 4, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.catches, tt.misses); got != tt.want {
				t.Errorf("Score(%d, %d) = %d, want %d", tt.catches, tt.misses, got, tt.want)
			}
		})
	}
}

func TestScore_ReachesEveryTier(t *testing.T) {
	tests := []struct {
		catches int
		want    economy.Tier
	}{
		{0, economy.TierBronze},
		{4, economy.TierSilver},
		{6, economy.TierGold},
		{8, economy.TierRainbow},
	}
	for _, tt := range tests {
		score := Score(tt.catches, DefaultRounds-tt.catches)
		if got := economy.MiniGameTier(score); got != tt.want {
			t.Errorf("%d catches: score %d is %s, want %s", tt.catches, score, got, tt.want)
		}
	}
}

func TestTargets(t *testing.T) {
	for name, target := range Targets {
		if target.Name != name {
			t.Errorf("Targets[%q].Name = %q", name, target.Name)
		}
		if target.Emoji == "" {
			t.Errorf("Targets[%q] has no emoji", name)
		}
		if target.Speed <= 0 {
			t.Errorf("Targets[%q].Speed = %d, want > 0", name, target.Speed)
		}
	}
}

func TestModel_Init(t *testing.T) {
	m := NewModel(newPet(), Targets["butterfly"], clock.FixedRNG(0))
	if m.Init() == nil {
		t.Error("Init() returned nil command")
	}
	if m.Rounds != DefaultRounds {
		t.Errorf("Rounds = %d, want %d", m.Rounds, DefaultRounds)
	}
}

func TestModel_ResizeSpawnsTarget(t *testing.T) {
	m := sized(NewModel(newPet(), Targets["butterfly"], clock.FixedRNG(0)), 80, 24)

	if m.TargetPosX != m.maxX() {
		t.Errorf("TargetPosX = %d, want right edge %d", m.TargetPosX, m.maxX())
	}
	if m.TermWidth != 80 || m.TermHeight != 24 {
		t.Errorf("size = %dx%d, want 80x24", m.TermWidth, m.TermHeight)
	}
}

func TestModel_ArrowKeysMovePet(t *testing.T) {
	m := sized(NewModel(newPet(), Targets["butterfly"], clock.FixedRNG(0)), 80, 24)

	for _, key := range []tea.KeyType{tea.KeyDown, tea.KeyDown, tea.KeyRight} {
		updated, _ := m.Update(tea.KeyMsg{Type: key})
		m = updated.(Model)
	}
	if m.PetPosX != 1 || m.PetPosY != 2 {
		t.Errorf("pet at (%d,%d), want (1,2)", m.PetPosX, m.PetPosY)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyUp})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := updated.(Model).PetPosY; got != 0 {
		t.Errorf("PetPosY = %d, want clamped to 0", got)
	}
}

func TestModel_QuitAborts(t *testing.T) {
	m := NewModel(newPet(), Targets["butterfly"], clock.FixedRNG(0))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	if cmd == nil {
		t.Fatal("expected tea.Quit")
	}
	if !updated.(Model).Result().Aborted {
		t.Error("quitting should mark the game aborted")
	}
}

func TestModel_TargetMovesLeft(t *testing.T) {
	m := sized(NewModel(newPet(), Targets["butterfly"], clock.FixedRNG(0)), 80, 24)
	start := m.TargetPosX

	for range m.Target.Speed {
		updated, _ := m.Update(animTickMsg(time.Now()))
		m = updated.(Model)
	}

	if m.TargetPosX != start-1 {
		t.Errorf("TargetPosX = %d, want %d", m.TargetPosX, start-1)
	}
}

func TestModel_EscapeCountsMiss(t *testing.T) {
	m := sized(NewModel(newPet(), Targets["mouse"], clock.FixedRNG(0)), 80, 24)
	m.PetPosY = m.visibleRows() - 1
	m.TargetPosX = 1
	m.Frame = 1

	updated, cmd := m.Update(animTickMsg(time.Now()))
	m = updated.(Model)

	if m.Misses != 1 {
		t.Errorf("Misses = %d, want 1", m.Misses)
	}
	if cmd == nil {
		t.Error("game should continue")
	}
	if m.TargetPosX != m.maxX() {
		t.Errorf("next target should spawn at the right edge, got %d", m.TargetPosX)
	}
}

func TestModel_CatchCountsAndLastRoundEnds(t *testing.T) {
	m := sized(NewModel(newPet(), Targets["butterfly"], clock.FixedRNG(0)), 80, 24)
	m.Rounds = 1
	m.PetPosX, m.PetPosY = 10, 5
	m.TargetPosX, m.TargetPosY = 11, 5

	updated, cmd := m.Update(animTickMsg(time.Now()))
	m = updated.(Model)

	if m.Catches != 1 {
		t.Errorf("Catches = %d, want 1", m.Catches)
	}
	if !m.Done || cmd == nil {
		t.Error("last round should end the game")
	}
	res := m.Result()
	if res.Score != CatchPoints || res.Aborted {
		t.Errorf("Result = %+v", res)
	}

	if _, cmd := m.Update(animTickMsg(time.Now())); cmd != nil {
		t.Error("ticks after the game ends should be ignored")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(newPet(), Targets["butterfly"], clock.FixedRNG(0))
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View before resize = %q", got)
	}

	m = sized(m, 60, 20)
	view := m.View()
	if !strings.Contains(view, "🦋") {
		t.Error("view should contain the target")
	}
	if !strings.Contains(view, "caught: 0") {
		t.Error("view should show the score line")
	}
	// HUD + rows + help
	if lines := strings.Count(view, "\n"); lines != m.visibleRows()+1 {
		t.Errorf("view has %d newlines, want %d", lines, m.visibleRows()+1)
	}
}

func TestVisibleRowsMinimum(t *testing.T) {
	m := Model{TermHeight: 3}
	if got := m.visibleRows(); got != minVisibleRows {
		t.Errorf("visibleRows() = %d, want %d", got, minVisibleRows)
	}
}

func TestGetChaseEmoji(t *testing.T) {
	base := newPet()
	sick := pet.SetSick(base, 0)
	hungry := base
	hungry.Hunger = 5
	sad := base
	sad.MoodValue = 10
	content := base
	content.MoodValue = 50

	tests := []struct {
		name  string
		p     pet.Pet
		dx    int
		dy    int
		emoji string
	}{
		{"about to catch", sick, 1, 0, "😻"},
		{"sick", sick, 10, 5, "🤢"},
		{"hungry", hungry, 10, 5, "🙀"},
		{"sad", sad, 10, 5, "😿"},
		{"happy", base, 10, 5, "😸"},
		{"content", content, 10, 5, "😺"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getChaseEmoji(tt.p, tt.dx, tt.dy); got != tt.emoji {
				t.Errorf("getChaseEmoji() = %q, want %q", got, tt.emoji)
			}
		})
	}
}
