// Package ui is the terminal front-end. Every change to the game goes
// through game.Store; the model only keeps what is on screen.
package ui

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"grundy/internal/bible"
	"grundy/internal/chase"
	"grundy/internal/clock"
	"grundy/internal/economy"
	"grundy/internal/game"
	"grundy/internal/neglect"
	"grundy/internal/pet"
)

type screen int

const (
	screenMain screen = iota
	screenFood
	screenPets
	screenInbox
	screenWelcome
	screenChase
)

var menuChoices = []string{"Feed", "Play", "Medicine", "Clean", "Pets", "Inbox", "Quit"}

const (
	choiceFeed = iota
	choicePlay
	choiceMedicine
	choiceClean
	choicePets
	choiceInbox
	choiceQuit
)

const messageDuration = 3 * time.Second

// Model is the main game screen.
type Model struct {
	Store          *game.Store
	Screen         screen
	Choice         int
	FoodChoice     int
	PetChoice      int
	Message        string
	MessageExpires int64
	Animation      Animation
	Welcome        *game.OfflineResult
	Chase          chase.Model
	Width          int
	Height         int
	Quitting       bool

	rng clock.RNG
}

type tickMsg time.Time
type animTickMsg struct {
	started time.Time
}

// NewModel builds the game screen over st. A welcome result with a summary
// opens on the Welcome Back screen.
func NewModel(st *game.Store, welcome *game.OfflineResult, rng clock.RNG) Model {
	m := Model{Store: st, rng: rng}
	if welcome != nil && welcome.Summary != nil {
		m.Welcome = welcome
		m.Screen = screenWelcome
	}
	return m
}

// Run starts the full-screen game.
func Run(m Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func animTick(start time.Time) tea.Cmd {
	return tea.Tick(AnimationFrameDuration, func(t time.Time) tea.Msg {
		return animTickMsg{started: start}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		res := m.Store.Tick()
		if res.Offline != nil && res.Offline.Summary != nil {
			m.Welcome = res.Offline
			if m.Screen == screenMain {
				m.Screen = screenWelcome
			}
		}
		return m, tick()

	case animTickMsg:
		// Drop ticks that belong to an older animation
		if m.Animation.Type == AnimNone || !m.Animation.StartTime.Equal(msg.started) {
			return m, nil
		}
		m.Animation.Frame++
		if IsAnimationComplete(m.Animation) {
			m.Animation = Animation{}
			return m, nil
		}
		return m, animTick(m.Animation.StartTime)

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		if m.Screen == screenChase {
			return m.updateChase(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.Screen == screenChase {
			return m.updateChase(msg)
		}
		return m.handleKey(msg)
	}

	if m.Screen == screenChase {
		return m.updateChase(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Animation.Type != AnimNone {
		if key == "q" {
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.Screen {
	case screenWelcome:
		m.Screen = screenMain
		m.Welcome = nil
		return m, nil

	case screenInbox:
		switch key {
		case "x":
			m.Store.ClearNotifications()
		case "esc", "q", "i", "enter":
			m.Store.MarkAllNotificationsRead()
			m.Screen = screenMain
		}
		return m, nil

	case screenFood:
		foods := m.foods()
		switch key {
		case "esc", "q":
			m.Screen = screenMain
		case "up", "k":
			m.FoodChoice = max(m.FoodChoice-1, 0)
		case "down", "j":
			m.FoodChoice = min(m.FoodChoice+1, max(len(foods)-1, 0))
		case "enter", " ":
			m.Screen = screenMain
			if m.FoodChoice < len(foods) {
				return m.feed(foods[m.FoodChoice].ID)
			}
		}
		return m, nil

	case screenPets:
		ids := m.Store.State().Roster.OwnedPetIDs
		switch key {
		case "esc", "q":
			m.Screen = screenMain
		case "up", "k":
			m.PetChoice = max(m.PetChoice-1, 0)
		case "down", "j":
			m.PetChoice = min(m.PetChoice+1, max(len(ids)-1, 0))
		case "enter", " ":
			if m.PetChoice < len(ids) {
				m.switchPet(ids[m.PetChoice])
			}
		case "r":
			if m.PetChoice < len(ids) {
				m.recover(ids[m.PetChoice])
			}
		}
		return m, nil
	}

	switch key {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "i":
		m.Screen = screenInbox
	case "up", "k":
		m.Choice = max(m.Choice-1, 0)
	case "down", "j":
		m.Choice = min(m.Choice+1, len(menuChoices)-1)
	case "enter", " ":
		return m.choose()
	}
	return m, nil
}

func (m Model) choose() (tea.Model, tea.Cmd) {
	switch m.Choice {
	case choicePets:
		m.Screen = screenPets
		m.PetChoice = 0
		return m, nil
	case choiceInbox:
		m.Screen = screenInbox
		return m, nil
	case choiceQuit:
		m.Quitting = true
		return m, tea.Quit
	}

	p, ok := m.Store.ActivePet()
	if !ok {
		m.setMessage("🏃 All your pets are away. Visit Pets to call one back.")
		return m, nil
	}
	switch m.Choice {
	case choiceFeed:
		if len(m.foods()) == 0 {
			m.setMessage("🍽️ The pantry is empty")
			return m, nil
		}
		m.Screen = screenFood
		m.FoodChoice = 0
	case choicePlay:
		return m.startChase(p)
	case choiceMedicine:
		res := m.Store.UseMedicine(p.InstanceID)
		if res.Failed() {
			m.setMessage(failText(res.Failure))
			return m, nil
		}
		m.setMessage("💊 " + p.Name + " feels better!")
		return m.animate(AnimMedicine, p.InstanceID)
	case choiceClean:
		res := m.Store.CleanUp(p.InstanceID)
		if res.Failed() {
			m.setMessage(failText(res.Failure))
			return m, nil
		}
		m.setMessage(fmt.Sprintf("🧽 Cleaned up %d mess(es)", res.Removed))
		return m.animate(AnimClean, p.InstanceID)
	}
	return m, nil
}

var reactionMessages = map[bible.ReactionType]string{
	bible.ReactionEcstatic: "😍 Favorite food!",
	bible.ReactionPositive: "😋 Yum!",
	bible.ReactionNeutral:  "🙂 Thanks!",
	bible.ReactionNegative: "😖 Yuck...",
}

func (m Model) feed(foodID string) (tea.Model, tea.Cmd) {
	p, ok := m.Store.ActivePet()
	if !ok {
		return m, nil
	}
	res := m.Store.Feed(p.InstanceID, foodID)
	switch {
	case res.Failed():
		m.setMessage(failText(res.Failure))
		return m, nil
	case res.WasBlocked:
		m.setMessage("🍽️ " + p.Name + " is too full to eat!")
		return m, nil
	}

	text := reactionMessages[res.ReactionType]
	if res.GemsEarned > 0 {
		text += fmt.Sprintf(" +%d 💎", res.GemsEarned)
	}
	if res.SicknessTriggered {
		text += " ...uh oh, " + p.Name + " looks sick"
	}
	m.setMessage(text)
	return m.animate(AnimFeed, p.InstanceID)
}

// startChase checks a play is available before opening the mini-game, so a
// capped or tired player is told up front.
func (m Model) startChase(p pet.Pet) (tea.Model, tea.Cmd) {
	s := m.Store.State()
	env := m.Store.Env()
	reduction := 0
	if sp, ok := env.Catalog.SpeciesByID(p.SpeciesID); ok {
		reduction = pet.EnergyCostReduction(sp)
	}
	_, _, preview := economy.StartMiniGame(s.DailyMiniGames, s.Energy, economy.StartInput{
		Now:           env.Now,
		Location:      env.Location,
		CostReduction: reduction,
	})
	if preview.Failed() {
		m.setMessage(failText(preview.Failure))
		return m, nil
	}

	m.Chase = chase.NewModel(p, chase.Targets["butterfly"], m.rng)
	m.Screen = screenChase
	var cmds []tea.Cmd
	if m.Width > 0 && m.Height > 0 {
		updated, cmd := m.Chase.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
		m.Chase = updated.(chase.Model)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.Chase.Init())
	return m, tea.Batch(cmds...)
}

func (m Model) updateChase(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.Chase.Update(msg)
	m.Chase = updated.(chase.Model)
	if !m.Chase.Done {
		return m, cmd
	}

	// The chase model quits its own program when it ends; here it just
	// hands control back.
	m.Screen = screenMain
	res := m.Chase.Result()
	if res.Aborted {
		m.setMessage("🦋 Chase abandoned")
		return m, nil
	}
	petID := m.Chase.Pet.InstanceID
	play := m.Store.Play(petID, res.Score)
	if play.Failed() {
		m.setMessage(failText(play.Failure))
		return m, nil
	}
	slog.Debug("chase reward", "pet", petID, "score", res.Score, "tier", play.Reward.Tier)
	m.setMessage(fmt.Sprintf("🏆 %s! +%d coins, +%d xp", play.Reward.Tier, play.Reward.Coins, play.XPGained))
	return m.animate(AnimPlay, petID)
}

func (m *Model) switchPet(petID string) {
	res := m.Store.SetActivePet(petID)
	if res.Failed() {
		m.setMessage(failText(res.Failure))
		return
	}
	m.Screen = screenMain
	if res.Warning != "" {
		m.setMessage("⚠️ " + res.Warning)
		return
	}
	if p, ok := m.Store.ActivePet(); ok {
		m.setMessage(SpeciesEmoji(p.SpeciesID) + " " + p.Name + " is out to play")
	}
}

// recover spends gems on a withdrawn pet or calls a runaway one back.
func (m *Model) recover(petID string) {
	var res neglect.RecoveryResult
	switch stage := m.Store.State().StageOf(petID); {
	case stage == neglect.StageRunaway:
		res = m.Store.CallBackRunawayPet(petID)
	case stage.IsWithdrawnBand():
		res = m.Store.RecoverFromWithdrawnWithGems(petID)
	default:
		m.setMessage("💚 Nothing to recover")
		return
	}
	if res.Failed() {
		m.setMessage(failText(res.Failure))
		return
	}
	if res.GemsSpent > 0 {
		m.setMessage(fmt.Sprintf("💎 Spent %d gems. Welcome home!", res.GemsSpent))
		return
	}
	m.setMessage("🏡 Welcome home!")
}

func (m Model) animate(t AnimationType, petID string) (tea.Model, tea.Cmd) {
	m.Animation = Animation{
		Type:      t,
		Face:      m.face(petID),
		StartTime: time.Now(),
	}
	return m, animTick(m.Animation.StartTime)
}

func (m Model) face(petID string) string {
	s := m.Store.State()
	p, ok := s.Pets[petID]
	if !ok {
		return defaultFace
	}
	pose := ""
	if h := m.Store.Hints(); h.Pose != nil && h.Pose.PetID == petID {
		pose = h.Pose.Pose
	}
	return PetFace(p, s.StageOf(petID), pose)
}

func (m *Model) setMessage(text string) {
	m.Message = text
	m.MessageExpires = m.Store.Env().Now + messageDuration.Milliseconds()
}

func (m Model) messageVisible() bool {
	return m.Message != "" && m.Store.Env().Now < m.MessageExpires
}

// foods lists the foods in stock, cheapest first.
func (m Model) foods() []bible.Food {
	cat := m.Store.Env().Catalog
	var out []bible.Food
	for id, n := range m.Store.State().Inventory {
		if n <= 0 {
			continue
		}
		if f, ok := cat.Food(id); ok {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func failText(f bible.Failure) string {
	return "⚠️ " + f.Reason
}
