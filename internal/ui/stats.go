package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grundy/internal/bible"
	"grundy/internal/economy"
	"grundy/internal/game"
	"grundy/internal/neglect"
	"grundy/internal/pet"
)

// Card is everything the status box shows for one pet.
type Card struct {
	Pet        pet.Pet
	Stage      neglect.Stage
	Badges     []pet.Badge
	Mode       bible.PlayMode
	Currencies economy.Currencies
	Energy     int
	Food       int
}

// CardFor builds the card for petID, or false when the pet is not owned.
func CardFor(s game.State, petID string, now int64) (Card, bool) {
	p, ok := s.Pets[petID]
	if !ok {
		return Card{}, false
	}
	food := 0
	for id, n := range s.Inventory {
		if id != bible.MedicineID {
			food += n
		}
	}
	return Card{
		Pet:        p,
		Stage:      s.StageOf(petID),
		Badges:     s.PetStatusBadges(petID),
		Mode:       s.PlayMode,
		Currencies: s.Currencies,
		Energy:     economy.RegenEnergy(s.Energy, now).Current,
		Food:       food,
	}, true
}

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(lipgloss.Color("#FF75B5")).
	Padding(0, 1)

func makeBar(value, limit float64) string {
	filled := 0
	if limit > 0 {
		filled = int(value / limit * 5)
	}
	filled = min(max(filled, 0), 5)
	return strings.Repeat("█", filled) + strings.Repeat("░", 5-filled)
}

// Render draws the card as a bordered box.
func (c Card) Render() string {
	p := c.Pet
	rows := []struct{ name, value string }{
		{"Species", p.SpeciesID},
		{"Level", fmt.Sprintf("%d (%d xp)", p.Level, p.XP)},
		{"Mood", fmt.Sprintf("[%s] %s", makeBar(p.MoodValue, 100), pet.GetMoodTier(p.MoodValue))},
		{"Hunger", fmt.Sprintf("[%s] %s", makeBar(p.Hunger, 100), pet.GetFullnessState(p.Hunger))},
		{"Bond", fmt.Sprintf("[%s] %.0f", makeBar(p.Bond, 100), p.Bond)},
		{"Weight", fmt.Sprintf("[%s] %s", makeBar(p.Weight, 100), pet.GetWeightState(p.Weight))},
		{"Energy", fmt.Sprintf("%d/%d", c.Energy, bible.EnergyMax)},
		{"Wallet", fmt.Sprintf("%d coins, %d gems", c.Currencies.Coins, c.Currencies.Gems)},
		{"Pantry", fmt.Sprintf("%d food", c.Food)},
		{"Mode", string(c.Mode)},
	}
	if c.Stage != "" && c.Stage != neglect.StageNormal {
		rows = append(rows, struct{ name, value string }{"Neglect", string(c.Stage)})
	}

	lines := []string{gameStyles.title.Render(SpeciesEmoji(p.SpeciesID) + " " + p.Name)}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-8s %s", r.name+":", r.value))
	}
	if len(c.Badges) > 0 {
		labels := make([]string, len(c.Badges))
		for i, b := range c.Badges {
			labels[i] = b.Label
		}
		lines = append(lines, "", strings.Join(labels, "  "))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// StatsModel is a simple Bubble Tea model for displaying stats
type StatsModel struct {
	Card Card
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model
func (m StatsModel) View() string {
	return m.Card.Render() + "\n\nPress any key or click to close..."
}

// DisplayStats shows the card full-screen until a key is pressed.
func DisplayStats(c Card) error {
	program := tea.NewProgram(StatsModel{Card: c}, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("stats display: %w", err)
	}
	return nil
}
