// Package chase is the Butterfly Chase mini-game. The player steers the pet
// to catch butterflies fluttering across the screen; the result is a score
// the game store turns into a mini-game reward.
package chase

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grundy/internal/bible"
	"grundy/internal/clock"
	"grundy/internal/pet"
)

const (
	tickInterval   = 70 * time.Millisecond
	minVisibleRows = 6

	// DefaultRounds is how many targets cross the screen in one game.
	DefaultRounds = 10
	CatchPoints   = 20
	MissPenalty   = 5
)

// Score converts a finished game into a mini-game score. It never goes
// below zero.
func Score(catches, misses int) int {
	return max(0, catches*CatchPoints-misses*MissPenalty)
}

// getChaseEmoji picks the pet's face from its state and how close the
// target is.
func getChaseEmoji(p pet.Pet, distX, distY int) string {
	if absInt(distX) <= 2 && absInt(distY) <= 1 {
		return "😻"
	}
	if p.IsSick {
		return "🤢"
	}
	if pet.GetFullnessState(p.Hunger) == bible.FullnessHungry {
		return "🙀"
	}
	switch pet.GetMoodTier(p.MoodValue) {
	case bible.MoodSad, bible.MoodLow:
		return "😿"
	case bible.MoodHappy:
		return "😸"
	}
	return "😺"
}

// Target defines what the pet can chase
type Target struct {
	Emoji string
	Name  string
	Speed int // Frames to move 1 position
}

var Targets = map[string]Target{
	"butterfly": {Emoji: "🦋", Name: "butterfly", Speed: 3},
	"ball":      {Emoji: "⚽", Name: "ball", Speed: 4},
	"mouse":     {Emoji: "🐁", Name: "mouse", Speed: 2},
}

// Result is the outcome of one game.
type Result struct {
	Catches int
	Misses  int
	Score   int
	Aborted bool
}

// Model is the Bubble Tea model for one game of chase.
type Model struct {
	Pet        pet.Pet
	Target     Target
	Rounds     int
	TermWidth  int
	TermHeight int
	PetPosX    int
	PetPosY    int
	TargetPosX int
	TargetPosY int
	Frame      int
	Catches    int
	Misses     int
	Done       bool
	Aborted    bool

	phase float64
	rng   clock.RNG
}

type animTickMsg time.Time

// NewModel starts a game for p. rng varies each target's flight path.
func NewModel(p pet.Pet, target Target, rng clock.RNG) Model {
	if rng == nil {
		rng = clock.CryptoRNG()
	}
	return Model{
		Pet:    p,
		Target: target,
		Rounds: DefaultRounds,
		rng:    rng,
	}
}

// Result reports the game so far.
func (m Model) Result() Result {
	return Result{
		Catches: m.Catches,
		Misses:  m.Misses,
		Score:   Score(m.Catches, m.Misses),
		Aborted: m.Aborted,
	}
}

// Run plays one full-screen game and returns its result.
func Run(p pet.Pet, rng clock.RNG) (Result, error) {
	program := tea.NewProgram(NewModel(p, Targets["butterfly"], rng), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return Result{}, fmt.Errorf("chase: %w", err)
	}
	res := final.(Model).Result()
	slog.Info("chase finished", "catches", res.Catches, "misses", res.Misses, "score", res.Score, "aborted", res.Aborted)
	return res, nil
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Aborted = true
			m.Done = true
			return m, tea.Quit
		case "up", "k":
			m.PetPosY--
		case "down", "j":
			m.PetPosY++
		case "left", "h":
			m.PetPosX--
		case "right", "l":
			m.PetPosX++
		}
		m.clampPositions()
		return m, nil

	case tea.WindowSizeMsg:
		m.TermWidth = msg.Width
		m.TermHeight = msg.Height
		if m.TargetPosX == 0 {
			m.spawn()
		}
		m.clampPositions()
		return m, nil

	case animTickMsg:
		if m.Done {
			return m, nil
		}
		m.Frame++
		if m.TermWidth == 0 || m.TermHeight == 0 {
			return m, tick()
		}

		if m.Frame%m.Target.Speed == 0 {
			m.TargetPosX--
			if m.TargetPosX <= 0 {
				m.Misses++
				return m.nextRound()
			}

			height := float64(m.visibleRows() - 1)
			amplitude := height / 3.0
			centerY := height / 2.0
			m.TargetPosY = int(centerY + amplitude*math.Sin(float64(m.TargetPosX)*0.2+m.phase))
			m.clampPositions()
		}

		if absInt(m.TargetPosX-m.PetPosX) <= 1 && m.TargetPosY == m.PetPosY {
			m.Catches++
			return m.nextRound()
		}
		return m, tick()
	}

	return m, nil
}

func (m Model) nextRound() (tea.Model, tea.Cmd) {
	if m.Catches+m.Misses >= m.Rounds {
		m.Done = true
		return m, tea.Quit
	}
	m.spawn()
	return m, tick()
}

// spawn puts a fresh target at the right edge.
func (m *Model) spawn() {
	m.TargetPosX = m.maxX()
	if m.rng != nil {
		m.phase = m.rng.Float64() * 2 * math.Pi
	}
	m.TargetPosY = m.visibleRows() / 2
	m.clampPositions()
}

var (
	hudStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF75B5"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// View implements tea.Model
func (m Model) View() string {
	if m.TermWidth == 0 || m.TermHeight == 0 {
		return "Initializing..."
	}

	rows := m.visibleRows()
	petEmoji := getChaseEmoji(m.Pet, m.TargetPosX-m.PetPosX, m.TargetPosY-m.PetPosY)

	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", m.TermWidth))
	}
	place := func(x, y int, emoji string) {
		if y < 0 || y >= rows || x < 0 || x > m.maxX() {
			return
		}
		for i, r := range []rune(emoji) {
			if x+i < m.TermWidth {
				grid[y][x+i] = r
			}
		}
	}
	place(m.TargetPosX, m.TargetPosY, m.Target.Emoji)
	place(m.PetPosX, m.PetPosY, petEmoji)

	var b strings.Builder
	b.WriteString(hudStyle.Render(fmt.Sprintf("%s caught: %d  missed: %d  score: %d  (%d/%d)",
		m.Target.Emoji, m.Catches, m.Misses, Score(m.Catches, m.Misses), m.Catches+m.Misses, m.Rounds)))
	b.WriteRune('\n')
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteRune('\n')
	}
	b.WriteString(helpStyle.Render("arrows to move • q to give up"))
	return b.String()
}

func (m *Model) clampPositions() {
	rows := m.visibleRows()
	if rows < 1 {
		return
	}
	m.PetPosX = min(max(m.PetPosX, 0), m.maxX())
	m.TargetPosX = min(max(m.TargetPosX, 0), m.maxX())
	m.PetPosY = min(max(m.PetPosY, 0), rows-1)
	m.TargetPosY = min(max(m.TargetPosY, 0), rows-1)
}

func (m Model) visibleRows() int {
	if m.TermHeight <= 0 {
		return 0
	}
	return max(m.TermHeight-2, minVisibleRows)
}

func (m Model) maxX() int {
	if m.TermWidth <= 2 {
		return 0
	}
	return m.TermWidth - 2
}
