package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"grundy/internal/neglect"
	"grundy/internal/notify"
)

var gameStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	alert   lipgloss.Style
	dim     lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF75B5")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(40),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	alert: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF0000")),

	dim: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")),
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}
	switch m.Screen {
	case screenChase:
		return m.Chase.View()
	case screenWelcome:
		return m.renderWelcome()
	case screenInbox:
		return m.renderInbox()
	}
	if m.Animation.Type != AnimNone {
		return m.renderAnimation()
	}

	s := m.Store.State()
	sections := []string{}
	if p, ok := s.ActivePet(); ok {
		face := m.face(p.InstanceID)
		sections = append(sections, gameStyles.title.Render(fmt.Sprintf("%s %s  Lv %d", face, p.Name, p.Level)))
		if card, ok := CardFor(s, p.InstanceID, m.Store.Env().Now); ok {
			sections = append(sections, card.Render())
		}
	} else {
		sections = append(sections,
			gameStyles.title.Render("🏚️ Nobody's home"),
			gameStyles.status.Render("All your pets are away. Call one back from the Pets menu."))
	}
	sections = append(sections, m.renderIndicators())

	if m.messageVisible() {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}

	help := "arrows to move • enter to select • i inbox • q to quit"
	switch m.Screen {
	case screenFood:
		sections = append(sections, "", m.renderFoodPicker())
		help = "arrows to pick • enter to feed • esc back"
	case screenPets:
		sections = append(sections, "", m.renderPets())
		help = "enter to switch • r to recover • esc back"
	default:
		sections = append(sections, "", m.renderMenu())
	}
	sections = append(sections, "", gameStyles.dim.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderIndicators is the inbox and other-pets line under the card.
func (m Model) renderIndicators() string {
	s := m.Store.State()
	parts := []string{fmt.Sprintf("📬 %d unread", s.UnreadCount())}
	if n := s.AggregatedBadgeCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("🔔 %d on other pets", n))
	}
	return gameStyles.status.Render(strings.Join(parts, "   "))
}

func (m Model) renderMenu() string {
	var items []string
	for i, choice := range menuChoices {
		if m.Choice == i {
			items = append(items, gameStyles.menu.Render("> "+choice))
			continue
		}
		items = append(items, "  "+choice)
	}
	return gameStyles.menuBox.Render(strings.Join(items, "\n"))
}

func (m Model) renderFoodPicker() string {
	inv := m.Store.State().Inventory
	var items []string
	for i, f := range m.foods() {
		cursor := " "
		if m.FoodChoice == i {
			cursor = ">"
		}
		items = append(items, fmt.Sprintf("%s %-14s x%d", cursor, f.Name, inv[f.ID]))
	}
	return gameStyles.menuBox.Render(strings.Join(items, "\n"))
}

func (m Model) renderPets() string {
	s := m.Store.State()
	var items []string
	for i, id := range s.Roster.OwnedPetIDs {
		p := s.Pets[id]
		cursor := " "
		if m.PetChoice == i {
			cursor = ">"
		}
		active := " "
		if id == s.Roster.ActivePetID {
			active = "★"
		}
		line := fmt.Sprintf("%s %s %s %-10s Lv %-2d", cursor, active, SpeciesEmoji(p.SpeciesID), p.Name, p.Level)
		if stage := s.StageOf(id); stage != neglect.StageNormal {
			line += " " + string(stage)
		}
		if n := len(s.PetStatusBadges(id)); n > 0 {
			line += fmt.Sprintf(" (%d)", n)
		}
		items = append(items, line)
	}
	items = append(items, "", gameStyles.dim.Render(fmt.Sprintf("slots %d/%d unlocked", s.Roster.UnlockedSlots, len(m.Store.SlotStatuses()))))
	return gameStyles.menuBox.Render(strings.Join(items, "\n"))
}

func (m Model) renderWelcome() string {
	sections := []string{gameStyles.title.Render("🏡 Welcome back!")}
	if m.Welcome == nil || m.Welcome.Summary == nil {
		return sections[0]
	}
	sum := m.Welcome.Summary
	sections = append(sections, gameStyles.status.Render(fmt.Sprintf("You were away %.1f hours.", sum.HoursOffline)), "")

	for _, c := range sum.PetChanges {
		line := fmt.Sprintf("%s: mood %+.0f, hunger %+.0f, bond %+.1f", c.PetName, c.MoodChange, c.HungerChange, c.BondChange)
		var extra []string
		if c.BecameSick {
			extra = append(extra, "got sick")
		}
		if c.PoopsAdded > 0 {
			extra = append(extra, fmt.Sprintf("%d mess(es)", c.PoopsAdded))
		}
		if c.NewStage != "" && c.NewStage != neglect.StageNormal {
			extra = append(extra, string(c.NewStage))
		}
		if len(extra) > 0 {
			line += " (" + strings.Join(extra, ", ") + ")"
		}
		sections = append(sections, gameStyles.menuBox.Render(line))
	}

	for _, n := range m.Welcome.Notifications {
		if n.Priority == notify.PriorityCritical {
			sections = append(sections, "", gameStyles.alert.Render("⚠️ "+n.Message))
		}
	}
	if m.Welcome.AutoSwitch.AllPetsAway {
		sections = append(sections, "", gameStyles.alert.Render("All your pets have run away."))
	}
	sections = append(sections, "", gameStyles.dim.Render("Press any key to continue"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderInbox() string {
	ns := m.Store.Notifications()
	sections := []string{gameStyles.title.Render(fmt.Sprintf("📬 Inbox (%d)", len(ns)))}
	if len(ns) == 0 {
		sections = append(sections, "", gameStyles.dim.Render("Nothing new."))
	}
	for _, n := range ns {
		marker := " "
		if !n.Read {
			marker = "•"
		}
		line := fmt.Sprintf("%s %s", marker, n.Message)
		if n.Priority == notify.PriorityCritical {
			line = gameStyles.alert.Render(line)
		}
		sections = append(sections, line)
	}
	sections = append(sections, "", gameStyles.dim.Render("enter to mark read • x to clear • esc back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderAnimation() string {
	animStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD700")).
		Bold(true).
		Padding(1, 2)

	title := "✨"
	if p, ok := m.Store.ActivePet(); ok {
		title = SpeciesEmoji(p.SpeciesID) + " " + p.Name
	}
	sections := []string{
		gameStyles.title.Render(title),
		"",
		animStyle.Render(GetAnimationFrame(m.Animation)),
	}
	if m.messageVisible() {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
