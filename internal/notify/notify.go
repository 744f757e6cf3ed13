// Package notify turns game events into inbox notifications: a pure mapping
// table, suppression rules, a capped newest-first inbox, offline batching
// and health alerts.
package notify

import (
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"grundy/internal/bible"
)

// Priority orders how urgently a notification should be shown.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Notification is one inbox entry.
type Notification struct {
	ID        string   `json:"id"`
	Type      Type     `json:"type"`
	Priority  Priority `json:"priority"`
	Message   string   `json:"message"`
	PetID     string   `json:"petId,omitempty"`
	Timestamp int64    `json:"timestamp"`
	DeepLink  string   `json:"deepLink"`
	Read      bool     `json:"read"`
	DedupeKey string   `json:"dedupeKey"`
}

// Rule is the mapping-table row for one notification type. WithContext adds
// event detail to the dedupe key.
type Rule struct {
	Priority    Priority
	Cooldown    time.Duration
	DeepLink    string
	WithContext bool
}

// Rules is keyed by type. A zero cooldown means no dedupe window.
var Rules = map[Type]Rule{
	TypePetHungry:           {Priority: PriorityMedium, Cooldown: 2 * time.Hour, DeepLink: "shop/food"},
	TypePetSick:             {Priority: PriorityHigh, Cooldown: time.Hour, DeepLink: "shop/care"},
	TypeNeglectStageChanged: {Priority: PriorityHigh, Cooldown: 6 * time.Hour, DeepLink: "pets", WithContext: true},
	TypePetRanAway:          {Priority: PriorityCritical, DeepLink: "pets"},
	TypePetReturned:         {Priority: PriorityMedium, DeepLink: "pets"},
	TypeLevelUp:             {Priority: PriorityMedium, DeepLink: "home"},
	TypeSlotUnlocked:        {Priority: PriorityMedium, DeepLink: "pets"},
	TypeLoginStreakReward:   {Priority: PriorityMedium, DeepLink: "home"},
	TypeDailyFeedBonus:      {Priority: PriorityLow, DeepLink: "home"},
	TypeMiniGameReward:      {Priority: PriorityLow, DeepLink: "minigames"},
	TypeEnergyFull:          {Priority: PriorityLow, DeepLink: "minigames"},
	TypeCosmeticPurchased:   {Priority: PriorityLow, DeepLink: "shop/cosmetics"},
	TypeOfflineSummary:      {Priority: PriorityHigh, DeepLink: "home"},
	TypeHealthAlert:         {Priority: PriorityHigh, Cooldown: bible.HealthAlertCooldown, DeepLink: "home", WithContext: true},
}

// Localizer is the printer contract used for message copy.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

var defaultPrinter = message.NewPrinter(language.English)

// Printer returns the English printer.
func Printer() Localizer {
	return defaultPrinter
}

// Map converts ev into a notification. It reports false for events that do
// not warrant one. The result is not yet checked for suppression.
func Map(ev Event, now int64, newID func() string) (Notification, bool) {
	return MapWith(defaultPrinter, ev, now, newID)
}

// MapWith is Map with an explicit localizer.
func MapWith(loc Localizer, ev Event, now int64, newID func() string) (Notification, bool) {
	var (
		petID  string
		detail string
		msg    string
	)

	switch e := ev.(type) {
	case PetHungry:
		petID = e.PetID
		msg = loc.Sprintf("notify.pet_hungry", e.PetName)
	case PetSick:
		petID = e.PetID
		msg = loc.Sprintf("notify.pet_sick", e.PetName)
	case NeglectStageChanged:
		petID, detail = e.PetID, e.Stage
		msg = loc.Sprintf("notify.neglect_stage."+e.Stage, e.PetName)
	case PetRanAway:
		petID = e.PetID
		msg = loc.Sprintf("notify.pet_ran_away", e.PetName)
	case PetReturned:
		petID = e.PetID
		msg = loc.Sprintf("notify.pet_returned", e.PetName)
	case LevelUp:
		petID = e.PetID
		msg = loc.Sprintf("notify.level_up", e.PetName, e.Level, e.Gems)
	case SlotUnlocked:
		msg = loc.Sprintf("notify.slot_unlocked", e.Slot)
	case LoginStreakReward:
		if e.Gems <= 0 {
			return Notification{}, false
		}
		msg = loc.Sprintf("notify.login_streak", e.Day, e.Gems)
	case DailyFeedBonus:
		if e.Gems <= 0 {
			return Notification{}, false
		}
		petID = e.PetID
		msg = loc.Sprintf("notify.daily_feed_bonus", e.Gems)
	case MiniGameReward:
		petID = e.PetID
		msg = loc.Sprintf("notify.minigame_reward", titleCase(e.Tier), e.Coins, e.XP)
	case EnergyFull:
		msg = loc.Sprintf("notify.energy_full")
	case CosmeticPurchased:
		petID = e.PetID
		msg = loc.Sprintf("notify.cosmetic_purchased", e.Name)
	case OfflineSummary:
		msg = loc.Sprintf("notify.offline_summary", e.Events, e.Hours)
	case HealthAlert:
		petID, detail = e.PetID, e.Reason
		msg = loc.Sprintf("notify.health_alert."+e.Reason, e.PetName)
	default:
		slog.Warn("unmapped notification event", "event", ev)
		return Notification{}, false
	}

	typ := ev.Kind()
	rule := Rules[typ]
	if !rule.WithContext {
		detail = ""
	}
	return Notification{
		ID:        newID(),
		Type:      typ,
		Priority:  rule.Priority,
		Message:   msg,
		PetID:     petID,
		Timestamp: now,
		DeepLink:  SanitizeDeepLink(rule.DeepLink),
		DedupeKey: DedupeKey(typ, petID, detail),
	}, true
}

// DedupeKey builds type:petId[:context], with context cut to
// DedupeContextMax runes.
func DedupeKey(typ Type, petID, context string) string {
	key := string(typ) + ":" + petID
	if context == "" {
		return key
	}
	if r := []rune(context); len(r) > bible.DedupeContextMax {
		context = string(r[:bible.DedupeContextMax])
	}
	return key + ":" + context
}

var allowedDeepLinks = map[string]bool{
	"home":           true,
	"shop":           true,
	"shop/food":      true,
	"shop/care":      true,
	"shop/cosmetics": true,
	"shop/gems":      true,
	"pets":           true,
	"minigames":      true,
	"inventory":      true,
	"settings":       true,
}

// SanitizeDeepLink returns target if it is on the allow-list, otherwise home.
func SanitizeDeepLink(target string) string {
	t := strings.Trim(strings.ToLower(strings.TrimSpace(target)), "/")
	if allowedDeepLinks[t] {
		return t
	}
	return "home"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
