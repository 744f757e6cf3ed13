package game

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"grundy/internal/bible"
	"grundy/internal/cosmetics"
	"grundy/internal/economy"
	"grundy/internal/neglect"
	"grundy/internal/notify"
	"grundy/internal/pet"
	"grundy/internal/roster"
)

// CurrentVersion is the save format written by Marshal.
const CurrentVersion = 4

// Snapshot is the serialized form of State.
type Snapshot struct {
	Version              int                      `json:"version"`
	PetsByID             map[string]pet.Pet       `json:"petsById"`
	OwnedPetIDs          []string                 `json:"ownedPetIds"`
	ActivePetID          string                   `json:"activePetId"`
	NeglectByPetID       map[string]neglect.State `json:"neglectByPetId"`
	Currencies           economy.Currencies       `json:"currencies"`
	Inventory            economy.Inventory        `json:"inventory"`
	UnlockedSlots        int                      `json:"unlockedSlots"`
	LoginStreak          economy.LoginStreak      `json:"loginStreak"`
	LastFirstFeedDateKey string                   `json:"lastFirstFeedDateKey"`
	LastSeenTimestamp    int64                    `json:"lastSeenTimestamp"`
	Notifications        []notify.Notification    `json:"notifications"`
	Cosmetics            cosmetics.Wardrobe       `json:"cosmetics"`
	PlayMode             bible.PlayMode           `json:"playMode"`
	FtueCompletedAt      *int64                   `json:"ftueCompletedAt"`
	Energy               economy.Energy           `json:"energy"`
	DailyMiniGames       economy.DailyMiniGames   `json:"dailyMiniGames"`
	AlertSuppression     notify.AlertSuppression  `json:"alertSuppression"`
}

// Snapshot captures s for saving. Session counters are left out.
func (s State) Snapshot() Snapshot {
	c := s.Clone()
	return Snapshot{
		Version:              CurrentVersion,
		PetsByID:             c.Pets,
		OwnedPetIDs:          c.Roster.OwnedPetIDs,
		ActivePetID:          c.Roster.ActivePetID,
		NeglectByPetID:       c.Neglect,
		Currencies:           c.Currencies,
		Inventory:            c.Inventory,
		UnlockedSlots:        c.Roster.UnlockedSlots,
		LoginStreak:          c.LoginStreak,
		LastFirstFeedDateKey: c.LastFirstFeedDateKey,
		LastSeenTimestamp:    c.LastSeen,
		Notifications:        c.Inbox.Items,
		Cosmetics:            c.Wardrobe,
		PlayMode:             c.PlayMode,
		FtueCompletedAt:      c.FtueCompletedAt,
		Energy:               c.Energy,
		DailyMiniGames:       c.DailyMiniGames,
		AlertSuppression:     c.AlertSuppression,
	}
}

// State rebuilds the game state, repairing anything a hand-edited or
// partially migrated save could leave inconsistent.
func (snap Snapshot) State() State {
	s := State{
		Pets:                 snap.PetsByID,
		Neglect:              snap.NeglectByPetID,
		Currencies:           snap.Currencies,
		Inventory:            snap.Inventory,
		Energy:               snap.Energy,
		DailyMiniGames:       snap.DailyMiniGames,
		LoginStreak:          snap.LoginStreak,
		LastFirstFeedDateKey: snap.LastFirstFeedDateKey,
		LastSeen:             snap.LastSeenTimestamp,
		Inbox:                notify.Inbox{Items: snap.Notifications},
		Wardrobe:             snap.Cosmetics,
		PlayMode:             snap.PlayMode,
		FtueCompletedAt:      snap.FtueCompletedAt,
		AlertSuppression:     snap.AlertSuppression,
		Roster: roster.Roster{
			OwnedPetIDs:   snap.OwnedPetIDs,
			ActivePetID:   snap.ActivePetID,
			UnlockedSlots: snap.UnlockedSlots,
		},
	}
	if s.Pets == nil {
		s.Pets = map[string]pet.Pet{}
	}
	if s.Neglect == nil {
		s.Neglect = map[string]neglect.State{}
	}
	for _, id := range s.Roster.OwnedPetIDs {
		if _, ok := s.Neglect[id]; !ok {
			s.Neglect[id] = neglect.Default()
		}
		if p, ok := s.Pets[id]; ok {
			s.Pets[id] = p.Clamp()
		}
	}
	if s.Inventory == nil {
		s.Inventory = economy.Inventory{}
	}
	if s.Wardrobe.Owned == nil || s.Wardrobe.Equipped == nil {
		s.Wardrobe = s.Wardrobe.Clone()
	}
	if s.AlertSuppression.LastAlertByPet == nil {
		s.AlertSuppression.LastAlertByPet = map[string]int64{}
	}
	if !s.PlayMode.Valid() {
		s.PlayMode = bible.ModeCozy
	}
	s.Roster.UnlockedSlots = min(max(s.Roster.UnlockedSlots, bible.MinSlots, len(s.Roster.OwnedPetIDs)), bible.MaxSlots)
	if s.Roster.ActivePetID != "" && !s.Roster.Owns(s.Roster.ActivePetID) {
		s.Roster.ActivePetID = ""
	}
	s.Roster, _ = roster.AutoSwitchOnRunaway(s.Roster, s.StageOf)
	return s
}

// Marshal encodes s as an indented JSON save.
func Marshal(s State) ([]byte, error) {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a save of any known version, migrating it forward.
// Saves from a newer version load with unknown fields ignored.
func Unmarshal(data []byte) (State, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return State{}, fmt.Errorf("decode save: %w", err)
	}
	doc, err := Migrate(doc)
	if err != nil {
		return State{}, err
	}
	migrated, err := json.Marshal(doc)
	if err != nil {
		return State{}, fmt.Errorf("re-encode save: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(migrated, &snap); err != nil {
		return State{}, fmt.Errorf("decode save v%d: %w", versionOf(doc), err)
	}
	return snap.State(), nil
}

// Migration upgrades a decoded save by one version.
type Migration func(doc map[string]any) map[string]any

// Migrations maps a version to the step that upgrades it to the next.
var Migrations = map[int]Migration{
	1: migrateV1toV2,
	2: migrateV2toV3,
	3: migrateV3toV4,
}

// Migrate applies every step from the document's version up to
// CurrentVersion. A missing version means 1.
func Migrate(doc map[string]any) (map[string]any, error) {
	v := versionOf(doc)
	for v < CurrentVersion {
		step, ok := Migrations[v]
		if !ok {
			return nil, fmt.Errorf("no migration from save version %d", v)
		}
		doc = step(doc)
		v++
		doc["version"] = v
		slog.Info("save migrated", "version", v)
	}
	return doc, nil
}

func versionOf(doc map[string]any) int {
	switch v := doc["version"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 1
	}
}

// legacyPetID names the single pet of a version 1 save that has no id.
const legacyPetID = "pet-1"

// migrateV1toV2 moves the single "pet" field into the roster:
// petsById, ownedPetIds, activePetId and unlockedSlots=1.
func migrateV1toV2(doc map[string]any) map[string]any {
	petDoc, _ := doc["pet"].(map[string]any)
	delete(doc, "pet")
	if petDoc == nil {
		doc["petsById"] = map[string]any{}
		doc["ownedPetIds"] = []any{}
		doc["activePetId"] = ""
		doc["unlockedSlots"] = bible.MinSlots
		return doc
	}
	id, _ := petDoc["instanceId"].(string)
	if id == "" {
		id = legacyPetID
		petDoc["instanceId"] = id
	}
	doc["petsById"] = map[string]any{id: petDoc}
	doc["ownedPetIds"] = []any{id}
	doc["activePetId"] = id
	doc["unlockedSlots"] = bible.MinSlots
	return doc
}

// migrateV2toV3 backfills neglectByPetId with the default neglect state for
// every owned pet.
func migrateV2toV3(doc map[string]any) map[string]any {
	byPet, _ := doc["neglectByPetId"].(map[string]any)
	if byPet == nil {
		byPet = map[string]any{}
	}
	ids, _ := doc["ownedPetIds"].([]any)
	for _, raw := range ids {
		id, _ := raw.(string)
		if _, ok := byPet[id]; id != "" && !ok {
			byPet[id] = map[string]any{"neglectDays": 0, "currentStage": string(neglect.StageNormal)}
		}
	}
	doc["neglectByPetId"] = byPet
	return doc
}

// migrateV3toV4 backfills cosmetics, notifications, loginStreak, energy
// (full, regenerating from lastSeenTimestamp), dailyMiniGames,
// alertSuppression and playMode (cozy). Saves with pets predate the
// tutorial, so ftueCompletedAt is set to lastSeenTimestamp for them.
func migrateV3toV4(doc map[string]any) map[string]any {
	lastSeen, _ := doc["lastSeenTimestamp"].(float64)
	setDefault(doc, "cosmetics", map[string]any{"owned": map[string]any{}, "equipped": map[string]any{}})
	setDefault(doc, "notifications", []any{})
	setDefault(doc, "loginStreak", map[string]any{"day": 0, "lastLoginDateKey": ""})
	setDefault(doc, "energy", map[string]any{"current": bible.EnergyMax, "lastRegenAt": lastSeen})
	setDefault(doc, "dailyMiniGames", map[string]any{"dateKey": "", "plays": 0, "freePlayUsed": false})
	setDefault(doc, "alertSuppression", map[string]any{"lastAlertByPet": map[string]any{}})
	setDefault(doc, "playMode", string(bible.ModeCozy))
	if ids, _ := doc["ownedPetIds"].([]any); len(ids) > 0 {
		setDefault(doc, "ftueCompletedAt", lastSeen)
	}
	return doc
}

func setDefault(doc map[string]any, key string, v any) {
	if cur, ok := doc[key]; !ok || cur == nil {
		doc[key] = v
	}
}
