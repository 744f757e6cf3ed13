// Package game is the persisted store. State owns every entity; actions are
// pure functions from one State to the next, and Store serializes them
// behind a single lock.
package game

import (
	"time"

	"github.com/google/uuid"

	"grundy/internal/bible"
	"grundy/internal/clock"
	"grundy/internal/cosmetics"
	"grundy/internal/economy"
	"grundy/internal/neglect"
	"grundy/internal/notify"
	"grundy/internal/pet"
	"grundy/internal/roster"
)

// State is the authoritative game state. Session is the only part that is
// not saved.
type State struct {
	Pets                 map[string]pet.Pet
	Neglect              map[string]neglect.State
	Roster               roster.Roster
	Currencies           economy.Currencies
	Inventory            economy.Inventory
	Energy               economy.Energy
	DailyMiniGames       economy.DailyMiniGames
	LoginStreak          economy.LoginStreak
	LastFirstFeedDateKey string
	LastSeen             int64
	Inbox                notify.Inbox
	Wardrobe             cosmetics.Wardrobe
	PlayMode             bible.PlayMode
	FtueCompletedAt      *int64
	AlertSuppression     notify.AlertSuppression

	Session notify.Session
}

// Starting balances for a new save.
const (
	StartingCoins = 100
	StartingGems  = 10
)

// NewState starts a save with one pet of speciesID.
func NewState(petID, speciesID, name string, mode bible.PlayMode, now int64) State {
	if !mode.Valid() {
		mode = bible.ModeCozy
	}
	p := pet.New(petID, speciesID, name, now)
	return State{
		Pets:             map[string]pet.Pet{petID: p},
		Neglect:          map[string]neglect.State{petID: neglect.Default()},
		Roster:           roster.New(petID),
		Currencies:       economy.Currencies{Coins: StartingCoins, Gems: StartingGems},
		Inventory:        economy.Inventory{"apple": 3, "banana": 2},
		Energy:           economy.FullEnergy(now),
		LastSeen:         now,
		Wardrobe:         cosmetics.Wardrobe{}.Clone(),
		PlayMode:         mode,
		AlertSuppression: notify.AlertSuppression{LastAlertByPet: map[string]int64{}},
	}
}

// Clone returns a deep copy; actions work on clones so a failed action
// leaves the caller's state untouched.
func (s State) Clone() State {
	out := s
	out.Pets = make(map[string]pet.Pet, len(s.Pets))
	for id, p := range s.Pets {
		out.Pets[id] = p.Clone()
	}
	out.Neglect = make(map[string]neglect.State, len(s.Neglect))
	for id, n := range s.Neglect {
		out.Neglect[id] = n.Clone()
	}
	out.Roster = s.Roster.Clone()
	out.Inventory = s.Inventory.Clone()
	out.Inbox = s.Inbox.Clone()
	out.Wardrobe = s.Wardrobe.Clone()
	out.AlertSuppression = s.AlertSuppression.Clone()
	if s.FtueCompletedAt != nil {
		v := *s.FtueCompletedAt
		out.FtueCompletedAt = &v
	}
	return out
}

// NeglectOf returns the neglect record of petID, defaulting when missing.
func (s State) NeglectOf(petID string) neglect.State {
	if n, ok := s.Neglect[petID]; ok {
		return n
	}
	return neglect.Default()
}

// StageOf reports the neglect stage of petID.
func (s State) StageOf(petID string) neglect.Stage {
	return s.NeglectOf(petID).CurrentStage
}

// PlayerLevel is the highest level among owned pets.
func (s State) PlayerLevel() int {
	level := bible.StartingLevel
	for _, id := range s.Roster.OwnedPetIDs {
		if p, ok := s.Pets[id]; ok && p.Level > level {
			level = p.Level
		}
	}
	return level
}

// Env is the per-call context actions read: time, randomness, ids and
// catalog. Store fills it; tests build it directly.
type Env struct {
	Now        int64
	RNG        clock.RNG
	NewID      func() string
	Location   *time.Location
	Catalog    *bible.Catalog
	Subscriber bool
}

func (e Env) catalog() *bible.Catalog {
	if e.Catalog == nil {
		return bible.Default()
	}
	return e.Catalog
}

func (e Env) rng() clock.RNG {
	if e.RNG == nil {
		return clock.CryptoRNG()
	}
	return e.RNG
}

func (e Env) newID() string {
	if e.NewID == nil {
		return NewID()
	}
	return e.NewID()
}

// NewID returns a time-ordered UUIDv7 string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s State) species(env Env, p pet.Pet) bible.Species {
	sp, _ := env.catalog().SpeciesByID(p.SpeciesID)
	return sp
}

// activeSpecies is the species of the active pet, used for shop-wide
// abilities such as the coin discount.
func (s State) activeSpecies(env Env) bible.Species {
	p, ok := s.Pets[s.Roster.ActivePetID]
	if !ok {
		return bible.Species{}
	}
	return s.species(env, p)
}

// homePet looks up a pet that can be interacted with.
func (s State) homePet(petID string) (pet.Pet, bible.Failure) {
	p, ok := s.Pets[petID]
	if !ok || !s.Roster.Owns(petID) {
		return pet.Pet{}, bible.Fail(bible.CodeInvalidPet, "you do not own that pet")
	}
	if neglect.IsInteractionLocked(s.NeglectOf(petID)) {
		return pet.Pet{}, bible.Fail(bible.CodePetUnavailable, p.Name+" has run away")
	}
	return p, bible.Failure{}
}

// emit maps ev and delivers it, returning the shown notification if any.
func (s *State) emit(env Env, ev notify.Event) *notify.Notification {
	var n *notify.Notification
	s.Inbox, s.Session, n = notify.Emit(s.Inbox, s.Session, ev, env.Now, env.newID)
	return n
}
