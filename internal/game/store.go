package game

import (
	"log/slog"
	"sync"
	"time"

	"grundy/internal/bible"
	"grundy/internal/clock"
	"grundy/internal/cosmetics"
	"grundy/internal/economy"
	"grundy/internal/neglect"
	"grundy/internal/notify"
	"grundy/internal/pet"
	"grundy/internal/roster"
)

// TransientPoseDuration is how long a reaction pose stays on screen.
const TransientPoseDuration = 3 * time.Second

// Pose is a short-lived reaction shown after an action. It is a display
// hint and never saved.
type Pose struct {
	PetID     string
	Pose      string
	ExpiresAt int64
}

// Hints are presentation annotations kept next to the state.
type Hints struct {
	Pose *Pose
	Room string
}

// Store is the single writer over State. Every action takes the lock, runs
// the pure action against the current state, commits the result and calls
// the saver.
type Store struct {
	mu         sync.Mutex
	state      State
	hints      Hints
	clock      clock.Clock
	rng        clock.RNG
	newID      func() string
	log        *slog.Logger
	loc        *time.Location
	catalog    *bible.Catalog
	subscriber bool
	save       func(State) error
}

// Option configures a Store.
type Option func(*Store)

func WithClock(c clock.Clock) Option       { return func(s *Store) { s.clock = c } }
func WithRNG(r clock.RNG) Option           { return func(s *Store) { s.rng = r } }
func WithIDs(f func() string) Option       { return func(s *Store) { s.newID = f } }
func WithLogger(l *slog.Logger) Option     { return func(s *Store) { s.log = l } }
func WithLocation(l *time.Location) Option { return func(s *Store) { s.loc = l } }
func WithCatalog(c *bible.Catalog) Option  { return func(s *Store) { s.catalog = c } }
func WithSubscriber(on bool) Option        { return func(s *Store) { s.subscriber = on } }
func WithSaver(f func(State) error) Option { return func(s *Store) { s.save = f } }

// NewStore wraps state. Defaults are the system clock, crypto RNG, UUIDv7
// ids, slog.Default, local time and the embedded catalog.
func NewStore(state State, opts ...Option) *Store {
	s := &Store{
		state:   state,
		clock:   clock.System(),
		rng:     clock.CryptoRNG(),
		newID:   NewID,
		log:     slog.Default(),
		loc:     time.Local,
		catalog: bible.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) env() Env {
	return Env{
		Now:        s.clock.NowMs(),
		RNG:        s.rng,
		NewID:      s.newID,
		Location:   s.loc,
		Catalog:    s.catalog,
		Subscriber: s.subscriber,
	}
}

// commit installs next and persists it. Save failures are logged; the
// in-memory state stays authoritative.
func (s *Store) commit(action string, next State) {
	s.state = next
	if s.save == nil {
		return
	}
	if err := s.save(next); err != nil {
		s.log.Error("save failed", "action", action, "err", err)
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Env returns the context the next action would run with.
func (s *Store) Env() Env {
	return s.env()
}

// Hints returns the current presentation hints, dropping an expired pose.
func (s *Store) Hints() Hints {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hints.Pose != nil && s.clock.NowMs() >= s.hints.Pose.ExpiresAt {
		s.hints.Pose = nil
	}
	h := s.hints
	if h.Pose != nil {
		p := *h.Pose
		h.Pose = &p
	}
	return h
}

func (s *Store) pose(env Env, petID, pose string) {
	s.hints.Pose = &Pose{PetID: petID, Pose: pose, ExpiresAt: env.Now + TransientPoseDuration.Milliseconds()}
}

// Feed feeds petID from the shared inventory.
func (s *Store) Feed(petID, foodID string) FeedResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	env := s.env()
	next, res := s.state.Feed(env, petID, foodID)
	if res.Failed() || res.WasBlocked {
		s.log.Debug("feed rejected", "pet", petID, "food", foodID, "code", res.Code, "blocked", res.WasBlocked)
		return res
	}
	s.commit("feed", next)
	s.pose(env, petID, string(res.ReactionType))
	s.hints.Room = res.RoomContext
	return res
}

// Play records a finished mini-game for petID.
func (s *Store) Play(petID string, score int) PlayResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	env := s.env()
	next, res := s.state.Play(env, petID, score)
	if res.Failed() {
		return res
	}
	s.commit("play", next)
	s.pose(env, petID, "happy")
	return res
}

// UseMedicine cures petID.
func (s *Store) UseMedicine(petID string) ItemResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.UseMedicine(s.env(), petID)
	if res.Success {
		s.commit("medicine", next)
	}
	return res
}

// CleanUp removes petID's poop.
func (s *Store) CleanUp(petID string) ItemResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.CleanUp(s.env(), petID)
	if res.Success {
		s.commit("clean", next)
	}
	return res
}

// BuyFood buys qty of foodID.
func (s *Store) BuyFood(foodID string, qty int) economy.PurchaseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.BuyFood(s.env(), foodID, qty)
	if res.Success {
		s.commit("buy_food", next)
	}
	return res
}

// BuyBundle buys bundleID.
func (s *Store) BuyBundle(bundleID string) economy.PurchaseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.BuyBundle(s.env(), bundleID)
	if res.Success {
		s.commit("buy_bundle", next)
	}
	return res
}

// BuyCareItem buys itemID.
func (s *Store) BuyCareItem(itemID string) economy.PurchaseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.BuyCareItem(s.env(), itemID)
	if res.Success {
		s.commit("buy_care", next)
	}
	return res
}

// AdoptPet adopts a pet of speciesID.
func (s *Store) AdoptPet(speciesID, name string) AdoptResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.AdoptPet(s.env(), speciesID, name)
	if res.Success {
		s.commit("adopt", next)
	}
	return res
}

// SetActivePet switches the home screen to petID.
func (s *Store) SetActivePet(petID string) roster.SwitchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.SetActivePet(s.env(), petID)
	if res.Success {
		s.commit("set_active", next)
		s.hints.Pose = nil
	}
	return res
}

// PurchasePetSlot unlocks slot n.
func (s *Store) PurchasePetSlot(n int) roster.SlotResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.PurchasePetSlot(s.env(), n)
	if res.Success {
		s.commit("purchase_slot", next)
	}
	return res
}

// BuyCosmetic buys cosmeticID for the active pet.
func (s *Store) BuyCosmetic(cosmeticID string) cosmetics.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.BuyCosmetic(s.env(), cosmeticID)
	if res.Success {
		s.commit("buy_cosmetic", next)
	}
	return res
}

// EquipCosmetic equips cosmeticID on petID.
func (s *Store) EquipCosmetic(petID, cosmeticID string) cosmetics.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.EquipCosmetic(s.env(), petID, cosmeticID)
	if res.Success {
		s.commit("equip", next)
	}
	return res
}

// UnequipCosmetic clears slot on petID.
func (s *Store) UnequipCosmetic(petID string, slot bible.CosmeticSlot) cosmetics.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.UnequipCosmetic(s.env(), petID, slot)
	if res.Success {
		s.commit("unequip", next)
	}
	return res
}

// SelectPlayMode switches the play mode.
func (s *Store) SelectPlayMode(mode bible.PlayMode) ModeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.SelectPlayMode(s.env(), mode)
	if res.Success {
		s.commit("select_mode", next)
	}
	return res
}

// CompleteFtue marks the tutorial done.
func (s *Store) CompleteFtue() FtueResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.CompleteFtue(s.env())
	if !res.AlreadyCompleted {
		s.commit("complete_ftue", next)
	}
	return res
}

// RecoverFromWithdrawnWithGems pays for petID's recovery.
func (s *Store) RecoverFromWithdrawnWithGems(petID string) neglect.RecoveryResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.RecoverFromWithdrawnWithGems(s.env(), petID)
	if res.Success {
		s.commit("recover", next)
	}
	return res
}

// CallBackRunawayPet brings petID home.
func (s *Store) CallBackRunawayPet(petID string) neglect.RecoveryResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.CallBackRunawayPet(s.env(), petID)
	if res.Success {
		s.commit("call_back", next)
	}
	return res
}

// ProcessLoginStreak records today's login.
func (s *Store) ProcessLoginStreak() economy.StreakResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.ProcessLoginStreak(s.env())
	if res.Advanced {
		s.commit("login_streak", next)
	}
	return res
}

// ApplyOfflineFanout reconciles the time since the last session.
func (s *Store) ApplyOfflineFanout() OfflineResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.ApplyOfflineFanout(s.env())
	s.commit("offline_fanout", next)
	return res
}

// Tick advances time while the player is present.
func (s *Store) Tick() TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res := s.state.Tick(s.env())
	s.commit("tick", next)
	return res
}

// EmitGameEvent sends ev to the inbox.
func (s *Store) EmitGameEvent(ev notify.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit("emit", s.state.EmitGameEvent(s.env(), ev))
}

// MarkNotificationRead flags one notification read.
func (s *Store) MarkNotificationRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.state.MarkNotificationRead(id)
	if ok {
		s.commit("mark_read", next)
	}
	return ok
}

// MarkAllNotificationsRead flags the inbox read.
func (s *Store) MarkAllNotificationsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit("mark_all_read", s.state.MarkAllNotificationsRead())
}

// ClearNotifications empties the inbox.
func (s *Store) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit("clear_notifications", s.state.ClearNotifications())
}

// ResetSession starts a new app session.
func (s *Store) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ResetSession()
}

// ActivePet returns the active pet.
func (s *Store) ActivePet() (pet.Pet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.ActivePet()
	return p.Clone(), ok
}

// OwnedPets returns the pets in slot order.
func (s *Store) OwnedPets() []pet.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone().OwnedPets()
}

// PetStatusBadges lists petID's badges.
func (s *Store) PetStatusBadges(petID string) []pet.Badge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.PetStatusBadges(petID)
}

// AggregatedBadgeCount counts badges on the inactive pets.
func (s *Store) AggregatedBadgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AggregatedBadgeCount()
}

// SlotStatuses describes every pet slot.
func (s *Store) SlotStatuses() []roster.SlotStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SlotStatuses(s.env())
}

// ShopRecommendations suggests items for the active pet.
func (s *Store) ShopRecommendations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ShopRecommendations(s.env())
}

// Notifications returns the inbox, newest first.
func (s *Store) Notifications() []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Notifications()
}

// Snapshot returns the save form of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}
