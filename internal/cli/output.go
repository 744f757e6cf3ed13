package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"grundy/internal/bible"
	"grundy/internal/chase"
	"grundy/internal/cosmetics"
	"grundy/internal/economy"
	"grundy/internal/game"
	"grundy/internal/neglect"
	"grundy/internal/notify"
	"grundy/internal/pet"
	"grundy/internal/ui"
)

// lineWriter keeps the first write error so callers can print freely and
// check once.
type lineWriter struct {
	w   io.Writer
	err error
}

func (lw *lineWriter) printf(format string, args ...any) {
	if lw.err != nil {
		return
	}
	_, lw.err = fmt.Fprintf(lw.w, format, args...)
}

func writeStatus(w io.Writer, s *session) error {
	st := s.store.State()
	lw := &lineWriter{w: w}
	for _, p := range st.OwnedPets() {
		marker := " "
		if p.InstanceID == st.Roster.ActivePetID {
			marker = "★"
		}
		lw.printf("%s %s %-10s Lv %-2d mood %-7s hunger %s", marker, ui.SpeciesEmoji(p.SpeciesID), p.Name, p.Level,
			pet.GetMoodTier(p.MoodValue), pet.GetFullnessState(p.Hunger))
		if stage := st.StageOf(p.InstanceID); stage != neglect.StageNormal {
			lw.printf("  [%s]", stage)
		}
		lw.printf("\n")
		if badges := st.PetStatusBadges(p.InstanceID); len(badges) > 0 {
			labels := make([]string, len(badges))
			for i, b := range badges {
				labels[i] = b.Label
			}
			lw.printf("      %s\n", strings.Join(labels, "  "))
		}
		if worn := cosmetics.EquippedFor(st.Wardrobe, p.InstanceID); len(worn) > 0 {
			ids := make([]string, 0, len(worn))
			for _, id := range worn {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			lw.printf("      wearing %s\n", strings.Join(ids, ", "))
		}
	}
	if st.Roster.AllPetsAway {
		lw.printf("All your pets are away. Run `grundy play` to call one back.\n")
	}
	energy := economy.RegenEnergy(st.Energy, s.store.Env().Now)
	lw.printf("\n%d coins  %d gems  energy %d/%d  %d unread  login day %d  (%s mode)\n",
		st.Currencies.Coins, st.Currencies.Gems, energy.Current, bible.EnergyMax,
		st.UnreadCount(), st.LoginStreak.Day, st.PlayMode)
	return lw.err
}

var reactionText = map[bible.ReactionType]string{
	bible.ReactionEcstatic: "loved it",
	bible.ReactionPositive: "enjoyed it",
	bible.ReactionNeutral:  "ate it",
	bible.ReactionNegative: "did not like it",
}

func writePurchase(w io.Writer, res economy.PurchaseResult, coinsLeft int) error {
	lw := &lineWriter{w: w}
	lw.printf("Bought %d x %s for %d coins. %d coins left.\n", res.Quantity, res.ItemID, res.CoinsSpent, coinsLeft)
	if len(res.Granted) > 1 || res.Granted[res.ItemID] == 0 {
		ids := make([]string, 0, len(res.Granted))
		for id := range res.Granted {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			lw.printf("  +%d %s\n", res.Granted[id], id)
		}
	}
	return lw.err
}

// writeShop prints the shelves with prices after the active pet's discount.
func writeShop(w io.Writer, store *game.Store) error {
	st, env := store.State(), store.Env()
	cat := env.Catalog
	discount := 0.0
	if p, ok := st.ActivePet(); ok {
		if sp, ok := cat.SpeciesByID(p.SpeciesID); ok {
			discount = pet.CoinDiscount(sp)
		}
	}
	energy := st.CurrentEnergy(env)
	lw := &lineWriter{w: w}
	lw.printf("%d coins  %d gems  energy %d/%d\n", st.Currencies.Coins, st.Currencies.Gems, energy.Current, bible.EnergyMax)

	for _, tab := range st.ShopTabs() {
		if tab.Locked {
			lw.printf("\n[%s] locked: %s\n", tab.ID, tab.Reason)
			continue
		}
		lw.printf("\n[%s]\n", tab.ID)
		switch tab.ID {
		case "food":
			for _, f := range economy.FoodsByRarity(cat) {
				lw.printf("  %-16s %-10s %3d coins  (have %d)\n", f.ID, f.Rarity, economy.DiscountedPrice(f.Price, discount), st.Inventory[f.ID])
			}
			for _, b := range cat.Bundles {
				lw.printf("  %-16s %-10s %3d coins\n", b.ID, "bundle", economy.DiscountedPrice(b.Price, discount))
			}
		case "care":
			for _, c := range st.VisibleCareItems(env) {
				lw.printf("  %-16s %-10s %3d coins  (have %d)\n", c.ID, "care", economy.DiscountedPrice(c.Price, discount), st.Inventory[c.ID])
			}
		case "cosmetics":
			for _, c := range economy.CosmeticsByRarity(cat) {
				lw.printf("  %-16s %-10s %3d gems   %s\n", c.ID, c.Rarity, c.Price, c.Slot)
			}
		}
	}
	if recs := store.ShopRecommendations(); len(recs) > 0 {
		lw.printf("\nSuggested: %s\n", strings.Join(recs, ", "))
	}
	return lw.err
}

func writeFeed(w io.Writer, name string, res game.FeedResult) error {
	lw := &lineWriter{w: w}
	if res.WasBlocked {
		lw.printf("%s is too full to eat.\n", name)
		return lw.err
	}
	lw.printf("%s %s (mood %+.0f, bond %+.1f, +%d xp).\n", name, reactionText[res.ReactionType], res.MoodChange, res.BondChange, res.XPGained)
	if res.OnCooldown {
		lw.printf("Fed again so soon, it did less.\n")
	}
	if res.LevelsGained > 0 {
		lw.printf("Level up! +%d level(s).\n", res.LevelsGained)
	}
	if res.GemsEarned > 0 {
		lw.printf("+%d gems.\n", res.GemsEarned)
	}
	if res.SicknessTriggered {
		lw.printf("Uh oh, %s is feeling sick.\n", name)
	}
	return lw.err
}

func writePlay(w io.Writer, result chase.Result, play game.PlayResult) error {
	lw := &lineWriter{w: w}
	lw.printf("Caught %d, missed %d: score %d.\n", result.Catches, result.Misses, result.Score)
	lw.printf("%s reward: +%d coins, +%d xp.", play.Reward.Tier, play.Reward.Coins, play.XPGained)
	if play.Start.Free {
		lw.printf(" (free play)")
	} else {
		lw.printf(" (%d energy)", play.Start.EnergySpent)
	}
	lw.printf("\n%d play(s) left today.\n", play.Start.PlaysLeft)
	return lw.err
}

func writeWelcome(w io.Writer, streak economy.StreakResult, res game.OfflineResult) error {
	lw := &lineWriter{w: w}
	if streak.Advanced || streak.Reset {
		lw.printf("Login streak: day %d.", streak.DayReached)
		if streak.GemsAwarded > 0 {
			lw.printf(" +%d gems!", streak.GemsAwarded)
		}
		lw.printf("\n")
	}
	if res.Summary == nil {
		lw.printf("Nothing happened while you were away.\n")
		return lw.err
	}
	lw.printf("Welcome back! You were away %.1f hours.\n", res.Summary.HoursOffline)
	for _, c := range res.Summary.PetChanges {
		lw.printf("  %s: mood %+.0f, hunger %+.0f, bond %+.1f", c.PetName, c.MoodChange, c.HungerChange, c.BondChange)
		if c.BecameSick {
			lw.printf(", got sick")
		}
		if c.PoopsAdded > 0 {
			lw.printf(", %d mess(es)", c.PoopsAdded)
		}
		if c.NeglectDaysAdded > 0 {
			lw.printf(", %d day(s) without care", c.NeglectDaysAdded)
		}
		lw.printf("\n")
	}
	for _, n := range res.Notifications {
		if n.Type != notify.TypeOfflineSummary {
			lw.printf("! %s\n", n.Message)
		}
	}
	if res.AutoSwitch.AllPetsAway {
		lw.printf("All your pets have run away.\n")
	}
	return lw.err
}

func writeInbox(w io.Writer, ns []notify.Notification) error {
	lw := &lineWriter{w: w}
	if len(ns) == 0 {
		lw.printf("No notifications.\n")
		return lw.err
	}
	for _, n := range ns {
		marker := " "
		if !n.Read {
			marker = "•"
		}
		lw.printf("%s [%s] %s\n", marker, n.Priority, n.Message)
	}
	return lw.err
}
