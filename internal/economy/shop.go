// Package economy prices and executes shop purchases, rewards mini-games,
// and owns the gem sources (first feed of the day, level-ups, login streak)
// and the shared energy pool.
package economy

import (
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"

	"grundy/internal/bible"
)

// Currencies are shared by every pet.
type Currencies struct {
	Coins int `json:"coins"`
	Gems  int `json:"gems"`
}

// Inventory maps item id to count. It is shared by every pet.
type Inventory map[string]int

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	if inv == nil {
		return Inventory{}
	}
	return maps.Clone(inv)
}

// Take removes one of id and reports whether there was one.
func (inv Inventory) Take(id string) (Inventory, bool) {
	if inv[id] <= 0 {
		return inv, false
	}
	out := inv.Clone()
	out[id]--
	if out[id] == 0 {
		delete(out, id)
	}
	return out, true
}

// PurchaseResult reports a shop purchase. Failed purchases change nothing.
type PurchaseResult struct {
	bible.Failure
	Success    bool           `json:"success"`
	ItemID     string         `json:"itemId"`
	Quantity   int            `json:"quantity"`
	CoinsSpent int            `json:"coinsSpent"`
	Granted    map[string]int `json:"granted,omitempty"`
}

// DiscountedPrice applies a fractional coin discount and rounds.
func DiscountedPrice(price int, discount float64) int {
	if discount <= 0 {
		return price
	}
	return int(math.Round(float64(price) * (1 - discount)))
}

// BuyFood buys qty of one food. qty must be within the selector bounds.
func BuyFood(cur Currencies, inv Inventory, cat *bible.Catalog, id string, qty int, discount float64) (Currencies, Inventory, PurchaseResult) {
	res := PurchaseResult{ItemID: id, Quantity: qty}
	food, ok := cat.Food(id)
	if !ok {
		res.Failure = bible.Fail(bible.CodeInvalidItem, fmt.Sprintf("unknown food %q", id))
		return cur, inv, res
	}
	if qty < bible.FoodQuantityMin || qty > bible.FoodQuantityMax {
		res.Failure = bible.Fail(bible.CodeInvalidQuantity, fmt.Sprintf("quantity must be %d-%d", bible.FoodQuantityMin, bible.FoodQuantityMax))
		return cur, inv, res
	}
	return settle(cur, inv, res, DiscountedPrice(food.Price*qty, discount), map[string]int{id: qty})
}

// BuyBundle buys a bundle and decomposes it into its foods.
func BuyBundle(cur Currencies, inv Inventory, cat *bible.Catalog, id string, discount float64) (Currencies, Inventory, PurchaseResult) {
	res := PurchaseResult{ItemID: id, Quantity: 1}
	b, ok := cat.Bundle(id)
	if !ok {
		res.Failure = bible.Fail(bible.CodeInvalidItem, fmt.Sprintf("unknown bundle %q", id))
		return cur, inv, res
	}
	grants := make(map[string]int, len(b.Contents))
	for _, item := range b.Contents {
		grants[item.FoodID] += item.Quantity
	}
	return settle(cur, inv, res, DiscountedPrice(b.Price, discount), grants)
}

// BuyCareItem buys one care item. Hidden items cannot be bought.
func BuyCareItem(cur Currencies, inv Inventory, cat *bible.Catalog, id string, mode bible.PlayMode, weight float64, discount float64) (Currencies, Inventory, PurchaseResult) {
	res := PurchaseResult{ItemID: id, Quantity: 1}
	item, ok := cat.CareItem(id)
	if !ok || !careVisible(item, mode, weight) {
		res.Failure = bible.Fail(bible.CodeInvalidItem, fmt.Sprintf("care item %q is not available", id))
		return cur, inv, res
	}
	return settle(cur, inv, res, DiscountedPrice(item.Price, discount), map[string]int{id: 1})
}

func settle(cur Currencies, inv Inventory, res PurchaseResult, price int, grants map[string]int) (Currencies, Inventory, PurchaseResult) {
	if cur.Coins < price {
		res.Failure = bible.Fail(bible.CodeInsufficientCoins, fmt.Sprintf("costs %d coins", price))
		return cur, inv, res
	}
	out := inv.Clone()
	for id, n := range grants {
		out[id] += n
	}
	cur.Coins -= price
	res.Success = true
	res.CoinsSpent = price
	res.Granted = grants
	slog.Debug("shop purchase", "item", res.ItemID, "coins", price)
	return cur, out, res
}

// VisibleCareItems filters care items by mode and the active pet's weight.
func VisibleCareItems(cat *bible.Catalog, mode bible.PlayMode, weight float64) []bible.CareItem {
	var out []bible.CareItem
	for _, item := range cat.CareItems {
		if careVisible(item, mode, weight) {
			out = append(out, item)
		}
	}
	return out
}

func careVisible(item bible.CareItem, mode bible.PlayMode, weight float64) bool {
	switch item.Visibility {
	case bible.CareClassic:
		return mode == bible.ModeClassic
	case bible.CareOverweight:
		return weight >= bible.OverweightThreshold
	default:
		return true
	}
}

// FoodsByRarity returns the foods sorted by rarity, catalog order within a
// rarity.
func FoodsByRarity(cat *bible.Catalog) []bible.Food {
	out := slices.Clone(cat.Foods)
	slices.SortStableFunc(out, func(a, b bible.Food) int {
		return a.Rarity.Rank() - b.Rarity.Rank()
	})
	return out
}

// CosmeticsByRarity returns the cosmetics sorted by rarity.
func CosmeticsByRarity(cat *bible.Catalog) []bible.Cosmetic {
	out := slices.Clone(cat.Cosmetics)
	slices.SortStableFunc(out, func(a, b bible.Cosmetic) int {
		return a.Rarity.Rank() - b.Rarity.Rank()
	})
	return out
}

// Tab is one shop tab.
type Tab struct {
	ID     string `json:"id"`
	Locked bool   `json:"locked"`
	Reason string `json:"reason,omitempty"`
}

// ShopTabs lists the tabs; the gems tab unlocks at GemsTabLevel.
func ShopTabs(level int) []Tab {
	tabs := []Tab{{ID: "food"}, {ID: "care"}, {ID: "cosmetics"}, {ID: "gems"}}
	if level < bible.GemsTabLevel {
		tabs[3].Locked = true
		tabs[3].Reason = fmt.Sprintf("unlocks at level %d", bible.GemsTabLevel)
	}
	return tabs
}

// RecommendContext is the pet and player state Recommend looks at.
type RecommendContext struct {
	Mode    bible.PlayMode
	IsSick  bool
	Energy  int
	Hunger  float64
	Mood    float64
	Weight  float64
	Species bible.Species
}

// LowEnergy is the level below which energy food is suggested.
const LowEnergy = bible.EnergyCostPerPlay

// Recommend suggests item ids, most urgent first. Ties follow catalog order.
func Recommend(cat *bible.Catalog, ctx RecommendContext) []string {
	var out []string
	seen := map[string]bool{}
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	if ctx.IsSick && ctx.Mode == bible.ModeClassic {
		add(bible.MedicineID)
	}
	if ctx.Weight >= bible.OverweightThreshold {
		for _, f := range cat.Foods {
			if f.Diet {
				add(f.ID)
			}
		}
	}
	if ctx.Energy < LowEnergy {
		for _, f := range cat.Foods {
			if f.Energy > 0 {
				add(f.ID)
			}
		}
	}
	if ctx.Hunger <= 40 {
		for _, f := range cat.Foods {
			if f.Snack && ctx.Weight >= bible.OverweightThreshold {
				continue
			}
			if f.ID == bible.HotPepperID && ctx.Mode == bible.ModeClassic {
				continue
			}
			if slices.Contains(ctx.Species.Favorites, f.ID) {
				add(f.ID)
			}
		}
		best := ""
		for _, f := range cat.Foods {
			if f.Snack || f.Diet {
				continue
			}
			if best == "" {
				best = f.ID
			} else if cur, _ := cat.Food(best); f.Nutrition > cur.Nutrition {
				best = f.ID
			}
		}
		if best != "" {
			add(best)
		}
	}
	if ctx.Mood < bible.MoodContentMin {
		for _, f := range cat.Foods {
			if slices.Contains(ctx.Species.Likes, f.ID) {
				add(f.ID)
				break
			}
		}
	}
	return out
}
