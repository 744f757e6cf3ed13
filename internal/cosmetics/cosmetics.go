// Package cosmetics tracks which visual items each pet owns and wears.
// Cosmetics are bound to the pet they were bought for and never touch stats.
package cosmetics

import (
	"fmt"
	"log/slog"
	"maps"

	"grundy/internal/bible"
)

// Wardrobe is the per-pet ownership and equip table.
type Wardrobe struct {
	Owned    map[string]map[string]bool               `json:"owned"`
	Equipped map[string]map[bible.CosmeticSlot]string `json:"equipped"`
}

// Clone returns an independent copy.
func (w Wardrobe) Clone() Wardrobe {
	out := Wardrobe{
		Owned:    make(map[string]map[string]bool, len(w.Owned)),
		Equipped: make(map[string]map[bible.CosmeticSlot]string, len(w.Equipped)),
	}
	for pet, ids := range w.Owned {
		out.Owned[pet] = maps.Clone(ids)
	}
	for pet, slots := range w.Equipped {
		out.Equipped[pet] = maps.Clone(slots)
	}
	return out
}

// Owns reports whether petID owns id.
func (w Wardrobe) Owns(petID, id string) bool {
	return w.Owned[petID][id]
}

// Result reports a wardrobe operation.
type Result struct {
	bible.Failure
	Success    bool               `json:"success"`
	CosmeticID string             `json:"cosmeticId"`
	Slot       bible.CosmeticSlot `json:"slot,omitempty"`
	GemsSpent  int                `json:"gemsSpent,omitempty"`
	Replaced   string             `json:"replaced,omitempty"`
}

// Buy spends gems on a cosmetic for one pet. The item is not equipped.
// It returns the new wardrobe and the gem balance after the purchase.
func Buy(w Wardrobe, cat *bible.Catalog, petID, id string, gems int) (Wardrobe, int, Result) {
	res := Result{CosmeticID: id}
	item, ok := cat.Cosmetic(id)
	if !ok {
		res.Failure = bible.Fail(bible.CodeInvalidItem, fmt.Sprintf("unknown cosmetic %q", id))
		return w, gems, res
	}
	if w.Owns(petID, id) {
		res.Failure = bible.Fail(bible.CodeAlreadyOwned, fmt.Sprintf("%s already owns %s", petID, item.Name))
		return w, gems, res
	}
	if gems < item.Price {
		res.Failure = bible.Fail(bible.CodeInsufficientGems, fmt.Sprintf("costs %d gems", item.Price))
		return w, gems, res
	}

	out := w.Clone()
	if out.Owned[petID] == nil {
		out.Owned[petID] = map[string]bool{}
	}
	out.Owned[petID][id] = true

	res.Success = true
	res.Slot = item.Slot
	res.GemsSpent = item.Price
	slog.Info("cosmetic purchased", "pet", petID, "cosmetic", id, "gems", item.Price)
	return out, gems - item.Price, res
}

// Equip wears an owned cosmetic, replacing whatever was in its slot.
func Equip(w Wardrobe, cat *bible.Catalog, petID, id string) (Wardrobe, Result) {
	res := Result{CosmeticID: id}
	item, ok := cat.Cosmetic(id)
	if !ok {
		res.Failure = bible.Fail(bible.CodeInvalidItem, fmt.Sprintf("unknown cosmetic %q", id))
		return w, res
	}
	if !w.Owns(petID, id) {
		res.Failure = bible.Fail(bible.CodeNotOwned, fmt.Sprintf("%s does not own %s", petID, item.Name))
		return w, res
	}

	out := w.Clone()
	if out.Equipped[petID] == nil {
		out.Equipped[petID] = map[bible.CosmeticSlot]string{}
	}
	if prev := out.Equipped[petID][item.Slot]; prev != id {
		res.Replaced = prev
	}
	out.Equipped[petID][item.Slot] = id

	res.Success = true
	res.Slot = item.Slot
	return out, res
}

// Unequip empties a slot. Unequipping an empty slot succeeds; a slot that
// does not exist fails with invalid_slot.
func Unequip(w Wardrobe, petID string, slot bible.CosmeticSlot) (Wardrobe, Result) {
	if !slot.Valid() {
		return w, Result{Slot: slot, Failure: bible.Fail(bible.CodeInvalidSlot, fmt.Sprintf("no %q slot", slot))}
	}
	res := Result{Success: true, Slot: slot, CosmeticID: w.Equipped[petID][slot]}
	if res.CosmeticID == "" {
		return w, res
	}
	out := w.Clone()
	delete(out.Equipped[petID], slot)
	return out, res
}

// EquippedFor returns a copy of the pet's slot table.
func EquippedFor(w Wardrobe, petID string) map[bible.CosmeticSlot]string {
	if out := maps.Clone(w.Equipped[petID]); out != nil {
		return out
	}
	return map[bible.CosmeticSlot]string{}
}

// OwnedFor lists the pet's cosmetics in catalog order.
func OwnedFor(w Wardrobe, cat *bible.Catalog, petID string) []bible.Cosmetic {
	var out []bible.Cosmetic
	for _, c := range cat.Cosmetics {
		if w.Owns(petID, c.ID) {
			out = append(out, c)
		}
	}
	return out
}
