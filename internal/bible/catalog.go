package bible

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Rarity orders catalog entries for display.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var rarityRank = map[Rarity]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
}

// Rank returns the sort position of r; unknown rarities sort last.
func (r Rarity) Rank() int {
	if n, ok := rarityRank[r]; ok {
		return n
	}
	return len(rarityRank)
}

// AbilityKind names a species modifier.
type AbilityKind string

const (
	AbilityBondBonus            AbilityKind = "bond_bonus"
	AbilityMoodPenaltyReduction AbilityKind = "mood_penalty_reduction"
	AbilityMoodDecayReduction   AbilityKind = "mood_decay_reduction"
	AbilityMinigameBonus        AbilityKind = "minigame_bonus"
	AbilityXPBonus              AbilityKind = "xp_bonus"
	AbilityHungerDecayReduction AbilityKind = "hunger_decay_reduction"
	AbilityEnergySaver          AbilityKind = "energy_saver"
	AbilityCoinDiscount         AbilityKind = "coin_discount"
)

// Ability is one species-specific modifier.
type Ability struct {
	Kind  AbilityKind `yaml:"kind"`
	Value float64     `yaml:"value"`
}

// Species is one entry of the fixed roster.
type Species struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Ability   Ability  `yaml:"ability"`
	Favorites []string `yaml:"favorites"`
	Likes     []string `yaml:"likes"`
	Dislikes  []string `yaml:"dislikes"`
}

// Food is a feedable item bought with coins.
type Food struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Rarity    Rarity `yaml:"rarity"`
	Price     int    `yaml:"price"`
	Nutrition int    `yaml:"nutrition"`
	XP        int    `yaml:"xp"`
	Snack     bool   `yaml:"snack"`
	Weight    int    `yaml:"weight"`
	Energy    int    `yaml:"energy"`
	Diet      bool   `yaml:"diet"`
}

// BundleItem is one component of a bundle.
type BundleItem struct {
	FoodID   string `yaml:"food"`
	Quantity int    `yaml:"qty"`
}

// Bundle is priced as a unit and decomposed into food grants.
type Bundle struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Price    int          `yaml:"price"`
	Contents []BundleItem `yaml:"contents"`
}

// CareVisibility gates when a care item shows in the shop.
type CareVisibility string

const (
	CareAlways     CareVisibility = "always"
	CareClassic    CareVisibility = "classic_only"
	CareOverweight CareVisibility = "overweight"
)

// CareItem is medicine or diet food.
type CareItem struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Price      int            `yaml:"price"`
	Visibility CareVisibility `yaml:"visibility"`
}

// CosmeticSlot is where a cosmetic is worn.
type CosmeticSlot string

const (
	SlotHat     CosmeticSlot = "hat"
	SlotGlasses CosmeticSlot = "glasses"
	SlotNeck    CosmeticSlot = "neck"
	SlotBack    CosmeticSlot = "back"
)

// Valid reports whether s is one of the wearable slots.
func (s CosmeticSlot) Valid() bool {
	switch s {
	case SlotHat, SlotGlasses, SlotNeck, SlotBack:
		return true
	}
	return false
}

// Cosmetic is a purely visual item priced in gems.
type Cosmetic struct {
	ID     string       `yaml:"id"`
	Name   string       `yaml:"name"`
	Slot   CosmeticSlot `yaml:"slot"`
	Rarity Rarity       `yaml:"rarity"`
	Price  int          `yaml:"price"`
}

// Catalog is the static shop and roster data.
type Catalog struct {
	Species   []Species  `yaml:"species"`
	Foods     []Food     `yaml:"foods"`
	Bundles   []Bundle   `yaml:"bundles"`
	CareItems []CareItem `yaml:"care_items"`
	Cosmetics []Cosmetic `yaml:"cosmetics"`
}

var defaultCatalog = mustLoadEmbedded()

func mustLoadEmbedded() *Catalog {
	c, err := ParseCatalog(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("bible: embedded catalog: %v", err))
	}
	return c
}

// Default returns the embedded catalog. Callers must not mutate it.
func Default() *Catalog {
	return defaultCatalog
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ReadCatalog decodes a catalog from r.
func ReadCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool)
	for _, f := range c.Foods {
		if f.ID == "" || seen[f.ID] {
			return fmt.Errorf("catalog: invalid or duplicate food id %q", f.ID)
		}
		seen[f.ID] = true
		if f.Price < 0 || f.Nutrition < 0 {
			return fmt.Errorf("catalog: food %q has negative price or nutrition", f.ID)
		}
	}
	for _, b := range c.Bundles {
		if len(b.Contents) == 0 {
			return fmt.Errorf("catalog: bundle %q is empty", b.ID)
		}
		for _, item := range b.Contents {
			if !seen[item.FoodID] || item.Quantity <= 0 {
				return fmt.Errorf("catalog: bundle %q references %q x%d", b.ID, item.FoodID, item.Quantity)
			}
		}
	}
	for _, cos := range c.Cosmetics {
		if !cos.Slot.Valid() {
			return fmt.Errorf("catalog: cosmetic %q has unknown slot %q", cos.ID, cos.Slot)
		}
	}
	if len(c.Species) == 0 {
		return fmt.Errorf("catalog: no species")
	}
	return nil
}

// Food looks up a food by id.
func (c *Catalog) Food(id string) (Food, bool) {
	for _, f := range c.Foods {
		if f.ID == id {
			return f, true
		}
	}
	return Food{}, false
}

// SpeciesByID looks up a species by id.
func (c *Catalog) SpeciesByID(id string) (Species, bool) {
	for _, s := range c.Species {
		if s.ID == id {
			return s, true
		}
	}
	return Species{}, false
}

// Bundle looks up a bundle by id.
func (c *Catalog) Bundle(id string) (Bundle, bool) {
	for _, b := range c.Bundles {
		if b.ID == id {
			return b, true
		}
	}
	return Bundle{}, false
}

// CareItem looks up a care item by id.
func (c *Catalog) CareItem(id string) (CareItem, bool) {
	for _, ci := range c.CareItems {
		if ci.ID == id {
			return ci, true
		}
	}
	return CareItem{}, false
}

// Cosmetic looks up a cosmetic by id.
func (c *Catalog) Cosmetic(id string) (Cosmetic, bool) {
	for _, cos := range c.Cosmetics {
		if cos.ID == id {
			return cos, true
		}
	}
	return Cosmetic{}, false
}

// Clone returns a deep copy so overrides never touch the embedded catalog.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		Species:   make([]Species, len(c.Species)),
		Foods:     append([]Food(nil), c.Foods...),
		Bundles:   make([]Bundle, len(c.Bundles)),
		CareItems: append([]CareItem(nil), c.CareItems...),
		Cosmetics: append([]Cosmetic(nil), c.Cosmetics...),
	}
	for i, s := range c.Species {
		s.Favorites = append([]string(nil), s.Favorites...)
		s.Likes = append([]string(nil), s.Likes...)
		s.Dislikes = append([]string(nil), s.Dislikes...)
		out.Species[i] = s
	}
	for i, b := range c.Bundles {
		b.Contents = append([]BundleItem(nil), b.Contents...)
		out.Bundles[i] = b
	}
	return out
}
