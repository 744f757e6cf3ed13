package bible

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PriceOverride replaces one catalog price when set.
type PriceOverride struct {
	Price *int `yaml:"price"`
}

// Overrides is an optional operator file that tunes shop prices. Locked
// rule values (thresholds, probabilities, reward tiers) are not overridable.
type Overrides struct {
	Foods     map[string]PriceOverride `yaml:"foods,omitempty"`
	Bundles   map[string]PriceOverride `yaml:"bundles,omitempty"`
	CareItems map[string]PriceOverride `yaml:"care_items,omitempty"`
	Cosmetics map[string]PriceOverride `yaml:"cosmetics,omitempty"`
}

// Empty reports whether o changes nothing.
func (o Overrides) Empty() bool {
	return len(o.Foods) == 0 && len(o.Bundles) == 0 && len(o.CareItems) == 0 && len(o.Cosmetics) == 0
}

// LoadOverrides reads an override file. A missing file yields empty
// overrides and no error.
func LoadOverrides(path string) (Overrides, error) {
	var o Overrides
	if path == "" {
		return o, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Overrides{}, nil
		}
		return Overrides{}, fmt.Errorf("read overrides: %w", err)
	}
	if err := yaml.Unmarshal(b, &o); err != nil {
		return Overrides{}, fmt.Errorf("decode overrides: %w", err)
	}
	return o, nil
}

// ApplyOverrides returns a copy of c with the override prices merged in.
func (c *Catalog) ApplyOverrides(o Overrides) (*Catalog, error) {
	out := c.Clone()
	if o.Empty() {
		return out, nil
	}

	for id, ov := range o.Foods {
		i := indexOf(len(out.Foods), func(i int) bool { return out.Foods[i].ID == id })
		if err := applyPrice("food", id, i, ov, func(p int) { out.Foods[i].Price = p }); err != nil {
			return nil, err
		}
	}
	for id, ov := range o.Bundles {
		i := indexOf(len(out.Bundles), func(i int) bool { return out.Bundles[i].ID == id })
		if err := applyPrice("bundle", id, i, ov, func(p int) { out.Bundles[i].Price = p }); err != nil {
			return nil, err
		}
	}
	for id, ov := range o.CareItems {
		i := indexOf(len(out.CareItems), func(i int) bool { return out.CareItems[i].ID == id })
		if err := applyPrice("care item", id, i, ov, func(p int) { out.CareItems[i].Price = p }); err != nil {
			return nil, err
		}
	}
	for id, ov := range o.Cosmetics {
		i := indexOf(len(out.Cosmetics), func(i int) bool { return out.Cosmetics[i].ID == id })
		if err := applyPrice("cosmetic", id, i, ov, func(p int) { out.Cosmetics[i].Price = p }); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func indexOf(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return -1
}

func applyPrice(kind, id string, idx int, ov PriceOverride, set func(int)) error {
	if idx < 0 {
		return fmt.Errorf("override: unknown %s %q", kind, id)
	}
	if ov.Price == nil {
		return nil
	}
	if *ov.Price < 0 {
		return fmt.Errorf("override: %s %q has negative price %d", kind, id, *ov.Price)
	}
	set(*ov.Price)
	return nil
}
