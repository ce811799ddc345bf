// Package catalog holds the process-wide immutable reference data: the
// product master, the transport box master, and per-carrier rate tables.
// Loaded once at startup and shared read-only across evaluation runs.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/ShipPack/internal/model"
)

// Product is a catalog entry an order line can reference by code.
type Product struct {
	Code       string  `json:"code"`
	Name       string  `json:"name,omitempty"`
	Length     float64 `json:"length"` // cm
	Width      float64 `json:"width"`  // cm
	Height     float64 `json:"height"` // cm
	Weight     float64 `json:"weight"` // kg
	Stackable  bool    `json:"stackable"`
	Fragile    bool    `json:"fragile"`
	ThisSideUp bool    `json:"this_side_up"`
	MaxLoad    float64 `json:"max_load,omitempty"`
}

// NewItem mints a fresh item instance from the product definition.
func (p Product) NewItem() model.Item {
	item := model.NewItem(p.Code, p.Length, p.Width, p.Height, p.Weight)
	item.Stackable = p.Stackable
	item.Fragile = p.Fragile
	item.ThisSideUp = p.ThisSideUp
	item.MaxLoad = p.MaxLoad
	return item
}

// Catalog bundles all reference data for an optimization run.
type Catalog struct {
	Products []Product   `json:"products"`
	Boxes    []model.Box `json:"boxes"`
	Carriers []Carrier   `json:"carriers"`
}

// Product looks up a catalog entry by code.
func (c Catalog) Product(code string) (Product, bool) {
	for _, p := range c.Products {
		if p.Code == code {
			return p, true
		}
	}
	return Product{}, false
}

// Box looks up a box type by id.
func (c Catalog) Box(id string) (model.Box, bool) {
	for _, b := range c.Boxes {
		if b.ID == id {
			return b, true
		}
	}
	return model.Box{}, false
}

// Carrier looks up a carrier by id.
func (c Catalog) Carrier(id string) (Carrier, bool) {
	for _, carrier := range c.Carriers {
		if carrier.ID == id {
			return carrier, true
		}
	}
	return Carrier{}, false
}

// ItemsForOrder expands order lines (product code -> quantity) into item
// instances. Unknown codes fail the whole order.
func (c Catalog) ItemsForOrder(lines map[string]int) ([]model.Item, error) {
	// Deterministic expansion order: catalog order, not map order.
	var items []model.Item
	remaining := len(lines)
	for _, p := range c.Products {
		qty, ok := lines[p.Code]
		if !ok {
			continue
		}
		remaining--
		if qty < 0 {
			return nil, fmt.Errorf("%w: product %s: negative quantity %d", model.ErrInvalidItem, p.Code, qty)
		}
		for i := 0; i < qty; i++ {
			items = append(items, p.NewItem())
		}
	}
	if remaining != 0 {
		for code := range lines {
			if _, ok := c.Product(code); !ok {
				return nil, fmt.Errorf("unknown product code %q", code)
			}
		}
	}
	return items, nil
}

// DefaultCatalogPath returns the default file path for the catalog file.
func DefaultCatalogPath(configDir string) string {
	return filepath.Join(configDir, "catalog.json")
}

// Save writes the catalog to the specified JSON file, creating parent
// directories if they do not exist.
func Save(path string, c Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads the catalog from the specified JSON file. If the file does not
// exist, it returns the default catalog and saves it.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := Default()
			if saveErr := Save(path, c); saveErr != nil {
				return c, saveErr
			}
			return c, nil
		}
		return Catalog{}, err
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return Catalog{}, err
	}
	return c, nil
}
