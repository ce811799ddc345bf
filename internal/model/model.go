package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item represents a single physical unit to ship. Dimensions are the
// canonical orientation in cm; weight is in kg. An Item is immutable once
// submitted to an optimization run.
type Item struct {
	ID         string  `json:"id"`
	Code       string  `json:"code,omitempty"` // product catalog code, empty for ad-hoc items
	Length     float64 `json:"length"`         // cm
	Width      float64 `json:"width"`          // cm
	Height     float64 `json:"height"`         // cm
	Weight     float64 `json:"weight"`         // kg
	Stackable  bool    `json:"stackable"`
	Fragile    bool    `json:"fragile"`
	ThisSideUp bool    `json:"this_side_up"`
	MaxLoad    float64 `json:"max_load,omitempty"` // kg allowed on the top face; 0 = unconstrained
}

func NewItem(code string, l, w, h, weight float64) Item {
	return Item{
		ID:        uuid.New().String()[:8],
		Code:      code,
		Length:    l,
		Width:     w,
		Height:    h,
		Weight:    weight,
		Stackable: true,
	}
}

// Volume returns the item volume in cm³.
func (i Item) Volume() float64 {
	return i.Length * i.Width * i.Height
}

// MaxDimension returns the longest edge of the item.
func (i Item) MaxDimension() float64 {
	m := i.Length
	if i.Width > m {
		m = i.Width
	}
	if i.Height > m {
		m = i.Height
	}
	return m
}

// Validate reports ErrInvalidItem when any dimension or the weight is
// non-positive. Items are otherwise treated as already validated input.
func (i Item) Validate() error {
	if i.Length <= 0 || i.Width <= 0 || i.Height <= 0 {
		return fmt.Errorf("%w: %s: dimensions must be positive (%.1f x %.1f x %.1f)",
			ErrInvalidItem, i.ID, i.Length, i.Width, i.Height)
	}
	if i.Weight <= 0 {
		return fmt.Errorf("%w: %s: weight must be positive (%.2f)", ErrInvalidItem, i.ID, i.Weight)
	}
	if i.MaxLoad < 0 {
		return fmt.Errorf("%w: %s: max load must not be negative (%.2f)", ErrInvalidItem, i.ID, i.MaxLoad)
	}
	return nil
}

// Dims holds the oriented extents of an item along the container axes.
type Dims struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (d Dims) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// Orientations returns the axis-aligned rotations allowed for the item, in a
// fixed deterministic order. Items flagged this-side-up keep their height
// axis and may only rotate about it. Duplicate extents (cubes, square
// footprints) are collapsed so each distinct orientation is tried once.
func (i Item) Orientations() []Dims {
	all := []Dims{
		{i.Length, i.Width, i.Height},
		{i.Width, i.Length, i.Height},
		{i.Length, i.Height, i.Width},
		{i.Height, i.Length, i.Width},
		{i.Width, i.Height, i.Length},
		{i.Height, i.Width, i.Length},
	}
	if i.ThisSideUp {
		all = all[:2]
	}

	out := make([]Dims, 0, len(all))
	for _, d := range all {
		dup := false
		for _, seen := range out {
			if seen == d {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, d)
		}
	}
	return out
}

// Box represents a transport box type. Interior dimensions bound placements;
// outer dimensions drive carrier size tiers. Immutable reference data.
type Box struct {
	ID          string          `json:"id"`
	Length      float64         `json:"length"`       // interior, cm
	Width       float64         `json:"width"`        // interior, cm
	Height      float64         `json:"height"`       // interior, cm
	OuterLength float64         `json:"outer_length"` // cm
	OuterWidth  float64         `json:"outer_width"`  // cm
	OuterHeight float64         `json:"outer_height"` // cm
	MaxWeight   float64         `json:"max_weight"`   // kg payload limit
	UnitCost    decimal.Decimal `json:"unit_cost"`    // price of the box itself
}

// wallThickness is the assumed cardboard wall thickness in cm, applied on
// each side when deriving interior from outer dimensions.
const wallThickness = 1.0

// NewBox builds a Box from outer dimensions, deriving the interior by
// subtracting the wall thickness on every side.
func NewBox(id string, outerL, outerW, outerH, maxWeight float64, unitCost decimal.Decimal) Box {
	inner := func(v float64) float64 {
		v -= 2 * wallThickness
		if v < 0 {
			return 0
		}
		return v
	}
	return Box{
		ID:          id,
		Length:      inner(outerL),
		Width:       inner(outerW),
		Height:      inner(outerH),
		OuterLength: outerL,
		OuterWidth:  outerW,
		OuterHeight: outerH,
		MaxWeight:   maxWeight,
		UnitCost:    unitCost,
	}
}

// InteriorVolume returns the usable volume in cm³.
func (b Box) InteriorVolume() float64 {
	return b.Length * b.Width * b.Height
}

// OuterVolume returns the outer volume in cm³, used for volumetric weight.
func (b Box) OuterVolume() float64 {
	return b.OuterLength * b.OuterWidth * b.OuterHeight
}

// SizeSum returns the sum of outer dimensions in cm, the measure carriers
// use for size tiers (a 58+40+22 box is "120 size").
func (b Box) SizeSum() float64 {
	return b.OuterLength + b.OuterWidth + b.OuterHeight
}

// CanFitWeight reports whether the payload weight is within the box limit.
func (b Box) CanFitWeight(weight float64) bool {
	return weight <= b.MaxWeight
}

// CanFitVolume reports whether the aggregate item volume is within the
// interior volume. A volume fit does not guarantee a geometric fit.
func (b Box) CanFitVolume(volume float64) bool {
	return volume <= b.InteriorVolume()
}
