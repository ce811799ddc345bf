package model

import (
	"fmt"
	"sort"
)

// Placement represents a single item placed inside a box, at an anchor
// coordinate in the box's interior frame with the chosen orientation.
type Placement struct {
	Item   Item    `json:"item"`
	X      float64 `json:"x"` // distance from left wall (cm)
	Y      float64 `json:"y"` // distance from front wall (cm)
	Z      float64 `json:"z"` // distance from floor (cm)
	Length float64 `json:"length"` // oriented extent along X
	Width  float64 `json:"width"`  // oriented extent along Y
	Height float64 `json:"height"` // oriented extent along Z
}

// Top returns the Z coordinate of the placement's top face.
func (p Placement) Top() float64 {
	return p.Z + p.Height
}

// Rotated reports whether the placement deviates from the item's canonical
// orientation.
func (p Placement) Rotated() bool {
	return p.Length != p.Item.Length || p.Width != p.Item.Width || p.Height != p.Item.Height
}

// Overlaps reports whether two placements' bounding boxes share interior
// volume. Exact arithmetic, no tolerance: touching faces do not overlap.
func (p Placement) Overlaps(q Placement) bool {
	return p.X < q.X+q.Length && q.X < p.X+p.Length &&
		p.Y < q.Y+q.Width && q.Y < p.Y+p.Width &&
		p.Z < q.Z+q.Height && q.Z < p.Z+p.Height
}

// FootprintOverlaps reports whether the XY projections of two placements
// share interior area, regardless of height.
func (p Placement) FootprintOverlaps(q Placement) bool {
	return p.X < q.X+q.Length && q.X < p.X+p.Length &&
		p.Y < q.Y+q.Width && q.Y < p.Y+p.Width
}

// RestsOn reports whether p sits directly on q's top face: bottom of p at
// the top of q with overlapping footprints.
func (p Placement) RestsOn(q Placement) bool {
	return p.Z == q.Top() && p.FootprintOverlaps(q)
}

// Layout is one box with a feasible, non-overlapping arrangement covering
// every submitted item exactly once.
type Layout struct {
	Box        Box         `json:"box"`
	Placements []Placement `json:"placements"`
}

// TotalWeight returns the payload weight of all placed items.
func (l Layout) TotalWeight() float64 {
	var total float64
	for _, p := range l.Placements {
		total += p.Item.Weight
	}
	return total
}

// UsedVolume returns the volume occupied by placed items in cm³.
func (l Layout) UsedVolume() float64 {
	var total float64
	for _, p := range l.Placements {
		total += p.Length * p.Width * p.Height
	}
	return total
}

// Utilization returns the used share of the interior volume as a percentage.
func (l Layout) Utilization() float64 {
	iv := l.Box.InteriorVolume()
	if iv == 0 {
		return 0
	}
	return (l.UsedVolume() / iv) * 100.0
}

// MaxHeightUsed returns the highest occupied Z coordinate.
func (l Layout) MaxHeightUsed() float64 {
	var max float64
	for _, p := range l.Placements {
		if p.Top() > max {
			max = p.Top()
		}
	}
	return max
}

// PackingEfficiency relates used volume to the box footprint times the
// occupied height, penalizing layouts that waste the lower layers.
func (l Layout) PackingEfficiency() float64 {
	h := l.MaxHeightUsed()
	if h == 0 {
		return 0
	}
	envelope := l.Box.Length * l.Box.Width * h
	if envelope == 0 {
		return 0
	}
	return (l.UsedVolume() / envelope) * 100.0
}

// NoFit explains why a box could not hold an item set. It is an expected
// result value, not an error: the selector simply moves to the next
// candidate.
type NoFit struct {
	ItemID string `json:"item_id,omitempty"` // first item with no admissible placement
	Detail string `json:"detail"`
}

func (n NoFit) String() string {
	if n.ItemID == "" {
		return n.Detail
	}
	return fmt.Sprintf("item %s: %s", n.ItemID, n.Detail)
}

// PackingStep is one human-readable instruction for assembling a layout,
// grouping items that go in at roughly the same height.
type PackingStep struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	ItemCount   int    `json:"item_count"`
}

// layerGranularity groups placements into packing steps by 10 cm bands.
const layerGranularity = 10.0

// PackingSteps derives ordered assembly instructions from the layout:
// bottom layer first, then each higher band.
func (l Layout) PackingSteps() []PackingStep {
	if len(l.Placements) == 0 {
		return nil
	}

	type band struct {
		height float64
		counts map[string]int
		total  int
	}
	bands := map[float64]*band{}
	var order []float64
	for _, p := range l.Placements {
		h := float64(int(p.Z/layerGranularity)) * layerGranularity
		b, ok := bands[h]
		if !ok {
			b = &band{height: h, counts: map[string]int{}}
			bands[h] = b
			order = append(order, h)
		}
		label := p.Item.Code
		if label == "" {
			label = p.Item.ID
		}
		b.counts[label]++
		b.total++
	}

	// Bands sorted bottom-up. Insertion order already follows placement
	// order, which the engine keeps low-first, but sort to be safe.
	sort.Float64s(order)

	steps := make([]PackingStep, 0, len(order))
	for i, h := range order {
		b := bands[h]
		where := "on the box floor"
		if h > 0 {
			where = fmt.Sprintf("at about %.0f cm height", h)
		}

		labels := make([]string, 0, len(b.counts))
		for label := range b.counts {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		desc := ""
		for i, label := range labels {
			if i > 0 {
				desc += ", "
			}
			if n := b.counts[label]; n > 1 {
				desc += fmt.Sprintf("%s x %d", label, n)
			} else {
				desc += label
			}
		}

		steps = append(steps, PackingStep{
			Step:        i + 1,
			Description: fmt.Sprintf("Place %s: %s", where, desc),
			ItemCount:   b.total,
		})
	}
	return steps
}
