// Package engine implements the 3D placement engine and the container
// selector. Placement uses an extreme-point heuristic: items are laid out
// one by one at candidate anchor coordinates generated from the corners of
// already-placed items, preferring low, front, left positions.
package engine

import (
	"log/slog"
	"sort"

	"github.com/piwi3910/ShipPack/internal/model"
)

// Engine runs the 3D bin-packing heuristic for a single box.
type Engine struct {
	strategy Strategy
	logger   *slog.Logger
}

// New creates a placement engine with the given strategy. A nil logger
// falls back to the default logger.
func New(strategy Strategy, logger *slog.Logger) *Engine {
	if strategy == nil {
		strategy = firstFit{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{strategy: strategy, logger: logger}
}

// Strategy returns the engine's placement strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Place attempts to build a feasible non-overlapping layout of all items
// inside the box. A nil NoFit means success; a non-nil NoFit is the normal
// "does not fit" outcome, never an error.
func (e *Engine) Place(box model.Box, items []model.Item) (model.Layout, *model.NoFit) {
	layout := model.Layout{Box: box}
	if len(items) == 0 {
		return layout, nil
	}

	ordered := sortForPlacement(items)

	var totalWeight float64
	anchors := []Point{{0, 0, 0}}

	for _, item := range ordered {
		if !box.CanFitWeight(totalWeight + item.Weight) {
			return model.Layout{}, &model.NoFit{
				ItemID: item.ID,
				Detail: "cumulative weight exceeds box max payload",
			}
		}

		sortAnchors(anchors)

		placed, ok := e.placeOne(box, layout.Placements, item, anchors)
		if !ok {
			return model.Layout{}, &model.NoFit{
				ItemID: item.ID,
				Detail: "no admissible anchor and orientation",
			}
		}

		layout.Placements = append(layout.Placements, placed)
		totalWeight += item.Weight
		anchors = updateAnchors(box, layout.Placements, anchors, placed)
	}

	e.logger.Debug("layout built",
		"box", box.ID,
		"items", len(layout.Placements),
		"utilization", layout.Utilization(),
	)
	return layout, nil
}

// placeOne finds a placement for one item per the engine strategy. Anchors
// must already be sorted.
func (e *Engine) placeOne(box model.Box, placed []model.Placement, item model.Item, anchors []Point) (model.Placement, bool) {
	orientations := item.Orientations()
	exhaustive := e.strategy.Exhaustive()

	var best model.Placement
	bestScore := 0.0
	found := false

	for _, anchor := range anchors {
		for _, d := range orientations {
			p := model.Placement{
				Item:   item,
				X:      anchor.X,
				Y:      anchor.Y,
				Z:      anchor.Z,
				Length: d.Length,
				Width:  d.Width,
				Height: d.Height,
			}
			if !admissible(box, placed, p) {
				continue
			}
			if !exhaustive {
				return p, true
			}
			score := e.strategy.Score(box, anchor, d)
			if !found || score < bestScore {
				best = p
				bestScore = score
				found = true
			}
		}
	}
	return best, found
}

// admissible checks all placement constraints: box bounds, overlap with
// placed items, and the stacking rules in both directions.
func admissible(box model.Box, placed []model.Placement, p model.Placement) bool {
	if p.X+p.Length > box.Length || p.Y+p.Width > box.Width || p.Z+p.Height > box.Height {
		return false
	}

	for _, q := range placed {
		if p.Overlaps(q) {
			return false
		}
	}

	// New item resting on placed items.
	for _, q := range placed {
		if !p.RestsOn(q) {
			continue
		}
		if !q.Item.Stackable {
			return false
		}
		if q.Item.Fragile && !p.Item.Fragile {
			return false
		}
		if q.Item.MaxLoad > 0 && loadOn(placed, q)+p.Item.Weight > q.Item.MaxLoad {
			return false
		}
	}

	// Placed items ending up on top of the new item (an item slotted
	// underneath an earlier overhang).
	var newLoad float64
	for _, q := range placed {
		if !q.RestsOn(p) {
			continue
		}
		if !p.Item.Stackable {
			return false
		}
		if p.Item.Fragile && !q.Item.Fragile {
			return false
		}
		newLoad += q.Item.Weight
	}
	if p.Item.MaxLoad > 0 && newLoad > p.Item.MaxLoad {
		return false
	}

	return true
}

// loadOn sums the weight of items resting directly on q's top face.
func loadOn(placed []model.Placement, q model.Placement) float64 {
	var total float64
	for _, r := range placed {
		if r.RestsOn(q) {
			total += r.Item.Weight
		}
	}
	return total
}

// updateAnchors derives the new candidate anchors after a placement: the
// three far corners of the placed item, with anchors covered by placed
// geometry or outside the box pruned away.
func updateAnchors(box model.Box, placed []model.Placement, anchors []Point, p model.Placement) []Point {
	candidates := append(anchors,
		Point{p.X + p.Length, p.Y, p.Z},
		Point{p.X, p.Y + p.Width, p.Z},
		Point{p.X, p.Y, p.Z + p.Height},
	)

	kept := candidates[:0]
	seen := make(map[Point]bool, len(candidates))
	for _, a := range candidates {
		if seen[a] {
			continue
		}
		seen[a] = true
		if a.X >= box.Length || a.Y >= box.Width || a.Z >= box.Height {
			continue
		}
		if covered(placed, a) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// covered reports whether the anchor lies inside placed geometry. Points on
// a placement's far faces are usable (adjacent space), the min corner and
// interior are not.
func covered(placed []model.Placement, a Point) bool {
	for _, p := range placed {
		if a.X >= p.X && a.X < p.X+p.Length &&
			a.Y >= p.Y && a.Y < p.Y+p.Width &&
			a.Z >= p.Z && a.Z < p.Z+p.Height {
			return true
		}
	}
	return false
}

// sortForPlacement orders items for the packing pass: descending volume,
// ties by descending max dimension, then input order. Large items first
// reduces fragmentation.
func sortForPlacement(items []model.Item) []model.Item {
	ordered := make([]model.Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		vi, vj := ordered[i].Volume(), ordered[j].Volume()
		if vi != vj {
			return vi > vj
		}
		return ordered[i].MaxDimension() > ordered[j].MaxDimension()
	})
	return ordered
}

// sortAnchors orders candidate anchors by (z, y, x): low, then front, then
// left. Deterministic and favors stable, floor-first layouts.
func sortAnchors(anchors []Point) {
	sort.Slice(anchors, func(i, j int) bool {
		if anchors[i].Z != anchors[j].Z {
			return anchors[i].Z < anchors[j].Z
		}
		if anchors[i].Y != anchors[j].Y {
			return anchors[i].Y < anchors[j].Y
		}
		return anchors[i].X < anchors[j].X
	})
}
