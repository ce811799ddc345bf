package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/ShipPack/internal/model"
)

// Candidate is one box set to evaluate: the box instances and the items
// assigned to each. Single-box candidates carry all items in one group.
type Candidate struct {
	// Index is the position in the selector's deterministic enumeration
	// order; the final tie-break for equal-cost results.
	Index int

	Boxes       []model.Box
	Assignments [][]model.Item

	TotalCost   decimal.Decimal // sum of box unit costs
	TotalVolume float64         // sum of interior volumes, cm³
}

// MultiBox reports whether the candidate splits the shipment.
func (c Candidate) MultiBox() bool {
	return len(c.Boxes) > 1
}

// Select enumerates candidate box sets for the items, cheapest first:
// every single box whose interior volume and max payload cover the
// aggregate demand. Only when no single box passes that pre-filter does it
// add one greedy multi-box split. The volume/weight pre-filter is cheap and
// runs before any placement; a candidate passing it may still turn out
// geometrically infeasible.
func Select(items []model.Item, boxes []model.Box) []Candidate {
	var totalVolume, totalWeight float64
	for _, item := range items {
		totalVolume += item.Volume()
		totalWeight += item.Weight
	}

	var candidates []Candidate
	for _, box := range boxes {
		if !box.CanFitVolume(totalVolume) || !box.CanFitWeight(totalWeight) {
			continue
		}
		candidates = append(candidates, Candidate{
			Boxes:       []model.Box{box},
			Assignments: [][]model.Item{items},
			TotalCost:   box.UnitCost,
			TotalVolume: box.InteriorVolume(),
		})
	}

	// Cheaper and smaller candidates evaluate first under the time budget.
	sort.SliceStable(candidates, func(i, j int) bool {
		if cmp := candidates[i].TotalCost.Cmp(candidates[j].TotalCost); cmp != 0 {
			return cmp < 0
		}
		return candidates[i].TotalVolume < candidates[j].TotalVolume
	})

	if len(candidates) == 0 {
		if multi, ok := greedySplit(items, boxes); ok {
			candidates = append(candidates, multi)
		}
	}

	for i := range candidates {
		candidates[i].Index = i
	}
	return candidates
}

// greedySplit builds one multi-box plan: items descending by volume, each
// assigned to the first open box instance (instances ordered by ascending
// unit cost) with volume and weight budget left, opening a new instance of
// the cheapest box type that can hold the item when none fits. One plan,
// not an exhaustive partition search: partitioning is exponential and the
// engine trades optimality for bounded latency.
func greedySplit(items []model.Item, boxes []model.Box) (Candidate, bool) {
	if len(items) == 0 || len(boxes) == 0 {
		return Candidate{}, false
	}

	types := make([]model.Box, len(boxes))
	copy(types, boxes)
	sort.SliceStable(types, func(i, j int) bool {
		return types[i].UnitCost.Cmp(types[j].UnitCost) < 0
	})

	ordered := sortForPlacement(items)

	type instance struct {
		box    model.Box
		items  []model.Item
		volume float64
		weight float64
	}
	var open []*instance

	for _, item := range ordered {
		placed := false
		for _, inst := range open {
			if inst.volume+item.Volume() <= inst.box.InteriorVolume() &&
				inst.weight+item.Weight <= inst.box.MaxWeight {
				inst.items = append(inst.items, item)
				inst.volume += item.Volume()
				inst.weight += item.Weight
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		opened := false
		for _, box := range types {
			if box.CanFitVolume(item.Volume()) && box.CanFitWeight(item.Weight) && fitsAlone(box, item) {
				open = append(open, &instance{
					box:    box,
					items:  []model.Item{item},
					volume: item.Volume(),
					weight: item.Weight,
				})
				opened = true
				break
			}
		}
		if !opened {
			// No box type can hold this item at all.
			return Candidate{}, false
		}
	}

	cand := Candidate{TotalCost: decimal.Zero}
	for _, inst := range open {
		cand.Boxes = append(cand.Boxes, inst.box)
		cand.Assignments = append(cand.Assignments, inst.items)
		cand.TotalCost = cand.TotalCost.Add(inst.box.UnitCost)
		cand.TotalVolume += inst.box.InteriorVolume()
	}
	return cand, true
}

// fitsAlone reports whether the item fits the box interior in at least one
// allowed orientation.
func fitsAlone(box model.Box, item model.Item) bool {
	for _, d := range item.Orientations() {
		if d.Length <= box.Length && d.Width <= box.Width && d.Height <= box.Height {
			return true
		}
	}
	return false
}
