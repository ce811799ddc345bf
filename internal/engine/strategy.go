package engine

import (
	"fmt"

	"github.com/piwi3910/ShipPack/internal/model"
)

// Point is a candidate anchor coordinate inside a box's interior frame.
type Point struct {
	X, Y, Z float64
}

// Strategy decides which admissible (anchor, orientation) pair an item
// takes. The engine visits fits in a deterministic order: anchors sorted by
// (z, y, x), orientations in the item's fixed order. Strategies are
// interchangeable without touching the selector or the cost optimizer.
type Strategy interface {
	Name() string

	// Exhaustive reports whether every admissible fit must be scored.
	// When false the engine commits to the first admissible fit.
	Exhaustive() bool

	// Score rates an admissible fit; lower is better. Ties keep the
	// earlier fit in visiting order, so results stay deterministic.
	Score(box model.Box, anchor Point, d model.Dims) float64
}

// firstFit takes the first admissible placement. Fast and deterministic;
// the default heuristic.
type firstFit struct{}

func (firstFit) Name() string     { return "firstfit" }
func (firstFit) Exhaustive() bool { return false }

func (firstFit) Score(model.Box, Point, model.Dims) float64 { return 0 }

// bestFit scores every admissible placement and keeps the one that leaves
// the smallest occupied envelope: lowest resulting top face, then the
// snuggest footprint corner. Slower, often tighter layouts.
type bestFit struct{}

func (bestFit) Name() string     { return "bestfit" }
func (bestFit) Exhaustive() bool { return true }

func (bestFit) Score(box model.Box, anchor Point, d model.Dims) float64 {
	top := anchor.Z + d.Height
	back := anchor.Y + d.Width
	right := anchor.X + d.Length
	// Weighted so height dominates, then depth, then width. Box extents
	// bound each term, keeping the ordering strict.
	return top*(box.Length+1)*(box.Width+1) + back*(box.Length+1) + right
}

// NewStrategy returns the named placement strategy.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "firstfit", "":
		return firstFit{}, nil
	case "bestfit":
		return bestFit{}, nil
	default:
		return nil, fmt.Errorf("unknown placement strategy %q", name)
	}
}
