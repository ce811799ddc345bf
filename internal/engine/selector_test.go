package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ShipPack/internal/model"
)

func yen(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestSelect_OrdersByCostThenVolume(t *testing.T) {
	boxes := []model.Box{
		testBox("big", 30, 30, 30, 50),
		testBox("small", 12, 12, 12, 50),
		testBox("mid", 20, 20, 20, 50),
	}
	boxes[0].UnitCost = yen(300)
	boxes[1].UnitCost = yen(120)
	boxes[2].UnitCost = yen(180)

	items := []model.Item{testItem("a", 5, 5, 5, 1)}

	candidates := Select(items, boxes)

	require.Len(t, candidates, 3)
	assert.Equal(t, "small", candidates[0].Boxes[0].ID)
	assert.Equal(t, "mid", candidates[1].Boxes[0].ID)
	assert.Equal(t, "big", candidates[2].Boxes[0].ID)
	for i, c := range candidates {
		assert.Equal(t, i, c.Index)
		assert.False(t, c.MultiBox())
	}
}

func TestSelect_VolumeAndWeightPreFilter(t *testing.T) {
	boxes := []model.Box{
		testBox("tight", 6, 6, 6, 50),   // 216 cm³: too small
		testBox("weak", 30, 30, 30, 1),  // volume fine, payload too low
		testBox("right", 20, 20, 20, 50),
	}

	items := []model.Item{
		testItem("a", 10, 10, 5, 2),
		testItem("b", 10, 10, 5, 2),
	}

	candidates := Select(items, boxes)

	require.Len(t, candidates, 1)
	assert.Equal(t, "right", candidates[0].Boxes[0].ID)
}

func TestSelect_PreFilterPassesGeometricMisfit(t *testing.T) {
	// 275 cm³ fits a 1000 cm³ interior by volume, so the selector keeps
	// the candidate; geometric rejection is the placement engine's job.
	boxes := []model.Box{testBox("ten", 10, 10, 10, 20)}
	items := []model.Item{testItem("big", 11, 5, 5, 1)}

	candidates := Select(items, boxes)

	require.Len(t, candidates, 1)

	_, nofit := firstFitEngine().Place(candidates[0].Boxes[0], candidates[0].Assignments[0])
	assert.NotNil(t, nofit)
}

func TestSelect_SplitsWhenNoSingleBoxFits(t *testing.T) {
	boxes := []model.Box{
		testBox("small", 12, 12, 12, 5),
		testBox("mid", 20, 20, 20, 10),
	}
	boxes[0].UnitCost = yen(120)
	boxes[1].UnitCost = yen(180)

	// Aggregate volume 16000 cm³ exceeds every interior, forcing a split.
	items := []model.Item{
		testItem("a", 20, 20, 20, 5),
		testItem("b", 20, 20, 20, 5),
	}

	candidates := Select(items, boxes)

	require.Len(t, candidates, 1)
	c := candidates[0]
	assert.True(t, c.MultiBox())
	require.Len(t, c.Boxes, 2)
	require.Len(t, c.Assignments, 2)

	var total int
	for _, group := range c.Assignments {
		total += len(group)
	}
	assert.Equal(t, len(items), total, "split must cover every item")
	assert.Equal(t, "360", c.TotalCost.String())
}

func TestSelect_NoBoxHoldsItem(t *testing.T) {
	boxes := []model.Box{testBox("small", 12, 12, 12, 5)}
	items := []model.Item{testItem("huge", 40, 40, 40, 2)}

	candidates := Select(items, boxes)

	assert.Empty(t, candidates)
}

func TestSelect_EmptyInputs(t *testing.T) {
	assert.Empty(t, Select(nil, nil))
	assert.Empty(t, Select([]model.Item{testItem("a", 5, 5, 5, 1)}, nil))
}

func TestGreedySplit_ReusesOpenInstances(t *testing.T) {
	boxes := []model.Box{testBox("mid", 20, 20, 20, 10)}

	// Four items of 2000 cm³ each share one 8000 cm³ instance.
	items := []model.Item{
		testItem("a", 20, 10, 10, 2),
		testItem("b", 20, 10, 10, 2),
		testItem("c", 20, 10, 10, 2),
		testItem("d", 20, 10, 10, 2),
	}

	cand, ok := greedySplit(items, boxes)

	require.True(t, ok)
	assert.Len(t, cand.Boxes, 1)
	assert.Len(t, cand.Assignments[0], 4)
}
