package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ShipPack/internal/model"
)

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("firstfit")
	require.NoError(t, err)
	assert.Equal(t, "firstfit", s.Name())
	assert.False(t, s.Exhaustive())

	s, err = NewStrategy("")
	require.NoError(t, err)
	assert.Equal(t, "firstfit", s.Name())

	s, err = NewStrategy("bestfit")
	require.NoError(t, err)
	assert.Equal(t, "bestfit", s.Name())
	assert.True(t, s.Exhaustive())

	_, err = NewStrategy("simulated-annealing")
	assert.Error(t, err)
}

func TestBestFit_ScorePrefersLowerPlacements(t *testing.T) {
	box := testBox("ten", 10, 10, 10, 20)
	dims := model.Dims{Length: 5, Width: 5, Height: 5}

	floor := bestFit{}.Score(box, Point{X: 5, Y: 5, Z: 0}, dims)
	stacked := bestFit{}.Score(box, Point{X: 0, Y: 0, Z: 5}, dims)

	assert.Less(t, floor, stacked, "a floor position must beat any stacked one")
}

func TestBestFit_PacksAllItems(t *testing.T) {
	box := testBox("No.2-interior", 48.2, 38.2, 29, 15)
	items := []model.Item{
		testItem("s1", 15, 10, 8, 0.5),
		testItem("l1", 20, 15, 12, 1.2),
		testItem("ll1", 25, 20, 15, 2.0),
	}

	layout, nofit := New(bestFit{}, nil).Place(box, items)

	require.Nil(t, nofit)
	assertValidLayout(t, layout, items)
}

func TestBestFit_Deterministic(t *testing.T) {
	box := testBox("ten", 20, 20, 20, 50)
	items := []model.Item{
		testItem("a", 7, 6, 5, 1),
		testItem("b", 5, 5, 5, 1),
		testItem("c", 9, 4, 4, 1),
	}

	first, nofit := New(bestFit{}, nil).Place(box, items)
	require.Nil(t, nofit)
	second, nofit := New(bestFit{}, nil).Place(box, items)
	require.Nil(t, nofit)

	assert.Equal(t, first, second)
}
