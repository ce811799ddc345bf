package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ShipPack/internal/model"
)

func TestDefault_ReferenceData(t *testing.T) {
	cat := Default()

	assert.Len(t, cat.Products, 5)
	assert.Len(t, cat.Boxes, 5)
	assert.Len(t, cat.Carriers, 3)

	// Interior dimensions derive from outer minus the wall allowance.
	no1, ok := cat.Box("No.1")
	require.True(t, ok)
	assert.Equal(t, 35.5, no1.Length)
	assert.Equal(t, 35.0, no1.Width)
	assert.Equal(t, 22.0, no1.Height)
	assert.Equal(t, 98.5, no1.SizeSum())

	s, ok := cat.Product("S")
	require.True(t, ok)
	assert.True(t, s.Stackable)

	_, ok = cat.Product("XXL")
	assert.False(t, ok)
	_, ok = cat.Box("No.99")
	assert.False(t, ok)
	_, ok = cat.Carrier("fedex")
	assert.False(t, ok)
}

func TestProduct_NewItemMintsFreshIDs(t *testing.T) {
	p, ok := Default().Product("L")
	require.True(t, ok)

	a := p.NewItem()
	b := p.NewItem()

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "L", a.Code)
	assert.Equal(t, 20.0, a.Length)
	assert.Equal(t, 1.2, a.Weight)
}

func TestItemsForOrder(t *testing.T) {
	cat := Default()

	items, err := cat.ItemsForOrder(map[string]int{"S": 2, "LL": 1})
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Expansion follows catalog order regardless of map iteration.
	assert.Equal(t, "S", items[0].Code)
	assert.Equal(t, "S", items[1].Code)
	assert.Equal(t, "LL", items[2].Code)
}

func TestItemsForOrder_UnknownCode(t *testing.T) {
	_, err := Default().ItemsForOrder(map[string]int{"NOPE": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPE")
}

func TestItemsForOrder_NegativeQuantity(t *testing.T) {
	_, err := Default().ItemsForOrder(map[string]int{"S": -1})
	assert.ErrorIs(t, err, model.ErrInvalidItem)
}

func TestCarrier_BillableWeight(t *testing.T) {
	c, ok := Default().Carrier("yamato")
	require.True(t, ok)

	// Volumetric 60000/5000 = 12 kg beats 3 kg actual.
	assert.InDelta(t, 12.0, c.BillableWeight(3, 60000), 1e-9)
	// A dense parcel bills its actual weight.
	assert.InDelta(t, 20.0, c.BillableWeight(20, 60000), 1e-9)
}

func TestCarrier_TierFor(t *testing.T) {
	c, ok := Default().Carrier("yamato")
	require.True(t, ok)

	tier, ok := c.TierFor(98.5, 6.66)
	require.True(t, ok)
	assert.Equal(t, 100, tier.Size)

	// Heavy parcels shift to a larger tier even when small.
	tier, ok = c.TierFor(98.5, 18)
	require.True(t, ok)
	assert.Equal(t, 140, tier.Size)

	_, ok = c.TierFor(300, 5)
	assert.False(t, ok)
	_, ok = c.TierFor(100, 50)
	assert.False(t, ok)
}

func TestCarrier_Zones(t *testing.T) {
	c, ok := Default().Carrier("japanpost")
	require.True(t, ok)

	assert.Equal(t, []string{ZoneHokkaido, ZoneKansai, ZoneKanto, ZoneOkinawa}, c.Zones())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")
	want := Default()

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, len(want.Products), len(got.Products))
	assert.Equal(t, len(want.Boxes), len(got.Boxes))
	assert.Equal(t, len(want.Carriers), len(got.Carriers))

	no2, ok := got.Box("No.2")
	require.True(t, ok)
	assert.Equal(t, "180", no2.UnitCost.String())

	yamato, ok := got.Carrier("yamato")
	require.True(t, ok)
	price := yamato.Tiers[0].Prices[ZoneKanto]
	assert.Equal(t, "650", price.String())
}

func TestLoad_MissingFileWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cat.Boxes, 5)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default catalog must be persisted")
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
