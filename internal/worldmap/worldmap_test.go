package worldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
)

func testMap() *WorldMap {
	buildings := []model.Box{
		{X1: 2, Y1: 2, X2: 3, Y2: 3, Z1: 0, Z2: 4},
		{X1: 6, Y1: 6, X2: 7, Y2: 7, Z1: 0, Z2: 8},
	}
	prices := []model.PriceRow{
		{Type: 0, Value: 800},
		{Type: 1, Value: 1500},
		{Type: 2, Value: 600},
	}
	return NewWorldMap(
		model.Coordinate{X: 19, Y: 19, Z: 15},
		model.Coordinate{X: 0, Y: 0, Z: 0},
		1, 14,
		buildings, nil, prices,
	)
}

func TestIsValidCellRejectsBuildingOverlap(t *testing.T) {
	wm := testMap()
	assert.False(t, wm.IsValidCell(model.Coordinate{X: 2, Y: 2, Z: 0}))
	assert.True(t, wm.IsValidCell(model.Coordinate{X: 2, Y: 2, Z: 5}))
}

func TestIsValidCellRejectsOutOfBounds(t *testing.T) {
	wm := testMap()
	assert.False(t, wm.IsValidCell(model.Coordinate{X: 20, Y: 0, Z: 0}))
	assert.False(t, wm.IsValidCell(model.Coordinate{X: -1, Y: 0, Z: 0}))
}

func TestCandidateAltitudesIncludesLowAndRoofs(t *testing.T) {
	wm := testMap()
	alts := wm.CandidateAltitudes()
	assert.Equal(t, 1, alts[0])
	assert.Contains(t, alts, 5)
	assert.Contains(t, alts, 9)
}

func TestCheapestAffordable(t *testing.T) {
	wm := testMap()
	row, ok := wm.CheapestAffordable(700)
	require.True(t, ok)
	assert.Equal(t, model.UAVType(2), row.Type)

	_, ok = wm.CheapestAffordable(100)
	assert.False(t, ok)
}

func TestPriceOf(t *testing.T) {
	wm := testMap()
	row, ok := wm.PriceOf(1)
	require.True(t, ok)
	assert.Equal(t, 1500, row.Value)

	_, ok = wm.PriceOf(99)
	assert.False(t, ok)
}
