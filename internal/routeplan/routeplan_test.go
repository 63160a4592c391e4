package routeplan

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/jpsplus"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/worldmap"
)

func newTestPlanner(t *testing.T, buildings []model.Box) *Planner {
	t.Helper()
	wm := worldmap.NewWorldMap(
		model.Coordinate{X: 9, Y: 9, Z: 6},
		model.Coordinate{X: 0, Y: 0, Z: 0},
		1, 5,
		buildings, nil, nil,
	)
	finders, err := jpsplus.BuildFinders(context.Background(), wm)
	require.NoError(t, err)
	return New(wm, finders, rand.New(rand.NewSource(1)))
}

func TestPlanAssemblesVerticalAndHorizontalSegments(t *testing.T) {
	p := newTestPlanner(t, nil)
	start := model.Coordinate{X: 0, Y: 0, Z: 0}
	end := model.Coordinate{X: 9, Y: 9, Z: 0}

	path, err := p.Plan(start, end)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, end, path[len(path)-1])

	for _, c := range path {
		assert.True(t, c.Z == 0 || c.Z == p.wm.HLow)
	}
}

func TestPlanClimbsOverABuildingAtSameAltitude(t *testing.T) {
	buildings := []model.Box{{X1: 4, Y1: 0, X2: 4, Y2: 9, Z1: 0, Z2: 2}}
	p := newTestPlanner(t, buildings)

	start := model.Coordinate{X: 0, Y: 5, Z: 0}
	end := model.Coordinate{X: 9, Y: 5, Z: 0}

	path, err := p.Plan(start, end)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	maxZ := 0
	for _, c := range path {
		if c.Z > maxZ {
			maxZ = c.Z
		}
	}
	assert.Greater(t, maxZ, p.wm.HLow)
}
