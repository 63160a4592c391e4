package jpsplus

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/worldmap"
)

// Finders is the Shared Tick Store's altitude -> preprocessed Grid index
// (spec.md §3 "jps_finders"). It is built once from the static world model
// and never mutated afterward.
type Finders map[int]*Grid

// BuildFinders preprocesses one Grid per candidate altitude in wm, running
// the preprocessing passes concurrently across altitudes (spec.md §5:
// "Preprocessing across altitudes is likewise independent").
func BuildFinders(ctx context.Context, wm *worldmap.WorldMap) (Finders, error) {
	altitudes := wm.CandidateAltitudes()
	width := wm.MapRange.X + 1
	height := wm.MapRange.Y + 1

	grids := make([]*Grid, len(altitudes))
	g, _ := errgroup.WithContext(ctx)
	for i, alt := range altitudes {
		i, alt := i, alt
		g.Go(func() error {
			obstacles := obstaclesAtAltitude(wm, alt, width, height)
			grid := NewGrid(width, height, obstacles)
			Preprocess(grid)
			grids[i] = grid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	finders := make(Finders, len(altitudes))
	for i, alt := range altitudes {
		finders[alt] = grids[i]
	}
	return finders, nil
}

// obstaclesAtAltitude returns every grid cell blocked by a building at the
// given altitude, in (row=Y, col=X) grid coordinates.
func obstaclesAtAltitude(wm *worldmap.WorldMap, altitude, width, height int) []Point {
	var obstacles []Point
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c := model.Coordinate{X: col, Y: row, Z: altitude}
			if c.IsOverlap(wm.Buildings) {
				obstacles = append(obstacles, Point{Row: row, Col: col})
			}
		}
	}
	return obstacles
}
