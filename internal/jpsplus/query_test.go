package jpsplus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStraightCorridor(t *testing.T) {
	grid := NewGrid(10, 10, nil)
	Preprocess(grid)

	path := grid.GetPath(Point{Row: 0, Col: 0}, Point{Row: 9, Col: 9}, Full)
	require.NotEmpty(t, path)
	assert.Len(t, path, 10)

	skeleton := grid.GetPath(Point{Row: 0, Col: 0}, Point{Row: 9, Col: 9}, Skeleton)
	assert.Len(t, skeleton, 2)
}

func TestSingleWallDetour(t *testing.T) {
	// Building (x=5, y=0..8) blocks column 5 for rows 0..8, leaving a gap
	// at row 9 (spec.md boundary scenario 2). Grid rows map to Y, columns
	// map to X.
	var obstacles []Point
	for row := 0; row <= 8; row++ {
		obstacles = append(obstacles, Point{Row: row, Col: 5})
	}
	grid := NewGrid(10, 10, obstacles)
	Preprocess(grid)

	start := Point{Row: 4, Col: 0}
	goal := Point{Row: 4, Col: 9}
	path := grid.GetPath(start, goal, Full)
	require.NotEmpty(t, path)
	assert.Len(t, path, 11)

	skeleton := grid.GetPath(start, goal, Skeleton)
	assert.Len(t, skeleton, 3)
}

func TestUnreachable(t *testing.T) {
	var obstacles []Point
	for row := 0; row <= 4; row++ {
		obstacles = append(obstacles, Point{Row: row, Col: 2})
	}
	grid := NewGrid(5, 5, obstacles)
	Preprocess(grid)

	path := grid.GetPath(Point{Row: 0, Col: 0}, Point{Row: 0, Col: 4}, Full)
	assert.Empty(t, path)
}

func TestPreprocessingIdempotence(t *testing.T) {
	obstacles := []Point{{Row: 2, Col: 2}, {Row: 2, Col: 3}, {Row: 3, Col: 2}}
	g1 := NewGrid(8, 8, obstacles)
	g2 := NewGrid(8, 8, obstacles)
	Preprocess(g1)
	Preprocess(g1)
	Preprocess(g2)
	assert.Equal(t, g1.nodes, g2.nodes)
}

func TestSoundness(t *testing.T) {
	obstacles := []Point{{Row: 3, Col: 0}, {Row: 3, Col: 1}, {Row: 3, Col: 2}, {Row: 3, Col: 3}}
	grid := NewGrid(8, 8, obstacles)
	Preprocess(grid)

	path := grid.GetPath(Point{Row: 0, Col: 0}, Point{Row: 7, Col: 7}, Full)
	require.NotEmpty(t, path)
	for i := 1; i < len(path); i++ {
		dr := abs(path[i].Row - path[i-1].Row)
		dc := abs(path[i].Col - path[i-1].Col)
		assert.LessOrEqual(t, dr, 1)
		assert.LessOrEqual(t, dc, 1)
		assert.False(t, grid.IsObstacle(path[i]))
	}
}

func TestRoundTripCostSymmetry(t *testing.T) {
	obstacles := []Point{{Row: 2, Col: 2}, {Row: 2, Col: 3}, {Row: 2, Col: 4}}
	grid := NewGrid(8, 8, obstacles)
	Preprocess(grid)

	a := Point{Row: 0, Col: 0}
	b := Point{Row: 7, Col: 6}
	forward := grid.GetPath(a, b, Full)
	backward := grid.GetPath(b, a, Full)
	require.NotEmpty(t, forward)
	require.NotEmpty(t, backward)
	assert.Equal(t, len(forward), len(backward))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
