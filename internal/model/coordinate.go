// Package model defines the grid-space domain primitives shared across the
// planner, scheduler, and wire-protocol packages: coordinates, UAVs, goods,
// and the obstacle boxes that make up the match map.
package model

// Coordinate is a point in the 3D grid. All fields are nonnegative by
// construction in any Coordinate that originates from the server or from a
// planner query against a valid map.
type Coordinate struct {
	X, Y, Z int
}

// Add returns the component-wise sum of c and o.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// Sub returns the component-wise difference c - o.
func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{X: c.X - o.X, Y: c.Y - o.Y, Z: c.Z - o.Z}
}

// XYEqual reports whether c and o share the same horizontal cell,
// ignoring altitude.
func (c Coordinate) XYEqual(o Coordinate) bool {
	return c.X == o.X && c.Y == o.Y
}

// IsValid reports whether c lies within a map of inclusive extents
// [0,maxX] x [0,maxY] x [0,maxZ].
func (c Coordinate) IsValid(maxX, maxY, maxZ int) bool {
	return c.X >= 0 && c.X <= maxX &&
		c.Y >= 0 && c.Y <= maxY &&
		c.Z >= 0 && c.Z <= maxZ
}

// Box is an axis-aligned inclusive box (x1,y1,x2,y2,z1,z2) used for both
// building and fog obstacles.
type Box struct {
	X1, Y1, X2, Y2, Z1, Z2 int
}

// Contains reports whether c falls inside b, inclusive of all boundaries.
func (b Box) Contains(c Coordinate) bool {
	return c.X >= b.X1 && c.X <= b.X2 &&
		c.Y >= b.Y1 && c.Y <= b.Y2 &&
		c.Z >= b.Z1 && c.Z <= b.Z2
}

// IsOverlap reports whether c falls inside any of the given boxes.
func (c Coordinate) IsOverlap(boxes []Box) bool {
	for _, b := range boxes {
		if b.Contains(c) {
			return true
		}
	}
	return false
}

// ManhattanDistance3D is |dx| + |dy| + |dz|.
func ManhattanDistance3D(a, b Coordinate) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y) + absInt(a.Z-b.Z)
}

// ManhattanDistance is the planar |dx| + |dy|, ignoring altitude.
func ManhattanDistance(a, b Coordinate) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// DiagonalDistance3D mirrors route_plan.py's diagonal_dis_3d: the planar
// octile-as-max distance plus the vertical distance each endpoint travels
// to reach the reference altitude hLow. It is the estimate used for battery
// and deadline feasibility checks, not a planner heuristic.
func DiagonalDistance3D(start, end Coordinate, hLow int) int {
	planar := maxInt(absInt(start.X-end.X), absInt(start.Y-end.Y))
	return planar + absInt(start.Z-hLow) + absInt(end.Z-hLow)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
