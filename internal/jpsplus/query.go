package jpsplus

import (
	"container/heap"
	"sync"
)

// pathNode is per-query scratch state for one grid cell. Fields are only
// meaningful when generation == the owning scratch's current generation;
// this lets a scratch buffer be reused across queries without zeroing
// every cell each time (the original source re-zeroes its whole node array
// per query, which spec.md calls out as a known hotspot).
type pathNode struct {
	generation  int
	parent      *pathNode
	pos         Point
	givenCost   int
	finalCost   int
	dirFromParent Direction
	hasParent   bool
	onOpen      bool
	onClosed    bool
	heapIndex   int
}

// scratch is one query's working set over a grid: a dense vector of
// pathNode indexed row*width+col and a generation counter used to lazily
// invalidate stale entries from a prior query. The open-set heap is built
// per query in GetPath.
type scratch struct {
	grid       *Grid
	nodes      []pathNode
	generation int
}

func newScratch(g *Grid) *scratch {
	return &scratch{
		grid:  g,
		nodes: make([]pathNode, g.width*g.height),
	}
}

// get returns the scratch node for (row, col), lazily resetting it to a
// fresh state if it belongs to an older generation.
func (s *scratch) get(row, col int) *pathNode {
	idx := s.grid.index(row, col)
	n := &s.nodes[idx]
	if n.generation != s.generation {
		*n = pathNode{generation: s.generation, pos: Point{Row: row, Col: col}}
	}
	return n
}

var scratchPools sync.Map // *Grid -> *sync.Pool

func scratchPoolFor(g *Grid) *sync.Pool {
	if p, ok := scratchPools.Load(g); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{New: func() any { return newScratch(g) }}
	actual, _ := scratchPools.LoadOrStore(g, p)
	return actual.(*sync.Pool)
}

// openHeap implements container/heap.Interface over *pathNode, ordered by
// finalCost, matching the teacher's astar3DHeap shape.
type openHeap []*pathNode

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].finalCost < h[j].finalCost }
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}
func (h *openHeap) Push(x any) {
	n := x.(*pathNode)
	n.heapIndex = len(*h)
	*h = append(*h, n)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// PathMode selects how GetPath reconstructs the returned cell sequence.
type PathMode int

const (
	// Skeleton returns only the jump points visited, start and goal.
	Skeleton PathMode = iota
	// Full expands every jump-point-to-jump-point edge into unit steps.
	Full
)

// GetPath runs A* over jps_finders jump points from start to goal and
// returns the resulting cell sequence, or nil if goal is unreachable.
// Safe for concurrent use from multiple goroutines against the same *Grid
// (each call borrows its own scratch buffer from a pool).
func (g *Grid) GetPath(start, goal Point, mode PathMode) []Point {
	pool := scratchPoolFor(g)
	s := pool.Get().(*scratch)
	defer pool.Put(s)
	s.generation++

	open := &openHeap{}
	heap.Init(open)

	startNode := s.get(start.Row, start.Col)
	startNode.hasParent = false
	startNode.givenCost = 0
	startNode.finalCost = 0
	startNode.onOpen = true
	heap.Push(open, startNode)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if cur.onClosed {
			continue
		}
		cur.onClosed = true

		if cur.pos == goal {
			if mode == Full {
				return reconstructFull(cur, start)
			}
			return reconstructSkeleton(cur, start)
		}

		jpNode := g.getNode(cur.pos.Row, cur.pos.Col)
		// A primary jump point may be reached diagonally and then has forced
		// neighbours outside the pruning table, so all 8 directions are
		// explored from it.
		dirs := validDirectionsFrom(cur.dirFromParent, cur.hasParent && !jpNode.isJumpPoint)

		for _, dir := range dirs {
			var successorPos Point
			var givenCost int
			found := false

			switch {
			case dir.IsCardinal() && goalIsInExactDirection(cur.pos, dir, goal) &&
				Diff(cur.pos, goal) <= absInt(jpNode.jpDistances[dir]):
				successorPos = goal
				givenCost = cur.givenCost + Diff(cur.pos, goal)
				found = true

			case dir.IsDiagonal() && goalIsInGeneralDirection(cur.pos, dir, goal) &&
				(absInt(goal.Row-cur.pos.Row) <= absInt(jpNode.jpDistances[dir]) ||
					absInt(goal.Col-cur.pos.Col) <= absInt(jpNode.jpDistances[dir])):
				minDiff := minInt(absInt(goal.Row-cur.pos.Row), absInt(goal.Col-cur.pos.Col))
				sp, ok := stepDist(g, cur.pos, dir, minDiff)
				if ok {
					successorPos = sp
					givenCost = cur.givenCost + Diff(cur.pos, sp)
					found = true
				}

			case jpNode.jpDistances[dir] > 0:
				sp, ok := stepDist(g, cur.pos, dir, jpNode.jpDistances[dir])
				if ok {
					successorPos = sp
					givenCost = cur.givenCost + jpNode.jpDistances[dir]
					found = true
				}
			}

			if !found {
				continue
			}

			succ := s.get(successorPos.Row, successorPos.Col)
			if !succ.onOpen || givenCost < succ.givenCost {
				succ.parent = cur
				succ.hasParent = true
				succ.givenCost = givenCost
				succ.dirFromParent = dir
				succ.finalCost = givenCost + Diff(successorPos, goal)
				succ.onOpen = true
				succ.onClosed = false
				heap.Push(open, succ)
			}
		}
	}

	return nil
}

func stepDist(g *Grid, from Point, dir Direction, dist int) (Point, bool) {
	dr, dc := dir.delta()
	p := Point{Row: from.Row + dr*dist, Col: from.Col + dc*dist}
	if !g.inBounds(p.Row, p.Col) {
		return Point{}, false
	}
	return p, true
}

func goalIsInExactDirection(cur Point, dir Direction, goal Point) bool {
	dr := goal.Row - cur.Row
	dc := goal.Col - cur.Col
	switch dir {
	case North:
		return dr < 0 && dc == 0
	case East:
		return dr == 0 && dc > 0
	case South:
		return dr > 0 && dc == 0
	case West:
		return dr == 0 && dc < 0
	}
	return false
}

func goalIsInGeneralDirection(cur Point, dir Direction, goal Point) bool {
	dr := goal.Row - cur.Row
	dc := goal.Col - cur.Col
	switch dir {
	case NorthEast:
		return dr < 0 && dc > 0
	case SouthEast:
		return dr > 0 && dc > 0
	case SouthWest:
		return dr > 0 && dc < 0
	case NorthWest:
		return dr < 0 && dc < 0
	}
	return false
}

// reconstructSkeleton walks parent pointers back to start, returning only
// the jump points visited (including start and goal).
func reconstructSkeleton(goal *pathNode, start Point) []Point {
	var path []Point
	for n := goal; n != nil; {
		path = append(path, n.pos)
		if !n.hasParent {
			break
		}
		n = n.parent
	}
	reverse(path)
	return path
}

// reconstructFull expands each jump-point-to-jump-point edge into unit
// steps along its straight cardinal/diagonal run.
func reconstructFull(goal *pathNode, start Point) []Point {
	var path []Point
	for n := goal; n != nil; {
		path = append(path, n.pos)
		if !n.hasParent {
			break
		}
		parent := n.parent

		dCol := parent.pos.Col - n.pos.Col
		dRow := parent.pos.Row - n.pos.Row
		incCol, incRow := 0, 0
		if dCol > 0 {
			incCol = 1
		} else if dCol < 0 {
			incCol = -1
			dCol = -dCol
		}
		if dRow > 0 {
			incRow = 1
		} else if dRow < 0 {
			incRow = -1
			dRow = -dRow
		}

		steps := dCol - 1
		if dRow > dCol {
			steps = dRow - 1
		}

		x, y := n.pos.Col, n.pos.Row
		for i := 0; i < steps; i++ {
			x += incCol
			y += incRow
			path = append(path, Point{Row: y, Col: x})
		}

		n = parent
	}
	reverse(path)
	return path
}

func reverse(p []Point) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
