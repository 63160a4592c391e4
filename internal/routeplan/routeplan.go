// Package routeplan wraps the JPS+ planner: it picks a flyable search
// altitude, stitches vertical take-off/landing segments onto the
// horizontal jump-point path, and reports unreachable destinations to its
// caller (the Agent) as a typed error.
package routeplan

import (
	"errors"
	"math/rand"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/jpsplus"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/worldmap"
)

// ErrUnreachable is returned when every candidate altitude fails to
// connect start to end. Callers (the Agent) drop the task on this error;
// it never propagates to the server (spec.md §7).
var ErrUnreachable = errors.New("routeplan: destination unreachable at every candidate altitude")

// maxSequentialAttempts is the number of altitudes tried low-first before
// the planner starts drawing randomly from the remainder (spec.md §4.2,
// §9 "Random-altitude fallback").
const maxSequentialAttempts = 3

// Planner selects altitudes and assembles full 3-segment paths over a set
// of preprocessed JPS+ finders.
type Planner struct {
	wm      *worldmap.WorldMap
	finders jpsplus.Finders
	rng     *rand.Rand
}

// New builds a Planner over the given static world model and preprocessed
// finders, using rng for the random-altitude fallback. Callers that need
// deterministic tests should pass a seeded rng.
func New(wm *worldmap.WorldMap, finders jpsplus.Finders, rng *rand.Rand) *Planner {
	return &Planner{wm: wm, finders: finders, rng: rng}
}

// Plan finds a path from start to end, trying candidate altitudes low
// first for the first maxSequentialAttempts tries, then drawing randomly
// from the remainder. Returns ErrUnreachable if no altitude connects.
func (p *Planner) Plan(start, end model.Coordinate) ([]model.Coordinate, error) {
	candidates := p.wm.CandidateAltitudes()
	tried := make(map[int]bool, len(candidates))

	attempt := func(alt int) ([]model.Coordinate, bool) {
		tried[alt] = true
		finder := p.finders[alt]
		if finder == nil {
			return nil, false
		}
		horizontal := finder.GetPath(
			jpsplus.Point{Row: start.Y, Col: start.X},
			jpsplus.Point{Row: end.Y, Col: end.X},
			jpsplus.Full,
		)
		if len(horizontal) == 0 {
			return nil, false
		}
		return assemble(start, end, alt, horizontal), true
	}

	for i := 0; i < len(candidates) && i < maxSequentialAttempts; i++ {
		if path, ok := attempt(candidates[i]); ok {
			return path, nil
		}
	}

	remaining := make([]int, 0, len(candidates))
	for _, alt := range candidates {
		if !tried[alt] {
			remaining = append(remaining, alt)
		}
	}
	for len(remaining) > 0 {
		idx := p.rng.Intn(len(remaining))
		alt := remaining[idx]
		if path, ok := attempt(alt); ok {
			return path, nil
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return nil, ErrUnreachable
}

// assemble joins the vertical ascent from start to search altitude, the
// horizontal JPS+ path, and the vertical descent to end, deduplicating the
// cells at each joint.
func assemble(start, end model.Coordinate, searchAlt int, horizontal []jpsplus.Point) []model.Coordinate {
	path := verticalPath(start, model.Coordinate{X: start.X, Y: start.Y, Z: searchAlt})

	for i, hp := range horizontal {
		c := model.Coordinate{X: hp.Col, Y: hp.Row, Z: searchAlt}
		if i == 0 {
			// Already present as the ascent's last cell; skip duplicate.
			continue
		}
		path = append(path, c)
	}

	descent := verticalPath(model.Coordinate{X: end.X, Y: end.Y, Z: searchAlt}, end)
	for i, c := range descent {
		if i == 0 {
			continue
		}
		path = append(path, c)
	}

	return path
}

// verticalPath returns the straight vertical run from a to b (same x,y,
// differing z), inclusive of both endpoints.
func verticalPath(a, b model.Coordinate) []model.Coordinate {
	if a.Z == b.Z {
		return []model.Coordinate{a}
	}
	step := 1
	if b.Z < a.Z {
		step = -1
	}
	var path []model.Coordinate
	for z := a.Z; ; z += step {
		path = append(path, model.Coordinate{X: a.X, Y: a.Y, Z: z})
		if z == b.Z {
			break
		}
	}
	return path
}
