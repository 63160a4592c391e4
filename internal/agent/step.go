package agent

import "github.com/elektrokombinacija/uav-fleet-controller/internal/model"

// Plan assigns a new task, computes a path from start to end through
// planner, and resets the path cursor to its head. On failure the agent is
// left idle (route_plan.py Agent.plan swallows JPS "no path" exceptions by
// falling back to NO_TASK at the call sites that matter to scoring).
func (a *Agent) Plan(planner Planner, start, end model.Coordinate, taskType model.TaskType, goods *model.Goods) error {
	path, err := planner.Plan(start, end)
	if err != nil {
		a.Reset()
		return err
	}
	a.TaskType = taskType
	a.Goods = goods
	a.Path = path
	a.Index = 0
	a.NextStep = a.UAV.Loc
	return nil
}

// UpdateElectricity applies the per-tick battery accounting rules of
// spec.md §4.3: charging at the depot takes priority over discharge, and a
// laden agent discharges by its cargo weight every tick its staged next
// step moves it while carrying it (a tick spent holding position costs
// nothing).
func (a *Agent) UpdateElectricity(depot model.Coordinate) {
	switch {
	case a.NextStep == depot:
		a.UAV.RemainElectricity = minInt(a.UAV.Capacity, a.UAV.RemainElectricity+a.UAV.ChargeRate)
	case a.Goods != nil && a.TaskType == model.ToGoodsEnd && a.NextStep != a.UAV.Loc:
		a.UAV.RemainElectricity = maxInt(0, a.UAV.RemainElectricity-a.Goods.Weight)
	}
}

// GenNextStep advances the agent's path cursor by one tick, or, on arrival
// at an intermediate waypoint, triggers the next phase of its task
// (spec.md §4.3). planner is used only for the TO_GOODS_START -> TO_GOODS_END
// replan at the pickup cell.
func (a *Agent) GenNextStep(depot model.Coordinate, hLow int, planner Planner) {
	switch a.TaskType {
	case model.ToCharge:
		if a.UAV.Loc == depot {
			a.Reset()
			return
		}
		a.advanceOrHold()

	case model.ToGoodsStart:
		if a.Goods == nil {
			a.Reset()
			return
		}
		if a.UAV.Loc == a.Goods.Start {
			path, err := planner.Plan(a.Goods.Start, a.Goods.End)
			if err != nil {
				a.Reset()
				return
			}
			a.TaskType = model.ToGoodsEnd
			a.Path = path
			a.Index = 0
			a.NextStep = a.UAV.Loc
			return
		}
		a.advanceOrHold()

	case model.ToGoodsEnd:
		if a.Goods == nil {
			a.Reset()
			return
		}
		if a.UAV.Loc == a.Goods.End {
			loc := a.UAV.Loc
			a.Reset()
			ascent := verticalAscent(loc, hLow)
			a.Path = ascent
			a.Index = 0
			if len(ascent) > 1 {
				a.Index = 1
				a.NextStep = ascent[1]
			} else {
				a.NextStep = loc
			}
			return
		}
		a.advanceOrHold()

	case model.ToRandomPoint, model.AttackEnemy:
		a.advanceOrHold()

	default: // NoTask
		a.NextStep = a.UAV.Loc
	}
}

// advanceOrHold moves the path cursor forward by one cell, or holds
// position if the path is exhausted without having reached its nominal
// endpoint (a defensive fallback against a race between plan invalidation
// and cursor advancement).
func (a *Agent) advanceOrHold() {
	if a.NumRemainSteps() <= 0 {
		a.NextStep = a.UAV.Loc
		return
	}
	a.Index++
	a.NextStep = a.Path[a.Index]
}

// verticalAscent returns the straight vertical climb from loc up to hLow,
// inclusive of both endpoints (a single-element slice if loc is already at
// or above hLow).
func verticalAscent(loc model.Coordinate, hLow int) []model.Coordinate {
	if loc.Z >= hLow {
		return []model.Coordinate{loc}
	}
	var path []model.Coordinate
	for z := loc.Z; z <= hLow; z++ {
		path = append(path, model.Coordinate{X: loc.X, Y: loc.Y, Z: z})
	}
	return path
}

// Backspace undoes a staged next_step: decrement the cursor and republish
// the current cell as next_step.
func (a *Agent) Backspace() {
	if a.Index > 0 {
		a.Index--
	}
	a.NextStep = a.UAV.Loc
}

// horizontalDirections are the 8 unit steps tried by TakeDetour, in the
// order the original source tries them (vertical is tried separately,
// first).
var horizontalDirections = []model.Coordinate{
	{X: -1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: -1, Z: 0}, {X: 0, Y: 1, Z: 0},
	{X: -1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: -1, Z: 0}, {X: -1, Y: -1, Z: 0},
}

// StagedMove describes another fleet UAV's current cell and staged move,
// used by TakeDetour to pick a safe deviation.
type StagedMove struct {
	Loc      model.Coordinate
	NextStep model.Coordinate
}

// TakeDetour is invoked when the collision resolver rules this agent loses
// an encounter. If airborne (z >= hLow) it tries a vertical step up first,
// then the 8 horizontal directions; it picks the first candidate that (i)
// differs from every other staged next_step and (ii) does not produce an
// encounter against any other agent's (loc, next) pair. The chosen single
// step is prepended to the remaining plan by decrementing the cursor. A
// UAV below hLow cannot detour horizontally and simply holds.
func (a *Agent) TakeDetour(hLow int, others []StagedMove) {
	candidates := make([]model.Coordinate, 0, 9)
	if a.UAV.Loc.Z >= hLow {
		candidates = append(candidates, model.Coordinate{X: 0, Y: 0, Z: 1})
	}
	for _, d := range horizontalDirections {
		candidates = append(candidates, d)
	}

	for _, d := range candidates {
		candidate := a.UAV.Loc.Add(d)
		if d.Z == 0 && a.UAV.Loc.Z < hLow {
			// Below hLow: horizontal detours are not permitted.
			continue
		}
		if candidate == a.NextStep {
			continue
		}
		conflict := false
		for _, o := range others {
			if candidate == o.NextStep {
				conflict = true
				break
			}
			if Encounter(a.UAV.Loc, candidate, o.Loc, o.NextStep) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		if a.Index > 0 {
			a.Index--
		}
		a.NextStep = candidate
		return
	}

	// No safe deviation: hold position.
	a.NextStep = a.UAV.Loc
}

// Encounter is the collision predicate of spec.md §4.3 between two UAVs
// with current cells a, b and staged next cells aNext, bNext.
func Encounter(a, aNext, b, bNext model.Coordinate) bool {
	if aNext == bNext {
		return true
	}
	if a == bNext && b == aNext {
		return true
	}
	if a.Z == aNext.Z && aNext.Z == b.Z && b.Z == bNext.Z {
		dx := a.X - b.X
		if dx < 0 {
			dx = -dx
		}
		dy := a.Y - b.Y
		if dy < 0 {
			dy = -dy
		}
		if dx+dy == 1 {
			sameColumn := a.X == b.X && aNext.X == bNext.X
			rowsSwap := (a.Y == bNext.Y) && (b.Y == aNext.Y) && (a.Y != b.Y)
			sameRow := a.Y == b.Y && aNext.Y == bNext.Y
			colsSwap := (a.X == bNext.X) && (b.X == aNext.X) && (a.X != b.X)
			if sameColumn && rowsSwap {
				return true
			}
			if sameRow && colsSwap {
				return true
			}
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
