// Package agent implements the per-UAV state machine: current task,
// cached plan, battery bookkeeping, next-step publication, and detour
// recovery. Agents hold only plain values and identifiers — no pointer
// back to the scheduler or the tick store (spec.md §9: "no cyclic agent
// <-> scheduler references").
package agent

import (
	"math"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
)

// Planner is the subset of routeplan.Planner an Agent needs. Declaring it
// here (rather than importing routeplan directly) keeps the dependency
// one-directional: routeplan does not need to know about Agent.
type Planner interface {
	Plan(start, end model.Coordinate) ([]model.Coordinate, error)
}

// Agent is the live controller state for one friendly UAV.
type Agent struct {
	UAV model.UAV

	Path  []model.Coordinate
	Index int // 0 = current cell; Path[Index+1:] are future cells

	TaskType model.TaskType
	Usage    model.Usage

	// Goods is the cargo this agent is fetching or carrying, cached
	// independently of UAV.GoodsNo (which only reflects what the server
	// reports as physically loaded once pickup has happened).
	Goods        *model.Goods
	AttackTarget int // enemy UAV no, -1 if none

	NextStep model.Coordinate
}

// New creates a fresh, idle Agent snapshot for a newly seen UAV.
func New(u model.UAV) *Agent {
	return &Agent{
		UAV:          u,
		Path:         []model.Coordinate{u.Loc},
		Index:        0,
		TaskType:     model.NoTask,
		Usage:        model.UsageNormal,
		Goods:        nil,
		AttackTarget: -1,
		NextStep:     u.Loc,
	}
}

// UpdateUAVInfo replaces the cached UAV snapshot from the latest server
// frame, keeping the rest of the agent's task state untouched. The live
// per-tick frame carries only {no,x,y,z,goods_no,type,status,
// remain_electricity} — price/load_weight/capacity/charge are omitted, so
// those four fields are preserved from the agent's existing snapshot
// rather than zeroed (model.py StepInfo.from_dict re-attaches the same
// static price row by type on every tick decode for the same reason).
func (a *Agent) UpdateUAVInfo(u model.UAV) {
	u.Price = a.UAV.Price
	u.LoadWeight = a.UAV.LoadWeight
	u.Capacity = a.UAV.Capacity
	u.ChargeRate = a.UAV.ChargeRate
	a.UAV = u
}

// Reset clears the agent back to an idle, unassigned state (task -> NO_TASK,
// path -> just the current cell), matching spec.md §3 lifecycle rule for a
// completed or invalidated path.
func (a *Agent) Reset() {
	a.TaskType = model.NoTask
	a.Usage = model.UsageNormal
	a.Goods = nil
	a.AttackTarget = -1
	a.Path = []model.Coordinate{a.UAV.Loc}
	a.Index = 0
	a.NextStep = a.UAV.Loc
}

// NumRemainSteps is the count of unconsumed path cells.
func (a *Agent) NumRemainSteps() int {
	n := len(a.Path) - a.Index - 1
	if n < 0 {
		return 0
	}
	return n
}

// FullCharged reports whether the UAV's battery is at capacity.
func (a *Agent) FullCharged() bool {
	return a.UAV.RemainElectricity >= a.UAV.Capacity
}

// PriceLevel ranks this UAV's purchase price among the given price table:
// the number of rows cheaper than it (route_plan.py Agent.price_level).
// No scheduler phase calls it.
func (a *Agent) PriceLevel(prices []model.PriceRow) int {
	level := 0
	for _, row := range prices {
		if row.Value < a.UAV.Price {
			level++
		}
	}
	return level
}

// LeavingParking reports whether the agent's current cell is directly
// above the depot, off the ground and below hLow (route_plan.py
// Agent.leaving_parking). No scheduler phase calls it, and the store's
// depot-occupancy sets are not filled from it.
func (a *Agent) LeavingParking(depot model.Coordinate, hLow int) bool {
	return a.UAV.Loc.XYEqual(depot) && a.UAV.Loc.Z > 0 && a.UAV.Loc.Z < hLow
}

// BatteryLife returns how many ticks of laden flight remain at the given
// cargo weight, or math.MaxInt if weight is zero (no discharge).
func (a *Agent) BatteryLife(weight int) int {
	if weight <= 0 {
		return math.MaxInt
	}
	return a.UAV.RemainElectricity / weight
}

// BatteryEnough reports whether the UAV can complete a laden trip from a to
// b (3D diagonal distance, relative to hLow) at the given weight, with a
// 10% slack margin.
func (a *Agent) BatteryEnough(weight int, a2, b model.Coordinate, hLow int) bool {
	life := a.BatteryLife(weight)
	if life == math.MaxInt {
		return true
	}
	dist := model.DiagonalDistance3D(a2, b, hLow)
	required := ceilDiv110(dist)
	return life >= required
}

// EstimateEarnings scores a candidate goods for cargo assignment, exactly
// as route_plan.py Agent.estimate_earnings: value divided by the total
// travel distance to pick up then deliver it.
func EstimateEarnings(loc model.Coordinate, g model.Goods) float64 {
	toStart := model.ManhattanDistance3D(loc, g.Start)
	startToEnd := model.ManhattanDistance3D(g.Start, g.End)
	denom := toStart + startToEnd
	if denom == 0 {
		return math.Inf(1)
	}
	return float64(g.Value) / float64(denom)
}

// ceilDiv110 rounds dist * 1.1 up to the nearest integer, matching
// route_plan.py's DIST_ESTIMATE_RATE slack factor.
func ceilDiv110(dist int) int {
	scaled := dist*11 + 9 // +9 for ceil division by 10
	return scaled / 10
}
