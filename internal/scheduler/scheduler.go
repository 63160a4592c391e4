// Package scheduler implements the per-tick orchestration pipeline of
// spec.md §4.4: reconcile the fleet against the server's frame, assign
// cargo, scatter idle UAVs, assign attacks, advance every path, resolve
// collisions, update batteries, decide purchases, and emit the response.
// The whole pipeline is grounded on scheduler.py's schedule() and its
// helper functions, rephrased around the explicit Store of internal/store
// in place of the module-level env singleton.
package scheduler

import (
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/agent"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/obs"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/routeplan"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/server"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/store"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/worldmap"
)

// distEstimateRate is the slack factor applied to estimated travel time
// before comparing it against a goods offer's remaining lifetime
// (route_plan.py DIST_ESTIMATE_RATE).
const distEstimateRate = 1.1

// collisionSweeps bounds the number of detour/backspace passes the
// collision resolver runs before giving up on a tick, roughly proportional
// to fleet size (spec.md §4.4 "iterative... bounded by roughly the fleet
// size").
const maxCollisionSweeps = 4

// Scheduler runs the per-tick pipeline against one match's static world
// model and a shared tick store.
type Scheduler struct {
	wm      *worldmap.WorldMap
	store   *store.Store
	planner *routeplan.Planner
	rng     *rand.Rand
	log     zerolog.Logger

	weValue int

	// tickBudget is the wall-clock budget for one Tick call (spec.md §5).
	// Zero disables the check, which test schedulers rely on.
	tickBudget time.Duration
	nowFunc    func() time.Time

	// TimeoutCount is the running total of ticks that exceeded tickBudget
	// before reassignment finished (spec.md §7 "per-tick timeout -> log
	// and continue"; §5 "the loop records a timeout statistic").
	TimeoutCount int
}

// New builds a Scheduler over a fixed world model, tick store, route
// planner, and idle-scatter RNG. The tick budget is disabled by default;
// call SetTickBudget to enable the wall-clock cutoff used in competitive
// runs.
func New(wm *worldmap.WorldMap, st *store.Store, planner *routeplan.Planner, rng *rand.Rand, log zerolog.Logger) *Scheduler {
	return &Scheduler{wm: wm, store: st, planner: planner, rng: rng, log: log, nowFunc: time.Now}
}

// SetTickBudget enables the per-tick wall-clock cutoff: once exceeded,
// Tick skips any task (re)assignment still pending and falls straight
// through to path advancement, collision resolution, battery accounting,
// and purchase so it always emits a valid response (spec.md §5
// "Cancellation / timeout").
func (s *Scheduler) SetTickBudget(d time.Duration) {
	s.tickBudget = d
}

// Tick runs one full pipeline pass and returns the outbound commands and
// purchase directives.
func (s *Scheduler) Tick(req server.TickRequest) ([]server.UAVCommand, []server.Purchase) {
	s.weValue = req.WeValue
	s.log = obs.ForTick(req.Time)

	start := s.nowFunc()
	deadline := time.Time{}
	if s.tickBudget > 0 {
		deadline = start.Add(s.tickBudget)
	}

	goodsByNo := make(map[int]model.Goods, len(req.Goods))
	for _, g := range req.Goods {
		goodsByNo[g.No] = g
	}
	enemyByNo := make(map[int]model.UAV, len(req.UAVEnemy))
	for _, u := range req.UAVEnemy {
		enemyByNo[u.No] = u
	}

	goodsToCarry := s.reconcile(req, goodsByNo)

	timedOut := false
	if s.withinBudget(deadline) {
		s.assignCargo(goodsByNo, goodsToCarry, enemyByNo)
	} else {
		timedOut = true
	}
	if s.withinBudget(deadline) {
		s.scatterIdle()
	} else {
		timedOut = true
	}
	if s.withinBudget(deadline) {
		s.assignAttacks(enemyByNo, goodsByNo)
	} else {
		timedOut = true
	}
	if timedOut {
		s.recordTimeout()
	}

	s.advancePaths()
	s.resolveCollisions()

	commands := s.updateBatteriesAndEmit()
	purchases := s.purchase()

	return commands, purchases
}

// withinBudget reports whether the tick still has time for another
// reassignment phase. A zero deadline means the budget check is disabled.
func (s *Scheduler) withinBudget(deadline time.Time) bool {
	return deadline.IsZero() || s.nowFunc().Before(deadline)
}

// recordTimeout logs and counts a skipped reassignment phase; this is not
// a crash condition, only a statistic (spec.md §5/§7).
func (s *Scheduler) recordTimeout() {
	s.TimeoutCount++
	s.log.Warn().Int("timeouts", s.TimeoutCount).Msg("tick budget exceeded, skipping remaining reassignment")
}

// reconcile mirrors validate_data: drop crashed agents, create agents for
// newly seen UAVs, reset agents whose fetch target disappeared, refresh
// every surviving agent's cached UAV snapshot, and prune attack bookkeeping
// for goods that vanished or whose attacker crashed. It returns the set of
// goods nos still available to carry.
func (s *Scheduler) reconcile(req server.TickRequest, goodsByNo map[int]model.Goods) map[int]bool {
	seen := make(map[int]bool, len(req.UAVWe))
	for _, u := range req.UAVWe {
		seen[u.No] = true

		if u.Status == model.StatusCrashed {
			delete(s.store.Agents, u.No)
			continue
		}

		ag, ok := s.store.Agents[u.No]
		if !ok {
			if row, found := s.wm.PriceOf(u.Type); found {
				u.Price = row.Value
				u.LoadWeight = row.LoadWeight
				u.Capacity = row.Capacity
				u.ChargeRate = row.Charge
			}
			ag = agent.New(u)
			s.store.Agents[u.No] = ag
		}

		if ag.TaskType == model.ToGoodsStart && ag.Goods != nil {
			if _, stillCarryable := goodsByNo[ag.Goods.No]; !stillCarryable {
				ag.Reset()
			}
		}
		ag.UpdateUAVInfo(u)
	}
	for no := range s.store.Agents {
		if !seen[no] {
			delete(s.store.Agents, no)
		}
	}

	for goodsNo, attackerNo := range s.store.GoodsToAttack {
		if _, stillPresent := goodsByNo[goodsNo]; !stillPresent {
			if attackerNo > 0 {
				if ag, ok := s.store.Agents[attackerNo]; ok {
					ag.Reset()
				}
			}
			delete(s.store.GoodsToAttack, goodsNo)
		} else if _, alive := s.store.Agents[attackerNo]; attackerNo > 0 && !alive {
			s.store.GoodsToAttack[goodsNo] = -1
		}
	}

	goodsToCarry := make(map[int]bool)
	for _, g := range req.Goods {
		if g.State == model.GoodsNormal {
			goodsToCarry[g.No] = true
		}
	}
	return goodsToCarry
}

// assignCargo mirrors arrange_uav: for every agent not already en route
// with cargo or attacking, pick the single highest-earnings still-available
// goods offer it can feasibly carry, in descending goods value order. A
// goods offer with a visible enemy standing on its start cell earns no
// agent anything and is instead handed to the attack bookkeeping, matching
// _estimate_goods_earnings's early-return-0-and-register branch.
func (s *Scheduler) assignCargo(goodsByNo map[int]model.Goods, goodsToCarry map[int]bool, enemyByNo map[int]model.UAV) {
	order := sortedGoodsByValueDesc(goodsByNo, goodsToCarry)
	contested := s.markContestedGoodsForAttack(goodsByNo, order, enemyByNo)

	for _, no := range s.store.SortedAgentNos() {
		ag := s.store.Agents[no]
		if ag.TaskType == model.ToGoodsEnd || ag.TaskType == model.AttackEnemy {
			continue
		}

		var best *model.Goods
		bestEarnings := 0.0
		for _, goodsNo := range order {
			if !goodsToCarry[goodsNo] || contested[goodsNo] {
				continue
			}
			g := goodsByNo[goodsNo]
			if !s.feasibleCarry(ag, g) {
				continue
			}
			earnings := agent.EstimateEarnings(ag.UAV.Loc, g)
			if earnings > bestEarnings {
				g2 := g
				best = &g2
				bestEarnings = earnings
			}
		}

		if best == nil {
			continue
		}
		if ag.TaskType == model.ToGoodsStart && ag.Goods != nil && ag.Goods.No == best.No {
			continue
		}
		delete(goodsToCarry, best.No)
		if err := ag.Plan(s.planner, ag.UAV.Loc, best.Start, model.ToGoodsStart, best); err != nil {
			s.log.Debug().Int("agent", ag.UAV.No).Int("goods", best.No).Err(err).Msg("cargo plan unreachable")
		}
	}
}

// feasibleCarry reports whether ag can pick up and deliver g within its
// remaining lifetime and battery budget, matching arrange_uav's inline
// _estimate_goods_earnings feasibility gate.
func (s *Scheduler) feasibleCarry(ag *agent.Agent, g model.Goods) bool {
	if g.Weight > ag.UAV.LoadWeight {
		return false
	}
	dist := int(float64(model.DiagonalDistance3D(ag.UAV.Loc, g.Start, s.wm.HLow)) * distEstimateRate)
	if dist >= g.LeftTime {
		return false
	}
	return ag.BatteryEnough(g.Weight, g.Start, g.End, s.wm.HLow)
}

// markContestedGoodsForAttack returns the set of still-available goods
// offers a visible enemy is currently standing on top of (unpickable this
// tick) and latches each onto goods_to_attack as unassigned the first time
// it is seen, matching _estimate_goods_earnings's
// "enemy on goods.start -> return 0, register once" branch.
func (s *Scheduler) markContestedGoodsForAttack(goodsByNo map[int]model.Goods, order []int, enemyByNo map[int]model.UAV) map[int]bool {
	contested := make(map[int]bool)
	for _, goodsNo := range order {
		g := goodsByNo[goodsNo]
		for _, enemyNo := range sortedEnemyNos(enemyByNo) {
			if enemyByNo[enemyNo].Loc.XYEqual(g.Start) {
				contested[goodsNo] = true
				if _, already := s.store.GoodsToAttack[goodsNo]; !already {
					s.store.GoodsToAttack[goodsNo] = -1
				}
				break
			}
		}
	}
	return contested
}

func sortedGoodsByValueDesc(goodsByNo map[int]model.Goods, include map[int]bool) []int {
	nos := make([]int, 0, len(include))
	for no := range include {
		nos = append(nos, no)
	}
	sort.Slice(nos, func(i, j int) bool {
		vi, vj := goodsByNo[nos[i]].Value, goodsByNo[nos[j]].Value
		if vi != vj {
			return vi > vj
		}
		return nos[i] < nos[j]
	})
	return nos
}

// scatterIdle mirrors schedule()'s idle-dispersal block: while no agent is
// mid-descent to charge, every task-less agent (attackers unconditionally,
// haulers only once fully charged) is sent to a fresh random valid point.
func (s *Scheduler) scatterIdle() {
	if len(s.store.UAVChargeApproachingParking) > 0 {
		return
	}

	for _, no := range s.store.SortedAgentNos() {
		ag := s.store.Agents[no]
		if ag.TaskType != model.NoTask {
			continue
		}
		if ag.Usage != model.UsageAttack && !ag.FullCharged() {
			continue
		}
		point := s.randomValidPoint()
		if err := ag.Plan(s.planner, ag.UAV.Loc, point, model.ToRandomPoint, nil); err != nil {
			s.log.Debug().Int("agent", ag.UAV.No).Err(err).Msg("idle scatter unreachable")
		}
	}
}

// randomValidPoint draws a uniformly random ground cell within the map's
// horizontal extents and retries until it lands outside every building
// footprint. gen_random_points in the original source draws both x and y
// from [0, map_range.x) even on non-square maps; per spec.md's Open
// Question on this bug we draw x from [0, MapRange.X] and y from
// [0, MapRange.Y] independently, both inclusive.
func (s *Scheduler) randomValidPoint() model.Coordinate {
	for {
		x := s.rng.Intn(s.wm.MapRange.X + 1)
		y := s.rng.Intn(s.wm.MapRange.Y + 1)
		c := model.Coordinate{X: x, Y: y, Z: s.wm.HLow}
		if !c.IsOverlap(s.wm.Buildings) {
			return c
		}
	}
}

// assignAttacks mirrors attack_enemy: release attackers whose target is
// gone or done, then task every idle/wandering agent that is near enough
// and would arrive before a valuable, visible, unassigned enemy carrier.
func (s *Scheduler) assignAttacks(enemyByNo map[int]model.UAV, goodsByNo map[int]model.Goods) {
	defer func() {
		// Best-effort: a panic here must never break the tick
		// (schedule()'s bare try/except around attack_enemy()).
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("attack assignment recovered")
		}
	}()

	threshold := model.ManhattanDistance(model.Coordinate{}, s.wm.MapRange) / 2

	assigned := make(map[int]bool, len(s.store.AttackerToEnemy))
	for attackerNo, enemyNo := range s.store.AttackerToEnemy {
		assigned[enemyNo] = true
		target, targetAlive := enemyByNo[enemyNo]
		done := !targetAlive || target.Status == model.StatusCrashed || target.GoodsNo < 0
		if done {
			delete(s.store.AttackerToEnemy, attackerNo)
			if ag, ok := s.store.Agents[attackerNo]; ok {
				ag.Reset()
			}
		}
	}

	for _, no := range s.store.SortedAgentNos() {
		ag := s.store.Agents[no]
		if ag.TaskType != model.NoTask && ag.TaskType != model.ToRandomPoint {
			continue
		}
		for _, enemyNo := range sortedEnemyNos(enemyByNo) {
			if assigned[enemyNo] {
				continue
			}
			enemy := enemyByNo[enemyNo]
			if enemy.Status != model.StatusNormal || enemy.GoodsNo < 0 {
				continue
			}
			g, ok := goodsByNo[enemy.GoodsNo]
			if !ok {
				continue
			}
			if g.LeftTime <= model.DiagonalDistance3D(enemy.Loc, g.End, s.wm.HLow) {
				continue
			}
			end := model.Coordinate{X: g.End.X, Y: g.End.Y, Z: s.wm.HLow}
			if model.ManhattanDistance(ag.UAV.Loc, end) > threshold {
				continue
			}
			ourETA := model.DiagonalDistance3D(ag.UAV.Loc, end, s.wm.HLow)
			enemyETA := model.DiagonalDistance3D(enemy.Loc, model.Coordinate{X: end.X, Y: end.Y, Z: 0}, s.wm.HLow)
			if ourETA >= enemyETA {
				continue
			}
			s.store.AttackerToEnemy[ag.UAV.No] = enemyNo
			assigned[enemyNo] = true
			if err := ag.Plan(s.planner, ag.UAV.Loc, end, model.AttackEnemy, nil); err != nil {
				s.log.Debug().Int("agent", ag.UAV.No).Err(err).Msg("attack plan unreachable")
			}
			break
		}
	}
}

func sortedEnemyNos(enemyByNo map[int]model.UAV) []int {
	nos := make([]int, 0, len(enemyByNo))
	for no := range enemyByNo {
		nos = append(nos, no)
	}
	sort.Ints(nos)
	return nos
}

// advancePaths generates every agent's tentative next_step for this tick,
// before collision resolution has a chance to override it.
func (s *Scheduler) advancePaths() {
	for _, no := range s.store.SortedAgentNos() {
		ag := s.store.Agents[no]
		ag.GenNextStep(s.wm.Parking, s.wm.HLow, s.planner)
	}
}

// resolveCollisions mirrors avoid_self: for every pair of agents neither
// headed to the depot, detect an encounter and make the lower-priority
// side (ties broken toward the cheaper cargo) take a detour. Repeated in
// sweeps since a detour can introduce a fresh encounter against a third
// agent.
func (s *Scheduler) resolveCollisions() {
	nos := s.store.SortedAgentNos()

	for sweep := 0; sweep < maxCollisionSweeps; sweep++ {
		changed := false
		for i := 0; i < len(nos); i++ {
			ai := s.store.Agents[nos[i]]
			if ai.NextStep == s.wm.Parking {
				continue
			}
			for j := i + 1; j < len(nos); j++ {
				aj := s.store.Agents[nos[j]]
				if aj.NextStep == s.wm.Parking {
					continue
				}
				if !agent.Encounter(ai.UAV.Loc, ai.NextStep, aj.UAV.Loc, aj.NextStep) {
					continue
				}
				loser := s.selectDetourLoser(ai, aj)
				loser.TakeDetour(s.wm.HLow, s.otherStagedMoves(nos, loser.UAV.No))
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}

// selectDetourLoser mirrors avoid_self's _select: the lower task-priority
// agent loses; ties between two TO_GOODS_START haulers go to the one
// carrying the less valuable offer.
func (s *Scheduler) selectDetourLoser(a, b *agent.Agent) *agent.Agent {
	if a.TaskType.Priority() == b.TaskType.Priority() && a.TaskType == model.ToGoodsStart &&
		a.Goods != nil && b.Goods != nil {
		if a.Goods.Value > b.Goods.Value {
			return b
		}
		return a
	}
	if a.TaskType.Priority() > b.TaskType.Priority() {
		return b
	}
	return a
}

func (s *Scheduler) otherStagedMoves(nos []int, exclude int) []agent.StagedMove {
	moves := make([]agent.StagedMove, 0, len(nos)-1)
	for _, no := range nos {
		if no == exclude {
			continue
		}
		ag := s.store.Agents[no]
		moves = append(moves, agent.StagedMove{Loc: ag.UAV.Loc, NextStep: ag.NextStep})
	}
	return moves
}

// updateBatteriesAndEmit applies per-tick battery accounting to every
// agent and packages the outbound command list.
func (s *Scheduler) updateBatteriesAndEmit() []server.UAVCommand {
	nos := s.store.SortedAgentNos()
	commands := make([]server.UAVCommand, 0, len(nos))
	for _, no := range nos {
		ag := s.store.Agents[no]
		ag.UpdateElectricity(s.wm.Parking)
		commands = append(commands, server.UAVCommand{
			No:                ag.UAV.No,
			Loc:               ag.NextStep,
			GoodsNo:           ag.UAV.GoodsNo,
			RemainElectricity: ag.UAV.RemainElectricity,
		})
	}
	return commands
}

// purchase mirrors purchase_uav: always buy exactly the single cheapest
// affordable UAV type, deducting its price from the tracked budget.
func (s *Scheduler) purchase() []server.Purchase {
	row, ok := s.wm.CheapestAffordable(s.weValue)
	if !ok {
		return nil
	}
	s.weValue -= row.Value
	return []server.Purchase{{Type: row.Type}}
}
