// Package store holds the Shared Tick Store described in spec.md §3/§4.5:
// the preprocessed JPS+ finders and the cross-agent indices the scheduler
// needs between phases. The original source keeps this as a module-level
// singleton (`env = Env()`); per spec.md §9 this becomes an explicit,
// scheduler-owned value with no hidden global state. Agents read from it
// but only the scheduler writes the cross-agent indices.
package store

import (
	"sort"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/agent"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/jpsplus"
)

// Store is the process-wide (but explicitly owned, not global) tick state
// carried across a single match.
type Store struct {
	// Finders is populated once before the first tick and never mutated
	// thereafter.
	Finders jpsplus.Finders

	// Agents maps UAV no -> its Agent, for every live friendly UAV.
	Agents map[int]*agent.Agent

	// AttackerToEnemy maps our attacker UAV no -> the enemy UAV no it is
	// pursuing.
	AttackerToEnemy map[int]int

	// GoodsToAttack maps a contested goods no -> the assigned attacker's
	// UAV no, or -1 if unassigned.
	GoodsToAttack map[int]int

	// UAVOnParkingXY is the set of our UAV nos currently occupying the
	// depot's horizontal cell (at any altitude).
	UAVOnParkingXY map[int]bool

	// UAVChargeApproachingParking is the set of our UAV nos that have
	// arrived above the depot and are descending to charge.
	UAVChargeApproachingParking map[int]bool

	// UAVLeavingParking is the set of our UAV nos in the vertical column
	// directly above the depot, outbound.
	UAVLeavingParking map[int]bool

	// EnemyAboveParking is the set of enemy UAV nos currently occupying
	// the depot's airspace column.
	EnemyAboveParking map[int]bool
}

// New builds an empty Store over a fixed set of JPS+ finders.
func New(finders jpsplus.Finders) *Store {
	return &Store{
		Finders:                     finders,
		Agents:                      make(map[int]*agent.Agent),
		AttackerToEnemy:             make(map[int]int),
		GoodsToAttack:               make(map[int]int),
		UAVOnParkingXY:              make(map[int]bool),
		UAVChargeApproachingParking: make(map[int]bool),
		UAVLeavingParking:           make(map[int]bool),
		EnemyAboveParking:           make(map[int]bool),
	}
}

// SortedAgentNos returns every live agent's UAV no in ascending order, the
// stable iteration order spec.md §4.4 requires for determinism.
func (s *Store) SortedAgentNos() []int {
	nos := make([]int, 0, len(s.Agents))
	for no := range s.Agents {
		nos = append(nos, no)
	}
	sort.Ints(nos)
	return nos
}
