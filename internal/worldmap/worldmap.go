// Package worldmap holds the match's static parameters: map extents,
// obstacle boxes, the depot, the flyable altitude band, and the UAV price
// table. Everything here is decoded once from the server's initial map
// frame and never mutated afterward (mirrors spec.md's "jps_finders is
// populated before the first tick and never mutated thereafter", extended
// to the whole static model).
package worldmap

import (
	"sort"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
)

// WorldMap is the immutable description of one match.
type WorldMap struct {
	MapRange   model.Coordinate // inclusive extents, already -1'd from the wire
	Parking    model.Coordinate // depot cell, z == 0
	HLow       int
	HHigh      int
	Buildings  []model.Box
	Fogs       []model.Box
	PriceTable []model.PriceRow
}

// NewWorldMap builds a WorldMap from already-decoded fields. Decoding from
// the wire frame itself lives in internal/server, which owns JSON shapes;
// this package owns only the resulting static domain values.
func NewWorldMap(mapRange, parking model.Coordinate, hLow, hHigh int, buildings, fogs []model.Box, prices []model.PriceRow) *WorldMap {
	return &WorldMap{
		MapRange:   mapRange,
		Parking:    parking,
		HLow:       hLow,
		HHigh:      hHigh,
		Buildings:  buildings,
		Fogs:       fogs,
		PriceTable: prices,
	}
}

// IsValidCell reports whether c is within the map's x, y and z extents and
// does not land inside any building box at c's altitude.
func (w *WorldMap) IsValidCell(c model.Coordinate) bool {
	if !c.IsValid(w.MapRange.X, w.MapRange.Y, w.MapRange.Z) {
		return false
	}
	return !c.IsOverlap(w.Buildings)
}

// RoofHeights returns the set of building roof altitudes strictly between
// HLow and HHigh, deduplicated and in ascending order. Used by the route
// planner to build its
// altitude candidate list: {HLow} union {roof+1 : roof in band}.
func (w *WorldMap) RoofHeights() []int {
	seen := make(map[int]bool)
	var roofs []int
	for _, b := range w.Buildings {
		roof := b.Z2
		if roof > w.HLow && roof < w.HHigh {
			if !seen[roof] {
				seen[roof] = true
				roofs = append(roofs, roof)
			}
		}
	}
	sort.Ints(roofs)
	return roofs
}

// CandidateAltitudes returns the full ordered altitude candidate set
// {HLow} union {roof+1 : roof in RoofHeights()}, low first, per spec.md
// §4.2: HLow, then the roof altitudes in ascending order.
func (w *WorldMap) CandidateAltitudes() []int {
	alts := []int{w.HLow}
	for _, roof := range w.RoofHeights() {
		alts = append(alts, roof+1)
	}
	return alts
}

// PriceOf returns the price row for a UAV type, and whether it was found.
func (w *WorldMap) PriceOf(t model.UAVType) (model.PriceRow, bool) {
	for _, row := range w.PriceTable {
		if row.Type == t {
			return row, true
		}
	}
	return model.PriceRow{}, false
}

// CheapestAffordable returns the single cheapest price row whose price does
// not exceed budget, and whether one exists. Ties are broken by the first
// match in PriceTable order (stable, since PriceTable order is fixed at
// decode time).
func (w *WorldMap) CheapestAffordable(budget int) (model.PriceRow, bool) {
	best := model.PriceRow{}
	found := false
	for _, row := range w.PriceTable {
		if row.Value > budget {
			continue
		}
		if !found || row.Value < best.Value {
			best = row
			found = true
		}
	}
	return best, found
}
