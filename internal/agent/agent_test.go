package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
)

func TestEncounterSwapCollision(t *testing.T) {
	a := model.Coordinate{X: 1, Y: 1, Z: 1}
	aNext := model.Coordinate{X: 2, Y: 1, Z: 1}
	b := model.Coordinate{X: 2, Y: 1, Z: 1}
	bNext := model.Coordinate{X: 1, Y: 1, Z: 1}

	assert.True(t, Encounter(a, aNext, b, bNext))
}

func TestEncounterSameCell(t *testing.T) {
	a := model.Coordinate{X: 0, Y: 0, Z: 1}
	b := model.Coordinate{X: 0, Y: 2, Z: 1}
	next := model.Coordinate{X: 0, Y: 1, Z: 1}
	assert.True(t, Encounter(a, next, b, next))
}

func TestEncounterNoConflict(t *testing.T) {
	a := model.Coordinate{X: 0, Y: 0, Z: 1}
	aNext := model.Coordinate{X: 0, Y: 1, Z: 1}
	b := model.Coordinate{X: 5, Y: 5, Z: 1}
	bNext := model.Coordinate{X: 5, Y: 6, Z: 1}
	assert.False(t, Encounter(a, aNext, b, bNext))
}

func TestBatteryEnoughInfeasible(t *testing.T) {
	ag := New(model.UAV{No: 1, RemainElectricity: 10, Capacity: 100})
	start := model.Coordinate{X: 0, Y: 0, Z: 0}
	end := model.Coordinate{X: 40, Y: 0, Z: 0}
	assert.False(t, ag.BatteryEnough(3, start, end, 0))
}

func TestBatteryEnoughFeasible(t *testing.T) {
	ag := New(model.UAV{No: 1, RemainElectricity: 1000, Capacity: 1000})
	start := model.Coordinate{X: 0, Y: 0, Z: 0}
	end := model.Coordinate{X: 40, Y: 0, Z: 0}
	assert.True(t, ag.BatteryEnough(3, start, end, 0))
}

func TestUpdateElectricityChargesAtDepot(t *testing.T) {
	depot := model.Coordinate{X: 5, Y: 5, Z: 0}
	ag := New(model.UAV{No: 1, Loc: depot, RemainElectricity: 50, Capacity: 100, ChargeRate: 20})
	ag.NextStep = depot
	ag.UpdateElectricity(depot)
	assert.Equal(t, 70, ag.UAV.RemainElectricity)
}

func TestUpdateElectricityDischargesWhenLaden(t *testing.T) {
	ag := New(model.UAV{No: 1, RemainElectricity: 50, Capacity: 100})
	ag.TaskType = model.ToGoodsEnd
	ag.Goods = &model.Goods{No: 1, Weight: 7}
	ag.NextStep = model.Coordinate{X: 1, Y: 0, Z: 0}
	ag.UpdateElectricity(model.Coordinate{X: 99, Y: 99, Z: 0})
	assert.Equal(t, 43, ag.UAV.RemainElectricity)
}
