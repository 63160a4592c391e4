package scheduler

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/agent"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/jpsplus"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/obs"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/routeplan"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/server"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/store"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/worldmap"
)

func newTestScheduler(t *testing.T) (*Scheduler, *store.Store) {
	t.Helper()
	wm := worldmap.NewWorldMap(
		model.Coordinate{X: 19, Y: 19, Z: 10},
		model.Coordinate{X: 0, Y: 0, Z: 0},
		1, 9,
		nil, nil,
		[]model.PriceRow{
			{Type: 0, LoadWeight: 10, Value: 800, Capacity: 50, Charge: 20},
			{Type: 1, LoadWeight: 20, Value: 600, Capacity: 80, Charge: 15},
		},
	)
	finders, err := jpsplus.BuildFinders(context.Background(), wm)
	require.NoError(t, err)

	st := store.New(finders)
	planner := routeplan.New(wm, finders, rand.New(rand.NewSource(1)))
	sched := New(wm, st, planner, rand.New(rand.NewSource(1)), obs.Get())
	return sched, st
}

func TestPurchaseBuysCheapestAffordable(t *testing.T) {
	sched, _ := newTestScheduler(t)
	sched.weValue = 1200

	purchases := sched.purchase()
	require.Len(t, purchases, 1)
	assert.Equal(t, model.UAVType(1), purchases[0].Type)
}

func TestPurchaseSkipsWhenUnaffordable(t *testing.T) {
	sched, _ := newTestScheduler(t)
	sched.weValue = 100

	purchases := sched.purchase()
	assert.Empty(t, purchases)
}

func TestReconcileDropsCrashedAgent(t *testing.T) {
	sched, st := newTestScheduler(t)
	req := server.TickRequest{
		UAVWe: []model.UAV{{No: 1, Status: model.StatusCrashed}},
	}
	sched.reconcile(req, nil)
	assert.NotContains(t, st.Agents, 1)
}

func TestReconcileAddsNewAgent(t *testing.T) {
	sched, st := newTestScheduler(t)
	req := server.TickRequest{
		UAVWe: []model.UAV{{No: 1, Loc: model.Coordinate{X: 2, Y: 2, Z: 1}, GoodsNo: -1, Capacity: 50}},
	}
	sched.reconcile(req, nil)
	require.Contains(t, st.Agents, 1)
	assert.Equal(t, model.NoTask, st.Agents[1].TaskType)
}

func TestSelectDetourLoserByPriority(t *testing.T) {
	sched, st := newTestScheduler(t)
	st.Agents[1] = agent.New(model.UAV{No: 1})
	st.Agents[1].TaskType = model.NoTask
	st.Agents[2] = agent.New(model.UAV{No: 2})
	st.Agents[2].TaskType = model.ToGoodsEnd

	loser := sched.selectDetourLoser(st.Agents[1], st.Agents[2])
	assert.Equal(t, 1, loser.UAV.No)
}

func TestAssignCargoSkipsGoodsWithEnemyOnStart(t *testing.T) {
	sched, st := newTestScheduler(t)
	st.Agents[1] = agent.New(model.UAV{No: 1, Capacity: 50, Loc: model.Coordinate{X: 0, Y: 0, Z: 1}})

	goodsByNo := map[int]model.Goods{
		9: {No: 9, Start: model.Coordinate{X: 5, Y: 5}, End: model.Coordinate{X: 6, Y: 6}, Weight: 1, Value: 100, LeftTime: 1000},
	}
	goodsToCarry := map[int]bool{9: true}
	enemyByNo := map[int]model.UAV{
		50: {No: 50, Loc: model.Coordinate{X: 5, Y: 5, Z: 0}},
	}

	sched.assignCargo(goodsByNo, goodsToCarry, enemyByNo)

	assert.Equal(t, model.NoTask, st.Agents[1].TaskType)
	assert.Contains(t, st.GoodsToAttack, 9)
	assert.Equal(t, -1, st.GoodsToAttack[9])
}

func TestTickPreservesStaticPriceFieldsAcrossTicks(t *testing.T) {
	sched, st := newTestScheduler(t)

	payload := []byte(`{
		"token": "abc",
		"match_status": 0,
		"time": 1,
		"UAV_we": [{"no":1,"x":0,"y":0,"z":1,"goods_no":-1,"type":0,"status":0,"remain_electricity":500}],
		"we_value": 0,
		"UAV_enemy": [],
		"enemy_value": 0,
		"goods": []
	}`)
	req, err := server.DecodeTickRequest(payload)
	require.NoError(t, err)
	require.Zero(t, req.UAVWe[0].Capacity, "wire per-tick frame must not carry price fields")

	sched.Tick(req)
	require.Contains(t, st.Agents, 1)
	assert.Equal(t, 50, st.Agents[1].UAV.Capacity)
	assert.Equal(t, 10, st.Agents[1].UAV.LoadWeight)
	assert.Equal(t, 800, st.Agents[1].UAV.Price)
	assert.Equal(t, 20, st.Agents[1].UAV.ChargeRate)

	payload2 := []byte(`{
		"token": "abc",
		"match_status": 0,
		"time": 2,
		"UAV_we": [{"no":1,"x":1,"y":0,"z":1,"goods_no":-1,"type":0,"status":0,"remain_electricity":490}],
		"we_value": 0,
		"UAV_enemy": [],
		"enemy_value": 0,
		"goods": []
	}`)
	req2, err := server.DecodeTickRequest(payload2)
	require.NoError(t, err)

	sched.Tick(req2)
	assert.Equal(t, 50, st.Agents[1].UAV.Capacity)
	assert.Equal(t, 10, st.Agents[1].UAV.LoadWeight)
	assert.Equal(t, 800, st.Agents[1].UAV.Price)
	assert.Equal(t, 20, st.Agents[1].UAV.ChargeRate)
}

func TestTickSkipsReassignmentOnceBudgetExceeded(t *testing.T) {
	sched, st := newTestScheduler(t)
	st.Agents[1] = agent.New(model.UAV{No: 1, Capacity: 50, Loc: model.Coordinate{X: 0, Y: 0, Z: 1}})

	sched.SetTickBudget(1 * time.Millisecond)
	base := time.Now()
	calls := 0
	sched.nowFunc = func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(time.Hour)
	}

	req := server.TickRequest{
		UAVWe: []model.UAV{st.Agents[1].UAV},
		Goods: []model.Goods{
			{No: 9, Start: model.Coordinate{X: 5, Y: 5}, End: model.Coordinate{X: 6, Y: 6}, Weight: 1, Value: 100, LeftTime: 1000},
		},
	}
	sched.Tick(req)

	assert.Equal(t, 1, sched.TimeoutCount)
	assert.Equal(t, model.NoTask, st.Agents[1].TaskType)
}
