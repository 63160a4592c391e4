package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
)

func TestDecodeTickRequest(t *testing.T) {
	payload := []byte(`{
		"token": "abc",
		"notice": "",
		"match_status": 0,
		"time": 12,
		"UAV_we": [{"no":1,"x":2,"y":3,"z":1,"goods_no":-1,"type":0,"status":0,"remain_electricity":500}],
		"we_value": 100,
		"UAV_enemy": [],
		"enemy_value": 50,
		"goods": [{"no":7,"start_x":1,"start_y":1,"end_x":5,"end_y":5,"weight":3,"value":40,"start_time":10,"remain_time":20,"left_time":20,"status":0}]
	}`)

	req, err := DecodeTickRequest(payload)
	require.NoError(t, err)

	assert.Equal(t, "abc", req.Token)
	assert.Equal(t, 12, req.Time)
	assert.False(t, req.Ended())
	require.Len(t, req.UAVWe, 1)
	assert.Equal(t, 1, req.UAVWe[0].No)
	assert.Equal(t, -1, req.UAVWe[0].GoodsNo)
	assert.Zero(t, req.UAVWe[0].Price)
	assert.Zero(t, req.UAVWe[0].LoadWeight)
	assert.Zero(t, req.UAVWe[0].Capacity)
	assert.Zero(t, req.UAVWe[0].ChargeRate)
	require.Len(t, req.Goods, 1)
	assert.Equal(t, 7, req.Goods[0].No)
	assert.Equal(t, 40, req.Goods[0].Value)
}

func TestDecodeTickRequestMatchEnded(t *testing.T) {
	req, err := DecodeTickRequest([]byte(`{"token":"t","match_status":1,"time":500}`))
	require.NoError(t, err)
	assert.True(t, req.Ended())
}

func TestEncodeTickResponseOmitsEmptyPurchases(t *testing.T) {
	payload, err := EncodeTickResponse("tok", []UAVCommand{
		{No: 1, Loc: model.Coordinate{X: 1, Y: 2, Z: 0}, GoodsNo: -1, RemainElectricity: 300},
	}, nil)
	require.NoError(t, err)

	s := string(payload)
	assert.Contains(t, s, `"action":"flyPlane"`)
	assert.NotContains(t, s, "purchase_UAV")
}

func TestEncodeTickResponseIncludesPurchases(t *testing.T) {
	payload, err := EncodeTickResponse("tok", nil, []Purchase{{Type: 2}})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"purchase_UAV":[{"purchase":2}]`)
}

func TestDecodeMapFrame(t *testing.T) {
	payload := []byte(`{
		"map": {"x": 21, "y": 21, "z": 16},
		"parking": {"x": 10, "y": 10},
		"h_low": 1,
		"h_high": 15,
		"building": [{"x":5,"y":0,"l":1,"w":9,"h":4}],
		"fog": [],
		"init_UAV": [],
		"UAV_price": [{"type":0,"load_weight":10,"value":800,"capacity":50,"charge":20}]
	}`)

	wm, uavs, err := DecodeMapFrame(payload)
	require.NoError(t, err)
	assert.Empty(t, uavs)
	assert.Equal(t, 20, wm.MapRange.X)
	assert.Equal(t, 20, wm.MapRange.Y)
	assert.Equal(t, 15, wm.MapRange.Z)
	require.Len(t, wm.Buildings, 1)
	assert.Equal(t, 6, wm.Buildings[0].X2)

	row, ok := wm.PriceOf(0)
	require.True(t, ok)
	assert.Equal(t, 800, row.Value)
}
