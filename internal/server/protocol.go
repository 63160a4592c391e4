package server

import (
	"encoding/json"
	"fmt"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/worldmap"
)

// wireUAV is the on-wire shape of a UAV snapshot, shared by the initial
// map frame's init_UAV and every per-tick UAV_we/UAV_enemy entry.
type wireUAV struct {
	No                int    `json:"no"`
	X                 int    `json:"x"`
	Y                 int    `json:"y"`
	Z                 int    `json:"z"`
	GoodsNo           int    `json:"goods_no"`
	Type              int    `json:"type"`
	Status            int    `json:"status"`
	RemainElectricity int    `json:"remain_electricity"`
	Price             int    `json:"price,omitempty"`
	LoadWeight        int    `json:"load_weight,omitempty"`
	Capacity          int    `json:"capacity,omitempty"`
	ChargeRate        int    `json:"charge,omitempty"`
}

func (w wireUAV) toModel() model.UAV {
	return model.UAV{
		No:                w.No,
		Loc:               model.Coordinate{X: w.X, Y: w.Y, Z: w.Z},
		GoodsNo:           w.GoodsNo,
		Type:              model.UAVType(w.Type),
		Status:            model.UAVStatus(w.Status),
		RemainElectricity: w.RemainElectricity,
		Price:             w.Price,
		LoadWeight:        w.LoadWeight,
		Capacity:          w.Capacity,
		ChargeRate:        w.ChargeRate,
	}
}

type wireGoods struct {
	No         int `json:"no"`
	StartX     int `json:"start_x"`
	StartY     int `json:"start_y"`
	EndX       int `json:"end_x"`
	EndY       int `json:"end_y"`
	Weight     int `json:"weight"`
	Value      int `json:"value"`
	StartTime  int `json:"start_time"`
	RemainTime int `json:"remain_time"`
	LeftTime   int `json:"left_time"`
	Status     int `json:"status"`
}

func (w wireGoods) toModel() model.Goods {
	return model.Goods{
		No:         w.No,
		Start:      model.Coordinate{X: w.StartX, Y: w.StartY, Z: 0},
		End:        model.Coordinate{X: w.EndX, Y: w.EndY, Z: 0},
		Weight:     w.Weight,
		Value:      w.Value,
		StartTime:  w.StartTime,
		RemainTime: w.RemainTime,
		LeftTime:   w.LeftTime,
		State:      model.GoodsState(w.Status),
	}
}

// TickRequest is the decoded per-tick server->client frame.
type TickRequest struct {
	Token       string
	Notice      string
	MatchStatus int
	Time        int
	UAVWe       []model.UAV
	WeValue     int
	UAVEnemy    []model.UAV
	EnemyValue  int
	Goods       []model.Goods
}

// Ended reports whether this tick's MatchStatus ends the match.
func (r TickRequest) Ended() bool {
	return r.MatchStatus == 1
}

type wireTickRequest struct {
	Token       string      `json:"token"`
	Notice      string      `json:"notice"`
	MatchStatus int         `json:"match_status"`
	Time        int         `json:"time"`
	UAVWe       []wireUAV   `json:"UAV_we"`
	WeValue     int         `json:"we_value"`
	UAVEnemy    []wireUAV   `json:"UAV_enemy"`
	EnemyValue  int         `json:"enemy_value"`
	Goods       []wireGoods `json:"goods"`
}

// DecodeTickRequest parses one per-tick request frame.
func DecodeTickRequest(payload []byte) (TickRequest, error) {
	var w wireTickRequest
	if err := json.Unmarshal(payload, &w); err != nil {
		return TickRequest{}, fmt.Errorf("server: decode tick request: %w", err)
	}
	req := TickRequest{
		Token:       w.Token,
		Notice:      w.Notice,
		MatchStatus: w.MatchStatus,
		Time:        w.Time,
		WeValue:     w.WeValue,
		EnemyValue:  w.EnemyValue,
	}
	for _, u := range w.UAVWe {
		req.UAVWe = append(req.UAVWe, u.toModel())
	}
	for _, u := range w.UAVEnemy {
		req.UAVEnemy = append(req.UAVEnemy, u.toModel())
	}
	for _, g := range w.Goods {
		req.Goods = append(req.Goods, g.toModel())
	}
	return req, nil
}

// UAVCommand is one outbound next-step directive.
type UAVCommand struct {
	No                int
	Loc               model.Coordinate
	GoodsNo           int
	RemainElectricity int
}

// Purchase is one outbound purchase directive.
type Purchase struct {
	Type model.UAVType
}

type wireUAVCommand struct {
	No                int `json:"no"`
	X                 int `json:"x"`
	Y                 int `json:"y"`
	Z                 int `json:"z"`
	GoodsNo           int `json:"goods_no"`
	RemainElectricity int `json:"remain_electricity"`
}

type wirePurchase struct {
	Purchase int `json:"purchase"`
}

type wireTickResponse struct {
	Token       string           `json:"token"`
	Action      string           `json:"action"`
	UAVInfo     []wireUAVCommand `json:"UAV_info"`
	PurchaseUAV []wirePurchase   `json:"purchase_UAV,omitempty"`
}

// EncodeTickResponse builds the outbound per-tick JSON payload. The
// purchase array is omitted entirely when empty, matching
// model.py StepCommand.to_json.
func EncodeTickResponse(token string, commands []UAVCommand, purchases []Purchase) ([]byte, error) {
	w := wireTickResponse{
		Token:  token,
		Action: "flyPlane",
	}
	for _, c := range commands {
		w.UAVInfo = append(w.UAVInfo, wireUAVCommand{
			No:                c.No,
			X:                 c.Loc.X,
			Y:                 c.Loc.Y,
			Z:                 c.Loc.Z,
			GoodsNo:           c.GoodsNo,
			RemainElectricity: c.RemainElectricity,
		})
	}
	for _, p := range purchases {
		w.PurchaseUAV = append(w.PurchaseUAV, wirePurchase{Purchase: int(p.Type)})
	}
	payload, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("server: encode tick response: %w", err)
	}
	return payload, nil
}

type wireAuthResult struct {
	Result int `json:"result"`
}

type wireMapFrame struct {
	Map struct {
		X int `json:"x"`
		Y int `json:"y"`
		Z int `json:"z"`
	} `json:"map"`
	Parking struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"parking"`
	HLow     int              `json:"h_low"`
	HHigh    int              `json:"h_high"`
	Building []wireBox        `json:"building"`
	Fog      []wireBox        `json:"fog"`
	InitUAV  []wireUAV        `json:"init_UAV"`
	UAVPrice []wireUAVPrice   `json:"UAV_price"`
}

type wireBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	L int `json:"l"`
	W int `json:"w"`
	// Buildings use h (height from ground); fogs use explicit b/t bounds.
	H int `json:"h"`
	B int `json:"b"`
	T int `json:"t"`
}

func (b wireBox) toBuildingModel() model.Box {
	return model.Box{X1: b.X, Y1: b.Y, X2: b.X + b.L, Y2: b.Y + b.W, Z1: 0, Z2: b.H}
}

func (b wireBox) toFogModel() model.Box {
	return model.Box{X1: b.X, Y1: b.Y, X2: b.X + b.L, Y2: b.Y + b.W, Z1: b.B, Z2: b.T}
}

type wireUAVPrice struct {
	Type       int `json:"type"`
	LoadWeight int `json:"load_weight"`
	Value      int `json:"value"`
	Capacity   int `json:"capacity"`
	Charge     int `json:"charge"`
}

// DecodeMapFrame parses the initial map frame into a WorldMap and the
// match's starting UAV snapshots. map.x/y/z are inclusive-extent-plus-one
// values on the wire, so MapRange is each minus 1 (model.py MapInfo.from_dict).
func DecodeMapFrame(payload []byte) (*worldmap.WorldMap, []model.UAV, error) {
	var w wireMapFrame
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, nil, fmt.Errorf("server: decode map frame: %w", err)
	}

	mapRange := model.Coordinate{X: w.Map.X - 1, Y: w.Map.Y - 1, Z: w.Map.Z - 1}
	parking := model.Coordinate{X: w.Parking.X, Y: w.Parking.Y, Z: 0}

	buildings := make([]model.Box, 0, len(w.Building))
	for _, b := range w.Building {
		buildings = append(buildings, b.toBuildingModel())
	}
	fogs := make([]model.Box, 0, len(w.Fog))
	for _, f := range w.Fog {
		fogs = append(fogs, f.toFogModel())
	}
	prices := make([]model.PriceRow, 0, len(w.UAVPrice))
	for _, p := range w.UAVPrice {
		prices = append(prices, model.PriceRow{
			Type:       model.UAVType(p.Type),
			LoadWeight: p.LoadWeight,
			Value:      p.Value,
			Capacity:   p.Capacity,
			Charge:     p.Charge,
		})
	}

	wm := worldmap.NewWorldMap(mapRange, parking, w.HLow, w.HHigh, buildings, fogs, prices)

	uavs := make([]model.UAV, 0, len(w.InitUAV))
	for _, u := range w.InitUAV {
		uavs = append(uavs, u.toModel())
	}
	return wm, uavs, nil
}
