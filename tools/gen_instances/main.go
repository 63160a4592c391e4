// Command gen_instances generates deterministic synthetic match scenarios
// for local testing: a map frame and a short run of per-tick request
// frames in exactly the JSON shape internal/server decodes, so the
// scheduler can be exercised offline without a live game server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

type boxJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
	L int `json:"l"`
	W int `json:"w"`
	H int `json:"h,omitempty"`
	B int `json:"b,omitempty"`
	T int `json:"t,omitempty"`
}

type uavJSON struct {
	No                int `json:"no"`
	X                 int `json:"x"`
	Y                 int `json:"y"`
	Z                 int `json:"z"`
	GoodsNo           int `json:"goods_no"`
	Type              int `json:"type"`
	Status            int `json:"status"`
	RemainElectricity int `json:"remain_electricity"`
}

type priceJSON struct {
	Type       int `json:"type"`
	LoadWeight int `json:"load_weight"`
	Value      int `json:"value"`
	Capacity   int `json:"capacity"`
	Charge     int `json:"charge"`
}

type mapFrame struct {
	Map struct {
		X int `json:"x"`
		Y int `json:"y"`
		Z int `json:"z"`
	} `json:"map"`
	Parking struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"parking"`
	HLow     int         `json:"h_low"`
	HHigh    int         `json:"h_high"`
	Building []boxJSON   `json:"building"`
	Fog      []boxJSON   `json:"fog"`
	InitUAV  []uavJSON   `json:"init_UAV"`
	UAVPrice []priceJSON `json:"UAV_price"`
}

type goodsJSON struct {
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

type tickFrame struct {
	Token       string      `json:"token"`
	Notice      string      `json:"notice"`
	MatchStatus int         `json:"match_status"`
	Time        int         `json:"time"`
	UAVWe       []uavJSON   `json:"UAV_we"`
	WeValue     int         `json:"we_value"`
	UAVEnemy    []uavJSON   `json:"UAV_enemy"`
	EnemyValue  int         `json:"enemy_value"`
	Goods       []goodsJSON `json:"goods"`
}

func main() {
	seed := flag.Int64("seed", 1, "random seed")
	size := flag.Int("size", 20, "square map width/height")
	numUAV := flag.Int("uavs", 6, "number of friendly UAVs")
	numTicks := flag.Int("ticks", 50, "number of tick frames to generate")
	outDir := flag.String("out", "scenarios", "output directory")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mf := genMapFrame(rng, *size, *numUAV)
	writeJSON(filepath.Join(*outDir, "map.json"), mf)

	for t := 0; t < *numTicks; t++ {
		tf := genTickFrame(rng, mf, t)
		writeJSON(filepath.Join(*outDir, fmt.Sprintf("tick_%04d.json", t)), tf)
	}

	fmt.Printf("wrote map.json and %d tick frames to %s\n", *numTicks, *outDir)
}

func genMapFrame(rng *rand.Rand, size, numUAV int) mapFrame {
	mf := mapFrame{HLow: 1, HHigh: size / 2}
	mf.Map.X, mf.Map.Y, mf.Map.Z = size+1, size+1, mf.HHigh+1
	mf.Parking.X, mf.Parking.Y = 0, 0

	numBuildings := size / 4
	for i := 0; i < numBuildings; i++ {
		x, y := rng.Intn(size-3)+2, rng.Intn(size-3)+2
		mf.Building = append(mf.Building, boxJSON{X: x, Y: y, L: 1 + rng.Intn(2), W: 1 + rng.Intn(2), H: 2 + rng.Intn(mf.HHigh-2)})
	}

	for i := 0; i < numUAV; i++ {
		mf.InitUAV = append(mf.InitUAV, uavJSON{
			No: i + 1, X: 0, Y: 0, Z: 0, GoodsNo: -1,
			Type: 0, Status: 0, RemainElectricity: 500,
		})
	}

	mf.UAVPrice = []priceJSON{
		{Type: 0, LoadWeight: 10, Value: 800, Capacity: 50, Charge: 20},
		{Type: 1, LoadWeight: 20, Value: 1500, Capacity: 80, Charge: 15},
		{Type: 2, LoadWeight: 5, Value: 600, Capacity: 30, Charge: 25},
	}
	return mf
}

func genTickFrame(rng *rand.Rand, mf mapFrame, tick int) tickFrame {
	tf := tickFrame{
		Token:       "scenario-token",
		MatchStatus: 0,
		Time:        tick,
		WeValue:     1000 + tick*5,
		EnemyValue:  1000,
	}
	tf.UAVWe = append(tf.UAVWe, mf.InitUAV...)

	if tick%10 == 0 {
		no := tick/10 + 100
		tf.Goods = append(tf.Goods, goodsJSON{
			No:         no,
			StartX:     rng.Intn(mf.Map.X - 1),
			StartY:     rng.Intn(mf.Map.Y - 1),
			EndX:       rng.Intn(mf.Map.X - 1),
			EndY:       rng.Intn(mf.Map.Y - 1),
			Weight:     1 + rng.Intn(8),
			Value:      50 + rng.Intn(200),
			StartTime:  tick,
			RemainTime: 100,
			LeftTime:   100,
		})
	}
	return tf
}

func writeJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
