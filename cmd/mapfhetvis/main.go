// Command mapfhetvis renders a synthetic fleet-and-obstacle board to
// exercise internal/visdebug standalone, without a live server connection.
// For watching a real match, mapfhet itself feeds a visdebug.Board when
// run with -visdebug.
package main

import (
	"log"
	"math/rand"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/visdebug"
)

func main() {
	board := visdebug.NewBoard()
	go feedDemoSnapshots(board)

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("uav-fleet-controller debug view"),
			app.Size(unit.Dp(1000), unit.Dp(1000)),
		)

		if err := visdebug.Run(window, board); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

// feedDemoSnapshots pushes a slowly-evolving synthetic board so the window
// has something to draw when run outside an actual match.
func feedDemoSnapshots(board *visdebug.Board) {
	buildings := []model.Box{{X1: 8, Y1: 2, X2: 9, Y2: 10, Z1: 0, Z2: 4}}
	rng := rand.New(rand.NewSource(1))
	agents := make([]visdebug.AgentSnapshot, 6)
	for i := range agents {
		agents[i] = visdebug.AgentSnapshot{No: i + 1, Loc: model.Coordinate{X: rng.Intn(20), Y: rng.Intn(20), Z: 1}}
	}

	tick := 0
	for {
		tick++
		for i := range agents {
			agents[i].Loc.X = (agents[i].Loc.X + rng.Intn(3) - 1 + 20) % 20
			agents[i].Loc.Y = (agents[i].Loc.Y + rng.Intn(3) - 1 + 20) % 20
			agents[i].TaskType = model.TaskType(tick/20+i) % 6
		}
		board.Push(visdebug.Snapshot{
			Tick:      tick,
			MapRangeX: 19,
			MapRangeY: 19,
			Parking:   model.Coordinate{X: 0, Y: 0, Z: 0},
			Buildings: buildings,
			Agents:    append([]visdebug.AgentSnapshot(nil), agents...),
		})
		time.Sleep(200 * time.Millisecond)
	}
}
