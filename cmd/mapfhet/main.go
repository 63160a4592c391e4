// Command mapfhet connects to the match server and runs the fleet
// controller for the duration of one game: host, port, and token are
// supplied as positional arguments, mirroring comm.py's Communication
// constructor.
package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/agent"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/config"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/jpsplus"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/obs"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/routeplan"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/scheduler"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/server"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/store"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/visdebug"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/worldmap"
)

func main() {
	cfg, err := config.FromArgs(os.Args[1:])
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	obs.Init(cfg.LogLevel)
	log := obs.Get()

	if !cfg.VisDebug {
		runMatch(cfg, log, nil)
		return
	}

	// gioui requires its event loop to run on the goroutine that calls
	// app.Main; the match loop (and the window's own frame loop) run on
	// their own goroutines, matching cmd/mapfhetvis's layout.
	board := visdebug.NewBoard()
	go func() {
		runMatch(cfg, log, board)
		os.Exit(0)
	}()
	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("uav-fleet-controller debug view"),
			app.Size(unit.Dp(1000), unit.Dp(1000)),
		)
		if err := visdebug.Run(window, board); err != nil {
			log.Error().Err(err).Msg("visual debug window closed with error")
		}
		os.Exit(0)
	}()
	app.Main()
}

// runMatch dials the game server, plays out the match to completion, and
// exits the process on any fatal protocol error. If board is non-nil, every
// tick's snapshot is pushed to it for the live debug window to render.
func runMatch(cfg *config.Config, log zerolog.Logger, board *visdebug.Board) {
	conn, err := server.Dial(cfg.Host, cfg.Port, cfg.Token, log)
	if err != nil {
		log.Fatal().Err(err).Msg("dial failed")
	}
	defer conn.Close()

	wm, initUAVs, err := conn.Authorize()
	if err != nil {
		log.Fatal().Err(err).Msg("authorization failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	finders, err := jpsplus.BuildFinders(ctx, wm)
	if err != nil {
		log.Fatal().Err(err).Msg("finder preprocessing failed")
	}
	log.Info().Int("altitudes", len(finders)).Msg("preprocessing complete")

	st := store.New(finders)
	for _, u := range initUAVs {
		st.Agents[u.No] = agent.New(u)
	}

	seed := cfg.RNGSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	planner := routeplan.New(wm, finders, rng)
	sched := scheduler.New(wm, st, planner, rng, log)
	sched.SetTickBudget(time.Duration(cfg.TickBudgetMS) * time.Millisecond)

	err = conn.Serve(context.Background(), func(ctx context.Context, req server.TickRequest) ([]server.UAVCommand, []server.Purchase, error) {
		commands, purchases := sched.Tick(req)
		if board != nil {
			board.Push(snapshotFor(req, wm, st))
		}
		return commands, purchases, nil
	})
	if err != nil {
		log.Error().Err(err).Msg("match loop ended with error")
		os.Exit(1)
	}
}

func snapshotFor(req server.TickRequest, wm *worldmap.WorldMap, st *store.Store) visdebug.Snapshot {
	agents := make([]visdebug.AgentSnapshot, 0, len(st.Agents))
	for _, no := range st.SortedAgentNos() {
		ag := st.Agents[no]
		agents = append(agents, visdebug.AgentSnapshot{No: ag.UAV.No, Loc: ag.UAV.Loc, TaskType: ag.TaskType})
	}
	return visdebug.Snapshot{
		Tick:      req.Time,
		MapRangeX: wm.MapRange.X,
		MapRangeY: wm.MapRange.Y,
		Parking:   wm.Parking,
		Buildings: wm.Buildings,
		Agents:    agents,
	}
}
