// Command run_benchmarks replays a directory of gen_instances tick frames
// against the scheduler and reports per-tick wall-clock time, flagging any
// tick that exceeds the server's budget. Grounded on time_checker.py's
// TLE-checking pass over a log of per-tick durations, generalized to
// running the ticks itself rather than parsing a pre-recorded log.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/agent"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/jpsplus"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/routeplan"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/scheduler"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/server"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/store"

	"github.com/rs/zerolog"
)

const tickBudget = 950 * time.Millisecond

func main() {
	dir := flag.String("dir", "scenarios", "directory produced by gen_instances")
	flag.Parse()

	mapPayload, err := os.ReadFile(filepath.Join(*dir, "map.json"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	wm, initUAVs, err := server.DecodeMapFrame(mapPayload)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decode map frame:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	finders, err := jpsplus.BuildFinders(ctx, wm)
	if err != nil {
		fmt.Fprintln(os.Stderr, "preprocessing:", err)
		os.Exit(1)
	}

	st := store.New(finders)
	for _, u := range initUAVs {
		st.Agents[u.No] = agent.New(u)
	}

	rng := rand.New(rand.NewSource(1))
	planner := routeplan.New(wm, finders, rng)
	sched := scheduler.New(wm, st, planner, rng, zerolog.Nop())

	ticks, err := filepath.Glob(filepath.Join(*dir, "tick_*.json"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sort.Strings(ticks)

	var maxElapsed time.Duration
	tleCount := 0
	for _, path := range ticks {
		payload, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		req, err := server.DecodeTickRequest(payload)
		if err != nil {
			fmt.Fprintln(os.Stderr, "decode tick:", err)
			continue
		}

		start := time.Now()
		sched.Tick(req)
		elapsed := time.Since(start)

		if elapsed > maxElapsed {
			maxElapsed = elapsed
		}
		if elapsed > tickBudget {
			tleCount++
			fmt.Printf("TLE tick=%d elapsed=%s\n", req.Time, elapsed)
		}
	}

	fmt.Printf("max tick time: %s (%d/%d over budget)\n", maxElapsed, tleCount, len(ticks))
}
