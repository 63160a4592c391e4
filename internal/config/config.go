// Package config resolves the process's external configuration: the three
// positional CLI arguments the game server contract requires (spec.md §6),
// plus optional environment-variable tuning knobs in the corpus's
// envOrDefault style (freeeve-polite-betrayal/api/internal/config).
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the resolved runtime configuration for one match run.
type Config struct {
	Host  string
	Port  string
	Token string

	// TickBudgetMS is the wall-clock budget per tick in milliseconds,
	// spec.md §5's "~1s" budget, tunable for local testing.
	TickBudgetMS int

	// LogLevel is passed straight through to obs.Init.
	LogLevel string

	// RNGSeed seeds the scheduler's idle-scatter RNG (spec.md §4.4
	// "Determinism"). Zero means "seed from current time".
	RNGSeed int64

	// VisDebug enables the optional live debug visualizer.
	VisDebug bool
}

// FromArgs parses the three required positional CLI arguments (host, port,
// token) and layers in environment-variable overrides. A "-visdebug"
// argument anywhere in args, or a non-empty VISDEBUG environment variable,
// enables the debug visualizer.
func FromArgs(args []string) (*Config, error) {
	visDebug := envOrDefault("VISDEBUG", "") != ""
	var positional []string
	for _, a := range args {
		if a == "-visdebug" {
			visDebug = true
			continue
		}
		positional = append(positional, a)
	}
	if len(positional) < 3 {
		return nil, fmt.Errorf("config: usage: mapfhet [-visdebug] <host> <port> <token>")
	}

	cfg := &Config{
		Host:         positional[0],
		Port:         positional[1],
		Token:        positional[2],
		TickBudgetMS: envOrDefaultInt("TICK_BUDGET_MS", 950),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		RNGSeed:      envOrDefaultInt64("RNG_SEED", 0),
		VisDebug:     visDebug,
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
