// Package obs provides structured logging for the fleet controller,
// configured the way freeeve-polite-betrayal's internal/logger configures
// zerolog: a global logger initialized once at startup from environment
// variables, with per-tick context attached via a zerolog.Context rather
// than ad hoc Printf calls.
package obs

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Init configures the global zerolog logger. Call once at process startup.
func Init(levelName string) {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	if levelName == "" {
		levelName = "info"
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: milliTimeFormat,
		NoColor:    true,
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	log.Info().Str("level", level.String()).Msg("logger initialized")
}

// Get returns the global logger.
func Get() zerolog.Logger {
	return log.Logger
}

// ForTick returns a logger enriched with the current tick number, matching
// the corpus's ForRequest(ctx)-style per-unit-of-work enrichment.
func ForTick(tick int) zerolog.Logger {
	return log.Logger.With().Int("tick", tick).Str("trace_id", TickTraceID()).Logger()
}

// TickTraceID returns a short, process-unique id used to correlate every
// log line emitted while handling one tick, the way ek-roj's consensus
// package tags each proposal with uuid.New().String()[:8].
func TickTraceID() string {
	return uuid.New().String()[:8]
}
