// Package logger provides the structured logging backbone for the engine,
// built on zerolog the way the rest of this module's ambient stack is.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level re-exports zerolog's level type so callers need not import zerolog
// directly just to configure verbosity.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config controls the package-level logger singleton.
type Config struct {
	Level      string // debug/info/warn/error/fatal
	Format     string // json/console
	Output     string // stdout/stderr
	TimeFormat string
}

// DefaultConfig returns the engine's default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init initializes the package-level logger. Only the first call takes
// effect; subsequent calls are no-ops, matching the teacher's singleton
// convention.
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{Out: output, TimeFormat: cfg.TimeFormat}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the package-level logger, lazily initializing it with
// defaults if Init was never called.
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

// WithField returns a derived logger carrying one extra field.
func WithField(key string, value interface{}) *zerolog.Logger {
	l := Get().With().Interface(key, value).Logger()
	return &l
}

// SearchLogger is a domain logger for one engine component (an algorithm,
// a replica coordinator, ...), mirroring the teacher's SchedulerLogger:
// one method per notable lifecycle event instead of raw zerolog calls
// scattered through the engine.
type SearchLogger struct {
	base *zerolog.Logger
}

// NewSearchLogger creates a SearchLogger tagged with the given component
// name (e.g. "metropolis", "tempering", "tabu").
func NewSearchLogger(component string) *SearchLogger {
	l := Get().With().Str("component", component).Logger()
	return &SearchLogger{base: &l}
}

// RunStarted logs the beginning of a run.
func (l *SearchLogger) RunStarted(runID string) {
	l.base.Info().Str("run_id", runID).Msg("search started")
}

// RunStopped logs the end of a run.
func (l *SearchLogger) RunStopped(runID string, steps int, elapsed time.Duration) {
	l.base.Info().
		Str("run_id", runID).
		Int("steps", steps).
		Dur("elapsed", elapsed).
		Msg("search stopped")
}

// NewBest logs a strict improvement to the best-known solution.
func (l *SearchLogger) NewBest(runID string, step int, value float64) {
	l.base.Info().
		Str("run_id", runID).
		Int("step", step).
		Float64("value", value).
		Msg("new best solution")
}

// StatusChanged logs a search state-machine transition.
func (l *SearchLogger) StatusChanged(runID string, status string) {
	l.base.Debug().Str("run_id", runID).Str("status", status).Msg("status changed")
}

// ReplicaSwap logs a parallel-tempering swap decision between two adjacent
// replicas.
func (l *SearchLogger) ReplicaSwap(runID string, i, j int, accepted bool, prob float64) {
	l.base.Debug().
		Str("run_id", runID).
		Int("replica_i", i).
		Int("replica_j", j).
		Bool("accepted", accepted).
		Float64("probability", prob).
		Msg("replica swap decision")
}

// Error logs an error with an engine event label.
func (l *SearchLogger) Error(event string, err error) {
	l.base.Error().Str("event", event).Err(err).Msg("engine error")
}
