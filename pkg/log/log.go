package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance, usable before Init is called
// (e.g. from library code exercised by tests that never call Init).
var Logger zerolog.Logger

// Level represents log level
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config holds logging configuration. RunID, if set, is stamped on every
// line Init's logger produces, so one process's log stream can be told
// apart from another instance's when both write to the same aggregator.
// ecsctl leaves it empty.
type Config struct {
	Level      Level
	JSONOutput bool
	RunID      string
	Output     io.Writer
}

func init() {
	Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

// Init initializes the global logger.
func Init(cfg Config) {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	case InfoLevel, "":
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	var base zerolog.Logger
	if cfg.JSONOutput {
		base = zerolog.New(output).With().Timestamp().Logger()
	} else {
		base = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}

	if cfg.RunID != "" {
		base = base.With().Str("run_id", cfg.RunID).Logger()
	}
	Logger = base
}

// WithComponent creates a child logger identifying a named subsystem
// (e.g. "debugserver", "ecsctl") rather than a single tick or system.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// TickScope is a logger scoped to one scheduler tick, returned by
// ForTick. Its System method narrows further to a single system's
// log lines within that tick, so a dispatched system's logger always
// carries both fields together rather than one or the other.
type TickScope struct {
	logger zerolog.Logger
}

// ForTick scopes subsequent log lines to tickID/tick.
func ForTick(tickID string, tick uint64) TickScope {
	return TickScope{logger: Logger.With().Str("tick_id", tickID).Uint64("tick", tick).Logger()}
}

// Logger returns the tick-scoped logger directly, for dispatcher-level
// lines that aren't about any one system.
func (t TickScope) Logger() zerolog.Logger {
	return t.logger
}

// System narrows t to lines about one system running during this tick.
func (t TickScope) System(name string) zerolog.Logger {
	return t.logger.With().Str("system", name).Logger()
}

func Info(msg string) {
	Logger.Info().Msg(msg)
}

func Debug(msg string) {
	Logger.Debug().Msg(msg)
}

func Warn(msg string) {
	Logger.Warn().Msg(msg)
}

func Error(msg string) {
	Logger.Error().Msg(msg)
}

func Errorf(format string, err error) {
	Logger.Error().Err(err).Msg(format)
}

func Fatal(msg string) {
	Logger.Fatal().Msg(msg)
}
