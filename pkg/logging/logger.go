// Package logging configures zerolog for the pagination engine and the
// sources that feed it.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs strategy selection, per-request flow and progress.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs failed materializations and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"

	// LevelDisabled turns logging off.
	LevelDisabled LogLevel = "disabled"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "UNPAGINATED_LOG_LEVEL"
	EnvPretty = "UNPAGINATED_LOG_PRETTY"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// FromEnv returns DefaultConfig overridden by EnvLevel and EnvPretty.
// getenv is usually os.Getenv.
func FromEnv(getenv func(string) string) Config {
	cfg := DefaultConfig()
	if level := getenv(EnvLevel); level != "" {
		cfg.Level = LogLevel(level)
	}
	if pretty, err := strconv.ParseBool(getenv(EnvPretty)); err == nil {
		cfg.Pretty = pretty
	}
	return cfg
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	var output io.Writer = cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Strategy selection (shape of the first page)
//   - Per-request flow of HTTP and Redis sources
//   - Fetch progress on long runs
//
// Info: Normal operation events
//   - Materialization summaries reported by callers
//
// Warn: Warning conditions
//   - Failed materializations (shape errors, upstream failures)
//   - Non-2xx responses from HTTP sources
//
// Error: Error conditions requiring attention
//   - Configuration errors
//
// Context Fields:
//   - component: Package emitting the entry (pagination, client, redissource)
//   - strategy: serial, concurrent or cursor
//   - shape: plain, counted or cursored
//   - page: Page number of a request
//   - items: Number of materialized items
//   - duration: Materialization or request duration
//   - status_code: HTTP status code
//   - key: Redis key or match pattern
