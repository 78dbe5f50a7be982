package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every log entry.
const ServiceName = "records-service"

// LoggingConfig contains logger configuration options.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error, fatal, panic).
	Level string

	// Format is the output format (json, console, pretty).
	Format string

	// Output is the output destination (stdout, stderr, or a file path).
	Output string

	// AddSource adds source file and line number to log entries.
	AddSource bool

	// TimeFormat is the time format for timestamps.
	TimeFormat string
}

// DefaultLoggingConfig returns a LoggingConfig with sensible defaults.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// NewLogger creates a new zerolog logger based on configuration. If the
// output file cannot be opened the logger writes to stderr and its first
// entry reports the failure. Callers that own the process lifetime should
// use OpenLogger so the file can be closed.
func NewLogger(cfg LoggingConfig) zerolog.Logger {
	logger, _, err := OpenLogger(cfg)
	if err != nil {
		logger = buildLogger(cfg, os.Stderr)
		logger.Error().Err(err).Str("output", cfg.Output).Msg("falling back to stderr for logs")
	}
	return logger
}

// OpenLogger creates a logger like NewLogger and returns the closer for its
// output. Closing stdout or stderr outputs is a no-op.
func OpenLogger(cfg LoggingConfig) (zerolog.Logger, io.Closer, error) {
	var (
		output io.Writer
		closer io.Closer = nopCloser{}
	)

	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	case "", "stdout":
		output = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log output %s: %w", cfg.Output, err)
		}
		output, closer = f, f
	}

	return buildLogger(cfg, output), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func buildLogger(cfg LoggingConfig, output io.Writer) zerolog.Logger {
	// Configure time format
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	// Use console writer for pretty output in development
	if strings.ToLower(cfg.Format) == "console" || strings.ToLower(cfg.Format) == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}

	logger := zerolog.New(output).With().Timestamp().Str("service", ServiceName)

	// Add caller information if configured
	if cfg.AddSource {
		logger = logger.Caller()
	}

	// Build the final logger
	log := logger.Logger()

	// Set log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)
	log = log.Level(level)

	return log
}

// parseLevel converts a string log level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithRequestContext adds the request identifier and active data profile to a logger.
func WithRequestContext(logger zerolog.Logger, requestID, profile string) zerolog.Logger {
	return logger.With().
		Str("request_id", requestID).
		Str("profile", profile).
		Logger()
}

// WithStatementContext adds the physical table and repository operation to a logger.
func WithStatementContext(logger zerolog.Logger, table, operation string) zerolog.Logger {
	return logger.With().
		Str("table", table).
		Str("operation", operation).
		Logger()
}

// WithStudentContext adds the student identifier to a logger.
func WithStudentContext(logger zerolog.Logger, stuID string) zerolog.Logger {
	return logger.With().
		Str("stu_id", stuID).
		Logger()
}

// LoggerFromContext returns the logger stored on ctx by zerolog's WithContext,
// enriched with the request fields found on ctx. When ctx carries no logger,
// base is used.
func LoggerFromContext(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	logger := base
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		logger = *l
	}

	lc := logger.With()
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if p := ProfileNameFromContext(ctx); p != "" {
		lc = lc.Str("profile", p)
	}
	if stu := StudentIDFromContext(ctx); stu != "" {
		lc = lc.Str("stu_id", stu)
	}
	return lc.Logger()
}
