// Package logger builds the zerolog loggers shared by the storefront and the
// development backend. Both binaries write to the same sink, so every entry
// carries the service that produced it.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field names that scoped loggers stamp on their entries.
const (
	ServiceField = "service"
	VisitorField = "visitor"
)

// Options controls how New builds a logger.
type Options struct {
	// Level is the minimum level: trace, debug, info, warn or error.
	// Anything else means info.
	Level string
	// Pretty switches to coloured console output for local runs.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service names the binary, "storefront" or "devapi".
	Service string
}

// New returns a logger configured from opts. It also sets the process-wide
// zerolog level so third-party code logging through zerolog obeys LOG_LEVEL.
func New(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := ParseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(out).Level(lvl).With().Timestamp().Caller()
	if opts.Service != "" {
		ctx = ctx.Str(ServiceField, opts.Service)
	}
	return ctx.Logger()
}

// ForVisitor scopes log to one storefront visitor. Session, draft and
// submission entries for the same browser can then be followed by id.
func ForVisitor(log zerolog.Logger, visitorID string) zerolog.Logger {
	return log.With().Str(VisitorField, visitorID).Logger()
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
