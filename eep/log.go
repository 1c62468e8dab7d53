package eep

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

type logCtxKey struct{}

// NewLogger builds the package's structured logger. Parsers and the
// loader log decode steps at Debug, local recovery at Warn, and aborted
// operations at Error — the structured equivalent of the teacher's verbose
// `-d`-gated `dw_printf`/`text_color_set` tracing (src/config.go,
// src/textcolor.go), but without a hidden global (§9 "Global state": the
// logger is threaded through Context, not package-global mutable state).
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "atheepmgr",
	})
}

// WithLogger returns a context carrying logger, retrievable with Logger.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, logger)
}

// Logger retrieves the logger from ctx, falling back to a silent logger if
// none was attached.
func Logger(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(logCtxKey{}).(*log.Logger); ok && l != nil {
		return l
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
