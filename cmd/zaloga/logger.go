package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// levelRouter sends records below ERROR to out and ERROR and above to errOut.
type levelRouter struct {
	out    slog.Handler
	errOut slog.Handler
}

func (lr *levelRouter) Enabled(ctx context.Context, level slog.Level) bool {
	return lr.out.Enabled(ctx, level)
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.errOut.Handle(ctx, r)
	}
	return lr.out.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{out: lr.out.WithAttrs(attrs), errOut: lr.errOut.WithAttrs(attrs)}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{out: lr.out.WithGroup(name), errOut: lr.errOut.WithGroup(name)}
}

// newLogHandler builds the process log handler. Production logs are JSON,
// everything else uses the text format.
func newLogHandler(stdout, stderr io.Writer, environment string) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	build := func(w io.Writer) slog.Handler { return slog.NewTextHandler(w, opts) }
	if environment == "production" {
		build = func(w io.Writer) slog.Handler { return slog.NewJSONHandler(w, opts) }
	}
	return &levelRouter{out: build(stdout), errOut: build(stderr)}
}

// setupLogger installs the default logger. With a logPath every level is also
// appended to that file. The returned cleanup closes the file and may be nil.
func setupLogger(logPath, environment string) (func(), error) {
	stdout := io.Writer(os.Stdout)
	stderr := io.Writer(os.Stderr)

	var cleanup func()
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdout = io.MultiWriter(os.Stdout, f)
		stderr = io.MultiWriter(os.Stderr, f)
	}

	slog.SetDefault(slog.New(newLogHandler(stdout, stderr, environment)))
	return cleanup, nil
}
