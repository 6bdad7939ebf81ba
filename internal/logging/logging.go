// Package logging provides component loggers on top of log/slog.
//
// Packages declare a logger once, at package level:
//
//	var logger = logging.Logger("sqlite")
//
// and the CLI calls Setup after reading its configuration. Loggers created
// before Setup pick up the new level and format, since every record is
// routed through the handler installed last.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type rootHandler struct {
	h slog.Handler
}

var root atomic.Pointer[rootHandler]

func init() {
	root.Store(&rootHandler{h: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})})
}

// Setup installs the process-wide handler writing to w at level in format.
// An empty level means info; an empty format means text.
func Setup(w io.Writer, level, format string) error {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("log level %q: %w", level, err)
		}
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(format) {
	case "", FormatText:
		h = slog.NewTextHandler(w, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("log format %q: must be %s or %s", format, FormatText, FormatJSON)
	}

	root.Store(&rootHandler{h: h})
	slog.SetDefault(slog.New(h))
	return nil
}

// Logger returns a logger tagged with component.
func Logger(component string) *slog.Logger {
	return slog.New(&deferred{}).With("component", component)
}

// deferred resolves the root handler on every call and replays the
// attributes and groups added to it. The replayed chain is cached until
// Setup installs a new root.
type deferred struct {
	wrap  []func(slog.Handler) slog.Handler
	cache atomic.Pointer[wrapped]
}

// wrapped is the chain built on one root handler.
type wrapped struct {
	root *rootHandler
	h    slog.Handler
}

func (d *deferred) current() slog.Handler {
	r := root.Load()
	if c := d.cache.Load(); c != nil && c.root == r {
		return c.h
	}
	h := r.h
	for _, w := range d.wrap {
		h = w(h)
	}
	d.cache.Store(&wrapped{root: r, h: h})
	return h
}

func (d *deferred) Enabled(ctx context.Context, level slog.Level) bool {
	return root.Load().h.Enabled(ctx, level)
}

func (d *deferred) Handle(ctx context.Context, r slog.Record) error {
	return d.current().Handle(ctx, r)
}

func (d *deferred) WithAttrs(attrs []slog.Attr) slog.Handler {
	return d.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (d *deferred) WithGroup(name string) slog.Handler {
	return d.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (d *deferred) with(w func(slog.Handler) slog.Handler) slog.Handler {
	wrap := make([]func(slog.Handler) slog.Handler, len(d.wrap), len(d.wrap)+1)
	copy(wrap, d.wrap)
	return &deferred{wrap: append(wrap, w)}
}
