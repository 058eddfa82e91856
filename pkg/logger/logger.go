// Package logger provides a colored log/slog handler for terminal output.
//
// Warnings are yellow, errors red, and messages about graph writes green so
// load progress stands out from the rest of the output.
package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// persistenceWords mark messages about database writes.
var persistenceWords = []string{"persist", "writing", "written", "upsert", "load completed", "schema initialized", "resetting"}

// ColorHandler writes one colored text line per record.
type ColorHandler struct {
	opts   slog.HandlerOptions
	attrs  []slog.Attr
	groups []string
	color  bool

	mu *sync.Mutex
	w  io.Writer
}

// NewColorHandler creates a ColorHandler writing to w. A nil opts logs at
// info level.
func NewColorHandler(w io.Writer, opts *slog.HandlerOptions) *ColorHandler {
	h := &ColorHandler{
		color: true,
		mu:    &sync.Mutex{},
		w:     w,
	}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

// WithoutColor returns a copy of h that writes plain text.
func (h *ColorHandler) WithoutColor() *ColorHandler {
	clone := *h
	clone.color = false
	return &clone
}

// NewDefaultLogger returns a colored logger on stderr at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps debug, info, warn and error to a slog.Level. Unknown
// values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Enabled reports whether the level passes the configured minimum.
func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes the record.
func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.paint(colorGray, r.Time.Format(time.DateTime)))
		buf.WriteByte(' ')
	}

	levelColor := levelColor(r.Level, r.Message)
	buf.WriteString(h.paint(levelColor, fmt.Sprintf("%-5s", r.Level.String())))
	buf.WriteByte(' ')
	buf.WriteString(h.paint(levelColor, r.Message))

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	for _, a := range h.attrs {
		writeAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}
	return &clone
}

// WithGroup returns a handler that qualifies later attribute keys.
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func (h *ColorHandler) paint(color, s string) string {
	if !h.color || color == "" {
		return s
	}
	return color + s + colorReset
}

func levelColor(level slog.Level, msg string) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case isPersistenceMessage(msg):
		return colorGreen
	default:
		return ""
	}
}

func isPersistenceMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, w := range persistenceWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(buf, prefix+a.Key+".", ga)
		}
		return
	}

	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") {
		val = fmt.Sprintf("%q", val)
	}
	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(val)
}
