package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	colorReset  = "\033[0m"
	colorFaded  = "\033[2m" // Dim for faded text (timestamp)
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// PrettyHandler renders one human-readable line per record.
type PrettyHandler struct {
	w  io.Writer
	mu *sync.Mutex

	group string
	attrs []slog.Attr
}

func NewPrettyHandler(w io.Writer) *PrettyHandler {
	return &PrettyHandler{w: w, mu: &sync.Mutex{}}
}

func (h *PrettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	timestamp := getFadedTimestamp(r.Time)

	levelColor := getColorForLevel(r.Level)
	level := fmt.Sprintf("%s%-5s%s", levelColor, r.Level.String(), colorReset)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", timestamp, level, r.Message)

	for _, attr := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", h.key(attr.Key), attr.Value)
	}
	r.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", h.key(attr.Key), attr.Value)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &h2
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	h2 := *h
	h2.group = h.key(name)
	return &h2
}

func (h *PrettyHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

func getFadedTimestamp(t time.Time) string {
	return fmt.Sprintf("%s%s%s", colorFaded, t.Format(time.RFC3339), colorReset)
}

func getColorForLevel(level slog.Level) string {
	switch {
	case level == slog.LevelError:
		return colorRed
	case level == slog.LevelWarn:
		return colorYellow
	case level == slog.LevelInfo:
		return colorGreen
	case level == slog.LevelDebug:
		return colorCyan
	default:
		return colorReset
	}
}
