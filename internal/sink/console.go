// Package sink renders core.Line values for people: the console and the
// per-room chat log.
package sink

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dkeye/rtcroom/internal/core"
	"github.com/gookit/color"
	"github.com/rs/zerolog"
)

const (
	layout24h = "15:04:05"
	layout12h = "03:04:05:PM"
)

type ConsoleOptions struct {
	Use24Hour bool
	Colors    bool
	// Debug also prints debug level lines.
	Debug bool
}

// Console prints "[HH:MM:SS] text" lines, colored by kind.
type Console struct {
	mu   sync.Mutex
	out  io.Writer
	opts ConsoleOptions
}

func NewConsole(out io.Writer, opts ConsoleOptions) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out, opts: opts}
}

func (c *Console) Write(l core.Line) {
	if l.Level < zerolog.InfoLevel && !c.opts.Debug {
		return
	}
	ts := "[" + Stamp(l, c.opts.Use24Hour) + "] "
	text := l.Text
	if c.opts.Colors {
		ts = color.White.Render(ts)
		text = colorFor(l).Render(text)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, ts+text)
}

// Stamp formats the time of l the way the console and the chat log show it.
func Stamp(l core.Line, use24Hour bool) string {
	if use24Hour {
		return l.Time.Format(layout24h)
	}
	return l.Time.Format(layout12h)
}

func colorFor(l core.Line) color.Color {
	if l.Level >= zerolog.ErrorLevel {
		return color.LightRed
	}
	switch l.Kind {
	case core.KindSession:
		return color.LightGreen
	case core.KindJoin, core.KindLeave:
		return color.Cyan
	case core.KindChat:
		return color.LightGreen
	case core.KindPrivate:
		return color.Green
	case core.KindModeration:
		return color.LightRed
	case core.KindMedia:
		return color.LightMagenta
	case core.KindInfo:
		return color.LightCyan
	default:
		return color.White
	}
}
