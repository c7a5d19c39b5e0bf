// Package gamelog provides the logging sink used by the overlay subsystem.
// Every internal catch path reports through here; the sink itself never
// panics and never returns an error, so callers can log from inside render
// callbacks without extra handling.
package gamelog

import (
	"fmt"
	"sort"
	"time"

	"github.com/gookit/color"
)

// Level classifies a log entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Entry is a single log record handed to the active sink.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Context map[string]any
}

// Sink consumes log entries. A sink must not panic; Log guards against it
// anyway so a misbehaving sink cannot take down a render batch.
type Sink func(Entry)

var (
	colorDebug color.Style
	colorInfo  color.Style
	colorWarn  color.Style
	colorError color.Style

	activeSink Sink
	minLevel   Level
)

// InitColors initializes the color styles for console output
func InitColors() {
	colorDebug = color.Style{color.FgGray}
	colorInfo = color.Style{color.FgCyan}
	colorWarn = color.Style{color.FgYellow, color.OpBold}
	colorError = color.Style{color.FgRed, color.OpBold}
}

// SetSink replaces the active sink and returns the previous one.
// Passing nil restores the default console sink.
func SetSink(s Sink) Sink {
	prev := activeSink
	activeSink = s
	return prev
}

// SetMinLevel discards entries below the given level.
func SetMinLevel(l Level) {
	minLevel = l
}

// LevelName returns a human-friendly name for a level.
func LevelName(l Level) string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Log records a message with optional context. It never panics.
func Log(l Level, msg string, ctx map[string]any) {
	defer func() {
		// A broken sink is not allowed to abort the caller.
		_ = recover()
	}()

	if l < minLevel {
		return
	}

	e := Entry{Time: time.Now(), Level: l, Message: msg, Context: ctx}
	if activeSink != nil {
		activeSink(e)
		return
	}
	consoleSink(e)
}

// Logf records a formatted message without context.
func Logf(l Level, format string, a ...any) {
	Log(l, fmt.Sprintf(format, a...), nil)
}

// consoleSink is the default sink: one styled line per entry.
func consoleSink(e Entry) {
	style := levelStyle(e.Level)
	line := fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05.000"), LevelName(e.Level), e.Message)

	if len(e.Context) > 0 {
		// Sort keys so repeated log lines don't shuffle their context.
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line += fmt.Sprintf(" %s=%v", k, e.Context[k])
		}
	}

	if style != nil {
		style.Println(line)
	} else {
		fmt.Println(line)
	}
}

func levelStyle(l Level) color.Style {
	switch l {
	case LevelDebug:
		return colorDebug
	case LevelInfo:
		return colorInfo
	case LevelWarn:
		return colorWarn
	case LevelError:
		return colorError
	default:
		return nil
	}
}
