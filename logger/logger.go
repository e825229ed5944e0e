package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger wraps zerolog.Logger to implement the Logger interface.
type ZeroLogger struct {
	zlog *zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

// New creates a ZeroLogger writing to stdout at the given level.
// An unparseable level falls back to info. If pretty is true, output is
// formatted for human readability.
func New(level string, pretty bool) *ZeroLogger {
	return NewWithOutput(level, pretty, os.Stdout)
}

// NewWithOutput creates a ZeroLogger writing to the given writer.
func NewWithOutput(level string, pretty bool, out io.Writer) *ZeroLogger {
	var l zerolog.Logger

	if pretty {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		l = zerolog.New(out).With().Timestamp().Logger()
	}

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l}
}

// Debug creates a debug-level log event
func (l *ZeroLogger) Debug() LogEvent {
	return &logEventAdapter{event: l.zlog.Debug()}
}

// Info creates an info-level log event
func (l *ZeroLogger) Info() LogEvent {
	return &logEventAdapter{event: l.zlog.Info()}
}

// Warn creates a warning-level log event
func (l *ZeroLogger) Warn() LogEvent {
	return &logEventAdapter{event: l.zlog.Warn()}
}

// Error creates an error-level log event
func (l *ZeroLogger) Error() LogEvent {
	return &logEventAdapter{event: l.zlog.Error()}
}

// logEventAdapter adapts zerolog events to the LogEvent interface
type logEventAdapter struct {
	event *zerolog.Event
}

func (a *logEventAdapter) Msg(msg string) {
	a.event.Msg(msg)
}

func (a *logEventAdapter) Msgf(format string, args ...any) {
	a.event.Msgf(format, args...)
}

func (a *logEventAdapter) Err(err error) LogEvent {
	return &logEventAdapter{event: a.event.Err(err)}
}

func (a *logEventAdapter) Str(key, value string) LogEvent {
	return &logEventAdapter{event: a.event.Str(key, value)}
}

func (a *logEventAdapter) Int(key string, value int) LogEvent {
	return &logEventAdapter{event: a.event.Int(key, value)}
}

func (a *logEventAdapter) Int64(key string, value int64) LogEvent {
	return &logEventAdapter{event: a.event.Int64(key, value)}
}

func (a *logEventAdapter) Dur(key string, d time.Duration) LogEvent {
	return &logEventAdapter{event: a.event.Dur(key, d)}
}
