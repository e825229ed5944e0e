// Package logger defines the structured logging contract used by the
// request execution layer and provides a zerolog-backed implementation.
package logger

import "time"

// Logger is the contract for structured logging throughout the client.
type Logger interface {
	Debug() LogEvent
	Info() LogEvent
	Warn() LogEvent
	Error() LogEvent
}

// LogEvent is a structured log event that is built with fields and
// finished with Msg or Msgf.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Int64(key string, value int64) LogEvent
	Dur(key string, d time.Duration) LogEvent
}
