// Package message defines the diagnostic sink and error taxonomy shared
// by every package in the field evaluation engine. It holds no
// package-level sink: a sink is injected through a region.
package message

import (
	"fmt"
	"os"
)

// Code is one of the error kinds the engine's API surface returns.
type Code int

// The error kinds named by the engine's contract.
const (
	// OK is not normally wrapped in an Error; it exists so Code has a
	// zero value that reads as "no error".
	OK Code = iota
	Argument
	AlreadyExists
	Memory
	NotFound
	InUse
	General
)

// String names a Code the way the engine's diagnostics print it.
func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case Argument:
		return "ARGUMENT"
	case AlreadyExists:
		return "ALREADY_EXISTS"
	case Memory:
		return "MEMORY"
	case NotFound:
		return "NOT_FOUND"
	case InUse:
		return "IN_USE"
	case General:
		return "GENERAL"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Error is the error value every recoverable contract violation in the
// engine returns; it carries the taxonomy code alongside the usual
// message so callers needing a stable switch can read .Code while
// everyone else just reads .Error().
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// New builds an *Error with the given code and formatted message.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the Code from err, returning OK for nil and General
// for any error that isn't one of ours.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return General
}

// Level is the severity of a diagnostic sent to a Sink.
type Level int

// Severities a Sink may receive.
const (
	Info Level = iota
	Warning
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Sink receives diagnostic messages. It is injected into a region
// rather than being a package-level global, per the engine's "no
// globals" design rule.
type Sink interface {
	Log(level Level, format string, args ...interface{})
}

// WriterSink writes diagnostics as prefixed lines, following the
// teacher's convention of prefixed fmt.Fprintf diagnostics
// (core/program.go's "Debug: ..." lines).
type WriterSink struct {
	w      *os.File
	prefix string
}

// NewWriterSink builds a Sink that writes to w, tagging every line with
// prefix (empty is fine).
func NewWriterSink(w *os.File, prefix string) *WriterSink {
	return &WriterSink{w: w, prefix: prefix}
}

// DefaultSink is the stdout sink used when a region is not given one
// explicitly.
func DefaultSink() *WriterSink {
	return NewWriterSink(os.Stdout, "zincfield")
}

// Log implements Sink.
func (s *WriterSink) Log(level Level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if s.prefix != "" {
		fmt.Fprintf(s.w, "%s [%s] %s\n", s.prefix, level, msg)
		return
	}
	fmt.Fprintf(s.w, "[%s] %s\n", level, msg)
}
