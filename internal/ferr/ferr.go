// Package ferr defines the error taxonomy shared by every package in this
// module. Construction-time problems (bad config, unknown plugin choice)
// are returned as ordinary errors that a caller can match against with
// errors.Is/errors.As. Runtime invariant violations (shape mismatch, FFT
// state mismatch, non-finite amplitude) are not recoverable mid-run, so
// the packages that detect them panic with one of these types wrapped in;
// cmd/gotetra-ic is the only place that recovers them.
package ferr

import "fmt"

// Category distinguishes the taxonomy spec.md section 7 lists.
type Category int

const (
	Config Category = iota
	PluginSelection
	Shape
	State
	Numeric
	IO
	MPI
)

func (c Category) String() string {
	switch c {
	case Config:
		return "ConfigError"
	case PluginSelection:
		return "PluginSelectionError"
	case Shape:
		return "ShapeError"
	case State:
		return "StateError"
	case Numeric:
		return "NumericError"
	case IO:
		return "IOError"
	case MPI:
		return "MPIError"
	default:
		return "UnknownError"
	}
}

// Error is a categorized error. Config and PluginSelection errors are
// meant to be returned and handled at startup; the rest are meant to be
// panicked with and recovered exactly once, at the top of main.
type Error struct {
	Category Category
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(cat Category, format string, args ...interface{}) *Error {
	return &Error{Category: cat, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(cat Category, err error, format string, args ...interface{}) *Error {
	return &Error{Category: cat, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Fatal panics with a runtime-category error (Shape, State, Numeric, IO,
// or MPI). Construction-time errors should be returned, not passed here.
func Fatal(cat Category, format string, args ...interface{}) {
	panic(New(cat, format, args...))
}
