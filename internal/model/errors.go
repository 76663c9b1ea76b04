package model

import "fmt"

// TimeoutError is returned whenever a network or streaming-read deadline
// expires, regardless of which transport hit it.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: timed out", e.Op)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Timeout implements the net.Error convention.
func (e *TimeoutError) Timeout() bool { return true }

// InvalidInputError reports malformed caller input: a bad coordinate
// column, an unparsable value, or an unsupported parameter combination.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string { return "invalid input: " + e.Msg }

// Invalidf builds an InvalidInputError from a format string.
func Invalidf(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a lookup miss for names that are allowed to be
// unknown (field-help hints, template kinds).
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return "not found: " + e.Name }
