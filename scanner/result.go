package scanner

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is reported when the requested delimiters do not occur in
	// the remaining subject.
	ErrNotFound = errors.New("delimiter not found")

	// ErrInvalidArgument is reported when an operation is called with
	// arguments it cannot work with. It signals a bug in the caller rather
	// than a property of the input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Result is the outcome of a read operation.
type Result struct {
	Text    string // extracted content, empty when there is none
	Skipped string // delimiter consumed by the read, if any
	Err     error  // nil on success
}

// Failed reports whether the read did not succeed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// NotFound reports whether the read failed because a delimiter was missing.
func (r Result) NotFound() bool {
	return errors.Is(r.Err, ErrNotFound)
}

func ok(text, skipped string) Result {
	return Result{Text: text, Skipped: skipped}
}

func fail(err error) Result {
	return Result{Err: err}
}

func notFound(format string, args ...any) Result {
	return fail(fmt.Errorf(format+": %w", append(args, ErrNotFound)...))
}

func invalidArgument(format string, args ...any) Result {
	return fail(fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...))
}
