package surface

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

var (
	// ErrNoSRGBFormat is returned when the surface supports no sRGB color format.
	ErrNoSRGBFormat = errors.New("surface: no sRGB surface format available")

	// ErrFrameInProgress is returned by BeginFrame when the previous frame has not been ended.
	ErrFrameInProgress = errors.New("surface: previous frame not yet presented")
)

// ErrorKind is the closed set of surface failure categories the frame loop reacts to.
type ErrorKind int

const (
	// ErrorKindOther is any failure not covered below; the frame is dropped.
	ErrorKindOther ErrorKind = iota

	// ErrorKindOutdated means the surface no longer matches the window and must be reconfigured.
	ErrorKindOutdated

	// ErrorKindLost means the surface was lost and must be reconfigured.
	ErrorKindLost

	// ErrorKindTimeout means acquiring the next image timed out.
	ErrorKindTimeout

	// ErrorKindOutOfMemory means the device ran out of memory.
	ErrorKindOutOfMemory
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindOutdated:
		return "outdated"
	case ErrorKindLost:
		return "lost"
	case ErrorKindTimeout:
		return "timeout"
	case ErrorKindOutOfMemory:
		return "out of memory"
	default:
		return "other"
	}
}

// Recoverable reports whether reconfiguring the surface recovers from the error.
func (k ErrorKind) Recoverable() bool {
	return k == ErrorKindOutdated || k == ErrorKindLost
}

// Fatal reports whether the frame loop must stop.
func (k ErrorKind) Fatal() bool {
	return k == ErrorKindTimeout || k == ErrorKindOutOfMemory
}

// Error is a classified surface failure.
type Error struct {
	Kind ErrorKind
	// Op is the surface operation that failed, e.g. "acquire" or "present".
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("surface %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyError maps a backend error onto an ErrorKind. An *Error anywhere in the chain
// keeps its kind; anything else is classified by the status words in its message.
// Timeout and out of memory win over every other word. A lost device is not a lost
// surface and classifies as ErrorKindOther.
//
// Parameters:
//   - err: the backend error
//
// Returns:
//   - ErrorKind: the classification, ErrorKindOther for nil or unknown errors
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorKindOther
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}

	msg := strings.ToLower(err.Error())
	words := strings.FieldsFunc(msg, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	switch {
	case slices.Contains(words, "timeout"), strings.Contains(msg, "timed out"):
		return ErrorKindTimeout
	case strings.Contains(msg, "out of memory"), slices.Contains(words, "outofmemory"):
		return ErrorKindOutOfMemory
	case slices.Contains(words, "device"):
		return ErrorKindOther
	case slices.Contains(words, "outdated"):
		return ErrorKindOutdated
	case slices.Contains(words, "lost"):
		return ErrorKindLost
	default:
		return ErrorKindOther
	}
}
