package anim

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind tags the stage of loading that failed.
type ErrorKind int

const (
	// IoError means the byte stream could not be opened or read.
	IoError ErrorKind = iota + 1
	// DecodeError means the GIF bitstream is malformed.
	DecodeError
	// CompositionError means the decoded frames could not be composited.
	CompositionError
)

func (k ErrorKind) String() string {
	switch k {
	case IoError:
		return "io error"
	case DecodeError:
		return "decode error"
	case CompositionError:
		return "composition error"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// LoadError is returned by every loading function in this package.
type LoadError struct {
	Kind ErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// Cause returns the underlying cause for github.com/pkg/errors.
func (e *LoadError) Cause() error { return e.Err }

// IsKind reports whether err is a LoadError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind == kind
	}
	return false
}

func loadError(kind ErrorKind, err error) error {
	return &LoadError{Kind: kind, Err: err}
}

func compositionErrorf(format string, args ...interface{}) error {
	return loadError(CompositionError, errors.Errorf(format, args...))
}
