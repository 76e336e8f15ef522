// Package docerr carries the error kinds surfaced by the documentation pipeline.
//
// Absence is never an error here: missing verb files, missing fragments,
// missing descriptors and paths escaping the REST root are reported through
// ok-style return values. Only failures that abort a resource use this package.
package docerr

import (
	"errors"
	"fmt"
)

// Kind defines the category of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindParse
	KindMalformed
	KindUsage
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindMalformed:
		return "malformed"
	case KindUsage:
		return "usage"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a pipeline failure tied to the file that caused it.
type Error struct {
	Kind       Kind
	Message    string
	Path       string
	Underlying error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// New creates a new Error of the specified kind.
func New(kind Kind, path, msg string) error {
	return &Error{Kind: kind, Message: msg, Path: path}
}

// Errorf creates a new Error with a formatted message.
func Errorf(kind Kind, path, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Path: path}
}

// Wrap wraps err as a new Error of the specified kind. A nil err stays nil.
func Wrap(err error, kind Kind, path, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Path: path, Underlying: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, kind Kind, path, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Path: path, Underlying: err}
}

// GetKind returns the Kind of the outermost *Error in err's chain, or
// KindUnknown when there is none.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// PathOf returns the file path recorded on err, if any.
func PathOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}
