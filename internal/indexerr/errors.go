// Package indexerr defines the typed errors returned by the indexer packages.
package indexerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to branch on failure type.
type Kind string

const (
	KindIO               Kind = "io"
	KindCodec            Kind = "codec"
	KindInvalidPath      Kind = "invalid_path"
	KindInvalidExtension Kind = "invalid_extension"
	KindProcessing       Kind = "processing"
	KindSerialization    Kind = "serialization"
)

// ErrLengthMismatch is returned when paired path/average slices differ in length.
var ErrLengthMismatch = errors.New("paths and averages length mismatch")

// Error carries the kind, the failing operation and, when known, the path.
type Error struct {
	Kind  Kind
	Op    string
	Path  string
	Cause error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s:%s]", e.Kind, e.Op)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an error without an underlying cause.
func New(kind Kind, op, path string) error {
	return &Error{Kind: kind, Op: op, Path: path}
}

// Wrap attaches kind, op and path to err. A nil err yields nil, and an err
// that already carries a Kind is returned unchanged.
func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return err
	}

	return &Error{Kind: kind, Op: op, Path: path, Cause: err}
}

// KindOf returns the Kind of the first typed error in the chain, or "" if none.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ""
}

// IsKind reports whether the first typed error in the chain has the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
