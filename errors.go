package riff

import (
	stderrors "errors"

	"github.com/dropbox/godropbox/errors"
)

// Kind classifies every fault surfaced by this package and its subpackages.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindCorruptHeader
	KindSchemaError
	KindUnknownColumn
	KindTypeMismatch
	KindIOError
	KindStateViolation
)

func (k Kind) String() string {
	switch k {
	case KindCorruptHeader:
		return "CorruptHeader"
	case KindSchemaError:
		return "SchemaError"
	case KindUnknownColumn:
		return "UnknownColumn"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindIOError:
		return "IOError"
	case KindStateViolation:
		return "StateViolation"
	default:
		return "Unknown"
	}
}

// Error is a fault with a classification; the underlying cause carries the
// message and stack.  Error() renders the kind and the message only.
type Error struct {
	kind  Kind
	cause error
}

func (e *Error) Error() string {
	return e.kind.String() + ": " + errors.GetMessage(e.cause)
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewCorruptHeaderf(format string, args ...interface{}) error {
	return &Error{KindCorruptHeader, errors.Newf(format, args...)}
}

func NewSchemaErrorf(format string, args ...interface{}) error {
	return &Error{KindSchemaError, errors.Newf(format, args...)}
}

func NewUnknownColumnf(format string, args ...interface{}) error {
	return &Error{KindUnknownColumn, errors.Newf(format, args...)}
}

func NewTypeMismatchf(format string, args ...interface{}) error {
	return &Error{KindTypeMismatch, errors.Newf(format, args...)}
}

func NewStateViolationf(format string, args ...interface{}) error {
	return &Error{KindStateViolation, errors.Newf(format, args...)}
}

// WrapIOError wraps an underlying filesystem failure, keeping the cause.
func WrapIOError(err error, format string, args ...interface{}) error {
	return &Error{KindIOError, errors.Wrapf(err, format, args...)}
}

// KindOf returns the classification of err, or KindUnknown for errors that
// did not originate here.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

func IsCorruptHeader(err error) bool  { return KindOf(err) == KindCorruptHeader }
func IsSchemaError(err error) bool    { return KindOf(err) == KindSchemaError }
func IsUnknownColumn(err error) bool  { return KindOf(err) == KindUnknownColumn }
func IsTypeMismatch(err error) bool   { return KindOf(err) == KindTypeMismatch }
func IsIOError(err error) bool        { return KindOf(err) == KindIOError }
func IsStateViolation(err error) bool { return KindOf(err) == KindStateViolation }
