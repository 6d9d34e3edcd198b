package fobj

import (
	"errors"
	"fmt"
)

// Code identifies the kind of a reported error.
type Code int

// Stable error codes; do not renumber.
const (
	CodeUnsupported  Code = 101 // F101: operator not supported by type
	CodeBadIndex     Code = 102 // F102: index of the wrong type or sign
	CodeTypeMismatch Code = 103 // F103: operand of the wrong type
	CodeStaleRef     Code = 104 // F104: reference to a reclaimed slot
	CodeNilRef       Code = 105 // F105: absent reference where one is required
	CodeUnderflow    Code = 106 // F106: pop from an empty stack
	CodeLimit        Code = 107 // F107: container or depth limit exceeded
	CodeSyntax       Code = 108 // F108: malformed source or misplaced control word
	CodeUndefined    Code = 109 // F109: token is neither a word nor a literal

	CodeExhausted Code = 201 // F201: no free slot even after collection
)

// String returns the code as "F101" format.
func (c Code) String() string {
	return fmt.Sprintf("F%d", int(c))
}

// Fatal returns true for resource errors, which abort the current operation
// regardless of what the caller was doing.
func (c Code) Fatal() bool { return c >= CodeExhausted }

// Error is the single reporting type for usage and resource errors.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v %v", e.Code, e.Message)
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Code == e.Code
}

// ErrExhausted is returned, possibly with a more specific message, when
// allocation finds no free slot even after a collection pass.
var ErrExhausted = &Error{Code: CodeExhausted, Message: "out of memory allocating a new object"}

// Errorf creates a new *Error with a formatted message.
func Errorf(code Code, mess string, args ...interface{}) *Error {
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	return &Error{Code: code, Message: mess}
}

// Check returns a formatted *Error unless cond holds.
func Check(cond bool, code Code, mess string, args ...interface{}) error {
	if cond {
		return nil
	}
	return Errorf(code, mess, args...)
}

// CodeOf returns the code of any *Error within err, or 0.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// InvariantError is the panic value used for internal defects such as
// reclaiming a free slot. It is never recovered inside this package.
type InvariantError struct{ Message string }

func (ie InvariantError) Error() string { return "fobj invariant violated: " + ie.Message }

func invariant(mess string, args ...interface{}) {
	panic(InvariantError{fmt.Sprintf(mess, args...)})
}
