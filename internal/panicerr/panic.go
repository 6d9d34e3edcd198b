package panicerr

import (
	"errors"
	"fmt"
)

// Error is a recovered panic: the value passed to panic and the stack of the
// panicking goroutine.
type Error struct {
	Name  string
	Value interface{}
	Stack []byte
}

func (pe *Error) Error() string {
	return fmt.Sprint(pe)
}

// Format prints the stack only under %+v.
func (pe *Error) Format(f fmt.State, c rune) {
	if pe.Name == "" {
		fmt.Fprintf(f, "panicked: %v", pe.Value)
	} else {
		fmt.Fprintf(f, "%v panicked: %v", pe.Name, pe.Value)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\npanic stack: %s", pe.Stack)
	}
}

// Unwrap returns the panic value if it was an error.
func (pe *Error) Unwrap() error {
	err, _ := pe.Value.(error)
	return err
}

// IsPanic returns true if err indicates a recovered panic.
func IsPanic(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}

// PanicStack returns a non-empty stacktrace string if err is a recovered
// panic.
func PanicStack(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return string(pe.Stack)
	}
	return ""
}
