package panicerr

import "runtime/debug"

// Recover calls f, returning any panic it raises as an *Error named name.
func Recover(name string, f func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = &Error{Name: name, Value: e, Stack: debug.Stack()}
		}
	}()
	return f()
}
