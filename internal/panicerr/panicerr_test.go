package panicerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type invariantError struct{ mess string }

func (ie invariantError) Error() string { return ie.mess }

func Test_Recover(t *testing.T) {
	for _, tc := range []struct {
		name    string
		f       func() error
		err     string
		isPanic bool
	}{
		{"ok", func() error { return nil }, "", false},
		{"error", func() error { return errors.New("fail") }, "fail", false},
		{"panic value", func() error { panic("oops") }, "test panicked: oops", true},
		{"panic error", func() error { panic(invariantError{"broken"}) }, "test panicked: broken", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := Recover("test", tc.f)
			if tc.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.err)
			assert.Equal(t, tc.isPanic, IsPanic(err))
			if tc.isPanic {
				assert.NotEmpty(t, PanicStack(err), "expected a stack")
				assert.True(t, strings.Contains(fmt.Sprintf("%+v", err), "panic stack:"))
			} else {
				assert.Empty(t, PanicStack(err))
			}
		})
	}

	err := Recover("", func() error { panic(invariantError{"broken"}) })
	var ie invariantError
	assert.True(t, errors.As(err, &ie), "expected the panic value to unwrap")
	assert.Equal(t, "panicked: broken", err.Error())
}
