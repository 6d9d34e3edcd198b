package logio

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func Test_Logger(t *testing.T) {
	var out strings.Builder
	log := NewLogger(&out, false)

	log.Printf("TRACE", "gc reclaimed %v", 3)
	log.Printf("", "bare")
	assert.Equal(t, 0, log.ExitCode())
	log.ErrorIf(nil)
	assert.Equal(t, 0, log.ExitCode(), "expected nil error ignored")

	log.ErrorIf(errors.New("boom"))
	log.Leveledf("WARN")("careful\n")
	assert.Equal(t, 1, log.ExitCode())
	assert.Equal(t, strings.Join([]string{
		"TRACE: gc reclaimed 3",
		"bare",
		"ERROR: boom",
		"WARN: careful",
		"",
	}, "\n"), out.String())
}

func Test_Logger_color(t *testing.T) {
	// as when output is not a terminal
	defer func(prior bool) { color.NoColor = prior }(color.NoColor)
	color.NoColor = true

	var out strings.Builder
	log := NewLogger(&out, true)
	log.Errorf("F102 %v", "bad index")
	log.Printf("INFO", "plain")

	want := color.New(color.FgRed, color.Bold)
	want.EnableColor()
	assert.Equal(t, want.Sprint("ERROR")+": F102 bad index\nINFO: plain\n", out.String())
	assert.Equal(t, "\x1b[31;1mERROR\x1b[0;22m: F102 bad index\nINFO: plain\n", out.String(),
		"expected the level label reset before the message")
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, fmt.Errorf("disk full") }

func Test_Logger_failedOutput(t *testing.T) {
	log := NewLogger(failWriter{}, false)
	log.Printf("INFO", "lost")
	assert.Equal(t, 2, log.ExitCode(), "expected output failure remembered")
	log.Errorf("also lost")
	assert.Equal(t, 2, log.ExitCode())
}

func Test_Writer(t *testing.T) {
	var got []string
	lw := &Writer{Prefix: "out: ", Logf: func(mess string, args ...interface{}) {
		got = append(got, fmt.Sprintf(mess, args...))
	}}
	fmt.Fprint(lw, "one\ntw")
	fmt.Fprint(lw, "o\nthree")
	assert.Equal(t, []string{"out: one", "out: two"}, got)
	assert.NoError(t, lw.Close())
	assert.Equal(t, []string{"out: one", "out: two", "out: three"}, got)
}
