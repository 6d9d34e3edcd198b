package logio

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Logger implements leveled line logging to an output stream, remembering
// whether any error was logged so that a command can exit non-zero.
type Logger struct {
	mu       sync.Mutex
	output   io.Writer
	colors   map[string]*color.Color
	buf      bytes.Buffer
	exitCode int
}

// NewLogger creates a Logger writing to out. With colorize set, level labels
// are highlighted.
func NewLogger(out io.Writer, colorize bool) *Logger {
	log := &Logger{output: out}
	if colorize {
		log.colors = map[string]*color.Color{
			"ERROR": color.New(color.FgRed, color.Bold),
			"WARN":  color.New(color.FgYellow),
			"TRACE": color.New(color.Faint),
		}
		for _, c := range log.colors {
			c.EnableColor()
		}
	}
	return log
}

// ExitCode returns a code to pass to os.Exit: 1 if any error was logged, 2
// if the output stream itself failed, 0 otherwise.
func (log *Logger) ExitCode() int {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.exitCode
}

// Leveledf returns a printf-style function logging at level.
func (log *Logger) Leveledf(level string) func(mess string, args ...interface{}) {
	return func(mess string, args ...interface{}) { log.Printf(level, mess, args...) }
}

// ErrorIf logs any non-nil error through Errorf.
func (log *Logger) ErrorIf(err error) {
	if err != nil {
		log.Errorf("%+v", err)
	}
}

// Errorf is like Printf("ERROR", ...) but additionally marks the log failed.
func (log *Logger) Errorf(mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.exitCode == 0 {
		log.exitCode = 1
	}
	if err := log.printf("ERROR", mess, args...); err != nil {
		log.exitCode = 2
	}
}

// Printf writes one "level: message" line. A failing output stream is
// remembered for ExitCode.
func (log *Logger) Printf(level, mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if err := log.printf(level, mess, args...); err != nil {
		log.exitCode = 2
	}
}

func (log *Logger) printf(level, mess string, args ...interface{}) error {
	if level != "" {
		if c := log.colors[level]; c != nil {
			log.buf.WriteString(c.Sprint(level))
		} else {
			log.buf.WriteString(level)
		}
		log.buf.WriteString(": ")
	}
	if len(args) > 0 {
		fmt.Fprintf(&log.buf, mess, args...)
	} else {
		log.buf.WriteString(mess)
	}
	if b := log.buf.Bytes(); len(b) > 0 && b[len(b)-1] != '\n' {
		log.buf.WriteByte('\n')
	}
	_, err := log.buf.WriteTo(log.output)
	log.buf.Reset()
	return err
}
