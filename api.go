package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jcorbin/fobj/internal/fobj"
	"github.com/jcorbin/fobj/internal/panicerr"
)

// New creates a Shell and its object environment.
func New(opts ...ShellOption) (*Shell, error) {
	var sh Shell
	ShellOptions(defaultShellOptions, ShellOptions(opts...)).apply(&sh)
	env, err := fobj.New(sh.envOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create environment: %w", err)
	}
	sh.env = env
	return &sh, nil
}

// Run interprets every input line until input runs out, ctx is done, or an
// unrecoverable error occurs. Errors within a statement are reported through
// the error log and do not stop the run; see Failures.
func (sh *Shell) Run(ctx context.Context) error {
	err := panicerr.Recover("shell", func() error {
		return sh.run(ctx)
	})
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if ferr := sh.out.Flush(); err == nil {
		err = ferr
	}
	return err
}

// Failures returns how many statements have failed.
func (sh *Shell) Failures() int { return sh.failures }

// Env returns the shell's object environment.
func (sh *Shell) Env() *fobj.Env { return sh.env }

// WithInput queues r to be read after any prior input.
func WithInput(r io.Reader) ShellOption { return withInput(r) }

// WithOutput directs printed values to w.
func WithOutput(w io.Writer) ShellOption { return withOutput(w) }

// WithErrorLog reports failed statements through logfn.
func WithErrorLog(logfn func(mess string, args ...interface{})) ShellOption {
	return withErrorLog(logfn)
}

// WithLogf installs trace logging for both the shell and its environment.
func WithLogf(logfn func(mess string, args ...interface{})) ShellOption { return logfnOption(logfn) }

// WithEnvOptions passes options through to the object environment.
func WithEnvOptions(opts ...fobj.EnvOption) ShellOption {
	return envOption{fobj.EnvOptions(opts...)}
}

// WithMaxDepth bounds nested word calls.
func WithMaxDepth(n int) ShellOption { return maxDepthOption(n) }
