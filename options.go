package main

import (
	"io"

	"github.com/jcorbin/fobj/internal/fobj"
)

// ShellOption configures a new Shell.
type ShellOption interface{ apply(sh *Shell) }

// ShellOptions combines any number of options into one, applied in order.
func ShellOptions(opts ...ShellOption) ShellOption {
	var all shellOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case shellOptions:
			all = append(all, impl...)
		default:
			all = append(all, opt)
		}
	}
	if len(all) == 1 {
		return all[0]
	}
	return all
}

// DefaultMaxDepth bounds nested word calls unless WithMaxDepth says otherwise.
const DefaultMaxDepth = 256

var defaultShellOptions = ShellOptions(
	withOutput(io.Discard),
	withErrorLog(nil),
	maxDepthOption(DefaultMaxDepth),
)

type shellOptions []ShellOption

func (opts shellOptions) apply(sh *Shell) {
	for _, opt := range opts {
		opt.apply(sh)
	}
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type errorLogOption func(mess string, args ...interface{})
type logfnOption func(mess string, args ...interface{})
type envOption struct{ fobj.EnvOption }
type maxDepthOption int

func withInput(r io.Reader) inputOption   { return inputOption{r} }
func withOutput(w io.Writer) outputOption { return outputOption{w} }

func withErrorLog(logfn func(mess string, args ...interface{})) errorLogOption {
	return errorLogOption(logfn)
}

func (i inputOption) apply(sh *Shell) {
	sh.in.Queue = append(sh.in.Queue, i.Reader)
}

func (o outputOption) apply(sh *Shell) {
	if sh.out != nil {
		sh.out.Flush()
	}
	sh.out = newWriteFlusher(o.Writer)
}

func (logfn errorLogOption) apply(sh *Shell) {
	if logfn == nil {
		logfn = func(string, ...interface{}) {}
	}
	sh.errorf = logfn
}

func (logfn logfnOption) apply(sh *Shell) {
	sh.logfn = logfn
	sh.envOpts = append(sh.envOpts, fobj.WithLogf(func(mess string, args ...interface{}) {
		logfn("env "+mess, args...)
	}))
}

func (o envOption) apply(sh *Shell) { sh.envOpts = append(sh.envOpts, o.EnvOption) }

func (n maxDepthOption) apply(sh *Shell) { sh.maxDepth = int(n) }
