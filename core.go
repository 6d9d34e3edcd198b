package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/fobj/internal/fileinput"
	"github.com/jcorbin/fobj/internal/fobj"
)

// Shell is a line oriented interpreter over one object environment. Every
// value it manipulates lives in the environment; the shell itself keeps only
// Go-side control state such as the input position.
type Shell struct {
	logging
	env     *fobj.Env
	envOpts []fobj.EnvOption

	in     fileinput.Input
	out    writeFlusher
	errorf func(mess string, args ...interface{})

	maxDepth int
	naming   bool // the next token names a new definition
	failures int
}

// Close flushes output and closes any unread input streams.
func (sh *Shell) Close() error {
	err := sh.in.Close()
	if ferr := sh.out.Flush(); err == nil {
		err = ferr
	}
	return err
}

// Dump writes allocator statistics and the data stack to w.
func (sh *Shell) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "stats: %v\n", sh.env.Stats()); err != nil {
		return err
	}
	return sh.env.Print(w, sh.env.Root(fobj.RootDataStack))
}

// fail reports a statement error at the current input location, then drops
// all interpreter state the statement may have left behind.
func (sh *Shell) fail(err error) {
	sh.failures++
	sh.errorf("%v: %v", sh.in.Loc, err)
	sh.logf("!", "reset after %v", err)

	env := sh.env
	for _, root := range []fobj.Root{fobj.RootDataStack, fobj.RootReturnStack} {
		if err := env.ClearStack(env.Root(root)); err != nil {
			panic(err)
		}
	}
	for _, root := range []fobj.Root{fobj.RootCompiling, fobj.RootRunning} {
		if err := env.SetRoot(root, fobj.Nil); err != nil {
			panic(err)
		}
	}
	sh.naming = false

	// an exhausted pool is reclaimed at once
	if fobj.CodeOf(err).Fatal() {
		n := env.Collect()
		sh.logf("gc", "reclaimed %v after %v", n, fobj.CodeOf(err))
	}
}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
