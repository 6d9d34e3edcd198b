package main

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jcorbin/fobj/internal/fobj"
)

type builtin struct {
	name        string
	immediate   bool // runs while compiling
	compileOnly bool
	fn          func(sh *Shell) error
}

var builtins = make(map[string]*builtin)

func init() {
	for _, b := range []builtin{
		// output
		{name: ".", fn: printTop},
		{name: ".s", fn: printStack},
		{name: "stats", fn: printStats},
		{name: "words", fn: printWords},

		// stack shuffling
		{name: "dup", fn: shuffle(1, 0, 0)},
		{name: "drop", fn: shuffle(1)},
		{name: "swap", fn: shuffle(2, 1, 0)},
		{name: "over", fn: shuffle(2, 0, 1, 0)},

		// arithmetic
		{name: "+", fn: binary(func(env *fobj.Env, a, b fobj.Ref) (fobj.Ref, error) { return env.Add(a, b) })},
		{name: "-", fn: binary(func(env *fobj.Env, a, b fobj.Ref) (fobj.Ref, error) { return env.Sub(a, b) })},
		{name: "cmp", fn: binary(func(env *fobj.Env, a, b fobj.Ref) (fobj.Ref, error) {
			return env.NewNumber(int64(env.Compare(a, b)))
		})},

		// containers
		{name: "array", fn: alloc((*fobj.Env).NewArray)},
		{name: "stack", fn: alloc((*fobj.Env).NewStack)},
		{name: "table", fn: alloc((*fobj.Env).NewTable)},
		{name: "hash", fn: alloc((*fobj.Env).NewHash)},
		{name: "!", fn: store},
		{name: "@", fn: fetch},
		{name: "&", fn: binary((*fobj.Env).NewIndex)},
		{name: "ref!", fn: refStore},
		{name: "ref@", fn: refFetch},
		{name: "len", fn: length},

		// memory
		{name: "gc", fn: collect},

		// compilation
		{name: ";", immediate: true, compileOnly: true, fn: (*Shell).finish},
		{name: "if", immediate: true, compileOnly: true, fn: compileIf},
		{name: "else", immediate: true, compileOnly: true, fn: compileElse},
		{name: "then", immediate: true, compileOnly: true, fn: compileThen},
		{name: "begin", immediate: true, compileOnly: true, fn: compileBegin},
		{name: "until", immediate: true, compileOnly: true, fn: compileUntil},
	} {
		b := b
		builtins[b.name] = &b
	}
}

func (sh *Shell) write(s string) error {
	if s == "" || !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(sh.out, s)
	return err
}

// ( x -- )
func printTop(sh *Shell) error {
	ref, err := sh.pop()
	if err != nil {
		return err
	}
	return sh.write(sh.env.Sprint(ref))
}

// ( -- ) prints the data stack, top first
func printStack(sh *Shell) error {
	var sb strings.Builder
	if err := sh.env.Print(&sb, sh.env.Root(fobj.RootDataStack)); err != nil {
		return err
	}
	_, err := io.WriteString(sh.out, sb.String())
	return err
}

func printStats(sh *Shell) error {
	return sh.write(sh.env.Stats().String())
}

// wordsWidth is the display width at which the words listing wraps.
const wordsWidth = 80

func printWords(sh *Shell) error {
	tab, err := fobj.Deref[*fobj.Table](sh.env, sh.env.Root(fobj.RootWords))
	if err != nil {
		return err
	}
	var sb strings.Builder
	col := 0
	for _, name := range tab.Names() {
		w := runewidth.StringWidth(name)
		if col > 0 && col+1+w > wordsWidth {
			sb.WriteByte('\n')
			col = 0
		} else if col > 0 {
			sb.WriteByte(' ')
			col++
		}
		sb.WriteString(name)
		col += w
	}
	return sh.write(sb.String())
}

// shuffle pops n values and pushes them back in the given order, each index
// naming one of the popped values in push order.
func shuffle(n int, order ...int) func(sh *Shell) error {
	return func(sh *Shell) error {
		vals, err := sh.popN(n)
		if err != nil {
			return err
		}
		for _, i := range order {
			if err := sh.push(vals[i]); err != nil {
				return err
			}
		}
		return nil
	}
}

// ( a b -- f(a, b) )
func binary(f func(env *fobj.Env, a, b fobj.Ref) (fobj.Ref, error)) func(sh *Shell) error {
	return func(sh *Shell) error {
		vals, err := sh.popN(2)
		if err != nil {
			return err
		}
		ref, err := f(sh.env, vals[0], vals[1])
		if err != nil {
			return err
		}
		return sh.push(ref)
	}
}

// ( -- container )
func alloc(f func(env *fobj.Env) (fobj.Ref, error)) func(sh *Shell) error {
	return func(sh *Shell) error {
		ref, err := f(sh.env)
		if err != nil {
			return err
		}
		return sh.push(ref)
	}
}

// ( value addr index -- )
func store(sh *Shell) error {
	vals, err := sh.popN(3)
	if err != nil {
		return err
	}
	return sh.env.Store(vals[1], vals[2], vals[0])
}

// ( addr index -- value )
func fetch(sh *Shell) error {
	vals, err := sh.popN(2)
	if err != nil {
		return err
	}
	ref, err := sh.env.Fetch(vals[0], vals[1])
	if err != nil {
		return err
	}
	return sh.push(ref)
}

// ( value ref -- )
func refStore(sh *Shell) error {
	vals, err := sh.popN(2)
	if err != nil {
		return err
	}
	return sh.env.ResolveStore(vals[1], vals[0])
}

// ( ref -- value )
func refFetch(sh *Shell) error {
	ref, err := sh.pop()
	if err != nil {
		return err
	}
	val, err := sh.env.ResolveFetch(ref)
	if err != nil {
		return err
	}
	return sh.push(val)
}

// ( array -- n )
func length(sh *Shell) error {
	ref, err := sh.pop()
	if err != nil {
		return err
	}
	n, err := sh.env.Len(ref)
	if err != nil {
		return err
	}
	return sh.pushNumber(int64(n))
}

func collect(sh *Shell) error {
	n := sh.env.Collect()
	sh.logf("gc", "reclaimed %v", n)
	return nil
}
