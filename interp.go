package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/jcorbin/fobj/internal/fobj"
)

func (sh *Shell) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := sh.in.ReadLine()
		if err != nil {
			return err
		}
		if err := sh.Exec(ctx, line); err != nil {
			return err
		}
	}
}

// Exec interprets one statement. Usage and exhaustion errors are reported
// and recovered from; only context and io errors are returned.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	err := sh.statement(ctx, line)
	if ferr := sh.out.Flush(); err == nil {
		err = ferr
	}
	var fe *fobj.Error
	if errors.As(err, &fe) {
		sh.fail(fe)
		return nil
	}
	return err
}

// statement runs line as one unit of work: the line is kept as the input
// root while its tokens run, and definitions it completes are merged into
// the words table once it is done, whether or not it failed.
func (sh *Shell) statement(ctx context.Context, line string) (rerr error) {
	env := sh.env
	defer func() {
		if err := env.Merge(env.Root(fobj.RootWords), env.Root(fobj.RootNewWords)); rerr == nil {
			rerr = err
		}
		if err := env.SetRoot(fobj.RootInput, fobj.Nil); rerr == nil {
			rerr = err
		}
		env.ClearHolds()
	}()

	src, err := env.NewString(line)
	if err != nil {
		return err
	}
	if err := env.SetRoot(fobj.RootInput, src); err != nil {
		return err
	}
	sh.logf(">", "%v %q", sh.in.Loc, line)

	toks, err := tokenize(line)
	if err != nil {
		return err
	}
	for _, tok := range toks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := env.Epoch(func() error { return sh.token(ctx, tok) }); err != nil {
			return err
		}
	}
	return nil
}

func (sh *Shell) compiling() bool { return !sh.env.Root(fobj.RootCompiling).IsNil() }

func (sh *Shell) token(ctx context.Context, tok token) error {
	switch {
	case sh.naming:
		return sh.define(tok)
	case tok == token{text: ":"}:
		if sh.compiling() {
			return fobj.Errorf(fobj.CodeSyntax, "nested definition")
		}
		sh.naming = true
		return nil
	case sh.compiling():
		return sh.compile(tok)
	default:
		return sh.interpret(ctx, tok)
	}
}

func (sh *Shell) interpret(ctx context.Context, tok token) error {
	if tok.quoted {
		return sh.pushString(tok.text)
	}
	if b := builtins[tok.text]; b != nil {
		if b.compileOnly {
			return fobj.Errorf(fobj.CodeSyntax, "%v is compile only", tok.text)
		}
		sh.logf("=", "%v", tok)
		return b.fn(sh)
	}
	word, err := sh.lookup(tok.text)
	if err != nil {
		return err
	}
	if !word.IsNil() {
		return sh.call(ctx, word)
	}
	val, err := sh.literal(tok.text)
	if err != nil {
		return err
	}
	return sh.push(val)
}

// lookup finds a word by name, preferring definitions made earlier in the
// current statement.
func (sh *Shell) lookup(name string) (fobj.Ref, error) {
	env := sh.env
	for _, root := range []fobj.Root{fobj.RootNewWords, fobj.RootWords} {
		if word, err := env.Lookup(env.Root(root), name); err != nil || !word.IsNil() {
			return word, err
		}
	}
	return fobj.Nil, nil
}

// literal allocates the value of a number or nil token.
func (sh *Shell) literal(text string) (fobj.Ref, error) {
	if text == "nil" {
		return fobj.Nil, nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return sh.env.NewNumber(n)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return sh.env.NewFloat(f)
	}
	return fobj.Nil, fobj.Errorf(fobj.CodeUndefined, "undefined word %v", text)
}

// call runs word with the running word saved on the return stack.
func (sh *Shell) call(ctx context.Context, word fobj.Ref) error {
	env := sh.env
	rs := env.Root(fobj.RootReturnStack)
	depth, err := env.Depth(rs)
	if err != nil {
		return err
	}
	if depth >= sh.maxDepth {
		return fobj.Errorf(fobj.CodeLimit, "return stack overflow calling %v", sh.nameOf(word))
	}
	if err := env.Push(rs, env.Root(fobj.RootRunning)); err != nil {
		return err
	}
	if err := env.SetRoot(fobj.RootRunning, word); err != nil {
		return err
	}
	sh.logf("+", "call %v depth %v", sh.nameOf(word), depth+1)

	if err := sh.exec(ctx, word); err != nil {
		return err
	}

	prev, err := env.Pop(rs)
	if err != nil {
		return err
	}
	return env.SetRoot(fobj.RootRunning, prev)
}

// exec runs the body of word. Each instruction is its own unit of work:
// between instructions every live value is on a stack or in a root.
func (sh *Shell) exec(ctx context.Context, word fobj.Ref) error {
	env := sh.env
	w, err := fobj.Deref[*fobj.Word](env, word)
	if err != nil {
		return err
	}
	body, err := fobj.Deref[*fobj.Array](env, w.Body())
	if err != nil {
		return err
	}

	for pc := 0; pc < body.Len(); {
		if err := ctx.Err(); err != nil {
			return err
		}
		inst := body.At(pc)
		pc++

		switch env.TypeOf(inst) {
		case fobj.TypeState:
			st, _ := fobj.Deref[*fobj.State](env, inst)
			switch st.Tag {
			case opLiteral:
				err = sh.push(body.At(pc))
				pc++
			case opJump:
				pc = st.Offset
			case opBranchFalse:
				err = env.Epoch(func() error {
					cond, err := sh.pop()
					if err == nil && !sh.truthy(cond) {
						pc = st.Offset
					}
					return err
				})
			default:
				err = fobj.Errorf(fobj.CodeSyntax, "invalid instruction tag %v in %v", st.Tag, sh.nameOf(word))
			}

		case fobj.TypeWord:
			err = sh.call(ctx, inst)

		case fobj.TypeString:
			name := env.Sprint(inst)
			b := builtins[name]
			if b == nil {
				return fobj.Errorf(fobj.CodeUndefined, "undefined builtin %v in %v", name, sh.nameOf(word))
			}
			err = env.Epoch(func() error { return b.fn(sh) })

		default:
			return fobj.Errorf(fobj.CodeTypeMismatch, "invalid %v instruction in %v", env.TypeOf(inst), sh.nameOf(word))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (sh *Shell) nameOf(word fobj.Ref) string {
	if w, err := fobj.Deref[*fobj.Word](sh.env, word); err == nil {
		return sh.env.Sprint(w.Name())
	}
	return sh.env.Sprint(word)
}

// truthy is false only for nil and numeric zero.
func (sh *Shell) truthy(ref fobj.Ref) bool {
	if ref.IsNil() {
		return false
	}
	if num, err := fobj.Deref[*fobj.Number](sh.env, ref); err == nil {
		return num.Float() != 0
	}
	return true
}

func (sh *Shell) push(ref fobj.Ref) error {
	return sh.env.Push(sh.env.Root(fobj.RootDataStack), ref)
}

// pop pops the data stack, holding the result so it survives any allocation
// in the rest of the current unit of work.
func (sh *Shell) pop() (fobj.Ref, error) {
	ref, err := sh.env.Pop(sh.env.Root(fobj.RootDataStack))
	if err == nil {
		err = sh.env.Hold(ref)
	}
	return ref, err
}

// popN pops n values, returning them in push order.
func (sh *Shell) popN(n int) ([]fobj.Ref, error) {
	refs := make([]fobj.Ref, n)
	for i := n - 1; i >= 0; i-- {
		ref, err := sh.pop()
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	return refs, nil
}

func (sh *Shell) pushString(s string) error {
	ref, err := sh.env.NewString(s)
	if err != nil {
		return err
	}
	return sh.push(ref)
}

func (sh *Shell) pushNumber(n int64) error {
	ref, err := sh.env.NewNumber(n)
	if err != nil {
		return err
	}
	return sh.push(ref)
}
