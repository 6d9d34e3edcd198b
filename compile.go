package main

import (
	"github.com/jcorbin/fobj/internal/fobj"
)

// Instruction tags of State records compiled into word bodies. A literal tag
// is followed by the value to push; branch offsets are body indices.
const (
	opLiteral = iota + 1
	opJump
	opBranchFalse
)

// Control tags of State records kept on the return stack while compiling,
// each recording the body index of a pending branch or loop start.
const (
	ctlIf = iota + 16
	ctlElse
	ctlBegin
)

var controlNames = map[int]string{
	ctlIf:    "if",
	ctlElse:  "else",
	ctlBegin: "begin",
}

// define starts compiling a new word named by tok.
func (sh *Shell) define(tok token) error {
	sh.naming = false
	valid := !tok.quoted && builtins[tok.text] == nil && tok.text != ":"
	if err := fobj.Check(valid, fobj.CodeSyntax, "invalid definition name %v", tok); err != nil {
		return err
	}
	env := sh.env
	name, err := env.NewString(tok.text)
	if err != nil {
		return err
	}
	word, err := env.NewWord(name)
	if err != nil {
		return err
	}
	sh.logf(":", "define %v", tok)
	return env.SetRoot(fobj.RootCompiling, word)
}

// finish binds the compiling word into the new words table.
func (sh *Shell) finish() error {
	env := sh.env
	if depth, err := env.Depth(env.Root(fobj.RootReturnStack)); err != nil {
		return err
	} else if depth > 0 {
		tag, _, err := sh.popControl()
		if err != nil {
			return err
		}
		return fobj.Errorf(fobj.CodeSyntax, "unterminated %v in %v", controlNames[tag], sh.nameOf(env.Root(fobj.RootCompiling)))
	}
	word := env.Root(fobj.RootCompiling)
	w, err := fobj.Deref[*fobj.Word](env, word)
	if err != nil {
		return err
	}
	if err := env.Store(env.Root(fobj.RootNewWords), w.Name(), word); err != nil {
		return err
	}
	if sh.logfn != nil {
		sh.logf(";", "%v", env.Sprint(word))
	}
	return env.SetRoot(fobj.RootCompiling, fobj.Nil)
}

func (sh *Shell) compile(tok token) error {
	env := sh.env
	if tok.quoted {
		str, err := env.NewString(tok.text)
		if err != nil {
			return err
		}
		return sh.emitLiteral(str)
	}

	if b := builtins[tok.text]; b != nil {
		if b.immediate {
			return b.fn(sh)
		}
		name, err := env.NewString(tok.text)
		if err != nil {
			return err
		}
		return sh.emit(name)
	}

	compiling := env.Root(fobj.RootCompiling)
	if sh.nameOf(compiling) == tok.text {
		return sh.emit(compiling)
	}
	word, err := sh.lookup(tok.text)
	if err != nil {
		return err
	}
	if !word.IsNil() {
		return sh.emit(word)
	}

	val, err := sh.literal(tok.text)
	if err != nil {
		return err
	}
	return sh.emitLiteral(val)
}

func (sh *Shell) body() (fobj.Ref, int, error) {
	env := sh.env
	w, err := fobj.Deref[*fobj.Word](env, env.Root(fobj.RootCompiling))
	if err != nil {
		return fobj.Nil, 0, err
	}
	n, err := env.Len(w.Body())
	return w.Body(), n, err
}

// emit appends instructions to the compiling word's body.
func (sh *Shell) emit(insts ...fobj.Ref) error {
	env := sh.env
	if err := env.HoldAll(insts); err != nil {
		return err
	}
	body, n, err := sh.body()
	if err != nil {
		return err
	}
	for i, inst := range insts {
		if err := sh.storeAt(body, n+i, inst); err != nil {
			return err
		}
	}
	return nil
}

func (sh *Shell) emitLiteral(val fobj.Ref) error {
	if err := sh.env.Hold(val); err != nil {
		return err
	}
	lit, err := sh.env.NewState(opLiteral, 0)
	if err != nil {
		return err
	}
	return sh.emit(lit, val)
}

// emitBranch appends a branch with a target to be patched later, returning
// its body index.
func (sh *Shell) emitBranch(op int) (int, error) {
	_, n, err := sh.body()
	if err != nil {
		return 0, err
	}
	st, err := sh.env.NewState(op, -1)
	if err != nil {
		return 0, err
	}
	return n, sh.emit(st)
}

// patch replaces the branch at index i with one targeting offset.
func (sh *Shell) patch(i, offset int) error {
	body, _, err := sh.body()
	if err != nil {
		return err
	}
	old, err := fobj.Deref[*fobj.State](sh.env, sh.at(body, i))
	if err != nil {
		return err
	}
	st, err := sh.env.NewState(old.Tag, offset)
	if err != nil {
		return err
	}
	if err := sh.env.Hold(st); err != nil {
		return err
	}
	return sh.storeAt(body, i, st)
}

func (sh *Shell) at(body fobj.Ref, i int) fobj.Ref {
	arr, err := fobj.Deref[*fobj.Array](sh.env, body)
	if err != nil {
		return fobj.Nil
	}
	return arr.At(i)
}

// storeAt stores an already held value into arr at i.
func (sh *Shell) storeAt(arr fobj.Ref, i int, val fobj.Ref) error {
	index, err := sh.env.NewNumber(int64(i))
	if err != nil {
		return err
	}
	return sh.env.Store(arr, index, val)
}

func (sh *Shell) pushControl(tag, offset int) error {
	st, err := sh.env.NewState(tag, offset)
	if err != nil {
		return err
	}
	return sh.env.Push(sh.env.Root(fobj.RootReturnStack), st)
}

func (sh *Shell) popControl() (tag, offset int, err error) {
	ref, err := sh.env.Pop(sh.env.Root(fobj.RootReturnStack))
	if err != nil {
		return 0, 0, err
	}
	st, err := fobj.Deref[*fobj.State](sh.env, ref)
	if err != nil {
		return 0, 0, err
	}
	return st.Tag, st.Offset, nil
}

// expectControl pops a control record, which must carry one of tags.
func (sh *Shell) expectControl(word string, tags ...int) (tag, offset int, err error) {
	depth, err := sh.env.Depth(sh.env.Root(fobj.RootReturnStack))
	if err != nil {
		return 0, 0, err
	}
	if depth > 0 {
		if tag, offset, err = sh.popControl(); err != nil {
			return 0, 0, err
		}
		for _, want := range tags {
			if tag == want {
				return tag, offset, nil
			}
		}
	}
	var names []string
	for _, want := range tags {
		names = append(names, controlNames[want])
	}
	return 0, 0, fobj.Errorf(fobj.CodeSyntax, "%v without %v", word, joinOr(names))
}

func joinOr(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	s := names[0]
	for _, name := range names[1 : len(names)-1] {
		s += ", " + name
	}
	return s + " or " + names[len(names)-1]
}

func compileIf(sh *Shell) error {
	at, err := sh.emitBranch(opBranchFalse)
	if err != nil {
		return err
	}
	return sh.pushControl(ctlIf, at)
}

func compileElse(sh *Shell) error {
	_, ifAt, err := sh.expectControl("else", ctlIf)
	if err != nil {
		return err
	}
	at, err := sh.emitBranch(opJump)
	if err != nil {
		return err
	}
	if err := sh.patch(ifAt, at+1); err != nil {
		return err
	}
	return sh.pushControl(ctlElse, at)
}

func compileThen(sh *Shell) error {
	_, at, err := sh.expectControl("then", ctlIf, ctlElse)
	if err != nil {
		return err
	}
	_, n, err := sh.body()
	if err != nil {
		return err
	}
	return sh.patch(at, n)
}

func compileBegin(sh *Shell) error {
	_, n, err := sh.body()
	if err != nil {
		return err
	}
	return sh.pushControl(ctlBegin, n)
}

func compileUntil(sh *Shell) error {
	_, start, err := sh.expectControl("until", ctlBegin)
	if err != nil {
		return err
	}
	st, err := sh.env.NewState(opBranchFalse, start)
	if err != nil {
		return err
	}
	return sh.emit(st)
}
