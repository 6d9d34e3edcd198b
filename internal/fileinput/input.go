package fileinput

import (
	"bufio"
	"fmt"
	"io"
)

// MaxLine bounds the length of any single input line.
const MaxLine = 64 * 1024

// Location names a line in an Input stream.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Input reads lines sequentially through a Queue of one or more input
// streams. Loc tracks where the last line returned came from, so that errors
// can be reported against it.
type Input struct {
	Queue []io.Reader
	Loc   Location

	cur io.Reader
	sc  *bufio.Scanner
}

// ReadLine returns the next line, without its terminator, moving on through
// the queue as each stream runs dry. It returns io.EOF once every stream is
// exhausted.
func (in *Input) ReadLine() (string, error) {
	for {
		if in.sc == nil && !in.next() {
			return "", io.EOF
		}
		if in.sc.Scan() {
			in.Loc.Line++
			return in.sc.Text(), nil
		}
		err := in.sc.Err()
		in.drop()
		if err != nil {
			return "", fmt.Errorf("%v: %w", in.Loc, err)
		}
	}
}

func (in *Input) next() bool {
	if len(in.Queue) == 0 {
		return false
	}
	in.cur = in.Queue[0]
	in.Queue = in.Queue[1:]
	in.sc = bufio.NewScanner(in.cur)
	in.sc.Buffer(nil, MaxLine)
	in.Loc = Location{Name: nameOf(in.cur)}
	return true
}

func (in *Input) drop() {
	if cl, ok := in.cur.(io.Closer); ok {
		cl.Close()
	}
	in.cur, in.sc = nil, nil
}

// Close closes the current stream and every queued one.
func (in *Input) Close() (err error) {
	if in.cur != nil {
		in.drop()
	}
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

// Named attaches a name to r for Location reporting.
func Named(name string, r io.Reader) io.Reader {
	if cl, ok := r.(io.Closer); ok {
		return namedReadCloser{namedReader{name, r}, cl}
	}
	return namedReader{name, r}
}

type namedReader struct {
	name string
	io.Reader
}

type namedReadCloser struct {
	namedReader
	io.Closer
}

func (nr namedReader) Name() string { return nr.name }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
