package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/jcorbin/fobj/internal/fobj"
)

type writeFlusher interface {
	io.Writer
	Flush() error
}

func newWriteFlusher(w io.Writer) writeFlusher {
	if wf, is := w.(writeFlusher); is {
		return wf
	}

	// in memory buffers, as implemented by types like bytes.Buffer and
	// strings.Builder, do not need to be flushed
	type buffer interface {
		io.Writer
		Len() int
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer || w == io.Discard {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }

// token is one word of a statement; quoted tokens are string literals.
type token struct {
	text   string
	quoted bool
}

func (tok token) String() string {
	if tok.quoted {
		return strconv.Quote(tok.text)
	}
	return tok.text
}

// tokenize splits a statement on white space. A token starting with a double
// quote runs to the matching unescaped quote, and is unquoted with Go string
// syntax. A lone backslash comments out the rest of the line. Text is NFC
// normalized first, so canonically equal names and strings are equal.
func tokenize(line string) (toks []token, _ error) {
	for rest := norm.NFC.String(line); ; {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			return toks, nil
		}

		if rest[0] == '"' {
			end := closingQuote(rest)
			if end < 0 {
				return toks, fobj.Errorf(fobj.CodeSyntax, "unterminated string %v", rest)
			}
			s, err := strconv.Unquote(rest[:end+1])
			if err != nil {
				return toks, fobj.Errorf(fobj.CodeSyntax, "invalid string %v: %v", rest[:end+1], err)
			}
			toks = append(toks, token{text: s, quoted: true})
			rest = rest[end+1:]
			continue
		}

		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			end = len(rest)
		}
		word := rest[:end]
		if word == `\` {
			return toks, nil
		}
		toks = append(toks, token{text: word})
		rest = rest[end:]
	}
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
