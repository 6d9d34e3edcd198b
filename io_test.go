package main

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/fobj/internal/fobj"
)

func Test_tokenize(t *testing.T) {
	for _, tc := range []struct {
		name   string
		line   string
		expect []token
		err    string
	}{
		{name: "empty", line: "   "},
		{name: "words", line: " 1  2\t+ . ", expect: []token{{text: "1"}, {text: "2"}, {text: "+"}, {text: "."}}},
		{name: "string", line: `"a b" .`, expect: []token{{text: "a b", quoted: true}, {text: "."}}},
		{name: "escapes", line: `"\"x\"\n"`, expect: []token{{text: "\"x\"\n", quoted: true}}},
		{name: "adjacent", line: `"a""b"`, expect: []token{{text: "a", quoted: true}, {text: "b", quoted: true}}},
		{name: "normalized", line: "cafe\u0301 \"e\u0301\"", expect: []token{{text: "caf\u00e9"}, {text: "\u00e9", quoted: true}}},
		{name: "comment", line: `1 \ 2 3`, expect: []token{{text: "1"}}},
		{name: "not a comment", line: `1 \x`, expect: []token{{text: "1"}, {text: `\x`}}},
		{name: "quoted backslash", line: `"\\" \`, expect: []token{{text: `\`, quoted: true}}},
		{name: "unterminated", line: `1 "abc\"`, expect: []token{{text: "1"}}, err: `F108 unterminated string "abc\"`},
		{name: "bad escape", line: `"\q"`, err: `F108 invalid string "\q": invalid syntax`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := tokenize(tc.line)
			if tc.err != "" {
				assert.EqualError(t, err, tc.err)
				assert.Equal(t, fobj.CodeSyntax, fobj.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expect, toks)
		})
	}
}

func Test_token_String(t *testing.T) {
	assert.Equal(t, "dup", token{text: "dup"}.String())
	assert.Equal(t, `"dup"`, token{text: "dup", quoted: true}.String())
}

func Test_newWriteFlusher(t *testing.T) {
	var sb strings.Builder
	assert.IsType(t, nopFlusher{}, newWriteFlusher(&sb))
	assert.IsType(t, nopFlusher{}, newWriteFlusher(&bytes.Buffer{}))
	assert.IsType(t, nopFlusher{}, newWriteFlusher(io.Discard))

	bw := bufio.NewWriter(&sb)
	assert.Equal(t, writeFlusher(bw), newWriteFlusher(bw))

	var pr struct{ io.Writer }
	pr.Writer = &sb
	wf := newWriteFlusher(pr)
	_, err := io.WriteString(wf, "hello")
	require.NoError(t, err)
	assert.Equal(t, "", sb.String(), "expected buffered write")
	require.NoError(t, wf.Flush())
	assert.Equal(t, "hello", sb.String())
}

func Test_joinOr(t *testing.T) {
	assert.Equal(t, "", joinOr(nil))
	assert.Equal(t, "if", joinOr([]string{"if"}))
	assert.Equal(t, "if or else", joinOr([]string{"if", "else"}))
	assert.Equal(t, "a, b or c", joinOr([]string{"a", "b", "c"}))
}
