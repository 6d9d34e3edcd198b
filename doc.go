/* Command fobj is a small Forth-like shell over a garbage collected object
memory.

Every value the shell manipulates, from numbers and strings to arrays,
tables, hashes, stacks and compiled words, is an object in one fixed size
pool (see internal/fobj). The shell reads its input a line at a time; each
line is one statement:

	1 2 + .                 \ prints 3
	"a" 1 + .               \ prints a1
	array dup 5 swap 0 !    \ stores 5 at index 0
	: sq dup + ;            \ defines sq
	3 sq .                  \ prints 6

Values live on the data stack. Words defined by ": name ... ;" compile into
an array of instructions, and may span lines; the control words if, else,
then, begin and until are only valid inside a definition. A definition
becomes visible to later statements once the statement that completes it
ends.

Containers are addressed with "!" ( value container index -- ) and "@"
( container index -- value ), or through an index reference made by "&"
( container index -- ref ) and consumed by "ref!" and "ref@".

A statement that fails, whether from a usage error such as popping an empty
stack or from exhausting the object pool, is reported with its file and
line; the stacks are then cleared and interpretation resumes with the next
line.

Usage:

	fobj [flags] [files...]

Files are interpreted in order, then standard input. Settings may come from a
TOML file named by --config:

	capacity = 4096
	strict_gc = true
	array_limit = 65536
	max_depth = 128
	trace = false
	color = "auto"

Flags given explicitly override the file.
*/
package main
