// errors.go — parse/lex diagnostics and caret-snippet rendering.
//
// A Diagnostic is the unit the lexer and parser report in: a message, the
// 1-based source line (computed by counting newlines up to the offending
// token's start offset) and the token itself. Its textual form is the
// stable driver-facing format:
//
//	<message>
//	AtLine [<line>] AtToken[<token>]
//
// WrapErrorWithSource upgrades a Diagnostic into a multi-line snippet with
// a caret under the offending column, with one line of context on either
// side:
//
//	PARSE ERROR at 3:12: Expected ';' after expr.
//
//	   2 | let x = (1 + 2
//	   3 |              )
//	     |            ^
//	   4 | print x;
//
// Runtime errors carry no source location and pass through unchanged.
package rox

import (
	"fmt"
	"strings"
)

// DiagKind classifies a Diagnostic by the stage that produced it.
type DiagKind int

const (
	DiagLex DiagKind = iota
	DiagParse
	// DiagIncomplete marks a parse failure caused by running out of input,
	// e.g. an unclosed block at EOF. Interactive drivers use it to keep
	// reading lines instead of reporting the error.
	DiagIncomplete
)

// Diagnostic is one recovered lexical or parse error.
type Diagnostic struct {
	Kind DiagKind
	Msg  string
	Line int // 1-based
	Tok  Token
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s\nAtLine [%d] AtToken[%s]", d.Msg, d.Line, d.Tok.Kind)
}

func (d Diagnostic) Error() string { return d.String() }

// HasIncomplete reports whether any diagnostic is a DiagIncomplete.
func HasIncomplete(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Kind == DiagIncomplete {
			return true
		}
	}
	return false
}

// lineAt returns the 1-based line number of byte offset b in src.
func lineAt(src string, b int) int {
	if b < 0 {
		b = 0
	}
	if b > len(src) {
		b = len(src)
	}
	return 1 + strings.Count(src[:b], "\n")
}

// colAt returns the 1-based column of byte offset b in src.
func colAt(src string, b int) int {
	if b < 0 {
		b = 0
	}
	if b > len(src) {
		b = len(src)
	}
	lastNL := strings.LastIndex(src[:b], "\n")
	return b - lastNL
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes Diagnostics and leaves
// other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	d, ok := err.(Diagnostic)
	if !ok {
		return err
	}
	header := "PARSE ERROR"
	if d.Kind == DiagLex {
		header = "LEXICAL ERROR"
	}
	line := lineAt(src, d.Tok.Start)
	col := colAt(src, d.Tok.Start)
	return fmt.Errorf("%s", prettyErrorString(src, header, line, col, d.Msg))
}

// prettyErrorString builds a Python-like snippet with a header and a caret.
// It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}
	cur := lines[line-1]
	if col > len(cur)+1 {
		col = len(cur) + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)

	width := len(fmt.Sprintf("%d", line+1))
	writeLine := func(n int) {
		fmt.Fprintf(&b, " %*d | %s\n", width, n, lines[n-1])
	}

	if line > 1 {
		writeLine(line - 1)
	}
	writeLine(line)
	fmt.Fprintf(&b, " %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", col-1))
	if line < len(lines) {
		writeLine(line + 1)
	}
	return strings.TrimRight(b.String(), "\n")
}
