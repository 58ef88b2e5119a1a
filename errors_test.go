// errors_test.go
package rox

import (
	"errors"
	"strings"
	"testing"
)

func firstDiag(t *testing.T, src string) Diagnostic {
	t.Helper()
	_, diags := ParseProgram(src)
	if len(diags) == 0 {
		t.Fatalf("want at least one diagnostic for %q", src)
	}
	return diags[0]
}

func Test_Diagnostic_Format(t *testing.T) {
	d := firstDiag(t, "1 + 2")
	want := "Expected ';' after expr.\nAtLine [1] AtToken[EOF]"
	if got := d.String(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func Test_Diagnostic_Line_Counts_Newlines(t *testing.T) {
	d := firstDiag(t, "let a = 1;\nlet b = 2;\nlet 3;")
	if d.Line != 3 {
		t.Fatalf("want line 3, got %d (%v)", d.Line, d)
	}
}

func Test_Diagnostic_Is_An_Error(t *testing.T) {
	var err error = firstDiag(t, "print;")
	if !strings.Contains(err.Error(), "AtToken[") {
		t.Fatalf("Error() must carry the token, got %q", err.Error())
	}
}

func Test_HasIncomplete(t *testing.T) {
	_, diags := ParseProgramInteractive("{ let a = 1;")
	if !HasIncomplete(diags) {
		t.Fatalf("unclosed block at EOF must be incomplete, got %v", diags)
	}
	_, diags = ParseProgramInteractive("let = 1;")
	if HasIncomplete(diags) {
		t.Fatalf("a plain parse error is not incomplete, got %v", diags)
	}
}

func Test_WrapErrorWithSource_Caret_Snippet(t *testing.T) {
	src := "let a = 1;\nlet 2;\nprint a;"
	d := firstDiag(t, src)
	wrapped := WrapErrorWithSource(d, src)

	msg := wrapped.Error()
	if !strings.HasPrefix(msg, "PARSE ERROR at 2:5:") {
		t.Fatalf("want parse header with position, got %q", msg)
	}
	for _, part := range []string{"let a = 1;", "let 2;", "print a;", "^"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("snippet missing %q:\n%s", part, msg)
		}
	}
	// caret sits under the offending column
	caretLine := ""
	for _, l := range strings.Split(msg, "\n") {
		if strings.Contains(l, "^") {
			caretLine = l
		}
	}
	if !strings.HasSuffix(caretLine, "    ^") {
		t.Fatalf("caret misplaced: %q", caretLine)
	}
}

func Test_WrapErrorWithSource_Lexical_Header(t *testing.T) {
	src := "let a = @;"
	l := NewLexer(src)
	l.Scan()
	diags := l.Diags()
	if len(diags) == 0 {
		t.Fatalf("want a lexical diagnostic")
	}
	msg := WrapErrorWithSource(diags[0], src).Error()
	if !strings.HasPrefix(msg, "LEXICAL ERROR at 1:9:") {
		t.Fatalf("want lexical header, got %q", msg)
	}
}

func Test_WrapErrorWithSource_Passes_Other_Errors_Through(t *testing.T) {
	err := errors.New("boom")
	if got := WrapErrorWithSource(err, "print 1;"); got != err {
		t.Fatalf("non-diagnostics must pass through, got %v", got)
	}
	rt := &RuntimeError{Kind: ErrType, Msg: "x"}
	if got := WrapErrorWithSource(rt, "print 1;"); got != error(rt) {
		t.Fatalf("runtime errors must pass through, got %v", got)
	}
}
