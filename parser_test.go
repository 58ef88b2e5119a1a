// parser_test.go
package rox

import (
	"reflect"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func parseExpression(t *testing.T, src string) Expr {
	t.Helper()
	p := NewParser(src)
	e, err := p.expr()
	if err != nil {
		t.Fatalf("expr parse error: %v\nsource:\n%s", err, src)
	}
	return e
}

func mustParse(t *testing.T, src string) Program {
	t.Helper()
	prog, diags := ParseProgram(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v\nsource:\n%s", diags, src)
	}
	return prog
}

func wantExpr(t *testing.T, src string, want Expr) {
	t.Helper()
	got := parseExpression(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("\nsource:\n%s\nwant:\n%#v\ngot:\n%#v", src, want, got)
	}
}

func num(f float64) *NumberLit { return &NumberLit{Value: f} }

// --- expressions -----------------------------------------------------------

func Test_Parser_Binary_Left_Associative(t *testing.T) {
	wantExpr(t, "10 / 2 * 5", &BinaryExpr{
		Left:  &BinaryExpr{Left: num(10), Op: OpDiv, Right: num(2)},
		Op:    OpMul,
		Right: num(5),
	})
}

func Test_Parser_Grouping_Overrides_Associativity(t *testing.T) {
	wantExpr(t, "10 / (2 * 5)", &BinaryExpr{
		Left:  num(10),
		Op:    OpDiv,
		Right: &BinaryExpr{Left: num(2), Op: OpMul, Right: num(5)},
	})
}

func Test_Parser_Unary_Binds_Tighter_Than_Binary(t *testing.T) {
	wantExpr(t, "-10 + 2", &BinaryExpr{
		Left:  &UnaryExpr{Op: OpNeg, Operand: num(10)},
		Op:    OpAdd,
		Right: num(2),
	})
}

func Test_Parser_Unary_Over_Grouping(t *testing.T) {
	wantExpr(t, "10 / -(2 * 5) + 2", &BinaryExpr{
		Left: &BinaryExpr{
			Left: num(10),
			Op:   OpDiv,
			Right: &UnaryExpr{
				Op:      OpNeg,
				Operand: &BinaryExpr{Left: num(2), Op: OpMul, Right: num(5)},
			},
		},
		Op:    OpAdd,
		Right: num(2),
	})
}

func Test_Parser_Assignment_Right_Associative(t *testing.T) {
	wantExpr(t, "a = b = 3", &AssignExpr{
		Name:  "a",
		Value: &AssignExpr{Name: "b", Value: num(3)},
	})
}

func Test_Parser_Logical_Precedence(t *testing.T) {
	// "or" binds looser than "and"
	wantExpr(t, "true or false and true", &LogicalExpr{
		Left: &BoolLit{Value: true},
		Op:   OpOr,
		Right: &LogicalExpr{
			Left:  &BoolLit{Value: false},
			Op:    OpAnd,
			Right: &BoolLit{Value: true},
		},
	})
}

func Test_Parser_Comparison_And_Equality(t *testing.T) {
	wantExpr(t, "1 + 2 < 3 == true", &BinaryExpr{
		Left: &BinaryExpr{
			Left:  &BinaryExpr{Left: num(1), Op: OpAdd, Right: num(2)},
			Op:    OpLess,
			Right: num(3),
		},
		Op:    OpEq,
		Right: &BoolLit{Value: true},
	})
}

func Test_Parser_String_Literal_From_Span(t *testing.T) {
	wantExpr(t, `"hello"`, &StringLit{Value: "hello"})
	// unterminated string still yields a usable literal
	wantExpr(t, `"abc`, &StringLit{Value: "abc"})
}

// --- statements ------------------------------------------------------------

func Test_Parser_Let_With_And_Without_Initializer(t *testing.T) {
	prog := mustParse(t, "let a = 1; let b;")
	want := Program{
		&LetStmt{Name: "a", Init: num(1)},
		&LetStmt{Name: "b"},
	}
	if !reflect.DeepEqual(prog, want) {
		t.Fatalf("want %#v, got %#v", want, prog)
	}
}

func Test_Parser_If_Else(t *testing.T) {
	prog := mustParse(t, `if (a < 1) print "low"; else { print "high"; }`)
	want := Program{&IfStmt{
		Cond: &BinaryExpr{Left: &VariableExpr{Name: "a"}, Op: OpLess, Right: num(1)},
		Then: &PrintStmt{Expr: &StringLit{Value: "low"}},
		Else: &BlockStmt{Stmts: []Stmt{&PrintStmt{Expr: &StringLit{Value: "high"}}}},
	}}
	if !reflect.DeepEqual(prog, want) {
		t.Fatalf("want %#v, got %#v", want, prog)
	}
}

func Test_Parser_Nested_Blocks(t *testing.T) {
	prog := mustParse(t, "{ let a = 1; { print a; } }")
	if len(prog) != 1 {
		t.Fatalf("want one statement, got %d", len(prog))
	}
	outer, ok := prog[0].(*BlockStmt)
	if !ok || len(outer.Stmts) != 2 {
		t.Fatalf("want block of two statements, got %#v", prog[0])
	}
	if _, ok := outer.Stmts[1].(*BlockStmt); !ok {
		t.Fatalf("want nested block, got %#v", outer.Stmts[1])
	}
}

// --- diagnostics & recovery ------------------------------------------------

func Test_Parser_Invalid_Assignment_Target_Is_Nonfatal(t *testing.T) {
	prog, diags := ParseProgram("1 = 2;")
	if len(diags) != 1 || !strings.Contains(diags[0].Msg, "Invalid assignment target.") {
		t.Fatalf("want invalid-assignment diagnostic, got %v", diags)
	}
	if len(prog) != 1 {
		t.Fatalf("parsing must continue past an invalid target, got %#v", prog)
	}
}

func Test_Parser_Recovers_After_Malformed_Statement(t *testing.T) {
	prog, diags := ParseProgram("1 + ; let a = 1;")
	if len(diags) != 1 {
		t.Fatalf("want exactly one diagnostic, got %v", diags)
	}
	want := Program{&LetStmt{Name: "a", Init: num(1)}}
	if !reflect.DeepEqual(prog, want) {
		t.Fatalf("well-formed statement must survive recovery, got %#v", prog)
	}
}

func Test_Parser_Sync_On_Statement_Keyword(t *testing.T) {
	// no ';' before the next statement: recovery stops at 'print'
	prog, diags := ParseProgram("let 1 print 2;")
	if len(diags) == 0 {
		t.Fatalf("want a diagnostic for the malformed let")
	}
	if len(prog) != 1 {
		t.Fatalf("want the print statement to survive, got %#v", prog)
	}
	if _, ok := prog[0].(*PrintStmt); !ok {
		t.Fatalf("want print statement, got %#v", prog[0])
	}
}

func Test_Parser_Unsupported_Keywords_Are_Reported(t *testing.T) {
	for _, src := range []string{"return 1;", "for;", "fun f;"} {
		_, diags := ParseProgram(src)
		if len(diags) == 0 || !strings.Contains(diags[0].Msg, "is not supported.") {
			t.Fatalf("source %q: want unsupported-statement diagnostic, got %v", src, diags)
		}
	}
}

func Test_Parser_Huge_Number_Literal_Is_Recoverable(t *testing.T) {
	src := strings.Repeat("9", 400) + "; print 1;"
	prog, diags := ParseProgram(src)
	if len(diags) != 1 || !strings.Contains(diags[0].Msg, "Invalid number literal.") {
		t.Fatalf("want invalid-number diagnostic, got %v", diags)
	}
	if len(prog) != 1 {
		t.Fatalf("following statement must survive, got %#v", prog)
	}
}

func Test_Parser_Depth_Guard_Reports_Instead_Of_Crashing(t *testing.T) {
	src := strings.Repeat("(", 10000) + "1"
	_, diags := ParseProgram(src)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Msg, "nesting too deep") {
			found = true
		}
	}
	if !found {
		t.Fatalf("want nesting-depth diagnostic, got %v", diags)
	}
}

func Test_Parser_Interactive_Incomplete_At_EOF(t *testing.T) {
	_, diags := ParseProgramInteractive("{ let a = 1;")
	if !HasIncomplete(diags) {
		t.Fatalf("want incomplete diagnostic, got %v", diags)
	}
	// the same source in normal mode is a plain parse error
	_, diags = ParseProgram("{ let a = 1;")
	if HasIncomplete(diags) || len(diags) == 0 {
		t.Fatalf("want plain parse diagnostic, got %v", diags)
	}
}

func Test_Parser_Surfaces_Lexical_Diagnostics(t *testing.T) {
	_, diags := ParseProgram("let a = @;")
	var sawLex bool
	for _, d := range diags {
		if d.Kind == DiagLex {
			sawLex = true
		}
	}
	if !sawLex {
		t.Fatalf("lexical diagnostics must be carried through, got %v", diags)
	}
}
