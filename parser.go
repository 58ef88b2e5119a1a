// parser.go — recursive-descent parser for rox.
//
// The parser consumes the token stream from lexer.go and produces a
// Program (ast.go) plus a best-effort list of Diagnostics. One malformed
// statement never aborts the whole parse: on a statement-level failure the
// parser synchronizes to the next safe statement boundary and resumes, so
// error cascades are bounded to roughly one diagnostic per bad statement.
//
// Expression grammar, lowest precedence first; all binary and logical
// layers are left-associative and built by iterative left-folding:
//
//	expression → assignment
//	assignment → IDENTIFIER "=" assignment | logic_or
//	logic_or   → logic_and ( "or" logic_and )*
//	logic_and  → equality ( "and" equality )*
//	equality   → comparison ( ("!="|"==") comparison )*
//	comparison → term ( (">"|">="|"<"|"<=") term )*
//	term       → factor ( ("+"|"-") factor )*
//	factor     → unary ( ("*"|"/") unary )*
//	unary      → ("!"|"-") unary | primary
//	primary    → NUMBER | STRING | "true" | "false" | "nil"
//	           | IDENTIFIER | "(" expression ")"
//
// Statement grammar:
//
//	program     → declaration* EOF
//	declaration → "let" IDENTIFIER ("=" expression)? ";" | statement
//	statement   → block | "print" expression ";"
//	            | "if" "(" expression ")" statement ("else" statement)?
//	            | expression ";"
//	block       → "{" declaration* "}"
//
// The lexer also knows "for", "fun", "in" and "return"; those productions
// are unimplemented and reported as such, never given guessed semantics.
package rox

import (
	"fmt"
	"strconv"
)

// maxDepth bounds grammar recursion so pathologically nested input becomes
// a diagnostic instead of exhausting the goroutine stack.
const maxDepth = 512

// Parser turns a token stream into a Program, collecting Diagnostics
// instead of stopping on the first malformed statement.
type Parser struct {
	src         string
	toks        []Token
	i           int
	diags       []Diagnostic
	depth       int
	interactive bool
}

// NewParser lexes src and prepares a parser over its tokens. Lexical
// diagnostics are carried over into the parser's diagnostic list.
func NewParser(src string) *Parser {
	lex := NewLexer(src)
	toks := lex.Scan()
	return &Parser{src: src, toks: toks, diags: lex.Diags()}
}

// NewParserInteractive is NewParser in REPL-friendly mode: failures caused
// by running out of input are tagged DiagIncomplete so a driver can prompt
// for more lines instead of reporting them.
func NewParserInteractive(src string) *Parser {
	p := NewParser(src)
	p.interactive = true
	return p
}

// ParseProgram parses a complete source string.
func ParseProgram(src string) (Program, []Diagnostic) {
	return NewParser(src).Parse()
}

// ParseProgramInteractive parses in REPL-friendly mode (see
// NewParserInteractive).
func ParseProgramInteractive(src string) (Program, []Diagnostic) {
	return NewParserInteractive(src).Parse()
}

// Parse consumes the whole token stream. It always returns a (possibly
// incomplete) Program together with every diagnostic collected on the way.
func (p *Parser) Parse() (Program, []Diagnostic) {
	var prog Program
	for !p.atEnd() {
		s, err := p.declaration()
		if err != nil {
			p.synchronize()
			continue
		}
		prog = append(prog, s)
	}
	return prog, p.diags
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *Parser) atEnd() bool { return p.peek().Kind == EOF }

func (p *Parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *Parser) prev() Token { return p.toks[p.i-1] }

func (p *Parser) check(k TokenKind) bool { return p.peek().Kind == k }

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if p.peek().Kind == k {
			p.i++
			return true
		}
	}
	return false
}

// need consumes the expected token or records a diagnostic at the current
// position. Hitting EOF in interactive mode yields DiagIncomplete.
func (p *Parser) need(k TokenKind, msg string) (Token, error) {
	if p.match(k) {
		return p.prev(), nil
	}
	got := p.peek()
	kind := DiagParse
	if got.Kind == EOF && p.interactive {
		kind = DiagIncomplete
	}
	return Token{}, p.record(kind, got, msg)
}

// record appends a diagnostic for tok and returns it as the error to
// propagate up to the statement loop.
func (p *Parser) record(kind DiagKind, tok Token, msg string) error {
	d := Diagnostic{
		Kind: kind,
		Msg:  msg,
		Line: lineAt(p.src, tok.Start),
		Tok:  tok,
	}
	p.diags = append(p.diags, d)
	return d
}

// errorAt records a parse diagnostic for the token at index at.
func (p *Parser) errorAt(at int, msg string) error {
	if at < 0 {
		at = 0
	}
	if at >= len(p.toks) {
		at = len(p.toks) - 1
	}
	return p.record(DiagParse, p.toks[at], msg)
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return p.errorAt(p.i, "Expression nesting too deep.")
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// synchronize discards tokens until a likely statement boundary: just past
// a ';', or in front of a keyword that starts a statement, or EOF.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.i > 0 && p.prev().Kind == SEMICOLON {
			return
		}
		switch p.peek().Kind {
		case FOR, FUNCTION, IF, PRINT, RETURN, LET, EOF:
			return
		}
		p.i++
	}
}

// ───────────────────────────── statements ───────────────────────────────────

func (p *Parser) declaration() (Stmt, error) {
	if p.check(LET) {
		return p.letDeclaration()
	}
	return p.statement()
}

func (p *Parser) letDeclaration() (Stmt, error) {
	p.i++ // consume 'let'
	nameTok, err := p.need(ID, "Expected Identifier")
	if err != nil {
		return nil, err
	}
	name := nameTok.Text(p.src)

	var init Expr
	if p.match(ASSIGN) {
		init, err = p.expr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expected ';' after expr."); err != nil {
		return nil, err
	}
	return &LetStmt{Name: name, Init: init}, nil
}

func (p *Parser) statement() (Stmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.peek().Kind {
	case LCURLY:
		return p.block()
	case PRINT:
		return p.printStatement()
	case IF:
		return p.ifStatement()
	case FOR, FUNCTION, RETURN:
		kw := p.peek()
		p.i++
		return nil, p.errorAt(p.i-1, fmt.Sprintf("'%s' is not supported.", kw.Kind))
	default:
		return p.exprStatement()
	}
}

func (p *Parser) block() (Stmt, error) {
	p.i++ // consume '{'

	var stmts []Stmt
	for !p.check(RCURLY) && !p.atEnd() {
		s, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.need(RCURLY, "Expected '}' after block."); err != nil {
		return nil, err
	}
	return &BlockStmt{Stmts: stmts}, nil
}

func (p *Parser) printStatement() (Stmt, error) {
	p.i++ // consume 'print'

	e, err := p.expr()
	if err != nil {
		return nil, p.errorAt(p.i-1, "Expected Expression after print.")
	}
	if _, err := p.need(SEMICOLON, "Expected ';' after expr."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expr: e}, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	p.i++ // consume 'if'

	if _, err := p.need(LROUND, "Expected '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "Expected ')' after condition."); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var els Stmt
	if p.match(ELSE) {
		els, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) exprStatement() (Stmt, error) {
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "Expected ';' after expr."); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: e}, nil
}

// ───────────────────────────── expressions ──────────────────────────────────

func (p *Parser) expr() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.assignment()
}

// assignment is right-associative and itself an expression. An invalid
// target is reported but parsing continues with the left-hand expression.
func (p *Parser) assignment() (Expr, error) {
	left, err := p.logicOr()
	if err != nil {
		return nil, err
	}

	if p.match(ASSIGN) {
		assignIdx := p.i - 1
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if v, ok := left.(*VariableExpr); ok {
			return &AssignExpr{Name: v.Name, Value: right}, nil
		}
		p.errorAt(assignIdx, "Invalid assignment target.")
	}
	return left, nil
}

func (p *Parser) logicOr() (Expr, error) {
	left, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: OpOr, Right: right}
	}
	return left, nil
}

func (p *Parser) logicAnd() (Expr, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: OpAnd, Right: right}
	}
	return left, nil
}

func (p *Parser) equality() (Expr, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(NEQ, EQ) {
		op := binaryOpFor(p.prev().Kind)
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) comparison() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(GREATER, GREATER_EQ, LESS, LESS_EQ) {
		op := binaryOpFor(p.prev().Kind)
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) term() (Expr, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(PLUS, MINUS) {
		op := binaryOpFor(p.prev().Kind)
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) factor() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(MULT, DIV) {
		op := binaryOpFor(p.prev().Kind)
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) unary() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.match(BANG, MINUS) {
		op := OpNot
		if p.prev().Kind == MINUS {
			op = OpNeg
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (Expr, error) {
	if p.atEnd() {
		got := p.peek()
		kind := DiagParse
		if p.interactive {
			kind = DiagIncomplete
		}
		return nil, p.record(kind, got, "Expected Primary Token")
	}

	tok := p.peek()
	p.i++

	switch tok.Kind {
	case NIL:
		return &NilLit{}, nil
	case FALSE:
		return &BoolLit{Value: false}, nil
	case TRUE:
		return &BoolLit{Value: true}, nil
	case NUMBER:
		return p.numberLit(p.i - 1)
	case STRING:
		return &StringLit{Value: p.stringText(tok)}, nil
	case ID:
		return &VariableExpr{Name: tok.Text(p.src)}, nil
	case LROUND:
		return p.grouping()
	case ILLEGAL:
		return nil, p.errorAt(p.i-1, "Unexpected character.")
	default:
		return nil, p.errorAt(p.i-1, "Expected Primary Token")
	}
}

func (p *Parser) grouping() (Expr, error) {
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "Expected ')' after expr."); err != nil {
		return nil, err
	}
	return e, nil
}

// ───────────────────────── literal extraction ───────────────────────────────

// numberLit converts the token's source text into a float64. A text that
// fails to parse becomes a recoverable diagnostic, not an abort.
func (p *Parser) numberLit(at int) (Expr, error) {
	text := p.toks[at].Text(p.src)
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorAt(at, "Invalid number literal.")
	}
	return &NumberLit{Value: v}, nil
}

// stringText strips the surrounding quotes from a STRING token's span.
// An unterminated string has no closing quote to strip.
func (p *Parser) stringText(tok Token) string {
	text := tok.Text(p.src)
	if len(text) > 0 && text[0] == '"' {
		text = text[1:]
	}
	if len(text) > 0 && text[len(text)-1] == '"' {
		text = text[:len(text)-1]
	}
	return text
}

func binaryOpFor(k TokenKind) BinaryOp {
	switch k {
	case PLUS:
		return OpAdd
	case MINUS:
		return OpSub
	case MULT:
		return OpMul
	case DIV:
		return OpDiv
	case GREATER:
		return OpGreater
	case GREATER_EQ:
		return OpGreaterEq
	case LESS:
		return OpLess
	case LESS_EQ:
		return OpLessEq
	case EQ:
		return OpEq
	case NEQ:
		return OpNotEq
	}
	return OpAdd
}
