// lexer.go — tokenizer for rox source text.
//
// The scanner is total: for any input it terminates and the token stream
// always ends with exactly one EOF token. Unrecognized characters become
// ILLEGAL tokens and unterminated strings still produce a STRING token;
// both are reported as diagnostics for the parser to surface, never as a
// hard failure of the scan itself.
//
// Tokens carry no literal payload. A token is a kind plus a half-open
// [Start,End) byte span into the original source; identifier names and
// literal values are recovered from the span by the parser.
package rox

// TokenKind represents the kind of token.
type TokenKind int

const (
	// Special
	EOF TokenKind = iota
	ILLEGAL

	// Punctuation
	LROUND    // "("
	RROUND    // ")"
	LSQUARE   // "["
	RSQUARE   // "]"
	LCURLY    // "{"
	RCURLY    // "}"
	COMMA     // ","
	PERIOD    // "."
	SEMICOLON // ";"

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	BANG       // "!"
	NEQ        // "!="
	ASSIGN     // "="
	EQ         // "=="
	GREATER    // ">"
	GREATER_EQ // ">="
	LESS       // "<"
	LESS_EQ    // "<="

	// Literals & identifiers
	ID
	STRING
	NUMBER

	// Keywords
	AND
	ELSE
	FALSE
	FOR
	FUNCTION
	IF
	IN
	NIL
	OR
	PRINT
	RETURN
	TRUE
	LET
)

var tokenNames = map[TokenKind]string{
	EOF:        "EOF",
	ILLEGAL:    "ILLEGAL",
	LROUND:     "(",
	RROUND:     ")",
	LSQUARE:    "[",
	RSQUARE:    "]",
	LCURLY:     "{",
	RCURLY:     "}",
	COMMA:      ",",
	PERIOD:     ".",
	SEMICOLON:  ";",
	PLUS:       "+",
	MINUS:      "-",
	MULT:       "*",
	DIV:        "/",
	BANG:       "!",
	NEQ:        "!=",
	ASSIGN:     "=",
	EQ:         "==",
	GREATER:    ">",
	GREATER_EQ: ">=",
	LESS:       "<",
	LESS_EQ:    "<=",
	ID:         "Identifier",
	STRING:     "String",
	NUMBER:     "Number",
	AND:        "and",
	ELSE:       "else",
	FALSE:      "false",
	FOR:        "for",
	FUNCTION:   "fun",
	IF:         "if",
	IN:         "in",
	NIL:        "nil",
	OR:         "or",
	PRINT:      "print",
	RETURN:     "return",
	TRUE:       "true",
	LET:        "let",
}

func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return "Unknown"
}

// keywords map
var keywords = map[string]TokenKind{
	"and":    AND,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUNCTION,
	"if":     IF,
	"in":     IN,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"true":   TRUE,
	"let":    LET,
}

// Token is a lexical token: a kind plus a half-open [Start,End) byte span
// into the source it was scanned from. Tokens are immutable once produced.
type Token struct {
	Kind  TokenKind
	Start int
	End   int
}

// Text returns the raw source slice covered by the token's span.
func (t Token) Text(src string) string {
	if t.Start < 0 || t.End > len(src) || t.Start > t.End {
		return ""
	}
	return src[t.Start:t.End]
}

// Lexer scans a rox source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	tokens []Token
	diags  []Diagnostic
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Scan tokenizes the entire source and returns the tokens, EOF included.
// It never fails; lexical problems are recorded as diagnostics (see Diags).
func (l *Lexer) Scan() []Token {
	for {
		tok := l.scanToken()
		if tok.Kind == EOF {
			return l.tokens
		}
	}
}

// Diags returns the lexical diagnostics collected by Scan, in source order.
func (l *Lexer) Diags() []Diagnostic {
	return l.diags
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	return ch, true
}

func (l *Lexer) addToken(k TokenKind) Token {
	tok := Token{Kind: k, Start: l.start, End: l.cur}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) report(msg string, tok Token) {
	l.diags = append(l.diags, Diagnostic{
		Kind: DiagLex,
		Msg:  msg,
		Line: lineAt(l.src, tok.Start),
		Tok:  tok,
	})
}

// skipBlanks discards whitespace and "//" line comments, which may alternate.
func (l *Lexer) skipBlanks() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
		case '/':
			if b, ok := l.peekN(1); ok && b == '/' {
				l.ignoreUntilNewline()
				continue
			}
			return
		default:
			return
		}
	}
}

// ignoreUntilNewline eats until '\n' or EOF.
func (l *Lexer) ignoreUntilNewline() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// ----- scanners -----

// scanString consumes through the closing '"' or end of input. The opening
// quote was already consumed. An unterminated string still yields a STRING
// token; the condition is reported as a diagnostic rather than a failure.
func (l *Lexer) scanString() Token {
	for {
		b, ok := l.peek()
		if !ok {
			tok := l.addToken(STRING)
			l.report("Unterminated string.", tok)
			return tok
		}
		l.advance()
		if b == '"' {
			return l.addToken(STRING)
		}
	}
}

// scanNumber consumes a maximal digit run, optionally followed by '.' and
// another maximal digit run. Exponents, signs and trailing dots are not
// part of a number.
func (l *Lexer) scanNumber() Token {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance() // consume '.'
			for {
				b3, ok3 := l.peek()
				if !ok3 || !isDigit(b3) {
					break
				}
				l.advance()
			}
		}
	}
	return l.addToken(NUMBER)
}

// scanIdentifier consumes [A-Za-z_][A-Za-z0-9_]* and classifies it against
// the keyword set.
func (l *Lexer) scanIdentifier() Token {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	if k, ok := keywords[l.src[l.start:l.cur]]; ok {
		return l.addToken(k)
	}
	return l.addToken(ID)
}

// ----- main scanner -----

func (l *Lexer) scanToken() Token {
	l.skipBlanks()
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF)
	}

	ch, _ := l.advance()

	switch ch {
	case '(':
		return l.addToken(LROUND)
	case ')':
		return l.addToken(RROUND)
	case '[':
		return l.addToken(LSQUARE)
	case ']':
		return l.addToken(RSQUARE)
	case '{':
		return l.addToken(LCURLY)
	case '}':
		return l.addToken(RCURLY)
	case ',':
		return l.addToken(COMMA)
	case '.':
		return l.addToken(PERIOD)
	case ';':
		return l.addToken(SEMICOLON)
	case '+':
		return l.addToken(PLUS)
	case '-':
		return l.addToken(MINUS)
	case '*':
		return l.addToken(MULT)
	case '/':
		return l.addToken(DIV)
	case '!':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(NEQ)
		}
		return l.addToken(BANG)
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(EQ)
		}
		return l.addToken(ASSIGN)
	case '>':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(GREATER_EQ)
		}
		return l.addToken(GREATER)
	case '<':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(LESS_EQ)
		}
		return l.addToken(LESS)
	case '"':
		return l.scanString()
	}

	if isDigit(ch) {
		return l.scanNumber()
	}
	if isAlpha(ch) {
		return l.scanIdentifier()
	}

	tok := l.addToken(ILLEGAL)
	l.report("Unexpected character.", tok)
	return tok
}
