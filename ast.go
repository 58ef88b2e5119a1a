// ast.go — tree definitions for parsed rox programs.
//
// Pure data contract between the parser and the evaluator. Expr and Stmt
// are closed tagged unions realized as marker interfaces; every composite
// node exclusively owns its children and nothing mutates a tree after the
// parser returns it.
package rox

// UnaryOp is the operator of a UnaryExpr.
type UnaryOp int

const (
	OpNot UnaryOp = iota // "!"
	OpNeg                // "-"
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	}
	return "?"
}

// BinaryOp is the operator of a BinaryExpr.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpGreater
	OpGreaterEq
	OpLess
	OpLessEq
	OpEq
	OpNotEq
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	}
	return "?"
}

// LogicalOp is the operator of a LogicalExpr.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

func (op LogicalOp) String() string {
	if op == OpAnd {
		return "and"
	}
	return "or"
}

// Expr is an expression node: evaluating one yields exactly one Value.
type Expr interface{ exprNode() }

type (
	// BinaryExpr is a left-associative binary operation; both operands
	// are evaluated eagerly, left before right.
	BinaryExpr struct {
		Left  Expr
		Op    BinaryOp
		Right Expr
	}

	// LogicalExpr is a short-circuiting "and"/"or".
	LogicalExpr struct {
		Left  Expr
		Op    LogicalOp
		Right Expr
	}

	// UnaryExpr is a prefix "!" or "-".
	UnaryExpr struct {
		Op      UnaryOp
		Operand Expr
	}

	NumberLit struct{ Value float64 }
	BoolLit   struct{ Value bool }
	NilLit    struct{}
	StringLit struct{ Value string }

	// VariableExpr reads a name from the environment.
	VariableExpr struct{ Name string }

	// AssignExpr writes to an existing binding and yields the assigned
	// value; assignment is right-associative and itself an expression.
	AssignExpr struct {
		Name  string
		Value Expr
	}
)

func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*UnaryExpr) exprNode()    {}
func (*NumberLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*NilLit) exprNode()       {}
func (*StringLit) exprNode()    {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}

// Stmt is a statement node, executed for effect.
type Stmt interface{ stmtNode() }

type (
	// BlockStmt executes its statements in order inside a fresh scope.
	BlockStmt struct{ Stmts []Stmt }

	// ExprStmt evaluates an expression and discards the value.
	ExprStmt struct{ Expr Expr }

	// LetStmt defines Name in the current scope. A nil Init leaves the
	// binding declared but uninitialized, which is distinct from nil.
	LetStmt struct {
		Name string
		Init Expr
	}

	// PrintStmt writes a textual rendering of its value to the output.
	PrintStmt struct{ Expr Expr }

	// IfStmt executes Then when the condition holds, otherwise Else when
	// present.
	IfStmt struct {
		Cond Expr
		Then Stmt
		Else Stmt
	}
)

func (*BlockStmt) stmtNode() {}
func (*ExprStmt) stmtNode()  {}
func (*LetStmt) stmtNode()   {}
func (*PrintStmt) stmtNode() {}
func (*IfStmt) stmtNode()    {}

// Program is an ordered statement sequence, evaluated top to bottom.
type Program = []Stmt
