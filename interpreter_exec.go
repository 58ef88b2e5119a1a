// interpreter_exec.go — statement execution and expression evaluation.
//
// Tree-walking evaluation over the ast.go nodes. Truthiness is strict:
// every position that tests a value (`if` conditions, logical operands,
// unary "!") requires a boolean and raises a type error for anything
// else. Unary "-" is arithmetic negation on numbers only. The binary
// operator table lives in applyBinary as an explicit dispatch on the
// operator tag, per the value semantics:
//
//	/ * -        Num,Num -> Num
//	+            Num,Num -> Num; Str,Str -> concatenated Str
//	> >= < <=    Num,Num or Str,Str -> Bool
//	== !=        any,any -> Bool (structural, never fails)
//
// Division by zero is not special-cased and follows IEEE float semantics.
package rox

import "fmt"

// execStmt executes one statement. The returned Value is the result of an
// expression statement (used for REPL echo) and NilValue otherwise.
func (ip *Interpreter) execStmt(s Stmt, env *Env) (Value, error) {
	switch st := s.(type) {
	case *BlockStmt:
		// The child frame is abandoned on every return path, so the
		// scope ends with the block even when a statement fails.
		inner := NewEnv(env)
		for _, sub := range st.Stmts {
			if _, err := ip.execStmt(sub, inner); err != nil {
				return NilValue, err
			}
		}
		return NilValue, nil

	case *ExprStmt:
		return ip.evalExpr(st.Expr, env)

	case *LetStmt:
		if st.Init == nil {
			env.Define(st.Name, nil)
			return NilValue, nil
		}
		v, err := ip.evalExpr(st.Init, env)
		if err != nil {
			return NilValue, err
		}
		env.Define(st.Name, &v)
		return NilValue, nil

	case *PrintStmt:
		v, err := ip.evalExpr(st.Expr, env)
		if err != nil {
			return NilValue, err
		}
		fmt.Fprintln(ip.Out, PrintValue(v))
		return NilValue, nil

	case *IfStmt:
		cond, err := ip.evalExpr(st.Cond, env)
		if err != nil {
			return NilValue, err
		}
		if cond.Tag != VTBool {
			return NilValue, typeErr("'if' condition must be a boolean.")
		}
		if cond.Data.(bool) {
			_, err = ip.execStmt(st.Then, env)
		} else if st.Else != nil {
			_, err = ip.execStmt(st.Else, env)
		}
		return NilValue, err

	default:
		return NilValue, typeErr("unknown statement")
	}
}

// evalExpr evaluates one expression to exactly one Value.
func (ip *Interpreter) evalExpr(e Expr, env *Env) (Value, error) {
	switch ex := e.(type) {
	case *NumberLit:
		return Num(ex.Value), nil
	case *BoolLit:
		return Bool(ex.Value), nil
	case *NilLit:
		return NilValue, nil
	case *StringLit:
		return Str(ex.Value), nil

	case *VariableExpr:
		return env.Get(ex.Name)

	case *AssignExpr:
		v, err := ip.evalExpr(ex.Value, env)
		if err != nil {
			return NilValue, err
		}
		if err := env.Assign(ex.Name, v); err != nil {
			return NilValue, err
		}
		return v, nil

	case *LogicalExpr:
		return ip.evalLogical(ex, env)

	case *UnaryExpr:
		operand, err := ip.evalExpr(ex.Operand, env)
		if err != nil {
			return NilValue, err
		}
		return applyUnary(ex.Op, operand)

	case *BinaryExpr:
		left, err := ip.evalExpr(ex.Left, env)
		if err != nil {
			return NilValue, err
		}
		right, err := ip.evalExpr(ex.Right, env)
		if err != nil {
			return NilValue, err
		}
		return applyBinary(ex.Op, left, right)

	default:
		return NilValue, typeErr("unknown expression")
	}
}

// evalLogical short-circuits "and" on false and "or" on true; otherwise
// the right operand is evaluated and returned. Both evaluated operands
// must be booleans.
func (ip *Interpreter) evalLogical(ex *LogicalExpr, env *Env) (Value, error) {
	left, err := ip.evalExpr(ex.Left, env)
	if err != nil {
		return NilValue, err
	}
	if left.Tag != VTBool {
		return NilValue, typeErr("Operands of logical operator must be boolean.")
	}
	b := left.Data.(bool)
	if ex.Op == OpAnd && !b {
		return left, nil
	}
	if ex.Op == OpOr && b {
		return left, nil
	}
	right, err := ip.evalExpr(ex.Right, env)
	if err != nil {
		return NilValue, err
	}
	if right.Tag != VTBool {
		return NilValue, typeErr("Operands of logical operator must be boolean.")
	}
	return right, nil
}

func applyUnary(op UnaryOp, v Value) (Value, error) {
	switch op {
	case OpNot:
		if v.Tag != VTBool {
			return NilValue, typeErr("Operand must be boolean.")
		}
		return Bool(!v.Data.(bool)), nil
	case OpNeg:
		if v.Tag != VTNum {
			return NilValue, typeErr("Operand must be a number.")
		}
		return Num(-v.Data.(float64)), nil
	}
	return NilValue, typeErr("unknown unary operator")
}

// applyBinary dispatches a binary operation on two already-evaluated
// values, returning a result or a type error.
func applyBinary(op BinaryOp, l, r Value) (Value, error) {
	switch op {
	case OpSub, OpMul, OpDiv:
		if l.Tag != VTNum || r.Tag != VTNum {
			return NilValue, typeErr("Both operands must be of number type.")
		}
		a, b := l.Data.(float64), r.Data.(float64)
		switch op {
		case OpSub:
			return Num(a - b), nil
		case OpMul:
			return Num(a * b), nil
		default:
			return Num(a / b), nil
		}

	case OpAdd:
		if l.Tag == VTNum && r.Tag == VTNum {
			return Num(l.Data.(float64) + r.Data.(float64)), nil
		}
		if l.Tag == VTStr && r.Tag == VTStr {
			return Str(l.Data.(string) + r.Data.(string)), nil
		}
		return NilValue, typeErr("Both operands must be number or string type.")

	case OpGreater, OpGreaterEq, OpLess, OpLessEq:
		return applyOrdering(op, l, r)

	case OpEq:
		return Bool(valuesEqual(l, r)), nil
	case OpNotEq:
		return Bool(!valuesEqual(l, r)), nil
	}
	return NilValue, typeErr("unknown binary operator")
}

// applyOrdering compares two numbers numerically or two strings
// lexicographically; every other pairing is unordered. Comparing against
// NaN yields false, as the host float comparisons do.
func applyOrdering(op BinaryOp, l, r Value) (Value, error) {
	switch {
	case l.Tag == VTNum && r.Tag == VTNum:
		a, b := l.Data.(float64), r.Data.(float64)
		switch op {
		case OpGreater:
			return Bool(a > b), nil
		case OpGreaterEq:
			return Bool(a >= b), nil
		case OpLess:
			return Bool(a < b), nil
		default:
			return Bool(a <= b), nil
		}
	case l.Tag == VTStr && r.Tag == VTStr:
		a, b := l.Data.(string), r.Data.(string)
		switch op {
		case OpGreater:
			return Bool(a > b), nil
		case OpGreaterEq:
			return Bool(a >= b), nil
		case OpLess:
			return Bool(a < b), nil
		default:
			return Bool(a <= b), nil
		}
	default:
		return NilValue, typeErr("Ordering requires two numbers or two strings.")
	}
}

// valuesEqual is structural equality: kind and content must both match.
// There is no implicit coercion between kinds.
func valuesEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	}
	return false
}
