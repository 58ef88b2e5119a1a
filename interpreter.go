// interpreter.go — public API surface of the rox runtime.
//
// This file holds the runtime value model (Value, ValueTag, constructors),
// lexical environments (Env), structured runtime errors (RuntimeError) and
// the Interpreter entry points. Execution itself lives in
// interpreter_exec.go.
//
// Scoping: code evaluates in environments forming a lexical chain via a
// parent link. `Global` is the one environment an Interpreter owns for its
// whole lifetime; block statements execute in throwaway child frames, so a
// scope can never outlive its block, whatever the exit path.
//
// Error isolation: Run reports a runtime failure of one top-level
// statement and proceeds to the next, so one mistake does not hide later
// ones. EvalPersistentSource instead stops at the first failure, which is
// what a REPL wants.
package rox

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// Version of the rox interpreter.
const Version = "0.1.0"

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil  ValueTag = iota // nil (no payload)
	VTBool                 // bool
	VTNum                  // float64
	VTStr                  // string
)

// Value is the runtime tagged union. The tag determines which Go type
// Data holds: nothing for VTNil, bool for VTBool, float64 for VTNum and
// string for VTStr. Equality is structural; see valuesEqual.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// String renders a human-friendly debug representation.
func (v Value) String() string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return fmt.Sprintf("%q", v.Data.(string))
	default:
		return "<unknown>"
	}
}

// NilValue is the singleton nil Value.
var NilValue = Value{Tag: VTNil}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// RuntimeErrorKind classifies execution-time failures.
type RuntimeErrorKind int

const (
	ErrType RuntimeErrorKind = iota
	ErrUndefinedVariable
	ErrUninitializedVariable
)

// RuntimeError is an execution-time failure. Runtime diagnostics are plain
// message strings; they carry no source location.
type RuntimeError struct {
	Kind RuntimeErrorKind
	Msg  string
}

func (e *RuntimeError) Error() string { return e.Msg }

func typeErr(msg string) *RuntimeError {
	return &RuntimeError{Kind: ErrType, Msg: msg}
}

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward, innermost first. A binding's value pointer is nil while the
// name is declared but not yet initialized (`let x;`), which is distinct
// from being bound to the nil value.
type Env struct {
	parent *Env
	table  map[string]*Value
}

// NewEnv creates a new lexical frame with the given parent (may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]*Value)}
}

// Define binds name in the current frame, shadowing any outer binding.
// Redefining a name in the same frame silently replaces the old binding.
// Pass nil to declare the name without a value.
func (e *Env) Define(name string, v *Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding for name. A declared but
// uninitialized binding is an ErrUninitializedVariable; an unknown name is
// an ErrUndefinedVariable.
func (e *Env) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.table[name]; ok {
			if v == nil {
				return Value{}, &RuntimeError{
					Kind: ErrUninitializedVariable,
					Msg:  "Variable is not initialized.",
				}
			}
			return *v, nil
		}
	}
	return Value{}, &RuntimeError{
		Kind: ErrUndefinedVariable,
		Msg:  "Variable is undefined.",
	}
}

// Assign overwrites the nearest existing binding of name, preserving the
// frame it was defined in. It never creates a new binding.
func (e *Env) Assign(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.table[name]; ok {
			env.table[name] = &v
			return nil
		}
	}
	return &RuntimeError{
		Kind: ErrUndefinedVariable,
		Msg:  fmt.Sprintf("Undefined variable '%s'", name),
	}
}

// Interpreter executes rox programs against one Global environment.
//
// Out is the output collaborator print statements write to; it defaults to
// os.Stdout and tests typically point it at a bytes.Buffer. Multiple
// Interpreters are fully isolated from each other: there is no ambient
// state.
type Interpreter struct {
	Global *Env
	Out    io.Writer
}

// NewInterpreter returns a ready-to-use interpreter with an empty Global
// environment writing to stdout.
func NewInterpreter() *Interpreter {
	return &Interpreter{Global: NewEnv(nil), Out: os.Stdout}
}

// Run executes prog top to bottom in the Global environment. A runtime
// error in one top-level statement is collected and execution proceeds
// with the next statement; the collected errors are returned in order.
func (ip *Interpreter) Run(prog Program) []error {
	var errs []error
	for _, s := range prog {
		if _, err := ip.execStmt(s, ip.Global); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Interpret drives the whole pipeline for src: lex, parse, evaluate.
// It returns the parse diagnostics and the runtime errors; both may be
// non-empty for the same source since parsing recovers per statement.
func (ip *Interpreter) Interpret(src string) ([]Diagnostic, []error) {
	prog, diags := ParseProgram(src)
	return diags, ip.Run(prog)
}

// EvalPersistentSource evaluates src in the Global environment and stops
// at the first parse diagnostic or runtime error. When the last statement
// is an expression statement its value is returned, which is what a REPL
// echoes.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	prog, diags := ParseProgram(src)
	if len(diags) > 0 {
		return NilValue, diags[0]
	}
	last := NilValue
	for _, s := range prog {
		v, err := ip.execStmt(s, ip.Global)
		if err != nil {
			return NilValue, err
		}
		if _, ok := s.(*ExprStmt); ok {
			last = v
		} else {
			last = NilValue
		}
	}
	return last, nil
}
