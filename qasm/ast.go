package qasm

import (
	"fmt"
	"strconv"
	"strings"
)

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// IsValid reports whether the position came from source text.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Program is a parsed OpenQASM source file.
type Program struct {
	Version    string
	Includes   []string
	Statements []Statement
}

// Statement is one top-level or block statement. The set of implementations
// is closed: QubitDecl, BitDecl, ClassicalDecl, GateDef, GateCall, Measure,
// Barrier, Reset and Branch.
type Statement interface {
	Pos() Pos
	String() string
	stmt()
}

// QubitDecl declares a quantum register (`qreg q[2];` or `qubit[2] q;`).
type QubitDecl struct {
	At   Pos
	Name string
	Size int
}

// BitDecl declares a classical bit register (`creg c[2];` or `bit[2] c;`).
type BitDecl struct {
	At   Pos
	Name string
	Size int
}

// ClassicalDecl is any non-bit classical declaration (int, float, angle...).
type ClassicalDecl struct {
	At   Pos
	Type string
	Name string
	Init Expr
}

// GateDef is a custom gate definition. Only the signature is kept.
type GateDef struct {
	At     Pos
	Name   string
	Params []string
	Qubits []string
}

// GateCall applies a gate to qubits.
type GateCall struct {
	At     Pos
	Name   string
	Params []Expr
	Qubits []Ref
}

// Measure measures one qubit, optionally storing the outcome in a bit.
type Measure struct {
	At     Pos
	Qubit  Ref
	Target *Ref
}

// Barrier with an empty qubit list spans every qubit.
type Barrier struct {
	At     Pos
	Qubits []Ref
}

// Reset re-initializes qubits to |0>.
type Reset struct {
	At     Pos
	Qubits []Ref
}

// Branch is an if statement guarded by a classical condition.
type Branch struct {
	At   Pos
	Cond Expr
	Then []Statement
	Else []Statement
}

func (s *QubitDecl) Pos() Pos     { return s.At }
func (s *BitDecl) Pos() Pos       { return s.At }
func (s *ClassicalDecl) Pos() Pos { return s.At }
func (s *GateDef) Pos() Pos       { return s.At }
func (s *GateCall) Pos() Pos      { return s.At }
func (s *Measure) Pos() Pos       { return s.At }
func (s *Barrier) Pos() Pos       { return s.At }
func (s *Reset) Pos() Pos         { return s.At }
func (s *Branch) Pos() Pos        { return s.At }

func (*QubitDecl) stmt()     {}
func (*BitDecl) stmt()       {}
func (*ClassicalDecl) stmt() {}
func (*GateDef) stmt()       {}
func (*GateCall) stmt()      {}
func (*Measure) stmt()       {}
func (*Barrier) stmt()       {}
func (*Reset) stmt()         {}
func (*Branch) stmt()        {}

func (s *QubitDecl) String() string {
	if s.Size == 1 {
		return fmt.Sprintf("qubit %s;", s.Name)
	}
	return fmt.Sprintf("qubit[%d] %s;", s.Size, s.Name)
}

func (s *BitDecl) String() string {
	if s.Size == 1 {
		return fmt.Sprintf("bit %s;", s.Name)
	}
	return fmt.Sprintf("bit[%d] %s;", s.Size, s.Name)
}

func (s *ClassicalDecl) String() string {
	if s.Init != nil {
		return fmt.Sprintf("%s %s = %s;", s.Type, s.Name, s.Init)
	}
	return fmt.Sprintf("%s %s;", s.Type, s.Name)
}

func (s *GateDef) String() string {
	var sb strings.Builder
	sb.WriteString("gate ")
	sb.WriteString(s.Name)
	if len(s.Params) > 0 {
		fmt.Fprintf(&sb, "(%s)", strings.Join(s.Params, ", "))
	}
	fmt.Fprintf(&sb, " %s { ... }", strings.Join(s.Qubits, ", "))
	return sb.String()
}

func (s *GateCall) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	if len(s.Params) > 0 {
		sb.WriteString("(")
		sb.WriteString(joinExprs(s.Params))
		sb.WriteString(")")
	}
	sb.WriteString(" ")
	sb.WriteString(joinRefs(s.Qubits))
	sb.WriteString(";")
	return sb.String()
}

func (s *Measure) String() string {
	if s.Target == nil {
		return fmt.Sprintf("measure %s;", s.Qubit)
	}
	return fmt.Sprintf("%s = measure %s;", *s.Target, s.Qubit)
}

func (s *Barrier) String() string {
	if len(s.Qubits) == 0 {
		return "barrier;"
	}
	return fmt.Sprintf("barrier %s;", joinRefs(s.Qubits))
}

func (s *Reset) String() string {
	return fmt.Sprintf("reset %s;", joinRefs(s.Qubits))
}

func (s *Branch) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "if (%s) ", s.Cond)
	writeBlock(&sb, s.Then)
	if len(s.Else) > 0 {
		sb.WriteString(" else ")
		writeBlock(&sb, s.Else)
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, stmts []Statement) {
	if len(stmts) == 1 {
		sb.WriteString(stmts[0].String())
		return
	}
	sb.WriteString("{ ")
	for _, s := range stmts {
		sb.WriteString(s.String())
		sb.WriteString(" ")
	}
	sb.WriteString("}")
}

// Ref names a register or one slot of it. Index is nil for a bare reference.
type Ref struct {
	At    Pos
	Name  string
	Index Expr
}

func (r Ref) String() string {
	if r.Index == nil {
		return r.Name
	}
	return fmt.Sprintf("%s[%s]", r.Name, r.Index)
}

// LiteralIndex returns the integer index of an indexed reference. A
// negated literal such as `q[-1]` is folded to its negative value.
func (r Ref) LiteralIndex() (int, bool) {
	return intLiteral(r.Index)
}

func intLiteral(e Expr) (int, bool) {
	switch e := e.(type) {
	case *IntLit:
		return int(e.Value), true
	case *UnaryExpr:
		if e.Op == OpNeg {
			if v, ok := intLiteral(e.X); ok {
				return -v, true
			}
		}
	}
	return 0, false
}

func joinRefs(refs []Ref) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// Expr is a classical expression. The set of implementations is closed:
// IntLit, FloatLit, Ident, IndexExpr, BinaryExpr, UnaryExpr and CallExpr.
type Expr interface {
	String() string
	expr()
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
}

// FloatLit is a floating point literal.
type FloatLit struct {
	Value float64
}

// Ident is a bare identifier such as `pi`, `theta` or a register name.
type Ident struct {
	Name string
}

// IndexExpr selects one element of a register, e.g. `c[1]`.
type IndexExpr struct {
	Name  string
	Index Expr
}

// BinaryExpr is an infix operation.
type BinaryExpr struct {
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

// UnaryExpr is a prefix operation.
type UnaryExpr struct {
	Op UnaryOp
	X  Expr
}

// CallExpr is a function call such as `sin(theta)`.
type CallExpr struct {
	Func string
	Args []Expr
}

func (*IntLit) expr()     {}
func (*FloatLit) expr()   {}
func (*Ident) expr()      {}
func (*IndexExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*UnaryExpr) expr()  {}
func (*CallExpr) expr()   {}

func (e *IntLit) String() string {
	return strconv.FormatInt(e.Value, 10)
}

func (e *FloatLit) String() string {
	return strconv.FormatFloat(e.Value, 'g', -1, 64)
}

func (e *Ident) String() string {
	return e.Name
}

func (e *IndexExpr) String() string {
	return fmt.Sprintf("%s[%s]", e.Name, e.Index)
}

func (e *BinaryExpr) String() string {
	lhs := e.LHS.String()
	if b, ok := e.LHS.(*BinaryExpr); ok && b.Op.precedence() < e.Op.precedence() {
		lhs = "(" + lhs + ")"
	}
	rhs := e.RHS.String()
	if b, ok := e.RHS.(*BinaryExpr); ok && b.Op.precedence() <= e.Op.precedence() {
		rhs = "(" + rhs + ")"
	}
	return lhs + e.Op.String() + rhs
}

func (e *UnaryExpr) String() string {
	x := e.X.String()
	if _, ok := e.X.(*BinaryExpr); ok {
		x = "(" + x + ")"
	}
	return e.Op.String() + x
}

func (e *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.Func, joinExprs(e.Args))
}

// BinaryOp is an infix operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var binaryOps = map[BinaryOp]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
	OpPow: "**",
	OpEq:  "==",
	OpNeq: "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAnd: "&&",
	OpOr:  "||",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOps[op]; ok {
		return s
	}
	return fmt.Sprintf("{BinaryOp %d}", int(op))
}

func (op BinaryOp) precedence() int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpEq, OpNeq:
		return 3
	case OpLt, OpLe, OpGt, OpGe:
		return 4
	case OpAdd, OpSub:
		return 5
	case OpMul, OpDiv, OpMod:
		return 6
	case OpPow:
		return 7
	}
	return 0
}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	}
	return fmt.Sprintf("{UnaryOp %d}", int(op))
}
