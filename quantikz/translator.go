package quantikz

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qtermtikz/qasm"
)

// Options controls diagram emission.
type Options struct {
	// RowSep and ColumnSep are copied verbatim into the quantikz option
	// block, e.g. "0.4cm". Empty values are omitted.
	RowSep    string
	ColumnSep string
	Logger    *zap.Logger
}

// Result is a successful translation.
type Result struct {
	TeX string

	// Rows holds one cell list per quantum wire, without the initial
	// label. Labels holds the matching register-derived names.
	Rows   [][]Cell
	Labels []string

	// ClassicalRows mirrors Rows for classical bits. Classical rows are
	// not part of the quantikz output.
	ClassicalRows   [][]Cell
	ClassicalLabels []string

	// Measurements maps a classical bit label to every measurement that
	// wrote it, in source order.
	Measurements map[string][]Measurement

	Warnings []error
}

// translation is the state of one Translate call.
type translation struct {
	opts   Options
	log    *zap.Logger
	layout *Layout
	cols   *columns
	res    *resolver

	// measures maps a classical bit to the top-level statement indices of
	// the measurements that write it, ascending.
	measures map[int][]int

	errs  []error
	warns []error
}

// TranslateSource parses OpenQASM source text and translates it.
func TranslateSource(src string, opts Options) (*Result, error) {
	prog, err := qasm.Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return Translate(prog, opts)
}

// Translate converts a parsed program into a quantikz diagram. Structural
// problems are collected and returned together as a
// *TranslationFailedError.
func Translate(prog *qasm.Program, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	t := &translation{
		opts:     opts,
		log:      log,
		layout:   NewLayout(),
		res:      newResolver(),
		measures: make(map[int][]int),
	}

	for i, stmt := range prog.Statements {
		t.collect(i, stmt)
	}
	t.cols = newColumns(t.layout.NumQubits(), t.layout.NumBits())
	for i, stmt := range prog.Statements {
		t.apply(i, stmt)
	}
	for _, op := range t.res.unresolved() {
		t.warn(op.gate.At, &UnresolvedClassicalGuardError{
			Bit:  t.layout.BitLabel(op.bit),
			Gate: op.gate.String(),
		})
	}
	return t.emit()
}

// fail records a structural error. The statement is skipped.
func (t *translation) fail(pos qasm.Pos, err error) {
	if pos.IsValid() {
		err = errors.WithMessage(err, pos.String())
	}
	t.log.Debug("statement skipped", zap.Error(err))
	t.errs = append(t.errs, err)
}

func (t *translation) warn(pos qasm.Pos, err error) {
	if pos.IsValid() {
		err = errors.WithMessage(err, pos.String())
	}
	t.log.Warn("translation warning", zap.Error(err))
	t.warns = append(t.warns, err)
}

// collect is the first pass: declarations and branches.
func (t *translation) collect(i int, stmt qasm.Statement) {
	switch s := stmt.(type) {
	case *qasm.QubitDecl:
		if _, err := t.layout.AddQuantum(s.Name, s.Size); err != nil {
			t.fail(s.At, err)
		}
	case *qasm.BitDecl:
		if _, err := t.layout.AddClassical(s.Name, s.Size); err != nil {
			t.fail(s.At, err)
		}
	case *qasm.Branch:
		t.collectBranch(i, s)
	case *qasm.Measure:
		if s.Target == nil {
			return
		}
		// Unresolvable targets are reported by the second pass.
		if bit, err := t.layout.ResolveBit(*s.Target); err == nil {
			t.measures[bit] = append(t.measures[bit], i)
		}
	case *qasm.ClassicalDecl, *qasm.GateDef, *qasm.GateCall, *qasm.Barrier, *qasm.Reset:
	}
}

// apply is the second pass: everything that occupies columns.
func (t *translation) apply(i int, stmt qasm.Statement) {
	switch s := stmt.(type) {
	case *qasm.GateCall:
		t.gate(s)
	case *qasm.Measure:
		t.measure(i, s)
	case *qasm.Barrier:
		t.barrier(s)
	case *qasm.Reset:
		t.reset(s)
	case *qasm.ClassicalDecl:
		t.log.Debug("classical declaration ignored", zap.String("name", s.Name))
	case *qasm.GateDef:
		t.log.Debug("gate definition ignored", zap.String("name", s.Name))
	case *qasm.QubitDecl, *qasm.BitDecl, *qasm.Branch:
	}
}

// collectBranch queues the gates of a branch guarded by one classical bit.
func (t *translation) collectBranch(i int, b *qasm.Branch) {
	if len(b.Else) > 0 {
		t.warn(b.At, &UnsupportedGuardedStatementError{Stmt: "else block"})
	}
	bit, ok := t.conditionBit(b)
	if !ok {
		return
	}
	for _, stmt := range b.Then {
		g, ok := stmt.(*qasm.GateCall)
		if !ok {
			t.warn(stmt.Pos(), &UnsupportedGuardedStatementError{Stmt: stmt.String()})
			continue
		}
		t.res.collect(bit, i, g)
	}
}

// conditionBit extracts the single classical bit a branch tests. Accepted
// forms are `c`, `c[i]`, `c == 1`, `c[i] == 1` and `1 == c`.
func (t *translation) conditionBit(b *qasm.Branch) (int, bool) {
	cond := b.Cond
	if bin, ok := cond.(*qasm.BinaryExpr); ok && bin.Op == qasm.OpEq {
		switch {
		case isOne(bin.RHS):
			cond = bin.LHS
		case isOne(bin.LHS):
			cond = bin.RHS
		}
	}

	unsupported := func(reason string) (int, bool) {
		t.warn(b.At, &UnsupportedConditionError{
			Cond:   b.Cond.String(),
			Reason: reason,
		})
		return 0, false
	}

	var ref qasm.Ref
	switch c := cond.(type) {
	case *qasm.Ident:
		ref = qasm.Ref{Name: c.Name}
	case *qasm.IndexExpr:
		ref = qasm.Ref{Name: c.Name, Index: c.Index}
	default:
		return unsupported("not a single classical bit")
	}

	reg, ok := t.layout.Register(Classical, ref.Name)
	if !ok {
		t.fail(b.At, &UnknownRegisterError{Kind: Classical, Name: ref.Name})
		return 0, false
	}
	if ref.Index == nil && reg.Size > 1 {
		return unsupported("multi-bit register")
	}
	if ref.Index != nil {
		if _, ok := ref.LiteralIndex(); !ok {
			return unsupported("non-literal index")
		}
	}
	bit, err := t.layout.ResolveBit(ref)
	if err != nil {
		t.fail(b.At, err)
		return 0, false
	}
	return bit, true
}

func isOne(e qasm.Expr) bool {
	lit, ok := e.(*qasm.IntLit)
	return ok && lit.Value == 1
}

// qubits resolves every operand of a gate to a distinct wire.
func (t *translation) qubits(g *qasm.GateCall) ([]int, bool) {
	wires := make([]int, 0, len(g.Qubits))
	seen := make(map[int]bool)
	ok := true
	for _, ref := range g.Qubits {
		w, err := t.layout.ResolveQubit(ref)
		if err != nil {
			t.fail(ref.At, err)
			ok = false
			continue
		}
		if seen[w] {
			t.fail(ref.At, &DuplicateOperandError{Gate: g.Name, Operand: ref.String()})
			ok = false
			continue
		}
		seen[w] = true
		wires = append(wires, w)
	}
	return wires, ok
}

func (t *translation) gate(g *qasm.GateCall) {
	wires, ok := t.qubits(g)
	if !ok {
		return
	}
	cells, err := renderGate(g, wires)
	if err != nil {
		t.fail(g.At, err)
		return
	}
	col := t.cols.advance()
	t.place(cells)
	t.log.Debug("gate placed",
		zap.String("gate", g.Name),
		zap.Ints("wires", wires),
		zap.Int("column", col))
}

func (t *translation) place(cells []placement) {
	for _, p := range cells {
		t.cols.place(p.wire, p.cell)
	}
}

// nextMeasure returns the statement index of the first measurement into
// bit after statement i.
func (t *translation) nextMeasure(bit, i int) int {
	for _, j := range t.measures[bit] {
		if j > i {
			return j
		}
	}
	return math.MaxInt
}
