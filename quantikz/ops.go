package quantikz

import (
	"slices"

	"go.uber.org/zap"

	"qtermtikz/qasm"
)

// measure places a meter and every guarded gate that waits for its bit in
// the same column, then switches the measured wire to classical.
func (t *translation) measure(i int, m *qasm.Measure) {
	w, err := t.layout.ResolveQubit(m.Qubit)
	if err != nil {
		t.fail(m.Qubit.At, err)
		return
	}
	bit := -1
	if m.Target != nil {
		bit, err = t.layout.ResolveBit(*m.Target)
		if err != nil {
			t.fail(m.Target.At, err)
			return
		}
	}

	col := t.cols.advance()
	var guarded []pendingOp
	if bit >= 0 {
		guarded = t.res.take(bit, t.nextMeasure(bit, i))
		t.res.record(bit, w, col)
	}

	occupied := map[int]bool{w: true}
	var affected []int
	var displaced [][]placement
	var displacedGates []*qasm.GateCall
	for _, op := range guarded {
		wires, ok := t.qubits(op.gate)
		if !ok {
			continue
		}
		cells, err := renderGate(op.gate, wires)
		if err != nil {
			t.fail(op.gate.At, err)
			continue
		}
		fp := footprint(cells)
		if slices.ContainsFunc(fp, func(w int) bool { return occupied[w] }) {
			displaced = append(displaced, cells)
			displacedGates = append(displacedGates, op.gate)
			continue
		}
		for _, w := range fp {
			occupied[w] = true
		}
		affected = append(affected, wires...)
		t.place(cells)
	}

	offset := 0
	if target, ok := farthest(w, affected); ok {
		offset = target - w
	}
	t.cols.place(w, meter(offset))
	if bit >= 0 {
		t.cols.land(bit, landing())
	}
	t.log.Debug("measurement placed",
		zap.String("qubit", m.Qubit.String()),
		zap.Int("column", col),
		zap.Int("guarded", len(guarded)-len(displaced)))

	for j, cells := range displaced {
		next := t.cols.advance()
		t.place(cells)
		t.warn(displacedGates[j].At, &DisplacedGuardError{
			Gate:   displacedGates[j].String(),
			Column: next,
		})
	}

	t.cols.advance()
	t.cols.place(w, setWireType(WireClassical))
}

// operands expands barrier and reset operands to sorted, distinct wires.
func (t *translation) operands(refs []qasm.Ref) ([]int, bool) {
	var wires []int
	ok := true
	for _, ref := range refs {
		ws, err := t.layout.Expand(Quantum, ref)
		if err != nil {
			t.fail(ref.At, err)
			ok = false
			continue
		}
		wires = append(wires, ws...)
	}
	slices.Sort(wires)
	return slices.Compact(wires), ok
}

func (t *translation) barrier(b *qasm.Barrier) {
	var wires []int
	if len(b.Qubits) == 0 {
		for w := 0; w < t.layout.NumQubits(); w++ {
			wires = append(wires, w)
		}
	} else {
		var ok bool
		wires, ok = t.operands(b.Qubits)
		if !ok {
			return
		}
	}
	if len(wires) == 0 {
		return
	}

	lo, hi := wires[0], wires[len(wires)-1]
	t.cols.advance()
	t.cols.place(lo, barrier(hi-lo+1))
	for _, w := range wires[1:] {
		t.cols.place(w, wire())
	}
}

// reset draws each operand as measured, cut, re-initialized to |0> and
// restored to a quantum wire, one column per step.
func (t *translation) reset(r *qasm.Reset) {
	wires, ok := t.operands(r.Qubits)
	if !ok {
		return
	}
	if len(wires) == 0 {
		t.warn(r.At, &MissingOperandsError{Stmt: r.String()})
		return
	}
	steps := []Cell{
		meter(0),
		setWireType(WireNone),
		label(`$|0\rangle$`),
		setWireType(WireQuantum),
	}
	for _, w := range wires {
		for _, cell := range steps {
			t.cols.advance()
			t.cols.place(w, cell)
		}
	}
}
