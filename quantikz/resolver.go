package quantikz

import (
	"qtermtikz/qasm"
)

// pendingOp is a gate guarded by a single classical bit, waiting for the
// measurement that sets it. pos is the index of the branch among the
// top-level statements.
type pendingOp struct {
	bit  int
	pos  int
	gate *qasm.GateCall
}

// Measurement records where a classical bit was written.
type Measurement struct {
	Wire   int
	Column int
}

// resolver pairs guarded gates with measurements. Pending ops keep their
// source order; the measurement map is append-only.
type resolver struct {
	pending  []pendingOp
	measured map[int][]Measurement
}

func newResolver() *resolver {
	return &resolver{
		measured: make(map[int][]Measurement),
	}
}

func (r *resolver) collect(bit, pos int, g *qasm.GateCall) {
	r.pending = append(r.pending, pendingOp{
		bit:  bit,
		pos:  pos,
		gate: g,
	})
}

// take removes and returns every pending op guarded by bit that appears
// before statement index limit.
func (r *resolver) take(bit, limit int) []pendingOp {
	var taken []pendingOp
	kept := r.pending[:0]
	for _, op := range r.pending {
		if op.bit == bit && op.pos < limit {
			taken = append(taken, op)
		} else {
			kept = append(kept, op)
		}
	}
	r.pending = kept
	return taken
}

func (r *resolver) record(bit, w, col int) {
	r.measured[bit] = append(r.measured[bit], Measurement{
		Wire:   w,
		Column: col,
	})
}

func (r *resolver) unresolved() []pendingOp {
	return r.pending
}

// farthest returns the wire in targets with the largest distance from
// source. Ties keep the first one found.
func farthest(source int, targets []int) (int, bool) {
	best, dist := 0, -1
	for _, t := range targets {
		d := t - source
		if d < 0 {
			d = -d
		}
		if d > dist {
			best, dist = t, d
		}
	}
	return best, dist > 0
}
