package quantikz

import (
	"strings"

	"qtermtikz/qasm"
)

// singleQubitGates maps standard gate names to their labels.
var singleQubitGates = map[string]string{
	"id":   "I",
	"i":    "I",
	"h":    "H",
	"x":    "X",
	"y":    "Y",
	"z":    "Z",
	"s":    "S",
	"sdg":  `S^\dagger`,
	"t":    "T",
	"tdg":  `T^\dagger`,
	"sx":   `\sqrt{X}`,
	"sxdg": `\sqrt{X}^\dagger`,
}

// controlledGates maps two-qubit controlled gates to the label drawn on
// the target.
var controlledGates = map[string]string{
	"cy": "Y",
	"cz": "Z",
	"ch": "H",
}

// controlledRotations maps controlled parameterized gates to their inner
// rotation.
var controlledRotations = map[string]string{
	"crx":    "rx",
	"cry":    "ry",
	"crz":    "rz",
	"cp":     "p",
	"cphase": "p",
	"cu1":    "u1",
}

var rotationLabels = map[string]string{
	"rx": "R_x",
	"ry": "R_y",
	"rz": "R_z",
}

// placement is one cell destined for a wire.
type placement struct {
	wire int
	cell Cell
}

// renderGate computes the cells of a gate application on resolved wires.
// It does not touch the grid.
func renderGate(g *qasm.GateCall, wires []int) ([]placement, error) {
	name := strings.ToLower(g.Name)
	n := len(wires)

	arity := func(want int) error {
		if n != want {
			return &ArityError{Gate: g.Name, Want: want, Got: n}
		}
		return nil
	}

	if n == 0 {
		return nil, &ArityError{Gate: g.Name, Want: 1, Got: 0}
	}
	if lbl, ok := singleQubitGates[name]; ok {
		if err := arity(1); err != nil {
			return nil, err
		}
		return []placement{{wires[0], gate(lbl)}}, nil
	}
	if lbl, ok := controlledGates[name]; ok {
		if err := arity(2); err != nil {
			return nil, err
		}
		return controlled(wires[0], wires[1], gate(lbl)), nil
	}
	if inner, ok := controlledRotations[name]; ok {
		if err := arity(2); err != nil {
			return nil, err
		}
		return controlled(wires[0], wires[1], gate(rotationLabel(inner, param(g, 0)))), nil
	}

	switch name {
	case "cx", "cnot":
		if err := arity(2); err != nil {
			return nil, err
		}
		return controlled(wires[0], wires[1], targ()), nil

	case "swap":
		if err := arity(2); err != nil {
			return nil, err
		}
		return []placement{
			{wires[0], swap(wires[1] - wires[0])},
			{wires[1], targX()},
		}, nil

	case "ccx", "toffoli":
		if err := arity(3); err != nil {
			return nil, err
		}
		return []placement{
			{wires[0], ctrl(wires[1] - wires[0])},
			{wires[1], ctrl(wires[2] - wires[1])},
			{wires[2], targ()},
		}, nil

	case "cswap", "fredkin":
		if err := arity(3); err != nil {
			return nil, err
		}
		return []placement{
			{wires[0], ctrl(wires[1] - wires[0])},
			{wires[1], swap(wires[2] - wires[1])},
			{wires[2], targX()},
		}, nil

	case "u", "u3":
		if err := arity(1); err != nil {
			return nil, err
		}
		lbl := "U(" + param(g, 0) + "," + param(g, 1) + "," + param(g, 2) + ")"
		return []placement{{wires[0], gate(lbl)}}, nil
	}

	if strings.HasPrefix(name, "r") && n == 1 {
		return []placement{{wires[0], gate(rotationLabel(name, param(g, 0)))}}, nil
	}
	return generalGate(g, wires), nil
}

func controlled(c, t int, target Cell) []placement {
	return []placement{
		{c, ctrl(t - c)},
		{t, target},
	}
}

func rotationLabel(name, theta string) string {
	if lbl, ok := rotationLabels[name]; ok {
		return lbl + "(" + theta + ")"
	}
	return strings.ToUpper(name) + "(" + theta + ")"
}

func param(g *qasm.GateCall, i int) string {
	if i >= len(g.Params) {
		return FormatAngle(nil)
	}
	return FormatAngle(g.Params[i])
}

// generalGate draws an unknown gate as a box. A multi-qubit box spans
// every row from the lowest to the highest operand.
func generalGate(g *qasm.GateCall, wires []int) []placement {
	lbl := strings.ToUpper(g.Name)
	if len(g.Params) > 0 {
		params := make([]string, len(g.Params))
		for i, p := range g.Params {
			params[i] = FormatAngle(p)
		}
		lbl += "(" + strings.Join(params, ",") + ")"
	}
	if len(wires) == 1 {
		return []placement{{wires[0], gate(lbl)}}
	}

	lo, hi := wires[0], wires[0]
	for _, w := range wires[1:] {
		lo = min(lo, w)
		hi = max(hi, w)
	}
	out := []placement{{lo, blockGate(lbl, hi-lo+1)}}
	for w := lo + 1; w <= hi; w++ {
		out = append(out, placement{w, wire()})
	}
	return out
}

// footprint returns the wires a set of placements occupies.
func footprint(ps []placement) []int {
	wires := make([]int, len(ps))
	for i, p := range ps {
		wires[i] = p.wire
	}
	return wires
}
