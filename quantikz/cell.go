package quantikz

import (
	"fmt"
)

// CellKind identifies the quantikz token a cell renders to.
type CellKind int

const (
	KindWire CellKind = iota
	KindClassicalWire
	KindLabel
	KindGate
	KindCtrl
	KindTarg
	KindSwap
	KindTargX
	KindMeter
	KindWireType
	KindBarrier
	KindLanding
)

var cellKinds = map[CellKind]string{
	KindWire:          "wire",
	KindClassicalWire: "cwire",
	KindLabel:         "label",
	KindGate:          "gate",
	KindCtrl:          "ctrl",
	KindTarg:          "targ",
	KindSwap:          "swap",
	KindTargX:         "targX",
	KindMeter:         "meter",
	KindWireType:      "wiretype",
	KindBarrier:       "barrier",
	KindLanding:       "landing",
}

func (k CellKind) String() string {
	if name, ok := cellKinds[k]; ok {
		return name
	}
	return fmt.Sprintf("{CellKind %d}", int(k))
}

// WireType is the drawing style of a wire from a given column onwards.
type WireType string

const (
	WireQuantum   WireType = "q"
	WireClassical WireType = "c"
	WireNone      WireType = "n"
)

// Cell is one grid position. Cells are values; the zero Cell is a quantum
// no-op wire segment.
type Cell struct {
	Kind CellKind
	// Label is the gate text or the initial-state label.
	Label string
	// Span is the number of rows covered by a block gate or a barrier.
	Span int
	// Offset is the signed row distance to the partner of a control, a
	// swap, or the classical connector of a meter. Zero means none.
	Offset int
	// Wire is the new wire type of a KindWireType cell.
	Wire WireType
}

func wire() Cell {
	return Cell{Kind: KindWire}
}

func classicalWire() Cell {
	return Cell{Kind: KindClassicalWire}
}

func label(text string) Cell {
	return Cell{Kind: KindLabel, Label: text}
}

func gate(text string) Cell {
	return Cell{Kind: KindGate, Label: text, Span: 1}
}

func blockGate(text string, span int) Cell {
	return Cell{Kind: KindGate, Label: text, Span: span}
}

func ctrl(offset int) Cell {
	return Cell{Kind: KindCtrl, Offset: offset}
}

func targ() Cell {
	return Cell{Kind: KindTarg}
}

func swap(offset int) Cell {
	return Cell{Kind: KindSwap, Offset: offset}
}

func targX() Cell {
	return Cell{Kind: KindTargX}
}

func meter(offset int) Cell {
	return Cell{Kind: KindMeter, Offset: offset}
}

func setWireType(t WireType) Cell {
	return Cell{Kind: KindWireType, Wire: t}
}

func barrier(span int) Cell {
	return Cell{Kind: KindBarrier, Span: span}
}

func landing() Cell {
	return Cell{Kind: KindLanding}
}

// IsNoOp reports whether the cell only continues its wire.
func (c Cell) IsNoOp() bool {
	return c.Kind == KindWire || c.Kind == KindClassicalWire
}

// TeX returns the quantikz source of the cell.
func (c Cell) TeX() string {
	switch c.Kind {
	case KindWire:
		return `\qw`
	case KindClassicalWire, KindLanding:
		return `\cw`
	case KindLabel:
		return fmt.Sprintf(`\lstick{%s}`, c.Label)
	case KindGate:
		if c.Span > 1 {
			return fmt.Sprintf(`\gate[%d]{%s}`, c.Span, c.Label)
		}
		return fmt.Sprintf(`\gate{%s}`, c.Label)
	case KindCtrl:
		return fmt.Sprintf(`\ctrl{%d}`, c.Offset)
	case KindTarg:
		return `\targ{}`
	case KindSwap:
		return fmt.Sprintf(`\swap{%d}`, c.Offset)
	case KindTargX:
		return `\targX{}`
	case KindMeter:
		if c.Offset == 0 {
			return `\meter{}`
		}
		dir, n := "d", c.Offset
		if n < 0 {
			dir, n = "u", -n
		}
		return fmt.Sprintf(`\meter{}\wire[%s][%d]{c}`, dir, n)
	case KindWireType:
		if c.Wire == WireQuantum {
			return `\setwiretype{q}\qw`
		}
		return fmt.Sprintf(`\setwiretype{%s}`, c.Wire)
	case KindBarrier:
		return fmt.Sprintf(`\barrier{%d}`, c.Span)
	}
	return ""
}

func (c Cell) String() string {
	return c.TeX()
}
