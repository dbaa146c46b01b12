package main

import (
	"github.com/charmbracelet/lipgloss"

	"qtermtikz/quantikz"
)

// Preview is the terminal rendition of a translated diagram. It keeps the
// cell grid of a Result and derives the connectors quantikz would draw.
type Preview struct {
	Rows            [][]quantikz.Cell
	Labels          []string
	ClassicalRows   [][]quantikz.Cell
	ClassicalLabels []string

	// wireTypes[w][col] is the style of quantum wire w in column col.
	wireTypes [][]quantikz.WireType
	// links holds the measurement-to-bit connections of each column.
	links map[int][]link
}

// link connects a measured quantum wire to the classical bit it writes.
type link struct {
	wire int
	bit  int
}

// NewPreview builds the preview grid of a translation result.
func NewPreview(res *quantikz.Result) *Preview {
	p := &Preview{
		Rows:            res.Rows,
		Labels:          res.Labels,
		ClassicalRows:   res.ClassicalRows,
		ClassicalLabels: res.ClassicalLabels,
		links:           make(map[int][]link),
	}

	for _, row := range p.Rows {
		types := make([]quantikz.WireType, len(row))
		cur := quantikz.WireQuantum
		for col, cell := range row {
			if cell.Kind == quantikz.KindWireType {
				cur = cell.Wire
			}
			types[col] = cur
		}
		p.wireTypes = append(p.wireTypes, types)
	}

	bits := make(map[string]int, len(res.ClassicalLabels))
	for i, l := range res.ClassicalLabels {
		bits[l] = i
	}
	for label, ms := range res.Measurements {
		bit, ok := bits[label]
		if !ok {
			continue
		}
		for _, m := range ms {
			p.links[m.Column] = append(p.links[m.Column], link{wire: m.Wire, bit: bit})
		}
	}
	return p
}

// NumQubits returns the number of quantum rows.
func (p *Preview) NumQubits() int {
	return len(p.Rows)
}

// NumCbits returns the number of classical rows.
func (p *Preview) NumCbits() int {
	return len(p.ClassicalRows)
}

// Width returns the number of columns.
func (p *Preview) Width() int {
	for _, row := range p.Rows {
		return len(row)
	}
	for _, row := range p.ClassicalRows {
		return len(row)
	}
	return 0
}

// Cell returns the cell of quantum wire w in column col.
func (p *Preview) Cell(w, col int) quantikz.Cell {
	if w < 0 || w >= len(p.Rows) || col < 0 || col >= len(p.Rows[w]) {
		return quantikz.Cell{}
	}
	return p.Rows[w][col]
}

// cellInfo describes what occupies a single cell in the preview grid.
type cellInfo struct {
	cell quantikz.Cell
	wire quantikz.WireType

	// vertAbove and vertBelow mark a quantum connector (control, swap)
	// leaving the cell; dblAbove and dblBelow a classical one.
	vertAbove bool
	vertBelow bool
	dblAbove  bool
	dblBelow  bool
	// passThrough marks an empty cell crossed by a connector.
	passThrough bool

	// blockTop and blockEnd delimit a multi-row gate; inBlock is set on
	// every row it covers.
	inBlock  bool
	blockTop bool
	blockEnd bool

	isBarrier bool
}

// getCellInfo returns rendering information for quantum wire w in column
// col.
func (p *Preview) getCellInfo(col, w int) cellInfo {
	info := cellInfo{
		cell: p.Cell(w, col),
		wire: quantikz.WireQuantum,
	}
	if w < len(p.wireTypes) && col < len(p.wireTypes[w]) {
		info.wire = p.wireTypes[w][col]
	}

	span := func(from, to int, classical bool) {
		lo, hi := min(from, to), max(from, to)
		if w < lo || w > hi {
			return
		}
		if classical {
			info.dblAbove = info.dblAbove || w > lo
			info.dblBelow = info.dblBelow || w < hi
		} else {
			info.vertAbove = info.vertAbove || w > lo
			info.vertBelow = info.vertBelow || w < hi
		}
		if w > lo && w < hi && info.cell.IsNoOp() {
			info.passThrough = true
		}
	}

	for r := range p.Rows {
		c := p.Cell(r, col)
		switch c.Kind {
		case quantikz.KindCtrl, quantikz.KindSwap:
			if c.Offset != 0 {
				span(r, r+c.Offset, false)
			}
		case quantikz.KindMeter:
			if c.Offset != 0 {
				span(r, r+c.Offset, true)
			}
		case quantikz.KindGate:
			if c.Span > 1 && w >= r && w < r+c.Span {
				info.inBlock = true
				info.blockTop = w == r
				info.blockEnd = w == r+c.Span-1
			}
		case quantikz.KindBarrier:
			if w >= r && w < r+c.Span {
				info.isBarrier = true
			}
		}
	}

	// Measurement results run down past every quantum wire below the
	// measured one.
	for _, l := range p.links[col] {
		if w == l.wire {
			info.dblBelow = true
		}
		if w > l.wire {
			info.dblAbove = true
			info.dblBelow = true
			if info.cell.IsNoOp() {
				info.passThrough = true
			}
		}
	}
	return info
}

// classicalCell describes classical bit b in column col: whether a result
// lands on it and whether a connector crosses it on the way down.
func (p *Preview) classicalCell(col, b int) (landing, crossing bool) {
	if b < len(p.ClassicalRows) && col < len(p.ClassicalRows[b]) {
		landing = p.ClassicalRows[b][col].Kind == quantikz.KindLanding
	}
	for _, l := range p.links[col] {
		if l.bit > b {
			crossing = true
		}
	}
	return landing, crossing
}

// linkAt reports whether a measurement result leaves the quantum part of
// the grid in column col.
func (p *Preview) linkAt(col int) bool {
	return len(p.links[col]) > 0
}

// columnWidth returns the cell width needed for column col.
func (p *Preview) columnWidth(col int) int {
	w := cellW
	for r := range p.Rows {
		c := p.Cell(r, col)
		if c.Kind != quantikz.KindGate && c.Kind != quantikz.KindLabel {
			continue
		}
		w = max(w, cellWidthForName(displayLabel(c)))
	}
	return w
}

// cellWidthForName returns the cell width needed for a gate name.
func cellWidthForName(name string) int {
	// box borders plus one wire segment on each side
	return lipgloss.Width(name) + 6
}
