package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qtermtikz/quantikz"
)

func preview(t *testing.T, src string) *Preview {
	t.Helper()
	res, err := quantikz.TranslateSource(src, quantikz.Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	return NewPreview(res)
}

func TestPreviewControls(t *testing.T) {
	p := preview(t, "qubit[3] q;\nh q[0];\ncx q[0], q[2];")
	assert.Equal(t, 3, p.NumQubits())
	assert.Equal(t, 0, p.NumCbits())
	assert.Equal(t, 3, p.Width())

	ctrl := p.getCellInfo(1, 0)
	assert.Equal(t, quantikz.KindCtrl, ctrl.cell.Kind)
	assert.False(t, ctrl.vertAbove)
	assert.True(t, ctrl.vertBelow)

	mid := p.getCellInfo(1, 1)
	assert.True(t, mid.passThrough)
	assert.True(t, mid.vertAbove)
	assert.True(t, mid.vertBelow)

	targ := p.getCellInfo(1, 2)
	assert.Equal(t, quantikz.KindTarg, targ.cell.Kind)
	assert.True(t, targ.vertAbove)
	assert.False(t, targ.vertBelow)

	// Nothing crosses the first column.
	assert.Equal(t, cellInfo{cell: quantikz.Cell{Kind: quantikz.KindWire}, wire: quantikz.WireQuantum}, p.getCellInfo(0, 1))
}

func TestPreviewMeasurement(t *testing.T) {
	p := preview(t, `qubit[2] q;
bit c;
h q[0];
c = measure q[0];
if (c) x q[1];`)
	require.Equal(t, 1, p.NumCbits())

	meter := p.getCellInfo(1, 0)
	assert.Equal(t, quantikz.KindMeter, meter.cell.Kind)
	assert.True(t, meter.dblBelow)
	assert.False(t, meter.dblAbove)

	guarded := p.getCellInfo(1, 1)
	assert.Equal(t, quantikz.KindGate, guarded.cell.Kind)
	assert.True(t, guarded.dblAbove)
	assert.False(t, guarded.passThrough)

	// The measured wire is classical from the relabel column on.
	assert.Equal(t, quantikz.WireQuantum, p.getCellInfo(0, 0).wire)
	assert.Equal(t, quantikz.WireClassical, p.getCellInfo(2, 0).wire)
	assert.Equal(t, quantikz.WireQuantum, p.getCellInfo(2, 1).wire)

	landing, crossing := p.classicalCell(1, 0)
	assert.True(t, landing)
	assert.False(t, crossing)
	landing, _ = p.classicalCell(0, 0)
	assert.False(t, landing)
	assert.True(t, p.linkAt(1))
	assert.False(t, p.linkAt(2))
}

func TestPreviewClassicalCrossing(t *testing.T) {
	p := preview(t, `qubit q;
bit[2] c;
c[1] = measure q;`)

	landing, crossing := p.classicalCell(0, 0)
	assert.False(t, landing)
	assert.True(t, crossing)
	landing, crossing = p.classicalCell(0, 1)
	assert.True(t, landing)
	assert.False(t, crossing)
}

func TestPreviewBlocksAndBarriers(t *testing.T) {
	p := preview(t, "qubit[3] q;\nfoo q[0], q[2];\nbarrier q[0], q[1];")

	top := p.getCellInfo(0, 0)
	assert.True(t, top.inBlock)
	assert.True(t, top.blockTop)
	assert.False(t, top.blockEnd)

	inner := p.getCellInfo(0, 1)
	assert.True(t, inner.inBlock)
	assert.False(t, inner.blockTop)
	assert.False(t, inner.blockEnd)

	end := p.getCellInfo(0, 2)
	assert.True(t, end.blockEnd)

	assert.True(t, p.getCellInfo(1, 0).isBarrier)
	assert.True(t, p.getCellInfo(1, 1).isBarrier)
	assert.False(t, p.getCellInfo(1, 2).isBarrier)

	assert.Equal(t, cellWidthForName("FOO"), p.columnWidth(0))
	assert.Equal(t, cellW, p.columnWidth(1))
}

func TestEmptyPreview(t *testing.T) {
	p := &Preview{}
	assert.Equal(t, 0, p.Width())
	assert.Equal(t, quantikz.Cell{}, p.Cell(3, 4))
}

func TestSimplifyTeX(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`H`, "H"},
		{`S^\dagger`, "S†"},
		{`\sqrt{X}`, "√X"},
		{`\sqrt{X}^\dagger`, "√X†"},
		{`R_x(\frac{\pi}{2})`, "Rx(π/2)"},
		{`R_z(\frac{-\pi}{4})`, "Rz(-π/4)"},
		{`R_z(2 \cdot \pi)`, "Rz(2·π)"},
		{`U(\theta,\phi,\lambda)`, "U(θ,φ,λ)"},
		{`$|0\rangle$`, "|0⟩"},
		{`\frac{\frac{\pi}{2}}{3}`, "π/2/3"},
	}

	for _, tt := range tests {
		if got := simplifyTeX(tt.input); got != tt.want {
			t.Errorf("simplifyTeX(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderCellWidth(t *testing.T) {
	infos := []cellInfo{
		{},
		{cell: quantikz.Cell{Kind: quantikz.KindWire}, wire: quantikz.WireClassical},
		{cell: quantikz.Cell{Kind: quantikz.KindCtrl, Offset: 1}, vertBelow: true},
		{cell: quantikz.Cell{Kind: quantikz.KindTarg}, vertAbove: true},
		{cell: quantikz.Cell{Kind: quantikz.KindGate, Label: "H", Span: 1}, vertAbove: true},
		{cell: quantikz.Cell{Kind: quantikz.KindMeter, Offset: 1}, dblBelow: true},
		{cell: quantikz.Cell{Kind: quantikz.KindGate, Label: "U", Span: 2}, inBlock: true, blockTop: true},
		{cell: quantikz.Cell{Kind: quantikz.KindWire}, inBlock: true, blockEnd: true},
		{cell: quantikz.Cell{Kind: quantikz.KindBarrier, Span: 2}, isBarrier: true},
		{cell: quantikz.Cell{Kind: quantikz.KindWire}, passThrough: true, dblAbove: true, dblBelow: true},
	}

	for _, width := range []int{cellW, 12} {
		for _, hl := range []cellHighlight{hlNone, hlCursor} {
			for i, info := range infos {
				top, mid, bot := renderCell(info, width, hl)
				for _, line := range []string{top, mid, bot} {
					if n := lipgloss.Width(line); n != width {
						t.Errorf("cell %d (width %d, hl %d): line %q has width %d", i, width, hl, line, n)
					}
				}
			}
		}
		for _, flags := range [][2]bool{{false, false}, {true, false}, {false, true}} {
			if n := lipgloss.Width(renderClassicalCell(flags[0], flags[1], width)); n != width {
				t.Errorf("classical cell %v: width %d, want %d", flags, n, width)
			}
		}
	}
}

func TestRenderCellSymbols(t *testing.T) {
	_, mid, bot := renderCell(cellInfo{cell: quantikz.Cell{Kind: quantikz.KindCtrl}, vertBelow: true}, cellW, hlNone)
	assert.Contains(t, mid, "●")
	assert.Contains(t, bot, "│")

	top, mid, _ := renderCell(cellInfo{cell: quantikz.Cell{Kind: quantikz.KindGate, Label: "X", Span: 1}, dblAbove: true}, cellW, hlNone)
	assert.Contains(t, top, "╨")
	assert.Contains(t, mid, "┤X├")

	_, mid, _ = renderCell(cellInfo{wire: quantikz.WireClassical}, cellW, hlNone)
	assert.Equal(t, strings.Repeat("═", cellW), mid)

	_, mid, _ = renderCell(cellInfo{wire: quantikz.WireNone}, cellW, hlNone)
	assert.Equal(t, strings.Repeat(" ", cellW), mid)
}

func TestPadCenter(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"H", 5, "  H  "},
		{"Rx", 5, " Rx  "},
		{"toolong", 4, "tool"},
		{"日本", 6, " 日本 "},
		{"日本語", 5, "日本 "},
		{"──", 2, "──"},
	}

	for _, tt := range tests {
		got := padCenter(tt.input, tt.width)
		assert.Equal(t, tt.want, got, "padCenter(%q, %d)", tt.input, tt.width)
		assert.Equal(t, tt.width, lipgloss.Width(got))
	}
}

func TestOverlayAt(t *testing.T) {
	assert.Equal(t, "abcdef\nghXYkl", overlayAt("abcdef\nghijkl", "XY", 2, 1))
	assert.Equal(t, "ab\ncd  Z", overlayAt("ab\ncd", "Z", 4, 1))
	assert.Equal(t, "\x1b[1maZc\x1b[0mdef", overlayAt("\x1b[1mabc\x1b[0mdef", "Z", 1, 0))

	// Wide runes take two cells.
	assert.Equal(t, "日X 語", overlayAt("日本語", "X", 2, 0))
	assert.Equal(t, "日本XY", overlayAt("日本語", "XY", 4, 0))
	assert.Equal(t, "日本語  Z", overlayAt("日本語", "Z", 8, 0))
}
