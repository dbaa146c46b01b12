package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"qtermtikz/quantikz"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// termWidth measures runes the way lipgloss does: ambiguous-width runes such
// as box drawing take one cell regardless of locale.
var termWidth = &runewidth.Condition{StrictEmojiNeutral: true}

// padCenter centres a string within the given visual width.
func padCenter(s string, width int) string {
	if lipgloss.Width(s) > width {
		s = termWidth.Truncate(s, width, "")
	}
	total := width - lipgloss.Width(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

var texSymbols = strings.NewReplacer(
	"$", "",
	`\rangle`, "⟩",
	`\langle`, "⟨",
	`\dagger`, "†",
	` \cdot `, "·",
	`\cdot`, "·",
	`\pi`, "π",
	`\theta`, "θ",
	`\phi`, "φ",
	`\lambda`, "λ",
	`\alpha`, "α",
	`\beta`, "β",
	`\gamma`, "γ",
	`\sqrt`, "√",
	"^", "",
	"_", "",
	"{", "",
	"}", "",
)

// simplifyTeX turns a gate label into plain text for the terminal, e.g.
// `R_x(\frac{\pi}{2})` becomes "Rx(π/2)".
func simplifyTeX(s string) string {
	for {
		i := strings.Index(s, `\frac{`)
		if i < 0 {
			break
		}
		num, rest, ok := texGroup(s[i+len(`\frac`):])
		if !ok {
			break
		}
		den, rest, ok := texGroup(rest)
		if !ok {
			break
		}
		s = s[:i] + num + "/" + den + rest
	}
	return texSymbols.Replace(s)
}

// texGroup splits a leading {...} group off s.
func texGroup(s string) (group, rest string, ok bool) {
	if !strings.HasPrefix(s, "{") {
		return "", s, false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", s, false
}

// displayLabel returns the text drawn inside a cell.
func displayLabel(c quantikz.Cell) string {
	switch c.Kind {
	case quantikz.KindGate, quantikz.KindLabel:
		return simplifyTeX(c.Label)
	case quantikz.KindMeter:
		return "M"
	}
	return ""
}

// wireRune returns the horizontal line of a wire type.
func wireRune(t quantikz.WireType) string {
	switch t {
	case quantikz.WireClassical:
		return "═"
	case quantikz.WireNone:
		return " "
	}
	return "─"
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
)

// renderCell returns 3 lines (top, mid, bot) for a single cell. Each line
// is exactly width visual characters wide.
func renderCell(info cellInfo, width int, hl cellHighlight) (top, mid, bot string) {
	if hl == hlCursor {
		_, mid, _ = renderCell(info, width-2, hlNone)
		top = cursorBoxStyle.Render("╔" + strings.Repeat("═", width-2) + "╗")
		mid = cursorBoxStyle.Render("║") + mid + cursorBoxStyle.Render("║")
		bot = cursorBoxStyle.Render("╚" + strings.Repeat("═", width-2) + "╝")
		return
	}

	center := (width - 1) / 2
	emptyRow := strings.Repeat(" ", width)
	vline := func(sym string) string {
		return strings.Repeat(" ", center) + sym + strings.Repeat(" ", width-center-1)
	}
	vertRow := vline("│")
	dblVertRow := vline(cbitConnectorStyle.Render("║"))
	seg := func(n int) string {
		return strings.Repeat(wireRune(info.wire), max(n, 0))
	}
	symbol := func(sym string) string {
		return seg(center) + gateStyle.Render(sym) + seg(width-center-1)
	}
	edges := func() {
		top, bot = emptyRow, emptyRow
		if info.vertAbove {
			top = vertRow
		}
		if info.dblAbove {
			top = dblVertRow
		}
		if info.vertBelow {
			bot = vertRow
		}
		if info.dblBelow {
			bot = dblVertRow
		}
	}

	cell := info.cell
	switch {
	case info.inBlock:
		inner := width - 4
		side := " │" + strings.Repeat(" ", inner) + "│ "
		top, bot = gateStyle.Render(side), gateStyle.Render(side)
		if info.blockTop {
			top = " " + gateStyle.Render("┌"+strings.Repeat("─", inner)+"┐") + " "
		}
		if info.blockEnd {
			bot = " " + gateStyle.Render("└"+strings.Repeat("─", inner)+"┘") + " "
		}
		name := ""
		if info.blockTop {
			name = displayLabel(cell)
		}
		mid = seg(1) + gateStyle.Render("┤"+padCenter(name, inner)+"├") + seg(1)

	case cell.Kind == quantikz.KindBarrier || (info.isBarrier && cell.IsNoOp()):
		top = vertRow
		mid = seg(center) + "│" + seg(width-center-1)
		bot = vertRow

	case cell.Kind == quantikz.KindGate || cell.Kind == quantikz.KindMeter:
		name := displayLabel(cell)
		nameW := lipgloss.Width(name)
		boxW := nameW + 2
		margin := (width - boxW) / 2
		right := width - margin - boxW
		notch := center - margin

		upper := []rune("┌" + strings.Repeat("─", nameW) + "┐")
		lower := []rune("└" + strings.Repeat("─", nameW) + "┘")
		if info.vertAbove {
			upper[notch] = '┴'
		}
		if info.dblAbove {
			upper[notch] = '╨'
		}
		if info.vertBelow {
			lower[notch] = '┬'
		}
		if info.dblBelow {
			lower[notch] = '╥'
		}
		top = strings.Repeat(" ", margin) + gateStyle.Render(string(upper)) + strings.Repeat(" ", right)
		mid = seg(margin) + gateStyle.Render("┤"+name+"├") + seg(right)
		bot = strings.Repeat(" ", margin) + gateStyle.Render(string(lower)) + strings.Repeat(" ", right)

	case cell.Kind == quantikz.KindCtrl:
		edges()
		mid = symbol("●")

	case cell.Kind == quantikz.KindTarg:
		edges()
		mid = symbol("⊕")

	case cell.Kind == quantikz.KindSwap || cell.Kind == quantikz.KindTargX:
		edges()
		mid = symbol("×")

	case cell.Kind == quantikz.KindLabel:
		top, bot = emptyRow, emptyRow
		mid = qubitLabelStyle.Render(padCenter(displayLabel(cell), width))

	case info.passThrough:
		edges()
		cross := "┼"
		if info.dblAbove || info.dblBelow {
			cross = cbitConnectorStyle.Render("╫")
		}
		mid = seg(center) + cross + seg(width-center-1)

	default:
		edges()
		mid = seg(width)
	}
	return
}

// renderClassicalCell returns the single line of a classical bit cell.
func renderClassicalCell(landing, crossing bool, width int) string {
	center := (width - 1) / 2
	var sym string
	switch {
	case landing:
		sym = cbitConnectorStyle.Render("╩")
	case crossing:
		sym = cbitConnectorStyle.Render("╬")
	default:
		return cbitWireStyle.Render(strings.Repeat("═", width))
	}
	return cbitWireStyle.Render(strings.Repeat("═", center)) + sym +
		cbitWireStyle.Render(strings.Repeat("═", width-center-1))
}

// ──────────────────────────── Panel rendering ────────────────────────────

// visibleColumns returns the first column to draw and the widths of the
// columns that fit in avail, keeping the cursor column in view.
func (m Model) visibleColumns(avail int) (int, []int) {
	p := m.preview
	n := p.Width()
	if n == 0 {
		return 0, nil
	}
	cursor := min(m.cursorCol, n-1)

	start := 0
	used := 0
	for col := 0; col <= cursor; col++ {
		used += p.columnWidth(col)
	}
	for start < cursor && used > avail {
		used -= p.columnWidth(start)
		start++
	}

	var widths []int
	used = 0
	for col := start; col < n; col++ {
		w := p.columnWidth(col)
		if used+w > avail && len(widths) > 0 {
			break
		}
		widths = append(widths, w)
		used += w
	}
	return start, widths
}

// renderPreviewPanel renders the diagram preview panel.
func (m Model) renderPreviewPanel(width, height int) string {
	var sb strings.Builder

	title := "Diagram Preview"
	if m.showTeX {
		title = "quantikz Source"
	}
	if m.focus == focusPreview {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	if m.showTeX {
		if m.result != nil {
			sb.WriteString(m.result.TeX)
		}
		sb.WriteString("\n")
		m.writeStatus(&sb)
		return circuitStyle.Width(width).Height(height).Render(sb.String())
	}

	p := m.preview
	labelW := labelVisualW
	for _, l := range append(append([]string(nil), p.Labels...), p.ClassicalLabels...) {
		labelW = max(labelW, lipgloss.Width(l)+2)
	}

	start, widths := m.visibleColumns(width - labelW - 4)
	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ showing columns %d–%d\n", start, start+len(widths)-1)
	}

	// Column number header
	header := strings.Repeat(" ", labelW)
	for i, w := range widths {
		num := padCenter(fmt.Sprintf("%d", start+i), w)
		if start+i == m.cursorCol {
			header += activeGateStyle.Render(num)
		} else {
			header += dimStyle.Render(num)
		}
	}
	sb.WriteString(header + "\n")

	// Each quantum wire takes 3 lines
	for q := range p.NumQubits() {
		topLine := strings.Repeat(" ", labelW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-*s", labelW-2, p.Labels[q])) + "──"
		botLine := strings.Repeat(" ", labelW)

		for i, w := range widths {
			col := start + i
			hl := hlNone
			if col == m.cursorCol && q == m.cursorWire && m.focus == focusPreview {
				hl = hlCursor
			}
			top, mid, bot := renderCell(p.getCellInfo(col, q), w, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Classical bits take one line each
	for b := range p.NumCbits() {
		line := cbitLabelStyle.Render(fmt.Sprintf("%-*s", labelW-2, p.ClassicalLabels[b])) +
			cbitWireStyle.Render("══")
		for i, w := range widths {
			landing, crossing := p.classicalCell(start+i, b)
			line += renderClassicalCell(landing, crossing, w)
		}
		sb.WriteString(line + "\n")
	}

	m.writeStatus(&sb)
	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// writeStatus appends the cursor position, the selected cell and the
// latest diagnostics.
func (m Model) writeStatus(sb *strings.Builder) {
	p := m.preview
	if p.NumQubits() > 0 && p.Width() > 0 {
		cell := p.Cell(m.cursorWire, m.cursorCol)
		fmt.Fprintf(sb, "\n  Column %d, %s: %s", m.cursorCol, p.Labels[m.cursorWire],
			activeGateStyle.Render(cell.TeX()))
	}
	if m.statusMsg != "" {
		fmt.Fprintf(sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
	}
	sb.WriteString("\n")

	if m.err != nil {
		lines := strings.Split(m.err.Error(), "\n")
		sb.WriteString(errorStyle.Render("  " + strings.Join(lines, "\n  ")))
		sb.WriteString("\n")
		return
	}
	if m.result == nil {
		return
	}
	for _, w := range m.result.Warnings {
		sb.WriteString(warningStyle.Render("  warning: " + w.Error()))
		sb.WriteString("\n")
	}
}

// renderQASMPanel renders the OpenQASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "OpenQASM"
	if m.focus == focusEditor {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(m.path))
	sb.WriteString("\n\n")
	sb.WriteString(m.editor.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Preview:  "))
	sb.WriteString("↑↓/jk Wire  ←→/hl Column  t TeX source")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Insert statement\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("Tab Switch focus  ^S Save .qasm + .tex  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// isEscEnd reports whether r terminates an ANSI escape sequence.
func isEscEnd(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// spliceLineAt replaces terminal cells starting at cell x in bgLine with
// overlay content. A wide rune cut by the overlay's right edge is replaced
// by spaces.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := lipgloss.Width(overlay)

	var prefix strings.Builder

	col := 0
	i := 0

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			prefix.WriteRune(runes[i])
			i++
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				i++
				if isEscEnd(runes[i-1]) {
					break
				}
			}
			continue
		}
		prefix.WriteRune(runes[i])
		col += termWidth.RuneWidth(runes[i])
		i++
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			i++
			for i < len(runes) {
				i++
				if isEscEnd(runes[i-1]) {
					break
				}
			}
			continue
		}
		skipped += termWidth.RuneWidth(runes[i])
		i++
	}

	return prefix.String() + overlay + strings.Repeat(" ", max(skipped-ovWidth, 0)) + string(runes[i:])
}
