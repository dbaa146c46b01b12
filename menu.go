package main

import (
	"fmt"
	"strings"
)

// parameterHint describes the parameters a snippet asks for.
type parameterHint struct {
	count   int
	example string
}

// menuItem is one insertable statement. template holds a single %s verb
// for the parameter list when the item takes parameters.
type menuItem struct {
	name      string
	template  string
	symbol    string
	paramHint parameterHint
}

func (it menuItem) needsParams() bool {
	return it.paramHint.count > 0
}

// statement returns the OpenQASM text of the item with params filled in.
func (it menuItem) statement(params string) string {
	if !it.needsParams() {
		return it.template
	}
	return fmt.Sprintf(it.template, params)
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// snippetMenu lists the statements the editor can insert at the cursor.
// Operands name the registers declared by starterProgram.
var snippetMenu = []menuCategory{
	{
		name: "Registers",
		items: []menuItem{
			{name: "Qubit register", template: "qubit[3] q;", symbol: "q"},
			{name: "Bit register", template: "bit[3] c;", symbol: "c"},
			{name: "qreg (2.0)", template: "qreg q[3];", symbol: "q"},
			{name: "creg (2.0)", template: "creg c[3];", symbol: "c"},
		},
	},
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", template: "h q[0];", symbol: "H"},
			{name: "Pauli-X (NOT)", template: "x q[0];", symbol: "X"},
			{name: "Pauli-Y", template: "y q[0];", symbol: "Y"},
			{name: "Pauli-Z", template: "z q[0];", symbol: "Z"},
			{name: "Identity", template: "id q[0];", symbol: "I"},
			{name: "Phase (S)", template: "s q[0];", symbol: "S"},
			{name: "Phase Dagger (S†)", template: "sdg q[0];", symbol: "S†"},
			{name: "T Gate", template: "t q[0];", symbol: "T"},
			{name: "T Dagger (T†)", template: "tdg q[0];", symbol: "T†"},
			{name: "√X (SX)", template: "sx q[0];", symbol: "√X"},
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			{name: "Rotate X", template: "rx(%s) q[0];", symbol: "Rx", paramHint: parameterHint{1, "pi/2"}},
			{name: "Rotate Y", template: "ry(%s) q[0];", symbol: "Ry", paramHint: parameterHint{1, "pi/2"}},
			{name: "Rotate Z", template: "rz(%s) q[0];", symbol: "Rz", paramHint: parameterHint{1, "pi/2"}},
			{name: "Phase Shift", template: "p(%s) q[0];", symbol: "P", paramHint: parameterHint{1, "pi/4"}},
			{name: "Universal U", template: "u(%s) q[0];", symbol: "U", paramHint: parameterHint{3, "theta, phi, lambda"}},
		},
	},
	{
		name: "Multi Qubit",
		items: []menuItem{
			{name: "CNOT", template: "cx q[0], q[1];", symbol: "●─⊕"},
			{name: "Controlled-Z", template: "cz q[0], q[1];", symbol: "●─Z"},
			{name: "Controlled-H", template: "ch q[0], q[1];", symbol: "●─H"},
			{name: "SWAP", template: "swap q[0], q[1];", symbol: "×─×"},
			{name: "Toffoli (CCX)", template: "ccx q[0], q[1], q[2];", symbol: "●─●─⊕"},
			{name: "Fredkin (CSWAP)", template: "cswap q[0], q[1], q[2];", symbol: "●─×─×"},
			{name: "C-Rotate Z", template: "crz(%s) q[0], q[1];", symbol: "●─Rz", paramHint: parameterHint{1, "pi/2"}},
			{name: "C-Phase", template: "cp(%s) q[0], q[1];", symbol: "●─P", paramHint: parameterHint{1, "lambda"}},
		},
	},
	{
		name: "Measurement",
		items: []menuItem{
			{name: "Measure", template: "c[0] = measure q[0];", symbol: "M"},
			{name: "Measure (2.0)", template: "measure q[0] -> c[0];", symbol: "M"},
			{name: "Classical X", template: "if (c[0] == 1) x q[1];", symbol: "M─⊕"},
			{name: "Classical Z", template: "if (c[0]) z q[1];", symbol: "M─Z"},
		},
	},
	{
		name: "Special",
		items: []menuItem{
			{name: "Reset", template: "reset q[0];", symbol: "|0⟩"},
			{name: "Barrier", template: "barrier q;", symbol: "┃"},
		},
	},
}

// renderMenu renders the floating snippet popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Insert Statement"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range snippetMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(snippetMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 42)))
	sb.WriteString("\n")

	cat := snippetMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(gateStyle.Render(fmt.Sprintf("%-6s", item.symbol)))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(dimStyle.Render(fmt.Sprintf("%-6s", item.symbol)))
		}
		sb.WriteString(dimStyle.Render(" " + item.statement("…")))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Insert  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
