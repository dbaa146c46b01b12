package quantikz

import (
	"fmt"
	"strings"

	"qtermtikz/qasm"
)

var greekNames = map[string]bool{
	"theta":  true,
	"phi":    true,
	"lambda": true,
	"alpha":  true,
	"beta":   true,
	"gamma":  true,
}

// FormatAngle renders a parameter expression as LaTeX math. A nil
// expression renders as "?".
func FormatAngle(e qasm.Expr) string {
	switch e := e.(type) {
	case nil:
		return "?"

	case *qasm.IntLit, *qasm.FloatLit:
		return e.String()

	case *qasm.Ident:
		if e.Name == "pi" {
			return `\pi`
		}
		if greekNames[e.Name] {
			return `\` + e.Name
		}
		return e.Name

	case *qasm.BinaryExpr:
		lhs := FormatAngle(e.LHS)
		rhs := FormatAngle(e.RHS)
		switch e.Op {
		case qasm.OpDiv:
			return fmt.Sprintf(`\frac{%s}{%s}`, lhs, rhs)
		case qasm.OpMul:
			return lhs + ` \cdot ` + rhs
		case qasm.OpAdd:
			return lhs + " + " + rhs
		case qasm.OpSub:
			return lhs + " - " + rhs
		}

	case *qasm.UnaryExpr:
		if e.Op == qasm.OpNeg {
			return "-" + FormatAngle(e.X)
		}
	}

	s := e.String()
	switch {
	case strings.Contains(s, "pi/2"):
		return `\frac{\pi}{2}`
	case strings.Contains(s, "pi/4"):
		return `\frac{\pi}{4}`
	}
	return s
}
