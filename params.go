package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"qtermtikz/qasm"
	"qtermtikz/quantikz"
)

// parseParams parses the text typed into the parameter prompt. want is the
// number of parameters the selected gate takes.
//
// Accepted values are any OpenQASM expressions, for example:
//   - numbers: "1.5707", "3.14e-2", "-0.5"
//   - pi expressions: "pi", "pi/2", "3*pi/4", "-2*pi/3"
//   - symbols: "theta", "lambda + phi"
func parseParams(input string, want int) ([]qasm.Expr, error) {
	params, err := qasm.ParseExprList(input)
	if err != nil {
		return nil, err
	}
	if len(params) != want {
		return nil, errors.Errorf("want %d parameters, got %d", want, len(params))
	}
	return params, nil
}

// paramInputRune reports whether r may be typed into the parameter prompt.
func paramInputRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	}
	return strings.ContainsRune(".,+-*/()_ ", r)
}

// formatParams renders parameters as OpenQASM source.
func formatParams(params []qasm.Expr) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// previewParams renders parameters the way they appear in the diagram,
// with the numeric value when every parameter is a constant.
func previewParams(params []qasm.Expr) string {
	labels := make([]string, len(params))
	values := make([]string, len(params))
	numeric := true
	for i, p := range params {
		labels[i] = quantikz.FormatAngle(p)
		v, ok := evalParam(p)
		if !ok {
			numeric = false
			continue
		}
		values[i] = fmt.Sprintf("%.4g", v)
	}
	out := strings.Join(labels, ", ")
	if numeric && len(params) > 0 {
		out += " = " + strings.Join(values, ", ")
	}
	return out
}

var paramConstants = map[string]float64{
	"pi":    math.Pi,
	"tau":   2 * math.Pi,
	"euler": math.E,
}

var paramFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"sqrt": math.Sqrt,
}

// evalParam evaluates a constant parameter expression. It returns false
// when the expression names a free symbol.
func evalParam(x qasm.Expr) (float64, bool) {
	switch e := x.(type) {
	case *qasm.IntLit:
		return float64(e.Value), true

	case *qasm.FloatLit:
		return e.Value, true

	case *qasm.Ident:
		v, ok := paramConstants[e.Name]
		return v, ok

	case *qasm.UnaryExpr:
		v, ok := evalParam(e.X)
		if !ok || e.Op != qasm.OpNeg {
			return 0, false
		}
		return -v, true

	case *qasm.BinaryExpr:
		l, ok := evalParam(e.LHS)
		if !ok {
			return 0, false
		}
		r, ok := evalParam(e.RHS)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case qasm.OpAdd:
			return l + r, true
		case qasm.OpSub:
			return l - r, true
		case qasm.OpMul:
			return l * r, true
		case qasm.OpDiv:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case qasm.OpPow:
			return math.Pow(l, r), true
		}
		return 0, false

	case *qasm.CallExpr:
		fn, ok := paramFuncs[e.Func]
		if !ok || len(e.Args) != 1 {
			return 0, false
		}
		v, ok := evalParam(e.Args[0])
		if !ok {
			return 0, false
		}
		return fn(v), true
	}
	return 0, false
}
