package quantikz

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qtermtikz/qasm"
)

func translate(t *testing.T, src string) *Result {
	t.Helper()
	res, err := TranslateSource(src, Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	return res
}

// tex returns the TeX tokens of a row.
func tex(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.TeX()
	}
	return out
}

func TestTranslateBellPair(t *testing.T) {
	res := translate(t, `OPENQASM 3.0;
qubit[2] q;
h q[0];
cx q[0], q[1];`)

	assert.Equal(t, []string{"q[0]", "q[1]"}, res.Labels)
	assert.Equal(t, []string{`\gate{H}`, `\ctrl{1}`, `\qw`}, tex(res.Rows[0]))
	assert.Equal(t, []string{`\qw`, `\targ{}`, `\qw`}, tex(res.Rows[1]))

	want := `\begin{quantikz}
    \lstick{$|q[0]\rangle$} & \gate{H} & \ctrl{1} & \qw \\
    \lstick{$|q[1]\rangle$} & \qw & \targ{} & \qw
\end{quantikz}`
	assert.Equal(t, want, res.TeX)
	assert.Empty(t, res.Warnings)
}

func TestTranslateClassicalControlColocation(t *testing.T) {
	res := translate(t, `qubit[2] q;
bit c;
h q[0];
c = measure q[0];
if (c) x q[1];`)

	assert.Equal(t, []string{`\gate{H}`, `\meter{}\wire[d][1]{c}`, `\setwiretype{c}`, `\qw`}, tex(res.Rows[0]))
	assert.Equal(t, []string{`\qw`, `\gate{X}`, `\qw`, `\qw`}, tex(res.Rows[1]))

	require.Len(t, res.ClassicalRows, 1)
	assert.Equal(t, []string{"c"}, res.ClassicalLabels)
	assert.Equal(t, KindLanding, res.ClassicalRows[0][1].Kind)
	assert.Equal(t, []Measurement{{Wire: 0, Column: 1}}, res.Measurements["c"])
	assert.Empty(t, res.Warnings)
}

func TestTranslateQASM2Conditional(t *testing.T) {
	res := translate(t, `OPENQASM 2.0;
include "qelib1.inc";
qreg q[3];
creg c0[1];
creg c1[1];
h q[1];
cx q[1], q[2];
cx q[0], q[1];
h q[0];
measure q[0] -> c0[0];
measure q[1] -> c1[0];
if(c1==1) x q[2];
if(c0==1) z q[2];`)

	// Columns: h, cx, cx, h, measure q[0] (+ Z), relabel, measure q[1] (+ X), relabel, final.
	row2 := tex(res.Rows[2])
	assert.Equal(t, `\gate{Z}`, row2[4])
	assert.Equal(t, `\gate{X}`, row2[6])
	assert.Equal(t, `\meter{}\wire[d][2]{c}`, res.Rows[0][4].TeX())
	assert.Equal(t, `\meter{}\wire[d][1]{c}`, res.Rows[1][6].TeX())
	assert.Empty(t, res.Warnings)
}

func TestTranslateReset(t *testing.T) {
	res := translate(t, `qubit q;
h q;
reset q;`)

	assert.Equal(t, []string{"q"}, res.Labels)
	assert.Equal(t, []string{
		`\gate{H}`,
		`\meter{}`,
		`\setwiretype{n}`,
		`\lstick{$|0\rangle$}`,
		`\setwiretype{q}\qw`,
		`\qw`,
	}, tex(res.Rows[0]))
	assert.True(t, strings.HasPrefix(strings.Split(res.TeX, "\n")[1], `    \lstick{$|q\rangle$} & `))
}

func TestTranslateResetLeavesOtherWires(t *testing.T) {
	res := translate(t, `qubit[2] q;
reset q[1];`)

	assert.Equal(t, []string{`\qw`, `\qw`, `\qw`, `\qw`, `\qw`}, tex(res.Rows[0]))
	assert.Equal(t, `\meter{}`, res.Rows[1][0].TeX())
}

func TestTranslateBarrier(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want [][]string
	}{
		{
			name: "all wires",
			src:  "qubit[3] q;\nbarrier;",
			want: [][]string{{`\barrier{3}`, `\qw`}, {`\qw`, `\qw`}, {`\qw`, `\qw`}},
		},
		{
			name: "bare register",
			src:  "qubit[3] q;\nbarrier q;",
			want: [][]string{{`\barrier{3}`, `\qw`}, {`\qw`, `\qw`}, {`\qw`, `\qw`}},
		},
		{
			name: "subset",
			src:  "qubit[3] q;\nbarrier q[2], q[1];",
			want: [][]string{{`\qw`, `\qw`}, {`\barrier{2}`, `\qw`}, {`\qw`, `\qw`}},
		},
		{
			// The marker reaches the highest listed wire, across the gap.
			name: "non-contiguous subset",
			src:  "qubit[3] q;\nbarrier q[0], q[2];",
			want: [][]string{{`\barrier{3}`, `\qw`}, {`\qw`, `\qw`}, {`\qw`, `\qw`}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := translate(t, tt.src)
			var got [][]string
			for _, row := range res.Rows {
				got = append(got, tex(row))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateStructuralErrors(t *testing.T) {
	_, err := TranslateSource(`qubit[2] q;
h r[0];
x q[5];
h q[1];`, Options{})
	require.Error(t, err)

	var failed *TranslationFailedError
	require.True(t, errors.As(err, &failed))
	require.Len(t, failed.Errors, 2)

	var unknown *UnknownRegisterError
	require.True(t, errors.As(failed.Errors[0], &unknown))
	assert.Equal(t, "r", unknown.Name)
	assert.Equal(t, "2:3: unknown quantum register r", failed.Errors[0].Error())

	var outOfRange *IndexOutOfRangeError
	require.True(t, errors.As(failed.Errors[1], &outOfRange))
	assert.Equal(t, 5, outOfRange.Index)

	assert.Contains(t, err.Error(), "unknown quantum register r")
	assert.Contains(t, err.Error(), "index 5 out of range for register q of size 2")
}

func TestTranslateErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target interface{}
	}{
		{"ambiguous", "qubit[2] q;\nh q;", new(*AmbiguousReferenceError)},
		{"non-literal index", "qubit[2] q;\nint i;\nh q[i];", new(*NonLiteralIndexError)},
		{"negative index", "qubit[2] q;\nh q[-1];", new(*IndexOutOfRangeError)},
		{"duplicate register", "qubit[2] q;\nqreg q[1];", new(*DuplicateRegisterError)},
		{"arity", "qubit[2] q;\ncx q[0];", new(*ArityError)},
		{"single-qubit arity", "qubit[2] q;\nh q[0], q[1];", new(*ArityError)},
		{"duplicate operand", "qubit[2] q;\ncx q[0], q[0];", new(*DuplicateOperandError)},
		{"unknown measure target", "qubit[2] q;\nmeasure q[0] -> c[0];", new(*UnknownRegisterError)},
		{"unknown condition register", "qubit[2] q;\nif (c == 1) x q[0];", new(*UnknownRegisterError)},
		{"zero size", "qreg q[0];", new(*InvalidSizeError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TranslateSource(tt.src, Options{})
			var failed *TranslationFailedError
			require.True(t, errors.As(err, &failed), "got %v", err)
			require.Len(t, failed.Errors, 1)
			assert.True(t, errors.As(failed.Errors[0], tt.target), "got %v", failed.Errors[0])
		})
	}
}

func TestTranslateSameNameAcrossKinds(t *testing.T) {
	res := translate(t, "qubit r;\nbit r;\nr = measure r;")
	assert.Equal(t, []string{`\meter{}`, `\setwiretype{c}`, `\qw`}, tex(res.Rows[0]))
}

func TestTranslateParseError(t *testing.T) {
	_, err := TranslateSource("qubit[2] q\nh q[0];", Options{})
	require.Error(t, err)

	var serr *qasm.SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, qasm.Pos{Line: 2, Col: 1}, serr.Pos)
	assert.True(t, strings.HasPrefix(err.Error(), "parse: "))
}

func TestTranslateIdempotent(t *testing.T) {
	src := `qubit[3] q;
bit[2] c;
h q[0];
cx q[0], q[2];
rz(pi/4) q[1];
c[0] = measure q[0];
if (c[0] == 1) { x q[1]; z q[2]; }
barrier;
reset q[0];
c[1] = measure q[1];`

	prog, err := qasm.Parse(src)
	require.NoError(t, err)

	first, err := Translate(prog, Options{RowSep: "1cm"})
	require.NoError(t, err)
	second, err := Translate(prog, Options{RowSep: "1cm"})
	require.NoError(t, err)
	assert.Equal(t, first.TeX, second.TeX)
}

func TestTranslateColumnAlignment(t *testing.T) {
	srcs := []string{
		"qubit[3] q;\nh q[0];\ncx q[1], q[2];\nswap q[0], q[2];",
		"qubit[4] q;\nbit[2] c;\nc[0] = measure q[3];\nif (c[0]) ccx q[0], q[1], q[2];\nreset q[1];",
		"qubit[2] a;\nqubit b;\nbit c;\nc = measure b;\nif (c) x b;\nbarrier a;",
	}
	for _, src := range srcs {
		res := translate(t, src)
		for i, row := range res.Rows {
			assert.Len(t, row, len(res.Rows[0]), "row %d of %q", i, src)
		}
		for i, row := range res.ClassicalRows {
			assert.Len(t, row, len(res.Rows[0]), "classical row %d of %q", i, src)
		}
	}
}

func TestTranslateMostRecentMeasurement(t *testing.T) {
	res := translate(t, `qubit[3] q;
bit c;
c = measure q[0];
if (c == 1) x q[1];
c = measure q[2];
if (c == 1) z q[0];`)

	assert.Equal(t, []string{`\meter{}\wire[d][1]{c}`, `\setwiretype{c}`, `\gate{Z}`, `\qw`, `\qw`}, tex(res.Rows[0]))
	assert.Equal(t, []string{`\gate{X}`, `\qw`, `\qw`, `\qw`, `\qw`}, tex(res.Rows[1]))
	assert.Equal(t, []string{`\qw`, `\qw`, `\meter{}\wire[u][2]{c}`, `\setwiretype{c}`, `\qw`}, tex(res.Rows[2]))
	assert.Equal(t, []Measurement{{Wire: 0, Column: 0}, {Wire: 2, Column: 2}}, res.Measurements["c"])
}

func TestTranslateConnectorTieBreak(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"tie keeps first", "{ x q[0]; x q[4]; }", `\meter{}\wire[u][2]{c}`},
		{"tie keeps first reversed", "{ x q[4]; x q[0]; }", `\meter{}\wire[d][2]{c}`},
		{"farthest wins", "{ x q[3]; x q[0]; }", `\meter{}\wire[u][2]{c}`},
		{"multi-qubit target", "cx q[3], q[4];", `\meter{}\wire[d][2]{c}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := translate(t, "qubit[5] q;\nbit c;\nc = measure q[2];\nif (c) "+tt.body)
			assert.Equal(t, tt.want, res.Rows[2][0].TeX())
		})
	}
}

func TestTranslateDisplacedGuard(t *testing.T) {
	res := translate(t, `qubit[2] q;
bit c;
c = measure q[0];
if (c) x q[0];`)

	assert.Equal(t, []string{`\meter{}`, `\gate{X}`, `\setwiretype{c}`, `\qw`}, tex(res.Rows[0]))
	require.Len(t, res.Warnings, 1)
	var displaced *DisplacedGuardError
	require.True(t, errors.As(res.Warnings[0], &displaced))
	assert.Equal(t, 1, displaced.Column)
}

func TestTranslateGuardOnMeasuredWire(t *testing.T) {
	res := translate(t, `qubit q;
bit c;
c = measure q;
if (c) x q;`)

	// The flip cannot share the meter's cell, so it follows it.
	assert.Equal(t, []string{`\meter{}`, `\gate{X}`, `\setwiretype{c}`, `\qw`}, tex(res.Rows[0]))
	assert.Equal(t, []Measurement{{Wire: 0, Column: 0}}, res.Measurements["c"])
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Error(), "guarded x q; overlaps its measurement; drawn at column 1")
}

func TestTranslateDanglingGuard(t *testing.T) {
	res := translate(t, `qubit[2] q;
bit[2] c;
if (c[1] == 1) x q[1];
h q[0];`)

	assert.Equal(t, []string{`\gate{H}`, `\qw`}, tex(res.Rows[0]))
	assert.Equal(t, []string{`\qw`, `\qw`}, tex(res.Rows[1]))
	require.Len(t, res.Warnings, 1)

	var unresolved *UnresolvedClassicalGuardError
	require.True(t, errors.As(res.Warnings[0], &unresolved))
	assert.Equal(t, "c[1]", unresolved.Bit)
	assert.NotContains(t, res.TeX, `\gate{X}`)
}

func TestTranslateUnsupportedConditions(t *testing.T) {
	tests := []struct {
		name string
		cond string
	}{
		{"multi-bit register", "c == 1"},
		{"bare multi-bit register", "c"},
		{"compound", "c[0] == 1 && c[1] == 1"},
		{"zero comparison", "c[0] == 0"},
		{"non-literal index", "c[i]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := translate(t, "qubit[2] q;\nbit[2] c;\nint i;\nc[0] = measure q[0];\nif ("+tt.cond+") x q[1];")
			require.Len(t, res.Warnings, 1)
			var unsupported *UnsupportedConditionError
			require.True(t, errors.As(res.Warnings[0], &unsupported))
			assert.NotContains(t, res.TeX, `\gate{X}`)
		})
	}
}

func TestTranslateUnsupportedGuardedStatements(t *testing.T) {
	res := translate(t, `qubit[2] q;
bit c;
c = measure q[0];
if (c) {
    x q[1];
    reset q[1];
} else {
    z q[1];
}`)

	require.Len(t, res.Warnings, 2)
	for _, w := range res.Warnings {
		var unsupported *UnsupportedGuardedStatementError
		assert.True(t, errors.As(w, &unsupported), "got %v", w)
	}
	assert.Equal(t, `\gate{X}`, res.Rows[1][0].TeX())
	assert.NotContains(t, res.TeX, `\gate{Z}`)
}

func TestTranslateEmptyProgram(t *testing.T) {
	res := translate(t, "OPENQASM 3.0;")
	assert.Empty(t, res.Rows)
	assert.Equal(t, "\\begin{quantikz}\n\\end{quantikz}", res.TeX)
}
