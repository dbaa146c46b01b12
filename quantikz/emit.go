package quantikz

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// emit finishes the grid and serializes it.
func (t *translation) emit() (*Result, error) {
	if len(t.errs) > 0 {
		return nil, &TranslationFailedError{
			Errors:   t.errs,
			Warnings: t.warns,
		}
	}

	t.cols.advance()
	for w := range t.cols.quantum {
		t.cols.place(w, wire())
	}
	for b := range t.cols.classical {
		t.cols.land(b, classicalWire())
	}

	res := &Result{
		Rows:          t.cols.quantum,
		ClassicalRows: t.cols.classical,
		Measurements:  make(map[string][]Measurement),
		Warnings:      t.warns,
	}
	for w := range res.Rows {
		res.Labels = append(res.Labels, t.layout.QubitLabel(w))
	}
	for b := range res.ClassicalRows {
		res.ClassicalLabels = append(res.ClassicalLabels, t.layout.BitLabel(b))
	}
	for bit, ms := range t.res.measured {
		res.Measurements[t.layout.BitLabel(bit)] = ms
	}
	res.TeX = Render(res.Rows, res.Labels, t.opts)

	t.log.Debug("diagram emitted",
		zap.Int("wires", len(res.Rows)),
		zap.Int("columns", t.cols.width()+1),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}

// Render serializes quantum rows as a quantikz environment. Each row is
// prefixed with an initial-state label built from labels[i].
func Render(rows [][]Cell, labels []string, opts Options) string {
	var sb strings.Builder
	sb.WriteString(`\begin{quantikz}`)
	var sep []string
	if opts.RowSep != "" {
		sep = append(sep, fmt.Sprintf("row sep={%s}", opts.RowSep))
	}
	if opts.ColumnSep != "" {
		sep = append(sep, fmt.Sprintf("column sep={%s}", opts.ColumnSep))
	}
	if len(sep) > 0 {
		fmt.Fprintf(&sb, "[%s]", strings.Join(sep, ", "))
	}
	sb.WriteString("\n")

	for i, row := range rows {
		tokens := make([]string, 0, len(row)+1)
		tokens = append(tokens, label(fmt.Sprintf(`$|%s\rangle$`, labels[i])).TeX())
		for _, cell := range row {
			tokens = append(tokens, cell.TeX())
		}
		sb.WriteString("    ")
		sb.WriteString(strings.Join(tokens, " & "))
		if i < len(rows)-1 {
			sb.WriteString(` \\`)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(`\end{quantikz}`)
	return sb.String()
}

// Document wraps a quantikz environment in a standalone LaTeX document.
func Document(body, border string) string {
	if border == "" {
		border = "2pt"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "\\documentclass[tikz,border=%s]{standalone}\n", border)
	sb.WriteString("\\usepackage{tikz}\n")
	sb.WriteString("\\usetikzlibrary{quantikz2}\n")
	sb.WriteString("\\begin{document}\n")
	sb.WriteString(body)
	sb.WriteString("\n\\end{document}\n")
	return sb.String()
}
