package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/markkurossi/tabulate"

	"qtermtikz/quantikz"
)

// writeTable prints one line per wire with the columns that hold more
// than a wire segment, followed by the measurement record.
func writeTable(w io.Writer, res *quantikz.Result) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Wire").SetAlign(tabulate.ML)
	tab.Header("Kind").SetAlign(tabulate.ML)
	tab.Header("Ops").SetAlign(tabulate.MR)
	tab.Header("Cells").SetAlign(tabulate.ML)

	addRows := func(kind string, labels []string, rows [][]quantikz.Cell) {
		for i, row := range rows {
			var ops []string
			for col, cell := range row {
				if cell.IsNoOp() {
					continue
				}
				ops = append(ops, fmt.Sprintf("%d:%s", col, cell.TeX()))
			}
			r := tab.Row()
			r.Column(labels[i])
			r.Column(kind)
			r.Column(fmt.Sprintf("%d", len(ops)))
			r.Column(strings.Join(ops, " "))
		}
	}
	addRows("quantum", res.Labels, res.Rows)
	addRows("classical", res.ClassicalLabels, res.ClassicalRows)
	tab.Print(w)

	if len(res.Measurements) == 0 {
		return
	}
	fmt.Fprintln(w)

	bits := make([]string, 0, len(res.Measurements))
	for bit := range res.Measurements {
		bits = append(bits, bit)
	}
	sort.Strings(bits)

	tab = tabulate.New(tabulate.UnicodeLight)
	tab.Header("Bit").SetAlign(tabulate.ML)
	tab.Header("Measured").SetAlign(tabulate.ML)
	tab.Header("Column").SetAlign(tabulate.MR)
	for _, bit := range bits {
		for _, m := range res.Measurements[bit] {
			r := tab.Row()
			r.Column(bit)
			r.Column(res.Labels[m.Wire])
			r.Column(fmt.Sprintf("%d", m.Column))
		}
	}
	tab.Print(w)
}
