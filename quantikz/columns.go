package quantikz

// columns holds the per-wire token rows. Every row has length current
// right after advance.
type columns struct {
	quantum   [][]Cell
	classical [][]Cell
	current   int
}

func newColumns(qubits, bits int) *columns {
	return &columns{
		quantum:   make([][]Cell, qubits),
		classical: make([][]Cell, bits),
	}
}

// advance pads every row up to the longest one and returns the index of
// the next free column.
func (c *columns) advance() int {
	n := c.current
	for _, row := range c.quantum {
		n = max(n, len(row))
	}
	for _, row := range c.classical {
		n = max(n, len(row))
	}
	for i := range c.quantum {
		for len(c.quantum[i]) < n {
			c.quantum[i] = append(c.quantum[i], wire())
		}
	}
	for i := range c.classical {
		for len(c.classical[i]) < n {
			c.classical[i] = append(c.classical[i], classicalWire())
		}
	}
	c.current = n
	return n
}

// free reports whether quantum wire w has nothing in column col yet.
func (c *columns) free(w, col int) bool {
	return len(c.quantum[w]) <= col
}

// place appends cell to quantum wire w in the current column.
func (c *columns) place(w int, cell Cell) {
	c.quantum[w] = append(c.quantum[w], cell)
}

// land appends cell to classical bit b in the current column.
func (c *columns) land(b int, cell Cell) {
	c.classical[b] = append(c.classical[b], cell)
}

// width returns the number of columns after the last advance.
func (c *columns) width() int {
	return c.current
}
