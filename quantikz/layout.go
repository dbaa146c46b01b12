package quantikz

import (
	"fmt"

	"qtermtikz/qasm"
)

// RegisterKind separates the quantum and classical index spaces.
type RegisterKind int

const (
	Quantum RegisterKind = iota
	Classical
)

func (k RegisterKind) String() string {
	switch k {
	case Quantum:
		return "quantum"
	case Classical:
		return "classical"
	}
	return fmt.Sprintf("{RegisterKind %d}", int(k))
}

// Register is a named contiguous block of wires.
type Register struct {
	Name  string
	Kind  RegisterKind
	Size  int
	Start int
}

// Layout maps register names to flat wire indices. Registers of each kind
// occupy contiguous, non-overlapping ranges in declaration order.
type Layout struct {
	regs   [2][]*Register
	byName [2]map[string]*Register
	total  [2]int
}

// NewLayout creates an empty layout.
func NewLayout() *Layout {
	return &Layout{
		byName: [2]map[string]*Register{
			make(map[string]*Register),
			make(map[string]*Register),
		},
	}
}

// AddQuantum appends a quantum register and returns its first wire index.
func (l *Layout) AddQuantum(name string, size int) (int, error) {
	return l.add(Quantum, name, size)
}

// AddClassical appends a classical register and returns its first bit
// index.
func (l *Layout) AddClassical(name string, size int) (int, error) {
	return l.add(Classical, name, size)
}

func (l *Layout) add(kind RegisterKind, name string, size int) (int, error) {
	if _, ok := l.byName[kind][name]; ok {
		return 0, &DuplicateRegisterError{Kind: kind, Name: name}
	}
	if size < 1 {
		return 0, &InvalidSizeError{Kind: kind, Name: name, Size: size}
	}
	reg := &Register{
		Name:  name,
		Kind:  kind,
		Size:  size,
		Start: l.total[kind],
	}
	l.regs[kind] = append(l.regs[kind], reg)
	l.byName[kind][name] = reg
	l.total[kind] += size
	return reg.Start, nil
}

// NumQubits returns the total number of quantum wires.
func (l *Layout) NumQubits() int {
	return l.total[Quantum]
}

// NumBits returns the total number of classical bits.
func (l *Layout) NumBits() int {
	return l.total[Classical]
}

// Register looks up a register by kind and name.
func (l *Layout) Register(kind RegisterKind, name string) (*Register, bool) {
	reg, ok := l.byName[kind][name]
	return reg, ok
}

// Registers returns the registers of kind in declaration order.
func (l *Layout) Registers(kind RegisterKind) []*Register {
	return l.regs[kind]
}

// ResolveQubit maps a reference to a single quantum wire.
func (l *Layout) ResolveQubit(ref qasm.Ref) (int, error) {
	return l.resolve(Quantum, ref)
}

// ResolveBit maps a reference to a single classical bit.
func (l *Layout) ResolveBit(ref qasm.Ref) (int, error) {
	return l.resolve(Classical, ref)
}

func (l *Layout) resolve(kind RegisterKind, ref qasm.Ref) (int, error) {
	reg, ok := l.byName[kind][ref.Name]
	if !ok {
		return 0, &UnknownRegisterError{Kind: kind, Name: ref.Name}
	}
	if ref.Index == nil {
		if reg.Size != 1 {
			return 0, &AmbiguousReferenceError{Name: reg.Name, Size: reg.Size}
		}
		return reg.Start, nil
	}
	return reg.slot(ref)
}

// Expand returns every wire a reference covers. A bare reference covers
// the whole register.
func (l *Layout) Expand(kind RegisterKind, ref qasm.Ref) ([]int, error) {
	reg, ok := l.byName[kind][ref.Name]
	if !ok {
		return nil, &UnknownRegisterError{Kind: kind, Name: ref.Name}
	}
	if ref.Index == nil {
		wires := make([]int, reg.Size)
		for i := range wires {
			wires[i] = reg.Start + i
		}
		return wires, nil
	}
	w, err := reg.slot(ref)
	if err != nil {
		return nil, err
	}
	return []int{w}, nil
}

func (reg *Register) slot(ref qasm.Ref) (int, error) {
	i, ok := ref.LiteralIndex()
	if !ok {
		return 0, &NonLiteralIndexError{Ref: ref.String()}
	}
	if i < 0 || i >= reg.Size {
		return 0, &IndexOutOfRangeError{Name: reg.Name, Index: i, Size: reg.Size}
	}
	return reg.Start + i, nil
}

// QubitLabel returns the display name of quantum wire i: the bare register
// name for single-slot registers, name[offset] otherwise.
func (l *Layout) QubitLabel(i int) string {
	return l.label(Quantum, i)
}

// BitLabel returns the display name of classical bit i.
func (l *Layout) BitLabel(i int) string {
	return l.label(Classical, i)
}

func (l *Layout) label(kind RegisterKind, i int) string {
	for _, reg := range l.regs[kind] {
		if i < reg.Start || i >= reg.Start+reg.Size {
			continue
		}
		if reg.Size == 1 {
			return reg.Name
		}
		return fmt.Sprintf("%s[%d]", reg.Name, i-reg.Start)
	}
	return fmt.Sprintf("%d", i)
}
