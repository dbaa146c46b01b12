package quantikz

import (
	"fmt"
	"strings"
)

// DuplicateRegisterError is returned when a register name is declared twice
// within the same kind.
type DuplicateRegisterError struct {
	Kind RegisterKind
	Name string
}

func (e *DuplicateRegisterError) Error() string {
	return fmt.Sprintf("duplicate %s register %s", e.Kind, e.Name)
}

// InvalidSizeError is returned for registers declared with fewer than one
// slot.
type InvalidSizeError struct {
	Kind RegisterKind
	Name string
	Size int
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("%s register %s has invalid size %d", e.Kind, e.Name, e.Size)
}

// UnknownRegisterError is returned for references to undeclared registers.
type UnknownRegisterError struct {
	Kind RegisterKind
	Name string
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("unknown %s register %s", e.Kind, e.Name)
}

// IndexOutOfRangeError is returned for an index outside [0, size).
type IndexOutOfRangeError struct {
	Name  string
	Index int
	Size  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for register %s of size %d",
		e.Index, e.Name, e.Size)
}

// AmbiguousReferenceError is returned for a bare reference to a multi-slot
// register where a single wire is required.
type AmbiguousReferenceError struct {
	Name string
	Size int
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("bare reference to register %s of size %d is ambiguous",
		e.Name, e.Size)
}

// NonLiteralIndexError is returned when an index is not an integer literal.
type NonLiteralIndexError struct {
	Ref string
}

func (e *NonLiteralIndexError) Error() string {
	return fmt.Sprintf("index of %s is not an integer literal", e.Ref)
}

// ArityError is returned when a gate is applied to the wrong number of
// qubits.
type ArityError struct {
	Gate string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("gate %s takes %d qubits, got %d", e.Gate, e.Want, e.Got)
}

// DuplicateOperandError is returned when a gate names the same wire twice.
type DuplicateOperandError struct {
	Gate    string
	Operand string
}

func (e *DuplicateOperandError) Error() string {
	return fmt.Sprintf("gate %s uses qubit %s more than once", e.Gate, e.Operand)
}

// TranslationFailedError aggregates every structural error of a
// translation.
type TranslationFailedError struct {
	Errors   []error
	Warnings []error
}

func (e *TranslationFailedError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "translation failed:\n" + strings.Join(msgs, "\n")
}

// UnresolvedClassicalGuardError warns about a guarded gate whose bit is
// never measured. The gate is omitted from the diagram.
type UnresolvedClassicalGuardError struct {
	Bit  string
	Gate string
}

func (e *UnresolvedClassicalGuardError) Error() string {
	return fmt.Sprintf("classical bit %s is never measured; omitting guarded %s",
		e.Bit, e.Gate)
}

// UnsupportedConditionError warns about a branch condition that does not
// name a single classical bit. The branch is dropped.
type UnsupportedConditionError struct {
	Cond   string
	Reason string
}

func (e *UnsupportedConditionError) Error() string {
	return fmt.Sprintf("unsupported branch condition %s: %s", e.Cond, e.Reason)
}

// UnsupportedGuardedStatementError warns about a statement inside a branch
// that is not a gate application. The statement is dropped.
type UnsupportedGuardedStatementError struct {
	Stmt string
}

func (e *UnsupportedGuardedStatementError) Error() string {
	return fmt.Sprintf("only gate applications can be classically controlled; dropping %s",
		e.Stmt)
}

// DisplacedGuardError warns that a guarded gate could not share the
// column of its measurement and was drawn in the next column.
type DisplacedGuardError struct {
	Gate   string
	Column int
}

func (e *DisplacedGuardError) Error() string {
	return fmt.Sprintf("guarded %s overlaps its measurement; drawn at column %d",
		e.Gate, e.Column)
}

// MissingOperandsError warns about a statement that names no qubits and
// therefore draws nothing.
type MissingOperandsError struct {
	Stmt string
}

func (e *MissingOperandsError) Error() string {
	return fmt.Sprintf("%s has no operands", e.Stmt)
}
