package asm

import "fmt"

// ---------------------------------------------------------------------------
// CodeUnit: rendered code object
// ---------------------------------------------------------------------------

const (
	// defaultStackSize is the operand stack allowance recorded in
	// built code units. Stack depth is not computed from the
	// instruction stream; the fixed allowance covers assembled code.
	defaultStackSize = 30

	// defaultFilename marks code units that have no source file.
	defaultFilename = "<asm>"
)

// CodeUnit is the rendered form of one assembled code object: the
// bytecode, its pools, and the metadata an interpreter needs to run
// it. Build fills the signature, pool, and code fields; the rest are
// zero-valued and may be set directly before the unit is handed off.
// Each Build call returns a unit with freshly copied slices.
type CodeUnit struct {
	// signature
	ArgCount        int
	PosOnlyArgCount int
	KwOnlyArgCount  int

	// execution metadata
	LocalCount int
	StackSize  int
	Flags      int

	// code
	Bytecode       []byte
	ExceptionTable []byte

	// pools
	Consts   []any
	Names    []string
	VarNames []string

	// origin
	Filename  string
	Name      string
	QualName  string
	FirstLine int
	LineTable []byte
}

// String returns a short description of the code unit.
func (c *CodeUnit) String() string {
	return fmt.Sprintf("CodeUnit(%d bytes, %d consts, %d names, %d locals)",
		len(c.Bytecode), len(c.Consts), len(c.Names), len(c.VarNames))
}
