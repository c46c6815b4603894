package asm

import "fmt"

// ---------------------------------------------------------------------------
// Instructions and stream entries
// ---------------------------------------------------------------------------

// Insn is a single instruction: an opcode and its unsigned operand.
// Instructions without a meaningful operand carry zero.
type Insn struct {
	Op  Opcode
	Arg int
}

// String returns the instruction in listing form.
func (in Insn) String() string {
	return fmt.Sprintf("%s %d", in.Op.Name(), in.Arg)
}

// Label identifies a position in an instruction stream. Labels are
// opaque handles allocated by the Assembler that owns them; two labels
// name the same position only if they are the same handle. The zero
// value is not a valid label.
type Label struct {
	id int
}

// String returns the label in listing form.
func (l Label) String() string {
	return fmt.Sprintf("L%d", l.id)
}

// entry is one element of the instruction stream: an instruction, or a
// label marker pinning its label to the offset of whatever follows.
type entry struct {
	insn  Insn
	label Label // non-zero for label markers
}

func (e entry) isLabel() bool {
	return e.label != Label{}
}
