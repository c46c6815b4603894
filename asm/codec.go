package asm

// ---------------------------------------------------------------------------
// Codec: pluggable instruction encoding
// ---------------------------------------------------------------------------

// Resolver maps labels to byte offsets in the encoded instruction
// stream. The assembler implements it once all labels are placed.
type Resolver interface {
	// LabelOffset returns the byte offset of the instruction following
	// the label marker, or ErrUnregisteredLabel if the label was never
	// placed.
	LabelOffset(l Label) (int, error)
}

// ExceptionRange marks a protected span of bytecode and the handler
// that receives control when an instruction inside it raises.
//
// From is inclusive and To is exclusive. Depth is the operand stack
// depth to restore before entering the handler. When Lasti is set the
// offset of the raising instruction is pushed beneath the exception.
type ExceptionRange struct {
	From    Label
	To      Label
	Handler Label
	Depth   int
	Lasti   bool
}

// Codec encodes instructions and exception table entries for one
// target instruction format. Implementations must be stateless so a
// single value can serve any number of assemblers.
type Codec interface {
	// EncodeInsn returns the complete byte sequence for one
	// instruction, including any operand extension prefixes and
	// trailing cache padding the format requires.
	EncodeInsn(in Insn) ([]byte, error)

	// EncodeTryCatch returns the exception table entry for one
	// protected range, resolving its labels through r.
	EncodeTryCatch(er ExceptionRange, r Resolver) ([]byte, error)
}
