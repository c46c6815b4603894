package asm

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Codec311: CPython 3.11 instruction format
// ---------------------------------------------------------------------------

// maxOperandBytes is the widest operand the prefix scheme can carry:
// three EXTENDED_ARG prefixes plus the instruction's own operand byte.
const maxOperandBytes = 4

// Codec311 encodes instructions in the CPython 3.11 wire format:
// two-byte units, EXTENDED_ARG prefixes for wide operands, inline
// cache padding after specializable opcodes, and varint-packed
// exception table entries. The zero value is ready for use.
type Codec311 struct{}

// EncodeInsn encodes a single instruction. Operands wider than one
// byte are split big-endian across EXTENDED_ARG prefix units, most
// significant byte first. Opcodes with inline caches are followed by
// one zeroed two-byte unit per cache slot.
func (Codec311) EncodeInsn(in Insn) ([]byte, error) {
	if in.Op < 0 || in.Op > 0xFF {
		return nil, fmt.Errorf("%w: %d", ErrOpcodeOutOfRange, int(in.Op))
	}
	if in.Arg < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeOperand, in)
	}
	if uint64(in.Arg) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %s", ErrOperandTooLarge, in)
	}

	n := 1
	for i := maxOperandBytes - 1; i > 0; i-- {
		if in.Arg>>(8*i) != 0 {
			n = i + 1
			break
		}
	}

	out := make([]byte, 0, 2*n+2*in.Op.Caches())
	for i := n - 1; i > 0; i-- {
		out = append(out, byte(OpExtendedArg), byte(in.Arg>>(8*i)))
	}
	out = append(out, byte(in.Op), byte(in.Arg))
	for i := 0; i < in.Op.Caches(); i++ {
		out = append(out, 0, 0)
	}
	return out, nil
}

// EncodeTryCatch encodes one exception table entry as four varints:
// the start offset and handler offset in instruction units, the range
// length in instruction units, and the stack depth shifted left one
// bit with the lasti flag in the low bit.
func (Codec311) EncodeTryCatch(er ExceptionRange, r Resolver) ([]byte, error) {
	from, err := r.LabelOffset(er.From)
	if err != nil {
		return nil, fmt.Errorf("range start: %w", err)
	}
	to, err := r.LabelOffset(er.To)
	if err != nil {
		return nil, fmt.Errorf("range end: %w", err)
	}
	handler, err := r.LabelOffset(er.Handler)
	if err != nil {
		return nil, fmt.Errorf("range handler: %w", err)
	}
	if from%2 != 0 || to%2 != 0 || handler%2 != 0 {
		return nil, fmt.Errorf("%w: [%d, %d) -> %d", ErrMisalignedOffset, from, to, handler)
	}
	if to < from {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvertedRange, from, to)
	}
	if er.Depth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDepth, er.Depth)
	}

	packed := er.Depth << 1
	if er.Lasti {
		packed |= 1
	}
	out := make([]byte, 0, 8)
	out = AppendVarint(out, from/2)
	out = AppendVarint(out, (to-from)/2)
	out = AppendVarint(out, handler/2)
	out = AppendVarint(out, packed)
	return out, nil
}
