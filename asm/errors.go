package asm

import "errors"

// ---------------------------------------------------------------------------
// Assembly Error Types
// ---------------------------------------------------------------------------

var (
	ErrOpcodeOutOfRange  = errors.New("opcode outside 0..255")
	ErrNegativeOperand   = errors.New("negative operand")
	ErrOperandTooLarge   = errors.New("operand wider than four bytes")
	ErrUnknownMnemonic   = errors.New("unknown mnemonic")
	ErrUnregisteredLabel = errors.New("label not placed in instruction stream")
	ErrDuplicateLabel    = errors.New("label already placed")
	ErrMisalignedOffset  = errors.New("exception range offset not on an instruction boundary")
	ErrInvertedRange     = errors.New("exception range ends before it starts")
	ErrNegativeDepth     = errors.New("negative exception range depth")
	ErrTryBlockClosed    = errors.New("try block already closed")
)
