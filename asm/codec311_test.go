package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fixedResolver maps labels to predetermined offsets.
type fixedResolver map[Label]int

func (r fixedResolver) LabelOffset(l Label) (int, error) {
	off, ok := r[l]
	if !ok {
		return 0, ErrUnregisteredLabel
	}
	return off, nil
}

func TestEncodeInsnPlain(t *testing.T) {
	var c Codec311
	got, err := c.EncodeInsn(Insn{Op: OpLoadConst, Arg: 3})
	require.Nil(t, err)
	require.Equal(t, []byte{0x64, 0x03}, got)
}

func TestEncodeInsnCaches(t *testing.T) {
	var c Codec311

	got, err := c.EncodeInsn(Insn{Op: OpPrecall, Arg: 1})
	require.Nil(t, err)
	require.Equal(t, []byte{0xA6, 0x01, 0x00, 0x00}, got)

	got, err = c.EncodeInsn(Insn{Op: OpCall, Arg: 2})
	require.Nil(t, err)
	require.Equal(t, []byte{
		0xAB, 0x02,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}, got)

	got, err = c.EncodeInsn(Insn{Op: OpLoadMethod, Arg: 0})
	require.Nil(t, err)
	require.Equal(t, 22, len(got))
}

func TestEncodeInsnExtendedArg(t *testing.T) {
	var c Codec311
	tests := []struct {
		arg  int
		want []byte
	}{
		{0, []byte{0x64, 0x00}},
		{255, []byte{0x64, 0xFF}},
		{256, []byte{0x90, 0x01, 0x64, 0x00}},
		{0x1234, []byte{0x90, 0x12, 0x64, 0x34}},
		{0x123456, []byte{0x90, 0x12, 0x90, 0x34, 0x64, 0x56}},
		{0x12345678, []byte{0x90, 0x12, 0x90, 0x34, 0x90, 0x56, 0x64, 0x78}},
		{0xFFFFFFFF, []byte{0x90, 0xFF, 0x90, 0xFF, 0x90, 0xFF, 0x64, 0xFF}},
	}
	for _, tt := range tests {
		got, err := c.EncodeInsn(Insn{Op: OpLoadConst, Arg: tt.arg})
		require.Nil(t, err)
		require.Equal(t, tt.want, got, "arg %#x", tt.arg)
	}
}

func TestEncodeInsnExtendedArgWithCaches(t *testing.T) {
	var c Codec311
	got, err := c.EncodeInsn(Insn{Op: OpCall, Arg: 256})
	require.Nil(t, err)
	require.Equal(t, []byte{
		0x90, 0x01, 0xAB, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}, got)
}

func TestEncodeInsnErrors(t *testing.T) {
	var c Codec311

	_, err := c.EncodeInsn(Insn{Op: Opcode(300), Arg: 0})
	require.ErrorIs(t, err, ErrOpcodeOutOfRange)

	_, err = c.EncodeInsn(Insn{Op: Opcode(-1), Arg: 0})
	require.ErrorIs(t, err, ErrOpcodeOutOfRange)

	_, err = c.EncodeInsn(Insn{Op: OpLoadConst, Arg: -1})
	require.ErrorIs(t, err, ErrNegativeOperand)

	_, err = c.EncodeInsn(Insn{Op: OpLoadConst, Arg: 1 << 32})
	require.ErrorIs(t, err, ErrOperandTooLarge)
}

func TestEncodeTryCatch(t *testing.T) {
	var c Codec311
	from, to, handler := Label{id: 1}, Label{id: 2}, Label{id: 3}
	r := fixedResolver{from: 2, to: 24, handler: 24}

	got, err := c.EncodeTryCatch(ExceptionRange{From: from, To: to, Handler: handler}, r)
	require.Nil(t, err)
	require.Equal(t, []byte{0x01, 0x0B, 0x0C, 0x00}, got)
}

func TestEncodeTryCatchDepthAndLasti(t *testing.T) {
	var c Codec311
	from, to, handler := Label{id: 1}, Label{id: 2}, Label{id: 3}
	r := fixedResolver{from: 24, to: 80, handler: 80}

	er := ExceptionRange{From: from, To: to, Handler: handler, Depth: 1, Lasti: true}
	got, err := c.EncodeTryCatch(er, r)
	require.Nil(t, err)
	require.Equal(t, []byte{0x0C, 0x1C, 0x28, 0x03}, got)
}

func TestEncodeTryCatchEmptyRange(t *testing.T) {
	var c Codec311
	from, to, handler := Label{id: 1}, Label{id: 2}, Label{id: 3}
	r := fixedResolver{from: 2, to: 2, handler: 2}

	got, err := c.EncodeTryCatch(ExceptionRange{From: from, To: to, Handler: handler}, r)
	require.Nil(t, err)
	require.Equal(t, []byte{0x01, 0x00, 0x01, 0x00}, got)
}

func TestEncodeTryCatchWideOffsets(t *testing.T) {
	var c Codec311
	from, to, handler := Label{id: 1}, Label{id: 2}, Label{id: 3}
	r := fixedResolver{from: 0, to: 2048, handler: 2048}

	got, err := c.EncodeTryCatch(ExceptionRange{From: from, To: to, Handler: handler}, r)
	require.Nil(t, err)
	require.Equal(t, []byte{0x00, 0x50, 0x00, 0x50, 0x00, 0x00}, got)
}

func TestEncodeTryCatchErrors(t *testing.T) {
	var c Codec311
	from, to, handler := Label{id: 1}, Label{id: 2}, Label{id: 3}
	er := ExceptionRange{From: from, To: to, Handler: handler}

	_, err := c.EncodeTryCatch(er, fixedResolver{from: 3, to: 24, handler: 24})
	require.ErrorIs(t, err, ErrMisalignedOffset)

	_, err = c.EncodeTryCatch(er, fixedResolver{from: 24, to: 2, handler: 24})
	require.ErrorIs(t, err, ErrInvertedRange)

	_, err = c.EncodeTryCatch(er, fixedResolver{from: 2, to: 24})
	require.ErrorIs(t, err, ErrUnregisteredLabel)

	er.Depth = -1
	_, err = c.EncodeTryCatch(er, fixedResolver{from: 2, to: 24, handler: 24})
	require.ErrorIs(t, err, ErrNegativeDepth)
}
