package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenTryBlockNegativeDepth(t *testing.T) {
	a := NewAssembler()
	_, err := a.OpenTryBlock(-1, false)
	require.ErrorIs(t, err, ErrNegativeDepth)
}

func TestTryBlockCloseOnce(t *testing.T) {
	a := NewAssembler()
	tb, err := a.OpenTryBlock(0, false)
	require.Nil(t, err)
	emit(t, a, OpNop, 0)
	require.Nil(t, tb.Close())
	require.ErrorIs(t, tb.Close(), ErrTryBlockClosed)
}

func TestTryBlockRegistersRange(t *testing.T) {
	a := NewAssembler()
	emit(t, a, OpResume, 0)

	tb, err := a.OpenTryBlock(2, false)
	require.Nil(t, err)
	emit(t, a, OpNop, 0)
	emit(t, a, OpNop, 0)
	require.Nil(t, tb.Close())

	table, err := a.ExceptionTable()
	require.Nil(t, err)
	// [2, 6) handled at 6, depth 2
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, table)
}

func TestAssembleTryCatch(t *testing.T) {
	a := NewAssembler()
	emit(t, a, OpResume, 0)

	body, err := a.OpenTryBlock(0, false)
	require.Nil(t, err)
	emit(t, a, OpPushNull, 0)
	emit(t, a, OpLoadName, a.AddName("ValueError"))
	emit(t, a, OpLoadConst, a.AddConst("Hello world"))
	emit(t, a, OpPrecall, 1)
	emit(t, a, OpCall, 1)
	emit(t, a, OpRaiseVarargs, 1)
	require.Nil(t, body.Close())

	handler, err := a.OpenTryBlock(1, true)
	require.Nil(t, err)
	emit(t, a, OpPushExcInfo, 0)
	emit(t, a, OpStoreName, a.AddName("e"))
	emit(t, a, OpPushNull, 0)
	emit(t, a, OpLoadName, a.AddName("type"))
	emit(t, a, OpLoadName, a.AddName("e"))
	emit(t, a, OpPrecall, 1)
	emit(t, a, OpCall, 1)
	emit(t, a, OpStoreName, a.AddName("e1"))
	emit(t, a, OpPushNull, 0)
	emit(t, a, OpLoadName, a.AddName("print"))
	emit(t, a, OpLoadName, a.AddName("e1"))
	emit(t, a, OpLoadName, a.AddName("e"))
	emit(t, a, OpPrecall, 2)
	emit(t, a, OpCall, 2)
	emit(t, a, OpPopTop, 0)
	emit(t, a, OpPopExcept, 0)
	emit(t, a, OpLoadConst, a.AddConst(nil))
	emit(t, a, OpReturnValue, 0)
	require.Nil(t, handler.Close())

	emit(t, a, OpCopy, 0)
	emit(t, a, OpPopExcept, 0)
	emit(t, a, OpReraise, 1)

	unit, err := a.Build()
	require.Nil(t, err)

	want := []byte{
		0x97, 0x00, // RESUME 0
		0x02, 0x00, // PUSH_NULL
		0x65, 0x00, // LOAD_NAME ValueError
		0x64, 0x00, // LOAD_CONST "Hello world"
		0xA6, 0x01, // PRECALL 1
		0x00, 0x00,
		0xAB, 0x01, // CALL 1
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x82, 0x01, // RAISE_VARARGS 1
		0x23, 0x00, // PUSH_EXC_INFO
		0x5A, 0x01, // STORE_NAME e
		0x02, 0x00, // PUSH_NULL
		0x65, 0x02, // LOAD_NAME type
		0x65, 0x01, // LOAD_NAME e
		0xA6, 0x01, // PRECALL 1
		0x00, 0x00,
		0xAB, 0x01, // CALL 1
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x5A, 0x03, // STORE_NAME e1
		0x02, 0x00, // PUSH_NULL
		0x65, 0x04, // LOAD_NAME print
		0x65, 0x03, // LOAD_NAME e1
		0x65, 0x01, // LOAD_NAME e
		0xA6, 0x02, // PRECALL 2
		0x00, 0x00,
		0xAB, 0x02, // CALL 2
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, // POP_TOP
		0x59, 0x00, // POP_EXCEPT
		0x64, 0x01, // LOAD_CONST None
		0x53, 0x00, // RETURN_VALUE
		0x78, 0x00, // COPY 0
		0x59, 0x00, // POP_EXCEPT
		0x77, 0x01, // RERAISE 1
	}
	require.Equal(t, want, unit.Bytecode)
	require.Equal(t, []string{"ValueError", "e", "type", "e1", "print"}, unit.Names)
	require.Equal(t, []any{"Hello world", nil}, unit.Consts)

	// body protected over [2, 24) with its handler at 24, the handler
	// itself protected over [24, 80) with cleanup at 80
	require.Equal(t, []byte{
		0x01, 0x0B, 0x0C, 0x00,
		0x0C, 0x1C, 0x28, 0x03,
	}, unit.ExceptionTable)
}
