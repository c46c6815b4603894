// Package asm assembles CPython 3.11 bytecode from programmatically
// emitted instructions.
//
// An Assembler accumulates an instruction stream, labels, value pools,
// and exception ranges, then renders them into a CodeUnit: the final
// bytecode, the exception table, and the metadata a loader needs to
// execute the result.
//
// The encoding rules live behind the Codec interface so that other
// interpreter generations can plug in. Codec311 implements the 3.11
// layout:
//
//   - Two-byte instruction units: one opcode byte, one operand byte
//
//   - EXTENDED_ARG prefix pairs for operands wider than one byte, most
//     significant byte first, up to four bytes in total
//
//   - Inline cache padding after specializable opcodes (two zero bytes
//     per cache entry)
//
//   - A zero-cost exception table of varint-encoded ranges, each
//     mapping a protected span of instructions to its handler
//
// Labels are opaque handles owned by the assembler that created them.
// A label is placed at most once; resolving it walks the stream and
// sums the encoded length of everything before its marker, so offsets
// stay correct however wide the preceding operands turn out to be.
//
// Every failure surfaces at the offending call as a wrapped sentinel
// error (see errors.go). Nothing is coerced or deferred: an oversized
// operand, an unknown mnemonic, or an unplaced label stops assembly.
//
// An Assembler is not safe for concurrent use. Each instance belongs
// to one goroutine; the CodeUnit it builds is an independent snapshot
// and may be shared freely.
package asm
