package asm

import "fmt"

// ---------------------------------------------------------------------------
// Assembler: instruction stream, labels, and pools
// ---------------------------------------------------------------------------

// Assembler accumulates instructions, labels, value pools, and
// exception ranges for one code unit, then renders them through its
// codec. The zero value is not usable; construct with NewAssembler or
// NewAssemblerWithCodec.
type Assembler struct {
	codec Codec

	// instruction stream
	entries []entry
	placed  []bool // indexed by label id - 1

	// pools
	consts   Pool
	names    Pool
	varNames Pool
	argNames []string

	// exception ranges, in registration order
	ranges []ExceptionRange
}

// NewAssembler returns an assembler targeting the CPython 3.11
// instruction format. Argument names are registered as the leading
// local variables.
func NewAssembler(argNames ...string) *Assembler {
	return NewAssemblerWithCodec(Codec311{}, argNames...)
}

// NewAssemblerWithCodec returns an assembler rendering through the
// given codec.
func NewAssemblerWithCodec(codec Codec, argNames ...string) *Assembler {
	a := &Assembler{
		codec:    codec,
		argNames: append([]string(nil), argNames...),
	}
	for _, name := range argNames {
		a.varNames.Add(name)
	}
	return a
}

// ---------------------------------------------------------------------------
// Instruction stream
// ---------------------------------------------------------------------------

// EmitOp appends an instruction to the stream. The codec validates the
// opcode and operand up front, so a stream that was built without
// errors always renders.
func (a *Assembler) EmitOp(op Opcode, arg int) error {
	in := Insn{Op: op, Arg: arg}
	if _, err := a.codec.EncodeInsn(in); err != nil {
		return err
	}
	a.entries = append(a.entries, entry{insn: in})
	return nil
}

// Emit appends an instruction to the stream by mnemonic.
func (a *Assembler) Emit(name string, arg int) error {
	op, ok := OpcodeByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMnemonic, name)
	}
	return a.EmitOp(op, arg)
}

// ---------------------------------------------------------------------------
// Labels
// ---------------------------------------------------------------------------

// NewLabel registers a fresh, unplaced label. Place it later with
// MarkLabel.
func (a *Assembler) NewLabel() Label {
	a.placed = append(a.placed, false)
	return Label{id: len(a.placed)}
}

// Mark registers a fresh label and places it at the current position
// in the instruction stream.
func (a *Assembler) Mark() Label {
	l := a.NewLabel()
	a.entries = append(a.entries, entry{label: l})
	a.placed[l.id-1] = true
	return l
}

// MarkLabel places a previously registered label at the current
// position in the instruction stream. Each label may be placed exactly
// once.
func (a *Assembler) MarkLabel(l Label) error {
	if !a.owns(l) {
		return fmt.Errorf("%w: %s", ErrUnregisteredLabel, l)
	}
	if a.placed[l.id-1] {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, l)
	}
	a.entries = append(a.entries, entry{label: l})
	a.placed[l.id-1] = true
	return nil
}

func (a *Assembler) owns(l Label) bool {
	return l.id >= 1 && l.id <= len(a.placed)
}

// LabelOffset returns the byte offset a placed label resolves to in
// the rendered bytecode. The offset is computed from the stream at
// call time; since the stream is append-only it never shifts once the
// label is placed.
func (a *Assembler) LabelOffset(l Label) (int, error) {
	if !a.owns(l) || !a.placed[l.id-1] {
		return 0, fmt.Errorf("%w: %s", ErrUnregisteredLabel, l)
	}
	off := 0
	for _, e := range a.entries {
		if e.isLabel() {
			if e.label == l {
				return off, nil
			}
			continue
		}
		enc, err := a.codec.EncodeInsn(e.insn)
		if err != nil {
			return 0, err
		}
		off += len(enc)
	}
	return 0, fmt.Errorf("%w: %s", ErrUnregisteredLabel, l)
}

// CodeLen returns the byte length of the rendered bytecode.
func (a *Assembler) CodeLen() (int, error) {
	off := 0
	for _, e := range a.entries {
		if e.isLabel() {
			continue
		}
		enc, err := a.codec.EncodeInsn(e.insn)
		if err != nil {
			return 0, err
		}
		off += len(enc)
	}
	return off, nil
}

// ---------------------------------------------------------------------------
// Pools
// ---------------------------------------------------------------------------

// AddConst adds a value to the constant pool and returns its index.
// If an equal value already exists, returns the existing index.
func (a *Assembler) AddConst(v any) int {
	return a.consts.Add(v)
}

// AddName adds a name to the name pool and returns its index.
// If the name already exists, returns the existing index.
func (a *Assembler) AddName(name string) int {
	return a.names.Add(name)
}

// AddLocal adds a name to the local variable pool and returns its
// index. Argument names occupy the leading slots.
func (a *Assembler) AddLocal(name string) int {
	return a.varNames.Add(name)
}

// ---------------------------------------------------------------------------
// Exception ranges
// ---------------------------------------------------------------------------

// AddExceptionRange registers a protected range. Labels must belong to
// this assembler but may still be unplaced; they resolve when the
// exception table is rendered.
func (a *Assembler) AddExceptionRange(from, to, handler Label, depth int, lasti bool) error {
	if depth < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDepth, depth)
	}
	for _, l := range []Label{from, to, handler} {
		if !a.owns(l) {
			return fmt.Errorf("%w: %s", ErrUnregisteredLabel, l)
		}
	}
	a.ranges = append(a.ranges, ExceptionRange{
		From:    from,
		To:      to,
		Handler: handler,
		Depth:   depth,
		Lasti:   lasti,
	})
	return nil
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

// Bytecode renders the instruction stream.
func (a *Assembler) Bytecode() ([]byte, error) {
	out := make([]byte, 0, 2*len(a.entries))
	for _, e := range a.entries {
		if e.isLabel() {
			continue
		}
		enc, err := a.codec.EncodeInsn(e.insn)
		if err != nil {
			return nil, err
		}
		out = append(out, enc...)
	}
	return out, nil
}

// ExceptionTable renders the exception table, one entry per registered
// range in registration order.
func (a *Assembler) ExceptionTable() ([]byte, error) {
	out := make([]byte, 0, 8*len(a.ranges))
	for _, er := range a.ranges {
		enc, err := a.codec.EncodeTryCatch(er, a)
		if err != nil {
			return nil, err
		}
		out = append(out, enc...)
	}
	return out, nil
}

// Build renders the assembler state into a CodeUnit. Build does not
// consume the assembler: calling it again, or emitting further
// instructions and calling it again, is fine.
func (a *Assembler) Build() (*CodeUnit, error) {
	code, err := a.Bytecode()
	if err != nil {
		return nil, err
	}
	table, err := a.ExceptionTable()
	if err != nil {
		return nil, err
	}
	return &CodeUnit{
		ArgCount:       len(a.argNames),
		LocalCount:     a.varNames.Len(),
		StackSize:      defaultStackSize,
		Bytecode:       code,
		Consts:         a.consts.Values(),
		Names:          a.names.Strings(),
		VarNames:       a.varNames.Strings(),
		Filename:       defaultFilename,
		ExceptionTable: table,
	}, nil
}
