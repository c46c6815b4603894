package asm

import "fmt"

// ---------------------------------------------------------------------------
// TryBlock: bracketed exception ranges
// ---------------------------------------------------------------------------

// TryBlock brackets a protected span of the instruction stream. Open
// one before emitting the instructions to protect and Close it where
// the span ends; the handler receives control at that same position,
// so its instructions follow the Close call.
type TryBlock struct {
	asm    *Assembler
	from   Label
	depth  int
	lasti  bool
	closed bool
}

// OpenTryBlock starts a protected range at the current stream
// position.
func (a *Assembler) OpenTryBlock(depth int, lasti bool) (*TryBlock, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDepth, depth)
	}
	return &TryBlock{
		asm:   a,
		from:  a.Mark(),
		depth: depth,
		lasti: lasti,
	}, nil
}

// Close ends the protected range at the current stream position and
// registers it, with the handler starting where the range ends. A
// block may be closed only once.
func (t *TryBlock) Close() error {
	if t.closed {
		return ErrTryBlockClosed
	}
	t.closed = true
	end := t.asm.Mark()
	return t.asm.AddExceptionRange(t.from, end, end, t.depth, t.lasti)
}
