package asm

// ---------------------------------------------------------------------------
// Varint encoding for exception tables
// ---------------------------------------------------------------------------

// Exception table fields are packed as a sequence of 6-bit groups, most
// significant group first. Every byte except the last carries the
// continuation bit; the low 6 bits hold the payload.

const varintContinue = 0x40 // continuation bit, set on all but the final byte

// AppendVarint appends the variable-length encoding of v to dst and
// returns the extended slice. The encoding is minimal: no redundant
// leading zero groups, and zero encodes as a single 0x00 byte.
// Panics if v is negative.
func AppendVarint(dst []byte, v int) []byte {
	if v < 0 {
		panic("AppendVarint: negative value")
	}
	var groups [11]byte // 64 bits / 6 bits per group, rounded up
	n := 0
	for {
		groups[n] = byte(v & 0x3F)
		n++
		v >>= 6
		if v == 0 {
			break
		}
	}
	for i := n - 1; i > 0; i-- {
		dst = append(dst, groups[i]|varintContinue)
	}
	return append(dst, groups[0])
}

// ReadVarint decodes a variable-length integer from the start of b and
// returns the value along with the number of bytes consumed.
// Panics if b ends before the final group.
func ReadVarint(b []byte) (int, int) {
	v := 0
	for i := 0; ; i++ {
		if i >= len(b) {
			panic("ReadVarint: truncated varint")
		}
		v = v<<6 | int(b[i]&0x3F)
		if b[i]&varintContinue == 0 {
			return v, i + 1
		}
	}
}
