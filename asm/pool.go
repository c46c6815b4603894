package asm

// ---------------------------------------------------------------------------
// Pool: create-or-get value pools
// ---------------------------------------------------------------------------

// Pool is an append-only collection of distinct values with stable
// indices. The zero value is an empty pool ready for use.
//
// Values are compared with Go equality, so entries of distinct dynamic
// type never collide: 1, 1.0, "1", and true occupy four slots. Stored
// values must be comparable with ==.
type Pool struct {
	values []any
}

// Add adds a value to the pool and returns its index.
// If an equal value already exists, returns the existing index.
func (p *Pool) Add(v any) int {
	for i, existing := range p.values {
		if existing == v {
			return i
		}
	}
	p.values = append(p.values, v)
	return len(p.values) - 1
}

// Len returns the number of values in the pool.
func (p *Pool) Len() int {
	return len(p.values)
}

// At returns the value at the given index.
// Panics if the index is out of range.
func (p *Pool) At(index int) any {
	if index < 0 || index >= len(p.values) {
		panic("Pool.At: index out of range")
	}
	return p.values[index]
}

// Values returns a copy of the pool contents in index order.
func (p *Pool) Values() []any {
	out := make([]any, len(p.values))
	copy(out, p.values)
	return out
}

// Strings returns a copy of the pool contents in index order.
// Panics if any value is not a string.
func (p *Pool) Strings() []string {
	out := make([]string, len(p.values))
	for i, v := range p.values {
		s, ok := v.(string)
		if !ok {
			panic("Pool.Strings: non-string value")
		}
		out[i] = s
	}
	return out
}
