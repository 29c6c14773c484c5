package ecs

// Joinable is anything Join can advance in lock-step: a sequence of
// positions 0..Len()-1 each either valid or not. ComponentStorage,
// ReadComp, WriteComp and EntityAllocator all satisfy it.
type Joinable interface {
	Len() int
	Valid(i int) bool
}

// Accessor is a Joinable that can also produce the value at a valid
// position, letting the typed Join2/Join3/Join4 helpers hand back real
// values instead of bare indices.
type Accessor[C any] interface {
	Joinable
	Get(i int) (C, bool)
}

func minLen(operands []Joinable) int {
	if len(operands) == 0 {
		return 0
	}
	m := operands[0].Len()
	for _, o := range operands[1:] {
		if l := o.Len(); l < m {
			m = l
		}
	}
	return m
}

// Iterator walks the positions where every operand passed to Join is
// valid, in index order. A single operand's Join is equivalent to
// filtering out its invalid slots.
type Iterator struct {
	operands []Joinable
	i, n     int
}

// Join returns an Iterator over the positions where every operand is
// valid. It is the type-erased, arbitrary-arity form; use Join2/Join3/Join4
// when the operands' value types are known and the tuple of values is
// wanted directly.
func Join(operands ...Joinable) *Iterator {
	return &Iterator{operands: operands, n: minLen(operands)}
}

// Next advances to the next jointly-valid position, returning its index.
// ok is false once the sequence is exhausted.
func (it *Iterator) Next() (index int, ok bool) {
	for it.i < it.n {
		idx := it.i
		it.i++
		allValid := true
		for _, o := range it.operands {
			if !o.Valid(idx) {
				allValid = false
				break
			}
		}
		if allValid {
			return idx, true
		}
	}
	return 0, false
}

// Join2Iter yields index-aligned pairs from two typed operands.
type Join2Iter[A, B any] struct {
	a    Accessor[A]
	b    Accessor[B]
	i, n int
}

// Join2 joins two typed operands.
func Join2[A, B any](a Accessor[A], b Accessor[B]) *Join2Iter[A, B] {
	n := a.Len()
	if l := b.Len(); l < n {
		n = l
	}
	return &Join2Iter[A, B]{a: a, b: b, n: n}
}

// Next returns the next jointly-valid index and its two values.
func (it *Join2Iter[A, B]) Next() (index int, av A, bv B, ok bool) {
	for it.i < it.n {
		idx := it.i
		it.i++
		if it.a.Valid(idx) && it.b.Valid(idx) {
			av, _ = it.a.Get(idx)
			bv, _ = it.b.Get(idx)
			return idx, av, bv, true
		}
	}
	return 0, av, bv, false
}

// Join3Iter yields index-aligned triples from three typed operands.
type Join3Iter[A, B, C any] struct {
	a    Accessor[A]
	b    Accessor[B]
	c    Accessor[C]
	i, n int
}

// Join3 joins three typed operands.
func Join3[A, B, C any](a Accessor[A], b Accessor[B], c Accessor[C]) *Join3Iter[A, B, C] {
	n := a.Len()
	if l := b.Len(); l < n {
		n = l
	}
	if l := c.Len(); l < n {
		n = l
	}
	return &Join3Iter[A, B, C]{a: a, b: b, c: c, n: n}
}

// Next returns the next jointly-valid index and its three values.
func (it *Join3Iter[A, B, C]) Next() (index int, av A, bv B, cv C, ok bool) {
	for it.i < it.n {
		idx := it.i
		it.i++
		if it.a.Valid(idx) && it.b.Valid(idx) && it.c.Valid(idx) {
			av, _ = it.a.Get(idx)
			bv, _ = it.b.Get(idx)
			cv, _ = it.c.Get(idx)
			return idx, av, bv, cv, true
		}
	}
	return 0, av, bv, cv, false
}

// Join4Iter yields index-aligned quadruples from four typed operands.
type Join4Iter[A, B, C, D any] struct {
	a    Accessor[A]
	b    Accessor[B]
	c    Accessor[C]
	d    Accessor[D]
	i, n int
}

// Join4 joins four typed operands.
func Join4[A, B, C, D any](a Accessor[A], b Accessor[B], c Accessor[C], d Accessor[D]) *Join4Iter[A, B, C, D] {
	n := a.Len()
	if l := b.Len(); l < n {
		n = l
	}
	if l := c.Len(); l < n {
		n = l
	}
	if l := d.Len(); l < n {
		n = l
	}
	return &Join4Iter[A, B, C, D]{a: a, b: b, c: c, d: d, n: n}
}

// Next returns the next jointly-valid index and its four values.
func (it *Join4Iter[A, B, C, D]) Next() (index int, av A, bv B, cv C, dv D, ok bool) {
	for it.i < it.n {
		idx := it.i
		it.i++
		if it.a.Valid(idx) && it.b.Valid(idx) && it.c.Valid(idx) && it.d.Valid(idx) {
			av, _ = it.a.Get(idx)
			bv, _ = it.b.Get(idx)
			cv, _ = it.c.Get(idx)
			dv, _ = it.d.Get(idx)
			return idx, av, bv, cv, dv, true
		}
	}
	return 0, av, bv, cv, dv, false
}
