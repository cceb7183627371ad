package search

import (
	"math/big"
)

// Range is an inclusive arithmetic progression start, start+step, ... <= end.
// A Range never mutates the integers it was built from.
type Range struct {
	start *big.Int
	end   *big.Int
	step  *big.Int
}

// NewRange builds the inclusive range [start, end] walked with the given
// positive step. A step below 1 is treated as 1.
func NewRange(start, end *big.Int, step int64) Range {
	if step < 1 {
		step = 1
	}
	return Range{
		start: new(big.Int).Set(start),
		end:   new(big.Int).Set(end),
		step:  big.NewInt(step),
	}
}

// Start returns a copy of the first element.
func (r Range) Start() *big.Int {
	return new(big.Int).Set(r.start)
}

// End returns a copy of the inclusive upper bound.
func (r Range) End() *big.Int {
	return new(big.Int).Set(r.end)
}

// Empty reports whether the range has no elements.
func (r Range) Empty() bool {
	return r.end.Cmp(r.start) < 0
}

// Len returns the number of elements in the range.
func (r Range) Len() *big.Int {
	if r.Empty() {
		return new(big.Int)
	}
	n := new(big.Int).Sub(r.end, r.start)
	n.Quo(n, r.step)
	return n.Add(n, one)
}

// Chunks splits the range into ordered chunks of at most size elements.
func (r Range) Chunks(size int) *Chunks {
	if size < 1 {
		size = 1
	}
	return &Chunks{
		r:        r,
		size:     big.NewInt(int64(size)),
		total:    r.Len(),
		consumed: new(big.Int),
	}
}

// Chunks iterates the chunks of a Range in ascending order. It is not safe
// for concurrent use; the chunks it returns are.
type Chunks struct {
	r        Range
	size     *big.Int
	total    *big.Int
	consumed *big.Int
	seq      int
}

// Next returns the next chunk, or false once the range is exhausted.
func (cs *Chunks) Next() (Chunk, bool) {
	remaining := new(big.Int).Sub(cs.total, cs.consumed)
	if remaining.Sign() <= 0 {
		return Chunk{}, false
	}

	n := cs.size
	if remaining.Cmp(n) < 0 {
		n = remaining
	}

	first := new(big.Int).Mul(cs.consumed, cs.r.step)
	first.Add(first, cs.r.start)
	cs.consumed.Add(cs.consumed, n)

	c := Chunk{
		Seq:      cs.seq,
		first:    first,
		step:     cs.r.step,
		n:        int(n.Int64()),
		consumed: new(big.Int).Set(cs.consumed),
	}
	cs.seq++
	return c, true
}

// Total returns the number of elements across all chunks.
func (cs *Chunks) Total() *big.Int {
	return new(big.Int).Set(cs.total)
}

// Chunk is a contiguous, ordered slice of a Range.
type Chunk struct {
	Seq      int
	first    *big.Int
	step     *big.Int
	n        int
	consumed *big.Int
}

// Len returns the number of elements in the chunk.
func (c Chunk) Len() int {
	return c.n
}

// First returns a copy of the smallest element of the chunk.
func (c Chunk) First() *big.Int {
	return new(big.Int).Set(c.first)
}

// At stores the i-th element of the chunk in dst and returns it.
func (c Chunk) At(i int, dst *big.Int) *big.Int {
	dst.SetInt64(int64(i))
	dst.Mul(dst, c.step)
	return dst.Add(dst, c.first)
}

// Consumed returns how many elements of the whole range precede the end of
// this chunk, this chunk included.
func (c Chunk) Consumed() *big.Int {
	return new(big.Int).Set(c.consumed)
}

var one = big.NewInt(1)
