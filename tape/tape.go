// Package tape implements the interpreter's cell memory: an ordered sequence
// of 8-bit cells, a pointer into it, and the bounds policy that governs
// pointer movement.
package tape

import (
	"math"

	"github.com/brack-io/brack/errz"
)

type boundsMode int

const (
	modeUnbounded boundsMode = iota
	modeFixedWrap
	modeFixedStrict
)

// Bounds is the pointer bounds policy for a tape.
type Bounds struct {
	mode     boundsMode
	capacity int
}

// Unbounded returns the policy for a growable tape: the pointer may move
// anywhere in [0, MaxInt] and cells are allocated lazily on write.
func Unbounded() Bounds {
	return Bounds{mode: modeUnbounded}
}

// FixedWrap returns the policy for a preallocated tape of the given capacity
// where the pointer wraps modulo capacity. Capacity must be positive.
func FixedWrap(capacity int) Bounds {
	if capacity < 1 {
		panic("tape: capacity must be positive")
	}
	return Bounds{mode: modeFixedWrap, capacity: capacity}
}

// FixedStrict returns the policy for a preallocated tape of the given
// capacity where moving outside [0, capacity) is an error. Capacity must be
// positive.
func FixedStrict(capacity int) Bounds {
	if capacity < 1 {
		panic("tape: capacity must be positive")
	}
	return Bounds{mode: modeFixedStrict, capacity: capacity}
}

// Fixed reports whether the policy preallocates a fixed number of cells.
func (b Bounds) Fixed() bool {
	return b.mode != modeUnbounded
}

// Capacity returns the cell limit for fixed policies and 0 for Unbounded.
func (b Bounds) Capacity() int {
	return b.capacity
}

// Tape is the cell memory for one interpreter instance. Cell arithmetic
// always wraps modulo 256; pointer movement follows the bounds policy. A
// Tape is not safe for concurrent use.
type Tape struct {
	cells  []byte
	pos    int
	bounds Bounds
}

// New returns a zeroed tape with the pointer at position 0. Fixed policies
// preallocate their full capacity; Unbounded starts empty and grows on
// write.
func New(bounds Bounds) *Tape {
	t := &Tape{bounds: bounds}
	if bounds.Fixed() {
		t.cells = make([]byte, bounds.capacity)
	}
	return t
}

// Current returns the value of the cell under the pointer. Reading an
// unvisited position on a growable tape yields 0 without allocating.
func (t *Tape) Current() byte {
	if t.pos >= len(t.cells) {
		return 0
	}
	return t.cells[t.pos]
}

// cell returns the addressable cell under the pointer, growing the tape up
// to and including the pointer position if needed.
func (t *Tape) cell() *byte {
	if t.pos >= len(t.cells) {
		grown := make([]byte, t.pos+1)
		copy(grown, t.cells)
		t.cells = grown
	}
	return &t.cells[t.pos]
}

// Set writes a value to the cell under the pointer.
func (t *Tape) Set(value byte) {
	*t.cell() = value
}

// Increment adds one to the cell under the pointer, wrapping 255 to 0.
func (t *Tape) Increment() {
	*t.cell()++
}

// Decrement subtracts one from the cell under the pointer, wrapping 0 to 255.
func (t *Tape) Decrement() {
	*t.cell()--
}

// Advance moves the pointer one cell to the right per the bounds policy.
func (t *Tape) Advance() error {
	switch t.bounds.mode {
	case modeFixedWrap:
		t.pos = (t.pos + 1) % t.bounds.capacity
	case modeFixedStrict:
		if t.pos+1 >= t.bounds.capacity {
			return errz.OutOfBounds("pointer %d outside [0, %d)", t.pos+1, t.bounds.capacity)
		}
		t.pos++
	default:
		if t.pos == math.MaxInt {
			return errz.OutOfBounds("pointer overflow")
		}
		t.pos++
	}
	return nil
}

// Retreat moves the pointer one cell to the left per the bounds policy.
func (t *Tape) Retreat() error {
	switch t.bounds.mode {
	case modeFixedWrap:
		t.pos = (t.pos - 1 + t.bounds.capacity) % t.bounds.capacity
	case modeFixedStrict:
		if t.pos == 0 {
			return errz.OutOfBounds("pointer -1 outside [0, %d)", t.bounds.capacity)
		}
		t.pos--
	default:
		if t.pos == 0 {
			return errz.OutOfBounds("pointer underflow")
		}
		t.pos--
	}
	return nil
}

// Pos returns the current pointer position.
func (t *Tape) Pos() int {
	return t.pos
}

// Len returns the number of allocated cells.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Snapshot returns a copy of the tape contents. With trim set, trailing zero
// cells are dropped.
func (t *Tape) Snapshot(trim bool) []byte {
	n := len(t.cells)
	if trim {
		for n > 0 && t.cells[n-1] == 0 {
			n--
		}
	}
	out := make([]byte, n)
	copy(out, t.cells[:n])
	return out
}
