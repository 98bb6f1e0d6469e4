package runtime

import (
	"math"

	"github.com/deicod/goliquid/values"
)

// sequence is the indexed view a for loop iterates over.
type sequence interface {
	Len() int
	At(i int) values.Value
}

type arraySequence []values.Value

func (s arraySequence) Len() int              { return len(s) }
func (s arraySequence) At(i int) values.Value { return s[i] }

// rangeSequence yields the integers from..from+n-1 without allocating them.
type rangeSequence struct {
	from int64
	n    int
}

// newRangeSequence returns the inclusive range from..to. A reversed range
// is empty. Bounds come from toRangeBound, so to-from cannot overflow.
func newRangeSequence(from, to int64) rangeSequence {
	if to < from {
		return rangeSequence{from: from}
	}
	n := uint64(to-from) + 1
	if n > math.MaxInt {
		n = math.MaxInt
	}
	return rangeSequence{from: from, n: int(n)}
}

func (s rangeSequence) Len() int { return s.n }

func (s rangeSequence) At(i int) values.Value {
	return values.Number(float64(s.from + int64(i)))
}

// windowSequence is a contiguous, optionally reversed slice of another
// sequence.
type windowSequence struct {
	seq      sequence
	start, n int
	reversed bool
}

func (s windowSequence) Len() int { return s.n }

func (s windowSequence) At(i int) values.Value {
	if s.reversed {
		i = s.n - 1 - i
	}
	return s.seq.At(s.start + i)
}

// window skips offset items, keeps at most limit of the rest (all when
// limit is negative) and optionally reverses them.
func window(seq sequence, offset, limit int, reversed bool) sequence {
	n := seq.Len()
	offset = min(max(offset, 0), n)
	count := n - offset
	if limit >= 0 {
		count = min(count, limit)
	}
	if offset == 0 && count == n && !reversed {
		return seq
	}
	return windowSequence{seq: seq, start: offset, n: count, reversed: reversed}
}
