package interval

import (
	"cmp"
	"fmt"
	"slices"
)

// Number covers the numeric types an interval can range over. The type
// must support ordering, subtraction and delta addition; both integer
// and floating-point axes are usable.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Interval is a closed numeric range [Lower, Upper]. It is valid when
// Lower <= Upper and empty when both bounds coincide.
type Interval[T Number] struct {
	Lower T
	Upper T
}

// New returns the interval [lower, upper].
func New[T Number](lower, upper T) Interval[T] {
	return Interval[T]{Lower: lower, Upper: upper}
}

// Length returns Upper - Lower. It is negative for invalid intervals.
func (i Interval[T]) Length() T { return i.Upper - i.Lower }

// IsValid reports whether Lower <= Upper.
func (i Interval[T]) IsValid() bool { return i.Lower <= i.Upper }

// IsEmpty reports whether the interval is a single point.
func (i Interval[T]) IsEmpty() bool { return i.Lower == i.Upper }

// Before reports whether i ends at or before the start of other.
func (i Interval[T]) Before(other Interval[T]) bool { return i.Upper <= other.Lower }

// After reports whether i starts at or after the end of other.
func (i Interval[T]) After(other Interval[T]) bool { return i.Lower >= other.Upper }

// Contains reports whether other lies completely within i.
func (i Interval[T]) Contains(other Interval[T]) bool {
	return i.Lower <= other.Lower && other.Lower <= other.Upper && other.Upper <= i.Upper
}

// ContainsPoint reports whether p lies within i, bounds included.
func (i Interval[T]) ContainsPoint(p T) bool { return i.Lower <= p && p <= i.Upper }

// Overlaps reports whether i and other share more than a boundary point.
func (i Interval[T]) Overlaps(other Interval[T]) bool {
	return !(i.Upper <= other.Lower || i.Lower >= other.Upper)
}

// Intersection returns the largest interval covered by both i and other.
// The result may be empty or invalid; check IsValid before using it.
func (i Interval[T]) Intersection(other Interval[T]) Interval[T] {
	return Interval[T]{Lower: max(i.Lower, other.Lower), Upper: min(i.Upper, other.Upper)}
}

// Difference returns the parts of i not covered by other: zero, one or
// two intervals.
func (i Interval[T]) Difference(other Interval[T]) []Interval[T] {
	isect := i.Intersection(other)
	if isect.Length() <= 0 {
		return []Interval[T]{i}
	}
	var result []Interval[T]
	if head := New(i.Lower, isect.Lower); head.Length() > 0 {
		result = append(result, head)
	}
	if tail := New(isect.Upper, i.Upper); tail.Length() > 0 {
		result = append(result, tail)
	}
	return result
}

// Shifted returns i translated by delta.
func (i Interval[T]) Shifted(delta T) Interval[T] {
	return Interval[T]{Lower: i.Lower + delta, Upper: i.Upper + delta}
}

// Mod reduces both bounds modulo p. An upper bound landing exactly on a
// period boundary maps to p instead of 0, so an interval ending at the
// boundary stays anchored to the end of the period. When the interval
// straddles a period boundary the result wraps (Upper < Lower); such
// results are filtered out by validity checks downstream.
func (i Interval[T]) Mod(p T) Interval[T] {
	upper := floorMod(i.Upper, p)
	if upper == 0 {
		upper = p
	}
	return Interval[T]{Lower: floorMod(i.Lower, p), Upper: upper}
}

func floorMod[T Number](v, p T) T {
	r := v - p*T(int64(v/p))
	if r < 0 {
		r += p
	}
	return r
}

// String formats the interval as "(lower, upper)".
func (i Interval[T]) String() string { return fmt.Sprintf("(%v, %v)", i.Lower, i.Upper) }

// Compare orders intervals lexicographically by (Lower, Upper).
func Compare[T Number](a, b Interval[T]) int {
	if c := cmp.Compare(a.Lower, b.Lower); c != 0 {
		return c
	}
	return cmp.Compare(a.Upper, b.Upper)
}

// Union merges intervals into a sorted, mutually non-overlapping list
// covering exactly the points of the inputs. Touching intervals are
// merged. The input slice is not modified.
func Union[T Number](intervals ...Interval[T]) []Interval[T] {
	if len(intervals) == 0 {
		return nil
	}
	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, Compare[T])
	result := make([]Interval[T], 0, len(sorted))
	run := sorted[0]
	for _, next := range sorted[1:] {
		if next.Lower <= run.Upper {
			if next.Upper > run.Upper {
				run.Upper = next.Upper
			}
			continue
		}
		result = append(result, run)
		run = next
	}
	return append(result, run)
}
