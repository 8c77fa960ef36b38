package intervalset

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/kilianp07/timegrid/core/interval"
)

// Set is an ordered collection of non-overlapping intervals. The zero
// value is the empty set. Sets are normalized at construction via
// interval.Union and never hold overlapping members.
type Set[T interval.Number] struct {
	intervals []interval.Interval[T]
}

// New builds a set from arbitrary intervals, merging overlap.
func New[T interval.Number](intervals ...interval.Interval[T]) Set[T] {
	return Set[T]{intervals: interval.Union(intervals...)}
}

// fromNormalized wraps intervals that are already sorted and disjoint.
func fromNormalized[T interval.Number](intervals []interval.Interval[T]) Set[T] {
	return Set[T]{intervals: intervals}
}

// Intervals returns a copy of the member intervals in order.
func (s Set[T]) Intervals() []interval.Interval[T] {
	return slices.Clone(s.intervals)
}

// IsEmpty reports whether the set has no members.
func (s Set[T]) IsEmpty() bool { return len(s.intervals) == 0 }

// Length returns the summed length of all members.
func (s Set[T]) Length() T {
	var total T
	for _, iv := range s.intervals {
		total += iv.Length()
	}
	return total
}

// Shifted returns the set translated by delta.
func (s Set[T]) Shifted(delta T) Set[T] {
	shifted := make([]interval.Interval[T], len(s.intervals))
	for i, iv := range s.intervals {
		shifted[i] = iv.Shifted(delta)
	}
	return fromNormalized(shifted)
}

// Union merges s with any number of other sets.
func (s Set[T]) Union(others ...Set[T]) Set[T] {
	all := slices.Clone(s.intervals)
	for _, o := range others {
		all = append(all, o.intervals...)
	}
	return New(all...)
}

// Intersection returns the parts covered by both s and other. Boundary
// touches yield zero-length members.
func (s Set[T]) Intersection(other Set[T]) Set[T] {
	var out []interval.Interval[T]
	li, ri := 0, 0
	for li < len(s.intervals) && ri < len(other.intervals) {
		l, r := s.intervals[li], other.intervals[ri]
		if isect := r.Intersection(l); isect.IsValid() {
			out = append(out, isect)
		}
		// advance whichever side ends first
		if l.Upper < r.Upper {
			li++
		} else {
			ri++
		}
	}
	return fromNormalized(out)
}

// Overlaps reports whether s and other share at least one point.
func (s Set[T]) Overlaps(other Set[T]) bool {
	li, ri := 0, 0
	for li < len(s.intervals) && ri < len(other.intervals) {
		l, r := s.intervals[li], other.intervals[ri]
		if r.Intersection(l).IsValid() {
			return true
		}
		if l.Upper < r.Upper {
			li++
		} else {
			ri++
		}
	}
	return false
}

// Difference returns the parts of s not covered by other. The
// subtraction walks s once, carrying a running remainder that each
// interval of other consumes from the left.
func (s Set[T]) Difference(other Set[T]) Set[T] {
	src := s.intervals
	if len(src) == 0 {
		return Set[T]{}
	}
	var out []interval.Interval[T]
	pos := 0
	l := src[pos]
	pos++
	advance := func() bool {
		if pos == len(src) {
			return false
		}
		l = src[pos]
		pos++
		return true
	}
	exhausted := false
outer:
	for _, r := range other.intervals {
		if r.Length() <= 0 {
			continue
		}
		for l.Upper <= r.Lower {
			out = append(out, l)
			if !advance() {
				exhausted = true
				break outer
			}
		}
		if l.Lower < r.Upper {
			if l.Lower < r.Lower {
				out = append(out, interval.New(l.Lower, r.Lower))
			}
			if r.Upper < l.Upper {
				l = interval.New(r.Upper, l.Upper)
			} else {
				if !advance() {
					exhausted = true
					break outer
				}
				if l.Lower < r.Upper && r.Upper < l.Upper {
					l = interval.New(r.Upper, l.Upper)
				}
			}
		}
	}
	if !exhausted {
		out = append(out, l)
		out = append(out, src[pos:]...)
	}
	return fromNormalized(out)
}

// NextPointUp returns the smallest covered point >= p. The second
// result is false when no member reaches up to p.
func (s Set[T]) NextPointUp(p T) (T, bool) {
	ivals := s.intervals
	if len(ivals) == 0 {
		var zero T
		return zero, false
	}
	// first member ordered strictly after the degenerate interval (p, p)
	i := sort.Search(len(ivals), func(j int) bool {
		return ivals[j].Lower > p || (ivals[j].Lower == p && ivals[j].Upper > p)
	})
	if i > 0 && ivals[i-1].ContainsPoint(p) {
		return p, true
	}
	if i < len(ivals) {
		return ivals[i].Lower, true
	}
	var zero T
	return zero, false
}

// ContainsPoint reports whether p lies within some member.
func (s Set[T]) ContainsPoint(p T) bool {
	next, ok := s.NextPointUp(p)
	return ok && next == p
}

// ContainsInterval reports whether a single member covers iv entirely.
func (s Set[T]) ContainsInterval(iv interval.Interval[T]) bool {
	for _, member := range s.intervals {
		if member.Contains(iv) {
			return true
		}
	}
	return false
}

// String formats the set as "IS ((l, u), ...)".
func (s Set[T]) String() string {
	parts := make([]string, len(s.intervals))
	for i, iv := range s.intervals {
		parts[i] = iv.String()
	}
	return fmt.Sprintf("IS (%s)", strings.Join(parts, ", "))
}
