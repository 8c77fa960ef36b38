package intervalset

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kilianp07/timegrid/core/interval"
)

// cursor walks one input interval list, skipping members shorter than
// minSize. value is only meaningful after a successful advance.
type cursor[T interval.Number] struct {
	ivs     []interval.Interval[T]
	pos     int
	minSize T
	value   interval.Interval[T]
}

func newCursor[T interval.Number](ivs []interval.Interval[T], minSize T) *cursor[T] {
	return &cursor[T]{ivs: ivs, minSize: minSize}
}

func (c *cursor[T]) advance() bool {
	for c.pos < len(c.ivs) {
		v := c.ivs[c.pos]
		c.pos++
		if v.Length() >= c.minSize {
			c.value = v
			return true
		}
	}
	return false
}

// IntersectionIter computes every intersection of length >= minSize
// common to all input sets. Each set must be sorted and disjoint (the
// shape Set.Intervals and interval.Union produce). One forward cursor
// per set is kept; after each evaluation the cursor whose current
// interval ends soonest advances, preferring among ties the one that
// started latest.
func IntersectionIter[T interval.Number](minSize T, sets ...[]interval.Interval[T]) []interval.Interval[T] {
	if len(sets) == 0 {
		return nil
	}
	cursors := make([]*cursor[T], len(sets))
	for i, ivs := range sets {
		c := newCursor(ivs, minSize)
		if !c.advance() {
			return nil
		}
		cursors[i] = c
	}
	var out []interval.Interval[T]
	for {
		r := cursors[0].value
		ok := true
		for _, c := range cursors[1:] {
			r = r.Intersection(c.value)
			if r.Length() < minSize {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
		small := cursors[0]
		for _, c := range cursors[1:] {
			if c.value.Upper < small.value.Upper ||
				(c.value.Upper == small.value.Upper && c.value.Lower > small.value.Lower) {
				small = c
			}
		}
		if !small.advance() {
			return out
		}
	}
}

// KOfNIntersectionIter computes every intersection of length >= minSize
// covered by at least k of the input sets, deduplicated by bounds.
//
// For k == 1 this degenerates to the sorted concatenation of all
// qualifying input intervals. For k > 1 a sliding window over the
// per-set cursors (ordered by earliest end) accumulates pairwise
// intersections, counting hits and misses; a window is abandoned as
// soon as its misses exceed the slack n-k, which replaces the naive
// re-intersection of all C(n, k) subsets.
func KOfNIntersectionIter[T interval.Number](k int, minSize T, sets ...[]interval.Interval[T]) ([]interval.Interval[T], error) {
	if k < 1 {
		return nil, fmt.Errorf("intervalset: quorum k must be >= 1, got %d", k)
	}
	if k == 1 {
		var out []interval.Interval[T]
		for _, ivs := range sets {
			for _, iv := range ivs {
				if iv.Length() >= minSize {
					out = append(out, iv)
				}
			}
		}
		slices.SortStableFunc(out, func(a, b interval.Interval[T]) int {
			return cmp.Compare(a.Lower, b.Lower)
		})
		return out, nil
	}

	type bounds struct{ lower, upper T }
	seen := make(map[bounds]struct{})
	var cursors []*cursor[T]
	for _, ivs := range sets {
		c := newCursor(ivs, minSize)
		if c.advance() {
			cursors = append(cursors, c)
		}
	}
	sortCursors := func() {
		slices.SortStableFunc(cursors, func(a, b *cursor[T]) int {
			if c := cmp.Compare(a.value.Upper, b.value.Upper); c != 0 {
				return c
			}
			return cmp.Compare(a.value.Lower, b.value.Lower)
		})
	}
	sortCursors()

	var out []interval.Interval[T]
	for slack := len(cursors) - k; slack >= 0; slack = len(cursors) - k {
		for j := 0; j <= slack; j++ {
			hits, misses := 1, j
			r := cursors[j].value
			for _, c := range cursors[j+1:] {
				s := r.Intersection(c.value)
				if s.Length() >= minSize {
					hits++
					if hits >= k {
						key := bounds{s.Lower, s.Upper}
						if _, dup := seen[key]; !dup {
							seen[key] = struct{}{}
							out = append(out, s)
						}
					}
					r = s
				} else {
					misses++
					if misses > slack {
						break
					}
				}
			}
		}
		// cursors are sorted by end, so the first one ends soonest
		if !cursors[0].advance() {
			cursors = cursors[1:]
		}
		sortCursors()
	}
	return out, nil
}
