package timeline

import (
	"github.com/kilianp07/timegrid/core/interval"
)

// Section is a candidate slice of a free interval, issued by a Timeline
// query. It stays valid only until the owning timeline's next mutation;
// committing it after that fails with ErrStaleSection.
type Section[T interval.Number] struct {
	span   interval.Interval[T]
	index  int
	sid    uint64
	toCut  interval.Interval[T]
	hasCut bool
}

func newSection[T interval.Number](span interval.Interval[T], index int, sid uint64) *Section[T] {
	return &Section[T]{span: span, index: index, sid: sid}
}

// Span returns the usable range of the section.
func (s *Section[T]) Span() interval.Interval[T] { return s.span }

// Index returns the position of the backing interval in the timeline's
// free list at query time.
func (s *Section[T]) Index() int { return s.index }

// ToCut returns the window selected by a PrepareCut call, if any.
func (s *Section[T]) ToCut() (interval.Interval[T], bool) { return s.toCut, s.hasCut }

// PrepareCutL selects a window of the given size anchored at the
// section's lower edge.
func (s *Section[T]) PrepareCutL(size T) interval.Interval[T] {
	s.toCut = interval.New(s.span.Lower, s.span.Lower+size)
	s.hasCut = true
	return s.toCut
}

// PrepareCutU selects a window of the given size anchored at the
// section's upper edge.
func (s *Section[T]) PrepareCutU(size T) interval.Interval[T] {
	s.toCut = interval.New(s.span.Upper-size, s.span.Upper)
	s.hasCut = true
	return s.toCut
}

// PrepareCutAroundL selects a window of the given size as close as
// possible to span, clamped to the section. When size exceeds the span
// the surplus may drift toward the section's lower bound.
func (s *Section[T]) PrepareCutAroundL(span interval.Interval[T], size T) interval.Interval[T] {
	jitter := size - span.Length()
	lower := span.Lower
	if jitter > 0 {
		lower = max(s.span.Lower, span.Lower-jitter)
	}
	return s.prepareCut(interval.New(lower, lower+size))
}

// PrepareCutAroundU mirrors PrepareCutAroundL, drifting toward the
// section's upper bound.
func (s *Section[T]) PrepareCutAroundU(span interval.Interval[T], size T) interval.Interval[T] {
	jitter := size - span.Length()
	upper := span.Upper
	if jitter > 0 {
		upper = min(s.span.Upper, span.Upper+jitter)
	}
	return s.prepareCut(interval.New(upper-size, upper))
}

func (s *Section[T]) prepareCut(span interval.Interval[T]) interval.Interval[T] {
	s.toCut = s.span.Intersection(span)
	s.hasCut = true
	return s.toCut
}

// ModSection is a section reduced modulo a period so that sections from
// different generations can be compared in the same period-relative
// slot. Parents maps the reduced span back to one concrete section per
// generation, in generation order.
type ModSection[T interval.Number] struct {
	span    interval.Interval[T]
	parents []*Section[T]
}

// Span returns the period-relative range.
func (m *ModSection[T]) Span() interval.Interval[T] { return m.span }

// Parents returns the concrete sections this slot reduces, one per
// generation in order.
func (m *ModSection[T]) Parents() []*Section[T] { return m.parents }
