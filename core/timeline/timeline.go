package timeline

import (
	"fmt"
	"slices"
	"sort"

	"github.com/kilianp07/timegrid/core/interval"
	"github.com/kilianp07/timegrid/core/logger"
	"github.com/kilianp07/timegrid/core/metrics"
)

// DefaultTolerance is the edge-matching tolerance used by New for
// float64 timelines. Integer timelines built with NewOf default to an
// exact (zero) tolerance.
const DefaultTolerance = 0.001

// Span is a convenience constructor for the interval values timelines
// consume and produce.
func Span[T interval.Number](lower, upper T) interval.Interval[T] {
	return interval.New(lower, upper)
}

// Timeline owns a bounded axis and its current free intervals.
type Timeline[T interval.Number] struct {
	orig      interval.Interval[T]
	free      []interval.Interval[T]
	sid       uint64
	tolerance T
	log       logger.Logger
	rec       metrics.Recorder
}

// Option configures a Timeline at construction.
type Option[T interval.Number] func(*Timeline[T])

// WithTolerance sets the edge-matching tolerance used by Cut and Snip.
func WithTolerance[T interval.Number](tolerance T) Option[T] {
	return func(t *Timeline[T]) { t.tolerance = tolerance }
}

// WithLogger attaches a logger to the timeline.
func WithLogger[T interval.Number](log logger.Logger) Option[T] {
	return func(t *Timeline[T]) { t.log = log }
}

// WithRecorder attaches a metrics recorder to the timeline.
func WithRecorder[T interval.Number](rec metrics.Recorder) Option[T] {
	return func(t *Timeline[T]) { t.rec = rec }
}

// New returns a float64 timeline spanning [lower, upper] with the
// default tolerance.
func New(lower, upper float64, opts ...Option[float64]) *Timeline[float64] {
	return NewOf(lower, upper, append([]Option[float64]{WithTolerance(DefaultTolerance)}, opts...)...)
}

// NewOf returns a timeline spanning [lower, upper] over any numeric
// type. The tolerance defaults to zero, which requires exact edge
// matches; float users usually want New or WithTolerance.
func NewOf[T interval.Number](lower, upper T, opts ...Option[T]) *Timeline[T] {
	t := &Timeline[T]{
		orig: interval.New(lower, upper),
		log:  logger.NopLogger{},
		rec:  metrics.NopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.free = []interval.Interval[T]{t.orig}
	t.sid++
	return t
}

// Origin returns the immutable axis of the timeline.
func (t *Timeline[T]) Origin() interval.Interval[T] { return t.orig }

// Free returns a copy of the current free intervals in order.
func (t *Timeline[T]) Free() []interval.Interval[T] { return slices.Clone(t.free) }

// Length returns the summed length of the free intervals.
func (t *Timeline[T]) Length() T {
	var total T
	for _, f := range t.free {
		total += f.Length()
	}
	return total
}

// Tolerance returns the edge-matching tolerance.
func (t *Timeline[T]) Tolerance() T { return t.tolerance }

// Reset restores the whole axis as free and invalidates all issued
// sections.
func (t *Timeline[T]) Reset() {
	t.sid++
	t.free = []interval.Interval[T]{t.orig}
	t.rec.RecordFreeLength(float64(t.Length()))
}

// Intersection returns every free sub-interval overlapping span with
// length >= minSize, plus the total usable length. When minSize is 0
// and nothing qualifies, a single zero-length sentinel section anchored
// at span.Upper is returned; cutting the sentinel is a no-op.
func (t *Timeline[T]) Intersection(span interval.Interval[T], minSize T) ([]*Section[T], T) {
	var sections []*Section[T]
	var total T
	if span.Length() > 0 {
		lower := span.Lower
		// first free interval that can reach the span
		h := sort.Search(len(t.free), func(j int) bool {
			f := t.free[j]
			return f.Lower > lower || (f.Lower == lower && f.Upper > lower)
		})
		if h > 0 && t.free[h-1].ContainsPoint(lower) {
			h--
		}
		for i := h; i < len(t.free); i++ {
			f := t.free[i]
			if f.Lower > span.Upper {
				break
			}
			s := f.Intersection(span)
			l := s.Length()
			if l >= minSize {
				sections = append(sections, newSection(s, i, t.sid))
				total += l
				if l == 0 && minSize == 0 {
					break
				}
			}
		}
	} else {
		minSize = 0
	}
	if len(sections) == 0 && minSize == 0 {
		sections = append(sections, newSection(interval.New(span.Upper, span.Upper), 0, t.sid))
		total++
	}
	return sections, total
}

// Cut commits prepared sections, shrinking or splitting the matching
// free intervals. Sections are applied tail-first within each free
// interval so earlier cuts cannot invalidate later indices. Any
// section issued before the last mutation aborts the commit with
// ErrStaleSection. The generation counter is bumped exactly once,
// success or failure, so all outstanding sections become stale.
func (t *Timeline[T]) Cut(sections ...*Section[T]) error {
	defer func() {
		t.sid++
		t.rec.RecordFreeLength(float64(t.Length()))
	}()
	for _, p := range sections {
		if !p.hasCut {
			panic("timeline: cut of an unprepared section")
		}
	}
	ordered := slices.Clone(sections)
	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].index != ordered[b].index {
			return ordered[a].index > ordered[b].index
		}
		return interval.Compare(ordered[a].toCut, ordered[b].toCut) > 0
	})
	for _, p := range ordered {
		if p.sid != t.sid {
			t.rec.RecordStaleSection()
			return fmt.Errorf("%w: free %v <--> cut %v", ErrStaleSection, t.free, p.toCut)
		}
		if p.toCut.Length() <= 0 {
			continue
		}
		f := t.free[p.index]
		switch {
		case absDiff(f.Lower, p.toCut.Lower) <= t.tolerance:
			f.Lower = p.toCut.Upper
			t.free[p.index] = f
			if f.Length() <= 0 {
				t.free = slices.Delete(t.free, p.index, p.index+1)
			}
		case absDiff(f.Upper, p.toCut.Upper) <= t.tolerance:
			f.Upper = p.toCut.Lower
			t.free[p.index] = f
			if f.Length() <= 0 {
				t.free = slices.Delete(t.free, p.index, p.index+1)
			}
		default:
			head := interval.New(f.Lower, p.toCut.Lower)
			tail := interval.New(p.toCut.Upper, f.Upper)
			if head.Length() <= 0 || tail.Length() <= 0 {
				panic(fmt.Sprintf("timeline: interior cut with empty remainder: head %v, tail %v", head, tail))
			}
			t.free = slices.Insert(slices.Delete(t.free, p.index, p.index+1), p.index, head, tail)
		}
		t.log.Debugw("cut committed", map[string]any{"span": p.toCut.String(), "index": p.index})
	}
	t.rec.RecordCut(len(ordered))
	return nil
}

// CutPeriodic commits the sections prepared on a Periodic result in one
// call.
func (t *Timeline[T]) CutPeriodic(p *Periodic[T]) error {
	return t.Cut(p.toCut...)
}

// Snip removes spans that are known busy. Each positive-length span
// must be exactly covered by the current free set, within tolerance;
// otherwise an error is returned with the free list unchanged for the
// failing span.
func (t *Timeline[T]) Snip(spans ...interval.Interval[T]) error {
	for _, s := range spans {
		l := s.Length()
		if l <= 0 {
			continue
		}
		sections, size := t.Intersection(s, 1)
		if len(sections) != 1 || absDiff(size, l) > t.tolerance {
			return fmt.Errorf("timeline: span %v not exactly covered by free set %v", s, t.free)
		}
		sections[0].PrepareCutL(size)
		if err := t.Cut(sections[0]); err != nil {
			return err
		}
	}
	return nil
}

// IntersectionP expands span periodically across the axis and queries
// each repetition. It fails when the span is longer than the period.
func (t *Timeline[T]) IntersectionP(span interval.Interval[T], period, minSize T) (*Periodic[T], error) {
	spans, err := t.periodicSpans(span, period)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, fmt.Errorf("timeline: expansion of span %v with period %v is empty", span, period)
	}
	return t.MultiIntersection(spans, period, minSize)
}

// MultiIntersection queries one generation per given span. The spans
// should repeat with the period but may carry some jitter.
func (t *Timeline[T]) MultiIntersection(spans []interval.Interval[T], period, minSize T) (*Periodic[T], error) {
	generations := make([][]*Section[T], 0, len(spans))
	for _, sp := range spans {
		sections, _ := t.Intersection(sp, minSize)
		generations = append(generations, sections)
	}
	return newPeriodic(period, minSize, t, generations)
}

func (t *Timeline[T]) periodicSpans(span interval.Interval[T], period T) ([]interval.Interval[T], error) {
	if period <= 0 {
		return nil, fmt.Errorf("timeline: period must be positive, got %v", period)
	}
	if span.Length() > period {
		return nil, fmt.Errorf("%w: %v with period %v", ErrSpanExceedsPeriod, span, period)
	}
	var spans []interval.Interval[T]
	for span.Lower < t.orig.Upper {
		spans = append(spans, span)
		span = span.Shifted(period)
	}
	return spans, nil
}

// String formats the current free list.
func (t *Timeline[T]) String() string { return fmt.Sprintf("Timeline free: %v", t.free) }

func absDiff[T interval.Number](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}
