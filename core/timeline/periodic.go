package timeline

import (
	"fmt"

	"github.com/kilianp07/timegrid/core/interval"
)

// Periodic groups the query results of a periodically repeated span:
// one list of sections per repetition ("generation").
type Periodic[T interval.Number] struct {
	period      T
	minSize     T
	timeline    *Timeline[T]
	generations [][]*Section[T]
	toCut       []*Section[T]
	modCache    map[T][]*ModSection[T]
	minmax      *T
}

func newPeriodic[T interval.Number](period, minSize T, tl *Timeline[T], generations [][]*Section[T]) (*Periodic[T], error) {
	if len(generations) == 0 {
		return nil, fmt.Errorf("timeline: periodic result needs at least one generation")
	}
	return &Periodic[T]{
		period:      period,
		minSize:     minSize,
		timeline:    tl,
		generations: generations,
		modCache:    make(map[T][]*ModSection[T]),
	}, nil
}

// Period returns the repetition period.
func (p *Periodic[T]) Period() T { return p.period }

// Generations returns the per-repetition section lists.
func (p *Periodic[T]) Generations() [][]*Section[T] { return p.generations }

// IntersectionsModP returns the period-relative slots free in every
// generation, using the minimum size the query was made with.
func (p *Periodic[T]) IntersectionsModP() []*ModSection[T] {
	return p.IntersectionsModPSized(p.minSize)
}

// IntersectionsModPSized is IntersectionsModP with an explicit minimum
// slot size. Results are cached per size.
func (p *Periodic[T]) IntersectionsModPSized(minSize T) []*ModSection[T] {
	if cached, ok := p.modCache[minSize]; ok {
		return cached
	}
	result := p.intersectModP(minSize)
	p.modCache[minSize] = result
	return result
}

// intersectModP reduces every generation's sections modulo the period
// and sweeps one cursor per generation, like the N-way interval-set
// intersection, but carrying the concrete parent sections along so a
// winning slot maps back to every repetition.
func (p *Periodic[T]) intersectModP(minSize T) []*ModSection[T] {
	cursors := make([]*modCursor[T], len(p.generations))
	for gi, g := range p.generations {
		reduced := make([]*ModSection[T], len(g))
		for si, s := range g {
			reduced[si] = &ModSection[T]{span: s.span.Mod(p.period), parents: []*Section[T]{s}}
		}
		c := &modCursor[T]{sections: reduced, minSize: minSize}
		if !c.advance() {
			return nil
		}
		cursors[gi] = c
	}
	var out []*ModSection[T]
	for {
		r := cursors[0].value
		ok := true
		for _, c := range cursors[1:] {
			isect := r.span.Intersection(c.value.span)
			if isect.Length() < minSize {
				ok = false
				break
			}
			parents := make([]*Section[T], 0, len(r.parents)+len(c.value.parents))
			parents = append(parents, r.parents...)
			parents = append(parents, c.value.parents...)
			r = &ModSection[T]{span: isect, parents: parents}
		}
		if ok {
			out = append(out, r)
		}
		small := cursors[0]
		for _, c := range cursors[1:] {
			if c.value.span.Upper < small.value.span.Upper ||
				(c.value.span.Upper == small.value.span.Upper && c.value.span.Lower > small.value.span.Lower) {
				small = c
			}
		}
		if !small.advance() {
			return out
		}
	}
}

type modCursor[T interval.Number] struct {
	sections []*ModSection[T]
	pos      int
	minSize  T
	value    *ModSection[T]
}

func (c *modCursor[T]) advance() bool {
	for c.pos < len(c.sections) {
		v := c.sections[c.pos]
		c.pos++
		if v.span.Length() >= c.minSize {
			c.value = v
			return true
		}
	}
	return false
}

// PrepareCutModPL re-expands a winning period-relative slot into every
// generation, preparing in each parent a lower-aligned cut of the given
// size as close as possible to the slot. Commit with CutPeriodic.
func (p *Periodic[T]) PrepareCutModPL(ms *ModSection[T], size T) []*Section[T] {
	return p.prepareCutModP(ms, size, (*Section[T]).PrepareCutAroundL)
}

// PrepareCutModPU mirrors PrepareCutModPL with upper alignment.
func (p *Periodic[T]) PrepareCutModPU(ms *ModSection[T], size T) []*Section[T] {
	return p.prepareCutModP(ms, size, (*Section[T]).PrepareCutAroundU)
}

func (p *Periodic[T]) prepareCutModP(ms *ModSection[T], size T, prepare func(*Section[T], interval.Interval[T], T) interval.Interval[T]) []*Section[T] {
	var shift T
	for _, parent := range ms.parents {
		prepare(parent, ms.span.Shifted(shift), size)
		shift += p.period
	}
	p.toCut = ms.parents
	return p.toCut
}

// PrepareCutSomewhere prepares a cut of the given size in every
// generation without requiring period alignment: each generation uses
// its largest section, lower aligned. It fails when a generation has no
// section at all.
func (p *Periodic[T]) PrepareCutSomewhere(size T) ([]*Section[T], error) {
	result := make([]*Section[T], 0, len(p.generations))
	for _, g := range p.generations {
		if len(g) == 0 {
			return nil, fmt.Errorf("timeline: generation without free sections, cannot place %v", size)
		}
		widest := g[0]
		for _, s := range g[1:] {
			if s.span.Length() > widest.span.Length() {
				widest = s
			}
		}
		widest.PrepareCutAroundL(widest.span, size)
		result = append(result, widest)
	}
	p.toCut = result
	return result, nil
}

// MinMax returns the minimum over all generations of the largest
// section length in that generation. It bounds the size of any
// placement that must land in every repetition.
func (p *Periodic[T]) MinMax() T {
	if p.minmax != nil {
		return *p.minmax
	}
	var result T
	for gi, g := range p.generations {
		var widest T
		for _, s := range g {
			if l := s.span.Length(); l > widest {
				widest = l
			}
		}
		if gi == 0 || widest < result {
			result = widest
		}
	}
	p.minmax = &result
	return result
}

// HasCapacity reports whether every generation still has usable space.
func (p *Periodic[T]) HasCapacity() bool { return p.MinMax() > 0 }
