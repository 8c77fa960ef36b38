// Package planner allocates booking requests on one timeline per
// resource. It supports one-shot and recurring placements and quorum
// queries across several resources.
package planner

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/timegrid/core/interval"
	"github.com/kilianp07/timegrid/core/intervalset"
	"github.com/kilianp07/timegrid/core/logger"
	"github.com/kilianp07/timegrid/core/metrics"
	"github.com/kilianp07/timegrid/core/timeline"
	"github.com/kilianp07/timegrid/internal/eventbus"
)

// Span is the interval type planner resources are scheduled over.
type Span = interval.Interval[float64]

// Request describes a booking to place.
type Request struct {
	// ID identifies the booking; assigned when empty.
	ID string
	// Window is the span the booking must fall into. For recurring
	// requests it is the first repetition.
	Window Span
	// Size is the length to reserve.
	Size float64
	// Period repeats the window across the whole axis when positive.
	Period float64
	// AllowDrift permits per-repetition placement when no common
	// period-aligned slot exists.
	AllowDrift bool
}

// Allocation reports the spans reserved for a request.
type Allocation struct {
	RequestID string
	Resource  string
	Spans     []Span
}

// Planner owns one timeline per resource.
type Planner struct {
	resources map[string]*timeline.Timeline[float64]
	order     []string
	log       logger.Logger
	bus       *eventbus.Bus[Allocation]
	tolerance float64
	rec       metrics.Recorder
}

// Option configures a Planner at construction.
type Option func(*Planner)

// WithTolerance sets the edge-matching tolerance of the resource
// timelines.
func WithTolerance(tolerance float64) Option {
	return func(p *Planner) { p.tolerance = tolerance }
}

// WithRecorder attaches a metrics recorder to the resource timelines.
func WithRecorder(rec metrics.Recorder) Option {
	return func(p *Planner) { p.rec = rec }
}

// New returns an empty planner. A nil log disables logging.
func New(log logger.Logger, opts ...Option) *Planner {
	if log == nil {
		log = logger.NopLogger{}
	}
	p := &Planner{
		resources: make(map[string]*timeline.Timeline[float64]),
		log:       log,
		bus:       eventbus.New[Allocation](16),
		tolerance: timeline.DefaultTolerance,
		rec:       metrics.NopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events returns a channel receiving every committed allocation.
func (p *Planner) Events() <-chan Allocation { return p.bus.Subscribe() }

// Close shuts the allocation event stream down.
func (p *Planner) Close() { p.bus.Close() }

// AddResource registers a resource spanning [lower, upper] with its
// known busy spans already reserved.
func (p *Planner) AddResource(name string, lower, upper float64, busy ...Span) error {
	if _, exists := p.resources[name]; exists {
		return fmt.Errorf("planner: resource %q already registered", name)
	}
	tl := timeline.New(lower, upper,
		timeline.WithTolerance(p.tolerance),
		timeline.WithLogger[float64](p.log),
		timeline.WithRecorder[float64](p.rec),
	)
	if err := tl.Snip(busy...); err != nil {
		return fmt.Errorf("planner: reserve busy spans for %q: %w", name, err)
	}
	p.resources[name] = tl
	p.order = append(p.order, name)
	return nil
}

// Timeline returns the timeline backing a resource.
func (p *Planner) Timeline(name string) (*timeline.Timeline[float64], bool) {
	tl, ok := p.resources[name]
	return tl, ok
}

// FreeCapacity returns the summed free length of a resource.
func (p *Planner) FreeCapacity(name string) (float64, error) {
	tl, ok := p.resources[name]
	if !ok {
		return 0, fmt.Errorf("planner: unknown resource %q", name)
	}
	free := tl.Free()
	lengths := make([]float64, len(free))
	for i, f := range free {
		lengths[i] = f.Length()
	}
	return floats.Sum(lengths), nil
}

// Place reserves the request on the named resource and returns the
// committed spans. Recurring requests (Period > 0) reserve one span per
// repetition.
func (p *Planner) Place(resource string, req Request) (Allocation, error) {
	tl, ok := p.resources[resource]
	if !ok {
		return Allocation{}, fmt.Errorf("planner: unknown resource %q", resource)
	}
	if req.Size <= 0 {
		return Allocation{}, fmt.Errorf("planner: request size must be positive, got %v", req.Size)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	var (
		alloc Allocation
		err   error
	)
	if req.Period > 0 {
		alloc, err = p.placeRecurring(tl, resource, req)
	} else {
		alloc, err = p.placeOnce(tl, resource, req)
	}
	if err != nil {
		return Allocation{}, err
	}
	p.bus.Publish(alloc)
	return alloc, nil
}

func (p *Planner) placeOnce(tl *timeline.Timeline[float64], resource string, req Request) (Allocation, error) {
	sections, _ := tl.Intersection(req.Window, req.Size)
	if len(sections) == 0 {
		return Allocation{}, fmt.Errorf("planner: no slot of size %v within %v on %q", req.Size, req.Window, resource)
	}
	span := sections[0].PrepareCutL(req.Size)
	if err := tl.Cut(sections[0]); err != nil {
		return Allocation{}, fmt.Errorf("planner: commit %s: %w", req.ID, err)
	}
	p.log.Debugw("placed booking", map[string]any{
		"request": req.ID, "resource": resource, "span": span.String(),
	})
	return Allocation{RequestID: req.ID, Resource: resource, Spans: []Span{span}}, nil
}

func (p *Planner) placeRecurring(tl *timeline.Timeline[float64], resource string, req Request) (Allocation, error) {
	per, err := tl.IntersectionP(req.Window, req.Period, req.Size)
	if err != nil {
		return Allocation{}, fmt.Errorf("planner: recurring query for %s: %w", req.ID, err)
	}
	var prepared []*timeline.Section[float64]
	if slots := per.IntersectionsModP(); len(slots) > 0 {
		prepared = per.PrepareCutModPL(slots[0], req.Size)
	} else if req.AllowDrift {
		if per.MinMax() < req.Size {
			return Allocation{}, fmt.Errorf("planner: a repetition cannot hold %v on %q", req.Size, resource)
		}
		prepared, err = per.PrepareCutSomewhere(req.Size)
		if err != nil {
			return Allocation{}, fmt.Errorf("planner: drifting placement for %s: %w", req.ID, err)
		}
	} else {
		return Allocation{}, fmt.Errorf("planner: no period-aligned slot of size %v on %q", req.Size, resource)
	}
	if err := tl.CutPeriodic(per); err != nil {
		return Allocation{}, fmt.Errorf("planner: commit %s: %w", req.ID, err)
	}
	spans := make([]Span, 0, len(prepared))
	for _, s := range prepared {
		if cut, ok := s.ToCut(); ok {
			spans = append(spans, cut)
		}
	}
	p.log.Debugw("placed recurring booking", map[string]any{
		"request": req.ID, "resource": resource, "repetitions": len(spans),
	})
	return Allocation{RequestID: req.ID, Resource: resource, Spans: spans}, nil
}

// QuorumWindows returns the spans of length >= minSize free on at least
// k of the named resources (all resources when none are named).
func (p *Planner) QuorumWindows(k int, minSize float64, names ...string) ([]Span, error) {
	if len(names) == 0 {
		names = p.order
	}
	sets := make([][]Span, 0, len(names))
	for _, name := range names {
		tl, ok := p.resources[name]
		if !ok {
			return nil, fmt.Errorf("planner: unknown resource %q", name)
		}
		sets = append(sets, tl.Free())
	}
	return intervalset.KOfNIntersectionIter(k, minSize, sets...)
}
