// Package metrics provides the Prometheus implementation of the core
// metrics recorder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder records engine events in Prometheus metrics.
type PromRecorder struct {
	cuts       prometheus.Counter
	stale      prometheus.Counter
	freeLength prometheus.Gauge
}

// NewPromRecorder registers the engine metrics on the provided
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cuts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timegrid_cuts_total",
		Help: "Total number of sections committed",
	})
	stale := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timegrid_stale_sections_total",
		Help: "Total number of commits rejected by the staleness check",
	})
	freeLength := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timegrid_free_length",
		Help: "Summed length of the free intervals after the last mutation",
	})

	if err := reg.Register(cuts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cuts = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(stale); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			stale = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(freeLength); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			freeLength = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromRecorder{cuts: cuts, stale: stale, freeLength: freeLength}, nil
}

// RecordCut increments the cut counter by the number of sections.
func (r *PromRecorder) RecordCut(sections int) {
	r.cuts.Add(float64(sections))
}

// RecordStaleSection increments the stale-commit counter.
func (r *PromRecorder) RecordStaleSection() {
	r.stale.Inc()
}

// RecordFreeLength updates the free-length gauge.
func (r *PromRecorder) RecordFreeLength(length float64) {
	r.freeLength.Set(length)
}
