package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/timegrid/core/timeline"
)

func TestPromRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorder(reg)
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}
	rec.RecordCut(3)
	rec.RecordStaleSection()
	rec.RecordFreeLength(870)

	expected := `
# HELP timegrid_cuts_total Total number of sections committed
# TYPE timegrid_cuts_total counter
timegrid_cuts_total 3
`
	if err := testutil.CollectAndCompare(rec.cuts, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if got := testutil.ToFloat64(rec.freeLength); got != 870 {
		t.Errorf("free length gauge = %v", got)
	}
	if got := testutil.ToFloat64(rec.stale); got != 1 {
		t.Errorf("stale counter = %v", got)
	}
}

func TestPromRecorderReuse(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromRecorder(reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromRecorder(reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}

func TestPromRecorderWiredToTimeline(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorder(reg)
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}
	tl := timeline.NewOf(0, 1000, timeline.WithRecorder[int](rec))
	if err := tl.Snip(timeline.Span(100, 230)); err != nil {
		t.Fatalf("snip: %v", err)
	}
	if got := testutil.ToFloat64(rec.freeLength); got != 870 {
		t.Errorf("free length after snip = %v", got)
	}
	if got := testutil.ToFloat64(rec.cuts); got != 1 {
		t.Errorf("cuts after snip = %v", got)
	}
}
