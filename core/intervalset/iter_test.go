package intervalset

import (
	"testing"

	"github.com/kilianp07/timegrid/core/interval"
)

func TestIntersectionIterSingleSet(t *testing.T) {
	set := []interval.Interval[int]{iv(3, 6), iv(12, 13)}
	equalIvs(t, IntersectionIter(1, set), iv(3, 6), iv(12, 13))
	equalIvs(t, IntersectionIter(2, set), iv(3, 6))
}

func TestIntersectionIterPairs(t *testing.T) {
	o := New(iv(0, 5), iv(10, 15), iv(20, 25)).Intervals()
	p := New(iv(3, 6), iv(12, 13), iv(20, 25)).Intervals()
	equalIvs(t, IntersectionIter(0, o, p), iv(3, 5), iv(12, 13), iv(20, 25))
	equalIvs(t, IntersectionIter(2, o, p), iv(3, 5), iv(20, 25))

	q := []interval.Interval[int]{iv(4, 6), iv(12, 12)}
	equalIvs(t, IntersectionIter(0, o, p, q), iv(4, 5), iv(12, 12))
}

func TestIntersectionIterEmptyInput(t *testing.T) {
	if got := IntersectionIter(0, []interval.Interval[int]{iv(0, 5)}, nil); got != nil {
		t.Fatalf("expected no intersections, got %v", got)
	}
}

func quorumSets() [][]interval.Interval[int] {
	return [][]interval.Interval[int]{
		{iv(10, 20), iv(25, 40), iv(100, 150)},
		{iv(20, 50), iv(120, 140)},
		{iv(0, 50), iv(110, 140)},
		{iv(5, 20), iv(22, 38), iv(125, 150)},
	}
}

func TestKOfNIntersectionIter(t *testing.T) {
	cases := []struct {
		k    int
		want []interval.Interval[int]
	}{
		{1, []interval.Interval[int]{
			iv(0, 50), iv(5, 20), iv(20, 50), iv(22, 38), iv(25, 40),
			iv(100, 150), iv(110, 140), iv(120, 140), iv(125, 150),
		}},
		{2, []interval.Interval[int]{
			iv(5, 20), iv(25, 40), iv(20, 50), iv(22, 38),
			iv(125, 150), iv(110, 140), iv(125, 140), iv(120, 140),
		}},
		{3, []interval.Interval[int]{iv(25, 40), iv(22, 38), iv(125, 140), iv(120, 140)}},
		{4, []interval.Interval[int]{iv(125, 140)}},
		{5, nil},
	}
	for _, c := range cases {
		got, err := KOfNIntersectionIter(c.k, 15, quorumSets()...)
		if err != nil {
			t.Fatalf("k=%d: %v", c.k, err)
		}
		equalIvs(t, got, c.want...)
	}
}

func TestKOfNRejectsBadQuorum(t *testing.T) {
	if _, err := KOfNIntersectionIter(0, 0, quorumSets()...); err == nil {
		t.Fatal("expected error for k < 1")
	}
}

func TestKOfNOneEqualsSortedConcatenation(t *testing.T) {
	got, err := KOfNIntersectionIter(1, 0, quorumSets()...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var count int
	for _, s := range quorumSets() {
		count += len(s)
	}
	if len(got) != count {
		t.Fatalf("expected all %d intervals, got %d", count, len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Lower > got[i].Lower {
			t.Fatalf("not sorted by lower bound: %v", got)
		}
	}
}
