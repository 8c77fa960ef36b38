package intervalset

import (
	"testing"

	"github.com/kilianp07/timegrid/core/interval"
)

func iv(lower, upper int) interval.Interval[int] { return interval.New(lower, upper) }

func equalIvs(t *testing.T, got []interval.Interval[int], want ...interval.Interval[int]) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestNewNormalizes(t *testing.T) {
	s := New(iv(0, 100), iv(100, 200))
	equalIvs(t, s.Intervals(), iv(0, 200))
	equalIvs(t, New(iv(0, 100), iv(0, 100)).Intervals(), iv(0, 100))
}

func TestLengthAndEmpty(t *testing.T) {
	if !New[int]().IsEmpty() {
		t.Fatal("zero-member set should be empty")
	}
	if New(iv(1, 1)).IsEmpty() {
		t.Fatal("a point member still counts as a member")
	}
	if got := New(iv(1, 2), iv(5, 6), iv(7, 9)).Length(); got != 4 {
		t.Fatalf("Length = %d, want 4", got)
	}
}

func TestShifted(t *testing.T) {
	s := New(iv(1, 2), iv(5, 6), iv(7, 9)).Shifted(10)
	equalIvs(t, s.Intervals(), iv(11, 12), iv(15, 16), iv(17, 19))
}

func TestIntersection(t *testing.T) {
	l := New(iv(0, 200))
	m := New(iv(1, 2), iv(5, 6), iv(7, 9))
	n := New(iv(1, 5), iv(6, 6), iv(9, 11), iv(20, 30))
	equalIvs(t, n.Intersection(m).Intervals(), iv(1, 2), iv(5, 5), iv(6, 6), iv(9, 9))
	equalIvs(t, m.Intersection(l).Intervals(), iv(1, 2), iv(5, 6), iv(7, 9))
}

func TestOverlaps(t *testing.T) {
	l := New(iv(0, 200))
	for _, o := range []Set[int]{New(iv(0, 100)), New(iv(100, 200)), l} {
		if !l.Overlaps(o) {
			t.Fatalf("expected overlap with %v", o)
		}
	}
	if New(iv(0, 10)).Overlaps(New(iv(10, 20))) {
		t.Fatal("touching sets share no interior point")
	}
}

func TestNextPointUp(t *testing.T) {
	m := New(iv(1, 2), iv(5, 6), iv(7, 9))
	cases := []struct {
		p    int
		want int
		ok   bool
	}{
		{0, 1, true},
		{1, 1, true},
		{3, 5, true},
		{9, 9, true},
		{10, 0, false},
	}
	for _, c := range cases {
		got, ok := m.NextPointUp(c.p)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("NextPointUp(%d) = %d, %v; want %d, %v", c.p, got, ok, c.want, c.ok)
		}
	}
}

func TestContainsPointMatchesNextPointUp(t *testing.T) {
	m := New(iv(1, 2), iv(5, 6), iv(7, 9))
	for p := -1; p <= 12; p++ {
		next, ok := m.NextPointUp(p)
		if got := m.ContainsPoint(p); got != (ok && next == p) {
			t.Errorf("ContainsPoint(%d) = %v disagrees with NextPointUp", p, got)
		}
	}
}

func TestContainsInterval(t *testing.T) {
	s := New(iv(0, 5), iv(10, 15))
	if !s.ContainsInterval(iv(11, 14)) || !s.ContainsInterval(iv(10, 15)) {
		t.Fatal("expected containment")
	}
	if s.ContainsInterval(iv(4, 11)) {
		t.Fatal("span across a gap is not contained")
	}
}

func TestDifference(t *testing.T) {
	cases := []struct {
		name        string
		left, right Set[int]
		want        []interval.Interval[int]
	}{
		{
			"simple",
			New(iv(0, 5), iv(10, 15), iv(20, 25)),
			New(iv(3, 6), iv(12, 13), iv(20, 25)),
			[]interval.Interval[int]{iv(0, 3), iv(10, 12), iv(13, 15)},
		},
		{
			"staggered",
			New(iv(0, 5), iv(10, 20), iv(40, 60), iv(65, 70)),
			New(iv(7, 8), iv(10, 12), iv(18, 20), iv(33, 37), iv(45, 48)),
			[]interval.Interval[int]{iv(0, 5), iv(12, 18), iv(40, 45), iv(48, 60), iv(65, 70)},
		},
		{
			"chained",
			New(iv(0, 5), iv(12, 18), iv(40, 45), iv(48, 60), iv(65, 70)),
			New(iv(10, 20), iv(60, 75)),
			[]interval.Interval[int]{iv(0, 5), iv(40, 45), iv(48, 60)},
		},
		{
			"empty subtrahend",
			New(iv(10, 20), iv(60, 75)),
			New[int](),
			[]interval.Interval[int]{iv(10, 20), iv(60, 75)},
		},
		{
			"disjoint subtrahend",
			New(iv(10, 20), iv(60, 75)),
			New(iv(30, 40)),
			[]interval.Interval[int]{iv(10, 20), iv(60, 75)},
		},
		{
			"touching subtrahend",
			New(iv(10, 20), iv(60, 75)),
			New(iv(0, 10)),
			[]interval.Interval[int]{iv(10, 20), iv(60, 75)},
		},
		{
			"leading overlap",
			New(iv(10, 20), iv(60, 75)),
			New(iv(0, 11)),
			[]interval.Interval[int]{iv(11, 20), iv(60, 75)},
		},
		{
			"swallow first member",
			New(iv(0, 390), iv(585, 5000)),
			New(iv(0, 600)),
			[]interval.Interval[int]{iv(600, 5000)},
		},
		{
			"multi overlap",
			New(iv(0, 390), iv(585, 5000), iv(6000, 6200), iv(7000, 7500)),
			New(iv(0, 600), iv(5900, 6100), iv(6250, 7100)),
			[]interval.Interval[int]{iv(600, 5000), iv(6100, 6200), iv(7100, 7500)},
		},
		{
			"timeline shape",
			New(iv(0, 1000)),
			New(iv(10, 20), iv(25, 25), iv(42, 400), iv(900, 990)),
			[]interval.Interval[int]{iv(0, 10), iv(20, 42), iv(400, 900), iv(990, 1000)},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			equalIvs(t, c.left.Difference(c.right).Intervals(), c.want...)
		})
	}
}

func TestUnionOfDifferenceAndIntersectionRestoresSet(t *testing.T) {
	s := New(iv(0, 5), iv(10, 20), iv(40, 60), iv(65, 70))
	o := New(iv(7, 8), iv(10, 12), iv(18, 20), iv(33, 37), iv(45, 48))
	restored := s.Difference(o).Union(s.Intersection(o))
	for p := -1; p <= 75; p++ {
		if restored.ContainsPoint(p) != s.ContainsPoint(p) {
			t.Fatalf("point %d: difference+intersection does not restore the set", p)
		}
	}
}

func TestUnionMerges(t *testing.T) {
	c := New(iv(0, 5), iv(12, 18), iv(40, 45), iv(48, 60), iv(65, 70))
	d := New(iv(10, 20), iv(60, 75))
	equalIvs(t, c.Union(d).Intervals(), iv(0, 5), iv(10, 20), iv(40, 45), iv(48, 75))
}
