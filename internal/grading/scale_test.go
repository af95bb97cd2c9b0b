package grading

import "testing"

func TestPointOfNormalizesCase(t *testing.T) {
	s := Scale{"A": 4.0, "B+": 3.3}
	p, ok := s.PointOf(" a ")
	if !ok || p != 4.0 {
		t.Fatalf("PointOf(\" a \") = %v, %v; want 4.0, true", p, ok)
	}
	if _, ok := s.PointOf("Z"); ok {
		t.Fatalf("expected miss for unknown letter")
	}
}

func TestLetterForThresholdDescent(t *testing.T) {
	s := Scale{"A": 4.0, "B": 3.0, "C": 2.0, "F": 0.0}
	cases := []struct {
		point float64
		want  string
	}{
		{4.0, "A"},
		{3.9, "B"},  // below A's threshold, at or above B's
		{3.0, "B"},
		{2.5, "C"},
		{0.0, "F"},
		{-1.0, "F"}, // below every threshold: lowest entry's letter
	}
	for _, c := range cases {
		if got := s.LetterFor(c.point); got != c.want {
			t.Fatalf("LetterFor(%v) = %q; want %q", c.point, got, c.want)
		}
	}
}

func TestLetterForEmptyScale(t *testing.T) {
	if got := (Scale{}).LetterFor(3.0); got != NoGrade {
		t.Fatalf("LetterFor on empty scale = %q; want %q", got, NoGrade)
	}
}

func TestEntriesSortedByPointDescending(t *testing.T) {
	s := Default()
	entries := s.Entries()
	if len(entries) != 12 {
		t.Fatalf("default scale has %d entries; want 12", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Point > entries[i-1].Point {
			t.Fatalf("entries not sorted descending at %d: %v after %v", i, entries[i], entries[i-1])
		}
	}
	if entries[0].Letter != "A" && entries[0].Letter != "A+" {
		t.Fatalf("top entry = %q; want A or A+", entries[0].Letter)
	}
	if entries[len(entries)-1].Letter != "F" {
		t.Fatalf("bottom entry = %q; want F", entries[len(entries)-1].Letter)
	}
}

func TestMax(t *testing.T) {
	if got := Default().Max(); got != 4.0 {
		t.Fatalf("Max() = %v; want 4.0", got)
	}
	if got := (Scale{}).Max(); got != 0 {
		t.Fatalf("Max() on empty scale = %v; want 0", got)
	}
}
