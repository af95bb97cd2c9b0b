package grading

import (
	"sort"
	"strings"
)

// Scale is an owner's letter grade to grade point mapping ("A" -> 4.0).
// Letters are kept upper-case; NormalizeLetter is applied on every lookup so
// callers may pass mixed case.
type Scale map[string]float64

// NoGrade is returned by LetterFor when the scale has no entries.
const NoGrade = "N/A"

func NormalizeLetter(letter string) string {
	return strings.ToUpper(strings.TrimSpace(letter))
}

// PointOf looks up the point for a letter.
func (s Scale) PointOf(letter string) (float64, bool) {
	p, ok := s[NormalizeLetter(letter)]
	return p, ok
}

// LetterFor maps a grade point back to a letter: among entries sorted by
// point descending, the first whose point is at or below the given point
// wins. A point below every entry gets the lowest entry's letter; an empty
// scale yields NoGrade.
func (s Scale) LetterFor(point float64) string {
	if len(s) == 0 {
		return NoGrade
	}
	entries := s.Entries()
	for _, e := range entries {
		if point >= e.Point {
			return e.Letter
		}
	}
	return entries[len(entries)-1].Letter
}

// Max returns the highest point in the scale, 0 when empty.
func (s Scale) Max() float64 {
	var max float64
	first := true
	for _, p := range s {
		if first || p > max {
			max = p
			first = false
		}
	}
	return max
}

// Entry is one letter/point pair of a Scale.
type Entry struct {
	Letter string
	Point  float64
}

// Entries returns the scale sorted by point descending, ties broken by
// letter so the order is deterministic.
func (s Scale) Entries() []Entry {
	out := make([]Entry, 0, len(s))
	for l, p := range s {
		out = append(out, Entry{Letter: l, Point: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Point != out[j].Point {
			return out[i].Point > out[j].Point
		}
		return out[i].Letter < out[j].Letter
	})
	return out
}

// Letters returns the scale's letters sorted by point descending.
func (s Scale) Letters() []string {
	entries := s.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Letter
	}
	return out
}

// Default is the scale seeded for every new owner.
func Default() Scale {
	return Scale{
		"A+": 4.0, "A": 4.0, "A-": 3.7,
		"B+": 3.3, "B": 3.0, "B-": 2.7,
		"C+": 2.3, "C": 2.0, "C-": 1.7,
		"D+": 1.3, "D": 1.0,
		"F": 0.0,
	}
}
