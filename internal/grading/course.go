package grading

// Method is how a course's grade is determined.
type Method string

const (
	MethodFinalGrade Method = "final_grade"
	MethodComponents Method = "components"
)

// Component is one weighted, scored piece of a course (an exam, a quiz, a
// project). Score is nil until the owner records a result. Weights are in
// caller-defined units and need not sum to anything in particular.
type Component struct {
	Name     string
	Weight   float64
	Score    *float64
	MaxScore float64
}

// CourseGrade is a fully resolved course grade. The three fields are only
// meaningful together; ResolveComponents returns ok=false (and a zero
// CourseGrade) when the course has no resolvable grade yet.
type CourseGrade struct {
	Percentage float64
	Point      float64
	Letter     string
}

// ResolveComponents aggregates a course's components into a grade under the
// owner's scale.
//
// Components without a score, or with a non-positive max score, are left out.
// Each remaining component contributes its percentage (100*score/max)
// weighted by its weight; the weighted mean is then mapped to a letter
// through fixed percentage bands and the letter to a point through the
// owner's scale. A letter the scale does not define falls back to a
// proportional point, (percentage/100) * scale max, or a 4.0 ceiling when
// the scale is empty.
//
// ok is false when nothing survives the filter or the surviving weight sums
// to zero; that is the "undetermined" result and callers must treat it as
// not-counted, never as zero.
func ResolveComponents(comps []Component, scale Scale) (CourseGrade, bool) {
	var weightedSum, weightSum float64
	for _, c := range comps {
		if c.Score == nil || c.MaxScore <= 0 {
			continue
		}
		pct := 100 * *c.Score / c.MaxScore
		weightedSum += pct * c.Weight
		weightSum += c.Weight
	}
	if weightSum == 0 {
		return CourseGrade{}, false
	}

	pct := weightedSum / weightSum
	letter := letterForPercentage(pct)

	point, ok := scale.PointOf(letter)
	if !ok {
		// Owner's scale has no entry for the band letter (e.g. only "A+" and
		// "A-" defined). Estimate proportionally against the scale ceiling.
		max := scale.Max()
		if len(scale) == 0 {
			max = 4.0
		}
		point = (pct / 100) * max
	}
	return CourseGrade{Percentage: pct, Point: point, Letter: letter}, true
}

// letterForPercentage is the fixed band table used for component-based
// courses. It is deliberately independent of the owner's scale, which only
// supplies the letter-to-point half of the conversion.
func letterForPercentage(pct float64) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}
