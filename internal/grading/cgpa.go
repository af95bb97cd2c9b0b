package grading

import "math"

// CourseInput is the per-course view the CGPA reduction works over. In
// final-grade mode FinalPoint carries the stored point (nil when the owner
// never assigned one); in components mode the grade is derived fresh from
// Components.
type CourseInput struct {
	Credits    float64
	Method     Method
	FinalPoint *float64
	Components []Component
}

// CGPA computes the credit-weighted grade point average over an owner's
// courses. A course whose grade cannot be resolved contributes neither
// credits nor points. When no course contributes at all the result is 0.0 —
// a deliberate default for "no data", not an error. The result is rounded
// to two decimals.
func CGPA(courses []CourseInput, scale Scale) float64 {
	var totalCredits, totalPoints float64
	for _, c := range courses {
		point, ok := resolvePoint(c, scale)
		if !ok {
			continue
		}
		totalCredits += c.Credits
		totalPoints += c.Credits * point
	}
	if totalCredits == 0 {
		return 0.0
	}
	return Round2(totalPoints / totalCredits)
}

func resolvePoint(c CourseInput, scale Scale) (float64, bool) {
	if c.Method == MethodComponents {
		g, ok := ResolveComponents(c.Components, scale)
		if !ok {
			return 0, false
		}
		return g.Point, true
	}
	if c.FinalPoint == nil {
		return 0, false
	}
	return *c.FinalPoint, true
}

// Round2 rounds to two decimal places, the precision every grade surface
// reports.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
