package tracker

import "github.com/campusgrid/gradepoint/internal/grading"

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ScaleEntry is one row of an owner's grading scale.
type ScaleEntry struct {
	ID     string  `json:"id"`
	UserID string  `json:"-"`
	Letter string  `json:"letter"`
	Point  float64 `json:"point"`
}

// Course is a gradeable unit. GradeLetter/GradePoint hold the stored grade
// pair: user-supplied in final_grade mode, a cache of the last component
// aggregation in components mode. Both are nil while the grade is
// undetermined.
type Course struct {
	ID          string         `json:"id"`
	UserID      string         `json:"-"`
	Name        string         `json:"name"`
	Credits     float64        `json:"credits"`
	Method      grading.Method `json:"calculation_method"`
	GradeLetter *string        `json:"grade_letter,omitempty"`
	GradePoint  *float64       `json:"grade_point,omitempty"`
}

// Component is a weighted, scored sub-item of a course. Score stays nil
// until the owner records a result.
type Component struct {
	ID       string   `json:"id"`
	CourseID string   `json:"-"`
	Name     string   `json:"name"`
	Weight   float64  `json:"weight"`
	Score    *float64 `json:"score,omitempty"`
	MaxScore float64  `json:"max_score"`
}

// CourseView is a course plus its freshly resolved display grade. For
// component courses the grade is recomputed from current components on every
// read; nil fields mean the grade is undetermined.
type CourseView struct {
	Course
	Percentage    *float64 `json:"percentage,omitempty"`
	DisplayLetter *string  `json:"display_letter,omitempty"`
	DisplayPoint  *float64 `json:"display_point,omitempty"`
}

// CourseDraft is the caller-supplied shape for creating or updating a
// course. GradeLetter is only consulted in final_grade mode.
type CourseDraft struct {
	Name        string         `json:"name"`
	Credits     float64        `json:"credits"`
	Method      grading.Method `json:"calculation_method"`
	GradeLetter string         `json:"grade_letter,omitempty"`
}
