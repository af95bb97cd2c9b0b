package tracker

import (
	"context"
	"errors"

	"github.com/campusgrid/gradepoint/internal/grading"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrUnknownLetter rejects a final-grade assignment whose letter is not
	// in the owner's scale.
	ErrUnknownLetter = errors.New("grade letter not in grading scale")
)

// Store is the owner-scoped persistence surface. Every method takes the
// owner's user ID; rows belonging to other owners behave as if they do not
// exist. Component mutations recompute and persist the parent course's
// cached grade as part of the same operation.
type Store interface {
	// Grading scale
	ListScale(ctx context.Context, userID string) ([]ScaleEntry, error)
	PutScaleEntry(ctx context.Context, userID, letter string, point float64) (ScaleEntry, error)
	DeleteScaleEntry(ctx context.Context, userID, entryID string) error
	SeedDefaultScale(ctx context.Context, userID string) error
	Scale(ctx context.Context, userID string) (grading.Scale, error)

	// Courses
	ListCourses(ctx context.Context, userID string) ([]CourseView, error)
	GetCourse(ctx context.Context, userID, courseID string) (Course, error)
	CreateCourse(ctx context.Context, userID string, draft CourseDraft) (Course, error)
	UpdateCourse(ctx context.Context, userID, courseID string, draft CourseDraft) (Course, error)
	DeleteCourse(ctx context.Context, userID, courseID string) error

	// Components
	ListComponents(ctx context.Context, userID, courseID string) ([]Component, error)
	PutComponent(ctx context.Context, userID, courseID string, comp Component) (Component, error)
	DeleteComponent(ctx context.Context, userID, courseID, componentID string) error

	// Aggregate
	CGPA(ctx context.Context, userID string) (float64, error)
}
