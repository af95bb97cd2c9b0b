package tracker

import (
	"context"
	"testing"

	"github.com/campusgrid/gradepoint/internal/grading"
)

func fp(v float64) *float64 { return &v }

func seedUser(t *testing.T, s Store) string {
	t.Helper()
	const userID = "u1"
	if err := s.SeedDefaultScale(context.Background(), userID); err != nil {
		t.Fatalf("seed scale: %v", err)
	}
	return userID
}

func TestMemoryScaleCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	userID := seedUser(t, s)

	entries, err := s.ListScale(ctx, userID)
	if err != nil {
		t.Fatalf("list scale: %v", err)
	}
	if len(entries) != 12 {
		t.Fatalf("seeded %d entries; want 12", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Point > entries[i-1].Point {
			t.Fatalf("scale not sorted by point descending")
		}
	}

	// Upsert keeps the letter unique per owner.
	if _, err := s.PutScaleEntry(ctx, userID, "a", 3.9); err != nil {
		t.Fatalf("update entry: %v", err)
	}
	sc, err := s.Scale(ctx, userID)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	if p, _ := sc.PointOf("A"); p != 3.9 {
		t.Fatalf("A = %v after update; want 3.9", p)
	}
	if len(sc) != 12 {
		t.Fatalf("scale grew to %d entries on upsert", len(sc))
	}

	// Other owners see nothing.
	other, err := s.Scale(ctx, "someone-else")
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("scale leaked across owners: %v", other)
	}
}

func TestMemoryFinalGradeCourse(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	userID := seedUser(t, s)

	c, err := s.CreateCourse(ctx, userID, CourseDraft{
		Name: "Calculus", Credits: 3, Method: grading.MethodFinalGrade, GradeLetter: "b+",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if c.GradeLetter == nil || *c.GradeLetter != "B+" {
		t.Fatalf("grade letter = %v; want B+", c.GradeLetter)
	}
	if c.GradePoint == nil || *c.GradePoint != 3.3 {
		t.Fatalf("grade point = %v; want 3.3", c.GradePoint)
	}

	_, err = s.CreateCourse(ctx, userID, CourseDraft{
		Name: "Art", Credits: 2, Method: grading.MethodFinalGrade, GradeLetter: "Z",
	})
	if err != ErrUnknownLetter {
		t.Fatalf("create with unknown letter: err = %v; want ErrUnknownLetter", err)
	}
}

func TestMemoryComponentLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	userID := seedUser(t, s)

	c, err := s.CreateCourse(ctx, userID, CourseDraft{
		Name: "Physics", Credits: 4, Method: grading.MethodFinalGrade, GradeLetter: "A",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	// First component mutation switches the course to components mode and
	// wipes the stored final grade.
	comp, err := s.PutComponent(ctx, userID, c.ID, Component{Name: "midterm", Weight: 0.3, MaxScore: 20})
	if err != nil {
		t.Fatalf("put component: %v", err)
	}
	got, err := s.GetCourse(ctx, userID, c.ID)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if got.Method != grading.MethodComponents {
		t.Fatalf("method = %q; want components after first component", got.Method)
	}
	if got.GradeLetter != nil || got.GradePoint != nil {
		t.Fatalf("stored grade not cleared on mode switch: %v %v", got.GradeLetter, got.GradePoint)
	}

	// Scoring the component refreshes the cached grade.
	comp.Score = fp(18)
	if _, err := s.PutComponent(ctx, userID, c.ID, comp); err != nil {
		t.Fatalf("update component: %v", err)
	}
	if _, err := s.PutComponent(ctx, userID, c.ID, Component{Name: "final", Weight: 0.7, Score: fp(45), MaxScore: 50}); err != nil {
		t.Fatalf("add component: %v", err)
	}
	got, _ = s.GetCourse(ctx, userID, c.ID)
	if got.GradeLetter == nil || *got.GradeLetter != "A" {
		t.Fatalf("cached letter = %v; want A", got.GradeLetter)
	}
	if got.GradePoint == nil || *got.GradePoint != 4.0 {
		t.Fatalf("cached point = %v; want 4.0", got.GradePoint)
	}

	// Deleting every component puts the course back to undetermined.
	comps, err := s.ListComponents(ctx, userID, c.ID)
	if err != nil {
		t.Fatalf("list components: %v", err)
	}
	for _, cp := range comps {
		if err := s.DeleteComponent(ctx, userID, c.ID, cp.ID); err != nil {
			t.Fatalf("delete component: %v", err)
		}
	}
	got, _ = s.GetCourse(ctx, userID, c.ID)
	if got.GradeLetter != nil || got.GradePoint != nil {
		t.Fatalf("grade cache survived component deletion: %v %v", got.GradeLetter, got.GradePoint)
	}
}

func TestMemoryCGPA(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	userID := seedUser(t, s)

	cgpa, err := s.CGPA(ctx, userID)
	if err != nil {
		t.Fatalf("cgpa: %v", err)
	}
	if cgpa != 0.0 {
		t.Fatalf("cgpa with no courses = %v; want 0.0", cgpa)
	}

	if _, err := s.CreateCourse(ctx, userID, CourseDraft{
		Name: "Calculus", Credits: 3, Method: grading.MethodFinalGrade, GradeLetter: "A",
	}); err != nil {
		t.Fatalf("create course: %v", err)
	}
	if _, err := s.CreateCourse(ctx, userID, CourseDraft{
		Name: "History", Credits: 4, Method: grading.MethodFinalGrade, GradeLetter: "B",
	}); err != nil {
		t.Fatalf("create course: %v", err)
	}
	// A components course with nothing recorded yet must not count.
	if _, err := s.CreateCourse(ctx, userID, CourseDraft{
		Name: "Lab", Credits: 10, Method: grading.MethodComponents,
	}); err != nil {
		t.Fatalf("create course: %v", err)
	}

	cgpa, err = s.CGPA(ctx, userID)
	if err != nil {
		t.Fatalf("cgpa: %v", err)
	}
	if cgpa != 3.43 {
		t.Fatalf("cgpa = %v; want 3.43", cgpa)
	}
}

func TestMemoryOwnerScoping(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	userID := seedUser(t, s)

	c, err := s.CreateCourse(ctx, userID, CourseDraft{
		Name: "Calculus", Credits: 3, Method: grading.MethodFinalGrade, GradeLetter: "A",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	if _, err := s.GetCourse(ctx, "intruder", c.ID); err != ErrNotFound {
		t.Fatalf("cross-owner get: err = %v; want ErrNotFound", err)
	}
	if err := s.DeleteCourse(ctx, "intruder", c.ID); err != ErrNotFound {
		t.Fatalf("cross-owner delete: err = %v; want ErrNotFound", err)
	}
	if _, err := s.GetCourse(ctx, userID, c.ID); err != nil {
		t.Fatalf("course gone after foreign delete attempt: %v", err)
	}
}
