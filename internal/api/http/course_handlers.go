package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/campusgrid/gradepoint/internal/auth/middleware"
	"github.com/campusgrid/gradepoint/internal/grading"
	"github.com/campusgrid/gradepoint/internal/tracker"
)

func decodeCourseDraft(r *http.Request) (tracker.CourseDraft, string) {
	var draft tracker.CourseDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		return draft, "bad json"
	}
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return draft, "name required"
	}
	if draft.Credits <= 0 {
		return draft, "credits must be positive"
	}
	if draft.Method == "" {
		draft.Method = grading.MethodFinalGrade
	}
	if draft.Method != grading.MethodFinalGrade && draft.Method != grading.MethodComponents {
		return draft, "calculation_method must be final_grade or components"
	}
	if draft.Method == grading.MethodFinalGrade && strings.TrimSpace(draft.GradeLetter) == "" {
		return draft, "grade_letter required for final_grade method"
	}
	return draft, ""
}

func courseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		http.Error(w, "course not found", http.StatusNotFound)
	case errors.Is(err, tracker.ErrUnknownLetter):
		http.Error(w, "grade letter not in your grading scale", http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GET /courses — courses with their freshly resolved display grades.
func ListCoursesHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		out, err := store.ListCourses(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

// POST /courses
func CreateCourseHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		draft, msg := decodeCourseDraft(r)
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		c, err := store.CreateCourse(r.Context(), userID, draft)
		if err != nil {
			courseError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(c)
	}
}

// GET /courses/{courseID}
func GetCourseHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		c, err := store.GetCourse(r.Context(), userID, chi.URLParam(r, "courseID"))
		if err != nil {
			courseError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(c)
	}
}

// PUT /courses/{courseID}
func UpdateCourseHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		draft, msg := decodeCourseDraft(r)
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		c, err := store.UpdateCourse(r.Context(), userID, chi.URLParam(r, "courseID"), draft)
		if err != nil {
			courseError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(c)
	}
}

// DELETE /courses/{courseID}
func DeleteCourseHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if err := store.DeleteCourse(r.Context(), userID, chi.URLParam(r, "courseID")); err != nil {
			courseError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
