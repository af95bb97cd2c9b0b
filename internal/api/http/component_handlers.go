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

type componentReq struct {
	Name     string   `json:"name"`
	Weight   float64  `json:"weight"`
	Score    *float64 `json:"score,omitempty"`
	MaxScore *float64 `json:"max_score,omitempty"`
}

func (req componentReq) toComponent(id string) (tracker.Component, string) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return tracker.Component{}, "name required"
	}
	if req.Weight <= 0 {
		return tracker.Component{}, "weight must be positive"
	}
	maxScore := 100.0
	if req.MaxScore != nil {
		maxScore = *req.MaxScore
	}
	return tracker.Component{ID: id, Name: name, Weight: req.Weight, Score: req.Score, MaxScore: maxScore}, ""
}

type componentsView struct {
	Components []tracker.Component `json:"components"`
	Percentage *float64            `json:"percentage"`
	GradePoint *float64            `json:"grade_point"`
	Letter     *string             `json:"grade_letter"`
}

// GET /courses/{courseID}/components — the component list plus the current
// aggregation; the grade fields are null while undetermined.
func ListComponentsHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		courseID := chi.URLParam(r, "courseID")
		comps, err := store.ListComponents(r.Context(), userID, courseID)
		if err != nil {
			courseError(w, err)
			return
		}
		sc, err := store.Scale(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		view := componentsView{Components: comps}
		inputs := make([]grading.Component, 0, len(comps))
		for _, c := range comps {
			inputs = append(inputs, grading.Component{Name: c.Name, Weight: c.Weight, Score: c.Score, MaxScore: c.MaxScore})
		}
		if g, ok := grading.ResolveComponents(inputs, sc); ok {
			pct := grading.Round2(g.Percentage)
			point := grading.Round2(g.Point)
			view.Percentage = &pct
			view.GradePoint = &point
			view.Letter = &g.Letter
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

// POST /courses/{courseID}/components
func CreateComponentHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		courseID := chi.URLParam(r, "courseID")
		var req componentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		comp, msg := req.toComponent("")
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		out, err := store.PutComponent(r.Context(), userID, courseID, comp)
		if err != nil {
			courseError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(out)
	}
}

// PUT /courses/{courseID}/components/{componentID}
func UpdateComponentHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		courseID := chi.URLParam(r, "courseID")
		var req componentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		comp, msg := req.toComponent(chi.URLParam(r, "componentID"))
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		out, err := store.PutComponent(r.Context(), userID, courseID, comp)
		if err != nil {
			if errors.Is(err, tracker.ErrNotFound) {
				http.Error(w, "component not found", http.StatusNotFound)
				return
			}
			courseError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

// DELETE /courses/{courseID}/components/{componentID}
func DeleteComponentHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		err := store.DeleteComponent(r.Context(), userID,
			chi.URLParam(r, "courseID"), chi.URLParam(r, "componentID"))
		if err != nil {
			if errors.Is(err, tracker.ErrNotFound) {
				http.Error(w, "component not found", http.StatusNotFound)
				return
			}
			courseError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
