package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/campusgrid/gradepoint/internal/auth/middleware"
	"github.com/campusgrid/gradepoint/internal/tracker"
)

// GET /scale — entries sorted by point descending.
func ListScaleHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		entries, err := store.ListScale(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(entries)
	}
}

// PUT /scale {"letter":"A","point":4.0} — add or update one mapping.
func PutScaleEntryHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		var req struct {
			Letter string  `json:"letter"`
			Point  float64 `json:"point"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Letter) == "" {
			http.Error(w, "letter required", http.StatusBadRequest)
			return
		}
		e, err := store.PutScaleEntry(r.Context(), userID, req.Letter, req.Point)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(e)
	}
}

// DELETE /scale/{entryID}
func DeleteScaleEntryHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		entryID := chi.URLParam(r, "entryID")
		if err := store.DeleteScaleEntry(r.Context(), userID, entryID); err != nil {
			if errors.Is(err, tracker.ErrNotFound) {
				http.Error(w, "scale entry not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
