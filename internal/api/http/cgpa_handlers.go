package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/campusgrid/gradepoint/internal/auth/middleware"
	"github.com/campusgrid/gradepoint/internal/tracker"
)

// GET /cgpa -> {"cgpa": 3.43}
// Cheap enough to hit on every dashboard refresh. 0.0 means no grade-bearing
// courses, not a computed zero average.
func CGPAHandler(store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		cgpa, err := store.CGPA(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]float64{"cgpa": cgpa})
	}
}
