package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	authmw "github.com/campusgrid/gradepoint/internal/auth/middleware"
	"github.com/campusgrid/gradepoint/internal/tracker"
)

func newTestRouter(t *testing.T) (http.Handler, tracker.Store, string) {
	t.Helper()
	store := tracker.NewInMemoryStore()
	const userID = "u1"
	if err := store.SeedDefaultScale(context.Background(), userID); err != nil {
		t.Fatalf("seed scale: %v", err)
	}
	authSvc := authmw.NewAuthService("test-secret", time.Hour)
	tok, err := authSvc.IssueJWT(userID)
	if err != nil {
		t.Fatalf("issue jwt: %v", err)
	}

	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))
		pr.Get("/scale", ListScaleHandler(store))
		pr.Put("/scale", PutScaleEntryHandler(store))
		pr.Post("/courses", CreateCourseHandler(store))
		pr.Get("/courses", ListCoursesHandler(store))
		pr.Get("/courses/{courseID}/components", ListComponentsHandler(store))
		pr.Post("/courses/{courseID}/components", CreateComponentHandler(store))
		pr.Get("/cgpa", CGPAHandler(store))
	})
	return r, store, tok
}

func do(t *testing.T, h http.Handler, tok, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoutesRequireToken(t *testing.T) {
	r, _, _ := newTestRouter(t)
	if w := do(t, r, "", "GET", "/cgpa", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d; want 401", w.Code)
	}
}

func TestCourseAndCGPAFlow(t *testing.T) {
	r, _, tok := newTestRouter(t)

	w := do(t, r, tok, "POST", "/courses", map[string]any{
		"name": "Calculus", "credits": 3, "calculation_method": "final_grade", "grade_letter": "A",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create course: status = %d, body %s", w.Code, w.Body.String())
	}
	w = do(t, r, tok, "POST", "/courses", map[string]any{
		"name": "History", "credits": 4, "calculation_method": "final_grade", "grade_letter": "B",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create course: status = %d", w.Code)
	}

	w = do(t, r, tok, "GET", "/cgpa", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cgpa: status = %d", w.Code)
	}
	var resp map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode cgpa: %v", err)
	}
	if resp["cgpa"] != 3.43 {
		t.Fatalf("cgpa = %v; want 3.43", resp["cgpa"])
	}
}

func TestCreateCourseRejectsUnknownLetter(t *testing.T) {
	r, _, tok := newTestRouter(t)
	w := do(t, r, tok, "POST", "/courses", map[string]any{
		"name": "Art", "credits": 2, "calculation_method": "final_grade", "grade_letter": "Z",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown letter: status = %d; want 400", w.Code)
	}
}

func TestComponentViewUndeterminedThenResolved(t *testing.T) {
	r, store, tok := newTestRouter(t)

	c, err := store.CreateCourse(context.Background(), "u1", tracker.CourseDraft{
		Name: "Lab", Credits: 2, Method: "components",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	w := do(t, r, tok, "GET", "/courses/"+c.ID+"/components", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list components: status = %d", w.Code)
	}
	var view struct {
		Components []tracker.Component `json:"components"`
		Percentage *float64            `json:"percentage"`
		GradePoint *float64            `json:"grade_point"`
		Letter     *string             `json:"grade_letter"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Percentage != nil || view.GradePoint != nil || view.Letter != nil {
		t.Fatalf("empty course should be undetermined, got %s", w.Body.String())
	}

	w = do(t, r, tok, "POST", "/courses/"+c.ID+"/components", map[string]any{
		"name": "exam", "weight": 1, "score": 85, "max_score": 100,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create component: status = %d, body %s", w.Code, w.Body.String())
	}

	w = do(t, r, tok, "GET", "/courses/"+c.ID+"/components", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Letter == nil || *view.Letter != "B" {
		t.Fatalf("letter = %v; want B", view.Letter)
	}
	if view.Percentage == nil || *view.Percentage != 85 {
		t.Fatalf("percentage = %v; want 85", view.Percentage)
	}

	w = do(t, r, tok, "POST", "/courses/"+c.ID+"/components", map[string]any{
		"name": "quiz", "weight": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero weight: status = %d; want 400", w.Code)
	}
}
