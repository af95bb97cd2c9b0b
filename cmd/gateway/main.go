package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/campusgrid/gradepoint/internal/api/http"
	auth "github.com/campusgrid/gradepoint/internal/auth/middleware"
	"github.com/campusgrid/gradepoint/internal/config"
	"github.com/campusgrid/gradepoint/internal/db"
	"github.com/campusgrid/gradepoint/internal/tracker"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := tracker.NewSQLStore(dbh)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.HMACSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableRegistration {
		r.Post("/auth/register", api.RegisterHandler(dbh, store))
	}
	r.Post("/auth/login", api.LoginHandler(dbh, authSvc))

	// Protected API: everything below is scoped to the token subject.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Post("/auth/change-password", api.ChangePasswordHandler(dbh))

		pr.Route("/scale", func(sr chi.Router) {
			sr.Get("/", api.ListScaleHandler(store))
			sr.Put("/", api.PutScaleEntryHandler(store))
			sr.Delete("/{entryID}", api.DeleteScaleEntryHandler(store))
		})

		pr.Route("/courses", func(cr chi.Router) {
			cr.Get("/", api.ListCoursesHandler(store))
			cr.Post("/", api.CreateCourseHandler(store))
			cr.Get("/{courseID}", api.GetCourseHandler(store))
			cr.Put("/{courseID}", api.UpdateCourseHandler(store))
			cr.Delete("/{courseID}", api.DeleteCourseHandler(store))

			cr.Get("/{courseID}/components", api.ListComponentsHandler(store))
			cr.Post("/{courseID}/components", api.CreateComponentHandler(store))
			cr.Put("/{courseID}/components/{componentID}", api.UpdateComponentHandler(store))
			cr.Delete("/{courseID}/components/{componentID}", api.DeleteComponentHandler(store))
		})

		pr.Get("/cgpa", api.CGPAHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
