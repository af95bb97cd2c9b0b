package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/campusgrid/gradepoint/internal/auth/middleware"
	"github.com/campusgrid/gradepoint/internal/tracker"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /auth/register {"username":..., "password":...}
// Creates the user and seeds the default grading scale for them.
func RegisterHandler(dbh *sql.DB, store tracker.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			http.Error(w, "username and password required", http.StatusBadRequest)
			return
		}

		var exists int
		err := dbh.QueryRowContext(r.Context(),
			`SELECT 1 FROM users WHERE username=$1`, req.Username).Scan(&exists)
		if err == nil {
			http.Error(w, "username taken", http.StatusConflict)
			return
		}
		if !errors.Is(err, sql.ErrNoRows) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			http.Error(w, "hash password", http.StatusInternalServerError)
			return
		}
		id := uuid.NewString()
		if _, err := dbh.ExecContext(r.Context(),
			`INSERT INTO users (id, username, password_hash, created_at) VALUES ($1,$2,$3,$4)`,
			id, req.Username, string(hash), time.Now().Unix()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := store.SeedDefaultScale(r.Context(), id); err != nil {
			http.Error(w, "seed scale: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(tracker.User{ID: id, Username: req.Username})
	}
}

// POST /auth/login {"username":..., "password":...} -> {"access_token":...}
func LoginHandler(dbh *sql.DB, authSvc *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		var id, hash string
		err := dbh.QueryRowContext(r.Context(),
			`SELECT id, password_hash FROM users WHERE username=$1`, strings.TrimSpace(req.Username)).Scan(&id, &hash)
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := authSvc.IssueJWT(id)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}
