package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"primarycat/internal/middleware"
	"primarycat/internal/models"
	tmpl "primarycat/internal/render"
	"primarycat/internal/session"
)

// Authenticator checks credentials. It returns nil, nil for a bad login.
// *store.UserStore implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// SessionManager creates and destroys sessions. *session.Store implements it.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *tmpl.Renderer
	sessions SessionManager
	users    Authenticator
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *tmpl.Renderer, sessions SessionManager, users Authenticator) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		users:    users,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &tmpl.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Email": ""},
	})
}

// LoginSubmit processes the login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	fail := func(status int, msg string) {
		a.renderer.Page(w, r, "login", &tmpl.PageData{
			Title:  "Sign In",
			Data:   map[string]any{"Email": email, "Error": msg},
			Status: status,
		})
	}

	if errMsg := validateLogin(email, password); errMsg != "" {
		fail(http.StatusUnprocessableEntity, errMsg)
		return
	}

	user, err := a.users.Authenticate(r.Context(), email, password)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		fail(http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if user == nil {
		slog.Warn("login failed", "email", email)
		fail(http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user signed in", "user_id", user.ID, "role", user.Role)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
