// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"primarycat/internal/auth"
	"primarycat/internal/models"
	"primarycat/internal/session"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession(role models.Role) *session.Data {
	return &session.Data{
		ID:          "test-session",
		UserID:      uuid.New(),
		Email:       "test@primarycat.local",
		DisplayName: "Test User",
		Role:        role,
	}
}

// stubSessions is a SessionGetter returning fixed values.
type stubSessions struct {
	data *session.Data
	err  error
}

func (s stubSessions) Get(context.Context, *http.Request) (*session.Data, error) {
	return s.data, s.err
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// ---------- SessionFromCtx ----------

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession(models.RoleAdmin)
		got := SessionFromCtx(WithSession(context.Background(), sess))
		if got != sess {
			t.Fatalf("expected stored session, got %+v", got)
		}
	})

	t.Run("returns nil when absent", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})
}

// ---------- LoadSession ----------

func TestLoadSession(t *testing.T) {
	tests := []struct {
		name     string
		store    stubSessions
		wantSess bool
	}{
		{"session found", stubSessions{data: newTestSession(models.RoleEditor)}, true},
		{"no session", stubSessions{}, false},
		{"store error treated as anonymous", stubSessions{err: errors.New("valkey down")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Data
			var called bool
			handler := LoadSession(tt.store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got = SessionFromCtx(r.Context())
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/posts", nil))

			if !called {
				t.Fatal("next handler should have been called")
			}
			if (got != nil) != tt.wantSess {
				t.Errorf("session in context: got %v, want %v", got != nil, tt.wantSess)
			}
		})
	}
}

// ---------- RequireAuth ----------

func TestRequireAuth(t *testing.T) {
	t.Run("redirects to login when no session", func(t *testing.T) {
		inner, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/posts", nil))

		if *called {
			t.Error("next handler should not be called")
		}
		if rr.Code != http.StatusSeeOther {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusSeeOther)
		}
		if loc := rr.Header().Get("Location"); loc != "/admin/login" {
			t.Errorf("Location: got %q, want %q", loc, "/admin/login")
		}
	})

	t.Run("passes through with session", func(t *testing.T) {
		inner, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
		req = req.WithContext(WithSession(req.Context(), newTestSession(models.RoleAuthor)))
		rr := httptest.NewRecorder()
		RequireAuth(inner).ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should be called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

// ---------- RequireCapability ----------

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name   string
		sess   *session.Data
		cap    auth.Capability
		status int
	}{
		{"admin manages categories", newTestSession(models.RoleAdmin), auth.CapManageCategories, http.StatusOK},
		{"editor manages categories", newTestSession(models.RoleEditor), auth.CapManageCategories, http.StatusOK},
		{"author cannot manage categories", newTestSession(models.RoleAuthor), auth.CapManageCategories, http.StatusForbidden},
		{"author edits posts", newTestSession(models.RoleAuthor), auth.CapEditPosts, http.StatusOK},
		{"no session", nil, auth.CapEditPosts, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			req := httptest.NewRequest(http.MethodGet, "/admin/categories", nil)
			if tt.sess != nil {
				req = req.WithContext(WithSession(req.Context(), tt.sess))
			}
			rr := httptest.NewRecorder()
			RequireCapability(tt.cap)(inner).ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
			if *called != (tt.status == http.StatusOK) {
				t.Errorf("next called: got %v", *called)
			}
		})
	}
}
