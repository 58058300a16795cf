package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primarycat/internal/models"
)

func TestLoginPage(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Auth.LoginPage(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, parseHTML(t, rec.Body.String()).Find("#login-form").Length())

	// Signed-in users go straight to the posts list.
	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	req = req.WithContext(ctxWithSession(req.Context(), env.Editor))
	rec = httptest.NewRecorder()
	env.Auth.LoginPage(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/posts", rec.Header().Get("Location"))
}

func TestLoginSubmit(t *testing.T) {
	env := newTestEnv(t)
	env.Users.user = &models.User{ID: uuid.New(), Email: "admin@primarycat.local", DisplayName: "Admin", Role: models.RoleAdmin}
	env.Users.password = "admin"

	rec := httptest.NewRecorder()
	env.Auth.LoginSubmit(rec, formRequest(http.MethodPost, "/admin/login", url.Values{
		"email":    {"Admin@PrimaryCat.local"},
		"password": {"admin"},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/posts", rec.Header().Get("Location"))
	require.Len(t, env.Sessions.created, 1)
	sess := env.Sessions.created[0]
	assert.Equal(t, env.Users.user.ID, sess.UserID)
	assert.Equal(t, models.RoleAdmin, sess.Role)
	assert.NotEmpty(t, sess.ID)
}

func TestLoginSubmitFailures(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		lookupErr  error
		wantStatus int
		wantMsg    string
	}{
		{"missing fields", url.Values{"email": {""}}, nil, http.StatusUnprocessableEntity, "required"},
		{"wrong password", url.Values{"email": {"admin@primarycat.local"}, "password": {"nope"}}, nil, http.StatusUnauthorized, "Invalid email or password"},
		{"unknown user", url.Values{"email": {"who@primarycat.local"}, "password": {"admin"}}, nil, http.StatusUnauthorized, "Invalid email or password"},
		{"store failure", url.Values{"email": {"admin@primarycat.local"}, "password": {"admin"}}, errors.New("db down"), http.StatusInternalServerError, "unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.Users.user = &models.User{ID: uuid.New(), Email: "admin@primarycat.local", Role: models.RoleAdmin}
			env.Users.password = "admin"
			env.Users.err = tt.lookupErr

			rec := httptest.NewRecorder()
			env.Auth.LoginSubmit(rec, formRequest(http.MethodPost, "/admin/login", tt.form))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			assert.Empty(t, env.Sessions.created)
		})
	}
}

func TestLoginSubmitSessionFailure(t *testing.T) {
	env := newTestEnv(t)
	env.Users.user = &models.User{ID: uuid.New(), Email: "admin@primarycat.local", Role: models.RoleAdmin}
	env.Users.password = "admin"
	env.Sessions.err = errors.New("valkey down")

	rec := httptest.NewRecorder()
	env.Auth.LoginSubmit(rec, formRequest(http.MethodPost, "/admin/login", url.Values{
		"email":    {"admin@primarycat.local"},
		"password": {"admin"},
	}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Auth.Logout(rec, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	assert.Equal(t, 1, env.Sessions.destroyed)
}
