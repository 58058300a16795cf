// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps admin sign-ins in Valkey. The session ID doubles as
// the token that primary-category nonces are bound to, so a nonce issued to
// one sign-in is useless to another.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"primarycat/internal/auth"
	"primarycat/internal/models"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "pc_session"

	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (64 hex chars).
	idLength = 32
)

// Data is the payload stored per session.
type Data struct {
	// ID is filled in by Create and Get and never stored in the payload.
	ID string `json:"-"`

	UserID      uuid.UUID   `json:"user_id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Caller returns the authorization identity of the session's user.
func (d *Data) Caller() auth.Caller {
	return auth.Caller{UserID: d.UserID, Role: d.Role}
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore returns a store whose sessions expire after ttl. Set secure
// behind TLS so the cookie is only sent over HTTPS.
func NewStore(client *redis.Client, ttl time.Duration, secure bool) *Store {
	return &Store{client: client, ttl: ttl, secure: secure}
}

// Create stores a new session for data and sets the cookie. It returns the
// session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.ID = id
	data.CreatedAt = time.Now()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, key(id), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, s.cookie(id, int(s.ttl.Seconds())))
	return id, nil
}

// Get loads the session named by the request cookie. A missing, malformed
// or expired session is nil with no error.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id, ok := cookieID(r)
	if !ok {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	data.ID = id
	return &data, nil
}

// Destroy deletes the session and expires the cookie. Nonces bound to the
// session stop verifying from here on.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if _, err := r.Cookie(CookieName); err != nil {
		return nil
	}
	if id, ok := cookieID(r); ok {
		if err := s.client.Del(ctx, key(id)).Err(); err != nil {
			return fmt.Errorf("session destroy: %w", err)
		}
	}
	http.SetCookie(w, s.cookie("", -1))
	return nil
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// cookieID returns the session ID from the request when it has the shape
// generateID produces.
func cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || len(c.Value) != idLength*2 {
		return "", false
	}
	if _, err := hex.DecodeString(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

func key(id string) string { return keyPrefix + id }

func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
