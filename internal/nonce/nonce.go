// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package nonce issues short-lived anti-forgery tokens bound to an action
// and a session. Unlike the double-submit CSRF cookie, a nonce is scoped to
// one operation on one object, e.g. saving the primary category of a post.
//
// Tokens are valid for between half and one full lifetime: time is split
// into ticks of lifetime/2 and a token verifies during its own tick and the
// one after.
package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"
)

// DefaultLifetime is the full validity window of a token.
const DefaultLifetime = 24 * time.Hour

// tokenLength is the number of hex characters kept from the MAC.
const tokenLength = 32

// Issuer creates and verifies nonces with a server secret.
type Issuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// New returns an Issuer. A zero lifetime uses DefaultLifetime.
func New(secret string, lifetime time.Duration) *Issuer {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Issuer{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// tick returns the current tick number.
func (i *Issuer) tick() int64 {
	half := i.lifetime / 2
	if half <= 0 {
		half = time.Second
	}
	return i.now().UnixNano() / int64(half)
}

// mac computes the token for a tick.
func (i *Issuer) mac(tick int64, action, sessionID string) string {
	h := hmac.New(sha256.New, i.secret)
	h.Write([]byte(strconv.FormatInt(tick, 10)))
	h.Write([]byte{0})
	h.Write([]byte(action))
	h.Write([]byte{0})
	h.Write([]byte(sessionID))
	return hex.EncodeToString(h.Sum(nil))[:tokenLength]
}

// Create returns a token for action within the session.
func (i *Issuer) Create(action, sessionID string) string {
	return i.mac(i.tick(), action, sessionID)
}

// Verify reports whether token was issued for action and session during the
// current or previous tick. Empty tokens and issuers without a secret never
// verify.
func (i *Issuer) Verify(token, action, sessionID string) bool {
	if token == "" || len(i.secret) == 0 {
		return false
	}
	t := i.tick()
	for _, tick := range []int64{t, t - 1} {
		expected := i.mac(tick, action, sessionID)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1 {
			return true
		}
	}
	return false
}
