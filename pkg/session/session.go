// Package session provides graph session management for the server.
//
// A session owns one live graph and the expander driving it. Sessions are
// identified by opaque random IDs, expire after inactivity, and are renewed
// on every access. The [Store] interface abstracts the backend; [NewMemoryStore]
// is the in-process implementation used by the server (a live expander holds
// an in-flight mutex and cannot be shared across instances, so sessions are
// instance-local by design; persistent graphs travel as snapshots instead).
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/kotomap/kotomap/pkg/expand"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is the default session inactivity timeout.
const DefaultTTL = 24 * time.Hour

// Session binds a session ID to a live expander and its expiry state.
type Session struct {
	ID        string
	Expander  *expand.Expander
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session's expiry by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// New creates a session around an expander with a fresh random ID.
func New(exp *expand.Expander, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:        id,
		Expander:  exp,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. Returns ErrNotFound for a missing ID
	// and ErrExpired for one past its TTL (the expired session is dropped).
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions and returns how many were dropped.
	Cleanup(ctx context.Context) (int, error)
}

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
