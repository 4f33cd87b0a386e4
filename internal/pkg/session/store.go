// Package session issues and validates the opaque bearer tokens that map a
// caller to a principal. Storage sits behind the Store interface so the
// in-process map can be swapped for Redis without touching callers.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/yigit/admission/internal/app/models"
)

// ErrNotFound is returned by a Store when no session exists for a token
var ErrNotFound = errors.New("session not found")

// Session is a stored token with its principal
type Session struct {
	Token     string
	UserID    int64
	Username  string
	Role      models.RoleType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal returns the identity carried by the session
func (s *Session) Principal() models.Principal {
	return models.Principal{UserID: s.UserID, Username: s.Username, Role: s.Role}
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions keyed by token
type Store interface {
	Get(ctx context.Context, token string) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, token string) error
	// Sweep removes sessions that expired at or before cutoff and reports how many went.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}
