package session

import (
	"context"
	"errors"
	"time"

	"github.com/yigit/admission/internal/app/models"
	"github.com/yigit/admission/internal/pkg/apperrors"
	"github.com/yigit/admission/internal/pkg/auth"
	"github.com/yigit/admission/internal/pkg/logger"
)

// DefaultTTL is how long an issued token stays valid
const DefaultTTL = 24 * time.Hour

// Manager issues, verifies and revokes session tokens
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager creates a Manager over store. A non-positive ttl uses DefaultTTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// TTL returns the session lifetime
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Store returns the underlying session store
func (m *Manager) Store() Store {
	return m.store
}

// Issue creates a new session for the principal
func (m *Manager) Issue(ctx context.Context, principal models.Principal) (*Session, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to generate session token", err)
	}

	issuedAt := m.now()
	session := &Session{
		Token:     token,
		UserID:    principal.UserID,
		Username:  principal.Username,
		Role:      principal.Role,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(m.ttl),
	}
	if err := m.store.Put(ctx, session); err != nil {
		return nil, apperrors.NewInternalError("Failed to store session", err)
	}
	return session, nil
}

// Verify returns the principal for a live token
func (m *Manager) Verify(ctx context.Context, token string) (models.Principal, error) {
	if token == "" {
		return models.Principal{}, apperrors.NewAuthError(apperrors.ReasonInvalidOrExpired, "Authentication required")
	}

	session, err := m.store.Get(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return models.Principal{}, apperrors.NewAuthError(apperrors.ReasonInvalidOrExpired, "Session is invalid or expired")
	}
	if err != nil {
		return models.Principal{}, apperrors.NewInternalError("Failed to load session", err)
	}

	if session.Expired(m.now()) {
		if err := m.store.Delete(ctx, token); err != nil {
			logger.Warn().Err(err).Msg("Failed to drop expired session")
		}
		return models.Principal{}, apperrors.NewAuthError(apperrors.ReasonInvalidOrExpired, "Session is invalid or expired")
	}
	return session.Principal(), nil
}

// Revoke deletes the session so the token stops working immediately
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if err := m.store.Delete(ctx, token); err != nil {
		return apperrors.NewInternalError("Failed to revoke session", err)
	}
	return nil
}
