package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/dirk.krummacker/addressbook-service/internal/model"
)

// SessionIdleTimeout is how long a session stays valid without activity. Each
// resolved request slides the expiry forward by this amount.
const SessionIdleTimeout = 30 * time.Minute

// SessionStore is the persistence surface the session manager needs. It is
// implemented by store.Store and by test fakes.
type SessionStore interface {
	CreateSession(ctx context.Context, sess *model.Session) error
	SessionUser(ctx context.Context, token string, now time.Time) (*model.User, error)
	TouchSession(ctx context.Context, token string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// SessionManager issues opaque session tokens at login, resolves them back to
// users on every protected request, and invalidates them at logout. Sessions
// live in the database so that they survive restarts and are shared between
// workers.
type SessionManager struct {
	sessions SessionStore
	timeout  time.Duration
	now      func() time.Time
}

// NewSessionManager creates a session manager with the standard idle timeout.
func NewSessionManager(sessions SessionStore) *SessionManager {
	return &SessionManager{
		sessions: sessions,
		timeout:  SessionIdleTimeout,
		now:      time.Now,
	}
}

// Issue creates a session for the given user and returns its opaque token.
// Expired rows left behind by abandoned sessions are cleaned up on the same
// round.
func (m *SessionManager) Issue(ctx context.Context, userId int64) (*model.Session, error) {
	now := m.now()
	// Lazy cleanup; losing this delete is harmless because resolution
	// filters on expiry anyway.
	if err := m.sessions.DeleteExpiredSessions(ctx, now); err != nil {
		return nil, err
	}
	sess := &model.Session{
		Token:     uuid.NewString(),
		UserId:    userId,
		ExpiresAt: now.Add(m.timeout),
	}
	if err := m.sessions.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Resolve maps a token to its user and slides the expiry forward. It returns
// store.ErrNoSession for unknown or expired tokens together with the new
// expiry for the refreshed cookie.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*model.User, time.Time, error) {
	now := m.now()
	user, err := m.sessions.SessionUser(ctx, token, now)
	if err != nil {
		return nil, time.Time{}, err
	}
	expiresAt := now.Add(m.timeout)
	if err := m.sessions.TouchSession(ctx, token, expiresAt); err != nil {
		return nil, time.Time{}, err
	}
	return user, expiresAt, nil
}

// Delete invalidates a session. Resolving the token afterwards fails with
// store.ErrNoSession.
func (m *SessionManager) Delete(ctx context.Context, token string) error {
	return m.sessions.DeleteSession(ctx, token)
}

// Timeout returns the idle timeout, used to set the cookie max age.
func (m *SessionManager) Timeout() time.Duration {
	return m.timeout
}
