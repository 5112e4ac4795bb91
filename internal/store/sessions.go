package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gitlab.com/dirk.krummacker/addressbook-service/internal/model"
)

// CreateSession persists a new login session.
func (s *Store) CreateSession(ctx context.Context, sess *model.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES (?, ?, ?)
	`, sess.Token, sess.UserId, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SessionUser resolves an unexpired session token to its user. It returns
// ErrNoSession when the token is unknown or the session has expired.
func (s *Store) SessionUser(ctx context.Context, token string, now time.Time) (*model.User, error) {
	user := &model.User{}
	err := s.db.GetContext(ctx, user, `
		SELECT u.id, u.username, u.password_hash, u.is_admin
		FROM users u JOIN sessions s ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?
	`, token, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("select session user: %w", err)
	}
	return user, nil
}

// TouchSession moves a session's expiry forward, implementing the sliding
// idle timeout.
func (s *Store) TouchSession(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET expires_at = ? WHERE token = ?
	`, expiresAt, token)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// DeleteSession removes a session, logging its user out. Deleting a token
// that does not exist yields ErrNoSession.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE token = ?
	`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNoSession
	}
	return nil
}

// DeleteExpiredSessions removes all sessions whose expiry lies in the past.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE expires_at <= ?
	`, now)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}
