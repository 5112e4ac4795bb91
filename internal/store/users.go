package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"gitlab.com/dirk.krummacker/addressbook-service/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for a violated UNIQUE
// constraint.
const mysqlDuplicateEntry = 1062

// CreateUser inserts a new user with the given bcrypt password hash and
// returns its id. It fails with ErrDuplicateUsername when the username is
// taken. The pre-check is advisory only; a registration that loses the race
// against a concurrent insert is caught by the UNIQUE constraint and mapped
// to the same error.
func (s *Store) CreateUser(ctx context.Context, username string, passwordHash string, isAdmin bool) (int64, error) {
	if _, err := s.UserByUsername(ctx, username); err == nil {
		return 0, ErrDuplicateUsername
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, is_admin)
		VALUES (?, ?, ?)
	`, username, passwordHash, isAdmin)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// UserByUsername returns the user with the given username, or ErrNotFound.
func (s *Store) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.GetContext(ctx, user, `
		SELECT * FROM users WHERE username = ?
	`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

// Users returns id, username and admin flag for all users, ordered by id.
func (s *Store) Users(ctx context.Context) ([]model.UserSummary, error) {
	users := []model.UserSummary{}
	err := s.db.SelectContext(ctx, &users, `
		SELECT id, username, is_admin FROM users ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	return users, nil
}
