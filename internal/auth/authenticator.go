package auth

import (
	"context"
	"errors"

	"gitlab.com/dirk.krummacker/addressbook-service/internal/model"
	"gitlab.com/dirk.krummacker/addressbook-service/internal/store"
)

// ErrInvalidCredentials is returned on login when the username is unknown or
// the password does not match. Both cases are deliberately indistinguishable
// to the caller.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserStore is the persistence surface the authenticator needs. It is
// implemented by store.Store and by test fakes.
type UserStore interface {
	CreateUser(ctx context.Context, username string, passwordHash string, isAdmin bool) (int64, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
}

// Authenticator verifies credentials against the user store. It knows nothing
// about HTTP or sessions; cookie issuance is the session manager's job.
type Authenticator struct {
	users UserStore
}

// NewAuthenticator creates an authenticator backed by the given user store.
func NewAuthenticator(users UserStore) *Authenticator {
	return &Authenticator{users: users}
}

// Register creates a new non-admin account. It fails with
// store.ErrDuplicateUsername when the username is taken.
func (a *Authenticator) Register(ctx context.Context, username string, password string) error {
	return a.CreateUser(ctx, username, password, false)
}

// CreateUser creates an account with a caller-supplied admin flag. Used by
// self-registration, by the admin user management endpoint, and by the
// bootstrap admin seeding at startup.
func (a *Authenticator) CreateUser(ctx context.Context, username string, password string, isAdmin bool) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	_, err = a.users.CreateUser(ctx, username, hash, isAdmin)
	return err
}

// Login verifies the username and password and returns the matching user.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username string, password string) (*model.User, error) {
	user, err := a.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
