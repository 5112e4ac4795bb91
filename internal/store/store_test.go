package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"gitlab.com/dirk.krummacker/addressbook-service/internal/model"
)

// createMockStore builds a store over a mock database and the mock object for
// defining our expected SQL calls.
func createMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	mock.ExpectPrepare("INSERT INTO contacts")
	mock.ExpectPrepare("SELECT \\* FROM contacts WHERE user_id")
	mock.ExpectPrepare("SELECT user_id FROM contacts WHERE id")
	mock.ExpectPrepare("DELETE FROM contacts WHERE id")
	s, err := New(db)
	if err != nil {
		t.Fatalf("could not initialize store: %s", err)
	}
	return s, mock
}

func validContact() *model.Contact {
	return &model.Contact{
		FirstName:     "A",
		LastName:      "B",
		Email:         "a@b.com",
		StreetAddress: "1 Main St",
		City:          "X",
		ZipCode:       "00000",
		Phone:         "555",
	}
}

// TestCreateUserDuplicateConstraint simulates losing the registration race:
// the advisory pre-check sees no user but the insert hits the UNIQUE
// constraint. The store must still report ErrDuplicateUsername.
func TestCreateUserDuplicateConstraint(t *testing.T) {
	s, mock := createMockStore(t)
	defer s.Close()

	mock.ExpectQuery("SELECT \\* FROM users WHERE username").
		WithArgs("alice").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "hash", false).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"})

	_, err := s.CreateUser(context.Background(), "alice", "hash", false)
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestCreateUserPreCheck verifies that a username found by the pre-check is
// rejected without attempting the insert.
func TestCreateUserPreCheck(t *testing.T) {
	s, mock := createMockStore(t)
	defer s.Close()

	rows := mock.NewRows([]string{"id", "username", "password_hash", "is_admin"}).
		AddRow(1, "alice", "hash", false)
	mock.ExpectQuery("SELECT \\* FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(rows)

	_, err := s.CreateUser(context.Background(), "alice", "hash", false)
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestUserByUsernameNotFound maps an empty result to ErrNotFound.
func TestUserByUsernameNotFound(t *testing.T) {
	s, mock := createMockStore(t)
	defer s.Close()

	mock.ExpectQuery("SELECT \\* FROM users WHERE username").
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := s.UserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestCreateContactValidation rejects a contact with an empty required field
// before touching the database. The apartment unit may stay empty.
func TestCreateContactValidation(t *testing.T) {
	s, mock := createMockStore(t)
	defer s.Close()

	contact := validContact()
	contact.Email = ""
	err := s.CreateContact(context.Background(), 7, contact)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "email is required")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestCreateContactAssignsOwner verifies that the inserted row carries the
// owner id and that the generated id is written back.
func TestCreateContactAssignsOwner(t *testing.T) {
	s, mock := createMockStore(t)
	defer s.Close()

	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("A", "B", "a@b.com", "1 Main St", nil, "X", "00000", "555", int64(7)).
		WillReturnResult(sqlmock.NewResult(42, 1))

	contact := validContact()
	err := s.CreateContact(context.Background(), 7, contact)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), contact.Id)
	assert.Equal(t, int64(7), contact.UserId)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestUpdateContactUnknownId maps an unknown contact id to ErrNotFound.
func TestUpdateContactUnknownId(t *testing.T) {
	s, mock := createMockStore(t)
	defer s.Close()

	mock.ExpectQuery("SELECT user_id FROM contacts WHERE id").
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	err := s.UpdateContact(context.Background(), 999, 7, validContact())
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestUpdateContactForeignOwner refuses to update a contact owned by another
// user.
func TestUpdateContactForeignOwner(t *testing.T) {
	s, mock := createMockStore(t)
	defer s.Close()

	rows := mock.NewRows([]string{"user_id"}).AddRow(8)
	mock.ExpectQuery("SELECT user_id FROM contacts WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	err := s.UpdateContact(context.Background(), 42, 7, validContact())
	assert.ErrorIs(t, err, ErrNotOwner)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestDeleteContactForeignOwner refuses to delete a contact owned by another
// user.
func TestDeleteContactForeignOwner(t *testing.T) {
	s, mock := createMockStore(t)
	defer s.Close()

	rows := mock.NewRows([]string{"user_id"}).AddRow(8)
	mock.ExpectQuery("SELECT user_id FROM contacts WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	err := s.DeleteContact(context.Background(), 42, 7)
	assert.ErrorIs(t, err, ErrNotOwner)
}

// TestSessionUserExpired maps a token that no longer matches an unexpired row
// to ErrNoSession.
func TestSessionUserExpired(t *testing.T) {
	s, mock := createMockStore(t)
	defer s.Close()

	mock.ExpectQuery("FROM users u JOIN sessions s").
		WithArgs("stale-token", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := s.SessionUser(context.Background(), "stale-token", time.Now())
	assert.ErrorIs(t, err, ErrNoSession)
}

// TestDeleteSessionUnknownToken maps a delete of an unknown token to
// ErrNoSession.
func TestDeleteSessionUnknownToken(t *testing.T) {
	s, mock := createMockStore(t)
	defer s.Close()

	mock.ExpectExec("DELETE FROM sessions WHERE token").
		WithArgs("unknown").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteSession(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNoSession)
}
