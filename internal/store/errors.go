package store

import "errors"

var (
	// ErrNotFound is returned when a record with the requested id does not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner is returned when a contact exists but belongs to a
	// different user than the caller.
	ErrNotOwner = errors.New("not the owner")

	// ErrDuplicateUsername is returned when a username is already taken. The
	// UNIQUE constraint on the username column is authoritative: the error is
	// raised both by the advisory pre-check and by a constraint violation
	// that slips past it under concurrent registration.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrValidation is returned when a required field is empty.
	ErrValidation = errors.New("validation failed")

	// ErrNoSession is returned when a session token is unknown or expired.
	ErrNoSession = errors.New("no active session")
)
