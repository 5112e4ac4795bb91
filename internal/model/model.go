package model

import "time"

// User is an account that owns address book contacts. The password is only
// ever stored as a bcrypt hash and is never serialized into responses.
type User struct {
	Id           int64  `json:"id"       db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-"        db:"password_hash"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin"`
}

// UserSummary is the subset of User returned by the admin user listing.
type UserSummary struct {
	Id       int64  `json:"id"       db:"id"`
	Username string `json:"username" db:"username"`
	IsAdmin  bool   `json:"is_admin" db:"is_admin"`
}

// Contact is one address book entry. All fields except ApartmentUnit are
// required. Every contact belongs to exactly one user; the owner is assigned
// at creation time and never changes.
type Contact struct {
	Id            int64   `json:"id"                       db:"id"`
	FirstName     string  `json:"firstname"                db:"firstname"`
	LastName      string  `json:"lastname"                 db:"lastname"`
	Email         string  `json:"email"                    db:"email"`
	StreetAddress string  `json:"street_address"           db:"street_address"`
	ApartmentUnit *string `json:"apartment_unit,omitempty" db:"apartment_unit"`
	City          string  `json:"city"                     db:"city"`
	ZipCode       string  `json:"zip_code"                 db:"zip_code"`
	Phone         string  `json:"phone"                    db:"phone"`
	UserId        int64   `json:"-"                        db:"user_id"`
}

// Session is a server-side login session, carried by an HTTP-only cookie and
// persisted so that it survives restarts. Expiry slides forward on every
// authenticated request.
type Session struct {
	Token     string    `db:"token"`
	UserId    int64     `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}
