package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Store bundles the database handle and the prepared statements for the hot
// paths. It replaces ambient package state: one Store is constructed at
// startup and handed to the components that need it.
type Store struct {
	db *sqlx.DB

	insertContact         *sqlx.NamedStmt
	selectContactsByOwner *sqlx.Stmt
	selectContactOwner    *sqlx.Stmt
	deleteContactById     *sqlx.Stmt
}

// OpenDatabase opens a MySQL connection with the given data source name.
func OpenDatabase(dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return sqlDB, nil
}

// New initializes the sqlx database wrapper with the specified sql database
// and prepares all statements. The database argument can be a real database
// for production use or a mock database within unit tests.
func New(sqlDB *sql.DB) (*Store, error) {
	s := &Store{db: sqlx.NewDb(sqlDB, "mysql")}

	// Prepared statements offer a significant speed increase if executed many times.
	var err error
	s.insertContact, err = s.db.PrepareNamed(`
		INSERT INTO contacts (firstname, lastname, email, street_address, apartment_unit, city, zip_code, phone, user_id)
		VALUES (:firstname, :lastname, :email, :street_address, :apartment_unit, :city, :zip_code, :phone, :user_id)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert contact: %w", err)
	}
	s.selectContactsByOwner, err = s.db.Preparex(`
		SELECT * FROM contacts WHERE user_id = ? ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare select contacts: %w", err)
	}
	s.selectContactOwner, err = s.db.Preparex(`
		SELECT user_id FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare select contact owner: %w", err)
	}
	s.deleteContactById, err = s.db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare delete contact: %w", err)
	}
	return s, nil
}

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
