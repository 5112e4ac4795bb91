package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gitlab.com/dirk.krummacker/addressbook-service/internal/model"
)

// validateContact checks that all required contact fields are present. Only
// the apartment unit may be empty.
func validateContact(c *model.Contact) error {
	required := []struct {
		name  string
		value string
	}{
		{"firstname", c.FirstName},
		{"lastname", c.LastName},
		{"email", c.Email},
		{"street_address", c.StreetAddress},
		{"city", c.City},
		{"zip_code", c.ZipCode},
		{"phone", c.Phone},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, field.name)
		}
	}
	return nil
}

// ContactsByOwner returns all contacts belonging to the given user, in
// insertion order.
func (s *Store) ContactsByOwner(ctx context.Context, ownerId int64) ([]model.Contact, error) {
	contacts := []model.Contact{}
	if err := s.selectContactsByOwner.SelectContext(ctx, &contacts, ownerId); err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}
	return contacts, nil
}

// CreateContact validates the contact and inserts it with the given user as
// its owner. On success the contact's Id and UserId fields are filled in.
func (s *Store) CreateContact(ctx context.Context, ownerId int64, c *model.Contact) error {
	if err := validateContact(c); err != nil {
		return err
	}
	c.UserId = ownerId
	result, err := s.insertContact.ExecContext(ctx, c)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	c.Id = id
	return nil
}

// contactOwner returns the owning user id of the contact with the given id,
// or ErrNotFound.
func (s *Store) contactOwner(ctx context.Context, id int64) (int64, error) {
	var ownerId int64
	if err := s.selectContactOwner.GetContext(ctx, &ownerId, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("select contact owner: %w", err)
	}
	return ownerId, nil
}

// UpdateContact overwrites all mutable fields of the contact with the given
// id. It fails with ErrNotFound if the id is unknown and with ErrNotOwner if
// the contact belongs to a different user. The owner itself never changes.
func (s *Store) UpdateContact(ctx context.Context, id int64, ownerId int64, c *model.Contact) error {
	if err := validateContact(c); err != nil {
		return err
	}
	existingOwner, err := s.contactOwner(ctx, id)
	if err != nil {
		return err
	}
	if existingOwner != ownerId {
		return ErrNotOwner
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE contacts
		SET firstname=?, lastname=?, email=?, street_address=?, apartment_unit=?, city=?, zip_code=?, phone=?
		WHERE id=?
	`, c.FirstName, c.LastName, c.Email, c.StreetAddress, c.ApartmentUnit, c.City, c.ZipCode, c.Phone, id)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	c.Id = id
	c.UserId = ownerId
	return nil
}

// DeleteContact removes the contact with the given id after the same
// not-found and ownership checks as UpdateContact.
func (s *Store) DeleteContact(ctx context.Context, id int64, ownerId int64) error {
	existingOwner, err := s.contactOwner(ctx, id)
	if err != nil {
		return err
	}
	if existingOwner != ownerId {
		return ErrNotOwner
	}
	result, err := s.deleteContactById.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
