package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
)

type AddressStore struct {
	DB *sql.DB
}

const addressColumns = `id, user_id, first_name, last_name, email, street, city, state, zipcode,
	country, phone, is_selected, created_at, updated_at`

func scanAddress(sc interface{ Scan(...any) error }, a *models.Address) error {
	return sc.Scan(&a.ID, &a.UserID, &a.FirstName, &a.LastName, &a.Email, &a.Street, &a.City,
		&a.State, &a.Zipcode, &a.Country, &a.Phone, &a.IsSelected, &a.CreatedAt, &a.UpdatedAt)
}

// Get returns the address only when it belongs to userID.
func (s *AddressStore) Get(ctx context.Context, userID, addressID int64) (*models.Address, error) {
	var a models.Address
	err := scanAddress(s.DB.QueryRowContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE id = ? AND user_id = ?", addressID, userID), &a)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(apperr.MsgAddressNotFound)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return &a, nil
}

// Add validates and stores a new, unselected address.
func (s *AddressStore) Add(ctx context.Context, userID int64, in models.AddressInput) (*models.Address, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO addresses
			(user_id, first_name, last_name, email, street, city, state, zipcode, country, phone,
			 is_selected, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		userID, in.FirstName, in.LastName, in.Email, in.Street, in.City, in.State, in.Zipcode,
		in.Country, in.Phone, now, now)
	if err != nil {
		return nil, dbErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, dbErr(err)
	}
	return s.Get(ctx, userID, id)
}

// Update replaces the editable fields of an owned address. The selection flag is untouched.
func (s *AddressStore) Update(ctx context.Context, userID, addressID int64, in models.AddressInput) (*models.Address, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, userID, addressID); err != nil {
		return nil, err
	}

	_, err := s.DB.ExecContext(ctx, `
		UPDATE addresses
		SET first_name = ?, last_name = ?, email = ?, street = ?, city = ?, state = ?,
			zipcode = ?, country = ?, phone = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		in.FirstName, in.LastName, in.Email, in.Street, in.City, in.State, in.Zipcode,
		in.Country, in.Phone, time.Now(), addressID, userID)
	if err != nil {
		return nil, dbErr(err)
	}
	return s.Get(ctx, userID, addressID)
}

// Select makes addressID the customer's only selected address. The flip is a single
// statement so no reader ever sees zero or two selected rows.
func (s *AddressStore) Select(ctx context.Context, userID, addressID int64) (*models.Address, error) {
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		// 1. --- Ownership ---
		var id int64
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM addresses WHERE id = ? AND user_id = ? FOR UPDATE", addressID, userID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(apperr.MsgAddressNotFound)
		}
		if err != nil {
			return dbErr(err)
		}

		// 2. --- Flip ---
		_, err = tx.ExecContext(ctx,
			"UPDATE addresses SET is_selected = (id = ?), updated_at = ? WHERE user_id = ?",
			addressID, time.Now(), userID)
		return dbErr(err)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, addressID)
}

// ListForCustomer returns every address of the customer, oldest first.
func (s *AddressStore) ListForCustomer(ctx context.Context, userID int64) ([]models.Address, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	addrs := []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, dbErr(err)
		}
		addrs = append(addrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return addrs, nil
}
