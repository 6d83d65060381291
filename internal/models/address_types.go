package models

import (
	"strings"
	"time"
)

// Address is the model for the 'addresses' table.
// At most one address per user has IsSelected set.
type Address struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	FirstName  string    `json:"firstName" db:"first_name"`
	LastName   string    `json:"lastName" db:"last_name"`
	Email      string    `json:"email" db:"email"`
	Street     string    `json:"street" db:"street"`
	City       string    `json:"city" db:"city"`
	State      string    `json:"state" db:"state"`
	Zipcode    string    `json:"zipcode" db:"zipcode"`
	Country    string    `json:"country" db:"country"`
	Phone      string    `json:"phone" db:"phone"`
	IsSelected bool      `json:"isSelected" db:"is_selected"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// AddressInput is the editable part of an address.
type AddressInput struct {
	FirstName string `json:"firstName" validate:"required,min=3"`
	LastName  string `json:"lastName" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zipcode   string `json:"zipcode" validate:"required"`
	Country   string `json:"country" validate:"required"`
	Phone     string `json:"phone" validate:"required,min=6"`
}

var addressMessages = map[string]string{
	"firstName.required": "First name is required",
	"firstName.min":      "First name must be at least 3 characters",
	"lastName.required":  "Last name is required",
	"lastName.min":       "Last name must be at least 3 characters",
	"email.required":     "Email is required",
	"email.email":        "Invalid email address",
	"street.required":    "Street is required",
	"city.required":      "City is required",
	"state.required":     "State is required",
	"zipcode.required":   "Zipcode is required",
	"country.required":   "Country is required",
	"phone.required":     "Phone is required",
	"phone.min":          "Phone must be at least 6 characters",
}

// Normalize trims surrounding whitespace on every field.
func (in *AddressInput) Normalize() {
	for _, f := range []*string{&in.FirstName, &in.LastName, &in.Email, &in.Street,
		&in.City, &in.State, &in.Zipcode, &in.Country, &in.Phone} {
		*f = strings.TrimSpace(*f)
	}
}

// Validate returns an apperr.Validation listing every bad field.
func (in *AddressInput) Validate() error {
	return validateStruct(in, addressMessages)
}

// ActiveAddress returns the id of the address checkout should use: the selected one,
// or the only one when the customer has exactly one. ok is false otherwise.
func ActiveAddress(addrs []Address) (id int64, ok bool) {
	for _, a := range addrs {
		if a.IsSelected {
			return a.ID, true
		}
	}
	if len(addrs) == 1 {
		return addrs[0].ID, true
	}
	return 0, false
}
