package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/apperr"
)

func validAddress() AddressInput {
	return AddressInput{
		FirstName: "Asha",
		LastName:  "Verma",
		Email:     "asha@example.com",
		Street:    "12 MG Road",
		City:      "Pune",
		State:     "MH",
		Zipcode:   "411001",
		Country:   "India",
		Phone:     "9876543210",
	}
}

func TestAddressInputValidate(t *testing.T) {
	in := validAddress()
	assert.NoError(t, in.Validate())
}

func TestAddressInputValidateReportsEveryField(t *testing.T) {
	in := validAddress()
	in.FirstName = "Al"
	in.Email = "not-an-email"
	in.City = ""
	in.Phone = "123"

	err := in.Validate()
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, map[string]string{
		"firstName": "First name must be at least 3 characters",
		"email":     "Invalid email address",
		"city":      "City is required",
		"phone":     "Phone must be at least 6 characters",
	}, appErr.Fields)
}

func TestAddressInputNormalize(t *testing.T) {
	in := validAddress()
	in.City = "  Pune "
	in.Normalize()
	assert.Equal(t, "Pune", in.City)
}

func TestActiveAddress(t *testing.T) {
	_, ok := ActiveAddress(nil)
	assert.False(t, ok)

	id, ok := ActiveAddress([]Address{{ID: 7}})
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = ActiveAddress([]Address{{ID: 7}, {ID: 8}})
	assert.False(t, ok)

	id, ok = ActiveAddress([]Address{{ID: 7}, {ID: 8, IsSelected: true}})
	assert.True(t, ok)
	assert.Equal(t, int64(8), id)
}
