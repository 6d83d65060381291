package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/apperr"
)

func validProductInput() ProductInput {
	return ProductInput{
		Name:        "Cotton Kurta",
		Description: "Hand-block printed cotton kurta",
		Category:    "clothing",
		BasePrice:   decimal.RequireFromString("49.99"),
		InStock:     5,
		Images:      []string{"https://ik.imagekit.io/demo/kurta.jpg"},
	}
}

func TestProductInputToProduct(t *testing.T) {
	in := validProductInput()
	d := decimal.RequireFromString("39.50")
	in.DiscountedPrice = &d

	p, err := in.ToProduct(3, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(4999), p.BasePrice)
	require.NotNil(t, p.DiscountedPrice)
	assert.Equal(t, int64(3950), *p.DiscountedPrice)
	assert.Equal(t, int64(3950), p.UnitPrice())
	assert.Equal(t, int64(3), p.SellerID)
	assert.Equal(t, int64(9), p.CategoryID)
	assert.False(t, p.IsPublished)
}

func TestProductInputZeroDiscountMeansNone(t *testing.T) {
	in := validProductInput()
	zero := decimal.Zero
	in.DiscountedPrice = &zero

	p, err := in.ToProduct(1, 1)
	require.NoError(t, err)
	assert.Nil(t, p.DiscountedPrice)
	assert.Equal(t, int64(4999), p.UnitPrice())
}

func TestProductInputDiscountRoundingToZeroMeansNone(t *testing.T) {
	in := validProductInput()
	in.BasePrice = decimal.RequireFromString("10")
	tiny := decimal.RequireFromString("0.004")
	in.DiscountedPrice = &tiny

	p, err := in.ToProduct(1, 1)
	require.NoError(t, err)
	assert.Nil(t, p.DiscountedPrice)
	assert.Equal(t, int64(1000), p.UnitPrice())
}

func TestProductInputRejectsDiscountAboveBase(t *testing.T) {
	in := validProductInput()
	d := decimal.RequireFromString("49.99")
	in.DiscountedPrice = &d
	in.InStock = 0

	_, err := in.ToProduct(1, 1)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Discounted price must be less than base price", appErr.Fields["discountedPrice"])
	assert.Equal(t, "Stock must be at least 1", appErr.Fields["inStock"])
}

func TestProductInputRejectsTinyBasePrice(t *testing.T) {
	in := validProductInput()
	in.BasePrice = decimal.RequireFromString("0.50")

	_, err := in.ToProduct(1, 1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestOrderSellerIDs(t *testing.T) {
	o := Order{Items: []OrderItem{{SellerID: 4}, {SellerID: 2}, {SellerID: 4}}}
	assert.Equal(t, []int64{4, 2}, o.SellerIDs())
}
