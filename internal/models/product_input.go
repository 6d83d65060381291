package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/pricing"
)

// ProductInput is what a seller submits. Prices arrive in major units.
type ProductInput struct {
	Name            string           `json:"name" validate:"required,min=3,max=255"`
	Description     string           `json:"description" validate:"required,min=10"`
	Category        string           `json:"category" validate:"required"`
	BasePrice       decimal.Decimal  `json:"basePrice"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice"`
	InStock         int              `json:"inStock" validate:"gte=1"`
	Images          []string         `json:"images" validate:"required,min=1,max=8,dive,url"`
}

var productMessages = map[string]string{
	"name.required":        "Product name is required",
	"name.min":             "Product name must be at least 3 characters",
	"name.max":             "Product name is too long",
	"description.required": "Description is required",
	"description.min":      "Description must be at least 10 characters",
	"category.required":    "Category is required",
	"inStock.gte":          "Stock must be at least 1",
	"images.required":      "At least one image is required",
	"images.min":           "At least one image is required",
	"images.max":           "At most 8 images are allowed",
}

// ToProduct validates the input and converts prices to minor units exactly once.
// A zero discounted price is treated as no discount.
func (in *ProductInput) ToProduct(sellerID, categoryID int64) (*Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)

	fields := map[string]string{}
	if err := validateStruct(in, productMessages); err != nil {
		appErr := apperr.Wrap(err)
		if appErr.Kind != apperr.KindValidation {
			return nil, appErr
		}
		for k, v := range appErr.Fields {
			fields[k] = v
		}
	}

	base, err := pricing.ToMinorUnits(in.BasePrice)
	if err != nil || base < 100 {
		fields["basePrice"] = "Base price must be at least 1"
	}

	var discounted *int64
	if in.DiscountedPrice != nil && !in.DiscountedPrice.IsZero() {
		d, err := pricing.ToMinorUnits(*in.DiscountedPrice)
		switch {
		case err != nil:
			fields["discountedPrice"] = "Discounted price must not be negative"
		case d >= base:
			fields["discountedPrice"] = "Discounted price must be less than base price"
		case d == 0:
			// Rounds to nothing: no discount.
		default:
			discounted = &d
		}
	}

	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	return &Product{
		SellerID:        sellerID,
		CategoryID:      categoryID,
		Name:            in.Name,
		Description:     in.Description,
		Images:          in.Images,
		BasePrice:       base,
		DiscountedPrice: discounted,
		InStock:         in.InStock,
	}, nil
}
