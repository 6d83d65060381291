package models

import (
	"time"

	"github.com/01moynul/storefront-golang/internal/pricing"
)

// Product is the model for the 'products' table.
// Prices are integer minor units; DiscountedPrice is nil when there is no discount.
type Product struct {
	ID          int64    `json:"id" db:"id"`
	SellerID    int64    `json:"sellerId" db:"seller_id"`
	CategoryID  int64    `json:"categoryId" db:"category_id"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	Images      []string `json:"images" db:"images"`

	// --- Pricing & Stock ---
	BasePrice       int64  `json:"basePrice" db:"base_price"`
	DiscountedPrice *int64 `json:"discountedPrice,omitempty" db:"discounted_price"`
	InStock         int    `json:"inStock" db:"in_stock"`
	IsPublished     bool   `json:"isPublished" db:"is_published"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joins (populated manually)
	CategoryName string `json:"categoryName,omitempty" db:"-"`
	SellerName   string `json:"sellerName,omitempty" db:"-"`
}

// UnitPrice is the price a buyer pays right now.
func (p *Product) UnitPrice() int64 {
	return pricing.UnitPrice(p.BasePrice, p.DiscountedPrice)
}

// FirstImage returns the cover image or "".
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductDetail is a product page: the product plus its reviews.
type ProductDetail struct {
	Product
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"averageRating"`
}
