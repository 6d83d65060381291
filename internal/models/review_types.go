package models

import "time"

// Review is read-only in this service.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	UserName    string `json:"userName,omitempty" db:"-"`
	ProductName string `json:"productName,omitempty" db:"-"`
}
