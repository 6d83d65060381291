package models

import "time"

// Category defines the struct for the 'categories' table.
// Names are stored lowercased.
type Category struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	ProductCount int       `json:"productCount" db:"-"`
}
