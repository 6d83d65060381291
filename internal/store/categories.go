package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
)

type CategoryStore struct {
	DB *sql.DB
}

// NormalizeCategoryName is the stored form of a category name.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Create adds a category. Names are case-insensitive and unique.
func (s *CategoryStore) Create(ctx context.Context, name string) (*models.Category, error) {
	name = NormalizeCategoryName(name)
	if len(name) < 2 {
		return nil, apperr.ValidationMsg("name", "Category name must be at least 2 characters")
	}

	// 1. --- Existing? ---
	if _, err := s.GetByName(ctx, name); err == nil {
		return nil, apperr.Conflict(apperr.MsgCategoryExists)
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	// 2. --- Insert (the unique key still guards against a concurrent create) ---
	cat := &models.Category{Name: name, Slug: slug.Make(name), CreatedAt: time.Now()}
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug, created_at) VALUES (?, ?, ?)", cat.Name, cat.Slug, cat.CreatedAt)
	if isDuplicateKey(err) {
		return nil, apperr.Conflict(apperr.MsgCategoryExists)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	if cat.ID, err = res.LastInsertId(); err != nil {
		return nil, dbErr(err)
	}
	return cat, nil
}

func (s *CategoryStore) get(ctx context.Context, where string, arg any) (*models.Category, error) {
	var c models.Category
	err := s.DB.QueryRowContext(ctx, "SELECT id, name, slug, created_at FROM categories WHERE "+where, arg).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(apperr.MsgCategoryNotFound)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return &c, nil
}

func (s *CategoryStore) Get(ctx context.Context, id int64) (*models.Category, error) {
	return s.get(ctx, "id = ?", id)
}

func (s *CategoryStore) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.get(ctx, "name = ?", NormalizeCategoryName(name))
}

// List returns every category with its count of live products.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.created_at, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id AND p.is_published = 1 AND p.in_stock > 0
		GROUP BY c.id, c.name, c.slug, c.created_at
		ORDER BY c.name`)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	cats := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.ProductCount); err != nil {
			return nil, dbErr(err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return cats, nil
}
