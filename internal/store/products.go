package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
)

type ProductStore struct {
	DB *sql.DB
}

const productColumns = `p.id, p.seller_id, p.category_id, p.name, p.description, p.images,
	p.base_price, p.discounted_price, p.in_stock, p.is_published, p.created_at, p.updated_at,
	c.name, u.name`

const productJoins = `FROM products p
	JOIN categories c ON c.id = p.category_id
	JOIN users u ON u.id = p.seller_id`

// productRow holds the nullable and encoded columns while scanning.
type productRow struct {
	p          models.Product
	images     []byte
	discounted sql.NullInt64
}

func (r *productRow) dest() []any {
	return []any{
		&r.p.ID, &r.p.SellerID, &r.p.CategoryID, &r.p.Name, &r.p.Description, &r.images,
		&r.p.BasePrice, &r.discounted, &r.p.InStock, &r.p.IsPublished, &r.p.CreatedAt, &r.p.UpdatedAt,
		&r.p.CategoryName, &r.p.SellerName,
	}
}

func (r *productRow) product() (*models.Product, error) {
	p := r.p
	if err := decodeImages(r.images, &p.Images); err != nil {
		return nil, err
	}
	if r.discounted.Valid {
		d := r.discounted.Int64
		p.DiscountedPrice = &d
	}
	return &p, nil
}

func decodeImages(raw []byte, out *[]string) error {
	*out = []string{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (s *ProductStore) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var r productRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, dbErr(err)
		}
		p, err := r.product()
		if err != nil {
			return nil, dbErr(err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return products, nil
}

// Create inserts a new, unpublished product and returns its id.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) (int64, error) {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return 0, dbErr(err)
	}
	now := time.Now()
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO products
			(seller_id, category_id, name, description, images, base_price, discounted_price,
			 in_stock, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SellerID, p.CategoryID, p.Name, p.Description, images, p.BasePrice, p.DiscountedPrice,
		p.InStock, p.IsPublished, now, now)
	if err != nil {
		return 0, dbErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, dbErr(err)
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	return id, nil
}

func (s *ProductStore) Get(ctx context.Context, id int64) (*models.Product, error) {
	var r productRow
	err := s.DB.QueryRowContext(ctx, "SELECT "+productColumns+" "+productJoins+" WHERE p.id = ?", id).Scan(r.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(apperr.MsgProductNotFound)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	p, err := r.product()
	if err != nil {
		return nil, dbErr(err)
	}
	return p, nil
}

// escapeLike makes user input literal inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Search returns one page of live products whose name contains q (case-insensitive)
// and the total number of matches.
func (s *ProductStore) Search(ctx context.Context, q string, page, limit int) ([]models.Product, int, error) {
	where := "WHERE p.is_published = 1 AND p.in_stock > 0 AND LOWER(p.name) LIKE ?"
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(q))) + "%"

	var total int
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products p "+where, pattern).Scan(&total); err != nil {
		return nil, 0, dbErr(err)
	}

	products, err := s.queryProducts(ctx,
		"SELECT "+productColumns+" "+productJoins+" "+where+" ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?",
		pattern, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListByCategory returns the live products of a category.
func (s *ProductStore) ListByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	return s.queryProducts(ctx,
		"SELECT "+productColumns+" "+productJoins+
			" WHERE p.category_id = ? AND p.is_published = 1 AND p.in_stock > 0 ORDER BY p.created_at DESC",
		categoryID)
}

func (s *ProductStore) ListBySeller(ctx context.Context, sellerID int64) ([]models.Product, error) {
	return s.queryProducts(ctx,
		"SELECT "+productColumns+" "+productJoins+" WHERE p.seller_id = ? ORDER BY p.created_at DESC",
		sellerID)
}

// ListUnpublished is the admin moderation queue, oldest first.
func (s *ProductStore) ListUnpublished(ctx context.Context) ([]models.Product, error) {
	return s.queryProducts(ctx,
		"SELECT "+productColumns+" "+productJoins+" WHERE p.is_published = 0 ORDER BY p.created_at ASC")
}

// SetPublished flips the publish flag and returns the updated product.
func (s *ProductStore) SetPublished(ctx context.Context, id int64, published bool) (*models.Product, error) {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE products SET is_published = ?, updated_at = ? WHERE id = ?", published, time.Now(), id)
	if err != nil {
		return nil, dbErr(err)
	}
	return s.Get(ctx, id)
}

// DeleteForSeller removes a seller's product. Products that already appear on an
// order are unpublished instead so order history keeps its references.
// deleted reports which of the two happened.
func (s *ProductStore) DeleteForSeller(ctx context.Context, sellerID, productID int64) (deleted bool, err error) {
	err = withTx(ctx, s.DB, func(tx *sql.Tx) error {
		// 1. --- Ownership ---
		var owner int64
		err := tx.QueryRowContext(ctx, "SELECT seller_id FROM products WHERE id = ? FOR UPDATE", productID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != sellerID) {
			return apperr.NotFound(apperr.MsgProductNotFound)
		}
		if err != nil {
			return dbErr(err)
		}

		// 2. --- Drop it from carts either way ---
		if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE product_id = ?", productID); err != nil {
			return dbErr(err)
		}

		// 3. --- Referenced by orders? ---
		var refs int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM order_items WHERE product_id = ?", productID).Scan(&refs); err != nil {
			return dbErr(err)
		}
		if refs > 0 {
			_, err := tx.ExecContext(ctx, "UPDATE products SET is_published = 0, updated_at = ? WHERE id = ?", time.Now(), productID)
			return dbErr(err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM reviews WHERE product_id = ?", productID); err != nil {
			return dbErr(err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", productID); err != nil {
			return dbErr(err)
		}
		deleted = true
		return nil
	})
	return deleted, err
}
