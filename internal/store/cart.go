package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
)

// CartStore keeps one row per (customer, product).
type CartStore struct {
	DB *sql.DB
}

const cartItemColumns = "id, user_id, product_id, quantity, created_at, updated_at"

func getCartItem(ctx context.Context, q Querier, where string, args ...any) (*models.CartItem, error) {
	var it models.CartItem
	err := q.QueryRowContext(ctx, "SELECT "+cartItemColumns+" FROM cart_items WHERE "+where, args...).
		Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(apperr.MsgCartItemNotFound)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return &it, nil
}

// AddItem adds quantity of a product to the customer's cart. An existing line for
// the same product is incremented, never duplicated.
func (s *CartStore) AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, apperr.ValidationMsg("quantity", "Quantity must be at least 1")
	}

	var item *models.CartItem
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		// 1. --- Product must be live ---
		var stock int
		var published bool
		err := tx.QueryRowContext(ctx, "SELECT in_stock, is_published FROM products WHERE id = ?", productID).
			Scan(&stock, &published)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && !published) {
			return apperr.NotFound(apperr.MsgProductNotFound)
		}
		if err != nil {
			return dbErr(err)
		}

		// 2. --- Upsert ---
		now := time.Now()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				quantity = quantity + VALUES(quantity),
				updated_at = VALUES(updated_at)`,
			userID, productID, quantity, now, now)
		if err != nil {
			return dbErr(err)
		}

		// 3. --- Read back and check against stock ---
		item, err = getCartItem(ctx, tx, "user_id = ? AND product_id = ?", userID, productID)
		if err != nil {
			return err
		}
		if item.Quantity > stock {
			return apperr.Conflict(apperr.MsgInsufficientStock)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a cart line. A quantity of zero or less
// removes the line and returns a nil item.
func (s *CartStore) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, s.RemoveItem(ctx, userID, itemID)
	}

	// 1. --- Check stock for this line ---
	var stock int
	err := s.DB.QueryRowContext(ctx, `
		SELECT p.in_stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = ? AND ci.user_id = ?`, itemID, userID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(apperr.MsgCartItemNotFound)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	if quantity > stock {
		return nil, apperr.Conflict(apperr.MsgInsufficientStock)
	}

	// 2. --- Execute update ---
	_, err = s.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		quantity, time.Now(), itemID, userID)
	if err != nil {
		return nil, dbErr(err)
	}
	return getCartItem(ctx, s.DB, "id = ? AND user_id = ?", itemID, userID)
}

// RemoveItem deletes a cart line. Removing a line that is already gone is not an error.
func (s *CartStore) RemoveItem(ctx context.Context, userID, itemID int64) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE id = ? AND user_id = ?", itemID, userID)
	return dbErr(err)
}

// List returns the cart with each line's product, category and seller.
func (s *CartStore) List(ctx context.Context, userID int64) ([]models.CartItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			`+productColumns+`
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN categories c ON c.id = p.category_id
		JOIN users u ON u.id = p.seller_id
		WHERE ci.user_id = ?
		ORDER BY ci.created_at, ci.id`, userID)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var it models.CartItem
		var r productRow
		dest := append([]any{&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt}, r.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, dbErr(err)
		}
		if it.Product, err = r.product(); err != nil {
			return nil, dbErr(err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return items, nil
}

// Clear empties the customer's cart.
func (s *CartStore) Clear(ctx context.Context, userID int64) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ?", userID)
	return dbErr(err)
}
