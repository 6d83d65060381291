package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
)

type OrderStore struct {
	DB *sql.DB
}

// OrderTx is the set of writes an order is assembled from. All calls made through
// one OrderTx commit or roll back together.
type OrderTx interface {
	// LockProducts loads and row-locks the given products. Missing ids are absent from the map.
	LockProducts(ctx context.Context, ids []int64) (map[int64]*models.Product, error)
	// ReserveStock decrements stock only if enough is left. ok is false otherwise.
	ReserveStock(ctx context.Context, productID int64, quantity int) (ok bool, err error)
	InsertOrder(ctx context.Context, o *models.Order) (int64, error)
	InsertOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error
}

type orderTx struct {
	tx *sql.Tx
}

// Atomically runs fn inside one transaction.
func (s *OrderStore) Atomically(ctx context.Context, fn func(tx OrderTx) error) error {
	return withTx(ctx, s.DB, func(tx *sql.Tx) error {
		return fn(orderTx{tx: tx})
	})
}

func (o orderTx) LockProducts(ctx context.Context, ids []int64) (map[int64]*models.Product, error) {
	products := make(map[int64]*models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	rows, err := o.tx.QueryContext(ctx, `
		SELECT id, seller_id, category_id, name, images, base_price, discounted_price, in_stock, is_published
		FROM products
		WHERE id IN (`+placeholders(len(ids))+`)
		FOR UPDATE`, int64Args(ids)...)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		var images []byte
		var discounted sql.NullInt64
		if err := rows.Scan(&p.ID, &p.SellerID, &p.CategoryID, &p.Name, &images, &p.BasePrice,
			&discounted, &p.InStock, &p.IsPublished); err != nil {
			return nil, dbErr(err)
		}
		if err := decodeImages(images, &p.Images); err != nil {
			return nil, dbErr(err)
		}
		if discounted.Valid {
			d := discounted.Int64
			p.DiscountedPrice = &d
		}
		products[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return products, nil
}

func (o orderTx) ReserveStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	res, err := o.tx.ExecContext(ctx,
		"UPDATE products SET in_stock = in_stock - ?, updated_at = ? WHERE id = ? AND in_stock >= ?",
		quantity, time.Now(), productID, quantity)
	if err != nil {
		return false, dbErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbErr(err)
	}
	return n == 1, nil
}

func (o orderTx) InsertOrder(ctx context.Context, ord *models.Order) (int64, error) {
	now := time.Now()
	res, err := o.tx.ExecContext(ctx, `
		INSERT INTO orders
			(user_id, address_id, payment_method, shipping_method, wrapping_option, gift_message,
			 subtotal, shipping_cost, wrap_cost, total_amount, is_paid, delivery_status, from_cart,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ord.UserID, ord.AddressID, ord.PaymentMethod, ord.ShippingMethod, ord.WrappingOption,
		ord.GiftMessage, ord.Subtotal, ord.ShippingCost, ord.WrapCost, ord.TotalAmount, ord.IsPaid,
		ord.DeliveryStatus, ord.FromCart, now, now)
	if err != nil {
		return 0, dbErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, dbErr(err)
	}
	ord.ID, ord.CreatedAt, ord.UpdatedAt = id, now, now
	return id, nil
}

func (o orderTx) InsertOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error {
	now := time.Now()
	for i := range items {
		res, err := o.tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, seller_id, quantity, price, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, items[i].ProductID, items[i].SellerID, items[i].Quantity, items[i].Price, now)
		if err != nil {
			return dbErr(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return dbErr(err)
		}
		items[i].ID, items[i].OrderID, items[i].CreatedAt = id, orderID, now
	}
	return nil
}

const orderColumns = `id, user_id, address_id, payment_method, shipping_method, wrapping_option,
	gift_message, subtotal, shipping_cost, wrap_cost, total_amount, is_paid, delivery_status,
	from_cart, created_at, updated_at`

func scanOrder(sc interface{ Scan(...any) error }, o *models.Order) error {
	return sc.Scan(&o.ID, &o.UserID, &o.AddressID, &o.PaymentMethod, &o.ShippingMethod,
		&o.WrappingOption, &o.GiftMessage, &o.Subtotal, &o.ShippingCost, &o.WrapCost,
		&o.TotalAmount, &o.IsPaid, &o.DeliveryStatus, &o.FromCart, &o.CreatedAt, &o.UpdatedAt)
}

// orderItems loads lines with product names for the orders matched by where.
func (s *OrderStore) orderItems(ctx context.Context, where string, args ...any) (map[int64][]models.OrderItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.seller_id, oi.quantity, oi.price, oi.created_at,
			p.name, p.images
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE `+where+`
		ORDER BY oi.id`, args...)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	byOrder := make(map[int64][]models.OrderItem)
	for rows.Next() {
		var it models.OrderItem
		var images []byte
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.SellerID, &it.Quantity, &it.Price,
			&it.CreatedAt, &it.ProductName, &images); err != nil {
			return nil, dbErr(err)
		}
		var imgs []string
		if err := decodeImages(images, &imgs); err != nil {
			return nil, dbErr(err)
		}
		if len(imgs) > 0 {
			it.ProductImage = imgs[0]
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return byOrder, nil
}

// Get returns an order with its lines.
func (s *OrderStore) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	var o models.Order
	err := scanOrder(s.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", orderID), &o)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(apperr.MsgOrderNotFound)
	}
	if err != nil {
		return nil, dbErr(err)
	}

	items, err := s.orderItems(ctx, "oi.order_id = ?", orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

// ListForCustomer returns the customer's orders, newest first, with their lines.
func (s *OrderStore) ListForCustomer(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, dbErr(err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := s.orderItems(ctx, "oi.order_id IN (SELECT id FROM orders WHERE user_id = ?)", userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// MarkPaid flips is_paid for a pending unpaid order. changed is false when the order
// was already paid (or expired) so callers can skip follow-up work.
func (s *OrderStore) MarkPaid(ctx context.Context, orderID int64) (changed bool, err error) {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE orders SET is_paid = 1, updated_at = ?
		WHERE id = ? AND is_paid = 0 AND delivery_status <> ?`,
		time.Now(), orderID, models.DeliveryExpired)
	if err != nil {
		return false, dbErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbErr(err)
	}
	return n == 1, nil
}

// restoreStock hands the reserved quantities of an order back to its products.
func restoreStock(ctx context.Context, q Querier, orderID int64) error {
	_, err := q.ExecContext(ctx, `
		UPDATE products p
		JOIN order_items oi ON oi.product_id = p.id
		SET p.in_stock = p.in_stock + oi.quantity
		WHERE oi.order_id = ?`, orderID)
	return dbErr(err)
}

// DeleteUnpaid removes an unpaid card order and its lines, releasing its stock reservation
// unless the sweeper already did. A missing order, or one that is not a card order, is left alone.
func (s *OrderStore) DeleteUnpaid(ctx context.Context, orderID int64) error {
	return withTx(ctx, s.DB, func(tx *sql.Tx) error {
		// 1. --- Lock the order ---
		var paid bool
		var status models.DeliveryStatus
		err := tx.QueryRowContext(ctx,
			"SELECT is_paid, delivery_status FROM orders WHERE id = ? AND payment_method = ? FOR UPDATE",
			orderID, models.PaymentCard).Scan(&paid, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return dbErr(err)
		}
		if paid {
			return apperr.Precondition(apperr.MsgOrderAlreadyPaid)
		}

		// 2. --- Release stock ---
		if status != models.DeliveryExpired {
			if err := restoreStock(ctx, tx, orderID); err != nil {
				return err
			}
		}

		// 3. --- Delete lines, then the order ---
		if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = ?", orderID); err != nil {
			return dbErr(err)
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", orderID)
		return dbErr(err)
	})
}

// ExpireStale marks unpaid card orders created before cutoff as expired and releases
// their stock, one transaction per order. It returns the ids it expired.
func (s *OrderStore) ExpireStale(ctx context.Context, cutoff time.Time) ([]int64, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id FROM orders
		WHERE payment_method = ? AND is_paid = 0 AND delivery_status = ? AND created_at < ?`,
		models.PaymentCard, models.DeliveryPending, cutoff)
	if err != nil {
		return nil, dbErr(err)
	}
	var candidates []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, dbErr(err)
		}
		candidates = append(candidates, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}

	var expired []int64
	for _, id := range candidates {
		ok, err := s.expireOne(ctx, id)
		if err != nil {
			return expired, err
		}
		if ok {
			expired = append(expired, id)
		}
	}
	return expired, nil
}

func (s *OrderStore) expireOne(ctx context.Context, orderID int64) (bool, error) {
	var done bool
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		// Re-check under lock: the customer may have paid or cancelled since the scan.
		var paid bool
		var status models.DeliveryStatus
		err := tx.QueryRowContext(ctx,
			"SELECT is_paid, delivery_status FROM orders WHERE id = ? FOR UPDATE", orderID).Scan(&paid, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return dbErr(err)
		}
		if paid || status != models.DeliveryPending {
			return nil
		}

		if err := restoreStock(ctx, tx, orderID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE orders SET delivery_status = ?, updated_at = ? WHERE id = ?",
			models.DeliveryExpired, time.Now(), orderID); err != nil {
			return dbErr(err)
		}
		done = true
		return nil
	})
	return done, err
}

// SellerLines lists the order lines that carry sellerID, newest first.
func (s *OrderStore) SellerLines(ctx context.Context, sellerID int64) ([]models.SellerOrderLine, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT o.id, oi.product_id, p.name, oi.quantity, oi.price, o.payment_method, o.is_paid,
			o.delivery_status, o.created_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE oi.seller_id = ?
		ORDER BY o.created_at DESC, oi.id DESC`, sellerID)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	lines := []models.SellerOrderLine{}
	for rows.Next() {
		var l models.SellerOrderLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.Price,
			&l.PaymentMethod, &l.IsPaid, &l.DeliveryStatus, &l.CreatedAt); err != nil {
			return nil, dbErr(err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return lines, nil
}
