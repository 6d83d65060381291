package store

import (
	"context"
	"database/sql"

	"github.com/01moynul/storefront-golang/internal/models"
)

type StatsStore struct {
	DB *sql.DB
}

// SellerStats aggregates a seller's catalog and sales. Revenue counts paid card orders
// and every non-expired COD order.
func (s *StatsStore) SellerStats(ctx context.Context, sellerID int64) (*models.SellerStats, error) {
	var st models.SellerStats

	// 1. --- Catalog ---
	err := s.DB.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(is_published = 1 AND in_stock > 0), 0),
			COALESCE(SUM(is_published = 0), 0)
		FROM products
		WHERE seller_id = ?`, sellerID).Scan(&st.LiveProducts, &st.DraftProducts)
	if err != nil {
		return nil, dbErr(err)
	}

	// 2. --- Sales ---
	err = s.DB.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(oi.quantity), 0),
			COALESCE(SUM(oi.quantity * oi.price), 0),
			COUNT(DISTINCT CASE WHEN o.delivery_status = 'PENDING' THEN o.id END)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.seller_id = ?
			AND o.delivery_status <> 'EXPIRED'
			AND (o.is_paid = 1 OR o.payment_method = 'COD')`, sellerID).
		Scan(&st.UnitsSold, &st.Revenue, &st.PendingOrders)
	if err != nil {
		return nil, dbErr(err)
	}
	return &st, nil
}
