package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/01moynul/storefront-golang/internal/models"
)

type NotificationStore struct {
	DB *sql.DB
}

// Add writes one notification. link may be empty.
func (s *NotificationStore) Add(ctx context.Context, userID int64, message, link string) error {
	var l *string
	if link != "" {
		l = &link
	}
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO notifications (user_id, message, link, is_read, created_at) VALUES (?, ?, ?, 0, ?)",
		userID, message, l, time.Now())
	return dbErr(err)
}

// NotifySellers tells every seller on the order about their part of it.
func (s *NotificationStore) NotifySellers(ctx context.Context, order *models.Order) error {
	units := make(map[int64]int)
	for _, it := range order.Items {
		units[it.SellerID] += it.Quantity
	}
	for _, sellerID := range order.SellerIDs() {
		msg := fmt.Sprintf("New order #%d: %d item(s) of your products", order.ID, units[sellerID])
		if err := s.Add(ctx, sellerID, msg, "/seller/orders"); err != nil {
			return err
		}
	}
	return nil
}

// ListForUser returns the newest 50 notifications.
func (s *NotificationStore) ListForUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, message, link, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 50`, userID)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	list := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var link sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, dbErr(err)
		}
		if link.Valid {
			n.Link = &link.String
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return list, nil
}

// MarkRead marks one of the user's notifications as read. Unknown ids are ignored.
func (s *NotificationStore) MarkRead(ctx context.Context, userID, id int64) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?", id, userID)
	return dbErr(err)
}
