package store

import (
	"context"
	"database/sql"

	"github.com/01moynul/storefront-golang/internal/models"
)

type ReviewStore struct {
	DB *sql.DB
}

func (s *ReviewStore) list(ctx context.Context, where string, arg any) ([]models.Review, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.product_id, r.rating, r.comment, r.created_at, u.name, p.name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN products p ON p.id = r.product_id
		WHERE `+where+`
		ORDER BY r.created_at DESC`, arg)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Comment, &r.CreatedAt,
			&r.UserName, &r.ProductName); err != nil {
			return nil, dbErr(err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return reviews, nil
}

func (s *ReviewStore) ListForProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	return s.list(ctx, "r.product_id = ?", productID)
}

func (s *ReviewStore) ListByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	return s.list(ctx, "r.user_id = ?", userID)
}

// AverageRating is 0 when there are no reviews.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
