package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Irshadp556/movie-review-analysis/internal/models"
)

// ReviewServiceProvider defines the interface for review services.
type ReviewServiceProvider interface {
	AddReview(ctx context.Context, userID int64, text, sentiment string) (models.Review, error)
	GetUserReviews(ctx context.Context, userID int64) ([]models.Review, error)
	SentimentCounts(ctx context.Context, userID int64) ([]models.SentimentCount, error)
}

// ReviewService provides business logic for review persistence.
type ReviewService struct {
	db *sql.DB
}

// NewReviewService creates a new ReviewService.
func NewReviewService(db *sql.DB) *ReviewService {
	return &ReviewService{db: db}
}

// AddReview appends a classified review for a user. Reviews are never
// deduplicated and the text is stored untruncated.
func (s *ReviewService) AddReview(ctx context.Context, userID int64, text, sentiment string) (models.Review, error) {
	review := models.Review{
		UserID:    userID,
		Text:      text,
		Sentiment: sentiment,
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO reviews (user_id, review_text, sentiment)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		userID, text, sentiment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return models.Review{}, fmt.Errorf("insert review: %w", err)
	}
	return review, nil
}

// GetUserReviews returns all of a user's reviews, most recent first. The
// result is unbounded; the presentation layer truncates for display.
func (s *ReviewService) GetUserReviews(ctx context.Context, userID int64) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, review_text, sentiment, created_at
		 FROM reviews
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.Text, &r.Sentiment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// SentimentCounts returns the label frequency over a user's review history,
// feeding the distribution chart.
func (s *ReviewService) SentimentCounts(ctx context.Context, userID int64) ([]models.SentimentCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sentiment, COUNT(*)
		 FROM reviews
		 WHERE user_id = $1
		 GROUP BY sentiment
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query sentiment counts: %w", err)
	}
	defer rows.Close()

	var counts []models.SentimentCount
	for rows.Next() {
		var c models.SentimentCount
		if err := rows.Scan(&c.Sentiment, &c.Count); err != nil {
			return nil, fmt.Errorf("scan sentiment count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sentiment counts: %w", err)
	}
	return counts, nil
}
