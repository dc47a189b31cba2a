package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/pkg/database"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) (*domain.Review, error) {
	query := `
		INSERT INTO reviews (rating, comment, profile_id, property_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, rating, comment, profile_id, property_id, created_at, updated_at`

	var created domain.Review
	err := r.pool.QueryRow(ctx, query, rev.Rating, rev.Comment, rev.ProfileID, rev.PropertyID).
		Scan(&created.ID, &created.Rating, &created.Comment, &created.ProfileID,
			&created.PropertyID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	return &created, nil
}

// ListByProperty returns the property's reviews with author name and image
// embedded, newest first.
func (r *ReviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]*domain.ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.rating, r.comment, r.profile_id, r.property_id,
			r.created_at, r.updated_at, p.first_name, p.profile_image
		FROM reviews r
		JOIN profiles p ON p.id = r.profile_id
		WHERE r.property_id = $1
		ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by property: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.ReviewWithAuthor
	for rows.Next() {
		var rv domain.ReviewWithAuthor
		err := rows.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.ProfileID,
			&rv.PropertyID, &rv.CreatedAt, &rv.UpdatedAt, &rv.AuthorName, &rv.AuthorImage)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []*domain.ReviewWithAuthor{}
	}

	return reviews, nil
}

// ListByAuthor returns the profile's own reviews with the reviewed property's
// name and image embedded, newest first.
func (r *ReviewRepository) ListByAuthor(ctx context.Context, profileID string) ([]*domain.ReviewWithProperty, error) {
	query := `
		SELECT r.id, r.rating, r.comment, r.profile_id, r.property_id,
			r.created_at, r.updated_at, p.name, p.image
		FROM reviews r
		JOIN properties p ON p.id = r.property_id
		WHERE r.profile_id = $1
		ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by author: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.ReviewWithProperty
	for rows.Next() {
		var rv domain.ReviewWithProperty
		err := rows.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.ProfileID,
			&rv.PropertyID, &rv.CreatedAt, &rv.UpdatedAt, &rv.PropertyName, &rv.PropertyImage)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []*domain.ReviewWithProperty{}
	}

	return reviews, nil
}

// Delete removes a review, scoped to its author. Zero affected rows means
// the review does not exist or belongs to someone else; either way the
// caller gets NotFound, never a silent success.
func (r *ReviewRepository) Delete(ctx context.Context, id, profileID string) error {
	query := `DELETE FROM reviews WHERE id = $1 AND profile_id = $2`

	ct, err := r.pool.Exec(ctx, query, id, profileID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// GetSummary computes the property's average rating, rounded to one decimal
// place, and the review count. A property with no reviews yields {0, 0}.
func (r *ReviewRepository) GetSummary(ctx context.Context, propertyID string) (*domain.RatingSummary, error) {
	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE property_id = $1`

	var avg float64
	var count int
	if err := r.pool.QueryRow(ctx, query, propertyID).Scan(&avg, &count); err != nil {
		return nil, fmt.Errorf("get rating summary: %w", err)
	}

	return &domain.RatingSummary{
		Rating: math.Round(avg*10) / 10,
		Count:  count,
	}, nil
}

// ExistsByAuthorAndProperty checks whether the profile already reviewed the
// property.
func (r *ReviewRepository) ExistsByAuthorAndProperty(ctx context.Context, profileID, propertyID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE profile_id = $1 AND property_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, profileID, propertyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}

	return exists, nil
}
