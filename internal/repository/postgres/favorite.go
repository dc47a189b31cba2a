package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/pkg/database"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
)

// FavoriteRepository implements repository.FavoriteRepository using PostgreSQL.
type FavoriteRepository struct {
	pool database.DBTX
}

// NewFavoriteRepository creates a new PostgreSQL-backed favorite repository.
func NewFavoriteRepository(pool database.DBTX) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

// Create inserts a favorite row. This is a plain INSERT: the unique index on
// (profile_id, property_id) is the race safety net, and a violation surfaces
// as ErrAlreadyExists so the caller can re-resolve and retry.
func (r *FavoriteRepository) Create(ctx context.Context, profileID, propertyID string) (*domain.Favorite, error) {
	query := `
		INSERT INTO favorites (profile_id, property_id)
		VALUES ($1, $2)
		RETURNING id, profile_id, property_id, created_at`

	var f domain.Favorite
	err := r.pool.QueryRow(ctx, query, profileID, propertyID).
		Scan(&f.ID, &f.ProfileID, &f.PropertyID, &f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("favorite", "property_id", propertyID)
		}
		return nil, fmt.Errorf("create favorite: %w", err)
	}

	return &f, nil
}

// Delete removes a favorite by ID, scoped to its owner. Zero affected rows
// means the favorite was already gone.
func (r *FavoriteRepository) Delete(ctx context.Context, id, profileID string) error {
	query := `DELETE FROM favorites WHERE id = $1 AND profile_id = $2`

	ct, err := r.pool.Exec(ctx, query, id, profileID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("favorite", id)
	}

	return nil
}

// FindID returns the favorite ID for the given profile and property, or ""
// when no favorite exists.
func (r *FavoriteRepository) FindID(ctx context.Context, profileID, propertyID string) (string, error) {
	query := `SELECT id FROM favorites WHERE profile_id = $1 AND property_id = $2`

	var id string
	err := r.pool.QueryRow(ctx, query, profileID, propertyID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find favorite id: %w", err)
	}

	return id, nil
}

// ListProperties returns the card projection of the profile's favorited
// properties, newest favorite first, and the total count.
func (r *FavoriteRepository) ListProperties(ctx context.Context, profileID string, page, perPage int) ([]*domain.PropertyCard, int, error) {
	countQuery := `SELECT COUNT(*) FROM favorites WHERE profile_id = $1`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, profileID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count favorites: %w", err)
	}

	offset := (page - 1) * perPage
	query := `
		SELECT p.id, p.name, p.tagline, p.country, p.image, p.price
		FROM favorites f
		JOIN properties p ON p.id = f.property_id
		WHERE f.profile_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, profileID, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorited properties: %w", err)
	}
	defer rows.Close()

	var cards []*domain.PropertyCard
	for rows.Next() {
		var c domain.PropertyCard
		if err := rows.Scan(&c.ID, &c.Name, &c.Tagline, &c.Country, &c.Image, &c.Price); err != nil {
			return nil, 0, fmt.Errorf("scan favorited property: %w", err)
		}
		cards = append(cards, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate favorite rows: %w", err)
	}

	if cards == nil {
		cards = []*domain.PropertyCard{}
	}

	return cards, total, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
