package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/pkg/database"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
)

// ProfileRepository implements repository.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	pool database.DBTX
}

// NewProfileRepository creates a new PostgreSQL-backed profile repository.
func NewProfileRepository(pool database.DBTX) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, clerk_id, email, first_name, last_name, username, profile_image, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.ClerkID, &p.Email, &p.FirstName, &p.LastName,
		&p.Username, &p.ProfileImage, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new profile. The clerk_id unique constraint guards against
// double onboarding for the same identity.
func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	query := `
		INSERT INTO profiles (clerk_id, email, first_name, last_name, username, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + profileColumns

	created, err := scanProfile(r.pool.QueryRow(ctx, query,
		p.ClerkID, p.Email, p.FirstName, p.LastName, p.Username, p.ProfileImage))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("profile", "clerk_id", p.ClerkID)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return created, nil
}

// GetByID fetches a profile by its primary key.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("profile", id)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return p, nil
}

// GetByClerkID fetches a profile by the identity provider's user ID.
func (r *ProfileRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE clerk_id = $1`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, clerkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("profile", clerkID)
		}
		return nil, fmt.Errorf("get profile by clerk id: %w", err)
	}

	return p, nil
}

// Update rewrites the profile's display fields.
func (r *ProfileRepository) Update(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET first_name = $2, last_name = $3, username = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + profileColumns

	updated, err := scanProfile(r.pool.QueryRow(ctx, query, p.ID, p.FirstName, p.LastName, p.Username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("profile", p.ID)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return updated, nil
}

// UpdateImage replaces the profile image URL.
func (r *ProfileRepository) UpdateImage(ctx context.Context, id, imageURL string) error {
	query := `UPDATE profiles SET profile_image = $2, updated_at = now() WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id, imageURL)
	if err != nil {
		return fmt.Errorf("update profile image: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("profile", id)
	}

	return nil
}
