package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/internal/repository"
	"github.com/qm1997qm/home-away-clone/pkg/database"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
)

// PropertyRepository implements repository.PropertyRepository using PostgreSQL.
type PropertyRepository struct {
	pool database.DBTX
}

// NewPropertyRepository creates a new PostgreSQL-backed property repository.
func NewPropertyRepository(pool database.DBTX) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

const propertyColumns = `id, name, tagline, category, description, country, image,
	price, guests, bedrooms, beds, baths, amenities, profile_id, created_at, updated_at`

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property
	err := row.Scan(&p.ID, &p.Name, &p.Tagline, &p.Category, &p.Description,
		&p.Country, &p.Image, &p.Price, &p.Guests, &p.Bedrooms, &p.Beds,
		&p.Baths, &p.Amenities, &p.ProfileID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new property listing.
func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	query := `
		INSERT INTO properties (name, tagline, category, description, country, image,
			price, guests, bedrooms, beds, baths, amenities, profile_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + propertyColumns

	created, err := scanProperty(r.pool.QueryRow(ctx, query,
		p.Name, p.Tagline, p.Category, p.Description, p.Country, p.Image,
		p.Price, p.Guests, p.Bedrooms, p.Beds, p.Baths, p.Amenities, p.ProfileID))
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	return created, nil
}

// GetByID fetches a property by its primary key.
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("property", id)
		}
		return nil, fmt.Errorf("get property: %w", err)
	}

	return p, nil
}

// GetDetail fetches a property with its owner's profile embedded.
func (r *PropertyRepository) GetDetail(ctx context.Context, id string) (*domain.PropertyDetail, error) {
	query := `
		SELECT p.id, p.name, p.tagline, p.category, p.description, p.country, p.image,
			p.price, p.guests, p.bedrooms, p.beds, p.baths, p.amenities, p.profile_id,
			p.created_at, p.updated_at,
			pr.id, pr.clerk_id, pr.email, pr.first_name, pr.last_name, pr.username,
			pr.profile_image, pr.created_at, pr.updated_at
		FROM properties p
		JOIN profiles pr ON pr.id = p.profile_id
		WHERE p.id = $1`

	var d domain.PropertyDetail
	var owner domain.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Tagline, &d.Category, &d.Description, &d.Country,
		&d.Image, &d.Price, &d.Guests, &d.Bedrooms, &d.Beds, &d.Baths,
		&d.Amenities, &d.ProfileID, &d.CreatedAt, &d.UpdatedAt,
		&owner.ID, &owner.ClerkID, &owner.Email, &owner.FirstName,
		&owner.LastName, &owner.Username, &owner.ProfileImage,
		&owner.CreatedAt, &owner.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("property", id)
		}
		return nil, fmt.Errorf("get property detail: %w", err)
	}

	d.Owner = &owner
	return &d, nil
}

// List returns the card projection of properties matching the filter, newest
// first, and the total count. Search matches name or tagline case-insensitively.
func (r *PropertyRepository) List(ctx context.Context, filter repository.PropertyFilter, page, perPage int) ([]*domain.PropertyCard, int, error) {
	where := ` WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR tagline ILIKE '%' || $1 || '%')
		AND ($2 = '' OR category = $2)`

	countQuery := `SELECT COUNT(*) FROM properties` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, filter.Search, filter.Category).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	offset := (page - 1) * perPage
	query := `SELECT id, name, tagline, country, image, price FROM properties` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, filter.Search, filter.Category, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

// ListByOwner returns the card projection of the profile's own listings,
// newest first.
func (r *PropertyRepository) ListByOwner(ctx context.Context, profileID string) ([]*domain.PropertyCard, error) {
	query := `
		SELECT id, name, tagline, country, image, price
		FROM properties
		WHERE profile_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("list properties by owner: %w", err)
	}
	defer rows.Close()

	return scanCards(rows)
}

func scanCards(rows pgx.Rows) ([]*domain.PropertyCard, error) {
	var cards []*domain.PropertyCard
	for rows.Next() {
		var c domain.PropertyCard
		if err := rows.Scan(&c.ID, &c.Name, &c.Tagline, &c.Country, &c.Image, &c.Price); err != nil {
			return nil, fmt.Errorf("scan property card: %w", err)
		}
		cards = append(cards, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate property rows: %w", err)
	}

	if cards == nil {
		cards = []*domain.PropertyCard{}
	}

	return cards, nil
}
