package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/internal/identity"
	"github.com/qm1997qm/home-away-clone/internal/service"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
)

// ProfileResolver maps the authenticated identity to its profile row.
type ProfileResolver interface {
	GetByClerkID(ctx context.Context, clerkID string) (*domain.Profile, error)
}

// currentProfile resolves the authenticated user and loads their profile.
// The two failure modes are distinct: no session yields ErrUnauthorized, a
// session without completed onboarding yields ErrProfileRequired.
func currentProfile(ctx context.Context, profiles ProfileResolver) (*domain.Profile, error) {
	user, err := identity.ResolveUser(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := profiles.GetByClerkID(ctx, user.ID)
	if err != nil {
		// The claim says a profile exists but the row is missing; treat it
		// the same as incomplete onboarding. Anything else is a store
		// failure and must surface as one.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ProfileRequired()
		}
		return nil, err
	}

	return profile, nil
}

const maxUploadMemory = 4 << 20

// imageFromForm extracts the "image" file from a multipart form.
func imageFromForm(r *http.Request) (*service.ImageUpload, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, apperrors.InvalidInput("request must be multipart form data")
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, apperrors.InvalidInput("image file is required")
	}

	return &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	}, nil
}
