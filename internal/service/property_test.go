package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	"github.com/qm1997qm/home-away-clone/internal/repository"
	"github.com/qm1997qm/home-away-clone/internal/storage/memory"
	apperrors "github.com/qm1997qm/home-away-clone/pkg/errors"
	"github.com/qm1997qm/home-away-clone/pkg/validator"
)

// --- Mock Property Repository ---

type mockPropertyRepository struct {
	mock.Mock
}

func (m *mockPropertyRepository) Create(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *mockPropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *mockPropertyRepository) GetDetail(ctx context.Context, id string) (*domain.PropertyDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyDetail), args.Error(1)
}

func (m *mockPropertyRepository) List(ctx context.Context, filter repository.PropertyFilter, page, perPage int) ([]*domain.PropertyCard, int, error) {
	args := m.Called(ctx, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.PropertyCard), args.Int(1), args.Error(2)
}

func (m *mockPropertyRepository) ListByOwner(ctx context.Context, profileID string) ([]*domain.PropertyCard, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PropertyCard), args.Error(1)
}

// --- Mock Property Events ---

type mockPropertyEvents struct {
	mock.Mock
}

func (m *mockPropertyEvents) PublishPropertyCreated(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

// --- Tests ---

func validPropertyInput() CreatePropertyInput {
	return CreatePropertyInput{
		ProfileID:   "profile-1",
		Name:        "Forest Cabin",
		Tagline:     "A quiet escape among the pines",
		Category:    domain.CategoryCabin,
		Description: "A cozy cabin deep in the forest with a wood stove and a private sauna by the lake.",
		Country:     "FI",
		Price:       120,
		Guests:      4,
		Bedrooms:    2,
		Beds:        3,
		Baths:       1,
		Image: &ImageUpload{
			Filename:    "cabin.jpg",
			ContentType: "image/jpeg",
			Size:        512 * 1024,
			Data:        strings.NewReader("fake image bytes"),
		},
	}
}

func TestPropertyCreate_Success(t *testing.T) {
	repo := new(mockPropertyRepository)
	events := new(mockPropertyEvents)
	reval := &recordingRevalidator{}
	store := memory.New("https://storage.test")
	svc := NewPropertyService(repo, store, events, reval, newTestLogger())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Property")).
		Run(func(args mock.Arguments) {
			p := args.Get(1).(*domain.Property)
			assert.NotEmpty(t, p.Image)
			assert.Contains(t, p.Image, "https://storage.test/images/properties/")
		}).
		Return(&domain.Property{ID: "prop-1", Name: "Forest Cabin", Category: domain.CategoryCabin, ProfileID: "profile-1"}, nil)
	events.On("PublishPropertyCreated", ctx, mock.AnythingOfType("*domain.Property")).Return(nil)

	property, err := svc.Create(ctx, validPropertyInput())

	require.NoError(t, err)
	assert.Equal(t, "prop-1", property.ID)
	assert.Equal(t, []string{"/"}, reval.invalidated())
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestPropertyCreate_DescriptionTooFewWords(t *testing.T) {
	repo := new(mockPropertyRepository)
	svc := NewPropertyService(repo, memory.New("https://storage.test"), new(mockPropertyEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	input := validPropertyInput()
	input.Description = "way too short for a listing"

	_, err := svc.Create(ctx, input)

	require.Error(t, err)
	var valErr *validator.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Error(), "at least 10 words")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPropertyCreate_NameTooShort(t *testing.T) {
	repo := new(mockPropertyRepository)
	svc := NewPropertyService(repo, memory.New("https://storage.test"), new(mockPropertyEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	input := validPropertyInput()
	input.Name = "X"
	input.Tagline = "Y"

	_, err := svc.Create(ctx, input)

	require.Error(t, err)
	var valErr *validator.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Len(t, valErr.Fields(), 2)
	assert.Contains(t, valErr.Error(), "at least 2 characters")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPropertyCreate_ZeroCountsAllowed(t *testing.T) {
	// A studio can legitimately report zero bedrooms, and a free stay a
	// price of zero.
	repo := new(mockPropertyRepository)
	events := new(mockPropertyEvents)
	svc := NewPropertyService(repo, memory.New("https://storage.test"), events, &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	input := validPropertyInput()
	input.Price = 0
	input.Bedrooms = 0
	input.Baths = 0

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Property")).
		Return(&domain.Property{ID: "prop-1", ProfileID: "profile-1"}, nil)
	events.On("PublishPropertyCreated", ctx, mock.AnythingOfType("*domain.Property")).Return(nil)

	property, err := svc.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "prop-1", property.ID)
	repo.AssertExpectations(t)
}

func TestPropertyCreate_NegativePriceRejected(t *testing.T) {
	repo := new(mockPropertyRepository)
	svc := NewPropertyService(repo, memory.New("https://storage.test"), new(mockPropertyEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	input := validPropertyInput()
	input.Price = -1

	_, err := svc.Create(ctx, input)

	require.Error(t, err)
	var valErr *validator.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "Price")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPropertyCreate_UnknownCategory(t *testing.T) {
	repo := new(mockPropertyRepository)
	svc := NewPropertyService(repo, memory.New("https://storage.test"), new(mockPropertyEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	input := validPropertyInput()
	input.Category = "castle"

	_, err := svc.Create(ctx, input)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPropertyCreate_ImageTooLarge(t *testing.T) {
	repo := new(mockPropertyRepository)
	svc := NewPropertyService(repo, memory.New("https://storage.test"), new(mockPropertyEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	input := validPropertyInput()
	input.Image.Size = 2 * 1024 * 1024

	_, err := svc.Create(ctx, input)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "1 MB")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPropertyCreate_NotAnImage(t *testing.T) {
	repo := new(mockPropertyRepository)
	svc := NewPropertyService(repo, memory.New("https://storage.test"), new(mockPropertyEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	input := validPropertyInput()
	input.Image.ContentType = "application/pdf"

	_, err := svc.Create(ctx, input)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPropertyGet_NotFound(t *testing.T) {
	repo := new(mockPropertyRepository)
	svc := NewPropertyService(repo, memory.New("https://storage.test"), new(mockPropertyEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	repo.On("GetDetail", ctx, "prop-missing").
		Return(nil, apperrors.NotFound("property", "prop-missing"))

	_, err := svc.Get(ctx, "prop-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestPropertyList_PassesFilter(t *testing.T) {
	repo := new(mockPropertyRepository)
	svc := NewPropertyService(repo, memory.New("https://storage.test"), new(mockPropertyEvents), &recordingRevalidator{}, newTestLogger())
	ctx := context.Background()

	filter := repository.PropertyFilter{Search: "cabin", Category: domain.CategoryCabin}
	cards := []*domain.PropertyCard{{ID: "prop-1", Name: "Forest Cabin"}}
	repo.On("List", ctx, filter, 1, 20).Return(cards, 1, nil)

	got, total, err := svc.List(ctx, filter, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, cards, got)
	repo.AssertExpectations(t)
}
