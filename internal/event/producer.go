// Package event publishes domain events to Kafka. Publishing is best-effort
// from the caller's perspective: services log failures and do not roll back
// the committed write.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qm1997qm/home-away-clone/internal/domain"
	pkgkafka "github.com/qm1997qm/home-away-clone/pkg/kafka"
)

// Kafka topic constants for rental domain events.
const (
	TopicProfileCreated  = "homeaway.profile.created"
	TopicPropertyCreated = "homeaway.property.created"
	TopicReviewCreated   = "homeaway.review.created"
	TopicReviewDeleted   = "homeaway.review.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeProfile  = "profile"
	AggregateTypeProperty = "property"
	AggregateTypeReview   = "review"
)

// Source identifier for events originating from this service.
const Source = "home-away-api"

// ProfileCreatedData is the payload for a profile.created event.
type ProfileCreatedData struct {
	ID       string `json:"id"`
	ClerkID  string `json:"clerk_id"`
	Username string `json:"username"`
}

// PropertyCreatedData is the payload for a property.created event.
type PropertyCreatedData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Country   string `json:"country"`
	Price     int    `json:"price"`
	ProfileID string `json:"profile_id"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID         string `json:"id"`
	Rating     int    `json:"rating"`
	ProfileID  string `json:"profile_id"`
	PropertyID string `json:"property_id"`
}

// ReviewDeletedData is the payload for a review.deleted event. The delete is
// a single author-scoped statement, so only the ID and author are known.
type ReviewDeletedData struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
}

// Producer publishes rental domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProfileCreated publishes a profile.created event.
func (p *Producer) PublishProfileCreated(ctx context.Context, profile *domain.Profile) error {
	data := ProfileCreatedData{
		ID:       profile.ID,
		ClerkID:  profile.ClerkID,
		Username: profile.Username,
	}

	event, err := pkgkafka.NewEvent(TopicProfileCreated, profile.ID, AggregateTypeProfile, Source, data)
	if err != nil {
		return fmt.Errorf("create profile.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProfileCreated, event); err != nil {
		return fmt.Errorf("publish profile.created event: %w", err)
	}

	return nil
}

// PublishPropertyCreated publishes a property.created event.
func (p *Producer) PublishPropertyCreated(ctx context.Context, property *domain.Property) error {
	data := PropertyCreatedData{
		ID:        property.ID,
		Name:      property.Name,
		Category:  property.Category,
		Country:   property.Country,
		Price:     property.Price,
		ProfileID: property.ProfileID,
	}

	event, err := pkgkafka.NewEvent(TopicPropertyCreated, property.ID, AggregateTypeProperty, Source, data)
	if err != nil {
		return fmt.Errorf("create property.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPropertyCreated, event); err != nil {
		return fmt.Errorf("publish property.created event: %w", err)
	}

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:         review.ID,
		Rating:     review.Rating,
		ProfileID:  review.ProfileID,
		PropertyID: review.PropertyID,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.ID, AggregateTypeReview, Source, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	return nil
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, reviewID, profileID string) error {
	data := ReviewDeletedData{
		ID:        reviewID,
		ProfileID: profileID,
	}

	event, err := pkgkafka.NewEvent(TopicReviewDeleted, reviewID, AggregateTypeReview, Source, data)
	if err != nil {
		return fmt.Errorf("create review.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewDeleted, event); err != nil {
		return fmt.Errorf("publish review.deleted event: %w", err)
	}

	return nil
}
