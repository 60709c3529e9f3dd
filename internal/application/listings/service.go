package listings

import (
	"context"

	"dreamstay-backend/internal/application/images"
	"dreamstay-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ContentGenerator produces one validated listing fragment (no id).
type ContentGenerator interface {
	Generate(ctx context.Context) (*domain.Listing, error)
}

// ImageSynthesizer produces the listing's image. It reports failure in the Result, never as an error.
type ImageSynthesizer interface {
	Synthesize(ctx context.Context, l *domain.Listing) images.Result
}

// EventRecorder appends listing lifecycle events. Optional.
type EventRecorder interface {
	Record(ctx context.Context, listingID, eventType string, data map[string]interface{}) (*domain.ListingEvent, error)
}

// GenerateResult is the created listing plus the outcome of its image.
type GenerateResult struct {
	domain.Listing
	ImageStatus string `json:"imageStatus"`
	ImageError  string `json:"imageError,omitempty"`
}

type Service struct {
	Content ContentGenerator
	Store   Store
	Images  ImageSynthesizer
	Events  EventRecorder
	NewID   func() string
}

// Generate runs one listing through generate, persist and image synthesis. Generation and
// persistence failures are returned; an image failure is reported in the result only.
func (s *Service) Generate(ctx context.Context) (*GenerateResult, error) {
	listing, err := s.Content.Generate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("listing generation failed")
		return nil, err
	}

	listing.ID = s.newID()
	if err := s.Store.Insert(ctx, listing); err != nil {
		log.Error().Err(err).Str("listing_id", listing.ID).Msg("listing insert failed")
		return nil, err
	}
	s.record(ctx, listing.ID, domain.EventCreated, map[string]interface{}{"title": listing.Title})

	result := &GenerateResult{Listing: *listing}
	img := s.Images.Synthesize(ctx, listing)
	result.ImageStatus = img.Status
	if img.OK() {
		log.Info().Str("listing_id", listing.ID).Str("key", img.Key).Msg("listing image stored")
		s.record(ctx, listing.ID, domain.EventImageStored, map[string]interface{}{"key": img.Key})
	} else {
		reason := "unknown"
		if img.Err != nil {
			reason = img.Err.Error()
		}
		result.ImageError = reason
		log.Warn().Str("listing_id", listing.ID).Str("reason", reason).Msg("listing image failed")
		s.record(ctx, listing.ID, domain.EventImageFailed, map[string]interface{}{"key": img.Key, "reason": reason})
	}
	return result, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Listing, error) {
	return s.Store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) record(ctx context.Context, listingID, eventType string, data map[string]interface{}) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Record(ctx, listingID, eventType, data); err != nil {
		log.Warn().Err(err).Str("listing_id", listingID).Str("event_type", eventType).Msg("listing event not recorded")
	}
}
