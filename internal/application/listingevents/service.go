package listingevents

import (
	"context"
	"encoding/json"
	"fmt"

	"dreamstay-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subject is the NATS subject listing events are published on.
const Subject = "listings.events"

// Publisher fans events out to other services. Nil = no publishing.
type Publisher interface {
	Publish(ctx context.Context, subject string, v interface{}) error
}

type Service struct {
	DB        *gorm.DB
	Publisher Publisher
}

// Record appends one event for a listing and publishes it. A publish failure is
// logged only; the stored row is the source of truth.
func (s *Service) Record(ctx context.Context, listingID, eventType string, data map[string]interface{}) (*domain.ListingEvent, error) {
	if data == nil {
		data = map[string]interface{}{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode event data: %w", err)
	}
	ev := &domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: datatypes.JSON(b),
	}
	if err := s.DB.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, fmt.Errorf("create listing event: %w", err)
	}
	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, Subject, ev); err != nil {
			log.Warn().Err(err).Str("listing_id", listingID).Str("event_type", eventType).Msg("listing event: publish failed")
		}
	}
	return ev, nil
}

// ForListing returns a listing's events, oldest first.
func (s *Service) ForListing(ctx context.Context, listingID string) ([]domain.ListingEvent, error) {
	var events []domain.ListingEvent
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
