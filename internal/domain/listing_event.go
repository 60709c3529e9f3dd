package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing event types.
const (
	EventCreated     = "CREATED"
	EventImageStored = "IMAGE_STORED"
	EventImageFailed = "IMAGE_FAILED"
)

// ListingEvent is an append-only audit row for one step of a listing's lifecycle.
type ListingEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ListingID string         `gorm:"column:listing_id;not null;index" json:"listing_id"`
	EventType string         `gorm:"column:event_type;type:varchar(32);not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ListingEvent) TableName() string {
	return "listing_events"
}

// BeforeCreate sets event_id if not already set.
func (e *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
