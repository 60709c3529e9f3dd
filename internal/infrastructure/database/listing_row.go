package database

import (
	"encoding/json"
	"fmt"
	"time"

	"dreamstay-backend/internal/domain"
)

// ListingColumns is the explicit projection used when reading listings.
// Column names are camelCase to match the JSON contract.
var ListingColumns = []string{
	"id", "title", "location", "description", "propertyType",
	"keyFeatures", "pricePerNight", "idealFor", "rating", "createdAt",
}

// ListingRow is the stored shape of a listing. KeyFeatures holds the ordered
// feature list encoded as a JSON array in a text column.
type ListingRow struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Title         string    `gorm:"column:title;not null"`
	Location      string    `gorm:"column:location;not null"`
	Description   string    `gorm:"column:description;not null"`
	PropertyType  string    `gorm:"column:propertyType;not null"`
	KeyFeatures   string    `gorm:"column:keyFeatures;type:text;not null"`
	PricePerNight float64   `gorm:"column:pricePerNight;not null"`
	IdealFor      string    `gorm:"column:idealFor;not null"`
	Rating        float64   `gorm:"column:rating;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:createdAt;autoCreateTime"`
}

func (ListingRow) TableName() string {
	return "listings"
}

// NewListingRow maps a listing to its stored row.
func NewListingRow(l *domain.Listing) (*ListingRow, error) {
	features, err := EncodeFeatures(l.KeyFeatures)
	if err != nil {
		return nil, err
	}
	return &ListingRow{
		ID:            l.ID,
		Title:         l.Title,
		Location:      l.Location,
		Description:   l.Description,
		PropertyType:  l.PropertyType,
		KeyFeatures:   features,
		PricePerNight: l.PricePerNight,
		IdealFor:      l.IdealFor,
		Rating:        l.Rating,
	}, nil
}

// ToDomain maps a stored row back to a listing, failing on an undecodable feature list.
func (r *ListingRow) ToDomain() (*domain.Listing, error) {
	features, err := DecodeFeatures(r.KeyFeatures)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.ID, err)
	}
	return &domain.Listing{
		ID:            r.ID,
		Title:         r.Title,
		Location:      r.Location,
		Description:   r.Description,
		PropertyType:  r.PropertyType,
		KeyFeatures:   features,
		PricePerNight: r.PricePerNight,
		IdealFor:      r.IdealFor,
		Rating:        r.Rating,
	}, nil
}

// EncodeFeatures encodes the ordered feature list as a JSON array. nil encodes as "[]".
func EncodeFeatures(features []string) (string, error) {
	if features == nil {
		features = []string{}
	}
	b, err := json.Marshal(features)
	if err != nil {
		return "", fmt.Errorf("encode keyFeatures: %w", err)
	}
	return string(b), nil
}

// DecodeFeatures is the inverse of EncodeFeatures. It never returns nil.
func DecodeFeatures(s string) ([]string, error) {
	features := []string{}
	if err := json.Unmarshal([]byte(s), &features); err != nil {
		return nil, fmt.Errorf("decode keyFeatures: %w", err)
	}
	if features == nil {
		features = []string{}
	}
	return features, nil
}
