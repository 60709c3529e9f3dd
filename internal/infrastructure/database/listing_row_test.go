package database

import (
	"testing"

	"dreamstay-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatures_RoundTrip(t *testing.T) {
	cases := [][]string{
		{"A"},
		{"A", "B"},
		{"Rooftop garden", "AI concierge", "Rooftop garden"},
		{"quotes \"inside\"", "comma, separated", "unicode ✨", ""},
	}
	for _, features := range cases {
		enc, err := EncodeFeatures(features)
		require.NoError(t, err)
		dec, err := DecodeFeatures(enc)
		require.NoError(t, err)
		assert.Equal(t, features, dec)
	}
}

func TestFeatures_Nil(t *testing.T) {
	enc, err := EncodeFeatures(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", enc)

	dec, err := DecodeFeatures("null")
	require.NoError(t, err)
	assert.NotNil(t, dec)
	assert.Empty(t, dec)
}

func TestListingRow_ToDomainFailsLoudly(t *testing.T) {
	row := &ListingRow{ID: "abc", KeyFeatures: "pool, sauna"}
	l, err := row.ToDomain()
	assert.Nil(t, l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing abc")
	assert.Contains(t, err.Error(), "keyFeatures")
}

func TestListingRow_Mapping(t *testing.T) {
	in := &domain.Listing{
		ID: "id-1", Title: "T", Location: "L", Description: "D", PropertyType: "P",
		KeyFeatures: []string{"x", "y"}, PricePerNight: 120.5, IdealFor: "I", Rating: 4.5,
	}
	row, err := NewListingRow(in)
	require.NoError(t, err)
	assert.Equal(t, `["x","y"]`, row.KeyFeatures)

	out, err := row.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost:5432/db"))
	assert.True(t, IsPostgres("postgresql://localhost/db"))
	assert.False(t, IsPostgres("database.db"))
	assert.False(t, IsPostgres(":memory:"))
}

func TestOpen_SQLiteMigrates(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable("listings"))
	assert.True(t, db.Migrator().HasTable("listing_events"))
	assert.True(t, db.Migrator().HasColumn(&ListingRow{}, "keyFeatures"))
}
