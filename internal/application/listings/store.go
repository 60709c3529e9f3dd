package listings

import (
	"context"
	"errors"
	"fmt"

	"dreamstay-backend/internal/domain"
	"dreamstay-backend/internal/infrastructure/database"

	"gorm.io/gorm"
)

// Store persists listings. Inserts are append-only.
type Store interface {
	Insert(ctx context.Context, l *domain.Listing) error
	List(ctx context.Context) ([]domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
}

// GormStore is the Store backed by the listings table.
type GormStore struct {
	DB *gorm.DB
}

// Insert writes one row. Any error, or a row count other than one, is a PersistenceError.
func (s *GormStore) Insert(ctx context.Context, l *domain.Listing) error {
	row, err := database.NewListingRow(l)
	if err != nil {
		return &domain.PersistenceError{Err: err}
	}
	res := s.DB.WithContext(ctx).Create(row)
	if res.Error != nil {
		return &domain.PersistenceError{RowsAffected: res.RowsAffected, Err: res.Error}
	}
	if res.RowsAffected != 1 {
		return &domain.PersistenceError{RowsAffected: res.RowsAffected}
	}
	return nil
}

// List returns every stored listing in insertion order.
func (s *GormStore) List(ctx context.Context) ([]domain.Listing, error) {
	var rows []database.ListingRow
	err := s.DB.WithContext(ctx).
		Select(database.ListingColumns).
		Order(`"createdAt" ASC`).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	out := make([]domain.Listing, 0, len(rows))
	for i := range rows {
		l, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, nil
}

// Get returns one listing or domain.ErrListingNotFound.
func (s *GormStore) Get(ctx context.Context, id string) (*domain.Listing, error) {
	var row database.ListingRow
	err := s.DB.WithContext(ctx).Select(database.ListingColumns).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", id, err)
	}
	return row.ToDomain()
}
