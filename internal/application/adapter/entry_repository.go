// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/entity"
)

// EntryFilter defines filter options for listing entries.
type EntryFilter struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Type      *entity.EntryType
	Category  string
}

// EntryPagination defines pagination options.
type EntryPagination struct {
	Page  int
	Limit int
}

// EntryRepository defines the interface for entry persistence operations.
type EntryRepository interface {
	// Create creates a new entry in the store.
	Create(ctx context.Context, entry *entity.Entry) error

	// FindByID retrieves an entry by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Entry, error)

	// FindByUser retrieves all entries for a given user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Entry, error)

	// FindPageByUser retrieves one ordered page of a user's entries.
	FindPageByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Entry, error)

	// CountByUser returns the number of stored entries for a user.
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// List retrieves entries matching the filter with pagination.
	List(ctx context.Context, filter EntryFilter, pagination EntryPagination) (*entity.EntryListResult, error)
}
