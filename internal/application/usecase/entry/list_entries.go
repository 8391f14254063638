// Package entry contains entry-related use cases.
package entry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/application/adapter"
	"github.com/pocketledger/backend/internal/domain/entity"
)

const (
	// DefaultPage is the first page number.
	DefaultPage = 1
	// DefaultLimit is the default page size for listings.
	DefaultLimit = 50
	// MaxLimit caps the page size for listings.
	MaxLimit = 500
)

// ListEntriesInput represents the input for listing entries.
type ListEntriesInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Type      *entity.EntryType
	Category  string
	Page      int
	Limit     int
}

// ListEntriesOutput represents the output of listing entries.
type ListEntriesOutput struct {
	Result *entity.EntryListResult
}

// ListEntriesUseCase handles entry listing logic.
type ListEntriesUseCase struct {
	entryRepo adapter.EntryRepository
}

// NewListEntriesUseCase creates a new ListEntriesUseCase instance.
func NewListEntriesUseCase(entryRepo adapter.EntryRepository) *ListEntriesUseCase {
	return &ListEntriesUseCase{
		entryRepo: entryRepo,
	}
}

// Execute retrieves entries matching the filter.
func (uc *ListEntriesUseCase) Execute(ctx context.Context, input ListEntriesInput) (*ListEntriesOutput, error) {
	page := input.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	filter := adapter.EntryFilter{
		UserID:    input.UserID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Type:      input.Type,
		Category:  input.Category,
	}

	result, err := uc.entryRepo.List(ctx, filter, adapter.EntryPagination{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return &ListEntriesOutput{Result: result}, nil
}
