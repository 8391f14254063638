// Package entry contains entry-related use cases.
package entry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/backend/internal/application/adapter"
	"github.com/pocketledger/backend/internal/application/usecase/stats"
	"github.com/pocketledger/backend/internal/domain/entity"
	domainerror "github.com/pocketledger/backend/internal/domain/error"
)

const (
	// MaxNoteLength is the maximum allowed length for entry notes.
	MaxNoteLength = 1000
)

// CreateEntryInput represents the input for entry creation. The DTO layer has
// already normalized heterogeneous upstream shapes into these canonical
// fields; no shape sniffing happens past this point.
type CreateEntryInput struct {
	UserID   uuid.UUID
	Type     entity.EntryType
	Amount   decimal.Decimal
	Date     time.Time // Zero when the upstream date was unparseable
	Category string
	Currency string
	Note     string
	Tags     []string
}

// CreateEntryOutput represents the output of entry creation.
type CreateEntryOutput struct {
	Entry *entity.Entry
}

// CreateEntryUseCase handles entry creation logic.
type CreateEntryUseCase struct {
	entryRepo adapter.EntryRepository
	cache     stats.SummaryCache
}

// NewCreateEntryUseCase creates a new CreateEntryUseCase instance. cache may
// be nil when summary caching is disabled.
func NewCreateEntryUseCase(entryRepo adapter.EntryRepository, cache stats.SummaryCache) *CreateEntryUseCase {
	return &CreateEntryUseCase{
		entryRepo: entryRepo,
		cache:     cache,
	}
}

// Execute performs the entry creation.
func (uc *CreateEntryUseCase) Execute(ctx context.Context, input CreateEntryInput) (*CreateEntryOutput, error) {
	if !entity.IsValidEntryType(input.Type) {
		return nil, domainerror.NewEntryError(
			domainerror.ErrCodeInvalidEntryType,
			"entry type must be 'in' or 'out'",
			domainerror.ErrInvalidEntryType,
		)
	}

	if input.Amount.IsNegative() {
		return nil, domainerror.NewEntryError(
			domainerror.ErrCodeNegativeAmount,
			"amount must not be negative; direction is carried by the entry type",
			domainerror.ErrNegativeAmount,
		)
	}

	if len(input.Note) > MaxNoteLength {
		return nil, domainerror.NewEntryError(
			domainerror.ErrCodeNoteTooLong,
			fmt.Sprintf("note must not exceed %d characters", MaxNoteLength),
			domainerror.ErrNoteTooLong,
		)
	}

	newEntry := entity.NewEntry(
		input.UserID,
		input.Type,
		input.Amount,
		input.Date,
		input.Category,
		input.Currency,
		input.Note,
		input.Tags,
	)

	if err := uc.entryRepo.Create(ctx, newEntry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	// A new entry makes every cached summary for the user stale.
	if uc.cache != nil {
		if err := uc.cache.InvalidateUser(ctx, input.UserID); err != nil {
			slog.Warn("Failed to invalidate summary cache",
				"userID", input.UserID,
				"error", err,
			)
		}
	}

	return &CreateEntryOutput{Entry: newEntry}, nil
}
