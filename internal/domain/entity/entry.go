// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType represents the cash-flow direction of a ledger entry (inflow or outflow).
type EntryType string

const (
	EntryTypeIn  EntryType = "in"
	EntryTypeOut EntryType = "out"
)

// FallbackCategory is assigned to entries with a missing or blank category so
// that every entry participates in category aggregation.
const FallbackCategory = "Uncategorized"

// Entry represents one income or expense record in the PocketLedger system.
// Amount is always non-negative; the cash-flow sign is carried by Type.
type Entry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      EntryType
	Amount    decimal.Decimal
	Date      time.Time // Zero when the upstream date could not be resolved
	Category  string
	Currency  string
	Note      string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft-delete support
}

// NewEntry creates a new Entry entity.
func NewEntry(
	userID uuid.UUID,
	entryType EntryType,
	amount decimal.Decimal,
	date time.Time,
	category string,
	currency string,
	note string,
	tags []string,
) *Entry {
	now := time.Now().UTC()

	return &Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      entryType,
		Amount:    amount,
		Date:      date,
		Category:  NormalizeCategory(category),
		Currency:  strings.ToUpper(strings.TrimSpace(currency)),
		Note:      note,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeCategory coerces an absent or blank category to FallbackCategory.
func NormalizeCategory(category string) string {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return FallbackCategory
	}
	return trimmed
}

// BucketDate returns the instant used for range bucketing, falling back to the
// record-creation timestamp when the entry carries no resolvable date. The
// second return value is false when neither timestamp is usable.
func (e *Entry) BucketDate() (time.Time, bool) {
	if !e.Date.IsZero() {
		return e.Date.UTC(), true
	}
	if !e.CreatedAt.IsZero() {
		return e.CreatedAt.UTC(), true
	}
	return time.Time{}, false
}

// IsValidEntryType reports whether the given type is one of the two supported
// cash-flow directions.
func IsValidEntryType(entryType EntryType) bool {
	return entryType == EntryTypeIn || entryType == EntryTypeOut
}

// EntryListResult represents the result of listing entries.
type EntryListResult struct {
	Entries    []*Entry
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
