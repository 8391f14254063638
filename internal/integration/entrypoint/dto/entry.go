// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/backend/internal/domain/entity"
)

// FlexibleAmount accepts numeric or string-encoded amounts from heterogeneous
// mobile clients. An unparseable value decodes to zero rather than rejecting
// the request: a single bad field must never fail a whole upload. This is the
// only place raw upstream shapes exist; everything past the DTO layer sees a
// canonical decimal.
type FlexibleAmount struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *FlexibleAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}

	raw := string(data)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		raw = s
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = value
	return nil
}

// flexibleDateLayouts are the date spellings observed across client versions.
var flexibleDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FlexibleDate accepts the date spellings used by different client versions:
// RFC 3339 timestamps, plain dates, or epoch milliseconds. An unparseable
// value decodes to the zero time; downstream code falls back to the record
// creation timestamp per the entry date policy.
type FlexibleDate struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *FlexibleDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			d.Time = time.Time{}
			return nil
		}
		for _, layout := range flexibleDateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				d.Time = parsed.UTC()
				return nil
			}
		}
		d.Time = time.Time{}
		return nil
	}

	// Bare numbers are epoch milliseconds.
	millis, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		d.Time = time.Time{}
		return nil
	}
	d.Time = time.UnixMilli(millis).UTC()
	return nil
}

// CreateEntryRequest represents the request body for entry creation.
// CreatedAt is the legacy fallback timestamp older clients send when the
// entry has no explicit date.
type CreateEntryRequest struct {
	Type      string         `json:"type" binding:"required,oneof=in out"`
	Amount    FlexibleAmount `json:"amount"`
	Date      FlexibleDate   `json:"date"`
	CreatedAt FlexibleDate   `json:"createdAt"`
	Category  string         `json:"category,omitempty"`
	Currency  string         `json:"currency,omitempty" binding:"omitempty,len=3"`
	Note      string         `json:"note,omitempty" binding:"omitempty,max=1000"`
	Tags      []string       `json:"tags,omitempty"`
}

// ResolvedDate returns the explicit date when present, otherwise the legacy
// creation timestamp, otherwise the zero time.
func (r *CreateEntryRequest) ResolvedDate() time.Time {
	if !r.Date.IsZero() {
		return r.Date.Time
	}
	return r.CreatedAt.Time
}

// EntryResponse represents a single entry in API responses.
type EntryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	Date      *string   `json:"date,omitempty"`
	Category  string    `json:"category"`
	Currency  string    `json:"currency"`
	Note      string    `json:"note,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryPaginationResponse represents pagination information in API responses.
type EntryPaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// EntryListResponse represents the response for listing entries.
type EntryListResponse struct {
	Entries    []EntryResponse         `json:"entries"`
	Pagination EntryPaginationResponse `json:"pagination"`
}

// ToEntryResponse converts a domain entry to its API representation.
func ToEntryResponse(e *entity.Entry) EntryResponse {
	var date *string
	if !e.Date.IsZero() {
		formatted := e.Date.UTC().Format(time.RFC3339)
		date = &formatted
	}

	return EntryResponse{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		Type:      string(e.Type),
		Amount:    e.Amount.String(),
		Date:      date,
		Category:  e.Category,
		Currency:  e.Currency,
		Note:      e.Note,
		Tags:      e.Tags,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ToEntryListResponse converts a listing result to its API representation.
func ToEntryListResponse(result *entity.EntryListResult) EntryListResponse {
	entries := make([]EntryResponse, len(result.Entries))
	for i, e := range result.Entries {
		entries[i] = ToEntryResponse(e)
	}

	return EntryListResponse{
		Entries: entries,
		Pagination: EntryPaginationResponse{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}
}
