// Package stats contains the aggregation use cases.
package stats

import (
	"context"

	"github.com/google/uuid"

	"github.com/pocketledger/backend/internal/domain/entity"
)

// EntryPager yields successive pages of entries. NextPage returns a nil page
// with a nil error once the sequence is exhausted. Each pull may perform I/O
// and must honor cancellation of the given context.
type EntryPager interface {
	NextPage(ctx context.Context) ([]*entity.Entry, error)
}

// EntrySource supplies ledger entries to the aggregation use cases, either as
// a single in-memory collection or as a lazily produced sequence of pages.
// The aggregation core treats the source as read-only.
type EntrySource interface {
	// FindByUser retrieves the full working set for a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Entry, error)

	// CountByUser returns the number of stored entries for a user. Used as
	// the hint for choosing bulk versus paged aggregation.
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// PagesByUser returns a restartable pager over the user's entries.
	PagesByUser(userID uuid.UUID, pageSize int) EntryPager
}

// slicePager chunks an in-memory collection so that bulk aggregation shares
// the paged consumption path and its cooperative yield points.
type slicePager struct {
	entries   []*entity.Entry
	chunkSize int
	offset    int
}

// NewSlicePager normalizes a bulk collection into a page sequence with
// artificial chunk boundaries.
func NewSlicePager(entries []*entity.Entry, chunkSize int) EntryPager {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &slicePager{entries: entries, chunkSize: chunkSize}
}

// NextPage returns the next chunk of the underlying collection.
func (p *slicePager) NextPage(ctx context.Context) ([]*entity.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.offset >= len(p.entries) {
		return nil, nil
	}

	end := p.offset + p.chunkSize
	if end > len(p.entries) {
		end = len(p.entries)
	}
	page := p.entries[p.offset:end]
	p.offset = end

	return page, nil
}
