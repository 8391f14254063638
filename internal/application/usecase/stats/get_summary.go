// Package stats contains the aggregation use cases.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainerror "github.com/pocketledger/backend/internal/domain/error"
)

// DefaultPagedThreshold is the entry count above which aggregation switches
// from a single bulk fetch to lazy paging.
const DefaultPagedThreshold = 10000

// DefaultPageSize is the page size used for paged aggregation.
const DefaultPageSize = 2000

// SummaryCache caches formatted summaries between runs. A nil cache is
// valid; the use case then recomputes every request.
type SummaryCache interface {
	// Get returns the cached summary for the key, or nil on a miss.
	Get(ctx context.Context, userID uuid.UUID, key string) (*PresentationSummary, error)

	// Set stores the summary under the key for the given TTL.
	Set(ctx context.Context, userID uuid.UUID, key string, summary *PresentationSummary, ttl time.Duration) error

	// InvalidateUser drops every cached summary belonging to the user.
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}

// GetSummaryInput represents the input for computing a stats summary.
type GetSummaryInput struct {
	UserID uuid.UUID
	Filter RangeFilter
	Pivot  time.Time
	Custom *CustomBounds
}

// GetSummaryOutput represents the output of computing a stats summary.
type GetSummaryOutput struct {
	Range   DateRange
	Summary *PresentationSummary
	Cached  bool
}

// GetSummaryUseCase orchestrates one aggregation request: it resolves the
// range, supersedes any in-flight run for the same user, pulls entries in
// bulk or paged mode, and formats the result.
type GetSummaryUseCase struct {
	source         EntrySource
	cache          SummaryCache
	aggregator     *Aggregator
	formatter      *Formatter
	controllers    *ControllerRegistry
	pagedThreshold int64
	pageSize       int
	cacheTTL       time.Duration
	now            func() time.Time
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance. cache may be
// nil to disable caching.
func NewGetSummaryUseCase(
	source EntrySource,
	cache SummaryCache,
	aggregator *Aggregator,
	formatter *Formatter,
	pagedThreshold int64,
	pageSize int,
	cacheTTL time.Duration,
) *GetSummaryUseCase {
	if pagedThreshold <= 0 {
		pagedThreshold = DefaultPagedThreshold
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &GetSummaryUseCase{
		source:         source,
		cache:          cache,
		aggregator:     aggregator,
		formatter:      formatter,
		controllers:    NewControllerRegistry(),
		pagedThreshold: pagedThreshold,
		pageSize:       pageSize,
		cacheTTL:       cacheTTL,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the injected clock. Used by tests to pin "now".
func (uc *GetSummaryUseCase) WithClock(now func() time.Time) *GetSummaryUseCase {
	uc.now = now
	return uc
}

// Execute computes the presentation summary for the requested range.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	dateRange, err := ResolveRange(input.Filter, input.Pivot, input.Custom, uc.now())
	if err != nil {
		return nil, err
	}

	cacheKey := summaryCacheKey(input.Filter, dateRange)
	if uc.cache != nil {
		cached, cacheErr := uc.cache.Get(ctx, input.UserID, cacheKey)
		if cacheErr != nil {
			slog.Warn("Summary cache lookup failed", "userID", input.UserID, "error", cacheErr)
		} else if cached != nil {
			return &GetSummaryOutput{Range: dateRange, Summary: cached, Cached: true}, nil
		}
	}

	// Supersede any in-flight run for this user before starting heavy work.
	token := uc.controllers.For(input.UserID).StartRun(ctx)
	defer token.Finish()

	result, err := uc.runAggregation(token.Context(), input, dateRange)
	if err != nil {
		return nil, err
	}

	// Liveness is re-checked at delivery time: a run superseded after its
	// last chunk must still be discarded, never applied.
	if !token.Live() {
		return nil, domainerror.NewStatsError(
			domainerror.ErrCodeRunAborted,
			"aggregation run superseded before delivery",
			domainerror.ErrRunAborted,
		)
	}

	summary := uc.formatter.FormatSummary(result, dateRange)

	if uc.cache != nil {
		if cacheErr := uc.cache.Set(ctx, input.UserID, cacheKey, summary, uc.cacheTTL); cacheErr != nil {
			slog.Warn("Summary cache store failed", "userID", input.UserID, "error", cacheErr)
		}
	}

	return &GetSummaryOutput{Range: dateRange, Summary: summary}, nil
}

// runAggregation picks bulk versus paged consumption and runs the aggregator.
// Paged mode is used for the unbounded filter and for working sets above the
// configured threshold; the policy lives here, not in the aggregator.
func (uc *GetSummaryUseCase) runAggregation(
	ctx context.Context,
	input GetSummaryInput,
	dateRange DateRange,
) (*AggregateResult, error) {
	paged := input.Filter == FilterAll
	if !paged {
		count, err := uc.source.CountByUser(ctx, input.UserID)
		if err != nil {
			return nil, domainerror.NewStatsError(
				domainerror.ErrCodeSourceFailure,
				"entry source failed while counting entries",
				domainerror.ErrSourceFailure,
			)
		}
		paged = count > uc.pagedThreshold
	}

	if paged {
		return uc.aggregator.AggregateFromPages(
			ctx,
			uc.source.PagesByUser(input.UserID, uc.pageSize),
			dateRange,
		)
	}

	entries, err := uc.source.FindByUser(ctx, input.UserID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, abortedError()
		}
		return nil, domainerror.NewStatsError(
			domainerror.ErrCodeSourceFailure,
			"entry source failed while loading entries",
			domainerror.ErrSourceFailure,
		)
	}

	return uc.aggregator.Aggregate(ctx, entries, dateRange)
}

// summaryCacheKey builds a stable cache key from the resolved range.
func summaryCacheKey(filter RangeFilter, dateRange DateRange) string {
	return fmt.Sprintf("%s:%d:%d", filter, dateRange.Start.Unix(), dateRange.End.Unix())
}
