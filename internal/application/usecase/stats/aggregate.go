// Package stats contains the aggregation use cases.
package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/backend/internal/domain/entity"
	domainerror "github.com/pocketledger/backend/internal/domain/error"
)

// DefaultChunkSize bounds how many in-memory entries are consumed between
// cooperative yield points. Kept in the low thousands so worst-case
// cancellation latency stays within a UI-acceptable bound.
const DefaultChunkSize = 1000

// TrendPoint is one day of the outflow trend series.
type TrendPoint struct {
	Label string
	Day   time.Time
	Value decimal.Decimal
}

// AggregateResult is the immutable numeric summary produced by one completed
// aggregation run. CategoryTotals maps each outflow category to its summed
// amount; inflows are not categorized. DailyTrend spans the full range in
// chronological order, one point per day, zero-filled for idle days.
type AggregateResult struct {
	TotalIn        decimal.Decimal
	TotalOut       decimal.Decimal
	Net            decimal.Decimal
	Count          int
	MaxIncome      decimal.Decimal
	MaxExpense     decimal.Decimal
	CategoryTotals map[string]decimal.Decimal
	DailyTrend     []TrendPoint

	// Currency is the first currency observed in the run. Entries in any
	// other currency are excluded from the sums and counted here instead of
	// being summed across currencies.
	Currency        string
	SkippedCurrency int
}

// Aggregator computes financial summaries from entry streams.
type Aggregator struct {
	chunkSize int
}

// NewAggregator creates a new Aggregator instance. A non-positive chunk size
// falls back to DefaultChunkSize.
func NewAggregator(chunkSize int) *Aggregator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Aggregator{chunkSize: chunkSize}
}

// Aggregate computes the summary for an in-memory collection. The collection
// is normalized into a chunked page sequence so bulk and paged aggregation
// share one consumption path and very large local datasets never monopolize
// the scheduler in a single pass.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	entries []*entity.Entry,
	dateRange DateRange,
) (*AggregateResult, error) {
	return a.AggregateFromPages(ctx, NewSlicePager(entries, a.chunkSize), dateRange)
}

// AggregateFromPages consumes entries one page at a time and accumulates the
// summary. Cancellation is checked before the first pull and after every
// page; a canceled run resolves to ErrRunAborted, never to an empty result.
// A page pull failure resolves to ErrSourceFailure and discards all partial
// accumulation so callers never render a truncated summary.
func (a *Aggregator) AggregateFromPages(
	ctx context.Context,
	pager EntryPager,
	dateRange DateRange,
) (*AggregateResult, error) {
	if err := checkCanceled(ctx); err != nil {
		return nil, err
	}

	acc := newAccumulator(dateRange)

	for {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, abortedError()
			}
			return nil, domainerror.NewStatsError(
				domainerror.ErrCodeSourceFailure,
				"entry source failed while producing a page",
				domainerror.ErrSourceFailure,
			)
		}
		// An empty page also ends the sequence, so a source that never
		// returns nil cannot wedge the loop.
		if len(page) == 0 {
			break
		}

		for _, entry := range page {
			acc.add(entry)
		}

		// Cooperative yield point between pages.
		if err := checkCanceled(ctx); err != nil {
			return nil, err
		}
	}

	return acc.result(), nil
}

// checkCanceled returns ErrRunAborted when the run context is done.
func checkCanceled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return abortedError()
	default:
		return nil
	}
}

// abortedError builds the tagged aborted outcome.
func abortedError() error {
	return domainerror.NewStatsError(
		domainerror.ErrCodeRunAborted,
		"aggregation run was canceled or superseded",
		domainerror.ErrRunAborted,
	)
}

// accumulator holds the zeroed accumulators for one run.
type accumulator struct {
	dateRange DateRange

	totalIn    decimal.Decimal
	totalOut   decimal.Decimal
	count      int
	maxIncome  decimal.Decimal
	maxExpense decimal.Decimal
	categories map[string]decimal.Decimal

	trend    []TrendPoint
	trendIdx map[string]int

	currency        string
	skippedCurrency int
}

const dayKeyLayout = "2006-01-02"

// trendLabelLayout renders day labels as day/month for the chart axis.
const trendLabelLayout = "02/01"

func newAccumulator(dateRange DateRange) *accumulator {
	days := dateRange.Days()
	trend := make([]TrendPoint, 0, days)
	trendIdx := make(map[string]int, days)

	// Pre-populate the trend series so its length always equals the
	// inclusive day count of the range, regardless of activity.
	day := startOfDay(dateRange.Start)
	for i := 0; i < days; i++ {
		trend = append(trend, TrendPoint{
			Label: day.Format(trendLabelLayout),
			Day:   day,
			Value: decimal.Zero,
		})
		trendIdx[day.Format(dayKeyLayout)] = i
		day = day.AddDate(0, 0, 1)
	}

	return &accumulator{
		dateRange:  dateRange,
		totalIn:    decimal.Zero,
		totalOut:   decimal.Zero,
		maxIncome:  decimal.Zero,
		maxExpense: decimal.Zero,
		categories: make(map[string]decimal.Decimal),
		trend:      trend,
		trendIdx:   trendIdx,
	}
}

// add folds one entry into the accumulators. Entries outside the range are
// skipped. Entries with no resolvable date are skipped in bounded ranges but
// included under an unbounded range (totals and categories only, never the
// trend) so malformed legacy data is not silently dropped from "all".
func (acc *accumulator) add(entry *entity.Entry) {
	bucketDate, hasDate := entry.BucketDate()

	if !hasDate && !acc.dateRange.Unbounded {
		return
	}
	if hasDate && !acc.dateRange.Contains(bucketDate) {
		return
	}

	currency := entry.Currency
	if acc.currency == "" && currency != "" {
		acc.currency = currency
	}
	if currency != "" && acc.currency != "" && currency != acc.currency {
		acc.skippedCurrency++
		return
	}

	// Amounts are stored non-negative; Abs guards against legacy rows that
	// predate that constraint.
	amount := entry.Amount.Abs()
	acc.count++

	if entry.Type == entity.EntryTypeIn {
		acc.totalIn = acc.totalIn.Add(amount)
		if amount.GreaterThan(acc.maxIncome) {
			acc.maxIncome = amount
		}
		return
	}

	acc.totalOut = acc.totalOut.Add(amount)
	if amount.GreaterThan(acc.maxExpense) {
		acc.maxExpense = amount
	}

	category := entity.NormalizeCategory(entry.Category)
	if existing, ok := acc.categories[category]; ok {
		acc.categories[category] = existing.Add(amount)
	} else {
		acc.categories[category] = amount
	}

	if hasDate {
		if idx, ok := acc.trendIdx[bucketDate.Format(dayKeyLayout)]; ok {
			acc.trend[idx].Value = acc.trend[idx].Value.Add(amount)
		}
	}
}

// result finalizes the accumulators into an immutable AggregateResult.
func (acc *accumulator) result() *AggregateResult {
	return &AggregateResult{
		TotalIn:         acc.totalIn,
		TotalOut:        acc.totalOut,
		Net:             acc.totalIn.Sub(acc.totalOut),
		Count:           acc.count,
		MaxIncome:       acc.maxIncome,
		MaxExpense:      acc.maxExpense,
		CategoryTotals:  acc.categories,
		DailyTrend:      acc.trend,
		Currency:        acc.currency,
		SkippedCurrency: acc.skippedCurrency,
	}
}
