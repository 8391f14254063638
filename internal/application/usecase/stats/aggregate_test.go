package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/backend/internal/domain/entity"
	domainerror "github.com/pocketledger/backend/internal/domain/error"
)

func testEntry(entryType entity.EntryType, amount string, date time.Time, category string) *entity.Entry {
	return &entity.Entry{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Type:      entryType,
		Amount:    decimal.RequireFromString(amount),
		Date:      date,
		Category:  category,
		Currency:  "BRL",
		CreatedAt: date,
	}
}

func twoDayRange(t *testing.T) DateRange {
	t.Helper()
	return DateRange{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 2, 23, 59, 59, 0, time.UTC),
	}
}

func TestAggregate(t *testing.T) {
	aggregator := NewAggregator(0)
	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("computes totals net and trend", func(t *testing.T) {
		entries := []*entity.Entry{
			testEntry(entity.EntryTypeIn, "1000", day1, "Salary"),
			testEntry(entity.EntryTypeOut, "400", day1, "Food"),
			testEntry(entity.EntryTypeOut, "100", day2, "Food"),
		}

		result, err := aggregator.Aggregate(context.Background(), entries, twoDayRange(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.TotalIn.Equal(decimal.RequireFromString("1000")) {
			t.Errorf("expected total in 1000, got %s", result.TotalIn)
		}
		if !result.TotalOut.Equal(decimal.RequireFromString("500")) {
			t.Errorf("expected total out 500, got %s", result.TotalOut)
		}
		if !result.Net.Equal(decimal.RequireFromString("500")) {
			t.Errorf("expected net 500, got %s", result.Net)
		}
		if result.Count != 3 {
			t.Errorf("expected count 3, got %d", result.Count)
		}
		if !result.MaxIncome.Equal(decimal.RequireFromString("1000")) {
			t.Errorf("expected max income 1000, got %s", result.MaxIncome)
		}
		if !result.MaxExpense.Equal(decimal.RequireFromString("400")) {
			t.Errorf("expected max expense 400, got %s", result.MaxExpense)
		}
		if !result.CategoryTotals["Food"].Equal(decimal.RequireFromString("500")) {
			t.Errorf("expected Food total 500, got %s", result.CategoryTotals["Food"])
		}
		if len(result.DailyTrend) != 2 {
			t.Fatalf("expected 2 trend points, got %d", len(result.DailyTrend))
		}
		if !result.DailyTrend[0].Value.Equal(decimal.RequireFromString("400")) {
			t.Errorf("expected day 1 trend 400, got %s", result.DailyTrend[0].Value)
		}
		if !result.DailyTrend[1].Value.Equal(decimal.RequireFromString("100")) {
			t.Errorf("expected day 2 trend 100, got %s", result.DailyTrend[1].Value)
		}
	})

	t.Run("is deterministic for the same input", func(t *testing.T) {
		entries := []*entity.Entry{
			testEntry(entity.EntryTypeIn, "250.50", day1, ""),
			testEntry(entity.EntryTypeOut, "99.99", day2, "Transport"),
		}

		first, err := aggregator.Aggregate(context.Background(), entries, twoDayRange(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := aggregator.Aggregate(context.Background(), entries, twoDayRange(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !first.Net.Equal(second.Net) || first.Count != second.Count {
			t.Errorf("expected identical results, got %+v and %+v", first, second)
		}
	})

	t.Run("trend covers every day of the range", func(t *testing.T) {
		r := DateRange{
			Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC),
		}
		entries := []*entity.Entry{
			testEntry(entity.EntryTypeOut, "50", day1, "Food"),
		}

		result, err := aggregator.Aggregate(context.Background(), entries, r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.DailyTrend) != 10 {
			t.Fatalf("expected 10 trend points, got %d", len(result.DailyTrend))
		}
		for i := 1; i < len(result.DailyTrend); i++ {
			if !result.DailyTrend[i].Value.IsZero() {
				t.Errorf("expected zero-filled trend at index %d, got %s", i, result.DailyTrend[i].Value)
			}
			if !result.DailyTrend[i].Day.After(result.DailyTrend[i-1].Day) {
				t.Errorf("expected chronological trend, got %v after %v", result.DailyTrend[i].Day, result.DailyTrend[i-1].Day)
			}
		}
	})

	t.Run("excludes entries outside the range", func(t *testing.T) {
		outside := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
		entries := []*entity.Entry{
			testEntry(entity.EntryTypeOut, "400", day1, "Food"),
			testEntry(entity.EntryTypeOut, "999", outside, "Food"),
		}

		result, err := aggregator.Aggregate(context.Background(), entries, twoDayRange(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Count != 1 {
			t.Errorf("expected count 1, got %d", result.Count)
		}
		if !result.TotalOut.Equal(decimal.RequireFromString("400")) {
			t.Errorf("expected total out 400, got %s", result.TotalOut)
		}
	})

	t.Run("blank category falls back to Uncategorized", func(t *testing.T) {
		entries := []*entity.Entry{
			testEntry(entity.EntryTypeOut, "30", day1, "  "),
		}

		result, err := aggregator.Aggregate(context.Background(), entries, twoDayRange(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := result.CategoryTotals[entity.FallbackCategory]; !ok {
			t.Errorf("expected fallback category bucket, got %v", result.CategoryTotals)
		}
	})

	t.Run("dateless entries fall back to creation time", func(t *testing.T) {
		entry := testEntry(entity.EntryTypeOut, "75", time.Time{}, "Food")
		entry.CreatedAt = day1

		result, err := aggregator.Aggregate(context.Background(), []*entity.Entry{entry}, twoDayRange(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Count != 1 {
			t.Errorf("expected creation-time fallback to bucket the entry, got count %d", result.Count)
		}
	})

	t.Run("undatable entries are dropped from bounded ranges", func(t *testing.T) {
		entry := testEntry(entity.EntryTypeOut, "75", time.Time{}, "Food")
		entry.CreatedAt = time.Time{}

		result, err := aggregator.Aggregate(context.Background(), []*entity.Entry{entry}, twoDayRange(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Count != 0 {
			t.Errorf("expected undatable entry to be skipped, got count %d", result.Count)
		}
	})

	t.Run("undatable entries count toward totals under an unbounded range", func(t *testing.T) {
		unbounded := DateRange{
			Start:     time.Unix(0, 0).UTC(),
			End:       time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
			Unbounded: true,
		}
		entry := testEntry(entity.EntryTypeOut, "75", time.Time{}, "Food")
		entry.CreatedAt = time.Time{}

		result, err := aggregator.Aggregate(context.Background(), []*entity.Entry{entry}, unbounded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Count != 1 {
			t.Errorf("expected undatable entry to be included, got count %d", result.Count)
		}
		if !result.TotalOut.Equal(decimal.RequireFromString("75")) {
			t.Errorf("expected total out 75, got %s", result.TotalOut)
		}
	})

	t.Run("mixed currencies are excluded and counted", func(t *testing.T) {
		foreign := testEntry(entity.EntryTypeOut, "200", day1, "Travel")
		foreign.Currency = "USD"
		entries := []*entity.Entry{
			testEntry(entity.EntryTypeOut, "400", day1, "Food"),
			foreign,
		}

		result, err := aggregator.Aggregate(context.Background(), entries, twoDayRange(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Currency != "BRL" {
			t.Errorf("expected first-seen currency BRL, got %s", result.Currency)
		}
		if result.SkippedCurrency != 1 {
			t.Errorf("expected 1 skipped entry, got %d", result.SkippedCurrency)
		}
		if !result.TotalOut.Equal(decimal.RequireFromString("400")) {
			t.Errorf("expected foreign amount excluded, got %s", result.TotalOut)
		}
	})

	t.Run("empty input yields a zeroed result", func(t *testing.T) {
		result, err := aggregator.Aggregate(context.Background(), nil, twoDayRange(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Count != 0 || !result.Net.IsZero() {
			t.Errorf("expected zeroed result, got %+v", result)
		}
		if len(result.DailyTrend) != 2 {
			t.Errorf("expected zero-filled trend of 2 points, got %d", len(result.DailyTrend))
		}
	})

	t.Run("canceled context aborts instead of returning empty", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		entries := []*entity.Entry{
			testEntry(entity.EntryTypeOut, "400", day1, "Food"),
		}

		result, err := aggregator.Aggregate(ctx, entries, twoDayRange(t))
		if err == nil {
			t.Fatal("expected aborted error")
		}
		if result != nil {
			t.Errorf("expected nil result, got %+v", result)
		}
		if !domainerror.IsRunAborted(err) {
			t.Errorf("expected run-aborted error, got %v", err)
		}
	})
}

// failingPager fails after yielding a fixed number of pages.
type failingPager struct {
	pagesBeforeFailure int
	served             int
	entries            []*entity.Entry
}

func (p *failingPager) NextPage(_ context.Context) ([]*entity.Entry, error) {
	if p.served >= p.pagesBeforeFailure {
		return nil, errors.New("connection reset")
	}
	p.served++
	return p.entries, nil
}

func TestAggregateFromPages(t *testing.T) {
	aggregator := NewAggregator(0)
	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("source failure discards partial accumulation", func(t *testing.T) {
		pager := &failingPager{
			pagesBeforeFailure: 1,
			entries:            []*entity.Entry{testEntry(entity.EntryTypeOut, "400", day1, "Food")},
		}

		result, err := aggregator.AggregateFromPages(context.Background(), pager, twoDayRange(t))
		if err == nil {
			t.Fatal("expected source failure error")
		}
		if result != nil {
			t.Errorf("expected nil result, got %+v", result)
		}
		if !domainerror.IsSourceFailure(err) {
			t.Errorf("expected source-failure error, got %v", err)
		}
		if domainerror.IsRunAborted(err) {
			t.Error("source failure must not be tagged as an aborted run")
		}
	})

	t.Run("an empty page ends the sequence", func(t *testing.T) {
		pulls := 0
		pager := pagerFunc(func(_ context.Context) ([]*entity.Entry, error) {
			pulls++
			return []*entity.Entry{}, nil
		})

		result, err := aggregator.AggregateFromPages(context.Background(), pager, twoDayRange(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Count != 0 {
			t.Errorf("expected an empty result, got count %d", result.Count)
		}
		if pulls != 1 {
			t.Errorf("expected a single pull from a source that never returns nil, got %d", pulls)
		}
	})

	t.Run("pager failure under a canceled context resolves to aborted", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		pager := pagerFunc(func(ctx context.Context) ([]*entity.Entry, error) {
			cancel()
			return nil, ctx.Err()
		})

		_, err := aggregator.AggregateFromPages(ctx, pager, twoDayRange(t))
		if !domainerror.IsRunAborted(err) {
			t.Errorf("expected run-aborted error, got %v", err)
		}
	})

	t.Run("consumes pages until exhaustion", func(t *testing.T) {
		entries := make([]*entity.Entry, 0, 5)
		for i := 0; i < 5; i++ {
			entries = append(entries, testEntry(entity.EntryTypeOut, "10", day1, "Food"))
		}

		result, err := aggregator.AggregateFromPages(
			context.Background(),
			NewSlicePager(entries, 2),
			twoDayRange(t),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Count != 5 {
			t.Errorf("expected 5 entries consumed, got %d", result.Count)
		}
		if !result.TotalOut.Equal(decimal.RequireFromString("50")) {
			t.Errorf("expected total out 50, got %s", result.TotalOut)
		}
	})
}

// pagerFunc adapts a function to the EntryPager interface.
type pagerFunc func(ctx context.Context) ([]*entity.Entry, error)

func (f pagerFunc) NextPage(ctx context.Context) ([]*entity.Entry, error) {
	return f(ctx)
}

func TestSlicePager(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("chunks the collection and then exhausts", func(t *testing.T) {
		entries := make([]*entity.Entry, 0, 5)
		for i := 0; i < 5; i++ {
			entries = append(entries, testEntry(entity.EntryTypeOut, "10", day1, "Food"))
		}
		pager := NewSlicePager(entries, 2)

		sizes := []int{}
		for {
			page, err := pager.NextPage(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page == nil {
				break
			}
			sizes = append(sizes, len(page))
		}

		want := []int{2, 2, 1}
		if len(sizes) != len(want) {
			t.Fatalf("expected %d pages, got %d", len(want), len(sizes))
		}
		for i := range want {
			if sizes[i] != want[i] {
				t.Errorf("expected page %d size %d, got %d", i, want[i], sizes[i])
			}
		}
	})

	t.Run("empty collection is immediately exhausted", func(t *testing.T) {
		pager := NewSlicePager(nil, 2)
		page, err := pager.NextPage(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page != nil {
			t.Errorf("expected nil page, got %v", page)
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		pager := NewSlicePager([]*entity.Entry{testEntry(entity.EntryTypeOut, "10", day1, "Food")}, 2)
		if _, err := pager.NextPage(ctx); err == nil {
			t.Fatal("expected context error")
		}
	})
}
