// Package stats contains the aggregation use cases.
package stats

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultCategoryCap bounds how many real categories the breakdown keeps
// before the remainder collapses into the Others bucket. Chart rendering on
// constrained devices cannot safely draw unbounded segment counts.
const DefaultCategoryCap = 4

// OthersCategory is the synthetic bucket holding all collapsed categories.
const OthersCategory = "Others"

// slicePalette assigns display colors by slot position, not category
// identity, so two runs with the same ordering always produce the same
// colors.
var slicePalette = []string{
	"#4E79A7",
	"#F28E2B",
	"#E15759",
	"#76B7B2",
	"#59A14F",
	"#EDC948",
	"#B07AA1",
	"#FF9DA7",
}

// othersColor is the fixed neutral color of the Others bucket, regardless of
// its position.
const othersColor = "#9AA0A6"

// CategorySlice is one renderable segment of the bounded category breakdown.
type CategorySlice struct {
	Name  string
	Value decimal.Decimal
	Share decimal.Decimal // Percentage of total outflow
	Color string
}

// PresentationSummary carries the UI-ready metrics derived from a raw
// aggregate: secondary rates, the bounded category view and the trend series.
type PresentationSummary struct {
	TotalIn         decimal.Decimal
	TotalOut        decimal.Decimal
	Net             decimal.Decimal
	Count           int
	MaxIncome       decimal.Decimal
	MaxExpense      decimal.Decimal
	SavingsRate     decimal.Decimal // Percent, clamped at zero
	AvgPerDay       decimal.Decimal
	Categories      []CategorySlice
	DailyTrend      []TrendPoint
	Currency        string
	SkippedCurrency int
}

// Formatter derives presentation summaries from raw aggregates. It is kept
// separate from the aggregator so the raw output stays uncapped and reusable.
type Formatter struct {
	categoryCap int
}

// NewFormatter creates a new Formatter instance. A non-positive cap falls
// back to DefaultCategoryCap.
func NewFormatter(categoryCap int) *Formatter {
	if categoryCap <= 0 {
		categoryCap = DefaultCategoryCap
	}
	return &Formatter{categoryCap: categoryCap}
}

// FormatSummary computes the presentation metrics for one aggregate.
// Negative savings rates are clamped to zero: the product never shows an
// alarming negative percentage.
func (f *Formatter) FormatSummary(result *AggregateResult, dateRange DateRange) *PresentationSummary {
	hundred := decimal.NewFromInt(100)

	savingsRate := decimal.Zero
	if result.TotalIn.IsPositive() {
		savingsRate = result.TotalIn.Sub(result.TotalOut).Div(result.TotalIn).Mul(hundred)
		if savingsRate.IsNegative() {
			savingsRate = decimal.Zero
		}
	}

	days := dateRange.Days()
	if days < 1 {
		days = 1
	}
	avgPerDay := result.TotalOut.Div(decimal.NewFromInt(int64(days)))

	return &PresentationSummary{
		TotalIn:         result.TotalIn,
		TotalOut:        result.TotalOut,
		Net:             result.Net,
		Count:           result.Count,
		MaxIncome:       result.MaxIncome,
		MaxExpense:      result.MaxExpense,
		SavingsRate:     savingsRate,
		AvgPerDay:       avgPerDay,
		Categories:      f.boundedCategories(result),
		DailyTrend:      result.DailyTrend,
		Currency:        result.Currency,
		SkippedCurrency: result.SkippedCurrency,
	}
}

// boundedCategories sorts categories by descending total and collapses
// everything beyond the cap into a single Others bucket whose value is the
// sum of the collapsed categories. Ties break on name so the ordering, and
// therefore the positional colors, are deterministic.
func (f *Formatter) boundedCategories(result *AggregateResult) []CategorySlice {
	names := make([]string, 0, len(result.CategoryTotals))
	for name := range result.CategoryTotals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := result.CategoryTotals[names[i]], result.CategoryTotals[names[j]]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return names[i] < names[j]
	})

	slices := make([]CategorySlice, 0, f.categoryCap+1)
	others := decimal.Zero
	for i, name := range names {
		if i < f.categoryCap {
			slices = append(slices, CategorySlice{
				Name:  name,
				Value: result.CategoryTotals[name],
				Color: slicePalette[i%len(slicePalette)],
			})
			continue
		}
		others = others.Add(result.CategoryTotals[name])
	}

	if len(names) > f.categoryCap {
		slices = append(slices, CategorySlice{
			Name:  OthersCategory,
			Value: others,
			Color: othersColor,
		})
	}

	// Shares are relative to the full outflow, collapsed buckets included.
	if result.TotalOut.IsPositive() {
		hundred := decimal.NewFromInt(100)
		for i := range slices {
			slices[i].Share = slices[i].Value.Div(result.TotalOut).Mul(hundred)
		}
	} else {
		for i := range slices {
			slices[i].Share = decimal.Zero
		}
	}

	return slices
}
