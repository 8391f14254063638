// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/pocketledger/backend/internal/application/usecase/stats"
)

// TrendPointResponse is one day of the outflow trend in API responses.
type TrendPointResponse struct {
	Label string `json:"label"`
	Date  string `json:"date"`
	Value string `json:"value"`
}

// CategorySliceResponse is one segment of the bounded category breakdown.
type CategorySliceResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Share string `json:"share"`
	Color string `json:"color"`
}

// SummaryRangeResponse describes the resolved date range of a summary.
type SummaryRangeResponse struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Unbounded bool      `json:"unbounded,omitempty"`
	Days      int       `json:"days"`
}

// StatsSummaryResponse represents the response for the stats summary endpoint.
type StatsSummaryResponse struct {
	Range           SummaryRangeResponse    `json:"range"`
	TotalIn         string                  `json:"total_in"`
	TotalOut        string                  `json:"total_out"`
	Net             string                  `json:"net"`
	Count           int                     `json:"count"`
	MaxIncome       string                  `json:"max_income"`
	MaxExpense      string                  `json:"max_expense"`
	SavingsRate     string                  `json:"savings_rate"`
	AvgPerDay       string                  `json:"avg_per_day"`
	Categories      []CategorySliceResponse `json:"categories"`
	DailyTrend      []TrendPointResponse    `json:"daily_trend"`
	Currency        string                  `json:"currency,omitempty"`
	SkippedCurrency int                     `json:"skipped_currency,omitempty"`
	Cached          bool                    `json:"cached,omitempty"`
}

// ToStatsSummaryResponse converts a summary output to its API representation.
func ToStatsSummaryResponse(output *stats.GetSummaryOutput) StatsSummaryResponse {
	summary := output.Summary

	categories := make([]CategorySliceResponse, len(summary.Categories))
	for i, slice := range summary.Categories {
		categories[i] = CategorySliceResponse{
			Name:  slice.Name,
			Value: slice.Value.String(),
			Share: slice.Share.StringFixed(2),
			Color: slice.Color,
		}
	}

	trend := make([]TrendPointResponse, len(summary.DailyTrend))
	for i, point := range summary.DailyTrend {
		trend[i] = TrendPointResponse{
			Label: point.Label,
			Date:  point.Day.Format("2006-01-02"),
			Value: point.Value.String(),
		}
	}

	return StatsSummaryResponse{
		Range: SummaryRangeResponse{
			Start:     output.Range.Start,
			End:       output.Range.End,
			Unbounded: output.Range.Unbounded,
			Days:      output.Range.Days(),
		},
		TotalIn:         summary.TotalIn.String(),
		TotalOut:        summary.TotalOut.String(),
		Net:             summary.Net.String(),
		Count:           summary.Count,
		MaxIncome:       summary.MaxIncome.String(),
		MaxExpense:      summary.MaxExpense.String(),
		SavingsRate:     summary.SavingsRate.StringFixed(2),
		AvgPerDay:       summary.AvgPerDay.StringFixed(2),
		Categories:      categories,
		DailyTrend:      trend,
		Currency:        summary.Currency,
		SkippedCurrency: summary.SkippedCurrency,
		Cached:          output.Cached,
	}
}
