// Package stats contains the aggregation use cases: range resolution,
// streaming aggregation, run cancellation and presentation formatting.
package stats

import (
	"time"

	domainerror "github.com/pocketledger/backend/internal/domain/error"
)

// RangeFilter names a semantic date window selectable in the app.
type RangeFilter string

const (
	FilterToday      RangeFilter = "today"
	FilterDay        RangeFilter = "day"
	FilterWeek       RangeFilter = "week"
	FilterMonth      RangeFilter = "month"
	FilterYear       RangeFilter = "year"
	FilterLast7Days  RangeFilter = "7days"
	FilterLast30Days RangeFilter = "30days"
	FilterCustom     RangeFilter = "custom"
	FilterAll        RangeFilter = "all"
)

// DateRange is the inclusive date window an aggregation is scoped to.
// It is a plain immutable value: Start <= End always holds.
type DateRange struct {
	Start     time.Time
	End       time.Time
	Unbounded bool // True for the "all" filter
}

// CustomBounds carries the explicit picker dates for the custom filter.
type CustomBounds struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive day count of the range.
func (r DateRange) Days() int {
	start := startOfDay(r.Start)
	end := startOfDay(r.End)
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// Contains reports whether the instant falls within the inclusive range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ResolveRange translates a semantic filter plus a pivot date into a concrete
// inclusive date range. The resolver is pure: "now" is injected rather than
// read from the system clock, so identical inputs always produce identical
// ranges. Calendar filters align to full day boundaries. Reversed custom
// bounds are swapped rather than rejected, matching the auto-correcting
// behavior of the date pickers feeding this API.
func ResolveRange(filter RangeFilter, pivot time.Time, custom *CustomBounds, now time.Time) (DateRange, error) {
	switch filter {
	case FilterToday:
		return DateRange{Start: startOfDay(now), End: endOfDay(now)}, nil

	case FilterDay:
		return DateRange{Start: startOfDay(pivot), End: endOfDay(pivot)}, nil

	case FilterWeek:
		weekStart := startOfWeek(pivot)
		return DateRange{Start: weekStart, End: endOfDay(weekStart.AddDate(0, 0, 6))}, nil

	case FilterMonth:
		monthStart := time.Date(pivot.Year(), pivot.Month(), 1, 0, 0, 0, 0, pivot.Location())
		return DateRange{Start: monthStart, End: endOfDay(monthStart.AddDate(0, 1, -1))}, nil

	case FilterYear:
		yearStart := time.Date(pivot.Year(), time.January, 1, 0, 0, 0, 0, pivot.Location())
		return DateRange{Start: yearStart, End: endOfDay(time.Date(pivot.Year(), time.December, 31, 0, 0, 0, 0, pivot.Location()))}, nil

	case FilterLast7Days:
		// Rolling window ending now, not pivot.
		return DateRange{Start: startOfDay(now.AddDate(0, 0, -6)), End: endOfDay(now)}, nil

	case FilterLast30Days:
		return DateRange{Start: startOfDay(now.AddDate(0, 0, -29)), End: endOfDay(now)}, nil

	case FilterCustom:
		if custom == nil || custom.Start.IsZero() || custom.End.IsZero() {
			return DateRange{}, domainerror.NewStatsError(
				domainerror.ErrCodeMissingCustomBounds,
				"custom filter requires start and end dates",
				domainerror.ErrMissingCustomBounds,
			)
		}
		start, end := custom.Start, custom.End
		if end.Before(start) {
			start, end = end, start
		}
		return DateRange{Start: startOfDay(start), End: endOfDay(end)}, nil

	case FilterAll:
		return DateRange{Start: time.Unix(0, 0).UTC(), End: now, Unbounded: true}, nil

	default:
		return DateRange{}, domainerror.NewStatsError(
			domainerror.ErrCodeUnknownFilter,
			"unsupported range filter: "+string(filter),
			domainerror.ErrUnknownFilter,
		)
	}
}

// startOfDay returns midnight of the day containing the given instant.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last nanosecond of the day containing the given instant.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// startOfWeek returns midnight of the Monday of the week containing the given date.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is 7
	}
	return time.Date(t.Year(), t.Month(), t.Day()-(weekday-1), 0, 0, 0, 0, t.Location())
}
