package booking

import (
	"math"
	"time"
)

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange builds a TimeRange, rejecting empty or inverted intervals.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps reports whether r and o intersect. Half-open semantics: a range
// ending exactly when another starts does not overlap it.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

// Contains reports whether t falls inside [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Hours returns the range length in hours at ledger precision.
func (r TimeRange) Hours() float64 {
	return RoundHours(r.Duration().Hours())
}

// RoundHours rounds an hour amount to the ledger's precision (two decimal
// places, which accommodates half-hour granularity). The same rounding is
// applied per booking when summing consumed quota, so the ledger balances.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
