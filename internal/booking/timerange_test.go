package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) TimeRange {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	r, err := NewTimeRange(s, e)
	require.NoError(t, err)
	return r
}

func TestNewTimeRange_RejectsEmptyAndInverted(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := NewTimeRange(at, at)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = NewTimeRange(at, at.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = NewTimeRange(at, at.Add(time.Minute))
	assert.NoError(t, err)
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := mustRange(t, "2026-03-10T09:00:00Z", "2026-03-10T12:00:00Z")

	tests := []struct {
		name    string
		other   TimeRange
		overlap bool
	}{
		{"identical", mustRange(t, "2026-03-10T09:00:00Z", "2026-03-10T12:00:00Z"), true},
		{"contained", mustRange(t, "2026-03-10T10:00:00Z", "2026-03-10T11:00:00Z"), true},
		{"straddles start", mustRange(t, "2026-03-10T08:00:00Z", "2026-03-10T10:00:00Z"), true},
		{"straddles end", mustRange(t, "2026-03-10T11:00:00Z", "2026-03-10T13:00:00Z"), true},
		{"covers", mustRange(t, "2026-03-10T08:00:00Z", "2026-03-10T13:00:00Z"), true},
		{"adjacent before", mustRange(t, "2026-03-10T07:00:00Z", "2026-03-10T09:00:00Z"), false},
		{"adjacent after", mustRange(t, "2026-03-10T12:00:00Z", "2026-03-10T14:00:00Z"), false},
		{"disjoint", mustRange(t, "2026-03-11T09:00:00Z", "2026-03-11T12:00:00Z"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, base.Overlaps(tt.other))
			assert.Equal(t, tt.overlap, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestTimeRange_Contains(t *testing.T) {
	r := mustRange(t, "2026-03-10T09:00:00Z", "2026-03-10T12:00:00Z")

	assert.True(t, r.Contains(r.Start), "start is inclusive")
	assert.True(t, r.Contains(r.Start.Add(90*time.Minute)))
	assert.False(t, r.Contains(r.End), "end is exclusive")
	assert.False(t, r.Contains(r.Start.Add(-time.Second)))
}

func TestTimeRange_Hours(t *testing.T) {
	assert.Equal(t, 3.0, mustRange(t, "2026-03-10T09:00:00Z", "2026-03-10T12:00:00Z").Hours())
	assert.Equal(t, 1.5, mustRange(t, "2026-03-10T09:00:00Z", "2026-03-10T10:30:00Z").Hours())
	assert.Equal(t, 0.25, mustRange(t, "2026-03-10T09:00:00Z", "2026-03-10T09:15:00Z").Hours())
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 2.5, RoundHours(2.5))
	assert.Equal(t, 0.33, RoundHours(1.0/3.0))
	assert.Equal(t, 1.67, RoundHours(5.0/3.0))
	assert.Equal(t, 0.0, RoundHours(0.001))
}
