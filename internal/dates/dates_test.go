package dates_test

import (
	"testing"
	"time"

	"github.com/mhutchens/taskbridge/internal/dates"
	"github.com/stretchr/testify/require"
)

func TestRelative_Today(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	w, ok := dates.Relative(dates.Today, now, time.UTC)
	require.True(t, ok)

	require.True(t, w.Contains(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	require.True(t, w.Contains(time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)))
	require.False(t, w.Contains(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)))
	require.False(t, w.Contains(time.Date(2024, 3, 14, 23, 59, 59, 0, time.UTC)))
}

func TestRelative_Tomorrow(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	w, ok := dates.Relative(dates.Tomorrow, now, time.UTC)
	require.True(t, ok)

	require.False(t, w.Contains(now))
	require.True(t, w.Contains(time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)))
	require.False(t, w.Contains(time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)))
}

func TestRelative_ThisWeekIncludesToday(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	w, ok := dates.Relative(dates.ThisWeek, now, time.UTC)
	require.True(t, ok)

	require.True(t, w.Contains(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)))
	require.True(t, w.Contains(time.Date(2024, 3, 21, 23, 0, 0, 0, time.UTC)))
	require.False(t, w.Contains(time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC)))
}

func TestRelative_NextWeekAdjoinsThisWeek(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	this, _ := dates.Relative(dates.ThisWeek, now, time.UTC)
	next, ok := dates.Relative(dates.NextWeek, now, time.UTC)
	require.True(t, ok)

	require.Equal(t, this.End, next.Start)
	require.True(t, next.Contains(time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC)))
	require.False(t, next.Contains(time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)))
}

func TestRelative_Overdue(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	w, ok := dates.Relative(dates.Overdue, now, time.UTC)
	require.True(t, ok)

	require.True(t, w.Contains(now.Add(-time.Minute)))
	require.False(t, w.Contains(now))
	require.False(t, w.Contains(now.Add(time.Hour)))
}

func TestRelative_UnknownToken(t *testing.T) {
	_, ok := dates.Relative("someday", time.Now(), time.UTC)
	require.False(t, ok)
}

func TestBuckets_Disjoint(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	b := dates.Buckets(now, time.UTC)

	endOfToday := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	require.Equal(t, endOfToday, b.Today.End)
	require.Equal(t, endOfToday, b.Week.Start)

	// No instant lands in both buckets.
	probe := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)
	require.True(t, b.Today.Contains(probe))
	require.False(t, b.Week.Contains(probe))

	probe = time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC)
	require.False(t, b.Today.Contains(probe))
	require.True(t, b.Week.Contains(probe))

	// The week bucket closes seven days out from the start of today.
	require.False(t, b.Week.Contains(time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC)))
}

func TestStartOfDay_RespectsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:00 UTC on the 15th is still the 14th in New York.
	now := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	day := dates.StartOfDay(now, loc)
	require.Equal(t, 14, day.Day())
}
