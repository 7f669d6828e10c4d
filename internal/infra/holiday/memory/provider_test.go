package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

const sampleFile = `
holidays:
  - region: us
    name: Christmas
    date: "12-25"
  - region: US
    name: New Year's Day
    date: "01-01"
  - region: GB
    name: Boxing Day
    date: "12-26"
  - region: US
    name: Leap Party
    date: "02-29"
  - region: US
    name: Launch Day
    date: "2025-01-03"
`

func window(start, end time.Time) recommendation.DateRange {
	return recommendation.DateRange{Start: start, End: end}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseAndFilterAcrossYearBoundary(t *testing.T) {
	provider, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	got, err := provider.UpcomingHolidays(context.Background(), []string{"US"}, window(day(2024, 12, 24), day(2025, 1, 5)))
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, h := range got {
		names = append(names, h.Name)
	}
	require.Equal(t, []string{"Christmas", "New Year's Day", "Launch Day"}, names)
	require.Equal(t, day(2024, 12, 25), got[0].Date)
	require.Equal(t, "US", got[0].Region)
}

func TestRegionsAreFiltered(t *testing.T) {
	provider, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	got, err := provider.UpcomingHolidays(context.Background(), []string{"gb"}, window(day(2024, 12, 20), day(2024, 12, 31)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Boxing Day", got[0].Name)
}

func TestRecurringLeapDay(t *testing.T) {
	provider, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	got, err := provider.UpcomingHolidays(context.Background(), []string{"US"}, window(day(2023, 2, 27), day(2023, 3, 2)))
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = provider.UpcomingHolidays(context.Background(), []string{"US"}, window(day(2024, 2, 27), day(2024, 3, 2)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, day(2024, 2, 29), got[0].Date)
}

func TestParseRejectsBadEntries(t *testing.T) {
	_, err := Parse([]byte("holidays:\n  - region: US\n    date: \"12-25\"\n"))
	require.Error(t, err)

	_, err = Parse([]byte("holidays:\n  - region: US\n    name: Someday\n    date: soon\n"))
	require.Error(t, err)
}
