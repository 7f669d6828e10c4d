package recommendation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWindowFor(t *testing.T) {
	cases := []struct {
		name  string
		today time.Time
		tf    Timeframe
		end   time.Time
	}{
		{"days", date(2024, 12, 20), Timeframe{7, Days}, date(2024, 12, 27)},
		{"days across year", date(2024, 12, 30), Timeframe{3, Days}, date(2025, 1, 2)},
		{"weeks", date(2024, 2, 20), Timeframe{2, Weeks}, date(2024, 3, 5)},
		{"months leap clamp", date(2024, 1, 31), Timeframe{1, Months}, date(2024, 2, 29)},
		{"months non-leap clamp", date(2023, 1, 31), Timeframe{1, Months}, date(2023, 2, 28)},
		{"months to 30 day month", date(2024, 3, 31), Timeframe{1, Months}, date(2024, 4, 30)},
		{"months across year", date(2024, 11, 15), Timeframe{3, Months}, date(2025, 2, 15)},
		{"months no clamp", date(2024, 5, 10), Timeframe{1, Months}, date(2024, 6, 10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			window := WindowFor(tc.today, tc.tf)
			require.Equal(t, tc.today, window.Start)
			require.Equal(t, tc.end, window.End)
		})
	}
}

func TestWindowForTruncatesClock(t *testing.T) {
	today := time.Date(2024, 12, 20, 18, 45, 0, 0, time.UTC)
	window := WindowFor(today, Timeframe{1, Days})
	require.Equal(t, date(2024, 12, 20), window.Start)
	require.Equal(t, date(2024, 12, 21), window.End)
}

func TestDateRangeContainsIsInclusive(t *testing.T) {
	window := DateRange{Start: date(2024, 12, 20), End: date(2024, 12, 27)}
	require.True(t, window.Contains(date(2024, 12, 20)))
	require.True(t, window.Contains(date(2024, 12, 27)))
	require.True(t, window.Contains(time.Date(2024, 12, 27, 23, 0, 0, 0, time.UTC)))
	require.False(t, window.Contains(date(2024, 12, 19)))
	require.False(t, window.Contains(date(2024, 12, 28)))
}

func TestDateRangeMarshalJSON(t *testing.T) {
	window := DateRange{Start: date(2024, 1, 31), End: date(2024, 2, 29)}
	data, err := window.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"start":"2024-01-31","end":"2024-02-29"}`, string(data))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
