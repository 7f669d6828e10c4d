package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

func TestUpcomingHolidaysQueriesWindow(t *testing.T) {
	mock := newMockPool(t)
	tokyo := time.FixedZone("JST", 9*60*60)
	window := recommendation.DateRange{
		Start: time.Date(2024, 12, 20, 0, 0, 0, 0, tokyo),
		End:   time.Date(2025, 1, 3, 0, 0, 0, 0, tokyo),
	}

	mock.ExpectQuery(`SELECT region, name, holiday_date\s+FROM holidays\s+WHERE region = ANY\(\$1\)\s+AND holiday_date BETWEEN \$2 AND \$3`).
		WithArgs([]string{"JP", "US"}, "2024-12-20", "2025-01-03").
		WillReturnRows(pgxmock.NewRows([]string{"region", "name", "holiday_date"}).
			AddRow("US", "Christmas Day", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)).
			AddRow("JP", "New Year's Day", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	got, err := NewRepository(mock).UpcomingHolidays(context.Background(), []string{" jp", "", "us "}, window)
	require.NoError(t, err)
	require.Equal(t, []recommendation.Holiday{
		{Name: "Christmas Day", Date: time.Date(2024, 12, 25, 0, 0, 0, 0, tokyo), Region: "US"},
		{Name: "New Year's Day", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, tokyo), Region: "JP"},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpcomingHolidaysWithoutRegionsSkipsQuery(t *testing.T) {
	mock := newMockPool(t)

	got, err := NewRepository(mock).UpcomingHolidays(context.Background(), []string{" "}, recommendation.DateRange{})
	require.NoError(t, err)
	require.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpcomingHolidaysQueryError(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT region, name, holiday_date").
		WillReturnError(errors.New("connection refused"))

	_, err := NewRepository(mock).UpcomingHolidays(context.Background(), []string{"US"}, recommendation.DateRange{
		Start: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorContains(t, err, "query holidays")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpcomingHolidaysRowError(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT region, name, holiday_date").
		WillReturnRows(pgxmock.NewRows([]string{"region", "name", "holiday_date"}).
			AddRow("US", "Independence Day", time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)).
			RowError(0, errors.New("broken row")))

	_, err := NewRepository(mock).UpcomingHolidays(context.Background(), []string{"US"}, recommendation.DateRange{
		Start: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
}

func TestSeedInsertsNormalisedHolidays(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec(`INSERT INTO holidays \(region, name, holiday_date\)`).
		WithArgs("SE", "Midsommarafton", "2025-06-20").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO holidays`).
		WithArgs("SE", "Juldagen", "2025-12-25").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	inserted, err := NewRepository(mock).Seed(context.Background(), []recommendation.Holiday{
		{Region: " se", Name: "Midsommarafton ", Date: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)},
		{Region: "", Name: "Unlabelled", Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{Region: "SE", Name: " ", Date: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)},
		{Region: "SE", Name: "Juldagen", Date: time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedStopsOnError(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec("INSERT INTO holidays").
		WithArgs("DE", "Neujahr", "2025-01-01").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO holidays").
		WithArgs("DE", "Karfreitag", "2025-04-18").
		WillReturnError(errors.New("relation \"holidays\" does not exist"))

	inserted, err := NewRepository(mock).Seed(context.Background(), []recommendation.Holiday{
		{Region: "DE", Name: "Neujahr", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Region: "DE", Name: "Karfreitag", Date: time.Date(2025, 4, 18, 0, 0, 0, 0, time.UTC)},
		{Region: "DE", Name: "Ostermontag", Date: time.Date(2025, 4, 21, 0, 0, 0, 0, time.UTC)},
	})
	require.ErrorContains(t, err, "Karfreitag")
	require.Equal(t, 1, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeRegions(t *testing.T) {
	require.Equal(t, []string{"US", "GB"}, normalizeRegions([]string{" us", "", "gb "}))
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}
