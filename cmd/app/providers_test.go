package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
	"github.com/yanqian/playlist-recommender/internal/infra/config"
	"github.com/yanqian/playlist-recommender/internal/infra/timeframestore"
)

func testConfig() *config.Config {
	return &config.Config{
		Recommendation: config.RecommendationConfig{
			Timezone:    "Australia/Sydney",
			Hemisphere:  "Southern",
			Regions:     []string{"AU"},
			Timeframe:   10,
			TimeUnit:    "days",
			SearchLimit: 48,
		},
	}
}

func TestProvideTimeframeConfigRestoresPersistedValue(t *testing.T) {
	store := timeframestore.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), recommendation.Timeframe{Amount: 1, Unit: recommendation.Months}))

	tf := provideTimeframeConfig(testConfig(), store, discardLogger())
	require.Equal(t, recommendation.Timeframe{Amount: 1, Unit: recommendation.Months}, tf.Get())
}

func TestProvideTimeframeConfigUsesConfiguredValue(t *testing.T) {
	tf := provideTimeframeConfig(testConfig(), timeframestore.NewMemoryStore(), discardLogger())
	require.Equal(t, recommendation.Timeframe{Amount: 10, Unit: recommendation.Days}, tf.Get())

	cfg := testConfig()
	cfg.Recommendation.TimeUnit = "fortnights"
	tf = provideTimeframeConfig(cfg, timeframestore.NewMemoryStore(), discardLogger())
	require.Equal(t, recommendation.DefaultTimeframe, tf.Get())
}

func TestProvideRecommendationConfig(t *testing.T) {
	rc, err := provideRecommendationConfig(testConfig())
	require.NoError(t, err)
	require.Equal(t, recommendation.South, rc.Hemisphere)
	require.Equal(t, "Australia/Sydney", rc.Location.String())
	require.Equal(t, 48, rc.SearchLimit)
}

func TestProvideMapperAppliesOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Recommendation.Mappings.Default = "House Party"
	mapper, err := provideMapper(cfg)
	require.NoError(t, err)

	query, err := mapper.Map(recommendation.DefaultCategory())
	require.NoError(t, err)
	require.Equal(t, "House Party", query)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type seederStub struct {
	seeded []recommendation.Holiday
	err    error
}

func (s *seederStub) Seed(_ context.Context, holidays []recommendation.Holiday) (int, error) {
	s.seeded = append(s.seeded, holidays...)
	return len(holidays), s.err
}

func TestSeedHolidaysExpandsFileForTwoYears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
holidays:
  - region: au
    name: Australia Day
    date: "01-26"
  - name: Christmas Day
    date: "12-25"
  - region: au
    name: One-off Festival
    date: "2026-03-14"
  - region: nz
    name: Waitangi Day
    date: "02-06"
`), 0o600))
	cfg := testConfig()
	cfg.Holidays.File = path
	seeder := &seederStub{}

	seedHolidays(context.Background(), seeder, cfg, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), discardLogger())

	var got []string
	for _, h := range seeder.seeded {
		got = append(got, h.Region+" "+h.Date.Format("2006-01-02")+" "+h.Name)
	}
	require.ElementsMatch(t, []string{
		"AU 2026-01-26 Australia Day",
		"AU 2027-01-26 Australia Day",
		"AU 2026-03-14 One-off Festival",
		"AU 2026-12-25 Christmas Day",
		"AU 2027-12-25 Christmas Day",
	}, got)
}

func TestSeedHolidaysSkipsMissingFile(t *testing.T) {
	cfg := testConfig()
	cfg.Holidays.File = filepath.Join(t.TempDir(), "missing.yaml")
	seeder := &seederStub{}

	seedHolidays(context.Background(), seeder, cfg, time.Now(), discardLogger())
	require.Empty(t, seeder.seeded)
}
