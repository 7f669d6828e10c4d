package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/playlist-recommender/internal/domain/auth"
	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
	"github.com/yanqian/playlist-recommender/internal/infra/catalog/spotify"
	"github.com/yanqian/playlist-recommender/internal/infra/config"
	holidaymemory "github.com/yanqian/playlist-recommender/internal/infra/holiday/memory"
	"github.com/yanqian/playlist-recommender/internal/infra/holiday/nager"
	holidaypg "github.com/yanqian/playlist-recommender/internal/infra/holiday/postgres"
	"github.com/yanqian/playlist-recommender/internal/infra/resilience"
	"github.com/yanqian/playlist-recommender/internal/infra/searchcache"
	"github.com/yanqian/playlist-recommender/internal/infra/timeframestore"
	weathermemory "github.com/yanqian/playlist-recommender/internal/infra/weather/memory"
	"github.com/yanqian/playlist-recommender/internal/infra/weather/openmeteo"
)

func provideRecommendationConfig(cfg *config.Config) (recommendation.Config, error) {
	loc, err := time.LoadLocation(cfg.Recommendation.Timezone)
	if err != nil {
		return recommendation.Config{}, fmt.Errorf("load timezone: %w", err)
	}
	hemisphere, err := recommendation.ParseHemisphere(cfg.Recommendation.Hemisphere)
	if err != nil {
		return recommendation.Config{}, err
	}
	return recommendation.Config{
		Location:        loc,
		Hemisphere:      hemisphere,
		Regions:         cfg.Recommendation.Regions,
		DefaultLocation: cfg.Recommendation.DefaultLocation,
		SearchLimit:     cfg.Recommendation.SearchLimit,
		CacheTTL:        cfg.Catalog.CacheTTL,
	}, nil
}

func provideMapper(cfg *config.Config) (*recommendation.PlaylistCategoryMapper, error) {
	m := cfg.Recommendation.Mappings
	return recommendation.NewPlaylistCategoryMapper(recommendation.MappingOverrides{
		Weather:  m.Weather,
		Seasons:  m.Seasons,
		Months:   m.Months,
		Weekdays: m.Weekdays,
		Default:  m.Default,
	})
}

// valkeyConn carries the shared Valkey client; client is nil when Valkey is disabled or unreachable.
type valkeyConn struct {
	client valkey.Client
	prefix string
}

func provideValkey(cfg *config.Config, logger *slog.Logger) *valkeyConn {
	conn := &valkeyConn{prefix: cfg.Redis.KeyPrefix}
	if !cfg.Redis.Enabled {
		logger.Info("valkey disabled, using memory stores")
		return conn
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory stores", "error", err)
		return conn
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory stores", "error", err)
		return conn
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory stores", "error", err)
		client.Close()
		return conn
	}
	logger.Info("valkey enabled", "addr", cfg.Redis.Addr)
	conn.client = client
	return conn
}

func provideTimeframeStore(conn *valkeyConn, logger *slog.Logger) recommendation.TimeframeStore {
	if conn.client == nil {
		return timeframestore.NewMemoryStore()
	}
	logger.Info("timeframe valkey store enabled")
	return timeframestore.NewValkeyStore(conn.client, conn.prefix)
}

func provideSearchCache(conn *valkeyConn, logger *slog.Logger) recommendation.SearchCache {
	if conn.client == nil {
		return searchcache.NewMemoryCache()
	}
	logger.Info("search valkey cache enabled")
	return searchcache.NewValkeyCache(conn.client, conn.prefix)
}

// provideTimeframeConfig seeds from config, then restores the last persisted value.
func provideTimeframeConfig(cfg *config.Config, store recommendation.TimeframeStore, logger *slog.Logger) *recommendation.TimeframeConfig {
	initial, err := recommendation.NewTimeframe(cfg.Recommendation.Timeframe, cfg.Recommendation.TimeUnit)
	if err != nil {
		logger.Warn("configured timeframe invalid, using default", "error", err)
		initial = recommendation.DefaultTimeframe
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	stored, ok, err := store.Load(ctx)
	switch {
	case err != nil:
		logger.Error("failed to restore timeframe, using configured value", "error", err)
	case ok:
		logger.Info("timeframe restored", "timeframe", stored.String())
		initial = stored
	}
	return recommendation.NewTimeframeConfig(initial)
}

func provideWeatherProvider(cfg *config.Config, logger *slog.Logger) recommendation.WeatherProvider {
	unit := recommendation.TemperatureUnit(strings.ToLower(cfg.Weather.TemperatureUnit))
	var provider recommendation.WeatherProvider
	switch cfg.Weather.Provider {
	case "memory":
		mem := weathermemory.NewProvider()
		for name, static := range cfg.Weather.Static {
			mem.Set(name, recommendation.WeatherReading{RawCode: static.Condition, Temperature: static.Temperature, Unit: unit})
		}
		logger.Info("static weather provider enabled", "locations", len(cfg.Weather.Static))
		provider = mem
	default:
		locations := make(map[string]openmeteo.Coordinates, len(cfg.Weather.Locations))
		for name, loc := range cfg.Weather.Locations {
			locations[name] = openmeteo.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}
		}
		provider = openmeteo.NewClient(cfg.Weather.BaseURL, unit, locations, cfg.Weather.Timeout)
	}
	if !cfg.Breaker.Enabled {
		return provider
	}
	return resilience.NewWeatherProvider(provider, breakerSettings(cfg), logger)
}

func provideHolidayProvider(cfg *config.Config, logger *slog.Logger) recommendation.HolidayProvider {
	var provider recommendation.HolidayProvider
	switch cfg.Holidays.Provider {
	case "file":
		loaded, err := holidaymemory.LoadFile(cfg.Holidays.File)
		if err != nil {
			logger.Error("failed to load holiday file, no holidays will match", "file", cfg.Holidays.File, "error", err)
			loaded = holidaymemory.NewProvider(nil)
		}
		provider = loaded
	case "postgres":
		repo, err := newHolidayRepository(cfg)
		if err != nil {
			logger.Error("postgres holidays unavailable, falling back to nager", "error", err)
			provider = nager.NewClient(cfg.Holidays.BaseURL, cfg.Holidays.Timeout)
			break
		}
		logger.Info("postgres holiday repository enabled")
		if cfg.Holidays.File != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			seedHolidays(ctx, repo, cfg, time.Now(), logger)
			cancel()
		}
		provider = repo
	default:
		provider = nager.NewClient(cfg.Holidays.BaseURL, cfg.Holidays.Timeout)
	}
	if !cfg.Breaker.Enabled {
		return provider
	}
	return resilience.NewHolidayProvider(provider, breakerSettings(cfg), logger)
}

type holidaySeeder interface {
	Seed(ctx context.Context, holidays []recommendation.Holiday) (int, error)
}

// seedHolidays copies holidays.file into the repository for the current and
// next calendar year. Region-less entries are stored once per configured region.
func seedHolidays(ctx context.Context, seeder holidaySeeder, cfg *config.Config, now time.Time, logger *slog.Logger) {
	loaded, err := holidaymemory.LoadFile(cfg.Holidays.File)
	if err != nil {
		logger.Error("failed to load holiday seed file", "file", cfg.Holidays.File, "error", err)
		return
	}
	window := recommendation.DateRange{
		Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(now.Year()+1, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	holidays, err := loaded.UpcomingHolidays(ctx, cfg.Recommendation.Regions, window)
	if err != nil {
		logger.Error("failed to expand holiday seed file", "file", cfg.Holidays.File, "error", err)
		return
	}

	seed := make([]recommendation.Holiday, 0, len(holidays))
	for _, h := range holidays {
		if h.Region != "" {
			seed = append(seed, h)
			continue
		}
		for _, region := range cfg.Recommendation.Regions {
			if region = strings.ToUpper(strings.TrimSpace(region)); region != "" {
				h.Region = region
				seed = append(seed, h)
			}
		}
	}

	inserted, err := seeder.Seed(ctx, seed)
	if err != nil {
		logger.Error("holiday seed incomplete", "file", cfg.Holidays.File, "inserted", inserted, "error", err)
		return
	}
	logger.Info("holiday table seeded", "file", cfg.Holidays.File, "holidays", len(seed), "inserted", inserted)
}

func newHolidayRepository(cfg *config.Config) (*holidaypg.Repository, error) {
	dsn := strings.TrimSpace(cfg.Holidays.Postgres.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("holidays.postgres.dsn not set")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.Holidays.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Holidays.Postgres.MaxConns
	}
	if cfg.Holidays.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Holidays.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return holidaypg.NewRepository(pool), nil
}

// provideCatalog returns nil when search is disabled; recommendations then carry no playlists.
func provideCatalog(cfg *config.Config, logger *slog.Logger) recommendation.Catalog {
	if cfg.Catalog.Provider == "none" {
		logger.Info("catalog disabled")
		return nil
	}
	client, err := spotify.NewClient(spotify.Config{
		ClientID:     cfg.Catalog.ClientID,
		ClientSecret: cfg.Catalog.ClientSecret,
		TokenURL:     cfg.Catalog.TokenURL,
		BaseURL:      cfg.Catalog.BaseURL,
		Market:       cfg.Catalog.Market,
		Timeout:      cfg.Catalog.Timeout,
	})
	if err != nil {
		logger.Error("spotify catalog unavailable, recommendations will not include playlists", "error", err)
		return nil
	}
	if !cfg.Breaker.Enabled {
		return client
	}
	return resilience.NewCatalog(client, breakerSettings(cfg), logger)
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		Required: cfg.Auth.Required,
		TokenTTL: cfg.Auth.TokenTTL,
	}
}

func breakerSettings(cfg *config.Config) resilience.Settings {
	return resilience.Settings{
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout,
		Interval:    cfg.Breaker.Interval,
	}
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
