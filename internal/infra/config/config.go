package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	Recommendation RecommendationConfig `yaml:"recommendation"`
	Weather        WeatherConfig        `yaml:"weather"`
	Holidays       HolidaysConfig       `yaml:"holidays"`
	Catalog        CatalogConfig        `yaml:"catalog"`
	Redis          RedisConfig          `yaml:"redis"`
	Auth           AuthConfig           `yaml:"auth"`
	Breaker        BreakerConfig        `yaml:"breaker"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// RecommendationConfig drives category resolution.
type RecommendationConfig struct {
	Timezone        string         `yaml:"timezone"`
	Hemisphere      string         `yaml:"hemisphere"`
	Regions         []string       `yaml:"regions"`
	DefaultLocation string         `yaml:"defaultLocation"`
	Timeframe       int            `yaml:"timeframe"`
	TimeUnit        string         `yaml:"timeUnit"`
	SearchLimit     int            `yaml:"searchLimit"`
	Mappings        MappingsConfig `yaml:"mappings"`
}

// MappingsConfig overrides the built-in category to search string tables.
// An empty value removes an entry.
type MappingsConfig struct {
	Weather  map[string]map[string]string `yaml:"weather"`
	Seasons  map[string]string            `yaml:"seasons"`
	Months   map[string]string            `yaml:"months"`
	Weekdays map[string]string            `yaml:"weekdays"`
	Default  string                       `yaml:"default"`
}

// WeatherConfig selects and configures the weather provider.
type WeatherConfig struct {
	Provider        string                    `yaml:"provider"`
	BaseURL         string                    `yaml:"baseUrl"`
	Timeout         time.Duration             `yaml:"timeout"`
	TemperatureUnit string                    `yaml:"temperatureUnit"`
	Locations       map[string]LocationConfig `yaml:"locations"`
	Static          map[string]StaticReading  `yaml:"static"`
}

// LocationConfig pins a named location to coordinates.
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// StaticReading is a fixed reading served by the memory weather provider.
type StaticReading struct {
	Condition   string   `yaml:"condition"`
	Temperature *float64 `yaml:"temperature"`
}

// HolidaysConfig selects and configures the holiday provider.
type HolidaysConfig struct {
	Provider string         `yaml:"provider"`
	BaseURL  string         `yaml:"baseUrl"`
	Timeout  time.Duration  `yaml:"timeout"`
	File     string         `yaml:"file"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// CatalogConfig configures the music catalog search.
type CatalogConfig struct {
	Provider     string        `yaml:"provider"`
	ClientID     string        `yaml:"clientId"`
	ClientSecret string        `yaml:"clientSecret"`
	TokenURL     string        `yaml:"tokenUrl"`
	BaseURL      string        `yaml:"baseUrl"`
	Market       string        `yaml:"market"`
	Timeout      time.Duration `yaml:"timeout"`
	CacheTTL     time.Duration `yaml:"cacheTtl"`
}

// RedisConfig contains connection information for the timeframe store and search cache.
type RedisConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// AuthConfig controls bearer token verification.
type AuthConfig struct {
	Required bool          `yaml:"required"`
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"tokenTtl"`
}

// BreakerConfig tunes the circuit breakers around upstream providers.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"maxFailures"`
	OpenTimeout time.Duration `yaml:"openTimeout"`
	Interval    time.Duration `yaml:"interval"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("RECOMMENDATION_TIMEZONE"); v != "" {
		cfg.Recommendation.Timezone = v
	}
	if v := os.Getenv("RECOMMENDATION_HEMISPHERE"); v != "" {
		cfg.Recommendation.Hemisphere = v
	}
	if v := os.Getenv("RECOMMENDATION_REGIONS"); v != "" {
		cfg.Recommendation.Regions = splitList(v)
	}
	if v := os.Getenv("RECOMMENDATION_DEFAULT_LOCATION"); v != "" {
		cfg.Recommendation.DefaultLocation = v
	}
	if v := os.Getenv("RECOMMENDATION_TIMEFRAME"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommendation.Timeframe = parsed
		}
	}
	if v := os.Getenv("RECOMMENDATION_TIME_UNIT"); v != "" {
		cfg.Recommendation.TimeUnit = v
	}
	if v := os.Getenv("RECOMMENDATION_SEARCH_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommendation.SearchLimit = parsed
		}
	}
	if v := os.Getenv("WEATHER_PROVIDER"); v != "" {
		cfg.Weather.Provider = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_TEMPERATURE_UNIT"); v != "" {
		cfg.Weather.TemperatureUnit = v
	}
	if v := os.Getenv("HOLIDAYS_PROVIDER"); v != "" {
		cfg.Holidays.Provider = v
	}
	if v := os.Getenv("HOLIDAYS_BASE_URL"); v != "" {
		cfg.Holidays.BaseURL = v
	}
	if v := os.Getenv("HOLIDAYS_FILE"); v != "" {
		cfg.Holidays.File = v
	}
	if v := os.Getenv("HOLIDAYS_POSTGRES_DSN"); v != "" {
		cfg.Holidays.Postgres.DSN = v
	}
	if v := os.Getenv("HOLIDAYS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Holidays.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("CATALOG_PROVIDER"); v != "" {
		cfg.Catalog.Provider = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		cfg.Catalog.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		cfg.Catalog.ClientSecret = v
	}
	if v := os.Getenv("CATALOG_MARKET"); v != "" {
		cfg.Catalog.Market = v
	}
	if v := os.Getenv("CATALOG_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Catalog.CacheTTL = parsed
		}
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		cfg.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("AUTH_REQUIRED"); v != "" {
		cfg.Auth.Required = parseBool(v)
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("BREAKER_ENABLED"); v != "" {
		cfg.Breaker.Enabled = parseBool(v)
	}
	if v := os.Getenv("BREAKER_MAX_FAILURES"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.Breaker.MaxFailures = uint32(parsed)
		}
	}
	if v := os.Getenv("BREAKER_OPEN_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Breaker.OpenTimeout = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/timeframe",
				},
			},
		},
		Recommendation: RecommendationConfig{
			Timezone:    "UTC",
			Hemisphere:  "north",
			Regions:     []string{"US"},
			Timeframe:   7,
			TimeUnit:    "days",
			SearchLimit: 48,
		},
		Weather: WeatherConfig{
			Provider:        "openmeteo",
			BaseURL:         "https://api.open-meteo.com/v1/forecast",
			Timeout:         5 * time.Second,
			TemperatureUnit: "celsius",
		},
		Holidays: HolidaysConfig{
			Provider: "nager",
			BaseURL:  "https://date.nager.at/api/v3",
			Timeout:  5 * time.Second,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Catalog: CatalogConfig{
			Provider: "spotify",
			TokenURL: "https://accounts.spotify.com/api/token",
			Timeout:  10 * time.Second,
			CacheTTL: time.Hour,
		},
		Redis: RedisConfig{
			KeyPrefix: "playlist-recommender",
		},
		Auth: AuthConfig{
			Issuer:   "playlist-recommender",
			TokenTTL: 24 * time.Hour,
		},
		Breaker: BreakerConfig{
			Enabled:     true,
			MaxFailures: 3,
			OpenTimeout: 30 * time.Second,
			Interval:    time.Minute,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if _, err := time.LoadLocation(c.Recommendation.Timezone); err != nil {
		return fmt.Errorf("recommendation.timezone: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Recommendation.Hemisphere)) {
	case "north", "northern", "south", "southern", "equator", "equatorial":
	default:
		return fmt.Errorf("recommendation.hemisphere %q must be north, south or equator", c.Recommendation.Hemisphere)
	}
	if len(c.Recommendation.Regions) == 0 {
		return errors.New("recommendation.regions cannot be empty")
	}
	if c.Recommendation.SearchLimit <= 0 || c.Recommendation.SearchLimit > 50 {
		return errors.New("recommendation.searchLimit must be between 1 and 50")
	}
	switch strings.ToLower(c.Weather.TemperatureUnit) {
	case "celsius", "fahrenheit":
	default:
		return fmt.Errorf("weather.temperatureUnit %q must be celsius or fahrenheit", c.Weather.TemperatureUnit)
	}
	switch c.Weather.Provider {
	case "openmeteo":
		if strings.TrimSpace(c.Weather.BaseURL) == "" {
			return errors.New("weather.baseUrl cannot be empty")
		}
	case "memory":
	default:
		return fmt.Errorf("weather.provider %q must be openmeteo or memory", c.Weather.Provider)
	}
	switch c.Holidays.Provider {
	case "nager":
		if strings.TrimSpace(c.Holidays.BaseURL) == "" {
			return errors.New("holidays.baseUrl cannot be empty")
		}
	case "postgres", "file":
	default:
		return fmt.Errorf("holidays.provider %q must be nager, postgres or file", c.Holidays.Provider)
	}
	switch c.Catalog.Provider {
	case "spotify", "none":
	default:
		return fmt.Errorf("catalog.provider %q must be spotify or none", c.Catalog.Provider)
	}
	if c.Catalog.CacheTTL < 0 {
		return errors.New("catalog.cacheTtl cannot be negative")
	}
	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("redis.addr cannot be empty when redis is enabled")
	}
	if c.Auth.Required && strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty when auth is required")
	}
	if c.Breaker.Enabled {
		if c.Breaker.MaxFailures == 0 {
			return errors.New("breaker.maxFailures must be positive")
		}
		if c.Breaker.OpenTimeout <= 0 {
			return errors.New("breaker.openTimeout must be positive")
		}
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
