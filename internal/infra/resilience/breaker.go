package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

// Settings tunes a provider circuit breaker.
type Settings struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial request.
	OpenTimeout time.Duration
	// Interval resets failure counts while closed. Zero keeps counts until a state change.
	Interval time.Duration
}

func newBreaker[T any](name string, s Settings, logger *slog.Logger) *gobreaker.CircuitBreaker[T] {
	maxFailures := s.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
		// a caller giving up is not an upstream failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// rejected converts breaker refusals into provider unavailability.
func rejected(name string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: %w", name, recommendation.ErrProviderUnavailable, err)
	}
	return err
}

// WeatherProvider guards a weather provider with a circuit breaker.
type WeatherProvider struct {
	next recommendation.WeatherProvider
	cb   *gobreaker.CircuitBreaker[recommendation.WeatherReading]
}

// NewWeatherProvider wraps next.
func NewWeatherProvider(next recommendation.WeatherProvider, s Settings, logger *slog.Logger) *WeatherProvider {
	return &WeatherProvider{
		next: next,
		cb:   newBreaker[recommendation.WeatherReading]("weather-provider", s, logger.With("component", "resilience.weather")),
	}
}

func (p *WeatherProvider) CurrentCondition(ctx context.Context, location string) (recommendation.WeatherReading, error) {
	reading, err := p.cb.Execute(func() (recommendation.WeatherReading, error) {
		return p.next.CurrentCondition(ctx, location)
	})
	return reading, rejected(p.cb.Name(), err)
}

// HolidayProvider guards a holiday provider with a circuit breaker.
type HolidayProvider struct {
	next recommendation.HolidayProvider
	cb   *gobreaker.CircuitBreaker[[]recommendation.Holiday]
}

// NewHolidayProvider wraps next.
func NewHolidayProvider(next recommendation.HolidayProvider, s Settings, logger *slog.Logger) *HolidayProvider {
	return &HolidayProvider{
		next: next,
		cb:   newBreaker[[]recommendation.Holiday]("holiday-provider", s, logger.With("component", "resilience.holiday")),
	}
}

func (p *HolidayProvider) UpcomingHolidays(ctx context.Context, regions []string, window recommendation.DateRange) ([]recommendation.Holiday, error) {
	holidays, err := p.cb.Execute(func() ([]recommendation.Holiday, error) {
		return p.next.UpcomingHolidays(ctx, regions, window)
	})
	return holidays, rejected(p.cb.Name(), err)
}

// Catalog guards the playlist catalog with a circuit breaker.
type Catalog struct {
	next recommendation.Catalog
	cb   *gobreaker.CircuitBreaker[[]recommendation.Playlist]
}

// NewCatalog wraps next.
func NewCatalog(next recommendation.Catalog, s Settings, logger *slog.Logger) *Catalog {
	return &Catalog{
		next: next,
		cb:   newBreaker[[]recommendation.Playlist]("catalog", s, logger.With("component", "resilience.catalog")),
	}
}

func (c *Catalog) SearchPlaylists(ctx context.Context, query string, limit int) ([]recommendation.Playlist, error) {
	playlists, err := c.cb.Execute(func() ([]recommendation.Playlist, error) {
		return c.next.SearchPlaylists(ctx, query, limit)
	})
	return playlists, rejected(c.cb.Name(), err)
}

var (
	_ recommendation.WeatherProvider = (*WeatherProvider)(nil)
	_ recommendation.HolidayProvider = (*HolidayProvider)(nil)
	_ recommendation.Catalog         = (*Catalog)(nil)
)
