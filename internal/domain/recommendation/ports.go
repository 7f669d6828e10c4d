package recommendation

import (
	"context"
	"time"
)

// WeatherProvider supplies the current condition for a configured location.
type WeatherProvider interface {
	CurrentCondition(ctx context.Context, location string) (WeatherReading, error)
}

// HolidayProvider supplies holidays for the given regions inside window,
// sorted by date ascending.
type HolidayProvider interface {
	UpcomingHolidays(ctx context.Context, regions []string, window DateRange) ([]Holiday, error)
}

// Catalog searches the external music catalog.
type Catalog interface {
	SearchPlaylists(ctx context.Context, query string, limit int) ([]Playlist, error)
}

// SearchCache remembers catalog results per query.
type SearchCache interface {
	Get(ctx context.Context, query string) ([]Playlist, bool, error)
	Save(ctx context.Context, query string, playlists []Playlist, ttl time.Duration) error
}

// TimeframeStore persists the lookahead window across restarts.
type TimeframeStore interface {
	Load(ctx context.Context) (Timeframe, bool, error)
	Save(ctx context.Context, tf Timeframe) error
}
