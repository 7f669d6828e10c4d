package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

// Provider serves fixed readings, keyed by location. Used for local runs and
// when no weather API is configured.
type Provider struct {
	mu       sync.RWMutex
	readings map[string]recommendation.WeatherReading
	now      func() time.Time
}

// NewProvider builds an empty provider.
func NewProvider() *Provider {
	return &Provider{
		readings: make(map[string]recommendation.WeatherReading),
		now:      time.Now,
	}
}

// Set records the reading returned for location.
func (p *Provider) Set(location string, reading recommendation.WeatherReading) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readings[strings.ToLower(strings.TrimSpace(location))] = reading
}

// CurrentCondition implements recommendation.WeatherProvider.
func (p *Provider) CurrentCondition(_ context.Context, location string) (recommendation.WeatherReading, error) {
	p.mu.RLock()
	reading, ok := p.readings[strings.ToLower(strings.TrimSpace(location))]
	p.mu.RUnlock()
	if !ok {
		return recommendation.WeatherReading{}, fmt.Errorf("no reading for location %q", location)
	}
	reading.Location = location
	if reading.ObservedAt.IsZero() {
		reading.ObservedAt = p.now().UTC()
	}
	return reading, nil
}

var _ recommendation.WeatherProvider = (*Provider)(nil)
