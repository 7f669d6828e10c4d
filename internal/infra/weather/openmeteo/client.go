package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Coordinates locate a named place.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Client fetches current conditions from the Open-Meteo forecast API.
type Client struct {
	baseURL    string
	unit       recommendation.TemperatureUnit
	locations  map[string]Coordinates
	httpClient *http.Client
}

// NewClient builds an API client. Locations are matched case-insensitively;
// a location may also be given inline as "lat,lon".
func NewClient(baseURL string, unit recommendation.TemperatureUnit, locations map[string]Coordinates, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if unit == "" {
		unit = recommendation.Celsius
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	named := make(map[string]Coordinates, len(locations))
	for name, coords := range locations {
		named[strings.ToLower(strings.TrimSpace(name))] = coords
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		unit:       unit,
		locations:  named,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CurrentCondition implements recommendation.WeatherProvider.
func (c *Client) CurrentCondition(ctx context.Context, location string) (recommendation.WeatherReading, error) {
	coords, err := c.resolve(location)
	if err != nil {
		return recommendation.WeatherReading{}, err
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', 4, 64))
	params.Set("current", "temperature_2m,weather_code")
	params.Set("timezone", "UTC")
	if c.unit == recommendation.Fahrenheit {
		params.Set("temperature_unit", "fahrenheit")
	}
	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return recommendation.WeatherReading{}, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return recommendation.WeatherReading{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return recommendation.WeatherReading{}, fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return recommendation.WeatherReading{}, fmt.Errorf("decode weather response: %w", err)
	}
	if raw.Current.WeatherCode == nil {
		return recommendation.WeatherReading{}, fmt.Errorf("weather response missing weather_code")
	}
	return normalize(location, raw.Current, c.unit), nil
}

func (c *Client) resolve(location string) (Coordinates, error) {
	key := strings.ToLower(strings.TrimSpace(location))
	if coords, ok := c.locations[key]; ok {
		return coords, nil
	}
	if lat, lon, ok := strings.Cut(key, ","); ok {
		latitude, errLat := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		longitude, errLon := strconv.ParseFloat(strings.TrimSpace(lon), 64)
		if errLat == nil && errLon == nil && latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180 {
			return Coordinates{Latitude: latitude, Longitude: longitude}, nil
		}
	}
	return Coordinates{}, fmt.Errorf("unknown weather location %q", location)
}

type forecastResponse struct {
	Current currentBlock `json:"current"`
}

type currentBlock struct {
	Time        string   `json:"time"`
	Temperature *float64 `json:"temperature_2m"`
	WeatherCode *int     `json:"weather_code"`
}

func normalize(location string, current currentBlock, unit recommendation.TemperatureUnit) recommendation.WeatherReading {
	code := *current.WeatherCode
	reading := recommendation.WeatherReading{
		Location:    location,
		RawCode:     "wmo:" + strconv.Itoa(code),
		Temperature: current.Temperature,
		Unit:        unit,
	}
	if condition, ok := conditionForWMO(code); ok {
		reading.Condition = condition
	}
	if ts, err := time.Parse("2006-01-02T15:04", current.Time); err == nil {
		reading.ObservedAt = ts.UTC()
	}
	return reading
}

// conditionForWMO maps WMO 4677 present-weather codes as published by Open-Meteo.
// Unknown codes are left for the engine to reject.
func conditionForWMO(code int) (recommendation.WeatherCondition, bool) {
	switch {
	case code == 0 || code == 1:
		return recommendation.ConditionClear, true
	case code == 2 || code == 3:
		return recommendation.ConditionCloudy, true
	case code == 45 || code == 48:
		return recommendation.ConditionFog, true
	case code >= 51 && code <= 67, code >= 80 && code <= 82:
		return recommendation.ConditionRain, true
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return recommendation.ConditionSnow, true
	case code == 95 || code == 96 || code == 99:
		return recommendation.ConditionStorm, true
	}
	return "", false
}

var _ recommendation.WeatherProvider = (*Client)(nil)
