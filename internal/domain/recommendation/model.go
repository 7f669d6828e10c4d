package recommendation

import (
	"encoding/json"
	"time"
)

// WeatherCondition is the normalized weather code the engine understands.
type WeatherCondition string

const (
	ConditionClear       WeatherCondition = "clear"
	ConditionCloudy      WeatherCondition = "cloudy"
	ConditionFog         WeatherCondition = "fog"
	ConditionRain        WeatherCondition = "rain"
	ConditionSnow        WeatherCondition = "snow"
	ConditionStorm       WeatherCondition = "storm"
	ConditionWind        WeatherCondition = "wind"
	ConditionExceptional WeatherCondition = "exceptional"
)

// TemperatureUnit identifies the scale of a reading's temperature.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "celsius"
	Fahrenheit TemperatureUnit = "fahrenheit"
)

// TemperatureBand splits readings into cold and warm playlists.
type TemperatureBand string

const (
	BandCold TemperatureBand = "cold"
	BandWarm TemperatureBand = "warm"
)

// WeatherReading is an immutable snapshot returned by a WeatherProvider.
type WeatherReading struct {
	Location    string
	Condition   WeatherCondition
	RawCode     string
	Temperature *float64
	Unit        TemperatureUnit
	ObservedAt  time.Time
}

// Holiday is a single dated holiday for a region.
type Holiday struct {
	Name   string    `json:"name"`
	Date   time.Time `json:"date"`
	Region string    `json:"region"`
}

// Season is derived from the month and hemisphere and never stored.
type Season string

const (
	Winter Season = "Winter"
	Spring Season = "Spring"
	Summer Season = "Summer"
	Autumn Season = "Autumn"
)

// Hemisphere selects which season table applies.
type Hemisphere string

const (
	North   Hemisphere = "north"
	South   Hemisphere = "south"
	Equator Hemisphere = "equator"
)

// CategoryKind tags the variant held by a Category.
type CategoryKind string

const (
	KindHoliday CategoryKind = "holiday"
	KindSeason  CategoryKind = "season"
	KindMonth   CategoryKind = "month"
	KindWeekday CategoryKind = "weekday"
	KindWeather CategoryKind = "weather"
	KindDefault CategoryKind = "default"
)

// Category is the single outcome of a resolution.
//
// Value holds the holiday name, season, month name, weekday name or weather
// condition depending on Kind. Band is only set for weather categories.
type Category struct {
	Kind  CategoryKind    `json:"kind"`
	Value string          `json:"value,omitempty"`
	Band  TemperatureBand `json:"band,omitempty"`
}

// HolidayCategory is the outcome for an upcoming named holiday.
func HolidayCategory(name string) Category {
	return Category{Kind: KindHoliday, Value: name}
}

// SeasonCategory is the outcome for the current meteorological season.
func SeasonCategory(season Season) Category {
	return Category{Kind: KindSeason, Value: string(season)}
}

// MonthCategory is the outcome for the current calendar month.
func MonthCategory(month time.Month) Category {
	return Category{Kind: KindMonth, Value: month.String()}
}

// WeekdayCategory is the outcome for the current day of the week.
func WeekdayCategory(day time.Weekday) Category {
	return Category{Kind: KindWeekday, Value: day.String()}
}

// WeatherCategory is the outcome for a weather condition and temperature band.
func WeatherCategory(condition WeatherCondition, band TemperatureBand) Category {
	return Category{Kind: KindWeather, Value: string(condition), Band: band}
}

// DefaultCategory is used when nothing more specific applies.
func DefaultCategory() Category {
	return Category{Kind: KindDefault}
}

func (c Category) String() string {
	switch {
	case c.Value == "":
		return string(c.Kind)
	case c.Band != "":
		return string(c.Kind) + "(" + c.Value + "," + string(c.Band) + ")"
	default:
		return string(c.Kind) + "(" + c.Value + ")"
	}
}

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// MarshalJSON renders the range as calendar dates.
func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{
		Start: r.Start.Format(dateLayout),
		End:   r.End.Format(dateLayout),
	})
}

// Trigger names the user action that started a resolution.
type Trigger string

const (
	TriggerWeather Trigger = "weather"
	TriggerDate    Trigger = "date"
)

// Playlist is a catalog search hit.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner,omitempty"`
	URI        string `json:"uri,omitempty"`
	URL        string `json:"url,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	TrackCount int    `json:"trackCount,omitempty"`
}

// WeatherRequest is the payload of the weather trigger.
type WeatherRequest struct {
	Location string `json:"location"`
}

// DateRequest is the payload of the calendar trigger. Date overrides today.
type DateRequest struct {
	Date string `json:"date"`
}

// TimeframeRequest mirrors the set_timeframe service call.
type TimeframeRequest struct {
	Timeframe int    `json:"timeframe"`
	TimeUnit  string `json:"time_unit"`
}

// Recommendation is returned to trigger callers.
type Recommendation struct {
	Trigger    Trigger    `json:"trigger"`
	Category   Category   `json:"category"`
	Query      string     `json:"query"`
	Fallback   bool       `json:"fallback"`
	Reason     string     `json:"reason,omitempty"`
	Window     *DateRange `json:"window,omitempty"`
	Timeframe  *Timeframe `json:"timeframe,omitempty"`
	Playlists  []Playlist `json:"playlists"`
	ResolvedAt time.Time  `json:"resolvedAt"`
}

// Config wires runtime settings for the recommendation domain.
type Config struct {
	Location        *time.Location
	Hemisphere      Hemisphere
	Regions         []string
	DefaultLocation string
	SearchLimit     int
	CacheTTL        time.Duration
}

const dateLayout = "2006-01-02"
