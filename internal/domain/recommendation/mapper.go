package recommendation

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/yanqian/playlist-recommender/pkg/errors"
)

// MappingOverrides replaces entries in the built-in search tables. Keys are
// case-insensitive; an empty value removes the entry.
type MappingOverrides struct {
	Weather  map[string]map[string]string `yaml:"weather"`
	Seasons  map[string]string            `yaml:"seasons"`
	Months   map[string]string            `yaml:"months"`
	Weekdays map[string]string            `yaml:"weekdays"`
	Default  string                       `yaml:"default"`
}

// PlaylistCategoryMapper turns a Category into a catalog search string.
type PlaylistCategoryMapper struct {
	weather      map[WeatherCondition]map[TemperatureBand]string
	seasons      map[Season]string
	months       map[time.Month]string
	weekdays     map[time.Weekday]string
	defaultQuery string
}

// NewPlaylistCategoryMapper builds the mapper from the built-in tables plus overrides.
func NewPlaylistCategoryMapper(overrides MappingOverrides) (*PlaylistCategoryMapper, error) {
	m := &PlaylistCategoryMapper{
		weather: map[WeatherCondition]map[TemperatureBand]string{
			ConditionClear:       {BandWarm: "Sunny Day Play", BandCold: "Crisp Winter Sunshine"},
			ConditionCloudy:      {BandWarm: "Overcast Moods", BandCold: "Grey Sky Grooves"},
			ConditionFog:         {BandWarm: "Misty Morning Mix", BandCold: "Foggy Night Chill"},
			ConditionRain:        {BandWarm: "Raindrops and Beats", BandCold: "Cold Rain Comfort"},
			ConditionSnow:        {BandWarm: "Snowy Daydreams", BandCold: "Blizzard Ballads"},
			ConditionStorm:       {BandWarm: "Electric Summer", BandCold: "Thunderstorm Tension"},
			ConditionWind:        {BandWarm: "Breezy Beats", BandCold: "Windswept Winter"},
			ConditionExceptional: {BandWarm: "Extraordinary Sounds", BandCold: "Extraordinary Sounds"},
		},
		seasons: map[Season]string{
			Winter: "Winter Warmers",
			Spring: "Spring Awakening",
			Summer: "Summer Hits",
			Autumn: "Autumn Acoustic",
		},
		months: map[time.Month]string{
			time.January:   "New Year Fresh Start",
			time.February:  "February Love Songs",
			time.March:     "March Into Spring",
			time.April:     "April Showers",
			time.May:       "May Blossoms",
			time.June:      "June Sunshine",
			time.July:      "July Road Trip",
			time.August:    "August Heatwave",
			time.September: "September Back To School",
			time.October:   "October Spooky Season",
			time.November:  "November Cozy Nights",
			time.December:  "December Holiday Mix",
		},
		weekdays: map[time.Weekday]string{
			time.Monday:    "Monday Motivation",
			time.Tuesday:   "Tuesday Tunes",
			time.Wednesday: "Wednesday Vibes",
			time.Thursday:  "Throwback Thursday",
			time.Friday:    "Friday Feeling",
			time.Saturday:  "Saturday Party",
			time.Sunday:    "Sunday Chill",
		},
		defaultQuery: "Today's Top Hits",
	}
	if err := m.apply(overrides); err != nil {
		return nil, err
	}
	return m, nil
}

// Map returns the search string for a category. Categories without a table
// entry fail with ErrUnmappedCategory; the Default category always maps.
func (m *PlaylistCategoryMapper) Map(c Category) (string, error) {
	var (
		query string
		ok    bool
	)
	switch c.Kind {
	case KindHoliday:
		query = strings.TrimSpace(c.Value)
		ok = query != ""
	case KindSeason:
		query, ok = m.seasons[Season(c.Value)]
	case KindMonth:
		if month, parsed := parseMonth(c.Value); parsed {
			query, ok = m.months[month]
		}
	case KindWeekday:
		if day, parsed := parseWeekday(c.Value); parsed {
			query, ok = m.weekdays[day]
		}
	case KindWeather:
		band := c.Band
		if band == "" {
			band = BandWarm
		}
		query, ok = m.weather[WeatherCondition(c.Value)][band]
	case KindDefault:
		return m.defaultQuery, nil
	}
	if !ok || query == "" {
		return "", apperrors.Wrap(CodeUnmappedCategory, fmt.Sprintf("no playlist mapping for %s", c), ErrUnmappedCategory)
	}
	return query, nil
}

// HasSeason implements Coverage.
func (m *PlaylistCategoryMapper) HasSeason(season Season) bool {
	return m.seasons[season] != ""
}

// HasMonth implements Coverage.
func (m *PlaylistCategoryMapper) HasMonth(month time.Month) bool {
	return m.months[month] != ""
}

// HasWeekday implements Coverage.
func (m *PlaylistCategoryMapper) HasWeekday(day time.Weekday) bool {
	return m.weekdays[day] != ""
}

func (m *PlaylistCategoryMapper) apply(o MappingOverrides) error {
	for rawCondition, bands := range o.Weather {
		condition, err := ParseCondition(rawCondition)
		if err != nil {
			return fmt.Errorf("weather mapping: %w", err)
		}
		for rawBand, query := range bands {
			band := TemperatureBand(strings.ToLower(strings.TrimSpace(rawBand)))
			if band != BandCold && band != BandWarm {
				return fmt.Errorf("weather mapping: unknown temperature band %q", rawBand)
			}
			m.weather[condition][band] = strings.TrimSpace(query)
		}
	}
	for raw, query := range o.Seasons {
		season, ok := parseSeason(raw)
		if !ok {
			return fmt.Errorf("season mapping: unknown season %q", raw)
		}
		setOrDelete(m.seasons, season, query)
	}
	for raw, query := range o.Months {
		month, ok := parseMonth(raw)
		if !ok {
			return fmt.Errorf("month mapping: unknown month %q", raw)
		}
		setOrDelete(m.months, month, query)
	}
	for raw, query := range o.Weekdays {
		day, ok := parseWeekday(raw)
		if !ok {
			return fmt.Errorf("weekday mapping: unknown weekday %q", raw)
		}
		setOrDelete(m.weekdays, day, query)
	}
	if q := strings.TrimSpace(o.Default); q != "" {
		m.defaultQuery = q
	}
	return nil
}

func setOrDelete[K comparable](table map[K]string, key K, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		delete(table, key)
		return
	}
	table[key] = query
}

func parseSeason(raw string) (Season, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "winter":
		return Winter, true
	case "spring":
		return Spring, true
	case "summer":
		return Summer, true
	case "autumn", "fall":
		return Autumn, true
	}
	return "", false
}

func parseMonth(raw string) (time.Month, bool) {
	name := strings.TrimSpace(raw)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, true
		}
	}
	return 0, false
}

func parseWeekday(raw string) (time.Weekday, bool) {
	name := strings.TrimSpace(raw)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, true
		}
	}
	return 0, false
}

var _ Coverage = (*PlaylistCategoryMapper)(nil)
