package recommendation

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/yanqian/playlist-recommender/pkg/errors"
)

var northernSeasons = map[time.Month]Season{
	time.December:  Winter,
	time.January:   Winter,
	time.February:  Winter,
	time.March:     Spring,
	time.April:     Spring,
	time.May:       Spring,
	time.June:      Summer,
	time.July:      Summer,
	time.August:    Summer,
	time.September: Autumn,
	time.October:   Autumn,
	time.November:  Autumn,
}

var opposite = map[Season]Season{
	Winter: Summer,
	Summer: Winter,
	Spring: Autumn,
	Autumn: Spring,
}

// ParseHemisphere accepts north/northern, south/southern and equator.
func ParseHemisphere(raw string) (Hemisphere, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "north", "northern":
		return North, nil
	case "south", "southern":
		return South, nil
	case "equator", "equatorial":
		return Equator, nil
	default:
		return "", fmt.Errorf("unknown hemisphere %q", raw)
	}
}

// SeasonFor maps a month to a temperate season. Only the northern and southern
// hemispheres have four seasons; anything else is ErrUnsupportedSeason.
func SeasonFor(month time.Month, hemisphere Hemisphere) (Season, error) {
	season, ok := northernSeasons[month]
	if !ok {
		return "", apperrors.Wrap(CodeUnsupportedSeason, fmt.Sprintf("month %d is out of range", month), ErrUnsupportedSeason)
	}
	switch hemisphere {
	case North:
		return season, nil
	case South:
		return opposite[season], nil
	default:
		return "", apperrors.Wrap(CodeUnsupportedSeason, fmt.Sprintf("no four-season calendar for hemisphere %q", hemisphere), ErrUnsupportedSeason)
	}
}
