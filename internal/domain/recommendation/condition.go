package recommendation

import (
	"fmt"
	"strings"

	apperrors "github.com/yanqian/playlist-recommender/pkg/errors"
)

// Provider codes follow the Home Assistant weather vocabulary plus the
// normalized names themselves.
var conditionCodes = map[string]WeatherCondition{
	"sunny":           ConditionClear,
	"clear":           ConditionClear,
	"clear-night":     ConditionClear,
	"partlycloudy":    ConditionCloudy,
	"cloudy":          ConditionCloudy,
	"fog":             ConditionFog,
	"rainy":           ConditionRain,
	"pouring":         ConditionRain,
	"rain":            ConditionRain,
	"snowy":           ConditionSnow,
	"snowy-rainy":     ConditionSnow,
	"snow":            ConditionSnow,
	"hail":            ConditionStorm,
	"lightning":       ConditionStorm,
	"lightning-rainy": ConditionStorm,
	"storm":           ConditionStorm,
	"windy":           ConditionWind,
	"windy-variant":   ConditionWind,
	"wind":            ConditionWind,
	"exceptional":     ConditionExceptional,
}

const (
	coldBelowCelsius    = 15.0
	coldBelowFahrenheit = 59.0
)

// ParseCondition normalizes a provider code. Matching is case-insensitive and
// ignores surrounding whitespace.
func ParseCondition(raw string) (WeatherCondition, error) {
	code := strings.ToLower(strings.TrimSpace(raw))
	if condition, ok := conditionCodes[code]; ok {
		return condition, nil
	}
	return "", unsupportedCondition(raw)
}

// BandFor classifies a temperature. Missing readings count as warm.
func BandFor(temperature *float64, unit TemperatureUnit) TemperatureBand {
	if temperature == nil {
		return BandWarm
	}
	threshold := coldBelowCelsius
	if unit == Fahrenheit {
		threshold = coldBelowFahrenheit
	}
	if *temperature < threshold {
		return BandCold
	}
	return BandWarm
}

func unsupportedCondition(raw string) error {
	return apperrors.Wrap(CodeUnsupportedCondition, fmt.Sprintf("weather condition %q is not supported", raw), ErrUnsupportedCondition)
}
