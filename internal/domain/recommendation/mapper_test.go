package recommendation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMapperWeatherTable(t *testing.T) {
	mapper, err := NewPlaylistCategoryMapper(MappingOverrides{})
	require.NoError(t, err)

	cases := []struct {
		condition WeatherCondition
		band      TemperatureBand
		want      string
	}{
		{ConditionRain, BandWarm, "Raindrops and Beats"},
		{ConditionCloudy, BandWarm, "Overcast Moods"},
		{ConditionFog, BandCold, "Foggy Night Chill"},
		{ConditionFog, BandWarm, "Misty Morning Mix"},
		{ConditionSnow, BandCold, "Blizzard Ballads"},
		{ConditionExceptional, BandWarm, "Extraordinary Sounds"},
		{ConditionClear, BandWarm, "Sunny Day Play"},
		{ConditionStorm, BandWarm, "Electric Summer"},
	}
	for _, tc := range cases {
		got, err := mapper.Map(WeatherCategory(tc.condition, tc.band))
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestMapperIsTotalOverKnownVariants(t *testing.T) {
	mapper, err := NewPlaylistCategoryMapper(MappingOverrides{})
	require.NoError(t, err)

	categories := []Category{HolidayCategory("Midsummer"), DefaultCategory()}
	for _, s := range []Season{Winter, Spring, Summer, Autumn} {
		categories = append(categories, SeasonCategory(s))
	}
	for m := time.January; m <= time.December; m++ {
		categories = append(categories, MonthCategory(m))
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		categories = append(categories, WeekdayCategory(d))
	}
	for condition := range supportedConditions {
		categories = append(categories, WeatherCategory(condition, BandCold), WeatherCategory(condition, BandWarm))
	}

	for _, c := range categories {
		query, err := mapper.Map(c)
		require.NoError(t, err, c.String())
		require.NotEmpty(t, query, c.String())
	}
}

func TestMapperHolidayUsesName(t *testing.T) {
	mapper, err := NewPlaylistCategoryMapper(MappingOverrides{})
	require.NoError(t, err)

	got, err := mapper.Map(HolidayCategory(" Christmas "))
	require.NoError(t, err)
	require.Equal(t, "Christmas", got)
}

func TestMapperUnmappedCategory(t *testing.T) {
	mapper, err := NewPlaylistCategoryMapper(MappingOverrides{})
	require.NoError(t, err)

	for _, c := range []Category{
		{Kind: CategoryKind("mood"), Value: "happy"},
		HolidayCategory(""),
		{Kind: KindSeason, Value: "Monsoon"},
		{Kind: KindMonth, Value: "Smarch"},
		{Kind: KindWeather, Value: "volcanic"},
	} {
		_, err := mapper.Map(c)
		require.True(t, errors.Is(err, ErrUnmappedCategory), c.String())
	}
}

func TestMapperOverrides(t *testing.T) {
	mapper, err := NewPlaylistCategoryMapper(MappingOverrides{
		Weather:  map[string]map[string]string{"pouring": {"cold": "Storm Watch"}},
		Seasons:  map[string]string{"fall": "Harvest Folk"},
		Months:   map[string]string{"december": ""},
		Weekdays: map[string]string{"FRIDAY": "Weekend Warmup"},
		Default:  "Daily Mix",
	})
	require.NoError(t, err)

	got, err := mapper.Map(WeatherCategory(ConditionRain, BandCold))
	require.NoError(t, err)
	require.Equal(t, "Storm Watch", got)

	got, err = mapper.Map(SeasonCategory(Autumn))
	require.NoError(t, err)
	require.Equal(t, "Harvest Folk", got)

	require.False(t, mapper.HasMonth(time.December))
	require.True(t, mapper.HasMonth(time.November))
	_, err = mapper.Map(MonthCategory(time.December))
	require.True(t, errors.Is(err, ErrUnmappedCategory))

	got, err = mapper.Map(WeekdayCategory(time.Friday))
	require.NoError(t, err)
	require.Equal(t, "Weekend Warmup", got)

	got, err = mapper.Map(DefaultCategory())
	require.NoError(t, err)
	require.Equal(t, "Daily Mix", got)
}

func TestMapperRejectsInvalidOverrides(t *testing.T) {
	_, err := NewPlaylistCategoryMapper(MappingOverrides{Seasons: map[string]string{"monsoon": "x"}})
	require.Error(t, err)

	_, err = NewPlaylistCategoryMapper(MappingOverrides{Weather: map[string]map[string]string{"sunny": {"hot": "x"}}})
	require.Error(t, err)

	_, err = NewPlaylistCategoryMapper(MappingOverrides{Weekdays: map[string]string{"Caturday": "x"}})
	require.Error(t, err)
}
