package recommendation

import (
	"sort"
	"time"
)

// Coverage reports which season, month and weekday categories have a playlist
// mapping. Tiers without a mapping fall through to the next rule.
type Coverage interface {
	HasSeason(season Season) bool
	HasMonth(month time.Month) bool
	HasWeekday(day time.Weekday) bool
}

// Engine turns already fetched readings into exactly one Category. It performs
// no I/O and holds no mutable state.
type Engine struct {
	hemisphere Hemisphere
	coverage   Coverage
}

// NewEngine builds an engine for the configured hemisphere.
func NewEngine(hemisphere Hemisphere, coverage Coverage) *Engine {
	return &Engine{hemisphere: hemisphere, coverage: coverage}
}

// supportedConditions is the weather lookup table.
var supportedConditions = map[WeatherCondition]struct{}{
	ConditionClear:       {},
	ConditionCloudy:      {},
	ConditionFog:         {},
	ConditionRain:        {},
	ConditionSnow:        {},
	ConditionStorm:       {},
	ConditionWind:        {},
	ConditionExceptional: {},
}

// ResolveWeather maps a reading to a Weather category. Readings without a
// normalized condition are parsed from their raw provider code.
func (e *Engine) ResolveWeather(reading WeatherReading) (Category, error) {
	condition := reading.Condition
	if condition == "" {
		parsed, err := ParseCondition(reading.RawCode)
		if err != nil {
			return Category{}, err
		}
		condition = parsed
	}
	if _, ok := supportedConditions[condition]; !ok {
		return Category{}, unsupportedCondition(string(condition))
	}
	return WeatherCategory(condition, BandFor(reading.Temperature, reading.Unit)), nil
}

type dateContext struct {
	today    time.Time
	window   DateRange
	holidays map[string][]Holiday
}

type dateRule struct {
	name    string
	resolve func(e *Engine, dc dateContext) (Category, bool)
}

// datePrecedence is evaluated top to bottom; the first rule that produces a
// category wins. Holiday > Season > Month > Weekday > Default.
var datePrecedence = []dateRule{
	{name: "holiday", resolve: (*Engine).holidayRule},
	{name: "season", resolve: (*Engine).seasonRule},
	{name: "month", resolve: (*Engine).monthRule},
	{name: "weekday", resolve: (*Engine).weekdayRule},
}

// ResolveDate applies the date precedence chain for today and the given
// lookahead window. holidaysByRegion is keyed by region name.
func (e *Engine) ResolveDate(today time.Time, holidaysByRegion map[string][]Holiday, tf Timeframe) (Category, error) {
	if err := tf.Validate(); err != nil {
		return Category{}, err
	}
	dc := dateContext{
		today:    today,
		window:   WindowFor(today, tf),
		holidays: holidaysByRegion,
	}
	for _, rule := range datePrecedence {
		if category, ok := rule.resolve(e, dc); ok {
			return category, nil
		}
	}
	return DefaultCategory(), nil
}

func (e *Engine) holidayRule(dc dateContext) (Category, bool) {
	holiday, ok := SelectHoliday(dc.window, dc.holidays)
	if !ok {
		return Category{}, false
	}
	return HolidayCategory(holiday.Name), true
}

func (e *Engine) seasonRule(dc dateContext) (Category, bool) {
	season, err := SeasonFor(dc.today.Month(), e.hemisphere)
	if err != nil {
		return Category{}, false
	}
	if e.coverage != nil && !e.coverage.HasSeason(season) {
		return Category{}, false
	}
	return SeasonCategory(season), true
}

func (e *Engine) monthRule(dc dateContext) (Category, bool) {
	if e.coverage == nil || !e.coverage.HasMonth(dc.today.Month()) {
		return Category{}, false
	}
	return MonthCategory(dc.today.Month()), true
}

func (e *Engine) weekdayRule(dc dateContext) (Category, bool) {
	if e.coverage == nil || !e.coverage.HasWeekday(dc.today.Weekday()) {
		return Category{}, false
	}
	return WeekdayCategory(dc.today.Weekday()), true
}

// SelectHoliday picks the in-window holiday with the earliest date. Ties are
// broken by region name, with unlabelled holidays last, then holiday name, so
// the result does not depend on map or slice order.
func SelectHoliday(window DateRange, holidaysByRegion map[string][]Holiday) (Holiday, bool) {
	regions := make([]string, 0, len(holidaysByRegion))
	for region := range holidaysByRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	var (
		best       Holiday
		bestRegion string
		found      bool
	)
	for _, region := range regions {
		for _, h := range holidaysByRegion[region] {
			if h.Name == "" || !window.Contains(h.Date) {
				continue
			}
			if !found || earlier(h, region, best, bestRegion) {
				best, bestRegion, found = h, region, true
			}
		}
	}
	return best, found
}

func earlier(h Holiday, region string, best Holiday, bestRegion string) bool {
	hk, bk := dateKey(h.Date), dateKey(best.Date)
	if hk != bk {
		return hk < bk
	}
	if region != bestRegion {
		switch {
		case region == "":
			return false
		case bestRegion == "":
			return true
		}
		return region < bestRegion
	}
	return h.Name < best.Name
}
