package recommendation

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/yanqian/playlist-recommender/pkg/errors"
	"github.com/yanqian/playlist-recommender/pkg/util"
)

// Service exposes the trigger and set_timeframe operations.
type Service interface {
	RecommendWeather(ctx context.Context, req WeatherRequest) (Recommendation, error)
	RecommendDate(ctx context.Context, req DateRequest) (Recommendation, error)
	SetTimeframe(ctx context.Context, req TimeframeRequest) (Timeframe, error)
	Timeframe(ctx context.Context) Timeframe
}

type service struct {
	cfg        Config
	engine     *Engine
	mapper     *PlaylistCategoryMapper
	timeframes *TimeframeConfig
	weather    WeatherProvider
	holidays   HolidayProvider
	catalog    Catalog
	cache      SearchCache
	store      TimeframeStore
	logger     *slog.Logger
	now        func() time.Time

	// serializes set_timeframe so the store and memory agree on the last write
	writeMu sync.Mutex
}

// NewService wires up the recommendation domain. catalog, cache and store may be nil.
func NewService(
	cfg Config,
	timeframes *TimeframeConfig,
	mapper *PlaylistCategoryMapper,
	weather WeatherProvider,
	holidays HolidayProvider,
	catalog Catalog,
	cache SearchCache,
	store TimeframeStore,
	logger *slog.Logger,
) Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &service{
		cfg:        cfg,
		engine:     NewEngine(cfg.Hemisphere, mapper),
		mapper:     mapper,
		timeframes: timeframes,
		weather:    weather,
		holidays:   holidays,
		catalog:    catalog,
		cache:      cache,
		store:      store,
		logger:     logger.With("component", "recommendation.service"),
		now:        util.NowUTC,
	}
}

func (s *service) RecommendWeather(ctx context.Context, req WeatherRequest) (Recommendation, error) {
	location := firstNonEmpty(req.Location, s.cfg.DefaultLocation)
	if location == "" {
		return Recommendation{}, apperrors.Wrap(CodeInvalidInput, "location is required", nil)
	}
	rec := Recommendation{Trigger: TriggerWeather}

	reading, err := s.weather.CurrentCondition(ctx, location)
	if err != nil {
		s.logger.Warn("weather provider unavailable, using default", "location", location, "error", err)
		return s.complete(ctx, rec.fallback(CodeProviderUnavailable))
	}

	category, err := s.engine.ResolveWeather(reading)
	if err != nil {
		s.logger.Warn("weather condition unsupported, using default", "location", location, "raw", reading.RawCode, "error", err)
		return s.complete(ctx, rec.fallback(CodeUnsupportedCondition))
	}
	s.logger.Info("weather resolved", "location", location, "category", category.String())
	rec.Category = category
	return s.complete(ctx, rec)
}

func (s *service) RecommendDate(ctx context.Context, req DateRequest) (Recommendation, error) {
	today, err := s.today(req.Date)
	if err != nil {
		return Recommendation{}, apperrors.Wrap(CodeInvalidInput, "date must be formatted as YYYY-MM-DD", err)
	}
	// one snapshot per resolution; a concurrent set_timeframe does not affect it
	tf := s.timeframes.Get()
	window := WindowFor(today, tf)
	rec := Recommendation{Trigger: TriggerDate, Window: &window, Timeframe: &tf}

	holidays, err := s.holidays.UpcomingHolidays(ctx, s.cfg.Regions, window)
	if err != nil {
		s.logger.Warn("holiday provider unavailable, using default", "regions", s.cfg.Regions, "error", err)
		return s.complete(ctx, rec.fallback(CodeProviderUnavailable))
	}

	category, err := s.engine.ResolveDate(today, groupByRegion(holidays, s.cfg.Regions), tf)
	if err != nil {
		s.logger.Error("date resolution failed, using default", "timeframe", tf.String(), "error", err)
		return s.complete(ctx, rec.fallback(CodeInvalidTimeframe))
	}
	s.logger.Info("date resolved", "today", today.Format(dateLayout), "timeframe", tf.String(), "holidays", len(holidays), "category", category.String())
	rec.Category = category
	return s.complete(ctx, rec)
}

func (s *service) SetTimeframe(ctx context.Context, req TimeframeRequest) (Timeframe, error) {
	tf, err := NewTimeframe(req.Timeframe, req.TimeUnit)
	if err != nil {
		return Timeframe{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.store != nil {
		if err := s.store.Save(ctx, tf); err != nil {
			return Timeframe{}, apperrors.Wrap(CodeTimeframePersist, "failed to persist timeframe", err)
		}
	}
	updated, err := s.timeframes.Set(tf.Amount, string(tf.Unit))
	if err != nil {
		return Timeframe{}, err
	}
	s.logger.Info("timeframe updated", "timeframe", updated.String())
	return updated, nil
}

func (s *service) Timeframe(context.Context) Timeframe {
	return s.timeframes.Get()
}

// complete maps the category to a search string and fetches playlists.
func (s *service) complete(ctx context.Context, rec Recommendation) (Recommendation, error) {
	query, err := s.mapper.Map(rec.Category)
	if err != nil {
		s.logger.Error("category has no playlist mapping, using default", "category", rec.Category.String(), "error", err)
		rec = rec.fallback(CodeUnmappedCategory)
		query, _ = s.mapper.Map(rec.Category)
	}
	rec.Query = query
	rec.ResolvedAt = s.now()

	playlists, err := s.search(ctx, query)
	if err != nil {
		// the resolved category still stands; only the playlist list is empty
		s.logger.Warn("playlist search failed", "category", rec.Category.String(), "query", query, "error", err)
		rec.Playlists = []Playlist{}
		if rec.Reason == "" {
			rec.Reason = CodeCatalogError
		}
		return rec, nil
	}
	rec.Playlists = playlists
	return rec, nil
}

func (s *service) search(ctx context.Context, query string) ([]Playlist, error) {
	if s.catalog == nil {
		return []Playlist{}, nil
	}
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, query)
		if err != nil {
			s.logger.Warn("search cache lookup failed", "query", query, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	playlists, err := s.catalog.SearchPlaylists(ctx, query, s.cfg.SearchLimit)
	if err != nil {
		return nil, err
	}
	if playlists == nil {
		playlists = []Playlist{}
	}
	if s.cache != nil {
		if err := s.cache.Save(ctx, query, playlists, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("search cache save failed", "query", query, "error", err)
		}
	}
	return playlists, nil
}

func (s *service) today(input string) (time.Time, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return util.CivilDate(s.now().In(s.cfg.Location)), nil
	}
	return time.ParseInLocation(dateLayout, trimmed, s.cfg.Location)
}

func (r Recommendation) fallback(reason string) Recommendation {
	r.Category = DefaultCategory()
	r.Fallback = true
	if r.Reason == "" {
		r.Reason = reason
	}
	return r
}

// groupByRegion keys holidays by region. Holidays without a region are
// attributed to the only configured region when there is exactly one;
// otherwise they stay under the empty key, which loses same-date ties.
func groupByRegion(holidays []Holiday, regions []string) map[string][]Holiday {
	out := make(map[string][]Holiday)
	for _, h := range holidays {
		region := strings.TrimSpace(h.Region)
		if region == "" && len(regions) == 1 {
			region = regions[0]
		}
		out[region] = append(out[region], h)
	}
	for region := range out {
		items := out[region]
		sort.SliceStable(items, func(i, j int) bool {
			return dateKey(items[i].Date) < dateKey(items[j].Date)
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
