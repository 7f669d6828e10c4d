package nager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

const defaultBaseURL = "https://date.nager.at/api/v3"

// Client fetches public holidays from the Nager.Date API. Yearly lists are
// cached for the lifetime of the client.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	years map[yearKey][]publicHoliday
}

type yearKey struct {
	region string
	year   int
}

// NewClient builds an API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
		years:      make(map[yearKey][]publicHoliday),
	}
}

// UpcomingHolidays implements recommendation.HolidayProvider.
func (c *Client) UpcomingHolidays(ctx context.Context, regions []string, window recommendation.DateRange) ([]recommendation.Holiday, error) {
	loc := window.Start.Location()
	var out []recommendation.Holiday
	for _, raw := range regions {
		region := strings.ToUpper(strings.TrimSpace(raw))
		if region == "" {
			continue
		}
		for year := window.Start.Year(); year <= window.End.Year(); year++ {
			items, err := c.year(ctx, region, year)
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				date, err := time.ParseInLocation("2006-01-02", item.Date, loc)
				if err != nil || !window.Contains(date) {
					continue
				}
				out = append(out, recommendation.Holiday{
					Name:   firstNonEmpty(item.Name, item.LocalName),
					Date:   date,
					Region: region,
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (c *Client) year(ctx context.Context, region string, year int) ([]publicHoliday, error) {
	key := yearKey{region: region, year: year}
	c.mu.Lock()
	cached, ok := c.years[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	items, err := c.fetch(ctx, region, year)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.years[key] = items
	c.mu.Unlock()
	return items, nil
}

func (c *Client) fetch(ctx context.Context, region string, year int) ([]publicHoliday, error) {
	endpoint := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.baseURL, year, url.PathEscape(region))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holiday request failed: %w", err)
	}
	defer resp.Body.Close()

	// unknown country codes answer 404; treat as "no holidays" so one bad region does not blank the rest
	if resp.StatusCode == http.StatusNotFound {
		return []publicHoliday{}, nil
	}
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("holiday request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var items []publicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode holiday response: %w", err)
	}
	return items, nil
}

type publicHoliday struct {
	Date        string `json:"date"`
	LocalName   string `json:"localName"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
	Global      bool   `json:"global"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

var _ recommendation.HolidayProvider = (*Client)(nil)
