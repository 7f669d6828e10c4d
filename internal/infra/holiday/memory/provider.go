package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

// Entry is a holiday definition. Year zero marks a holiday that recurs every year.
type Entry struct {
	Region string
	Name   string
	Year   int
	Month  time.Month
	Day    int
}

// Provider serves holidays from a fixed list, typically loaded from a YAML file.
type Provider struct {
	entries []Entry
}

// NewProvider builds a provider over entries.
func NewProvider(entries []Entry) *Provider {
	return &Provider{entries: append([]Entry(nil), entries...)}
}

type fileEntry struct {
	Region string `yaml:"region"`
	Name   string `yaml:"name"`
	// Date is YYYY-MM-DD for a one-off holiday or MM-DD for a yearly one.
	Date string `yaml:"date"`
}

type fileDocument struct {
	Holidays []fileEntry `yaml:"holidays"`
}

// LoadFile reads a YAML holiday list.
func LoadFile(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML holiday list.
func Parse(data []byte) (*Provider, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse holiday file: %w", err)
	}
	entries := make([]Entry, 0, len(doc.Holidays))
	for i, raw := range doc.Holidays {
		entry, err := parseEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("holiday %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return NewProvider(entries), nil
}

func parseEntry(raw fileEntry) (Entry, error) {
	entry := Entry{
		Region: strings.ToUpper(strings.TrimSpace(raw.Region)),
		Name:   strings.TrimSpace(raw.Name),
	}
	if entry.Name == "" {
		return Entry{}, fmt.Errorf("name is required")
	}
	value := strings.TrimSpace(raw.Date)
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		entry.Year, entry.Month, entry.Day = ts.Date()
		return entry, nil
	}
	// 2000 is a leap year so 02-29 parses
	ts, err := time.Parse("2006-01-02", "2000-"+value)
	if err != nil {
		return Entry{}, fmt.Errorf("date %q must be YYYY-MM-DD or MM-DD", raw.Date)
	}
	_, entry.Month, entry.Day = ts.Date()
	return entry, nil
}

// UpcomingHolidays implements recommendation.HolidayProvider.
func (p *Provider) UpcomingHolidays(_ context.Context, regions []string, window recommendation.DateRange) ([]recommendation.Holiday, error) {
	wanted := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		wanted[strings.ToUpper(strings.TrimSpace(r))] = struct{}{}
	}
	loc := window.Start.Location()

	var out []recommendation.Holiday
	for _, e := range p.entries {
		if _, ok := wanted[e.Region]; !ok && e.Region != "" {
			continue
		}
		for year := window.Start.Year(); year <= window.End.Year(); year++ {
			if e.Year != 0 && e.Year != year {
				continue
			}
			date := time.Date(year, e.Month, e.Day, 0, 0, 0, 0, loc)
			// Feb 29 of a recurring entry is skipped outside leap years
			if date.Month() != e.Month {
				continue
			}
			if window.Contains(date) {
				out = append(out, recommendation.Holiday{Name: e.Name, Date: date, Region: e.Region})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

var _ recommendation.HolidayProvider = (*Provider)(nil)
