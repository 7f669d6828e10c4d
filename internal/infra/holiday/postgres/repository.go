package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

// Repository implements recommendation.HolidayProvider on a holidays table:
//
//	CREATE TABLE holidays (
//	    region       TEXT NOT NULL,
//	    name         TEXT NOT NULL,
//	    holiday_date DATE NOT NULL,
//	    PRIMARY KEY (region, holiday_date, name)
//	);
type Repository struct {
	db DB
}

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// NewRepository constructs the repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// UpcomingHolidays returns holidays for regions inside window ordered by date.
func (r *Repository) UpcomingHolidays(ctx context.Context, regions []string, window recommendation.DateRange) ([]recommendation.Holiday, error) {
	codes := normalizeRegions(regions)
	if len(codes) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT region, name, holiday_date
		FROM holidays
		WHERE region = ANY($1)
		  AND holiday_date BETWEEN $2 AND $3
		ORDER BY holiday_date, region, name
	`, codes, window.Start.Format(dateLayout), window.End.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	loc := window.Start.Location()
	var out []recommendation.Holiday
	for rows.Next() {
		holiday, err := scanHoliday(rows, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, holiday)
	}
	return out, rows.Err()
}

// Seed inserts holidays that are not stored yet and reports how many rows
// were added. Holidays without a region or name are skipped.
func (r *Repository) Seed(ctx context.Context, holidays []recommendation.Holiday) (int, error) {
	inserted := 0
	for _, h := range holidays {
		region := strings.ToUpper(strings.TrimSpace(h.Region))
		name := strings.TrimSpace(h.Name)
		if region == "" || name == "" {
			continue
		}
		tag, err := r.db.Exec(ctx, `
			INSERT INTO holidays (region, name, holiday_date)
			VALUES ($1, $2, $3)
			ON CONFLICT (region, holiday_date, name) DO NOTHING
		`, region, name, h.Date.Format(dateLayout))
		if err != nil {
			return inserted, fmt.Errorf("seed holiday %s %q: %w", region, name, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

const dateLayout = "2006-01-02"

type rowScanner interface {
	Scan(dest ...any) error
}

// scanHoliday re-anchors the DATE column in loc so it compares as a civil date.
func scanHoliday(row rowScanner, loc *time.Location) (recommendation.Holiday, error) {
	var (
		region string
		name   string
		date   time.Time
	)
	if err := row.Scan(&region, &name, &date); err != nil {
		return recommendation.Holiday{}, err
	}
	y, m, d := date.Date()
	return recommendation.Holiday{
		Name:   name,
		Date:   time.Date(y, m, d, 0, 0, 0, 0, loc),
		Region: region,
	}, nil
}

func normalizeRegions(regions []string) []string {
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		if code := strings.ToUpper(strings.TrimSpace(r)); code != "" {
			out = append(out, code)
		}
	}
	return out
}

var _ recommendation.HolidayProvider = (*Repository)(nil)
