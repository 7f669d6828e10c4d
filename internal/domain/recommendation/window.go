package recommendation

import (
	"time"

	"github.com/yanqian/playlist-recommender/pkg/util"
)

// WindowFor returns the inclusive lookahead range starting at today.
func WindowFor(today time.Time, tf Timeframe) DateRange {
	start := util.CivilDate(today)
	return DateRange{Start: start, End: addTimeframe(start, tf)}
}

func addTimeframe(start time.Time, tf Timeframe) time.Time {
	switch tf.Unit {
	case Weeks:
		return start.AddDate(0, 0, 7*tf.Amount)
	case Months:
		return addMonthsClamped(start, tf.Amount)
	default:
		return start.AddDate(0, 0, tf.Amount)
	}
}

// addMonthsClamped moves n calendar months forward, clamping the day to the
// last valid day of the target month (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := util.DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// Contains reports whether d falls on a calendar date inside the range.
func (r DateRange) Contains(d time.Time) bool {
	key := dateKey(d)
	return key >= dateKey(r.Start) && key <= dateKey(r.End)
}

// dateKey compares calendar dates independent of zone and clock time.
func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
