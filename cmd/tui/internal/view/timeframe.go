package view

import "time"

// Timeframe is a predefined date range used to narrow history tables.
type Timeframe int

const (
	TimeframeAll Timeframe = iota
	TimeframeToday
	TimeframeThisWeek
	TimeframeThisMonth
	TimeframeLastMonth
)

var timeframes = []Timeframe{
	TimeframeAll,
	TimeframeToday,
	TimeframeThisWeek,
	TimeframeThisMonth,
	TimeframeLastMonth,
}

func (t Timeframe) String() string {
	switch t {
	case TimeframeToday:
		return "Today"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	}

	return "All Time"
}

// Next cycles to the following timeframe.
func (t Timeframe) Next() Timeframe {
	return timeframes[(int(t)+1)%len(timeframes)]
}

// Range returns the half-open [start, end) range for t relative to now.
// TimeframeAll returns zero times.
func (t Timeframe) Range(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch t {
	case TimeframeToday:
		return today, today.AddDate(0, 0, 1)
	case TimeframeThisWeek:
		// weeks start on Monday
		offset := (int(now.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)

		return start, start.AddDate(0, 0, 7)
	case TimeframeThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	case TimeframeLastMonth:
		end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return end.AddDate(0, -1, 0), end
	}

	return time.Time{}, time.Time{}
}

// Contains reports whether ts falls inside t relative to now. Dates are
// compared by calendar day in now's location.
func (t Timeframe) Contains(ts, now time.Time) bool {
	if t == TimeframeAll {
		return true
	}

	start, end := t.Range(now)
	ts = ts.In(now.Location())
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, now.Location())

	return !day.Before(start) && day.Before(end)
}
