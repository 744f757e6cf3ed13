package clock

import "time"

const dateKeyLayout = "2006-01-02"

// Day is the length of one offline reconciliation period.
const Day = 24 * time.Hour

// DateKey formats ms as a local calendar date (YYYY-MM-DD). A nil location
// means time.Local.
func DateKey(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format(dateKeyLayout)
}

// DaysBetweenKeys returns the number of calendar days from a to b. Unparseable
// keys report ok=false.
func DaysBetweenKeys(a, b string) (days int, ok bool) {
	ta, err := time.ParseInLocation(dateKeyLayout, a, time.UTC)
	if err != nil {
		return 0, false
	}
	tb, err := time.ParseInLocation(dateKeyLayout, b, time.UTC)
	if err != nil {
		return 0, false
	}
	return int(tb.Sub(ta).Hours() / 24), true
}

// Time converts Unix milliseconds to a time.Time.
func Time(ms int64) time.Time {
	return time.UnixMilli(ms)
}
