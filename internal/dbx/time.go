package dbx

import "time"

// TimeLayout is how timestamps are stored in TEXT columns. It is fixed
// width in UTC, so string order is time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
