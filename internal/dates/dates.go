// Package dates holds the calendar-day arithmetic shared by subscription code.
// All values are midnight UTC of a calendar day, matching Postgres DATE columns.
package dates

import "time"

const Layout = "2006-01-02"

func Of(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the local calendar day of now.
func Today(now time.Time) time.Time {
	local := now.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func AddDays(t time.Time, days int) time.Time {
	return Of(t).AddDate(0, 0, days)
}

func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Parse reads an optional YYYY-MM-DD value.
func Parse(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(Layout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func Ptr(t time.Time) *time.Time {
	d := Of(t)
	return &d
}
