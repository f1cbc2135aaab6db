package domain

import "time"

// DayLayout is the calendar date format used throughout the application.
const DayLayout = "2006-01-02"

// Today returns the current local calendar date. Dates follow the process's
// local wall clock, so the value around midnight depends on its time zone.
func Today() string {
	return LocalDay(time.Now())
}

// LocalDay formats t as a local calendar date.
func LocalDay(t time.Time) string {
	return t.In(time.Local).Format(DayLayout)
}

// ParseDay parses a "YYYY-MM-DD" date at UTC midnight.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(DayLayout, day)
}

// ValidDay reports whether day is a well-formed calendar date.
func ValidDay(day string) bool {
	_, err := ParseDay(day)
	return err == nil
}

// AddDays returns the date n days after day (before, when n is negative).
// It returns "" when day is not a valid date.
func AddDays(day string, n int) string {
	t, err := ParseDay(day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(DayLayout)
}

// DaysBetween returns the number of whole days from from to to. Invalid or
// reversed input yields 0.
func DaysBetween(from, to string) int {
	start, err := ParseDay(from)
	if err != nil {
		return 0
	}
	end, err := ParseDay(to)
	if err != nil {
		return 0
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / (24 * time.Hour))
}

// WeekdayLabel returns the weekday name of day, or "" for invalid input.
func WeekdayLabel(day string) string {
	t, err := ParseDay(day)
	if err != nil {
		return ""
	}
	return weekdayLabels[t.Weekday()]
}
