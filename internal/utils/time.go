package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/habitlog/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DayOf formats t as a day string in loc.
func DayOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// TodayIn returns today's day string (YYYY-MM-DD) in the given IANA timezone.
func TodayIn(timezone string, now time.Time) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return DayOf(now, loc), nil
}

// ParseDate parses a YYYY-MM-DD string as a UTC midnight.
func ParseDate(day string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, strings.TrimSpace(day))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", day, err)
	}
	return t, nil
}

// NormalizeDate validates day and returns it in canonical form.
func NormalizeDate(day string) (string, error) {
	t, err := ParseDate(day)
	if err != nil {
		return "", err
	}
	return t.Format(constants.DateFormat), nil
}

// AddDays shifts a day string by n days. The input must already be valid.
func AddDays(day string, n int) string {
	t, err := ParseDate(day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat)
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(constants.DateFormat), last.Format(constants.DateFormat)
}

// ParseMonth parses YYYY-MM.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(constants.MonthFormat, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// DaysBetween returns the inclusive list of days from start to end.
func DaysBetween(start, end string) []string {
	s, err := ParseDate(start)
	if err != nil {
		return nil
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil
	}
	var days []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(constants.DateFormat))
	}
	return days
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
