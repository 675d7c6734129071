// File: utils/timeutil.go
package utils

import (
	"fmt"
	"time"

	"github.com/NavaUDP/Agenda-Revitek/config"
)

const DateLayout = "2006-01-02"

// IntervalsOverlap reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Intervals are half-open on the right, so back-to-back intervals do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// IsContiguous reports whether a sequence of [start, end) pairs, already sorted
// by start, forms a gapless run: each interval ends exactly where the next begins.
func IsContiguous(starts, ends []time.Time) bool {
	if len(starts) != len(ends) {
		return false
	}
	for i := 0; i+1 < len(starts); i++ {
		if !ends[i].Equal(starts[i+1]) {
			return false
		}
	}
	return true
}

// WeekdayMondayZero converts Go's Sunday-based weekday to the Monday=0..Sunday=6
// convention used by work schedules and time rules.
func WeekdayMondayZero(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseDate parses a YYYY-MM-DD string as midnight in the business time zone.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, config.BusinessLocation())
}

// CombineDateClock returns the instant at clock time "HH:MM" on the given date
// in the business time zone.
func CombineDateClock(date string, clock string) (time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return time.Time{}, fmt.Errorf("invalid clock time %q", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, config.BusinessLocation()), nil
}

// LocalClock renders an instant as "HH:MM" in the business time zone.
func LocalClock(t time.Time) string {
	return t.In(config.BusinessLocation()).Format("15:04")
}

// LocalDate renders an instant as "YYYY-MM-DD" in the business time zone.
func LocalDate(t time.Time) string {
	return t.In(config.BusinessLocation()).Format(DateLayout)
}

// TodayLocal returns midnight of the current day in the business time zone.
func TodayLocal() time.Time {
	now := time.Now().In(config.BusinessLocation())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, config.BusinessLocation())
}
