// File: utils/timeutil_test.go
package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2026, 9, 14, h, m, 0, 0, time.UTC)
}

func TestIntervalsOverlap(t *testing.T) {
	// Overlapping.
	assert.True(t, IntervalsOverlap(at(9, 0), at(10, 0), at(9, 30), at(10, 30)))
	// Contained.
	assert.True(t, IntervalsOverlap(at(9, 0), at(12, 0), at(10, 0), at(11, 0)))
	// Back-to-back intervals are half-open and do not overlap.
	assert.False(t, IntervalsOverlap(at(9, 0), at(10, 0), at(10, 0), at(11, 0)))
	assert.False(t, IntervalsOverlap(at(10, 0), at(11, 0), at(9, 0), at(10, 0)))
	// Disjoint.
	assert.False(t, IntervalsOverlap(at(9, 0), at(10, 0), at(12, 0), at(13, 0)))
}

func TestIsContiguous(t *testing.T) {
	starts := []time.Time{at(9, 0), at(10, 0), at(11, 0)}
	ends := []time.Time{at(10, 0), at(11, 0), at(12, 0)}
	assert.True(t, IsContiguous(starts, ends))

	gapEnds := []time.Time{at(10, 0), at(10, 30), at(12, 0)}
	assert.False(t, IsContiguous(starts, gapEnds))

	assert.False(t, IsContiguous(starts, ends[:2]))
	assert.True(t, IsContiguous(starts[:1], ends[:1]))
}

func TestWeekdayMondayZero(t *testing.T) {
	// 2026-09-14 is a Monday.
	monday := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeekdayMondayZero(monday))
	assert.Equal(t, 5, WeekdayMondayZero(monday.AddDate(0, 0, 5)))
	assert.Equal(t, 6, WeekdayMondayZero(monday.AddDate(0, 0, 6)))
}

func TestCombineDateClock(t *testing.T) {
	got, err := CombineDateClock("2026-09-14", "09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, "2026-09-14", LocalDate(got))
	assert.Equal(t, "09:30", LocalClock(got))

	_, err = CombineDateClock("2026-09-14", "25:00")
	assert.Error(t, err)
	_, err = CombineDateClock("2026-09-14", "bogus")
	assert.Error(t, err)
	_, err = CombineDateClock("not-a-date", "09:00")
	assert.Error(t, err)
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("14/09/2026")
	assert.Error(t, err)
	day, err := ParseDate("2026-09-14")
	require.NoError(t, err)
	assert.Equal(t, time.September, day.Month())
}
