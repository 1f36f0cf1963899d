package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("bogus", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(time.Date(2025, time.June, 15, 13, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), end)

	// December rolls over the year
	start, end = MonthWindow(time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestDateRangeBounds(t *testing.T) {
	lo, hi := DateRangeBounds(
		time.Date(2025, time.June, 2, 10, 30, 0, 0, time.UTC),
		time.Date(2025, time.June, 4, 8, 0, 0, 0, time.UTC),
	)
	assert.Equal(t, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), lo)
	assert.Equal(t, time.Date(2025, time.June, 4, 23, 59, 59, 999999000, time.UTC), hi)

	// A single day still yields a non-empty window
	lo, hi = DateRangeBounds(
		time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
	)
	assert.True(t, lo.Before(hi))
}
