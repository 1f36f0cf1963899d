package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returning the default on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// MonthWindow returns the half-open calendar month [start, end) containing t,
// in t's location. Used for the monthly swap request quota.
func MonthWindow(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0)
	return start, end
}

// DateRangeBounds expands a pair of calendar dates into the inclusive
// timestamp window [start 00:00:00, end 23:59:59.999999] that schedule
// generation loads shifts against.
func DateRangeBounds(startDate, endDate time.Time) (time.Time, time.Time) {
	lo := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	hi := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 999999000, endDate.Location())
	return lo, hi
}
