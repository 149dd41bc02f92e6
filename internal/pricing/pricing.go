package pricing

import "time"

// RentalDays computes the whole-day difference between two minute-precision
// timestamps, clamped to a minimum of one day. A rental that starts and ends
// on the same day, or whose end precedes its start because of clock skew,
// is billed one day.
func RentalDays(start, end time.Time) int32 {
	if !end.After(start) {
		return 1
	}
	days := int32(end.Sub(start) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return days
}

// TotalCostCents returns the rental cost in minor currency units.
func TotalCostCents(dailyRateCents int64, days int32) int64 {
	return dailyRateCents * int64(days)
}

// TruncateToMinute drops seconds and sub-second precision from a timestamp.
// Rental start and end times are recorded at minute precision.
func TruncateToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}
