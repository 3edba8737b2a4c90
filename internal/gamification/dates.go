package gamification

import "time"

// ReferenceZone is the fixed, DST-free civil timezone (UTC-3) used for every
// day-boundary computation. Streaks and daily buckets must behave identically
// regardless of the client's locale, so we never use time.Local here.
var ReferenceZone = time.FixedZone("UTC-3", -3*60*60)

const dayLayout = "2006-01-02"

// DayKey returns the ISO calendar day (YYYY-MM-DD) of t in the reference
// timezone.
func DayKey(t time.Time) string {
	return t.In(ReferenceZone).Format(dayLayout)
}

// ShiftDay returns the ISO day delta calendar days away from day. A malformed
// day string yields an empty result rather than an error; callers treat it as
// "no such bucket".
func ShiftDay(day string, delta int) string {
	t, err := time.ParseInLocation(dayLayout, day, ReferenceZone)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, delta).Format(dayLayout)
}
