// Package month provides calendar-month bucketing helpers shared by the
// metric calculators. All buckets are first-of-month instants in UTC.
package month

import "time"

// Bucket truncates t to the first day of its calendar month in UTC.
func Bucket(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Between returns the signed number of calendar-month boundaries crossed
// between a and b. Between(Jan 31, Feb 1) is 1 regardless of day distance.
func Between(a, b time.Time) int {
	from := Bucket(a)
	to := Bucket(b)
	years := to.Year() - from.Year()
	months := int(to.Month()) - int(from.Month())
	return years*12 + months
}

// Sequence returns every month bucket from the month of from through the
// month of to, inclusive. Returns nil when to precedes from.
func Sequence(from, to time.Time) []time.Time {
	cur := Bucket(from)
	last := Bucket(to)
	if last.Before(cur) {
		return nil
	}
	out := make([]time.Time, 0, Between(cur, last)+1)
	for !cur.After(last) {
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// Key formats a bucket as a sortable "YYYY-MM" label.
func Key(t time.Time) string {
	return Bucket(t).Format("2006-01")
}
