package callhistory

import "time"

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BucketByNextCall partitions calls by their next-call reminder relative to now,
// using now's location for day boundaries. Intervals are half-open:
// yesterday [start-1d, start), today [start, start+1d), next [start+1d, ∞).
// Calls without a reminder, or with one before yesterday, are left out.
func BucketByNextCall(items []View, now time.Time) Dashboard {
	today := StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	d := Dashboard{
		Yesterday: []View{},
		Today:     []View{},
		Next:      []View{},
	}

	for _, item := range items {
		if item.NextCallDateTime == nil {
			continue
		}
		at := item.NextCallDateTime.In(now.Location())
		switch {
		case !at.Before(tomorrow):
			d.Next = append(d.Next, item)
		case !at.Before(today):
			d.Today = append(d.Today, item)
		case !at.Before(yesterday):
			d.Yesterday = append(d.Yesterday, item)
		}
	}

	return d
}
