package finance

import "time"

// Period is a half-open time range [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthOf returns the calendar month containing t, in t's location.
func MonthOf(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// DayOf returns the calendar day containing t, in t's location.
func DayOf(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Period{Start: start, End: start.AddDate(0, 0, 1)}
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Last is the final instant still inside the period.
func (p Period) Last() time.Time {
	return p.End.Add(-time.Nanosecond)
}
