package finance

import (
	"fmt"
	"sort"
	"time"

	"micartera/src/models"
)

type Bucket string

const (
	BucketOverdue  Bucket = "overdue"
	BucketDueToday Bucket = "due-today"
	BucketUpcoming Bucket = "upcoming"
)

// DashboardReminderLimit caps the dashboard's next-reminders list.
const DashboardReminderLimit = 5

// StartOfDayUTC truncates t to the start of its UTC calendar day. Due dates
// are stored as plain dates, so every comparison happens on UTC days.
func StartOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayDiff is the number of calendar days from today to due.
func DayDiff(due, today time.Time) int {
	return int(StartOfDayUTC(due).Sub(StartOfDayUTC(today)) / (24 * time.Hour))
}

// Classify buckets a due date relative to now.
func Classify(due, now time.Time) (Bucket, int) {
	diff := DayDiff(due, now)
	switch {
	case diff < 0:
		return BucketOverdue, diff
	case diff == 0:
		return BucketDueToday, diff
	}
	return BucketUpcoming, diff
}

// ReminderLabel renders the countdown text for a day difference.
func ReminderLabel(diff int) string {
	switch {
	case diff < 0:
		n := -diff
		if n == 1 {
			return "Overdue by 1 day"
		}
		return fmt.Sprintf("Overdue by %d days", n)
	case diff == 0:
		return "Due today"
	case diff == 1:
		return "Due tomorrow"
	}
	return fmt.Sprintf("%d days left", diff)
}

type ClassifiedReminder struct {
	Note   models.Note `json:"note"`
	Bucket Bucket      `json:"bucket"`
	Days   int         `json:"days"`
	Label  string      `json:"label"`
}

func ClassifyReminder(n models.Note, now time.Time) ClassifiedReminder {
	b, diff := Classify(n.DueDate, now)
	return ClassifiedReminder{Note: n, Bucket: b, Days: diff, Label: ReminderLabel(diff)}
}

// ClassifyAll classifies notes keeping their order.
func ClassifyAll(notes []models.Note, now time.Time) []ClassifiedReminder {
	out := make([]ClassifiedReminder, len(notes))
	for i, n := range notes {
		out[i] = ClassifyReminder(n, now)
	}
	return out
}

type ReminderGroups struct {
	DueToday []ClassifiedReminder `json:"due_today"`
	Upcoming []ClassifiedReminder `json:"upcoming"`
	Overdue  []ClassifiedReminder `json:"overdue"`
}

func (g ReminderGroups) Len() int {
	return len(g.DueToday) + len(g.Upcoming) + len(g.Overdue)
}

// Ordered flattens the groups in display order.
func (g ReminderGroups) Ordered() []ClassifiedReminder {
	out := make([]ClassifiedReminder, 0, g.Len())
	out = append(out, g.DueToday...)
	out = append(out, g.Upcoming...)
	return append(out, g.Overdue...)
}

// GroupReminders splits notes into due-today, upcoming (soonest first) and
// overdue (most recently overdue first).
func GroupReminders(notes []models.Note, now time.Time) ReminderGroups {
	sorted := append([]models.Note(nil), notes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})

	var g ReminderGroups
	for _, n := range sorted {
		c := ClassifyReminder(n, now)
		switch c.Bucket {
		case BucketOverdue:
			g.Overdue = append(g.Overdue, c)
		case BucketDueToday:
			g.DueToday = append(g.DueToday, c)
		default:
			g.Upcoming = append(g.Upcoming, c)
		}
	}
	for i, j := 0, len(g.Overdue)-1; i < j; i, j = i+1, j-1 {
		g.Overdue[i], g.Overdue[j] = g.Overdue[j], g.Overdue[i]
	}
	return g
}

// NextReminders returns at most limit notes due today or later, soonest first.
func NextReminders(notes []models.Note, now time.Time, limit int) []ClassifiedReminder {
	g := GroupReminders(notes, now)
	out := append(g.DueToday, g.Upcoming...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
