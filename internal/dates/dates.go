// Package dates computes the day-aligned windows used by relative date
// filters and project due-date buckets. All arithmetic happens in a single
// reference location so a task due "today" means the same thing to every
// caller.
package dates

import "time"

// Relative date tokens accepted by due_relative / defer_relative.
const (
	Today    = "today"
	Tomorrow = "tomorrow"
	ThisWeek = "this_week"
	NextWeek = "next_week"
	Overdue  = "overdue"
)

// RelativeTokens lists the accepted relative-date filter values.
var RelativeTokens = []string{Today, Tomorrow, ThisWeek, NextWeek, Overdue}

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Relative resolves a relative-date token to a window anchored at now.
// The overdue token has no fixed lower bound; its window runs from the zero
// time up to now. An unknown token yields ok == false.
func Relative(token string, now time.Time, loc *time.Location) (Window, bool) {
	day := StartOfDay(now, loc)
	switch token {
	case Today:
		return Window{Start: day, End: day.AddDate(0, 0, 1)}, true
	case Tomorrow:
		return Window{Start: day.AddDate(0, 0, 1), End: day.AddDate(0, 0, 2)}, true
	case ThisWeek:
		return Window{Start: day, End: day.AddDate(0, 0, 7)}, true
	case NextWeek:
		return Window{Start: day.AddDate(0, 0, 7), End: day.AddDate(0, 0, 14)}, true
	case Overdue:
		return Window{Start: time.Time{}, End: now}, true
	}
	return Window{}, false
}

// DueBuckets carries the disjoint windows used by project aggregates:
// Today covers the current calendar day, Week covers the six days after it.
// Both windows are half-open [start, end), so a due date landing exactly on
// the day boundary counts toward Week and the two buckets partition the
// seven days with no gap.
type DueBuckets struct {
	Today Window
	Week  Window
}

// Buckets computes the aggregate due-date windows anchored at now.
func Buckets(now time.Time, loc *time.Location) DueBuckets {
	day := StartOfDay(now, loc)
	endOfToday := day.AddDate(0, 0, 1)
	return DueBuckets{
		Today: Window{Start: day, End: endOfToday},
		Week:  Window{Start: endOfToday, End: day.AddDate(0, 0, 7)},
	}
}
