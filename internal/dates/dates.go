// Package dates implements the calendar-date comparison contract
// behind the dashboard buckets. Classification truncates both sides to
// the local calendar date and never subtracts timestamps: an
// assignment due at 00:05 today is still "due today" at 23:50.
package dates

import (
	"time"

	"assignment-tracker/internal/model"
)

// Bucket is the primary dashboard classification of a due date.
type Bucket int

const (
	// BucketUnscheduled is an assignment with no due date.
	BucketUnscheduled Bucket = iota
	// BucketOverdue is a calendar date strictly before today.
	BucketOverdue
	// BucketToday is today's calendar date, whatever the time of day.
	BucketToday
	// BucketTomorrow is today's calendar date plus one day.
	BucketTomorrow
	// BucketLater is any calendar date after tomorrow.
	BucketLater
)

func (b Bucket) String() string {
	switch b {
	case BucketUnscheduled:
		return "unscheduled"
	case BucketOverdue:
		return "overdue"
	case BucketToday:
		return "today"
	case BucketTomorrow:
		return "tomorrow"
	case BucketLater:
		return "later"
	}
	return "unknown"
}

// Day truncates t to its calendar date in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date,
// compared in now-local terms by the caller's choice of locations.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// Classify places a due date into its primary bucket relative to now.
// The due date is evaluated in now's location so "today" means the
// user's local day.
func Classify(due *time.Time, now time.Time) Bucket {
	if due == nil {
		return BucketUnscheduled
	}
	today := Day(now)
	dueDay := Day(due.In(now.Location()))

	switch {
	case dueDay.Before(today):
		return BucketOverdue
	case dueDay.Equal(today):
		return BucketToday
	case dueDay.Equal(today.AddDate(0, 0, 1)):
		return BucketTomorrow
	}
	return BucketLater
}

// WithinNextWeek reports whether due falls in [today, today+7],
// inclusive on both ends. Today and tomorrow count; overdue does not.
func WithinNextWeek(due *time.Time, now time.Time) bool {
	if due == nil {
		return false
	}
	today := Day(now)
	dueDay := Day(due.In(now.Location()))
	return !dueDay.Before(today) && !dueDay.After(today.AddDate(0, 0, 7))
}

// Buckets groups incomplete assignments for the dashboard.
// NextSevenDays overlaps Today and Tomorrow, matching the stats the
// original dashboard shows side by side.
type Buckets struct {
	Overdue       []model.Assignment
	Today         []model.Assignment
	Tomorrow      []model.Assignment
	NextSevenDays []model.Assignment
	Unscheduled   []model.Assignment
}

// Partition classifies each assignment relative to now. Callers pass
// the incomplete view; completed records are skipped defensively.
func Partition(assignments []model.Assignment, now time.Time) Buckets {
	var b Buckets
	for _, a := range assignments {
		if a.Completed {
			continue
		}
		switch Classify(a.DueDate, now) {
		case BucketUnscheduled:
			b.Unscheduled = append(b.Unscheduled, a)
		case BucketOverdue:
			b.Overdue = append(b.Overdue, a)
		case BucketToday:
			b.Today = append(b.Today, a)
		case BucketTomorrow:
			b.Tomorrow = append(b.Tomorrow, a)
		}
		if WithinNextWeek(a.DueDate, now) {
			b.NextSevenDays = append(b.NextSevenDays, a)
		}
	}
	return b
}
