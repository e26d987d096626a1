package goal

import (
	"github.com/tessadair/bloom/internal/model"
)

type Status string

const (
	// One-time goal states.
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"

	// Recurring goal states, scoped to the owner's current calendar day.
	StatusNotDueToday Status = "not_due_today"
	StatusDueToday    Status = "due_today"
	StatusDoneToday   Status = "done_today"
)

// ComputeStatus determines where a goal sits in its completion lifecycle.
// today is YYYY-MM-DD and weekday is 0-6 (0 = Sunday), both in the owner's
// timezone.
//
// A one-time goal is pending until completed_at is set, then terminal. A
// recurring goal cycles every day: done today if last_completed_date equals
// today, otherwise due or not due depending on the weekday schedule. A
// recurring goal that has never been completed is simply due on its
// scheduled days.
func ComputeStatus(g model.Goal, today string, weekday int) Status {
	if !g.Recurring() {
		if g.CompletedAt != nil {
			return StatusCompleted
		}
		return StatusPending
	}

	if DoneOn(g, today) {
		return StatusDoneToday
	}
	if !scheduledOn(g, weekday) {
		return StatusNotDueToday
	}
	return StatusDueToday
}

// Completable reports whether a completion attempt on the goal should be
// rewarded. One-time goals are completable whenever still pending; recurring
// goals whenever they have not already paid out today. A recurring goal may
// be completed off-schedule: the weekday set drives what the UI surfaces
// as due, not what the user is allowed to finish.
func Completable(g model.Goal, today string) bool {
	if !g.Recurring() {
		return g.CompletedAt == nil
	}
	return !DoneOn(g, today)
}

// DoneOn reports whether a recurring goal already paid out on the given day.
func DoneOn(g model.Goal, day string) bool {
	return g.LastCompletedDate != nil && *g.LastCompletedDate == day
}

func scheduledOn(g model.Goal, weekday int) bool {
	for _, d := range g.RecurringDays {
		if d == weekday {
			return true
		}
	}
	return false
}
