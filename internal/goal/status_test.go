package goal

import (
	"testing"
	"time"

	"github.com/tessadair/bloom/internal/model"
)

func oneTime() model.Goal {
	return model.Goal{ID: 1, Title: "book a checkup"}
}

func recurring(days []int) model.Goal {
	return model.Goal{ID: 2, Title: "morning walk", RecurringDays: days}
}

func strPtr(s string) *string { return &s }

func TestComputeStatusOneTime(t *testing.T) {
	g := oneTime()
	if got := ComputeStatus(g, "2026-02-01", 0); got != StatusPending {
		t.Errorf("pending goal status = %q, want %q", got, StatusPending)
	}

	now := time.Now()
	g.CompletedAt = &now
	if got := ComputeStatus(g, "2026-02-01", 0); got != StatusCompleted {
		t.Errorf("completed goal status = %q, want %q", got, StatusCompleted)
	}
}

func TestComputeStatusRecurring(t *testing.T) {
	// Scheduled Monday, Wednesday, Friday.
	g := recurring([]int{1, 3, 5})

	tests := []struct {
		name    string
		last    *string
		today   string
		weekday int
		want    Status
	}{
		{"never completed, scheduled day", nil, "2026-02-02", 1, StatusDueToday},
		{"never completed, off day", nil, "2026-02-03", 2, StatusNotDueToday},
		{"done today", strPtr("2026-02-02"), "2026-02-02", 1, StatusDoneToday},
		{"stale date resets next day", strPtr("2026-02-02"), "2026-02-04", 3, StatusDueToday},
		{"stale date on off day", strPtr("2026-02-02"), "2026-02-03", 2, StatusNotDueToday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := g
			g.LastCompletedDate = tt.last
			if got := ComputeStatus(g, tt.today, tt.weekday); got != tt.want {
				t.Errorf("status = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompletable(t *testing.T) {
	g := oneTime()
	if !Completable(g, "2026-02-01") {
		t.Error("pending one-time goal should be completable")
	}

	now := time.Now()
	g.CompletedAt = &now
	if Completable(g, "2026-02-01") {
		t.Error("completed one-time goal should not be completable")
	}

	r := recurring([]int{1})
	if !Completable(r, "2026-02-03") {
		t.Error("recurring goal should be completable off-schedule")
	}

	r.LastCompletedDate = strPtr("2026-02-03")
	if Completable(r, "2026-02-03") {
		t.Error("recurring goal done today should not be completable")
	}
	if !Completable(r, "2026-02-04") {
		t.Error("recurring goal should be completable again the next day")
	}
}
