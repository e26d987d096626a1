package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tessadair/bloom/internal/clock"
	"github.com/tessadair/bloom/internal/store"
)

// reminderHour is the local hour after which a user with no activity today
// gets a nudge. Evening, so the day is mostly over but not lost.
const reminderHour = 19

const kindStreakReminder = "streak_reminder"

// Reminder periodically checks subscribed users and nudges the ones who
// have not logged any rewarded activity today. All day math runs in each
// user's own timezone.
type Reminder struct {
	mu     sync.RWMutex
	sender *Sender
	subs   *store.PushStore
	users  *store.UserStore
	clock  *clock.Clock
	logger *slog.Logger

	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewReminder(sender *Sender, subs *store.PushStore, users *store.UserStore, clk *clock.Clock, logger *slog.Logger) *Reminder {
	return &Reminder{
		sender:   sender,
		subs:     subs,
		users:    users,
		clock:    clk,
		logger:   logger,
		interval: 5 * time.Minute,
	}
}

// Start begins the reminder loop.
func (r *Reminder) Start(ctx context.Context) {
	r.mu.Lock()
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.mu.Unlock()

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.tick()
			}
		}
	}()
}

// Stop gracefully stops the reminder loop.
func (r *Reminder) Stop() {
	r.mu.RLock()
	cancel := r.cancel
	done := r.done
	r.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (r *Reminder) tick() {
	ids, err := r.subs.ListSubscribedUserIDs()
	if err != nil {
		r.logger.Error("list subscribed users", "error", err)
		return
	}

	for _, id := range ids {
		r.remindUser(id)
	}

	cutoff := r.clock.Now().UTC().Add(-48 * time.Hour).Format("2006-01-02 15:04:05")
	if err := r.subs.PruneSentBefore(cutoff); err != nil {
		r.logger.Error("prune sent log", "error", err)
	}
}

func (r *Reminder) remindUser(userID int64) {
	u, err := r.users.GetByID(userID)
	if err != nil {
		r.logger.Error("load user for reminder", "user_id", userID, "error", err)
		return
	}
	if u == nil {
		return
	}

	today := r.clock.Today(u.Timezone)
	if u.LastActiveDate != nil && *u.LastActiveDate == today {
		return
	}
	if r.clock.Hour(u.Timezone) < reminderHour {
		return
	}

	// Claim the (user, day) slot before sending so overlapping ticks
	// cannot double-send. A failed send forfeits today's reminder.
	claimed, err := r.subs.MarkSent(userID, kindStreakReminder, today)
	if err != nil {
		r.logger.Error("mark reminder sent", "user_id", userID, "error", err)
		return
	}
	if !claimed {
		return
	}

	payload := Payload{
		Title: "bloom",
		Body:  "Take a minute for yourself today",
		URL:   "/",
		Tag:   kindStreakReminder,
	}
	if u.LastActiveDate != nil && *u.LastActiveDate == r.clock.Yesterday(u.Timezone) && u.CurrentStreak > 0 {
		payload.Body = fmt.Sprintf("Your %d-day streak ends at midnight. A quick check-in keeps it going", u.CurrentStreak)
	}

	subs, err := r.subs.ListByUser(userID)
	if err != nil {
		r.logger.Error("list subscriptions", "user_id", userID, "error", err)
		return
	}

	for i := range subs {
		if err := r.sender.Send(&subs[i], payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := r.subs.DeleteExpiredEndpoint(subs[i].Endpoint); err != nil {
					r.logger.Error("delete expired subscription", "error", err)
				}
				continue
			}
			r.logger.Error("send reminder", "user_id", userID, "error", err)
		}
	}
}
