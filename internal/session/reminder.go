package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const reminderID = "inactivity-reminder"

// ReminderScheduler owns the single pending inactivity reminder. It is
// driven by app lifecycle transitions: backgrounding schedules a
// reminder after the user's configured interval, foregrounding (or
// logging out) cancels it. Cancel-before-reschedule keeps rapid
// background/foreground toggles from stacking duplicates.
type ReminderScheduler struct {
	mu       sync.Mutex
	notifier Notifier
	log      zerolog.Logger
}

func NewReminderScheduler(notifier Notifier, log zerolog.Logger) *ReminderScheduler {
	return &ReminderScheduler{notifier: notifier, log: log}
}

// ScheduleAfter arranges the reminder. An unset or non-positive
// interval disables the feature and schedules nothing.
func (r *ReminderScheduler) ScheduleAfter(interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifier.CancelScheduled(reminderID)
	if interval <= 0 {
		return
	}
	r.notifier.Schedule(reminderID, interval,
		"Workout Reminder!",
		"It's been a while! Time to hit the gym and log your progress?")
	r.log.Debug().Dur("interval", interval).Msg("inactivity reminder scheduled")
}

// Cancel drops any pending reminder.
func (r *ReminderScheduler) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifier.CancelScheduled(reminderID)
}
