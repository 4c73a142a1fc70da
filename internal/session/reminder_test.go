package session

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestReminderScheduler(t *testing.T) {
	t.Run("non-positive interval schedules nothing", func(t *testing.T) {
		notifier := newFakeNotifier()
		sched := NewReminderScheduler(notifier, zerolog.Nop())

		sched.ScheduleAfter(0)
		sched.ScheduleAfter(-time.Minute)
		assert.Equal(t, 0, notifier.scheduleCalls)
		assert.Equal(t, 0, notifier.pendingCount())
	})

	t.Run("rescheduling replaces the pending reminder", func(t *testing.T) {
		notifier := newFakeNotifier()
		sched := NewReminderScheduler(notifier, zerolog.Nop())

		sched.ScheduleAfter(10 * time.Minute)
		sched.ScheduleAfter(5 * time.Minute)
		assert.Equal(t, 2, notifier.scheduleCalls)
		assert.Equal(t, 1, notifier.pendingCount())
		assert.Equal(t, 5*time.Minute, notifier.pending[reminderID])
	})

	t.Run("cancel drops the pending reminder", func(t *testing.T) {
		notifier := newFakeNotifier()
		sched := NewReminderScheduler(notifier, zerolog.Nop())

		sched.ScheduleAfter(10 * time.Minute)
		sched.Cancel()
		sched.Cancel()
		assert.Equal(t, 0, notifier.pendingCount())
	})
}
