package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Notifier abstracts local and push notification delivery. The real
// delivery channel (mobile notification service, desktop toast) is a
// platform concern outside this module; the session layer only decides
// when something should be shown or scheduled.
type Notifier interface {
	// Notify shows an immediate user-visible notice.
	Notify(title, body string)
	// Schedule arranges a one-shot local notification after the delay.
	// Scheduling under an id that is already pending replaces it.
	Schedule(id string, after time.Duration, title, body string)
	// CancelScheduled drops a pending scheduled notification, if any.
	CancelScheduled(id string)
	// RegisterPush registers this device for push delivery. Best-effort:
	// callers swallow the error after logging it.
	RegisterPush(ctx context.Context) error
}

// LogNotifier is the default Notifier for headless use. It writes every
// notice to the log instead of a platform notification channel.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(title, body string) {
	n.log.Info().Str("title", title).Msg(body)
}

func (n *LogNotifier) Schedule(id string, after time.Duration, title, body string) {
	n.log.Debug().Str("id", id).Dur("after", after).Str("title", title).Msg("notification scheduled")
}

func (n *LogNotifier) CancelScheduled(id string) {
	n.log.Debug().Str("id", id).Msg("scheduled notification cancelled")
}

func (n *LogNotifier) RegisterPush(context.Context) error {
	return nil
}
