package reminder

import (
	"context"
	"log/slog"
)

// LogNotifier is a Notifier for environments without a real
// notification subsystem. It keeps the pending set in memory, keyed by
// notification id, and logs every delivery action.
type LogNotifier struct {
	log     *slog.Logger
	pending map[int64]Notification
}

// NewLogNotifier returns an enabled, empty LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log, pending: make(map[int64]Notification)}
}

func (l *LogNotifier) Pending(ctx context.Context) ([]Notification, error) {
	out := make([]Notification, 0, len(l.pending))
	for _, n := range l.pending {
		out = append(out, n)
	}
	return out, nil
}

func (l *LogNotifier) Enabled(ctx context.Context) (bool, error) {
	return true, nil
}

func (l *LogNotifier) RequestPermission(ctx context.Context) error {
	return nil
}

func (l *LogNotifier) Show(ctx context.Context, n Notification) error {
	l.pending[n.ID] = n
	l.log.Info("reminder scheduled", "id", n.ID, "title", n.Title, "fire_at", n.FireAt)
	return nil
}

func (l *LogNotifier) Cancel(ctx context.Context, id int64) error {
	delete(l.pending, id)
	l.log.Info("reminder cancelled", "id", id)
	return nil
}

// LogAlerter surfaces foreground alerts on the log.
type LogAlerter struct {
	log *slog.Logger
}

func NewLogAlerter(log *slog.Logger) *LogAlerter {
	return &LogAlerter{log: log}
}

func (l *LogAlerter) Alert(title, body string) {
	l.log.Info("alert", "title", title, "body", body)
}
