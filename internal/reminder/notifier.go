package reminder

import (
	"context"
	"time"
)

// Repeat is a notification's redelivery policy.
type Repeat int

const (
	RepeatNone Repeat = iota
	RepeatDaily
)

// Notification is one reminder request handed to the notification
// subsystem. ID is a Key id, so resubmitting the same edge replaces
// rather than duplicates.
type Notification struct {
	ID     int64
	Title  string
	Body   string
	FireAt time.Time
	Repeat Repeat
}

// Notifier is the notification subsystem boundary. Its operations are
// the only asynchronous ones in the core, hence the contexts; store
// reads and writes stay synchronous.
type Notifier interface {
	// Pending lists the currently scheduled notifications.
	Pending(ctx context.Context) ([]Notification, error)
	// Enabled reports whether the app may deliver notifications.
	Enabled(ctx context.Context) (bool, error)
	// RequestPermission prompts for delivery permission.
	RequestPermission(ctx context.Context) error
	// Show schedules a notification.
	Show(ctx context.Context, n Notification) error
	// Cancel withdraws a scheduled notification by id.
	Cancel(ctx context.Context, id int64) error
}

// Alerter raises an immediate foreground alert. Alerts do not go
// through the notification subsystem and fire even when delivery
// permission was denied.
type Alerter interface {
	Alert(title, body string)
}
