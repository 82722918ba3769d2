// Package reminder computes which date reminders to schedule, which to
// cancel, and which to surface immediately, from the current contents
// of the in-memory index.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/conorfennell/termtrack/internal/index"
)

// Alert is a foreground alert raised during a scan.
type Alert struct {
	Title string
	Body  string
}

// ScanResult summarises one scan for callers and tests.
type ScanResult struct {
	Scheduled []Notification
	Cancelled []int64
	Alerts    []Alert
}

// Scheduler walks every reminder-eligible edge in the index and drives
// the notification subsystem accordingly.
type Scheduler struct {
	notifier Notifier
	alerter  Alerter
	log      *slog.Logger
}

// NewScheduler wires a scheduler over the notification boundary.
func NewScheduler(n Notifier, a Alerter) *Scheduler {
	return &Scheduler{notifier: n, alerter: a, log: slog.Default()}
}

// Scan evaluates the start and end edges of every course and assessment
// in the index. Edges with a zero lead time are cancelled; edges with a
// positive lead time are scheduled to fire leadDays before their target
// date, anchored to the current hour and minute, repeating daily. When
// today already is the fire date a foreground alert is raised as well,
// on top of the scheduled notification; background delivery can be
// unreliable, so the duplicate coverage is deliberate.
//
// Cancellations are always issued before new notifications, so an edge
// that flipped off and back on within one scan is never left cancelled.
// A scan always runs to completion; individual delivery failures are
// logged and skipped.
func (s *Scheduler) Scan(ctx context.Context, now time.Time, idx *index.Index) (ScanResult, error) {
	pending, err := s.notifier.Pending(ctx)
	if err != nil {
		return ScanResult{}, err
	}

	enabled, err := s.notifier.Enabled(ctx)
	if err != nil {
		s.log.Warn("could not check notification permission", "error", err)
	} else if !enabled {
		// One request per scan. A denial only suppresses background
		// delivery; foreground alerts below still fire.
		if err := s.notifier.RequestPermission(ctx); err != nil {
			s.log.Warn("notification permission request failed", "error", err)
		}
	}

	var toShow []Notification
	var toCancel []Key
	var alerts []Alert

	addEdge := func(key Key, name string, target time.Time, leadDays int) {
		if leadDays == 0 {
			toCancel = append(toCancel, key)
			return
		}
		title, body := edgeText(key.Kind, name)
		fireAt := fireTime(target, leadDays, now)
		toShow = append(toShow, Notification{
			ID:     key.ID(),
			Title:  title,
			Body:   body,
			FireAt: fireAt,
			Repeat: RepeatDaily,
		})
		if sameDate(now, fireAt) {
			alerts = append(alerts, Alert{Title: title, Body: body})
		}
	}

	for _, t := range idx.Terms() {
		for _, c := range idx.CoursesOf(t.ID) {
			addEdge(Key{CourseStart, c.ID}, c.Name, c.Start, c.StartNotifyDays)
			addEdge(Key{CourseEnd, c.ID}, c.Name, c.End, c.EndNotifyDays)
		}
	}
	for _, a := range idx.Assessments() {
		addEdge(Key{AssessmentStart, a.ID}, a.Name, a.Start, a.StartNotifyDays)
		addEdge(Key{AssessmentEnd, a.ID}, a.Name, a.End, a.EndNotifyDays)
	}

	result := ScanResult{}
	for _, key := range toCancel {
		if !hasPending(pending, key.ID()) {
			continue
		}
		if err := s.notifier.Cancel(ctx, key.ID()); err != nil {
			s.log.Warn("failed to cancel reminder", "id", key.ID(), "kind", key.Kind, "error", err)
			continue
		}
		result.Cancelled = append(result.Cancelled, key.ID())
	}

	// Re-enumerate after cancelling; deduplication against what is
	// still pending is the subsystem's job, keyed by notification id.
	if pending, err = s.notifier.Pending(ctx); err != nil {
		s.log.Warn("could not refresh pending reminders", "error", err)
	} else {
		s.log.Debug("pending reminders before submit", "count", len(pending))
	}

	for _, n := range toShow {
		if err := s.notifier.Show(ctx, n); err != nil {
			s.log.Warn("failed to schedule reminder", "id", n.ID, "error", err)
			continue
		}
		result.Scheduled = append(result.Scheduled, n)
	}

	for _, a := range alerts {
		s.alerter.Alert(a.Title, a.Body)
	}
	result.Alerts = alerts

	s.log.Info("reminder scan complete",
		"scheduled", len(result.Scheduled),
		"cancelled", len(result.Cancelled),
		"alerts", len(result.Alerts),
	)
	return result, nil
}

// fireTime is the target date minus the lead days, anchored to the
// current hour and minute so the daily repeat lands at a familiar time.
func fireTime(target time.Time, leadDays int, now time.Time) time.Time {
	d := target.AddDate(0, 0, -leadDays)
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func hasPending(pending []Notification, id int64) bool {
	for _, p := range pending {
		if p.ID == id {
			return true
		}
	}
	return false
}

func edgeText(kind Kind, name string) (title, body string) {
	switch kind {
	case CourseStart, AssessmentStart:
		return name + " Starting soon", name + " is starting soon"
	default:
		return name + " Ending soon", name + " is ending soon"
	}
}
