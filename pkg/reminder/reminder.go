// Package reminder fires meal reminders at fixed times of day.
package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mealhelper/mealhelper/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Notification fields shared by every reminder.
const (
	Title = "Meal Helper"
	// Tag lets a newer reminder replace an older one instead of stacking.
	Tag = "meal-reminder"
)

// Reminder is a message shown daily at Hour:Minute local time.
type Reminder struct {
	Hour    int
	Minute  int
	Message string
}

// Defaults are the breakfast, lunch and dinner reminders.
var Defaults = []Reminder{
	{Hour: 9, Minute: 0, Message: "Time to log your breakfast!"},
	{Hour: 13, Minute: 0, Message: "Don't forget to log your lunch!"},
	{Hour: 18, Minute: 0, Message: "Remember to log your dinner!"},
}

// Notification is what a Notifier displays.
type Notification struct {
	Title string
	Body  string
	Tag   string
}

// Notifier displays a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NextOccurrence returns the next time at or after now when r fires: today if
// the time has not passed yet, else tomorrow.
func NextOccurrence(now time.Time, r Reminder) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), r.Hour, r.Minute, 0, 0, now.Location())
	if next.Before(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Scheduler arms one timer chain per reminder.
type Scheduler struct {
	reminders []Reminder
	notifier  Notifier
	enabled   bool

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// NewScheduler creates a scheduler. enabled reflects whether the user granted
// notification permission.
func NewScheduler(reminders []Reminder, notifier Notifier, enabled bool) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		notifier:  notifier,
		enabled:   enabled,
		now:       time.Now,
		after:     time.After,
	}
}

// Run arms every reminder and blocks until ctx is cancelled. After each firing
// the reminder re-arms for the following day. Notifier errors are logged and do
// not stop the chain.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.enabled {
		slog.Warn("reminders_disabled", "reason", "permission_not_granted")
		return errors.ErrPermissionDenied
	}

	slog.Info("reminders_start", "count", len(s.reminders))

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range s.reminders {
		g.Go(func() error {
			return s.loop(ctx, r)
		})
	}

	err := g.Wait()
	slog.Info("reminders_stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Scheduler) loop(ctx context.Context, r Reminder) error {
	next := NextOccurrence(s.now(), r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		delay := max(next.Sub(s.now()), 0)

		slog.Info("reminder_armed",
			"time", fmt.Sprintf("%02d:%02d", r.Hour, r.Minute),
			"fires_at", next.Format(time.RFC3339),
			"delay", delay.Round(time.Second).String())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.after(delay):
		}

		n := Notification{Title: Title, Body: r.Message, Tag: Tag}
		if err := s.notifier.Notify(ctx, n); err != nil {
			slog.Error("reminder_notify_failed", "message", r.Message, "error", err)
		}

		next = next.AddDate(0, 0, 1)
		// Woken late (suspend, clock change): skip the missed days.
		if now := s.now(); next.Before(now) {
			next = NextOccurrence(now, r)
		}
	}
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(_ context.Context, n Notification) error {
	slog.Info("notification", "title", n.Title, "body", n.Body, "tag", n.Tag)
	return nil
}

// WriterNotifier prints notifications to a terminal or other writer.
type WriterNotifier struct {
	W io.Writer
}

// Notify implements Notifier.
func (w WriterNotifier) Notify(_ context.Context, n Notification) error {
	_, err := fmt.Fprintf(w.W, "🔔 %s: %s\n", n.Title, n.Body)
	return err
}
