package service

import (
	"context"
	"errors"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/metrics"
	"bloodlink-backend/internal/repository"
)

// Notifier turns lifecycle events into NotificationLog rows.
//
// Notify and NotifyFirstAdmin return the storage error. The Try* methods are
// best-effort: failures are logged and counted, never returned. Inside a
// transaction the repositories isolate each insert, so a dropped
// notification leaves the transaction intact.
type Notifier struct {
	users   repository.UserRepository
	notes   repository.NotificationRepository
	metrics *metrics.Metrics
	now     func() time.Time

	// Set on transaction-bound copies; the sent count is reported after commit.
	deferred bool
	sent     int
}

func NewNotifier(users repository.UserRepository, notes repository.NotificationRepository, m *metrics.Metrics) *Notifier {
	return &Notifier{users: users, notes: notes, metrics: m, now: time.Now}
}

// WithRepos returns a copy that writes through repos, typically bound to a transaction.
func (n *Notifier) WithRepos(repos repository.Repositories) *Notifier {
	return &Notifier{users: repos.Users, notes: repos.Notifications, metrics: n.metrics, now: n.now, deferred: true}
}

// Sent is the number of notifications written by a transaction-bound copy.
func (n *Notifier) Sent() int { return n.sent }

func (n *Notifier) Notify(ctx context.Context, userID int32, message string) error {
	if userID <= 0 {
		return domain.Validation("notification needs a user")
	}
	note := &domain.NotificationLog{
		UserID:    userID,
		Message:   message,
		IsRead:    false,
		CreatedAt: n.now(),
	}
	if err := n.notes.Create(ctx, note); err != nil {
		return err
	}
	if n.deferred {
		n.sent++
	} else {
		n.metrics.NotificationsSent.Inc()
	}
	return nil
}

// NotifyFirstAdmin sends message to the admin with the lowest id.
func (n *Notifier) NotifyFirstAdmin(ctx context.Context, message string) error {
	admins, err := n.users.ListByRole(ctx, domain.UserRoleAdmin)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		return errNoAdmin
	}
	return n.Notify(ctx, admins[0].ID, message)
}

var errNoAdmin = errors.New("no admin user to notify")

func (n *Notifier) TryNotify(ctx context.Context, userID int32, message string) {
	if err := n.Notify(ctx, userID, message); err != nil {
		n.dropped(ctx, userID, err)
	}
}

// TryNotifyAdmins keeps going past a failed admin so one bad row does not
// starve the others.
func (n *Notifier) TryNotifyAdmins(ctx context.Context, message string) {
	admins, err := n.users.ListByRole(ctx, domain.UserRoleAdmin)
	if err != nil {
		n.dropped(ctx, 0, err)
		return
	}
	for _, a := range admins {
		n.TryNotify(ctx, a.ID, message)
	}
}

func (n *Notifier) TryNotifyFirstAdmin(ctx context.Context, message string) {
	if err := n.NotifyFirstAdmin(ctx, message); err != nil {
		n.dropped(ctx, 0, err)
	}
}

func (n *Notifier) dropped(ctx context.Context, userID int32, err error) {
	logger.NotificationDropped(ctx, userID, err)
	n.metrics.NotificationFailures.Inc()
}
