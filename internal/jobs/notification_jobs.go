package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

const eligibleAgainMessage = "You are eligible to donate again. Thank you for helping save lives."

// NotifyEligibleDonors tells donors whose cooldown ended since the previous
// run that they may donate again, mirroring the note to email when one is on file.
func (jr *JobRunner) NotifyEligibleDonors() error {
	return jr.runWithRecovery("NotifyEligibleDonors", func() error {
		ctx := context.Background()
		now := jr.now()

		window := jobInterval(jr.config.Scheduler.NotifyEligibleDonors, now)
		donors, err := jr.repos.Donors.ListCooldownEndedBetween(ctx, now.Add(-window), now)
		if err != nil {
			return fmt.Errorf("failed to list donors leaving cooldown: %w", err)
		}

		emailed := 0
		for _, d := range donors {
			jr.notifier.TryNotify(ctx, d.UserID, eligibleAgainMessage)

			user, err := jr.repos.Users.GetByID(ctx, d.UserID)
			if err != nil {
				logger.Warn("Failed to load donor user for email", "donorID", d.ID, "userID", d.UserID, "error", err)
				continue
			}
			if user.Email == "" {
				continue
			}
			eligibleSince := now
			if next := d.NextEligibleDate(); next != nil {
				eligibleSince = *next
			}
			if err := jr.email.SendEligibilityReminder(ctx, user.Email, user.Name, eligibleSince); err != nil {
				logger.Error("Failed to send eligibility email", "donorID", d.ID, "email", user.Email, "error", err)
				continue
			}
			emailed++
		}

		logger.Info("Eligible donors notified", "count", len(donors), "emailed", emailed)
		return nil
	})
}

// RemindPendingRequests tells admins about requests that crossed the
// configured pending age since the previous run, then emails each admin a
// digest. Each request is reminded about once.
func (jr *JobRunner) RemindPendingRequests() error {
	return jr.runWithRecovery("RemindPendingRequests", func() error {
		ctx := context.Background()
		now := jr.now()
		cutoff := now.Add(-time.Duration(jr.config.Scheduler.PendingReminderHours) * time.Hour)
		window := jobInterval(jr.config.Scheduler.RemindPendingRequests, now)

		reqs, err := jr.repos.Requests.ListPendingBetween(ctx, cutoff.Add(-window), cutoff)
		if err != nil {
			return fmt.Errorf("failed to list pending requests: %w", err)
		}
		if len(reqs) == 0 {
			logger.Info("No stale pending requests")
			return nil
		}

		lines := make([]string, 0, len(reqs))
		for i := range reqs {
			msg := pendingReminderMessage(&reqs[i], now.Sub(reqs[i].RequestDate))
			jr.notifier.TryNotifyAdmins(ctx, msg)
			lines = append(lines, "- "+msg)
		}

		admins, err := jr.repos.Users.ListByRole(ctx, domain.UserRoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to list admins for digest: %w", err)
		}
		subject := fmt.Sprintf("%d blood request(s) awaiting action", len(reqs))
		body := "The following requests are still pending:\n\n" + strings.Join(lines, "\n")
		for _, a := range admins {
			if a.Email == "" {
				continue
			}
			if err := jr.email.SendAdminDigest(ctx, a.Email, a.Name, subject, body); err != nil {
				logger.Error("Failed to send pending digest", "adminID", a.ID, "email", a.Email, "error", err)
			}
		}

		logger.Info("Pending request reminders sent", "requests", len(reqs), "admins", len(admins))
		return nil
	})
}

func pendingReminderMessage(req *domain.BloodRequest, age time.Duration) string {
	return fmt.Sprintf("Request #%d (%s x%d) has been pending for %d hours.",
		req.ID, req.BloodGroupNeeded, req.Quantity, int(age.Hours()))
}

// Same fields as cron.WithSeconds, which the scheduler uses.
var specParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// jobInterval is the gap between the next two activations of spec after now,
// or one day when spec is empty or does not parse.
func jobInterval(spec string, now time.Time) time.Duration {
	sched, err := specParser.Parse(spec)
	if err != nil {
		return 24 * time.Hour
	}
	next := sched.Next(now.UTC())
	if d := sched.Next(next).Sub(next); d > 0 {
		return d
	}
	return 24 * time.Hour
}
