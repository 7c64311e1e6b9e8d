package service

import (
	"fmt"
	"time"

	"bloodlink-backend/internal/domain"
)

func donorMatchedMessage(req *domain.BloodRequest) string {
	return fmt.Sprintf("A recipient at %s needs %d unit(s) of %s blood (request #%d). Please respond if you can donate.",
		hospitalOrUnknown(req.RecipientHospital), req.Quantity, req.BloodGroupNeeded, req.ID)
}

func adminRequestCreatedMessage(req *domain.BloodRequest, matched int) string {
	return fmt.Sprintf("New request #%d for %d unit(s) of %s: %d donors notified.",
		req.ID, req.Quantity, req.BloodGroupNeeded, matched)
}

func recipientStatusMessage(req *domain.BloodRequest) string {
	switch req.Status {
	case domain.RequestStatusApproved:
		return fmt.Sprintf("Your blood request #%d has been approved.", req.ID)
	case domain.RequestStatusCancelled:
		return fmt.Sprintf("Your blood request #%d has been cancelled.", req.ID)
	case domain.RequestStatusFulfilled:
		return fmt.Sprintf("Your blood request #%d has been marked as fulfilled.", req.ID)
	default:
		return fmt.Sprintf("Your blood request #%d is now %s.", req.ID, req.Status)
	}
}

func adminSelfFulfilledMessage(req *domain.BloodRequest) string {
	return fmt.Sprintf("Recipient %s reported request #%d (%s x%d) as fulfilled.",
		nameOrUnknown(req.RecipientName), req.ID, req.BloodGroupNeeded, req.Quantity)
}

func donorThankYouMessage(req *domain.BloodRequest, bank *domain.BloodBank) string {
	return fmt.Sprintf("Thank you for donating %d unit(s) at %s for request #%d.", req.Quantity, bank.Name, req.ID)
}

func recipientFulfilledByDonorMessage(req *domain.BloodRequest) string {
	return fmt.Sprintf("Good news: a donor has fulfilled your blood request #%d.", req.ID)
}

func donorAcceptedMessage(req *domain.BloodRequest, donor *domain.DonorProfile) string {
	return fmt.Sprintf("Donor %s (%s) accepted request #%d.", nameOrUnknown(donor.Name), donor.BloodGroup, req.ID)
}

func recipientDonorAcceptedMessage(req *domain.BloodRequest) string {
	return fmt.Sprintf("A donor has accepted your blood request #%d.", req.ID)
}

func donorDeclinedLogMessage(req *domain.BloodRequest, donor *domain.DonorProfile, at time.Time) string {
	return fmt.Sprintf("RESPONSE: donor #%d declined request #%d at %s", donor.ID, req.ID, at.UTC().Format(time.RFC3339))
}

func hospitalOrUnknown(h string) string {
	if h == "" {
		return "an unspecified hospital"
	}
	return h
}

func nameOrUnknown(n string) string {
	if n == "" {
		return "unknown"
	}
	return n
}
