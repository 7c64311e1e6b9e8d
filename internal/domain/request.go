package domain

import (
	"strings"
	"time"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "Pending"
	RequestStatusApproved  RequestStatus = "Approved"
	RequestStatusFulfilled RequestStatus = "Fulfilled"
	RequestStatusCancelled RequestStatus = "Cancelled"
)

const (
	MinRequestQuantity = 1
	MaxRequestQuantity = 10
)

// ParseRequestStatus accepts the four statuses case-insensitively.
func ParseRequestStatus(s string) (RequestStatus, error) {
	for _, st := range []RequestStatus{RequestStatusPending, RequestStatusApproved, RequestStatusFulfilled, RequestStatusCancelled} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", Validation("invalid request status %q", s)
}

// Terminal reports whether no further transition is allowed without an override.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusFulfilled || s == RequestStatusCancelled
}

// CheckTransition validates moving a request from one status to another.
// Leaving a terminal status requires override.
func CheckTransition(from, to RequestStatus, override bool) error {
	if from.Terminal() && from != to && !override {
		return InvalidOperation("request is already %s", from)
	}
	return nil
}

func ValidateQuantity(q int32) error {
	if q < MinRequestQuantity || q > MaxRequestQuantity {
		return Validation("quantity must be between %d and %d units", MinRequestQuantity, MaxRequestQuantity)
	}
	return nil
}

type BloodRequest struct {
	ID               int32         `json:"id"`
	RecipientID      int32         `json:"recipient_id"`
	BloodGroupNeeded BloodGroup    `json:"blood_group_needed"`
	Quantity         int32         `json:"quantity"`
	RequestDate      time.Time     `json:"request_date"`
	Status           RequestStatus `json:"status"`

	// Joined from recipient_profiles on reads.
	RecipientName     string `json:"recipient_name,omitempty"`
	RecipientHospital string `json:"hospital,omitempty"`
	RecipientUserID   int32  `json:"recipient_user_id,omitempty"`
}

type RequestFilter struct {
	RecipientID int32
	Status      RequestStatus
	Page        int32
	PageSize    int32
}
