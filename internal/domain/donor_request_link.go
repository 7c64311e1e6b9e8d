package domain

import (
	"strings"
	"time"
)

type ResponseStatus string

const (
	ResponseStatusPending  ResponseStatus = "Pending"
	ResponseStatusAccepted ResponseStatus = "Accepted"
	ResponseStatusDeclined ResponseStatus = "Declined"
)

// DonorResponse is the answer a matched donor gives to a request.
type DonorResponse string

const (
	DonorResponseAccept  DonorResponse = "accept"
	DonorResponseDecline DonorResponse = "decline"
)

func ParseDonorResponse(s string) (DonorResponse, error) {
	switch DonorResponse(strings.ToLower(strings.TrimSpace(s))) {
	case DonorResponseAccept:
		return DonorResponseAccept, nil
	case DonorResponseDecline:
		return DonorResponseDecline, nil
	}
	return "", Validation("invalid response %q, expected accept or decline", s)
}

func (r DonorResponse) Status() ResponseStatus {
	if r == DonorResponseAccept {
		return ResponseStatusAccepted
	}
	return ResponseStatusDeclined
}

// DonorRequestLink records that a donor was matched and notified for a request.
// One row per (DonorID, RequestID).
type DonorRequestLink struct {
	ID             int32          `json:"id"`
	DonorID        int32          `json:"donor_id"`
	RequestID      int32          `json:"request_id"`
	LinkedAt       time.Time      `json:"linked_at"`
	ResponseStatus ResponseStatus `json:"response_status"`
	ResponseDate   *time.Time     `json:"response_date,omitempty"`
}

// DonorRequestItem is a link joined with its request, for a donor's inbox.
type DonorRequestItem struct {
	Link    DonorRequestLink `json:"link"`
	Request BloodRequest     `json:"request"`
}
