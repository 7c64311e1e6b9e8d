package domain

import "time"

type DonationStatus string

const DonationStatusCompleted DonationStatus = "Completed"

type DonationRecord struct {
	ID           int32          `json:"id"`
	DonorID      int32          `json:"donor_id"`
	BloodBankID  int32          `json:"blood_bank_id"`
	RequestID    *int32         `json:"request_id,omitempty"`
	DonationDate time.Time      `json:"donation_date"`
	Quantity     int32          `json:"quantity"`
	Status       DonationStatus `json:"status"`
}
