package domain

import "time"

type BloodBank struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

// BloodStock is the inventory of one blood group at one bank.
// (BloodBankID, BloodGroup) is unique.
type BloodStock struct {
	ID             int32      `json:"id"`
	BloodBankID    int32      `json:"blood_bank_id"`
	BloodGroup     BloodGroup `json:"blood_group"`
	UnitsAvailable int32      `json:"units_available"`
	LastUpdated    time.Time  `json:"last_updated"`
}
