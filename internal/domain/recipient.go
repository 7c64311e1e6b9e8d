package domain

import "time"

type RecipientProfile struct {
	ID         int32      `json:"id"`
	UserID     int32      `json:"user_id"`
	Name       string     `json:"name"`
	BloodGroup BloodGroup `json:"blood_group"`
	Hospital   string     `json:"hospital"`
	CreatedAt  time.Time  `json:"created_at"`
}
