package domain

import "time"

// DonationCooldown is the minimum gap between two donations by the same donor.
const DonationCooldown = 90 * 24 * time.Hour

type DonorProfile struct {
	ID               int32      `json:"id"`
	UserID           int32      `json:"user_id"`
	Name             string     `json:"name,omitempty"` // Joined from users
	BloodGroup       BloodGroup `json:"blood_group"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsEligible reports whether a donor who last gave blood at last may donate at now.
// A donor who never donated is eligible.
func IsEligible(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	return DaysSince(*last, now) >= int(DonationCooldown/(24*time.Hour))
}

// DaysSince counts whole days from t to now.
func DaysSince(t, now time.Time) int {
	if now.Before(t) {
		return 0
	}
	return int(now.Sub(t) / (24 * time.Hour))
}

func (d *DonorProfile) EligibleAt(now time.Time) bool {
	return IsEligible(d.LastDonationDate, now)
}

// NextEligibleDate is when the cooldown ends, or nil for a donor who never donated.
func (d *DonorProfile) NextEligibleDate() *time.Time {
	if d.LastDonationDate == nil {
		return nil
	}
	next := d.LastDonationDate.Add(DonationCooldown)
	return &next
}

// DonorView is the API shape of a donor with the derived eligibility flag.
type DonorView struct {
	DonorProfile
	EligibilityStatus bool       `json:"eligibility_status"`
	NextEligibleDate  *time.Time `json:"next_eligible_date,omitempty"`
}

func NewDonorView(d DonorProfile, now time.Time) DonorView {
	return DonorView{
		DonorProfile:      d,
		EligibilityStatus: d.EligibleAt(now),
		NextEligibleDate:  d.NextEligibleDate(),
	}
}
