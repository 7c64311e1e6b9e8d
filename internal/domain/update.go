package domain

import "time"

// Optional carries a field of an update command. A zero Optional leaves the
// target untouched.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Optional[T]) IsSet() bool { return o.set }

// DonorProfileUpdate changes selected attributes of a donor profile.
// LastDonationDate set to Some(nil) clears the date.
type DonorProfileUpdate struct {
	BloodGroup       Optional[BloodGroup]
	LastDonationDate Optional[*time.Time]
}

func (u DonorProfileUpdate) Validate() error {
	if g, ok := u.BloodGroup.Get(); ok && !g.Valid() {
		return Validation("invalid blood group %q", g)
	}
	return nil
}

// Apply returns a copy of d with the set fields replaced.
func (u DonorProfileUpdate) Apply(d DonorProfile) DonorProfile {
	if g, ok := u.BloodGroup.Get(); ok {
		d.BloodGroup = g
	}
	if t, ok := u.LastDonationDate.Get(); ok {
		if t == nil {
			d.LastDonationDate = nil
		} else {
			v := *t
			d.LastDonationDate = &v
		}
	}
	return d
}
