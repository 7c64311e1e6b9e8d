package domain

import "strings"

// BloodGroup is one of the eight canonical ABO/Rh strings.
type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
)

// BloodGroups lists the canonical groups in display order.
var BloodGroups = []BloodGroup{
	BloodGroupAPos, BloodGroupANeg,
	BloodGroupBPos, BloodGroupBNeg,
	BloodGroupABPos, BloodGroupABNeg,
	BloodGroupOPos, BloodGroupONeg,
}

func (g BloodGroup) Valid() bool {
	for _, c := range BloodGroups {
		if g == c {
			return true
		}
	}
	return false
}

// ParseBloodGroup trims and upper-cases s and checks it against the canonical set.
func ParseBloodGroup(s string) (BloodGroup, error) {
	g := BloodGroup(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", Validation("invalid blood group %q", s)
	}
	return g, nil
}

// abo splits a group into its ABO letters and Rh sign.
func (g BloodGroup) abo() (string, bool) {
	s := string(g)
	return s[:len(s)-1], s[len(s)-1] == '+'
}
