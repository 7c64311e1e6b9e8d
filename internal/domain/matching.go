package domain

import (
	"fmt"
	"time"
)

// Compatibility decides whether blood from donor can be given for a request
// needing recipient.
type Compatibility func(donor, recipient BloodGroup) bool

// ExactMatch only pairs identical groups.
func ExactMatch(donor, recipient BloodGroup) bool {
	return donor == recipient
}

// ABOCompatible applies the red-cell ABO/Rh rules: O- gives to everyone,
// AB+ receives from everyone.
func ABOCompatible(donor, recipient BloodGroup) bool {
	if !donor.Valid() || !recipient.Valid() {
		return false
	}
	dABO, dPos := donor.abo()
	rABO, rPos := recipient.abo()
	if dPos && !rPos {
		return false
	}
	switch dABO {
	case "O":
		return true
	case "A":
		return rABO == "A" || rABO == "AB"
	case "B":
		return rABO == "B" || rABO == "AB"
	case "AB":
		return rABO == "AB"
	}
	return false
}

const (
	MatchingStrategyExact = "exact"
	MatchingStrategyABO   = "abo"
)

func CompatibilityFor(strategy string) (Compatibility, error) {
	switch strategy {
	case "", MatchingStrategyExact:
		return ExactMatch, nil
	case MatchingStrategyABO:
		return ABOCompatible, nil
	}
	return nil, fmt.Errorf("unknown matching strategy %q", strategy)
}

// DonorGroupsFor lists the donor groups acceptable for needed.
func DonorGroupsFor(needed BloodGroup, compat Compatibility) []BloodGroup {
	var groups []BloodGroup
	for _, g := range BloodGroups {
		if compat(g, needed) {
			groups = append(groups, g)
		}
	}
	return groups
}

// MatchDonors keeps the candidates whose group is acceptable for needed and
// who are eligible at now. Order of candidates is preserved.
func MatchDonors(candidates []DonorProfile, needed BloodGroup, now time.Time, compat Compatibility) []DonorProfile {
	matched := make([]DonorProfile, 0, len(candidates))
	for _, d := range candidates {
		if compat(d.BloodGroup, needed) && d.EligibleAt(now) {
			matched = append(matched, d)
		}
	}
	return matched
}
