package services

import "milgapo/scholarship-matcher/internal/models"

// Military statuses that satisfy a hard military-service requirement.
var serviceSatisfyingStatuses = []string{
	"במהלך שירות",
	"חייל משוחרר",
	"שירות לאומי / אזרחי",
}

func userServedMilitary(status string) bool {
	for _, satisfying := range serviceSatisfyingStatuses {
		if status == satisfying {
			return true
		}
	}
	return false
}

// IsEligible applies the hard requirement gates on top of keyword scoring.
// Both gates are always evaluated as a plain conjunction; an absent
// requirement set or profile defaults to eligible, and an unknown (nil) flag
// never disqualifies.
func IsEligible(requirements *models.Requirements, profile *models.MatchProfile) bool {
	if requirements == nil || profile == nil {
		return true
	}
	if requirements.Volunteering != nil && *requirements.Volunteering && profile.VolunteerWillingness == "לא" {
		return false
	}
	if requirements.Military != nil && *requirements.Military && !userServedMilitary(profile.MilitaryStatus) {
		return false
	}
	return true
}
