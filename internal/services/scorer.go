package services

import (
	"strings"

	"milgapo/scholarship-matcher/internal/models"
)

// Match reasons shown to the user, in rule order.
const (
	ReasonStudyStatus    = "התאמה לסטטוס הלימודים שלך"
	ReasonStudyField     = "התאמה לתחום הלימודים שלך"
	ReasonMilitaryStatus = "התאמה לסטטוס השירות שלך"
	ReasonPopulations    = "מתאים לאוכלוסיות שסימנת"
	ReasonNoVolunteering = "דורש התנדבות בזמן שבחרת שלא להתנדב"
	ReasonOneTime        = "מתאים להעדפת מלגה חד-פעמית"
	ReasonAnnual         = "מתאים להעדפת מלגה שנתית/מתמשכת"
	ReasonMultiYear      = "מתאים להעדפת מלגה רב-שנתית"
	ReasonGeneral        = "התאמה כללית לפי הנתונים שמילאת"
)

const volunteeringWord = "התנדבות"

// Duration preference options and their synonym sets, checked in this order.
// Only the first matching branch fires.
const (
	DurationOneTime   = "חד-פעמית"
	DurationAnnual    = "שנתית"
	DurationMultiYear = "רב-שנתית"
)

var (
	oneTimeKeywords   = []string{"חד פעמי", "חד-פעמי", "מענק", "one-time"}
	annualKeywords    = []string{"שנתי", "annual", "מתמשכת"}
	multiYearKeywords = []string{"רב שנתי", "רב-שנתי", "multi-year"}
)

// Scorer computes a match score for one scholarship blob against one user
// profile. It is a pure function of its inputs: no I/O, no shared state.
type Scorer struct {
	keywords KeywordMap
}

func NewScorer(keywords KeywordMap) *Scorer {
	return &Scorer{keywords: keywords}
}

func containsAny(blob string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(blob, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// Score evaluates the additive rule set against blob, which must already be
// lower-cased by the caller. The returned reasons are ordered by rule, not by
// contribution, because that is the order the user sees them in.
func (s *Scorer) Score(profile models.MatchProfile, blob string) (int, []string) {
	score := 0
	var reasons []string

	if keywords, ok := s.keywords[profile.StudyStatus]; ok && containsAny(blob, keywords) {
		score += 2
		reasons = append(reasons, ReasonStudyStatus)
	}

	if keywords, ok := s.keywords[profile.StudyField]; ok && containsAny(blob, keywords) {
		score += 2
		reasons = append(reasons, ReasonStudyField)
	}

	if keywords, ok := s.keywords[profile.MilitaryStatus]; ok && containsAny(blob, keywords) {
		score += 2
		reasons = append(reasons, ReasonMilitaryStatus)
	}

	populationMatches := 0
	for _, population := range profile.Populations {
		keywords := s.keywords[population]
		if len(keywords) > 0 && containsAny(blob, keywords) {
			populationMatches++
			score++
		}
	}
	if populationMatches > 0 {
		reasons = append(reasons, ReasonPopulations)
	}

	if profile.VolunteerWillingness == "לא" && strings.Contains(blob, volunteeringWord) {
		score -= 2
		reasons = append(reasons, ReasonNoVolunteering)
	}

	switch {
	case profile.DurationPreference == DurationOneTime && containsAny(blob, oneTimeKeywords):
		score += 2
		reasons = append(reasons, ReasonOneTime)
	case profile.DurationPreference == DurationAnnual && containsAny(blob, annualKeywords):
		score += 2
		reasons = append(reasons, ReasonAnnual)
	case profile.DurationPreference == DurationMultiYear && containsAny(blob, multiYearKeywords):
		score += 2
		reasons = append(reasons, ReasonMultiYear)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneral)
	}

	return score, reasons
}
