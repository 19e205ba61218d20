package services

import (
	"reflect"
	"strings"
	"testing"

	"milgapo/scholarship-matcher/internal/models"
)

func scoreOf(t *testing.T, profile models.MatchProfile, blob string) (int, []string) {
	t.Helper()
	scorer := NewScorer(DefaultKeywordMap())
	return scorer.Score(profile, strings.ToLower(blob))
}

func TestScoreStudyStatusAndField(t *testing.T) {
	profile := models.MatchProfile{
		StudyStatus: "תואר ראשון",
		StudyField:  "הנדסה / מדעים מדויקים",
	}

	score, reasons := scoreOf(t, profile, "מלגה לסטודנטים לתואר ראשון בהנדסה")
	if score != 4 {
		t.Fatalf("expected score 4, got %d", score)
	}
	expected := []string{ReasonStudyStatus, ReasonStudyField}
	if !reflect.DeepEqual(reasons, expected) {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestScoreEnglishSynonym(t *testing.T) {
	profile := models.MatchProfile{StudyStatus: "תואר שני"}

	score, reasons := scoreOf(t, profile, "Scholarship for GRADUATE students")
	if score != 2 {
		t.Fatalf("expected score 2, got %d", score)
	}
	if len(reasons) != 1 || reasons[0] != ReasonStudyStatus {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestScorePopulationsCountPerMatchSingleReason(t *testing.T) {
	profile := models.MatchProfile{
		Populations: []string{"תושב פריפריה", "חרדי", "עולה חדש"},
	}

	score, reasons := scoreOf(t, profile, "מיועד לתושבי פריפריה ולציבור החרדי")
	if score != 2 {
		t.Fatalf("expected +1 per matching population, got %d", score)
	}
	if len(reasons) != 1 || reasons[0] != ReasonPopulations {
		t.Fatalf("expected single populations reason, got %v", reasons)
	}
}

func TestScoreUnknownPopulationIgnored(t *testing.T) {
	profile := models.MatchProfile{Populations: []string{"לא קיים במיפוי"}}

	score, reasons := scoreOf(t, profile, "מלגה כללית")
	if score != 0 {
		t.Fatalf("expected score 0, got %d", score)
	}
	if len(reasons) != 1 || reasons[0] != ReasonGeneral {
		t.Fatalf("expected general fallback reason, got %v", reasons)
	}
}

func TestScoreVolunteeringPenalty(t *testing.T) {
	profile := models.MatchProfile{VolunteerWillingness: "לא"}

	score, reasons := scoreOf(t, profile, "המלגה דורשת התנדבות שבועית")
	if score != -2 {
		t.Fatalf("expected score -2, got %d", score)
	}
	if len(reasons) != 1 || reasons[0] != ReasonNoVolunteering {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestScoreDurationPrecedenceFirstBranchOnly(t *testing.T) {
	// Blob matches both the one-time and annual synonym sets; only the
	// preferred branch may fire, and only once.
	profile := models.MatchProfile{DurationPreference: DurationOneTime}
	score, reasons := scoreOf(t, profile, "מענק שנתי לסטודנטים")
	if score != 2 {
		t.Fatalf("expected score 2, got %d", score)
	}
	if len(reasons) != 1 || reasons[0] != ReasonOneTime {
		t.Fatalf("unexpected reasons: %v", reasons)
	}

	profile.DurationPreference = DurationAnnual
	score, reasons = scoreOf(t, profile, "מענק שנתי לסטודנטים")
	if score != 2 {
		t.Fatalf("expected score 2, got %d", score)
	}
	if len(reasons) != 1 || reasons[0] != ReasonAnnual {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestScoreMultiYearPreference(t *testing.T) {
	profile := models.MatchProfile{DurationPreference: DurationMultiYear}

	score, reasons := scoreOf(t, profile, "תוכנית רב-שנתית עם ליווי אישי")
	if score != 2 {
		t.Fatalf("expected score 2, got %d", score)
	}
	if len(reasons) != 1 || reasons[0] != ReasonMultiYear {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestScoreFallbackReasonOnNoMatch(t *testing.T) {
	profile := models.MatchProfile{
		StudyStatus:        "מכינה",
		DurationPreference: DurationAnnual,
	}

	score, reasons := scoreOf(t, profile, "no relevant text here")
	if score != 0 {
		t.Fatalf("expected score 0, got %d", score)
	}
	if len(reasons) != 1 || reasons[0] != ReasonGeneral {
		t.Fatalf("expected general fallback reason, got %v", reasons)
	}
}

func TestScoreReasonOrderFollowsRuleOrder(t *testing.T) {
	profile := models.MatchProfile{
		StudyStatus:          "תואר ראשון",
		MilitaryStatus:       "חייל משוחרר",
		Populations:          []string{"חרדי"},
		VolunteerWillingness: "לא",
		DurationPreference:   DurationOneTime,
	}
	blob := "תואר ראשון חייל משוחרר חרדי התנדבות מענק"

	score, reasons := scoreOf(t, profile, blob)
	if score != 2+2+1-2+2 {
		t.Fatalf("unexpected score %d", score)
	}
	expected := []string{
		ReasonStudyStatus,
		ReasonMilitaryStatus,
		ReasonPopulations,
		ReasonNoVolunteering,
		ReasonOneTime,
	}
	if !reflect.DeepEqual(reasons, expected) {
		t.Fatalf("unexpected reason order: %v", reasons)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	profile := models.MatchProfile{
		StudyStatus: "תואר ראשון",
		Populations: []string{"חרדי", "תושב פריפריה"},
	}
	blob := strings.ToLower("מלגה לתואר ראשון לציבור החרדי בפריפריה")

	scorer := NewScorer(DefaultKeywordMap())
	firstScore, firstReasons := scorer.Score(profile, blob)
	for i := 0; i < 10; i++ {
		score, reasons := scorer.Score(profile, blob)
		if score != firstScore || !reflect.DeepEqual(reasons, firstReasons) {
			t.Fatalf("run %d diverged: score=%d reasons=%v", i, score, reasons)
		}
	}
}
