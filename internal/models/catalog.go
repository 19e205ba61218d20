package models

import "time"

// Requirements are the hard gating flags resolved from a catalog record.
// A nil pointer means the catalog does not state the requirement.
type Requirements struct {
	Volunteering *bool `json:"volunteering"`
	Military     *bool `json:"military"`
}

// CatalogField is one named, non-empty property of a catalog record, in the
// order the source returned it.
type CatalogField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CatalogRecord is one scholarship entry as fetched from the content
// database. Records are rebuilt on every fetch cycle and never persisted.
type CatalogRecord struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	URL          string         `json:"url"`
	Blob         string         `json:"blob"`
	Tags         []string       `json:"tags,omitempty"`
	Fields       []CatalogField `json:"fields,omitempty"`
	Requirements Requirements   `json:"requirements"`
}

// ScoredMatch is the scoring engine's output for one catalog record.
type ScoredMatch struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Link    string   `json:"link"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// OpenScholarship is a catalog record whose application window covers today.
// Valid only for the digest evaluation that produced it.
type OpenScholarship struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Summary   string    `json:"summary"`
	OpenDate  time.Time `json:"open_date"`
	CloseDate time.Time `json:"close_date"`
}

// MatchProfile is the questionnaire projected down to the fields the scoring
// and eligibility rules read. It is passed by value into pure functions.
type MatchProfile struct {
	StudyStatus          string
	StudyField           string
	MilitaryStatus       string
	Populations          []string
	WorkStatus           string
	VolunteerWillingness string
	DurationPreference   string
}
