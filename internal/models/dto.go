package models

type QuestionnaireRequest struct {
	StudyStatus                   string   `json:"study_status" validate:"required"`
	StudyField                    string   `json:"study_field" validate:"required"`
	Institution                   string   `json:"institution" validate:"required"`
	MilitaryStatus                string   `json:"military_status" validate:"required"`
	Populations                   []string `json:"populations"`
	WorkStatus                    string   `json:"work_status" validate:"required"`
	VolunteerWillingness          string   `json:"volunteer_willingness" validate:"required"`
	ScholarshipDurationPreference string   `json:"scholarship_duration_preference" validate:"required"`
}

type QuestionnaireResponse struct {
	Saved        bool   `json:"saved"`
	MatchesError string `json:"matches_error,omitempty"`
	MatchCount   int    `json:"match_count"`
}

type MatchItem struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Link          string   `json:"link"`
	Score         int      `json:"score"`
	Level         string   `json:"level"`
	Reasons       []string `json:"reasons"`
	Status        string   `json:"status"`
	AlertsEnabled bool     `json:"alerts_enabled"`
}

type ScholarshipUpdateRequest struct {
	Status        string `json:"status" validate:"required"`
	AlertsEnabled bool   `json:"alerts_enabled"`
}

type CatalogResponse struct {
	Scholarships []CatalogRecord `json:"scholarships"`
	Error        string          `json:"error,omitempty"`
}

type DigestRunResult struct {
	Skipped   bool   `json:"skipped"`
	Reason    string `json:"reason,omitempty"`
	OpenCount int    `json:"open_count"`
}
