package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Questionnaire holds a user's answers. At most one row exists per user; the
// populations answer is stored as a JSON array of option strings.
type Questionnaire struct {
	ID                            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID                        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	StudyStatus                   string    `gorm:"type:varchar(60);not null" json:"study_status"`
	StudyField                    string    `gorm:"type:varchar(80);not null" json:"study_field"`
	Institution                   string    `gorm:"type:varchar(120);not null" json:"institution"`
	MilitaryStatus                string    `gorm:"type:varchar(80);not null" json:"military_status"`
	Populations                   string    `gorm:"type:text;not null" json:"-"`
	WorkStatus                    string    `gorm:"type:varchar(80);not null" json:"work_status"`
	VolunteerWillingness          string    `gorm:"type:varchar(80);not null" json:"volunteer_willingness"`
	ScholarshipDurationPreference string    `gorm:"type:varchar(40);not null" json:"scholarship_duration_preference"`
	SubmittedAt                   time.Time `gorm:"type:timestamp;default:now()" json:"submitted_at"`
	UpdatedAt                     time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (q *Questionnaire) TableName() string {
	return "user_questionnaire"
}

// PopulationList decodes the stored populations JSON. A malformed value is
// treated as an empty selection rather than an error.
func (q *Questionnaire) PopulationList() []string {
	var populations []string
	if err := json.Unmarshal([]byte(q.Populations), &populations); err != nil {
		return nil
	}
	return populations
}

// MatchProfile converts the stored row into the pure scoring input.
func (q *Questionnaire) MatchProfile() MatchProfile {
	return MatchProfile{
		StudyStatus:          q.StudyStatus,
		StudyField:           q.StudyField,
		MilitaryStatus:       q.MilitaryStatus,
		Populations:          q.PopulationList(),
		WorkStatus:           q.WorkStatus,
		VolunteerWillingness: q.VolunteerWillingness,
		DurationPreference:   q.ScholarshipDurationPreference,
	}
}
