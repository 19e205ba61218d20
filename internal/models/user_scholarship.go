package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ScholarshipStatus string

const (
	StatusInterested    ScholarshipStatus = "מעוניין"
	StatusApplied       ScholarshipStatus = "הגשתי"
	StatusAccepted      ScholarshipStatus = "התקבלתי"
	StatusNotInterested ScholarshipStatus = "לא מעוניין"
)

// InterestedStatuses are the statuses that make a user a digest recipient.
var InterestedStatuses = []ScholarshipStatus{StatusInterested, StatusApplied, StatusAccepted}

// UserScholarship is one persisted match for one user. The (user_id,
// scholarship_key) pair is unique; recomputing matches overwrites
// score/reasons/title/link only, status and alerts_enabled survive.
type UserScholarship struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uq_user_scholarship" json:"user_id"`
	ScholarshipKey   string            `gorm:"type:varchar(64);not null;uniqueIndex:uq_user_scholarship;index" json:"scholarship_key"`
	ScholarshipTitle string            `gorm:"type:varchar(200);not null" json:"scholarship_title"`
	ScholarshipLink  string            `gorm:"type:varchar(500)" json:"scholarship_link"`
	MatchScore       int               `gorm:"not null;default:0" json:"match_score"`
	MatchReasons     string            `gorm:"type:text;not null" json:"-"`
	Status           ScholarshipStatus `gorm:"type:varchar(20);not null;default:'מעוניין'" json:"status"`
	AlertsEnabled    bool              `gorm:"not null;default:false" json:"alerts_enabled"`
	CreatedAt        time.Time         `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (s *UserScholarship) TableName() string {
	return "user_scholarships"
}

// ReasonList decodes the stored reasons JSON.
func (s *UserScholarship) ReasonList() []string {
	var reasons []string
	if err := json.Unmarshal([]byte(s.MatchReasons), &reasons); err != nil {
		return nil
	}
	return reasons
}
