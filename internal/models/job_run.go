package models

import "time"

// DailyJobRun records the last calendar date a named background job completed,
// so a restart within the same day does not re-send the digest.
type DailyJobRun struct {
	ID          uint       `gorm:"primary_key" json:"id"`
	JobName     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"job_name"`
	LastRunDate *time.Time `gorm:"type:date" json:"last_run_date,omitempty"`
	UpdatedAt   time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (j *DailyJobRun) TableName() string {
	return "daily_job_runs"
}
