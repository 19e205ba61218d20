package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"milgapo/scholarship-matcher/internal/models"
)

type JobRunRepository interface {
	Find(jobName string) (*models.DailyJobRun, error)
	MarkRun(jobName string, runDate time.Time) error
}

type jobRunRepository struct {
	db *gorm.DB
}

func NewJobRunRepository(db *gorm.DB) JobRunRepository {
	return &jobRunRepository{db: db}
}

// Find implements JobRunRepository. A job that has never run returns
// (nil, nil).
func (r *jobRunRepository) Find(jobName string) (*models.DailyJobRun, error) {
	var run models.DailyJobRun
	if err := r.db.Where("job_name = ?", jobName).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find job run: %w", err)
	}
	return &run, nil
}

// MarkRun implements JobRunRepository.
func (r *jobRunRepository) MarkRun(jobName string, runDate time.Time) error {
	now := time.Now().UTC()
	day := time.Date(runDate.Year(), runDate.Month(), runDate.Day(), 0, 0, 0, 0, time.UTC)

	var run models.DailyJobRun
	err := r.db.Where("job_name = ?", jobName).First(&run).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up job run: %w", err)
		}
		run = models.DailyJobRun{JobName: jobName, LastRunDate: &day, UpdatedAt: now}
		if err := r.db.Create(&run).Error; err != nil {
			return fmt.Errorf("failed to create job run: %w", err)
		}
		return nil
	}

	updates := map[string]interface{}{
		"last_run_date": day,
		"updated_at":    now,
	}
	if err := r.db.Model(&run).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update job run: %w", err)
	}
	return nil
}
