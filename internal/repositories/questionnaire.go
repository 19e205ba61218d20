package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"milgapo/scholarship-matcher/internal/models"
)

var ErrQuestionnaireNotFound = errors.New("questionnaire not found")

type QuestionnaireRepository interface {
	Upsert(questionnaire *models.Questionnaire) error
	FindByUserID(userID uuid.UUID) (*models.Questionnaire, error)
}

type questionnaireRepository struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) QuestionnaireRepository {
	return &questionnaireRepository{db: db}
}

// Upsert implements QuestionnaireRepository. A user has at most one
// questionnaire; re-submission updates the existing row in place.
func (r *questionnaireRepository) Upsert(questionnaire *models.Questionnaire) error {
	now := time.Now().UTC()

	var existing models.Questionnaire
	err := r.db.Where("user_id = ?", questionnaire.UserID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			questionnaire.SubmittedAt = now
			questionnaire.UpdatedAt = now
			if err := r.db.Create(questionnaire).Error; err != nil {
				return fmt.Errorf("failed to create questionnaire: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to look up questionnaire: %w", err)
	}

	updates := map[string]interface{}{
		"study_status":                    questionnaire.StudyStatus,
		"study_field":                     questionnaire.StudyField,
		"institution":                     questionnaire.Institution,
		"military_status":                 questionnaire.MilitaryStatus,
		"populations":                     questionnaire.Populations,
		"work_status":                     questionnaire.WorkStatus,
		"volunteer_willingness":           questionnaire.VolunteerWillingness,
		"scholarship_duration_preference": questionnaire.ScholarshipDurationPreference,
		"updated_at":                      now,
	}
	if err := r.db.Model(&existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update questionnaire: %w", err)
	}
	return nil
}

// FindByUserID implements QuestionnaireRepository.
func (r *questionnaireRepository) FindByUserID(userID uuid.UUID) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	if err := r.db.Where("user_id = ?", userID).First(&questionnaire).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("failed to find questionnaire: %w", err)
	}
	return &questionnaire, nil
}
