package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"milgapo/scholarship-matcher/internal/models"
)

var ErrScholarshipNotFound = errors.New("scholarship record not found")

type UserScholarshipRepository interface {
	UpsertMatches(userID uuid.UUID, matches []models.ScoredMatch) error
	FindByUser(userID uuid.UUID) ([]models.UserScholarship, error)
	UpdateStatus(userID, recordID uuid.UUID, status models.ScholarshipStatus, alertsEnabled bool) error
}

type userScholarshipRepository struct {
	db *gorm.DB
}

func NewUserScholarshipRepository(db *gorm.DB) UserScholarshipRepository {
	return &userScholarshipRepository{db: db}
}

// UpsertMatches implements UserScholarshipRepository. The whole batch runs in
// one transaction: recomputed matches overwrite score, reasons, title and
// link on existing rows while leaving status and alerts_enabled untouched;
// unseen scholarships are inserted with the default status. Rows are never
// deleted, so a scholarship that stops matching keeps its history.
func (r *userScholarshipRepository) UpsertMatches(userID uuid.UUID, matches []models.ScoredMatch) error {
	now := time.Now().UTC()

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, match := range matches {
			reasons, err := json.Marshal(match.Reasons)
			if err != nil {
				return fmt.Errorf("failed to encode match reasons: %w", err)
			}

			var existing models.UserScholarship
			err = tx.Where("user_id = ? AND scholarship_key = ?", userID, match.Key).
				First(&existing).Error
			if err == nil {
				updates := map[string]interface{}{
					"match_score":       match.Score,
					"match_reasons":     string(reasons),
					"scholarship_title": match.Title,
					"scholarship_link":  match.Link,
					"updated_at":        now,
				}
				if err := tx.Model(&existing).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update match %s: %w", match.Key, err)
				}
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up match %s: %w", match.Key, err)
			}

			record := models.UserScholarship{
				ID:               uuid.New(),
				UserID:           userID,
				ScholarshipKey:   match.Key,
				ScholarshipTitle: match.Title,
				ScholarshipLink:  match.Link,
				MatchScore:       match.Score,
				MatchReasons:     string(reasons),
				Status:           models.StatusInterested,
				AlertsEnabled:    false,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create match %s: %w", match.Key, err)
			}
		}
		return nil
	})
}

// FindByUser implements UserScholarshipRepository. Records come back best
// score first, most recently refreshed as the tie-break.
func (r *userScholarshipRepository) FindByUser(userID uuid.UUID) ([]models.UserScholarship, error) {
	var records []models.UserScholarship
	err := r.db.
		Where("user_id = ?", userID).
		Order("match_score DESC").
		Order("updated_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user scholarships: %w", err)
	}
	return records, nil
}

// UpdateStatus implements UserScholarshipRepository. Only the owner's record
// can be updated.
func (r *userScholarshipRepository) UpdateStatus(userID, recordID uuid.UUID, status models.ScholarshipStatus, alertsEnabled bool) error {
	result := r.db.Model(&models.UserScholarship{}).
		Where("id = ? AND user_id = ?", recordID, userID).
		Updates(map[string]interface{}{
			"status":         status,
			"alerts_enabled": alertsEnabled,
			"updated_at":     time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update scholarship status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScholarshipNotFound
	}
	return nil
}
