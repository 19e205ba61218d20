package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"milgapo/scholarship-matcher/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	FindByID(id uuid.UUID) (*models.User, error)
	FindInterested(statuses []models.ScholarshipStatus) ([]models.User, error)
	UpdateProfileImage(id uuid.UUID, imagePath string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByID implements UserRepository.
func (r *userRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindInterested implements UserRepository: the distinct set of users holding
// at least one match in any of the given statuses. These are the digest
// recipients.
func (r *userRepository) FindInterested(statuses []models.ScholarshipStatus) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Distinct("users.*").
		Joins("JOIN user_scholarships ON user_scholarships.user_id = users.id").
		Where("user_scholarships.status IN ?", statuses).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interested users: %w", err)
	}
	return users, nil
}

// UpdateProfileImage implements UserRepository.
func (r *userRepository) UpdateProfileImage(id uuid.UUID, imagePath string) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("profile_image", imagePath)
	if result.Error != nil {
		return fmt.Errorf("failed to update profile image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
