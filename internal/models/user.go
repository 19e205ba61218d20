package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FirstName    string    `gorm:"type:varchar(30);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(30);not null" json:"last_name"`
	Phone        string    `gorm:"type:varchar(20);not null" json:"phone"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	ProfileImage string    `gorm:"type:text" json:"profile_image,omitempty"`
	CreatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (u *User) TableName() string {
	return "users"
}
