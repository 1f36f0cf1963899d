package models

import (
	"time"

	"github.com/google/uuid"
)

// User defines the user model based on the 'users' table
type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Username       string     `json:"username" db:"username" example:"jsmith"`
	PasswordHash   string     `json:"-" db:"password_hash"` // bcrypt hash, excluded from JSON
	Name           string     `json:"name" db:"name" example:"Jane Smith"`
	Email          string     `json:"email" db:"email" example:"jane@rosterd.io"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	Role           Role       `json:"role" db:"role" example:"day_shift"`
	IsTrainee      bool       `json:"isTrainee" db:"is_trainee"`
	MentorID       *uuid.UUID `json:"mentorId,omitempty" db:"mentor_id"`        // weak self-reference, never a trainee
	TraineeEndDate *time.Time `json:"traineeEndDate,omitempty" db:"trainee_end_date"`
	IsActive       bool       `json:"isActive" db:"is_active"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user holds the administrator role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
