package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest represents admin user creation data
type CreateUserRequest struct {
	Username       string     `json:"username" binding:"required,min=3,max=50"`
	Password       string     `json:"password" binding:"required,min=8"`
	Name           string     `json:"name" binding:"required"`
	Email          string     `json:"email" binding:"required,email"`
	Phone          *string    `json:"phone,omitempty"`
	Role           string     `json:"role" binding:"required" example:"day_shift" enums:"admin,day_shift,night_shift"`
	IsTrainee      bool       `json:"isTrainee"`
	MentorID       *uuid.UUID `json:"mentorId,omitempty"`
	TraineeEndDate *time.Time `json:"traineeEndDate,omitempty"`
}

// UpdateUserRequest represents user update data; nil fields are left unchanged
type UpdateUserRequest struct {
	Name           *string    `json:"name,omitempty"`
	Email          *string    `json:"email,omitempty" binding:"omitempty,email"`
	Phone          *string    `json:"phone,omitempty"`
	Password       *string    `json:"password,omitempty" binding:"omitempty,min=8"`
	Role           *string    `json:"role,omitempty" enums:"admin,day_shift,night_shift"`
	IsTrainee      *bool      `json:"isTrainee,omitempty"`
	MentorID       *uuid.UUID `json:"mentorId,omitempty"`
	TraineeEndDate *time.Time `json:"traineeEndDate,omitempty"`
	IsActive       *bool      `json:"isActive,omitempty"`
}
