package dto

import "time"

// CreateShiftRequest represents shift creation data
type CreateShiftRequest struct {
	StartTime       time.Time `json:"startTime" binding:"required"`
	EndTime         time.Time `json:"endTime" binding:"required"`
	ShiftType       string    `json:"shiftType" binding:"required" example:"DAY_WORKDAY" enums:"DAY_WORKDAY,DAY_HOLIDAY,NIGHT_WORKDAY,NIGHT_HOLIDAY"`
	RequiredStaff   int       `json:"requiredStaff" binding:"required,min=1"`
	RequiredMentors int       `json:"requiredMentors" binding:"min=0"`
}

// UpdateShiftRequest represents shift update data; nil fields are left unchanged
type UpdateShiftRequest struct {
	StartTime       *time.Time `json:"startTime,omitempty"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	ShiftType       *string    `json:"shiftType,omitempty" enums:"DAY_WORKDAY,DAY_HOLIDAY,NIGHT_WORKDAY,NIGHT_HOLIDAY"`
	RequiredStaff   *int       `json:"requiredStaff,omitempty" binding:"omitempty,min=1"`
	RequiredMentors *int       `json:"requiredMentors,omitempty" binding:"omitempty,min=0"`
}

// ShiftFilter represents optional query filters for shift listing
type ShiftFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	ShiftType *string
}
