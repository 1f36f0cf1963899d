package dto

import (
	"github.com/google/uuid"
)

// AssignScheduleRequest represents a manual schedule assignment
type AssignScheduleRequest struct {
	UserID    uuid.UUID `json:"userId" binding:"required"`
	ShiftID   uuid.UUID `json:"shiftId" binding:"required"`
	IsPrimary bool      `json:"isPrimary"`
}

// GenerateScheduleRequest carries the date range for schedule generation.
// Dates use the 2006-01-02 layout and are inclusive on both ends.
type GenerateScheduleRequest struct {
	StartDate string `form:"start_date" binding:"required" example:"2025-06-01"`
	EndDate   string `form:"end_date" binding:"required" example:"2025-06-30"`
}
