package models

import (
	"time"

	"github.com/google/uuid"
)

// Shift defines a staffed time window based on the 'shifts' table.
// The window is half-open: [StartTime, EndTime).
type Shift struct {
	ID              uuid.UUID `json:"id" db:"id"`
	StartTime       time.Time `json:"startTime" db:"start_time"`
	EndTime         time.Time `json:"endTime" db:"end_time"`
	ShiftType       ShiftType `json:"shiftType" db:"shift_type" example:"DAY_WORKDAY"`
	RequiredMentors int       `json:"requiredMentors" db:"required_mentors"`
	RequiredStaff   int       `json:"requiredStaff" db:"required_staff"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// ScheduleAssignment pairs one user with one shift, based on the
// 'schedule_assignments' table. The (user_id, shift_id) pair is unique.
// IsPrimary distinguishes the main assignee from a shadowing mentor row.
type ScheduleAssignment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	ShiftID   uuid.UUID `json:"shiftId" db:"shift_id"`
	IsPrimary bool      `json:"isPrimary" db:"is_primary"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Shift *Shift `json:"shift,omitempty"` // relation, no db tag
}
