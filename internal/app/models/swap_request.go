package models

import (
	"time"

	"github.com/google/uuid"
)

// ShiftSwapRequest defines a swap proposal based on the 'shift_swap_requests'
// table. RequesterShiftID always names one of the requester's assignments.
// TargetShiftID is optional: when nil an approved request is a one-way
// transfer of the requester's assignment to the target user.
type ShiftSwapRequest struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	RequesterID      uuid.UUID  `json:"requesterId" db:"requester_id"`
	RequesterShiftID uuid.UUID  `json:"requesterShiftId" db:"requester_shift_id"`
	TargetID         uuid.UUID  `json:"targetId" db:"target_id"`
	TargetShiftID    *uuid.UUID `json:"targetShiftId,omitempty" db:"target_shift_id"`
	Status           SwapStatus `json:"status" db:"status" example:"pending"`
	Reason           string     `json:"reason" db:"reason"`
	AdminID          *uuid.UUID `json:"adminId,omitempty" db:"admin_id"`
	AdminComment     *string    `json:"adminComment,omitempty" db:"admin_comment"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// Involves reports whether the given user is a party to this request
func (r *ShiftSwapRequest) Involves(userID uuid.UUID) bool {
	return r.RequesterID == userID || r.TargetID == userID
}
