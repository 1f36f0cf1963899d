package dto

import (
	"github.com/google/uuid"
)

// CreateSwapRequest represents the creation of a shift swap request.
// TargetShiftID is optional; when omitted, approval transfers the requester's
// assignment to the target user instead of exchanging two assignments.
type CreateSwapRequest struct {
	RequesterID      uuid.UUID  `json:"requesterId" binding:"required"`
	RequesterShiftID uuid.UUID  `json:"requesterShiftId" binding:"required"`
	TargetID         uuid.UUID  `json:"targetId" binding:"required"`
	TargetShiftID    *uuid.UUID `json:"targetShiftId,omitempty"`
	Reason           string     `json:"reason"`
}

// RespondSwapRequest is the target user's decision on a pending request
type RespondSwapRequest struct {
	Response string `json:"response" binding:"required" example:"accepted" enums:"accepted,rejected"`
}

// ApproveSwapRequest is the administrator's decision on an accepted request
type ApproveSwapRequest struct {
	Approval string  `json:"approval" binding:"required" example:"approved" enums:"approved,rejected"`
	Comment  *string `json:"comment,omitempty"`
}
