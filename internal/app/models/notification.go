package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an append-only inbox entry addressed to one user, based on
// the 'notifications' table. Only the IsRead flag ever changes after insert,
// and only by the owning user.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"userId" db:"user_id"`
	Title     string           `json:"title" db:"title"`
	Content   string           `json:"content" db:"content"`
	IsRead    bool             `json:"isRead" db:"is_read"`
	Type      NotificationType `json:"type" db:"type" example:"swap_request"`
	RelatedID *uuid.UUID       `json:"relatedId,omitempty" db:"related_id"` // entity that triggered the notification
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
