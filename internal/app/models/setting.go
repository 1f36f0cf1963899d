package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemSetting is a key/value configuration row from the 'system_settings'
// table. Keys are unique; updates record the acting administrator.
type SystemSetting struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Key         string     `json:"key" db:"key" example:"swap_monthly_limit"`
	Value       string     `json:"value" db:"value"`
	Description *string    `json:"description,omitempty" db:"description"`
	UpdatedBy   *uuid.UUID `json:"updatedBy,omitempty" db:"updated_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}
