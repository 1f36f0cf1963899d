package dto

// UpsertSettingRequest creates or updates a system setting by key
type UpsertSettingRequest struct {
	Value       string  `json:"value" binding:"required"`
	Description *string `json:"description,omitempty"`
}
