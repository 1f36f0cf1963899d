package models

import "fmt"

// Role defines the staff role stored on the 'users' table
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDayShift   Role = "day_shift"
	RoleNightShift Role = "night_shift"
)

// ParseRole validates a raw role value coming in from the API boundary
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDayShift, RoleNightShift:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ShiftType classifies a shift by time of day and calendar kind
type ShiftType string

const (
	ShiftDayWorkday   ShiftType = "DAY_WORKDAY"
	ShiftDayHoliday   ShiftType = "DAY_HOLIDAY"
	ShiftNightWorkday ShiftType = "NIGHT_WORKDAY"
	ShiftNightHoliday ShiftType = "NIGHT_HOLIDAY"
)

// ParseShiftType validates a raw shift type value
func ParseShiftType(s string) (ShiftType, error) {
	switch ShiftType(s) {
	case ShiftDayWorkday, ShiftDayHoliday, ShiftNightWorkday, ShiftNightHoliday:
		return ShiftType(s), nil
	}
	return "", fmt.Errorf("unknown shift type %q", s)
}

// IsDay reports whether the shift falls in the day half of the rota
func (t ShiftType) IsDay() bool {
	return t == ShiftDayWorkday || t == ShiftDayHoliday
}

// IsNight reports whether the shift falls in the night half of the rota
func (t ShiftType) IsNight() bool {
	return t == ShiftNightWorkday || t == ShiftNightHoliday
}

// Eligible reports whether a user with the given role may staff this shift.
// Admins can cover either half of the rota.
func (t ShiftType) Eligible(role Role) bool {
	if role == RoleAdmin {
		return true
	}
	if t.IsDay() {
		return role == RoleDayShift
	}
	return role == RoleNightShift
}

// SwapStatus is the lifecycle state of a shift swap request.
//
// Valid transitions:
//
//	pending  -> accepted | rejected | cancelled
//	accepted -> approved | rejected
//
// approved, rejected and cancelled are terminal.
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapApproved  SwapStatus = "approved"
	SwapCancelled SwapStatus = "cancelled"
)

// ParseSwapStatus validates a raw swap status value
func ParseSwapStatus(s string) (SwapStatus, error) {
	switch SwapStatus(s) {
	case SwapPending, SwapAccepted, SwapRejected, SwapApproved, SwapCancelled:
		return SwapStatus(s), nil
	}
	return "", fmt.Errorf("unknown swap status %q", s)
}

// Terminal reports whether no further transition is allowed from this state
func (s SwapStatus) Terminal() bool {
	return s == SwapRejected || s == SwapApproved || s == SwapCancelled
}

// NotificationType categorizes entries in a user's notification inbox
type NotificationType string

const (
	NotificationSystem      NotificationType = "system"
	NotificationShiftChange NotificationType = "shift_change"
	NotificationSwapRequest NotificationType = "swap_request"
	NotificationApproval    NotificationType = "approval"
)

// ParseNotificationType validates a raw notification type value
func ParseNotificationType(s string) (NotificationType, error) {
	switch NotificationType(s) {
	case NotificationSystem, NotificationShiftChange, NotificationSwapRequest, NotificationApproval:
		return NotificationType(s), nil
	}
	return "", fmt.Errorf("unknown notification type %q", s)
}
