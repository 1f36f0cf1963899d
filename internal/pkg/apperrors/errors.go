package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// State machine errors
	ErrInvalidState = errors.New("invalid state for this action")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrMentorNotFound     = errors.New("mentor not found")
)

// Shift and schedule errors
var (
	ErrShiftNotFound       = errors.New("shift not found")
	ErrShiftHasAssignments = errors.New("shift has existing assignments and cannot be deleted")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrAssignmentExists    = errors.New("assignment already exists")
	ErrNoShiftsInRange     = errors.New("no shifts found in the specified date range")
	ErrNoActiveUsers       = errors.New("no active users found")
)

// Swap request errors
var (
	ErrSwapRequestNotFound = errors.New("swap request not found")
	ErrDuplicateSwap       = errors.New("similar swap request already exists")
	ErrSwapLimitReached    = errors.New("monthly swap request limit reached")
)

// Notification and setting errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrSettingNotFound      = errors.New("setting not found")
)

// NewNotFoundError creates a CustomError wrapping ErrResourceNotFound
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a CustomError wrapping ErrConflict
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewForbiddenError creates a CustomError wrapping ErrPermissionDenied
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a CustomError wrapping ErrBadRequest
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// NewInvalidStateError creates a CustomError wrapping ErrInvalidState
func NewInvalidStateError(message string) error {
	return &CustomError{Err: ErrInvalidState, Message: message}
}

// CustomError carries a user-facing message alongside a sentinel error so the
// HTTP layer can classify by sentinel and still render the detail.
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
