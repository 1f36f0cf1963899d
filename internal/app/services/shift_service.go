package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
)

// shiftStore is the slice of the shift repository the shift service needs
type shiftStore interface {
	Create(ctx context.Context, q db.Querier, shift *models.Shift) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Shift, error)
	Update(ctx context.Context, q db.Querier, shift *models.Shift) error
	Delete(ctx context.Context, q db.Querier, id uuid.UUID) error
	List(ctx context.Context, q db.Querier, filter dto.ShiftFilter) ([]*models.Shift, error)
}

// shiftAssignmentCounter reports how many assignments reference a shift
type shiftAssignmentCounter interface {
	CountByShift(ctx context.Context, q db.Querier, shiftID uuid.UUID) (int, error)
}

// ShiftService handles shift management
type ShiftService struct {
	shifts      shiftStore
	assignments shiftAssignmentCounter
}

// NewShiftService creates a new shift service instance
func NewShiftService(shifts shiftStore, assignments shiftAssignmentCounter) *ShiftService {
	return &ShiftService{shifts: shifts, assignments: assignments}
}

func validateShiftWindow(shift *models.Shift) error {
	if !shift.EndTime.After(shift.StartTime) {
		return &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: "end time must be after start time"}
	}
	if shift.RequiredStaff < 1 {
		return &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: "required staff must be at least 1"}
	}
	if shift.RequiredMentors < 0 {
		return &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: "required mentors cannot be negative"}
	}
	return nil
}

// CreateShift creates a new shift
func (s *ShiftService) CreateShift(ctx context.Context, req *dto.CreateShiftRequest) (*models.Shift, error) {
	shiftType, err := models.ParseShiftType(req.ShiftType)
	if err != nil {
		return nil, &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: err.Error()}
	}

	shift := &models.Shift{
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		ShiftType:       shiftType,
		RequiredStaff:   req.RequiredStaff,
		RequiredMentors: req.RequiredMentors,
	}
	if err := validateShiftWindow(shift); err != nil {
		return nil, err
	}

	if err := s.shifts.Create(ctx, nil, shift); err != nil {
		return nil, fmt.Errorf("error creating shift: %w", err)
	}
	return shift, nil
}

// GetShiftByID retrieves a shift by ID
func (s *ShiftService) GetShiftByID(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	return s.shifts.GetByID(ctx, nil, id)
}

// ListShifts retrieves shifts with optional window and type filters
func (s *ShiftService) ListShifts(ctx context.Context, filter dto.ShiftFilter) ([]*models.Shift, error) {
	if filter.ShiftType != nil {
		if _, err := models.ParseShiftType(*filter.ShiftType); err != nil {
			return nil, &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: err.Error()}
		}
	}
	return s.shifts.List(ctx, nil, filter)
}

// UpdateShift applies a partial update to a shift
func (s *ShiftService) UpdateShift(ctx context.Context, id uuid.UUID, req *dto.UpdateShiftRequest) (*models.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.ShiftType != nil {
		shiftType, err := models.ParseShiftType(*req.ShiftType)
		if err != nil {
			return nil, &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: err.Error()}
		}
		shift.ShiftType = shiftType
	}
	if req.RequiredStaff != nil {
		shift.RequiredStaff = *req.RequiredStaff
	}
	if req.RequiredMentors != nil {
		shift.RequiredMentors = *req.RequiredMentors
	}
	if err := validateShiftWindow(shift); err != nil {
		return nil, err
	}

	if err := s.shifts.Update(ctx, nil, shift); err != nil {
		return nil, fmt.Errorf("error updating shift: %w", err)
	}
	return shift, nil
}

// DeleteShift removes a shift. Shifts with existing assignments cannot be
// deleted; the schedule has to be cleared first.
func (s *ShiftService) DeleteShift(ctx context.Context, id uuid.UUID) error {
	if _, err := s.shifts.GetByID(ctx, nil, id); err != nil {
		return err
	}

	count, err := s.assignments.CountByShift(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("error counting assignments: %w", err)
	}
	if count > 0 {
		return apperrors.ErrShiftHasAssignments
	}

	return s.shifts.Delete(ctx, nil, id)
}
