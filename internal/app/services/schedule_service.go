package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/app/repositories"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
	"github.com/rosterd/rosterd/internal/pkg/helpers"
	"github.com/rosterd/rosterd/internal/pkg/logger"
)

// scheduleUserStore is the slice of the user repository schedule generation needs
type scheduleUserStore interface {
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.User, error)
	ListActive(ctx context.Context, q db.Querier) ([]*models.User, error)
}

// scheduleShiftStore loads the shifts a generation run covers
type scheduleShiftStore interface {
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Shift, error)
	ListInWindow(ctx context.Context, q db.Querier, lo, hi time.Time) ([]*models.Shift, error)
}

// scheduleAssignmentStore is the slice of the assignment repository the
// schedule service needs
type scheduleAssignmentStore interface {
	Create(ctx context.Context, q db.Querier, a *models.ScheduleAssignment) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ScheduleAssignment, error)
	Delete(ctx context.Context, q db.Querier, id uuid.UUID) error
	DeleteByShiftIDs(ctx context.Context, q db.Querier, shiftIDs []uuid.UUID) (int64, error)
	List(ctx context.Context, q db.Querier, filter repositories.AssignmentFilter) ([]*models.ScheduleAssignment, error)
}

// swapCleaner removes swap requests that reference an assignment
type swapCleaner interface {
	DeleteByAssignment(ctx context.Context, q db.Querier, assignmentID uuid.UUID) error
}

// ScheduleService handles schedule assignments and automatic generation
type ScheduleService struct {
	tx          txRunner
	users       scheduleUserStore
	shifts      scheduleShiftStore
	assignments scheduleAssignmentStore
	swaps       swapCleaner
	notify      notifier
}

// NewScheduleService creates a new schedule service instance
func NewScheduleService(tx txRunner, users scheduleUserStore, shifts scheduleShiftStore, assignments scheduleAssignmentStore, swaps swapCleaner, notify notifier) *ScheduleService {
	return &ScheduleService{
		tx:          tx,
		users:       users,
		shifts:      shifts,
		assignments: assignments,
		swaps:       swaps,
		notify:      notify,
	}
}

// ListAssignments retrieves assignments matching the filter. Non-admin
// callers are restricted to their own assignments regardless of the filter.
func (s *ScheduleService) ListAssignments(ctx context.Context, actor *models.User, filter repositories.AssignmentFilter) ([]*models.ScheduleAssignment, error) {
	if !actor.IsAdmin() {
		filter.UserID = &actor.ID
	}
	assignments, err := s.assignments.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	return assignments, nil
}

// ListUserAssignments retrieves one user's assignments
func (s *ScheduleService) ListUserAssignments(ctx context.Context, userID uuid.UUID) ([]*models.ScheduleAssignment, error) {
	if _, err := s.users.GetByID(ctx, nil, userID); err != nil {
		return nil, err
	}
	return s.assignments.List(ctx, nil, repositories.AssignmentFilter{UserID: &userID})
}

// Assign manually places a user on a shift. A duplicate (user, shift) pair
// surfaces as a conflict.
func (s *ScheduleService) Assign(ctx context.Context, req *dto.AssignScheduleRequest) (*models.ScheduleAssignment, error) {
	user, err := s.users.GetByID(ctx, nil, req.UserID)
	if err != nil {
		return nil, err
	}
	shift, err := s.shifts.GetByID(ctx, nil, req.ShiftID)
	if err != nil {
		return nil, err
	}

	assignment := &models.ScheduleAssignment{
		UserID:    req.UserID,
		ShiftID:   req.ShiftID,
		IsPrimary: req.IsPrimary,
	}
	if err := s.assignments.Create(ctx, nil, assignment); err != nil {
		return nil, err
	}
	assignment.Shift = shift

	s.notify.Notify(ctx, user.ID, models.NotificationShiftChange,
		"New shift assignment",
		fmt.Sprintf("You have been assigned to a shift starting %s.", shift.StartTime.Format(time.RFC3339)),
		&assignment.ID)

	return assignment, nil
}

// DeleteAssignment removes an assignment together with any swap requests
// that reference it, in one transaction.
func (s *ScheduleService) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.assignments.GetByID(ctx, nil, id); err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.swaps.DeleteByAssignment(ctx, tx, id); err != nil {
			return fmt.Errorf("error deleting swap requests for assignment: %w", err)
		}
		return s.assignments.Delete(ctx, tx, id)
	})
}

// Generate builds the schedule for every shift between startDate and endDate
// inclusive, replacing whatever assignments those shifts already had.
//
// Staffing walks the active users with a single round-robin cursor shared by
// the whole run. Each staff slot draws exactly one candidate: if the drawn
// user's role cannot cover the shift type the slot stays unfilled, so uneven
// rosters degrade staffing instead of starving users later in the rotation.
// An eligible trainee whose mentor still exists gets a mentor shadow row
// inserted ahead of their own, whether or not the mentor is active.
func (s *ScheduleService) Generate(ctx context.Context, startDate, endDate time.Time) ([]*models.ScheduleAssignment, error) {
	if endDate.Before(startDate) {
		return nil, &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: "end date must not be before start date"}
	}

	lo, hi := helpers.DateRangeBounds(startDate, endDate)
	shifts, err := s.shifts.ListInWindow(ctx, nil, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("error loading shifts: %w", err)
	}
	if len(shifts) == 0 {
		return nil, apperrors.ErrNoShiftsInRange
	}

	users, err := s.users.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error loading active users: %w", err)
	}
	if len(users) == 0 {
		return nil, apperrors.ErrNoActiveUsers
	}

	usersByID := make(map[uuid.UUID]*models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	// Mentors are resolved against all users, not just the active roster, so
	// a trainee keeps their shadow while the mentor account is deactivated.
	mentorsByID := make(map[uuid.UUID]*models.User)
	for _, u := range users {
		if !u.IsTrainee || u.MentorID == nil {
			continue
		}
		if _, ok := mentorsByID[*u.MentorID]; ok {
			continue
		}
		if mentor, ok := usersByID[*u.MentorID]; ok {
			mentorsByID[*u.MentorID] = mentor
			continue
		}
		mentor, err := s.users.GetByID(ctx, nil, *u.MentorID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("error resolving mentor: %w", err)
		}
		mentorsByID[*u.MentorID] = mentor
	}

	shiftIDs := make([]uuid.UUID, len(shifts))
	shiftsByID := make(map[uuid.UUID]*models.Shift, len(shifts))
	for i, sh := range shifts {
		shiftIDs[i] = sh.ID
		shiftsByID[sh.ID] = sh
	}

	var created []*models.ScheduleAssignment
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		removed, err := s.assignments.DeleteByShiftIDs(ctx, tx, shiftIDs)
		if err != nil {
			return fmt.Errorf("error clearing existing assignments: %w", err)
		}
		logger.Info().Int64("removed", removed).Int("shifts", len(shifts)).Msg("Regenerating schedule window")

		cursor := 0
		for _, shift := range shifts {
			for slot := 0; slot < shift.RequiredStaff; slot++ {
				candidate := users[cursor%len(users)]
				cursor++

				if !shift.ShiftType.Eligible(candidate.Role) {
					continue
				}

				if candidate.IsTrainee && candidate.MentorID != nil {
					if mentor, ok := mentorsByID[*candidate.MentorID]; ok {
						shadow := &models.ScheduleAssignment{
							UserID:    mentor.ID,
							ShiftID:   shift.ID,
							IsPrimary: true,
						}
						if err := s.assignments.Create(ctx, tx, shadow); err != nil {
							return fmt.Errorf("error creating mentor assignment: %w", err)
						}
						created = append(created, shadow)
					}
				}

				assignment := &models.ScheduleAssignment{
					UserID:    candidate.ID,
					ShiftID:   shift.ID,
					IsPrimary: true,
				}
				if err := s.assignments.Create(ctx, tx, assignment); err != nil {
					return fmt.Errorf("error creating assignment: %w", err)
				}
				created = append(created, assignment)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, a := range created {
		a.Shift = shiftsByID[a.ShiftID]
	}

	logger.Info().Int("assignments", len(created)).
		Time("startDate", startDate).Time("endDate", endDate).
		Msg("Schedule generated")

	return created, nil
}
