package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/app/repositories"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
)

type scheduleFixture struct {
	svc         *ScheduleService
	users       *fakeUserStore
	shifts      *fakeShiftStore
	assignments *fakeAssignmentStore
	swaps       *fakeSwapStore
	notifier    *fakeNotifier
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()

	f := &scheduleFixture{
		users:       newFakeUserStore(),
		shifts:      newFakeShiftStore(),
		assignments: newFakeAssignmentStore(),
		swaps:       newFakeSwapStore(),
		notifier:    &fakeNotifier{},
	}
	f.svc = NewScheduleService(fakeTx{}, f.users, f.shifts, f.assignments, f.swaps, f.notifier)
	return f
}

var genDay = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func (f *scheduleFixture) addShift(day time.Time, shiftType models.ShiftType, staff int) *models.Shift {
	start := day.Add(8 * time.Hour)
	end := day.Add(20 * time.Hour)
	if shiftType.IsNight() {
		start = day.Add(20 * time.Hour)
		end = day.Add(32 * time.Hour)
	}
	return f.shifts.add(&models.Shift{
		StartTime:     start,
		EndTime:       end,
		ShiftType:     shiftType,
		RequiredStaff: staff,
	})
}

func (f *scheduleFixture) addStaff(username string, role models.Role) *models.User {
	return f.users.add(&models.User{Username: username, Name: username, Role: role, IsActive: true})
}

func (f *scheduleFixture) assignmentsFor(shiftID uuid.UUID) []*models.ScheduleAssignment {
	var out []*models.ScheduleAssignment
	for _, a := range f.assignments.all() {
		if a.ShiftID == shiftID {
			out = append(out, a)
		}
	}
	return out
}

func TestScheduleServiceGenerateRoundRobin(t *testing.T) {
	f := newScheduleFixture(t)
	u1 := f.addStaff("alice", models.RoleDayShift)
	u2 := f.addStaff("bob", models.RoleDayShift)
	shift := f.addShift(genDay, models.ShiftDayWorkday, 2)

	created, err := f.svc.Generate(context.Background(), genDay, genDay)
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, u1.ID, created[0].UserID)
	assert.Equal(t, u2.ID, created[1].UserID)
	for _, a := range created {
		assert.Equal(t, shift.ID, a.ShiftID)
		assert.True(t, a.IsPrimary)
		require.NotNil(t, a.Shift)
		assert.Equal(t, shift.ID, a.Shift.ID)
	}
}

func TestScheduleServiceGenerateCursorSpansShifts(t *testing.T) {
	f := newScheduleFixture(t)
	u1 := f.addStaff("alice", models.RoleDayShift)
	u2 := f.addStaff("bob", models.RoleDayShift)
	s1 := f.addShift(genDay, models.ShiftDayWorkday, 1)
	s2 := f.addShift(genDay.AddDate(0, 0, 1), models.ShiftDayWorkday, 1)

	created, err := f.svc.Generate(context.Background(), genDay, genDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, created, 2)

	// The rotation continues across shifts instead of restarting
	assert.Equal(t, u1.ID, created[0].UserID)
	assert.Equal(t, s1.ID, created[0].ShiftID)
	assert.Equal(t, u2.ID, created[1].UserID)
	assert.Equal(t, s2.ID, created[1].ShiftID)
}

func TestScheduleServiceGenerateIneligibleLeavesSlotUnfilled(t *testing.T) {
	f := newScheduleFixture(t)
	f.addStaff("nightowl", models.RoleNightShift)
	day := f.addStaff("alice", models.RoleDayShift)
	s1 := f.addShift(genDay, models.ShiftDayWorkday, 1)
	s2 := f.addShift(genDay.AddDate(0, 0, 1), models.ShiftDayWorkday, 1)

	created, err := f.svc.Generate(context.Background(), genDay, genDay.AddDate(0, 0, 1))
	require.NoError(t, err)

	// The night worker consumed the first slot without filling it
	require.Len(t, created, 1)
	assert.Empty(t, f.assignmentsFor(s1.ID))
	assert.Equal(t, day.ID, created[0].UserID)
	assert.Equal(t, s2.ID, created[0].ShiftID)
}

func TestScheduleServiceGenerateAdminCoversBothHalves(t *testing.T) {
	f := newScheduleFixture(t)
	admin := f.addStaff("admin", models.RoleAdmin)
	f.addShift(genDay, models.ShiftNightHoliday, 1)

	// Night shifts cross midnight, so the window spans two days
	created, err := f.svc.Generate(context.Background(), genDay, genDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, admin.ID, created[0].UserID)
}

func TestScheduleServiceGenerateMentorShadow(t *testing.T) {
	f := newScheduleFixture(t)
	trainee := f.users.add(&models.User{
		Username: "trainee", Name: "trainee",
		Role: models.RoleDayShift, IsTrainee: true, IsActive: true,
	})
	mentor := f.addStaff("mentor", models.RoleDayShift)
	trainee.MentorID = &mentor.ID
	shift := f.addShift(genDay, models.ShiftDayWorkday, 1)

	created, err := f.svc.Generate(context.Background(), genDay, genDay)
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, mentor.ID, created[0].UserID, "mentor shadow row comes first")
	assert.Equal(t, trainee.ID, created[1].UserID)
	assert.True(t, created[0].IsPrimary)
	assert.True(t, created[1].IsPrimary)
	assert.Len(t, f.assignmentsFor(shift.ID), 2)
}

func TestScheduleServiceGenerateInactiveMentorStillShadows(t *testing.T) {
	f := newScheduleFixture(t)
	inactiveMentor := f.users.add(&models.User{Username: "mentor", Name: "mentor", Role: models.RoleDayShift, IsActive: false})
	trainee := f.users.add(&models.User{
		Username: "trainee", Name: "trainee",
		Role: models.RoleDayShift, IsTrainee: true, MentorID: &inactiveMentor.ID, IsActive: true,
	})
	f.addShift(genDay, models.ShiftDayWorkday, 1)

	// The mentor is off the active rotation but still shadows the trainee
	created, err := f.svc.Generate(context.Background(), genDay, genDay)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, inactiveMentor.ID, created[0].UserID)
	assert.Equal(t, trainee.ID, created[1].UserID)
}

func TestScheduleServiceGenerateMissingMentorNoShadow(t *testing.T) {
	f := newScheduleFixture(t)
	ghost := uuid.New()
	trainee := f.users.add(&models.User{
		Username: "trainee", Name: "trainee",
		Role: models.RoleDayShift, IsTrainee: true, MentorID: &ghost, IsActive: true,
	})
	f.addShift(genDay, models.ShiftDayWorkday, 1)

	created, err := f.svc.Generate(context.Background(), genDay, genDay)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, trainee.ID, created[0].UserID)
}

func TestScheduleServiceGenerateReplacesWindow(t *testing.T) {
	f := newScheduleFixture(t)
	u1 := f.addStaff("alice", models.RoleDayShift)
	shift := f.addShift(genDay, models.ShiftDayWorkday, 1)

	stale := f.assignments.add(&models.ScheduleAssignment{UserID: uuid.New(), ShiftID: shift.ID, IsPrimary: true})

	created, err := f.svc.Generate(context.Background(), genDay, genDay)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, u1.ID, created[0].UserID)

	_, err = f.assignments.GetByID(context.Background(), nil, stale.ID)
	assert.ErrorIs(t, err, apperrors.ErrAssignmentNotFound)
}

func TestScheduleServiceGenerateOutsideWindowUntouched(t *testing.T) {
	f := newScheduleFixture(t)
	f.addStaff("alice", models.RoleDayShift)
	f.addShift(genDay, models.ShiftDayWorkday, 1)
	outside := f.addShift(genDay.AddDate(0, 0, 7), models.ShiftDayWorkday, 1)
	kept := f.assignments.add(&models.ScheduleAssignment{UserID: uuid.New(), ShiftID: outside.ID, IsPrimary: true})

	_, err := f.svc.Generate(context.Background(), genDay, genDay)
	require.NoError(t, err)

	_, err = f.assignments.GetByID(context.Background(), nil, kept.ID)
	assert.NoError(t, err)
}

func TestScheduleServiceGenerateErrors(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.Generate(context.Background(), genDay, genDay.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Generate(context.Background(), genDay, genDay)
	assert.ErrorIs(t, err, apperrors.ErrNoShiftsInRange)

	f.addShift(genDay, models.ShiftDayWorkday, 1)
	_, err = f.svc.Generate(context.Background(), genDay, genDay)
	assert.ErrorIs(t, err, apperrors.ErrNoActiveUsers)
}

func TestScheduleServiceAssign(t *testing.T) {
	f := newScheduleFixture(t)
	user := f.addStaff("alice", models.RoleDayShift)
	shift := f.addShift(genDay, models.ShiftDayWorkday, 1)

	assignment, err := f.svc.Assign(context.Background(), &dto.AssignScheduleRequest{
		UserID: user.ID, ShiftID: shift.ID, IsPrimary: true,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, assignment.UserID)
	require.NotNil(t, assignment.Shift)
	assert.Equal(t, shift.ID, assignment.Shift.ID)

	notes := f.notifier.byUser(user.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationShiftChange, notes[0].Type)

	// The same pair again is a conflict
	_, err = f.svc.Assign(context.Background(), &dto.AssignScheduleRequest{
		UserID: user.ID, ShiftID: shift.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrAssignmentExists)
}

func TestScheduleServiceAssignMissingReferences(t *testing.T) {
	f := newScheduleFixture(t)
	user := f.addStaff("alice", models.RoleDayShift)
	shift := f.addShift(genDay, models.ShiftDayWorkday, 1)

	_, err := f.svc.Assign(context.Background(), &dto.AssignScheduleRequest{UserID: uuid.New(), ShiftID: shift.ID})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = f.svc.Assign(context.Background(), &dto.AssignScheduleRequest{UserID: user.ID, ShiftID: uuid.New()})
	assert.ErrorIs(t, err, apperrors.ErrShiftNotFound)
}

func TestScheduleServiceDeleteAssignmentCleansSwaps(t *testing.T) {
	f := newScheduleFixture(t)
	user := f.addStaff("alice", models.RoleDayShift)
	shift := f.addShift(genDay, models.ShiftDayWorkday, 1)
	assignment := f.assignments.add(&models.ScheduleAssignment{UserID: user.ID, ShiftID: shift.ID, IsPrimary: true})

	swap := f.swaps.add(&models.ShiftSwapRequest{
		RequesterID:      user.ID,
		RequesterShiftID: assignment.ID,
		TargetID:         uuid.New(),
		Status:           models.SwapPending,
	})

	require.NoError(t, f.svc.DeleteAssignment(context.Background(), assignment.ID))

	_, err := f.assignments.GetByID(context.Background(), nil, assignment.ID)
	assert.ErrorIs(t, err, apperrors.ErrAssignmentNotFound)
	_, err = f.swaps.GetByID(context.Background(), nil, swap.ID)
	assert.ErrorIs(t, err, apperrors.ErrSwapRequestNotFound)

	err = f.svc.DeleteAssignment(context.Background(), assignment.ID)
	assert.ErrorIs(t, err, apperrors.ErrAssignmentNotFound)
}

func TestScheduleServiceListScoping(t *testing.T) {
	f := newScheduleFixture(t)
	admin := f.users.add(&models.User{Username: "admin", Name: "Admin", Role: models.RoleAdmin, IsActive: true})
	u1 := f.addStaff("alice", models.RoleDayShift)
	u2 := f.addStaff("bob", models.RoleDayShift)
	shift := f.addShift(genDay, models.ShiftDayWorkday, 2)
	f.assignments.add(&models.ScheduleAssignment{UserID: u1.ID, ShiftID: shift.ID})
	f.assignments.add(&models.ScheduleAssignment{UserID: u2.ID, ShiftID: shift.ID})

	all, err := f.svc.ListAssignments(context.Background(), admin, repositories.AssignmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// A non-admin sees only their own rows, whatever the filter says
	mine, err := f.svc.ListAssignments(context.Background(), u1, repositories.AssignmentFilter{UserID: &u2.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, u1.ID, mine[0].UserID)

	_, err = f.svc.ListUserAssignments(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
