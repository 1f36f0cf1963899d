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
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
)

type swapFixture struct {
	svc         *SwapService
	users       *fakeUserStore
	assignments *fakeAssignmentStore
	swaps       *fakeSwapStore
	settings    *fakeSettingStore
	notifier    *fakeNotifier

	admin     *models.User
	requester *models.User
	target    *models.User
	reqAssign *models.ScheduleAssignment
	tgtAssign *models.ScheduleAssignment
}

func newSwapFixture(t *testing.T) *swapFixture {
	t.Helper()

	f := &swapFixture{
		users:       newFakeUserStore(),
		assignments: newFakeAssignmentStore(),
		swaps:       newFakeSwapStore(),
		settings:    newFakeSettingStore(),
		notifier:    &fakeNotifier{},
	}

	f.admin = f.users.add(&models.User{Username: "admin", Name: "Admin", Role: models.RoleAdmin, IsActive: true})
	f.requester = f.users.add(&models.User{Username: "alice", Name: "Alice", Role: models.RoleDayShift, IsActive: true})
	f.target = f.users.add(&models.User{Username: "bob", Name: "Bob", Role: models.RoleDayShift, IsActive: true})

	shiftA := uuid.New()
	shiftB := uuid.New()
	f.reqAssign = f.assignments.add(&models.ScheduleAssignment{UserID: f.requester.ID, ShiftID: shiftA, IsPrimary: true})
	f.tgtAssign = f.assignments.add(&models.ScheduleAssignment{UserID: f.target.ID, ShiftID: shiftB, IsPrimary: true})

	f.svc = NewSwapService(fakeTx{}, f.users, f.assignments, f.swaps, f.settings, f.notifier)
	return f
}

func (f *swapFixture) createRequest() *dto.CreateSwapRequest {
	return &dto.CreateSwapRequest{
		RequesterID:      f.requester.ID,
		RequesterShiftID: f.reqAssign.ID,
		TargetID:         f.target.ID,
		TargetShiftID:    &f.tgtAssign.ID,
		Reason:           "family event",
	}
}

// seedSwap plants a request in a given state without going through the service
func (f *swapFixture) seedSwap(status models.SwapStatus) *models.ShiftSwapRequest {
	return f.swaps.add(&models.ShiftSwapRequest{
		RequesterID:      f.requester.ID,
		RequesterShiftID: f.reqAssign.ID,
		TargetID:         f.target.ID,
		TargetShiftID:    &f.tgtAssign.ID,
		Status:           status,
		CreatedAt:        time.Now(),
	})
}

func TestSwapServiceCreate(t *testing.T) {
	f := newSwapFixture(t)

	swap, err := f.svc.CreateSwapRequest(context.Background(), f.requester, f.createRequest())
	require.NoError(t, err)

	assert.Equal(t, models.SwapPending, swap.Status)
	assert.Equal(t, f.requester.ID, swap.RequesterID)
	assert.Equal(t, f.target.ID, swap.TargetID)

	notes := f.notifier.byUser(f.target.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationSwapRequest, notes[0].Type)
	require.NotNil(t, notes[0].RelatedID)
	assert.Equal(t, swap.ID, *notes[0].RelatedID)
}

func TestSwapServiceCreateForAnotherUser(t *testing.T) {
	f := newSwapFixture(t)

	// Another staff member cannot open a request on the requester's behalf
	_, err := f.svc.CreateSwapRequest(context.Background(), f.target, f.createRequest())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// An admin can
	_, err = f.svc.CreateSwapRequest(context.Background(), f.admin, f.createRequest())
	assert.NoError(t, err)
}

func TestSwapServiceCreateOwnershipChecks(t *testing.T) {
	f := newSwapFixture(t)

	req := f.createRequest()
	req.RequesterShiftID = f.tgtAssign.ID // belongs to the target, not the requester
	_, err := f.svc.CreateSwapRequest(context.Background(), f.requester, req)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	req = f.createRequest()
	req.TargetShiftID = &f.reqAssign.ID // belongs to the requester, not the target
	_, err = f.svc.CreateSwapRequest(context.Background(), f.requester, req)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestSwapServiceCreateMissingAssignment(t *testing.T) {
	f := newSwapFixture(t)

	req := f.createRequest()
	req.RequesterShiftID = uuid.New()
	_, err := f.svc.CreateSwapRequest(context.Background(), f.requester, req)
	assert.ErrorIs(t, err, apperrors.ErrAssignmentNotFound)
}

func TestSwapServiceCreateDuplicatePending(t *testing.T) {
	f := newSwapFixture(t)

	_, err := f.svc.CreateSwapRequest(context.Background(), f.requester, f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.CreateSwapRequest(context.Background(), f.requester, f.createRequest())
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSwap)
}

func TestSwapServiceCreateAfterTerminalDuplicateAllowed(t *testing.T) {
	f := newSwapFixture(t)
	f.seedSwap(models.SwapCancelled)

	_, err := f.svc.CreateSwapRequest(context.Background(), f.requester, f.createRequest())
	assert.NoError(t, err)
}

func seedMonthlyRequests(f *swapFixture, n int, at time.Time) {
	for i := 0; i < n; i++ {
		f.swaps.add(&models.ShiftSwapRequest{
			RequesterID:      f.requester.ID,
			RequesterShiftID: uuid.New(),
			TargetID:         uuid.New(),
			Status:           models.SwapRejected,
			CreatedAt:        at,
		})
	}
}

func TestSwapServiceMonthlyQuota(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("under the default limit", func(t *testing.T) {
		f := newSwapFixture(t)
		f.svc.now = func() time.Time { return now }
		seedMonthlyRequests(f, 2, now.AddDate(0, 0, -3))

		_, err := f.svc.CreateSwapRequest(context.Background(), f.requester, f.createRequest())
		assert.NoError(t, err)
	})

	t.Run("at the default limit", func(t *testing.T) {
		f := newSwapFixture(t)
		f.svc.now = func() time.Time { return now }
		seedMonthlyRequests(f, 3, now.AddDate(0, 0, -3))

		_, err := f.svc.CreateSwapRequest(context.Background(), f.requester, f.createRequest())
		assert.ErrorIs(t, err, apperrors.ErrSwapLimitReached)
	})

	t.Run("previous month does not count", func(t *testing.T) {
		f := newSwapFixture(t)
		f.svc.now = func() time.Time { return now }
		seedMonthlyRequests(f, 3, now.AddDate(0, -1, 0))

		_, err := f.svc.CreateSwapRequest(context.Background(), f.requester, f.createRequest())
		assert.NoError(t, err)
	})

	t.Run("setting raises the limit", func(t *testing.T) {
		f := newSwapFixture(t)
		f.svc.now = func() time.Time { return now }
		f.settings.set("swap_monthly_limit", "5")
		seedMonthlyRequests(f, 4, now.AddDate(0, 0, -3))

		_, err := f.svc.CreateSwapRequest(context.Background(), f.requester, f.createRequest())
		assert.NoError(t, err)
	})

	t.Run("invalid setting falls back to the default", func(t *testing.T) {
		f := newSwapFixture(t)
		f.svc.now = func() time.Time { return now }
		f.settings.set("swap_monthly_limit", "not-a-number")
		seedMonthlyRequests(f, 3, now.AddDate(0, 0, -3))

		_, err := f.svc.CreateSwapRequest(context.Background(), f.requester, f.createRequest())
		assert.ErrorIs(t, err, apperrors.ErrSwapLimitReached)
	})
}

func TestSwapServiceRespondAccept(t *testing.T) {
	f := newSwapFixture(t)
	swap := f.seedSwap(models.SwapPending)

	updated, err := f.svc.Respond(context.Background(), f.target, swap.ID, "accepted")
	require.NoError(t, err)
	assert.Equal(t, models.SwapAccepted, updated.Status)

	// Requester learns about the decision
	reqNotes := f.notifier.byUser(f.requester.ID)
	require.Len(t, reqNotes, 1)
	assert.Equal(t, models.NotificationSwapRequest, reqNotes[0].Type)

	// Every admin is asked to review
	adminNotes := f.notifier.byUser(f.admin.ID)
	require.Len(t, adminNotes, 1)
	assert.Equal(t, models.NotificationApproval, adminNotes[0].Type)
}

func TestSwapServiceRespondReject(t *testing.T) {
	f := newSwapFixture(t)
	swap := f.seedSwap(models.SwapPending)

	updated, err := f.svc.Respond(context.Background(), f.target, swap.ID, "rejected")
	require.NoError(t, err)
	assert.Equal(t, models.SwapRejected, updated.Status)

	// Rejection skips the admin fan-out
	assert.Empty(t, f.notifier.byUser(f.admin.ID))
}

func TestSwapServiceRespondPermissions(t *testing.T) {
	f := newSwapFixture(t)
	swap := f.seedSwap(models.SwapPending)

	_, err := f.svc.Respond(context.Background(), f.requester, swap.ID, "accepted")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Identity is checked before state: a non-target probing a settled
	// request learns nothing about its status
	accepted := f.seedSwap(models.SwapAccepted)
	_, err = f.svc.Respond(context.Background(), f.requester, accepted.ID, "accepted")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Admins may respond on the target's behalf
	swap2 := f.seedSwap(models.SwapPending)
	_, err = f.svc.Respond(context.Background(), f.admin, swap2.ID, "accepted")
	assert.NoError(t, err)
}

func TestSwapServiceRespondInvalidInput(t *testing.T) {
	f := newSwapFixture(t)
	swap := f.seedSwap(models.SwapPending)

	_, err := f.svc.Respond(context.Background(), f.target, swap.ID, "approved")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	accepted := f.seedSwap(models.SwapAccepted)
	_, err = f.svc.Respond(context.Background(), f.target, accepted.ID, "rejected")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestSwapServiceApproveExchange(t *testing.T) {
	f := newSwapFixture(t)
	swap := f.seedSwap(models.SwapAccepted)
	comment := "looks fine"

	updated, err := f.svc.Approve(context.Background(), f.admin, swap.ID, &dto.ApproveSwapRequest{Approval: "approved", Comment: &comment})
	require.NoError(t, err)

	assert.Equal(t, models.SwapApproved, updated.Status)
	require.NotNil(t, updated.AdminID)
	assert.Equal(t, f.admin.ID, *updated.AdminID)
	require.NotNil(t, updated.AdminComment)
	assert.Equal(t, comment, *updated.AdminComment)

	// The two assignments changed hands
	reqAssign, err := f.assignments.GetByID(context.Background(), nil, f.reqAssign.ID)
	require.NoError(t, err)
	assert.Equal(t, f.target.ID, reqAssign.UserID)

	tgtAssign, err := f.assignments.GetByID(context.Background(), nil, f.tgtAssign.ID)
	require.NoError(t, err)
	assert.Equal(t, f.requester.ID, tgtAssign.UserID)

	// Both parties are told, comment included
	reqNotes := f.notifier.byUser(f.requester.ID)
	require.Len(t, reqNotes, 1)
	assert.Equal(t, models.NotificationApproval, reqNotes[0].Type)
	assert.Contains(t, reqNotes[0].Content, comment)

	tgtNotes := f.notifier.byUser(f.target.ID)
	require.Len(t, tgtNotes, 1)
	assert.Contains(t, tgtNotes[0].Content, comment)
}

func TestSwapServiceApproveTransfer(t *testing.T) {
	f := newSwapFixture(t)
	swap := f.swaps.add(&models.ShiftSwapRequest{
		RequesterID:      f.requester.ID,
		RequesterShiftID: f.reqAssign.ID,
		TargetID:         f.target.ID,
		Status:           models.SwapAccepted,
		CreatedAt:        time.Now(),
	})

	_, err := f.svc.Approve(context.Background(), f.admin, swap.ID, &dto.ApproveSwapRequest{Approval: "approved"})
	require.NoError(t, err)

	// One-way transfer: the requester's assignment moves to the target
	reqAssign, err := f.assignments.GetByID(context.Background(), nil, f.reqAssign.ID)
	require.NoError(t, err)
	assert.Equal(t, f.target.ID, reqAssign.UserID)

	tgtAssign, err := f.assignments.GetByID(context.Background(), nil, f.tgtAssign.ID)
	require.NoError(t, err)
	assert.Equal(t, f.target.ID, tgtAssign.UserID)
}

func TestSwapServiceApproveReject(t *testing.T) {
	f := newSwapFixture(t)
	swap := f.seedSwap(models.SwapAccepted)

	updated, err := f.svc.Approve(context.Background(), f.admin, swap.ID, &dto.ApproveSwapRequest{Approval: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, models.SwapRejected, updated.Status)
	require.NotNil(t, updated.AdminID)
	assert.Equal(t, f.admin.ID, *updated.AdminID)

	// Assignments are untouched on rejection
	reqAssign, err := f.assignments.GetByID(context.Background(), nil, f.reqAssign.ID)
	require.NoError(t, err)
	assert.Equal(t, f.requester.ID, reqAssign.UserID)
}

func TestSwapServiceApproveGuards(t *testing.T) {
	f := newSwapFixture(t)

	pending := f.seedSwap(models.SwapPending)
	_, err := f.svc.Approve(context.Background(), f.admin, pending.ID, &dto.ApproveSwapRequest{Approval: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	accepted := f.seedSwap(models.SwapAccepted)
	_, err = f.svc.Approve(context.Background(), f.target, accepted.ID, &dto.ApproveSwapRequest{Approval: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.svc.Approve(context.Background(), f.admin, accepted.ID, &dto.ApproveSwapRequest{Approval: "maybe"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSwapServiceCancel(t *testing.T) {
	f := newSwapFixture(t)

	swap := f.seedSwap(models.SwapPending)
	updated, err := f.svc.Cancel(context.Background(), f.requester, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SwapCancelled, updated.Status)

	// Cancellation is silent
	assert.Empty(t, f.notifier.sent)
}

func TestSwapServiceCancelGuards(t *testing.T) {
	f := newSwapFixture(t)

	swap := f.seedSwap(models.SwapPending)
	_, err := f.svc.Cancel(context.Background(), f.target, swap.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	accepted := f.seedSwap(models.SwapAccepted)
	_, err = f.svc.Cancel(context.Background(), f.requester, accepted.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestSwapServiceGetVisibility(t *testing.T) {
	f := newSwapFixture(t)
	outsider := f.users.add(&models.User{Username: "carol", Name: "Carol", Role: models.RoleNightShift, IsActive: true})
	swap := f.seedSwap(models.SwapPending)

	_, err := f.svc.GetSwapRequest(context.Background(), f.requester, swap.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetSwapRequest(context.Background(), f.admin, swap.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetSwapRequest(context.Background(), outsider, swap.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestSwapServiceListScoping(t *testing.T) {
	f := newSwapFixture(t)
	outsider := f.users.add(&models.User{Username: "carol", Name: "Carol", Role: models.RoleNightShift, IsActive: true})
	f.seedSwap(models.SwapPending)
	f.seedSwap(models.SwapAccepted)

	all, err := f.svc.ListSwapRequests(context.Background(), f.admin, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.svc.ListSwapRequests(context.Background(), f.requester, nil)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := f.svc.ListSwapRequests(context.Background(), outsider, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	status := "accepted"
	accepted, err := f.svc.ListSwapRequests(context.Background(), f.admin, &status)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, models.SwapAccepted, accepted[0].Status)

	bad := "bogus"
	_, err = f.svc.ListSwapRequests(context.Background(), f.admin, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
