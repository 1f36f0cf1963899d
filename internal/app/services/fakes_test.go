package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/app/repositories"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
)

// In-memory fakes for the store interfaces. They ignore the Querier argument;
// fakeTx calls the transaction body with a nil tx so transactional code paths
// run against the same maps.

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

// ── users ──

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
	order []uuid.UUID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) add(u *models.User) *models.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	f.order = append(f.order, u.ID)
	return u
}

func (f *fakeUserStore) Create(_ context.Context, _ db.Querier, user *models.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, _ db.Querier, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, _ db.Querier, username string) (*models.User, error) {
	for _, id := range f.order {
		if u, ok := f.users[id]; ok && u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) UsernameExists(_ context.Context, _ db.Querier, username string) (bool, error) {
	_, err := f.GetByUsername(context.Background(), nil, username)
	return err == nil, nil
}

func (f *fakeUserStore) EmailExists(_ context.Context, _ db.Querier, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Update(_ context.Context, _ db.Querier, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, _ db.Querier, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) List(_ context.Context, _ db.Querier, offset, limit int) ([]*models.User, error) {
	var out []*models.User
	for _, id := range f.order {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUserStore) ListActive(_ context.Context, _ db.Querier) ([]*models.User, error) {
	var out []*models.User
	for _, id := range f.order {
		if u, ok := f.users[id]; ok && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) ListAdmins(_ context.Context, _ db.Querier) ([]*models.User, error) {
	var out []*models.User
	for _, id := range f.order {
		if u, ok := f.users[id]; ok && u.IsAdmin() {
			out = append(out, u)
		}
	}
	return out, nil
}

// ── shifts ──

type fakeShiftStore struct {
	shifts map[uuid.UUID]*models.Shift
}

func newFakeShiftStore() *fakeShiftStore {
	return &fakeShiftStore{shifts: make(map[uuid.UUID]*models.Shift)}
}

func (f *fakeShiftStore) add(s *models.Shift) *models.Shift {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.shifts[s.ID] = s
	return s
}

func (f *fakeShiftStore) Create(_ context.Context, _ db.Querier, shift *models.Shift) error {
	f.add(shift)
	return nil
}

func (f *fakeShiftStore) GetByID(_ context.Context, _ db.Querier, id uuid.UUID) (*models.Shift, error) {
	if s, ok := f.shifts[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, apperrors.ErrShiftNotFound
}

func (f *fakeShiftStore) Update(_ context.Context, _ db.Querier, shift *models.Shift) error {
	if _, ok := f.shifts[shift.ID]; !ok {
		return apperrors.ErrShiftNotFound
	}
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeShiftStore) Delete(_ context.Context, _ db.Querier, id uuid.UUID) error {
	if _, ok := f.shifts[id]; !ok {
		return apperrors.ErrShiftNotFound
	}
	delete(f.shifts, id)
	return nil
}

func (f *fakeShiftStore) List(_ context.Context, _ db.Querier, filter dto.ShiftFilter) ([]*models.Shift, error) {
	var out []*models.Shift
	for _, s := range f.shifts {
		if filter.ShiftType != nil && string(s.ShiftType) != *filter.ShiftType {
			continue
		}
		if filter.StartDate != nil && s.StartTime.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && s.EndTime.After(*filter.EndDate) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeShiftStore) ListInWindow(_ context.Context, _ db.Querier, lo, hi time.Time) ([]*models.Shift, error) {
	var out []*models.Shift
	for _, s := range f.shifts {
		if s.StartTime.Before(lo) || s.EndTime.After(hi) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// ── assignments ──

type fakeAssignmentStore struct {
	assignments map[uuid.UUID]*models.ScheduleAssignment
	order       []uuid.UUID
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{assignments: make(map[uuid.UUID]*models.ScheduleAssignment)}
}

func (f *fakeAssignmentStore) add(a *models.ScheduleAssignment) *models.ScheduleAssignment {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.assignments[a.ID] = a
	f.order = append(f.order, a.ID)
	return a
}

func (f *fakeAssignmentStore) all() []*models.ScheduleAssignment {
	var out []*models.ScheduleAssignment
	for _, id := range f.order {
		if a, ok := f.assignments[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeAssignmentStore) Create(_ context.Context, _ db.Querier, a *models.ScheduleAssignment) error {
	for _, existing := range f.assignments {
		if existing.UserID == a.UserID && existing.ShiftID == a.ShiftID {
			return apperrors.ErrAssignmentExists
		}
	}
	f.add(a)
	return nil
}

func (f *fakeAssignmentStore) GetByID(_ context.Context, _ db.Querier, id uuid.UUID) (*models.ScheduleAssignment, error) {
	if a, ok := f.assignments[id]; ok {
		return a, nil
	}
	return nil, apperrors.ErrAssignmentNotFound
}

func (f *fakeAssignmentStore) GetByIDForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ScheduleAssignment, error) {
	return f.GetByID(ctx, q, id)
}

func (f *fakeAssignmentStore) UpdateUserID(_ context.Context, _ db.Querier, id, userID uuid.UUID) error {
	a, ok := f.assignments[id]
	if !ok {
		return apperrors.ErrAssignmentNotFound
	}
	a.UserID = userID
	return nil
}

func (f *fakeAssignmentStore) Delete(_ context.Context, _ db.Querier, id uuid.UUID) error {
	if _, ok := f.assignments[id]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	delete(f.assignments, id)
	return nil
}

func (f *fakeAssignmentStore) DeleteByShiftIDs(_ context.Context, _ db.Querier, shiftIDs []uuid.UUID) (int64, error) {
	var removed int64
	for _, shiftID := range shiftIDs {
		for id, a := range f.assignments {
			if a.ShiftID == shiftID {
				delete(f.assignments, id)
				removed++
			}
		}
	}
	return removed, nil
}

func (f *fakeAssignmentStore) List(_ context.Context, _ db.Querier, filter repositories.AssignmentFilter) ([]*models.ScheduleAssignment, error) {
	var out []*models.ScheduleAssignment
	for _, a := range f.all() {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssignmentStore) CountByShift(_ context.Context, _ db.Querier, shiftID uuid.UUID) (int, error) {
	count := 0
	for _, a := range f.assignments {
		if a.ShiftID == shiftID {
			count++
		}
	}
	return count, nil
}

// ── swap requests ──

type fakeSwapStore struct {
	swaps map[uuid.UUID]*models.ShiftSwapRequest
	order []uuid.UUID
}

func newFakeSwapStore() *fakeSwapStore {
	return &fakeSwapStore{swaps: make(map[uuid.UUID]*models.ShiftSwapRequest)}
}

func (f *fakeSwapStore) add(r *models.ShiftSwapRequest) *models.ShiftSwapRequest {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.swaps[r.ID] = r
	f.order = append(f.order, r.ID)
	return r
}

func (f *fakeSwapStore) Create(_ context.Context, _ db.Querier, r *models.ShiftSwapRequest) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	f.add(r)
	return nil
}

func (f *fakeSwapStore) GetByID(_ context.Context, _ db.Querier, id uuid.UUID) (*models.ShiftSwapRequest, error) {
	if r, ok := f.swaps[id]; ok {
		return r, nil
	}
	return nil, apperrors.ErrSwapRequestNotFound
}

func (f *fakeSwapStore) GetByIDForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ShiftSwapRequest, error) {
	return f.GetByID(ctx, q, id)
}

func (f *fakeSwapStore) UpdateStatus(_ context.Context, _ db.Querier, id uuid.UUID, status models.SwapStatus) error {
	r, ok := f.swaps[id]
	if !ok {
		return apperrors.ErrSwapRequestNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeSwapStore) RecordDecision(_ context.Context, _ db.Querier, id uuid.UUID, status models.SwapStatus, adminID uuid.UUID, comment *string) error {
	r, ok := f.swaps[id]
	if !ok {
		return apperrors.ErrSwapRequestNotFound
	}
	r.Status = status
	r.AdminID = &adminID
	r.AdminComment = comment
	return nil
}

func (f *fakeSwapStore) ExistsPendingTriple(_ context.Context, _ db.Querier, requesterID, requesterShiftID, targetID uuid.UUID) (bool, error) {
	for _, r := range f.swaps {
		if r.Status == models.SwapPending &&
			r.RequesterID == requesterID &&
			r.RequesterShiftID == requesterShiftID &&
			r.TargetID == targetID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSwapStore) CountCreatedBetween(_ context.Context, _ db.Querier, requesterID uuid.UUID, start, end time.Time) (int, error) {
	count := 0
	for _, r := range f.swaps {
		if r.RequesterID != requesterID {
			continue
		}
		if r.CreatedAt.Before(start) || !r.CreatedAt.Before(end) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeSwapStore) DeleteByAssignment(_ context.Context, _ db.Querier, assignmentID uuid.UUID) error {
	for id, r := range f.swaps {
		if r.RequesterShiftID == assignmentID || (r.TargetShiftID != nil && *r.TargetShiftID == assignmentID) {
			delete(f.swaps, id)
		}
	}
	return nil
}

func (f *fakeSwapStore) List(_ context.Context, _ db.Querier, filter repositories.SwapFilter) ([]*models.ShiftSwapRequest, error) {
	var out []*models.ShiftSwapRequest
	for _, id := range f.order {
		r, ok := f.swaps[id]
		if !ok {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.RelatedUser != nil && !r.Involves(*filter.RelatedUser) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ── settings ──

type fakeSettingStore struct {
	settings map[string]*models.SystemSetting
}

func newFakeSettingStore() *fakeSettingStore {
	return &fakeSettingStore{settings: make(map[string]*models.SystemSetting)}
}

func (f *fakeSettingStore) set(key, value string) {
	f.settings[key] = &models.SystemSetting{ID: uuid.New(), Key: key, Value: value}
}

func (f *fakeSettingStore) GetByKey(_ context.Context, _ db.Querier, key string) (*models.SystemSetting, error) {
	if s, ok := f.settings[key]; ok {
		return s, nil
	}
	return nil, apperrors.ErrSettingNotFound
}

func (f *fakeSettingStore) List(_ context.Context, _ db.Querier) ([]*models.SystemSetting, error) {
	var out []*models.SystemSetting
	for _, s := range f.settings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeSettingStore) Upsert(_ context.Context, _ db.Querier, setting *models.SystemSetting) error {
	existing, ok := f.settings[setting.Key]
	if ok {
		setting.ID = existing.ID
	} else if setting.ID == uuid.Nil {
		setting.ID = uuid.New()
	}
	f.settings[setting.Key] = setting
	return nil
}

// ── notifications ──

type sentNotification struct {
	UserID    uuid.UUID
	Type      models.NotificationType
	Title     string
	Content   string
	RelatedID *uuid.UUID
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) Notify(_ context.Context, userID uuid.UUID, nType models.NotificationType, title, content string, relatedID *uuid.UUID) {
	f.sent = append(f.sent, sentNotification{UserID: userID, Type: nType, Title: title, Content: content, RelatedID: relatedID})
}

func (f *fakeNotifier) byUser(userID uuid.UUID) []sentNotification {
	var out []sentNotification
	for _, n := range f.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
