package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/repositories"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/auth"
	"github.com/rosterd/rosterd/internal/pkg/ws"
)

// txRunner runs a function inside a database transaction. Satisfied by
// *db.PostgresDB; tests substitute a fake that calls fn directly.
type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// notifier delivers a notification to one user. Implementations must never
// fail the triggering operation: errors are logged and swallowed.
type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, nType models.NotificationType, title, content string, relatedID *uuid.UUID)
}

// Services holds all service instances
type Services struct {
	Auth          *AuthService
	Users         *UserService
	Shifts        *ShiftService
	Schedules     *ScheduleService
	Swaps         *SwapService
	Notifications *NotificationService
	Settings      *SettingService
}

// NewServices wires all services against the shared repositories, the
// transaction runner and the notification push hub.
func NewServices(database *db.PostgresDB, repos *repositories.Repositories, jwtService *auth.JWTService, hub *ws.Hub) *Services {
	notifications := NewNotificationService(repos.Notifications, hub)

	return &Services{
		Auth:          NewAuthService(repos.Users, jwtService),
		Users:         NewUserService(repos.Users),
		Shifts:        NewShiftService(repos.Shifts, repos.Assignments),
		Schedules:     NewScheduleService(database, repos.Users, repos.Shifts, repos.Assignments, repos.SwapRequests, notifications),
		Swaps:         NewSwapService(database, repos.Users, repos.Assignments, repos.SwapRequests, repos.Settings, notifications),
		Notifications: notifications,
		Settings:      NewSettingService(repos.Settings),
	}
}
