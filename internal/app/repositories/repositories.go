package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	Users         *UserRepository
	Shifts        *ShiftRepository
	Assignments   *AssignmentRepository
	SwapRequests  *SwapRequestRepository
	Notifications *NotificationRepository
	Settings      *SettingRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(pool),
		Shifts:        NewShiftRepository(pool),
		Assignments:   NewAssignmentRepository(pool),
		SwapRequests:  NewSwapRequestRepository(pool),
		Notifications: NewNotificationRepository(pool),
		Settings:      NewSettingRepository(pool),
	}
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
