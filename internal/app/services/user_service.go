package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
	"github.com/rosterd/rosterd/internal/pkg/auth"
)

// userStore is the slice of the user repository the user service needs
type userStore interface {
	Create(ctx context.Context, q db.Querier, user *models.User) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.User, error)
	UsernameExists(ctx context.Context, q db.Querier, username string) (bool, error)
	EmailExists(ctx context.Context, q db.Querier, email string) (bool, error)
	Update(ctx context.Context, q db.Querier, user *models.User) error
	Delete(ctx context.Context, q db.Querier, id uuid.UUID) error
	List(ctx context.Context, q db.Querier, offset, limit int) ([]*models.User, error)
}

// UserService handles user management
type UserService struct {
	users userStore
}

// NewUserService creates a new user service instance
func NewUserService(users userStore) *UserService {
	return &UserService{users: users}
}

// validateMentor checks that a trainee's mentor exists and is not a trainee
func (s *UserService) validateMentor(ctx context.Context, mentorID uuid.UUID) error {
	mentor, err := s.users.GetByID(ctx, nil, mentorID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrMentorNotFound
		}
		return fmt.Errorf("error checking mentor: %w", err)
	}
	if mentor.IsTrainee {
		return &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: "mentor cannot be a trainee"}
	}
	return nil
}

// CreateUser creates a new user account
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: err.Error()}
	}

	exists, err := s.users.UsernameExists(ctx, nil, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return nil, apperrors.ErrUsernameExists
	}

	exists, err = s.users.EmailExists(ctx, nil, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	if req.IsTrainee && req.MentorID != nil {
		if err := s.validateMentor(ctx, *req.MentorID); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:       req.Username,
		PasswordHash:   hash,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           role,
		IsTrainee:      req.IsTrainee,
		MentorID:       req.MentorID,
		TraineeEndDate: req.TraineeEndDate,
		IsActive:       true,
	}

	if err := s.users.Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, nil, id)
}

// ListUsers retrieves users page by page
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, nil, offset, limit)
}

// UpdateUser applies a partial update to a user. Role, trainee and activation
// fields may only be changed by an administrator.
func (s *UserService) UpdateUser(ctx context.Context, actorIsAdmin bool, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	if !actorIsAdmin {
		if req.Role != nil || req.IsTrainee != nil || req.MentorID != nil || req.TraineeEndDate != nil || req.IsActive != nil {
			return nil, apperrors.NewForbiddenError("only administrators may change role, trainee or activation fields")
		}
	}

	user, err := s.users.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.users.EmailExists(ctx, nil, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("error checking email: %w", err)
		}
		if exists {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = hash
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			return nil, &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: err.Error()}
		}
		user.Role = role
	}
	if req.IsTrainee != nil {
		user.IsTrainee = *req.IsTrainee
	}
	if req.MentorID != nil {
		if err := s.validateMentor(ctx, *req.MentorID); err != nil {
			return nil, err
		}
		user.MentorID = req.MentorID
	}
	if req.TraineeEndDate != nil {
		user.TraineeEndDate = req.TraineeEndDate
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user account
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, nil, id)
}
