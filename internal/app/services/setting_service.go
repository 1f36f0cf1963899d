package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/db"
)

// settingStore is the slice of the setting repository the service needs
type settingStore interface {
	List(ctx context.Context, q db.Querier) ([]*models.SystemSetting, error)
	GetByKey(ctx context.Context, q db.Querier, key string) (*models.SystemSetting, error)
	Upsert(ctx context.Context, q db.Querier, s *models.SystemSetting) error
}

// SettingService handles key/value system settings
type SettingService struct {
	settings settingStore
}

// NewSettingService creates a new setting service instance
func NewSettingService(settings settingStore) *SettingService {
	return &SettingService{settings: settings}
}

// ListSettings retrieves all settings
func (s *SettingService) ListSettings(ctx context.Context) ([]*models.SystemSetting, error) {
	return s.settings.List(ctx, nil)
}

// GetSetting retrieves one setting by key
func (s *SettingService) GetSetting(ctx context.Context, key string) (*models.SystemSetting, error) {
	return s.settings.GetByKey(ctx, nil, key)
}

// UpsertSetting creates or replaces a setting, recording who changed it
func (s *SettingService) UpsertSetting(ctx context.Context, adminID uuid.UUID, key string, req *dto.UpsertSettingRequest) (*models.SystemSetting, error) {
	setting := &models.SystemSetting{
		Key:         key,
		Value:       req.Value,
		Description: req.Description,
		UpdatedBy:   &adminID,
	}
	if err := s.settings.Upsert(ctx, nil, setting); err != nil {
		return nil, err
	}
	return setting, nil
}
