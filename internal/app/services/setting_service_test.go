package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
)

func TestSettingServiceUpsert(t *testing.T) {
	store := newFakeSettingStore()
	svc := NewSettingService(store)
	adminID := uuid.New()

	desc := "per-user monthly swap request cap"
	setting, err := svc.UpsertSetting(context.Background(), adminID, "swap_monthly_limit", &dto.UpsertSettingRequest{
		Value:       "5",
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, "5", setting.Value)
	require.NotNil(t, setting.UpdatedBy)
	assert.Equal(t, adminID, *setting.UpdatedBy)

	// Upsert on the same key replaces the value
	otherAdmin := uuid.New()
	updated, err := svc.UpsertSetting(context.Background(), otherAdmin, "swap_monthly_limit", &dto.UpsertSettingRequest{Value: "2"})
	require.NoError(t, err)
	assert.Equal(t, setting.ID, updated.ID)
	assert.Equal(t, "2", updated.Value)
	assert.Equal(t, otherAdmin, *updated.UpdatedBy)

	got, err := svc.GetSetting(context.Background(), "swap_monthly_limit")
	require.NoError(t, err)
	assert.Equal(t, "2", got.Value)

	_, err = svc.GetSetting(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrSettingNotFound)

	all, err := svc.ListSettings(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
