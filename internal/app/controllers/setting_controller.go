package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/app/services"
	"github.com/rosterd/rosterd/internal/middleware"
)

// SettingController handles system setting endpoints
type SettingController struct {
	settingService *services.SettingService
}

// NewSettingController creates a new SettingController
func NewSettingController(settingService *services.SettingService) *SettingController {
	return &SettingController{settingService: settingService}
}

// ListSettings retrieves all system settings
// @Summary List system settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SystemSetting} "Settings retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /settings [get]
func (c *SettingController) ListSettings(ctx *gin.Context) {
	settings, err := c.settingService.ListSettings(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(settings))
}

// GetSetting retrieves one setting by key
// @Summary Get a system setting
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Success 200 {object} dto.APIResponse{data=models.SystemSetting} "Setting retrieved"
// @Failure 404 {object} dto.ErrorResponse "Setting not found"
// @Router /settings/{key} [get]
func (c *SettingController) GetSetting(ctx *gin.Context) {
	key := ctx.Param("key")

	setting, err := c.settingService.GetSetting(ctx.Request.Context(), key)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(setting))
}

// UpsertSetting creates or replaces a setting
// @Summary Upsert a system setting
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Param request body dto.UpsertSettingRequest true "Setting value"
// @Success 200 {object} dto.APIResponse{data=models.SystemSetting} "Setting saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /settings/{key} [put]
func (c *SettingController) UpsertSetting(ctx *gin.Context) {
	key := ctx.Param("key")
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	var req dto.UpsertSettingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid setting data", err.Error())
		return
	}

	setting, err := c.settingService.UpsertSetting(ctx.Request.Context(), actor.ID, key, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(setting))
}
