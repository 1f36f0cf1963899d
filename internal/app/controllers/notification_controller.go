package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/app/services"
	"github.com/rosterd/rosterd/internal/middleware"
	"github.com/rosterd/rosterd/internal/pkg/logger"
	"github.com/rosterd/rosterd/internal/pkg/ws"
)

// NotificationController handles notification inbox endpoints
type NotificationController struct {
	notificationService *services.NotificationService
	hub                 *ws.Hub
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService, hub *ws.Hub) *NotificationController {
	return &NotificationController{notificationService: notificationService, hub: hub}
}

// ListNotifications retrieves the caller's notifications
// @Summary List own notifications
// @Description Newest first, optionally filtered by read state
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param is_read query bool false "Filter by read state"
// @Success 200 {object} dto.APIResponse{data=[]models.Notification} "Notifications retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	var isRead *bool
	if raw := ctx.Query("is_read"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(ctx, "Invalid is_read filter", "is_read must be true or false")
			return
		}
		isRead = &value
	}

	notifications, err := c.notificationService.ListNotifications(ctx.Request.Context(), actor.ID, isRead)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(notifications))
}

// MarkRead flags one notification as read
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Notification marked as read"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), actor.ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Notification marked as read"}))
}

// MarkAllRead flags all of the caller's notifications as read
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Notifications marked as read"
// @Router /notifications/read-all [patch]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	updated, err := c.notificationService.MarkAllRead(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"updated": updated}))
}

// Subscribe upgrades the connection to a websocket and streams new
// notifications to the caller as they are created.
// @Summary Subscribe to notification pushes
// @Description Upgrades to a websocket; the token may be passed as a query parameter
// @Tags notifications
// @Security BearerAuth
// @Success 101 "Switching protocols"
// @Router /notifications/ws [get]
func (c *NotificationController) Subscribe(ctx *gin.Context) {
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	if err := ws.ServeClient(c.hub, ctx.Writer, ctx.Request, actor.ID); err != nil {
		logger.Error().Err(err).Str("userID", actor.ID.String()).Msg("Websocket upgrade failed")
	}
}
