package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/app/repositories"
	"github.com/rosterd/rosterd/internal/app/services"
	"github.com/rosterd/rosterd/internal/middleware"
)

// ScheduleController handles schedule assignment endpoints
type ScheduleController struct {
	scheduleService *services.ScheduleService
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService *services.ScheduleService) *ScheduleController {
	return &ScheduleController{scheduleService: scheduleService}
}

// ListSchedules retrieves schedule assignments
// @Summary List schedule assignments
// @Description Non-admin callers only see their own assignments
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Window start (2006-01-02)"
// @Param end_date query string false "Window end (2006-01-02)"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleAssignment} "Assignments retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /schedules [get]
func (c *ScheduleController) ListSchedules(ctx *gin.Context) {
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	var filter repositories.AssignmentFilter
	if raw := ctx.Query("start_date"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			badRequest(ctx, "Invalid start_date", "start_date must use the 2006-01-02 format")
			return
		}
		filter.StartDate = &t
	}
	if raw := ctx.Query("end_date"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			badRequest(ctx, "Invalid end_date", "end_date must use the 2006-01-02 format")
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	assignments, err := c.scheduleService.ListAssignments(ctx.Request.Context(), actor, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(assignments))
}

// ListUserSchedules retrieves one user's assignments
// @Summary List a user's schedule
// @Description Users can view their own schedule; administrators can view anyone's
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleAssignment} "Assignments retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /schedules/users/{id} [get]
func (c *ScheduleController) ListUserSchedules(ctx *gin.Context) {
	userID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}
	if actor.ID != userID && !actor.IsAdmin() {
		forbidden(ctx, "Cannot view another user's schedule")
		return
	}

	assignments, err := c.scheduleService.ListUserAssignments(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(assignments))
}

// Assign manually places a user on a shift
// @Summary Create an assignment
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignScheduleRequest true "Assignment"
// @Success 201 {object} dto.APIResponse{data=models.ScheduleAssignment} "Assignment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "User or shift not found"
// @Failure 409 {object} dto.ErrorResponse "User already assigned to this shift"
// @Router /schedules/assignments [post]
func (c *ScheduleController) Assign(ctx *gin.Context) {
	var req dto.AssignScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid assignment data", err.Error())
		return
	}

	assignment, err := c.scheduleService.Assign(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(assignment))
}

// DeleteAssignment removes an assignment
// @Summary Delete an assignment
// @Description Also removes swap requests referencing the assignment
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Assignment deleted"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /schedules/assignments/{id} [delete]
func (c *ScheduleController) DeleteAssignment(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.scheduleService.DeleteAssignment(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Assignment deleted"}))
}

// Generate builds the schedule for a date range
// @Summary Generate the schedule
// @Description Replaces all assignments of every shift in the range with a fresh round-robin rotation
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Range start (2006-01-02)"
// @Param end_date query string true "Range end (2006-01-02), inclusive"
// @Success 201 {object} dto.APIResponse{data=[]models.ScheduleAssignment} "Schedule generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid date range"
// @Failure 404 {object} dto.ErrorResponse "No shifts or no active users in range"
// @Router /schedules/generate [post]
func (c *ScheduleController) Generate(ctx *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, "Invalid generation range", err.Error())
		return
	}

	startDate, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local)
	if err != nil {
		badRequest(ctx, "Invalid start_date", "start_date must use the 2006-01-02 format")
		return
	}
	endDate, err := time.ParseInLocation(dateLayout, req.EndDate, time.Local)
	if err != nil {
		badRequest(ctx, "Invalid end_date", "end_date must use the 2006-01-02 format")
		return
	}

	assignments, err := c.scheduleService.Generate(ctx.Request.Context(), startDate, endDate)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(assignments))
}
