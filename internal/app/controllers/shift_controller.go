package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/app/services"
	"github.com/rosterd/rosterd/internal/middleware"
)

// dateLayout is the calendar date format accepted by query parameters
const dateLayout = "2006-01-02"

// ShiftController handles shift management endpoints
type ShiftController struct {
	shiftService *services.ShiftService
}

// NewShiftController creates a new ShiftController
func NewShiftController(shiftService *services.ShiftService) *ShiftController {
	return &ShiftController{shiftService: shiftService}
}

// ListShifts retrieves shifts with optional filters
// @Summary List shifts
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Window start (2006-01-02)"
// @Param end_date query string false "Window end (2006-01-02)"
// @Param type query string false "Shift type" Enums(DAY_WORKDAY,DAY_HOLIDAY,NIGHT_WORKDAY,NIGHT_HOLIDAY)
// @Success 200 {object} dto.APIResponse{data=[]models.Shift} "Shifts retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /shifts [get]
func (c *ShiftController) ListShifts(ctx *gin.Context) {
	var filter dto.ShiftFilter

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
	if raw := ctx.Query("type"); raw != "" {
		filter.ShiftType = &raw
	}

	shifts, err := c.shiftService.ListShifts(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(shifts))
}

// GetShiftByID retrieves one shift
// @Summary Get shift details
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shift ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.Shift} "Shift retrieved"
// @Failure 404 {object} dto.ErrorResponse "Shift not found"
// @Router /shifts/{id} [get]
func (c *ShiftController) GetShiftByID(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	shift, err := c.shiftService.GetShiftByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(shift))
}

// CreateShift creates a new shift
// @Summary Create a shift
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateShiftRequest true "Shift information"
// @Success 201 {object} dto.APIResponse{data=models.Shift} "Shift created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /shifts [post]
func (c *ShiftController) CreateShift(ctx *gin.Context) {
	var req dto.CreateShiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid shift data", err.Error())
		return
	}

	shift, err := c.shiftService.CreateShift(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(shift))
}

// UpdateShift applies a partial update to a shift
// @Summary Update a shift
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shift ID" Format(uuid)
// @Param request body dto.UpdateShiftRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Shift} "Shift updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Shift not found"
// @Router /shifts/{id} [put]
func (c *ShiftController) UpdateShift(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateShiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid shift data", err.Error())
		return
	}

	shift, err := c.shiftService.UpdateShift(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(shift))
}

// DeleteShift removes a shift
// @Summary Delete a shift
// @Description Fails with a conflict while the shift still has assignments
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shift ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Shift deleted"
// @Failure 404 {object} dto.ErrorResponse "Shift not found"
// @Failure 409 {object} dto.ErrorResponse "Shift has assignments"
// @Router /shifts/{id} [delete]
func (c *ShiftController) DeleteShift(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.shiftService.DeleteShift(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Shift deleted"}))
}
