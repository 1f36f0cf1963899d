package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/app/services"
	"github.com/rosterd/rosterd/internal/middleware"
)

// SwapController handles shift swap request endpoints
type SwapController struct {
	swapService *services.SwapService
}

// NewSwapController creates a new SwapController
func NewSwapController(swapService *services.SwapService) *SwapController {
	return &SwapController{swapService: swapService}
}

// ListSwapRequests retrieves swap requests
// @Summary List swap requests
// @Description Non-admin callers only see requests they are a party to
// @Tags swap-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(pending,accepted,rejected,approved,cancelled)
// @Success 200 {object} dto.APIResponse{data=[]models.ShiftSwapRequest} "Requests retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Router /swap-requests [get]
func (c *SwapController) ListSwapRequests(ctx *gin.Context) {
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	var status *string
	if raw := ctx.Query("status"); raw != "" {
		status = &raw
	}

	requests, err := c.swapService.ListSwapRequests(ctx.Request.Context(), actor, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(requests))
}

// GetSwapRequest retrieves one swap request
// @Summary Get swap request details
// @Description Visible to the requester, the target and administrators
// @Tags swap-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.ShiftSwapRequest} "Request retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /swap-requests/{id} [get]
func (c *SwapController) GetSwapRequest(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	request, err := c.swapService.GetSwapRequest(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(request))
}

// ListUserSwapRequests retrieves every request a user is a party to
// @Summary List a user's swap requests
// @Tags swap-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]models.ShiftSwapRequest} "Requests retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /swap-requests/users/{id} [get]
func (c *SwapController) ListUserSwapRequests(ctx *gin.Context) {
	userID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}
	if actor.ID != userID && !actor.IsAdmin() {
		forbidden(ctx, "Cannot view another user's swap requests")
		return
	}

	requests, err := c.swapService.ListUserSwapRequests(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(requests))
}

// CreateSwapRequest opens a new swap request
// @Summary Create a swap request
// @Description The requester offers one of their assignments to a target user, optionally naming a target assignment to exchange
// @Tags swap-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSwapRequest true "Swap request"
// @Success 201 {object} dto.APIResponse{data=models.ShiftSwapRequest} "Request created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or assignment ownership"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User or assignment not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate request or monthly limit reached"
// @Router /swap-requests [post]
func (c *SwapController) CreateSwapRequest(ctx *gin.Context) {
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateSwapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid swap request data", err.Error())
		return
	}

	request, err := c.swapService.CreateSwapRequest(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(request))
}

// RespondSwapRequest records the target's decision
// @Summary Respond to a swap request
// @Description The target user accepts or rejects a pending request
// @Tags swap-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID" Format(uuid)
// @Param request body dto.RespondSwapRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.ShiftSwapRequest} "Decision recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid decision"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request is not pending"
// @Router /swap-requests/{id}/respond [patch]
func (c *SwapController) RespondSwapRequest(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	var req dto.RespondSwapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid response data", err.Error())
		return
	}

	request, err := c.swapService.Respond(ctx.Request.Context(), actor, id, req.Response)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(request))
}

// ApproveSwapRequest records the administrator's decision
// @Summary Approve or reject a swap request
// @Description On approval, the referenced assignments change hands atomically
// @Tags swap-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID" Format(uuid)
// @Param request body dto.ApproveSwapRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.ShiftSwapRequest} "Decision recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid decision"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request is not accepted"
// @Router /swap-requests/{id}/approve [patch]
func (c *SwapController) ApproveSwapRequest(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	var req dto.ApproveSwapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid approval data", err.Error())
		return
	}

	request, err := c.swapService.Approve(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(request))
}

// CancelSwapRequest withdraws a pending request
// @Summary Cancel a swap request
// @Description The requester withdraws their own pending request
// @Tags swap-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Swap request ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.ShiftSwapRequest} "Request cancelled"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request is not pending"
// @Router /swap-requests/{id}/cancel [patch]
func (c *SwapController) CancelSwapRequest(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := requireCurrentUser(ctx)
	if !ok {
		return
	}

	request, err := c.swapService.Cancel(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(request))
}
