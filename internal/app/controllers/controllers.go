package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/middleware"
)

// parseUUIDParam reads a UUID path parameter; on failure it writes the 400
// response itself and reports false.
func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithDetails(name + " must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}

// requireCurrentUser fetches the authenticated user; on failure it writes the
// 401 response itself and reports false.
func requireCurrentUser(ctx *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return user, true
}

// badRequest writes a 400 response with a validation error detail
func badRequest(ctx *gin.Context, message, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithDetails(details)
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// forbidden writes a 403 response
func forbidden(ctx *gin.Context, message string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, message)
	ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
}
