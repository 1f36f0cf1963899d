package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rosterd/rosterd/internal/app/controllers"
	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	shiftController *controllers.ShiftController,
	scheduleController *controllers.ScheduleController,
	swapController *controllers.SwapController,
	notificationController *controllers.NotificationController,
	settingController *controllers.SettingController,
	authMiddleware *middleware.AuthMiddleware,
	pool *pgxpool.Pool,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	v1.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			c.JSON(503, dto.APIResponse{
				Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "database unreachable"),
			})
			return
		}
		c.JSON(200, dto.APIResponse{Data: gin.H{"status": "ok"}})
	})

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	users := authenticated.Group("/users")
	{
		users.GET("/me", userController.GetMe)
		users.GET("/:id", userController.GetUserByID)
		users.PUT("/:id", userController.UpdateUser)

		usersAdmin := users.Group("")
		usersAdmin.Use(adminOnly)
		{
			usersAdmin.GET("", userController.ListUsers)
			usersAdmin.POST("", userController.CreateUser)
			usersAdmin.DELETE("/:id", userController.DeleteUser)
		}
	}

	shifts := authenticated.Group("/shifts")
	{
		shifts.GET("", shiftController.ListShifts)
		shifts.GET("/:id", shiftController.GetShiftByID)

		shiftsAdmin := shifts.Group("")
		shiftsAdmin.Use(adminOnly)
		{
			shiftsAdmin.POST("", shiftController.CreateShift)
			shiftsAdmin.PUT("/:id", shiftController.UpdateShift)
			shiftsAdmin.DELETE("/:id", shiftController.DeleteShift)
		}
	}

	schedules := authenticated.Group("/schedules")
	{
		schedules.GET("", scheduleController.ListSchedules)
		schedules.GET("/users/:id", scheduleController.ListUserSchedules)

		schedulesAdmin := schedules.Group("")
		schedulesAdmin.Use(adminOnly)
		{
			schedulesAdmin.POST("/generate", scheduleController.Generate)
			schedulesAdmin.POST("/assignments", scheduleController.Assign)
			schedulesAdmin.DELETE("/assignments/:id", scheduleController.DeleteAssignment)
		}
	}

	swaps := authenticated.Group("/swap-requests")
	{
		swaps.GET("", swapController.ListSwapRequests)
		swaps.GET("/users/:id", swapController.ListUserSwapRequests)
		swaps.GET("/:id", swapController.GetSwapRequest)
		swaps.POST("", swapController.CreateSwapRequest)
		swaps.PATCH("/:id/respond", swapController.RespondSwapRequest)
		swaps.PATCH("/:id/cancel", swapController.CancelSwapRequest)

		swapsAdmin := swaps.Group("")
		swapsAdmin.Use(adminOnly)
		{
			swapsAdmin.PATCH("/:id/approve", swapController.ApproveSwapRequest)
		}
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", notificationController.ListNotifications)
		notifications.GET("/ws", notificationController.Subscribe)
		notifications.PATCH("/read-all", notificationController.MarkAllRead)
		notifications.PATCH("/:id/read", notificationController.MarkRead)
	}

	settings := authenticated.Group("/settings")
	settings.Use(adminOnly)
	{
		settings.GET("", settingController.ListSettings)
		settings.GET("/:key", settingController.GetSetting)
		settings.PUT("/:key", settingController.UpsertSetting)
	}
}
