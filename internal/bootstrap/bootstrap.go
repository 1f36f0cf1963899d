package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/rosterd/rosterd/internal/app/controllers"
	appMigrations "github.com/rosterd/rosterd/internal/app/migrations"
	appRepos "github.com/rosterd/rosterd/internal/app/repositories"
	appRoutes "github.com/rosterd/rosterd/internal/app/routes"
	appServices "github.com/rosterd/rosterd/internal/app/services"
	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/db"
	appMiddleware "github.com/rosterd/rosterd/internal/middleware"
	pkgAuth "github.com/rosterd/rosterd/internal/pkg/auth"
	"github.com/rosterd/rosterd/internal/pkg/helpers"
	"github.com/rosterd/rosterd/internal/pkg/logger"
	"github.com/rosterd/rosterd/internal/pkg/ws"
	"github.com/rosterd/rosterd/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	JWTService     *pkgAuth.JWTService
	Hub            *ws.Hub
	AuthMiddleware *appMiddleware.AuthMiddleware

	AuthController         *appControllers.AuthController
	UserController         *appControllers.UserController
	ShiftController        *appControllers.ShiftController
	ScheduleController     *appControllers.ScheduleController
	SwapController         *appControllers.SwapController
	NotificationController *appControllers.NotificationController
	SettingController      *appControllers.SettingController

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		configPath = env
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, database.Pool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Hub = ws.NewHub(lgr)
	go deps.Hub.Run()

	deps.Services = appServices.NewServices(database, deps.Repos, deps.JWTService, deps.Hub)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.Users)

	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth)
	deps.UserController = appControllers.NewUserController(deps.Services.Users)
	deps.ShiftController = appControllers.NewShiftController(deps.Services.Shifts)
	deps.ScheduleController = appControllers.NewScheduleController(deps.Services.Schedules)
	deps.SwapController = appControllers.NewSwapController(deps.Services.Swaps)
	deps.NotificationController = appControllers.NewNotificationController(deps.Services.Notifications, deps.Hub)
	deps.SettingController = appControllers.NewSettingController(deps.Services.Settings)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, database *db.PostgresDB, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ShiftController,
		deps.ScheduleController,
		deps.SwapController,
		deps.NotificationController,
		deps.SettingController,
		deps.AuthMiddleware,
		database.Pool,
	)

	return router
}
