package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"inovadata/internal/config"
	activity_logs "inovadata/internal/features/activity"
	datasets_controllers "inovadata/internal/features/datasets/controllers"
	datasets_services "inovadata/internal/features/datasets/services"
	experiments_controllers "inovadata/internal/features/experiments/controllers"
	experiments_services "inovadata/internal/features/experiments/services"
	projects_controllers "inovadata/internal/features/projects/controllers"
	projects_services "inovadata/internal/features/projects/services"
	"inovadata/internal/features/system"
	users_controllers "inovadata/internal/features/users/controllers"
	users_middleware "inovadata/internal/features/users/middleware"
	users_services "inovadata/internal/features/users/services"
	"inovadata/internal/storage"
	cache_utils "inovadata/internal/util/cache"
	env_utils "inovadata/internal/util/env"
	"inovadata/internal/util/logger"
	_ "inovadata/swagger" // swagger docs

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title InovaData Backend API
// @version 1.0
// @description Multi-tenant ML data platform: projects, datasets, processing and experiments

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	log := logger.GetLogger()
	config.StartListeningForShutdownSignal()

	cache_utils.TestCacheConnection()

	runMigrations(log)

	wireDeletionListeners()

	go generateSwaggerDocs(log)

	gin.SetMode(gin.ReleaseMode)
	ginApp := gin.Default()

	ginApp.Use(gzip.Gzip(
		gzip.DefaultCompression,
		// Dataset artifacts and images are already compressed
		gzip.WithExcludedExtensions(
			[]string{".png", ".gif", ".jpeg", ".jpg", ".ico", ".svg", ".pdf", ".zip"},
		),
	))

	enableCors(ginApp)
	setUpRoutes(ginApp)

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	workersWg := &sync.WaitGroup{}
	runBackgroundTasks(log, workersCtx, workersWg)

	startServerWithGracefulShutdown(log, ginApp, stopWorkers, workersWg)
}

func startServerWithGracefulShutdown(
	log *slog.Logger,
	app *gin.Engine,
	stopWorkers context.CancelFunc,
	workersWg *sync.WaitGroup,
) {
	host := ""
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		// for dev we bind localhost to avoid firewall prompts
		host = "127.0.0.1"
	}

	srv := &http.Server{
		Addr:    host + ":8080",
		Handler: app,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen:", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown:", "error", err)
	}

	stopWorkers()
	workersWg.Wait()

	storage.Shutdown()

	log.Info("Server gracefully stopped")
}

func setUpRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Mount Swagger UI
	v1.GET("/docs/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes (auth and health only)
	userController := users_controllers.GetUserController()
	userController.RegisterRoutes(v1)
	system.GetSystemController().RegisterPublicRoutes(v1)

	userService := users_services.GetUserService()
	authMiddleware := users_middleware.AuthMiddleware(userService)

	// Protected routes
	protected := v1.Group("")
	protected.Use(authMiddleware)

	userController.RegisterProtectedRoutes(protected)
	projects_controllers.GetProjectController().RegisterRoutes(protected)
	projects_controllers.GetMembershipController().RegisterRoutes(protected)
	datasets_controllers.GetDatasetController().RegisterRoutes(protected)
	datasets_controllers.GetVersionController().RegisterRoutes(protected)
	experiments_controllers.GetExperimentController().RegisterRoutes(protected)

	// Admin-only routes
	admin := protected.Group("")
	admin.Use(users_middleware.RequireAdmin())

	users_controllers.GetManagementController().RegisterRoutes(admin)
	activity_logs.GetActivityLogController().RegisterRoutes(admin)
	system.GetSystemController().RegisterAdminRoutes(admin)
}

// wireDeletionListeners registers the features that own project-scoped data
// so project deletion can cascade through them.
func wireDeletionListeners() {
	projectService := projects_services.GetProjectService()
	projectService.AddDeletionListener(datasets_services.GetDatasetService())
	projectService.AddDeletionListener(experiments_services.GetExperimentService())
}

func runBackgroundTasks(log *slog.Logger, ctx context.Context, wg *sync.WaitGroup) {
	log.Info("Preparing to run background tasks...")

	datasets_services.GetProcessingService().Start(ctx, wg)
	users_services.StartSessionSweeper(ctx, wg)

	log.Info("Background tasks started successfully")
}

// Keep in mind: docs appear after second launch, because Swagger
// is generated into Go files.
func generateSwaggerDocs(log *slog.Logger) {
	if config.GetEnv().EnvMode == env_utils.EnvModeProduction {
		return
	}

	currentDir, err := os.Getwd()
	if err != nil {
		log.Error("Failed to get current directory", "error", err)
		return
	}

	cmd := exec.Command("swag", "init", "-d", currentDir, "-g", "cmd/main.go", "-o", "swagger")

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error("Failed to generate Swagger docs", "error", err, "output", string(output))
		return
	}

	log.Info("Swagger documentation generated successfully")
}

func runMigrations(log *slog.Logger) {
	log.Info("Running database migrations...")

	cmd := exec.Command("goose", "up")
	cmd.Env = append(
		os.Environ(),
		"GOOSE_DRIVER=postgres",
		"GOOSE_DBSTRING="+config.GetEnv().DatabaseDsn,
		"GOOSE_MIGRATION_DIR=migrations",
	)

	cmd.Dir = config.GetEnv().BackendRootPath

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error("Failed to run migrations", "error", err, "output", string(output))
		os.Exit(1)
	}

	log.Info("Database migrations completed successfully", "output", string(output))
}

func enableCors(ginApp *gin.Engine) {
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		ginApp.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders: []string{
				"Origin",
				"Content-Length",
				"Content-Type",
				"Authorization",
				"Accept",
				"Accept-Language",
				"Accept-Encoding",
				"Access-Control-Request-Method",
				"Access-Control-Request-Headers",
				"Access-Control-Allow-Methods",
				"Access-Control-Allow-Headers",
				"Access-Control-Allow-Origin",
			},
			AllowCredentials: true,
		}))
	}
}
