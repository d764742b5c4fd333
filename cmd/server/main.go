package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/formaplan/formaplan-api/api/swagger"
	"github.com/formaplan/formaplan-api/internal/handler"
	"github.com/formaplan/formaplan-api/internal/middleware"
	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/repository"
	"github.com/formaplan/formaplan-api/internal/service"
	"github.com/formaplan/formaplan-api/pkg/cache"
	"github.com/formaplan/formaplan-api/pkg/config"
	"github.com/formaplan/formaplan-api/pkg/database"
	"github.com/formaplan/formaplan-api/pkg/export"
	"github.com/formaplan/formaplan-api/pkg/jobs"
	"github.com/formaplan/formaplan-api/pkg/logger"
	corsmiddleware "github.com/formaplan/formaplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/formaplan/formaplan-api/pkg/middleware/requestid"
)

const (
	jobEnrollmentAlertScan = "enrollment-alert-scan"
	jobMessageCleanup      = "message-cleanup"
)

// @title FormaPlan API
// @version 1.0.0
// @description Scheduling and attendance management for training organizations
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, schedule cache and admin lock disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	traineeRepo := repository.NewTraineeRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	lockRepo := repository.NewAdminLockRepository(redisClient)

	metricsSvc := service.NewMetricsService()

	lockSvc := service.NewAdminLockService(lockRepo, logr, service.AdminLockConfig{
		Enabled: cfg.AdminLock.Enabled && redisClient != nil,
		TTL:     cfg.AdminLock.TTL,
	})

	authSvc := service.NewAuthService(userRepo, lockSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "formaplan-api",
	})

	scheduleSvc := service.NewScheduleService(trainerRepo, templateRepo, absenceRepo, assignmentRepo, cacheRepo, logr, service.ScheduleServiceConfig{
		WeekCacheTTL: cfg.Schedule.WeekCacheTTL,
	})

	trainerSvc := service.NewTrainerService(trainerRepo, scheduleSvc, validate, logr)
	traineeSvc := service.NewTraineeService(traineeRepo, scheduleSvc, validate, logr)
	locationSvc := service.NewLocationService(locationRepo, scheduleSvc, validate, logr)
	templateSvc := service.NewTemplateService(templateRepo, scheduleSvc, validate, logr)
	absenceSvc := service.NewAbsenceService(absenceRepo, scheduleSvc, validate, logr)

	autofillSvc := service.NewAutofillService(trainerRepo, traineeRepo, templateRepo, absenceRepo, assignmentRepo, scheduleSvc, logr)
	attendanceSvc := service.NewAttendanceService(presenceRepo, scheduleSvc, trainerRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	dashboardSvc := service.NewDashboardService(scheduleSvc, cacheRepo, logr, service.DashboardServiceConfig{
		Enabled:  cfg.Dashboard.Enabled,
		CacheTTL: cfg.Dashboard.CacheTTL,
	})

	auditSvc := service.NewAuditService(templateRepo, absenceRepo, trainerRepo, logr)
	messageSvc := service.NewMessageService(messageRepo, validate, logr, service.MessageServiceConfig{
		RetentionDays: cfg.Messages.RetentionDays,
	})
	alertSvc := service.NewAlertService(traineeRepo, messageRepo, userRepo, logr, service.AlertServiceConfig{
		LeadDays: cfg.Alerts.LeadDays,
	})

	queue := jobs.NewQueue("maintenance", func(ctx context.Context, job jobs.Job) error {
		switch job.Type {
		case jobEnrollmentAlertScan:
			_, err := alertSvc.ScanEnrollmentEnds(ctx, time.Now().UTC())
			return err
		case jobMessageCleanup:
			_, err := messageSvc.Cleanup(ctx, time.Now().UTC())
			return err
		default:
			logr.Sugar().Warnw("unknown job type", "type", job.Type)
			return nil
		}
	}, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()
	if cfg.Alerts.Enabled {
		queue.EnqueueEvery(cfg.Alerts.ScanInterval, jobEnrollmentAlertScan, nil)
	}
	queue.EnqueueEvery(24*time.Hour, jobMessageCleanup, nil)

	authHandler := handler.NewAuthHandler(authSvc, lockSvc)
	trainerHandler := handler.NewTrainerHandler(trainerSvc)
	traineeHandler := handler.NewTraineeHandler(traineeSvc)
	locationHandler := handler.NewLocationHandler(locationSvc)
	templateHandler := handler.NewTemplateHandler(templateSvc)
	absenceHandler := handler.NewAbsenceHandler(absenceSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, autofillSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	authSession := auth.Group("", middleware.JWT(authSvc))
	authSession.POST("/logout", authHandler.Logout)
	authSession.POST("/change-password", authHandler.ChangePassword)
	authSession.GET("/me", authHandler.Me)
	authSession.POST("/lock/heartbeat", middleware.RequireRoles(models.RoleAdmin), authHandler.LockHeartbeat)
	authSession.POST("/lock/steal", middleware.RequireRoles(models.RoleAdmin), authHandler.LockSteal)

	protected := api.Group("", middleware.JWT(authSvc), middleware.AdminLock(lockSvc))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator, models.RoleTrainer)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	trainers := protected.Group("/trainers")
	trainers.GET("", anyRole, trainerHandler.List)
	trainers.GET("/:id", anyRole, trainerHandler.Get)
	trainers.POST("", staff, trainerHandler.Create)
	trainers.PUT("/:id", staff, trainerHandler.Update)
	trainers.DELETE("/:id", adminOnly, trainerHandler.Archive)

	trainees := protected.Group("/trainees")
	trainees.GET("", staff, traineeHandler.List)
	trainees.GET("/:id", staff, traineeHandler.Get)
	trainees.POST("", staff, traineeHandler.Create)
	trainees.PUT("/:id", staff, traineeHandler.Update)
	trainees.DELETE("/:id", adminOnly, traineeHandler.Archive)
	trainees.POST("/:id/suspensions", staff, traineeHandler.Suspend)

	locations := protected.Group("/locations")
	locations.GET("", anyRole, locationHandler.List)
	locations.GET("/:id", anyRole, locationHandler.Get)
	locations.POST("", adminOnly, locationHandler.Create)
	locations.PUT("/:id", adminOnly, locationHandler.Update)
	locations.DELETE("/:id", adminOnly, locationHandler.Archive)

	templates := protected.Group("/templates")
	templates.GET("", anyRole, templateHandler.List)
	templates.GET("/duplicates", staff, templateHandler.Duplicates)
	templates.POST("", anyRole, templateHandler.Create)
	templates.PUT("/:id", anyRole, templateHandler.Update)
	templates.POST("/:id/validate", adminOnly, templateHandler.Validate)
	templates.DELETE("/:id", adminOnly, templateHandler.Delete)

	absences := protected.Group("/absences")
	absences.GET("", anyRole, absenceHandler.List)
	absences.GET("/:id", anyRole, absenceHandler.Get)
	absences.POST("", anyRole, absenceHandler.Declare)
	absences.POST("/:id/validate", adminOnly, absenceHandler.Validate)
	absences.POST("/:id/cancel", adminOnly, absenceHandler.Cancel)

	schedule := protected.Group("/schedule")
	schedule.GET("/week", anyRole, scheduleHandler.Week)
	schedule.GET("/candidates", staff, scheduleHandler.Candidates)
	schedule.POST("/autofill", staff, scheduleHandler.Autofill)

	attendance := protected.Group("/attendance")
	attendance.GET("", staff, attendanceHandler.Declarations)
	attendance.GET("/sheet", staff, attendanceHandler.Sheet)
	attendance.POST("", anyRole, attendanceHandler.Declare)

	protected.GET("/dashboard", staff, dashboardHandler.Overview)

	audit := protected.Group("/audit", adminOnly)
	audit.GET("", auditHandler.Report)
	audit.DELETE("/orphans", auditHandler.PurgeOrphans)

	messages := protected.Group("/messages")
	messages.GET("", anyRole, messageHandler.Inbox)
	messages.POST("", anyRole, messageHandler.Send)
	messages.POST("/:id/read", anyRole, messageHandler.MarkRead)

	protected.GET("/metrics/snapshot", adminOnly, metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
