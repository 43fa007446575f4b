package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/recovery-api/api/swagger"
	"github.com/noah-isme/recovery-api/internal/handler"
	"github.com/noah-isme/recovery-api/internal/middleware"
	"github.com/noah-isme/recovery-api/internal/models"
	"github.com/noah-isme/recovery-api/internal/repository"
	"github.com/noah-isme/recovery-api/internal/service"
	"github.com/noah-isme/recovery-api/pkg/cache"
	"github.com/noah-isme/recovery-api/pkg/config"
	"github.com/noah-isme/recovery-api/pkg/database"
	"github.com/noah-isme/recovery-api/pkg/jobs"
	"github.com/noah-isme/recovery-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/recovery-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/recovery-api/pkg/middleware/requestid"
	"github.com/noah-isme/recovery-api/pkg/storage"
)

// @title Recovery API
// @version 1.0.0
// @description Patient recovery outcomes: ODI assessments, check-ins, analytics and progress reports
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()
	validate := validator.New()

	checks := map[string]handler.Pinger{"postgres": handler.PingFunc(db.PingContext)}
	var cacheRepo service.CacheRepository
	if cfg.Outcomes.BenchmarkCache {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, benchmark cache disabled", zap.Error(err))
		} else {
			redisRepo := repository.NewCacheRepository(client, "recovery", logr)
			defer redisRepo.Close()
			cacheRepo = redisRepo
			checks["redis"] = redisRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Outcomes.BenchmarkCacheTTL, logr, cfg.Outcomes.BenchmarkCache)

	outcomeRepo := repository.NewOutcomeRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	checkInRepo := repository.NewCheckInRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	var auditWriter middleware.AuditWriter
	if cfg.Audit.Enabled {
		auditWriter = auditRepo
	}

	outcomeSvc := service.NewOutcomeService(service.OutcomeServiceParams{
		Store:      outcomeRepo,
		Benchmarks: outcomeRepo,
		Profiles:   patientRepo,
		Cache:      cacheSvc,
		Metrics:    metrics,
		Logger:     logr,
		Config: service.OutcomeServiceConfig{
			PersistSnapshots:  cfg.Outcomes.PersistSnapshots,
			BenchmarkCacheTTL: cfg.Outcomes.BenchmarkCacheTTL,
		},
	})
	assessmentSvc := service.NewAssessmentService(assessmentRepo, validate, logr)
	checkInSvc := service.NewCheckInService(checkInRepo, validate, logr)
	patientSvc := service.NewPatientService(patientRepo, validate, logr)
	accountSvc := service.NewAccountService(userRepo, auditWriter, validate, logr)
	authSvc := service.NewAuthService(userRepo, auditWriter, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      cfg.JWT.SingleSession,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	authJWT := middleware.JWT(authSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authJWT, authHandler.Logout)
	auth.GET("/me", authJWT, authHandler.Me)

	accountHandler := handler.NewAccountHandler(accountSvc)
	accounts := api.Group("/accounts", authJWT)
	accounts.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleProvider), accountHandler.List)
	accounts.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleProvider), accountHandler.Create)
	accounts.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), accountHandler.Deactivate)

	outcomeHandler := handler.NewOutcomeHandler(outcomeSvc)
	patientHandler := handler.NewPatientHandler(assessmentSvc, checkInSvc, patientSvc)

	patients := api.Group("/patients/:id", authJWT, middleware.PatientAccess())
	patients.GET("/outcomes", middleware.PatientRead(auditWriter, logr, "outcomes"), outcomeHandler.Snapshot)
	patients.GET("/outcomes/dashboard", middleware.PatientRead(auditWriter, logr, "outcomes_dashboard"), outcomeHandler.Dashboard)
	patients.GET("/assessments", middleware.PatientRead(auditWriter, logr, "assessments"), patientHandler.ListAssessments)
	patients.POST("/assessments", patientHandler.SubmitAssessment)
	patients.GET("/checkins", middleware.PatientRead(auditWriter, logr, "checkins"), patientHandler.ListCheckIns)
	patients.PUT("/checkins", patientHandler.UpsertCheckIn)
	patients.GET("/profile", middleware.PatientRead(auditWriter, logr, "profile"), patientHandler.GetProfile)
	patients.PUT("/profile", patientHandler.UpsertProfile)

	api.GET("/benchmarks", authJWT, outcomeHandler.Benchmark)
	api.DELETE("/benchmarks/cache", authJWT, middleware.RequireRoles(models.RoleAdmin), outcomeHandler.FlushBenchmarkCache)

	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		reportQueue, err = mountReports(ctx, api, authJWT, auditWriter, db, reportDeps{
			cfg:         cfg,
			logger:      logr,
			metrics:     metrics,
			validate:    validate,
			assessments: assessmentRepo,
			checkIns:    checkInRepo,
			profiles:    patientRepo,
			outcomes:    outcomeSvc,
		})
		if err != nil {
			logr.Fatal("failed to initialise reports", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	if reportQueue != nil {
		reportQueue.Stop()
	}
}

type reportDeps struct {
	cfg         *config.Config
	logger      *zap.Logger
	metrics     *service.MetricsService
	validate    *validator.Validate
	assessments *repository.AssessmentRepository
	checkIns    *repository.CheckInRepository
	profiles    *repository.PatientRepository
	outcomes    *service.OutcomeService
}

func mountReports(ctx context.Context, api *gin.RouterGroup, authJWT gin.HandlerFunc, audit middleware.AuditWriter, db *sqlx.DB, deps reportDeps) (*jobs.Queue, error) {
	cfg := deps.cfg.Reports
	store, err := storage.NewLocalStorage(cfg.StorageDir)
	if err != nil {
		return nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.SignedURLSecret, cfg.SignedURLTTL)

	exportSvc := service.NewExportService(service.ExportSources{
		Assessments: deps.assessments,
		CheckIns:    deps.checkIns,
		Profiles:    deps.profiles,
		Outcomes:    deps.outcomes,
	}, store, signer, service.ExportConfig{
		APIPrefix: deps.cfg.APIPrefix,
		ResultTTL: cfg.SignedURLTTL,
	}, deps.logger, nil, nil)

	reportRepo := repository.NewReportRepository(db)
	worker := service.NewReportWorker(reportRepo, exportSvc, cfg.WorkerRetries, deps.metrics, deps.logger)
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: worker.MaxRetries(),
		RetryDelay: 5 * time.Second,
		Logger:     deps.logger,
	})
	queue.Start(ctx)

	reportSvc := service.NewReportService(reportRepo, queue, exportSvc, deps.validate, deps.metrics, deps.logger, service.ReportServiceConfig{
		ResultTTL:       cfg.SignedURLTTL,
		CleanupInterval: cfg.CleanupInterval,
	})
	reportSvc.RecoverPendingJobs(ctx)
	reportSvc.StartCleanup(ctx)

	reportHandler := handler.NewReportHandler(reportSvc, deps.logger)
	reports := api.Group("/reports", authJWT)
	reports.POST("/generate", middleware.Audit(audit, deps.logger, models.AuditActionReportCreate, "reports"), reportHandler.GenerateReport)
	reports.GET("/:id", reportHandler.ReportStatus)
	api.GET("/export/:token", reportHandler.DownloadReport)

	return queue, nil
}
