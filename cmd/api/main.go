package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/authz"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	assignmentService "github.com/cmlabs-hris/payroll-backend-go/internal/service/assignment"
	attendanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/payroll-backend-go/internal/service/company"
	compensationService "github.com/cmlabs-hris/payroll-backend-go/internal/service/compensation"
	employeeService "github.com/cmlabs-hris/payroll-backend-go/internal/service/employee"
	equipmentService "github.com/cmlabs-hris/payroll-backend-go/internal/service/equipment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/file"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/migrations"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	setupLogger(cfg.App)

	if err := run(cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(app config.AppConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(app.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)
	slog.SetDefault(logger)
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DatabaseURL()
	migrator, err := database.NewMigrator(migrations.FS, dsn)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return err
	}
	_ = migrator.Close()

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	incrementRepo := postgresql.NewSalaryIncrementRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	equipmentRepo := postgresql.NewEquipmentRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	fileStorage, err := newFileStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	fileService := file.NewFileService(fileStorage)

	var summaryStore cache.Cache = cache.NoopCache{}
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.App.Name + ":",
		})
		if err != nil {
			return err
		}
		defer redisCache.Close()
		summaryStore = redisCache
	} else {
		slog.Info("Redis not configured, payroll summary cache disabled")
	}

	renderer := pdf.NewChromeRenderer(pdf.Options{
		RemoteURL: cfg.PDF.RemoteURL,
		Timeout:   cfg.PDF.Timeout,
		NoSandbox: cfg.PDF.NoSandbox,
	})
	defer renderer.Close()

	authzMode, err := authz.ParseMode(cfg.Authz.Mode, cfg.Authz.AllowUnsafeDisabled)
	if err != nil {
		return err
	}
	if authzMode != authz.ModeEnforce {
		slog.Warn("authorization is not enforced, permission denials will not block requests", "mode", authzMode)
	}
	authorizer, err := authz.NewAuthorizer(authzMode)
	if err != nil {
		return err
	}

	var googleService oauth.GoogleService
	if cfg.Google.Enabled() {
		googleService = oauth.NewGoogleService(oauth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       cfg.Google.Scopes,
		})
	} else {
		slog.Info("Google OAuth not configured, Google login disabled")
	}

	authService := serviceAuth.NewAuthService(tx, userRepo, companyRepo, JWTService, JWTRepository)
	companyService := serviceCompany.NewCompanyService(companyRepo)
	employeeService := employeeService.NewEmployeeService(employeeRepo)
	compensationService := compensationService.NewCompensationService(tx, employeeRepo, incrementRepo)
	attendanceService := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo)
	payrollService := payrollService.NewPayrollService(
		tx,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		companyRepo,
		payrollService.NewSummaryCache(summaryStore, cfg.Redis.SummaryTTL),
		renderer,
		fileService,
	)
	assignmentService := assignmentService.NewAssignmentService(tx, assignmentRepo, employeeRepo, equipmentRepo)
	equipmentService := equipmentService.NewEquipmentService(equipmentRepo, assignmentRepo)

	scheduler := cron.NewScheduler()
	cron.NewPayrollJobs(payrollService, cfg.Payroll.RecomputeInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	uploadsDir := ""
	if cfg.Storage.Type == "local" {
		uploadsDir = cfg.Storage.BasePath
	}

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		middleware.NewPermissions(authorizer),
		appHTTP.Handlers{
			Auth:         appHTTP.NewAuthHandler(JWTService, authService, googleService, cfg.Google.FrontendURL),
			Company:      appHTTP.NewCompanyHandler(companyService),
			Employee:     appHTTP.NewEmployeeHandler(employeeService),
			Compensation: appHTTP.NewCompensationHandler(compensationService),
			Attendance:   appHTTP.NewAttendanceHandler(attendanceService),
			Payroll:      appHTTP.NewPayrollHandler(payrollService),
			Assignment:   appHTTP.NewAssignmentHandler(assignmentService),
			Equipment:    appHTTP.NewEquipmentHandler(equipmentService),
		},
		uploadsDir,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "authz_mode", string(authzMode), "storage", cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newFileStorage(ctx context.Context, cfg config.StorageConfig) (storage.FileStorage, error) {
	switch cfg.Type {
	case "local":
		local, err := storage.NewLocalStorage(cfg.BasePath, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("init local storage: %w", err)
		}
		return local, nil
	case "s3":
		s3Storage, err := storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Storage, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
