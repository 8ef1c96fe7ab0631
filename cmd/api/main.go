package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schoolworks/staff-backend-go/internal/config"
	"github.com/schoolworks/staff-backend-go/internal/fixtures"
	appHTTP "github.com/schoolworks/staff-backend-go/internal/handler/http"
	"github.com/schoolworks/staff-backend-go/internal/pkg/cron"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
	"github.com/schoolworks/staff-backend-go/internal/pkg/email"
	"github.com/schoolworks/staff-backend-go/internal/pkg/jwt"
	"github.com/schoolworks/staff-backend-go/internal/pkg/sse"
	"github.com/schoolworks/staff-backend-go/internal/repository/postgresql"
	attendanceService "github.com/schoolworks/staff-backend-go/internal/service/attendance"
	auditService "github.com/schoolworks/staff-backend-go/internal/service/audit"
	authService "github.com/schoolworks/staff-backend-go/internal/service/auth"
	employeeService "github.com/schoolworks/staff-backend-go/internal/service/employee"
	faceService "github.com/schoolworks/staff-backend-go/internal/service/face"
	leaveService "github.com/schoolworks/staff-backend-go/internal/service/leave"
	locationService "github.com/schoolworks/staff-backend-go/internal/service/location"
	notificationService "github.com/schoolworks/staff-backend-go/internal/service/notification"
	payrollService "github.com/schoolworks/staff-backend-go/internal/service/payroll"
	reportService "github.com/schoolworks/staff-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Repositories
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	faceRepo := postgresql.NewFaceRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	if err := fixtures.Seed(context.Background(), userRepo, leaveTypeRepo); err != nil {
		slog.Error("failed to seed defaults", "error", err)
		os.Exit(1)
	}

	// Infrastructure services
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	emailSvc, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		slog.Error("failed to initialize email service", "error", err)
		os.Exit(1)
	}
	hub := sse.NewHub()

	// Background services
	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{})
	auditSvc := auditService.NewAuditService(auditRepo, userRepo, notificationSvc, emailSvc, auditService.Config{})

	// Domain services
	authSvc := authService.NewAuthService(userRepo, jwtService, auditSvc)
	faceSvc := faceService.NewFaceService(faceRepo, employeeRepo, notificationSvc, auditSvc, cfg.Face)
	locationSvc := locationService.NewLocationService(locationRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		locationRepo,
		leaveRequestRepo,
		faceSvc,
		notificationSvc,
		auditSvc,
		cfg.Attendance,
		cfg.Face,
		cfg.Payroll.StandardHoursPerDay,
	)
	leaveSvc := leaveService.NewLeaveService(
		db,
		leaveTypeRepo,
		leaveBalanceRepo,
		leaveRequestRepo,
		employeeRepo,
		userRepo,
		notificationSvc,
		auditSvc,
		emailSvc,
		cfg.Leave,
	)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		notificationSvc,
		auditSvc,
		emailSvc,
		cfg.Payroll,
	)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, locationRepo, leaveSvc, auditSvc)
	reportSvc := reportService.NewReportService(reportRepo, payrollRepo, employeeRepo)

	router := appHTTP.NewRouter(jwtService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(jwtService, authSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Location:     appHTTP.NewLocationHandler(locationSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Face:         appHTTP.NewFaceHandler(faceSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc, jwtService),
		Audit:        appHTTP.NewAuditHandler(auditSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
	})

	// Background jobs
	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(attendanceSvc, attendanceRepo, employeeRepo, userRepo, notificationSvc)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server started", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	scheduler.Stop()
	hub.Shutdown()
	notificationSvc.Stop()
	auditSvc.Stop()

	slog.Info("shutdown complete")
}
