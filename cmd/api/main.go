package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/timewise-hq/timeclock-backend-go/internal/config"
	appHTTP "github.com/timewise-hq/timeclock-backend-go/internal/handler/http"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/cron"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/database"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/jwt"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/storage"
	"github.com/timewise-hq/timeclock-backend-go/internal/repository/cached"
	"github.com/timewise-hq/timeclock-backend-go/internal/repository/postgresql"
	authService "github.com/timewise-hq/timeclock-backend-go/internal/service/auth"
	employeeService "github.com/timewise-hq/timeclock-backend-go/internal/service/employee"
	reportService "github.com/timewise-hq/timeclock-backend-go/internal/service/report"
	timelogService "github.com/timewise-hq/timeclock-backend-go/internal/service/timelog"
	"github.com/timewise-hq/timeclock-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	timelogRepo := cached.NewTimelogRepository(postgresql.NewTimelogRepository(db), cfg.Workday.CacheTTL)
	employeeRepo := cached.NewEmployeeRepository(postgresql.NewEmployeeRepository(db), cfg.Workday.CacheTTL)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	calculator := timesheet.NewCalculator(
		cfg.Workday.CutoffHour,
		cfg.Workday.CutoffMinute,
		cfg.Workday.StandardHours,
	)

	reportSvc := reportService.NewReportService(timelogRepo, employeeRepo, calculator, fileStorage)
	timelogSvc := timelogService.NewTimelogService(timelogRepo, calculator, reportSvc)
	authSvc := authService.NewAuthService(employeeRepo, jwtService, cfg.App.AdminPassword)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	timelogHandler := appHTTP.NewTimelogHandler(timelogSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.Env,
		parseLogLevel(cfg.App.LogLevel),
		authHandler,
		timelogHandler,
		employeeHandler,
		reportHandler,
	)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("mirror-monthly-summary", time.Hour, func(ctx context.Context) error {
		return reportSvc.MirrorMonthlySummary(ctx)
	})
	scheduler.Start()
	defer scheduler.Stop()

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Starting server", "addr", addr, "env", cfg.App.Env)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server stopped:", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
