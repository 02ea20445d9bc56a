package app

import (
	"database/sql"
	"os"

	"go-payroll/internal/compensation"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/overtime"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollperiod"
	"go-payroll/internal/statutory"
	"go-payroll/internal/timeentry"
	"go-payroll/internal/timesheet"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	timeEntryRepo := timeentry.NewRepository(gormDB)
	overtimeRepo := overtime.NewRepository(gormDB)
	compensationRepo := compensation.NewRepository(gormDB)
	statutoryRepo := statutory.NewRepository(gormDB)
	periodRepo := payrollperiod.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Domain core ---
	overtimeResolver := overtime.NewResolver(overtimeRepo)
	calculator := timesheet.NewCalculator(timeEntryRepo, overtimeResolver)
	statutoryEngine := statutory.NewEngine(statutoryRepo)

	// --- Services ---
	timeEntryService := timeentry.NewService(db, timeEntryRepo)
	overtimeService := overtime.NewService(db, overtimeRepo)
	compensationService := compensation.NewService(db, compensationRepo)
	statutoryService := statutory.NewService(db, statutoryRepo, statutoryEngine)
	periodService := payrollperiod.NewService(db, periodRepo)

	payslipDir := os.Getenv("PAYSLIP_DIR")
	if payslipDir == "" {
		payslipDir = "payslips"
	}
	payrollService := payroll.NewService(
		db,
		payrollRepo,
		outboxRepo,
		periodRepo,
		calculator,
		timeEntryRepo,
		compensationRepo,
		statutoryEngine,
		payslipDir,
	)

	// --- Handlers ---
	timeEntryHandler := timeentry.NewHandler(timeEntryService)
	overtimeHandler := overtime.NewHandler(overtimeService)
	timesheetHandler := timesheet.NewHandler(calculator)
	compensationHandler := compensation.NewHandler(compensationService)
	statutoryHandler := statutory.NewHandler(statutoryService)
	periodHandler := payrollperiod.NewHandler(periodService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		timeentry.RegisterRoutes(api, timeEntryHandler)
		overtime.RegisterRoutes(api, overtimeHandler)
		timesheet.RegisterRoutes(api, timesheetHandler)
		compensation.RegisterRoutes(api, compensationHandler)
		statutory.RegisterRoutes(api, statutoryHandler)
		payrollperiod.RegisterRoutes(api, periodHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
	}

	return nil
}
