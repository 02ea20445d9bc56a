package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-payroll/internal/compensation"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/overtime"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollperiod"
	"go-payroll/internal/shared/connection"
	"go-payroll/internal/statutory"
	"go-payroll/internal/timeentry"
	"go-payroll/internal/timesheet"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	timeEntryRepo := timeentry.NewRepository(gormDB)
	overtimeRepo := overtime.NewRepository(gormDB)
	compensationRepo := compensation.NewRepository(gormDB)
	statutoryRepo := statutory.NewRepository(gormDB)
	periodRepo := payrollperiod.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	calculator := timesheet.NewCalculator(timeEntryRepo, overtime.NewResolver(overtimeRepo))
	statutoryEngine := statutory.NewEngine(statutoryRepo)

	payslipDir := os.Getenv("PAYSLIP_DIR")
	if payslipDir == "" {
		payslipDir = "payslips"
	}
	payrollService := payroll.NewService(
		sqlDB,
		payrollRepo,
		outboxRepo,
		periodRepo,
		calculator,
		timeEntryRepo,
		compensationRepo,
		statutoryEngine,
		payslipDir,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayrollPayslipRequestedTopic,
		GroupID:        "go-payroll-payslip",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollPayslipRequested(ctx, reader, payrollService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
