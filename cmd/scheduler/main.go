package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sarhadi-autos/ledger/internal/config"
	"github.com/sarhadi-autos/ledger/internal/repository"
	"github.com/sarhadi-autos/ledger/internal/service"
)

func main() {
	logrus.Info("Starting ledger scheduler...")

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	customerRepo := repository.NewCustomerRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	ledgerService := service.NewLedgerService(customerRepo, vehicleRepo, installmentRepo, redisClient, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logrus.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	setupCronJobs(c, cfg, ledgerService)

	c.Start()
	logrus.Info("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logrus.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, ledgerService *service.LedgerService) {
	// Daily snapshot refresh; rewrites the display cache columns and flags
	// overdue loans.
	_, err := c.AddFunc(cfg.Scheduler.OverdueSpec, func() {
		logrus.Info("Running snapshot refresh job...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		overdue, err := ledgerService.RefreshSnapshots(ctx)
		if err != nil {
			logrus.WithError(err).Error("Snapshot refresh job failed")
			return
		}
		logrus.WithField("overdue_loans", overdue).Info("Snapshot refresh job finished")
	})
	if err != nil {
		logrus.Fatalf("Error scheduling snapshot refresh job: %v", err)
	}

	// Weekly payment reminders for installments falling due soon.
	_, err = c.AddFunc(cfg.Scheduler.ReminderSpec, func() {
		logrus.Info("Running payment reminder job...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		due, err := ledgerService.DueSoon(ctx, cfg.Business.ReminderWindowDays)
		if err != nil {
			logrus.WithError(err).Error("Payment reminder job failed")
			return
		}

		for _, statement := range due {
			logrus.WithFields(logrus.Fields{
				"vehicle_id":          statement.Vehicle.ID,
				"registration_number": statement.Vehicle.RegistrationNumber,
				"next_due_date":       statement.Status.NextDueDate,
				"remaining_balance":   statement.Status.RemainingBalance,
			}).Info("Installment due soon")
		}
		logrus.WithField("due_soon", len(due)).Info("Payment reminder job finished")
	})
	if err != nil {
		logrus.Fatalf("Error scheduling payment reminder job: %v", err)
	}

	logrus.Info("Cron jobs scheduled successfully")
}
