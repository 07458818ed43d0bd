package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/pdvlite/pos-engine/internal/config"
	"github.com/pdvlite/pos-engine/internal/repository"
	"github.com/pdvlite/pos-engine/internal/service"
	"github.com/pdvlite/pos-engine/pkg/utils"
)

func main() {
	log.Println("Starting ledger scheduler...")

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ledger := service.NewLedgerService(
		repository.NewPaymentRepository(db),
		repository.NewSaleRepository(db),
		cfg,
	)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds())

	// Schedule tasks
	setupCronJobs(c, cfg, ledger)

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, ledger *service.LedgerService) {
	// Daily job to refresh the stored status of overdue payments
	_, err := c.AddFunc(cfg.Scheduler.OverdueSpec, func() {
		log.Println("Running overdue payment sweep...")
		markOverduePayments(ledger)
	})
	if err != nil {
		log.Printf("Error scheduling overdue payment sweep: %v", err)
	}

	// Weekly job to log payments due soon
	_, err = c.AddFunc(cfg.Scheduler.ReminderSpec, func() {
		log.Println("Running payment reminder job...")
		logDueSoonPayments(ledger, cfg.Scheduler.ReminderWindowDays)
	})
	if err != nil {
		log.Printf("Error scheduling payment reminder job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

func markOverduePayments(ledger *service.LedgerService) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	marked, err := ledger.MarkOverduePayments(ctx, time.Now())
	if err != nil {
		log.Printf("Overdue payment sweep failed: %v", err)
		return
	}
	log.Printf("Overdue payment sweep complete, %d payment(s) marked", marked)
}

func logDueSoonPayments(ledger *service.LedgerService, windowDays int) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dueSoon, err := ledger.DueSoonPayments(ctx, time.Now(), windowDays)
	if err != nil {
		log.Printf("Payment reminder job failed: %v", err)
		return
	}

	for _, p := range dueSoon {
		log.Printf("Reminder: payment %s for sale %s due %s, remaining %s",
			p.ID, p.SaleID, utils.FormatDate(p.DueDate), p.RemainingValue())
	}
	log.Printf("Payment reminder job complete, %d payment(s) due within %d day(s)", len(dueSoon), windowDays)
}
