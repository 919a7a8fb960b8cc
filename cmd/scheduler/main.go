package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/lendana/loan-engine/internal/config"
	"github.com/lendana/loan-engine/internal/notify"
	"github.com/lendana/loan-engine/internal/repository"
	"github.com/lendana/loan-engine/internal/service"
	"github.com/lendana/loan-engine/pkg/metrics"
)

// reminderWindow is how far ahead the weekly reminder job looks for
// upcoming installments.
const reminderWindow = 7 * 24 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := newLogger(cfg)
	log.Info("Starting loan scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)

	collector := metrics.NewLogCollector(log, cfg.Metrics.SlowOpThreshold)
	loanService := service.NewLoanService(loanRepo, paymentRepo, redisClient, cfg, log, collector)
	authService := service.NewAuthService(userRepo, cfg, log)
	mailer := notify.NewMailer(&cfg.SMTP, log)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Warnf("Unknown timezone %q, using UTC", cfg.Scheduler.Timezone)
		location = time.UTC
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))
	setupCronJobs(c, cfg, log, loanService, authService, mailer)

	c.Start()
	log.Info("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	c.Stop()
	log.Info("Scheduler stopped")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}

func setupCronJobs(
	c *cron.Cron,
	cfg *config.Config,
	log *logrus.Logger,
	loanService *service.LoanService,
	authService *service.AuthService,
	mailer *notify.Mailer,
) {
	// Daily sweep flagging loans with a missed installment
	_, err := c.AddFunc(cfg.Scheduler.OverdueSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		marked, err := loanService.MarkOverdueLoans(ctx)
		if err != nil {
			log.WithError(err).Error("overdue sweep failed")
			return
		}
		log.WithField("marked", marked).Info("overdue sweep completed")
	})
	if err != nil {
		log.WithError(err).Error("scheduling overdue sweep")
	}

	// Weekly payment reminders for installments due in the coming week
	_, err = c.AddFunc(cfg.Scheduler.ReminderSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		sendPaymentReminders(ctx, log, loanService, authService, mailer)
	})
	if err != nil {
		log.WithError(err).Error("scheduling payment reminders")
	}

	log.Info("Cron jobs scheduled successfully")
}

func sendPaymentReminders(
	ctx context.Context,
	log *logrus.Logger,
	loanService *service.LoanService,
	authService *service.AuthService,
	mailer *notify.Mailer,
) {
	loans, err := loanService.LoansDueWithin(ctx, reminderWindow)
	if err != nil {
		log.WithError(err).Error("listing loans due soon")
		return
	}

	sent := 0
	for _, loan := range loans {
		user, err := authService.GetUser(ctx, loan.UserID)
		if err != nil {
			log.WithError(err).WithField("loan_id", loan.ID).Error("loading borrower for reminder")
			continue
		}

		summary, err := loanService.Summary(ctx, loan.ID)
		if err != nil {
			log.WithError(err).WithField("loan_id", loan.ID).Error("building summary for reminder")
			continue
		}

		if err := mailer.SendPaymentReminder(user, loan, summary); err != nil {
			log.WithError(err).WithField("loan_id", loan.ID).Error("sending reminder")
			continue
		}
		sent++
	}

	log.WithField("sent", sent).Info("payment reminders completed")
}
